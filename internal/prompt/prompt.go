// Package prompt reads operator answers from a line-oriented input. Every
// prompt re-asks until its acceptance rule is met and fails only when the input
// ends.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInputTooShort is returned when the input ends before a value is accepted.
var ErrInputTooShort = errors.New("input ended before a value was entered")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New wraps in and out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Writer exposes the prompt output for progress messages.
func (p *Prompter) Writer() io.Writer {
	return p.out
}

// ExactLen asks until the trimmed answer is exactly n characters long.
func (p *Prompter) ExactLen(label string, n int) (string, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		if utf8.RuneCountInString(answer) == n {
			return answer, nil
		}
	}
}

// NonEmpty asks until the trimmed answer is non-empty and accepted. A nil
// accept allows any answer.
func (p *Prompter) NonEmpty(label string, accept func(string) bool) (string, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		if answer != "" && (accept == nil || accept(answer)) {
			return answer, nil
		}
	}
}

// Optional asks once more for every rejected answer. An empty answer or the
// end of input returns ok == false.
func (p *Prompter) Optional(label string, accept func(string) bool) (string, bool, error) {
	for {
		answer, err := p.ask(label)
		if errors.Is(err, ErrInputTooShort) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if answer == "" {
			return "", false, nil
		}
		if accept == nil || accept(answer) {
			return answer, true, nil
		}
	}
}

// Multiline asks for text that may span several lines. A line ending in a
// backslash continues on the next line; continuation lines are prompted with
// padding aligned to the label. Empty or rejected answers are asked again.
func (p *Prompter) Multiline(label string, accept func(string) bool) (string, error) {
	head := label + ": "
	pad := strings.Repeat(" ", len(head))
	for {
		if _, err := io.WriteString(p.out, head); err != nil {
			return "", err
		}
		var lines []string
		for {
			line, err := p.readLine()
			if err != nil {
				return "", err
			}
			if continued, ok := strings.CutSuffix(line, `\`); ok {
				lines = append(lines, continued)
				if _, err := io.WriteString(p.out, pad); err != nil {
					return "", err
				}
				continue
			}
			lines = append(lines, line)
			break
		}
		answer := strings.TrimSpace(strings.Join(lines, "\n"))
		if answer != "" && (accept == nil || accept(answer)) {
			return answer, nil
		}
	}
}

func (p *Prompter) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrInputTooShort
			}
		} else {
			return "", fmt.Errorf("read input: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
