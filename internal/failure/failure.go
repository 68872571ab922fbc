package failure

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind classifies an operator-facing failure. Each kind maps to a process exit code.
type Kind int

const (
	// KindOverwriteDenied means a file would have been overwritten without --force.
	KindOverwriteDenied Kind = iota + 1
	// KindUpstreamFileMissing means another subsystem must run first to produce a file.
	KindUpstreamFileMissing
	// KindUpstreamDataMissing means a referenced entity (such as a user) was never created.
	KindUpstreamDataMissing
	// KindRemoteAPI means the Twitter API rejected or failed a call.
	KindRemoteAPI
	// KindParse means a persisted file could not be decoded.
	KindParse
)

// ExitOther is returned for errors that carry no Kind (IO failures, flag misuse).
const ExitOther = 5

func (k Kind) String() string {
	switch k {
	case KindOverwriteDenied:
		return "overwrite_denied"
	case KindUpstreamFileMissing:
		return "upstream_file_missing"
	case KindUpstreamDataMissing:
		return "upstream_data_missing"
	case KindRemoteAPI:
		return "remote_api"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit value for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindOverwriteDenied:
		return 1
	case KindUpstreamFileMissing, KindUpstreamDataMissing:
		return 2
	case KindRemoteAPI:
		return 3
	case KindParse:
		return 4
	default:
		return ExitOther
	}
}

// Diagnostic is one positioned message from a failed decode. Line and Column are
// 1-based; zero means the position is unknown.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line <= 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Error is the typed failure value returned by tweetr operations.
type Error struct {
	Kind        Kind
	Path        string
	Subsystem   string
	Description string
	Diagnostics []Diagnostic
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindOverwriteDenied:
		return fmt.Sprintf("refusing to overwrite %s", e.Path)
	case KindUpstreamFileMissing:
		return fmt.Sprintf("%s not found (produced by %s)", e.Path, e.Subsystem)
	case KindUpstreamDataMissing:
		return fmt.Sprintf("%s required: %s", e.Subsystem, e.Description)
	case KindRemoteAPI:
		return "twitter api: " + e.Description
	case KindParse:
		msgs := make([]string, 0, len(e.Diagnostics))
		for _, d := range e.Diagnostics {
			msgs = append(msgs, d.String())
		}
		if len(msgs) == 0 {
			return "parse " + e.Description
		}
		return fmt.Sprintf("parse %s: %s", e.Description, strings.Join(msgs, "; "))
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Description
	}
}

func (e *Error) Unwrap() error { return e.Err }

// OverwriteDenied reports that path exists and --force was not given.
func OverwriteDenied(path string) *Error {
	return &Error{Kind: KindOverwriteDenied, Path: path}
}

// UpstreamFileMissing reports that subsystem must run first to create path.
func UpstreamFileMissing(subsystem, path string) *Error {
	return &Error{Kind: KindUpstreamFileMissing, Subsystem: subsystem, Path: path}
}

// UpstreamDataMissing reports that subsystem must run first to create the described data.
func UpstreamDataMissing(subsystem, description string) *Error {
	return &Error{Kind: KindUpstreamDataMissing, Subsystem: subsystem, Description: description}
}

// RemoteAPI wraps a failed Twitter API call.
func RemoteAPI(err error) *Error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindRemoteAPI, Description: msg, Err: err}
}

// Parse reports a malformed persisted file.
func Parse(description string, diagnostics ...Diagnostic) *Error {
	return &Error{Kind: KindParse, Description: description, Diagnostics: diagnostics}
}

// KindOf extracts the Kind from err, or 0 when err is not a *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps err to the process exit value. A nil error exits 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}

// PrintHint writes the remediation text for err. Errors without a Kind are printed verbatim.
func PrintHint(w io.Writer, err error) {
	if err == nil {
		return
	}
	var fe *Error
	if !errors.As(err, &fe) {
		fmt.Fprintln(w, err)
		return
	}
	switch fe.Kind {
	case KindOverwriteDenied:
		fmt.Fprintf(w, "File %q was not overwritten to prevent data loss.\n", fe.Path)
		fmt.Fprintln(w, "Pass --force to overwrite it.")
	case KindUpstreamFileMissing:
		fmt.Fprintf(w, "Run the %s subsystem first to produce %q.\n", fe.Subsystem, fe.Path)
	case KindUpstreamDataMissing:
		fmt.Fprintf(w, "Run the %s subsystem first to %s.\n", fe.Subsystem, fe.Description)
	case KindRemoteAPI:
		fmt.Fprintf(w, "Twitter API error: %s\n", fe.Description)
	case KindParse:
		fmt.Fprintf(w, "Failed to parse %s:\n", fe.Description)
		for _, d := range fe.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	default:
		fmt.Fprintln(w, fe.Error())
	}
}
