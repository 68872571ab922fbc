package main

import (
	"context"
	"errors"
	"io"
	"os"

	"tweetr/internal/failure"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) {
		failure.PrintHint(errOut, err)
	}
	return failure.ExitCode(err)
}
