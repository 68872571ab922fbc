// Command tweetrd runs the tweetr posting daemon without the interactive
// command tree. It is the target of the systemd unit: configuration comes from
// the tool config file and the TWEETR_* environment variables.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"tweetr/internal/config"
	"tweetr/internal/daemonrun"
	"tweetr/internal/failure"
)

func main() {
	os.Exit(run(context.Background(), os.Getenv("TWEETR_CONFIG"), os.Stderr))
}

func run(ctx context.Context, configPath string, errOut io.Writer) int {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "load config: %v\n", err)
		return failure.ExitOther
	}
	if err := daemonrun.Run(ctx, cfg, daemonrun.Options{}); err != nil {
		failure.PrintHint(errOut, err)
		return failure.ExitCode(err)
	}
	return 0
}
