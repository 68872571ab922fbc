package main

import (
	"time"

	"github.com/spf13/cobra"

	"tweetr/internal/daemonrun"
)

func newStartDaemonCommand(ctx *commandContext) *cobra.Command {
	var delay time.Duration
	var verbose bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "start-daemon",
		Short: "Post queued tweets as they fall due (runs in the foreground)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.twitterClient()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				Delay:     delay,
				Verbose:   verbose,
				LogLevel:  logLevel,
				Out:       cmd.OutOrStdout(),
				Submitter: client,
			})
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 0, "Time between polling cycles (default daemon.delay_seconds, 60s)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a line for every posting attempt")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	return cmd
}
