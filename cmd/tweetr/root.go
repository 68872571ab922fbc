package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var configDirFlag string

	ctx := newCommandContext(&configFlag, &configDirFlag)

	rootCmd := &cobra.Command{
		Use:           "tweetr",
		Short:         "Queue tweets and post them on schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Tool configuration file path")
	rootCmd.PersistentFlags().StringVarP(&configDirFlag, "config-dir", "c", "", "Directory holding app.toml, users.toml and tweets.toml (default ~/.tweetr)")

	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newAddUserCommand(ctx))
	rootCmd.AddCommand(newQueueTweetCommand(ctx))
	rootCmd.AddCommand(newStartDaemonCommand(ctx))
	rootCmd.AddCommand(newQueueCommand(ctx))
	rootCmd.AddCommand(newUsersCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
