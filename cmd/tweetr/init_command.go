package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tweetr/internal/preflight"
	"tweetr/internal/prompt"
	"tweetr/internal/store"
)

const (
	appKeyLength    = 25
	appSecretLength = 50
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store the Twitter app key pair in app.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.configDir()
			if err != nil {
				return err
			}
			paths, err := preflight.ForInit(dir, force)
			if err != nil {
				return err
			}

			p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
			key, err := p.ExactLen("App key", appKeyLength)
			if err != nil {
				return err
			}
			secret, err := p.ExactLen("App secret", appSecretLength)
			if err != nil {
				return err
			}

			creds := store.AppCredentials{Key: key, Secret: secret}
			if err := store.Locked(cmd.Context(), paths.Credentials, func() error {
				return store.WriteCredentials(paths.Credentials, creds)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote app credentials to %s\n", paths.Credentials)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing app.toml")
	return cmd
}
