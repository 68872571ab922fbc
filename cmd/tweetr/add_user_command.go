package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"unicode"

	"github.com/spf13/cobra"

	"tweetr/internal/failure"
	"tweetr/internal/preflight"
	"tweetr/internal/prompt"
	"tweetr/internal/services/twitter"
	"tweetr/internal/store"
)

const pinLength = 7

func newAddUserCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Authorise a Twitter account and add it to users.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.configDir()
			if err != nil {
				return err
			}
			paths, err := preflight.ForAddUser(dir)
			if err != nil {
				return err
			}
			app, err := store.ReadCredentials(paths.Credentials)
			if err != nil {
				return err
			}
			client, err := ctx.twitterClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			appToken := twitter.Token{Key: app.Key, Secret: app.Secret}

			var pending twitter.PendingAuthorization
			if err := networkStep(out, verbose, "request token", false, func() error {
				var err error
				pending, err = client.BeginAuthorization(appToken)
				return err
			}); err != nil {
				return failure.RemoteAPI(err)
			}
			fmt.Fprintf(out, "Visit this URL: %s\n", pending.URL)

			p := prompt.New(cmd.InOrStdin(), out)
			pin, err := p.NonEmpty("Enter the PIN from that page", isPIN)
			if err != nil {
				return err
			}

			var authorized twitter.Authorized
			if err := networkStep(out, verbose, "access token", true, func() error {
				var err error
				authorized, err = client.CompleteAuthorization(cmd.Context(), appToken, pending, pin)
				return err
			}); err != nil {
				return failure.RemoteAPI(err)
			}

			user := store.User{
				Name:         authorized.Account.Username,
				ID:           authorized.Account.ID,
				AccessKey:    authorized.Access.Key,
				AccessSecret: authorized.Access.Secret,
			}
			if err := store.Locked(cmd.Context(), paths.Users, func() error {
				users, err := store.ReadUsers(paths.Users)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				return store.WriteUsers(paths.Users, store.UpsertUser(users, user))
			}); err != nil {
				return err
			}

			fmt.Fprintf(out, "Successfully authenticated user %s#%d\n", user.Name, user.ID)
			if verbose {
				fmt.Fprintln(out, "Access tokens:")
				fmt.Fprintf(out, "  Key   : %s\n", user.AccessKey)
				fmt.Fprintf(out, "  Secret: %s\n", user.AccessSecret)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show API progress and the issued access tokens")
	return cmd
}

// networkStep runs fn, bracketing it with "Getting <desc>... DONE|FAILED"
// when verbose.
func networkStep(out io.Writer, verbose bool, desc string, blankBefore bool, fn func() error) error {
	if !verbose {
		return fn()
	}
	if blankBefore {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Getting %s...", desc)
	err := fn()
	if err != nil {
		fmt.Fprintln(out, " FAILED")
		return err
	}
	fmt.Fprintln(out, " DONE")
	return nil
}

func isPIN(value string) bool {
	if len(value) != pinLength {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
