package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"tweetr/internal/store"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect authorised users",
	}
	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List authorised users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.configDir()
			if err != nil {
				return err
			}
			users, err := store.ReadUsers(filepath.Join(dir, store.UsersFile))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users authorised; run tweetr add-user")
				return nil
			}
			rows := make([][]string, 0, len(users))
			for _, user := range users {
				rows = append(rows, []string{user.Name, strconv.FormatInt(user.ID, 10)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Name", "ID"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	})
	return usersCmd
}
