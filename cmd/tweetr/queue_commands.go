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

const contentExcerptLength = 48

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect queued tweets",
	}
	queueCmd.AddCommand(newQueueListCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued tweets in schedule order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.configDir()
			if err != nil {
				return err
			}
			queue, err := store.ReadQueue(filepath.Join(dir, store.QueueFile))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			rows := buildQueueRows(queue, pendingOnly)
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}
			table := renderTable(
				[]string{"#", "Author", "Scheduled", "Status", "Tweet ID", "Content"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only show tweets that have not been posted")
	return cmd
}

func buildQueueRows(queue []store.Tweet, pendingOnly bool) [][]string {
	rows := make([][]string, 0, len(queue))
	for i, tweet := range queue {
		if pendingOnly && !tweet.IsPending() {
			continue
		}
		status := "pending"
		tweetID := ""
		if tweet.Posted != nil {
			status = "posted " + store.DisplayTime(tweet.Posted.At)
			tweetID = strconv.FormatInt(tweet.Posted.ID, 10)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			tweet.Author,
			store.DisplayTime(tweet.Time),
			status,
			tweetID,
			excerpt(tweet.Content, contentExcerptLength),
		})
	}
	return rows
}
