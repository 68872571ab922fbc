package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tweetr/internal/history"
	"tweetr/internal/store"
)

const (
	defaultHistoryLimit = 20
	cycleIDDisplayLen   = 8
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent posting attempts made by the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history journal is disabled (set [history] enabled = true)")
			}
			journal, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer journal.Close()

			attempts, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No posting attempts recorded")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Attempted", "Cycle", "Author", "Scheduled", "Outcome", "Tweet ID", "Detail"},
				buildHistoryRows(attempts),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Number of attempts to show (0 for all)")
	return cmd
}

func buildHistoryRows(attempts []history.Attempt) [][]string {
	rows := make([][]string, 0, len(attempts))
	for _, attempt := range attempts {
		cycle := attempt.CycleID
		if len(cycle) > cycleIDDisplayLen {
			cycle = cycle[:cycleIDDisplayLen]
		}
		tweetID := ""
		detail := attempt.Error
		if attempt.Outcome == history.OutcomePosted {
			tweetID = strconv.FormatInt(attempt.TweetID, 10)
			detail = excerpt(attempt.Content, contentExcerptLength)
		}
		rows = append(rows, []string{
			store.DisplayTime(attempt.AttemptedAt),
			cycle,
			attempt.Author,
			store.DisplayTime(attempt.ScheduledAt),
			string(attempt.Outcome),
			tweetID,
			excerpt(detail, contentExcerptLength*2),
		})
	}
	return rows
}
