package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"tweetr/internal/preflight"
	"tweetr/internal/prompt"
	"tweetr/internal/store"
	"tweetr/internal/tweettext"
)

func newQueueTweetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "queue-tweet",
		Short: "Prompt for tweets and add them to tweets.toml",
		Long: "Prompt for tweets until an empty author is entered. End a content line with a\n" +
			"backslash to continue the tweet on the next line.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.configDir()
			if err != nil {
				return err
			}
			paths, err := preflight.ForQueueTweet(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			added, promptErr := promptTweets(prompt.New(cmd.InOrStdin(), out), out)
			if promptErr != nil && len(added) == 0 {
				return promptErr
			}

			if err := store.Locked(cmd.Context(), paths.Queue, func() error {
				queue, err := store.ReadQueue(paths.Queue)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				return store.WriteQueue(paths.Queue, store.MergeQueue(queue, added...))
			}); err != nil {
				return err
			}
			if len(added) > 0 {
				fmt.Fprintf(out, "Queued %d tweet(s) in %s\n", len(added), paths.Queue)
			}
			return promptErr
		},
	}
}

// promptTweets collects tweets until an empty author. On error it still returns
// the tweets completed before the failing prompt.
func promptTweets(p *prompt.Prompter, out io.Writer) ([]store.Tweet, error) {
	var tweets []store.Tweet
	for {
		author, ok, err := p.Optional("Author (or empty to finish)", func(value string) bool {
			if !utf8.ValidString(value) {
				fmt.Fprintln(out, "author is not valid UTF-8")
				return false
			}
			return true
		})
		if err != nil {
			return tweets, err
		}
		if !ok {
			return tweets, nil
		}

		content, err := p.Multiline("Tweet content", func(value string) bool {
			if err := tweettext.Validate(value); err != nil {
				if !errors.Is(err, tweettext.ErrEmpty) {
					fmt.Fprintln(out, err)
				}
				return false
			}
			return true
		})
		if err != nil {
			return tweets, err
		}

		raw, err := p.NonEmpty("Time to post the tweet (RFC2822 or RFC3339)", func(value string) bool {
			_, err := store.ParseTimestamp(value)
			return err == nil
		})
		if err != nil {
			return tweets, err
		}
		at, err := store.ParseTimestamp(raw)
		if err != nil {
			return tweets, err
		}
		fmt.Fprintln(out)

		tweets = append(tweets, store.Tweet{
			Author:  author,
			Time:    at,
			Content: tweettext.Normalize(content),
		})
	}
}
