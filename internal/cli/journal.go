package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

// NewJournalCmd creates the "journal" subcommand with list, errors and
// cleanup.
func NewJournalCmd() *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the operation journal",
	}

	var (
		op      string
		subject string
		level   string
		limit   int
		output  string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			entries, err := rt.recorder.List(journal.Filters{
				Op:      op,
				Subject: subject,
				Level:   journal.Level(level),
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			return printEntries(cmd, entries, output)
		},
	}
	listCmd.Flags().StringVar(&op, "op", "", "filter by operation (deploy, promote, abort, ...)")
	listCmd.Flags().StringVar(&subject, "subject", "", "filter by subject")
	listCmd.Flags().StringVar(&level, "level", "", "filter by level (info, success, warning, error)")
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries")
	listCmd.Flags().StringVarP(&output, "output", "o", "", "output format (json)")

	var errorsLimit int
	var errorsOutput string
	errorsCmd := &cobra.Command{
		Use:   "errors",
		Short: "List the most recent failed operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			entries, err := rt.recorder.RecentErrors(errorsLimit)
			if err != nil {
				return err
			}
			return printEntries(cmd, entries, errorsOutput)
		},
	}
	errorsCmd.Flags().IntVar(&errorsLimit, "limit", 50, "maximum number of entries")
	errorsCmd.Flags().StringVarP(&errorsOutput, "output", "o", "", "output format (json)")

	var olderThan time.Duration
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete journal entries older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			retention := olderThan
			if retention == 0 {
				retention = time.Duration(rt.cfg.JournalRetentionDays) * 24 * time.Hour
			}
			cutoff := time.Now().Add(-retention)

			if err := rt.recorder.Cleanup(cutoff); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed entries older than %s\n", cutoff.Format(time.RFC3339))
			return nil
		},
	}
	cleanupCmd.Flags().DurationVar(&olderThan, "older-than", 0, "delete entries older than this duration (default: configured retention)")

	journalCmd.AddCommand(listCmd, errorsCmd, cleanupCmd)
	return journalCmd
}

func printEntries(cmd *cobra.Command, entries []journal.Entry, output string) error {
	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tLEVEL\tOP\tSUBJECT\tMESSAGE")
	for _, entry := range entries {
		message := entry.Message
		if entry.Error != "" {
			message = fmt.Sprintf("%s: %s", message, entry.Error)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			entry.Time.Format(time.RFC3339), entry.Level, entry.Op, entry.Subject, message)
	}
	return w.Flush()
}
