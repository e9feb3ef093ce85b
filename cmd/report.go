package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/example/flashdrill/internal/database"
	"github.com/example/flashdrill/internal/spaced_repetition"
	"github.com/example/flashdrill/pkg/models"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := connect(cmd); err != nil {
			return err
		}
		defer database.Close()

		items, store, err := loadState()
		if err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		now := time.Now()
		sessions := database.NewSessionRepository()
		stats, err := sessions.StatsSince(now.AddDate(0, 0, -days))
		if err != nil {
			return err
		}
		var recent []models.SessionResult
		if n, _ := cmd.Flags().GetInt("recent"); n > 0 {
			if recent, err = sessions.GetRecent(n); err != nil {
				return err
			}
		}

		verbose, _ := cmd.Flags().GetBool("items")
		summary := spaced_repetition.Report(items, store)
		due := spaced_repetition.DueCount(items, store, now)
		writeReport(cmd.OutOrStdout(), summary, due, stats, recent, days, verbose)
		return nil
	},
}

func init() {
	reportCmd.Flags().Int("days", 7, "Period for session statistics, in days")
	reportCmd.Flags().Bool("items", false, "List every item")
	reportCmd.Flags().Int("recent", 5, "Number of recent sessions to list")
}

func writeReport(w io.Writer, summary models.Summary, due int, stats database.SessionStats, recent []models.SessionResult, days int, verbose bool) {
	fmt.Fprintf(w, "Total items:    %d\n", summary.TotalWords)
	fmt.Fprintf(w, "Attempted:      %d\n", summary.AttemptedWords)
	fmt.Fprintf(w, "Mastered:       %d\n", summary.MasteredWords)
	fmt.Fprintf(w, "Due now:        %d\n", due)
	fmt.Fprintf(w, "Sessions (%dd): %d, %d/%d answers correct\n", days, stats.Sessions, stats.Correct, stats.Answered)

	if len(summary.ConsistentlyWrong) > 0 {
		fmt.Fprintln(w, "\nConsistently wrong:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, r := range summary.ConsistentlyWrong {
			fmt.Fprintf(tw, "  %s\t%s\t%d wrong\t%s\n", r.Item.Prompt, r.Item.Answer, r.IncorrectAttempts, percentage(r))
		}
		tw.Flush()
	}

	if len(recent) > 0 {
		fmt.Fprintln(w, "\nRecent sessions:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, r := range recent {
			fmt.Fprintf(tw, "  %s\t%s\t%d/%d correct\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Mode, r.Correct, r.Answered)
		}
		tw.Flush()
	}

	if verbose && len(summary.Items) > 0 {
		fmt.Fprintln(w, "\nItems:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  ID\tPROMPT\tCORRECT\tWRONG\tREPS\tSCORE\tNEXT REVIEW")
		for _, r := range summary.Items {
			next := "-"
			if r.NextReviewDate.Valid {
				next = r.NextReviewDate.Time.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				r.Item.ID, r.Item.Prompt, r.CorrectAttempts, r.IncorrectAttempts, r.Repetitions, percentage(r), next)
		}
		tw.Flush()
	}
}

func percentage(r models.ItemReport) string {
	if !r.CorrectnessPercentage.Valid {
		return "-"
	}
	return fmt.Sprintf("%d%%", r.CorrectnessPercentage.Int64)
}
