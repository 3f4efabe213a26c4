package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse graded reports",
	Long: `Lists, shows and deletes recorded reports.

Report IDs may be abbreviated to any unique prefix of eight or more characters.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <report-id>",
	Short: "Delete a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of reports (0 for all)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

type historyEntry struct {
	ID         string    `json:"id"`
	Repository string    `json:"repository"`
	Score      int       `json:"score"`
	MaxPoints  int       `json:"max_points"`
	Resubmit   bool      `json:"resubmit"`
	CreatedAt  time.Time `json:"created_at"`
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if err := requireService("report", reportService != nil); err != nil {
		return err
	}

	reports, err := reportService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if wantJSON(cmd) {
		entries := make([]historyEntry, 0, len(reports))
		for i := range reports {
			r := &reports[i]
			entries = append(entries, historyEntry{
				ID:         r.ID,
				Repository: r.Repository,
				Score:      r.Score,
				MaxPoints:  r.MaxPoints,
				Resubmit:   r.Resubmit,
				CreatedAt:  r.CreatedAt,
			})
		}
		return writeJSON(cmd, entries)
	}

	if len(reports) == 0 {
		cmd.Println("No reports recorded.")
		cmd.Println("Grade a submission with: autoscore grade <repository-url>")
		return nil
	}

	for i := range reports {
		r := &reports[i]
		flag := " "
		if r.Resubmit {
			flag = failStyle.Render("R")
		}
		cmd.Printf("%s  %s  %2d/%-2d %s  %s\n",
			dimStyle.Render(shortID(r.ID)),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Score, r.MaxPoints, flag,
			truncate(r.Repository, 60),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	report, err := getReport(cmd, args[0])
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return writeJSON(cmd, report)
	}
	cmd.Println(dimStyle.Render(report.CreatedAt.Local().Format(time.RFC1123)))
	renderReport(cmd, report)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	report, err := getReport(cmd, args[0])
	if err != nil {
		return err
	}

	if err := reportService.Delete(cmd.Context(), report.ID); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	cmd.Printf("Deleted report %s (%s)\n", shortID(report.ID), report.Repository)
	return nil
}

func getReport(cmd *cobra.Command, id string) (*domain.Report, error) {
	if err := requireService("report", reportService != nil); err != nil {
		return nil, err
	}
	report, err := reportService.Get(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return report, nil
}

// truncate shortens s to maxLen runes, marking the cut with an ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}
