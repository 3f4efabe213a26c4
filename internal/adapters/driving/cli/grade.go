package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoscore/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
	"github.com/custodia-labs/autoscore/internal/logger"
)

// Flags shared by grade and check.
var (
	gradeBranch    string
	gradeTmpDir    string
	gradeThreshold int
	gradeNoSave    bool
	gradeFull      bool
	checkWatch     bool
)

var gradeCmd = &cobra.Command{
	Use:   "grade <repository-url>",
	Short: "Clone and grade a submission",
	Long: `Clones the repository into the temporary directory and scores it.

With JSON output the result is the score-and-comments document expected by
the LMS: {"score": N, "comments": "..."}. Use --full for the whole report.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Grade an existing checkout in place",
	Long: `Grades a local checkout without cloning or switching branches.

With --watch the checkout is graded again each time files below it change,
until interrupted. Watch mode does not record history.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	for _, c := range []*cobra.Command{gradeCmd, checkCmd} {
		c.Flags().StringVarP(&gradeBranch, "branch", "b", "", "lesson branch (overrides grader.branch)")
		c.Flags().IntVar(&gradeThreshold, "threshold", -1, "locator distance threshold (overrides locator.threshold)")
		c.Flags().BoolVar(&gradeNoSave, "no-save", false, "do not record the report in history")
		c.Flags().BoolVar(&gradeFull, "full", false, "print the whole report as JSON")
	}
	gradeCmd.Flags().StringVarP(&gradeTmpDir, "tmp-dir", "T", "", "clone directory (overrides grader.tmp_dir)")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "re-grade when files change")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(checkCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	grader, err := newGrader()
	if err != nil {
		return err
	}

	report, err := grader.Grade(cmd.Context(), strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("grade failed: %w", err)
	}
	return finishReport(cmd, report, !gradeNoSave)
}

func runCheck(cmd *cobra.Command, args []string) error {
	grader, err := newGrader()
	if err != nil {
		return err
	}
	dir := filesystem.ResolvePath(strings.TrimSpace(args[0]))

	if !checkWatch {
		report, err := grader.GradeLocal(cmd.Context(), dir)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return finishReport(cmd, report, !gradeNoSave)
	}

	if err := requireService("watch", watchService != nil); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("watching %s", dir)
	return watchService.Watch(ctx, dir, func(ctx context.Context) error {
		report, err := grader.GradeLocal(ctx, dir)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return finishReport(cmd, report, false)
	})
}

// newGrader builds a grader from stored settings with flag overrides applied.
func newGrader() (driving.GraderService, error) {
	if err := requireService("settings", settingsService != nil); err != nil {
		return nil, err
	}
	if err := requireService("grader", graderFactory != nil); err != nil {
		return nil, err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	applyGradeFlags(settings)

	grader, err := graderFactory(*settings)
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return grader, nil
}

func applyGradeFlags(s *domain.AppSettings) {
	if gradeBranch != "" {
		s.Grader.Branch = gradeBranch
	}
	if gradeTmpDir != "" {
		s.Grader.TmpDir = filesystem.ResolvePath(gradeTmpDir)
	}
	if gradeThreshold >= 0 {
		s.Locator.Threshold = gradeThreshold
	}
}

func finishReport(cmd *cobra.Command, report *domain.Report, save bool) error {
	if save {
		if err := requireService("report", reportService != nil); err != nil {
			return err
		}
		if err := reportService.Save(cmd.Context(), report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
	}

	if wantJSON(cmd) {
		if gradeFull {
			return writeJSON(cmd, report)
		}
		return writeJSON(cmd, report.Feedback())
	}
	renderReport(cmd, report)
	return nil
}
