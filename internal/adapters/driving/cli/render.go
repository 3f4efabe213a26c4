package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

const (
	formatAuto   = "auto"
	formatJSON   = "json"
	formatPretty = "pretty"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	bodyStyle  = lipgloss.NewStyle().PaddingLeft(4).Width(80)
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatAuto:
		return formatAuto, nil
	case formatJSON, formatPretty:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, json or pretty)", s)
	}
}

// wantJSON resolves the output format; auto picks JSON unless stdout is a terminal.
func wantJSON(cmd *cobra.Command) bool {
	f, _ := parseFormat(outputFormat)
	switch f {
	case formatJSON:
		return true
	case formatPretty:
		return false
	}
	return !isTerminal(cmd.OutOrStdout())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func renderReport(cmd *cobra.Command, r *domain.Report) {
	cmd.Println(titleStyle.Render(fmt.Sprintf("%s  %d/%d", r.Repository, r.Score, r.MaxPoints)))
	cmd.Println()

	for _, c := range r.Checks {
		label := c.Name
		if c.Target != "" {
			label += " " + dimStyle.Render(c.Target)
		}

		switch {
		case c.Name == domain.CheckResubmit:
			cmd.Printf("  %s %s\n", noteStyle.Render("!"), label)
		case c.Points > 0 && c.Message == "":
			cmd.Printf("  %s %s (+%d)\n", passStyle.Render("✓"), label, c.Points)
		case c.Points > 0:
			cmd.Printf("  %s %s (+%d)\n", noteStyle.Render("~"), label, c.Points)
		case c.Message == "":
			cmd.Printf("  %s %s\n", dimStyle.Render("·"), label)
		default:
			cmd.Printf("  %s %s\n", failStyle.Render("✗"), label)
		}

		if c.Message != "" {
			cmd.Println(bodyStyle.Render(c.Message))
		}
	}

	if r.Resubmit {
		cmd.Println()
		cmd.Println(failStyle.Render("Resubmission requested."))
	}
	if r.ID != "" {
		cmd.Println(dimStyle.Render("report " + shortID(r.ID)))
	}
}

func renderMatch(cmd *cobra.Command, expected string, m domain.Match, result domain.SearchResult) {
	switch m.Kind {
	case domain.MatchExact:
		cmd.Printf("%s %s\n", passStyle.Render("found"), m.Found.Path())
	case domain.MatchMisplaced:
		cmd.Printf("%s %s\n", noteStyle.Render("misplaced"), m.Found.Path())
	case domain.MatchSuggestion:
		cmd.Printf("%s %s; possible matches:\n", noteStyle.Render("not found"), expected)
		for _, c := range m.Suggestions {
			cmd.Printf("  %d  %s\n", c.Distance, c.Path())
		}
	default:
		cmd.Printf("%s %s\n", failStyle.Render("not found"), expected)
	}

	if verbose && !result.IsNotFound() {
		cmd.Println(dimStyle.Render("candidates:"))
		for _, c := range result {
			cmd.Println(dimStyle.Render(fmt.Sprintf("  %d  %s", c.Distance, c.Path())))
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
