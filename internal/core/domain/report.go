package domain

import (
	"strings"
	"time"
)

// Check names used in reports.
const (
	CheckClone         = "clone"
	CheckSanity        = "sanity"
	CheckBranch        = "branch"
	CheckAssets        = "assets"
	CheckScriptsFolder = "scripts_folder"
	CheckScript        = "script"
	CheckScene         = "scene"
	CheckSampleScene   = "sample_scene"
	CheckResubmit      = "resubmit"
)

// CheckResult is the outcome of a single rubric check.
type CheckResult struct {
	// Name identifies the check (one of the Check* constants).
	Name string `json:"name"`

	// Target is the file, folder or branch the check inspected, if any.
	Target string `json:"target,omitempty"`

	// Points awarded by this check.
	Points int `json:"points"`

	// Message is student-facing feedback; empty when there is nothing to say.
	Message string `json:"message,omitempty"`
}

// Report is the graded result for one submission.
type Report struct {
	ID         string        `json:"id"`
	Repository string        `json:"repository"`
	Score      int           `json:"score"`
	MaxPoints  int           `json:"max_points"`
	Resubmit   bool          `json:"resubmit"`
	Checks     []CheckResult `json:"checks"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Add records a check and accumulates its points.
func (r *Report) Add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	r.Score += c.Points
}

// Comments joins every non-empty check message, separated by blank lines.
func (r *Report) Comments() string {
	var b strings.Builder
	for _, c := range r.Checks {
		if c.Message == "" {
			continue
		}
		b.WriteString(c.Message)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Feedback is the score-and-comments document consumed by the LMS.
type Feedback struct {
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

// Feedback returns the LMS form of the report.
func (r *Report) Feedback() Feedback {
	return Feedback{
		Score:    r.Score,
		Comments: r.Comments(),
	}
}
