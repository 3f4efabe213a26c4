package driven

import (
	"context"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

// ReportStore persists graded reports.
type ReportStore interface {
	// Save stores or replaces a report.
	Save(ctx context.Context, report *domain.Report) error

	// Get retrieves a report by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Report, error)

	// List returns the most recent reports first, at most limit (0 means all).
	List(ctx context.Context, limit int) ([]domain.Report, error)

	// Delete removes a report.
	Delete(ctx context.Context, id string) error
}
