package driving

import (
	"context"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

// ReportService manages the grading history.
type ReportService interface {
	// Save assigns an ID if missing and stores the report.
	Save(ctx context.Context, report *domain.Report) error

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*domain.Report, error)

	// List returns recent reports, newest first.
	List(ctx context.Context, limit int) ([]domain.Report, error)

	// Delete removes a report by ID.
	Delete(ctx context.Context, id string) error
}
