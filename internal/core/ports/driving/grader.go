package driving

import (
	"context"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

// GraderService scores submissions against the rubric.
type GraderService interface {
	// Grade clones the repository at url and scores it.
	Grade(ctx context.Context, url string) (*domain.Report, error)

	// GradeLocal scores an existing checkout at dir without cloning.
	GradeLocal(ctx context.Context, dir string) (*domain.Report, error)
}
