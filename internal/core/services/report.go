package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService manages the grading history.
type ReportService struct {
	store driven.ReportStore
}

// NewReportService creates a new report service.
func NewReportService(store driven.ReportStore) *ReportService {
	return &ReportService{store: store}
}

// Save assigns an ID and timestamp when missing and stores the report.
func (s *ReportService) Save(ctx context.Context, report *domain.Report) error {
	if report == nil {
		return domain.ErrInvalidInput
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	if err := s.store.Save(ctx, report); err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}
	return nil
}

// Get retrieves a report by ID. A unique ID prefix of at least eight
// characters is accepted too.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	report, err := s.store.Get(ctx, id)
	if err == nil || len(id) < 8 {
		return report, err
	}

	all, listErr := s.store.List(ctx, 0)
	if listErr != nil {
		return nil, err
	}
	var match *domain.Report
	for i := range all {
		if strings.HasPrefix(all[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("report prefix %q is ambiguous: %w", id, domain.ErrInvalidInput)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

// List returns recent reports, newest first. A limit of 0 returns all.
func (s *ReportService) List(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit < 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.List(ctx, limit)
}

// Delete removes a report by ID.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	report, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, report.ID)
}
