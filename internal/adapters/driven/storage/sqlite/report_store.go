package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// Save stores or replaces a report and its checks in one transaction.
func (s *reportStore) Save(ctx context.Context, report *domain.Report) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, repository, score, max_points, resubmit, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			repository = excluded.repository,
			score = excluded.score,
			max_points = excluded.max_points,
			resubmit = excluded.resubmit,
			created_at = excluded.created_at
	`, report.ID, report.Repository, report.Score, report.MaxPoints, report.Resubmit,
		report.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM report_checks WHERE report_id = ?", report.ID); err != nil {
		return fmt.Errorf("clearing checks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_checks (report_id, position, name, target, points, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing check insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range report.Checks {
		if _, err := stmt.ExecContext(ctx, report.ID, i, c.Name, c.Target, c.Points, c.Message); err != nil {
			return fmt.Errorf("saving check %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a report by ID.
func (s *reportStore) Get(ctx context.Context, id string) (*domain.Report, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, repository, score, max_points, resubmit, created_at
		FROM reports WHERE id = ?
	`, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadChecks(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns reports newest first, at most limit (0 means all).
func (s *reportStore) List(ctx context.Context, limit int) ([]domain.Report, error) {
	query := `
		SELECT id, repository, score, max_points, resubmit, created_at
		FROM reports ORDER BY created_at DESC, id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range reports {
		if err := s.loadChecks(ctx, &reports[i]); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// Delete removes a report; its checks cascade.
func (s *reportStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *reportStore) loadChecks(ctx context.Context, report *domain.Report) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT name, target, points, message
		FROM report_checks WHERE report_id = ? ORDER BY position
	`, report.ID)
	if err != nil {
		return fmt.Errorf("loading checks: %w", err)
	}
	defer rows.Close()

	report.Checks = nil
	for rows.Next() {
		var c domain.CheckResult
		if err := rows.Scan(&c.Name, &c.Target, &c.Points, &c.Message); err != nil {
			return fmt.Errorf("scanning check: %w", err)
		}
		report.Checks = append(report.Checks, c)
	}
	return rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.Report, error) {
	var (
		r         domain.Report
		createdAt string
	)
	if err := row.Scan(&r.ID, &r.Repository, &r.Score, &r.MaxPoints, &r.Resubmit, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return &r, nil
}
