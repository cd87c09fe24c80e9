package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/correspondence-monitor/internal/domain"
	"github.com/ignite/correspondence-monitor/internal/service/dataset"
)

// ImportLogRepo implements dataset.Repository against PostgreSQL.
type ImportLogRepo struct{ db *sql.DB }

// NewImportLogRepo creates a Postgres-backed import log repository.
func NewImportLogRepo(db *sql.DB) *ImportLogRepo { return &ImportLogRepo{db: db} }

func (r *ImportLogRepo) Record(ctx context.Context, logs []domain.ImportLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import log tx: %w", err)
	}
	defer tx.Rollback()

	for i := range logs {
		l := &logs[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO review_import_log
				(id, batch_id, dataset_id, source, file_name, status, sheets, rows, records, error, duration_ms, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, l.ID, l.BatchID, l.DatasetID, string(l.Source), l.FileName, string(l.Status),
			l.Sheets, l.Rows, l.Records, l.Error, l.DurationMS, l.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert import log %s: %w", l.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import log: %w", err)
	}
	return nil
}

func (r *ImportLogRepo) List(ctx context.Context, f dataset.ListFilter) ([]domain.ImportLog, int, error) {
	var conds []string
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.BatchID != "" {
		args = append(args, f.BatchID)
		conds = append(conds, fmt.Sprintf("batch_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_import_log `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count import log: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total
	}
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, batch_id, dataset_id, source, file_name, status, sheets, rows, records, error, duration_ms, created_at
		FROM review_import_log
		%s
		ORDER BY created_at DESC, file_name
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list import log: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ImportLog, 0)
	for rows.Next() {
		var l domain.ImportLog
		var datasetID sql.NullString
		var source, status string
		if err := rows.Scan(&l.ID, &l.BatchID, &datasetID, &source, &l.FileName, &status,
			&l.Sheets, &l.Rows, &l.Records, &l.Error, &l.DurationMS, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan import log: %w", err)
		}
		if datasetID.Valid {
			l.DatasetID = &datasetID.String
		}
		l.Source = domain.ImportSource(source)
		l.Status = domain.ImportStatus(status)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate import log: %w", err)
	}
	return out, total, nil
}

func (r *ImportLogRepo) Summary(ctx context.Context) (*domain.ImportSummary, error) {
	var s domain.ImportSummary
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT batch_id),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE status = 'skipped'),
			COALESCE(SUM(records), 0),
			MAX(created_at)
		FROM review_import_log
	`).Scan(&s.Batches, &s.Files, &s.Completed, &s.Failed, &s.Skipped, &s.Records, &last)
	if err != nil {
		return nil, fmt.Errorf("summarize import log: %w", err)
	}
	if last.Valid {
		s.LastImportAt = &last.Time
	}
	return &s, nil
}
