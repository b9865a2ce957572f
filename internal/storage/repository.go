package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"benefits/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrFileNotFound is returned when a delete targets an unknown plan name.
var ErrFileNotFound = errors.New("invoice file not found")

// SQLiteRepository stores invoice files and their charge records. Charge
// amounts are persisted as decimal strings so adjustments and credits
// round-trip exactly.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// DB exposes the underlying handle so sibling stores (status overrides)
// can share the same database file.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateInvoiceFile registers an uploaded invoice and returns its ID.
func (r *SQLiteRepository) CreateInvoiceFile(ctx context.Context, f core.InvoiceFile) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO invoice_files (plan_name, file_name, month, year) VALUES (?, ?, ?, ?)`,
		f.PlanName, f.FileName, f.Month, f.Year)
	if err != nil {
		return 0, fmt.Errorf("create invoice file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("invoice file id: %w", err)
	}

	slog.InfoContext(ctx, "Invoice file registered",
		"id", id,
		"plan_name", f.PlanName,
		"month", f.Month,
		"year", f.Year)

	return id, nil
}

// InsertChargeRecords appends a batch of charge records for one invoice
// file in a single transaction.
func (r *SQLiteRepository) InsertChargeRecords(ctx context.Context, fileID int64, records []core.ChargeRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert records: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO charge_records
		(subscriber_id, subscriber_name, plan, coverage_type, status, coverage_dates, charge_amount, month, year, invoice_file_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.SubscriberID, rec.SubscriberName, rec.Plan, rec.CoverageType,
			rec.Status, rec.CoverageDates, rec.ChargeAmount.String(),
			rec.Month, rec.Year, fileID)
		if err != nil {
			return fmt.Errorf("insert charge record for %q: %w", rec.SubscriberName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert records: %w", err)
	}

	slog.InfoContext(ctx, "Charge records inserted",
		"invoice_file_id", fileID,
		"count", len(records))

	return nil
}

// ListChargeRecords returns every charge record across all invoice files,
// in insertion order. This is the bulk read that feeds the identity
// resolution pipeline.
func (r *SQLiteRepository) ListChargeRecords(ctx context.Context) ([]core.ChargeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, subscriber_id, subscriber_name, plan, coverage_type, status,
		coverage_dates, charge_amount, month, year, invoice_file_id
		FROM charge_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query charge records: %w", err)
	}
	defer rows.Close()

	return scanChargeRecords(rows)
}

// ListChargeRecordsByFile returns the charge records ingested from one
// invoice file, in insertion order.
func (r *SQLiteRepository) ListChargeRecordsByFile(ctx context.Context, fileID int64) ([]core.ChargeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, subscriber_id, subscriber_name, plan, coverage_type, status,
		coverage_dates, charge_amount, month, year, invoice_file_id
		FROM charge_records WHERE invoice_file_id = ? ORDER BY id`, fileID)
	if err != nil {
		return nil, fmt.Errorf("query charge records for file %d: %w", fileID, err)
	}
	defer rows.Close()

	return scanChargeRecords(rows)
}

func scanChargeRecords(rows *sql.Rows) ([]core.ChargeRecord, error) {
	var records []core.ChargeRecord
	for rows.Next() {
		var rec core.ChargeRecord
		var amount string
		err := rows.Scan(&rec.ID, &rec.SubscriberID, &rec.SubscriberName,
			&rec.Plan, &rec.CoverageType, &rec.Status, &rec.CoverageDates,
			&amount, &rec.Month, &rec.Year, &rec.InvoiceFileID)
		if err != nil {
			return nil, fmt.Errorf("scan charge record: %w", err)
		}
		rec.ChargeAmount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse charge amount %q: %w", amount, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charge records: %w", err)
	}
	return records, nil
}

// ListInvoiceFiles returns all uploaded invoice files, newest first.
func (r *SQLiteRepository) ListInvoiceFiles(ctx context.Context) ([]core.InvoiceFile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, plan_name, file_name, month, year, upload_date
		 FROM invoice_files ORDER BY upload_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query invoice files: %w", err)
	}
	defer rows.Close()

	var files []core.InvoiceFile
	for rows.Next() {
		var f core.InvoiceFile
		var uploaded string
		if err := rows.Scan(&f.ID, &f.PlanName, &f.FileName, &f.Month, &f.Year, &uploaded); err != nil {
			return nil, fmt.Errorf("scan invoice file: %w", err)
		}
		f.UploadDate = parseTimestamp(uploaded)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice files: %w", err)
	}
	return files, nil
}

// DeleteInvoiceFile removes an invoice file by plan name; its charge
// records go with it via the foreign key cascade.
func (r *SQLiteRepository) DeleteInvoiceFile(ctx context.Context, planName string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM invoice_files WHERE plan_name = ?", planName)
	if err != nil {
		return fmt.Errorf("delete invoice file %q: %w", planName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice file %q: %w", planName, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrFileNotFound, planName)
	}

	slog.InfoContext(ctx, "Invoice file deleted", "plan_name", planName)
	return nil
}

// parseTimestamp accepts the formats SQLite emits for CURRENT_TIMESTAMP
// columns. An unparseable value degrades to the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
