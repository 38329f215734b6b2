package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

// DoctorIssue is a storage-level problem. Tree-shape problems are reported by tree.Check.
type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`

	Table string `json:"table,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor inspects the SQLite file: page-level integrity, dangling foreign keys (rows
// written with foreign_keys off, e.g. by another tool) and blank category names.
func (s Store) Doctor(ctx context.Context) (DoctorReport, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return DoctorReport{}, err
	}
	defer db.Close()

	report := DoctorReport{Issues: []DoctorIssue{}}

	integrity, err := integrityIssues(ctx, db)
	if err != nil {
		return DoctorReport{}, fmt.Errorf("doctor: integrity check: %w", err)
	}
	report.Issues = append(report.Issues, integrity...)

	fks, err := foreignKeyIssues(ctx, db)
	if err != nil {
		return DoctorReport{}, fmt.Errorf("doctor: foreign key check: %w", err)
	}
	report.Issues = append(report.Issues, fks...)

	var empty int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE TRIM(name) = ''`).Scan(&empty); err != nil {
		return DoctorReport{}, fmt.Errorf("doctor: names: %w", err)
	}
	if empty > 0 {
		report.Issues = append(report.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "category_empty_name",
			Message: fmt.Sprintf("%d categories have an empty name", empty),
			Table:   "categories",
		})
	}
	return report, nil
}

func integrityIssues(ctx context.Context, db *sql.DB) ([]DoctorIssue, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA integrity_check;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DoctorIssue
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		if strings.EqualFold(strings.TrimSpace(msg), "ok") {
			continue
		}
		out = append(out, DoctorIssue{
			Level:   DoctorIssueLevelError,
			Code:    "sqlite_integrity",
			Message: msg,
		})
	}
	return out, rows.Err()
}

func foreignKeyIssues(ctx context.Context, db *sql.DB) ([]DoctorIssue, error) {
	// Columns: table, rowid, parent, fkid.
	rows, err := db.QueryContext(ctx, `PRAGMA foreign_key_check;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DoctorIssue
	for rows.Next() {
		var table, parent string
		var rowID sql.NullInt64
		var fkID int
		if err := rows.Scan(&table, &rowID, &parent, &fkID); err != nil {
			return nil, err
		}
		out = append(out, DoctorIssue{
			Level:   DoctorIssueLevelError,
			Code:    "dangling_reference",
			Message: fmt.Sprintf("%s row %d references a missing %s row", table, rowID.Int64, parent),
			Table:   table,
		})
	}
	return out, rows.Err()
}
