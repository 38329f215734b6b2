package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const sqliteFileName = "shelf.sqlite"

// Store is a workspace directory holding the SQLite database and per-workspace UI state.
//
// Every call opens its own connection; there is no long-lived handle to close.
type Store struct {
	Dir string
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// SQLitePath is the workspace database file.
func (s Store) SQLitePath() string { return s.sqlitePath() }

// withTx runs fn inside a single write transaction and commits when fn returns nil.
func (s Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Backup writes a consistent copy of the workspace database to dest.
func (s Store) Backup(ctx context.Context, dest string) error {
	dest = filepath.Clean(strings.TrimSpace(dest))
	if dest == "" || dest == "." {
		return errors.New("backup: missing destination")
	}
	if _, err := os.Stat(dest); err == nil {
		return errors.New("backup: destination already exists: " + dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `VACUUM INTO ?`, dest)
	return err
}
