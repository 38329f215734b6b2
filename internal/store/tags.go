package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shelf-cli/internal/model"
)

func (s Store) FetchTags(ctx context.Context) ([]model.Tag, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, name, created_at_unixms FROM tags ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	defer rows.Close()

	out := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		var createdMs int64
		if err := rows.Scan(&t.ID, &t.Name, &createdMs); err != nil {
			return nil, fmt.Errorf("fetch tags: %w", err)
		}
		t.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	return out, nil
}

// AddTag always inserts a new row; tag names are not unique.
func (s Store) AddTag(ctx context.Context, name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, fmt.Errorf("add tag: name is required")
	}
	id, err := newRandomID(tagIDPrefix)
	if err != nil {
		return model.Tag{}, err
	}
	nowMs := time.Now().UTC().UnixMilli()
	t := model.Tag{ID: id, Name: name, CreatedAt: time.UnixMilli(nowMs).UTC()}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags(id, name, created_at_unixms) VALUES(?, ?, ?)`, t.ID, t.Name, nowMs); err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventTagCreate, t.ID, t)
	})
	if err != nil {
		return model.Tag{}, fmt.Errorf("add tag: %w", err)
	}
	return t, nil
}

func (s Store) UpdateTag(ctx context.Context, id, name string) error {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("update tag %s: name is required", id)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ?`, name, id)
		if err != nil {
			return fmt.Errorf("update tag %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Kind: "tag", ID: id}
		}
		return appendEvent(ctx, tx, EventTagUpdate, id, map[string]any{"name": name})
	})
}

// DeleteTag removes the tag and its bookmark links. Deleting a missing id is a no-op.
func (s Store) DeleteTag(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_tags WHERE tag_id = ?`, id); err != nil {
			return fmt.Errorf("delete tag %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete tag %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return appendEvent(ctx, tx, EventTagDelete, id, nil)
	})
}
