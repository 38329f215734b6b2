package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shelf-cli/internal/model"
)

func (s Store) AddBookmark(ctx context.Context, in model.NewBookmark) (model.Bookmark, error) {
	url := strings.TrimSpace(in.URL)
	title := strings.TrimSpace(in.Title)
	if url == "" || title == "" {
		return model.Bookmark{}, fmt.Errorf("add bookmark: url and title are required")
	}
	id, err := newRandomID(bookmarkIDPrefix)
	if err != nil {
		return model.Bookmark{}, err
	}
	nowMs := time.Now().UTC().UnixMilli()
	b := model.Bookmark{
		ID:          id,
		URL:         url,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		CategoryIDs: dedupeIDs(in.CategoryIDs),
		TagIDs:      dedupeIDs(in.TagIDs),
		CreatedAt:   time.UnixMilli(nowMs).UTC(),
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookmarks(id, url, title, description, created_at_unixms) VALUES(?, ?, ?, ?, ?)
		`, b.ID, b.URL, b.Title, b.Description, nowMs); err != nil {
			return err
		}
		if err := replaceLinks(ctx, tx, "bookmark_categories", "category_id", "categories", "category", b.ID, b.CategoryIDs); err != nil {
			return err
		}
		if err := replaceLinks(ctx, tx, "bookmark_tags", "tag_id", "tags", "tag", b.ID, b.TagIDs); err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventBookmarkCreate, b.ID, b)
	})
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("add bookmark: %w", err)
	}
	return b, nil
}

// FetchBookmarks returns bookmarks in insertion order, optionally narrowed to one category
// (directly linked, not descendants) and/or one tag.
func (s Store) FetchBookmarks(ctx context.Context, f model.BookmarkFilter) ([]model.Bookmark, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT b.id, b.url, b.title, b.description, b.created_at_unixms FROM bookmarks b`
	var conds []string
	var args []any
	if id := strings.TrimSpace(f.CategoryID); id != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM bookmark_categories bc WHERE bc.bookmark_id = b.id AND bc.category_id = ?)`)
		args = append(args, id)
	}
	if id := strings.TrimSpace(f.TagID); id != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM bookmark_tags bt WHERE bt.bookmark_id = b.id AND bt.tag_id = ?)`)
		args = append(args, id)
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY b.rowid ASC`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch bookmarks: %w", err)
	}
	out := []model.Bookmark{}
	idx := map[string]int{}
	for rows.Next() {
		var b model.Bookmark
		var createdMs int64
		if err := rows.Scan(&b.ID, &b.URL, &b.Title, &b.Description, &createdMs); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("fetch bookmarks: %w", err)
		}
		b.CreatedAt = time.UnixMilli(createdMs).UTC()
		b.CategoryIDs = []string{}
		b.TagIDs = []string{}
		idx[b.ID] = len(out)
		out = append(out, b)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch bookmarks: %w", err)
	}

	links := []struct {
		q   string
		set func(b *model.Bookmark, id string)
	}{
		{`SELECT bookmark_id, category_id FROM bookmark_categories ORDER BY rowid ASC`, func(b *model.Bookmark, id string) { b.CategoryIDs = append(b.CategoryIDs, id) }},
		{`SELECT bookmark_id, tag_id FROM bookmark_tags ORDER BY rowid ASC`, func(b *model.Bookmark, id string) { b.TagIDs = append(b.TagIDs, id) }},
	}
	for _, l := range links {
		lr, err := db.QueryContext(ctx, l.q)
		if err != nil {
			return nil, fmt.Errorf("fetch bookmarks: %w", err)
		}
		for lr.Next() {
			var bid, oid string
			if err := lr.Scan(&bid, &oid); err != nil {
				_ = lr.Close()
				return nil, fmt.Errorf("fetch bookmarks: %w", err)
			}
			if i, ok := idx[bid]; ok {
				l.set(&out[i], oid)
			}
		}
		_ = lr.Close()
		if err := lr.Err(); err != nil {
			return nil, fmt.Errorf("fetch bookmarks: %w", err)
		}
	}
	return out, nil
}

// CountBookmarksByCategory returns the number of bookmarks linked directly to each category.
func (s Store) CountBookmarksByCategory(ctx context.Context) (map[string]int, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT category_id, COUNT(*) FROM bookmark_categories GROUP BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("count bookmarks: %w", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}

// DeleteBookmark removes a bookmark and its links. Deleting a missing id is a no-op.
func (s Store) DeleteBookmark(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, st := range []string{
			`DELETE FROM bookmark_categories WHERE bookmark_id = ?`,
			`DELETE FROM bookmark_tags WHERE bookmark_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, st, id); err != nil {
				return fmt.Errorf("delete bookmark %s: %w", id, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete bookmark %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return appendEvent(ctx, tx, EventBookmarkDelete, id, nil)
	})
}

// SetBookmarkCategories replaces the bookmark's category links.
func (s Store) SetBookmarkCategories(ctx context.Context, id string, categoryIDs []string) error {
	return s.setBookmarkLinks(ctx, id, "bookmark_categories", "category_id", "categories", "category", categoryIDs)
}

// SetBookmarkTags replaces the bookmark's tag links.
func (s Store) SetBookmarkTags(ctx context.Context, id string, tagIDs []string) error {
	return s.setBookmarkLinks(ctx, id, "bookmark_tags", "tag_id", "tags", "tag", tagIDs)
}

func (s Store) setBookmarkLinks(ctx context.Context, id, table, col, targetTable, kind string, ids []string) error {
	id = strings.TrimSpace(id)
	ids = dedupeIDs(ids)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "bookmarks", id)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Kind: "bookmark", ID: id}
		}
		if err := replaceLinks(ctx, tx, table, col, targetTable, kind, id, ids); err != nil {
			return fmt.Errorf("set bookmark %s links: %w", kind, err)
		}
		return appendEvent(ctx, tx, EventBookmarkUpdate, id, map[string]any{kind + "_ids": ids})
	})
}

func replaceLinks(ctx context.Context, tx *sql.Tx, table, col, targetTable, kind, bookmarkID string, ids []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE bookmark_id = ?`, bookmarkID); err != nil {
		return err
	}
	for _, oid := range ids {
		ok, err := rowExists(ctx, tx, targetTable, oid)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Kind: kind, ID: oid}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO `+table+`(bookmark_id, `+col+`) VALUES(?, ?)`, bookmarkID, oid); err != nil {
			return err
		}
	}
	return nil
}

func dedupeIDs(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
