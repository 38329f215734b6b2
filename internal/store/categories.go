package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shelf-cli/internal/model"
)

// FetchCategories returns every category in insertion order.
func (s Store) FetchCategories(ctx context.Context) ([]model.Category, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, color, icon, position, is_expanded, created_at_unixms
		FROM categories
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		var icon sql.NullString
		var expanded sql.NullInt64
		var createdMs int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &icon, &c.Position, &expanded, &createdMs); err != nil {
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		c.Icon = nullableString(icon)
		c.IsExpanded = nullableBool(expanded)
		c.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return out, nil
}

func (s Store) AddCategory(ctx context.Context, in model.NewCategory) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, fmt.Errorf("add category: name is required")
	}
	id, err := newRandomID(categoryIDPrefix)
	if err != nil {
		return model.Category{}, err
	}
	now := time.Now().UTC()
	c := model.Category{
		ID:        id,
		Name:      name,
		Color:     strings.TrimSpace(in.Color),
		Icon:      in.Icon,
		Position:  in.Position,
		CreatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var icon any
		if c.Icon != nil {
			icon = *c.Icon
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories(id, name, color, icon, position, is_expanded, created_at_unixms)
			VALUES(?, ?, ?, ?, ?, NULL, ?)
		`, c.ID, c.Name, c.Color, icon, c.Position, now.UnixMilli()); err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventCategoryCreate, c.ID, c)
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("add category: %w", err)
	}
	return c, nil
}

func (s Store) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	id = strings.TrimSpace(id)
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("update category %s: name is required", id)
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, strings.TrimSpace(*patch.Color))
	}
	if patch.Icon != nil {
		// An empty icon clears it.
		if strings.TrimSpace(*patch.Icon) == "" {
			sets = append(sets, "icon = NULL")
		} else {
			sets = append(sets, "icon = ?")
			args = append(args, *patch.Icon)
		}
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if patch.IsExpanded != nil {
		sets = append(sets, "is_expanded = ?")
		args = append(args, boolToInt(*patch.IsExpanded))
	}
	args = append(args, id)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE categories SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return fmt.Errorf("update category %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Kind: "category", ID: id}
		}
		return appendEvent(ctx, tx, EventCategoryUpdate, id, patch)
	})
}

// DeleteCategory removes the category, all of its descendants, their edges, and their
// bookmark links in one transaction. Deleting a missing id is a no-op.
func (s Store) DeleteCategory(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ids, err := subtreeIDs(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		exists, err := rowExists(ctx, tx, "categories", id)
		if err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		if !exists {
			return nil
		}

		ph := placeholders(len(ids))
		args := stringArgs(ids)
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_categories WHERE category_id IN (`+ph+`)`, args...); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		edgeArgs := append(append([]any{}, args...), args...)
		if _, err := tx.ExecContext(ctx, `DELETE FROM category_edges WHERE child_id IN (`+ph+`) OR parent_id IN (`+ph+`)`, edgeArgs...); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id IN (`+ph+`)`, args...); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		return appendEvent(ctx, tx, EventCategoryDelete, id, map[string]any{"ids": ids})
	})
}

// subtreeIDs returns id followed by every descendant. UNION (not UNION ALL) keeps a
// corrupted cyclic edge set from recursing forever.
func subtreeIDs(ctx context.Context, tx *sql.Tx, id string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		WITH RECURSIVE sub(id) AS (
			SELECT ?
			UNION
			SELECT e.child_id FROM category_edges e JOIN sub ON e.parent_id = sub.id
		)
		SELECT id FROM sub
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			return nil, err
		}
		out = append(out, cid)
	}
	return out, rows.Err()
}
