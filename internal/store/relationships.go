package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shelf-cli/internal/model"
)

func (s Store) FetchCategoryRelationships(ctx context.Context) ([]model.CategoryEdge, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, parent_id, child_id, position FROM category_edges ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch category relationships: %w", err)
	}
	defer rows.Close()

	out := []model.CategoryEdge{}
	for rows.Next() {
		var e model.CategoryEdge
		if err := rows.Scan(&e.ID, &e.ParentID, &e.ChildID, &e.Position); err != nil {
			return nil, fmt.Errorf("fetch category relationships: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch category relationships: %w", err)
	}
	return out, nil
}

// AddCategoryRelationship links child under parent. It refuses a second parent for the
// child and any link that would close a cycle.
func (s Store) AddCategoryRelationship(ctx context.Context, in model.NewCategoryEdge) (model.CategoryEdge, error) {
	parentID := strings.TrimSpace(in.ParentID)
	childID := strings.TrimSpace(in.ChildID)
	if parentID == "" || childID == "" {
		return model.CategoryEdge{}, errors.New("add category relationship: parent and child are required")
	}
	if parentID == childID {
		return model.CategoryEdge{}, fmt.Errorf("add category relationship: category %s cannot be its own parent", childID)
	}
	id, err := newRandomID(edgeIDPrefix)
	if err != nil {
		return model.CategoryEdge{}, err
	}
	e := model.CategoryEdge{ID: id, ParentID: parentID, ChildID: childID, Position: in.Position}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		for _, cid := range []string{parentID, childID} {
			ok, err := rowExists(ctx, tx, "categories", cid)
			if err != nil {
				return err
			}
			if !ok {
				return &NotFoundError{Kind: "category", ID: cid}
			}
		}

		var existing string
		err := tx.QueryRowContext(ctx, `SELECT parent_id FROM category_edges WHERE child_id = ?`, childID).Scan(&existing)
		switch {
		case err == nil:
			return fmt.Errorf("category %s already has parent %s", childID, existing)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		below, err := subtreeIDs(ctx, tx, childID)
		if err != nil {
			return err
		}
		for _, d := range below {
			if d == parentID {
				return fmt.Errorf("linking %s under %s would create a cycle", childID, parentID)
			}
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO category_edges(id, parent_id, child_id, position) VALUES(?, ?, ?, ?)`,
			e.ID, e.ParentID, e.ChildID, e.Position); err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventEdgeCreate, e.ID, e)
	})
	if err != nil {
		return model.CategoryEdge{}, fmt.Errorf("add category relationship: %w", err)
	}
	return e, nil
}

func (s Store) UpdateCategoryRelationship(ctx context.Context, id string, position int) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE category_edges SET position = ? WHERE id = ?`, position, id)
		if err != nil {
			return fmt.Errorf("update category relationship %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Kind: "category relationship", ID: id}
		}
		return appendEvent(ctx, tx, EventEdgeUpdate, id, map[string]any{"position": position})
	})
}

// DeleteCategoryRelationship removes one edge. Deleting a missing id is a no-op.
func (s Store) DeleteCategoryRelationship(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM category_edges WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete category relationship %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return appendEvent(ctx, tx, EventEdgeDelete, id, nil)
	})
}
