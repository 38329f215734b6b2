package mutate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

// CreateCategory adds a category row and, when ParentID is set, the edge linking it under
// the parent. If the edge fails the new category is left as a root. An explicit Position
// inserts at that index and renumbers the sibling group to 0..n-1.
func (s *Session) CreateCategory(ctx context.Context, in CategoryInput) (created model.Category, err error) {
	const op = "create category"
	defer s.guard(ctx, op, true, &err)

	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	in.ParentID = strings.TrimSpace(in.ParentID)
	if err := validateStruct(in); err != nil {
		return model.Category{}, s.reject(op, err)
	}
	if in.ParentID != "" {
		if _, ok := s.Category(in.ParentID); !ok {
			return model.Category{}, s.reject(op, &ValidationError{Field: "parent", Message: fmt.Sprintf("category not found: %s", in.ParentID)})
		}
	}

	rowPos := in.Position
	if in.ParentID != "" {
		rowPos = 0
	} else if rowPos < 0 {
		rowPos = tree.NextPosition("", s.categories, s.edges)
	}

	created, addErr := s.store.AddCategory(ctx, model.NewCategory{Name: in.Name, Color: in.Color, Icon: in.Icon, Position: rowPos})
	if addErr != nil {
		return model.Category{}, s.finish(ctx, op, &StoreError{Op: op, Err: addErr}, "")
	}

	if in.ParentID != "" {
		edgePos := in.Position
		if edgePos < 0 {
			edgePos = tree.NextPosition(in.ParentID, s.categories, s.edges)
		}
		_, linkErr := s.store.AddCategoryRelationship(ctx, model.NewCategoryEdge{ParentID: in.ParentID, ChildID: created.ID, Position: edgePos})
		if linkErr != nil {
			return created, s.finish(ctx, op, &StoreError{Op: op, ID: created.ID, Err: linkErr}, "")
		}
	}

	if in.Position >= 0 {
		if refreshErr := s.refresh(ctx); refreshErr != nil {
			return created, s.finish(ctx, op, refreshErr, "")
		}
		for _, o := range tree.PlanRenumber(in.ParentID, created.ID, in.Position, s.categories, s.edges) {
			if execErr := s.execOp(ctx, o); execErr != nil {
				return created, s.finish(ctx, op, &StoreError{Op: op, ID: created.ID, Err: execErr}, "")
			}
		}
	}

	return created, s.finish(ctx, op, nil, fmt.Sprintf("Created category %q", created.Name))
}

// UpdateCategory edits display fields (name, color, icon).
func (s *Session) UpdateCategory(ctx context.Context, id string, in CategoryUpdate) (err error) {
	const op = "update category"
	defer s.guard(ctx, op, true, &err)

	id = strings.TrimSpace(id)
	if err := requireID("category", id); err != nil {
		return s.reject(op, err)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := requireName("name", name); err != nil {
			return s.reject(op, err)
		}
		in.Name = &name
	}
	if err := validateStruct(in); err != nil {
		return s.reject(op, err)
	}
	patch := model.CategoryPatch{Name: in.Name, Color: in.Color, Icon: in.Icon}
	if patch.Empty() {
		return s.reject(op, &ValidationError{Message: "nothing to update"})
	}

	if storeErr := s.store.UpdateCategory(ctx, id, patch); storeErr != nil {
		return s.finish(ctx, op, &StoreError{Op: op, ID: id, Err: storeErr}, "")
	}
	return s.finish(ctx, op, nil, "Category updated")
}

// DeleteCategory issues exactly one store delete; the store removes the subtree.
func (s *Session) DeleteCategory(ctx context.Context, id string) (err error) {
	const op = "delete category"
	defer s.guard(ctx, op, true, &err)

	id = strings.TrimSpace(id)
	if err := requireID("category", id); err != nil {
		return s.reject(op, err)
	}
	name := id
	if c, ok := s.Category(id); ok {
		name = c.Name
	}
	if storeErr := s.store.DeleteCategory(ctx, id); storeErr != nil {
		return s.finish(ctx, op, &StoreError{Op: op, ID: id, Err: storeErr}, "")
	}
	s.CategorySelection.Remove(id)
	return s.finish(ctx, op, nil, fmt.Sprintf("Deleted category %q", name))
}

// BulkDeleteCategories deletes ids one at a time in the given order and stops at the first
// failure. Already-applied deletes stay applied. The category selection is cleared only
// when every delete succeeded.
func (s *Session) BulkDeleteCategories(ctx context.Context, ids []string) (err error) {
	const op = "bulk delete categories"
	defer s.guard(ctx, op, true, &err)

	ids = trimIDs(ids)
	if len(ids) == 0 {
		return s.reject(op, &ValidationError{Field: "ids", Message: "no categories selected"})
	}
	for i, id := range ids {
		if storeErr := s.store.DeleteCategory(ctx, id); storeErr != nil {
			s.logger.Warn("bulk delete aborted",
				zap.String("failed_id", id),
				zap.Int("deleted", i),
				zap.Int("requested", len(ids)),
			)
			return s.finish(ctx, op, &StoreError{Op: op, ID: id, Err: storeErr}, "")
		}
	}
	s.CategorySelection.Clear()
	return s.finish(ctx, op, nil, fmt.Sprintf("Deleted %d categories", len(ids)))
}

// SelectedCategoryIDs returns the selection in tree pre-order (parents before their
// descendants), with ids no longer in the tree last.
func (s *Session) SelectedCategoryIDs() []string {
	out := make([]string, 0, s.CategorySelection.Len())
	placed := map[string]bool{}
	for _, id := range tree.IDs(s.forest) {
		if s.CategorySelection.Has(id) {
			out = append(out, id)
			placed[id] = true
		}
	}
	for _, id := range s.CategorySelection.IDs() {
		if !placed[id] {
			out = append(out, id)
		}
	}
	return out
}

// ToggleSelectAllCategories selects every category in the tree, or clears when all are selected.
func (s *Session) ToggleSelectAllCategories() {
	s.CategorySelection.SelectAll(tree.IDs(s.forest))
}
