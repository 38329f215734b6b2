package mutate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

// PlanMove validates a move against the current snapshot without touching the store.
// A negative position appends to the end of the target's children.
func (s *Session) PlanMove(draggedID, targetID string, position int) (tree.Plan, error) {
	draggedID = strings.TrimSpace(draggedID)
	targetID = strings.TrimSpace(targetID)
	if err := requireID("category", draggedID); err != nil {
		return tree.Plan{}, err
	}
	if _, ok := s.Category(draggedID); !ok {
		return tree.Plan{}, &ValidationError{Field: "id", Message: fmt.Sprintf("category not found: %s", draggedID)}
	}
	if targetID != "" {
		if _, ok := s.Category(targetID); !ok {
			return tree.Plan{}, &ValidationError{Field: "parent", Message: fmt.Sprintf("category not found: %s", targetID)}
		}
	}
	if position < 0 {
		position = tree.NextPosition(targetID, s.categories, s.edges)
	}
	return tree.PlanMove(draggedID, targetID, position, s.edges)
}

// Move reparents and/or reorders draggedID under targetID ("" = root) at position.
//
// Planned ops run in order (old edge deleted before the new one is created), then the
// destination sibling group is renumbered to 0..n-1. A failure stops the sequence; the
// ops already applied stay applied unless CompensateFailedReparent restores the old edge.
func (s *Session) Move(ctx context.Context, draggedID, targetID string, position int) (err error) {
	const op = "move category"
	defer s.guard(ctx, op, true, &err)

	plan, planErr := s.PlanMove(draggedID, targetID, position)
	if planErr != nil {
		return s.reject(op, planErr)
	}
	beforeEdges := s.edges

	for i, o := range plan.Ops {
		if execErr := s.execOp(ctx, o); execErr != nil {
			s.logger.Warn("move step failed",
				zap.String("category_id", plan.DraggedID),
				zap.String("step", o.String()),
				zap.Int("applied", i),
			)
			if s.opts.CompensateFailedReparent && o.Kind == tree.OpCreateEdge && i > 0 && plan.Ops[0].Kind == tree.OpDeleteEdge {
				s.compensate(ctx, plan, beforeEdges)
			}
			return s.finish(ctx, op, &StoreError{Op: op, ID: plan.DraggedID, Err: execErr}, "")
		}
	}

	// Renumber against the committed state so ties never persist.
	if refreshErr := s.refresh(ctx); refreshErr != nil {
		return s.finish(ctx, op, refreshErr, "")
	}
	for _, o := range tree.PlanRenumber(plan.TargetID, plan.DraggedID, plan.Position, s.categories, s.edges) {
		if execErr := s.execOp(ctx, o); execErr != nil {
			return s.finish(ctx, op, &StoreError{Op: op, ID: plan.DraggedID, Err: execErr}, "")
		}
	}

	name := plan.DraggedID
	if c, ok := s.Category(plan.DraggedID); ok {
		name = c.Name
	}
	dest := "top level"
	if plan.TargetID != "" {
		dest = plan.TargetID
		if c, ok := s.Category(plan.TargetID); ok {
			dest = c.Name
		}
	}
	return s.finish(ctx, op, nil, fmt.Sprintf("Moved %q to %s", name, dest))
}

// compensate re-creates the edge a failed reparent deleted. Best effort: failures are logged.
func (s *Session) compensate(ctx context.Context, plan tree.Plan, beforeEdges []model.CategoryEdge) {
	for _, o := range plan.Inverse(beforeEdges, s.categories) {
		if o.Kind != tree.OpCreateEdge {
			continue
		}
		if _, err := s.store.AddCategoryRelationship(ctx, model.NewCategoryEdge{ParentID: o.ParentID, ChildID: o.ChildID, Position: o.Position}); err != nil {
			s.logger.Warn("reparent compensation failed", zap.String("category_id", o.ChildID), zap.Error(err))
			return
		}
		s.logger.Info("reparent compensated", zap.String("category_id", o.ChildID), zap.String("parent_id", o.ParentID))
	}
}

func (s *Session) execOp(ctx context.Context, o tree.Op) error {
	switch o.Kind {
	case tree.OpDeleteEdge:
		id := o.EdgeID
		if id == "" {
			e, ok := tree.ParentEdge(o.ChildID, s.edges)
			if !ok {
				return nil
			}
			id = e.ID
		}
		return s.store.DeleteCategoryRelationship(ctx, id)
	case tree.OpCreateEdge:
		_, err := s.store.AddCategoryRelationship(ctx, model.NewCategoryEdge{ParentID: o.ParentID, ChildID: o.ChildID, Position: o.Position})
		return err
	case tree.OpUpdateEdgePosition:
		return s.store.UpdateCategoryRelationship(ctx, o.EdgeID, o.Position)
	case tree.OpUpdateCategoryPosition:
		pos := o.Position
		return s.store.UpdateCategory(ctx, o.CategoryID, model.CategoryPatch{Position: &pos})
	default:
		return fmt.Errorf("unknown move step %q", o.Kind)
	}
}

// placement locates id in the current tree: its parent ("" = root), its sibling group and index.
func (s *Session) placement(id string) (parentID string, group []model.CategoryNode, idx int, ok bool) {
	var find func(ns []model.CategoryNode, pid string) bool
	find = func(ns []model.CategoryNode, pid string) bool {
		for i := range ns {
			if ns[i].ID == id {
				parentID, group, idx = pid, ns, i
				return true
			}
			if find(ns[i].Children, ns[i].ID) {
				return true
			}
		}
		return false
	}
	ok = find(s.forest, "")
	return parentID, group, idx, ok
}

// Reorder moves id by delta places among its siblings.
func (s *Session) Reorder(ctx context.Context, id string, delta int) error {
	parentID, group, idx, ok := s.placement(id)
	if !ok {
		return s.reject("reorder category", &ValidationError{Field: "id", Message: fmt.Sprintf("category not found: %s", id)})
	}
	to := idx + delta
	if to < 0 || to >= len(group) {
		return nil
	}
	return s.Move(ctx, id, parentID, to)
}

// Indent makes id the last child of its previous sibling.
func (s *Session) Indent(ctx context.Context, id string) error {
	_, group, idx, ok := s.placement(id)
	if !ok {
		return s.reject("indent category", &ValidationError{Field: "id", Message: fmt.Sprintf("category not found: %s", id)})
	}
	if idx == 0 {
		return s.reject("indent category", &ValidationError{Field: "id", Message: "no previous sibling to indent under"})
	}
	prev := group[idx-1]
	return s.Move(ctx, id, prev.ID, len(prev.Children))
}

// Outdent moves id out of its parent, directly after the parent.
func (s *Session) Outdent(ctx context.Context, id string) error {
	parentID, _, _, ok := s.placement(id)
	if !ok {
		return s.reject("outdent category", &ValidationError{Field: "id", Message: fmt.Sprintf("category not found: %s", id)})
	}
	if parentID == "" {
		return s.reject("outdent category", &ValidationError{Field: "id", Message: "category is already at the top level"})
	}
	grandparentID, _, parentIdx, _ := s.placement(parentID)
	return s.Move(ctx, id, grandparentID, parentIdx+1)
}
