package tree

import (
	"fmt"
	"strings"

	"shelf-cli/internal/model"
)

type OpKind string

const (
	OpDeleteEdge             OpKind = "delete_edge"
	OpCreateEdge             OpKind = "create_edge"
	OpUpdateEdgePosition     OpKind = "update_edge_position"
	OpUpdateCategoryPosition OpKind = "update_category_position"
)

// Op is a single store mutation planned for a move.
//
// DeleteEdge uses EdgeID, or ChildID when the edge id is not known yet (inverse of a create).
// CreateEdge may carry an EdgeID to restore a previously deleted edge under its old id.
type Op struct {
	Kind       OpKind `json:"kind"`
	EdgeID     string `json:"edge_id,omitempty"`
	ParentID   string `json:"parent_id,omitempty"`
	ChildID    string `json:"child_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Position   int    `json:"position"`
}

func (o Op) String() string {
	switch o.Kind {
	case OpDeleteEdge:
		if o.EdgeID == "" {
			return fmt.Sprintf("delete edge of %s", o.ChildID)
		}
		return fmt.Sprintf("delete edge %s", o.EdgeID)
	case OpCreateEdge:
		return fmt.Sprintf("create edge %s -> %s @%d", o.ParentID, o.ChildID, o.Position)
	case OpUpdateEdgePosition:
		return fmt.Sprintf("update edge %s position %d", o.EdgeID, o.Position)
	case OpUpdateCategoryPosition:
		return fmt.Sprintf("update category %s position %d", o.CategoryID, o.Position)
	default:
		return string(o.Kind)
	}
}

// Plan is the validated result of PlanMove. TargetID "" means root level.
type Plan struct {
	DraggedID string `json:"dragged_id"`
	TargetID  string `json:"target_id,omitempty"`
	Position  int    `json:"position"`
	Ops       []Op   `json:"ops"`
}

// Reparents reports whether the plan changes the dragged category's parent.
func (p Plan) Reparents() bool {
	for _, op := range p.Ops {
		if op.Kind == OpDeleteEdge || op.Kind == OpCreateEdge {
			return true
		}
	}
	return false
}

// CycleError rejects a move of a category into itself or one of its descendants.
type CycleError struct {
	DraggedID string
	TargetID  string
}

func (e *CycleError) Error() string {
	if e.DraggedID == e.TargetID {
		return fmt.Sprintf("cannot move category %s into itself", e.DraggedID)
	}
	return fmt.Sprintf("cannot move category %s into its descendant %s", e.DraggedID, e.TargetID)
}

// PlanMove decides which edge mutations move draggedID under targetID ("" = root) at position.
//
// The cycle check runs before any op is planned; a rejected move yields no ops.
func PlanMove(draggedID, targetID string, position int, edges []model.CategoryEdge) (Plan, error) {
	draggedID = strings.TrimSpace(draggedID)
	targetID = strings.TrimSpace(targetID)
	plan := Plan{DraggedID: draggedID, TargetID: targetID, Position: position}

	if draggedID == targetID {
		return Plan{}, &CycleError{DraggedID: draggedID, TargetID: targetID}
	}
	if targetID != "" && IsDescendant(draggedID, targetID, edges) {
		return Plan{}, &CycleError{DraggedID: draggedID, TargetID: targetID}
	}

	existing, hasEdge := ParentEdge(draggedID, edges)
	switch {
	case !hasEdge:
		plan.Ops = append(plan.Ops, placeOp(draggedID, targetID, position))
	case existing.ParentID != targetID:
		plan.Ops = append(plan.Ops, Op{Kind: OpDeleteEdge, EdgeID: existing.ID, ParentID: existing.ParentID, ChildID: draggedID})
		plan.Ops = append(plan.Ops, placeOp(draggedID, targetID, position))
	default:
		plan.Ops = append(plan.Ops, Op{Kind: OpUpdateEdgePosition, EdgeID: existing.ID, ParentID: existing.ParentID, ChildID: draggedID, Position: position})
	}
	return plan, nil
}

func placeOp(draggedID, targetID string, position int) Op {
	if targetID == "" {
		return Op{Kind: OpUpdateCategoryPosition, CategoryID: draggedID, Position: position}
	}
	return Op{Kind: OpCreateEdge, ParentID: targetID, ChildID: draggedID, Position: position}
}

// IsDescendant reports whether id is reachable from ancestorID by following child edges.
func IsDescendant(ancestorID, id string, edges []model.CategoryEdge) bool {
	childrenOf := map[string][]string{}
	for _, e := range edges {
		childrenOf[e.ParentID] = append(childrenOf[e.ParentID], e.ChildID)
	}
	seen := map[string]bool{}
	var walk func(cur string) bool
	walk = func(cur string) bool {
		if seen[cur] {
			return false
		}
		seen[cur] = true
		for _, ch := range childrenOf[cur] {
			if ch == id || walk(ch) {
				return true
			}
		}
		return false
	}
	return walk(ancestorID)
}

// Descendants returns every id reachable from id via child edges, depth-first.
func Descendants(id string, edges []model.CategoryEdge) []string {
	childrenOf := map[string][]string{}
	for _, e := range edges {
		childrenOf[e.ParentID] = append(childrenOf[e.ParentID], e.ChildID)
	}
	out := []string{}
	seen := map[string]bool{id: true}
	var walk func(cur string)
	walk = func(cur string) {
		for _, ch := range childrenOf[cur] {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
			walk(ch)
		}
	}
	walk(id)
	return out
}

// ParentEdge returns the first edge naming childID as its child.
func ParentEdge(childID string, edges []model.CategoryEdge) (model.CategoryEdge, bool) {
	for _, e := range edges {
		if e.ChildID == childID {
			return e, true
		}
	}
	return model.CategoryEdge{}, false
}

// Inverse returns the ops that undo the plan, given the edges and categories it was planned against.
func (p Plan) Inverse(edges []model.CategoryEdge, categories []model.Category) []Op {
	edgeByID := map[string]model.CategoryEdge{}
	for _, e := range edges {
		edgeByID[e.ID] = e
	}
	catByID := map[string]model.Category{}
	for _, c := range categories {
		catByID[c.ID] = c
	}

	out := make([]Op, 0, len(p.Ops))
	for i := len(p.Ops) - 1; i >= 0; i-- {
		op := p.Ops[i]
		switch op.Kind {
		case OpDeleteEdge:
			old := edgeByID[op.EdgeID]
			out = append(out, Op{Kind: OpCreateEdge, EdgeID: old.ID, ParentID: old.ParentID, ChildID: old.ChildID, Position: old.Position})
		case OpCreateEdge:
			out = append(out, Op{Kind: OpDeleteEdge, ParentID: op.ParentID, ChildID: op.ChildID})
		case OpUpdateEdgePosition:
			old := edgeByID[op.EdgeID]
			out = append(out, Op{Kind: OpUpdateEdgePosition, EdgeID: op.EdgeID, ParentID: old.ParentID, ChildID: old.ChildID, Position: old.Position})
		case OpUpdateCategoryPosition:
			out = append(out, Op{Kind: OpUpdateCategoryPosition, CategoryID: op.CategoryID, Position: catByID[op.CategoryID].Position})
		}
	}
	return out
}
