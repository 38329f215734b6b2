package tree

import (
	"fmt"

	"shelf-cli/internal/model"
)

// Apply runs ops against in-memory copies of categories and edges and returns the result.
// The inputs are not modified. Created edges without an EdgeID get a "pending-N" id.
func Apply(categories []model.Category, edges []model.CategoryEdge, ops []Op) ([]model.Category, []model.CategoryEdge, error) {
	cats := append([]model.Category(nil), categories...)
	out := append([]model.CategoryEdge(nil), edges...)
	pending := 0

	for _, op := range ops {
		switch op.Kind {
		case OpDeleteEdge:
			idx := -1
			for i, e := range out {
				if (op.EdgeID != "" && e.ID == op.EdgeID) || (op.EdgeID == "" && e.ChildID == op.ChildID) {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, nil, fmt.Errorf("apply %s: edge not found", op)
			}
			out = append(out[:idx], out[idx+1:]...)
		case OpCreateEdge:
			id := op.EdgeID
			if id == "" {
				pending++
				id = fmt.Sprintf("pending-%d", pending)
			}
			out = append(out, model.CategoryEdge{ID: id, ParentID: op.ParentID, ChildID: op.ChildID, Position: op.Position})
		case OpUpdateEdgePosition:
			found := false
			for i := range out {
				if out[i].ID == op.EdgeID {
					out[i].Position = op.Position
					found = true
					break
				}
			}
			if !found {
				return nil, nil, fmt.Errorf("apply %s: edge not found", op)
			}
		case OpUpdateCategoryPosition:
			found := false
			for i := range cats {
				if cats[i].ID == op.CategoryID {
					cats[i].Position = op.Position
					found = true
					break
				}
			}
			if !found {
				return nil, nil, fmt.Errorf("apply %s: category not found", op)
			}
		default:
			return nil, nil, fmt.Errorf("apply: unknown op kind %q", op.Kind)
		}
	}
	return cats, out, nil
}
