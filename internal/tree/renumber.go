package tree

import "shelf-cli/internal/model"

// PlanRenumber returns the position updates that make the sibling group under parentID
// ("" = roots) read 0..n-1, with movedID inserted at index position among the others.
// Positions beyond the group clamp to the end. Rows already at their index get no op.
//
// The group is taken from the tree as it stands after the move committed.
func PlanRenumber(parentID, movedID string, position int, categories []model.Category, edges []model.CategoryEdge) []Op {
	forest := BuildTree(categories, edges)
	group := forest
	if parentID != "" {
		parent, ok := Find(forest, parentID)
		if !ok {
			return nil
		}
		group = parent.Children
	}

	others := make([]model.CategoryNode, 0, len(group))
	var moved *model.CategoryNode
	for i := range group {
		if group[i].ID == movedID {
			n := group[i]
			moved = &n
			continue
		}
		others = append(others, group[i])
	}

	ordered := others
	if moved != nil {
		if position < 0 || position > len(others) {
			position = len(others)
		}
		ordered = make([]model.CategoryNode, 0, len(group))
		ordered = append(ordered, others[:position]...)
		ordered = append(ordered, *moved)
		ordered = append(ordered, others[position:]...)
	}

	var ops []Op
	for i, n := range ordered {
		if n.Position == i {
			continue
		}
		if parentID == "" {
			ops = append(ops, Op{Kind: OpUpdateCategoryPosition, CategoryID: n.ID, Position: i})
		} else {
			ops = append(ops, Op{Kind: OpUpdateEdgePosition, EdgeID: n.EdgeID, ParentID: parentID, ChildID: n.ID, Position: i})
		}
	}
	return ops
}

// NextPosition returns the append position for a new child of parentID ("" = roots).
func NextPosition(parentID string, categories []model.Category, edges []model.CategoryEdge) int {
	forest := BuildTree(categories, edges)
	group := forest
	if parentID != "" {
		parent, ok := Find(forest, parentID)
		if !ok {
			return 0
		}
		group = parent.Children
	}
	next := 0
	for _, n := range group {
		if n.Position >= next {
			next = n.Position + 1
		}
	}
	return next
}
