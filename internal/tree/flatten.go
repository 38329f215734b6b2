package tree

import "shelf-cli/internal/model"

// Row is one visible line of a rendered tree.
type Row struct {
	Node        *model.CategoryNode
	Depth       int
	ParentID    string
	HasChildren bool
	Expanded    bool
}

// Flatten returns the visible rows in pre-order. Children of a collapsed node are hidden.
// A nil isExpanded expands everything.
func Flatten(nodes []model.CategoryNode, isExpanded func(id string) bool) []Row {
	var out []Row
	var walk func(ns []model.CategoryNode, depth int, parentID string)
	walk = func(ns []model.CategoryNode, depth int, parentID string) {
		for i := range ns {
			n := &ns[i]
			expanded := isExpanded == nil || isExpanded(n.ID)
			out = append(out, Row{
				Node:        n,
				Depth:       depth,
				ParentID:    parentID,
				HasChildren: len(n.Children) > 0,
				Expanded:    expanded,
			})
			if expanded {
				walk(n.Children, depth+1, n.ID)
			}
		}
	}
	walk(nodes, 0, "")
	return out
}

// Walk visits every node in pre-order. Returning false from fn skips the node's children.
func Walk(nodes []model.CategoryNode, fn func(n *model.CategoryNode, depth int, parentID string) bool) {
	var walk func(ns []model.CategoryNode, depth int, parentID string)
	walk = func(ns []model.CategoryNode, depth int, parentID string) {
		for i := range ns {
			if fn(&ns[i], depth, parentID) {
				walk(ns[i].Children, depth+1, ns[i].ID)
			}
		}
	}
	walk(nodes, 0, "")
}

func Find(nodes []model.CategoryNode, id string) (*model.CategoryNode, bool) {
	var found *model.CategoryNode
	Walk(nodes, func(n *model.CategoryNode, _ int, _ string) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

func Count(nodes []model.CategoryNode) int {
	n := 0
	Walk(nodes, func(*model.CategoryNode, int, string) bool {
		n++
		return true
	})
	return n
}

// IDs returns every node id in pre-order.
func IDs(nodes []model.CategoryNode) []string {
	out := []string{}
	Walk(nodes, func(n *model.CategoryNode, _ int, _ string) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

// Path returns the names from the root down to id, or nil when id is not in the forest.
func Path(nodes []model.CategoryNode, id string) []string {
	var path []string
	var walk func(ns []model.CategoryNode, prefix []string) bool
	walk = func(ns []model.CategoryNode, prefix []string) bool {
		for _, n := range ns {
			cur := append(append([]string{}, prefix...), n.Name)
			if n.ID == id {
				path = cur
				return true
			}
			if walk(n.Children, cur) {
				return true
			}
		}
		return false
	}
	walk(nodes, nil)
	return path
}
