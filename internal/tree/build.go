package tree

import (
	"sort"
	"strings"

	"shelf-cli/internal/model"
)

type childRef struct {
	id       string
	edgeID   string
	position int
}

// BuildTree turns the flat category rows and parent/child edges into an ordered forest.
//
// Roots are the categories with no (valid) incoming edge. Siblings are ordered by position;
// equal positions keep arrival order. Edges naming unknown categories, self edges, and any
// second incoming edge for the same child are skipped. Descent stops at an id that is
// already on the current path, so a corrupted edge set cannot loop forever.
func BuildTree(categories []model.Category, edges []model.CategoryEdge) []model.CategoryNode {
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	childrenOf := map[string][]childRef{}
	hasParent := map[string]bool{}
	for _, e := range validEdges(byID, edges) {
		hasParent[e.ChildID] = true
		childrenOf[e.ParentID] = append(childrenOf[e.ParentID], childRef{id: e.ChildID, edgeID: e.ID, position: e.Position})
	}
	for pid := range childrenOf {
		sortRefs(childrenOf[pid])
	}

	roots := make([]childRef, 0, len(categories))
	seen := map[string]bool{}
	for _, c := range categories {
		if hasParent[c.ID] || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		roots = append(roots, childRef{id: c.ID, position: c.Position})
	}
	sortRefs(roots)

	visiting := map[string]bool{}
	var build func(ref childRef) model.CategoryNode
	build = func(ref childRef) model.CategoryNode {
		n := model.CategoryNode{Category: byID[ref.id], EdgeID: ref.edgeID, Children: []model.CategoryNode{}}
		n.Position = ref.position
		if visiting[ref.id] {
			return n
		}
		visiting[ref.id] = true
		for _, ch := range childrenOf[ref.id] {
			n.Children = append(n.Children, build(ch))
		}
		delete(visiting, ref.id)
		return n
	}

	out := make([]model.CategoryNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}

// validEdges filters edges down to the ones BuildTree attaches, in arrival order.
func validEdges(byID map[string]model.Category, edges []model.CategoryEdge) []model.CategoryEdge {
	out := make([]model.CategoryEdge, 0, len(edges))
	hasParent := map[string]bool{}
	for _, e := range edges {
		pid := strings.TrimSpace(e.ParentID)
		cid := strings.TrimSpace(e.ChildID)
		if pid == "" || cid == "" || pid == cid {
			continue
		}
		if _, ok := byID[cid]; !ok {
			continue
		}
		if _, ok := byID[pid]; !ok {
			continue
		}
		if hasParent[cid] {
			continue
		}
		hasParent[cid] = true
		out = append(out, e)
	}
	return out
}

func sortRefs(refs []childRef) {
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].position < refs[j].position })
}
