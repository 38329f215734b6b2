package tree

import (
	"fmt"
	"sort"

	"shelf-cli/internal/model"
)

type IssueLevel string

const (
	IssueLevelError IssueLevel = "error"
	IssueLevelWarn  IssueLevel = "warn"
)

type Issue struct {
	Level      IssueLevel `json:"level"`
	Code       string     `json:"code"`
	Message    string     `json:"message"`
	CategoryID string     `json:"categoryId,omitempty"`
	EdgeID     string     `json:"edgeId,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == IssueLevelError {
			return true
		}
	}
	return false
}

// Check reports edge-set problems that BuildTree silently tolerates: dangling or self edges,
// a second parent for one child, categories unreachable from any root (cycles), and
// duplicate sibling positions.
func Check(categories []model.Category, edges []model.CategoryEdge) Report {
	issues := []Issue{}
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	parentOf := map[string]string{}
	for _, e := range edges {
		_, parentOK := byID[e.ParentID]
		_, childOK := byID[e.ChildID]
		switch {
		case e.ParentID == e.ChildID:
			issues = append(issues, Issue{Level: IssueLevelError, Code: "self_edge", EdgeID: e.ID, CategoryID: e.ChildID,
				Message: fmt.Sprintf("edge %s links category %s to itself", e.ID, e.ChildID)})
		case !parentOK || !childOK:
			issues = append(issues, Issue{Level: IssueLevelWarn, Code: "dangling_edge", EdgeID: e.ID,
				Message: fmt.Sprintf("edge %s references a missing category (%s -> %s)", e.ID, e.ParentID, e.ChildID)})
		default:
			if prev, ok := parentOf[e.ChildID]; ok {
				issues = append(issues, Issue{Level: IssueLevelError, Code: "multiple_parents", EdgeID: e.ID, CategoryID: e.ChildID,
					Message: fmt.Sprintf("category %s has parents %s and %s", e.ChildID, prev, e.ParentID)})
				continue
			}
			parentOf[e.ChildID] = e.ParentID
		}
	}

	forest := BuildTree(categories, edges)
	placed := map[string]bool{}
	for _, id := range IDs(forest) {
		placed[id] = true
	}
	var unreachable []string
	for _, c := range categories {
		if !placed[c.ID] {
			unreachable = append(unreachable, c.ID)
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		issues = append(issues, Issue{Level: IssueLevelError, Code: "unreachable", CategoryID: id,
			Message: fmt.Sprintf("category %s is not reachable from any root (cycle)", id)})
	}

	checkGroup := func(parentID string, group []model.CategoryNode) {
		seen := map[int]string{}
		for _, n := range group {
			if other, ok := seen[n.Position]; ok {
				issues = append(issues, Issue{Level: IssueLevelWarn, Code: "duplicate_position", CategoryID: n.ID,
					Message: fmt.Sprintf("categories %s and %s share position %d under %q", other, n.ID, n.Position, parentID)})
				continue
			}
			seen[n.Position] = n.ID
		}
	}
	checkGroup("", forest)
	Walk(forest, func(n *model.CategoryNode, _ int, _ string) bool {
		checkGroup(n.ID, n.Children)
		return true
	})

	return Report{Issues: issues}
}
