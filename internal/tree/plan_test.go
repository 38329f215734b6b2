package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelf-cli/internal/model"
)

func TestPlanMove_IntoDescendantIsCycle(t *testing.T) {
	_, edges := codingFixture()

	_, err := PlanMove("1", "2", 0, edges)
	require.Error(t, err)
	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "1", ce.DraggedID)
	assert.Equal(t, "2", ce.TargetID)
}

func TestPlanMove_IntoSelfIsCycle(t *testing.T) {
	_, edges := codingFixture()

	plan, err := PlanMove("2", "2", 0, edges)
	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	assert.Empty(t, plan.Ops)
	assert.Contains(t, err.Error(), "into itself")
}

func TestPlanMove_DeepDescendantIsCycle(t *testing.T) {
	edges := []model.CategoryEdge{edge("e1", "a", "b", 0), edge("e2", "b", "c", 0), edge("e3", "c", "d", 0)}

	_, err := PlanMove("a", "d", 0, edges)
	var ce *CycleError
	assert.True(t, errors.As(err, &ce))

	_, err = PlanMove("d", "a", 0, edges)
	assert.NoError(t, err)
}

func TestPlanMove_ChildToRoot(t *testing.T) {
	_, edges := codingFixture()

	plan, err := PlanMove("3", "", 5, edges)
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Kind: OpDeleteEdge, EdgeID: "e1b", ParentID: "1", ChildID: "3"},
		{Kind: OpUpdateCategoryPosition, CategoryID: "3", Position: 5},
	}, plan.Ops)
	assert.True(t, plan.Reparents())
}

func TestPlanMove_RootUnderParent(t *testing.T) {
	_, edges := codingFixture()

	plan, err := PlanMove("4", "1", 2, edges)
	require.NoError(t, err)
	assert.Equal(t, []Op{{Kind: OpCreateEdge, ParentID: "1", ChildID: "4", Position: 2}}, plan.Ops)
}

func TestPlanMove_RootToRootUpdatesRowPosition(t *testing.T) {
	plan, err := PlanMove("4", "", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []Op{{Kind: OpUpdateCategoryPosition, CategoryID: "4", Position: 3}}, plan.Ops)
	assert.False(t, plan.Reparents())
}

func TestPlanMove_ReparentDeletesBeforeCreate(t *testing.T) {
	cats, edges := codingFixture()
	cats = append(cats, cat("4", "Cooking", 1))

	plan, err := PlanMove("3", "4", 0, edges)
	require.NoError(t, err)
	require.Len(t, plan.Ops, 2)
	assert.Equal(t, OpDeleteEdge, plan.Ops[0].Kind)
	assert.Equal(t, "e1b", plan.Ops[0].EdgeID)
	assert.Equal(t, Op{Kind: OpCreateEdge, ParentID: "4", ChildID: "3", Position: 0}, plan.Ops[1])
}

func TestPlanMove_SameParentOnlyUpdatesEdge(t *testing.T) {
	_, edges := codingFixture()

	plan, err := PlanMove("3", "1", 0, edges)
	require.NoError(t, err)
	assert.Equal(t, []Op{{Kind: OpUpdateEdgePosition, EdgeID: "e1b", ParentID: "1", ChildID: "3", Position: 0}}, plan.Ops)
	assert.False(t, plan.Reparents())
}

func TestPlanMove_SamePositionIsIdempotent(t *testing.T) {
	cats, edges := codingFixture()
	before := BuildTree(cats, edges)

	plan, err := PlanMove("3", "1", 1, edges)
	require.NoError(t, err)
	gotCats, gotEdges, err := Apply(cats, edges, plan.Ops)
	require.NoError(t, err)
	assert.Equal(t, before, BuildTree(gotCats, gotEdges))
}

func TestPlan_InverseRoundTrip(t *testing.T) {
	cats, edges := codingFixture()
	cats = append(cats, cat("4", "Cooking", 1), cat("5", "Baking", 0))
	edges = append(edges, edge("e45", "4", "5", 0))
	original := BuildTree(cats, edges)

	moves := []struct {
		name    string
		dragged string
		target  string
		pos     int
	}{
		{name: "child to root", dragged: "3", target: "", pos: 5},
		{name: "root under parent", dragged: "4", target: "1", pos: 0},
		{name: "reparent", dragged: "5", target: "2", pos: 3},
		{name: "reorder", dragged: "2", target: "1", pos: 7},
		{name: "root reorder", dragged: "1", target: "", pos: 9},
	}
	for _, tc := range moves {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := PlanMove(tc.dragged, tc.target, tc.pos, edges)
			require.NoError(t, err)

			movedCats, movedEdges, err := Apply(cats, edges, plan.Ops)
			require.NoError(t, err)
			assert.NotEqual(t, original, BuildTree(movedCats, movedEdges))

			backCats, backEdges, err := Apply(movedCats, movedEdges, plan.Inverse(edges, cats))
			require.NoError(t, err)
			assert.Equal(t, original, BuildTree(backCats, backEdges))
		})
	}
}

func TestApply_UnknownTargetsFail(t *testing.T) {
	cats, edges := codingFixture()

	_, _, err := Apply(cats, edges, []Op{{Kind: OpDeleteEdge, EdgeID: "missing"}})
	assert.Error(t, err)
	_, _, err = Apply(cats, edges, []Op{{Kind: OpUpdateCategoryPosition, CategoryID: "missing"}})
	assert.Error(t, err)
	_, _, err = Apply(cats, edges, []Op{{Kind: "bogus"}})
	assert.Error(t, err)

	// inputs untouched
	assert.Len(t, edges, 2)
}

func TestDescendants(t *testing.T) {
	edges := []model.CategoryEdge{edge("e1", "a", "b", 0), edge("e2", "b", "c", 0), edge("e3", "a", "d", 1), edge("e4", "c", "a", 0)}

	assert.Equal(t, []string{"b", "c", "d"}, Descendants("a", edges))
	assert.Empty(t, Descendants("d", edges))
	assert.True(t, IsDescendant("a", "c", edges))
	assert.False(t, IsDescendant("d", "a", edges))
}

func TestPlanRenumber(t *testing.T) {
	cats := []model.Category{cat("p", "P", 0), cat("a", "A", 0), cat("b", "B", 0), cat("x", "X", 0), cat("c", "C", 2)}
	edges := []model.CategoryEdge{
		edge("ea", "p", "a", 0),
		edge("eb", "p", "b", 1),
		edge("ec", "p", "c", 2),
		edge("ex", "p", "x", 1),
	}

	ops := PlanRenumber("p", "x", 1, cats, edges)
	assert.Equal(t, []Op{
		{Kind: OpUpdateEdgePosition, EdgeID: "eb", ParentID: "p", ChildID: "b", Position: 2},
		{Kind: OpUpdateEdgePosition, EdgeID: "ec", ParentID: "p", ChildID: "c", Position: 3},
	}, ops)

	_, renumbered, err := Apply(cats, edges, ops)
	require.NoError(t, err)
	forest := BuildTree(cats, renumbered)
	assert.Equal(t, []string{"A", "X", "B", "C"}, names(forest[0].Children))
}

func TestPlanRenumber_RootsClampToEnd(t *testing.T) {
	cats := []model.Category{cat("a", "A", 0), cat("b", "B", 1), cat("m", "M", 5)}

	ops := PlanRenumber("", "m", 5, cats, nil)
	assert.Equal(t, []Op{{Kind: OpUpdateCategoryPosition, CategoryID: "m", Position: 2}}, ops)

	assert.Nil(t, PlanRenumber("ghost", "m", 0, cats, nil))
	assert.Empty(t, PlanRenumber("", "a", 0, cats[:2], nil))
}

func TestNextPosition(t *testing.T) {
	cats, edges := codingFixture()

	assert.Equal(t, 2, NextPosition("1", cats, edges))
	assert.Equal(t, 1, NextPosition("", cats, edges))
	assert.Equal(t, 0, NextPosition("2", cats, edges))
	assert.Equal(t, 0, NextPosition("ghost", cats, edges))
}
