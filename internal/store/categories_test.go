package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelf-cli/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func mustAddCategory(t *testing.T, s Store, name string, pos int) model.Category {
	t.Helper()
	c, err := s.AddCategory(context.Background(), model.NewCategory{Name: name, Color: "#336699", Position: pos})
	require.NoError(t, err)
	return c
}

func mustLink(t *testing.T, s Store, parent, child model.Category, pos int) model.CategoryEdge {
	t.Helper()
	e, err := s.AddCategoryRelationship(context.Background(), model.NewCategoryEdge{ParentID: parent.ID, ChildID: child.ID, Position: pos})
	require.NoError(t, err)
	return e
}

func TestCategories_AddFetchUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	coding := mustAddCategory(t, s, "  Coding ", 0)
	assert.Equal(t, "Coding", coding.Name)
	assert.Regexp(t, `^cat-[a-z2-7]{8}$`, coding.ID)
	assert.Nil(t, coding.IsExpanded)

	cooking := mustAddCategory(t, s, "Cooking", 1)

	cats, err := s.FetchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, coding.ID, cats[0].ID)
	assert.Equal(t, cooking.ID, cats[1].ID)
	assert.True(t, cats[0].Expanded())

	err = s.UpdateCategory(ctx, coding.ID, model.CategoryPatch{
		Name:       model.StrPtr("Programming"),
		Icon:       model.StrPtr("💻"),
		Position:   model.IntPtr(4),
		IsExpanded: model.BoolPtr(false),
	})
	require.NoError(t, err)

	cats, err = s.FetchCategories(ctx)
	require.NoError(t, err)
	got := cats[0]
	assert.Equal(t, "Programming", got.Name)
	require.NotNil(t, got.Icon)
	assert.Equal(t, "💻", *got.Icon)
	assert.Equal(t, 4, got.Position)
	require.NotNil(t, got.IsExpanded)
	assert.False(t, got.Expanded())
	assert.Equal(t, "#336699", got.Color)

	require.NoError(t, s.UpdateCategory(ctx, coding.ID, model.CategoryPatch{Icon: model.StrPtr("")}))
	cats, err = s.FetchCategories(ctx)
	require.NoError(t, err)
	assert.Nil(t, cats[0].Icon)
}

func TestCategories_UpdateMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateCategory(context.Background(), "cat-missing", model.CategoryPatch{Name: model.StrPtr("x")})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "category not found: cat-missing", err.Error())

	assert.NoError(t, s.UpdateCategory(context.Background(), "cat-missing", model.CategoryPatch{}))
}

func TestCategories_AddRequiresName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddCategory(context.Background(), model.NewCategory{Name: "   "})
	assert.Error(t, err)
}

func TestDeleteCategory_CascadesSubtreeAndLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	root := mustAddCategory(t, s, "Coding", 0)
	js := mustAddCategory(t, s, "JS", 0)
	react := mustAddCategory(t, s, "React", 0)
	other := mustAddCategory(t, s, "Cooking", 1)
	mustLink(t, s, root, js, 0)
	mustLink(t, s, js, react, 0)

	bm, err := s.AddBookmark(ctx, model.NewBookmark{
		URL:         "https://react.dev",
		Title:       "React",
		CategoryIDs: []string{react.ID, other.ID},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, root.ID))

	cats, err := s.FetchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, other.ID, cats[0].ID)

	edges, err := s.FetchCategoryRelationships(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)

	bms, err := s.FetchBookmarks(ctx, model.BookmarkFilter{})
	require.NoError(t, err)
	require.Len(t, bms, 1)
	assert.Equal(t, bm.ID, bms[0].ID)
	assert.Equal(t, []string{other.ID}, bms[0].CategoryIDs)

	evs, err := s.ReadEvents(ctx, EventFilter{EntityID: root.ID})
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1]
	assert.Equal(t, EventCategoryDelete, last.Type)
}

func TestDeleteCategory_MissingIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustAddCategory(t, s, "Keep", 0)

	require.NoError(t, s.DeleteCategory(ctx, "cat-missing"))
	require.NoError(t, s.DeleteCategory(ctx, "cat-missing"))

	cats, err := s.FetchCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	evs, err := s.ReadEvents(ctx, EventFilter{EntityID: "cat-missing"})
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestBackup_WritesCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustAddCategory(t, s, "Coding", 0)

	dest := t.TempDir() + "/backup/shelf.sqlite"
	require.NoError(t, s.Backup(ctx, dest))
	assert.Error(t, s.Backup(ctx, dest), "existing destination is refused")
}
