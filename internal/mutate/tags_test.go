package mutate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag_DuplicateNamesAreSeparateRows(t *testing.T) {
	st := newFakeStore()
	s := newTestSession(t, st, Options{})
	ctx := context.Background()

	a, err := s.CreateTag(ctx, "JavaScript")
	require.NoError(t, err)
	b, err := s.CreateTag(ctx, "JavaScript")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Tags(), 2)
	assert.Equal(t, []string{"AddTag:JavaScript", "AddTag:JavaScript"}, st.mutations())
}

func TestCreateTag_BlankNameRejected(t *testing.T) {
	st := newFakeStore()
	s := newTestSession(t, st, Options{})

	_, err := s.CreateTag(context.Background(), " \t")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, st.calls)
}

func TestRenameAndDeleteTag(t *testing.T) {
	st := newFakeStore()
	s := newTestSession(t, st, Options{})
	ctx := context.Background()

	tag, err := s.CreateTag(ctx, "js")
	require.NoError(t, err)
	require.NoError(t, s.RenameTag(ctx, tag.ID, " JavaScript "))
	got, ok := s.Tag(tag.ID)
	require.True(t, ok)
	assert.Equal(t, "JavaScript", got.Name)

	err = s.RenameTag(ctx, "tag-404", "x")
	require.Error(t, err)
	assert.Equal(t, "tag not found: tag-404", err.Error())

	s.TagSelection.Toggle(tag.ID)
	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	assert.Empty(t, s.Tags())
	assert.False(t, s.TagSelection.Has(tag.ID))
}

func TestBulkDeleteTags_StopsAtFirstFailure(t *testing.T) {
	st := newFakeStore()
	s := newTestSession(t, st, Options{})
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.CreateTag(ctx, name)
		require.NoError(t, err)
	}
	s.ToggleSelectAllTags()
	ids := s.SelectedTagIDs()
	require.Len(t, ids, 3)

	st.calls = nil
	st.fail["DeleteTag:"+ids[1]] = errors.New("tag is referenced")
	err := s.BulkDeleteTags(ctx, ids)
	require.Error(t, err)
	assert.Equal(t, []string{"DeleteTag:" + ids[0], "DeleteTag:" + ids[1]}, st.mutations())
	assert.Equal(t, 3, s.TagSelection.Len())
	assert.Len(t, s.Tags(), 2)

	delete(st.fail, "DeleteTag:"+ids[1])
	require.NoError(t, s.BulkDeleteTags(ctx, s.SelectedTagIDs()))
	assert.Equal(t, 0, s.TagSelection.Len())
	assert.Empty(t, s.Tags())
}
