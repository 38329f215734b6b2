package mutate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetExpanded_PersistsWithoutRefetch(t *testing.T) {
	st := codingStore()
	s := newTestSession(t, st, Options{})
	assert.True(t, s.IsExpanded("1"))

	require.NoError(t, s.ToggleExpanded(context.Background(), "1"))
	assert.False(t, s.IsExpanded("1"))
	assert.Equal(t, []string{"UpdateCategory:1"}, st.calls)
	assert.Equal(t, StatusNone, s.Status().Kind)

	require.NoError(t, s.Refresh(context.Background()))
	c, _ := s.Category("1")
	assert.False(t, c.Expanded())
}

func TestSetExpanded_FailureKeepsOptimisticState(t *testing.T) {
	st := codingStore()
	s := newTestSession(t, st, Options{})
	st.fail["UpdateCategory:1"] = errors.New("attempt to write a readonly database")

	err := s.SetExpanded(context.Background(), "1", false)
	require.Error(t, err)
	assert.True(t, IsStore(err))
	assert.False(t, s.IsExpanded("1"))
	assert.Equal(t, Status{Kind: StatusError, Message: "attempt to write a readonly database"}, s.Status())
}

func TestSetExpanded_FailureRevertsWhenEnabled(t *testing.T) {
	st := codingStore()
	s := newTestSession(t, st, Options{RevertExpandOnFailure: true})
	st.fail["UpdateCategory:1"] = errors.New("attempt to write a readonly database")

	require.Error(t, s.SetExpanded(context.Background(), "1", false))
	assert.True(t, s.IsExpanded("1"))
}
