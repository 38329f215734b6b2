package mutate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shelf-cli/internal/model"
)

func TestLoggingStore_LogsCallsAndFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	st := codingStore()
	ls := NewLoggingStore(st, zap.New(core), 0)
	ctx := context.Background()

	_, err := ls.AddTag(ctx, "go")
	require.NoError(t, err)

	st.fail["DeleteCategory"] = errors.New("disk full")
	require.Error(t, ls.DeleteCategory(ctx, "1"))

	done := logs.FilterMessage("store call completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, "add_tag", done[0].ContextMap()["operation"])
	assert.Equal(t, "store", done[0].LoggerName)

	failed := logs.FilterMessage("store call failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "delete_category", failed[0].ContextMap()["operation"])
	assert.Equal(t, "1", failed[0].ContextMap()["category_id"])
}

func TestLoggingStore_ForwardsBookmarks(t *testing.T) {
	st := codingStore()
	s := newTestSession(t, st, Options{})
	s.store = NewLoggingStore(st, nil, 0)

	_, err := s.AddBookmark(context.Background(), model.NewBookmark{URL: "https://example.com", Title: "Example"})
	require.NoError(t, err)
	assert.Len(t, st.bookmarks, 1)

	noBookmarks := NewLoggingStore(&mockStore{}, nil, 0)
	_, err = noBookmarks.FetchBookmarks(context.Background(), model.BookmarkFilter{})
	assert.ErrorIs(t, err, errNoBookmarks)
}
