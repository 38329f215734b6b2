package mutate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shelf-cli/internal/model"
)

// LoggingStore decorates a Store with per-call debug logs, error logs and slow-call warnings.
//
// Usage:
//
//	st := mutate.NewLoggingStore(store.Store{Dir: dir}, logger, time.Second)
//	sess := mutate.NewSession(st, logger, opts)
type LoggingStore struct {
	inner         Store
	logger        *zap.Logger
	slowThreshold time.Duration
}

func NewLoggingStore(inner Store, logger *zap.Logger, slowThreshold time.Duration) *LoggingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingStore{inner: inner, logger: logger.Named("store"), slowThreshold: slowThreshold}
}

func (l *LoggingStore) observe(op string, start time.Time, err error, fields ...zap.Field) {
	d := time.Since(start)
	fields = append(fields, zap.String("operation", op), zap.Duration("duration", d))
	if err != nil {
		l.logger.Error("store call failed", append(fields, zap.Error(err))...)
		return
	}
	level := zap.DebugLevel
	msg := "store call completed"
	if l.slowThreshold > 0 && d > l.slowThreshold {
		level = zap.WarnLevel
		msg = "slow store call completed"
	}
	if ce := l.logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *LoggingStore) FetchCategories(ctx context.Context) (out []model.Category, err error) {
	defer func(start time.Time) { l.observe("fetch_categories", start, err, zap.Int("count", len(out))) }(time.Now())
	return l.inner.FetchCategories(ctx)
}

func (l *LoggingStore) FetchTags(ctx context.Context) (out []model.Tag, err error) {
	defer func(start time.Time) { l.observe("fetch_tags", start, err, zap.Int("count", len(out))) }(time.Now())
	return l.inner.FetchTags(ctx)
}

func (l *LoggingStore) FetchCategoryRelationships(ctx context.Context) (out []model.CategoryEdge, err error) {
	defer func(start time.Time) { l.observe("fetch_category_relationships", start, err, zap.Int("count", len(out))) }(time.Now())
	return l.inner.FetchCategoryRelationships(ctx)
}

func (l *LoggingStore) AddCategory(ctx context.Context, in model.NewCategory) (out model.Category, err error) {
	defer func(start time.Time) { l.observe("add_category", start, err, zap.String("category_id", out.ID)) }(time.Now())
	return l.inner.AddCategory(ctx, in)
}

func (l *LoggingStore) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (err error) {
	defer func(start time.Time) { l.observe("update_category", start, err, zap.String("category_id", id)) }(time.Now())
	return l.inner.UpdateCategory(ctx, id, patch)
}

func (l *LoggingStore) DeleteCategory(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_category", start, err, zap.String("category_id", id)) }(time.Now())
	return l.inner.DeleteCategory(ctx, id)
}

func (l *LoggingStore) AddCategoryRelationship(ctx context.Context, in model.NewCategoryEdge) (out model.CategoryEdge, err error) {
	defer func(start time.Time) {
		l.observe("add_category_relationship", start, err,
			zap.String("edge_id", out.ID),
			zap.String("parent_id", in.ParentID),
			zap.String("child_id", in.ChildID),
		)
	}(time.Now())
	return l.inner.AddCategoryRelationship(ctx, in)
}

func (l *LoggingStore) UpdateCategoryRelationship(ctx context.Context, id string, position int) (err error) {
	defer func(start time.Time) {
		l.observe("update_category_relationship", start, err, zap.String("edge_id", id), zap.Int("position", position))
	}(time.Now())
	return l.inner.UpdateCategoryRelationship(ctx, id, position)
}

func (l *LoggingStore) DeleteCategoryRelationship(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_category_relationship", start, err, zap.String("edge_id", id)) }(time.Now())
	return l.inner.DeleteCategoryRelationship(ctx, id)
}

func (l *LoggingStore) AddTag(ctx context.Context, name string) (out model.Tag, err error) {
	defer func(start time.Time) { l.observe("add_tag", start, err, zap.String("tag_id", out.ID)) }(time.Now())
	return l.inner.AddTag(ctx, name)
}

func (l *LoggingStore) UpdateTag(ctx context.Context, id, name string) (err error) {
	defer func(start time.Time) { l.observe("update_tag", start, err, zap.String("tag_id", id)) }(time.Now())
	return l.inner.UpdateTag(ctx, id, name)
}

func (l *LoggingStore) DeleteTag(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_tag", start, err, zap.String("tag_id", id)) }(time.Now())
	return l.inner.DeleteTag(ctx, id)
}

func (l *LoggingStore) bookmarks() (BookmarkStore, error) {
	bs, ok := l.inner.(BookmarkStore)
	if !ok {
		return nil, errNoBookmarks
	}
	return bs, nil
}

func (l *LoggingStore) AddBookmark(ctx context.Context, in model.NewBookmark) (out model.Bookmark, err error) {
	defer func(start time.Time) { l.observe("add_bookmark", start, err, zap.String("bookmark_id", out.ID)) }(time.Now())
	bs, err := l.bookmarks()
	if err != nil {
		return model.Bookmark{}, err
	}
	return bs.AddBookmark(ctx, in)
}

func (l *LoggingStore) FetchBookmarks(ctx context.Context, f model.BookmarkFilter) (out []model.Bookmark, err error) {
	defer func(start time.Time) { l.observe("fetch_bookmarks", start, err, zap.Int("count", len(out))) }(time.Now())
	bs, err := l.bookmarks()
	if err != nil {
		return nil, err
	}
	return bs.FetchBookmarks(ctx, f)
}

func (l *LoggingStore) DeleteBookmark(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { l.observe("delete_bookmark", start, err, zap.String("bookmark_id", id)) }(time.Now())
	bs, err := l.bookmarks()
	if err != nil {
		return err
	}
	return bs.DeleteBookmark(ctx, id)
}

func (l *LoggingStore) SetBookmarkCategories(ctx context.Context, id string, categoryIDs []string) (err error) {
	defer func(start time.Time) { l.observe("set_bookmark_categories", start, err, zap.String("bookmark_id", id)) }(time.Now())
	bs, err := l.bookmarks()
	if err != nil {
		return err
	}
	return bs.SetBookmarkCategories(ctx, id, categoryIDs)
}

func (l *LoggingStore) SetBookmarkTags(ctx context.Context, id string, tagIDs []string) (err error) {
	defer func(start time.Time) { l.observe("set_bookmark_tags", start, err, zap.String("bookmark_id", id)) }(time.Now())
	bs, err := l.bookmarks()
	if err != nil {
		return err
	}
	return bs.SetBookmarkTags(ctx, id, tagIDs)
}
