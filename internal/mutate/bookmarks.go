package mutate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shelf-cli/internal/model"
)

// BookmarkStore is implemented by stores that also hold bookmarks.
type BookmarkStore interface {
	AddBookmark(ctx context.Context, in model.NewBookmark) (model.Bookmark, error)
	FetchBookmarks(ctx context.Context, f model.BookmarkFilter) ([]model.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
	SetBookmarkCategories(ctx context.Context, id string, categoryIDs []string) error
	SetBookmarkTags(ctx context.Context, id string, tagIDs []string) error
}

var errNoBookmarks = errors.New("store does not support bookmarks")

func (s *Session) bookmarkStore() (BookmarkStore, error) {
	bs, ok := s.store.(BookmarkStore)
	if !ok {
		return nil, errNoBookmarks
	}
	return bs, nil
}

func (s *Session) AddBookmark(ctx context.Context, in model.NewBookmark) (created model.Bookmark, err error) {
	const op = "add bookmark"
	defer s.guard(ctx, op, false, &err)

	in.URL = strings.TrimSpace(in.URL)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryIDs = trimIDs(in.CategoryIDs)
	in.TagIDs = trimIDs(in.TagIDs)
	if err := validateStruct(in); err != nil {
		return model.Bookmark{}, s.reject(op, err)
	}
	bs, err := s.bookmarkStore()
	if err != nil {
		return model.Bookmark{}, s.reject(op, err)
	}
	created, addErr := bs.AddBookmark(ctx, in)
	if addErr != nil {
		se := &StoreError{Op: op, Err: addErr}
		s.setError(se)
		return model.Bookmark{}, se
	}
	s.setSuccess(fmt.Sprintf("Added bookmark %q", created.Title))
	return created, nil
}

func (s *Session) Bookmarks(ctx context.Context, f model.BookmarkFilter) (out []model.Bookmark, err error) {
	const op = "list bookmarks"
	defer s.guard(ctx, op, false, &err)

	bs, err := s.bookmarkStore()
	if err != nil {
		return nil, s.reject(op, err)
	}
	out, fetchErr := bs.FetchBookmarks(ctx, f)
	if fetchErr != nil {
		se := &StoreError{Op: op, Err: fetchErr}
		s.setError(se)
		return nil, se
	}
	return out, nil
}

func (s *Session) DeleteBookmark(ctx context.Context, id string) (err error) {
	return s.bookmarkCall(ctx, "delete bookmark", id, "Bookmark deleted", func(bs BookmarkStore) error {
		return bs.DeleteBookmark(ctx, id)
	})
}

// CategorizeBookmark replaces the bookmark's categories.
func (s *Session) CategorizeBookmark(ctx context.Context, id string, categoryIDs []string) (err error) {
	categoryIDs = trimIDs(categoryIDs)
	return s.bookmarkCall(ctx, "categorize bookmark", id, "Bookmark categories updated", func(bs BookmarkStore) error {
		return bs.SetBookmarkCategories(ctx, id, categoryIDs)
	})
}

// TagBookmark replaces the bookmark's tags.
func (s *Session) TagBookmark(ctx context.Context, id string, tagIDs []string) (err error) {
	tagIDs = trimIDs(tagIDs)
	return s.bookmarkCall(ctx, "tag bookmark", id, "Bookmark tags updated", func(bs BookmarkStore) error {
		return bs.SetBookmarkTags(ctx, id, tagIDs)
	})
}

func (s *Session) bookmarkCall(ctx context.Context, op, id, success string, fn func(BookmarkStore) error) (err error) {
	defer s.guard(ctx, op, false, &err)

	if err := requireID("bookmark", id); err != nil {
		return s.reject(op, err)
	}
	bs, err := s.bookmarkStore()
	if err != nil {
		return s.reject(op, err)
	}
	if callErr := fn(bs); callErr != nil {
		se := &StoreError{Op: op, ID: strings.TrimSpace(id), Err: callErr}
		s.setError(se)
		return se
	}
	s.setSuccess(success)
	return nil
}
