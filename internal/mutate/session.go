package mutate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

// Store is the persistence collaborator the session drives.
type Store interface {
	FetchCategories(ctx context.Context) ([]model.Category, error)
	FetchTags(ctx context.Context) ([]model.Tag, error)
	FetchCategoryRelationships(ctx context.Context) ([]model.CategoryEdge, error)

	AddCategory(ctx context.Context, in model.NewCategory) (model.Category, error)
	UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error
	// DeleteCategory cascades descendants and bookmark links.
	DeleteCategory(ctx context.Context, id string) error

	AddCategoryRelationship(ctx context.Context, in model.NewCategoryEdge) (model.CategoryEdge, error)
	UpdateCategoryRelationship(ctx context.Context, id string, position int) error
	DeleteCategoryRelationship(ctx context.Context, id string) error

	AddTag(ctx context.Context, name string) (model.Tag, error)
	UpdateTag(ctx context.Context, id, name string) error
	// DeleteTag removes the tag from every bookmark.
	DeleteTag(ctx context.Context, id string) error
}

// Options toggles the optional recovery behaviors. Both default to off.
type Options struct {
	// CompensateFailedReparent re-creates the old edge when a move's create step fails.
	CompensateFailedReparent bool
	// RevertExpandOnFailure undoes an expand toggle whose persistence failed.
	RevertExpandOnFailure bool
}

type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the transient banner for the last action.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// Session owns one snapshot of categories, tags and edges plus the derived tree, the
// selections and local expansion overrides. It is not safe for concurrent use.
type Session struct {
	store  Store
	logger *zap.Logger
	opts   Options

	categories []model.Category
	tags       []model.Tag
	edges      []model.CategoryEdge
	forest     []model.CategoryNode

	expanded map[string]bool

	CategorySelection *Selection
	TagSelection      *Selection

	status Status
}

func NewSession(st Store, logger *zap.Logger, opts Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:             st,
		logger:            logger.Named("session"),
		opts:              opts,
		categories:        []model.Category{},
		tags:              []model.Tag{},
		edges:             []model.CategoryEdge{},
		forest:            []model.CategoryNode{},
		expanded:          map[string]bool{},
		CategorySelection: NewSelection(),
		TagSelection:      NewSelection(),
	}
}

func (s *Session) Tree() []model.CategoryNode { return s.forest }
func (s *Session) Categories() []model.Category { return s.categories }
func (s *Session) Tags() []model.Tag { return s.tags }
func (s *Session) Edges() []model.CategoryEdge { return s.edges }
func (s *Session) Status() Status { return s.status }
func (s *Session) ClearStatus() { s.status = Status{} }
func (s *Session) Logger() *zap.Logger { return s.logger }

func (s *Session) Category(id string) (model.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *Session) Tag(id string) (model.Tag, bool) {
	for _, t := range s.tags {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tag{}, false
}

// Refresh refetches categories, tags and edges and rebuilds the tree. The snapshot is only
// replaced when all three fetches succeed.
func (s *Session) Refresh(ctx context.Context) (err error) {
	const op = "refresh"
	defer s.guard(ctx, op, false, &err)

	if err := s.refresh(ctx); err != nil {
		s.setError(err)
		return err
	}
	return nil
}

func (s *Session) refresh(ctx context.Context) error {
	cats, err := s.store.FetchCategories(ctx)
	if err != nil {
		return &StoreError{Op: "fetch categories", Err: err}
	}
	tags, err := s.store.FetchTags(ctx)
	if err != nil {
		return &StoreError{Op: "fetch tags", Err: err}
	}
	edges, err := s.store.FetchCategoryRelationships(ctx)
	if err != nil {
		return &StoreError{Op: "fetch category relationships", Err: err}
	}
	if cats == nil {
		cats = []model.Category{}
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	if edges == nil {
		edges = []model.CategoryEdge{}
	}
	s.categories = cats
	s.tags = tags
	s.edges = edges
	s.forest = tree.BuildTree(cats, edges)
	s.logger.Debug("refreshed",
		zap.Int("categories", len(cats)),
		zap.Int("tags", len(tags)),
		zap.Int("edges", len(edges)),
	)
	return nil
}

// finish is the common tail of every mutation that reached the store: refetch, rebuild,
// then report either the mutation's error or success.
func (s *Session) finish(ctx context.Context, op string, opErr error, success string) error {
	refreshErr := s.refresh(ctx)
	if refreshErr != nil {
		s.logger.Warn("refresh after mutation failed", zap.String("op", op), zap.Error(refreshErr))
	}
	if opErr != nil {
		s.logger.Warn("mutation failed", zap.String("op", op), zap.Error(opErr))
		s.setError(opErr)
		return opErr
	}
	if refreshErr != nil {
		s.setError(refreshErr)
		return refreshErr
	}
	s.logger.Info("mutation applied", zap.String("op", op))
	s.setSuccess(success)
	return nil
}

// reject reports a failure that happened before any store call.
func (s *Session) reject(op string, err error) error {
	s.logger.Debug("mutation rejected", zap.String("op", op), zap.Error(err))
	s.setError(err)
	return err
}

// guard converts a collaborator panic into an UnexpectedError. When the panic happened
// during a mutation the snapshot is refetched, since the store may have been changed.
func (s *Session) guard(ctx context.Context, op string, mutating bool, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	s.logger.Error("unexpected failure", zap.String("op", op), zap.Error(cause), zap.Stack("stack"))
	if mutating {
		s.safeRefresh(ctx)
	}
	ue := &UnexpectedError{Op: op, Cause: cause}
	s.setError(ue)
	*errp = ue
}

func (s *Session) safeRefresh(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("refresh panicked", zap.Any("panic", r))
		}
	}()
	if err := s.refresh(ctx); err != nil {
		s.logger.Warn("refresh failed", zap.Error(err))
	}
}

func (s *Session) setError(err error) {
	s.status = Status{Kind: StatusError, Message: err.Error()}
}

func (s *Session) setSuccess(msg string) {
	s.status = Status{Kind: StatusSuccess, Message: msg}
}

func trimIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
