package mutate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"shelf-cli/internal/model"
)

// IsExpanded returns the local override when one exists, else the persisted flag
// (a missing flag means expanded).
func (s *Session) IsExpanded(id string) bool {
	if v, ok := s.expanded[id]; ok {
		return v
	}
	if c, ok := s.Category(id); ok {
		return c.Expanded()
	}
	return true
}

func (s *Session) ToggleExpanded(ctx context.Context, id string) error {
	return s.SetExpanded(ctx, id, !s.IsExpanded(id))
}

// SetExpanded flips the local state immediately, then persists it on the category row.
// A persistence failure is reported but the local state stays, unless
// RevertExpandOnFailure is set. The tree is not refetched.
func (s *Session) SetExpanded(ctx context.Context, id string, expanded bool) (err error) {
	const op = "toggle expand"
	defer s.guard(ctx, op, false, &err)

	id = strings.TrimSpace(id)
	if err := requireID("category", id); err != nil {
		return s.reject(op, err)
	}

	prev, hadPrev := s.expanded[id]
	s.expanded[id] = expanded

	if storeErr := s.store.UpdateCategory(ctx, id, model.CategoryPatch{IsExpanded: &expanded}); storeErr != nil {
		se := &StoreError{Op: op, ID: id, Err: storeErr}
		s.logger.Warn("persist expand state failed", zap.String("category_id", id), zap.Bool("expanded", expanded), zap.Error(storeErr))
		if s.opts.RevertExpandOnFailure {
			if hadPrev {
				s.expanded[id] = prev
			} else {
				delete(s.expanded, id)
			}
		}
		s.setError(se)
		return se
	}
	return nil
}
