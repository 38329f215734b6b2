package mutate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shelf-cli/internal/model"
)

// CreateTag always creates a new row; names are not deduplicated.
func (s *Session) CreateTag(ctx context.Context, name string) (created model.Tag, err error) {
	const op = "create tag"
	defer s.guard(ctx, op, true, &err)

	in := tagInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return model.Tag{}, s.reject(op, err)
	}
	created, addErr := s.store.AddTag(ctx, in.Name)
	if addErr != nil {
		return model.Tag{}, s.finish(ctx, op, &StoreError{Op: op, Err: addErr}, "")
	}
	return created, s.finish(ctx, op, nil, fmt.Sprintf("Created tag %q", created.Name))
}

func (s *Session) RenameTag(ctx context.Context, id, name string) (err error) {
	const op = "rename tag"
	defer s.guard(ctx, op, true, &err)

	id = strings.TrimSpace(id)
	if err := requireID("tag", id); err != nil {
		return s.reject(op, err)
	}
	in := tagInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return s.reject(op, err)
	}
	if storeErr := s.store.UpdateTag(ctx, id, in.Name); storeErr != nil {
		return s.finish(ctx, op, &StoreError{Op: op, ID: id, Err: storeErr}, "")
	}
	return s.finish(ctx, op, nil, fmt.Sprintf("Renamed tag to %q", in.Name))
}

func (s *Session) DeleteTag(ctx context.Context, id string) (err error) {
	const op = "delete tag"
	defer s.guard(ctx, op, true, &err)

	id = strings.TrimSpace(id)
	if err := requireID("tag", id); err != nil {
		return s.reject(op, err)
	}
	if storeErr := s.store.DeleteTag(ctx, id); storeErr != nil {
		return s.finish(ctx, op, &StoreError{Op: op, ID: id, Err: storeErr}, "")
	}
	s.TagSelection.Remove(id)
	return s.finish(ctx, op, nil, "Tag deleted")
}

// BulkDeleteTags deletes ids sequentially, stopping at the first failure. The tag
// selection is cleared only when every delete succeeded.
func (s *Session) BulkDeleteTags(ctx context.Context, ids []string) (err error) {
	const op = "bulk delete tags"
	defer s.guard(ctx, op, true, &err)

	ids = trimIDs(ids)
	if len(ids) == 0 {
		return s.reject(op, &ValidationError{Field: "ids", Message: "no tags selected"})
	}
	for i, id := range ids {
		if storeErr := s.store.DeleteTag(ctx, id); storeErr != nil {
			s.logger.Warn("bulk delete aborted",
				zap.String("failed_id", id),
				zap.Int("deleted", i),
				zap.Int("requested", len(ids)),
			)
			return s.finish(ctx, op, &StoreError{Op: op, ID: id, Err: storeErr}, "")
		}
	}
	s.TagSelection.Clear()
	return s.finish(ctx, op, nil, fmt.Sprintf("Deleted %d tags", len(ids)))
}

// SelectedTagIDs returns the tag selection in display order, stale ids last.
func (s *Session) SelectedTagIDs() []string {
	out := make([]string, 0, s.TagSelection.Len())
	placed := map[string]bool{}
	for _, t := range s.tags {
		if s.TagSelection.Has(t.ID) && !placed[t.ID] {
			out = append(out, t.ID)
			placed[t.ID] = true
		}
	}
	for _, id := range s.TagSelection.IDs() {
		if !placed[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *Session) ToggleSelectAllTags() {
	ids := make([]string, 0, len(s.tags))
	for _, t := range s.tags {
		ids = append(ids, t.ID)
	}
	s.TagSelection.SelectAll(ids)
}
