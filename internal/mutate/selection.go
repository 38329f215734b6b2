package mutate

import "sort"

// Selection is a set of ids. Ids may go stale after a refresh; they are harmless until used.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: map[string]struct{}{}}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle adds id when absent and removes it when present. It reports the new membership.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids sorted.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Selection) Clear() {
	s.ids = map[string]struct{}{}
}

// SelectAll selects every id in all, unless the selection already has exactly that many
// members, in which case it clears.
func (s *Selection) SelectAll(all []string) {
	if len(all) == s.Len() {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(all))
	for _, id := range all {
		s.ids[id] = struct{}{}
	}
}
