package mutate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

// fakeStore is an in-memory Store. Failures and panics are injected per "Method" or
// "Method:id" key; failOnce entries are consumed by the first matching call.
// Every call is recorded in calls.
type fakeStore struct {
	cats      []model.Category
	edges     []model.CategoryEdge
	tags      []model.Tag
	bookmarks []model.Bookmark

	seq      int
	calls    []string
	fail     map[string]error
	failOnce map[string]error
	panics   map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{fail: map[string]error{}, failOnce: map[string]error{}, panics: map[string]bool{}}
}

// codingStore seeds Coding(1) with children JS(2) and CSS(3).
func codingStore() *fakeStore {
	f := newFakeStore()
	f.cats = []model.Category{
		{ID: "1", Name: "Coding", Position: 0},
		{ID: "2", Name: "JS", Position: 0},
		{ID: "3", Name: "CSS", Position: 1},
	}
	f.edges = []model.CategoryEdge{
		{ID: "e1", ParentID: "1", ChildID: "2", Position: 0},
		{ID: "e1b", ParentID: "1", ChildID: "3", Position: 1},
	}
	return f
}

func (f *fakeStore) hit(method, id string) error {
	key := method + ":" + id
	f.calls = append(f.calls, key)
	if f.panics[key] || f.panics[method] {
		panic(fmt.Sprintf("%s exploded", method))
	}
	if err, ok := f.failOnce[key]; ok {
		delete(f.failOnce, key)
		return err
	}
	if err, ok := f.fail[key]; ok {
		return err
	}
	if err, ok := f.fail[method]; ok {
		return err
	}
	return nil
}

// mutations returns the recorded calls that are not fetches.
func (f *fakeStore) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if !strings.HasPrefix(c, "Fetch") {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) FetchCategories(ctx context.Context) ([]model.Category, error) {
	if err := f.hit("FetchCategories", ""); err != nil {
		return nil, err
	}
	return append([]model.Category(nil), f.cats...), nil
}

func (f *fakeStore) FetchTags(ctx context.Context) ([]model.Tag, error) {
	if err := f.hit("FetchTags", ""); err != nil {
		return nil, err
	}
	return append([]model.Tag(nil), f.tags...), nil
}

func (f *fakeStore) FetchCategoryRelationships(ctx context.Context) ([]model.CategoryEdge, error) {
	if err := f.hit("FetchCategoryRelationships", ""); err != nil {
		return nil, err
	}
	return append([]model.CategoryEdge(nil), f.edges...), nil
}

func (f *fakeStore) AddCategory(ctx context.Context, in model.NewCategory) (model.Category, error) {
	if err := f.hit("AddCategory", in.Name); err != nil {
		return model.Category{}, err
	}
	c := model.Category{ID: f.nextID("cat"), Name: in.Name, Color: in.Color, Icon: in.Icon, Position: in.Position, CreatedAt: time.Now()}
	f.cats = append(f.cats, c)
	return c, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id string, p model.CategoryPatch) error {
	if err := f.hit("UpdateCategory", id); err != nil {
		return err
	}
	for i := range f.cats {
		if f.cats[i].ID != id {
			continue
		}
		c := &f.cats[i]
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.Color != nil {
			c.Color = *p.Color
		}
		if p.Icon != nil {
			c.Icon = p.Icon
		}
		if p.Position != nil {
			c.Position = *p.Position
		}
		if p.IsExpanded != nil {
			c.IsExpanded = model.BoolPtr(*p.IsExpanded)
		}
		return nil
	}
	return fmt.Errorf("category not found: %s", id)
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	if err := f.hit("DeleteCategory", id); err != nil {
		return err
	}
	gone := map[string]bool{id: true}
	for _, d := range tree.Descendants(id, f.edges) {
		gone[d] = true
	}
	cats := f.cats[:0]
	for _, c := range f.cats {
		if !gone[c.ID] {
			cats = append(cats, c)
		}
	}
	f.cats = cats
	edges := f.edges[:0]
	for _, e := range f.edges {
		if !gone[e.ParentID] && !gone[e.ChildID] {
			edges = append(edges, e)
		}
	}
	f.edges = edges
	return nil
}

func (f *fakeStore) AddCategoryRelationship(ctx context.Context, in model.NewCategoryEdge) (model.CategoryEdge, error) {
	if err := f.hit("AddCategoryRelationship", in.ChildID); err != nil {
		return model.CategoryEdge{}, err
	}
	if _, ok := tree.ParentEdge(in.ChildID, f.edges); ok {
		return model.CategoryEdge{}, fmt.Errorf("category %s already has parent", in.ChildID)
	}
	if in.ParentID == in.ChildID || tree.IsDescendant(in.ChildID, in.ParentID, f.edges) {
		return model.CategoryEdge{}, fmt.Errorf("would create a cycle")
	}
	e := model.CategoryEdge{ID: f.nextID("edge"), ParentID: in.ParentID, ChildID: in.ChildID, Position: in.Position}
	f.edges = append(f.edges, e)
	return e, nil
}

func (f *fakeStore) UpdateCategoryRelationship(ctx context.Context, id string, position int) error {
	if err := f.hit("UpdateCategoryRelationship", id); err != nil {
		return err
	}
	for i := range f.edges {
		if f.edges[i].ID == id {
			f.edges[i].Position = position
			return nil
		}
	}
	return fmt.Errorf("category relationship not found: %s", id)
}

func (f *fakeStore) DeleteCategoryRelationship(ctx context.Context, id string) error {
	if err := f.hit("DeleteCategoryRelationship", id); err != nil {
		return err
	}
	for i := range f.edges {
		if f.edges[i].ID == id {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) AddTag(ctx context.Context, name string) (model.Tag, error) {
	if err := f.hit("AddTag", name); err != nil {
		return model.Tag{}, err
	}
	t := model.Tag{ID: f.nextID("tag"), Name: name, CreatedAt: time.Now()}
	f.tags = append(f.tags, t)
	return t, nil
}

func (f *fakeStore) UpdateTag(ctx context.Context, id, name string) error {
	if err := f.hit("UpdateTag", id); err != nil {
		return err
	}
	for i := range f.tags {
		if f.tags[i].ID == id {
			f.tags[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("tag not found: %s", id)
}

func (f *fakeStore) DeleteTag(ctx context.Context, id string) error {
	if err := f.hit("DeleteTag", id); err != nil {
		return err
	}
	for i := range f.tags {
		if f.tags[i].ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) AddBookmark(ctx context.Context, in model.NewBookmark) (model.Bookmark, error) {
	if err := f.hit("AddBookmark", in.URL); err != nil {
		return model.Bookmark{}, err
	}
	b := model.Bookmark{ID: f.nextID("bm"), URL: in.URL, Title: in.Title, Description: in.Description, CategoryIDs: in.CategoryIDs, TagIDs: in.TagIDs}
	f.bookmarks = append(f.bookmarks, b)
	return b, nil
}

func (f *fakeStore) FetchBookmarks(ctx context.Context, flt model.BookmarkFilter) ([]model.Bookmark, error) {
	if err := f.hit("FetchBookmarks", flt.CategoryID); err != nil {
		return nil, err
	}
	var out []model.Bookmark
	for _, b := range f.bookmarks {
		if flt.CategoryID != "" && !contains(b.CategoryIDs, flt.CategoryID) {
			continue
		}
		if flt.TagID != "" && !contains(b.TagIDs, flt.TagID) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) DeleteBookmark(ctx context.Context, id string) error {
	if err := f.hit("DeleteBookmark", id); err != nil {
		return err
	}
	for i := range f.bookmarks {
		if f.bookmarks[i].ID == id {
			f.bookmarks = append(f.bookmarks[:i], f.bookmarks[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) SetBookmarkCategories(ctx context.Context, id string, categoryIDs []string) error {
	if err := f.hit("SetBookmarkCategories", id); err != nil {
		return err
	}
	for i := range f.bookmarks {
		if f.bookmarks[i].ID == id {
			f.bookmarks[i].CategoryIDs = categoryIDs
			return nil
		}
	}
	return fmt.Errorf("bookmark not found: %s", id)
}

func (f *fakeStore) SetBookmarkTags(ctx context.Context, id string, tagIDs []string) error {
	if err := f.hit("SetBookmarkTags", id); err != nil {
		return err
	}
	for i := range f.bookmarks {
		if f.bookmarks[i].ID == id {
			f.bookmarks[i].TagIDs = tagIDs
			return nil
		}
	}
	return fmt.Errorf("bookmark not found: %s", id)
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
