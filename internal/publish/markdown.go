package publish

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

// Library is everything a render needs; it is read-only here.
type Library struct {
	Forest    []model.CategoryNode
	Tags      []model.Tag
	Bookmarks []model.Bookmark
}

type RenderOptions struct {
	// Links makes every category line a link to its page (categories/<id>.md).
	Links bool
	// Counts appends the number of bookmarks filed directly under each category.
	Counts bool
}

// bookmarkCounts counts bookmarks per category id.
func (l Library) bookmarkCounts() map[string]int {
	out := map[string]int{}
	for _, b := range l.Bookmarks {
		for _, id := range b.CategoryIDs {
			out[id]++
		}
	}
	return out
}

func (l Library) tagNames() map[string]string {
	out := make(map[string]string, len(l.Tags))
	for _, t := range l.Tags {
		out[t.ID] = t.Name
	}
	return out
}

// RenderTreeMarkdown renders the forest as a nested markdown list, in tree order.
func RenderTreeMarkdown(lib Library, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Categories")
	writeLn("")
	if len(lib.Forest) == 0 {
		writeLn("_No categories._")
		return buf.String()
	}

	counts := lib.bookmarkCounts()
	tree.Walk(lib.Forest, func(n *model.CategoryNode, depth int, _ string) bool {
		renderCategoryLine(&buf, n, depth, counts, opt)
		return true
	})

	if len(lib.Tags) > 0 {
		writeLn("")
		writeLn("## Tags")
		writeLn("")
		names := make([]string, 0, len(lib.Tags))
		for _, t := range lib.Tags {
			names = append(names, strings.TrimSpace(t.Name))
		}
		sort.Strings(names)
		for _, n := range names {
			writeLn("- " + n)
		}
	}
	return buf.String()
}

func renderCategoryLine(buf *bytes.Buffer, n *model.CategoryNode, depth int, counts map[string]int, opt RenderOptions) {
	prefix := strings.Repeat("  ", depth)
	label := strings.TrimSpace(n.Name)
	if n.Icon != nil && strings.TrimSpace(*n.Icon) != "" {
		label = strings.TrimSpace(*n.Icon) + " " + label
	}
	if opt.Links {
		label = fmt.Sprintf("[%s](categories/%s.md)", label, n.ID)
	}
	if opt.Counts && counts[n.ID] > 0 {
		label += fmt.Sprintf(" (%d)", counts[n.ID])
	}
	fmt.Fprintf(buf, "%s- %s\n", prefix, label)
}

// RenderCategoryMarkdown renders one category page: its path, subcategories and bookmarks.
func RenderCategoryMarkdown(lib Library, categoryID string) (string, error) {
	categoryID = strings.TrimSpace(categoryID)
	node, ok := tree.Find(lib.Forest, categoryID)
	if !ok || node == nil {
		return "", fmt.Errorf("category not found: %s", categoryID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(node.Name))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + node.ID)
	if path := tree.Path(lib.Forest, node.ID); len(path) > 1 {
		writeLn("- Path: " + strings.Join(path, " / "))
	}
	if c := strings.TrimSpace(node.Color); c != "" {
		writeLn("- Color: " + c)
	}
	if !node.CreatedAt.IsZero() {
		writeLn("- Created: " + node.CreatedAt.UTC().Format(time.RFC3339))
	}

	if len(node.Children) > 0 {
		writeLn("")
		writeLn("## Subcategories")
		writeLn("")
		for _, ch := range node.Children {
			writeLn(fmt.Sprintf("- [%s](%s.md)", strings.TrimSpace(ch.Name), ch.ID))
		}
	}

	bms := bookmarksIn(lib.Bookmarks, node.ID)
	writeLn("")
	writeLn("## Bookmarks")
	writeLn("")
	if len(bms) == 0 {
		writeLn("_None._")
		return buf.String(), nil
	}
	tagNames := lib.tagNames()
	for _, b := range bms {
		line := fmt.Sprintf("- [%s](%s)", strings.TrimSpace(b.Title), b.URL)
		if tags := bookmarkTagNames(b, tagNames); len(tags) > 0 {
			line += " `" + strings.Join(tags, "` `") + "`"
		}
		writeLn(line)
		if d := strings.TrimSpace(b.Description); d != "" {
			writeLn("  " + d)
		}
	}
	return buf.String(), nil
}

func bookmarksIn(all []model.Bookmark, categoryID string) []model.Bookmark {
	out := make([]model.Bookmark, 0)
	for _, b := range all {
		for _, id := range b.CategoryIDs {
			if id == categoryID {
				out = append(out, b)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

func bookmarkTagNames(b model.Bookmark, names map[string]string) []string {
	out := make([]string, 0, len(b.TagIDs))
	for _, id := range b.TagIDs {
		if n := strings.TrimSpace(names[id]); n != "" {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
