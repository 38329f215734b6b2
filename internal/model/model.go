package model

import "time"

type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Icon     *string `json:"icon,omitempty"`
	Position int     `json:"position"`

	// IsExpanded is nullable: a missing value means "expanded".
	IsExpanded *bool `json:"is_expanded,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Expanded reports the persisted expansion default for the category.
func (c Category) Expanded() bool {
	return c.IsExpanded == nil || *c.IsExpanded
}

// CategoryEdge is a single parent -> child link. A category has at most one incoming edge.
type CategoryEdge struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
	Position int    `json:"position"`
}

// CategoryNode is derived from categories + edges and never persisted.
// For child nodes Position is the edge position and EdgeID is set.
type CategoryNode struct {
	Category
	EdgeID   string         `json:"edge_id,omitempty"`
	Children []CategoryNode `json:"children"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CategoryIDs []string  `json:"category_ids"`
	TagIDs      []string  `json:"tag_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCategory is the payload for creating a category row.
type NewCategory struct {
	Name     string
	Color    string
	Icon     *string
	Position int
}

// CategoryPatch carries the fields to update; nil fields are left untouched.
type CategoryPatch struct {
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	Icon       *string `json:"icon,omitempty"`
	Position   *int    `json:"position,omitempty"`
	IsExpanded *bool   `json:"is_expanded,omitempty"`
}

func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Color == nil && p.Icon == nil && p.Position == nil && p.IsExpanded == nil
}

type NewCategoryEdge struct {
	ParentID string
	ChildID  string
	Position int
}

type NewBookmark struct {
	URL         string   `validate:"required,url"`
	Title       string   `validate:"required"`
	Description string
	CategoryIDs []string `validate:"dive,required"`
	TagIDs      []string `validate:"dive,required"`
}

type BookmarkFilter struct {
	CategoryID string
	TagID      string
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}

func BoolPtr(b bool) *bool { return &b }

func IntPtr(n int) *int { return &n }

func StrPtr(s string) *string { return &s }
