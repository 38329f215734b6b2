package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectCategoryArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"shelf"},
			want: []string{"shelf"},
		},
		{
			name: "category id first token",
			in:   []string{"shelf", "cat-abc123"},
			want: []string{"shelf", "categories", "show", "cat-abc123"},
		},
		{
			name: "category id after value flag",
			in:   []string{"shelf", "--dir", "./tmp-ws", "cat-abc123"},
			want: []string{"shelf", "--dir", "./tmp-ws", "categories", "show", "cat-abc123"},
		},
		{
			name: "category id after equals flag",
			in:   []string{"shelf", "--format=yaml", "cat-abc123"},
			want: []string{"shelf", "--format=yaml", "categories", "show", "cat-abc123"},
		},
		{
			name: "category id after bool flag",
			in:   []string{"shelf", "--pretty", "cat-abc123"},
			want: []string{"shelf", "--pretty", "categories", "show", "cat-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"shelf", "cat-"},
			want: []string{"shelf", "cat-"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"shelf", "categories", "move", "cat-abc123", "--to", ""},
			want: []string{"shelf", "categories", "move", "cat-abc123", "--to", ""},
		},
		{
			name: "tag id not rewritten",
			in:   []string{"shelf", "tag-abc123"},
			want: []string{"shelf", "tag-abc123"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectCategoryArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectCategoryArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
