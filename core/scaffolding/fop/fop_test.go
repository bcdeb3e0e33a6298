package fop_test

import (
	"testing"

	"github.com/jrazmi/todokeeper/core/scaffolding/fop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	fields := map[string]string{"createdAt": "created_at", "title": "title"}
	def := fop.NewBy("created_at", fop.DESC)

	tests := []struct {
		name      string
		field     string
		direction string
		want      fop.By
	}{
		{"defaults", "", "", def},
		{"known field", "title", "asc", fop.NewBy("title", fop.ASC)},
		{"upper direction", "title", "ASC", fop.NewBy("title", fop.ASC)},
		{"unknown field", "priority", "asc", fop.NewBy("created_at", fop.ASC)},
		{"unknown direction", "title", "sideways", fop.NewBy("title", fop.DESC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fop.ParseOrder(fields, tt.field, tt.direction, def))
		})
	}
}

func TestParseLimitAndOffset(t *testing.T) {
	limit, err := fop.ParseLimit("")
	require.NoError(t, err)
	assert.Zero(t, limit)

	limit, err = fop.ParseLimit("100")
	require.NoError(t, err)
	assert.Equal(t, 100, limit)

	for _, bad := range []string{"0", "101", "-1", "ten", "1.5"} {
		_, err := fop.ParseLimit(bad)
		assert.Error(t, err, bad)
	}

	offset, err := fop.ParseOffset("25")
	require.NoError(t, err)
	assert.Equal(t, 25, offset)

	for _, bad := range []string{"-1", "x"} {
		_, err := fop.ParseOffset(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewPageInfoOffset(t *testing.T) {
	tests := []struct {
		name  string
		page  fop.PageOffset
		total int
		want  fop.PageInfoOffset
	}{
		{
			name:  "middle page",
			page:  fop.PageOffset{Limit: 1, Offset: 1},
			total: 3,
			want:  fop.PageInfoOffset{Total: 3, Limit: 1, Offset: 1, HasMore: true, CurrentPage: 2, TotalPages: 3},
		},
		{
			name:  "last page",
			page:  fop.PageOffset{Limit: 10, Offset: 20},
			total: 25,
			want:  fop.PageInfoOffset{Total: 25, Limit: 10, Offset: 20, HasMore: false, CurrentPage: 3, TotalPages: 3},
		},
		{
			name:  "unbounded",
			page:  fop.PageOffset{},
			total: 7,
			want:  fop.PageInfoOffset{Total: 7, Limit: 7, Offset: 0, HasMore: false, CurrentPage: 1, TotalPages: 1},
		},
		{
			name:  "empty unbounded",
			page:  fop.PageOffset{},
			total: 0,
			want:  fop.PageInfoOffset{Total: 0, Limit: 0, Offset: 0, HasMore: false, CurrentPage: 1, TotalPages: 0},
		},
		{
			name:  "empty bounded",
			page:  fop.PageOffset{Limit: 10},
			total: 0,
			want:  fop.PageInfoOffset{Total: 0, Limit: 10, Offset: 0, HasMore: false, CurrentPage: 1, TotalPages: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fop.NewPageInfoOffset(tt.page, tt.total))
		})
	}
}
