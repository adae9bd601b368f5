package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBasic(t *testing.T) {
	agg := NewAggregateStats()
	agg.FilesTotal = 2
	agg.LinesTotal = 30
	agg.CodeLines = 21
	agg.Keywords = map[string]int{"def": 3, "return": 3, "if": 5}

	out := Render(agg, 0)
	assert.Equal(t, "Files: 2\n"+
		"Lines: 30\n"+
		"  of which are code lines: 21\n"+
		"\nKeywords:\n"+
		"  if = 5\n"+
		"  def = 3\n"+
		"  return = 3\n", out)
}

func TestRenderFailureCounts(t *testing.T) {
	agg := NewAggregateStats()
	agg.FilesTotal = 3
	agg.FilesInvalid = 1

	out := Render(agg, 2)
	assert.Contains(t, out, "Failed to read files: 1\n")
	assert.Contains(t, out, "Directories that could not be read: 2\n")
	assert.NotContains(t, out, "Keywords:")
}

func TestRenderOmitsZeroFailures(t *testing.T) {
	out := Render(NewAggregateStats(), 0)
	assert.NotContains(t, out, "Failed to read files")
	assert.NotContains(t, out, "Directories that could not be read")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024, "10 KB"},
		{2 * 1024 * 1024, "2.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
		{5 << 40, "5.0 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.bytes), "bytes=%d", tt.bytes)
	}
}
