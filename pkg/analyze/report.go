package analyze

import (
	"fmt"
	"sort"
	"strings"
)

// Render formats the final report. The three failure surfaces stay
// separate: files analyzed, files found but unreadable, and directories
// that could not be enumerated. Keywords print by descending count, ties
// broken alphabetically for stable output.
func Render(agg AggregateStats, walkErrors int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Files: %d\n", agg.FilesTotal)
	fmt.Fprintf(&b, "Lines: %d\n", agg.LinesTotal)
	fmt.Fprintf(&b, "  of which are code lines: %d\n", agg.CodeLines)
	if agg.FilesInvalid > 0 {
		fmt.Fprintf(&b, "Failed to read files: %d\n", agg.FilesInvalid)
	}
	if walkErrors > 0 {
		fmt.Fprintf(&b, "Directories that could not be read: %d\n", walkErrors)
	}

	if len(agg.Keywords) > 0 {
		b.WriteString("\nKeywords:\n")
		type kwCount struct {
			keyword string
			count   int
		}
		sorted := make([]kwCount, 0, len(agg.Keywords))
		for kw, n := range agg.Keywords {
			sorted = append(sorted, kwCount{kw, n})
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].count != sorted[j].count {
				return sorted[i].count > sorted[j].count
			}
			return sorted[i].keyword < sorted[j].keyword
		})
		for _, kc := range sorted {
			fmt.Fprintf(&b, "  %s = %d\n", kc.keyword, kc.count)
		}
	}

	return b.String()
}

// sizeUnits for FormatSize, largest first.
var sizeUnits = []struct {
	label   string
	divisor float64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
}

// FormatSize renders a byte count in human-readable units.
func FormatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	for _, u := range sizeUnits {
		size := float64(bytes) / u.divisor
		if size < 1 {
			continue
		}
		if size < 10 {
			return fmt.Sprintf("%.1f %s", size, u.label)
		}
		return fmt.Sprintf("%.0f %s", size, u.label)
	}
	return fmt.Sprintf("%d B", bytes)
}
