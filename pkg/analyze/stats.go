package analyze

import "tally/pkg/classify"

// AggregateStats is the running total across all classified files. It is
// mutated only through the merge methods below, by a single owner; the
// merge is commutative and associative, so final totals never depend on
// the order per-file results arrive in.
type AggregateStats struct {
	FilesTotal   int
	FilesInvalid int
	LinesTotal   int
	CodeLines    int
	Keywords     map[string]int
}

// NewAggregateStats returns an empty total.
func NewAggregateStats() AggregateStats {
	return AggregateStats{Keywords: map[string]int{}}
}

// Analyzed is the number of files that produced statistics. The invariant
// FilesTotal == FilesInvalid + Analyzed() holds after every merge.
func (a AggregateStats) Analyzed() int {
	return a.FilesTotal - a.FilesInvalid
}

// MergeFile folds one successfully classified file into the total.
func (a *AggregateStats) MergeFile(fs classify.FileStats) {
	a.FilesTotal++
	a.LinesTotal += fs.LinesTotal
	a.CodeLines += fs.CodeLines
	for kw, n := range fs.Keywords {
		a.Keywords[kw] += n
	}
}

// MergeInvalid records a file that could not be opened or read. No other
// counter changes.
func (a *AggregateStats) MergeInvalid() {
	a.FilesTotal++
	a.FilesInvalid++
}

// Merge folds another total into this one.
func (a *AggregateStats) Merge(other AggregateStats) {
	a.FilesTotal += other.FilesTotal
	a.FilesInvalid += other.FilesInvalid
	a.LinesTotal += other.LinesTotal
	a.CodeLines += other.CodeLines
	for kw, n := range other.Keywords {
		a.Keywords[kw] += n
	}
}
