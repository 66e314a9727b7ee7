// Package ordering holds the small ordering and labeling helpers shared by the
// decomposition and total-row engines.
//
// Both engines order their output by "original order": the position at which
// a value first appears in the input, never its alphabetic or numeric order.
// [FirstOccurrence] records that position once so later sorts can look it up.
//
// Chart axes also need distinct labels for rows that carry no name of their
// own (period totals, spacer bars). [Blanks] produces those as runs of blank
// characters of increasing length.
package ordering

import "strings"

// Index maps each distinct value to the position of its first occurrence.
type Index map[string]int

// FirstOccurrence indexes values by the order in which they first appear.
// Ranks are dense: the n-th distinct value gets rank n-1.
func FirstOccurrence(values []string) Index {
	idx := make(Index, len(values))
	for _, v := range values {
		if _, ok := idx[v]; !ok {
			idx[v] = len(idx)
		}
	}
	return idx
}

// Rank returns the first-occurrence rank of v.
func (idx Index) Rank(v string) (int, bool) {
	r, ok := idx[v]
	return r, ok
}

// Values returns the indexed values in first-occurrence order.
func (idx Index) Values() []string {
	out := make([]string, len(idx))
	for v, r := range idx {
		out[r] = v
	}
	return out
}

// Blanks returns a run of n blank characters. Blanks(0) is the empty string.
func Blanks(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
