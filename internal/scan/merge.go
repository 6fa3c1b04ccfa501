package scan

import "sort"

// Kind distinguishes merged-interval categories for rendering.
type Kind int

const (
	KindFavorable Kind = iota
	KindAdverse
)

// Span is a half-open interval [Start, End) over the original text.
type Span struct {
	Start int
	End   int
	Kind  Kind
}

// Merge resolves overlapping spans into a minimal ordered list of
// non-overlapping intervals. Sort is by (start, -end); a span merges into the
// current interval whenever its start does not pass the interval's end, and
// an adverse input makes the whole merged interval adverse. Merge is
// idempotent: merging its own output returns the same list.
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	merged := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if s.Start <= cur.End {
			if s.End > cur.End {
				cur.End = s.End
			}
			if s.Kind == KindAdverse {
				cur.Kind = KindAdverse
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
