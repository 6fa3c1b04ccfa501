// Package textnorm canonicalizes contract text for pattern matching while
// keeping an explicit offset map back into the source text, so every match
// can be reported against the original document.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalized is the result of normalizing a source string. Text is the
// canonical form; the offset tables map every byte of Text to the span of
// source bytes it was produced from.
type Normalized struct {
	Source string
	Text   string

	// starts[i] is the source byte offset where Text[i] begins;
	// ends[i] is the offset just past the source bytes Text[i] covers.
	starts []int
	ends   []int
}

// Normalize applies NFKC, folds curly quotes and long dashes to their ASCII
// equivalents, and collapses whitespace runs to single spaces. The transform
// is pure and deterministic; offsets are tracked per NFKC segment so spans in
// the normalized text map back to exact source spans.
func Normalize(src string) *Normalized {
	n := &Normalized{
		Source: src,
		starts: make([]int, 0, len(src)),
		ends:   make([]int, 0, len(src)),
	}

	var b strings.Builder
	b.Grow(len(src))

	emit := func(s string, segStart, segEnd int) {
		for range []byte(s) {
			n.starts = append(n.starts, segStart)
			n.ends = append(n.ends, segEnd)
		}
		b.WriteString(s)
	}

	lastWasSpace := false

	var it norm.Iter
	it.InitString(norm.NFKC, src)
	for !it.Done() {
		segStart := it.Pos()
		seg := it.Next()
		segEnd := it.Pos()

		for i := 0; i < len(seg); {
			r, size := utf8.DecodeRune(seg[i:])
			i += size

			r = foldRune(r)
			if unicode.IsSpace(r) {
				if !lastWasSpace {
					emit(" ", segStart, segEnd)
					lastWasSpace = true
				}
				continue
			}
			lastWasSpace = false
			emit(string(r), segStart, segEnd)
		}
	}

	n.Text = b.String()
	return n
}

// foldRune maps typographic punctuation to ASCII. Anything else passes
// through unchanged.
func foldRune(r rune) rune {
	switch r {
	case '‘', '’', '‚', '‛', '′': // curly single quotes, prime
		return '\''
	case '“', '”', '„', '‟', '″': // curly double quotes
		return '"'
	case '‐', '‑', '‒', '–', '—', '―', '−': // hyphens, dashes, minus
		return '-'
	case ' ', ' ', ' ': // non-breaking spaces
		return ' '
	}
	return r
}

// SourceSpan maps the normalized byte range [start, end) back to a byte range
// in the source text. Out-of-range inputs are clamped so the returned span
// always satisfies 0 <= s <= e <= len(Source).
func (n *Normalized) SourceSpan(start, end int) (int, int) {
	if len(n.starts) == 0 {
		return 0, 0
	}
	if start < 0 {
		start = 0
	}
	if end > len(n.starts) {
		end = len(n.starts)
	}
	if end <= start {
		if start >= len(n.starts) {
			start = len(n.starts) - 1
		}
		s := n.starts[start]
		return s, s
	}
	s := n.starts[start]
	e := n.ends[end-1]
	if e < s {
		e = s
	}
	return s, e
}

// Len returns the length of the normalized text in bytes.
func (n *Normalized) Len() int { return len(n.Text) }
