package scan

import (
	"html"
	"strings"

	"leasewarden/internal/model"
)

// RenderHighlights returns the text with merged finding spans wrapped in
// <mark> elements, adverse spans as class "adverse" and favorable ones as
// class "favorable". The function is pure: it only reads its inputs.
func RenderHighlights(text string, adverse, favorable []model.Finding) string {
	spans := make([]Span, 0, len(adverse)+len(favorable))
	for _, f := range adverse {
		spans = append(spans, Span{Start: f.Start, End: f.End, Kind: KindAdverse})
	}
	for _, f := range favorable {
		spans = append(spans, Span{Start: f.Start, End: f.End, Kind: KindFavorable})
	}
	merged := Merge(spans)

	var b strings.Builder
	b.Grow(len(text) + 64*len(merged))

	pos := 0
	for _, s := range merged {
		// Clamp to [pos, len(text)] so slicing stays in bounds.
		if s.Start < pos {
			s.Start = pos
		}
		if s.End > len(text) {
			s.End = len(text)
		}
		if s.Start >= s.End {
			continue
		}
		b.WriteString(html.EscapeString(text[pos:s.Start]))
		if s.Kind == KindAdverse {
			b.WriteString(`<mark class="adverse">`)
		} else {
			b.WriteString(`<mark class="favorable">`)
		}
		b.WriteString(html.EscapeString(text[s.Start:s.End]))
		b.WriteString(`</mark>`)
		pos = s.End
	}
	b.WriteString(html.EscapeString(text[pos:]))

	return b.String()
}
