package scan

import (
	"strings"
	"testing"

	"leasewarden/internal/model"
)

func TestRenderHighlightsMarksSpans(t *testing.T) {
	text := "good clause bad clause end"
	adverse := []model.Finding{{Label: "x", Severity: model.SeverityHigh, Start: 12, End: 22, Excerpt: text[12:22]}}
	favorable := []model.Finding{{Label: "y", Severity: model.SeverityGood, Start: 0, End: 11, Excerpt: text[0:11]}}

	out := RenderHighlights(text, adverse, favorable)
	if !strings.Contains(out, `<mark class="favorable">good clause</mark>`) {
		t.Errorf("favorable span not marked: %s", out)
	}
	if !strings.Contains(out, `<mark class="adverse">bad clause</mark>`) {
		t.Errorf("adverse span not marked: %s", out)
	}
	if !strings.HasSuffix(out, " end") {
		t.Errorf("trailing text missing: %s", out)
	}
}

func TestRenderHighlightsEscapesHTML(t *testing.T) {
	text := `<b>rent</b> & evict "now"`
	adverse := []model.Finding{{Label: "x", Severity: model.SeverityHigh, Start: 12, End: 17, Excerpt: text[12:17]}}

	out := RenderHighlights(text, adverse, nil)
	if strings.Contains(out, "<b>") {
		t.Errorf("input HTML must be escaped: %s", out)
	}
	if !strings.Contains(out, "&lt;b&gt;") || !strings.Contains(out, "&amp;") {
		t.Errorf("expected escaped entities in %s", out)
	}
}

func TestRenderHighlightsNoFindings(t *testing.T) {
	text := "nothing to see"
	if out := RenderHighlights(text, nil, nil); out != text {
		t.Errorf("RenderHighlights with no findings = %q, want input unchanged", out)
	}
}

func TestRenderHighlightsAdverseDominatesOverlap(t *testing.T) {
	text := "abcdefghij"
	adverse := []model.Finding{{Severity: model.SeverityHigh, Start: 3, End: 8, Excerpt: text[3:8]}}
	favorable := []model.Finding{{Severity: model.SeverityGood, Start: 0, End: 5, Excerpt: text[0:5]}}

	out := RenderHighlights(text, adverse, favorable)
	if strings.Contains(out, "favorable") {
		t.Errorf("overlapping favorable span must be absorbed by adverse: %s", out)
	}
	if !strings.Contains(out, `<mark class="adverse">abcdefgh</mark>`) {
		t.Errorf("merged adverse span wrong: %s", out)
	}
}
