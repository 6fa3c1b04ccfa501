// Package scan applies the compliance rule table to contract text and turns
// pattern matches into positional findings against the original document.
package scan

import (
	"leasewarden/internal/model"
	"leasewarden/internal/rules"
	"leasewarden/internal/textnorm"
)

// Match runs every rule in the table against the text and splits the findings
// into adverse (severity != good) and favorable (severity == good) lists.
// Findings appear in rule declaration order, then by match position; every
// match of a rule is reported, with no dedup. Offsets and excerpts refer to
// the original text via the normalizer's offset map.
func Match(text string, table *rules.Table) (adverse, favorable []model.Finding) {
	n := textnorm.Normalize(text)

	for i := 0; i < table.Len(); i++ {
		rule, re := table.At(i)
		for _, loc := range re.FindAllStringIndex(n.Text, -1) {
			start, end := n.SourceSpan(loc[0], loc[1])
			f := model.Finding{
				Label:          rule.Label,
				Severity:       rule.Severity,
				Start:          start,
				End:            end,
				Excerpt:        text[start:end],
				Suggestion:     rule.Suggestion,
				LegalReference: rule.LegalReference,
			}
			if rule.Severity == model.SeverityGood {
				favorable = append(favorable, f)
			} else {
				adverse = append(adverse, f)
			}
		}
	}
	return adverse, favorable
}
