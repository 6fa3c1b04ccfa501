// Package report renders a standalone HTML audit report: headline numbers,
// findings, clause verdicts, and the contract text with inline highlights.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"

	"leasewarden/internal/model"
	"leasewarden/internal/scan"
)

const stylesheet = `
body { font-family: sans-serif; margin: 2em auto; max-width: 60em; color: #222; }
h1 { font-size: 1.4em; } h2 { font-size: 1.1em; margin-top: 1.6em; }
.verdict-pass { color: #1a7f37; font-weight: bold; }
.verdict-fail { color: #b42318; font-weight: bold; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; vertical-align: top; }
mark.adverse { background: #ffd7d5; }
mark.favorable { background: #d3f2d9; }
.contract { white-space: pre-wrap; border: 1px solid #ddd; padding: 1em; background: #fafafa; }
.severity-high { color: #b42318; } .severity-medium { color: #b54708; }
.severity-low { color: #7a5901; } .severity-info { color: #475467; }
`

// Build renders the full report for one audit run. Pure function: it only
// reads its inputs.
func Build(text string, res model.AuditResult) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Tenancy audit report</title>\n<style>")
	b.WriteString(stylesheet)
	b.WriteString("</style>\n</head>\n<body>\n")

	b.WriteString("<h1>Tenancy audit report</h1>\n")
	fmt.Fprintf(&b, "<p>Run <code>%s</code> at %s — verdict <span class=\"verdict-%s\">%s</span></p>\n",
		html.EscapeString(res.RunID), html.EscapeString(res.Timestamp),
		res.Verdict, strings.ToUpper(string(res.Verdict)))

	writeKPIs(&b, res.RentSlab)
	writeFindings(&b, res)
	writeClauses(&b, res.ClauseResults)

	b.WriteString("<h2>Contract with highlights</h2>\n<div class=\"contract\">")
	b.WriteString(scan.RenderHighlights(text, res.Findings, res.Favorable))
	b.WriteString("</div>\n</body>\n</html>\n")

	return b.String()
}

func writeKPIs(b *strings.Builder, slab model.RentSlabResult) {
	b.WriteString("<h2>Rental index</h2>\n<table>\n<tr><th>Benchmark average</th><th>Max allowed increase</th><th>Proposed increase</th></tr>\n")
	benchmark := "&mdash;"
	if slab.BenchmarkAverage != nil {
		benchmark = "AED " + humanize.Commaf(*slab.BenchmarkAverage)
	}
	fmt.Fprintf(b, "<tr><td>%s</td><td>%d%%</td><td>%.1f%%</td></tr>\n</table>\n",
		benchmark, slab.MaxAllowedPct, slab.ProposedPct)
}

func writeFindings(b *strings.Builder, res model.AuditResult) {
	b.WriteString("<h2>Findings</h2>\n")
	if len(res.Findings) == 0 && len(res.RuleFlags) == 0 {
		b.WriteString("<p>No text-based issues detected.</p>\n")
		return
	}

	b.WriteString("<table>\n<tr><th>Severity</th><th>Issue</th><th>Detail</th><th>Reference</th></tr>\n")
	for _, f := range res.Findings {
		fmt.Fprintf(b, "<tr><td class=\"severity-%s\">%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			f.Severity, f.Severity,
			html.EscapeString(f.Label),
			html.EscapeString(f.Excerpt),
			html.EscapeString(f.LegalReference))
	}
	for _, f := range res.RuleFlags {
		fmt.Fprintf(b, "<tr><td class=\"severity-%s\">%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			f.Severity, f.Severity,
			html.EscapeString(f.Label),
			html.EscapeString(f.Message),
			html.EscapeString(f.LegalReference))
	}
	b.WriteString("</table>\n")
}

func writeClauses(b *strings.Builder, clauses []model.ClauseResult) {
	if len(clauses) == 0 {
		return
	}
	b.WriteString("<h2>Clause verdicts</h2>\n<table>\n<tr><th>#</th><th>Verdict</th><th>Issues</th><th>Text</th></tr>\n")
	for _, c := range clauses {
		fmt.Fprintf(b, "<tr><td>%d</td><td class=\"verdict-%s\">%s</td><td>%s</td><td>%s</td></tr>\n",
			c.ClauseNumber, c.Verdict, c.Verdict,
			html.EscapeString(strings.Join(c.IssueLabels, ", ")),
			html.EscapeString(c.ClauseText))
	}
	b.WriteString("</table>\n")
}
