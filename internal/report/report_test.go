package report

import (
	"strings"
	"testing"

	"leasewarden/internal/model"
)

func sampleResult() model.AuditResult {
	avg := 90000.0
	return model.AuditResult{
		RunID:     "run-1234",
		Verdict:   model.VerdictFail,
		Timestamp: "2026-08-29T10:00:00.000Z",
		Findings: []model.Finding{
			{
				Label:          "eviction_without_notice",
				Severity:       model.SeverityHigh,
				Start:          24,
				End:            59,
				Excerpt:        "evict the tenant at any time",
				LegalReference: "Law 33/2008 Art. 25",
			},
		},
		RuleFlags: []model.RuleFlag{
			{
				Label:    "rent_increase_exceeds_cap",
				Severity: model.SeverityHigh,
				Message:  "proposed increase 16.7% exceeds the 15% cap",
			},
		},
		ClauseResults: []model.ClauseResult{
			{ClauseNumber: 1, ClauseText: "The landlord may evict the tenant at any time.", Verdict: model.VerdictFail, IssueLabels: []string{"eviction_without_notice"}},
			{ClauseNumber: 2, ClauseText: "Rent is due monthly.", Verdict: model.VerdictPass},
		},
		RentSlab: model.RentSlabResult{
			BenchmarkAverage: &avg,
			MaxAllowedPct:    15,
			ProposedPct:      16.7,
		},
	}
}

func TestBuildContainsHeadlineAndVerdict(t *testing.T) {
	out := Build("The landlord reserves the evict the tenant at any time clause.", sampleResult())

	for _, want := range []string{
		"<!DOCTYPE html>",
		"run-1234",
		"verdict-fail",
		"FAIL",
		"AED 90,000",
		"15%",
		"16.7%",
		"eviction_without_notice",
		"Law 33/2008 Art. 25",
		"rent_increase_exceeds_cap",
		"Clause verdicts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestBuildHighlightsAdverseSpan(t *testing.T) {
	text := "The landlord may evict the tenant at any time if desired."
	res := sampleResult()
	res.Findings[0].Start = strings.Index(text, "evict")
	res.Findings[0].End = res.Findings[0].Start + len("evict the tenant at any time")

	out := Build(text, res)
	if !strings.Contains(out, `<mark class="adverse">evict the tenant at any time</mark>`) {
		t.Fatalf("report does not highlight the adverse span:\n%s", out)
	}
}

func TestBuildEscapesContractText(t *testing.T) {
	res := model.AuditResult{
		RunID:     "run-esc",
		Verdict:   model.VerdictPass,
		Timestamp: "2026-08-29T10:00:00.000Z",
	}
	out := Build(`<script>alert("x")</script>`, res)
	if strings.Contains(out, "<script>") {
		t.Fatal("contract text was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("escaped contract text missing")
	}
}

func TestBuildMissingBenchmark(t *testing.T) {
	res := sampleResult()
	res.RentSlab.BenchmarkAverage = nil
	res.RentSlab.MaxAllowedPct = 0

	out := Build("plain text", res)
	if !strings.Contains(out, "&mdash;") {
		t.Fatal("missing benchmark should render as a dash")
	}
}

func TestBuildNoFindings(t *testing.T) {
	res := model.AuditResult{
		RunID:   "run-clean",
		Verdict: model.VerdictPass,
	}
	out := Build("Rent is due monthly.", res)
	if !strings.Contains(out, "No text-based issues detected") {
		t.Fatal("clean report should say no issues were detected")
	}
}
