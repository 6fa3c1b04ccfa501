// Package engine aggregates clause scans, document rule flags, and the
// rent-cap and notice checks into one explainable audit verdict.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"leasewarden/internal/model"
	"leasewarden/internal/rentcap"
	"leasewarden/internal/rules"
	"leasewarden/internal/scan"
)

// Input is everything one audit run consumes. Text and Clauses come from the
// external document extractor; Benchmark comes from an index lookup or manual
// override. A nil Benchmark means none was available.
type Input struct {
	Text           string
	Clauses        []model.Clause
	CurrentRent    float64
	ProposedRent   float64
	RenewalDate    string
	NoticeSentDate string
	Deposit        float64
	Benchmark      *float64
	// AllowedPctOverride, when positive, replaces the slab table's maximum
	// allowed percentage (official-calculator override).
	AllowedPctOverride int
	Strict             bool
}

// maxDepositRatio is the customary ceiling for security deposits as a share
// of annual rent.
const maxDepositRatio = 0.10

// Engine runs audits against a compiled rule table.
type Engine struct {
	table *rules.Table
}

// New creates an Engine. The table must already be compiled, so pattern
// errors cannot occur during an audit.
func New(table *rules.Table) *Engine {
	return &Engine{table: table}
}

// Table returns the rule table the engine audits with.
func (e *Engine) Table() *rules.Table { return e.table }

// Audit runs one complete audit. It never returns an error: input-quality
// problems (missing benchmark, unparseable dates, empty clause list) degrade
// to informational or low-severity rule flags and the verdict is always
// computed.
func (e *Engine) Audit(in Input) model.AuditResult {
	adverse, favorable := scan.Match(in.Text, e.table)

	clauseResults := e.scanClauses(in.Clauses)

	slab := rentcap.Evaluate(in.CurrentRent, in.ProposedRent, in.Benchmark)
	if in.AllowedPctOverride > 0 {
		slab.MaxAllowedPct = in.AllowedPctOverride
	}

	flags := e.documentFlags(in, slab)

	verdict := aggregate(in.Strict, adverse, flags, clauseResults)

	return model.AuditResult{
		RunID:         uuid.NewString(),
		Verdict:       verdict,
		Findings:      adverse,
		Favorable:     favorable,
		RuleFlags:     flags,
		ClauseResults: clauseResults,
		RentSlab:      slab,
		Strict:        in.Strict,
		Timestamp:     time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// scanClauses audits each numbered clause in isolation. A clause fails if its
// text produces any adverse finding; clause scanning never produces warn.
func (e *Engine) scanClauses(clauses []model.Clause) []model.ClauseResult {
	results := make([]model.ClauseResult, 0, len(clauses))
	for _, c := range clauses {
		adverse, _ := scan.Match(c.Text, e.table)
		r := model.ClauseResult{
			ClauseNumber: c.Number,
			ClauseText:   c.Text,
			Verdict:      model.VerdictPass,
		}
		if len(adverse) > 0 {
			r.Verdict = model.VerdictFail
			for _, f := range adverse {
				r.IssueLabels = append(r.IssueLabels, f.Label)
			}
		}
		results = append(results, r)
	}
	return results
}

// documentFlags evaluates the document-level checks: rent-increase cap,
// renewal notice window, security deposit, and input quality.
func (e *Engine) documentFlags(in Input, slab model.RentSlabResult) []model.RuleFlag {
	var flags []model.RuleFlag

	benchmarkPresent := in.Benchmark != nil && *in.Benchmark > 0
	if !benchmarkPresent {
		flags = append(flags, model.RuleFlag{
			Label:    "benchmark_missing",
			Severity: model.SeverityInfo,
			Message:  "no rental index benchmark available; the allowed increase defaults to 0%",
			Suggestion: "Provide a rental index figure or an official calculator " +
				"override to check the proposed increase.",
			LegalReference: "Decree 43/2013",
		})
	}

	if benchmarkPresent && slab.ProposedPct > float64(slab.MaxAllowedPct) {
		flags = append(flags, model.RuleFlag{
			Label:    "rent_increase_exceeds_cap",
			Severity: model.SeverityHigh,
			Message: fmt.Sprintf("proposed increase of %.1f%% exceeds the %d%% allowed by the rental index slabs",
				slab.ProposedPct, slab.MaxAllowedPct),
			Suggestion:     "Reduce the proposed rent to within the allowed slab or dispute the benchmark.",
			LegalReference: "Decree 43/2013",
		})
	}

	switch status, msg := rentcap.CheckNotice(in.RenewalDate, in.NoticeSentDate); status {
	case model.VerdictWarn:
		flags = append(flags, model.RuleFlag{
			Label:          "notice_window_unverified",
			Severity:       model.SeverityLow,
			Message:        msg,
			LegalReference: "Law 33/2008, Art. 14",
		})
	case model.VerdictFail:
		flags = append(flags, model.RuleFlag{
			Label:          "notice_window_violation",
			Severity:       model.SeverityMedium,
			Message:        msg,
			Suggestion:     "Renewal changes require 90 days' written notice before the renewal date.",
			LegalReference: "Law 33/2008, Art. 14",
		})
	}

	if in.Deposit > 0 && in.CurrentRent > 0 && in.Deposit > maxDepositRatio*in.CurrentRent {
		flags = append(flags, model.RuleFlag{
			Label:    "excessive_deposit",
			Severity: model.SeverityMedium,
			Message: fmt.Sprintf("security deposit of %.0f is %.0f%% of the annual rent; more than %.0f%% is unusual",
				in.Deposit, in.Deposit/in.CurrentRent*100, maxDepositRatio*100),
			Suggestion:     "Deposits above one tenth of the annual rent should be justified in writing.",
			LegalReference: "Law 26/2007, Art. 20",
		})
	}

	return flags
}

// aggregate applies the verdict policy.
//
// Lenient fails only on high-severity adverse findings, high-severity rule
// flags, or a failed clause. Strict fails on any adverse finding, any rule
// flag of any severity, or any clause that is not a clean pass, so a strict
// failure set always contains the lenient one.
func aggregate(strict bool, adverse []model.Finding, flags []model.RuleFlag, clauses []model.ClauseResult) model.Verdict {
	if strict {
		if len(adverse) > 0 || len(flags) > 0 {
			return model.VerdictFail
		}
		for _, c := range clauses {
			if c.Verdict != model.VerdictPass {
				return model.VerdictFail
			}
		}
		return model.VerdictPass
	}

	for _, f := range adverse {
		if f.Severity == model.SeverityHigh {
			return model.VerdictFail
		}
	}
	for _, f := range flags {
		if f.Severity == model.SeverityHigh {
			return model.VerdictFail
		}
	}
	for _, c := range clauses {
		if c.Verdict == model.VerdictFail {
			return model.VerdictFail
		}
	}
	return model.VerdictPass
}
