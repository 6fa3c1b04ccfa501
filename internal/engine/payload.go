package engine

import (
	"leasewarden/internal/ledger"
	"leasewarden/internal/model"
)

// LedgerPayload builds the record persisted to the hash-chained ledger for
// one audit run: content hashes plus the headline numbers, never the full
// contract text.
func LedgerPayload(text string, res model.AuditResult, rulesHash string) (map[string]any, error) {
	auditHash, err := ledger.HashValue(res)
	if err != nil {
		return nil, err
	}

	var benchmark any
	if res.RentSlab.BenchmarkAverage != nil {
		benchmark = *res.RentSlab.BenchmarkAverage
	}

	return map[string]any{
		"contract_sha256": ledger.HashBytes([]byte(text)),
		"audit_sha256":    auditHash,
		"rules_sha256":    rulesHash,
		"benchmark_avg":   benchmark,
		"max_allowed_pct": res.RentSlab.MaxAllowedPct,
		"proposed_pct":    res.RentSlab.ProposedPct,
		"verdict":         string(res.Verdict),
		"run_id":          res.RunID,
	}, nil
}
