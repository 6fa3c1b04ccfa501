package model

// Severity classifies how serious a finding or rule flag is.
// The ordering info < low < medium < high is used by the verdict engine.
// SeverityGood is a sentinel for affirmative, compliant language and never
// counts against a contract.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeverityGood   Severity = "good"
)

// Rank returns the blocking weight of a severity. SeverityGood ranks below
// everything else.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is one of the known severity values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityGood:
		return true
	}
	return false
}

// Verdict is the outcome of a check. Overall audit verdicts are restricted
// to pass/fail; VerdictWarn is reachable only from document-level checks.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// Finding is a positional match of a compliance rule against contract text.
// Start and End are byte offsets into the original (un-normalized) text and
// Excerpt is exactly text[Start:End]. Findings are never mutated after the
// matcher produces them.
type Finding struct {
	Label          string   `json:"label"`
	Severity       Severity `json:"severity"`
	Start          int      `json:"start"`
	End            int      `json:"end"`
	Excerpt        string   `json:"excerpt"`
	Suggestion     string   `json:"suggestion,omitempty"`
	LegalReference string   `json:"legal_reference,omitempty"`
}

// RuleFlag is a document-level issue that is not tied to a text position:
// rent-cap breaches, notice-window problems, deposit checks, missing inputs.
type RuleFlag struct {
	Label          string   `json:"label"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	Suggestion     string   `json:"suggestion,omitempty"`
	LegalReference string   `json:"legal_reference,omitempty"`
}

// Clause is one numbered clause as supplied by the external contract parser.
type Clause struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}

// ClauseResult is the per-clause scan outcome. Clause scanning only produces
// pass or fail; warn is reserved for document-level checks.
type ClauseResult struct {
	ClauseNumber int      `json:"clause_number"`
	ClauseText   string   `json:"clause_text"`
	Verdict      Verdict  `json:"verdict"`
	IssueLabels  []string `json:"issue_labels,omitempty"`
}

// RentSlabResult carries the rent-increase-cap computation for one audit run.
// BenchmarkAverage is nil when no benchmark was available.
type RentSlabResult struct {
	BenchmarkAverage *float64 `json:"benchmark_average"`
	MaxAllowedPct    int      `json:"max_allowed_pct"`
	ProposedPct      float64  `json:"proposed_pct"`
}

// AuditResult is the aggregate outcome of one audit run. It is immutable once
// returned and is the only entity eligible for ledger persistence.
type AuditResult struct {
	RunID         string         `json:"run_id"`
	Verdict       Verdict        `json:"verdict"`
	Findings      []Finding      `json:"findings"`
	Favorable     []Finding      `json:"favorable,omitempty"`
	RuleFlags     []RuleFlag     `json:"rule_flags"`
	ClauseResults []ClauseResult `json:"clause_results"`
	RentSlab      RentSlabResult `json:"rent_slab_result"`
	Strict        bool           `json:"strict"`
	Timestamp     string         `json:"timestamp"`
}
