package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"leasewarden/internal/engine"
	"leasewarden/internal/ledger"
	"leasewarden/internal/ledger/sqlstore"
	"leasewarden/internal/model"
	"leasewarden/internal/report"
	"leasewarden/internal/rera"
	"leasewarden/internal/rules"
)

var (
	auditRules       string
	auditClauses     string
	auditCurrent     float64
	auditProposed    float64
	auditRenewal     string
	auditNoticeSent  string
	auditDeposit     float64
	auditBenchmark   float64
	auditOverride    int
	auditStrict      bool
	auditJSON        bool
	auditHTMLReport  string
	auditDB          string
	auditNamespace   string
	auditAgreementID string

	auditReraCSV   string
	auditCity      string
	auditArea      string
	auditPropType  string
	auditBedrooms  int
	auditFurnished string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVar(&auditRules, "rules", "", "Path to rules YAML (built-in table if empty)")
	auditCmd.Flags().StringVar(&auditClauses, "clauses", "", "Path to numbered clauses YAML")
	auditCmd.Flags().Float64Var(&auditCurrent, "current", 0, "Current annual rent in AED")
	auditCmd.Flags().Float64Var(&auditProposed, "proposed", 0, "Proposed annual rent in AED")
	auditCmd.Flags().StringVar(&auditRenewal, "renewal-date", "", "Renewal date (YYYY-MM-DD)")
	auditCmd.Flags().StringVar(&auditNoticeSent, "notice-date", "", "Date the renewal notice was sent (YYYY-MM-DD)")
	auditCmd.Flags().Float64Var(&auditDeposit, "deposit", 0, "Security deposit in AED")
	auditCmd.Flags().Float64Var(&auditBenchmark, "benchmark", 0, "Rental index average in AED (overrides CSV lookup)")
	auditCmd.Flags().IntVar(&auditOverride, "override", 0, "Official-calculator allowed increase percentage")
	auditCmd.Flags().BoolVar(&auditStrict, "strict", false, "Fail on any finding or flag, not just high severity")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Emit the full audit result as JSON")
	auditCmd.Flags().StringVar(&auditHTMLReport, "html-report", "", "Write an HTML report to this path")
	auditCmd.Flags().StringVar(&auditDB, "db", "", "SQLite ledger path (enables ledger recording)")
	auditCmd.Flags().StringVar(&auditNamespace, "namespace", "", "Ledger namespace (required with --db)")
	auditCmd.Flags().StringVar(&auditAgreementID, "agreement-id", "", "Ledger agreement id (required with --db)")

	auditCmd.Flags().StringVar(&auditReraCSV, "rera-csv", "", "Rental index CSV for benchmark lookup")
	auditCmd.Flags().StringVar(&auditCity, "city", "", "City for the index lookup")
	auditCmd.Flags().StringVar(&auditArea, "area", "", "Area for the index lookup")
	auditCmd.Flags().StringVar(&auditPropType, "type", "", "Property type for the index lookup")
	auditCmd.Flags().IntVar(&auditBedrooms, "bedrooms", 0, "Bedroom count for the index lookup")
	auditCmd.Flags().StringVar(&auditFurnished, "furnished", "", "Furnished state for the index lookup (optional)")
}

var auditCmd = &cobra.Command{
	Use:   "audit <contract.txt>",
	Short: "Audit a tenancy contract",
	Long: "Scans the contract text against the rule table, checks the proposed rent\n" +
		"against the rental index slabs and the 90-day notice window, and prints\n" +
		"the verdict. Exit code 0 on pass, 1 on fail.",
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}
	text := string(raw)

	table, err := rules.Load(auditRules)
	if err != nil {
		return err
	}

	clauses, err := loadClauses(auditClauses)
	if err != nil {
		return err
	}

	benchmark, err := resolveBenchmark()
	if err != nil {
		return err
	}

	eng := engine.New(table)
	result := eng.Audit(engine.Input{
		Text:               text,
		Clauses:            clauses,
		CurrentRent:        auditCurrent,
		ProposedRent:       auditProposed,
		RenewalDate:        auditRenewal,
		NoticeSentDate:     auditNoticeSent,
		Deposit:            auditDeposit,
		Benchmark:          benchmark,
		AllowedPctOverride: auditOverride,
		Strict:             auditStrict,
	})

	if auditDB != "" {
		if auditNamespace == "" || auditAgreementID == "" {
			return fmt.Errorf("--db requires --namespace and --agreement-id")
		}
		if err := recordRun(text, result, table.Hash()); err != nil {
			return err
		}
	}

	if auditHTMLReport != "" {
		if err := os.WriteFile(auditHTMLReport, []byte(report.Build(text, result)), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", auditHTMLReport)
	}

	if auditJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printResult(result)
	}

	if result.Verdict == model.VerdictFail {
		os.Exit(1)
	}
	return nil
}

// loadClauses reads a YAML list of numbered clauses.
func loadClauses(path string) ([]model.Clause, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clauses: %w", err)
	}
	var clauses []model.Clause
	if err := yaml.Unmarshal(raw, &clauses); err != nil {
		return nil, fmt.Errorf("parse clauses: %w", err)
	}
	return clauses, nil
}

// resolveBenchmark prefers an explicit --benchmark, then a rental index CSV
// lookup. Nil means no benchmark was available.
func resolveBenchmark() (*float64, error) {
	if auditBenchmark > 0 {
		return &auditBenchmark, nil
	}
	if auditReraCSV == "" {
		return nil, nil
	}

	rows, err := rera.LoadFile(auditReraCSV)
	if err != nil {
		return nil, err
	}
	avg, ok := rera.Lookup(rows, rera.Query{
		City:         auditCity,
		Area:         auditArea,
		PropertyType: auditPropType,
		Bedrooms:     auditBedrooms,
		Furnished:    auditFurnished,
	})
	if !ok {
		fmt.Fprintf(os.Stderr, "no rental index row matches %s/%s/%s %d br\n",
			auditCity, auditArea, auditPropType, auditBedrooms)
		return nil, nil
	}
	return &avg, nil
}

func recordRun(text string, result model.AuditResult, rulesHash string) error {
	store, err := sqlstore.Open(auditDB)
	if err != nil {
		return err
	}
	defer store.Close()

	payload, err := engine.LedgerPayload(text, result, rulesHash)
	if err != nil {
		return err
	}
	entry, err := ledger.New(store).Append(context.Background(), auditNamespace, auditAgreementID, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "recorded run %s at index %d\n", result.RunID, entry.Index)
	return nil
}

func printResult(res model.AuditResult) {
	fmt.Printf("Verdict: %s (run %s)\n", res.Verdict, res.RunID)
	if res.RentSlab.BenchmarkAverage != nil {
		fmt.Printf("Rental index: benchmark %.0f AED, max allowed +%d%%, proposed %+.1f%%\n",
			*res.RentSlab.BenchmarkAverage, res.RentSlab.MaxAllowedPct, res.RentSlab.ProposedPct)
	}

	for _, f := range res.Findings {
		fmt.Printf("  [%s] %s at %d-%d: %q\n", f.Severity, f.Label, f.Start, f.End, f.Excerpt)
		if f.Suggestion != "" {
			fmt.Printf("         %s\n", f.Suggestion)
		}
	}
	for _, f := range res.RuleFlags {
		fmt.Printf("  [%s] %s: %s\n", f.Severity, f.Label, f.Message)
	}
	for _, f := range res.Favorable {
		fmt.Printf("  [good] %s: %q\n", f.Label, f.Excerpt)
	}
	for _, c := range res.ClauseResults {
		if c.Verdict != model.VerdictPass {
			fmt.Printf("  clause %d: %s (%v)\n", c.ClauseNumber, c.Verdict, c.IssueLabels)
		}
	}
}
