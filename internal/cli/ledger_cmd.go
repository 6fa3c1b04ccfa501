package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"leasewarden/internal/ledger"
	"leasewarden/internal/ledger/sqlstore"
)

var (
	ledgerDB          string
	ledgerNamespace   string
	ledgerAgreementID string
	ledgerTailN       int
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.PersistentFlags().StringVar(&ledgerDB, "db", "", "SQLite ledger path (required)")
	ledgerCmd.PersistentFlags().StringVar(&ledgerNamespace, "namespace", "", "Chain namespace (required)")
	ledgerCmd.PersistentFlags().StringVar(&ledgerAgreementID, "agreement-id", "", "Agreement id (required)")
	ledgerCmd.MarkPersistentFlagRequired("db")
	ledgerCmd.MarkPersistentFlagRequired("namespace")
	ledgerCmd.MarkPersistentFlagRequired("agreement-id")

	ledgerCmd.AddCommand(ledgerAppendCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd)
	ledgerCmd.AddCommand(ledgerTailCmd)
	ledgerTailCmd.Flags().IntVarP(&ledgerTailN, "lines", "n", 10, "Number of recent entries to show")
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Hash-chained ledger operations",
	Long:  "Commands for appending to and verifying the per-agreement hash chains.",
}

func openLedger() (*ledger.Ledger, *sqlstore.Store, error) {
	store, err := sqlstore.Open(ledgerDB)
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(store), store, nil
}

var ledgerAppendCmd = &cobra.Command{
	Use:   "append <payload.json>",
	Short: "Append a JSON payload to a chain",
	Long:  "Reads a JSON document, canonicalizes it, and appends it as the next\nentry of the (namespace, agreement-id) chain. Use - for stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}

		led, store, err := openLedger()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := led.Append(context.Background(), ledgerNamespace, ledgerAgreementID, payload)
		if err != nil {
			return err
		}
		fmt.Printf("appended index %d (%s)\n", entry.Index, entry.ThisHash)
		return nil
	},
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a chain's hash links",
	Long:  "Replays the chain and recomputes every hash. Exits 0 if valid, 1 if\ntampered or broken.",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, store, err := openLedger()
		if err != nil {
			return err
		}
		defer store.Close()

		valid, msg := led.Verify(context.Background(), ledgerNamespace, ledgerAgreementID)
		if valid {
			fmt.Println(msg)
			return nil
		}
		fmt.Fprintf(os.Stderr, "FAILED: %s\n", msg)
		os.Exit(1)
		return nil
	},
}

var ledgerTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent chain entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, store, err := openLedger()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := led.Tail(context.Background(), ledgerNamespace, ledgerAgreementID, ledgerTailN)
		if err != nil {
			return err
		}
		for _, e := range entries {
			out, _ := json.MarshalIndent(e, "", "  ")
			fmt.Println(string(out))
		}
		return nil
	},
}
