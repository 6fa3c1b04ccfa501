package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"leasewarden/internal/server"
)

var (
	serveAddr  string
	serveRules string
	serveDB    string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "Path to rules YAML (built-in table if empty)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite ledger path (in-memory ledger if empty)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit HTTP server",
	Long:  "Serves audits and ledger operations over HTTP.\nSupports hot-reload of the rules file.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := server.New(server.Config{
		Addr:      serveAddr,
		RulesPath: serveRules,
		DBPath:    serveDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start hot-reload watcher for the rules file
	reloader, err := server.NewReloader(srv, []string{serveRules})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}
	if reloader != nil {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down audit server...")
		cancel()
	}()

	if serveRules != "" {
		fmt.Fprintf(os.Stderr, "Rules: %s (hot-reload enabled)\n", serveRules)
	}
	return srv.Start(ctx)
}
