// Package server exposes the audit engine and ledger over a small HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"leasewarden/internal/engine"
	"leasewarden/internal/ledger"
	"leasewarden/internal/ledger/memstore"
	"leasewarden/internal/ledger/sqlstore"
	"leasewarden/internal/model"
	"leasewarden/internal/rules"
)

// Config holds HTTP server configuration. An empty DBPath keeps the ledger
// in memory.
type Config struct {
	Addr      string
	RulesPath string
	DBPath    string
}

// Server serves audit and ledger requests. The rule table is swapped
// atomically on hot-reload; in-flight audits keep the table they started with.
type Server struct {
	cfg Config

	mu     sync.RWMutex
	eng    *engine.Engine
	table  *rules.Table
	ledger *ledger.Ledger
	store  ledger.Store

	srv *http.Server
}

// New creates a server with a compiled rule table and an opened ledger store.
func New(cfg Config) (*Server, error) {
	table, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	var store ledger.Store
	if cfg.DBPath != "" {
		ss, err := sqlstore.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger store: %w", err)
		}
		store = ss
	} else {
		store = memstore.New()
	}

	s := &Server{
		cfg:    cfg,
		eng:    engine.New(table),
		table:  table,
		ledger: ledger.New(store),
		store:  store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/audit", s.handleAudit)
	mux.HandleFunc("/ledger/append", s.handleLedgerAppend)
	mux.HandleFunc("/ledger/verify", s.handleLedgerVerify)
	mux.HandleFunc("/ledger/tail", s.handleLedgerTail)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	return s, nil
}

// Start begins listening. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	_, table := s.current()
	log.Printf("listening on %s (rules %s)", ln.Addr(), table.Hash())
	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Handler returns the HTTP handler. For testing.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Close releases the ledger store if it holds resources.
func (s *Server) Close() error {
	if c, ok := s.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// ReloadRules atomically swaps the rule table. Called by the hot-reloader on
// file change.
func (s *Server) ReloadRules() error {
	table, err := rules.Load(s.cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to reload rules: %w", err)
	}

	s.mu.Lock()
	s.table = table
	s.eng = engine.New(table)
	s.mu.Unlock()

	log.Printf("rules reloaded (%s)", table.Hash())
	return nil
}

func (s *Server) current() (*engine.Engine, *rules.Table) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng, s.table
}

// auditRequest is the POST /audit body. Namespace and AgreementID are
// optional; when both are set the result is appended to the ledger.
type auditRequest struct {
	Text               string         `json:"text"`
	Clauses            []model.Clause `json:"clauses,omitempty"`
	CurrentRent        float64        `json:"current_rent"`
	ProposedRent       float64        `json:"proposed_rent"`
	RenewalDate        string         `json:"renewal_date,omitempty"`
	NoticeSentDate     string         `json:"notice_sent_date,omitempty"`
	Deposit            float64        `json:"deposit,omitempty"`
	Benchmark          *float64       `json:"benchmark,omitempty"`
	AllowedPctOverride int            `json:"allowed_pct_override,omitempty"`
	Strict             bool           `json:"strict,omitempty"`
	Namespace          string         `json:"namespace,omitempty"`
	AgreementID        string         `json:"agreement_id,omitempty"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	eng, table := s.current()
	result := eng.Audit(engine.Input{
		Text:               req.Text,
		Clauses:            req.Clauses,
		CurrentRent:        req.CurrentRent,
		ProposedRent:       req.ProposedRent,
		RenewalDate:        req.RenewalDate,
		NoticeSentDate:     req.NoticeSentDate,
		Deposit:            req.Deposit,
		Benchmark:          req.Benchmark,
		AllowedPctOverride: req.AllowedPctOverride,
		Strict:             req.Strict,
	})

	resp := map[string]any{"result": result}
	if req.Namespace != "" && req.AgreementID != "" {
		payload, err := engine.LedgerPayload(req.Text, result, table.Hash())
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("ledger payload: %v", err))
			return
		}
		entry, err := s.ledger.Append(r.Context(), req.Namespace, req.AgreementID, payload)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("ledger append: %v", err))
			return
		}
		resp["ledger_entry"] = entry
	}

	writeJSON(w, http.StatusOK, resp)
}

type appendRequest struct {
	Namespace   string          `json:"namespace"`
	AgreementID string          `json:"agreement_id"`
	Payload     json.RawMessage `json:"payload"`
}

func (s *Server) handleLedgerAppend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Namespace == "" || req.AgreementID == "" {
		writeError(w, http.StatusBadRequest, "namespace and agreement_id are required")
		return
	}
	if len(req.Payload) == 0 {
		writeError(w, http.StatusBadRequest, "payload is required")
		return
	}

	var payload any
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}

	entry, err := s.ledger.Append(r.Context(), req.Namespace, req.AgreementID, payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("ledger append: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleLedgerVerify(w http.ResponseWriter, r *http.Request) {
	namespace, id, ok := chainParams(w, r)
	if !ok {
		return
	}

	valid, msg := s.ledger.Verify(r.Context(), namespace, id)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   valid,
		"message": msg,
	})
}

func (s *Server) handleLedgerTail(w http.ResponseWriter, r *http.Request) {
	namespace, id, ok := chainParams(w, r)
	if !ok {
		return
	}

	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}

	entries, err := s.ledger.Tail(r.Context(), namespace, id, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("ledger tail: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, table := s.current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"rules_hash": table.Hash(),
	})
}

func chainParams(w http.ResponseWriter, r *http.Request) (namespace, id string, ok bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", "", false
	}
	namespace = r.URL.Query().Get("namespace")
	id = r.URL.Query().Get("agreement_id")
	if namespace == "" || id == "" {
		writeError(w, http.StatusBadRequest, "namespace and agreement_id are required")
		return "", "", false
	}
	return namespace, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
