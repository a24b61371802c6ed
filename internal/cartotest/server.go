package cartotest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// Server serves a Table over the CARTO SQL API at /api/v2/sql and issues
// OAuth2 tokens at /oauth/token.
type Server struct {
	*httptest.Server
	Table *Table

	// APIKey, when set, must be sent with every query unless a valid
	// bearer token is presented.
	APIKey string

	// Token is the access token handed out by the token endpoint.
	Token string

	mu       sync.Mutex
	statuses []int
	requests int
}

// NewServer starts a server in front of table.
func NewServer(table *Table) *Server {
	s := &Server{Table: table, Token: "test-token"}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/sql", s.handleSQL)
	mux.HandleFunc("/oauth/token", s.handleToken)
	s.Server = httptest.NewServer(mux)
	return s
}

// SQLURL returns the SQL endpoint URL.
func (s *Server) SQLURL() string { return s.URL + "/api/v2/sql" }

// TokenURL returns the OAuth2 token endpoint URL.
func (s *Server) TokenURL() string { return s.URL + "/oauth/token" }

// RespondWith queues raw HTTP statuses returned, one per request, before
// requests reach the table again.
func (s *Server) RespondWith(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, statuses...)
}

// Requests returns the number of SQL requests received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) handleSQL(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	var status int
	if len(s.statuses) > 0 {
		status, s.statuses = s.statuses[0], s.statuses[1:]
	}
	s.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]any{"error": []string{http.StatusText(status)}})
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": []string{"method not allowed"}})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": []string{err.Error()}})
		return
	}
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": []string{"permission denied"}})
		return
	}

	res, err := s.Table.Query(r.Context(), r.PostForm.Get("q"))
	if err != nil {
		var qe *domain.QueryError
		if errors.As(err, &qe) {
			writeJSON(w, qe.Status, map[string]any{"error": qe.Messages})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": []string{err.Error()}})
		return
	}

	rows := res.Rows
	if rows == nil {
		rows = []domain.Row{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":       rows,
		"time":       0.001,
		"total_rows": res.TotalRows,
	})
}

func (s *Server) authorized(r *http.Request) bool {
	if r.Header.Get("Authorization") == "Bearer "+s.Token {
		return true
	}
	if s.APIKey == "" {
		return true
	}
	return r.PostForm.Get("api_key") == s.APIKey
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": s.Token,
		"token_type":   "bearer",
		"expires_in":   3600,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
