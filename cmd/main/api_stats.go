package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS stats_endpoint (
    endpoint      TEXT PRIMARY KEY,
    total_hits    INTEGER NOT NULL DEFAULT 1,
    first_seen    DATETIME NOT NULL,
    last_seen     DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS stats_client (
    ip_address    TEXT PRIMARY KEY,
    total_hits    INTEGER NOT NULL DEFAULT 1,
    first_seen    DATETIME NOT NULL,
    last_seen     DATETIME NOT NULL
);
`

// EndpointStats is one row of the per-endpoint counters.
type EndpointStats struct {
	Endpoint  string    `json:"endpoint"`
	TotalHits int       `json:"total_hits"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// ClientStats is one row of the per-client counters.
type ClientStats struct {
	IPAddress string    `json:"ip_address"`
	TotalHits int       `json:"total_hits"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// GlobalStatsSummary provides a high-level overview of all collected stats.
type GlobalStatsSummary struct {
	TotalRequests   int64 `json:"total_requests"`
	UniqueEndpoints int64 `json:"unique_endpoints"`
	UniqueClients   int64 `json:"unique_clients"`
}

// StatsAPI holds the dependencies for the request-statistics handlers. The
// counters are operational only; no model data ever touches the database.
type StatsAPI struct {
	db     *sql.DB
	logger *slog.Logger
}

func setupStatsSchema(db *sql.DB) error {
	_, err := db.Exec(statsSchema)
	return err
}

func NewStatsAPI(db *sql.DB, logger *slog.Logger) *StatsAPI {
	return &StatsAPI{
		db:     db,
		logger: logger,
	}
}

func (s *StatsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/summary", s.handleSummary)
	mux.HandleFunc("/api/stats/top_endpoints", s.handleTopEndpoints)
	mux.HandleFunc("/api/stats/top_clients", s.handleTopClients)
}

// Track wraps a handler and records every request before passing it through.
// A failed write only logs; the API itself must keep answering.
func (s *StatsAPI) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.record(r); err != nil {
			s.logger.Warn("Failed to record request stats", "path", r.URL.Path, "error", err)
		}
		next.ServeHTTP(w, r)
	})
}

// record upserts the endpoint and client counters for one request in a
// single transaction.
func (s *StatsAPI) record(r *http.Request) error {
	endpoint := r.URL.Path
	ip := getClientIP(r)
	now := time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	_, err = tx.ExecContext(r.Context(), `
        INSERT INTO stats_endpoint (endpoint, first_seen, last_seen) VALUES (?, ?, ?)
        ON CONFLICT(endpoint) DO UPDATE SET total_hits = total_hits + 1, last_seen = ?
    `, endpoint, now, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert stats_endpoint: %w", err)
	}

	_, err = tx.ExecContext(r.Context(), `
        INSERT INTO stats_client (ip_address, first_seen, last_seen) VALUES (?, ?, ?)
        ON CONFLICT(ip_address) DO UPDATE SET total_hits = total_hits + 1, last_seen = ?
    `, ip, now, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert stats_client: %w", err)
	}

	return tx.Commit()
}

func (s *StatsAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var summary GlobalStatsSummary
	// Total requests is the sum of all endpoint hits.
	_ = s.db.QueryRowContext(r.Context(), "SELECT COALESCE(SUM(total_hits), 0) FROM stats_endpoint").Scan(&summary.TotalRequests)
	_ = s.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM stats_endpoint").Scan(&summary.UniqueEndpoints)
	_ = s.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM stats_client").Scan(&summary.UniqueClients)
	respondWithJSON(w, http.StatusOK, summary)
}

func (s *StatsAPI) handleTopEndpoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rows, err := s.db.QueryContext(r.Context(), "SELECT endpoint, total_hits, first_seen, last_seen FROM stats_endpoint ORDER BY total_hits DESC LIMIT 100")
	if err != nil {
		s.logger.Error("Failed to query top endpoints", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	results := make([]EndpointStats, 0)
	for rows.Next() {
		var row EndpointStats
		if err = rows.Scan(&row.Endpoint, &row.TotalHits, &row.FirstSeen, &row.LastSeen); err != nil {
			s.logger.Error("Failed to scan top endpoints", "error", err)
			continue
		}
		results = append(results, row)
	}
	respondWithJSON(w, http.StatusOK, results)
}

func (s *StatsAPI) handleTopClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rows, err := s.db.QueryContext(r.Context(), "SELECT ip_address, total_hits, first_seen, last_seen FROM stats_client ORDER BY total_hits DESC LIMIT 100")
	if err != nil {
		s.logger.Error("Failed to query top clients", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	results := make([]ClientStats, 0)
	for rows.Next() {
		var row ClientStats
		if err = rows.Scan(&row.IPAddress, &row.TotalHits, &row.FirstSeen, &row.LastSeen); err != nil {
			s.logger.Error("Failed to scan top clients", "error", err)
			continue
		}
		results = append(results, row)
	}
	respondWithJSON(w, http.StatusOK, results)
}
