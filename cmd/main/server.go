package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/nextword/nextword/pkg/tokenize"
)

// Server wires the API areas, middleware, and static frontend into one mux.
type Server struct {
	cm         *ConfigManager
	db         *sql.DB
	logger     *slog.Logger
	predictAPI *PredictAPI
	sampleAPI  *SampleAPI
	statsAPI   *StatsAPI
	serverAPI  *ServerAPI
	mux        *http.ServeMux
}

// NewServer creates the server object and registers all routes.
func NewServer(cm *ConfigManager, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	cfg := cm.Get()

	// Tokenizer initialization. Loading the BPE encoding can fail offline;
	// the demo still works with the whitespace fallback.
	var tokenizer tokenize.Tokenizer
	tokenizer, err := tokenize.NewTiktoken(cfg.Server.TokenizerEncoding)
	if err != nil {
		logger.Warn("Falling back to whitespace tokenizer", "error", err)
		tokenizer = tokenize.Words{}
	}

	// api initialization
	predictAPI := NewPredictAPI(tokenizer, cm, logger)
	sampleAPI := NewSampleAPI(cm, logger)
	statsAPI := NewStatsAPI(db, logger)
	serverAPI := NewServerAPI(cm, actionChan, logger)

	server := &Server{
		cm:         cm,
		db:         db,
		logger:     logger,
		predictAPI: predictAPI,
		sampleAPI:  sampleAPI,
		statsAPI:   statsAPI,
		serverAPI:  serverAPI,
		mux:        http.NewServeMux(),
	}

	apiMux := http.NewServeMux()

	server.predictAPI.RegisterRoutes(apiMux)
	server.sampleAPI.RegisterRoutes(apiMux)
	server.statsAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// Every API request passes panic recovery, CORS, and the hit counter.
	// The health check stays outside the chain so probes aren't counted.
	wrapped := server.recoverPanics(server.corsMiddleware(server.statsAPI.Track(apiMux)))

	server.mux.HandleFunc("/api/health", server.serverAPI.handleHealthCheck)
	server.mux.Handle("/api/", wrapped)
	server.mux.Handle("/", http.FileServer(http.Dir(cfg.Server.FrontendPath)))

	return server, nil
}

// recoverPanics surfaces unexpected internal failures as a generic server
// error carrying the failure's textual description. Unseen contexts and
// too-short sentences are handled inside the core and never reach this.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Handler panicked", "path", r.URL.Path, "error", rec)
				respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware applies the configured allowed-origin list and answers
// preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.cm.OriginAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Token")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getClientIP(r *http.Request) string {

	// The X-Real-Ip header contains the forwarded IP in some cases (like from nginx)
	realIP := r.Header.Get("X-Real-Ip")
	if realIP != "" {
		return realIP
	}

	// The X-Forwarded-For header can contain a comma-separated list of IPs.
	// The first IP in the list is the original client IP.
	forwardedFor := r.Header.Get("X-Forwarded-For")
	if forwardedFor != "" {
		ips := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	// If the header is not present, fall back to the remote address.
	// This handles direct connections not coming through a proxy.
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If splitting fails (e.g., no port), return the address as is.
		return r.RemoteAddr
	}
	return ip
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Printf("ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
