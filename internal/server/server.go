// Package server wires the HTTP mux, the Huma API, and the services.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maplabs/warehouse-mapper/internal/api"
	"github.com/maplabs/warehouse-mapper/internal/db"
	"github.com/maplabs/warehouse-mapper/internal/observability"
	"github.com/maplabs/warehouse-mapper/internal/service"
)

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      string
	LogLevel  string
	LogFormat string
}

// Server is the warehouse-mapper HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	sessions *service.SessionService
}

// New creates a new server with all routes registered.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	// Huma API on the humago (pure stdlib) adapter.
	humaConfig := huma.DefaultConfig("warehouse-mapper API", "1.0.0")
	humaConfig.Info.Description = "Upload CSV point locations, color each point, preview the map view, and export CSV or GeoJSON."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaAPI := humago.New(mux, humaConfig)

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// The SQL surface is optional; sessions work without it.
	conn, err := db.Open()
	if err != nil {
		logger.Warn("duckdb unavailable, SQL surface disabled", "error", err)
		conn = nil
	}

	sessions := service.NewSessionService(logger, metrics, clockwork.NewRealClock(), conn)

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		db:       conn,
		sessions: sessions,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

// OpenAPI returns the generated OpenAPI description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	api.NewSessionHandler(s.sessions).RegisterRoutes(s.humaAPI)
	api.NewInfoHandler(s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "warehouse-mapper",
		"status":  "running",
	})
}
