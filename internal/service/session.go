// Package service contains the business logic for the warehouse mapper.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/maplabs/warehouse-mapper/internal/geo"
	"github.com/maplabs/warehouse-mapper/internal/observability"
	"github.com/maplabs/warehouse-mapper/internal/table"
)

// Service errors surfaced to the API layer.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrColumnsNotSelected = errors.New("latitude/longitude columns not selected yet")
	ErrRowOutOfRange      = errors.New("row index out of range")
)

const parseCacheSize = 32

// Session is the per-upload mutable state: the loaded table, the chosen
// coordinate columns, the coerced table derived from them, and per-row color
// edits. One session per upload, independent across callers.
type Session struct {
	ID        string
	CreatedAt time.Time

	Source  *table.Table
	LatCol  string
	LonCol  string
	Coerced *table.Table // nil until columns are selected

	colorOverrides map[int]string
}

// Info is the externally visible session summary.
type Info struct {
	ID        string    `json:"id" doc:"Session identifier"`
	Columns   []string  `json:"columns" doc:"Column names of the uploaded table"`
	Rows      int       `json:"rows" doc:"Row count of the uploaded table"`
	LatCol    string    `json:"latCol,omitempty" doc:"Selected latitude column"`
	LonCol    string    `json:"lonCol,omitempty" doc:"Selected longitude column"`
	ValidRows int       `json:"validRows" doc:"Rows surviving coordinate coercion"`
	CreatedAt time.Time `json:"createdAt" doc:"Upload time"`
}

// SessionService owns all sessions. Reads take the shared lock; anything that
// mutates a session takes the exclusive lock, so each recomputation pass is
// atomic with respect to concurrent exports.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cache   *parseCache
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	db      *sql.DB // optional SQL mirror; nil disables it
}

// NewSessionService creates a session service. db may be nil, in which case
// the SQL query surface is disabled.
func NewSessionService(logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, db *sql.DB) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		cache:    newParseCache(parseCacheSize),
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		db:       db,
	}
}

// Create loads the uploaded CSV bytes into a table and opens a session for
// it. Identical bytes hit the parse cache instead of being re-parsed.
// Returns table.ErrMalformedInput when neither parse strategy succeeds.
func (s *SessionService) Create(data []byte) (Info, error) {
	digest := contentDigest(data)

	t, ok := s.cache.get(digest)
	if !ok {
		var err error
		t, err = table.Load(data)
		if err != nil {
			s.metrics.UploadFailures.Inc()
			return Info{}, err
		}
		s.cache.put(digest, t)
	}

	session := &Session{
		ID:             newSessionID(),
		CreatedAt:      s.clock.Now(),
		Source:         t,
		colorOverrides: make(map[int]string),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.metrics.UploadsTotal.Inc()
	s.metrics.ActiveSessions.Inc()
	s.logger.Info("session created", "session", session.ID, "columns", len(t.Columns()), "rows", t.Len())

	return s.info(session), nil
}

// Get returns the session summary.
func (s *SessionService) Get(id string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return Info{}, ErrSessionNotFound
	}
	return s.info(session), nil
}

// Delete removes a session and its SQL mirror.
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.metrics.ActiveSessions.Dec()
	s.unmirror(session.ID)
	return nil
}

// SelectColumns runs coordinate coercion against the chosen columns and
// stores the result on the session. Changing columns discards earlier color
// edits, since row indices refer to the coerced table. Returns
// geo.ErrNoValidRows when nothing survives.
func (s *SessionService) SelectColumns(id, latCol, lonCol string) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Info{}, ErrSessionNotFound
	}

	coerced, err := geo.Coerce(session.Source, latCol, lonCol)
	if err != nil {
		return Info{}, err
	}

	session.LatCol = latCol
	session.LonCol = lonCol
	session.Coerced = coerced
	session.colorOverrides = make(map[int]string)

	dropped := session.Source.Len() - coerced.Len()
	s.metrics.RowsLoaded.Add(float64(coerced.Len()))
	s.metrics.RowsDropped.Add(float64(dropped))
	s.logger.Info("columns selected",
		"session", id, "lat_col", latCol, "lon_col", lonCol,
		"valid_rows", coerced.Len(), "dropped_rows", dropped)

	s.mirror(session)
	return s.info(session), nil
}

// SetColor records a free-text color edit for one row of the coerced table.
// The value is sanitized with geo.NormalizeColor; anything that does not look
// like a hex color becomes the default rather than an error.
func (s *SessionService) SetColor(id string, row int, color string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	if session.Coerced == nil {
		return "", ErrColumnsNotSelected
	}
	if row < 0 || row >= session.Coerced.Len() {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	normalized := geo.NormalizeColor(color)
	session.colorOverrides[row] = normalized
	s.mirrorColor(session.ID, row, normalized)
	return normalized, nil
}

// Points returns the session's validated points with color edits applied.
func (s *SessionService) Points(id string) ([]geo.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Coerced == nil {
		return nil, ErrColumnsNotSelected
	}
	return geo.Points(session.Coerced, session.LatCol, session.LonCol, session.colorOverrides), nil
}

// View returns the map view framing the session's points.
func (s *SessionService) View(id string) (geo.ViewState, error) {
	points, err := s.Points(id)
	if err != nil {
		return geo.ViewState{}, err
	}
	return geo.Center(points), nil
}

// ExportCSV renders the session as CSV with exactly three columns: the
// selected latitude column, the selected longitude column, and color.
func (s *SessionService) ExportCSV(id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Coerced == nil {
		return nil, ErrColumnsNotSelected
	}

	out, err := table.WriteCSV(s.edited(session), []string{session.LatCol, session.LonCol, geo.ColorColumn})
	if err != nil {
		return nil, err
	}
	s.metrics.Exports.WithLabelValues("csv").Inc()
	return out, nil
}

// ExportGeoJSON renders the session's points as a GeoJSON FeatureCollection.
func (s *SessionService) ExportGeoJSON(id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Coerced == nil {
		return nil, ErrColumnsNotSelected
	}

	points := geo.Points(session.Coerced, session.LatCol, session.LonCol, session.colorOverrides)
	out, err := geo.ToGeoJSON(points)
	if err != nil {
		return nil, err
	}
	s.metrics.Exports.WithLabelValues("geojson").Inc()
	return out, nil
}

// edited returns the coerced table with color overrides folded into the
// color column. The stored table is never mutated.
func (s *SessionService) edited(session *Session) *table.Table {
	if len(session.colorOverrides) == 0 {
		return session.Coerced
	}
	colors, _ := session.Coerced.Column(geo.ColorColumn)
	out := make([]table.Cell, len(colors))
	copy(out, colors)
	for row, color := range session.colorOverrides {
		out[row] = table.Text(color)
	}
	return session.Coerced.WithColumn(geo.ColorColumn, out)
}

func (s *SessionService) info(session *Session) Info {
	info := Info{
		ID:        session.ID,
		Columns:   session.Source.Columns(),
		Rows:      session.Source.Len(),
		LatCol:    session.LatCol,
		LonCol:    session.LonCol,
		CreatedAt: session.CreatedAt,
	}
	if session.Coerced != nil {
		info.ValidRows = session.Coerced.Len()
	}
	return info
}

// mirror replaces the session's rows in the DuckDB session_points table.
// Best effort: a mirror failure is logged, not returned, because the SQL
// surface is an add-on to the session itself.
func (s *SessionService) mirror(session *Session) {
	if s.db == nil {
		return
	}
	points := geo.Points(session.Coerced, session.LatCol, session.LonCol, session.colorOverrides)

	if _, err := s.db.Exec(`DELETE FROM session_points WHERE session_id = ?`, session.ID); err != nil {
		s.logger.Warn("sql mirror delete failed", "session", session.ID, "error", err)
		return
	}
	for i, p := range points {
		_, err := s.db.Exec(
			`INSERT INTO session_points (session_id, row_idx, lat, lon, color) VALUES (?, ?, ?, ?, ?)`,
			session.ID, i, p.Lat, p.Lon, p.Color,
		)
		if err != nil {
			s.logger.Warn("sql mirror insert failed", "session", session.ID, "row", i, "error", err)
			return
		}
	}
}

func (s *SessionService) mirrorColor(id string, row int, color string) {
	if s.db == nil {
		return
	}
	_, err := s.db.Exec(
		`UPDATE session_points SET color = ? WHERE session_id = ? AND row_idx = ?`,
		color, id, row,
	)
	if err != nil {
		s.logger.Warn("sql mirror update failed", "session", id, "row", row, "error", err)
	}
}

func (s *SessionService) unmirror(id string) {
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM session_points WHERE session_id = ?`, id); err != nil {
		s.logger.Warn("sql mirror cleanup failed", "session", id, "error", err)
	}
}

func contentDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b[:])
}
