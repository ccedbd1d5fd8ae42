// Package db manages the in-memory DuckDB used as an ad-hoc SQL surface over
// session points. Nothing is written to disk; the database dies with the
// process.
package db

import (
	"database/sql"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

const schema = `CREATE TABLE IF NOT EXISTS session_points (
	session_id VARCHAR,
	row_idx    INTEGER,
	lat        DOUBLE,
	lon        DOUBLE,
	color      VARCHAR
)`

// Open returns the singleton in-memory DuckDB connection with the
// session_points table created.
func Open() (*sql.DB, error) {
	once.Do(func() {
		instance, initErr = sql.Open("duckdb", "")
		if initErr != nil {
			return
		}
		_, initErr = instance.Exec(schema)
	})
	return instance, initErr
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}
