package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the SQLite answer log and creates its tables
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer; one connection also keeps :memory: databases shared
	database.SetMaxOpenConns(1)

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return database, nil
}

// createTables creates all necessary tables
func createTables(database *sql.DB) error {
	createAnswersTable := `
	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		app TEXT NOT NULL,
		mode TEXT NOT NULL,
		question_id INTEGER NOT NULL,
		percent_x REAL,
		percent_y REAL,
		correct INTEGER NOT NULL,
		skipped INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := database.Exec(createAnswersTable); err != nil {
		return fmt.Errorf("failed to create answers table: %w", err)
	}

	createIndex := `CREATE INDEX IF NOT EXISTS idx_answers_dataset ON answers(app, mode, question_id);`
	if _, err := database.Exec(createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	createSessionIndex := `CREATE INDEX IF NOT EXISTS idx_answers_session ON answers(session_id);`
	if _, err := database.Exec(createSessionIndex); err != nil {
		return fmt.Errorf("failed to create session index: %w", err)
	}
	return nil
}
