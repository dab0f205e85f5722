package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		score INTEGER NOT NULL DEFAULT 0,
		boss_kills INTEGER NOT NULL DEFAULT 0,
		enemy_kills INTEGER NOT NULL DEFAULT 0,
		bombs_used INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		god_mode INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RecordRun stores a finished run and returns its ID
func (db *DB) RecordRun(r RunResult) (int64, error) {
	god := 0
	if r.GodMode {
		god = 1
	}
	res, err := db.conn.Exec(
		"INSERT INTO runs (score, boss_kills, enemy_kills, bombs_used, duration, god_mode) VALUES (?, ?, ?, ?, ?, ?)",
		r.Score, r.BossKills, r.EnemiesKills, r.BombsUsed, r.Duration, god,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// TopRuns returns the best runs by score. God-mode runs are left out.
func (db *DB) TopRuns(limit int) ([]RunRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := db.conn.Query(`SELECT id, score, boss_kills, enemy_kills, bombs_used, duration, god_mode, created_at
		FROM runs WHERE god_mode = 0
		ORDER BY score DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top runs: %w", err)
	}
	defer rows.Close()

	result := make([]RunRow, 0, limit)
	for rows.Next() {
		var r RunRow
		var god int
		if err := rows.Scan(&r.ID, &r.Score, &r.BossKills, &r.Kills, &r.BombsUsed, &r.Duration, &god, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.GodMode = god != 0
		result = append(result, r)
	}
	return result, rows.Err()
}

// BestScore returns the highest non-god score, 0 if none
func (db *DB) BestScore() (int, error) {
	var best sql.NullInt64
	err := db.conn.QueryRow("SELECT MAX(score) FROM runs WHERE god_mode = 0").Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("best score: %w", err)
	}
	return int(best.Int64), nil
}

// GetSetting returns a stored setting, "" if missing
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("DB: get setting %s: %v", key, err)
		}
		return ""
	}
	return v
}

// SetSetting upserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
