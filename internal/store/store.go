package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jzftran/swarmbase-core/internal/config"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(cfg config.StoreConfig) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Enable WAL mode for concurrent read/write access and set a busy
	// timeout so writers retry instead of immediately returning SQLITE_BUSY.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("exec %s: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			description  TEXT,
			instructions TEXT,
			model        TEXT,
			extra        TEXT,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tools (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			extra       TEXT,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tool_versions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_id    TEXT NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
			version    TEXT NOT NULL,
			code       TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_versions_tool ON tool_versions(tool_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS agent_tools (
			agent_id TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
			tool_id  TEXT NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
			PRIMARY KEY (agent_id, tool_id)
		)`,
		`CREATE TABLE IF NOT EXISTS relationships (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			relationship_type TEXT NOT NULL,
			source_agent_id   TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
			target_agent_id   TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
			created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (relationship_type, source_agent_id, target_agent_id)
		)`,
		`CREATE TABLE IF NOT EXISTS swarms (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			parent_id   TEXT,
			extra       TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS swarm_agents (
			swarm_id TEXT NOT NULL REFERENCES swarms(id) ON DELETE CASCADE,
			agent_id TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (swarm_id, agent_id)
		)`,
		`CREATE TABLE IF NOT EXISTS frameworks (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			extra       TEXT,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS framework_swarms (
			framework_id TEXT NOT NULL REFERENCES frameworks(id) ON DELETE CASCADE,
			swarm_id     TEXT NOT NULL REFERENCES swarms(id) ON DELETE CASCADE,
			PRIMARY KEY (framework_id, swarm_id)
		)`,
		`CREATE TABLE IF NOT EXISTS secrets (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			provider   TEXT,
			value      BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}

	return nil
}

// extraJSON marshals the JSON extra-attributes column, mapping empty maps to
// NULL so round-trips stay clean.
func extraJSON(extra map[string]any) (any, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("marshal extra attributes: %w", err)
	}
	return string(data), nil
}

// scanExtra unmarshals a nullable extra-attributes column.
func scanExtra(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw.String), &extra); err != nil {
		return nil, fmt.Errorf("unmarshal extra attributes: %w", err)
	}
	return extra, nil
}
