package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Tool struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Code        string         `json:"code,omitempty"`
	Extra       map[string]any `json:"extra_attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SaveTool upserts the tool record and, when Code is set, records it as a
// new version.
func (s *Store) SaveTool(t *Tool) error {
	extra, err := extraJSON(t.Extra)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save tool: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tools (id, name, description, extra, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			extra = excluded.extra,
			updated_at = CURRENT_TIMESTAMP`,
		t.ID, t.Name, t.Description, extra)
	if err != nil {
		return fmt.Errorf("save tool: %w", err)
	}

	if t.Code != "" {
		version := t.Version
		if version == "" {
			version = "1"
		}
		_, err = tx.Exec(`
			INSERT INTO tool_versions (tool_id, version, code)
			VALUES (?, ?, ?)`,
			t.ID, version, t.Code)
		if err != nil {
			return fmt.Errorf("save tool version: %w", err)
		}
	}

	return tx.Commit()
}

// GetTool returns the tool with its newest version's code, or nil when the
// id is unknown.
func (s *Store) GetTool(id string) (*Tool, error) {
	row := s.db.QueryRow(`
		SELECT t.id, t.name, t.description, t.extra, t.created_at, t.updated_at,
			COALESCE(v.version, ''), COALESCE(v.code, '')
		FROM tools t
		LEFT JOIN tool_versions v ON v.tool_id = t.id
			AND v.id = (SELECT MAX(id) FROM tool_versions WHERE tool_id = t.id)
		WHERE t.id = ?`, id)

	t, err := scanTool(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tool: %w", err)
	}
	return t, nil
}

func scanTool(scanner interface{ Scan(dest ...any) error }) (*Tool, error) {
	t := &Tool{}
	var description, extra sql.NullString
	if err := scanner.Scan(&t.ID, &t.Name, &description, &extra, &t.CreatedAt, &t.UpdatedAt, &t.Version, &t.Code); err != nil {
		return nil, err
	}
	t.Description = description.String
	var err error
	if t.Extra, err = scanExtra(extra); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTools() ([]Tool, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.description, t.extra, t.created_at, t.updated_at,
			COALESCE(v.version, ''), COALESCE(v.code, '')
		FROM tools t
		LEFT JOIN tool_versions v ON v.tool_id = t.id
			AND v.id = (SELECT MAX(id) FROM tool_versions WHERE tool_id = t.id)
		ORDER BY t.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var tools []Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}

func (s *Store) DeleteTool(id string) error {
	_, err := s.db.Exec(`DELETE FROM tools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	return nil
}
