package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Framework struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	SwarmIDs    []string       `json:"swarms,omitempty"`
	Extra       map[string]any `json:"extra_attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (s *Store) SaveFramework(f *Framework) error {
	extra, err := extraJSON(f.Extra)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO frameworks (id, name, description, extra, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			extra = excluded.extra,
			updated_at = CURRENT_TIMESTAMP`,
		f.ID, f.Name, f.Description, extra)
	if err != nil {
		return fmt.Errorf("save framework: %w", err)
	}
	return nil
}

func (s *Store) GetFramework(id string) (*Framework, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, extra, created_at, updated_at
		FROM frameworks WHERE id = ?`, id)

	f, err := scanFramework(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get framework: %w", err)
	}
	if f.SwarmIDs, err = s.FrameworkSwarmIDs(id); err != nil {
		return nil, err
	}
	return f, nil
}

func scanFramework(scanner interface{ Scan(dest ...any) error }) (*Framework, error) {
	f := &Framework{}
	var description, extra sql.NullString
	if err := scanner.Scan(&f.ID, &f.Name, &description, &extra, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Description = description.String
	var err error
	if f.Extra, err = scanExtra(extra); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) ListFrameworks() ([]Framework, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, extra, created_at, updated_at
		FROM frameworks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list frameworks: %w", err)
	}
	defer rows.Close()

	var frameworks []Framework
	for rows.Next() {
		f, err := scanFramework(rows)
		if err != nil {
			return nil, fmt.Errorf("scan framework: %w", err)
		}
		frameworks = append(frameworks, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range frameworks {
		var err error
		if frameworks[i].SwarmIDs, err = s.FrameworkSwarmIDs(frameworks[i].ID); err != nil {
			return nil, err
		}
	}
	return frameworks, nil
}

func (s *Store) DeleteFramework(id string) error {
	_, err := s.db.Exec(`DELETE FROM frameworks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete framework: %w", err)
	}
	return nil
}

func (s *Store) AddFrameworkSwarm(frameworkID, swarmID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO framework_swarms (framework_id, swarm_id) VALUES (?, ?)`,
		frameworkID, swarmID)
	if err != nil {
		return fmt.Errorf("add framework swarm: %w", err)
	}
	return nil
}

func (s *Store) RemoveFrameworkSwarm(frameworkID, swarmID string) error {
	_, err := s.db.Exec(`
		DELETE FROM framework_swarms WHERE framework_id = ? AND swarm_id = ?`,
		frameworkID, swarmID)
	if err != nil {
		return fmt.Errorf("remove framework swarm: %w", err)
	}
	return nil
}

func (s *Store) FrameworkSwarmIDs(frameworkID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT swarm_id FROM framework_swarms WHERE framework_id = ? ORDER BY swarm_id`, frameworkID)
	if err != nil {
		return nil, fmt.Errorf("framework swarms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swarm id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
