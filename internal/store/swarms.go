package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jzftran/swarmbase-core/chart"
)

type Swarm struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ParentID    string         `json:"parent_id,omitempty"`
	AgentIDs    []string       `json:"agents,omitempty"`
	Extra       map[string]any `json:"extra_attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (s *Store) SaveSwarm(sw *Swarm) error {
	extra, err := extraJSON(sw.Extra)
	if err != nil {
		return err
	}
	var parent any
	if sw.ParentID != "" {
		parent = sw.ParentID
	}
	_, err = s.db.Exec(`
		INSERT INTO swarms (id, name, description, parent_id, extra, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			parent_id = excluded.parent_id,
			extra = excluded.extra,
			updated_at = CURRENT_TIMESTAMP`,
		sw.ID, sw.Name, sw.Description, parent, extra)
	if err != nil {
		return fmt.Errorf("save swarm: %w", err)
	}
	return nil
}

func (s *Store) GetSwarm(id string) (*Swarm, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, parent_id, extra, created_at, updated_at
		FROM swarms WHERE id = ?`, id)

	sw, err := scanSwarm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get swarm: %w", err)
	}
	if sw.AgentIDs, err = s.SwarmAgentIDs(id); err != nil {
		return nil, err
	}
	return sw, nil
}

func scanSwarm(scanner interface{ Scan(dest ...any) error }) (*Swarm, error) {
	sw := &Swarm{}
	var description, parent, extra sql.NullString
	if err := scanner.Scan(&sw.ID, &sw.Name, &description, &parent, &extra, &sw.CreatedAt, &sw.UpdatedAt); err != nil {
		return nil, err
	}
	sw.Description = description.String
	sw.ParentID = parent.String
	var err error
	if sw.Extra, err = scanExtra(extra); err != nil {
		return nil, err
	}
	return sw, nil
}

func (s *Store) ListSwarms() ([]Swarm, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, parent_id, extra, created_at, updated_at
		FROM swarms ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list swarms: %w", err)
	}
	defer rows.Close()

	var swarms []Swarm
	for rows.Next() {
		sw, err := scanSwarm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swarm: %w", err)
		}
		swarms = append(swarms, *sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range swarms {
		if swarms[i].AgentIDs, err = s.SwarmAgentIDs(swarms[i].ID); err != nil {
			return nil, err
		}
	}
	return swarms, nil
}

func (s *Store) DeleteSwarm(id string) error {
	_, err := s.db.Exec(`DELETE FROM swarms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete swarm: %w", err)
	}
	return nil
}

// AddSwarmAgent appends an agent to the swarm's roster, preserving join
// order. Re-adding a member is a no-op.
func (s *Store) AddSwarmAgent(swarmID, agentID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO swarm_agents (swarm_id, agent_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM swarm_agents WHERE swarm_id = ?))`,
		swarmID, agentID, swarmID)
	if err != nil {
		return fmt.Errorf("add swarm agent: %w", err)
	}
	return nil
}

func (s *Store) RemoveSwarmAgent(swarmID, agentID string) error {
	_, err := s.db.Exec(`
		DELETE FROM swarm_agents WHERE swarm_id = ? AND agent_id = ?`, swarmID, agentID)
	if err != nil {
		return fmt.Errorf("remove swarm agent: %w", err)
	}
	return nil
}

// SwarmAgentIDs lists member agents in join order.
func (s *Store) SwarmAgentIDs(swarmID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT agent_id FROM swarm_agents WHERE swarm_id = ? ORDER BY position`, swarmID)
	if err != nil {
		return nil, fmt.Errorf("swarm agents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan agent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SwarmChart rebuilds the relationship chart for a swarm from its members
// and their stored edges. Members join in roster order so chart traversal
// stays deterministic; edges between non-members are skipped.
func (s *Store) SwarmChart(swarmID string) (*chart.Chart, error) {
	ids, err := s.SwarmAgentIDs(swarmID)
	if err != nil {
		return nil, err
	}
	members := make(map[string]bool, len(ids))
	for _, id := range ids {
		members[id] = true
	}

	c := chart.NewChart()
	for _, id := range ids {
		rels, err := s.AgentRelationships(id)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if !members[rel.TargetID] {
				continue
			}
			if err := c.AddRelationship(rel); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
