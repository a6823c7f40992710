package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jzftran/swarmbase-core/chart"
)

type Agent struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
	Model        string         `json:"model,omitempty"`
	Extra        map[string]any `json:"extra_attributes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (s *Store) SaveAgent(a *Agent) error {
	extra, err := extraJSON(a.Extra)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO agents (id, name, description, instructions, model, extra, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			instructions = excluded.instructions,
			model = excluded.model,
			extra = excluded.extra,
			updated_at = CURRENT_TIMESTAMP`,
		a.ID, a.Name, a.Description, a.Instructions, a.Model, extra)
	if err != nil {
		return fmt.Errorf("save agent: %w", err)
	}
	return nil
}

const agentColumns = `id, name, description, instructions, model, extra, created_at, updated_at`

func scanAgent(scanner interface{ Scan(dest ...any) error }) (*Agent, error) {
	a := &Agent{}
	var description, instructions, model, extra sql.NullString
	if err := scanner.Scan(&a.ID, &a.Name, &description, &instructions, &model, &extra, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Description = description.String
	a.Instructions = instructions.String
	a.Model = model.String
	var err error
	if a.Extra, err = scanExtra(extra); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) GetAgent(id string) (*Agent, error) {
	row := s.db.QueryRow(`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	a, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

func (s *Store) ListAgents() ([]Agent, error) {
	rows, err := s.db.Query(`SELECT ` + agentColumns + ` FROM agents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, *a)
	}
	return agents, rows.Err()
}

// DeleteAgent removes the agent; relationships, tool assignments and swarm
// memberships cascade away with it.
func (s *Store) DeleteAgent(id string) error {
	_, err := s.db.Exec(`DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}

// AddRelationship stores a typed directed edge between two agents. Inserting
// an identical edge again is a no-op.
func (s *Store) AddRelationship(rel chart.Relationship) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO relationships (relationship_type, source_agent_id, target_agent_id)
		VALUES (?, ?, ?)`,
		string(rel.Type), rel.SourceID, rel.TargetID)
	if err != nil {
		return fmt.Errorf("add relationship: %w", err)
	}
	return nil
}

// AgentRelationships lists an agent's outgoing edges in insertion order.
func (s *Store) AgentRelationships(agentID string) ([]chart.Relationship, error) {
	rows, err := s.db.Query(`
		SELECT relationship_type, source_agent_id, target_agent_id
		FROM relationships WHERE source_agent_id = ? ORDER BY id`, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent relationships: %w", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// AllRelationships lists every stored edge in insertion order.
func (s *Store) AllRelationships() ([]chart.Relationship, error) {
	rows, err := s.db.Query(`
		SELECT relationship_type, source_agent_id, target_agent_id
		FROM relationships ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("all relationships: %w", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

func scanRelationships(rows *sql.Rows) ([]chart.Relationship, error) {
	var rels []chart.Relationship
	for rows.Next() {
		var typ string
		var rel chart.Relationship
		if err := rows.Scan(&typ, &rel.SourceID, &rel.TargetID); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rel.Type = chart.RelationshipType(typ)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

// DeleteRelationship removes every edge from source to related, regardless
// of type.
func (s *Store) DeleteRelationship(sourceID, relatedID string) error {
	_, err := s.db.Exec(`
		DELETE FROM relationships WHERE source_agent_id = ? AND target_agent_id = ?`,
		sourceID, relatedID)
	if err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	return nil
}

// AssignTool attaches a tool to an agent; repeating the assignment is a
// no-op.
func (s *Store) AssignTool(agentID, toolID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO agent_tools (agent_id, tool_id) VALUES (?, ?)`, agentID, toolID)
	if err != nil {
		return fmt.Errorf("assign tool: %w", err)
	}
	return nil
}

func (s *Store) RemoveTool(agentID, toolID string) error {
	_, err := s.db.Exec(`DELETE FROM agent_tools WHERE agent_id = ? AND tool_id = ?`, agentID, toolID)
	if err != nil {
		return fmt.Errorf("remove tool: %w", err)
	}
	return nil
}

// AgentToolIDs lists the ids of tools assigned to an agent.
func (s *Store) AgentToolIDs(agentID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT tool_id FROM agent_tools WHERE agent_id = ? ORDER BY tool_id`, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent tools: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tool id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
