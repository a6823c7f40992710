package client

import (
	"time"

	"github.com/jzftran/swarmbase-core/chart"
)

// Agent is the wire representation of an agent resource.
type Agent struct {
	ID            string               `json:"id,omitempty"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	Instructions  string               `json:"instructions,omitempty"`
	Model         string               `json:"model,omitempty"`
	Relationships []chart.Relationship `json:"relationships,omitempty"`
	ToolIDs       []string             `json:"tools,omitempty"`
	Extra         map[string]any       `json:"extra_attributes,omitempty"`
	CreatedAt     time.Time            `json:"created_at,omitempty"`
	UpdatedAt     time.Time            `json:"updated_at,omitempty"`
}

// Tool is the wire representation of a tool resource. Version and Code hold
// the newest stored code version.
type Tool struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Code        string         `json:"code,omitempty"`
	Extra       map[string]any `json:"extra_attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// Swarm is the wire representation of a swarm resource. AgentIDs lists the
// member agents; relationships between them live on the agents themselves.
type Swarm struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	ParentID string         `json:"parent_id,omitempty"`
	AgentIDs []string       `json:"agents,omitempty"`
	Extra    map[string]any `json:"extra_attributes,omitempty"`
}

// Framework is the wire representation of a framework resource, a named
// grouping of swarms managed together.
type Framework struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	SwarmIDs []string       `json:"swarms,omitempty"`
	Extra    map[string]any `json:"extra_attributes,omitempty"`
}

// ChartView is the backend's dump of a swarm's relationship graph.
type ChartView struct {
	Agents        []string             `json:"agents"`
	Relationships []chart.Relationship `json:"relationships"`
	ManagerAgent  string               `json:"manager_agent,omitempty"`
}
