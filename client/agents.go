package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jzftran/swarmbase-core/chart"
)

// AgentsClient manages agent resources, including their tool assignments and
// relationships to other agents.
type AgentsClient struct {
	c *Client
}

func (a *AgentsClient) Create(ctx context.Context, agent Agent) (*Agent, error) {
	var out Agent
	if err := a.c.do(ctx, http.MethodPost, "/api/agents", agent, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AgentsClient) List(ctx context.Context) ([]Agent, error) {
	var out []Agent
	if err := a.c.do(ctx, http.MethodGet, "/api/agents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AgentsClient) Get(ctx context.Context, id string) (*Agent, error) {
	var out Agent
	if err := a.c.do(ctx, http.MethodGet, "/api/agents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AgentsClient) Update(ctx context.Context, id string, agent Agent) (*Agent, error) {
	var out Agent
	if err := a.c.do(ctx, http.MethodPut, "/api/agents/"+url.PathEscape(id), agent, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AgentsClient) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/agents/"+url.PathEscape(id), nil, nil)
}

// AssignTool attaches an existing tool to the agent.
func (a *AgentsClient) AssignTool(ctx context.Context, agentID, toolID string) error {
	body := map[string]string{"tool_id": toolID}
	return a.c.do(ctx, http.MethodPost, "/api/agents/"+url.PathEscape(agentID)+"/tools", body, nil)
}

// RemoveTool detaches a tool from the agent.
func (a *AgentsClient) RemoveTool(ctx context.Context, agentID, toolID string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/agents/"+url.PathEscape(agentID)+"/tools/"+url.PathEscape(toolID), nil, nil)
}

// Tools lists the tools assigned to the agent.
func (a *AgentsClient) Tools(ctx context.Context, agentID string) ([]Tool, error) {
	var out []Tool
	if err := a.c.do(ctx, http.MethodGet, "/api/agents/"+url.PathEscape(agentID)+"/tools", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddRelationship records a typed relationship from this agent to another.
func (a *AgentsClient) AddRelationship(ctx context.Context, agentID string, rel chart.Relationship) error {
	return a.c.do(ctx, http.MethodPost, "/api/agents/"+url.PathEscape(agentID)+"/relationships", rel, nil)
}

// Relationships lists the agent's outgoing relationships.
func (a *AgentsClient) Relationships(ctx context.Context, agentID string) ([]chart.Relationship, error) {
	var out []chart.Relationship
	if err := a.c.do(ctx, http.MethodGet, "/api/agents/"+url.PathEscape(agentID)+"/relationships", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveRelationship deletes every relationship from this agent to the
// related agent.
func (a *AgentsClient) RemoveRelationship(ctx context.Context, agentID, relatedID string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/agents/"+url.PathEscape(agentID)+"/relationships/"+url.PathEscape(relatedID), nil, nil)
}
