package client

import (
	"context"
	"net/http"
	"net/url"
)

// SwarmsClient manages swarm resources and queries their relationship charts.
type SwarmsClient struct {
	c *Client
}

func (s *SwarmsClient) Create(ctx context.Context, swarm Swarm) (*Swarm, error) {
	var out Swarm
	if err := s.c.do(ctx, http.MethodPost, "/api/swarms", swarm, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SwarmsClient) List(ctx context.Context) ([]Swarm, error) {
	var out []Swarm
	if err := s.c.do(ctx, http.MethodGet, "/api/swarms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SwarmsClient) Get(ctx context.Context, id string) (*Swarm, error) {
	var out Swarm
	if err := s.c.do(ctx, http.MethodGet, "/api/swarms/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SwarmsClient) Update(ctx context.Context, id string, swarm Swarm) (*Swarm, error) {
	var out Swarm
	if err := s.c.do(ctx, http.MethodPut, "/api/swarms/"+url.PathEscape(id), swarm, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SwarmsClient) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/api/swarms/"+url.PathEscape(id), nil, nil)
}

// AddAgent adds an existing agent to the swarm.
func (s *SwarmsClient) AddAgent(ctx context.Context, swarmID, agentID string) error {
	body := map[string]string{"agent_id": agentID}
	return s.c.do(ctx, http.MethodPost, "/api/swarms/"+url.PathEscape(swarmID)+"/agents", body, nil)
}

// RemoveAgent removes an agent from the swarm.
func (s *SwarmsClient) RemoveAgent(ctx context.Context, swarmID, agentID string) error {
	return s.c.do(ctx, http.MethodDelete, "/api/swarms/"+url.PathEscape(swarmID)+"/agents/"+url.PathEscape(agentID), nil, nil)
}

// Chart fetches the swarm's relationship graph as seen by the backend.
func (s *SwarmsClient) Chart(ctx context.Context, swarmID string) (*ChartView, error) {
	var out ChartView
	if err := s.c.do(ctx, http.MethodGet, "/api/swarms/"+url.PathEscape(swarmID)+"/chart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindPath asks the backend for a directed path between two member agents.
// An empty slice means no path exists.
func (s *SwarmsClient) FindPath(ctx context.Context, swarmID, from, to string) ([]string, error) {
	path := "/api/swarms/" + url.PathEscape(swarmID) + "/chart/path?" + url.Values{
		"from": {from},
		"to":   {to},
	}.Encode()
	var out struct {
		Path []string `json:"path"`
	}
	if err := s.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Path, nil
}

// IsConnected reports whether a directed path exists between two member
// agents.
func (s *SwarmsClient) IsConnected(ctx context.Context, swarmID, from, to string) (bool, error) {
	path := "/api/swarms/" + url.PathEscape(swarmID) + "/chart/connected?" + url.Values{
		"from": {from},
		"to":   {to},
	}.Encode()
	var out struct {
		Connected bool `json:"connected"`
	}
	if err := s.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	return out.Connected, nil
}

// ManagerAgent returns the swarm's top-level manager, or "" when the
// hierarchy has no unambiguous root.
func (s *SwarmsClient) ManagerAgent(ctx context.Context, swarmID string) (string, error) {
	var out struct {
		ManagerAgent string `json:"manager_agent"`
	}
	if err := s.c.do(ctx, http.MethodGet, "/api/swarms/"+url.PathEscape(swarmID)+"/chart/manager", nil, &out); err != nil {
		return "", err
	}
	return out.ManagerAgent, nil
}
