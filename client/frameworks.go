package client

import (
	"context"
	"net/http"
	"net/url"
)

// FrameworksClient manages framework resources and their swarm membership.
type FrameworksClient struct {
	c *Client
}

func (f *FrameworksClient) Create(ctx context.Context, fw Framework) (*Framework, error) {
	var out Framework
	if err := f.c.do(ctx, http.MethodPost, "/api/frameworks", fw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *FrameworksClient) List(ctx context.Context) ([]Framework, error) {
	var out []Framework
	if err := f.c.do(ctx, http.MethodGet, "/api/frameworks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FrameworksClient) Get(ctx context.Context, id string) (*Framework, error) {
	var out Framework
	if err := f.c.do(ctx, http.MethodGet, "/api/frameworks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *FrameworksClient) Delete(ctx context.Context, id string) error {
	return f.c.do(ctx, http.MethodDelete, "/api/frameworks/"+url.PathEscape(id), nil, nil)
}

// AddSwarm attaches a swarm to the framework.
func (f *FrameworksClient) AddSwarm(ctx context.Context, frameworkID, swarmID string) error {
	body := map[string]string{"swarm_id": swarmID}
	return f.c.do(ctx, http.MethodPost, "/api/frameworks/"+url.PathEscape(frameworkID)+"/swarms", body, nil)
}

// RemoveSwarm detaches a swarm from the framework.
func (f *FrameworksClient) RemoveSwarm(ctx context.Context, frameworkID, swarmID string) error {
	return f.c.do(ctx, http.MethodDelete, "/api/frameworks/"+url.PathEscape(frameworkID)+"/swarms/"+url.PathEscape(swarmID), nil, nil)
}
