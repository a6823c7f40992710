package client

import (
	"context"
	"net/http"
	"net/url"
)

// ToolsClient manages tool resources.
type ToolsClient struct {
	c *Client
}

func (t *ToolsClient) Create(ctx context.Context, tool Tool) (*Tool, error) {
	var out Tool
	if err := t.c.do(ctx, http.MethodPost, "/api/tools", tool, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *ToolsClient) List(ctx context.Context) ([]Tool, error) {
	var out []Tool
	if err := t.c.do(ctx, http.MethodGet, "/api/tools", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *ToolsClient) Get(ctx context.Context, id string) (*Tool, error) {
	var out Tool
	if err := t.c.do(ctx, http.MethodGet, "/api/tools/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *ToolsClient) Update(ctx context.Context, id string, tool Tool) (*Tool, error) {
	var out Tool
	if err := t.c.do(ctx, http.MethodPut, "/api/tools/"+url.PathEscape(id), tool, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *ToolsClient) Delete(ctx context.Context, id string) error {
	return t.c.do(ctx, http.MethodDelete, "/api/tools/"+url.PathEscape(id), nil, nil)
}
