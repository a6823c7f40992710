package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jzftran/swarmbase-core/internal/config"
	"github.com/jzftran/swarmbase-core/internal/store"
	"github.com/jzftran/swarmbase-core/internal/vault"
)

func newTestServer(t *testing.T, auth string) (*Server, *httptest.Server) {
	t.Helper()
	st, err := store.New(config.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := NewServer(st, nil, vault.New("test-passphrase"), config.WebConfig{Auth: auth}, "gpt-4o-mini", "test")

	mux := http.NewServeMux()
	srv.registerAPI(mux)
	mux.HandleFunc("GET /api/status", srv.getStatus)

	ts := httptest.NewServer(srv.withMiddleware(mux))
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestAgentEndpoints(t *testing.T) {
	_, ts := newTestServer(t, "")

	var created map[string]any
	resp := doJSON(t, "POST", ts.URL+"/api/agents", map[string]any{
		"id":   "ceo",
		"name": "CEO",
	}, &created)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create agent: status %d", resp.StatusCode)
	}
	if created["id"] != "ceo" || created["name"] != "CEO" {
		t.Errorf("unexpected create response %v", created)
	}

	// ID is generated when omitted
	var generated map[string]any
	doJSON(t, "POST", ts.URL+"/api/agents", map[string]any{"name": "Dev"}, &generated)
	if generated["id"] == "" || generated["id"] == nil {
		t.Error("expected generated id")
	}
	if generated["model"] != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %v", generated["model"])
	}

	resp = doJSON(t, "POST", ts.URL+"/api/agents", map[string]any{}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("create without name: expected 400, got %d", resp.StatusCode)
	}

	var list []map[string]any
	doJSON(t, "GET", ts.URL+"/api/agents", nil, &list)
	if len(list) != 2 {
		t.Errorf("expected 2 agents, got %d", len(list))
	}

	resp = doJSON(t, "GET", ts.URL+"/api/agents/ghost", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get unknown agent: expected 404, got %d", resp.StatusCode)
	}

	var updated map[string]any
	doJSON(t, "PUT", ts.URL+"/api/agents/ceo", map[string]any{"name": "Chief"}, &updated)
	if updated["name"] != "Chief" {
		t.Errorf("expected updated name Chief, got %v", updated["name"])
	}

	resp = doJSON(t, "DELETE", ts.URL+"/api/agents/ceo", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete agent: status %d", resp.StatusCode)
	}
	resp = doJSON(t, "GET", ts.URL+"/api/agents/ceo", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted agent: expected 404, got %d", resp.StatusCode)
	}
}

func TestRelationshipEndpoints(t *testing.T) {
	_, ts := newTestServer(t, "")

	for _, id := range []string{"ceo", "dev"} {
		doJSON(t, "POST", ts.URL+"/api/agents", map[string]any{"id": id, "name": id}, nil)
	}

	resp := doJSON(t, "POST", ts.URL+"/api/agents/ceo/relationships", map[string]string{
		"relationship_type": "supervises",
		"target_agent_id":   "dev",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add relationship: status %d", resp.StatusCode)
	}

	resp = doJSON(t, "POST", ts.URL+"/api/agents/ceo/relationships", map[string]string{
		"relationship_type": "reports_to",
		"target_agent_id":   "dev",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid relationship type: expected 400, got %d", resp.StatusCode)
	}

	var rels []map[string]string
	doJSON(t, "GET", ts.URL+"/api/agents/ceo/relationships", nil, &rels)
	if len(rels) != 1 || rels[0]["target_agent_id"] != "dev" {
		t.Errorf("unexpected relationships %v", rels)
	}

	doJSON(t, "DELETE", ts.URL+"/api/agents/ceo/relationships/dev", nil, nil)
	doJSON(t, "GET", ts.URL+"/api/agents/ceo/relationships", nil, &rels)
	if len(rels) != 0 {
		t.Errorf("expected no relationships after delete, got %v", rels)
	}
}

func TestSwarmChartEndpoints(t *testing.T) {
	_, ts := newTestServer(t, "")

	for _, id := range []string{"ceo", "dev", "qa"} {
		doJSON(t, "POST", ts.URL+"/api/agents", map[string]any{"id": id, "name": id}, nil)
	}
	doJSON(t, "POST", ts.URL+"/api/swarms", map[string]any{
		"id":     "core",
		"name":   "Core Team",
		"agents": []string{"ceo", "dev", "qa"},
	}, nil)
	doJSON(t, "POST", ts.URL+"/api/agents/ceo/relationships", map[string]string{
		"relationship_type": "supervises",
		"target_agent_id":   "dev",
	}, nil)
	doJSON(t, "POST", ts.URL+"/api/agents/dev/relationships", map[string]string{
		"relationship_type": "collaborates",
		"target_agent_id":   "qa",
	}, nil)

	var view struct {
		Agents        []string         `json:"agents"`
		Relationships []map[string]any `json:"relationships"`
		ManagerAgent  string           `json:"manager_agent"`
	}
	doJSON(t, "GET", ts.URL+"/api/swarms/core/chart", nil, &view)
	if len(view.Agents) != 3 {
		t.Errorf("expected 3 agents in chart, got %v", view.Agents)
	}
	if len(view.Relationships) != 2 {
		t.Errorf("expected 2 relationships, got %v", view.Relationships)
	}
	if view.ManagerAgent != "ceo" {
		t.Errorf("expected manager ceo, got %q", view.ManagerAgent)
	}

	var pathOut struct {
		Path []string `json:"path"`
	}
	doJSON(t, "GET", ts.URL+"/api/swarms/core/chart/path?from=ceo&to=qa", nil, &pathOut)
	want := []string{"ceo", "dev", "qa"}
	if fmt.Sprint(pathOut.Path) != fmt.Sprint(want) {
		t.Errorf("expected path %v, got %v", want, pathOut.Path)
	}

	var connOut struct {
		Connected bool `json:"connected"`
	}
	doJSON(t, "GET", ts.URL+"/api/swarms/core/chart/connected?from=ceo&to=qa", nil, &connOut)
	if !connOut.Connected {
		t.Error("expected ceo connected to qa")
	}
	doJSON(t, "GET", ts.URL+"/api/swarms/core/chart/connected?from=qa&to=ceo", nil, &connOut)
	if connOut.Connected {
		t.Error("expected qa not connected to ceo")
	}

	var mgrOut struct {
		ManagerAgent string `json:"manager_agent"`
	}
	doJSON(t, "GET", ts.URL+"/api/swarms/core/chart/manager", nil, &mgrOut)
	if mgrOut.ManagerAgent != "ceo" {
		t.Errorf("expected manager ceo, got %q", mgrOut.ManagerAgent)
	}

	resp := doJSON(t, "GET", ts.URL+"/api/swarms/ghost/chart", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("chart of unknown swarm: expected 404, got %d", resp.StatusCode)
	}
}

func TestSecretEndpoints(t *testing.T) {
	_, ts := newTestServer(t, "")

	var created map[string]string
	resp := doJSON(t, "POST", ts.URL+"/api/secrets", map[string]string{
		"name":     "openai key",
		"provider": "openai",
		"value":    "sk-test",
	}, &created)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create secret: status %d", resp.StatusCode)
	}
	if created["id"] == "" {
		t.Error("expected generated secret id")
	}

	var list []map[string]string
	doJSON(t, "GET", ts.URL+"/api/secrets", nil, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 secret, got %d", len(list))
	}
	if _, ok := list[0]["value"]; ok {
		t.Error("secret value must not be returned")
	}

	doJSON(t, "DELETE", ts.URL+"/api/secrets/"+created["id"], nil, nil)
	doJSON(t, "GET", ts.URL+"/api/secrets", nil, &list)
	if len(list) != 0 {
		t.Errorf("expected no secrets after delete, got %d", len(list))
	}
}

func TestBasicAuth(t *testing.T) {
	_, ts := newTestServer(t, "hunter2")

	resp, err := http.Get(ts.URL + "/api/agents")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/api/agents", nil)
	req.SetBasicAuth("", "hunter2")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get with auth: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with credentials, got %d", resp.StatusCode)
	}
}
