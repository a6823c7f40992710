package builder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jzftran/swarmbase-core/chart"
	"github.com/jzftran/swarmbase-core/client"
)

func TestValidateName(t *testing.T) {
	valid := []string{"My Tool", "tool_1", "_private", "Research Agent"}
	for _, name := range valid {
		if err := validateName(name); err != nil {
			t.Errorf("expected %q valid, got %v", name, err)
		}
	}

	invalid := []string{"1tool", "tool-x", "", "class", "lambda"}
	for _, name := range invalid {
		if err := validateName(name); err == nil {
			t.Errorf("expected %q rejected", name)
		}
	}
}

func TestToolBuilderProduct(t *testing.T) {
	b := NewToolBuilder(nil)
	tool, err := b.SetName("Web Search").SetVersion("1.0.0").SetCode("def run(): pass").Product()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tool.InstanceName() != "web_search" {
		t.Errorf("expected instance name web_search, got %s", tool.InstanceName())
	}
	if tool.ClassName() != "WebSearch" {
		t.Errorf("expected class name WebSearch, got %s", tool.ClassName())
	}

	// Product resets the builder.
	empty, err := b.Product()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Name != "" {
		t.Errorf("expected reset builder, got %+v", empty)
	}
}

func TestBuilderDeferredError(t *testing.T) {
	b := NewToolBuilder(nil)
	_, err := b.SetName("not-valid").SetVersion("1.0.0").Product()
	if err == nil {
		t.Fatal("expected error for invalid name")
	}

	// Error cleared after Product; builder is reusable.
	if _, err := b.SetName("valid_name").Product(); err != nil {
		t.Fatalf("expected builder usable after reset, got %v", err)
	}
}

func TestSwarmBuilderChart(t *testing.T) {
	b := NewSwarmBuilder(nil)
	b.SetName("Research Swarm").
		AddAgent(Agent{ID: "a1", Name: "Lead"}).
		AddAgent(Agent{ID: "a2", Name: "Worker"}).
		AddRelationship(chart.Relationship{Type: chart.Supervises, SourceID: "a1", TargetID: "a2"})

	swarm, err := b.Product()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(swarm.Agents()) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(swarm.Agents()))
	}
	manager, ok := swarm.Chart.ManagerAgent()
	if !ok || manager != "a1" {
		t.Errorf("expected manager a1, got %q (ok=%v)", manager, ok)
	}
}

func TestSwarmBuilderInvalidRelationship(t *testing.T) {
	b := NewSwarmBuilder(nil)
	b.SetName("Broken").AddRelationship(chart.Relationship{Type: "mentors", SourceID: "a", TargetID: "b"})
	if _, err := b.Product(); err == nil {
		t.Fatal("expected error for invalid relationship type")
	}
}

func TestFrameworkBuilder(t *testing.T) {
	var addedSwarms []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/api/frameworks":
			json.NewEncoder(w).Encode(client.Framework{ID: "f1", Name: "Production"})
		case r.Method == "POST" && r.URL.Path == "/api/frameworks/f1/swarms":
			var body struct {
				SwarmID string `json:"swarm_id"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			addedSwarms = append(addedSwarms, body.SwarmID)
			json.NewEncoder(w).Encode(map[string]string{"status": "added"})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	fw, err := NewFrameworkBuilder(c).
		SetName("Production").
		AddSwarm(Swarm{ID: "s1"}).
		AddSwarm(Swarm{ID: "s1"}). // duplicate is ignored
		AddSwarm(Swarm{ID: "s2"}).
		Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fw.ID != "f1" {
		t.Errorf("expected id f1, got %s", fw.ID)
	}
	if len(addedSwarms) != 2 || addedSwarms[0] != "s1" || addedSwarms[1] != "s2" {
		t.Errorf("expected swarms [s1 s2] added, got %v", addedSwarms)
	}
}

func TestSwarmBuilderFromID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/swarms/s1":
			json.NewEncoder(w).Encode(client.Swarm{ID: "s1", Name: "Pipeline", AgentIDs: []string{"a1", "a2"}})
		case "/api/agents/a1":
			json.NewEncoder(w).Encode(client.Agent{
				ID: "a1", Name: "Lead", ToolIDs: []string{"t1"},
				Relationships: []chart.Relationship{{Type: chart.Supervises, SourceID: "a1", TargetID: "a2"}},
			})
		case "/api/agents/a2":
			json.NewEncoder(w).Encode(client.Agent{ID: "a2", Name: "Worker"})
		case "/api/tools/t1":
			json.NewEncoder(w).Encode(client.Tool{ID: "t1", Name: "Web Search", Version: "1.0.0"})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	swarm, err := NewSwarmBuilder(c).FromID(context.Background(), "s1").Product()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if swarm.Name != "Pipeline" {
		t.Errorf("expected name Pipeline, got %s", swarm.Name)
	}
	if len(swarm.Agents()) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(swarm.Agents()))
	}
	if len(swarm.Tools()) != 1 || swarm.Tools()[0].Name != "Web Search" {
		t.Errorf("expected tool Web Search, got %+v", swarm.Tools())
	}
	if !swarm.Chart.IsConnected("a1", "a2") {
		t.Error("expected chart edge a1->a2")
	}
	manager, ok := swarm.Chart.ManagerAgent()
	if !ok || manager != "a1" {
		t.Errorf("expected manager a1, got %q", manager)
	}
}
