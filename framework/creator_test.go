package framework

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/jzftran/swarmbase-core/builder"
	"github.com/jzftran/swarmbase-core/chart"
)

func testSwarm(t *testing.T) *builder.Swarm {
	t.Helper()
	b := builder.NewSwarmBuilder(nil)
	swarm, err := b.SetName("Research Swarm").
		AddAgent(builder.Agent{
			ID: "a1", Name: "Lead", Instructions: "Coordinate the team.",
			Tools: []builder.Tool{{ID: "t1", Name: "Web Search", Code: "def run(self): pass"}},
		}).
		AddAgent(builder.Agent{ID: "a2", Name: "Worker", Instructions: "Do the work."}).
		AddRelationship(chart.Relationship{Type: chart.Supervises, SourceID: "a1", TargetID: "a2"}).
		Product()
	if err != nil {
		t.Fatalf("build swarm: %v", err)
	}
	return &swarm
}

func TestForName(t *testing.T) {
	for _, name := range Names() {
		c, err := ForName(name)
		if err != nil {
			t.Fatalf("ForName(%s): %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("expected name %s, got %s", name, c.Name())
		}
	}
	if _, err := ForName("autogen"); err == nil {
		t.Fatal("expected error for unknown creator type")
	}
}

func TestSwarmBaseSwarmSource(t *testing.T) {
	swarm := testSwarm(t)
	src, err := (&SwarmBaseCreator{}).SwarmSource(swarm)
	if err != nil {
		t.Fatalf("swarm source: %v", err)
	}

	for _, want := range []string{
		"from agents.Lead import Lead",
		"lead = Lead()",
		"worker = Worker()",
		"research_swarm = SwarmyAgency([lead, [lead, worker]])",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expected source to contain %q:\n%s", want, src)
		}
	}
}

func TestSwarmBaseCreateSwarmFiles(t *testing.T) {
	dir := t.TempDir()
	swarm := testSwarm(t)

	if err := (&SwarmBaseCreator{}).CreateSwarmFiles(swarm, dir); err != nil {
		t.Fatalf("create swarm files: %v", err)
	}

	expected := []string{
		"research_swarm/__main__.py",
		"research_swarm/research_swarm.py",
		"research_swarm/agents/Lead/__init__.py",
		"research_swarm/agents/Lead/Lead.py",
		"research_swarm/agents/Worker/Worker.py",
		"research_swarm/tools/web_search/web_search.py",
	}
	for _, rel := range expected {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected file %s: %v", rel, err)
		}
	}

	agentSrc, err := os.ReadFile(filepath.Join(dir, "research_swarm/agents/Lead/Lead.py"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(agentSrc), `tools=[WebSearch]`) {
		t.Errorf("expected agent to reference its tool:\n%s", agentSrc)
	}
}

func TestLangchainRequiresManager(t *testing.T) {
	b := builder.NewSwarmBuilder(nil)
	swarm, err := b.SetName("Flat").
		AddAgent(builder.Agent{ID: "a1", Name: "One"}).
		AddAgent(builder.Agent{ID: "a2", Name: "Two"}).
		AddRelationship(chart.Relationship{Type: chart.Collaborates, SourceID: "a1", TargetID: "a2"}).
		Product()
	if err != nil {
		t.Fatalf("build swarm: %v", err)
	}

	if _, err := (&LangchainCreator{}).SwarmSource(&swarm); err == nil {
		t.Fatal("expected error for swarm without manager")
	}
}

func TestLangchainSwarmSource(t *testing.T) {
	swarm := testSwarm(t)
	src, err := (&LangchainCreator{}).SwarmSource(swarm)
	if err != nil {
		t.Fatalf("swarm source: %v", err)
	}
	for _, want := range []string{
		`workflow.add_node("Lead", lead)`,
		`workflow.add_edge(START, "lead")`,
		`"lead": ["worker"],`,
		"research_swarm = workflow.compile()",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expected source to contain %q:\n%s", want, src)
		}
	}
}

func TestLangchainAgentSourceUnknownModel(t *testing.T) {
	agent := builder.Agent{ID: "a1", Name: "Lead", Model: "gpt-99"}
	if _, err := (&LangchainCreator{}).AgentSource(agent); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestExportBundle(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "proj")
	if err := os.MkdirAll(filepath.Join(project, "agents"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, "agents", "lead.py"), []byte("lead = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	bundle := filepath.Join(dir, "proj.tar.zst")
	if err := ExportBundle(project, bundle); err != nil {
		t.Fatalf("export bundle: %v", err)
	}

	f, err := os.Open(bundle)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()

	found := false
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read tar: %v", err)
		}
		if strings.HasSuffix(hdr.Name, "agents/lead.py") {
			found = true
		}
	}
	if !found {
		t.Error("expected agents/lead.py inside bundle")
	}
}

func TestExportBundleMissingDir(t *testing.T) {
	if err := ExportBundle(filepath.Join(t.TempDir(), "missing"), "out.tar.zst"); err == nil {
		t.Fatal("expected error for missing project dir")
	}
}
