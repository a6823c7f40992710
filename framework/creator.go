// Package framework turns an assembled swarm into a runnable project on
// disk. Each Creator targets one agent framework and renders the swarm, its
// agents and its tools as source files under <base>/<swarm instance name>.
package framework

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jzftran/swarmbase-core/builder"
)

// Creator renders a swarm for one target framework.
type Creator interface {
	// Name is the framework identifier used by ForName.
	Name() string
	// SwarmSource renders the top-level swarm module.
	SwarmSource(swarm *builder.Swarm) (string, error)
	// AgentSource renders one agent module.
	AgentSource(agent builder.Agent) (string, error)
	// ToolSource renders one tool module.
	ToolSource(tool builder.Tool) (string, error)
	// CreateSwarmFiles writes the full project tree under basePath.
	CreateSwarmFiles(swarm *builder.Swarm, basePath string) error
}

// ForName returns the creator for a framework name.
func ForName(name string) (Creator, error) {
	switch name {
	case "swarmbasecore":
		return &SwarmBaseCreator{}, nil
	case "langchain":
		return &LangchainCreator{}, nil
	default:
		return nil, fmt.Errorf("unknown creator type: %s", name)
	}
}

// Names lists the supported framework identifiers.
func Names() []string {
	return []string{"swarmbasecore", "langchain"}
}

func createDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Debug("wrote generated file", "path", path)
	return nil
}

func writeProject(swarmPath string, files map[string]string) error {
	for rel, content := range files {
		path := filepath.Join(swarmPath, filepath.FromSlash(rel))
		if err := createDirectory(filepath.Dir(path)); err != nil {
			return err
		}
		if err := writeFile(path, content); err != nil {
			return err
		}
	}
	return nil
}
