// Package builder assembles swarm products — tools, agents, swarms and
// frameworks — through fluent builders that can push to and hydrate from the
// swarmbase backend. Product names must be usable as Python identifiers
// because they end up as variable and class names in generated projects.
package builder

import (
	"fmt"
	"regexp"

	"github.com/jzftran/swarmbase-core/chart"
	"github.com/jzftran/swarmbase-core/strutil"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_ ]*$`)

// pythonKeywords are reserved words in the generated target language.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// validateName checks that a product name can become a valid identifier in
// generated code.
func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name %q is not a valid identifier", name)
	}
	if pythonKeywords[name] {
		return fmt.Errorf("name %q is a reserved keyword", name)
	}
	return nil
}

// Tool is a reusable capability with versioned source code.
type Tool struct {
	ID          string
	Name        string
	Description string
	Version     string
	Code        string
	Extra       map[string]any
}

// InstanceName is the snake_case variable name for generated code.
func (t Tool) InstanceName() string { return strutil.SnakeCase(t.Name) }

// ClassName is the PascalCase class name for generated code.
func (t Tool) ClassName() string { return strutil.PascalCase(t.Name) }

// Agent is a named participant in a swarm, carrying its instructions, tools
// and outgoing relationships.
type Agent struct {
	ID            string
	Name          string
	Description   string
	Instructions  string
	Model         string
	Relationships []chart.Relationship
	Tools         []Tool
	Extra         map[string]any
}

func (a Agent) InstanceName() string { return strutil.SnakeCase(a.Name) }
func (a Agent) ClassName() string    { return strutil.PascalCase(a.Name) }

// Framework is a named grouping of swarms.
type Framework struct {
	ID       string
	Name     string
	SwarmIDs []string
	Extra    map[string]any
}

func (f Framework) InstanceName() string { return strutil.SnakeCase(f.Name) }

// Swarm is a collection of agents and tools together with the relationship
// chart that wires the agents into an agency. Agents keep their insertion
// order so generated output is stable.
type Swarm struct {
	ID       string
	Name     string
	ParentID string
	Chart    *chart.Chart
	Extra    map[string]any

	agents []Agent
	tools  []Tool
}

func (s Swarm) InstanceName() string { return strutil.SnakeCase(s.Name) }

// Agents returns the member agents in insertion order.
func (s *Swarm) Agents() []Agent { return s.agents }

// Tools returns the distinct tools across the swarm in insertion order.
func (s *Swarm) Tools() []Tool { return s.tools }

// Agent looks up a member agent by id.
func (s *Swarm) Agent(id string) (Agent, bool) {
	for _, a := range s.agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

func (s *Swarm) addAgent(a Agent) {
	if a.ID == "" {
		return
	}
	for i, existing := range s.agents {
		if existing.ID == a.ID {
			s.agents[i] = a
			return
		}
	}
	s.agents = append(s.agents, a)
}

func (s *Swarm) addTool(t Tool) {
	if t.ID == "" {
		return
	}
	for _, existing := range s.tools {
		if existing.ID == t.ID {
			return
		}
	}
	s.tools = append(s.tools, t)
}
