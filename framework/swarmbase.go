package framework

import (
	"fmt"
	"strings"

	"github.com/jzftran/swarmbase-core/builder"
)

// SwarmBaseCreator renders a swarm as an agency-swarm project: one agency
// module wiring LoggedAgent instances according to the relationship chart,
// plus a package per agent and per tool.
type SwarmBaseCreator struct{}

func (SwarmBaseCreator) Name() string { return "swarmbasecore" }

func (c *SwarmBaseCreator) SwarmSource(swarm *builder.Swarm) (string, error) {
	// The agency chart literal starts with the manager agent (when one
	// exists) followed by one [source, target] pair per edge.
	var entries []string
	if manager, ok := swarm.Chart.ManagerAgent(); ok {
		if a, found := swarm.Agent(manager); found {
			entries = append(entries, a.InstanceName())
		}
	}
	for _, rel := range swarm.Chart.Relationships() {
		source, okSource := swarm.Agent(rel.SourceID)
		target, okTarget := swarm.Agent(rel.TargetID)
		if !okSource || !okTarget {
			return "", fmt.Errorf("relationship references agent outside swarm: %s -> %s", rel.SourceID, rel.TargetID)
		}
		entries = append(entries, fmt.Sprintf("[%s, %s]", source.InstanceName(), target.InstanceName()))
	}

	var imports, inits []string
	for _, agent := range swarm.Agents() {
		imports = append(imports, fmt.Sprintf("from agents.%s import %s", agent.ClassName(), agent.ClassName()))
		inits = append(inits, fmt.Sprintf("%s = %s()", agent.InstanceName(), agent.ClassName()))
	}

	return fmt.Sprintf(`from swarmbasecore.agency_swarm_framework import SwarmyAgency
%s

%s

%s = SwarmyAgency([%s])
`, strings.Join(imports, "\n"), strings.Join(inits, "\n"), swarm.InstanceName(), strings.Join(entries, ", ")), nil
}

func (c *SwarmBaseCreator) AgentSource(agent builder.Agent) (string, error) {
	var toolImports, toolNames []string
	for _, tool := range agent.Tools {
		toolImports = append(toolImports, fmt.Sprintf("from tools.%s import %s", tool.InstanceName(), tool.ClassName()))
		toolNames = append(toolNames, tool.ClassName())
	}

	description := `""`
	if agent.Description != "" {
		description = fmt.Sprintf(`"""%s"""`, agent.Description)
	}
	model := agent.Model
	if model == "" {
		model = "gpt-4o"
	}

	return fmt.Sprintf(`from swarmbasecore.agency_swarm_framework import LoggedAgent
%s
%s = LoggedAgent(
    name="%s",
    description=%s,
    instructions="%s",
    tools=[%s],
    model="%s",
)
`, strings.Join(toolImports, "\n"), agent.InstanceName(), agent.Name, description,
		agent.Instructions, strings.Join(toolNames, ", "), model), nil
}

func (c *SwarmBaseCreator) ToolSource(tool builder.Tool) (string, error) {
	var description string
	if tool.Description != "" {
		description = fmt.Sprintf(`"""%s"""`, tool.Description)
	}
	return fmt.Sprintf(`from swarmbasecore.agency_swarm_framework import LoggedBaseTool


class %s(LoggedBaseTool):
    %s
    %s
`, tool.ClassName(), description, tool.Code), nil
}

func (c *SwarmBaseCreator) CreateSwarmFiles(swarm *builder.Swarm, basePath string) error {
	swarmSource, err := c.SwarmSource(swarm)
	if err != nil {
		return err
	}

	files := map[string]string{
		"__main__.py": fmt.Sprintf(`from %s import %s

origins = [
    "http://localhost",
    "http://localhost:8080",
    "http://localhost:5173",
]

%s.serve_agency(origins)
`, swarm.InstanceName(), swarm.InstanceName(), swarm.InstanceName()),
		swarm.InstanceName() + ".py": swarmSource,
	}

	for _, agent := range swarm.Agents() {
		source, err := c.AgentSource(agent)
		if err != nil {
			return err
		}
		dir := "agents/" + agent.ClassName()
		files[dir+"/__init__.py"] = fmt.Sprintf("from agents.%s import %s", agent.ClassName(), agent.ClassName())
		files[dir+"/"+agent.ClassName()+".py"] = source
	}

	for _, tool := range swarm.Tools() {
		source, err := c.ToolSource(tool)
		if err != nil {
			return err
		}
		dir := "tools/" + tool.InstanceName()
		files[dir+"/__init__.py"] = fmt.Sprintf("from .%s import %s", tool.InstanceName(), tool.ClassName())
		files[dir+"/"+tool.InstanceName()+".py"] = source
	}

	return writeProject(swarmPath(basePath, swarm), files)
}
