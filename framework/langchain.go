package framework

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jzftran/swarmbase-core/builder"
	"github.com/jzftran/swarmbase-core/llm"
)

// LangchainCreator renders a swarm as a langgraph workflow. The relationship
// chart becomes graph edges, the manager agent becomes the entry supervisor,
// so a swarm without a single unambiguous manager cannot be exported to this
// target.
type LangchainCreator struct{}

func (LangchainCreator) Name() string { return "langchain" }

func (c *LangchainCreator) SwarmSource(swarm *builder.Swarm) (string, error) {
	manager, ok := swarm.Chart.ManagerAgent()
	if !ok {
		return "", fmt.Errorf("swarm %s has no unambiguous manager agent; langchain workflows need a single supervisor", swarm.Name)
	}
	managerAgent, found := swarm.Agent(manager)
	if !found {
		return "", fmt.Errorf("manager agent %s is not a member of swarm %s", manager, swarm.Name)
	}

	var imports, nodes []string
	for _, agent := range swarm.Agents() {
		imports = append(imports, fmt.Sprintf("from agents.%s import %s", agent.InstanceName(), agent.InstanceName()))
		nodes = append(nodes, fmt.Sprintf("workflow.add_node(%q, %s)", agent.Name, agent.InstanceName()))
	}

	// Render the adjacency literal grouped by source, edge order preserved.
	grouped := map[string][]string{}
	var sources []string
	for _, rel := range swarm.Chart.Relationships() {
		source, okSource := swarm.Agent(rel.SourceID)
		target, okTarget := swarm.Agent(rel.TargetID)
		if !okSource || !okTarget {
			return "", fmt.Errorf("relationship references agent outside swarm: %s -> %s", rel.SourceID, rel.TargetID)
		}
		if _, seen := grouped[source.InstanceName()]; !seen {
			sources = append(sources, source.InstanceName())
		}
		grouped[source.InstanceName()] = append(grouped[source.InstanceName()], target.InstanceName())
	}
	var chartEntries []string
	for _, source := range sources {
		var targets []string
		for _, target := range grouped[source] {
			targets = append(targets, fmt.Sprintf("%q", target))
		}
		chartEntries = append(chartEntries, fmt.Sprintf("    %q: [%s],", source, strings.Join(targets, ", ")))
	}

	return fmt.Sprintf(`import operator
from typing import Sequence, TypedDict, Annotated
from langchain_core.messages import BaseMessage, HumanMessage
from langgraph.graph import END, StateGraph, START

%s


class AgentState(TypedDict):
    messages: Annotated[Sequence[BaseMessage], operator.add]
    next: str


workflow = StateGraph(AgentState)
%s

agency_chart = {
%s
}

for source, targets in agency_chart.items():
    for target in targets:
        workflow.add_edge(target, source)

    conditional_map = {k: k for k in targets}
    if source == %q:
        conditional_map["FINISH"] = END
    workflow.add_conditional_edges(source, lambda x: x["next"], conditional_map)

workflow.add_edge(START, %q)
%s = workflow.compile()
`, strings.Join(imports, "\n"), strings.Join(nodes, "\n"), strings.Join(chartEntries, "\n"),
		managerAgent.InstanceName(), managerAgent.InstanceName(), swarm.InstanceName()), nil
}

func (c *LangchainCreator) AgentSource(agent builder.Agent) (string, error) {
	model := agent.Model
	if model == "" {
		model = "gpt-4o"
	}
	cfg, err := llm.Lookup(model)
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", agent.Name, err)
	}

	var providerImport string
	switch cfg.Provider {
	case "openai":
		providerImport = "from langchain_openai import " + cfg.Class
	case "anthropic":
		providerImport = "from langchain_anthropic import " + cfg.Class
	default:
		return "", fmt.Errorf("agent %s: no import known for provider %s", agent.Name, cfg.Provider)
	}

	return fmt.Sprintf(`from langchain_core.prompts import ChatPromptTemplate, MessagesPlaceholder
%s

system_prompt = """%s"""

prompt = ChatPromptTemplate.from_messages(
    [
        ("system", system_prompt),
        MessagesPlaceholder(variable_name="messages"),
    ]
)

model = %s(**%s)


def %s(state):
    %s_chain = prompt | model
    return %s_chain.invoke(state)
`, providerImport, agent.Instructions, cfg.Class, cfg.Args,
		agent.InstanceName(), agent.InstanceName(), agent.InstanceName()), nil
}

func (c *LangchainCreator) ToolSource(tool builder.Tool) (string, error) {
	// Tools are not materialized for the langchain target yet; agents carry
	// their behavior in prompts.
	return "", nil
}

func (c *LangchainCreator) CreateSwarmFiles(swarm *builder.Swarm, basePath string) error {
	swarmSource, err := c.SwarmSource(swarm)
	if err != nil {
		return err
	}

	files := map[string]string{
		"__main__.py": fmt.Sprintf(`from %s import %s
from langchain_core.messages import HumanMessage

for step in %s.stream(
    {"messages": [HumanMessage(content="Describe the team's first task.")]},
    {"recursion_limit": 100},
):
    if "__end__" not in step:
        print(step)
        print("----")
`, swarm.InstanceName(), swarm.InstanceName(), swarm.InstanceName()),
		swarm.InstanceName() + ".py": swarmSource,
	}

	for _, agent := range swarm.Agents() {
		source, err := c.AgentSource(agent)
		if err != nil {
			return err
		}
		dir := "agents/" + agent.InstanceName()
		files[dir+"/__init__.py"] = fmt.Sprintf("from agents.%s import %s", agent.InstanceName(), agent.InstanceName())
		files[dir+"/"+agent.InstanceName()+".py"] = source
	}

	return writeProject(swarmPath(basePath, swarm), files)
}

func swarmPath(basePath string, swarm *builder.Swarm) string {
	return filepath.Join(basePath, swarm.InstanceName())
}
