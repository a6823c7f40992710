package builder

import (
	"context"
	"fmt"

	"github.com/jzftran/swarmbase-core/chart"
	"github.com/jzftran/swarmbase-core/client"
)

// ToolBuilder assembles a Tool. Setter errors are deferred and surface on
// Build or Product.
type ToolBuilder struct {
	c    *client.Client
	tool Tool
	err  error
}

func NewToolBuilder(c *client.Client) *ToolBuilder {
	return &ToolBuilder{c: c}
}

func (b *ToolBuilder) SetName(name string) *ToolBuilder {
	if b.err == nil {
		b.err = validateName(name)
	}
	b.tool.Name = name
	return b
}

func (b *ToolBuilder) SetDescription(d string) *ToolBuilder { b.tool.Description = d; return b }
func (b *ToolBuilder) SetVersion(v string) *ToolBuilder     { b.tool.Version = v; return b }
func (b *ToolBuilder) SetCode(code string) *ToolBuilder     { b.tool.Code = code; return b }

// FromID hydrates the builder from a stored tool.
func (b *ToolBuilder) FromID(ctx context.Context, id string) *ToolBuilder {
	if b.err != nil {
		return b
	}
	data, err := b.c.Tools().Get(ctx, id)
	if err != nil {
		b.err = fmt.Errorf("hydrate tool %s: %w", id, err)
		return b
	}
	b.tool = Tool{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Version:     data.Version,
		Code:        data.Code,
		Extra:       data.Extra,
	}
	return b
}

// Build pushes the tool to the backend and returns the stored product.
func (b *ToolBuilder) Build(ctx context.Context) (Tool, error) {
	tool, err := b.Product()
	if err != nil {
		return Tool{}, err
	}
	created, err := b.c.Tools().Create(ctx, client.Tool{
		Name:        tool.Name,
		Description: tool.Description,
		Version:     tool.Version,
		Code:        tool.Code,
		Extra:       tool.Extra,
	})
	if err != nil {
		return Tool{}, err
	}
	tool.ID = created.ID
	return tool, nil
}

// Product returns the assembled tool and resets the builder.
func (b *ToolBuilder) Product() (Tool, error) {
	if b.err != nil {
		err := b.err
		*b = ToolBuilder{c: b.c}
		return Tool{}, err
	}
	tool := b.tool
	*b = ToolBuilder{c: b.c}
	return tool, nil
}

// AgentBuilder assembles an Agent with its relationships and tools.
type AgentBuilder struct {
	c     *client.Client
	agent Agent
	err   error
}

func NewAgentBuilder(c *client.Client) *AgentBuilder {
	return &AgentBuilder{c: c}
}

func (b *AgentBuilder) SetName(name string) *AgentBuilder {
	if b.err == nil {
		b.err = validateName(name)
	}
	b.agent.Name = name
	return b
}

func (b *AgentBuilder) SetDescription(d string) *AgentBuilder  { b.agent.Description = d; return b }
func (b *AgentBuilder) SetInstructions(i string) *AgentBuilder { b.agent.Instructions = i; return b }
func (b *AgentBuilder) SetModel(m string) *AgentBuilder        { b.agent.Model = m; return b }

func (b *AgentBuilder) AddRelationship(rel chart.Relationship) *AgentBuilder {
	b.agent.Relationships = append(b.agent.Relationships, rel)
	return b
}

func (b *AgentBuilder) AddTool(t Tool) *AgentBuilder {
	b.agent.Tools = append(b.agent.Tools, t)
	return b
}

// FromID hydrates the builder from a stored agent, including its
// relationships and assigned tools.
func (b *AgentBuilder) FromID(ctx context.Context, id string) *AgentBuilder {
	if b.err != nil {
		return b
	}
	data, err := b.c.Agents().Get(ctx, id)
	if err != nil {
		b.err = fmt.Errorf("hydrate agent %s: %w", id, err)
		return b
	}
	b.agent = Agent{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Instructions:  data.Instructions,
		Model:         data.Model,
		Relationships: data.Relationships,
		Extra:         data.Extra,
	}

	toolBuilder := NewToolBuilder(b.c)
	for _, toolID := range data.ToolIDs {
		tool, err := toolBuilder.FromID(ctx, toolID).Product()
		if err != nil {
			b.err = err
			return b
		}
		b.agent.Tools = append(b.agent.Tools, tool)
	}
	return b
}

// Build pushes the agent and its relationships to the backend.
func (b *AgentBuilder) Build(ctx context.Context) (Agent, error) {
	agent, err := b.Product()
	if err != nil {
		return Agent{}, err
	}
	toolIDs := make([]string, 0, len(agent.Tools))
	for _, t := range agent.Tools {
		toolIDs = append(toolIDs, t.ID)
	}
	created, err := b.c.Agents().Create(ctx, client.Agent{
		Name:         agent.Name,
		Description:  agent.Description,
		Instructions: agent.Instructions,
		Model:        agent.Model,
		ToolIDs:      toolIDs,
		Extra:        agent.Extra,
	})
	if err != nil {
		return Agent{}, err
	}
	agent.ID = created.ID
	for _, rel := range agent.Relationships {
		if err := b.c.Agents().AddRelationship(ctx, agent.ID, rel); err != nil {
			return Agent{}, err
		}
	}
	return agent, nil
}

// Product returns the assembled agent and resets the builder.
func (b *AgentBuilder) Product() (Agent, error) {
	if b.err != nil {
		err := b.err
		*b = AgentBuilder{c: b.c}
		return Agent{}, err
	}
	agent := b.agent
	*b = AgentBuilder{c: b.c}
	return agent, nil
}

// FrameworkBuilder assembles a Framework, a named grouping of swarms.
type FrameworkBuilder struct {
	c         *client.Client
	framework Framework
	err       error
}

func NewFrameworkBuilder(c *client.Client) *FrameworkBuilder {
	return &FrameworkBuilder{c: c}
}

func (b *FrameworkBuilder) SetName(name string) *FrameworkBuilder {
	if b.err == nil {
		b.err = validateName(name)
	}
	b.framework.Name = name
	return b
}

// AddSwarm records a swarm with a known id as a member of the framework.
func (b *FrameworkBuilder) AddSwarm(s Swarm) *FrameworkBuilder {
	if s.ID == "" {
		return b
	}
	for _, id := range b.framework.SwarmIDs {
		if id == s.ID {
			return b
		}
	}
	b.framework.SwarmIDs = append(b.framework.SwarmIDs, s.ID)
	return b
}

// FromID hydrates the builder from a stored framework.
func (b *FrameworkBuilder) FromID(ctx context.Context, id string) *FrameworkBuilder {
	if b.err != nil {
		return b
	}
	data, err := b.c.Frameworks().Get(ctx, id)
	if err != nil {
		b.err = fmt.Errorf("hydrate framework %s: %w", id, err)
		return b
	}
	b.framework = Framework{
		ID:       data.ID,
		Name:     data.Name,
		SwarmIDs: data.SwarmIDs,
		Extra:    data.Extra,
	}
	return b
}

// Build pushes the framework and its swarm memberships to the backend.
func (b *FrameworkBuilder) Build(ctx context.Context) (Framework, error) {
	framework, err := b.Product()
	if err != nil {
		return Framework{}, err
	}
	created, err := b.c.Frameworks().Create(ctx, client.Framework{
		Name:  framework.Name,
		Extra: framework.Extra,
	})
	if err != nil {
		return Framework{}, err
	}
	framework.ID = created.ID
	for _, swarmID := range framework.SwarmIDs {
		if err := b.c.Frameworks().AddSwarm(ctx, framework.ID, swarmID); err != nil {
			return Framework{}, err
		}
	}
	return framework, nil
}

// Product returns the assembled framework and resets the builder.
func (b *FrameworkBuilder) Product() (Framework, error) {
	if b.err != nil {
		err := b.err
		*b = FrameworkBuilder{c: b.c}
		return Framework{}, err
	}
	framework := b.framework
	*b = FrameworkBuilder{c: b.c}
	return framework, nil
}

// SwarmBuilder assembles a Swarm: its member agents, their tools, and the
// relationship chart that wires them together.
type SwarmBuilder struct {
	c     *client.Client
	swarm Swarm
	err   error
}

func NewSwarmBuilder(c *client.Client) *SwarmBuilder {
	return &SwarmBuilder{c: c, swarm: Swarm{Chart: chart.NewChart()}}
}

func (b *SwarmBuilder) SetName(name string) *SwarmBuilder {
	if b.err == nil {
		b.err = validateName(name)
	}
	b.swarm.Name = name
	return b
}

func (b *SwarmBuilder) SetParentID(id string) *SwarmBuilder { b.swarm.ParentID = id; return b }

// AddAgent adds an agent with a known id to the swarm. Agents without an id
// are ignored, matching the backend's requirement that members exist first.
func (b *SwarmBuilder) AddAgent(agent Agent) *SwarmBuilder {
	b.swarm.addAgent(agent)
	for _, t := range agent.Tools {
		b.swarm.addTool(t)
	}
	return b
}

// AddRelationship records an agent relationship on the swarm's chart.
func (b *SwarmBuilder) AddRelationship(rel chart.Relationship) *SwarmBuilder {
	if b.err == nil {
		if err := b.swarm.Chart.AddRelationship(rel); err != nil {
			b.err = err
		}
	}
	return b
}

func (b *SwarmBuilder) AddTool(t Tool) *SwarmBuilder {
	b.swarm.addTool(t)
	return b
}

// FromID hydrates the swarm from the backend: the swarm record, each member
// agent, their relationships (folded into the chart) and their tools.
func (b *SwarmBuilder) FromID(ctx context.Context, id string) *SwarmBuilder {
	if b.err != nil {
		return b
	}
	data, err := b.c.Swarms().Get(ctx, id)
	if err != nil {
		b.err = fmt.Errorf("hydrate swarm %s: %w", id, err)
		return b
	}
	b.swarm.ID = data.ID
	b.swarm.Name = data.Name
	b.swarm.ParentID = data.ParentID
	b.swarm.Extra = data.Extra

	agentBuilder := NewAgentBuilder(b.c)
	for _, agentID := range data.AgentIDs {
		agent, err := agentBuilder.FromID(ctx, agentID).Product()
		if err != nil {
			b.err = err
			return b
		}
		b.AddAgent(agent)
		for _, rel := range agent.Relationships {
			b.AddRelationship(rel)
		}
	}
	return b
}

// Build pushes the swarm to the backend and returns the stored product.
func (b *SwarmBuilder) Build(ctx context.Context) (Swarm, error) {
	swarm, err := b.Product()
	if err != nil {
		return Swarm{}, err
	}
	agentIDs := make([]string, 0, len(swarm.agents))
	for _, a := range swarm.agents {
		agentIDs = append(agentIDs, a.ID)
	}
	created, err := b.c.Swarms().Create(ctx, client.Swarm{
		Name:     swarm.Name,
		ParentID: swarm.ParentID,
		AgentIDs: agentIDs,
		Extra:    swarm.Extra,
	})
	if err != nil {
		return Swarm{}, err
	}
	swarm.ID = created.ID
	return swarm, nil
}

// Product returns the assembled swarm and resets the builder.
func (b *SwarmBuilder) Product() (Swarm, error) {
	if b.err != nil {
		err := b.err
		*b = SwarmBuilder{c: b.c, swarm: Swarm{Chart: chart.NewChart()}}
		return Swarm{}, err
	}
	swarm := b.swarm
	*b = SwarmBuilder{c: b.c, swarm: Swarm{Chart: chart.NewChart()}}
	return swarm, nil
}
