// Package chart models the relationships between agents in an agency as a
// directed graph. It tracks who collaborates with whom and who supervises
// whom, and answers connectivity, path and top-level-manager queries over
// small, mostly tree-shaped hierarchies.
package chart

import (
	"fmt"
	"strings"
)

// RelationshipType classifies a directed edge between two agents.
type RelationshipType string

const (
	// Collaborates links two agents as peers. Storage is directional;
	// callers add the reverse edge when collaboration flows both ways.
	Collaborates RelationshipType = "collaborates"
	// Supervises links a supervisor to a subordinate and establishes
	// hierarchy.
	Supervises RelationshipType = "supervises"
)

// Valid reports whether t is a known relationship type.
func (t RelationshipType) Valid() bool {
	return t == Collaborates || t == Supervises
}

// Relationship is one directed, typed edge from a source agent to a target
// agent. Agent IDs are opaque string tokens.
type Relationship struct {
	Type     RelationshipType `json:"relationship_type"`
	SourceID string           `json:"source_agent_id"`
	TargetID string           `json:"target_agent_id"`
}

type edge struct {
	typ    RelationshipType
	target string
}

// Chart is a mutable directed graph of agent relationships. Nodes are created
// implicitly when a relationship first references them. Edge order is
// insertion order, which keeps FindPath deterministic for a fixed sequence of
// mutations.
//
// Chart is not safe for concurrent use; callers that share one across
// goroutines must serialize access themselves.
type Chart struct {
	adj   map[string][]edge
	order []string // node ids in first-seen order
}

// NewChart returns an empty chart.
func NewChart() *Chart {
	return &Chart{adj: make(map[string][]edge)}
}

// AddRelationship inserts the edge described by rel, creating missing nodes.
// Inserting an edge identical in type, source and target to an existing one
// is a no-op, so the call is idempotent. Self-relationships are permitted.
// Malformed input leaves the chart untouched and returns an error.
func (c *Chart) AddRelationship(rel Relationship) error {
	if rel.SourceID == "" || rel.TargetID == "" {
		return fmt.Errorf("%w: source and target agent ids are required", ErrInvalidRelationship)
	}
	if !rel.Type.Valid() {
		return fmt.Errorf("%w: unknown relationship type %q", ErrInvalidRelationship, rel.Type)
	}

	c.ensureNode(rel.SourceID)
	c.ensureNode(rel.TargetID)

	for _, e := range c.adj[rel.SourceID] {
		if e.typ == rel.Type && e.target == rel.TargetID {
			return nil
		}
	}
	c.adj[rel.SourceID] = append(c.adj[rel.SourceID], edge{typ: rel.Type, target: rel.TargetID})
	return nil
}

func (c *Chart) ensureNode(id string) {
	if _, ok := c.adj[id]; ok {
		return
	}
	c.adj[id] = nil
	c.order = append(c.order, id)
}

// RemoveAgent deletes the agent and every edge where it appears as source or
// target. Removing an unknown agent is a no-op.
func (c *Chart) RemoveAgent(id string) {
	if _, ok := c.adj[id]; !ok {
		return
	}
	delete(c.adj, id)
	for src, edges := range c.adj {
		kept := edges[:0]
		for _, e := range edges {
			if e.target != id {
				kept = append(kept, e)
			}
		}
		c.adj[src] = kept
	}
	for i, n := range c.order {
		if n == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// HasAgent reports whether the agent is a node in the chart.
func (c *Chart) HasAgent(id string) bool {
	_, ok := c.adj[id]
	return ok
}

// Agents returns all agent ids in first-seen order.
func (c *Chart) Agents() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Relationships returns every edge in the chart, grouped by source in
// first-seen order and by insertion order within a source.
func (c *Chart) Relationships() []Relationship {
	var out []Relationship
	for _, src := range c.order {
		for _, e := range c.adj[src] {
			out = append(out, Relationship{Type: e.typ, SourceID: src, TargetID: e.target})
		}
	}
	return out
}

// IsConnected reports whether a directed path of one or more edges leads from
// source to target. Traversal ignores relationship types. Unknown agents are
// never connected. An agent is not considered connected to itself unless the
// graph contains a cycle passing through it.
func (c *Chart) IsConnected(source, target string) bool {
	if _, ok := c.adj[source]; !ok {
		return false
	}
	if _, ok := c.adj[target]; !ok {
		return false
	}

	visited := map[string]bool{}
	queue := make([]string, 0, len(c.adj[source]))
	for _, e := range c.adj[source] {
		queue = append(queue, e.target)
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == target {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, e := range c.adj[node] {
			if !visited[e.target] {
				queue = append(queue, e.target)
			}
		}
	}
	return false
}

// FindPath returns a directed path from source to target, inclusive of both
// endpoints, or nil when no path exists or either agent is unknown. The path
// is not guaranteed shortest; edges are explored in insertion order, so the
// result is deterministic for a fixed chart state. FindPath(a, a) returns
// [a] when a exists.
func (c *Chart) FindPath(source, target string) []string {
	if _, ok := c.adj[source]; !ok {
		return nil
	}
	if _, ok := c.adj[target]; !ok {
		return nil
	}
	return c.dfsPath(source, target, map[string]bool{})
}

func (c *Chart) dfsPath(node, target string, visited map[string]bool) []string {
	if node == target {
		return []string{node}
	}
	visited[node] = true
	for _, e := range c.adj[node] {
		if visited[e.target] {
			continue
		}
		if rest := c.dfsPath(e.target, target, visited); rest != nil {
			return append([]string{node}, rest...)
		}
	}
	return nil
}

// ManagerAgent returns the agent with supervisory authority over the whole
// hierarchy: the unique node that supervises at least one agent and is itself
// supervised by nobody. The second return is false when the chart holds no
// supervision edges or when more than one such root exists.
func (c *Chart) ManagerAgent() (string, bool) {
	supervised := map[string]bool{}
	supervisors := map[string]bool{}
	for _, edges := range c.adj {
		for _, e := range edges {
			if e.typ != Supervises {
				continue
			}
			supervised[e.target] = true
		}
	}
	for src, edges := range c.adj {
		for _, e := range edges {
			if e.typ == Supervises {
				supervisors[src] = true
				break
			}
		}
	}

	var manager string
	for _, id := range c.order {
		if !supervisors[id] || supervised[id] {
			continue
		}
		if manager != "" {
			return "", false // ambiguous hierarchy
		}
		manager = id
	}
	if manager == "" {
		return "", false
	}
	return manager, true
}

// String renders the adjacency structure, mainly for logs and debugging.
func (c *Chart) String() string {
	var sb strings.Builder
	sb.WriteString("Chart(")
	for i, src := range c.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s:[", src)
		for j, e := range c.adj[src] {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s>%s", e.typ, e.target)
		}
		sb.WriteString("]")
	}
	sb.WriteString(")")
	return sb.String()
}
