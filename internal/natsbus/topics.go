package natsbus

import (
	"fmt"
	"time"
)

// Topic patterns for NATS pub/sub event notifications.

func TopicAgentEvents(agentID string) string {
	return fmt.Sprintf("events.agent.%s", agentID)
}

func TopicToolEvents(toolID string) string {
	return fmt.Sprintf("events.tool.%s", toolID)
}

func TopicSwarmEvents(swarmID string) string {
	return fmt.Sprintf("events.swarm.%s", swarmID)
}

func TopicFrameworkEvents(frameworkID string) string {
	return fmt.Sprintf("events.framework.%s", frameworkID)
}

// TopicChartEvents carries relationship changes between agents.
func TopicChartEvents(agentID string) string {
	return fmt.Sprintf("events.chart.%s", agentID)
}

const (
	TopicEventsAll    = "events.>"
	TopicEventsAgents = "events.agent.*"
	TopicEventsSwarms = "events.swarm.*"
	TopicEventsCharts = "events.chart.*"
)

// Event is the payload published for every resource change.
type Event struct {
	Action   string    `json:"action"` // created, updated, deleted
	Resource string    `json:"resource"`
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
}
