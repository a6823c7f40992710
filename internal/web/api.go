package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jzftran/swarmbase-core/chart"
	"github.com/jzftran/swarmbase-core/internal/natsbus"
	"github.com/jzftran/swarmbase-core/internal/store"
)

func (s *Server) registerAPI(mux *http.ServeMux) {
	// Agents
	mux.HandleFunc("POST /api/agents", s.createAgent)
	mux.HandleFunc("GET /api/agents", s.listAgents)
	mux.HandleFunc("GET /api/agents/{id}", s.getAgent)
	mux.HandleFunc("PUT /api/agents/{id}", s.updateAgent)
	mux.HandleFunc("DELETE /api/agents/{id}", s.deleteAgent)
	mux.HandleFunc("POST /api/agents/{id}/tools", s.assignAgentTool)
	mux.HandleFunc("GET /api/agents/{id}/tools", s.listAgentTools)
	mux.HandleFunc("DELETE /api/agents/{id}/tools/{toolId}", s.removeAgentTool)
	mux.HandleFunc("POST /api/agents/{id}/relationships", s.addRelationship)
	mux.HandleFunc("GET /api/agents/{id}/relationships", s.listRelationships)
	mux.HandleFunc("DELETE /api/agents/{id}/relationships/{relatedId}", s.removeRelationship)

	// Tools
	mux.HandleFunc("POST /api/tools", s.createTool)
	mux.HandleFunc("GET /api/tools", s.listTools)
	mux.HandleFunc("GET /api/tools/{id}", s.getTool)
	mux.HandleFunc("PUT /api/tools/{id}", s.updateTool)
	mux.HandleFunc("DELETE /api/tools/{id}", s.deleteTool)

	// Swarms and their charts
	mux.HandleFunc("POST /api/swarms", s.createSwarm)
	mux.HandleFunc("GET /api/swarms", s.listSwarms)
	mux.HandleFunc("GET /api/swarms/{id}", s.getSwarm)
	mux.HandleFunc("PUT /api/swarms/{id}", s.updateSwarm)
	mux.HandleFunc("DELETE /api/swarms/{id}", s.deleteSwarm)
	mux.HandleFunc("POST /api/swarms/{id}/agents", s.addSwarmAgent)
	mux.HandleFunc("DELETE /api/swarms/{id}/agents/{agentId}", s.removeSwarmAgent)
	mux.HandleFunc("GET /api/swarms/{id}/chart", s.getSwarmChart)
	mux.HandleFunc("GET /api/swarms/{id}/chart/path", s.getSwarmChartPath)
	mux.HandleFunc("GET /api/swarms/{id}/chart/connected", s.getSwarmChartConnected)
	mux.HandleFunc("GET /api/swarms/{id}/chart/manager", s.getSwarmChartManager)

	// Frameworks
	mux.HandleFunc("POST /api/frameworks", s.createFramework)
	mux.HandleFunc("GET /api/frameworks", s.listFrameworks)
	mux.HandleFunc("GET /api/frameworks/{id}", s.getFramework)
	mux.HandleFunc("DELETE /api/frameworks/{id}", s.deleteFramework)
	mux.HandleFunc("POST /api/frameworks/{id}/swarms", s.addFrameworkSwarm)
	mux.HandleFunc("DELETE /api/frameworks/{id}/swarms/{swarmId}", s.removeFrameworkSwarm)

	// Secrets
	mux.HandleFunc("POST /api/secrets", s.createSecret)
	mux.HandleFunc("GET /api/secrets", s.listSecrets)
	mux.HandleFunc("DELETE /api/secrets/{id}", s.deleteSecret)
}

// agentPayload is the wire shape for agents: the stored record plus its
// relationships and tool assignments.
type agentPayload struct {
	store.Agent
	Relationships []chart.Relationship `json:"relationships,omitempty"`
	ToolIDs       []string             `json:"tools,omitempty"`
}

func (s *Server) agentPayloadFor(a *store.Agent) (*agentPayload, error) {
	rels, err := s.store.AgentRelationships(a.ID)
	if err != nil {
		return nil, err
	}
	toolIDs, err := s.store.AgentToolIDs(a.ID)
	if err != nil {
		return nil, err
	}
	return &agentPayload{Agent: *a, Relationships: rels, ToolIDs: toolIDs}, nil
}

func (s *Server) createAgent(w http.ResponseWriter, r *http.Request) {
	var body agentPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		body.ID = uuid.New().String()
	}
	if body.Model == "" {
		body.Model = s.defaultModel
	}

	if err := s.store.SaveAgent(&body.Agent); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, rel := range body.Relationships {
		if rel.SourceID == "" {
			rel.SourceID = body.ID
		}
		if !rel.Type.Valid() || rel.SourceID == "" || rel.TargetID == "" {
			jsonError(w, "invalid relationship", http.StatusBadRequest)
			return
		}
		if err := s.store.AddRelationship(rel); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	for _, toolID := range body.ToolIDs {
		if err := s.store.AssignTool(body.ID, toolID); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	s.publishEvent(natsbus.TopicAgentEvents(body.ID), "created", "agent", body.ID)
	s.respondWithAgent(w, body.ID)
}

func (s *Server) respondWithAgent(w http.ResponseWriter, id string) {
	a, err := s.store.GetAgent(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if a == nil {
		jsonError(w, "agent not found", http.StatusNotFound)
		return
	}
	payload, err := s.agentPayloadFor(a)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, payload)
}

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.store.ListAgents()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]agentPayload, 0, len(agents))
	for i := range agents {
		payload, err := s.agentPayloadFor(&agents[i])
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out = append(out, *payload)
	}
	jsonResponse(w, out)
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	s.respondWithAgent(w, r.PathValue("id"))
}

func (s *Server) updateAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetAgent(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		jsonError(w, "agent not found", http.StatusNotFound)
		return
	}

	var body agentPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	body.ID = id
	if err := s.store.SaveAgent(&body.Agent); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.publishEvent(natsbus.TopicAgentEvents(id), "updated", "agent", id)
	s.respondWithAgent(w, id)
}

func (s *Server) deleteAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteAgent(id); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicAgentEvents(id), "deleted", "agent", id)
	jsonResponse(w, map[string]string{"status": "deleted"})
}

func (s *Server) assignAgentTool(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		ToolID string `json:"tool_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.ToolID == "" {
		jsonError(w, "tool_id is required", http.StatusBadRequest)
		return
	}
	if err := s.store.AssignTool(id, body.ToolID); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicAgentEvents(id), "updated", "agent", id)
	jsonResponse(w, map[string]string{"status": "assigned"})
}

func (s *Server) listAgentTools(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	toolIDs, err := s.store.AgentToolIDs(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]store.Tool, 0, len(toolIDs))
	for _, toolID := range toolIDs {
		tool, err := s.store.GetTool(toolID)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if tool != nil {
			out = append(out, *tool)
		}
	}
	jsonResponse(w, out)
}

func (s *Server) removeAgentTool(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.RemoveTool(id, r.PathValue("toolId")); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicAgentEvents(id), "updated", "agent", id)
	jsonResponse(w, map[string]string{"status": "removed"})
}

func (s *Server) addRelationship(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var rel chart.Relationship
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if rel.SourceID == "" {
		rel.SourceID = id
	}
	if !rel.Type.Valid() || rel.SourceID == "" || rel.TargetID == "" {
		jsonError(w, "invalid relationship", http.StatusBadRequest)
		return
	}
	if err := s.store.AddRelationship(rel); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicChartEvents(rel.SourceID), "created", "relationship", rel.SourceID)
	jsonResponse(w, rel)
}

func (s *Server) listRelationships(w http.ResponseWriter, r *http.Request) {
	rels, err := s.store.AgentRelationships(r.PathValue("id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rels == nil {
		rels = []chart.Relationship{}
	}
	jsonResponse(w, rels)
}

func (s *Server) removeRelationship(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteRelationship(id, r.PathValue("relatedId")); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicChartEvents(id), "deleted", "relationship", id)
	jsonResponse(w, map[string]string{"status": "deleted"})
}

func (s *Server) createTool(w http.ResponseWriter, r *http.Request) {
	var body store.Tool
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		body.ID = uuid.New().String()
	}
	if err := s.store.SaveTool(&body); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicToolEvents(body.ID), "created", "tool", body.ID)
	s.respondWithTool(w, body.ID)
}

func (s *Server) respondWithTool(w http.ResponseWriter, id string) {
	tool, err := s.store.GetTool(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tool == nil {
		jsonError(w, "tool not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, tool)
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.store.ListTools()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tools == nil {
		tools = []store.Tool{}
	}
	jsonResponse(w, tools)
}

func (s *Server) getTool(w http.ResponseWriter, r *http.Request) {
	s.respondWithTool(w, r.PathValue("id"))
}

func (s *Server) updateTool(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetTool(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		jsonError(w, "tool not found", http.StatusNotFound)
		return
	}

	var body store.Tool
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	body.ID = id
	if err := s.store.SaveTool(&body); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicToolEvents(id), "updated", "tool", id)
	s.respondWithTool(w, id)
}

func (s *Server) deleteTool(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteTool(id); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicToolEvents(id), "deleted", "tool", id)
	jsonResponse(w, map[string]string{"status": "deleted"})
}

func (s *Server) createSwarm(w http.ResponseWriter, r *http.Request) {
	var body store.Swarm
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		body.ID = uuid.New().String()
	}
	if err := s.store.SaveSwarm(&body); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, agentID := range body.AgentIDs {
		if err := s.store.AddSwarmAgent(body.ID, agentID); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	s.publishEvent(natsbus.TopicSwarmEvents(body.ID), "created", "swarm", body.ID)
	s.respondWithSwarm(w, body.ID)
}

func (s *Server) respondWithSwarm(w http.ResponseWriter, id string) {
	sw, err := s.store.GetSwarm(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sw == nil {
		jsonError(w, "swarm not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, sw)
}

func (s *Server) listSwarms(w http.ResponseWriter, r *http.Request) {
	swarms, err := s.store.ListSwarms()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if swarms == nil {
		swarms = []store.Swarm{}
	}
	jsonResponse(w, swarms)
}

func (s *Server) getSwarm(w http.ResponseWriter, r *http.Request) {
	s.respondWithSwarm(w, r.PathValue("id"))
}

func (s *Server) updateSwarm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetSwarm(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		jsonError(w, "swarm not found", http.StatusNotFound)
		return
	}

	var body store.Swarm
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	body.ID = id
	if err := s.store.SaveSwarm(&body); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicSwarmEvents(id), "updated", "swarm", id)
	s.respondWithSwarm(w, id)
}

func (s *Server) deleteSwarm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteSwarm(id); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicSwarmEvents(id), "deleted", "swarm", id)
	jsonResponse(w, map[string]string{"status": "deleted"})
}

func (s *Server) addSwarmAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		AgentID string `json:"agent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.AgentID == "" {
		jsonError(w, "agent_id is required", http.StatusBadRequest)
		return
	}
	if err := s.store.AddSwarmAgent(id, body.AgentID); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicSwarmEvents(id), "updated", "swarm", id)
	jsonResponse(w, map[string]string{"status": "added"})
}

func (s *Server) removeSwarmAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.RemoveSwarmAgent(id, r.PathValue("agentId")); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicSwarmEvents(id), "updated", "swarm", id)
	jsonResponse(w, map[string]string{"status": "removed"})
}

// swarmChart loads the chart for a swarm, or writes an error response and
// returns nil.
func (s *Server) swarmChart(w http.ResponseWriter, id string) *chart.Chart {
	sw, err := s.store.GetSwarm(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil
	}
	if sw == nil {
		jsonError(w, "swarm not found", http.StatusNotFound)
		return nil
	}
	c, err := s.store.SwarmChart(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil
	}
	return c
}

func (s *Server) getSwarmChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c := s.swarmChart(w, id)
	if c == nil {
		return
	}
	members, err := s.store.SwarmAgentIDs(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	manager, _ := c.ManagerAgent()
	jsonResponse(w, map[string]any{
		"agents":        members,
		"relationships": c.Relationships(),
		"manager_agent": manager,
	})
}

func (s *Server) getSwarmChartPath(w http.ResponseWriter, r *http.Request) {
	c := s.swarmChart(w, r.PathValue("id"))
	if c == nil {
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		jsonError(w, "from and to are required", http.StatusBadRequest)
		return
	}
	path := c.FindPath(from, to)
	if path == nil {
		path = []string{}
	}
	jsonResponse(w, map[string]any{"path": path})
}

func (s *Server) getSwarmChartConnected(w http.ResponseWriter, r *http.Request) {
	c := s.swarmChart(w, r.PathValue("id"))
	if c == nil {
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		jsonError(w, "from and to are required", http.StatusBadRequest)
		return
	}
	jsonResponse(w, map[string]bool{"connected": c.IsConnected(from, to)})
}

func (s *Server) getSwarmChartManager(w http.ResponseWriter, r *http.Request) {
	c := s.swarmChart(w, r.PathValue("id"))
	if c == nil {
		return
	}
	manager, _ := c.ManagerAgent()
	jsonResponse(w, map[string]string{"manager_agent": manager})
}

func (s *Server) createFramework(w http.ResponseWriter, r *http.Request) {
	var body store.Framework
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		body.ID = uuid.New().String()
	}
	if err := s.store.SaveFramework(&body); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, swarmID := range body.SwarmIDs {
		if err := s.store.AddFrameworkSwarm(body.ID, swarmID); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	s.publishEvent(natsbus.TopicFrameworkEvents(body.ID), "created", "framework", body.ID)
	s.respondWithFramework(w, body.ID)
}

func (s *Server) respondWithFramework(w http.ResponseWriter, id string) {
	f, err := s.store.GetFramework(id)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if f == nil {
		jsonError(w, "framework not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, f)
}

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	frameworks, err := s.store.ListFrameworks()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if frameworks == nil {
		frameworks = []store.Framework{}
	}
	jsonResponse(w, frameworks)
}

func (s *Server) getFramework(w http.ResponseWriter, r *http.Request) {
	s.respondWithFramework(w, r.PathValue("id"))
}

func (s *Server) deleteFramework(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteFramework(id); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicFrameworkEvents(id), "deleted", "framework", id)
	jsonResponse(w, map[string]string{"status": "deleted"})
}

func (s *Server) addFrameworkSwarm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		SwarmID string `json:"swarm_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.SwarmID == "" {
		jsonError(w, "swarm_id is required", http.StatusBadRequest)
		return
	}
	if err := s.store.AddFrameworkSwarm(id, body.SwarmID); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicFrameworkEvents(id), "updated", "framework", id)
	jsonResponse(w, map[string]string{"status": "added"})
}

func (s *Server) removeFrameworkSwarm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.RemoveFrameworkSwarm(id, r.PathValue("swarmId")); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.publishEvent(natsbus.TopicFrameworkEvents(id), "updated", "framework", id)
	jsonResponse(w, map[string]string{"status": "removed"})
}

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
