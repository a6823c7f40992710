package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jzftran/swarmbase-core/internal/store"
)

// Secret values arrive in plaintext and are sealed with the vault before
// they touch the store. They are never returned by the API.

func (s *Server) createSecret(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Provider string `json:"provider"`
		Value    string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Value == "" {
		jsonError(w, "name and value are required", http.StatusBadRequest)
		return
	}

	sealed, err := s.vault.Seal([]byte(body.Value))
	if err != nil {
		jsonError(w, "encryption failed", http.StatusInternalServerError)
		return
	}

	sec := &store.Secret{
		ID:       uuid.New().String(),
		Name:     body.Name,
		Provider: body.Provider,
		Value:    sealed,
	}
	if err := s.store.SaveSecret(sec); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{
		"id":       sec.ID,
		"name":     sec.Name,
		"provider": sec.Provider,
	})
}

func (s *Server) listSecrets(w http.ResponseWriter, r *http.Request) {
	secrets, err := s.store.ListSecrets()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]map[string]string, 0, len(secrets))
	for _, sec := range secrets {
		out = append(out, map[string]string{
			"id":       sec.ID,
			"name":     sec.Name,
			"provider": sec.Provider,
		})
	}
	jsonResponse(w, out)
}

func (s *Server) deleteSecret(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSecret(r.PathValue("id")); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"})
}
