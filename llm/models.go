// Package llm maps chat-model names to the provider configuration needed to
// construct them in a generated swarm project.
package llm

import (
	"fmt"
	"sort"
)

// Config describes how a chat model is instantiated: which provider hosts it,
// the provider's constructor class in the target framework, and the JSON
// argument blob passed to that constructor.
type Config struct {
	Provider string `json:"provider"`
	Class    string `json:"provider_class"`
	Args     string `json:"args"`
}

// models is the static registry of supported chat models.
var models = map[string]Config{
	"gpt-4o-mini": {
		Provider: "openai",
		Class:    "ChatOpenAI",
		Args:     `{"model": "gpt-4o-mini"}`,
	},
	"gpt-4o": {
		Provider: "openai",
		Class:    "ChatOpenAI",
		Args:     `{"model": "gpt-4o"}`,
	},
	"claude-2": {
		Provider: "anthropic",
		Class:    "ChatAnthropic",
		Args:     `{"model": "claude-2"}`,
	},
	"claude-3-5-sonnet": {
		Provider: "anthropic",
		Class:    "ChatAnthropic",
		Args:     `{"model": "claude-3-5-sonnet"}`,
	},
}

// Lookup returns the configuration for a model name.
func Lookup(name string) (Config, error) {
	cfg, ok := models[name]
	if !ok {
		return Config{}, fmt.Errorf("model %q not found", name)
	}
	return cfg, nil
}

// Models lists the supported model names in sorted order.
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvVar returns the environment variable a provider reads its API key from.
func EnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
