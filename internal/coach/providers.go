package coach

import (
	"errors"
	"os"
	"sort"
)

// Supported providers. Both speak the OpenAI chat API.
const (
	ProviderOpenAI       = "openai"
	ProviderGitHubModels = "github_models"
)

var ErrUnknownProvider = errors.New("unknown debrief provider")

// Provider holds the endpoint defaults of one provider
type Provider struct {
	Name     string
	BaseURL  string
	TokenEnv string
	Model    string
}

var providers = map[string]Provider{
	ProviderOpenAI: {
		Name:     ProviderOpenAI,
		TokenEnv: "OPENAI_API_KEY",
		Model:    "gpt-4o-mini",
	},
	ProviderGitHubModels: {
		Name:     ProviderGitHubModels,
		BaseURL:  "https://models.inference.ai.azure.com",
		TokenEnv: "GITHUB_TOKEN",
		Model:    "gpt-4o-mini",
	},
}

// LookupProvider returns the defaults for name. An empty name means a
// plain OpenAI-compatible endpoint configured entirely by hand.
func LookupProvider(name string) (Provider, bool) {
	if name == "" {
		return Provider{}, true
	}
	p, ok := providers[name]
	return p, ok
}

// Providers lists the provider names, sorted
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve fills what cfg leaves empty from its provider. A missing token is
// read from the provider's environment variable.
func (c Config) Resolve() (Config, error) {
	p, ok := LookupProvider(c.Provider)
	if !ok {
		return c, ErrUnknownProvider
	}
	if c.BaseURL == "" {
		c.BaseURL = p.BaseURL
	}
	if c.Model == "" {
		c.Model = p.Model
	}
	if c.Token == "" && p.TokenEnv != "" {
		c.Token = os.Getenv(p.TokenEnv)
	}
	return c, nil
}
