package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHash is the offline deterministic hashing embedder.
	AIProviderHash AIProvider = "hash"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHash, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHash
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHash:
		return "Hash (offline, deterministic)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama, or an OpenAI-compatible proxy).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size. Zero means the model default.
	Dimensions int

	// RateLimit caps embedding requests per second. Zero disables the limit.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address, e.g. "127.0.0.1:8000".
	Addr string
}

// SchedulerSettings holds background catch-up configuration.
type SchedulerSettings struct {
	// Enabled turns the periodic catch-up on or off.
	Enabled bool

	// CatchupInterval is how often the incremental reconcile runs.
	CatchupInterval time.Duration
}

// WatchSettings holds memo directory watcher configuration.
type WatchSettings struct {
	// Enabled starts the watcher alongside long-running commands.
	Enabled bool

	// Debounce is how long to wait after the last change before reconciling.
	Debounce time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Server    ServerSettings
	Scheduler SchedulerSettings
	Watch     WatchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The hash embedder works offline so a fresh install can create and search memos.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHash,
			Model:      DefaultEmbeddingModels()[AIProviderHash],
			Dimensions: 256,
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:8000",
		},
		Scheduler: SchedulerSettings{
			Enabled:         true,
			CatchupInterval: 30 * time.Minute,
		},
		Watch: WatchSettings{
			Enabled:  false,
			Debounce: 2 * time.Second,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderHash, AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels returns the default model for each provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHash:   "md5-hash",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}
