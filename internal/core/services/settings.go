package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider    = "embedding.provider"
	KeyEmbedModel       = "embedding.model"
	KeyEmbedBaseURL     = "embedding.base_url"
	KeyEmbedAPIKey      = "embedding.api_key"
	KeyEmbedAPIKeyEnv   = "embedding.api_key_env"
	KeyEmbedDimensions  = "embedding.dimensions"
	KeyEmbedRateLimit   = "embedding.rate_limit"
	KeyServerAddr       = "server.addr"
	KeySchedulerEnabled = "scheduler.enabled"
	KeyCatchupInterval  = "scheduler.catchup_interval"
	KeyWatchEnabled     = "watch.enabled"
	KeyWatchDebounceMS  = "watch.debounce_ms"
)

// SettingsService reads and writes application settings through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// validator may be nil, in which case provider connectivity is not checked.
func NewSettingsService(configStore driven.ConfigStore, validator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
	}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider)
	model := s.getString(KeyEmbedModel, "")
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	dims := s.getInt(KeyEmbedDimensions, 0)
	if dims == 0 && provider == domain.AIProviderHash {
		dims = defaults.Embedding.Dimensions
	}

	interval, err := s.getDuration(KeyCatchupInterval, defaults.Scheduler.CatchupInterval)
	if err != nil {
		return nil, err
	}

	return &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   provider,
			Model:      model,
			BaseURL:    s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:     s.apiKey(),
			Dimensions: dims,
			RateLimit:  s.configStore.GetFloat(KeyEmbedRateLimit),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(KeyServerAddr, defaults.Server.Addr),
		},
		Scheduler: domain.SchedulerSettings{
			Enabled:         s.getBool(KeySchedulerEnabled, defaults.Scheduler.Enabled),
			CatchupInterval: interval,
		},
		Watch: domain.WatchSettings{
			Enabled:  s.getBool(KeyWatchEnabled, defaults.Watch.Enabled),
			Debounce: time.Duration(s.getInt(KeyWatchDebounceMS, int(defaults.Watch.Debounce/time.Millisecond))) * time.Millisecond,
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDimensions, settings.Embedding.Dimensions},
		{KeyEmbedRateLimit, settings.Embedding.RateLimit},
		{KeyServerAddr, settings.Server.Addr},
		{KeySchedulerEnabled, settings.Scheduler.Enabled},
		{KeyCatchupInterval, settings.Scheduler.CatchupInterval.String()},
		{KeyWatchEnabled, settings.Watch.Enabled},
		{KeyWatchDebounceMS, int(settings.Watch.Debounce / time.Millisecond)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// A key that came from the environment is not copied to disk.
	envKey := os.Getenv(s.getString(KeyEmbedAPIKeyEnv, "OPENAI_API_KEY"))
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != envKey {
		if err := s.configStore.Set(KeyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyEmbedAPIKey, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
// Changing provider or model changes the vector space, so callers should
// rebuild the index afterwards.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.APIKey = apiKey
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	switch provider {
	case domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
		settings.Embedding.Dimensions = 0
	case domain.AIProviderOpenAI:
		settings.Embedding.BaseURL = ""
		settings.Embedding.Dimensions = 0
	case domain.AIProviderHash:
		settings.Embedding.BaseURL = ""
		settings.Embedding.Dimensions = domain.DefaultAppSettings().Embedding.Dimensions
	}

	return s.Save(settings)
}

// Validate checks the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not fully configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if settings.Embedding.Dimensions < 0 {
		return fmt.Errorf("%w: embedding.dimensions must not be negative", domain.ErrInvalidInput)
	}
	if settings.Embedding.RateLimit < 0 {
		return fmt.Errorf("%w: embedding.rate_limit must not be negative", domain.ErrInvalidInput)
	}
	if settings.Scheduler.CatchupInterval < 0 {
		return fmt.Errorf("%w: scheduler.catchup_interval must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// ValidateEmbeddingConfig pings the configured embedding provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateEmbedding(&settings.Embedding)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return d, nil
}

// apiKey prefers a key stored in config, then the variable named by
// embedding.api_key_env, then OPENAI_API_KEY.
func (s *SettingsService) apiKey() string {
	if key := s.configStore.GetString(KeyEmbedAPIKey); key != "" {
		return key
	}
	return os.Getenv(s.getString(KeyEmbedAPIKeyEnv, "OPENAI_API_KEY"))
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
