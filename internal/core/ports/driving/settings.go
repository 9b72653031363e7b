package driving

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// SettingsService reads and writes the persisted configuration. Values are
// addressed by dotted keys such as "summary.ratio"; anything not stored
// falls back to domain.DefaultAppSettings.
type SettingsService interface {
	// Get returns defaults overlaid with stored values and environment
	// secrets.
	Get() (*domain.AppSettings, error)

	// Save writes every setting and persists the store.
	Save(settings *domain.AppSettings) error

	// Set parses value for key, validates the result and persists it.
	// Unknown keys and invalid values wrap domain.ErrInvalidInput.
	Set(key, value string) error

	// SetLLMProvider switches provider, filling the provider's default
	// model and base URL when they are not given.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Values lists every setting by key, secrets unmasked.
	Values() ([]domain.SettingValue, error)

	Validate() error
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig pings the configured provider.
	ValidateLLMConfig(ctx context.Context) error
}
