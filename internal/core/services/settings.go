package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Environment variables that override stored secrets.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvLLMAPIKey       = "DIGEST_LLM_API_KEY"
	EnvTranslateAPIKey = "DIGEST_TRANSLATE_API_KEY"
)

// settingKey binds one dotted config key to a field of AppSettings.
type settingKey struct {
	name   string
	secret bool

	// parse converts a command-line value to the stored representation.
	parse func(string) (any, error)

	// load copies the stored value, if any, into settings.
	load func(s *SettingsService, a *domain.AppSettings)

	// value returns the field as it is stored.
	value func(a *domain.AppSettings) any
}

// settingKeys lists every persisted setting in display order.
var settingKeys = []settingKey{
	{name: "llm.provider", parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.LLM.Provider = domain.AIProvider(s.getString("llm.provider", string(a.LLM.Provider))) },
		value: func(a *domain.AppSettings) any { return a.LLM.Provider.String() }},
	{name: "llm.model", parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.LLM.Model = s.getString("llm.model", a.LLM.Model) },
		value: func(a *domain.AppSettings) any { return a.LLM.Model }},
	{name: "llm.base_url", parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.LLM.BaseURL = s.getString("llm.base_url", a.LLM.BaseURL) },
		value: func(a *domain.AppSettings) any { return a.LLM.BaseURL }},
	{name: "llm.api_key", secret: true, parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.LLM.APIKey = s.secret(EnvLLMAPIKey, "llm.api_key") },
		value: func(a *domain.AppSettings) any { return a.LLM.APIKey }},

	{name: "summary.algorithm", parse: parseAlgorithm,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Summary.Algorithm = domain.Algorithm(s.getString("summary.algorithm", string(a.Summary.Algorithm)))
		},
		value: func(a *domain.AppSettings) any { return a.Summary.Algorithm.String() }},
	{name: "summary.ratio", parse: parseFloat,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.Ratio = s.getFloat("summary.ratio", a.Summary.Ratio) },
		value: func(a *domain.AppSettings) any { return a.Summary.Ratio }},
	{name: "summary.max_length", parse: parseInt,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.MaxLength = s.getInt("summary.max_length", a.Summary.MaxLength) },
		value: func(a *domain.AppSettings) any { return a.Summary.MaxLength }},
	{name: "summary.min_length", parse: parseInt,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.MinLength = s.getInt("summary.min_length", a.Summary.MinLength) },
		value: func(a *domain.AppSettings) any { return a.Summary.MinLength }},
	{name: "summary.chunk_words", parse: parseInt,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.ChunkWords = s.getInt("summary.chunk_words", a.Summary.ChunkWords) },
		value: func(a *domain.AppSettings) any { return a.Summary.ChunkWords }},
	{name: "summary.min_chunk_chars", parse: parseInt,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Summary.MinChunkChars = s.getInt("summary.min_chunk_chars", a.Summary.MinChunkChars)
		},
		value: func(a *domain.AppSettings) any { return a.Summary.MinChunkChars }},
	{name: "summary.workers", parse: parseInt,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.Workers = s.getInt("summary.workers", a.Summary.Workers) },
		value: func(a *domain.AppSettings) any { return a.Summary.Workers }},
	{name: "summary.cache_size", parse: parseInt,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.CacheSize = s.getInt("summary.cache_size", a.Summary.CacheSize) },
		value: func(a *domain.AppSettings) any { return a.Summary.CacheSize }},
	{name: "summary.cache_ttl", parse: parseDuration,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.CacheTTL = s.getDuration("summary.cache_ttl", a.Summary.CacheTTL) },
		value: func(a *domain.AppSettings) any { return a.Summary.CacheTTL.String() }},
	{name: "summary.timeout", parse: parseDuration,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Summary.Timeout = s.getDuration("summary.timeout", a.Summary.Timeout) },
		value: func(a *domain.AppSettings) any { return a.Summary.Timeout.String() }},

	{name: "cleaning.remove_stopwords", parse: parseBool,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Cleaning.RemoveStopwords = s.getBool("cleaning.remove_stopwords", a.Cleaning.RemoveStopwords)
		},
		value: func(a *domain.AppSettings) any { return a.Cleaning.RemoveStopwords }},
	{name: "cleaning.normalize_whitespace", parse: parseBool,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Cleaning.NormalizeWhitespace = s.getBool("cleaning.normalize_whitespace", a.Cleaning.NormalizeWhitespace)
		},
		value: func(a *domain.AppSettings) any { return a.Cleaning.NormalizeWhitespace }},
	{name: "cleaning.remove_special_chars", parse: parseBool,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Cleaning.RemoveSpecialChars = s.getBool("cleaning.remove_special_chars", a.Cleaning.RemoveSpecialChars)
		},
		value: func(a *domain.AppSettings) any { return a.Cleaning.RemoveSpecialChars }},
	{name: "cleaning.min_sentence_length", parse: parseInt,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Cleaning.MinSentenceLength = s.getInt("cleaning.min_sentence_length", a.Cleaning.MinSentenceLength)
		},
		value: func(a *domain.AppSettings) any { return a.Cleaning.MinSentenceLength }},

	{name: "translation.provider", parse: parseString,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Translation.Provider = domain.TranslationProvider(s.getString("translation.provider", string(a.Translation.Provider)))
		},
		value: func(a *domain.AppSettings) any { return a.Translation.Provider.String() }},
	{name: "translation.libre_url", parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Translation.LibreURL = s.getString("translation.libre_url", a.Translation.LibreURL) },
		value: func(a *domain.AppSettings) any { return a.Translation.LibreURL }},
	{name: "translation.api_key", secret: true, parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Translation.APIKey = s.secret(EnvTranslateAPIKey, "translation.api_key") },
		value: func(a *domain.AppSettings) any { return a.Translation.APIKey }},
	{name: "translation.requests_per_second", parse: parseFloat,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Translation.RequestsPerSecond = s.getFloat("translation.requests_per_second", a.Translation.RequestsPerSecond)
		},
		value: func(a *domain.AppSettings) any { return a.Translation.RequestsPerSecond }},

	{name: "storage.backend", parse: parseString,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Storage.Backend = domain.StorageBackend(s.getString("storage.backend", string(a.Storage.Backend)))
		},
		value: func(a *domain.AppSettings) any { return a.Storage.Backend.String() }},
	{name: "storage.data_dir", parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Storage.DataDir = s.getString("storage.data_dir", a.Storage.DataDir) },
		value: func(a *domain.AppSettings) any { return a.Storage.DataDir }},

	{name: "server.addr", parse: parseString,
		load:  func(s *SettingsService, a *domain.AppSettings) { a.Server.Addr = s.getString("server.addr", a.Server.Addr) },
		value: func(a *domain.AppSettings) any { return a.Server.Addr }},
	{name: "server.request_timeout", parse: parseDuration,
		load: func(s *SettingsService, a *domain.AppSettings) {
			a.Server.RequestTimeout = s.getDuration("server.request_timeout", a.Server.RequestTimeout)
		},
		value: func(a *domain.AppSettings) any { return a.Server.RequestTimeout.String() }},
}

// SettingsService manages application settings stored under dotted keys.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// SettingKeys returns the names of all settings in display order.
func SettingKeys() []string {
	out := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		out[i] = k.name
	}
	return out
}

// IsSecretKey reports whether a setting holds a credential.
func IsSecretKey(name string) bool {
	for _, k := range settingKeys {
		if k.name == name {
			return k.secret
		}
	}
	return false
}

// Values returns every setting in display order. Secrets are returned in
// full; callers mask them.
func (s *SettingsService) Values() ([]domain.SettingValue, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	out := make([]domain.SettingValue, len(settingKeys))
	for i, k := range settingKeys {
		_, stored := s.configStore.Get(k.name)
		if k.secret {
			stored = stored || s.fromEnv(k.name, k.value(settings))
		}
		out[i] = domain.SettingValue{
			Key:    k.name,
			Value:  fmt.Sprint(k.value(settings)),
			Secret: k.secret,
			Stored: stored,
		}
	}
	return out, nil
}

// Get retrieves current application settings: defaults overlaid with
// stored values, with secrets taken from the environment first.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	for _, k := range settingKeys {
		k.load(s, &settings)
	}
	return &settings, nil
}

// Save persists application settings. Empty secrets are not written so a
// key supplied through the environment never lands in the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	for _, k := range settingKeys {
		v := k.value(settings)
		if k.secret && v == "" {
			continue
		}
		if k.secret && s.fromEnv(k.name, v) {
			continue
		}
		if err := s.configStore.Set(k.name, v); err != nil {
			return fmt.Errorf("save %s: %w", k.name, err)
		}
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Set updates one setting from its string form. A value that does not
// parse or leaves the settings invalid is rejected with
// domain.ErrInvalidInput and nothing is stored.
func (s *SettingsService) Set(key, value string) error {
	idx := slices.IndexFunc(settingKeys, func(k settingKey) bool { return k.name == key })
	if idx < 0 {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := settingKeys[idx].parse(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	// Validate against the candidate value before touching the store.
	candidate := &SettingsService{
		configStore: &overlayStore{ConfigStore: s.configStore, key: key, value: parsed},
		lookupEnv:   s.lookupEnv,
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = settings.LLM.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

func validateSettings(a *domain.AppSettings) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
	}

	if a.LLM.Provider != "" && !a.LLM.Provider.IsValid() {
		return invalid("invalid LLM provider: %s", a.LLM.Provider)
	}
	if _, err := domain.ParseAlgorithm(string(a.Summary.Algorithm)); err != nil {
		return err
	}
	if math.IsNaN(a.Summary.Ratio) || a.Summary.Ratio <= 0 || a.Summary.Ratio > 1 {
		return invalid("summary.ratio %v outside (0, 1]", a.Summary.Ratio)
	}
	if a.Summary.MaxLength <= 0 || a.Summary.MinLength < 0 || a.Summary.MinLength > a.Summary.MaxLength {
		return invalid("summary lengths min=%d max=%d", a.Summary.MinLength, a.Summary.MaxLength)
	}
	if a.Summary.ChunkWords <= 0 || a.Summary.MinChunkChars < 0 {
		return invalid("summary chunking words=%d min_chars=%d", a.Summary.ChunkWords, a.Summary.MinChunkChars)
	}
	if a.Summary.Workers <= 0 || a.Summary.CacheSize <= 0 {
		return invalid("summary.workers and summary.cache_size must be positive")
	}
	if a.Cleaning.MinSentenceLength < 0 {
		return invalid("cleaning.min_sentence_length must not be negative")
	}
	if !a.Translation.Provider.IsValid() {
		return invalid("invalid translation provider: %s", a.Translation.Provider)
	}
	if a.Translation.RequestsPerSecond <= 0 {
		return invalid("translation.requests_per_second must be positive")
	}
	if !a.Storage.Backend.IsValid() {
		return invalid("invalid storage backend: %s", a.Storage.Backend)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig pings the configured LLM provider. Without a validator
// it succeeds.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
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

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil {
		return defaultVal
	}
	return d
}

// secret prefers the environment variable over the stored value.
func (s *SettingsService) secret(env, key string) string {
	if v, ok := s.lookupEnv(env); ok && v != "" {
		return v
	}
	return s.configStore.GetString(key)
}

// fromEnv reports whether value for key came from the environment.
func (s *SettingsService) fromEnv(key string, value any) bool {
	env := map[string]string{"llm.api_key": EnvLLMAPIKey, "translation.api_key": EnvTranslateAPIKey}[key]
	v, ok := s.lookupEnv(env)
	return ok && v != "" && v == value
}

// overlayStore reports one key with a pending value.
type overlayStore struct {
	driven.ConfigStore
	key   string
	value any
}

func (o *overlayStore) Get(key string) (any, bool) {
	if key == o.key {
		return o.value, true
	}
	return o.ConfigStore.Get(key)
}

func (o *overlayStore) GetString(key string) string {
	if key == o.key {
		v, _ := o.value.(string)
		return v
	}
	return o.ConfigStore.GetString(key)
}

func (o *overlayStore) GetInt(key string) int {
	if key == o.key {
		return int(o.GetFloat(key))
	}
	return o.ConfigStore.GetInt(key)
}

func (o *overlayStore) GetFloat(key string) float64 {
	if key != o.key {
		return o.ConfigStore.GetFloat(key)
	}
	switch v := o.value.(type) {
	case int:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

func (o *overlayStore) GetBool(key string) bool {
	if key == o.key {
		v, _ := o.value.(bool)
		return v
	}
	return o.ConfigStore.GetBool(key)
}

func parseString(v string) (any, error) {
	return strings.TrimSpace(v), nil
}

func parseInt(v string) (any, error) {
	return strconv.Atoi(strings.TrimSpace(v))
}

func parseFloat(v string) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func parseBool(v string) (any, error) {
	return strconv.ParseBool(strings.TrimSpace(v))
}

func parseDuration(v string) (any, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return nil, err
	}
	return d.String(), nil
}

func parseAlgorithm(v string) (any, error) {
	alg, err := domain.ParseAlgorithm(v)
	if err != nil {
		return nil, err
	}
	return alg.String(), nil
}
