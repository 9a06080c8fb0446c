package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEndpoint      = "api.endpoint"
	KeyTimeout       = "api.timeout"
	KeyToken         = "api.token"
	KeyRateLimit     = "api.rate_limit"
	KeyDebounce      = "search.debounce"
	KeyMinTermLength = "search.min_length"
)

// settingKeys lists recognised keys in display order.
var settingKeys = []string{
	KeyEndpoint,
	KeyTimeout,
	KeyToken,
	KeyRateLimit,
	KeyDebounce,
	KeyMinTermLength,
}

// configValue is a key and the value persisted for it.
type configValue struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or unparsable values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			Endpoint:  s.getString(KeyEndpoint, defaults.API.Endpoint),
			Timeout:   s.getDuration(KeyTimeout, defaults.API.Timeout),
			Token:     s.configStore.GetString(KeyToken),
			RateLimit: s.getFloat(KeyRateLimit, defaults.API.RateLimit),
		},
		Search: domain.SearchSettings{
			Debounce:      s.getDuration(KeyDebounce, defaults.Search.Debounce),
			MinTermLength: s.getInt(KeyMinTermLength, defaults.Search.MinTermLength),
		},
	}

	if err := settings.API.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.API.Validate(); err != nil {
		return err
	}

	values := []configValue{
		{KeyEndpoint, settings.API.Endpoint},
		{KeyTimeout, settings.API.Timeout.String()},
		{KeyRateLimit, settings.API.RateLimit},
		{KeyDebounce, settings.Search.Debounce.String()},
		{KeyMinTermLength, settings.Search.MinTermLength},
	}
	if settings.API.Token != "" {
		values = append(values, configValue{KeyToken, settings.API.Token})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for the given key and persists it.
func (s *SettingsService) Set(key, value string) error {
	var parsed any

	switch key {
	case KeyEndpoint:
		if err := (domain.APISettings{Endpoint: value}).Validate(); err != nil {
			return err
		}
		parsed = value
	case KeyToken:
		parsed = value
	case KeyTimeout, KeyDebounce:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration like 300ms", domain.ErrInvalidInput, key)
		}
		parsed = d.String()
	case KeyRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case KeyMinTermLength:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns the recognised config keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return def
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	if v := s.configStore.GetFloat(key); v >= 0 {
		return v
	}
	return def
}

func (s *SettingsService) getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
