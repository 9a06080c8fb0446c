package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultEndpoint, s.API.Endpoint)
	assert.Equal(t, 10*time.Second, s.API.Timeout)
	assert.Empty(t, s.API.Token)
	assert.Equal(t, 300*time.Millisecond, s.Search.Debounce)
	assert.Equal(t, 2, s.Search.MinTermLength)
	assert.NoError(t, s.API.Validate())
}

func TestAPISettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings APISettings
		wantErr  bool
	}{
		{"https endpoint", APISettings{Endpoint: "https://example.com/api/creatures"}, false},
		{"missing scheme", APISettings{Endpoint: "example.com/api"}, true},
		{"ftp scheme", APISettings{Endpoint: "ftp://example.com/api"}, true},
		{"no host", APISettings{Endpoint: "http:///api"}, true},
		{"negative timeout", APISettings{Endpoint: "http://x", Timeout: -time.Second}, true},
		{"negative rate", APISettings{Endpoint: "http://x", RateLimit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
