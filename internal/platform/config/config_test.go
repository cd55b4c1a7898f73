package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep any repo config file out of the way

	cfg, err := Load("clickatell_service")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "clickatell", cfg.ProviderName)
	assert.Equal(t, "/clickatell", cfg.WebhookPrefix)
	assert.Equal(t, "api.clickatell.com", cfg.ClickatellHost)
	assert.Equal(t, http.MethodPost, cfg.ClickatellHTTPMethod)
	assert.False(t, cfg.ClickatellHTTPS)
	assert.Equal(t, 30*time.Second, cfg.ClickatellHTTPTimeout)
	assert.Empty(t, cfg.NATSUrl)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_CLICKATELL_API_ID", "3460000")
	t.Setenv("APP_CLICKATELL_USER", "kolypto")
	t.Setenv("APP_CLICKATELL_PASSWORD", "1234")
	t.Setenv("APP_CLICKATELL_HTTPS", "true")
	t.Setenv("APP_CLICKATELL_HTTP_METHOD", "get")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := Load("clickatell_service")
	require.NoError(t, err)

	assert.Equal(t, "3460000", cfg.ClickatellAPIID)
	assert.Equal(t, "kolypto", cfg.ClickatellUser)
	assert.Equal(t, "1234", cfg.ClickatellPassword)
	assert.True(t, cfg.ClickatellHTTPS)
	assert.Equal(t, http.MethodGet, cfg.ClickatellHTTPMethod)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := Config{
		ProviderName:         "clickatell",
		ClickatellAPIID:      "10",
		ClickatellUser:       "user",
		ClickatellPassword:   "secret",
		ClickatellHTTPMethod: http.MethodPost,
	}
	require.NoError(t, valid.Validate())

	noCreds := valid
	noCreds.ClickatellUser = ""
	noCreds.ClickatellPassword = ""
	err := noCreds.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLICKATELL_USER")
	assert.Contains(t, err.Error(), "CLICKATELL_PASSWORD")

	badMethod := valid
	badMethod.ClickatellHTTPMethod = http.MethodPut
	assert.ErrorContains(t, badMethod.Validate(), "unsupported CLICKATELL_HTTP_METHOD")

	noName := valid
	noName.ProviderName = ""
	assert.Error(t, noName.Validate())
}
