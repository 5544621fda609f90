package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths() Paths {
	return Paths{
		UserConfig:    "/home/u/.config/taskchat/config.json",
		ProjectConfig: "/work/.taskchat/config.json",
		LocalConfig:   "/work/.taskchat/config.local.json",
		DotEnv:        "/work/.env",
	}
}

func newTestLoader(t *testing.T, files map[string]string, environ map[string]string) *Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
	}
	l := NewLoader(fsys, testPaths())
	if environ == nil {
		environ = map[string]string{}
	}
	l.Environ = environ
	return l
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, ProviderOpenRouter, config.API.Provider)
	assert.Equal(t, DefaultModel, config.Agent.Model)
	assert.Equal(t, 1, config.Agent.MaxToolRounds)
	assert.Equal(t, 60*time.Second, config.Agent.ModelTimeout.Std())
	assert.Equal(t, "X-User-ID", config.Server.UserHeader)
	assert.NoError(t, NewValidator().Validate(config))
}

func TestConfigValidation(t *testing.T) {
	validator := NewValidator()
	temp := 3.0

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid temperature",
			mutate:  func(c *Config) { c.Agent.Temperature = &temp },
			wantErr: "agent.temperature",
		},
		{
			name:    "negative max tokens",
			mutate:  func(c *Config) { c.Agent.MaxTokens = -1 },
			wantErr: "agent.max_tokens",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.API.Provider = "anthropic" },
			wantErr: "unknown provider",
		},
		{
			name:    "zero tool rounds",
			mutate:  func(c *Config) { c.Agent.MaxToolRounds = 0 },
			wantErr: "agent.max_tool_rounds",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "unknown log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "unknown log format",
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.Agent.Model = "" },
			wantErr: "agent.model: is required",
		},
		{
			name:    "bad base url",
			mutate:  func(c *Config) { c.API.BaseURL = "not a url" },
			wantErr: "api.base_url: must be a URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := validator.Validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidationReportsEveryField(t *testing.T) {
	c := DefaultConfig()
	c.Agent.Model = ""
	c.Server.Addr = ""

	err := NewValidator().Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.model")
	assert.Contains(t, err.Error(), "server.addr")
}

func TestLoadDefaultsWhenNothingExists(t *testing.T) {
	l := newTestLoader(t, nil, nil)

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, config.Agent.Model)
	assert.Empty(t, config.API.APIKey)
}

func TestLoadPrecedence(t *testing.T) {
	files := map[string]string{
		"/home/u/.config/taskchat/config.json": `{"agent":{"model":"user-model","history_limit":10},"api":{"timeout":"5s"}}`,
		"/work/.taskchat/config.json":          `{"agent":{"model":"project-model"}}`,
		"/work/.taskchat/config.local.json":    `{"server":{"addr":":9000"}}`,
		"/work/.env":                           "TASKCHAT_SERVER_ADDR=:9100\nTASKCHAT_AGENT_TITLE_LENGTH=20\n",
	}
	environ := map[string]string{
		"TASKCHAT_AGENT_TITLE_LENGTH": "30",
		"TASKCHAT_AGENT_MODEL_TIMEOUT": "15s",
	}
	l := newTestLoader(t, files, environ)

	config, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "project-model", config.Agent.Model, "project overrides user")
	assert.Equal(t, 10, config.Agent.HistoryLimit, "user value survives later files")
	assert.Equal(t, 5*time.Second, config.API.Timeout.Std())
	assert.Equal(t, ":9100", config.Server.Addr, ".env overrides files")
	assert.Equal(t, 30, config.Agent.TitleLength, "environment overrides .env")
	assert.Equal(t, 15*time.Second, config.Agent.ModelTimeout.Std())
	assert.Equal(t, "X-User-ID", config.Server.UserHeader, "untouched defaults remain")
}

func TestLoadExplicitFile(t *testing.T) {
	files := map[string]string{
		"/work/.taskchat/config.json": `{"agent":{"model":"project-model"}}`,
		"/tmp/custom.json":            `{"agent":{"model":"custom-model"}}`,
	}
	l := newTestLoader(t, files, nil)
	l.Paths.Explicit = "/tmp/custom.json"

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "custom-model", config.Agent.Model)

	l.Paths.Explicit = "/tmp/missing.json"
	_, err = l.Load()
	assert.Error(t, err, "an explicit file must exist")
}

func TestLoadAPIKeyFallback(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{
			name:    "openrouter key",
			environ: map[string]string{"OPENROUTER_API_KEY": "or-key"},
			want:    "or-key",
		},
		{
			name: "prefixed key wins",
			environ: map[string]string{
				"OPENROUTER_API_KEY": "or-key",
				"TASKCHAT_API_KEY":   "tc-key",
			},
			want: "tc-key",
		},
		{
			name: "openai provider uses its own variable",
			environ: map[string]string{
				"TASKCHAT_API_PROVIDER": "openai",
				"OPENROUTER_API_KEY":    "or-key",
				"OPENAI_API_KEY":        "oa-key",
			},
			want: "oa-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := newTestLoader(t, nil, tt.environ).Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, config.API.APIKey)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		environ map[string]string
		wantErr string
	}{
		{
			name:    "malformed json",
			files:   map[string]string{"/work/.taskchat/config.json": `{"agent":`},
			wantErr: "project config",
		},
		{
			name:    "unknown key",
			files:   map[string]string{"/work/.taskchat/config.json": `{"agent":{"modle":"x"}}`},
			wantErr: "unknown field",
		},
		{
			name:    "bad duration in file",
			files:   map[string]string{"/work/.taskchat/config.json": `{"api":{"timeout":"soon"}}`},
			wantErr: "invalid duration",
		},
		{
			name:    "bad number in environment",
			environ: map[string]string{"TASKCHAT_AGENT_MAX_TOOL_ROUNDS": "many"},
			wantErr: "environment overrides",
		},
		{
			name:    "invalid value after merge",
			environ: map[string]string{"TASKCHAT_AGENT_MAX_TOOL_ROUNDS": "0"},
			wantErr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(t, tt.files, tt.environ).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmptyFileIsIgnored(t *testing.T) {
	l := newTestLoader(t, map[string]string{"/work/.taskchat/config.json": "  \n"}, nil)
	_, err := l.Load()
	assert.NoError(t, err)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	out, err := json.Marshal(struct {
		D Duration `json:"d"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"1m30s"}`, string(out))

	assert.Error(t, d.UnmarshalText([]byte("90")))
}

func TestRedacted(t *testing.T) {
	c := DefaultConfig()
	c.API.APIKey = "secret"

	r := c.Redacted()
	assert.Equal(t, "********", r.API.APIKey)
	assert.Equal(t, "secret", c.API.APIKey)

	r.Server.AllowedOrigins[0] = "changed"
	assert.Equal(t, "*", c.Server.AllowedOrigins[0])
}
