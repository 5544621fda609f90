package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// EnvPrefix prefixes every environment override, e.g. TASKCHAT_AGENT_MODEL.
const EnvPrefix = "TASKCHAT_"

// Loader handles loading and merging configurations from multiple sources
type Loader struct {
	Fs    afero.Fs
	Paths Paths
	// Environ replaces the process environment when set.
	Environ map[string]string

	validator *Validator
}

// NewLoader creates a new configuration loader reading from fsys
func NewLoader(fsys afero.Fs, paths Paths) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Loader{
		Fs:        fsys,
		Paths:     paths,
		validator: NewValidator(),
	}
}

// Load applies, in order: defaults, the user, project and local files, the
// .env file, then the environment. The result is validated.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	sources := []struct {
		name string
		path string
	}{
		{"user", l.Paths.UserConfig},
		{"project", l.Paths.ProjectConfig},
		{"local", l.Paths.LocalConfig},
	}
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if err := l.overlayFile(config, src.path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load %s config from %s: %w", src.name, src.path, err)
		}
	}
	if l.Paths.Explicit != "" {
		if err := l.overlayFile(config, l.Paths.Explicit); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", l.Paths.Explicit, err)
		}
	}

	environ, err := l.environment()
	if err != nil {
		return nil, err
	}
	if err := applyEnvironment(config, environ); err != nil {
		return nil, err
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// overlayFile decodes path on top of config; keys absent from the file keep
// their current values.
func (l *Loader) overlayFile(config *Config, path string) error {
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// environment merges the .env file beneath the process environment.
func (l *Loader) environment() (map[string]string, error) {
	out := map[string]string{}
	if l.Paths.DotEnv != "" {
		f, err := l.Fs.Open(l.Paths.DotEnv)
		switch {
		case err == nil:
			vars, perr := godotenv.Parse(f)
			f.Close()
			if perr != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", l.Paths.DotEnv, perr)
			}
			for k, v := range vars {
				out[k] = v
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to open %s: %w", l.Paths.DotEnv, err)
		}
	}

	environ := l.Environ
	if environ == nil {
		environ = processEnviron()
	}
	for k, v := range environ {
		out[k] = v
	}
	return out, nil
}

func applyEnvironment(config *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(config, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// provider-native key variables are honored when no explicit key is set
	if config.API.APIKey == "" {
		switch config.API.Provider {
		case ProviderOpenAI:
			config.API.APIKey = environ["OPENAI_API_KEY"]
		default:
			config.API.APIKey = environ["OPENROUTER_API_KEY"]
		}
	}
	return nil
}

func processEnviron() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}
