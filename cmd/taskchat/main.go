package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/elee1766/taskchat/src/config"
)

// CLI represents the main CLI structure
type CLI struct {
	Config    string `short:"c" type:"path" help:"Configuration file applied over the standard locations"`
	LogLevel  string `help:"Log level: debug, info, warn or error (overrides config)"`
	LogFormat string `help:"Log format: text or json (overrides config)"`
	DB        string `name:"db" type:"path" help:"Database path (overrides config)"`
	APIKey    string `name:"api-key" help:"Model API key (overrides config and environment)"`
	Model     string `short:"m" help:"Model to use (overrides config)"`
	User      string `short:"u" env:"TASKCHAT_USER" default:"local" help:"User id for CLI commands"`

	Serve         ServeCmd         `cmd:"" help:"Serve the chat HTTP API"`
	Chat          ChatCmd          `cmd:"" help:"Chat with the assistant"`
	Conversations ConversationsCmd `cmd:"" aliases:"conv" help:"Inspect stored conversations"`
	Tasks         TasksCmd         `cmd:"" help:"List a user's tasks"`
	Tools         ToolsCmd         `cmd:"" help:"Describe the tools offered to the model"`
	Migrate       MigrateCmd       `cmd:"" help:"Database migrations"`
	ConfigCmd     ConfigCmd        `cmd:"" name:"config" help:"Show the effective configuration"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("taskchat"),
		kong.Description("Task assistant you can talk to"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		FatalError(slog.Default(), err)
	}
}

// loadConfig resolves the effective configuration, applying command-line
// overrides last.
func (cli *CLI) loadConfig() (*config.Config, error) {
	paths := config.DefaultPaths()
	paths.Explicit = cli.Config

	cfg, err := config.NewLoader(afero.NewOsFs(), paths).Load()
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}
	if cli.DB != "" {
		cfg.Storage.DatabasePath = cli.DB
	}
	if cli.APIKey != "" {
		cfg.API.APIKey = cli.APIKey
	}
	if cli.Model != "" {
		cfg.Agent.Model = cli.Model
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration and installs the default logger.
func (cli *CLI) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("configuration: %w", err)
	}
	logger := createCLILogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
