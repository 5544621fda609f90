package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/aymanbagabas/go-udiff"

	"github.com/elee1766/taskchat/src/config"
)

// ConfigCmd prints the effective configuration with secrets masked
type ConfigCmd struct {
	Diff bool `short:"d" help:"Show only what differs from the defaults, as a unified diff"`
}

func (c *ConfigCmd) Run(kctx *kong.Context, cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if c.Diff {
		return printConfigDiff(os.Stdout, config.DefaultConfig(), cfg)
	}
	return writeJSON(os.Stdout, cfg.Redacted())
}

func printConfigDiff(w io.Writer, base, effective *config.Config) error {
	before, err := json.MarshalIndent(base.Redacted(), "", "  ")
	if err != nil {
		return err
	}
	after, err := json.MarshalIndent(effective.Redacted(), "", "  ")
	if err != nil {
		return err
	}
	diff := udiff.Unified("defaults", "effective", string(before)+"\n", string(after)+"\n")
	if diff == "" {
		_, err := io.WriteString(w, "configuration matches the defaults\n")
		return err
	}
	return highlight(w, diff, "diff")
}
