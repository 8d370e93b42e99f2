package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsharex/lovshot/internal/config"
)

// configCmd inspects or initializes the on-disk configuration.
type configCmd struct {
	action string
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{root: r.subcommand("config")}
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c.fs = fs
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.action = fs.Arg(0)
	switch c.action {
	case "show", "init", "path":
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	loader := config.NewLoader(version, configPathOverride)
	switch c.action {
	case "show":
		fmt.Print(c.config.String())
	case "path":
		fmt.Println(loader.GetConfigPath())
	case "init":
		path := loader.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.New().String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Println(path)
	}
	return nil
}
