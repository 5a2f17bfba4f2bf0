package main

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	recipes "github.com/goliatone/go-recipes"
)

type commandContext struct {
	configFlag  *string
	sessionFlag *string

	configOnce sync.Once
	config     recipes.Config
	configErr  error
}

func newCommandContext(configFlag, sessionFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		sessionFlag: sessionFlag,
	}
}

// ensureConfig loads the --config file once, or the defaults when no file is
// given, and applies the flag overrides.
func (c *commandContext) ensureConfig() (recipes.Config, error) {
	c.configOnce.Do(func() {
		cfg := recipes.DefaultConfig()
		if path := flagValue(c.configFlag); path != "" {
			loaded, err := recipes.LoadConfig(path)
			if err != nil {
				c.configErr = err
				return
			}
			cfg = loaded
		}
		if session := flagValue(c.sessionFlag); session != "" {
			cfg.Session.Key = session
		}
		if strings.EqualFold(cfg.Logging.Provider, "gologger") && strings.TrimSpace(cfg.Logging.Format) == "" {
			cfg.Logging.Format = "json"
			if stderrIsTerminal() {
				cfg.Logging.Format = "pretty"
			}
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withModule builds the editor for the loaded config and closes it once fn
// returns. Console logs go to the command's stderr.
func (c *commandContext) withModule(cmd *cobra.Command, fn func(*recipes.Module) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	module, err := recipes.New(cmd.Context(), cfg, recipes.WithLogWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer module.Close()
	return fn(module)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
