package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds document metadata and the server URLs advertised to clients.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Servers != nil {
		c.Servers = overlay.Servers
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Roster API"
	}
	if c.Description == "" {
		c.Description = "Dynamic-field record store over a JSON document collection."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if v := os.Getenv(env.Title); env.Title != "" && v != "" {
		c.Title = v
	}
	if v := os.Getenv(env.Description); env.Description != "" && v != "" {
		c.Description = v
	}
	if v := os.Getenv(env.Servers); env.Servers != "" && v != "" {
		c.Servers = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
}

func (c *Config) validate() error {
	for _, s := range c.Servers {
		if _, err := url.Parse(s); err != nil {
			return fmt.Errorf("invalid server url %q: %w", s, err)
		}
	}
	return nil
}
