package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/roster/pkg/formatting"
	"github.com/JaimeStill/roster/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ROSTER_CORS_ENABLED",
	Origins:          "ROSTER_CORS_ORIGINS",
	AllowedMethods:   "ROSTER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ROSTER_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "ROSTER_CORS_EXPOSED_HEADERS",
	AllowCredentials: "ROSTER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ROSTER_CORS_MAX_AGE",
}

// APIConfig holds data module routing, request limits, field allow-list, and CORS settings.
type APIConfig struct {
	BasePath        string                `toml:"base_path"`
	MaxBodySize     string                `toml:"max_body_size"`
	QueryableFields []string              `toml:"queryable_fields"`
	CORS            middleware.CORSConfig `toml:"cors"`
}

// MaxBodySizeBytes returns MaxBodySize as a byte count.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024 // 1MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.QueryableFields != nil {
		c.QueryableFields = overlay.QueryableFields
	}

	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/data"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if len(c.QueryableFields) == 0 {
		c.QueryableFields = []string{"name", "age", "email", "id"}
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("ROSTER_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("ROSTER_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
	if v := os.Getenv("ROSTER_API_QUERYABLE_FIELDS"); v != "" {
		fields := strings.Split(v, ",")
		c.QueryableFields = make([]string, 0, len(fields))
		for _, field := range fields {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				c.QueryableFields = append(c.QueryableFields, trimmed)
			}
		}
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path: %q", c.BasePath)
	}
	return nil
}
