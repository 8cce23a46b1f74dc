package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.Dataset.Kind = strings.ToLower(strings.TrimSpace(c.Dataset.Kind))
	c.Dataset.Encoding = strings.ToLower(strings.TrimSpace(c.Dataset.Encoding))
	c.Dataset.TimeFormat = strings.ToLower(strings.TrimSpace(c.Dataset.TimeFormat))
	c.Storage.Source = strings.ToLower(strings.TrimSpace(c.Storage.Source))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Dataset.Name == "" && c.Dataset.Kind != "" {
		c.Dataset.Name = fmt.Sprintf("%s-%d", c.Dataset.Kind, c.Dataset.Vintage)
	}
	if c.Dataset.Encoding == "latin1" || c.Dataset.Encoding == "iso-8859-1" {
		c.Dataset.Encoding = "latin-1"
	}

	if v := os.Getenv("PLANTLAB_POSTGRES_DSN"); v != "" && c.Storage.PostgresDSN == "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("PLANTLAB_CLICKHOUSE_DSN"); v != "" && c.Storage.ClickhouseDSN == "" {
		c.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("PLANTLAB_OUTPUT_DIR"); v != "" && c.Output.Dir == defaultOutputDir {
		c.Output.Dir = v
	}
	return nil
}
