package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/display"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtractTypes(); err != nil {
		return err
	}
	if _, ok := display.Lookup(c.Locale); !ok {
		return fmt.Errorf("locale %q is not supported (use zh or en)", c.Locale)
	}
	if err := c.validateProxy(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if c.Logging.Level != "silent" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	return nil
}

func (c *Config) validateExtractTypes() error {
	for _, name := range c.ExtractTypes {
		if _, ok := core.ParseCategory(name); !ok {
			return fmt.Errorf("extract_types: unknown media category %q", name)
		}
	}
	return nil
}

func (c *Config) validateProxy() error {
	if c.Proxy == "" {
		return nil
	}
	u, err := url.Parse(c.Proxy)
	if err != nil {
		return fmt.Errorf("proxy: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("proxy: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("proxy: missing host")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	if c.FFprobe.TimeoutSeconds <= 0 {
		return errors.New("ffprobe.timeout_seconds must be positive")
	}
	if c.Geo.TimeoutSeconds <= 0 {
		return errors.New("geo.timeout_seconds must be positive")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	return nil
}
