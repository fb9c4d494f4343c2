package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ankit-chaubey/media-extract/core/config"
	"github.com/ankit-chaubey/media-extract/core/logger"
	"github.com/ankit-chaubey/media-extract/core/source"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig loads the configuration once and applies its log level. The
// --log-level flag wins over the file.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}
		if err := logger.ConfigureFromString(level); err != nil {
			c.configErr = fmt.Errorf("log level: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loader() (*source.Loader, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return source.NewLoader(
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithProxy(cfg.Proxy),
	), nil
}
