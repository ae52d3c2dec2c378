package main

import (
	"strings"
	"sync"

	"cardsort/internal/config"
)

type commandContext struct {
	addrFlag   *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addrFlag, configFlag *string) *commandContext {
	return &commandContext{
		addrFlag:   addrFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// baseURL resolves the daemon address: the --addr flag wins, then the
// configured bind address, then the compiled-in default.
func (c *commandContext) baseURL() string {
	if c.addrFlag != nil {
		if addr := strings.TrimSpace(*c.addrFlag); addr != "" {
			return "http://" + addr
		}
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		if bind := strings.TrimSpace(cfg.Paths.APIBind); bind != "" {
			return "http://" + bind
		}
	}
	return "http://127.0.0.1:7680"
}

func (c *commandContext) client() *apiClient {
	return newAPIClient(c.baseURL())
}
