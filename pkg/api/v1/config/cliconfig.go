package config

import (
	"fmt"
	"time"

	"github.com/koding/multiconfig"
	"github.com/sirupsen/logrus"
)

const EnvPrefix = "DASHBOARD"

type CliConfig struct {
	Listen string `default:":8080"`

	// SessionTTL how long an untouched browser session is kept in memory.
	SessionTTL    string `default:"30m"`
	SessionCookie string `default:"dashboard_session"`

	// MQTTListen enables the embedded broker when set, for example ":1883".
	MQTTListen string
	MQTTTopic  string `default:"dashboard"`

	LogLevel string `default:"info"`
}

func (c *CliConfig) SessionTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("error parsing SessionTTL: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("SessionTTL must be positive got %s", d)
	}
	return d, nil
}

func (c *CliConfig) MQTTEnabled() bool {
	return c.MQTTListen != ""
}

// Load reads defaults, DASHBOARD_* environment variables and then args as flags.
func Load(args []string) (*CliConfig, error) {
	c := &CliConfig{}
	loader := multiconfig.MultiLoader(
		&multiconfig.TagLoader{},
		&multiconfig.EnvironmentLoader{Prefix: EnvPrefix},
		&multiconfig.FlagLoader{EnvPrefix: EnvPrefix, Args: args},
	)
	err := loader.Load(c)
	if err != nil {
		return nil, err
	}
	if _, err := c.SessionTimeout(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CliConfig) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("error setting logrus loglevel: %w", err)
	}
	return lvl, nil
}
