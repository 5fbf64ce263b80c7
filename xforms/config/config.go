package config

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/heathj/goxforms/xforms/dispatch"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the YAML configuration of a document: the dispatcher settings
// inline, plus logging.
//
//	allowCustomEvents: true
//	maxDispatchDepth: 32
//	externalEvents: [my-event]
//	logLevel: debug
type Config struct {
	dispatch.Settings

	LogLevel  string `json:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty"`
}

func Default() *Config {
	return &Config{
		Settings: dispatch.Settings{
			MaxDispatchDepth: dispatch.DefaultMaxDispatchDepth,
		},
		LogLevel:  logrus.InfoLevel.String(),
		LogFormat: "text",
	}
}

// Load reads and validates the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return c, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if c.MaxDispatchDepth < 0 {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "maxDispatchDepth must not be negative, got %d", c.MaxDispatchDepth))
	}
	if _, err := logrus.ParseLevel(c.level()); err != nil {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "logLevel: %v", err))
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "logFormat must be text or json, got %q", c.LogFormat))
	}
	for _, name := range c.ExternalEvents {
		if events.IsBuiltIn(name) {
			result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "externalEvents: %s is a built-in event", name))
		}
	}
	return result.ErrorOrNil()
}

func (c *Config) level() string {
	if c.LogLevel == "" {
		return logrus.InfoLevel.String()
	}
	return c.LogLevel
}

// NewLogger returns a logger configured from c. The config must be valid.
func (c *Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.level()); err == nil {
		l.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	return out, errors.Wrap(err, "marshaling config")
}
