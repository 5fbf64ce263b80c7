package main

import (
	"io"

	"github.com/heathj/goxforms/xforms/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const globalUsage = `goxforms inspects XForms documents and replays events through them.

Markup is XHTML with XForms, XML Events and XBL. Dispatcher settings are read
from an optional YAML file given with --config.
`

type globalOptions struct {
	configPath string
	logLevel   string
}

// load returns the configuration with command line overrides applied.
func (o *globalOptions) load() (*config.Config, error) {
	c := config.Default()
	if o.configPath != "" {
		var err error
		if c, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.logLevel != "" {
		c.LogLevel = o.logLevel
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (o *globalOptions) logger(c *config.Config, out io.Writer) *logrus.Logger {
	l := c.NewLogger()
	l.SetOutput(out)
	return l
}

func newRootCmd(out io.Writer, args []string) *cobra.Command {
	o := &globalOptions{}
	cmd := &cobra.Command{
		Use:          "goxforms",
		Short:        "XForms event dispatch toolkit",
		Long:         globalUsage,
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetArgs(args)

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&o.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newEventsCmd(out),
		newTreeCmd(out, o),
		newDispatchCmd(out, o),
	)
	return cmd
}
