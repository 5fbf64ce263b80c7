package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/spf13/cobra"
)

type eventsOptions struct {
	fatalOnly bool
	prefix    string
}

func newEventsCmd(out io.Writer) *cobra.Command {
	o := &eventsOptions{}
	cmd := &cobra.Command{
		Use:   "events",
		Short: "list the built-in events and their flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(out)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.fatalOnly, "fatal", false, "only list fatal exception events")
	f.StringVar(&o.prefix, "prefix", "", "only list events whose name starts with prefix")
	return cmd
}

func (o *eventsOptions) run(out io.Writer) error {
	tbl := uitable.New()
	tbl.AddRow("NAME", "BUBBLES", "CANCELABLE", "FATAL")
	for _, e := range events.Catalog() {
		if o.fatalOnly && !e.Fatal {
			continue
		}
		if !strings.HasPrefix(e.Name, o.prefix) {
			continue
		}
		tbl.AddRow(e.Name, e.Bubbles, e.Cancelable, e.Fatal)
	}
	_, err := fmt.Fprintln(out, tbl)
	return err
}
