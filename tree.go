package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/heathj/goxforms/xforms/markup"
	"github.com/spf13/cobra"
)

type treeOptions struct {
	handlers bool
}

func newTreeCmd(out io.Writer, g *globalOptions) *cobra.Command {
	o := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "print the event targets of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			doc, err := markup.LoadFile(args[0], markup.WithLogger(g.logger(c, cmd.ErrOrStderr())))
			if err != nil {
				return err
			}
			return o.run(out, doc)
		},
	}
	cmd.Flags().BoolVar(&o.handlers, "handlers", false, "also list the event handlers")
	return cmd
}

func (o *treeOptions) run(out io.Writer, doc *markup.Document) error {
	if _, err := fmt.Fprintln(out, doc.Tree.String()); err != nil {
		return err
	}
	if !o.handlers {
		return nil
	}
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.AddRow("HANDLER", "PREFIX", "ANCESTOR")
	for _, h := range doc.Registry.Handlers() {
		tbl.AddRow(h.String(), h.Prefix(), h.AncestorObserverID())
	}
	_, err := fmt.Fprintf(out, "\n%s\n", tbl)
	return err
}
