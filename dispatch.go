package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/heathj/goxforms/xforms/action"
	"github.com/heathj/goxforms/xforms/dispatch"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/heathj/goxforms/xforms/markup"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const dispatchDesc = `
Load a document, dispatch one event to a target and print every handler
invocation the event caused, nested dispatches included.

With --external the event goes through the client event checks first, the
way an event sent by a browser would.
`

type dispatchOptions struct {
	event         string
	target        string
	otherTarget   string
	value         string
	params        []string
	external      bool
	allowCustom   bool
	recoverErrors bool
}

func newDispatchCmd(out io.Writer, g *globalOptions) *cobra.Command {
	o := &dispatchOptions{}
	cmd := &cobra.Command{
		Use:   "dispatch FILE",
		Short: "dispatch an event and trace its propagation",
		Long:  dispatchDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			if o.allowCustom {
				c.AllowCustomEvents = true
			}
			if o.recoverErrors {
				c.RecoverHandlerErrors = true
			}
			log := g.logger(c, cmd.ErrOrStderr())
			doc, err := markup.LoadFile(args[0], markup.WithLogger(log))
			if err != nil {
				return err
			}
			return o.run(cmd.Context(), out, doc, c.Settings, action.New(log, out), dispatch.WithLogger(log))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.event, "event", "e", "", "name of the event to dispatch")
	f.StringVarP(&o.target, "target", "t", "", "effective id of the target")
	f.StringVar(&o.otherTarget, "other-target", "", "effective id of the related target, e.g. the control receiving focus")
	f.StringVar(&o.value, "value", "", "context value sent with the event")
	f.StringArrayVarP(&o.params, "param", "p", nil, "event context parameter as key=value, repeatable")
	f.BoolVar(&o.external, "external", false, "handle the event as sent by a client")
	f.BoolVar(&o.allowCustom, "allow-custom", false, "allow events missing from the catalog")
	f.BoolVar(&o.recoverErrors, "recover", false, "turn handler errors into xxforms-action-error")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func parseParams(params []string) (events.Values, error) {
	values := events.Values{}
	for _, p := range params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid parameter %q, expected key=value", p)
		}
		values.Add(k, v)
	}
	return values, nil
}

func (o *dispatchOptions) run(ctx context.Context, out io.Writer, doc *markup.Document, s dispatch.Settings, interp *action.Interpreter, opts ...dispatch.Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	values, err := parseParams(o.params)
	if err != nil {
		return err
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.AddRow("DEPTH", "EVENT", "TARGET", "PHASE", "OBSERVER", "HANDLER")
	opts = append(opts, dispatch.WithTrace(func(e dispatch.TraceEntry) {
		tbl.AddRow(e.Depth, e.Event, e.Target, e.Phase, e.Observer, e.Handler.String())
	}))
	d := dispatch.New(doc.Tree, doc.Registry, interp, s, opts...)

	if o.external {
		err = d.HandleExternal(ctx, dispatch.ExternalEvent{
			Name:          o.event,
			TargetID:      o.target,
			OtherTargetID: o.otherTarget,
			Value:         o.value,
			Values:        values,
		})
	} else {
		err = o.dispatch(ctx, d, values)
	}
	if _, werr := fmt.Fprintln(out, tbl); werr != nil && err == nil {
		err = werr
	}
	return err
}

func (o *dispatchOptions) dispatch(ctx context.Context, d *dispatch.Dispatcher, values events.Values) error {
	target, ok := d.Tree().Lookup(o.target)
	if !ok {
		return errors.Wrapf(dispatch.ErrUnknownTarget, "%q", o.target)
	}
	p := events.Params{Context: o.value, Values: values}
	if o.otherTarget != "" {
		other, ok := d.Tree().Lookup(o.otherTarget)
		if !ok {
			return errors.Wrapf(dispatch.ErrUnknownTarget, "%q", o.otherTarget)
		}
		p.OtherTarget = other
	}
	var (
		e   *events.Event
		err error
	)
	if events.IsBuiltIn(o.event) {
		e, err = d.Create(o.event, target, p)
	} else {
		e, err = d.NewEvent(o.event, target, p)
	}
	if err != nil {
		return err
	}
	return d.Dispatch(ctx, e)
}
