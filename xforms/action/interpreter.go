package action

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/heathj/goxforms/xforms/handler"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrActionTarget      = errors.New("action target not found")
)

// Interpreter runs the subset of XForms actions that drive events:
// action, dispatch, message, setvalue and setfocus.
type Interpreter struct {
	log logrus.FieldLogger
	out io.Writer
}

// New returns an interpreter writing xf:message output to out. A nil out
// only logs messages.
func New(log logrus.FieldLogger, out io.Writer) *Interpreter {
	return &Interpreter{log: log, out: out}
}

func (i *Interpreter) RunAction(ctx context.Context, inv handler.Invocation) error {
	return i.run(ctx, inv, inv.Handler.Element())
}

func (i *Interpreter) run(ctx context.Context, inv handler.Invocation, el *dom.Element) error {
	if el.Is(dom.XBLNS, "handler") {
		return i.sequence(ctx, inv, el)
	}
	if el.Space != dom.XFormsNS {
		return errors.Wrapf(ErrUnsupportedAction, "{%s}%s", el.Space, el.Local)
	}
	i.log.WithFields(logrus.Fields{
		"action":   el.Local,
		"event":    inv.Event.Name(),
		"observer": inv.Observer.EffectiveID(),
	}).Debug("running action")

	switch el.Local {
	case "action":
		return i.sequence(ctx, inv, el)
	case "dispatch":
		return i.dispatch(ctx, inv, el)
	case "message":
		return i.message(inv, el)
	case "setvalue":
		return i.setvalue(ctx, inv, el)
	case "setfocus":
		return i.setfocus(ctx, inv, el)
	default:
		return errors.Wrapf(ErrUnsupportedAction, "xf:%s", el.Local)
	}
}

func (i *Interpreter) sequence(ctx context.Context, inv handler.Invocation, el *dom.Element) error {
	for _, c := range el.Children {
		if isNestedHandler(c) {
			continue
		}
		if err := i.run(ctx, inv, c); err != nil {
			return err
		}
	}
	return nil
}

// isNestedHandler reports whether c is a handler of its own, registered
// separately by the loader.
func isNestedHandler(c *dom.Element) bool {
	if _, ok := c.Attr(dom.XMLEventsNS, "event"); ok {
		return true
	}
	return false
}

func (i *Interpreter) dispatch(ctx context.Context, inv handler.Invocation, el *dom.Element) error {
	name := el.AttrValue("", "name")
	if name == "" {
		name = childText(el, "name")
	}
	targetID := el.AttrValue("", "targetid")
	if targetID == "" {
		targetID = el.AttrValue("", "target")
	}
	if targetID == "" {
		targetID = childText(el, "targetid")
	}
	if name == "" || targetID == "" {
		return errors.New("xf:dispatch requires a name and a target id")
	}
	target, err := resolve(inv, targetID)
	if err != nil {
		return err
	}

	values := events.Values{}
	for _, c := range el.Children {
		if c.Is(dom.XFormsNS, "property") {
			values.Add(c.AttrValue("", "name"), propertyValue(c))
		}
	}
	e, err := inv.Dispatcher.Create(name, target, events.Params{
		Values:     values,
		Bubbles:    boolAttr(el, "bubbles", true),
		Cancelable: boolAttr(el, "cancelable", true),
	})
	if err != nil {
		return err
	}
	for k, vs := range values {
		seq := make(events.Sequence, 0, len(vs))
		for _, v := range vs {
			seq = append(seq, v)
		}
		e.SetCustom(k, func() events.Sequence { return seq })
	}
	return inv.Dispatcher.Dispatch(ctx, e)
}

func (i *Interpreter) message(inv handler.Invocation, el *dom.Element) error {
	text := strings.TrimSpace(el.TextContent())
	level := el.AttrValue("", "level")
	if level == "" {
		level = "modal"
	}
	i.log.WithFields(logrus.Fields{
		"level":    level,
		"observer": inv.Observer.EffectiveID(),
	}).Info(text)
	if i.out != nil {
		if _, err := fmt.Fprintf(i.out, "[%s] %s\n", level, text); err != nil {
			return errors.Wrap(err, "writing message")
		}
	}
	return nil
}

func (i *Interpreter) setvalue(ctx context.Context, inv handler.Invocation, el *dom.Element) error {
	controlID := el.AttrValue("", "control")
	if controlID == "" {
		return errors.New("xf:setvalue requires a control attribute")
	}
	control, err := resolve(inv, controlID)
	if err != nil {
		return err
	}
	value, ok := el.Attr("", "value")
	if !ok {
		value = el.TextContent()
	}
	if control.Value == value {
		return nil
	}
	control.Value = value
	e, err := inv.Dispatcher.Create(events.XFormsValueChanged, control, events.Params{Context: value})
	if err != nil {
		return err
	}
	return inv.Dispatcher.Dispatch(ctx, e)
}

func (i *Interpreter) setfocus(ctx context.Context, inv handler.Invocation, el *dom.Element) error {
	control, err := resolve(inv, el.AttrValue("", "control"))
	if err != nil {
		return err
	}
	e, err := inv.Dispatcher.Create(events.XFormsFocus, control, events.Params{})
	if err != nil {
		return err
	}
	return inv.Dispatcher.Dispatch(ctx, e)
}

func childText(el *dom.Element, local string) string {
	for _, c := range el.Children {
		if c.Is(dom.XFormsNS, local) {
			if v, ok := c.Attr("", "value"); ok {
				return v
			}
			return strings.TrimSpace(c.TextContent())
		}
	}
	return ""
}

func propertyValue(el *dom.Element) string {
	if v, ok := el.Attr("", "value"); ok {
		return v
	}
	return el.TextContent()
}

func boolAttr(el *dom.Element, local string, def bool) bool {
	switch strings.TrimSpace(el.AttrValue("", local)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}
