package dispatch

import (
	"context"
	"strings"

	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrInvalidClientTarget = errors.New("invalid client event target")

// ExternalEvent is an event sent by the client. Ids are effective ids.
type ExternalEvent struct {
	Name          string
	TargetID      string
	OtherTargetID string
	// Value is the context string sent with the event, e.g. the new value
	// of xxforms-value-change-with-focus-change.
	Value  string
	Values events.Values
}

type nameSet map[string]struct{}

func newNameSet(sets []nameSet, names ...string) nameSet {
	s := nameSet{}
	for _, o := range sets {
		for n := range o {
			s[n] = struct{}{}
		}
	}
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

var (
	outputIgnored     = newNameSet(nil, events.DOMFocusIn, events.DOMFocusOut)
	outputAllowed     = newNameSet([]nameSet{outputIgnored}, events.XFormsHelp)
	uploadAllowed     = newNameSet([]nameSet{outputAllowed}, events.XFormsSelect, events.XXFormsValueChangeWithFocusChange)
	controlAllowed    = newNameSet([]nameSet{outputAllowed}, events.DOMActivate, events.XXFormsValueChangeWithFocusChange)
	submissionAllowed = newNameSet(nil, events.XXFormsSubmit)
	documentAllowed   = newNameSet(nil, events.XXFormsLoad)
	dialogAllowed     = newNameSet(nil, events.XXFormsDialogClose)

	// controls that do not bind a single node never accept client events
	containerControls = newNameSet(nil, "group", "switch", "case")
)

// HandleExternal validates a client event and dispatches it, converting it
// the way the client protocol requires. Events the target does not accept
// are ignored.
func (d *Dispatcher) HandleExternal(ctx context.Context, x ExternalEvent) error {
	log := d.log.WithFields(logrus.Fields{
		"event":  x.Name,
		"target": x.TargetID,
	})

	target, ok := d.tree.Lookup(x.TargetID)
	if !ok {
		return d.invalidClientTarget(log, x.TargetID)
	}
	if reason := d.rejectExternal(target, x.Name); reason != "" {
		log.Debug("ignoring client event " + reason)
		return nil
	}

	var otherTarget events.Target
	if x.OtherTargetID != "" {
		other, ok := d.tree.Lookup(x.OtherTargetID)
		if !ok {
			return d.invalidClientTarget(log, x.OtherTargetID)
		}
		otherTarget = other
	}

	if strings.ContainsRune(x.TargetID, dom.RepeatSeparator) && x.Name != events.DOMFocusOut {
		focus, err := events.Create(events.XXFormsRepeatFocus, target, events.Params{})
		if err != nil {
			return err
		}
		if err := d.Dispatch(ctx, focus); err != nil {
			return err
		}
	}

	name := x.Name
	if target.Kind == dom.ControlNode && target.Name == "output" {
		switch name {
		case events.DOMFocusIn:
			if target.ReadOnly {
				return nil
			}
			name = events.DOMActivate
		case events.DOMFocusOut:
			return nil
		}
	}

	// custom names got past the allow-lists above, so they are accepted here
	// whatever AllowCustomEvents says
	e, err := d.NewEvent(name, target, events.Params{
		OtherTarget: otherTarget,
		Context:     x.Value,
		Values:      x.Values,
		AllowCustom: true,
	})
	if err != nil {
		return err
	}
	if e.Kind() == events.KindValueChangeWithFocusChange {
		return d.valueChangeWithFocusChange(ctx, e, target)
	}
	return d.Dispatch(ctx, e)
}

func (d *Dispatcher) invalidClientTarget(log logrus.FieldLogger, id string) error {
	if d.settings.ExceptionOnInvalidClientControlID {
		return errors.Wrapf(ErrInvalidClientTarget, "%q", id)
	}
	log.WithField("id", id).Debug("ignoring client event with invalid control id")
	return nil
}

// rejectExternal returns why target does not accept the client event name,
// or "" when it does.
func (d *Dispatcher) rejectExternal(target *dom.Node, name string) string {
	explicit := !events.IsBuiltIn(name) && d.explicitlyAllowed(name)
	switch target.Kind {
	case dom.DocumentNode:
		if !documentAllowed.has(name) {
			return "on containing document"
		}
	case dom.SubmissionNode:
		if !explicit && !submissionAllowed.has(name) {
			return "on submission"
		}
	case dom.ControlNode:
		switch {
		case target.Name == "dialog":
			if !dialogAllowed.has(name) {
				return "on dialog"
			}
		case containerControls.has(target.Name):
			return "on non-single-node control"
		case target.ReadOnly && target.Name != "output":
			return "on read-only control"
		case explicit:
		case target.Name == "output":
			if !outputAllowed.has(name) {
				return "on output"
			}
		case target.Name == "upload":
			if !uploadAllowed.has(name) {
				return "on upload"
			}
		default:
			if !controlAllowed.has(name) {
				return "on control"
			}
		}
	default:
		if !explicit {
			return "on " + target.Kind.String()
		}
	}
	return ""
}

func (d *Dispatcher) explicitlyAllowed(name string) bool {
	for _, n := range d.settings.ExternalEvents {
		if n == name {
			return true
		}
	}
	return false
}

// valueChangeWithFocusChange stores the client value on the control, then
// notifies the change and the focus move.
func (d *Dispatcher) valueChangeWithFocusChange(ctx context.Context, e *events.Event, target *dom.Node) error {
	newValue := e.Detail().(*events.NewValueDetail).NewValue
	targetID := target.EffectiveID()
	if target.Value != newValue {
		target.Value = newValue
		changed, err := events.Create(events.XFormsValueChanged, target, events.Params{Context: newValue})
		if err != nil {
			return err
		}
		if err := d.Dispatch(ctx, changed); err != nil {
			return err
		}
	}

	if e.OtherTarget() == nil {
		return nil
	}
	// handlers may have removed either control
	if source, ok := d.tree.Lookup(targetID); ok {
		out, err := events.Create(events.DOMFocusOut, source, events.Params{})
		if err != nil {
			return err
		}
		if err := d.Dispatch(ctx, out); err != nil {
			return err
		}
	}
	if other, ok := d.tree.Lookup(e.OtherTarget().EffectiveID()); ok {
		in, err := events.Create(events.DOMFocusIn, other, events.Params{})
		if err != nil {
			return err
		}
		return d.Dispatch(ctx, in)
	}
	return nil
}
