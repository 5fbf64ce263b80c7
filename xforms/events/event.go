package events

import (
	"strings"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"
)

// ErrAlreadyDispatched is returned when an event instance is handed to a
// second dispatch.
var ErrAlreadyDispatched = errors.New("event has already been dispatched")

type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseCapture
	PhaseTarget
	PhaseBubbling
)

func (p Phase) String() string {
	switch p {
	case PhaseCapture:
		return "capture"
	case PhaseTarget:
		return "target"
	case PhaseBubbling:
		return "bubbling"
	default:
		return "none"
	}
}

// Target is anything an event can be dispatched to. *dom.Node implements it.
type Target interface {
	StaticID() string
	EffectiveID() string
	ContainerID() string
}

// Sequence is the value of a context attribute. Items are strings, ints or
// bools.
type Sequence []interface{}

// Lazy computes a custom context attribute on demand.
type Lazy func() Sequence

// KeyFilter is the part of a handler a keypress event matches against.
type KeyFilter interface {
	KeyModifiers() string
	KeyText() string
}

// Event is one occurrence of a named event on a target. Kind and the
// bubbles/cancelable flags are fixed at construction. Phase only moves
// forward.
type Event struct {
	kind        Kind
	name        string
	target      Target
	otherTarget Target
	containerID string
	bubbles     bool
	cancelable  bool

	phase           Phase
	currentObserver Target
	consumed        bool

	custom   map[string]Lazy
	original *Event
	cause    error
	detail   interface{}
}

func newEvent(k Kind, name string, target Target, bubbles, cancelable bool) *Event {
	return &Event{
		kind:        k,
		name:        name,
		target:      target,
		containerID: target.ContainerID(),
		bubbles:     bubbles,
		cancelable:  cancelable,
	}
}

func (e *Event) Kind() Kind              { return e.kind }
func (e *Event) Name() string            { return e.name }
func (e *Event) Target() Target          { return e.target }
func (e *Event) OtherTarget() Target     { return e.otherTarget }
func (e *Event) ContainerID() string     { return e.containerID }
func (e *Event) Bubbles() bool           { return e.bubbles }
func (e *Event) Cancelable() bool        { return e.cancelable }
func (e *Event) Phase() Phase            { return e.phase }
func (e *Event) CurrentObserver() Target { return e.currentObserver }
func (e *Event) Cause() error            { return e.cause }
func (e *Event) Detail() interface{}     { return e.detail }
func (e *Event) IsCustom() bool          { return e.kind == KindCustom }
func (e *Event) IsConsumed() bool        { return e.consumed }

func (e *Event) SetCurrentObserver(o Target) {
	e.currentObserver = o
}

// Original returns the event this one was retargeted from, or nil.
func (e *Event) Original() *Event { return e.original }

// EnterPhase advances the event to p. Moving backwards, or entering the
// same phase twice, is an error.
func (e *Event) EnterPhase(p Phase) error {
	if p <= e.phase {
		return errors.Errorf("event %q cannot move from %s to %s phase", e.name, e.phase, p)
	}
	e.phase = p
	return nil
}

// MarkConsumed flags the event as taken by a dispatch.
func (e *Event) MarkConsumed() error {
	if e.consumed {
		return errors.Wrapf(ErrAlreadyDispatched, "%q on %q", e.name, e.target.EffectiveID())
	}
	e.consumed = true
	return nil
}

// SetCustom registers a lazily computed context attribute.
func (e *Event) SetCustom(name string, fn Lazy) {
	if e.custom == nil {
		e.custom = make(map[string]Lazy)
	}
	e.custom[name] = fn
}

// Retarget returns an independent copy of the event aimed at newTarget. The
// copy starts over in PhaseNone and remembers e as its original.
func (e *Event) Retarget(newTarget Target) (*Event, error) {
	if isNil(newTarget) {
		return nil, errors.New("cannot retarget to a nil target")
	}
	c := &Event{
		kind:        e.kind,
		name:        e.name,
		target:      newTarget,
		otherTarget: e.otherTarget,
		containerID: newTarget.ContainerID(),
		bubbles:     e.bubbles,
		cancelable:  e.cancelable,
		original:    e,
		cause:       e.cause,
	}
	if e.detail != nil {
		d, err := copystructure.Copy(e.detail)
		if err != nil {
			return nil, errors.Wrapf(err, "copying detail of %q", e.name)
		}
		c.detail = d
	}
	if e.custom != nil {
		c.custom = make(map[string]Lazy, len(e.custom))
		for k, v := range e.custom {
			c.custom[k] = v
		}
	}
	return c, nil
}

// Matches is the kind-specific extra filter applied after name and target
// matching. Only keypress restricts anything: an empty modifiers or text
// filter accepts any value.
func (e *Event) Matches(f KeyFilter) bool {
	if e.kind != KindKeypress {
		return true
	}
	d := e.detail.(*KeypressDetail)
	modifiers := strings.TrimSpace(f.KeyModifiers())
	text := strings.TrimSpace(f.KeyText())
	return (modifiers == "" || modifiers == strings.TrimSpace(d.Modifiers)) &&
		(text == "" || text == strings.TrimSpace(d.Text))
}

// FatalError builds the error that ends the request when an exception
// event is left unhandled. It returns nil for other kinds.
func (e *Event) FatalError() error {
	if !catalog[e.kind].fatal {
		return nil
	}
	cause := e.cause
	if cause == nil {
		msg := e.name
		if d, ok := e.detail.(*ErrorDetail); ok && d.Message != "" {
			msg = d.Message
		}
		cause = errors.New(msg)
	}
	return errors.Wrapf(cause, "fatal %s on %q", e.name, e.target.EffectiveID())
}

func (e *Event) String() string {
	return e.name + "@" + e.target.EffectiveID()
}
