package dispatch

import (
	"context"

	"github.com/google/uuid"
	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/heathj/goxforms/xforms/handler"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrDispatchDepth = errors.New("maximum event dispatch depth exceeded")
	ErrUnknownTarget = errors.New("event target is not in the document")
)

// DefaultAction is run at the target once propagation is over, unless a
// handler cancelled a cancelable event. handled reports whether at least
// one handler ran.
type DefaultAction func(ctx context.Context, d *Dispatcher, e *events.Event, handled bool) error

// TraceEntry describes one handler invocation.
type TraceEntry struct {
	DispatchID string
	Depth      int
	Event      string
	Target     string
	Phase      events.Phase
	Observer   string
	Handler    *handler.Handler
}

type Option func(*Dispatcher)

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithTrace registers a hook called before every handler invocation.
func WithTrace(fn func(TraceEntry)) Option {
	return func(d *Dispatcher) { d.trace = fn }
}

// Dispatcher propagates events through the observers of one document. It
// is re-entrant, handlers may dispatch further events, but not safe for
// concurrent use.
type Dispatcher struct {
	tree     *dom.Tree
	registry *handler.Registry
	interp   handler.Interpreter
	settings Settings
	log      logrus.FieldLogger
	trace    func(TraceEntry)
	defaults map[string]DefaultAction
	stack    []*events.Event
}

func New(tree *dom.Tree, registry *handler.Registry, interp handler.Interpreter, s Settings, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tree:     tree,
		registry: registry,
		interp:   interp,
		settings: s,
		log:      logrus.StandardLogger(),
		defaults: builtinDefaults(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dispatcher) Tree() *dom.Tree             { return d.tree }
func (d *Dispatcher) Registry() *handler.Registry { return d.registry }
func (d *Dispatcher) Settings() Settings          { return d.settings }

// CurrentEvent is the innermost event being dispatched, or nil.
func (d *Dispatcher) CurrentEvent() *events.Event {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}

// Depth is the number of dispatches in progress.
func (d *Dispatcher) Depth() int {
	return len(d.stack)
}

// SetDefaultAction replaces the default action for an event name. A nil
// action removes it.
func (d *Dispatcher) SetDefaultAction(name string, fn DefaultAction) {
	if fn == nil {
		delete(d.defaults, name)
		return
	}
	d.defaults[name] = fn
}

// Create builds an event, allowing custom names when the settings do.
func (d *Dispatcher) Create(name string, target events.Target, p events.Params) (*events.Event, error) {
	p.AllowCustom = p.AllowCustom || d.settings.AllowCustomEvents
	return events.Create(name, target, p)
}

// NewEvent builds an event using the configured custom event flags.
func (d *Dispatcher) NewEvent(name string, target events.Target, p events.Params) (*events.Event, error) {
	p.Bubbles = d.settings.CustomEventBubbles
	p.Cancelable = d.settings.CustomEventCancelable
	return d.Create(name, target, p)
}

// Dispatch propagates e through the observers between the document and its
// target. Propagation is skipped when no handler listens to the event name,
// the default action still runs.
func (d *Dispatcher) Dispatch(ctx context.Context, e *events.Event) error {
	target, ok := d.tree.Lookup(e.Target().EffectiveID())
	if !ok {
		return errors.Wrapf(ErrUnknownTarget, "dispatching %s to %q", e.Name(), e.Target().EffectiveID())
	}
	var chain dom.NodeList
	if d.registry.IsObserved(e.Name()) {
		chain = d.tree.ObserverChain(target)
	}
	return d.DispatchChain(ctx, e, chain)
}

type propagation struct {
	propagate      bool
	performDefault bool
	handled        bool
}

// DispatchChain propagates e along chain, ordered from the document down to
// the target. The last node is the target phase observer when it is the
// event target itself.
func (d *Dispatcher) DispatchChain(ctx context.Context, e *events.Event, chain dom.NodeList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(d.stack) >= d.settings.maxDepth() {
		return errors.Wrapf(ErrDispatchDepth, "dispatching %s to %q at depth %d", e.Name(), e.Target().EffectiveID(), len(d.stack))
	}
	if err := e.MarkConsumed(); err != nil {
		return err
	}
	d.stack = append(d.stack, e)
	defer func() { d.stack = d.stack[:len(d.stack)-1] }()

	id := uuid.New().String()
	log := d.log.WithFields(logrus.Fields{
		"dispatch": id,
		"event":    e.Name(),
		"target":   e.Target().EffectiveID(),
		"depth":    len(d.stack),
	})
	log.Debug("dispatching event")

	ancestors := chain
	var targetObserver *dom.Node
	if last := chain.Last(); last != nil && last.EffectiveID() == e.Target().EffectiveID() {
		targetObserver = last
		ancestors = chain[:len(chain)-1]
	}
	b, err := crossBoundaries(e, ancestors, log)
	if err != nil {
		return err
	}
	ancestors = b.observers

	st := &propagation{propagate: true, performDefault: true}
	if err := b.enterPhase(events.PhaseCapture); err != nil {
		return err
	}
	if e.Bubbles() || d.settings.CaptureNonBubbling {
		it := dom.NewNodeIterator(ancestors)
		for i := 0; it.Next(); i++ {
			observer := it.Node()
			if err := d.notify(ctx, b.seen[i], observer, id, st, log); err != nil {
				return err
			}
			if !st.propagate {
				log.WithField("observer", observer.EffectiveID()).Debug("propagation stopped during capture")
				break
			}
		}
	}

	if st.propagate {
		if err := b.enterPhase(events.PhaseTarget); err != nil {
			return err
		}
		if targetObserver != nil {
			if err := d.notify(ctx, e, targetObserver, id, st, log); err != nil {
				return err
			}
		}
	}

	if st.propagate && e.Bubbles() {
		if err := b.enterPhase(events.PhaseBubbling); err != nil {
			return err
		}
		rw := dom.NewNodeRewinder(ancestors)
		for i := len(ancestors) - 1; rw.Prev(); i-- {
			observer := rw.Node()
			if err := d.notify(ctx, b.seen[i], observer, id, st, log); err != nil {
				return err
			}
			if !st.propagate {
				log.WithField("observer", observer.EffectiveID()).Debug("propagation stopped during bubbling")
				break
			}
		}
	}
	b.clearObserver()

	if st.performDefault || !e.Cancelable() {
		if fn, ok := d.defaults[e.Name()]; ok {
			if err := fn(ctx, d, e, st.handled); err != nil {
				log.WithError(err).Error("default action failed")
				return errors.Wrapf(err, "default action of %s on %q", e.Name(), e.Target().EffectiveID())
			}
		}
	} else {
		log.Debug("default action cancelled")
	}
	return nil
}

// boundaries is the view the observers above the target get of an event
// once component boundaries are applied.
type boundaries struct {
	observers dom.NodeList
	// seen[i] is the event observers[i] is notified with
	seen []*events.Event
	// all is the original event followed by its retargeted copies
	all []*events.Event
}

// crossBoundaries applies the component boundaries between the document and
// the target. Observers at or above a component see UI events retargeted to
// that component. Any other event stops at the innermost component, which
// is not notified either.
func crossBoundaries(e *events.Event, ancestors dom.NodeList, log logrus.FieldLogger) (*boundaries, error) {
	b := &boundaries{
		observers: ancestors,
		seen:      make([]*events.Event, len(ancestors)),
		all:       []*events.Event{e},
	}
	current := e
	for i := len(ancestors) - 1; i >= 0; i-- {
		o := ancestors[i]
		if o.Kind == dom.ComponentNode {
			if !e.Kind().IsUI() {
				log.WithField("component", o.EffectiveID()).Debug("event stopped at component boundary")
				b.observers = ancestors[i+1:]
				b.seen = b.seen[i+1:]
				return b, nil
			}
			r, err := e.Retarget(o)
			if err != nil {
				return nil, err
			}
			log.WithField("component", o.EffectiveID()).Debug("event retargeted at component boundary")
			current = r
			b.all = append(b.all, r)
		}
		b.seen[i] = current
	}
	return b, nil
}

// enterPhase moves the event and its retargeted copies to p together.
func (b *boundaries) enterPhase(p events.Phase) error {
	for _, e := range b.all {
		if err := e.EnterPhase(p); err != nil {
			return err
		}
	}
	return nil
}

func (b *boundaries) clearObserver() {
	for _, e := range b.all {
		e.SetCurrentObserver(nil)
	}
}

// notify runs the handlers of observer that listen in the event's current
// phase.
func (d *Dispatcher) notify(ctx context.Context, e *events.Event, observer *dom.Node, id string, st *propagation, log logrus.FieldLogger) error {
	handlers := d.registry.For(observer.PrefixedID())
	if len(handlers) == 0 {
		return nil
	}
	e.SetCurrentObserver(observer)
	for _, h := range handlers {
		if !h.AppliesTo(e.Phase()) || !h.IsMatch(e) {
			continue
		}
		if d.trace != nil {
			d.trace(TraceEntry{
				DispatchID: id,
				Depth:      len(d.stack),
				Event:      e.Name(),
				Target:     e.Target().EffectiveID(),
				Phase:      e.Phase(),
				Observer:   observer.EffectiveID(),
				Handler:    h,
			})
		}
		st.handled = true
		if err := h.HandleEvent(ctx, d.interp, d, observer, e, log); err != nil {
			if err := d.handlerFailed(ctx, e, observer, h, err, log); err != nil {
				return err
			}
		}
		st.propagate = st.propagate && h.IsPropagate()
		st.performDefault = st.performDefault && h.IsPerformDefaultAction()
	}
	return nil
}

// handlerFailed either wraps err for the caller or, when recovery is on,
// reports it as xxforms-action-error on the observer.
func (d *Dispatcher) handlerFailed(ctx context.Context, e *events.Event, observer *dom.Node, h *handler.Handler, err error, log logrus.FieldLogger) error {
	log = log.WithFields(logrus.Fields{
		"observer": observer.EffectiveID(),
		"handler":  h.String(),
		"phase":    e.Phase().String(),
	})
	wrapped := errors.Wrapf(err, "handling %s on %q", e.Name(), observer.EffectiveID())
	if !d.settings.RecoverHandlerErrors || e.Kind() == events.KindActionError {
		log.WithError(err).Error("event handler failed")
		return wrapped
	}

	log.WithError(err).Warn("event handler failed, dispatching " + events.XXFormsActionError)
	actionError, cerr := events.Create(events.XXFormsActionError, observer, events.Params{Err: err})
	if cerr != nil {
		return wrapped
	}
	return d.Dispatch(ctx, actionError)
}
