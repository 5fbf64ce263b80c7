package handler

import (
	"context"

	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/sirupsen/logrus"
)

// Invocation is everything an action needs to run for one matched handler.
type Invocation struct {
	Handler  *Handler
	Observer *dom.Node
	// Scope is the container the handler's expressions are evaluated in.
	Scope      *dom.Node
	Event      *events.Event
	Dispatcher Dispatcher
}

// Dispatcher is the part of the dispatch engine actions may call back into.
type Dispatcher interface {
	Dispatch(ctx context.Context, e *events.Event) error
	Create(name string, target events.Target, p events.Params) (*events.Event, error)
	Tree() *dom.Tree
	CurrentEvent() *events.Event
}

// Interpreter runs the action a handler is attached to.
type Interpreter interface {
	RunAction(ctx context.Context, inv Invocation) error
}

type InterpreterFunc func(ctx context.Context, inv Invocation) error

func (f InterpreterFunc) RunAction(ctx context.Context, inv Invocation) error {
	return f(ctx, inv)
}

// ResolveScope finds the container the handler runs in when it fires on
// observer. The lookup walks the live tree on every call; iterations of a
// repeat share handlers but not nodes.
func (h *Handler) ResolveScope(observer *dom.Node, log logrus.FieldLogger) *dom.Node {
	if h.xbl {
		return observer.NestedScope()
	}
	want := h.ancestorObserverID
	if want != dom.ContainingDocumentID {
		want = h.prefix + want
	}
	for n := observer; n != nil; n = n.Parent() {
		if n.PrefixedID() == want {
			return n.Scope()
		}
	}
	log.WithFields(logrus.Fields{
		"handler":  h.String(),
		"observer": observer.EffectiveID(),
		"ancestor": want,
	}).Debug("ancestor observer not found, using the observer's scope")
	return observer.Scope()
}

// HandleEvent runs the handler's action for e on observer.
func (h *Handler) HandleEvent(ctx context.Context, interp Interpreter, d Dispatcher, observer *dom.Node, e *events.Event, log logrus.FieldLogger) error {
	return interp.RunAction(ctx, Invocation{
		Handler:    h,
		Observer:   observer,
		Scope:      h.ResolveScope(observer, log),
		Event:      e,
		Dispatcher: d,
	})
}
