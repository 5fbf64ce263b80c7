package handler

import (
	"github.com/heathj/goxforms/xforms/dom"
	"github.com/pkg/errors"
)

var (
	ErrRegistrySealed = errors.New("handler registry is sealed")
	ErrNoObserver     = errors.New("event handler has no observer")
)

// Registry maps observer prefixed ids to their handlers. It is filled while
// the markup is loaded, then sealed and shared read-only.
type Registry struct {
	byObserver map[string][]*Handler
	all        []*Handler
	eventNames map[string]struct{}
	allEvents  bool
	sealed     bool
}

func NewRegistry() *Registry {
	return &Registry{
		byObserver: make(map[string][]*Handler),
		eventNames: make(map[string]struct{}),
	}
}

// Add registers h under every one of its observers, scoped by the handler's
// prefix. The containing document id is never prefixed.
func (r *Registry) Add(h *Handler) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if len(h.observerIDs) == 0 {
		return errors.Wrapf(ErrNoObserver, "%s", h)
	}
	for _, id := range h.observerIDs {
		prefixed := id
		if id != dom.ContainingDocumentID {
			prefixed = h.prefix + id
		}
		r.byObserver[prefixed] = append(r.byObserver[prefixed], h)
	}
	r.all = append(r.all, h)
	for n := range h.eventNames {
		r.eventNames[n] = struct{}{}
	}
	if h.allEvents {
		r.allEvents = true
	}
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() { r.sealed = true }

func (r *Registry) IsSealed() bool { return r.sealed }

// For returns the handlers attached to an observer, in document order.
func (r *Registry) For(observerPrefixedID string) []*Handler {
	return r.byObserver[observerPrefixedID]
}

// IsObserved reports whether any handler could match an event called name.
func (r *Registry) IsObserved(name string) bool {
	if r.allEvents {
		return true
	}
	_, ok := r.eventNames[name]
	return ok
}

// Handlers returns every registered handler in registration order.
func (r *Registry) Handlers() []*Handler {
	return r.all
}

func (r *Registry) Len() int {
	return len(r.all)
}
