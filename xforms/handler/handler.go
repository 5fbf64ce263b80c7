package handler

import (
	"sort"
	"strings"

	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/pkg/errors"
)

const (
	// AllEvents is the ev:event wildcard.
	AllEvents = "#all"
	// ObserverSentinel in ev:target stands for the handler's observers.
	ObserverSentinel = "#observer"
)

var (
	ErrNoEvent      = errors.New("event handler has no event attribute")
	ErrInvalidPhase = errors.New("invalid event handler phase")
)

// Options carry what Parse cannot see on the element itself.
type Options struct {
	// AncestorObserverID is the static id of the closest enclosing observer
	// element, or dom.ContainingDocumentID at the top level.
	AncestorObserverID string
	// Prefix is the component scope prefix the handler was declared in,
	// e.g. "my-comp$".
	Prefix string
	// XBL is set for handlers declared in an xbl:handlers section.
	XBL bool
	// ObserverID overrides the default observer when the element has no
	// ev:observer attribute.
	ObserverID string
}

// Handler is a declarative event listener. It is immutable once parsed and
// may be shared between documents.
type Handler struct {
	element *dom.Element

	observerIDs []string
	eventNames  map[string]struct{}
	allEvents   bool
	targetIDs   map[string]struct{}

	capturePhase  bool
	targetPhase   bool
	bubblingPhase bool

	propagate      bool
	performDefault bool

	keyModifiers string
	keyText      string

	ancestorObserverID string
	prefix             string
	xbl                bool
}

// Parse builds a handler from the XML Events attributes of el. Attributes
// are read in the XML Events namespace first, then unqualified.
func Parse(el *dom.Element, o Options) (*Handler, error) {
	h := &Handler{
		element:            el,
		propagate:          true,
		performDefault:     true,
		ancestorObserverID: o.AncestorObserverID,
		prefix:             o.Prefix,
		xbl:                o.XBL,
	}

	if v, ok := evAttr(el, "observer"); ok {
		h.observerIDs = strings.Fields(v)
	} else if o.ObserverID != "" {
		h.observerIDs = []string{o.ObserverID}
	} else if el.Parent != nil && el.Parent.ID() != "" {
		h.observerIDs = []string{el.Parent.ID()}
	}

	names := strings.Fields(evAttrValue(el, "event"))
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrNoEvent, "<%s id=%q>", el.Local, el.ID())
	}
	h.eventNames = make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == AllEvents {
			h.allEvents = true
			continue
		}
		h.eventNames[n] = struct{}{}
	}

	if v, ok := evAttr(el, "target"); ok {
		h.targetIDs = make(map[string]struct{})
		for _, id := range strings.Fields(v) {
			if id == ObserverSentinel {
				for _, obs := range h.observerIDs {
					h.targetIDs[obs] = struct{}{}
				}
				continue
			}
			h.targetIDs[id] = struct{}{}
		}
	}

	if err := h.parsePhase(evAttrValue(el, "phase")); err != nil {
		return nil, errors.Wrapf(err, "<%s id=%q>", el.Local, el.ID())
	}
	h.propagate = evAttrValue(el, "propagate") != "stop"
	h.performDefault = evAttrValue(el, "defaultAction") != "cancel"
	h.keyModifiers = strings.TrimSpace(el.AttrValue(dom.XXFormsNS, "modifiers"))
	h.keyText = strings.TrimSpace(el.AttrValue(dom.XXFormsNS, "text"))
	return h, nil
}

func (h *Handler) parsePhase(v string) error {
	tokens := strings.Fields(v)
	if len(tokens) == 0 {
		h.targetPhase, h.bubblingPhase = true, true
		return nil
	}
	for _, t := range tokens {
		switch t {
		case "capture":
			h.capturePhase = true
		case "target":
			h.targetPhase = true
		case "bubbling":
			h.bubblingPhase = true
		case "default":
			h.targetPhase, h.bubblingPhase = true, true
		default:
			return errors.Wrapf(ErrInvalidPhase, "%q", t)
		}
	}
	return nil
}

func evAttr(el *dom.Element, local string) (string, bool) {
	if v, ok := el.Attr(dom.XMLEventsNS, local); ok {
		return v, true
	}
	return el.Attr("", local)
}

func evAttrValue(el *dom.Element, local string) string {
	v, _ := evAttr(el, local)
	return v
}

func (h *Handler) Element() *dom.Element        { return h.element }
func (h *Handler) ObserverIDs() []string        { return h.observerIDs }
func (h *Handler) IsAllEvents() bool            { return h.allEvents }
func (h *Handler) IsCapturePhase() bool         { return h.capturePhase }
func (h *Handler) IsTargetPhase() bool          { return h.targetPhase }
func (h *Handler) IsBubblingPhase() bool        { return h.bubblingPhase }
func (h *Handler) IsPropagate() bool            { return h.propagate }
func (h *Handler) IsPerformDefaultAction() bool { return h.performDefault }
func (h *Handler) KeyModifiers() string         { return h.keyModifiers }
func (h *Handler) KeyText() string              { return h.keyText }
func (h *Handler) AncestorObserverID() string   { return h.ancestorObserverID }
func (h *Handler) Prefix() string               { return h.prefix }
func (h *Handler) IsXBL() bool                  { return h.xbl }

// EventNames returns the explicit event names, sorted. The wildcard is not
// included.
func (h *Handler) EventNames() []string {
	return sortedKeys(h.eventNames)
}

// TargetIDs returns nil when the handler does not restrict targets.
func (h *Handler) TargetIDs() []string {
	if h.targetIDs == nil {
		return nil
	}
	return sortedKeys(h.targetIDs)
}

func (h *Handler) IsMatchEventName(name string) bool {
	if h.allEvents {
		return true
	}
	_, ok := h.eventNames[name]
	return ok
}

func (h *Handler) IsMatchTarget(targetStaticID string) bool {
	if h.targetIDs == nil {
		return true
	}
	_, ok := h.targetIDs[targetStaticID]
	return ok
}

// IsMatch reports whether the handler must run for e, phase aside.
func (h *Handler) IsMatch(e *events.Event) bool {
	return h.IsMatchEventName(e.Name()) &&
		h.IsMatchTarget(e.Target().StaticID()) &&
		e.Matches(h)
}

// AppliesTo reports whether the handler listens in phase p.
func (h *Handler) AppliesTo(p events.Phase) bool {
	switch p {
	case events.PhaseCapture:
		return h.capturePhase
	case events.PhaseTarget:
		return h.targetPhase
	case events.PhaseBubbling:
		return h.bubblingPhase
	default:
		return false
	}
}

func (h *Handler) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(h.element.Local)
	if id := h.element.ID(); id != "" {
		b.WriteString(" id=" + id)
	}
	if h.allEvents {
		b.WriteString(" event=" + AllEvents)
	} else {
		b.WriteString(" event=" + strings.Join(h.EventNames(), ","))
	}
	b.WriteString(" observer=" + strings.Join(h.observerIDs, ","))
	b.WriteString(">")
	return b.String()
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
