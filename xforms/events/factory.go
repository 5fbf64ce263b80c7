package events

import (
	"reflect"

	"github.com/pkg/errors"
)

var ErrUnknownEvent = errors.New("invalid event name")

// Params are the optional construction parameters of Create. Each kind reads
// only the fields it needs and ignores the rest.
type Params struct {
	OtherTarget Target
	// Context is the free-form context string of the stimulus, e.g. the
	// resource of a link error or the value of a value change.
	Context string
	Err     error
	Values  Values
	Headers map[string][]string

	// AllowCustom permits names missing from the catalog. Bubbles and
	// Cancelable apply to such custom events only.
	AllowCustom bool
	Bubbles     bool
	Cancelable  bool
}

// Create builds the event called name aimed at target. A nil target, typed
// nil pointers included, is an error.
func Create(name string, target Target, p Params) (*Event, error) {
	if isNil(target) {
		return nil, errors.Errorf("event %q requires a target", name)
	}
	k, ok := byName[name]
	if !ok {
		if !p.AllowCustom {
			return nil, errors.Wrapf(ErrUnknownEvent, "%q", name)
		}
		e := newEvent(KindCustom, name, target, p.Bubbles, p.Cancelable)
		e.otherTarget = p.OtherTarget
		return e, nil
	}

	row := catalog[k]
	e := newEvent(k, name, target, row.bubbles, row.cancelable)
	e.otherTarget = p.OtherTarget
	if row.build != nil {
		if err := row.build(e, p); err != nil {
			return nil, errors.Wrapf(err, "creating %s on %q", name, target.EffectiveID())
		}
	}
	return e, nil
}

func isNil(t Target) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// IsBuiltIn reports whether Create knows name without falling back to a
// custom event.
func IsBuiltIn(name string) bool {
	_, ok := byName[name]
	return ok
}

// KindOf returns the kind of a built-in name, KindCustom otherwise.
func KindOf(name string) Kind {
	return byName[name]
}

type CatalogEntry struct {
	Kind       Kind
	Name       string
	Bubbles    bool
	Cancelable bool
	Fatal      bool
}

// Catalog lists the built-in events in declaration order.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, numKinds-1)
	for k := KindCustom + 1; k < numKinds; k++ {
		row := catalog[k]
		out = append(out, CatalogEntry{
			Kind:       k,
			Name:       row.name,
			Bubbles:    row.bubbles,
			Cancelable: row.cancelable,
			Fatal:      row.fatal,
		})
	}
	return out
}
