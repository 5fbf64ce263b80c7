package dispatch

import (
	"context"

	"github.com/heathj/goxforms/xforms/events"
)

func builtinDefaults() map[string]DefaultAction {
	defaults := make(map[string]DefaultAction)
	for _, c := range events.Catalog() {
		if c.Fatal {
			defaults[c.Name] = fatalDefault
		}
	}
	return defaults
}

// fatalDefault ends the request when nobody handled an exception event.
func fatalDefault(_ context.Context, _ *Dispatcher, e *events.Event, handled bool) error {
	if handled {
		return nil
	}
	return e.FatalError()
}
