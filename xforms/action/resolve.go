package action

import (
	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/handler"
	"github.com/pkg/errors"
)

// resolve finds the node a static id refers to from inside a running
// handler: in the handler's scope, in the observer's repeat iteration or
// the closest enclosing one.
func resolve(inv handler.Invocation, staticID string) (*dom.Node, error) {
	tree := inv.Dispatcher.Tree()
	if staticID == dom.ContainingDocumentID {
		return tree.Root(), nil
	}
	if staticID == "" {
		return nil, errors.Wrap(ErrActionTarget, "empty id")
	}

	prefixed := staticID
	if inv.Scope != nil && inv.Scope.Kind != dom.DocumentNode {
		prefixed = inv.Scope.PrefixedID() + string(dom.ComponentSeparator) + staticID
	}

	suffix := dom.EffectiveIDSuffix(inv.Observer.EffectiveID())
	for {
		if n, ok := tree.Lookup(dom.WithSuffix(prefixed, suffix)); ok {
			return n, nil
		}
		if suffix == "" {
			break
		}
		suffix = dom.OuterSuffix(suffix)
	}
	return nil, errors.Wrapf(ErrActionTarget, "%q from %q", staticID, inv.Observer.EffectiveID())
}
