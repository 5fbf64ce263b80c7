package events

import (
	"sync"

	"github.com/heathj/goxforms/xforms/dom"
	"github.com/sirupsen/logrus"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for attribute warnings.
func SetLogger(l logrus.FieldLogger) {
	log = l
}

type deprecation struct {
	replacement string
	once        sync.Once
}

var deprecated = map[string]*deprecation{
	legacyAttrTarget: {replacement: AttrTargetID},
	legacyAttrEvent:  {replacement: AttrType},
}

// Attribute returns the context attribute called name. Unknown names yield
// an empty sequence and a warning, never an error.
func (e *Event) Attribute(name string) Sequence {
	if d, ok := deprecated[name]; ok {
		d.once.Do(func() {
			log.WithFields(logrus.Fields{
				"attribute":   name,
				"replacement": d.replacement,
			}).Warn("deprecated event context attribute")
		})
		name = d.replacement
	}

	switch name {
	case AttrType:
		return one(e.name)
	case AttrTargetID:
		return one(e.target.StaticID())
	case AttrEffectiveTargetID:
		return one(e.target.EffectiveID())
	case AttrRepeatIndexes:
		indexes, err := dom.RepeatIndexes(e.target.EffectiveID())
		if err != nil {
			log.WithError(err).Warn("cannot compute repeat indexes")
			return Sequence{}
		}
		return ints(indexes)
	case AttrObserverID:
		if e.currentObserver == nil {
			return Sequence{}
		}
		return one(e.currentObserver.StaticID())
	case AttrPhase:
		return one(e.phase.String())
	case AttrBubbles:
		return one(e.bubbles)
	case AttrCancelable:
		return one(e.cancelable)
	}

	if a, ok := e.detail.(attributer); ok {
		if s, ok := a.attribute(name); ok {
			return s
		}
	}
	if fn, ok := e.custom[name]; ok {
		if s := fn(); s != nil {
			return s
		}
		return Sequence{}
	}

	log.WithFields(logrus.Fields{
		"event":     e.name,
		"attribute": name,
	}).Warn("unsupported event context attribute")
	return Sequence{}
}
