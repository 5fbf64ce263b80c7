package dispatch

// DefaultMaxDispatchDepth bounds nested dispatches when Settings leaves
// MaxDispatchDepth at zero.
const DefaultMaxDispatchDepth = 64

// Settings are the per-document switches of the dispatcher. They are
// usually loaded from YAML by the config package.
type Settings struct {
	// AllowCustomEvents lets Create build events missing from the catalog.
	AllowCustomEvents     bool `json:"allowCustomEvents"`
	CustomEventBubbles    bool `json:"customEventBubbles"`
	CustomEventCancelable bool `json:"customEventCancelable"`

	// RecoverHandlerErrors turns a failing handler into an
	// xxforms-action-error on its observer instead of aborting the dispatch.
	RecoverHandlerErrors bool `json:"recoverHandlerErrors"`

	// CaptureNonBubbling runs capture handlers for events that do not
	// bubble. Off, such events only reach target-phase handlers.
	CaptureNonBubbling bool `json:"captureNonBubbling"`

	MaxDispatchDepth int `json:"maxDispatchDepth"`

	// ExternalEvents are the custom event names clients may send in
	// addition to the built-in allow-lists.
	ExternalEvents []string `json:"externalEvents,omitempty"`

	// ExceptionOnInvalidClientControlID fails external events aimed at
	// unknown targets instead of ignoring them.
	ExceptionOnInvalidClientControlID bool `json:"exceptionOnInvalidClientControlID"`
}

func (s Settings) maxDepth() int {
	if s.MaxDispatchDepth <= 0 {
		return DefaultMaxDispatchDepth
	}
	return s.MaxDispatchDepth
}
