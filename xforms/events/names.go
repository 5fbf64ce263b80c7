package events

// Event names. These strings are matched verbatim against ev:event
// attributes in markup and must never be renamed.
const (
	// Initialization
	XFormsModelConstruct     = "xforms-model-construct"
	XFormsModelConstructDone = "xforms-model-construct-done"
	XFormsReady              = "xforms-ready"
	XFormsModelDestruct      = "xforms-model-destruct"

	// Interaction
	XFormsRebuild         = "xforms-rebuild"
	XFormsRecalculate     = "xforms-recalculate"
	XFormsRevalidate      = "xforms-revalidate"
	XFormsRefresh         = "xforms-refresh"
	XFormsReset           = "xforms-reset"
	XFormsSubmit          = "xforms-submit"
	XFormsSubmitSerialize = "xforms-submit-serialize"
	XFormsFocus           = "xforms-focus"
	XFormsHelp            = "xforms-help"
	XFormsHint            = "xforms-hint"
	XFormsNext            = "xforms-next"
	XFormsPrevious        = "xforms-previous"

	// Notification
	DOMActivate            = "DOMActivate"
	DOMFocusIn             = "DOMFocusIn"
	DOMFocusOut            = "DOMFocusOut"
	XFormsSelect           = "xforms-select"
	XFormsDeselect         = "xforms-deselect"
	XFormsValueChanged     = "xforms-value-changed"
	XFormsValid            = "xforms-valid"
	XFormsInvalid          = "xforms-invalid"
	XFormsReadonly         = "xforms-readonly"
	XFormsReadwrite        = "xforms-readwrite"
	XFormsRequired         = "xforms-required"
	XFormsOptional         = "xforms-optional"
	XFormsEnabled          = "xforms-enabled"
	XFormsDisabled         = "xforms-disabled"
	XFormsInRange          = "xforms-in-range"
	XFormsOutOfRange       = "xforms-out-of-range"
	XFormsScrollFirst      = "xforms-scroll-first"
	XFormsScrollLast       = "xforms-scroll-last"
	XFormsInsert           = "xforms-insert"
	XFormsDelete           = "xforms-delete"
	XFormsSubmitDone       = "xforms-submit-done"
	XFormsSubmitError      = "xforms-submit-error"
	XFormsLinkError        = "xforms-link-error"
	XFormsOutputError      = "xforms-output-error"
	XFormsComputeException = "xforms-compute-exception"
	XFormsBindingException = "xforms-binding-exception"
	XFormsLinkException    = "xforms-link-exception"
	XFormsVersionException = "xforms-version-exception"

	Keypress = "keypress"

	// Extensions
	XXFormsValueChangeWithFocusChange = "xxforms-value-change-with-focus-change"
	XXFormsValueOrActivate            = "xxforms-value-or-activate"
	XXFormsSubmit                     = "xxforms-submit"
	XXFormsSubmitReplace              = "xxforms-submit-replace"
	XXFormsLoad                       = "xxforms-load"
	XXFormsDialogOpen                 = "xxforms-dialog-open"
	XXFormsDialogClose                = "xxforms-dialog-close"
	XXFormsInitialize                 = "xxforms-initialize"
	XXFormsInitializeState            = "xxforms-initialize-state"
	XXFormsReady                      = "xxforms-ready"
	XXFormsRepeatFocus                = "xxforms-repeat-focus"
	XXFormsIndexChanged               = "xxforms-index-changed"
	XXFormsNodesetChanged             = "xxforms-nodeset-changed"
	XXFormsOnline                     = "xxforms-online"
	XXFormsOffline                    = "xxforms-offline"
	XXFormsSessionHeartbeat           = "xxforms-session-heartbeat"
	XXFormsPoll                       = "xxforms-poll"
	XXFormsDND                        = "xxforms-dnd"
	XXFormsInstanceInvalidate         = "xxforms-instance-invalidate"
	XXFormsAllEventsRequired          = "xxforms-all-events-required"
	XXFormsBindingError               = "xxforms-binding-error"
	XXFormsXPathError                 = "xxforms-xpath-error"
	XXFormsActionError                = "xxforms-action-error"
	XXFormsUploadStart                = "xxforms-upload-start"
	XXFormsUploadProgress             = "xxforms-upload-progress"
	XXFormsUploadCancel               = "xxforms-upload-cancel"
	XXFormsUploadDone                 = "xxforms-upload-done"
	XXFormsValid                      = "xxforms-valid"
	XXFormsInvalid                    = "xxforms-invalid"
)

// Context attribute names.
const (
	AttrType               = "xxforms:type"
	AttrTargetID           = "xxforms:targetid"
	AttrEffectiveTargetID  = "xxforms:effective-targetid"
	AttrRepeatIndexes      = "xxforms:repeat-indexes"
	AttrObserverID         = "xxforms:observerid"
	AttrPhase              = "xxforms:phase"
	AttrBubbles            = "xxforms:bubbles"
	AttrCancelable         = "xxforms:cancelable"
	AttrModifiers          = "xxforms:modifiers"
	AttrText               = "xxforms:text"
	AttrValue              = "xxforms:value"
	AttrNewValue           = "xxforms:new-value"
	AttrItemValue          = "xxforms:item-value"
	AttrNeighbor           = "xxforms:neighbor"
	AttrErrorType          = "error-type"
	AttrResourceURI        = "resource-uri"
	AttrStatusCode         = "response-status-code"
	AttrReasonPhrase       = "response-reason-phrase"
	AttrHeaders            = "response-headers"
	AttrBody               = "response-body"
	AttrSubmissionBody     = "submission-body"
	AttrInsertedNodes      = "inserted-nodes"
	AttrOriginNodes        = "origin-nodes"
	AttrInsertLocationNode = "insert-location-node"
	AttrPosition           = "position"
	AttrDeletedNodes       = "deleted-nodes"
	AttrDeleteLocation     = "delete-location"
	AttrErrorMessage       = "error-message"
	AttrResource           = "resource"
	AttrShow               = "show"
	AttrOldIndex           = "old-index"
	AttrNewIndex           = "new-index"
	AttrFromPositions      = "from-positions"
	AttrToPositions        = "to-positions"
	AttrNewPositions       = "new-positions"
	AttrDNDStart           = "dnd-start"
	AttrDNDEnd             = "dnd-end"
	AttrReceived           = "received"
	AttrExpected           = "expected"
	AttrFile               = "file"

	// deprecated spellings
	legacyAttrTarget = "target"
	legacyAttrEvent  = "event"
)

// Submission error types carried by xforms-submit-error.
const (
	SubmissionInProgress  = "submission-in-progress"
	NoData                = "no-data"
	ValidationError       = "validation-error"
	ParseError            = "parse-error"
	ResourceError         = "resource-error"
	TargetError           = "target-error"
	XXFormsPendingUploads = "xxforms-pending-uploads"
	XXFormsInternalError  = "xxforms-internal-error"
)

var submitErrorTypes = map[string]struct{}{
	SubmissionInProgress:  {},
	NoData:                {},
	ValidationError:       {},
	ParseError:            {},
	ResourceError:         {},
	TargetError:           {},
	XXFormsPendingUploads: {},
	XXFormsInternalError:  {},
}
