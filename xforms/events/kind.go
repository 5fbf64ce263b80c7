package events

import "strconv"

// Kind identifies the built-in event type. Every built-in name has exactly
// one Kind; names not in the catalog are KindCustom.
type Kind uint8

const (
	KindCustom Kind = iota

	KindModelConstruct
	KindModelConstructDone
	KindReady
	KindModelDestruct

	KindRebuild
	KindRecalculate
	KindRevalidate
	KindRefresh
	KindReset
	KindSubmit
	KindSubmitSerialize
	KindFocus
	KindHelp
	KindHint
	KindNext
	KindPrevious

	KindDOMActivate
	KindDOMFocusIn
	KindDOMFocusOut
	KindSelect
	KindDeselect
	KindValueChanged
	KindValid
	KindInvalid
	KindReadonly
	KindReadwrite
	KindRequired
	KindOptional
	KindEnabled
	KindDisabled
	KindInRange
	KindOutOfRange
	KindScrollFirst
	KindScrollLast
	KindInsert
	KindDelete
	KindSubmitDone
	KindSubmitError
	KindLinkError
	KindOutputError
	KindComputeException
	KindBindingException
	KindLinkException
	KindVersionException
	KindKeypress

	KindValueChangeWithFocusChange
	KindValueOrActivate
	KindXXSubmit
	KindSubmitReplace
	KindLoad
	KindDialogOpen
	KindDialogClose
	KindInitialize
	KindInitializeState
	KindXXReady
	KindRepeatFocus
	KindIndexChanged
	KindNodesetChanged
	KindOnline
	KindOffline
	KindSessionHeartbeat
	KindPoll
	KindDND
	KindInstanceInvalidate
	KindAllEventsRequired
	KindBindingError
	KindXPathError
	KindActionError
	KindUploadStart
	KindUploadProgress
	KindUploadCancel
	KindUploadDone
	KindXXValid
	KindXXInvalid

	numKinds
)

func (k Kind) String() string {
	if k == KindCustom {
		return "custom"
	}
	if k < numKinds {
		return catalog[k].name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsFatal reports whether an unhandled event of this kind ends the request.
func (k Kind) IsFatal() bool {
	return k < numKinds && catalog[k].fatal
}

// IsUI reports whether events of this kind are about controls. UI events are
// retargeted when they cross a component boundary, others stop there.
func (k Kind) IsUI() bool {
	switch k {
	case KindDOMActivate, KindDOMFocusIn, KindDOMFocusOut,
		KindFocus, KindHelp, KindHint, KindNext, KindPrevious,
		KindSelect, KindDeselect, KindValueChanged,
		KindValid, KindInvalid, KindReadonly, KindReadwrite,
		KindRequired, KindOptional, KindEnabled, KindDisabled,
		KindInRange, KindOutOfRange, KindScrollFirst, KindScrollLast,
		KindKeypress, KindValueChangeWithFocusChange, KindValueOrActivate,
		KindDialogOpen, KindDialogClose, KindRepeatFocus,
		KindIndexChanged, KindNodesetChanged, KindDND,
		KindUploadStart, KindUploadProgress, KindUploadCancel, KindUploadDone:
		return true
	}
	return false
}

type builder func(e *Event, p Params) error

type entry struct {
	name       string
	bubbles    bool
	cancelable bool
	fatal      bool
	build      builder
}

// catalog is indexed by Kind and never modified after init.
var catalog = [numKinds]entry{
	KindModelConstruct:     {name: XFormsModelConstruct, bubbles: true},
	KindModelConstructDone: {name: XFormsModelConstructDone, bubbles: true},
	KindReady:              {name: XFormsReady, bubbles: true},
	KindModelDestruct:      {name: XFormsModelDestruct, bubbles: true},

	KindRebuild:         {name: XFormsRebuild, bubbles: true, cancelable: true},
	KindRecalculate:     {name: XFormsRecalculate, bubbles: true, cancelable: true},
	KindRevalidate:      {name: XFormsRevalidate, bubbles: true, cancelable: true},
	KindRefresh:         {name: XFormsRefresh, bubbles: true, cancelable: true},
	KindReset:           {name: XFormsReset, bubbles: true, cancelable: true},
	KindSubmit:          {name: XFormsSubmit, bubbles: true, cancelable: true},
	KindSubmitSerialize: {name: XFormsSubmitSerialize, bubbles: true, build: buildSerialize},
	KindFocus:           {name: XFormsFocus, cancelable: true},
	KindHelp:            {name: XFormsHelp, bubbles: true, cancelable: true},
	KindHint:            {name: XFormsHint, bubbles: true, cancelable: true},
	KindNext:            {name: XFormsNext, cancelable: true},
	KindPrevious:        {name: XFormsPrevious, cancelable: true},

	KindDOMActivate:      {name: DOMActivate, bubbles: true, cancelable: true},
	KindDOMFocusIn:       {name: DOMFocusIn, bubbles: true},
	KindDOMFocusOut:      {name: DOMFocusOut, bubbles: true},
	KindSelect:           {name: XFormsSelect, bubbles: true, build: buildItem},
	KindDeselect:         {name: XFormsDeselect, bubbles: true, build: buildItem},
	KindValueChanged:     {name: XFormsValueChanged, bubbles: true, build: buildValue},
	KindValid:            {name: XFormsValid, bubbles: true},
	KindInvalid:          {name: XFormsInvalid, bubbles: true},
	KindReadonly:         {name: XFormsReadonly, bubbles: true},
	KindReadwrite:        {name: XFormsReadwrite, bubbles: true},
	KindRequired:         {name: XFormsRequired, bubbles: true},
	KindOptional:         {name: XFormsOptional, bubbles: true},
	KindEnabled:          {name: XFormsEnabled, bubbles: true},
	KindDisabled:         {name: XFormsDisabled, bubbles: true},
	KindInRange:          {name: XFormsInRange, bubbles: true},
	KindOutOfRange:       {name: XFormsOutOfRange, bubbles: true},
	KindScrollFirst:      {name: XFormsScrollFirst, bubbles: true},
	KindScrollLast:       {name: XFormsScrollLast, bubbles: true},
	KindInsert:           {name: XFormsInsert, bubbles: true, build: buildInsert},
	KindDelete:           {name: XFormsDelete, bubbles: true, build: buildDelete},
	KindSubmitDone:       {name: XFormsSubmitDone, bubbles: true, build: buildSubmitDone},
	KindSubmitError:      {name: XFormsSubmitError, bubbles: true, build: buildSubmitError},
	KindLinkError:        {name: XFormsLinkError, bubbles: true, build: buildError},
	KindOutputError:      {name: XFormsOutputError, bubbles: true, build: buildError},
	KindComputeException: {name: XFormsComputeException, bubbles: true, fatal: true, build: buildError},
	KindBindingException: {name: XFormsBindingException, bubbles: true, fatal: true, build: buildError},
	KindLinkException:    {name: XFormsLinkException, bubbles: true, fatal: true, build: buildError},
	KindVersionException: {name: XFormsVersionException, bubbles: true, fatal: true, build: buildError},
	KindKeypress:         {name: Keypress, bubbles: true, cancelable: true, build: buildKeypress},

	KindValueChangeWithFocusChange: {name: XXFormsValueChangeWithFocusChange, build: buildNewValue},
	KindValueOrActivate:            {name: XXFormsValueOrActivate, build: buildNewValue},
	KindXXSubmit:                   {name: XXFormsSubmit},
	KindSubmitReplace:              {name: XXFormsSubmitReplace},
	KindLoad:                       {name: XXFormsLoad, build: buildLoad},
	KindDialogOpen:                 {name: XXFormsDialogOpen, bubbles: true, build: buildDialog},
	KindDialogClose:                {name: XXFormsDialogClose, bubbles: true},
	KindInitialize:                 {name: XXFormsInitialize},
	KindInitializeState:            {name: XXFormsInitializeState},
	KindXXReady:                    {name: XXFormsReady},
	KindRepeatFocus:                {name: XXFormsRepeatFocus},
	KindIndexChanged:               {name: XXFormsIndexChanged, bubbles: true, build: buildIndexChanged},
	KindNodesetChanged:             {name: XXFormsNodesetChanged, bubbles: true, build: buildNodesetChanged},
	KindOnline:                     {name: XXFormsOnline},
	KindOffline:                    {name: XXFormsOffline},
	KindSessionHeartbeat:           {name: XXFormsSessionHeartbeat},
	KindPoll:                       {name: XXFormsPoll},
	KindDND:                        {name: XXFormsDND, bubbles: true, build: buildDND},
	KindInstanceInvalidate:         {name: XXFormsInstanceInvalidate},
	KindAllEventsRequired:          {name: XXFormsAllEventsRequired},
	KindBindingError:               {name: XXFormsBindingError, bubbles: true, build: buildError},
	KindXPathError:                 {name: XXFormsXPathError, bubbles: true, build: buildError},
	KindActionError:                {name: XXFormsActionError, bubbles: true, build: buildError},
	KindUploadStart:                {name: XXFormsUploadStart, bubbles: true},
	KindUploadProgress:             {name: XXFormsUploadProgress, bubbles: true, build: buildUploadProgress},
	KindUploadCancel:               {name: XXFormsUploadCancel, bubbles: true},
	KindUploadDone:                 {name: XXFormsUploadDone, bubbles: true, build: buildUploadDone},
	KindXXValid:                    {name: XXFormsValid, bubbles: true},
	KindXXInvalid:                  {name: XXFormsInvalid, bubbles: true},
}

var byName map[string]Kind

func init() {
	byName = make(map[string]Kind, numKinds)
	for k := KindCustom + 1; k < numKinds; k++ {
		byName[catalog[k].name] = k
	}
}
