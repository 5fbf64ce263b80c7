package events

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// attributer is implemented by the detail payload of kinds that expose
// context attributes beyond the common ones.
type attributer interface {
	attribute(name string) (Sequence, bool)
}

type SerializeDetail struct {
	SubmissionBody string
}

func (d *SerializeDetail) attribute(name string) (Sequence, bool) {
	if name == AttrSubmissionBody {
		return one(d.SubmissionBody), true
	}
	return nil, false
}

// SubmitDetail is carried by xforms-submit-done and xforms-submit-error.
// ErrorType is empty for submit-done.
type SubmitDetail struct {
	ErrorType    string
	ResourceURI  string
	StatusCode   int
	ReasonPhrase string
	Headers      map[string][]string
	Body         string
}

func (d *SubmitDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrErrorType:
		if d.ErrorType == "" {
			return nil, false
		}
		return one(d.ErrorType), true
	case AttrResourceURI:
		return optional(d.ResourceURI), true
	case AttrStatusCode:
		if d.StatusCode == 0 {
			return Sequence{}, true
		}
		return one(d.StatusCode), true
	case AttrReasonPhrase:
		return optional(d.ReasonPhrase), true
	case AttrHeaders:
		names := make([]string, 0, len(d.Headers))
		for n := range d.Headers {
			names = append(names, n)
		}
		sort.Strings(names)
		s := Sequence{}
		for _, n := range names {
			for _, v := range d.Headers[n] {
				s = append(s, n+": "+v)
			}
		}
		return s, true
	case AttrBody:
		return optional(d.Body), true
	}
	return nil, false
}

// ItemDetail is carried by xforms-select and xforms-deselect.
type ItemDetail struct {
	Value string
}

func (d *ItemDetail) attribute(name string) (Sequence, bool) {
	if name == AttrItemValue {
		return one(d.Value), true
	}
	return nil, false
}

type ValueDetail struct {
	Value string
}

func (d *ValueDetail) attribute(name string) (Sequence, bool) {
	if name == AttrValue {
		return one(d.Value), true
	}
	return nil, false
}

// NewValueDetail is the value sent by the client with
// xxforms-value-change-with-focus-change and xxforms-value-or-activate.
type NewValueDetail struct {
	NewValue string
}

func (d *NewValueDetail) attribute(name string) (Sequence, bool) {
	if name == AttrNewValue {
		return one(d.NewValue), true
	}
	return nil, false
}

type InsertDetail struct {
	InsertedNodes      []string
	OriginNodes        []string
	InsertLocationNode string
	Position           string
}

func (d *InsertDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrInsertedNodes:
		return strs(d.InsertedNodes), true
	case AttrOriginNodes:
		return strs(d.OriginNodes), true
	case AttrInsertLocationNode:
		return optional(d.InsertLocationNode), true
	case AttrPosition:
		return optional(d.Position), true
	}
	return nil, false
}

type DeleteDetail struct {
	DeletedNodes   []string
	DeleteLocation int
}

func (d *DeleteDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrDeletedNodes:
		return strs(d.DeletedNodes), true
	case AttrDeleteLocation:
		return one(d.DeleteLocation), true
	}
	return nil, false
}

// ErrorDetail is carried by the exception and error kinds.
type ErrorDetail struct {
	Message     string
	ResourceURI string
}

func (d *ErrorDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrErrorMessage:
		return optional(d.Message), true
	case AttrResourceURI:
		return optional(d.ResourceURI), true
	}
	return nil, false
}

type KeypressDetail struct {
	Modifiers string
	Text      string
}

func (d *KeypressDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrModifiers:
		return optional(d.Modifiers), true
	case AttrText:
		return optional(d.Text), true
	}
	return nil, false
}

type LoadDetail struct {
	Resource string
	Show     string
}

func (d *LoadDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrResource:
		return one(d.Resource), true
	case AttrShow:
		return one(d.Show), true
	}
	return nil, false
}

type DialogDetail struct {
	Neighbor string
}

func (d *DialogDetail) attribute(name string) (Sequence, bool) {
	if name == AttrNeighbor {
		return optional(d.Neighbor), true
	}
	return nil, false
}

type IndexChangedDetail struct {
	OldIndex int
	NewIndex int
}

func (d *IndexChangedDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrOldIndex:
		return one(d.OldIndex), true
	case AttrNewIndex:
		return one(d.NewIndex), true
	}
	return nil, false
}

type NodesetChangedDetail struct {
	FromPositions []int
	ToPositions   []int
	NewPositions  []int
}

func (d *NodesetChangedDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrFromPositions:
		return ints(d.FromPositions), true
	case AttrToPositions:
		return ints(d.ToPositions), true
	case AttrNewPositions:
		return ints(d.NewPositions), true
	}
	return nil, false
}

type DNDDetail struct {
	Start string
	End   string
}

func (d *DNDDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrDNDStart:
		return one(d.Start), true
	case AttrDNDEnd:
		return one(d.End), true
	}
	return nil, false
}

type UploadProgressDetail struct {
	Received int64
	Expected int64
}

func (d *UploadProgressDetail) attribute(name string) (Sequence, bool) {
	switch name {
	case AttrReceived:
		return one(d.Received), true
	case AttrExpected:
		if d.Expected <= 0 {
			return Sequence{}, true
		}
		return one(d.Expected), true
	}
	return nil, false
}

type UploadDoneDetail struct {
	File string
}

func (d *UploadDoneDetail) attribute(name string) (Sequence, bool) {
	if name == AttrFile {
		return optional(d.File), true
	}
	return nil, false
}

func one(v interface{}) Sequence { return Sequence{v} }

func optional(s string) Sequence {
	if s == "" {
		return Sequence{}
	}
	return Sequence{s}
}

func strs(ss []string) Sequence {
	s := make(Sequence, 0, len(ss))
	for _, v := range ss {
		s = append(s, v)
	}
	return s
}

func ints(is []int) Sequence {
	s := make(Sequence, 0, len(is))
	for _, v := range is {
		s = append(s, v)
	}
	return s
}

// Builders. Each consumes only the parameters its kind needs.

func buildSerialize(e *Event, p Params) error {
	e.detail = &SerializeDetail{SubmissionBody: p.Values.Get(AttrSubmissionBody)}
	return nil
}

func buildItem(e *Event, p Params) error {
	e.detail = &ItemDetail{Value: p.Values.GetOr(AttrItemValue, p.Context)}
	return nil
}

func buildValue(e *Event, p Params) error {
	e.detail = &ValueDetail{Value: p.Values.GetOr(AttrValue, p.Context)}
	return nil
}

func buildNewValue(e *Event, p Params) error {
	e.detail = &NewValueDetail{NewValue: p.Values.GetOr(AttrNewValue, p.Context)}
	return nil
}

func buildInsert(e *Event, p Params) error {
	position := p.Values.Get(AttrPosition)
	if position != "" && position != "before" && position != "after" {
		return errors.Errorf("invalid %s %q", AttrPosition, position)
	}
	e.detail = &InsertDetail{
		InsertedNodes:      append([]string(nil), p.Values[AttrInsertedNodes]...),
		OriginNodes:        append([]string(nil), p.Values[AttrOriginNodes]...),
		InsertLocationNode: p.Values.Get(AttrInsertLocationNode),
		Position:           position,
	}
	return nil
}

func buildDelete(e *Event, p Params) error {
	location, err := p.Values.Int(AttrDeleteLocation)
	if err != nil {
		return err
	}
	e.detail = &DeleteDetail{DeletedNodes: append([]string(nil), p.Values[AttrDeletedNodes]...), DeleteLocation: location}
	return nil
}

func buildSubmitDone(e *Event, p Params) error {
	d, err := submitDetail(p)
	if err != nil {
		return err
	}
	e.detail = d
	return nil
}

func buildSubmitError(e *Event, p Params) error {
	d, err := submitDetail(p)
	if err != nil {
		return err
	}
	d.ErrorType = p.Values.GetOr(AttrErrorType, XXFormsInternalError)
	if _, ok := submitErrorTypes[d.ErrorType]; !ok {
		return errors.Errorf("invalid %s %q", AttrErrorType, d.ErrorType)
	}
	e.cause = p.Err
	e.detail = d
	return nil
}

func submitDetail(p Params) (*SubmitDetail, error) {
	code, err := p.Values.Int(AttrStatusCode)
	if err != nil {
		return nil, err
	}
	if code != 0 && (code < 100 || code > 599) {
		return nil, errors.Errorf("invalid %s %d", AttrStatusCode, code)
	}
	var headers map[string][]string
	if len(p.Headers) > 0 {
		headers = make(map[string][]string, len(p.Headers))
		for k, v := range p.Headers {
			headers[k] = append([]string(nil), v...)
		}
	}
	return &SubmitDetail{
		ResourceURI:  p.Values.GetOr(AttrResourceURI, p.Context),
		StatusCode:   code,
		ReasonPhrase: p.Values.Get(AttrReasonPhrase),
		Headers:      headers,
		Body:         p.Values.Get(AttrBody),
	}, nil
}

func buildError(e *Event, p Params) error {
	msg := p.Values.GetOr(AttrErrorMessage, p.Context)
	if msg == "" && p.Err != nil {
		msg = p.Err.Error()
	}
	e.cause = p.Err
	e.detail = &ErrorDetail{Message: msg, ResourceURI: p.Values.Get(AttrResourceURI)}
	return nil
}

func buildKeypress(e *Event, p Params) error {
	e.detail = &KeypressDetail{
		Modifiers: strings.TrimSpace(p.Values.GetOr("modifiers", p.Values.Get(AttrModifiers))),
		Text:      strings.TrimSpace(p.Values.GetOr("text", p.Values.Get(AttrText))),
	}
	return nil
}

func buildLoad(e *Event, p Params) error {
	show := p.Values.GetOr(AttrShow, "replace")
	if show != "replace" && show != "new" {
		return errors.Errorf("invalid %s %q", AttrShow, show)
	}
	e.detail = &LoadDetail{Resource: p.Values.GetOr(AttrResource, p.Context), Show: show}
	return nil
}

func buildDialog(e *Event, p Params) error {
	neighbor := p.Values.Get(AttrNeighbor)
	if neighbor == "" && p.OtherTarget != nil {
		neighbor = p.OtherTarget.EffectiveID()
	}
	e.detail = &DialogDetail{Neighbor: neighbor}
	return nil
}

func buildIndexChanged(e *Event, p Params) error {
	oldIndex, err := p.Values.Int(AttrOldIndex)
	if err != nil {
		return err
	}
	newIndex, err := p.Values.Int(AttrNewIndex)
	if err != nil {
		return err
	}
	e.detail = &IndexChangedDetail{OldIndex: oldIndex, NewIndex: newIndex}
	return nil
}

func buildNodesetChanged(e *Event, p Params) error {
	d := &NodesetChangedDetail{}
	var err error
	if d.FromPositions, err = p.Values.Ints(AttrFromPositions); err != nil {
		return err
	}
	if d.ToPositions, err = p.Values.Ints(AttrToPositions); err != nil {
		return err
	}
	if d.NewPositions, err = p.Values.Ints(AttrNewPositions); err != nil {
		return err
	}
	e.detail = d
	return nil
}

func buildDND(e *Event, p Params) error {
	e.detail = &DNDDetail{Start: p.Values.Get(AttrDNDStart), End: p.Values.Get(AttrDNDEnd)}
	return nil
}

func buildUploadProgress(e *Event, p Params) error {
	received, err := p.Values.Int(AttrReceived)
	if err != nil {
		return err
	}
	expected, err := p.Values.Int(AttrExpected)
	if err != nil {
		return err
	}
	e.detail = &UploadProgressDetail{Received: int64(received), Expected: int64(expected)}
	return nil
}

func buildUploadDone(e *Event, p Params) error {
	e.detail = &UploadDoneDetail{File: p.Values.GetOr(AttrFile, p.Context)}
	return nil
}

// Values holds the string parameters of an event construction request.
type Values map[string][]string

// Get returns the first value for key, or "".
func (v Values) Get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// GetOr returns the first non-empty value for key, or def.
func (v Values) GetOr(key, def string) string {
	if s := v.Get(key); s != "" {
		return s
	}
	return def
}

func (v Values) Set(key, value string) {
	v[key] = []string{value}
}

func (v Values) Add(key, value string) {
	v[key] = append(v[key], value)
}

// Int parses the first value for key. A missing key is 0.
func (v Values) Int(key string) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return i, nil
}

// Ints parses every value for key. Each value may itself hold several
// space-separated integers.
func (v Values) Ints(key string) ([]int, error) {
	var out []int
	for _, s := range v[key] {
		for _, f := range strings.Fields(s) {
			i, err := strconv.Atoi(f)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid %s", key)
			}
			out = append(out, i)
		}
	}
	return out, nil
}
