package events

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTarget struct {
	static, effective, container string
}

func (s stubTarget) StaticID() string    { return s.static }
func (s stubTarget) EffectiveID() string { return s.effective }
func (s stubTarget) ContainerID() string { return s.container }

var (
	inputTarget  = stubTarget{"my-input", "comp$my-input·2-5", "comp"}
	buttonTarget = stubTarget{"button", "button", "$containing-document$"}
)

type keyFilter struct{ modifiers, text string }

func (k keyFilter) KeyModifiers() string { return k.modifiers }
func (k keyFilter) KeyText() string      { return k.text }

func captureLog(t *testing.T) *test.Hook {
	t.Helper()
	l, hook := test.NewNullLogger()
	prev := log
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })
	return hook
}

type flagsTestcase struct {
	name       string
	bubbles    bool
	cancelable bool
	fatal      bool
}

var flagsTests = []flagsTestcase{
	{XFormsValueChanged, true, false, false},
	{DOMActivate, true, true, false},
	{XFormsFocus, false, true, false},
	{XFormsSubmitError, true, false, false},
	{XFormsComputeException, true, false, true},
	{XXFormsValueChangeWithFocusChange, false, false, false},
	{XXFormsUploadProgress, true, false, false},
	{Keypress, true, true, false},
}

func TestCatalogFlags(t *testing.T) {
	for _, tt := range flagsTests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, err := Create(tt.name, buttonTarget, Params{})
			require.NoError(t, err)
			assert.Equal(t, tt.bubbles, e.Bubbles())
			assert.Equal(t, tt.cancelable, e.Cancelable())
			assert.Equal(t, tt.fatal, e.Kind().IsFatal())
			assert.Equal(t, tt.name, e.Kind().String())
			assert.Equal(t, PhaseNone, e.Phase())
			assert.Equal(t, buttonTarget.container, e.ContainerID())
		})
	}
}

func TestCatalogIsComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Catalog() {
		assert.NotEmpty(t, c.Name, "kind %d has no catalog row", c.Kind)
		assert.False(t, seen[c.Name], "duplicate name %q", c.Name)
		seen[c.Name] = true
		assert.True(t, IsBuiltIn(c.Name))
		assert.Equal(t, c.Kind, KindOf(c.Name))
	}
	assert.Len(t, seen, int(numKinds)-1)
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("totally-unknown-event", buttonTarget, Params{})
	assert.True(t, errors.Is(err, ErrUnknownEvent))
	assert.Contains(t, err.Error(), "invalid event name")
	assert.False(t, IsBuiltIn("totally-unknown-event"))

	e, err := Create("totally-unknown-event", buttonTarget, Params{AllowCustom: true, Bubbles: true})
	require.NoError(t, err)
	assert.Equal(t, "totally-unknown-event", e.Name())
	assert.True(t, e.IsCustom())
	assert.True(t, e.Bubbles())
	assert.False(t, e.Cancelable())

	e, err = Create("totally-unknown-event", buttonTarget, Params{AllowCustom: true, Cancelable: true})
	require.NoError(t, err)
	assert.False(t, e.Bubbles())
	assert.True(t, e.Cancelable())

	_, err = Create(DOMActivate, nil, Params{})
	assert.Error(t, err)

	var typed *stubTarget
	assert.NotPanics(t, func() { _, err = Create(DOMActivate, typed, Params{}) })
	assert.Error(t, err)
}

func TestKeypressMatches(t *testing.T) {
	e, err := Create(Keypress, inputTarget, Params{Values: Values{"modifiers": {"ctrl"}, "text": {"a"}}})
	require.NoError(t, err)

	assert.True(t, e.Matches(keyFilter{"ctrl", "a"}))
	assert.False(t, e.Matches(keyFilter{"ctrl", "b"}))
	assert.True(t, e.Matches(keyFilter{" ctrl ", "a "}))
	assert.False(t, e.Matches(keyFilter{"ctrl shift", "a"}))
	assert.False(t, e.Matches(keyFilter{"ctr", "a"}))
	assert.True(t, e.Matches(keyFilter{}))

	// each side of the filter is optional on its own
	assert.True(t, e.Matches(keyFilter{"ctrl", ""}))
	assert.True(t, e.Matches(keyFilter{"", "a"}))
	assert.False(t, e.Matches(keyFilter{"shift", ""}))
	assert.False(t, e.Matches(keyFilter{"", "b"}))

	assert.Equal(t, Sequence{"ctrl"}, e.Attribute(AttrModifiers))
	assert.Equal(t, Sequence{"a"}, e.Attribute(AttrText))

	other, err := Create(DOMActivate, inputTarget, Params{})
	require.NoError(t, err)
	assert.True(t, other.Matches(keyFilter{"ctrl", "b"}))
}

func TestUnknownAttributeIsEmpty(t *testing.T) {
	hook := captureLog(t)
	for _, c := range Catalog() {
		e, err := Create(c.Name, inputTarget, Params{})
		require.NoError(t, err, c.Name)
		var s Sequence
		assert.NotPanics(t, func() { s = e.Attribute("nonexistent-property") }, c.Name)
		assert.Empty(t, s, c.Name)
		assert.NotNil(t, s, c.Name)
	}
	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "nonexistent-property", hook.LastEntry().Data["attribute"])
}

func TestCommonAttributes(t *testing.T) {
	e, err := Create(XFormsValueChanged, inputTarget, Params{Context: "42"})
	require.NoError(t, err)
	e.SetCurrentObserver(buttonTarget)

	assert.Equal(t, Sequence{XFormsValueChanged}, e.Attribute(AttrType))
	assert.Equal(t, Sequence{"my-input"}, e.Attribute(AttrTargetID))
	assert.Equal(t, Sequence{"comp$my-input·2-5"}, e.Attribute(AttrEffectiveTargetID))
	assert.Equal(t, Sequence{2, 5}, e.Attribute(AttrRepeatIndexes))
	assert.Equal(t, Sequence{"button"}, e.Attribute(AttrObserverID))
	assert.Equal(t, Sequence{"none"}, e.Attribute(AttrPhase))
	assert.Equal(t, Sequence{true}, e.Attribute(AttrBubbles))
	assert.Equal(t, Sequence{false}, e.Attribute(AttrCancelable))
	assert.Equal(t, Sequence{"42"}, e.Attribute(AttrValue))
}

func TestDeprecatedAliases(t *testing.T) {
	hook := captureLog(t)
	e, err := Create(DOMActivate, inputTarget, Params{})
	require.NoError(t, err)

	assert.Equal(t, e.Attribute(AttrTargetID), e.Attribute("target"))
	assert.Equal(t, e.Attribute(AttrType), e.Attribute("event"))
	// warnings are emitted at most once per process
	for _, entry := range hook.AllEntries() {
		assert.Equal(t, "deprecated event context attribute", entry.Message)
	}
	assert.LessOrEqual(t, len(hook.AllEntries()), 2)
	e.Attribute("target")
	assert.LessOrEqual(t, len(hook.AllEntries()), 2)
}

func TestCustomAttributes(t *testing.T) {
	calls := 0
	e, err := Create(DOMActivate, inputTarget, Params{})
	require.NoError(t, err)
	e.SetCustom("my-attr", func() Sequence {
		calls++
		return Sequence{"x", "y"}
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, Sequence{"x", "y"}, e.Attribute("my-attr"))
	assert.Equal(t, 1, calls)
}

func TestKindSpecificAttributes(t *testing.T) {
	e, err := Create(XFormsSubmitError, buttonTarget, Params{
		Values: Values{
			AttrErrorType:  {ResourceError},
			AttrStatusCode: {"404"},
			AttrBody:       {"not found"},
		},
		Context: "http://example.org/save",
		Headers: map[string][]string{"Content-Type": {"text/plain"}},
	})
	require.NoError(t, err)
	assert.Equal(t, Sequence{ResourceError}, e.Attribute(AttrErrorType))
	assert.Equal(t, Sequence{404}, e.Attribute(AttrStatusCode))
	assert.Equal(t, Sequence{"http://example.org/save"}, e.Attribute(AttrResourceURI))
	assert.Equal(t, Sequence{"Content-Type: text/plain"}, e.Attribute(AttrHeaders))
	assert.Equal(t, Sequence{}, e.Attribute(AttrReasonPhrase))

	e, err = Create(XXFormsNodesetChanged, buttonTarget, Params{
		Values: Values{AttrFromPositions: {"1 2"}, AttrToPositions: {"2", "1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, Sequence{1, 2}, e.Attribute(AttrFromPositions))
	assert.Equal(t, Sequence{2, 1}, e.Attribute(AttrToPositions))
	assert.Equal(t, Sequence{}, e.Attribute(AttrNewPositions))

	e, err = Create(XXFormsUploadProgress, buttonTarget, Params{Values: Values{AttrReceived: {"10"}}})
	require.NoError(t, err)
	assert.Equal(t, Sequence{int64(10)}, e.Attribute(AttrReceived))
	assert.Equal(t, Sequence{}, e.Attribute(AttrExpected))
}

func TestNodeListsAreCopied(t *testing.T) {
	values := Values{AttrInsertedNodes: {"a", "b"}, AttrOriginNodes: {"o"}}
	e, err := Create(XFormsInsert, buttonTarget, Params{Values: values})
	require.NoError(t, err)
	values[AttrInsertedNodes][0] = "changed"
	values[AttrOriginNodes][0] = "changed"
	assert.Equal(t, Sequence{"a", "b"}, e.Attribute(AttrInsertedNodes))
	assert.Equal(t, Sequence{"o"}, e.Attribute(AttrOriginNodes))

	values = Values{AttrDeletedNodes: {"x"}}
	e, err = Create(XFormsDelete, buttonTarget, Params{Values: values})
	require.NoError(t, err)
	values[AttrDeletedNodes][0] = "changed"
	assert.Equal(t, Sequence{"x"}, e.Attribute(AttrDeletedNodes))
}

func TestUIKinds(t *testing.T) {
	for _, name := range []string{DOMActivate, DOMFocusIn, XFormsValueChanged, XFormsHelp, Keypress, XXFormsDialogClose} {
		assert.True(t, KindOf(name).IsUI(), name)
	}
	for _, name := range []string{XFormsSubmitDone, XFormsReady, XFormsComputeException, XXFormsActionError, XFormsInsert} {
		assert.False(t, KindOf(name).IsUI(), name)
	}
	assert.False(t, KindCustom.IsUI())
}

type invalidParamsTestcase struct {
	name   string
	params Params
}

var invalidParamsTests = []invalidParamsTestcase{
	{XFormsSubmitDone, Params{Values: Values{AttrStatusCode: {"abc"}}}},
	{XFormsSubmitDone, Params{Values: Values{AttrStatusCode: {"1000"}}}},
	{XFormsSubmitError, Params{Values: Values{AttrErrorType: {"bogus"}}}},
	{XFormsInsert, Params{Values: Values{AttrPosition: {"middle"}}}},
	{XXFormsLoad, Params{Values: Values{AttrShow: {"popup"}}}},
	{XXFormsIndexChanged, Params{Values: Values{AttrOldIndex: {"one"}}}},
}

func TestCreateInvalidParams(t *testing.T) {
	for _, tt := range invalidParamsTests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Create(tt.name, buttonTarget, tt.params)
			assert.Error(t, err)
		})
	}
}

func TestRetarget(t *testing.T) {
	e1, err := Create(XFormsSubmitDone, inputTarget, Params{
		Headers: map[string][]string{"X-A": {"1"}},
	})
	require.NoError(t, err)
	e1.SetCustom("c", func() Sequence { return Sequence{"v"} })

	e2, err := e1.Retarget(buttonTarget)
	require.NoError(t, err)
	assert.Same(t, e1, e2.Original())
	assert.Nil(t, e1.Original())
	assert.Equal(t, buttonTarget, e2.Target())
	assert.Equal(t, buttonTarget.container, e2.ContainerID())

	require.NoError(t, e2.EnterPhase(PhaseTarget))
	assert.Equal(t, PhaseNone, e1.Phase())

	e2.Detail().(*SubmitDetail).Headers["X-A"][0] = "changed"
	assert.Equal(t, "1", e1.Detail().(*SubmitDetail).Headers["X-A"][0])

	e2.SetCustom("only-on-clone", func() Sequence { return Sequence{1} })
	assert.Equal(t, Sequence{"v"}, e2.Attribute("c"))
	hook := captureLog(t)
	assert.Empty(t, e1.Attribute("only-on-clone"))
	assert.Len(t, hook.AllEntries(), 1)

	_, err = e1.Retarget(nil)
	assert.Error(t, err)
}

func TestPhaseMonotonic(t *testing.T) {
	e, err := Create(DOMActivate, inputTarget, Params{})
	require.NoError(t, err)

	require.NoError(t, e.EnterPhase(PhaseCapture))
	require.NoError(t, e.EnterPhase(PhaseBubbling))
	assert.Error(t, e.EnterPhase(PhaseTarget))
	assert.Error(t, e.EnterPhase(PhaseBubbling))
	assert.Equal(t, PhaseBubbling, e.Phase())
}

func TestMarkConsumed(t *testing.T) {
	e, err := Create(DOMActivate, inputTarget, Params{})
	require.NoError(t, err)
	require.NoError(t, e.MarkConsumed())
	assert.True(t, errors.Is(e.MarkConsumed(), ErrAlreadyDispatched))
}

func TestFatalError(t *testing.T) {
	cause := errors.New("division by zero")
	e, err := Create(XFormsComputeException, inputTarget, Params{Err: cause})
	require.NoError(t, err)
	assert.Equal(t, cause, e.Cause())
	assert.Equal(t, Sequence{"division by zero"}, e.Attribute(AttrErrorMessage))

	fatal := e.FatalError()
	require.Error(t, fatal)
	assert.Equal(t, cause, errors.Cause(fatal))

	e, err = Create(XFormsLinkException, inputTarget, Params{Context: "cannot load"})
	require.NoError(t, err)
	assert.Contains(t, e.FatalError().Error(), "cannot load")

	e, err = Create(XFormsSubmitError, inputTarget, Params{})
	require.NoError(t, err)
	assert.NoError(t, e.FatalError())
}
