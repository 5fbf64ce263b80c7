package action

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/heathj/goxforms/xforms/dispatch"
	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/events"
	"github.com/heathj/goxforms/xforms/handler"
	"github.com/heathj/goxforms/xforms/markup"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	doc    *markup.Document
	d      *dispatch.Dispatcher
	out    bytes.Buffer
	events []string
	seen   map[string]*events.Event
}

func newHarness(t *testing.T, body string, s dispatch.Settings) *harness {
	t.Helper()
	log, _ := test.NewNullLogger()
	doc, err := markup.Load(strings.NewReader(`<xh:html `+
		`xmlns:xh="http://www.w3.org/1999/xhtml" `+
		`xmlns:xf="http://www.w3.org/2002/xforms" `+
		`xmlns:ev="http://www.w3.org/2001/xml-events" `+
		`xmlns:xbl="http://www.w3.org/ns/xbl" `+
		`xmlns:xxf="http://orbeon.org/oxf/xml/xforms">`+body+`</xh:html>`), markup.WithLogger(log))
	require.NoError(t, err)

	h := &harness{doc: doc, seen: map[string]*events.Event{}}
	interp := New(log, &h.out)
	record := handler.InterpreterFunc(func(ctx context.Context, inv handler.Invocation) error {
		h.seen[inv.Event.Name()] = inv.Event
		return interp.RunAction(ctx, inv)
	})
	ids := map[string]bool{}
	h.d = dispatch.New(doc.Tree, doc.Registry, record, s, dispatch.WithLogger(log), dispatch.WithTrace(func(e dispatch.TraceEntry) {
		if !ids[e.DispatchID] {
			ids[e.DispatchID] = true
			h.events = append(h.events, e.Event+"@"+e.Target)
		}
	}))
	return h
}

func (h *harness) node(t *testing.T, id string) *dom.Node {
	t.Helper()
	n, ok := h.doc.Tree.Lookup(id)
	require.True(t, ok, id)
	return n
}

func (h *harness) fire(t *testing.T, name, target string) error {
	t.Helper()
	e, err := h.d.Create(name, h.node(t, target), events.Params{})
	require.NoError(t, err)
	return h.d.Dispatch(context.Background(), e)
}

func TestDispatchAction(t *testing.T) {
	h := newHarness(t, `
		<xf:model id="model">
			<xf:message ev:event="my-event">got it</xf:message>
		</xf:model>
		<xf:input id="c">
			<xf:action ev:event="DOMActivate">
				<xf:dispatch name="my-event" targetid="model">
					<xf:property name="answer" value="42"/>
					<xf:property name="answer">43</xf:property>
				</xf:dispatch>
			</xf:action>
		</xf:input>`, dispatch.Settings{AllowCustomEvents: true})

	require.NoError(t, h.fire(t, events.DOMActivate, "c"))
	assert.Equal(t, []string{"DOMActivate@c", "my-event@model"}, h.events)
	assert.Equal(t, "[modal] got it\n", h.out.String())

	custom := h.seen["my-event"]
	require.NotNil(t, custom)
	assert.Equal(t, events.Sequence{"42", "43"}, custom.Attribute("answer"))
	assert.True(t, custom.Bubbles())
	assert.True(t, custom.Cancelable())
}

func TestDispatchFlags(t *testing.T) {
	h := newHarness(t, `
		<xf:input id="c">
			<xf:dispatch ev:event="DOMActivate" name="my-event" targetid="c" bubbles="false" cancelable="false"/>
			<xf:message ev:event="my-event">custom</xf:message>
		</xf:input>`, dispatch.Settings{AllowCustomEvents: true})

	require.NoError(t, h.fire(t, events.DOMActivate, "c"))
	custom := h.seen["my-event"]
	require.NotNil(t, custom)
	assert.False(t, custom.Bubbles())
	assert.False(t, custom.Cancelable())

	// built-in flags cannot be overridden
	h = newHarness(t, `
		<xf:input id="c">
			<xf:dispatch ev:event="DOMActivate" name="xforms-help" targetid="c" bubbles="false"/>
			<xf:message ev:event="xforms-help">help</xf:message>
		</xf:input>`, dispatch.Settings{})
	require.NoError(t, h.fire(t, events.DOMActivate, "c"))
	require.NotNil(t, h.seen[events.XFormsHelp])
	assert.True(t, h.seen[events.XFormsHelp].Bubbles())
}

func TestUnknownCustomEvent(t *testing.T) {
	h := newHarness(t, `
		<xf:input id="c">
			<xf:dispatch ev:event="DOMActivate" name="my-event" targetid="c"/>
		</xf:input>`, dispatch.Settings{})

	err := h.fire(t, events.DOMActivate, "c")
	assert.True(t, errors.Is(err, events.ErrUnknownEvent), "%v", err)
}

func TestSetvalueFromRepeat(t *testing.T) {
	h := newHarness(t, `
		<xf:input id="c" xxf:value="old">
			<xf:message ev:event="xforms-value-changed">changed</xf:message>
		</xf:input>
		<xf:repeat id="r" xxf:iterations="2">
			<xf:trigger id="row">
				<xf:setvalue ev:event="DOMActivate" control="c">row clicked</xf:setvalue>
			</xf:trigger>
		</xf:repeat>`, dispatch.Settings{})

	require.NoError(t, h.fire(t, events.DOMActivate, "row·2"))
	assert.Equal(t, "row clicked", h.node(t, "c").Value)
	assert.Equal(t, []string{"DOMActivate@row·2", "xforms-value-changed@c"}, h.events)
	assert.Equal(t, "[modal] changed\n", h.out.String())

	// unchanged value
	require.NoError(t, h.fire(t, events.DOMActivate, "row·1"))
	assert.Len(t, h.events, 3)
}

func TestRepeatTemplateHandler(t *testing.T) {
	h := newHarness(t, `
		<xf:repeat id="r" xxf:iterations="2">
			<xf:setvalue ev:event="DOMActivate" control="row" value="clicked"/>
			<xf:trigger id="row"/>
		</xf:repeat>`, dispatch.Settings{})

	require.NoError(t, h.fire(t, events.DOMActivate, "row·2"))
	assert.Equal(t, "clicked", h.node(t, "row·2").Value)
	assert.Equal(t, "", h.node(t, "row·1").Value)
}

func TestComponentBoundary(t *testing.T) {
	h := newHarness(t, `
		<xbl:xbl xmlns:my="urn:my">
			<xbl:binding element="my|picker">
				<xbl:template>
					<xf:trigger id="inner"/>
					<xf:model id="m"/>
				</xbl:template>
			</xbl:binding>
		</xbl:xbl>
		<xf:group id="g">
			<xf:message ev:event="DOMActivate" ev:target="picker">picked</xf:message>
			<xf:message ev:event="DOMActivate" ev:target="inner">leaked</xf:message>
			<xf:message ev:event="xforms-submit-done">done</xf:message>
			<my:picker xmlns:my="urn:my" id="picker"/>
		</xf:group>`, dispatch.Settings{})

	require.NoError(t, h.fire(t, events.DOMActivate, "picker$inner"))
	assert.Equal(t, "[modal] picked\n", h.out.String())
	require.NotNil(t, h.seen[events.DOMActivate])
	assert.Equal(t, "picker", h.seen[events.DOMActivate].Target().EffectiveID())

	h.out.Reset()
	require.NoError(t, h.fire(t, events.XFormsSubmitDone, "picker$m"))
	assert.Empty(t, h.out.String())
}

func TestTargetInSameIteration(t *testing.T) {
	h := newHarness(t, `
		<xf:repeat id="r" xxf:iterations="2">
			<xf:input id="a">
				<xf:setfocus ev:event="DOMActivate" control="b"/>
			</xf:input>
			<xf:input id="b"/>
		</xf:repeat>`, dispatch.Settings{})
	focused := ""
	h.d.SetDefaultAction(events.XFormsFocus, func(_ context.Context, _ *dispatch.Dispatcher, e *events.Event, _ bool) error {
		focused = e.Target().EffectiveID()
		return nil
	})

	require.NoError(t, h.fire(t, events.DOMActivate, "a·2"))
	assert.Equal(t, "b·2", focused)
}

func TestComponentScope(t *testing.T) {
	h := newHarness(t, `
		<xbl:xbl xmlns:my="urn:my">
			<xbl:binding element="my|greeter">
				<xbl:handlers>
					<xbl:handler event="DOMActivate">
						<xf:setvalue control="name" value="hello"/>
					</xbl:handler>
				</xbl:handlers>
				<xbl:template>
					<xf:input id="name">
						<xf:message ev:event="xforms-value-changed" level="ephemeral">changed</xf:message>
					</xf:input>
				</xbl:template>
			</xbl:binding>
		</xbl:xbl>
		<xf:input id="name"/>
		<my:greeter xmlns:my="urn:my" id="greeter"/>`, dispatch.Settings{})

	require.NoError(t, h.fire(t, events.DOMActivate, "greeter"))
	assert.Equal(t, "hello", h.node(t, "greeter$name").Value)
	assert.Equal(t, "", h.node(t, "name").Value)
	assert.Equal(t, "[ephemeral] changed\n", h.out.String())
}

func TestActionErrors(t *testing.T) {
	tests := []struct {
		name   string
		action string
		err    error
	}{
		{"unsupported", `<xf:insert ev:event="DOMActivate"/>`, ErrUnsupportedAction},
		{"foreign", `<xh:script ev:event="DOMActivate"/>`, ErrUnsupportedAction},
		{"unknown target", `<xf:setfocus ev:event="DOMActivate" control="nope"/>`, ErrActionTarget},
		{"empty target", `<xf:setfocus ev:event="DOMActivate"/>`, ErrActionTarget},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, `<xf:input id="c">`+tt.action+`</xf:input>`, dispatch.Settings{})
			err := h.fire(t, events.DOMActivate, "c")
			assert.True(t, errors.Is(err, tt.err), "%v", err)
		})
	}
}

func TestNestedHandlersAreSkipped(t *testing.T) {
	h := newHarness(t, `
		<xf:input id="c">
			<xf:action ev:event="DOMActivate">
				<xf:message>outer</xf:message>
				<xf:action ev:event="xforms-help" ev:observer="c">
					<xf:message>nested</xf:message>
				</xf:action>
			</xf:action>
		</xf:input>`, dispatch.Settings{})

	require.NoError(t, h.fire(t, events.DOMActivate, "c"))
	assert.Equal(t, "[modal] outer\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.fire(t, events.XFormsHelp, "c"))
	assert.Equal(t, "[modal] nested\n", h.out.String())
}
