package markup

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/heathj/goxforms/xforms/dom"
	"github.com/heathj/goxforms/xforms/handler"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidBinding    = errors.New("invalid xbl:binding")
	ErrInvalidIterations = errors.New("invalid xxf:iterations")
)

// Document is loaded markup: the static elements, the live tree built from
// them and the sealed handler registry.
type Document struct {
	Root     *dom.Element
	Tree     *dom.Tree
	Registry *handler.Registry
}

type Option func(*loader)

func WithLogger(l logrus.FieldLogger) Option {
	return func(ld *loader) { ld.log = l }
}

var controls = map[string]struct{}{
	"input": {}, "secret": {}, "textarea": {}, "output": {}, "upload": {},
	"range": {}, "trigger": {}, "submit": {}, "select": {}, "select1": {},
	"group": {}, "switch": {}, "case": {},
}

type nodeKey struct{ space, local string }

type loader struct {
	log      logrus.FieldLogger
	tree     *dom.Tree
	registry *handler.Registry
	bindings map[nodeKey]*dom.Element
	nextID   int
	errs     *multierror.Error
}

// scope is where an element is being built.
type scope struct {
	parent *dom.Node
	// prefix of the component template the element belongs to, e.g. "comp$"
	prefix string
	// static id of the closest enclosing observer element
	ancestor string
	// handlers are registered on the first pass over shared markup only
	handlers bool
}

// LoadFile loads the markup stored at path.
func LoadFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening markup")
	}
	defer f.Close()
	return Load(f, opts...)
}

// Load parses XForms markup and builds its tree and handlers. Every problem
// found is reported in a single aggregated error.
func Load(r io.Reader, opts ...Option) (*Document, error) {
	root, err := Parse(NewTokenizer(r))
	if err != nil {
		return nil, errors.Wrap(err, "parsing markup")
	}
	ld := &loader{
		log:      logrus.StandardLogger(),
		tree:     dom.NewTree(),
		registry: handler.NewRegistry(),
		bindings: map[nodeKey]*dom.Element{},
	}
	for _, o := range opts {
		o(ld)
	}

	ld.collectBindings(root)
	ld.build(root, scope{
		parent:   ld.tree.Root(),
		ancestor: dom.ContainingDocumentID,
		handlers: true,
	})
	if err := ld.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	ld.registry.Seal()
	ld.log.WithFields(logrus.Fields{
		"nodes":    ld.tree.Len(),
		"handlers": ld.registry.Len(),
	}).Debug("loaded markup")
	return &Document{Root: root, Tree: ld.tree, Registry: ld.registry}, nil
}

func (ld *loader) fail(err error) {
	ld.errs = multierror.Append(ld.errs, err)
}

// collectBindings indexes xbl:binding elements by the element they bind,
// written "prefix|local" in the element attribute.
func (ld *loader) collectBindings(el *dom.Element) {
	if el.Is(dom.XBLNS, "binding") {
		ld.addBinding(el)
		return
	}
	for _, c := range el.Children {
		ld.collectBindings(c)
	}
}

func (ld *loader) addBinding(el *dom.Element) {
	v := strings.TrimSpace(el.AttrValue("", "element"))
	prefix, local := "", v
	if i := strings.IndexByte(v, '|'); i != -1 {
		prefix, local = v[:i], v[i+1:]
	}
	if local == "" {
		ld.fail(errors.Wrapf(ErrInvalidBinding, "%q: missing element", el.ID()))
		return
	}
	space, ok := lookupNamespace(el, prefix)
	if !ok {
		ld.fail(errors.Wrapf(ErrInvalidBinding, "%q: undeclared prefix %q", el.ID(), prefix))
		return
	}
	ld.bindings[nodeKey{space, local}] = el
}

// id returns the element id, assigning one when it has none so that nested
// handlers can default their observer to it.
func (ld *loader) id(el *dom.Element) string {
	if id := el.ID(); id != "" {
		return id
	}
	ld.nextID++
	id := "xf-" + strconv.Itoa(ld.nextID)
	el.Attrs = append(el.Attrs, dom.Attr{Local: "id", Value: id})
	return id
}

func isHandler(el *dom.Element) bool {
	_, ok := el.Attr(dom.XMLEventsNS, "event")
	return ok
}

func (ld *loader) build(el *dom.Element, s scope) {
	if isHandler(el) {
		if s.handlers {
			ld.addHandler(el, s, handler.Options{})
		}
		return
	}

	if binding, ok := ld.bindings[nodeKey{el.Space, el.Local}]; ok {
		ld.buildComponent(el, binding, s)
		return
	}

	switch {
	case el.Is(dom.XBLNS, "xbl"):
		return
	case el.Space == dom.XFormsNS:
		if ld.buildXForms(el, s) {
			return
		}
	case el.Is(dom.XXFormsNS, "dialog"):
		ld.buildObserver(el, s, dom.NodeSpec{Kind: dom.ControlNode, Name: "dialog"})
		return
	}
	ld.buildChildren(el, s)
}

func (ld *loader) buildChildren(el *dom.Element, s scope) {
	for _, c := range el.Children {
		ld.build(c, s)
	}
}

// buildXForms handles XForms elements and reports whether el was consumed.
func (ld *loader) buildXForms(el *dom.Element, s scope) bool {
	switch el.Local {
	case "model":
		ld.buildObserver(el, s, dom.NodeSpec{Kind: dom.ModelNode})
	case "instance":
		ld.buildObserver(el, s, dom.NodeSpec{Kind: dom.InstanceNode})
	case "submission":
		ld.buildObserver(el, s, dom.NodeSpec{Kind: dom.SubmissionNode})
	case "repeat":
		ld.buildRepeat(el, s)
	case "label", "hint", "help", "alert", "item", "itemset", "bind":
		// no event targets inside
	default:
		if _, ok := controls[el.Local]; !ok {
			return false
		}
		ld.buildObserver(el, s, dom.NodeSpec{
			Kind:     dom.ControlNode,
			Value:    el.AttrValue(dom.XXFormsNS, "value"),
			ReadOnly: el.AttrValue(dom.XXFormsNS, "readonly") == "true",
		})
	}
	return true
}

// buildObserver appends the node for el, then builds its content inside it.
func (ld *loader) buildObserver(el *dom.Element, s scope, ns dom.NodeSpec) *dom.Node {
	ns.ID = ld.id(el)
	if ns.Name == "" {
		ns.Name = el.Local
	}
	n, err := ld.appendChild(s, ns)
	if err != nil {
		ld.fail(err)
		return nil
	}
	inner := s
	inner.parent = n
	inner.ancestor = ns.ID
	ld.buildChildren(el, inner)
	return n
}

func (ld *loader) appendChild(s scope, ns dom.NodeSpec) (*dom.Node, error) {
	if s.parent == nil {
		return nil, nil
	}
	return ld.tree.AppendChild(s.parent, ns)
}

// buildRepeat builds the repeat template once per xxf:iterations. Handlers
// in the template are registered once and shared by every iteration, the
// ones written directly in it observe the iterations.
func (ld *loader) buildRepeat(el *dom.Element, s scope) {
	count := 0
	if v, ok := el.Attr(dom.XXFormsNS, "iterations"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			ld.fail(errors.Wrapf(ErrInvalidIterations, "repeat %q: %q", ld.id(el), v))
			return
		}
		count = n
	}
	id := ld.id(el)
	repeat, err := ld.appendChild(s, dom.NodeSpec{Kind: dom.RepeatNode, Name: "repeat", ID: id})
	if err != nil {
		ld.fail(err)
		return
	}

	inner := s
	inner.ancestor = dom.IterationStaticID(id)
	if repeat == nil || count == 0 {
		inner.parent = nil
		ld.buildIteration(el, inner)
		return
	}
	for i := 0; i < count; i++ {
		it, err := ld.tree.AppendIteration(repeat)
		if err != nil {
			ld.fail(err)
			return
		}
		inner.parent = it
		inner.handlers = s.handlers && i == 0
		ld.buildIteration(el, inner)
	}
}

func (ld *loader) buildIteration(repeat *dom.Element, s scope) {
	for _, c := range repeat.Children {
		if !isHandler(c) {
			ld.build(c, s)
			continue
		}
		if s.handlers {
			ld.addHandler(c, s, handler.Options{ObserverID: s.ancestor})
		}
	}
}

// buildComponent instantiates a bound element: the component node, its
// xbl:handlers and its template in a new naming scope.
func (ld *loader) buildComponent(el, binding *dom.Element, s scope) {
	id := ld.id(el)
	comp, err := ld.appendChild(s, dom.NodeSpec{Kind: dom.ComponentNode, Name: el.Local, ID: id})
	if err != nil {
		ld.fail(err)
		return
	}

	for _, section := range binding.Children {
		switch {
		case section.Is(dom.XBLNS, "handlers") && s.handlers:
			for _, h := range section.Children {
				if h.Is(dom.XBLNS, "handler") {
					ld.addHandler(h, s, handler.Options{XBL: true, ObserverID: id})
				}
			}
		case section.Is(dom.XBLNS, "template"):
			ld.buildChildren(section, scope{
				parent:   comp,
				prefix:   s.prefix + id + string(dom.ComponentSeparator),
				ancestor: id,
				handlers: s.handlers,
			})
		}
	}
	// only handlers are kept from the content of the bound element
	inner := s
	inner.parent = nil
	inner.ancestor = id
	ld.buildChildren(el, inner)
}

func (ld *loader) addHandler(el *dom.Element, s scope, o handler.Options) {
	o.AncestorObserverID = s.ancestor
	o.Prefix = s.prefix
	h, err := handler.Parse(el, o)
	if err != nil {
		ld.fail(err)
		return
	}
	if err := ld.registry.Add(h); err != nil {
		if errors.Is(err, handler.ErrNoObserver) {
			ld.log.WithField("handler", h.String()).Warn("ignoring event handler without observer")
		} else {
			ld.fail(err)
		}
	}
	// nested handlers observe their enclosing action by default
	for _, c := range el.Children {
		if isHandler(c) {
			ld.addHandler(c, s, handler.Options{})
		}
	}
}
