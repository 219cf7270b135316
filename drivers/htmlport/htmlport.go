// Package htmlport implements databind.UIElementPort on top of
// golang.org/x/net/html nodes. It is a host port for server-side or
// test use: attributes live on the node, properties live in a typed
// overlay the way a browser keeps live DOM state apart from markup,
// and events are dispatched synchronously through Dispatch.
package htmlport

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/atdiar/databind"
)

var ErrUnknownListener = errors.New("listener not registered on element")

// elementProperties lists the live properties a tag carries, mirroring
// the host DOM interfaces the binder's property-preferred policy
// expects.
var elementProperties = map[string][]string{
	"input":    {"value", "checked", "disabled", "readonly", "required"},
	"select":   {"value", "disabled", "multiple", "required"},
	"option":   {"value", "label", "selected", "disabled"},
	"textarea": {"value", "disabled", "readonly", "required"},
	"button":   {"disabled"},
	"progress": {"value", "max"},
	"output":   {"value"},
}

// Document wraps a parsed HTML tree and hands out stable Element
// wrappers for its nodes.
type Document struct {
	root  *html.Node
	elems map[*html.Node]*Element
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, elems: make(map[*html.Node]*Element)}, nil
}

// ParseString reads an HTML document from a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// Render serializes the whole tree back to HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// ElementByID returns the wrapped element whose id attribute matches,
// or nil.
func (d *Document) ElementByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if attrValue(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return d.wrap(found)
}

// ElementsByTagName returns every wrapped element with the given tag.
func (d *Document) ElementsByTagName(tag string) []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) bool {
		if n.Data == tag {
			out = append(out, d.wrap(n))
		}
		return true
	})
	return out
}

// wrap returns the unique Element for a node, creating it on first use
// so listener and property state survives repeated lookups.
func (d *Document) wrap(n *html.Node) *Element {
	if e, ok := d.elems[n]; ok {
		return e
	}
	e := newElement(n)
	d.elems[n] = e
	return e
}

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode {
		if !visit(n) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Element adapts one *html.Node to databind.UIElementPort.
type Element struct {
	node      *html.Node
	props     map[string]databind.Value
	listeners map[string][]*databind.EventHandler
}

func newElement(n *html.Node) *Element {
	e := &Element{
		node:      n,
		props:     make(map[string]databind.Value),
		listeners: make(map[string][]*databind.EventHandler),
	}
	// seed the live properties from the markup
	for _, name := range elementProperties[n.Data] {
		for _, a := range n.Attr {
			if a.Key != name {
				continue
			}
			if a.Val == "" || a.Val == name {
				// boolean attribute presence
				e.props[name] = databind.Bool(true)
			} else {
				e.props[name] = databind.String(a.Val)
			}
		}
	}
	return e
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

// TagName returns the element's tag.
func (e *Element) TagName() string { return e.node.Data }

func (e *Element) GetProperty(name string) databind.Value {
	return e.props[name]
}

func (e *Element) SetProperty(name string, v databind.Value) {
	e.props[name] = v
}

func (e *Element) HasProperty(name string) bool {
	if _, ok := e.props[name]; ok {
		return true
	}
	for _, p := range elementProperties[e.node.Data] {
		if p == name {
			return true
		}
	}
	return false
}

func (e *Element) GetAttribute(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttribute(name string, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

func (e *Element) AddListener(event string, h *databind.EventHandler) {
	e.listeners[event] = append(e.listeners[event], h)
}

func (e *Element) RemoveListener(event string, h *databind.EventHandler) error {
	list := e.listeners[event]
	for i, registered := range list {
		if registered == h {
			e.listeners[event] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrUnknownListener
}

// Dispatch fires every listener registered for event on this element
// and reports whether a handler suppressed the default action. The
// handlers run synchronously on the caller's stack.
func (e *Element) Dispatch(event string) bool {
	evt := &domEvent{typ: event, target: e}
	for _, h := range append([]*databind.EventHandler(nil), e.listeners[event]...) {
		h.Handle(evt)
	}
	return evt.defaultPrevented
}

type domEvent struct {
	typ              string
	target           *Element
	defaultPrevented bool
}

func (ev *domEvent) Type() string                   { return ev.typ }
func (ev *domEvent) Target() databind.UIElementPort { return ev.target }
func (ev *domEvent) PreventDefault()                { ev.defaultPrevented = true }

// ClearOptions, AppendOption and SelectValue implement
// databind.OptionList over child <option> nodes.

func (e *Element) ClearOptions() {
	var next *html.Node
	for c := e.node.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && c.Data == "option" {
			e.node.RemoveChild(c)
		}
	}
}

func (e *Element) AppendOption(fields map[string]string) {
	opt := &html.Node{Type: html.ElementNode, Data: "option"}
	label := fields["label"]
	for k, v := range fields {
		if k == "label" {
			continue
		}
		opt.Attr = append(opt.Attr, html.Attribute{Key: k, Val: v})
	}
	if label != "" {
		opt.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	}
	e.node.AppendChild(opt)
}

func (e *Element) SelectValue(value string) {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "option" {
			continue
		}
		if attrValue(c, "value") == value {
			setNodeAttr(c, "selected", "selected")
		} else {
			removeNodeAttr(c, "selected")
		}
	}
	e.props["value"] = databind.String(value)
}

func setNodeAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeNodeAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
