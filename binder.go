// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import (
	"github.com/golang/glog"
	"go.uber.org/multierr"
)

// Binder owns one document and keeps a set of element bindings and
// observer callbacks synchronized with it. The document and both
// registries share the Binder's lifetime; nothing is shared across
// instances.
//
// Everything runs synchronously on the caller's stack: Set, Move,
// Delete, Bind and Observe all run to completion before returning, and
// callbacks may re-enter the same Binder.
type Binder struct {
	doc      Value
	registry *registry
}

// New creates a Binder. An initial document may be supplied; otherwise
// the document starts absent and grows on the first Set.
func New(initial ...Value) *Binder {
	b := &Binder{registry: newRegistry()}
	if len(initial) > 0 {
		b.doc = initial[0]
	}
	return b
}

// Get returns the value stored at path, or nil when the path does not
// resolve. The empty path returns the whole document.
func (b *Binder) Get(path string) Value {
	v, _ := lookupPath(b.doc, path)
	return v
}

// Lookup behaves like Get but also reports whether the path resolved,
// which tells a stored Null apart from an absent entry.
func (b *Binder) Lookup(path string) (Value, bool) {
	return lookupPath(b.doc, path)
}

// IsInArray reports whether the value at path sits inside a sequence.
func (b *Binder) IsInArray(path string) bool {
	return isInArray(b.doc, path)
}

// Set writes v at path and returns the canonical path of the mutation,
// which differs from path when a sequence index was clamped. Setting a
// scalar to its current scalar value is a no-op that triggers no
// notification; composite values always mutate and notify. An optional
// origin element is passed through to observers so they can tell
// UI-driven changes from programmatic ones.
func (b *Binder) Set(path string, v Value, origin ...UIElementPort) string {
	var src UIElementPort
	if len(origin) > 0 {
		src = origin[0]
	}
	return b.set(path, v, src)
}

func (b *Binder) set(path string, v Value, origin UIElementPort) string {
	if v == nil {
		v = Null{}
	}
	if cur, ok := lookupPath(b.doc, path); ok && scalarEqual(cur, v) {
		return path
	}
	ndoc, canon, act, ok := setPath(b.doc, splitPath(path), v)
	if !ok {
		glog.Warningf("databind: set %q: sequence segment is not an index", path)
		return path
	}
	b.doc = ndoc
	cpath := joinPath(canon)
	b.notify(cpath, v, act, origin)
	return cpath
}

// store overwrites the value at path without classification and
// without notification.
func (b *Binder) store(path string, v Value) {
	ndoc, _, _, ok := setPath(b.doc, splitPath(path), v)
	if ok {
		b.doc = ndoc
	}
}

// Move relocates the value at from to to. The source is deleted first,
// with the usual delete cascade over bindings and observers rooted at
// from. When the destination parent is a sequence the value is inserted
// at the clamped index, shifting later elements, classified as a
// create; otherwise Move delegates to Set. Returns the canonical
// destination path.
func (b *Binder) Move(from string, to string) string {
	if from == to {
		return to
	}
	v, ok := lookupPath(b.doc, from)
	if !ok {
		v = Null{}
	}
	b.Delete(from)

	parent, found := lookupPath(b.doc, parentPath(to))
	if list, inList := parent.(List); found && inList {
		i, ok := parseIndex(lastSegment(to))
		if !ok {
			i = len(list)
		}
		i = clampIndex(i, len(list))
		b.store(parentPath(to), insertAt(list, i, v))
		cpath := childPath(parentPath(to), indexSegment(i))
		b.notify(cpath, v, ActionCreate, nil)
		return cpath
	}
	return b.set(to, v, nil)
}

// Delete removes the entry at path. Bindings and observers whose path
// equals or starts with path are unregistered first, so the delete
// notification cannot reach them; the notification carries a Null
// value.
func (b *Binder) Delete(path string) {
	for _, bd := range b.registry.removeBindingsByPrefix(path) {
		b.detach(bd)
	}
	b.registry.removeObserversByPrefix(path)
	ndoc, ok := deletePath(b.doc, splitPath(path))
	b.doc = ndoc
	if !ok {
		glog.V(2).Infof("databind: delete %q: path did not resolve", path)
	}
	b.notify(path, Null{}, ActionDelete, nil)
}

// Bind links an element's attribute to the document value at path and
// registers the reverse listener on the binding's event. The empty
// attribute defaults to "value". If the path currently resolves, the
// element receives an initial forward sync. A nil element logs a
// warning and is a no-op.
func (b *Binder) Bind(el UIElementPort, path string, attribute string, opts ...BindingOption) {
	if el == nil {
		glog.Warning("databind: bind called without an element")
		return
	}
	if attribute == "" {
		attribute = "value"
	}
	bd := &Binding{Path: path, Attribute: attribute, Element: el, cfg: newBindingConfig(opts...)}
	bd.handler = NewEventHandler(func(evt Event) {
		b.handleUIEvent(bd, evt)
	})
	el.AddListener(bd.cfg.event, bd.handler)
	b.registry.addBinding(bd)
	if v, ok := lookupPath(b.doc, path); ok {
		b.applyBinding(bd, v)
	}
}

// BindAll binds every element of a collection to the same path and
// attribute. An empty collection logs a warning and is a no-op.
func (b *Binder) BindAll(els []UIElementPort, path string, attribute string, opts ...BindingOption) {
	if len(els) == 0 {
		glog.Warning("databind: bind called without an element")
		return
	}
	for _, el := range els {
		b.Bind(el, path, attribute, opts...)
	}
}

// Unbind removes the bindings of el at (path, attribute) and detaches
// their event listeners. The empty attribute defaults to "value".
func (b *Binder) Unbind(el UIElementPort, path string, attribute string) {
	if attribute == "" {
		attribute = "value"
	}
	for _, bd := range b.registry.removeBinding(el, path, attribute) {
		b.detach(bd)
	}
}

// UnbindAll removes every binding whose path starts with prefix. The
// empty prefix removes all bindings.
func (b *Binder) UnbindAll(prefix string) {
	for _, bd := range b.registry.removeBindingsByPrefix(prefix) {
		b.detach(bd)
	}
}

func (b *Binder) detach(bd *Binding) {
	if err := bd.Element.RemoveListener(bd.cfg.event, bd.handler); err != nil {
		glog.Warningf("databind: detach %q listener: %v", bd.cfg.event, err)
	}
}

// Observe registers fn to run on every mutation of path or of any of
// its descendants. The empty path observes the whole document. The
// optional context is passed back on every notification.
func (b *Binder) Observe(path string, fn func(Notification), context ...any) {
	var ctx any
	if len(context) > 0 {
		ctx = context[0]
	}
	b.registry.addObserver(path, ObserverEntry{Callback: fn, Context: ctx})
}

// Unobserve removes every registration at exactly path.
func (b *Binder) Unobserve(path string) {
	b.registry.removeObserversAt(path)
}

// UnobserveAll removes every registration whose path starts with
// prefix. The empty prefix removes all observers.
func (b *Binder) UnobserveAll(prefix string) {
	b.registry.removeObserversByPrefix(prefix)
}

// Data returns a deep copy of the document.
func (b *Binder) Data() Value {
	if b.doc == nil {
		return nil
	}
	return Copy(b.doc)
}

// Bindings returns a snapshot of the binding index.
func (b *Binder) Bindings() map[string]map[string][]*Binding {
	out := make(map[string]map[string][]*Binding, len(b.registry.bindings))
	for path, attrs := range b.registry.bindings {
		m := make(map[string][]*Binding, len(attrs))
		for attr, list := range attrs {
			m[attr] = append([]*Binding(nil), list...)
		}
		out[path] = m
	}
	return out
}

// Observables returns a snapshot of the observer index.
func (b *Binder) Observables() map[string][]ObserverEntry {
	out := make(map[string][]ObserverEntry, len(b.registry.observers))
	for path, list := range b.registry.observers {
		out[path] = append([]ObserverEntry(nil), list...)
	}
	return out
}

// Remove tears the instance down: every event listener is detached,
// both registries are cleared and the document reference is dropped.
// Listener detach failures are aggregated into the returned error.
func (b *Binder) Remove() error {
	var err error
	for _, bd := range b.registry.allBindings() {
		err = multierr.Append(err, bd.Element.RemoveListener(bd.cfg.event, bd.handler))
	}
	b.registry.clear()
	b.doc = nil
	return err
}
