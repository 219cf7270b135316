// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import "github.com/golang/glog"

// Notification is delivered to observer callbacks. Path is the path
// the observer registered on, ChangedPath the canonical path of the
// mutation; they differ for ancestor notifications, where Value is the
// live value at Path rather than the mutated value. Element is the
// originating UI element for UI-driven changes, nil otherwise.
type Notification struct {
	Path        string
	ChangedPath string
	Value       Value
	Action      Action
	Element     UIElementPort
	Context     any
}

// notify fans a mutation at the canonical path out to subscribers.
// Ordering contract: binding updates (direct, then descendant) happen
// before any observer runs; exact-path observers run before ancestor
// observers; ancestors are walked deepest first, ending at the root,
// which is always checked last.
func (b *Binder) notify(path string, v Value, act Action, origin UIElementPort) {
	glog.V(2).Infof("databind: %s %q", act, path)

	for _, bd := range b.registry.bindingsAt(path) {
		b.applyBinding(bd, v)
	}
	b.fanOutDescendants(path, v)

	for _, o := range b.registry.observersAt(path) {
		o.Callback(Notification{
			Path:        path,
			ChangedPath: path,
			Value:       v,
			Action:      act,
			Element:     origin,
			Context:     o.Context,
		})
	}

	if path == "" {
		return
	}
	for ancestor := parentPath(path); ; ancestor = parentPath(ancestor) {
		if b.registry.hasObservers(ancestor) {
			// the ancestor value is re-read live, not derived from v
			cur, _ := lookupPath(b.doc, ancestor)
			for _, o := range b.registry.observersAt(ancestor) {
				o.Callback(Notification{
					Path:        ancestor,
					ChangedPath: path,
					Value:       cur,
					Action:      act,
					Element:     origin,
					Context:     o.Context,
				})
			}
		}
		if ancestor == "" {
			return
		}
	}
}

// fanOutDescendants walks a composite value's own structure and pushes
// every sub-value whose sub-path has bindings. A binding on "a.b.c"
// thereby reacts to set("a.b", {c: 1}). Recursion is bounded by the
// depth of v; cyclic values are out of scope.
func (b *Binder) fanOutDescendants(path string, v Value) {
	switch t := v.(type) {
	case Object:
		for key, sub := range t {
			b.pushDescendant(childPath(path, key), sub)
		}
	case List:
		for i, sub := range t {
			b.pushDescendant(childPath(path, indexSegment(i)), sub)
		}
	}
}

func (b *Binder) pushDescendant(subpath string, sub Value) {
	if b.registry.hasBindings(subpath) {
		for _, bd := range b.registry.bindingsAt(subpath) {
			b.applyBinding(bd, sub)
		}
	}
	b.fanOutDescendants(subpath, sub)
}
