// Package databind synchronizes a JSON-like document with user interface elements.
package databind

// ObserverEntry is one observer registration: a callback and the
// optional context it was registered with.
type ObserverEntry struct {
	Callback func(Notification)
	Context  any
}

// registry stores the two subscriber indices: bindings keyed by path
// then attribute, observers keyed by path. Lookups return snapshot
// copies so a callback may register or remove subscribers while a
// notification is being delivered.
type registry struct {
	bindings  map[string]map[string][]*Binding
	observers map[string][]ObserverEntry
}

func newRegistry() *registry {
	return &registry{
		bindings:  make(map[string]map[string][]*Binding),
		observers: make(map[string][]ObserverEntry),
	}
}

func (r *registry) addBinding(b *Binding) {
	attrs, ok := r.bindings[b.Path]
	if !ok {
		attrs = make(map[string][]*Binding)
		r.bindings[b.Path] = attrs
	}
	attrs[b.Attribute] = append(attrs[b.Attribute], b)
}

// bindingsAt returns every binding registered at exactly path, across
// all attributes, as a fresh slice.
func (r *registry) bindingsAt(path string) []*Binding {
	attrs, ok := r.bindings[path]
	if !ok {
		return nil
	}
	var out []*Binding
	for _, list := range attrs {
		out = append(out, list...)
	}
	return out
}

func (r *registry) hasBindings(path string) bool {
	attrs, ok := r.bindings[path]
	return ok && len(attrs) > 0
}

// removeBinding removes every binding of el at (path, attribute) and
// returns the removed bindings so their listeners can be detached.
func (r *registry) removeBinding(el UIElementPort, path string, attribute string) []*Binding {
	attrs, ok := r.bindings[path]
	if !ok {
		return nil
	}
	list, ok := attrs[attribute]
	if !ok {
		return nil
	}
	var removed []*Binding
	kept := list[:0]
	for _, b := range list {
		if b.Element == el {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		delete(attrs, attribute)
		if len(attrs) == 0 {
			delete(r.bindings, path)
		}
	} else {
		attrs[attribute] = kept
	}
	return removed
}

// removeBindingsByPrefix removes every binding whose path starts with
// prefix, per the character-prefix contract of isPrefixOf.
func (r *registry) removeBindingsByPrefix(prefix string) []*Binding {
	var removed []*Binding
	for path, attrs := range r.bindings {
		if !isPrefixOf(prefix, path) {
			continue
		}
		for _, list := range attrs {
			removed = append(removed, list...)
		}
		delete(r.bindings, path)
	}
	return removed
}

func (r *registry) allBindings() []*Binding {
	var out []*Binding
	for _, attrs := range r.bindings {
		for _, list := range attrs {
			out = append(out, list...)
		}
	}
	return out
}

func (r *registry) addObserver(path string, entry ObserverEntry) {
	r.observers[path] = append(r.observers[path], entry)
}

// observersAt returns a snapshot of the registrations at exactly path.
func (r *registry) observersAt(path string) []ObserverEntry {
	list, ok := r.observers[path]
	if !ok {
		return nil
	}
	return append([]ObserverEntry(nil), list...)
}

func (r *registry) hasObservers(path string) bool {
	return len(r.observers[path]) > 0
}

func (r *registry) removeObserversAt(path string) {
	delete(r.observers, path)
}

func (r *registry) removeObserversByPrefix(prefix string) {
	for path := range r.observers {
		if isPrefixOf(prefix, path) {
			delete(r.observers, path)
		}
	}
}

func (r *registry) clear() {
	r.bindings = make(map[string]map[string][]*Binding)
	r.observers = make(map[string][]ObserverEntry)
}
