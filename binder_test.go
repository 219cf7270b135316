package databind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testElement is an in-memory UIElementPort. Property names must be
// declared up front, mirroring hosts where an element either has a
// live property of a given name or it does not.
type testElement struct {
	propNames map[string]bool
	props     map[string]Value
	attrs     map[string]string
	listeners map[string][]*EventHandler

	trace func(step string)

	failDetach bool
}

func newTestElement(propNames ...string) *testElement {
	e := &testElement{
		propNames: make(map[string]bool),
		props:     make(map[string]Value),
		attrs:     make(map[string]string),
		listeners: make(map[string][]*EventHandler),
	}
	for _, name := range propNames {
		e.propNames[name] = true
	}
	return e
}

func (e *testElement) GetProperty(name string) Value { return e.props[name] }
func (e *testElement) SetProperty(name string, v Value) {
	e.props[name] = v
	if e.trace != nil {
		e.trace("property:" + name)
	}
}
func (e *testElement) HasProperty(name string) bool {
	if e.propNames[name] {
		return true
	}
	_, ok := e.props[name]
	return ok
}

func (e *testElement) GetAttribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}
func (e *testElement) SetAttribute(name string, value string) { e.attrs[name] = value }
func (e *testElement) RemoveAttribute(name string)            { delete(e.attrs, name) }

func (e *testElement) AddListener(event string, h *EventHandler) {
	e.listeners[event] = append(e.listeners[event], h)
}

func (e *testElement) RemoveListener(event string, h *EventHandler) error {
	if e.failDetach {
		return errors.New("host refused to detach")
	}
	list := e.listeners[event]
	for i, registered := range list {
		if registered == h {
			e.listeners[event] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return errors.New("listener not registered")
}

func (e *testElement) listenerCount() int {
	n := 0
	for _, list := range e.listeners {
		n += len(list)
	}
	return n
}

type testEvent struct {
	typ       string
	target    *testElement
	prevented bool
}

func (ev *testEvent) Type() string          { return ev.typ }
func (ev *testEvent) Target() UIElementPort { return ev.target }
func (ev *testEvent) PreventDefault()       { ev.prevented = true }

// dispatch fires every listener registered for event, the way a host
// toolkit would, and reports whether the default action was suppressed.
func (e *testElement) dispatch(event string) bool {
	ev := &testEvent{typ: event, target: e}
	for _, h := range append([]*EventHandler(nil), e.listeners[event]...) {
		h.Handle(ev)
	}
	return ev.prevented
}

func sampleDoc() Object {
	return Object{
		"a": Object{"b": Number(1)},
		"list": List{
			String("x"),
			String("y"),
		},
	}
}

func TestGetAndLookup(t *testing.T) {
	b := New(sampleDoc())

	require.Equal(t, Number(1), b.Get("a.b"))
	require.Equal(t, String("y"), b.Get("list.1"))
	require.Nil(t, b.Get("a.missing"))
	require.Nil(t, b.Get("list.9"))

	// the empty path addresses the whole document
	whole, ok := b.Lookup("")
	require.True(t, ok)
	require.True(t, Equal(sampleDoc(), whole))

	// a stored null resolves, an absent entry does not
	b.Set("a.n", Null{})
	v, ok := b.Lookup("a.n")
	require.True(t, ok)
	require.Equal(t, Null{}, v)
	_, ok = b.Lookup("a.missing")
	require.False(t, ok)
}

func TestSetNoOpOnEqualPrimitive(t *testing.T) {
	b := New(sampleDoc())

	var calls int
	b.Observe("", func(Notification) { calls++ })
	b.Observe("a", func(Notification) { calls++ })
	el := newTestElement("value")
	b.Bind(el, "a.b", "")
	el.props = make(map[string]Value) // discard the initial sync
	var updates int
	el.trace = func(string) { updates++ }

	canonical := b.Set("a.b", Number(1))
	require.Equal(t, "a.b", canonical)
	assert.Zero(t, calls)
	assert.Zero(t, updates)

	// composite values are never considered equal
	b.Set("a", Object{"b": Number(1)})
	assert.NotZero(t, calls)
}

func TestSetCreatesIntermediateMappings(t *testing.T) {
	b := New()
	b.Set("user.address.city", String("Lyon"))
	require.Equal(t, String("Lyon"), b.Get("user.address.city"))

	// a scalar intermediate is overwritten with an empty mapping
	b.Set("user.age", Number(44))
	b.Set("user.age.unit", String("years"))
	require.Equal(t, String("years"), b.Get("user.age.unit"))
	_, ok := b.Lookup("user.age.value")
	require.False(t, ok)
}

func TestArrayClampAndAppend(t *testing.T) {
	b := New(sampleDoc())

	canonical := b.Set("list.10", String("z"))
	require.Equal(t, "list.2", canonical)
	require.True(t, Equal(List{String("x"), String("y"), String("z")}, b.Get("list")))

	canonical = b.Set("list.-5", String("w"))
	require.Equal(t, "list.0", canonical)
	require.Equal(t, String("w"), b.Get("list.0"))
}

func TestObserverSeesCanonicalPath(t *testing.T) {
	b := New(sampleDoc())
	var changed string
	b.Observe("list", func(n Notification) { changed = n.ChangedPath })

	b.Set("list.10", String("z"))
	require.Equal(t, "list.2", changed)
}

func TestAncestorPropagationOrder(t *testing.T) {
	b := New(Object{"a": Object{"b": Number(1)}})

	var order []string
	b.Observe("a", func(n Notification) {
		order = append(order, "a")
		assert.Equal(t, "a.b", n.ChangedPath)
		assert.True(t, Equal(Object{"b": Number(5)}, n.Value))
		assert.Equal(t, ActionUpdate, n.Action)
	})
	b.Observe("", func(n Notification) {
		order = append(order, "root")
		assert.Equal(t, "a.b", n.ChangedPath)
		assert.True(t, Equal(Object{"a": Object{"b": Number(5)}}, n.Value))
	})

	b.Set("a.b", Number(5))
	require.Equal(t, []string{"a", "root"}, order)
}

func TestRootObservedWithoutIntermediateObservers(t *testing.T) {
	b := New()
	var calls int
	b.Observe("", func(n Notification) {
		calls++
		assert.Equal(t, "a.b.c", n.ChangedPath)
	})
	b.Set("a.b.c", Number(1))
	require.Equal(t, 1, calls)
}

func TestBindingsUpdateBeforeObservers(t *testing.T) {
	b := New(Object{"a": Number(0)})
	var order []string
	el := newTestElement("value")
	el.trace = func(string) { order = append(order, "binding") }
	b.Bind(el, "a", "")
	order = nil // initial sync does not count
	b.Observe("a", func(Notification) { order = append(order, "observer") })

	b.Set("a", Number(1))
	require.Equal(t, []string{"binding", "observer"}, order)
}

func TestDescendantFanOut(t *testing.T) {
	b := New(Object{"a": NewObject()})
	el := newTestElement("value")
	b.Bind(el, "a.b", "")

	b.Set("a", Object{"b": Number(7)})
	require.Equal(t, Number(7), el.props["value"])
}

func TestDeleteCascades(t *testing.T) {
	b := New(Object{"a": Object{"b": Number(1)}})
	el := newTestElement("value")
	b.Bind(el, "a.b", "")
	var calls int
	b.Observe("a.b", func(Notification) { calls++ })

	b.Delete("a")

	require.Empty(t, b.Bindings())
	require.Empty(t, b.Observables())
	require.Zero(t, el.listenerCount())

	el.props = make(map[string]Value)
	b.Set("a.b", Number(2))
	assert.Zero(t, calls)
	assert.Empty(t, el.props)
}

func TestDeleteNotifiesWithNull(t *testing.T) {
	b := New(Object{"a": Object{"b": Number(1)}})
	var got Notification
	b.Observe("", func(n Notification) { got = n })

	b.Delete("a.b")
	require.Equal(t, ActionDelete, got.Action)
	require.Equal(t, "a.b", got.ChangedPath)

	_, ok := b.Lookup("a.b")
	require.False(t, ok)
}

func TestDeleteSplicesSequences(t *testing.T) {
	b := New(sampleDoc())
	b.Delete("list.0")
	require.True(t, Equal(List{String("y")}, b.Get("list")))
}

func TestLoosePrefixRemoval(t *testing.T) {
	// the prefix match is character-based, not segment-aware:
	// removing "user" also removes "username"
	b := New()
	var calls int
	b.Observe("user", func(Notification) { calls++ })
	b.Observe("username", func(Notification) { calls++ })
	b.UnobserveAll("user")
	require.Empty(t, b.Observables())
}

func TestMoveIntoSequenceInserts(t *testing.T) {
	b := New(Object{
		"a": Object{"b": String("v")},
		"c": List{String("x"), String("y")},
	})

	canonical := b.Move("a.b", "c.0")
	require.Equal(t, "c.0", canonical)
	require.True(t, Equal(List{String("v"), String("x"), String("y")}, b.Get("c")))
	_, ok := b.Lookup("a.b")
	require.False(t, ok)
}

func TestMoveClampsDestinationIndex(t *testing.T) {
	b := New(Object{
		"a": Object{"b": String("v")},
		"c": List{String("x")},
	})
	canonical := b.Move("a.b", "c.9")
	require.Equal(t, "c.1", canonical)
	require.True(t, Equal(List{String("x"), String("v")}, b.Get("c")))
}

func TestMoveToMappingDelegatesToSet(t *testing.T) {
	b := New(Object{"a": Object{"b": String("v")}})
	canonical := b.Move("a.b", "d.e")
	require.Equal(t, "d.e", canonical)
	require.Equal(t, String("v"), b.Get("d.e"))
	_, ok := b.Lookup("a.b")
	require.False(t, ok)
}

func TestMoveSamePathIsNoOp(t *testing.T) {
	b := New(sampleDoc())
	var calls int
	b.Observe("", func(Notification) { calls++ })
	require.Equal(t, "a.b", b.Move("a.b", "a.b"))
	require.Zero(t, calls)
}

func TestMoveTearsDownSourceSubscribers(t *testing.T) {
	b := New(Object{"a": Object{"b": String("v")}})
	el := newTestElement("value")
	b.Bind(el, "a.b", "")
	b.Move("a.b", "c")
	require.Zero(t, el.listenerCount())
	require.Empty(t, b.Bindings())
}

func TestObserverReentrancy(t *testing.T) {
	b := New(Object{"a": Number(0)})
	var first, second int
	b.Observe("a", func(Notification) {
		first++
		// mutating the registry mid-notification must not break the
		// snapshot-driven iteration
		b.Unobserve("a")
		b.Set("other", Number(1))
	})
	b.Observe("a", func(Notification) { second++ })

	b.Set("a", Number(1))
	require.Equal(t, 1, first)
	require.Equal(t, 1, second)

	b.Set("a", Number(2))
	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestObserverOriginAndContext(t *testing.T) {
	b := New()
	el := newTestElement("value")
	var got Notification
	b.Observe("a", func(n Notification) { got = n }, "ctx")

	b.Set("a", Number(1), el)
	require.Same(t, el, got.Element.(*testElement))
	require.Equal(t, "ctx", got.Context)

	b.Set("a", Number(2))
	require.Nil(t, got.Element)
}

func TestBindInitialSync(t *testing.T) {
	b := New(Object{"name": String("Ada")})
	el := newTestElement("value")
	b.Bind(el, "name", "")
	require.Equal(t, String("Ada"), el.props["value"])
}

func TestBindWithoutElementIsNoOp(t *testing.T) {
	b := New()
	b.Bind(nil, "a", "")
	b.BindAll(nil, "a", "")
	require.Empty(t, b.Bindings())
}

func TestBindAll(t *testing.T) {
	b := New(Object{"a": Number(3)})
	els := []UIElementPort{newTestElement("value"), newTestElement("value")}
	b.BindAll(els, "a", "")
	for _, el := range els {
		require.Equal(t, Number(3), el.(*testElement).props["value"])
	}
}

func TestUnbind(t *testing.T) {
	b := New(Object{"a": Number(1)})
	el := newTestElement("value")
	other := newTestElement("value")
	b.Bind(el, "a", "")
	b.Bind(other, "a", "")

	b.Unbind(el, "a", "")
	require.Zero(t, el.listenerCount())
	require.Equal(t, 1, other.listenerCount())

	b.Set("a", Number(2))
	require.Equal(t, Number(1), el.props["value"], "unbound element must not update")
	require.Equal(t, Number(2), other.props["value"])
}

func TestSharedKeyBindings(t *testing.T) {
	// two bindings on the same (path, attribute) key, different elements
	b := New(Object{"a": Number(1)})
	el1 := newTestElement("value")
	el2 := newTestElement("value")
	b.Bind(el1, "a", "")
	b.Bind(el2, "a", "")

	b.Set("a", Number(9))
	require.Equal(t, Number(9), el1.props["value"])
	require.Equal(t, Number(9), el2.props["value"])
}

func TestRemoveTearsEverythingDown(t *testing.T) {
	b := New(sampleDoc())
	el := newTestElement("value")
	b.Bind(el, "a.b", "")
	b.Observe("a", func(Notification) {})

	require.NoError(t, b.Remove())
	require.Zero(t, el.listenerCount())
	require.Empty(t, b.Bindings())
	require.Empty(t, b.Observables())
	require.Nil(t, b.Data())
}

func TestRemoveAggregatesDetachErrors(t *testing.T) {
	b := New()
	el := newTestElement("value")
	el.failDetach = true
	other := newTestElement("value")
	other.failDetach = true
	b.Bind(el, "a", "")
	b.Bind(other, "b", "")

	err := b.Remove()
	require.Error(t, err)
}

func TestDataReturnsDeepCopy(t *testing.T) {
	b := New(sampleDoc())
	snapshot := b.Data().(Object)
	snapshot["a"] = String("clobbered")
	require.True(t, Equal(Object{"b": Number(1)}, b.Get("a")))
}
