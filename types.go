// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import "strconv"

type discriminant string // pins the Value interface to this package

// Value is the type for document values. A document is a tree of
// Objects and Lists with scalar leaves; the nil Value denotes absence
// (a path that does not resolve), while Null is a stored null.
type Value interface {
	discriminant() discriminant
	Kind() Kind
}

// Kind tags the concrete type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindNumber
	KindList
	KindObject

	// KindTotal is the number of kinds defined.
	KindTotal = int(iota)
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindList:
		return "List"
	case KindObject:
		return "Object"
	}
	return "undefined"
}

type Null struct{}

func (n Null) discriminant() discriminant { return "databind" }
func (n Null) Kind() Kind                 { return KindNull }

type Bool bool

func (b Bool) discriminant() discriminant { return "databind" }
func (b Bool) Kind() Kind                 { return KindBool }

type String string

func (s String) discriminant() discriminant { return "databind" }
func (s String) Kind() Kind                 { return KindString }

type Number float64

func (n Number) discriminant() discriminant { return "databind" }
func (n Number) Kind() Kind                 { return KindNumber }

// List is an ordered sequence of values.
type List []Value

func (l List) discriminant() discriminant { return "databind" }
func (l List) Kind() Kind                 { return KindList }

func NewList(val ...Value) List {
	if val != nil {
		return List(val)
	}
	return List(make([]Value, 0))
}

// Object is a mapping with unique string keys. Key order is irrelevant.
type Object map[string]Value

func (o Object) discriminant() discriminant { return "databind" }
func (o Object) Kind() Kind                 { return KindObject }

func NewObject() Object {
	return Object(make(map[string]Value))
}

func (o Object) Get(key string) (Value, bool) {
	v, ok := o[key]
	return v, ok
}

func (o Object) Set(key string, value Value) Object {
	o[key] = value
	return o
}

func isScalar(v Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case KindNull, KindBool, KindString, KindNumber:
		return true
	}
	return false
}

func isComposite(v Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case KindList, KindObject:
		return true
	}
	return false
}

// scalarEqual is the equality used by the set short-circuit: scalar
// values compare by value, composite values never compare equal.
func scalarEqual(v Value, w Value) bool {
	if !isScalar(v) || !isScalar(w) {
		return false
	}
	return v == w
}

// Copy creates a deep copy of a value.
func Copy(v Value) Value {
	switch t := v.(type) {
	case List:
		r := List(make([]Value, len(t), cap(t)))
		for i, item := range t {
			r[i] = Copy(item)
		}
		return r
	case Object:
		o := NewObject()
		for k, item := range t {
			o[k] = Copy(item)
		}
		return o
	}
	return v
}

// Equal reports deep structural equality. It is not used by the set
// short-circuit, which relies on scalarEqual only.
func Equal(v Value, w Value) bool {
	if v == nil || w == nil {
		return v == nil && w == nil
	}
	if v.Kind() != w.Kind() {
		return false
	}
	switch t := v.(type) {
	case List:
		wl := w.(List)
		if len(t) != len(wl) {
			return false
		}
		for i, item := range t {
			if !Equal(item, wl[i]) {
				return false
			}
		}
		return true
	case Object:
		wo := w.(Object)
		if len(t) != len(wo) {
			return false
		}
		for k, item := range t {
			witem, ok := wo[k]
			if !ok {
				return false
			}
			if !Equal(item, witem) {
				return false
			}
		}
		return true
	}
	return v == w
}

// Truthy follows the host-toolkit notion of truth: false, zero, the
// empty string and null are falsy, composites are always truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case Null:
		return false
	case Bool:
		return bool(t)
	case String:
		return t != ""
	case Number:
		return t != 0
	}
	return true
}

// Format renders a value as attribute text. Composite values render as
// JSON, null and absence render as the empty string.
func Format(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case Null:
		return ""
	case Bool:
		if t {
			return "true"
		}
		return "false"
	case String:
		return string(t)
	case Number:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	}
	return formatJSON(v)
}
