// Package databind synchronizes a JSON-like document with user interface elements.
package databind

// UIElementPort abstracts the host-toolkit element a binding writes to.
// Properties are the element's live, typed state; attributes are its
// declarative string state. The binder prefers writing through a
// property when one exists by the bound name and falls back to the
// attribute otherwise.
type UIElementPort interface {
	GetProperty(name string) Value
	SetProperty(name string, v Value)
	HasProperty(name string) bool

	GetAttribute(name string) (string, bool)
	SetAttribute(name string, value string)
	RemoveAttribute(name string)

	AddListener(event string, h *EventHandler)
	RemoveListener(event string, h *EventHandler) error
}

// OptionList is implemented by selectable-option-list controls. A
// binding on the "options" attribute rebuilds the option set through
// this interface.
type OptionList interface {
	// ClearOptions removes every option from the control.
	ClearOptions()
	// AppendOption adds one option; fields typically carry "value" and
	// "label" plus whatever else the entry object defined.
	AppendOption(fields map[string]string)
	// SelectValue marks the option matching value as selected and
	// deselects all others.
	SelectValue(value string)
}

// Event is the host event surface the reverse binding direction needs:
// a target reference and default-action suppression.
type Event interface {
	Type() string
	Target() UIElementPort
	PreventDefault()
}

// EventHandler wraps a callback function so a registered listener can
// be removed by identity.
type EventHandler struct {
	Fn func(Event)
}

func NewEventHandler(fn func(Event)) *EventHandler {
	return &EventHandler{fn}
}

func (h *EventHandler) Handle(evt Event) {
	h.Fn(evt)
}
