// Package databind synchronizes a JSON-like document with user interface elements.
package databind

// ValueTransformer converts between document values and UI-facing
// values. ReverseTransform must invert Transform: for any value v,
// ReverseTransform(Transform(v)) == v.
type ValueTransformer interface {
	Transform(v Value) Value
	ReverseTransform(v Value) Value
}

// Binding links one document path to one element attribute. Several
// bindings may share the same (path, attribute) key, each bound to a
// different element.
type Binding struct {
	Path      string
	Attribute string
	Element   UIElementPort

	cfg     bindingConfig
	handler *EventHandler
}

// Event returns the UI event name the reverse direction listens to.
func (b *Binding) Event() string {
	return b.cfg.event
}

// TwoWay reports whether UI-driven changes flow back into the document.
func (b *Binding) TwoWay() bool {
	return !b.cfg.oneWay
}

type bindingConfig struct {
	event  string
	oneWay bool

	// at most one of the following is set; transform resolves ties in
	// the order the fields are listed
	transformer     ValueTransformer
	boolean         bool
	negateBoolean   bool
	condition       func(Value) bool
	negateCondition func(Value) bool
}

// BindingOption configures a binding at Bind time.
type BindingOption func(*bindingConfig)

// WithEvent overrides the UI event the reverse direction listens to.
// The default is "change".
func WithEvent(name string) BindingOption {
	return func(c *bindingConfig) {
		c.event = name
	}
}

// OneWay makes the binding push data to the element only; UI-driven
// changes are suppressed instead of written back.
func OneWay() BindingOption {
	return func(c *bindingConfig) {
		c.oneWay = true
	}
}

// AsBoolean renders the bound value as its truthiness.
func AsBoolean() BindingOption {
	return func(c *bindingConfig) {
		c.boolean = true
	}
}

// AsNegatedBoolean renders the bound value as its negated truthiness.
func AsNegatedBoolean() BindingOption {
	return func(c *bindingConfig) {
		c.negateBoolean = true
	}
}

// WhenTrue renders the bound value as the result of cond.
func WhenTrue(cond func(Value) bool) BindingOption {
	return func(c *bindingConfig) {
		c.condition = cond
	}
}

// WhenFalse renders the bound value as the negated result of cond.
func WhenFalse(cond func(Value) bool) BindingOption {
	return func(c *bindingConfig) {
		c.negateCondition = cond
	}
}

// WithTransformer installs a two-way value transformer.
func WithTransformer(t ValueTransformer) BindingOption {
	return func(c *bindingConfig) {
		c.transformer = t
	}
}

func newBindingConfig(opts ...BindingOption) bindingConfig {
	cfg := bindingConfig{event: "change"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// transform applies the configured one-way transform. The transforms
// are documented as mutually exclusive; if several are set anyway, the
// first one in declaration order wins.
func (c bindingConfig) transform(v Value) Value {
	switch {
	case c.transformer != nil:
		return c.transformer.Transform(v)
	case c.boolean:
		return Bool(Truthy(v))
	case c.negateBoolean:
		return Bool(!Truthy(v))
	case c.condition != nil:
		return Bool(c.condition(v))
	case c.negateCondition != nil:
		return Bool(!c.negateCondition(v))
	}
	return v
}
