// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import "github.com/golang/glog"

// booleanAttributes lists the attributes whose truth is encoded by
// presence on the element rather than by a "true"/"false" string.
var booleanAttributes = map[string]bool{
	"autofocus": true,
	"checked":   true,
	"disabled":  true,
	"hidden":    true,
	"multiple":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
}

// OptionsAttribute is the attribute name that addresses the option set
// of a selectable-option-list control.
const OptionsAttribute = "options"

// applyBinding pushes a document value to the bound element: the
// configured one-way transform first, then either the option-list
// rebuild, the boolean-attribute presence encoding, or the
// property-preferred generic write.
func (b *Binder) applyBinding(bd *Binding, v Value) {
	uiv := bd.cfg.transform(v)
	el := bd.Element

	if bd.Attribute == OptionsAttribute {
		if ol, ok := el.(OptionList); ok {
			applyOptions(ol, el, uiv)
			return
		}
	}

	if booleanAttributes[bd.Attribute] {
		if Truthy(uiv) {
			el.SetAttribute(bd.Attribute, bd.Attribute)
		} else {
			el.RemoveAttribute(bd.Attribute)
		}
		if el.HasProperty(bd.Attribute) {
			el.SetProperty(bd.Attribute, uiv)
		}
		return
	}

	if el.HasProperty(bd.Attribute) {
		el.SetProperty(bd.Attribute, uiv)
		return
	}
	el.SetAttribute(bd.Attribute, Format(uiv))
}

// applyOptions rebuilds the option set of a selectable-option-list
// control from a sequence value. A composite entry has its fields
// copied onto the option; a scalar entry is used as both value and
// label. A non-sequence value skips the rebuild with a warning, but
// selection matching still runs.
func applyOptions(ol OptionList, el UIElementPort, v Value) {
	list, ok := v.(List)
	if !ok {
		glog.Warningf("databind: options binding expects a sequence, got %s", kindName(v))
	} else {
		ol.ClearOptions()
		for _, entry := range list {
			if obj, composite := entry.(Object); composite {
				fields := make(map[string]string, len(obj))
				for k, f := range obj {
					fields[k] = Format(f)
				}
				ol.AppendOption(fields)
				continue
			}
			s := Format(entry)
			ol.AppendOption(map[string]string{"value": s, "label": s})
		}
	}
	ol.SelectValue(Format(el.GetProperty("value")))
}

// handleUIEvent is the reverse direction: triggered by the binding's
// configured event. One-way bindings suppress the default action and
// leave the data alone; two-way bindings read the live property value,
// undo the transformer if one is configured, and write it back through
// set with the element as origin.
func (b *Binder) handleUIEvent(bd *Binding, evt Event) {
	if bd.cfg.oneWay {
		evt.PreventDefault()
		return
	}
	v := bd.Element.GetProperty(bd.Attribute)
	if bd.cfg.transformer != nil {
		v = bd.cfg.transformer.ReverseTransform(v)
	}
	b.set(bd.Path, v, bd.Element)
}

func kindName(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}
