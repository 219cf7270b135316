package htmlport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atdiar/databind"
	"github.com/atdiar/databind/drivers/htmlport"
)

const page = `<html><body>
<input id="name" type="text" value="Ada">
<button id="save">Save</button>
<select id="color"><option value="stale">stale</option></select>
</body></html>`

func parsePage(t *testing.T) *htmlport.Document {
	t.Helper()
	doc, err := htmlport.ParseString(page)
	require.NoError(t, err)
	return doc
}

func TestElementLookup(t *testing.T) {
	doc := parsePage(t)

	input := doc.ElementByID("name")
	require.NotNil(t, input)
	require.Equal(t, "input", input.TagName())
	require.Nil(t, doc.ElementByID("missing"))
	require.Len(t, doc.ElementsByTagName("input"), 1)

	// wrappers are stable so listener state survives repeated lookups
	require.Same(t, input, doc.ElementByID("name"))
}

func TestPropertySeededFromMarkup(t *testing.T) {
	doc := parsePage(t)
	input := doc.ElementByID("name")
	require.Equal(t, databind.String("Ada"), input.GetProperty("value"))
	require.True(t, input.HasProperty("checked"))
	require.False(t, input.HasProperty("volume"))
}

func TestTwoWayBindingThroughDOM(t *testing.T) {
	doc := parsePage(t)
	input := doc.ElementByID("name")

	b := databind.New(databind.Object{"user": databind.Object{"name": databind.String("Grace")}})
	b.Bind(input, "user.name", "")

	// data -> UI on bind
	require.Equal(t, databind.String("Grace"), input.GetProperty("value"))

	// UI -> data on the change event
	input.SetProperty("value", databind.String("Edsger"))
	input.Dispatch("change")
	require.Equal(t, databind.String("Edsger"), b.Get("user.name"))

	// and back again without bouncing
	b.Set("user.name", databind.String("Barbara"))
	require.Equal(t, databind.String("Barbara"), input.GetProperty("value"))
}

func TestBooleanAttributeRendering(t *testing.T) {
	doc := parsePage(t)
	button := doc.ElementByID("save")

	b := databind.New(databind.Object{"busy": databind.Bool(true)})
	b.Bind(button, "busy", "disabled", databind.AsBoolean())

	v, ok := button.GetAttribute("disabled")
	require.True(t, ok)
	require.Equal(t, "disabled", v)

	var out strings.Builder
	require.NoError(t, doc.Render(&out))
	require.Contains(t, out.String(), `disabled="disabled"`)

	b.Set("busy", databind.Bool(false))
	_, ok = button.GetAttribute("disabled")
	require.False(t, ok)
}

func TestOptionListRebuild(t *testing.T) {
	doc := parsePage(t)
	sel := doc.ElementByID("color")
	sel.SetProperty("value", databind.String("g"))

	b := databind.New(databind.Object{
		"palette": databind.List{
			databind.String("red"),
			databind.Object{"value": databind.String("g"), "label": databind.String("green")},
		},
	})
	b.Bind(sel, "palette", databind.OptionsAttribute)

	var out strings.Builder
	require.NoError(t, doc.Render(&out))
	rendered := out.String()
	require.NotContains(t, rendered, "stale")
	require.Contains(t, rendered, `<option value="red">red</option>`)
	require.Contains(t, rendered, "green")
	require.Contains(t, rendered, `selected="selected"`)
}

func TestGenericAttributeFallback(t *testing.T) {
	doc := parsePage(t)
	button := doc.ElementByID("save")

	b := databind.New(databind.Object{"hint": databind.String("saves the form")})
	b.Bind(button, "hint", "title")
	v, ok := button.GetAttribute("title")
	require.True(t, ok)
	require.Equal(t, "saves the form", v)
}

func TestRemoveListener(t *testing.T) {
	doc := parsePage(t)
	input := doc.ElementByID("name")

	h := databind.NewEventHandler(func(databind.Event) {})
	input.AddListener("change", h)
	require.NoError(t, input.RemoveListener("change", h))
	require.ErrorIs(t, input.RemoveListener("change", h), htmlport.ErrUnknownListener)
}

func TestUnbindDetachesDOMListener(t *testing.T) {
	doc := parsePage(t)
	input := doc.ElementByID("name")

	b := databind.New(databind.Object{"user": databind.Object{"name": databind.String("x")}})
	b.Bind(input, "user.name", "")
	b.Unbind(input, "user.name", "")

	input.SetProperty("value", databind.String("changed"))
	input.Dispatch("change")
	require.Equal(t, databind.String("x"), b.Get("user.name"))
}
