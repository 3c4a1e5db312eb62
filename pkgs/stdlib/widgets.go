// Package stdlib holds the small lookup tables shared by the compiler and
// the runtime facade: the names of the language's built-in widget
// constructors and the option names conf/pack accept. Keeping a single
// table in one place means the compiler's CREATE_WIDGET lowering and the
// Recorder's conf/pack semantics can never drift apart on what a widget
// family or option name means.
package stdlib

// WidgetTypeTags maps a widget constructor command name to its uppercase
// type tag.
var WidgetTypeTags = map[string]string{
	"l":         "LABEL",
	"label":     "LABEL",
	"b":         "BUTTON",
	"button":    "BUTTON",
	"i":         "INPUT",
	"input":     "INPUT",
	"listbox":   "LISTBOX",
	"canvas":    "CANVAS",
	"c":         "CONTAINER",
	"container": "CONTAINER",
}

// IsWidgetConstructor reports whether name is a recognized widget family.
func IsWidgetConstructor(name string) bool {
	_, ok := WidgetTypeTags[name]
	return ok
}

// ConfOptionNames translates a recognized `conf` option into the semantic
// property name it is stored under. Options absent from this table are
// ignored by the Recorder's UpdateWidget.
var ConfOptionNames = map[string]string{
	"-text":    "text",
	"-bg":      "backgroundColor",
	"-fg":      "foregroundColor",
	"-font":    "font",
	"-width":   "width",
	"-height":  "height",
	"-items":   "items",
	"-value":   "value",
	"-state":   "state",
	"-visible": "visible",
}

// PackOptionNames lists the recognized `pack` layout options; values are
// the property name stored (the option name minus its leading dash).
var PackOptionNames = map[string]string{
	"-side":   "side",
	"-anchor": "anchor",
	"-fill":   "fill",
	"-expand": "expand",
	"-padx":   "padx",
	"-pady":   "pady",
	"-ipadx":  "ipadx",
	"-ipady":  "ipady",
}
