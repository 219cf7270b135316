// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import "github.com/davecgh/go-spew/spew"

// DebugMode enables dump output from DEBUG.
var DebugMode bool

func DEBUG(args ...any) {
	if DebugMode {
		spew.Dump(args...)
	}
}
