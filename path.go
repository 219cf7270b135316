// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import (
	"strconv"
	"strings"

	cache "github.com/patrickmn/go-cache"
)

// segmentCache memoizes the split form of path strings. A path is an
// immutable key so entries never expire and are shared by every Binder.
var segmentCache = cache.New(cache.NoExpiration, 0)

// splitPath splits a dot-delimited path into segments. The empty path
// denotes the document root and splits into nothing.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	if segs, ok := segmentCache.Get(path); ok {
		return segs.([]string)
	}
	segs := strings.Split(path, ".")
	segmentCache.Set(path, segs, cache.NoExpiration)
	return segs
}

func joinPath(segs []string) string {
	return strings.Join(segs, ".")
}

// parentPath drops the last segment. A top-level path has parent "".
func parentPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}
	return path[:i]
}

func lastSegment(path string) string {
	i := strings.LastIndex(path, ".")
	return path[i+1:]
}

func childPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}

// isPrefixOf reports whether candidate starts with prefix. The match is
// a plain character prefix, not segment-aware: "user" matches "user.a"
// and also "username". Bulk removal relies on this exact contract, so
// it must not be tightened to whole segments.
func isPrefixOf(prefix, candidate string) bool {
	return strings.HasPrefix(candidate, prefix)
}

func parseIndex(segment string) (int, bool) {
	i, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return i, true
}

func indexSegment(i int) string {
	return strconv.Itoa(i)
}

// lookupPath walks the document from the root. It returns the value at
// path and whether the full path resolved, telling a stored Null apart
// from an absent entry. The empty path resolves to the whole document.
func lookupPath(doc Value, path string) (Value, bool) {
	if path == "" {
		if doc == nil {
			return nil, false
		}
		return doc, true
	}
	cur := doc
	for _, seg := range splitPath(path) {
		switch t := cur.(type) {
		case Object:
			v, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case List:
			i, ok := parseIndex(seg)
			if !ok || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// isInArray reports whether the value addressed by path sits inside a
// sequence, resolved through its parent path.
func isInArray(doc Value, path string) bool {
	parent, ok := lookupPath(doc, parentPath(path))
	if !ok {
		return false
	}
	_, inList := parent.(List)
	return inList
}
