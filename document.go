// Package databind synchronizes a JSON-like document with user interface elements.
package databind

// Action classifies a mutation for observer callbacks.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// setPath writes v at segs under node, creating intermediate mappings
// for missing or non-composite intermediate segments. Sequence indices
// at the final segment are clamped into [0,len]; the returned segments
// are the canonical path actually written, which may differ from the
// requested one. The returned Value replaces node in its parent (a
// sequence grows by reallocation). ok is false when a sequence was
// addressed with a segment that is not an index, in which case nothing
// was written.
func setPath(node Value, segs []string, v Value) (Value, []string, Action, bool) {
	if len(segs) == 0 {
		act := ActionUpdate
		if node == nil {
			act = ActionCreate
		}
		return v, nil, act, true
	}
	seg := segs[0]
	switch t := node.(type) {
	case Object:
		child, existed := t[seg]
		if len(segs) == 1 {
			t[seg] = v
			act := ActionUpdate
			if !existed {
				act = ActionCreate
			}
			return t, []string{seg}, act, true
		}
		if !isComposite(child) {
			child = NewObject()
			t[seg] = child
		}
		nc, canon, act, ok := setPath(child, segs[1:], v)
		if !ok {
			return t, nil, "", false
		}
		t[seg] = nc
		return t, append([]string{seg}, canon...), act, true
	case List:
		i, ok := parseIndex(seg)
		if !ok {
			return t, nil, "", false
		}
		if i < 0 {
			i = 0
		}
		if len(segs) == 1 {
			if i >= len(t) {
				t = append(t, v)
				return t, []string{indexSegment(len(t) - 1)}, ActionCreate, true
			}
			t[i] = v
			return t, []string{indexSegment(i)}, ActionUpdate, true
		}
		if i >= len(t) {
			t = append(t, NewObject())
			i = len(t) - 1
		}
		child := t[i]
		if !isComposite(child) {
			child = NewObject()
			t[i] = child
		}
		nc, canon, act, ok := setPath(child, segs[1:], v)
		if !ok {
			return t, nil, "", false
		}
		t[i] = nc
		return t, append([]string{indexSegment(i)}, canon...), act, true
	default:
		// missing or scalar intermediate: overwritten with a mapping
		return setPath(NewObject(), segs, v)
	}
}

// deletePath removes the entry addressed by segs: a splice-out for
// sequences, a key deletion for mappings. The empty path clears the
// whole document. ok is false when the path did not resolve.
func deletePath(node Value, segs []string) (Value, bool) {
	if len(segs) == 0 {
		return nil, true
	}
	seg := segs[0]
	switch t := node.(type) {
	case Object:
		child, ok := t[seg]
		if !ok {
			return t, false
		}
		if len(segs) == 1 {
			delete(t, seg)
			return t, true
		}
		nc, ok := deletePath(child, segs[1:])
		if !ok {
			return t, false
		}
		t[seg] = nc
		return t, true
	case List:
		i, ok := parseIndex(seg)
		if !ok || i < 0 || i >= len(t) {
			return t, false
		}
		if len(segs) == 1 {
			t = append(t[:i], t[i+1:]...)
			return t, true
		}
		nc, ok := deletePath(t[i], segs[1:])
		if !ok {
			return t, false
		}
		t[i] = nc
		return t, true
	}
	return node, false
}

// insertAt splices v into the sequence at index i, shifting the
// elements after it. i is expected to be clamped into [0,len] already.
func insertAt(list List, i int, v Value) List {
	nl := make([]Value, 0, len(list)+1)
	nl = append(nl, list[:i]...)
	nl = append(nl, v)
	nl = append(nl, list[i:]...)
	return List(nl)
}

// clampIndex clamps i into [0,length]: negative indices to 0, past-end
// indices to the append position.
func clampIndex(i int, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
