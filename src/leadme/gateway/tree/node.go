package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Event is one child-level change computed by Diff.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Normalize converts v into its generic JSON form. Empty objects collapse to nil, matching
// stores that do not keep empty nodes.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return prune(out), nil
}

// Lookup returns the node found by walking segs from root.
func Lookup(root any, segs []string) (any, bool) {
	node := root
	for _, s := range segs {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[s]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			i, err := strconv.Atoi(s)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, node != nil
}

// SetAt replaces the node at segs with v and returns the new root. A nil v deletes the node and
// any ancestors left empty. Containers along the path are updated in place.
func SetAt(root any, segs []string, v any) any {
	if len(segs) == 0 {
		return v
	}
	m := asMap(root)
	child := SetAt(m[segs[0]], segs[1:], v)
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// Encode returns the JSON form of a generic node.
func Encode(node any) json.RawMessage {
	if node == nil {
		return nil
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return nil
	}
	return raw
}

// ChildValues returns the encoded direct children of node.
func ChildValues(node any) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			out[k] = Encode(v)
		}
	case []any:
		for i, v := range n {
			if v != nil {
				out[strconv.Itoa(i)] = Encode(v)
			}
		}
	}
	return out
}

// Diff computes the child events that turn before into after. Removals come first, then
// additions, then changes, each in store key order.
func Diff(before, after map[string]json.RawMessage) []Event {
	var events []Event
	for _, k := range SortedKeys(before) {
		if _, ok := after[k]; !ok {
			events = append(events, Event{Type: ChildRemoved, Snapshot: Snapshot{Key: k, Value: before[k]}})
		}
	}
	for _, k := range SortedKeys(after) {
		if _, ok := before[k]; !ok {
			events = append(events, Event{Type: ChildAdded, Snapshot: Snapshot{Key: k, Value: after[k]}})
		}
	}
	for _, k := range SortedKeys(after) {
		if old, ok := before[k]; ok && !bytes.Equal(old, after[k]) {
			events = append(events, Event{Type: ChildChanged, Snapshot: Snapshot{Key: k, Value: after[k]}})
		}
	}
	return events
}

// SortedKeys orders keys the way the store does: integer-like keys numerically first,
// then the remaining keys lexicographically.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

func keyLess(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	}
	return a < b
}

func arrayChildren(list []json.RawMessage) []Snapshot {
	out := make([]Snapshot, 0, len(list))
	for i, v := range list {
		s := Snapshot{Key: strconv.Itoa(i), Value: v}
		if s.Exists() {
			out = append(out, s)
		}
	}
	return out
}

func asMap(node any) map[string]any {
	switch n := node.(type) {
	case map[string]any:
		return n
	case []any:
		m := make(map[string]any, len(n))
		for i, v := range n {
			if v != nil {
				m[strconv.Itoa(i)] = v
			}
		}
		return m
	}
	return map[string]any{}
}

func prune(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, c := range n {
			if p := prune(c); p == nil {
				delete(n, k)
			} else {
				n[k] = p
			}
		}
		if len(n) == 0 {
			return nil
		}
	case []any:
		if len(n) == 0 {
			return nil
		}
	}
	return v
}
