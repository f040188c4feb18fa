// Package tree defines the contract of the remote hierarchical store shared by the leader and its followers.
package tree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

//go:generate mockgen -source=tree.go -destination=treemock/tree.go -package=treemock

// ErrUnsupported is returned by stores that cannot provide an optional operation.
var ErrUnsupported = errors.New("operation not supported by this store")

// EventType identifies which child-level change a subscription observes.
type EventType int

const (
	// ChildAdded fires once for each existing child on subscribe and then for each new child.
	ChildAdded EventType = iota
	// ChildChanged fires when any value below a direct child changes.
	ChildChanged
	// ChildRemoved fires with the last known value of a removed child.
	ChildRemoved
)

func (e EventType) String() string {
	switch e {
	case ChildAdded:
		return "child_added"
	case ChildChanged:
		return "child_changed"
	case ChildRemoved:
		return "child_removed"
	}
	return "unknown"
}

// Snapshot is the value of a node at the time of an event.
type Snapshot struct {
	Key   string
	Value json.RawMessage
}

var _null = []byte("null")

// Exists reports whether the node holds a value.
func (s Snapshot) Exists() bool {
	v := bytes.TrimSpace(s.Value)
	return len(v) > 0 && !bytes.Equal(v, _null)
}

// Decode unmarshals the node value into v.
func (s Snapshot) Decode(v any) error {
	if !s.Exists() {
		return errors.New("snapshot has no value")
	}
	return json.Unmarshal(s.Value, v)
}

// Children returns the direct children of an object node in store key order.
// Scalars and missing nodes have no children.
func (s Snapshot) Children() []Snapshot {
	var raw map[string]json.RawMessage
	if !s.Exists() || json.Unmarshal(s.Value, &raw) != nil {
		var list []json.RawMessage
		if s.Exists() && json.Unmarshal(s.Value, &list) == nil {
			return arrayChildren(list)
		}
		return nil
	}
	keys := SortedKeys(raw)
	out := make([]Snapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, Snapshot{Key: k, Value: raw[k]})
	}
	return out
}

// Child returns the direct child with the given key.
func (s Snapshot) Child(key string) Snapshot {
	for _, c := range s.Children() {
		if c.Key == key {
			return c
		}
	}
	return Snapshot{Key: key}
}

// Handler receives events for one subscription. Handlers run on the store's delivery goroutine
// and must not block.
type Handler func(Snapshot)

// Subscription is a live listener registration.
type Subscription interface {
	Path() string
	Event() EventType
	// Cancel detaches the listener. Calling it more than once has no further effect.
	Cancel()
}

// Store is a path-addressable JSON tree with child-level change notifications.
// Paths are slash separated and relative to the store root.
type Store interface {
	Get(ctx context.Context, path string) (Snapshot, error)
	Set(ctx context.Context, path string, value any) error
	// Update writes each key of values below path. Keys may themselves be slash separated paths;
	// a nil value removes the key.
	Update(ctx context.Context, path string, values map[string]any) error
	// Push appends value under a store-assigned key that sorts after every key pushed before it.
	Push(ctx context.Context, path string, value any) (string, error)
	Remove(ctx context.Context, path string) error
	Subscribe(path string, event EventType, handler Handler) (Subscription, error)
	// OnDisconnect registers a write the store applies when this client's connection drops.
	// A nil value removes the node.
	OnDisconnect(ctx context.Context, path string, value any) error
}

// Join builds a store path from its segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Split returns the non-empty segments of path.
func Split(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
