// Package memtree implements tree.Store in process memory.
package memtree

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/oklog/ulid/v2"
)

// Store is an in-memory tree.Store. Events are delivered in mutation order, outside the store
// lock, so handlers may call back into the store.
type Store struct {
	mu           sync.Mutex
	root         any
	subs         map[int]*subscription
	nextID       int
	entropy      io.Reader
	onDisconnect []pendingWrite

	subscribed  int
	cancelCalls int

	queue    []delivery
	draining bool
}

type pendingWrite struct {
	segs  []string
	value any
}

type delivery struct {
	sub  *subscription
	snap tree.Snapshot
}

type subscription struct {
	id        int
	path      string
	segs      []string
	event     tree.EventType
	handler   tree.Handler
	store     *Store
	cancelled bool
}

// New returns an empty store.
func New() *Store {
	return &Store{
		subs:    make(map[int]*subscription),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

var _ tree.Store = (*Store)(nil)

// Get returns the value at path.
func (s *Store) Get(ctx context.Context, path string) (tree.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := tree.Split(path)
	node, _ := tree.Lookup(s.root, segs)
	return tree.Snapshot{Key: lastSegment(segs), Value: tree.Encode(node)}, nil
}

// Set replaces the value at path.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	v, err := tree.Normalize(value)
	if err != nil {
		return err
	}
	s.mutate([]pendingWrite{{segs: tree.Split(path), value: v}})
	return nil
}

// Update writes each key of values below path.
func (s *Store) Update(ctx context.Context, path string, values map[string]any) error {
	writes := make([]pendingWrite, 0, len(values))
	for _, k := range tree.SortedKeys(values) {
		v, err := tree.Normalize(values[k])
		if err != nil {
			return fmt.Errorf("updating %q: %w", k, err)
		}
		writes = append(writes, pendingWrite{segs: tree.Split(tree.Join(path, k)), value: v})
	}
	s.mutate(writes)
	return nil
}

// Push appends value under a new monotonic key.
func (s *Store) Push(ctx context.Context, path string, value any) (string, error) {
	v, err := tree.Normalize(value)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	id, err := ulid.New(ulid.Now(), s.entropy)
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("generating push key: %w", err)
	}

	key := id.String()
	s.mutate([]pendingWrite{{segs: tree.Split(tree.Join(path, key)), value: v}})
	return key, nil
}

// Remove deletes the node at path.
func (s *Store) Remove(ctx context.Context, path string) error {
	s.mutate([]pendingWrite{{segs: tree.Split(path)}})
	return nil
}

// OnDisconnect queues a write applied by Disconnect.
func (s *Store) OnDisconnect(ctx context.Context, path string, value any) error {
	v, err := tree.Normalize(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = append(s.onDisconnect, pendingWrite{segs: tree.Split(path), value: v})
	return nil
}

// Disconnect applies and clears every write registered with OnDisconnect.
func (s *Store) Disconnect() {
	s.mu.Lock()
	writes := s.onDisconnect
	s.onDisconnect = nil
	s.mu.Unlock()

	if len(writes) > 0 {
		s.mutate(writes)
	}
}

// Subscribe registers handler for child events below path.
func (s *Store) Subscribe(path string, event tree.EventType, handler tree.Handler) (tree.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("subscribing to %q: nil handler", path)
	}

	s.mu.Lock()
	s.nextID++
	sub := &subscription{
		id:      s.nextID,
		path:    tree.Join(path),
		segs:    tree.Split(path),
		event:   event,
		handler: handler,
		store:   s,
	}
	s.subs[sub.id] = sub
	s.subscribed++

	if event == tree.ChildAdded {
		node, _ := tree.Lookup(s.root, sub.segs)
		children := tree.ChildValues(node)
		for _, k := range tree.SortedKeys(children) {
			s.queue = append(s.queue, delivery{sub: sub, snap: tree.Snapshot{Key: k, Value: children[k]}})
		}
	}
	s.mu.Unlock()

	s.drain()
	return sub, nil
}

// ActiveListeners returns the number of live subscriptions at or below prefix.
func (s *Store) ActiveListeners(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix = tree.Join(prefix)
	n := 0
	for _, sub := range s.subs {
		if sub.path == prefix || strings.HasPrefix(sub.path, prefix+"/") || prefix == "" {
			n++
		}
	}
	return n
}

// ListenerStats returns the total number of subscriptions made and Cancel calls received.
func (s *Store) ListenerStats() (subscribed, cancelCalls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribed, s.cancelCalls
}

// Dump returns the whole tree as JSON.
func (s *Store) Dump() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tree.Encode(s.root)
}

func (s *Store) mutate(writes []pendingWrite) {
	s.mu.Lock()

	affected := s.affected(writes)
	paths := make(map[string][]string, len(affected))
	for _, sub := range affected {
		paths[sub.path] = sub.segs
	}

	before := make(map[string]map[string]json.RawMessage, len(paths))
	for p, segs := range paths {
		node, _ := tree.Lookup(s.root, segs)
		before[p] = tree.ChildValues(node)
	}

	for _, w := range writes {
		s.root = tree.SetAt(s.root, w.segs, w.value)
	}

	events := make(map[string][]tree.Event, len(paths))
	for p, segs := range paths {
		node, _ := tree.Lookup(s.root, segs)
		events[p] = tree.Diff(before[p], tree.ChildValues(node))
	}

	for _, sub := range affected {
		for _, ev := range events[sub.path] {
			if ev.Type == sub.event {
				s.queue = append(s.queue, delivery{sub: sub, snap: ev.Snapshot})
			}
		}
	}
	s.mu.Unlock()

	s.drain()
}

// affected returns the live subscriptions whose children may change under writes, in
// registration order. Callers hold s.mu.
func (s *Store) affected(writes []pendingWrite) []*subscription {
	var out []*subscription
	for _, sub := range s.subs {
		for _, w := range writes {
			if related(sub.segs, w.segs) {
				out = append(out, sub)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// drain delivers queued events. Only one goroutine drains at a time; events queued by
// handlers are delivered by the drain already in progress.
func (s *Store) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 {
		d := s.queue[0]
		s.queue = s.queue[1:]
		if d.sub.cancelled {
			continue
		}
		s.mu.Unlock()
		d.sub.handler(d.snap)
		s.mu.Lock()
	}

	s.draining = false
	s.mu.Unlock()
}

func (sub *subscription) Path() string { return sub.path }

func (sub *subscription) Event() tree.EventType { return sub.event }

func (sub *subscription) Cancel() {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelCalls++
	if sub.cancelled {
		return
	}
	sub.cancelled = true
	delete(s.subs, sub.id)
}

// related reports whether one path is a prefix of the other.
func related(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lastSegment(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}
