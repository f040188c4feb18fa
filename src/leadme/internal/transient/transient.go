// Package transient treats a tree path as a push-then-delete message queue.
package transient

import (
	"context"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"go.uber.org/zap"
)

// Queue is a transient message queue rooted at one path. Messages exist in the store only long
// enough for current subscribers to observe them.
type Queue struct {
	store  tree.Store
	path   string
	logger *zap.SugaredLogger
}

// New returns a queue at path.
func New(store tree.Store, path string, logger *zap.SugaredLogger) *Queue {
	return &Queue{store: store, path: tree.Join(path), logger: logger}
}

// Path returns the queue root.
func (q *Queue) Path() string {
	return q.path
}

// Enqueue pushes msg and deletes it right away. Subscribers attached at push time observe it.
// A failed delete is logged; the message is then left for the session teardown to remove.
func (q *Queue) Enqueue(ctx context.Context, msg any) error {
	key, err := q.store.Push(ctx, q.path, msg)
	if err != nil {
		return err
	}
	if err := q.store.Remove(ctx, tree.Join(q.path, key)); err != nil {
		q.logger.Warnw("failed to remove transient message", "path", q.path, "key", key, "error", err)
	}
	return nil
}

// Subscribe delivers every message added below the queue in store order. A key already delivered
// to this subscription is not delivered again while the message is still in the store.
func (q *Queue) Subscribe(handler tree.Handler) (tree.Subscription, error) {
	sub := &subscription{seen: make(map[string]struct{})}

	added, err := q.store.Subscribe(q.path, tree.ChildAdded, func(s tree.Snapshot) {
		if sub.first(s.Key) {
			handler(s)
		}
	})
	if err != nil {
		return nil, err
	}
	removed, err := q.store.Subscribe(q.path, tree.ChildRemoved, func(s tree.Snapshot) {
		sub.forget(s.Key)
	})
	if err != nil {
		added.Cancel()
		return nil, err
	}

	sub.added, sub.removed = added, removed
	return sub, nil
}

// subscription pairs the delivery listener with a removal listener that prunes delivered keys.
type subscription struct {
	added   tree.Subscription
	removed tree.Subscription

	mu   sync.Mutex
	seen map[string]struct{}
}

func (s *subscription) Path() string { return s.added.Path() }

func (s *subscription) Event() tree.EventType { return tree.ChildAdded }

func (s *subscription) Cancel() {
	s.added.Cancel()
	s.removed.Cancel()
}

// first records key and reports whether it had not been delivered yet.
func (s *subscription) first(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *subscription) forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
}

// pending returns the number of delivered keys whose removal has not been observed.
func (s *subscription) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
