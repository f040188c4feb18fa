package rtdb

import (
	"bufio"
	"context"
	"encoding/json"
	stderr "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/cenkalti/backoff/v4"
)

const (
	_maxEventSize = 16 << 20

	_eventPut         = "put"
	_eventPatch       = "patch"
	_eventKeepAlive   = "keep-alive"
	_eventCancel      = "cancel"
	_eventAuthRevoked = "auth_revoked"
)

// stream is one server-sent event connection shared by every subscription on a path. It keeps
// the last known value of the path so child-level events can be derived from put and patch
// messages, including a full resync after a reconnect.
type stream struct {
	client *Client
	path   string
	cancel context.CancelFunc
	done   chan struct{}

	// deliverMu serialises handler invocation for this path.
	deliverMu sync.Mutex

	mu     sync.Mutex
	node   any
	synced bool
	subs   map[int]*subscription
}

type subscription struct {
	id        int
	stream    *stream
	event     tree.EventType
	handler   tree.Handler
	cancelled atomic.Bool
}

type message struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

// Subscribe attaches handler to child events below path. Handlers run on the stream goroutine
// and must not subscribe to the same path synchronously.
func (c *Client) Subscribe(path string, event tree.EventType, handler tree.Handler) (tree.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("subscribing to %q: nil handler", path)
	}
	path = tree.Join(path)

	c.mu.Lock()
	st, ok := c.streams[path]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		st = &stream{
			client: c,
			path:   path,
			cancel: cancel,
			done:   make(chan struct{}),
			subs:   make(map[int]*subscription),
		}
		c.streams[path] = st
		go st.run(ctx)
	}
	c.nextID++
	sub := &subscription{id: c.nextID, stream: st, event: event, handler: handler}
	c.mu.Unlock()

	st.add(sub)
	return sub, nil
}

// Close stops every stream and waits for their goroutines to exit.
func (c *Client) Close() {
	c.mu.Lock()
	streams := make([]*stream, 0, len(c.streams))
	for _, st := range c.streams {
		streams = append(streams, st)
	}
	c.streams = make(map[string]*stream)
	c.mu.Unlock()

	for _, st := range streams {
		st.cancel()
		<-st.done
	}
}

func (c *Client) release(sub *subscription) {
	st := sub.stream

	c.mu.Lock()
	defer c.mu.Unlock()

	st.mu.Lock()
	delete(st.subs, sub.id)
	empty := len(st.subs) == 0
	st.mu.Unlock()

	if empty && c.streams[st.path] == st {
		delete(c.streams, st.path)
		st.cancel()
	}
}

func (s *subscription) Path() string { return s.stream.path }

func (s *subscription) Event() tree.EventType { return s.event }

func (s *subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	s.stream.client.release(s)
}

func (st *stream) add(sub *subscription) {
	st.deliverMu.Lock()
	defer st.deliverMu.Unlock()

	st.mu.Lock()
	st.subs[sub.id] = sub
	var replay map[string]json.RawMessage
	if sub.event == tree.ChildAdded && st.synced {
		replay = tree.ChildValues(st.node)
	}
	st.mu.Unlock()

	for _, k := range tree.SortedKeys(replay) {
		if sub.cancelled.Load() {
			return
		}
		sub.handler(tree.Snapshot{Key: k, Value: replay[k]})
	}
}

func (st *stream) run(ctx context.Context) {
	defer close(st.done)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0

	err := backoff.RetryNotify(func() error {
		err := st.listen(ctx, b)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		var ae *errors.AuthError
		if stderr.As(err, &ae) {
			return backoff.Permanent(err)
		}
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		st.client.stats.Counter("stream_reconnects").Inc(1)
		st.client.logger.Warnw("tree stream interrupted, reconnecting", "path", st.path, "error", err, "retryIn", wait)
	})
	if err != nil && ctx.Err() == nil {
		st.client.logger.Errorw("tree stream stopped", "path", st.path, "error", err)
	}
}

// listen holds one connection open and applies its events until it ends.
func (st *stream) listen(ctx context.Context, b backoff.BackOff) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.client.endpoint(st.path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := st.client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError("STREAM", st.path, resp.StatusCode, body)
	}
	b.Reset()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), _maxEventSize)

	var event string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event != "" {
				if err := st.dispatch(event, data.String()); err != nil {
					return err
				}
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	return scanner.Err()
}

func (st *stream) dispatch(event, data string) error {
	switch event {
	case _eventPut, _eventPatch:
		var msg message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			st.client.logger.Warnw("skipping malformed tree event", "path", st.path, "event", event, "error", err)
			return nil
		}
		st.deliver(event, msg)
	case _eventKeepAlive:
	case _eventCancel:
		return &errors.AuthError{Code: "auth/permission-denied", Detail: "stream cancelled by server"}
	case _eventAuthRevoked:
		return &errors.AuthError{Code: "auth/id-token-revoked", Detail: "credential revoked"}
	default:
		st.client.logger.Debugw("ignoring tree event", "path", st.path, "event", event)
	}
	return nil
}

func (st *stream) deliver(kind string, msg message) {
	st.deliverMu.Lock()
	defer st.deliverMu.Unlock()

	st.mu.Lock()
	events, err := st.apply(kind, msg)
	subs := make([]*subscription, 0, len(st.subs))
	for _, s := range st.subs {
		subs = append(subs, s)
	}
	st.mu.Unlock()

	if err != nil {
		st.client.logger.Warnw("skipping malformed tree event", "path", st.path, "event", kind, "error", err)
		return
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })

	for _, ev := range events {
		for _, s := range subs {
			if s.event == ev.Type && !s.cancelled.Load() {
				s.handler(ev.Snapshot)
			}
		}
	}
}

// apply folds one put or patch into the cached node and returns the resulting child events.
// Callers hold st.mu.
func (st *stream) apply(kind string, msg message) ([]tree.Event, error) {
	var v any
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return nil, err
		}
	}

	before := tree.ChildValues(st.node)
	segs := tree.Split(msg.Path)

	switch kind {
	case _eventPut:
		n, err := tree.Normalize(v)
		if err != nil {
			return nil, err
		}
		st.node = tree.SetAt(st.node, segs, n)
	case _eventPatch:
		fields, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("patch data is not an object")
		}
		for _, k := range tree.SortedKeys(fields) {
			n, err := tree.Normalize(fields[k])
			if err != nil {
				return nil, err
			}
			target := append(append([]string{}, segs...), tree.Split(k)...)
			st.node = tree.SetAt(st.node, target, n)
		}
	}

	st.synced = true
	return tree.Diff(before, tree.ChildValues(st.node)), nil
}
