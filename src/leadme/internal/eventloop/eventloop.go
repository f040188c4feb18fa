// Package eventloop serialises callbacks from the tree store and from WebRTC onto one goroutine.
package eventloop

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Loop runs posted tasks one at a time in posting order.
type Loop interface {
	// Post schedules fn. It never blocks, and may be called from within a running task.
	Post(fn func())
}

// Params define values to be used by the event loop.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

type loop struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	stopped bool
	done    chan struct{}
}

// New creates a loop that starts and stops with the application.
func New(p Params) Loop {
	l := newLoop(p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go l.run()
			return nil
		},
		OnStop: l.stop,
	})
	return l
}

// Start runs a loop outside of an Fx application. The returned function stops it after
// draining already posted tasks.
func Start(logger *zap.SugaredLogger) (Loop, func()) {
	l := newLoop(logger)
	go l.run()
	return l, func() { _ = l.stop(context.Background()) }
}

func newLoop(logger *zap.SugaredLogger) *loop {
	return &loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (l *loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.logger.Warn("dropping task posted after event loop stopped")
		return
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			if l.stopped {
				l.mu.Unlock()
				return
			}
			l.mu.Unlock()
			<-l.wake
			continue
		}
		fn := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.execute(fn)
	}
}

func (l *loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Errorw("event loop task panicked", "panic", r)
		}
	}()
	fn()
}

func (l *loop) stop(ctx context.Context) error {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline returns a Loop that runs each task immediately on the posting goroutine.
// Tasks posted from within a running task are queued and run after it returns.
func Inline(logger *zap.SugaredLogger) Loop {
	return &inline{loop: newLoop(logger)}
}

type inline struct {
	*loop
	running bool
}

func (i *inline) Post(fn func()) {
	i.mu.Lock()
	i.tasks = append(i.tasks, fn)
	if i.running {
		i.mu.Unlock()
		return
	}
	i.running = true
	for len(i.tasks) > 0 {
		next := i.tasks[0]
		i.tasks = i.tasks[1:]
		i.mu.Unlock()
		i.execute(next)
		i.mu.Lock()
	}
	i.running = false
	i.mu.Unlock()
}
