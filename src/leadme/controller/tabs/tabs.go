// Package tabs mirrors the browser tabs reported by web followers.
package tabs

import (
	"context"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _tabsCollection = "tabs"

// Controller keeps follower tab lists in step with tabs/{classCode}.
type Controller interface {
	Attach(ctx context.Context, classCode string) error
	Detach(ctx context.Context, classCode string)
	// Rehydrate reads the tab containers once and applies them to followers already in the
	// roster. It returns how many containers were applied.
	Rehydrate(ctx context.Context, classCode string) (int, error)
	// Adopt moves tabs that arrived before the follower joined onto the follower.
	Adopt(ctx context.Context, classCode string, uniqueID string) bool
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Store  tree.Store
	Roster roster.Repository
	Loop   eventloop.Loop
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type attachment struct {
	classCode string
	ctx       context.Context
	cancel    context.CancelFunc

	mu       sync.Mutex
	top      []tree.Subscription
	nested   map[string][]tree.Subscription
	pending  map[string]*entity.Follower
	detached bool
}

type controller struct {
	store  tree.Store
	roster roster.Repository
	loop   eventloop.Loop
	logger *zap.SugaredLogger
	stats  tally.Scope

	mu       sync.Mutex
	sessions map[string]*attachment
}

// New creates a tab controller.
func New(p Params) Controller {
	return &controller{
		store:    p.Store,
		roster:   p.Roster,
		loop:     p.Loop,
		logger:   p.Logger.With("controller", "tabs"),
		stats:    p.Stats.SubScope("tabs"),
		sessions: make(map[string]*attachment),
	}
}

func (c *controller) Attach(ctx context.Context, classCode string) error {
	if classCode == "" {
		return &errors.NoActiveSessionError{}
	}

	c.mu.Lock()
	if _, ok := c.sessions[classCode]; ok {
		c.mu.Unlock()
		return &errors.SessionActiveError{ClassCode: classCode}
	}
	actx, cancel := context.WithCancel(context.Background())
	a := &attachment{
		classCode: classCode,
		ctx:       actx,
		cancel:    cancel,
		nested:    make(map[string][]tree.Subscription),
		pending:   make(map[string]*entity.Follower),
	}
	c.sessions[classCode] = a
	c.mu.Unlock()

	path := tree.Join(_tabsCollection, classCode)
	handlers := map[tree.EventType]func(*attachment, tree.Snapshot){
		tree.ChildAdded:   c.containerAdded,
		tree.ChildRemoved: c.containerRemoved,
	}
	for _, event := range []tree.EventType{tree.ChildAdded, tree.ChildRemoved} {
		handle := handlers[event]
		sub, err := c.store.Subscribe(path, event, func(s tree.Snapshot) {
			c.loop.Post(func() { handle(a, s) })
		})
		if err != nil {
			c.Detach(ctx, classCode)
			return err
		}
		a.mu.Lock()
		if a.detached {
			a.mu.Unlock()
			sub.Cancel()
			return nil
		}
		a.top = append(a.top, sub)
		a.mu.Unlock()
	}
	return nil
}

func (c *controller) Detach(ctx context.Context, classCode string) {
	c.mu.Lock()
	a, ok := c.sessions[classCode]
	delete(c.sessions, classCode)
	c.mu.Unlock()
	if !ok {
		return
	}

	a.mu.Lock()
	a.detached = true
	subs := a.top
	for _, nested := range a.nested {
		subs = append(subs, nested...)
	}
	a.top = nil
	a.nested = make(map[string][]tree.Subscription)
	a.pending = make(map[string]*entity.Follower)
	a.mu.Unlock()

	a.cancel()
	for _, s := range subs {
		s.Cancel()
	}
}

func (c *controller) Rehydrate(ctx context.Context, classCode string) (int, error) {
	if classCode == "" {
		return 0, &errors.NoActiveSessionError{}
	}
	snap, err := c.store.Get(ctx, tree.Join(_tabsCollection, classCode))
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, container := range snap.Children() {
		tabs := mapper.SnapshotToTabs(container)
		if err := c.roster.Update(ctx, entity.FollowerWeb, container.Key, func(f *entity.Follower) { f.SetTabs(tabs) }); err != nil {
			continue
		}
		applied++
	}
	return applied, nil
}

func (c *controller) Adopt(ctx context.Context, classCode string, uniqueID string) bool {
	c.mu.Lock()
	a, ok := c.sessions[classCode]
	c.mu.Unlock()
	if !ok {
		return false
	}

	a.mu.Lock()
	held, ok := a.pending[uniqueID]
	a.mu.Unlock()
	if !ok {
		return false
	}

	err := c.roster.Update(ctx, entity.FollowerWeb, uniqueID, func(f *entity.Follower) { f.SetTabs(held.Web.Tabs) })
	if err != nil {
		return false
	}
	a.mu.Lock()
	delete(a.pending, uniqueID)
	a.mu.Unlock()
	c.stats.Counter("pending_adopted").Inc(1)
	return true
}

func (c *controller) live(a *attachment) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.detached
}

func (c *controller) containerAdded(a *attachment, snap tree.Snapshot) {
	if !c.live(a) {
		return
	}
	uid := snap.Key
	tabs := mapper.SnapshotToTabs(snap)
	c.apply(a, uid, func(f *entity.Follower) { f.SetTabs(tabs) })

	a.mu.Lock()
	_, listening := a.nested[uid]
	a.mu.Unlock()
	if listening {
		return
	}

	path := tree.Join(_tabsCollection, a.classCode, uid)
	var subs []tree.Subscription
	for _, event := range []tree.EventType{tree.ChildAdded, tree.ChildChanged, tree.ChildRemoved} {
		event := event
		sub, err := c.store.Subscribe(path, event, func(s tree.Snapshot) {
			c.loop.Post(func() { c.tabEvent(a, uid, event, s) })
		})
		if err != nil {
			c.logger.Warnw("failed to subscribe to follower tabs", "uniqueId", uid, "error", err)
			break
		}
		subs = append(subs, sub)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.detached {
		for _, s := range subs {
			s.Cancel()
		}
		return
	}
	a.nested[uid] = subs
}

func (c *controller) containerRemoved(a *attachment, snap tree.Snapshot) {
	if !c.live(a) {
		return
	}
	uid := snap.Key

	a.mu.Lock()
	subs := a.nested[uid]
	delete(a.nested, uid)
	delete(a.pending, uid)
	a.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}
	c.apply(a, uid, func(f *entity.Follower) { f.SetTabs(nil) })
}

func (c *controller) tabEvent(a *attachment, uid string, event tree.EventType, snap tree.Snapshot) {
	if !c.live(a) {
		return
	}
	if event == tree.ChildRemoved {
		id := mapper.SnapshotToTabID(snap)
		c.apply(a, uid, func(f *entity.Follower) { f.RemoveTab(id) })
		return
	}

	if event == tree.ChildAdded && !mapper.IsTabEntry(snap) {
		return
	}
	patch, err := mapper.SnapshotToTabPatch(snap)
	if err != nil {
		c.logger.Debugw("skipping tab entry", "uniqueId", uid, "error", err)
		return
	}
	c.apply(a, uid, func(f *entity.Follower) { f.UpsertTab(patch) })
}

// apply runs fn against the follower, or against the held tab list when the follower has not
// joined yet.
func (c *controller) apply(a *attachment, uid string, fn func(*entity.Follower)) {
	err := c.roster.Update(a.ctx, entity.FollowerWeb, uid, fn)
	if err == nil {
		return
	}
	if _, ok := errors.NotFoundFollower(err); !ok {
		c.logger.Warnw("failed to apply tab change", "uniqueId", uid, "error", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	held, ok := a.pending[uid]
	if !ok {
		held = entity.NewWebFollower(a.classCode, uid, "")
		a.pending[uid] = held
	}
	fn(held)
}
