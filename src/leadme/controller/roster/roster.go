// Package roster mirrors the follower collections of a class session into the local roster.
package roster

import (
	"context"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/transient"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	rosterrepo "github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=roster.go -destination=rostermock/roster.go -package=rostermock

const (
	_fieldScreenshot     = "screenshot"
	_fieldResponse       = "response"
	_fieldName           = "name"
	_fieldTasks          = "tasks"
	_fieldCurrentPackage = "currentPackage"
	_fieldAction         = "action"
	_fieldSource         = "source"
	_fieldApplications   = "applications"
	_fieldVideos         = "videos"
)

// Callbacks receive roster events of an attached session. They run on the event loop.
type Callbacks interface {
	// FollowerAdded is called once per follower arrival, including a follower returning after a
	// disconnect. f is a copy.
	FollowerAdded(ctx context.Context, f *entity.Follower)
	FollowerRemoved(ctx context.Context, t entity.FollowerType, uniqueID string)
	// FollowerResponse delivers a message a follower wrote to its response field.
	FollowerResponse(ctx context.Context, t entity.FollowerType, uniqueID string, env entity.Envelope)
	// Signal delivers one entry of the follower's signaling queue.
	Signal(ctx context.Context, uniqueID string, snap tree.Snapshot)
}

// Controller keeps the local roster in step with the follower collections of a session.
type Controller interface {
	// Attach subscribes to the web and mobile follower collections of classCode.
	Attach(ctx context.Context, classCode string, cb Callbacks) error
	// Detach cancels every subscription opened for classCode.
	Detach(ctx context.Context, classCode string)
	// Rehydrate reads both follower collections once into the roster and returns how many
	// followers were found.
	Rehydrate(ctx context.Context, classCode string) (int, error)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Store  tree.Store
	Blobs  blob.Store
	Roster rosterrepo.Repository
	Loop   eventloop.Loop
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type followerKey struct {
	t   entity.FollowerType
	uid string
}

// attachment is the subscription set of one attached session.
type attachment struct {
	classCode string
	callbacks Callbacks
	ctx       context.Context
	cancel    context.CancelFunc

	mu       sync.Mutex
	top      []tree.Subscription
	nested   map[followerKey][]tree.Subscription
	detached bool
}

type controller struct {
	store  tree.Store
	blobs  blob.Store
	roster rosterrepo.Repository
	loop   eventloop.Loop
	logger *zap.SugaredLogger
	stats  tally.Scope

	mu       sync.Mutex
	sessions map[string]*attachment
}

// New creates a roster controller.
func New(p Params) Controller {
	return &controller{
		store:    p.Store,
		blobs:    p.Blobs,
		roster:   p.Roster,
		loop:     p.Loop,
		logger:   p.Logger.With("controller", "roster"),
		stats:    p.Stats.SubScope("roster_sync"),
		sessions: make(map[string]*attachment),
	}
}

func (c *controller) Attach(ctx context.Context, classCode string, cb Callbacks) error {
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
		callbacks: cb,
		ctx:       actx,
		cancel:    cancel,
		nested:    make(map[followerKey][]tree.Subscription),
	}
	c.sessions[classCode] = a
	c.mu.Unlock()

	for _, t := range entity.FollowerTypes {
		t := t
		path := tree.Join(t.Collection(), classCode)
		added, err := c.store.Subscribe(path, tree.ChildAdded, func(s tree.Snapshot) {
			c.loop.Post(func() { c.followerAdded(a, t, s) })
		})
		if err != nil {
			c.Detach(ctx, classCode)
			return err
		}
		if !a.keep(added) {
			return nil
		}
		removed, err := c.store.Subscribe(path, tree.ChildRemoved, func(s tree.Snapshot) {
			c.loop.Post(func() { c.followerRemoved(a, t, s.Key) })
		})
		if err != nil {
			c.Detach(ctx, classCode)
			return err
		}
		if !a.keep(removed) {
			return nil
		}
	}
	c.logger.Infow("attached roster listeners", "classCode", classCode)
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
	a.nested = make(map[followerKey][]tree.Subscription)
	a.mu.Unlock()

	a.cancel()
	for _, s := range subs {
		s.Cancel()
	}
	c.logger.Infow("detached roster listeners", "classCode", classCode, "subscriptions", len(subs))
}

func (c *controller) Rehydrate(ctx context.Context, classCode string) (int, error) {
	if classCode == "" {
		return 0, &errors.NoActiveSessionError{}
	}

	found := 0
	for _, t := range entity.FollowerTypes {
		snap, err := c.store.Get(ctx, tree.Join(t.Collection(), classCode))
		if err != nil {
			return found, err
		}
		for _, child := range snap.Children() {
			f, err := mapper.SnapshotToFollower(classCode, t, child)
			if err != nil {
				c.logger.Debugw("skipping follower entry", "type", t, "key", child.Key, "error", err)
				continue
			}
			if _, err := c.roster.Add(ctx, f); err != nil {
				return found, err
			}
			found++
		}
	}
	return found, nil
}

// keep records a top level subscription. It cancels sub and returns false when the session was
// detached meanwhile.
func (a *attachment) keep(sub tree.Subscription) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.detached {
		sub.Cancel()
		return false
	}
	a.top = append(a.top, sub)
	return true
}

func (a *attachment) live() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.detached
}

func (c *controller) followerAdded(a *attachment, t entity.FollowerType, snap tree.Snapshot) {
	if !a.live() {
		return
	}
	ctx := a.ctx
	f, err := mapper.SnapshotToFollower(a.classCode, t, snap)
	if err != nil {
		c.logger.Debugw("skipping follower entry", "type", t, "key", snap.Key, "error", err)
		return
	}
	if _, err := c.roster.Add(ctx, f); err != nil {
		c.logger.Warnw("failed to add follower", "type", t, "uniqueId", f.UniqueID, "error", err)
		return
	}

	key := followerKey{t: t, uid: f.UniqueID}
	a.mu.Lock()
	_, listening := a.nested[key]
	a.mu.Unlock()
	if listening {
		return
	}
	if err := c.listen(a, key); err != nil {
		c.logger.Warnw("failed to subscribe to follower", "type", t, "uniqueId", f.UniqueID, "error", err)
	}

	if t == entity.FollowerWeb && mapper.HasScreenshot(snap) {
		c.fetchScreenshot(a, f.UniqueID)
	}

	stored, err := c.roster.Get(ctx, t, f.UniqueID)
	if err != nil {
		return
	}
	c.logger.Infow("follower joined", "type", t, "uniqueId", f.UniqueID, "name", stored.Name)
	a.callbacks.FollowerAdded(ctx, stored)
}

// listen opens the field and signaling subscriptions of one follower.
func (c *controller) listen(a *attachment, key followerKey) error {
	fields, err := c.store.Subscribe(tree.Join(key.t.Collection(), a.classCode, key.uid), tree.ChildChanged, func(s tree.Snapshot) {
		c.loop.Post(func() { c.fieldChanged(a, key, s) })
	})
	if err != nil {
		return err
	}
	signals, err := transient.New(c.store, tree.Join("ice", a.classCode, key.uid), c.logger).Subscribe(func(s tree.Snapshot) {
		c.loop.Post(func() {
			if a.live() {
				a.callbacks.Signal(a.ctx, key.uid, s)
			}
		})
	})
	if err != nil {
		fields.Cancel()
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.detached {
		fields.Cancel()
		signals.Cancel()
		return nil
	}
	a.nested[key] = []tree.Subscription{fields, signals}
	return nil
}

func (c *controller) followerRemoved(a *attachment, t entity.FollowerType, uniqueID string) {
	if !a.live() {
		return
	}
	key := followerKey{t: t, uid: uniqueID}
	a.mu.Lock()
	subs := a.nested[key]
	delete(a.nested, key)
	a.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}

	if err := c.roster.MarkDisconnected(a.ctx, t, uniqueID); err != nil {
		c.logger.Debugw("removed follower was not in the roster", "type", t, "uniqueId", uniqueID)
		return
	}
	c.logger.Infow("follower left", "type", t, "uniqueId", uniqueID)
	a.callbacks.FollowerRemoved(a.ctx, t, uniqueID)
}

func (c *controller) fieldChanged(a *attachment, key followerKey, snap tree.Snapshot) {
	if !a.live() {
		return
	}
	ctx := a.ctx

	switch snap.Key {
	case _fieldScreenshot:
		if key.t == entity.FollowerWeb && snap.Exists() {
			c.fetchScreenshot(a, key.uid)
		}
		return
	case _fieldResponse:
		env, err := mapper.RawToEnvelope(snap.Key, snap.Value)
		if err != nil {
			c.logger.Debugw("skipping follower response", "uniqueId", key.uid, "error", err)
			return
		}
		a.callbacks.FollowerResponse(ctx, key.t, key.uid, env)
		return
	}

	var apply func(*entity.Follower)
	switch snap.Key {
	case _fieldName:
		var name string
		if snap.Decode(&name) != nil {
			return
		}
		apply = func(f *entity.Follower) { f.Name = name }
	case _fieldTasks:
		tasks := mapper.EntriesToTasks(mapper.RawToTaskEntries(snap.Value))
		apply = func(f *entity.Follower) { f.Tasks = tasks }
	case _fieldCurrentPackage:
		var pkg string
		if snap.Decode(&pkg) != nil {
			return
		}
		apply = func(f *entity.Follower) { f.SetCurrentApplication(pkg) }
	case _fieldAction, _fieldSource:
		var v string
		if snap.Decode(&v) != nil {
			return
		}
		field := snap.Key
		apply = func(f *entity.Follower) {
			if f.Mobile == nil {
				return
			}
			if field == _fieldAction {
				f.Mobile.Action = v
			} else {
				f.Mobile.Source = v
			}
		}
	case _fieldApplications:
		apps := mapper.RawToApplications(snap.Value)
		apply = func(f *entity.Follower) {
			if f.Mobile == nil {
				return
			}
			f.Mobile.Applications = apps
			if f.Mobile.CurrentApplication != "" {
				f.SetCurrentApplication(f.Mobile.CurrentApplication)
			}
		}
	case _fieldVideos:
		videos := mapper.RawToVideos(snap.Value)
		apply = func(f *entity.Follower) {
			if f.Mobile != nil {
				f.Mobile.Videos = videos
			}
		}
	default:
		return
	}

	if err := c.roster.Update(ctx, key.t, key.uid, apply); err != nil {
		c.logger.Debugw("dropping field change for unknown follower", "uniqueId", key.uid, "field", snap.Key)
	}
}

// fetchScreenshot downloads the follower's latest screenshot off the loop and stores it on the
// follower as a data URL.
func (c *controller) fetchScreenshot(a *attachment, uniqueID string) {
	object := blob.ScreenshotObject(a.classCode, uniqueID)
	go func() {
		sw := c.stats.Timer("screenshot_fetch").Start()
		data, err := c.blobs.Fetch(a.ctx, object)
		sw.Stop()
		if err != nil {
			if a.ctx.Err() == nil {
				c.stats.Counter("screenshot_fetch_failed").Inc(1)
				c.logger.Warnw("failed to fetch screenshot", "uniqueId", uniqueID, "object", object, "error", err)
			}
			return
		}
		c.loop.Post(func() {
			if !a.live() {
				return
			}
			err := c.roster.Update(a.ctx, entity.FollowerWeb, uniqueID, func(f *entity.Follower) {
				f.Web.ImageBase64 = data
				f.Web.CollectingScreenshotFailed = false
			})
			if err != nil {
				c.logger.Debugw("dropping screenshot for unknown follower", "uniqueId", uniqueID)
			}
		})
	}()
}
