package classroom

import (
	"context"
	"fmt"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
	"github.com/gofrs/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	_collectionClassCode = "classCode"
	_collectionTabs      = "tabs"
	_collectionSignals   = "ice"
)

// _sessionCollections are the subtrees holding an entry per class code.
var _sessionCollections = []string{
	_collectionClassCode,
	entity.FollowerWeb.Collection(),
	entity.FollowerMobile.Collection(),
	_collectionTabs,
	_collectionSignals,
}

type provisionWrite struct {
	collection string
	value      any
}

func (c *controller) GenerateSession(ctx context.Context) (entity.ClassSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return entity.ClassSession{}, &errors.SessionActiveError{ClassCode: c.active.ClassCode}
	}

	code, err := c.allocateCode(ctx)
	if err != nil {
		return entity.ClassSession{}, err
	}
	leaderID, err := uuid.NewV4()
	if err != nil {
		return entity.ClassSession{}, fmt.Errorf("generating leader id: %w", err)
	}
	session := entity.ClassSession{
		ClassCode: code,
		Leader: entity.Leader{
			Name:     c.leader.Name,
			UniqueID: leaderID.String(),
			UserID:   c.leader.UserID,
		},
	}

	if err := c.provision(ctx, session); err != nil {
		c.stats.Counter("provision_failed").Inc(1)
		return entity.ClassSession{}, &errors.ProvisionError{ClassCode: code, Err: err}
	}
	if err := c.activeFile.Save(session); err != nil {
		c.logger.Warnw("could not record the active class", "classCode", code, "error", err)
	}

	c.active = &session
	c.conductor = c.signaling.New(code)
	if err := c.attachLocked(ctx, false); err != nil {
		return session, fmt.Errorf("attaching listeners for class %q: %w", code, err)
	}

	c.stats.Counter("sessions_started").Inc(1)
	c.logger.Infow("class session started", "classCode", code)
	return session, nil
}

// allocateCode draws class codes until one is not in use.
func (c *controller) allocateCode(ctx context.Context) (string, error) {
	for i := 0; i < _maxCodeAttempts; i++ {
		code, err := c.newCode()
		if err != nil {
			return "", err
		}
		snap, err := c.store.Get(ctx, tree.Join(_collectionClassCode, code))
		if err != nil {
			return "", fmt.Errorf("checking class code %q: %w", code, err)
		}
		if !snap.Exists() {
			return code, nil
		}
		c.logger.Debugw("class code already in use", "classCode", code)
	}
	return "", fmt.Errorf("no free class code after %d attempts", _maxCodeAttempts)
}

// provision issues the session's initial writes concurrently and waits for all of them, bounded
// by the provisioning timeout.
func (c *controller) provision(ctx context.Context, s entity.ClassSession) error {
	defer c.stats.Timer("provision").Start().Stop()

	ctx, cancel := context.WithTimeout(ctx, c.session.ProvisionTimeout)
	defer cancel()

	writes := []provisionWrite{
		{_collectionClassCode, mapper.ClassSessionToRecord(s)},
		{entity.FollowerWeb.Collection(), model.AwaitingFollower},
		{entity.FollowerMobile.Collection(), model.AwaitingFollower},
		{_collectionTabs, map[string]any{}},
		{_collectionSignals, mapper.SignalPlaceholder()},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range writes {
		w := w
		g.Go(func() error {
			if err := c.store.Update(gctx, w.collection, map[string]any{s.ClassCode: w.value}); err != nil {
				return fmt.Errorf("writing %s: %w", w.collection, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *controller) AttachClassListeners(ctx context.Context, rehydrate bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attachLocked(ctx, rehydrate)
}

func (c *controller) attachLocked(ctx context.Context, rehydrate bool) error {
	if c.active == nil {
		c.logger.Debugw("no class session, not attaching listeners")
		return nil
	}
	if c.attached {
		return nil
	}
	code := c.active.ClassCode
	if c.conductor == nil {
		c.conductor = c.signaling.New(code)
	}

	if rehydrate {
		n, err := c.rosterSync.Rehydrate(ctx, code)
		if err != nil {
			return fmt.Errorf("reloading followers: %w", err)
		}
		if c.session.RehydrateTabs {
			if _, err := c.tabs.Rehydrate(ctx, code); err != nil {
				return fmt.Errorf("reloading tabs: %w", err)
			}
		}
		c.logger.Infow("reloaded followers", "classCode", code, "followers", n)
	}

	cb := &callbacks{controller: c, classCode: code, conductor: c.conductor}
	if err := c.rosterSync.Attach(ctx, code, cb); err != nil {
		return err
	}
	if err := c.tabs.Attach(ctx, code); err != nil {
		c.rosterSync.Detach(ctx, code)
		return err
	}
	c.attached = true
	return nil
}

func (c *controller) EndSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return &errors.NoActiveSessionError{}
	}
	code := c.active.ClassCode

	for _, t := range entity.FollowerTypes {
		c.dispatched(entity.ActionEndSession, "", c.followers.Broadcast(ctx, code, t, entity.Envelope{Type: entity.ActionEndSession}))
	}

	err := c.detachLocked(ctx)
	for _, collection := range _sessionCollections {
		if rerr := c.store.Remove(ctx, tree.Join(collection, code)); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("removing %s: %w", collection, rerr))
		}
	}
	for _, prefix := range blob.ScreenshotPrefixes(code) {
		if _, derr := c.blobs.DeletePrefix(ctx, prefix); derr != nil {
			err = multierr.Append(err, fmt.Errorf("deleting screenshots: %w", derr))
		}
	}
	err = multierr.Append(err, c.roster.Clear(ctx))
	err = multierr.Append(err, c.activeFile.Clear())

	c.active = nil
	c.stats.Counter("sessions_ended").Inc(1)
	c.logger.Infow("class session ended", "classCode", code, "error", err)
	return err
}

// detachLocked cancels every listener of the active session and closes its conductor.
func (c *controller) detachLocked(ctx context.Context) error {
	if c.active != nil && c.attached {
		c.rosterSync.Detach(ctx, c.active.ClassCode)
		c.tabs.Detach(ctx, c.active.ClassCode)
		c.attached = false
	}
	c.icons.Wait()

	var err error
	if c.conductor != nil {
		err = c.conductor.Close()
		c.conductor = nil
	}
	return err
}

// release stops listening without removing the remote session, so it can be resumed.
func (c *controller) release(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detachLocked(ctx)
}

func (c *controller) Restore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return true, nil
	}
	session, ok, err := c.activeFile.Load()
	if err != nil {
		return false, fmt.Errorf("loading active class: %w", err)
	}
	if !ok {
		return false, nil
	}

	snap, err := c.store.Get(ctx, tree.Join(_collectionClassCode, session.ClassCode))
	if err != nil {
		return false, fmt.Errorf("checking class %q: %w", session.ClassCode, err)
	}
	if !snap.Exists() {
		c.logger.Infow("recorded class session no longer exists", "classCode", session.ClassCode)
		return false, c.activeFile.Clear()
	}

	c.active = &session
	c.conductor = c.signaling.New(session.ClassCode)
	if err := c.attachLocked(ctx, true); err != nil {
		return true, fmt.Errorf("resuming class %q: %w", session.ClassCode, err)
	}
	c.stats.Counter("sessions_resumed").Inc(1)
	c.logger.Infow("class session resumed", "classCode", session.ClassCode)
	return true, nil
}

func (c *controller) Current(ctx context.Context) (entity.ClassSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return entity.ClassSession{}, false
	}
	return *c.active, true
}

func (c *controller) Followers(ctx context.Context, t entity.FollowerType) ([]*entity.Follower, error) {
	if !t.Valid() {
		return nil, errors.UnknownFollowerTypeError
	}
	return c.roster.List(ctx, t)
}
