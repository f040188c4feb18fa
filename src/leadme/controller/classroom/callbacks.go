package classroom

import (
	"context"
	"strings"

	rostersync "github.com/LuminationDev/leadme-classroom/src/leadme/controller/roster"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/signaling"
	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
)

const _iconSeparator = ":"

// callbacks react to roster events of one attached session.
type callbacks struct {
	controller *controller
	classCode  string
	conductor  signaling.Conductor
}

var _ rostersync.Callbacks = (*callbacks)(nil)

func (cb *callbacks) FollowerAdded(ctx context.Context, f *entity.Follower) {
	c := cb.controller
	if err := cb.conductor.CreateNewConnection(ctx, f.Type, f.UniqueID); err != nil {
		c.stats.Counter("connection_failed").Inc(1)
		c.logger.Warnw("could not prepare a connection for follower", "uniqueId", f.UniqueID, "error", err)
	}

	switch f.Type {
	case entity.FollowerWeb:
		cb.controller.tabs.Adopt(ctx, cb.classCode, f.UniqueID)
	case entity.FollowerMobile:
		cb.requestIcons(ctx, f)
	}
	c.logger.Infow("follower joined", "type", f.Type, "uniqueId", f.UniqueID, "name", f.Name)
}

func (cb *callbacks) FollowerRemoved(ctx context.Context, t entity.FollowerType, uniqueID string) {
	cb.conductor.Drop(uniqueID)
	cb.controller.logger.Infow("follower left", "type", t, "uniqueId", uniqueID)
}

func (cb *callbacks) FollowerResponse(ctx context.Context, t entity.FollowerType, uniqueID string, env entity.Envelope) {
	c := cb.controller
	switch env.Type {
	case entity.ActionMonitorPermission:
		cb.conductor.HandlePermissionResponse(ctx, uniqueID, env.Message)
	case entity.ActionCaptureFailed:
		err := c.roster.Update(ctx, t, uniqueID, func(f *entity.Follower) {
			if f.Web != nil {
				f.Web.CollectingScreenshotFailed = true
			}
		})
		if err != nil {
			c.logger.Debugw("capture failure for unknown follower", "uniqueId", uniqueID, "error", err)
		}
	default:
		c.logger.Debugw("ignoring follower response", "type", t, "uniqueId", uniqueID, "action", env.Type)
	}
}

func (cb *callbacks) Signal(ctx context.Context, uniqueID string, snap tree.Snapshot) {
	cb.conductor.HandleSignal(ctx, uniqueID, snap)
}

// requestIcons asks a mobile follower to upload the icons of its applications that are missing
// from the blob store. Blob lookups run off the event loop.
func (cb *callbacks) requestIcons(ctx context.Context, f *entity.Follower) {
	if f.Mobile == nil || len(f.Mobile.Applications) == 0 {
		return
	}
	packages := make([]string, 0, len(f.Mobile.Applications))
	for _, app := range f.Mobile.Applications {
		if app.PackageName != "" {
			packages = append(packages, app.PackageName)
		}
	}

	c := cb.controller
	c.icons.Add(1)
	go func() {
		defer c.icons.Done()

		var missing []string
		for _, pkg := range packages {
			ok, err := c.blobs.Exists(ctx, blob.AppIconObject(pkg))
			if err != nil {
				c.logger.Debugw("could not check application icon", "package", pkg, "error", err)
				continue
			}
			if !ok {
				missing = append(missing, pkg)
			}
		}
		if len(missing) == 0 {
			return
		}
		env := entity.Envelope{Type: entity.ActionUploadIcons, Action: strings.Join(missing, _iconSeparator)}
		c.dispatched(env.Type, f.UniqueID, c.followers.Send(ctx, cb.classCode, entity.FollowerMobile, f.UniqueID, env))
	}()
}
