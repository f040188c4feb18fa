// Package followerclient sends requests to followers through the session tree.
package followerclient

import (
	"context"
	"fmt"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/transient"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=follower_client.go -destination=followerclientmock/follower_client.go -package=followerclientmock

const (
	_errSendToFollower = "sending %s to %s followers: %w"
	_errUnknownAction  = "%w %q"

	_requestChannel = "request"
)

// Module provides the follower gateway.
var Module = fx.Provide(New)

// Gateway is used to send requests to followers of a class session. Every message is pushed and
// deleted right away, so only followers listening at the time observe it.
type Gateway interface {
	// Broadcast sends env to every follower of type t.
	Broadcast(ctx context.Context, classCode string, t entity.FollowerType, env entity.Envelope) error
	// Send sends env to a single follower.
	Send(ctx context.Context, classCode string, t entity.FollowerType, uniqueID string, env entity.Envelope) error
	// UpdateFollower writes only the given fields of a follower entry.
	UpdateFollower(ctx context.Context, classCode string, t entity.FollowerType, uniqueID string, fields map[string]any) error
	// SendSignal queues a signaling message for the connection with a follower.
	SendSignal(ctx context.Context, classCode string, uniqueID string, rec model.SignalRecord) error
}

// Params are inbound parameters to initialize a new gateway.
type Params struct {
	fx.In

	Store  tree.Store
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type gateway struct {
	store  tree.Store
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// New returns a Gateway for sending follower requests.
func New(p Params) Gateway {
	return &gateway{
		store:  p.Store,
		logger: p.Logger.With("gateway", "follower-client"),
		stats:  p.Stats.SubScope("follower_client"),
	}
}

func (g *gateway) Broadcast(ctx context.Context, classCode string, t entity.FollowerType, env entity.Envelope) error {
	if err := validate(classCode, t, env); err != nil {
		return err
	}
	path := tree.Join("classCode", classCode, _requestChannel, t.BroadcastChannel())
	return g.enqueue(ctx, path, t, env.Type, env)
}

func (g *gateway) Send(ctx context.Context, classCode string, t entity.FollowerType, uniqueID string, env entity.Envelope) error {
	if err := validate(classCode, t, env); err != nil {
		return err
	}
	if uniqueID == "" {
		return errors.NoFollowerIDError
	}
	path := tree.Join(t.Collection(), classCode, uniqueID, _requestChannel)
	return g.enqueue(ctx, path, t, env.Type, env)
}

func (g *gateway) UpdateFollower(ctx context.Context, classCode string, t entity.FollowerType, uniqueID string, fields map[string]any) error {
	if classCode == "" {
		return errors.NoClassCodeError
	}
	if !t.Valid() {
		return errors.UnknownFollowerTypeError
	}
	if uniqueID == "" {
		return errors.NoFollowerIDError
	}
	if err := g.store.Update(ctx, tree.Join(t.Collection(), classCode, uniqueID), fields); err != nil {
		g.stats.Counter("send_failed").Inc(1)
		return fmt.Errorf(_errSendToFollower, "update", t, err)
	}
	g.stats.Counter("updates").Inc(1)
	return nil
}

func (g *gateway) SendSignal(ctx context.Context, classCode string, uniqueID string, rec model.SignalRecord) error {
	if classCode == "" {
		return errors.NoClassCodeError
	}
	if uniqueID == "" {
		return errors.NoFollowerIDError
	}
	q := transient.New(g.store, tree.Join("ice", classCode, uniqueID), g.logger)
	if err := q.Enqueue(ctx, rec); err != nil {
		g.stats.Counter("send_failed").Inc(1)
		return fmt.Errorf(_errSendToFollower, "signal", uniqueID, err)
	}
	g.stats.Counter("signals").Inc(1)
	return nil
}

func (g *gateway) enqueue(ctx context.Context, path string, t entity.FollowerType, action entity.ActionType, env entity.Envelope) error {
	q := transient.New(g.store, path, g.logger)
	if err := q.Enqueue(ctx, env); err != nil {
		g.stats.Counter("send_failed").Inc(1)
		return fmt.Errorf(_errSendToFollower, action, t, err)
	}
	g.stats.Tagged(map[string]string{"action": string(action)}).Counter("requests").Inc(1)
	return nil
}

func validate(classCode string, t entity.FollowerType, env entity.Envelope) error {
	if classCode == "" {
		return errors.NoClassCodeError
	}
	if !t.Valid() {
		return errors.UnknownFollowerTypeError
	}
	if !env.Type.Known() {
		return fmt.Errorf(_errUnknownAction, errors.UnknownActionError, env.Type)
	}
	return nil
}
