// Package signaling drives the per-follower WebRTC lifecycle used for screen monitoring.
package signaling

import (
	"context"
	"fmt"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	followerclient "github.com/LuminationDev/leadme-classroom/src/leadme/gateway/follower-client"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/peer"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/clock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	"github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=signaling.go -destination=signalingmock/signaling.go -package=signalingmock

const (
	_configKey          = "signaling"
	_defaultSettleDelay = 750 * time.Millisecond
)

// Module provides the conductor factory.
var Module = fx.Provide(NewFactory)

// Factory creates the conductor of a class session.
type Factory interface {
	New(classCode string) Conductor
}

// Conductor owns the peer connections of one class session, one per follower.
// Its methods may be called from any goroutine.
type Conductor interface {
	ClassCode() string
	// SenderID identifies messages this leader writes to the signaling queues.
	SenderID() string
	// CreateNewConnection replaces any connection held for the follower with a fresh idle one.
	CreateNewConnection(ctx context.Context, t entity.FollowerType, uniqueID string) error
	// RequestMonitor asks a follower to share its screen, resetting a connection that is not idle.
	RequestMonitor(ctx context.Context, uniqueID string) error
	// HandlePermissionResponse applies a follower's answer to a monitor request.
	HandlePermissionResponse(ctx context.Context, uniqueID string, message string)
	// HandleSignal applies one entry from the follower's signaling queue.
	HandleSignal(ctx context.Context, uniqueID string, snap tree.Snapshot)
	// StopTracks releases the media of a follower and leaves a fresh idle connection in place.
	StopTracks(ctx context.Context, uniqueID string) error
	// Drop closes and forgets the follower's connection.
	Drop(uniqueID string)
	State(uniqueID string) (entity.MonitorState, bool)
	// Close releases every connection. The conductor is unusable afterwards.
	Close() error
}

// Params are inbound parameters to initialize the factory.
type Params struct {
	fx.In

	Peers     peer.Factory
	Followers followerclient.Gateway
	Roster    roster.Repository
	Loop      eventloop.Loop
	Clock     clock.Clock
	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type settings struct {
	SettleDelay time.Duration `yaml:"settleDelay"`
}

type factory struct {
	p           Params
	settleDelay time.Duration
}

// NewFactory returns a Factory configured from the signaling block.
func NewFactory(p Params) (Factory, error) {
	var s settings
	if err := p.Config.Get(_configKey).Populate(&s); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if s.SettleDelay <= 0 {
		s.SettleDelay = _defaultSettleDelay
	}
	return &factory{p: p, settleDelay: s.SettleDelay}, nil
}

func (f *factory) New(classCode string) Conductor {
	senderID := uuid.Must(uuid.NewV4()).String()
	return &conductor{
		classCode:   classCode,
		senderID:    senderID,
		settleDelay: f.settleDelay,
		peers:       f.p.Peers,
		followers:   f.p.Followers,
		roster:      f.p.Roster,
		loop:        f.p.Loop,
		clock:       f.p.Clock,
		logger:      f.p.Logger.With("classCode", classCode, "senderId", senderID),
		stats:       f.p.Stats.SubScope("signaling"),
		conns:       make(map[string]*connection),
	}
}
