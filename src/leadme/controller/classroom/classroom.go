// Package classroom implements the class session lifecycle and the leader's actions.
package classroom

import (
	"context"
	"fmt"
	"sync"
	"time"

	rostersync "github.com/LuminationDev/leadme-classroom/src/leadme/controller/roster"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/signaling"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/tabs"
	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	followerclient "github.com/LuminationDev/leadme-classroom/src/leadme/gateway/follower-client"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/activeclass"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=classroom.go -destination=classroommock/classroom.go -package=classroommock

const (
	// Configuration keys
	_configKeySession = "session"
	_configKeyLeader  = "leader"

	_defaultProvisionTimeout = 10 * time.Second
	_maxCodeAttempts         = 5
)

// Controller runs the active class session.
type Controller interface {
	// Session lifecycle.
	GenerateSession(ctx context.Context) (entity.ClassSession, error)
	AttachClassListeners(ctx context.Context, rehydrate bool) error
	EndSession(ctx context.Context) error
	// Restore resumes the session recorded in the active class file, if it is still provisioned.
	Restore(ctx context.Context) (bool, error)
	Current(ctx context.Context) (entity.ClassSession, bool)
	Followers(ctx context.Context, t entity.FollowerType) ([]*entity.Follower, error)

	// Follower requests.
	RequestAction(ctx context.Context, t entity.FollowerType, env entity.Envelope) error
	RequestIndividualAction(ctx context.Context, t entity.FollowerType, uniqueID string, env entity.Envelope) error
	EndIndividualSession(ctx context.Context, t entity.FollowerType, uniqueID string) error
	RenameFollower(ctx context.Context, t entity.FollowerType, uniqueID string, name string) error
	RemoveFollower(ctx context.Context, t entity.FollowerType, uniqueID string) error
	LockScreens(ctx context.Context, t entity.FollowerType, uniqueID string, lock bool) error
	// MuteSound mutes or unmutes a follower. A nil mute mutes.
	MuteSound(ctx context.Context, t entity.FollowerType, uniqueID string, mute *bool) error

	// Tab requests, web followers only.
	RequestDeleteFollowerTab(ctx context.Context, uniqueID string, tabID string) error
	RequestUpdateMutingTab(ctx context.Context, uniqueID string, tabID string, mute bool) error
	RequestActiveTab(ctx context.Context, uniqueID string, tabID string) error
	LaunchWebsite(ctx context.Context, link string) error
	LaunchWebsiteIndividual(ctx context.Context, uniqueID string, link string) error

	// Content sharing. An empty uniqueIDs shares with every connected follower.
	ShareTasks(ctx context.Context, tasks []entity.Task, uniqueIDs []string) (int, error)
	ShareWebsite(ctx context.Context, link string, uniqueIDs []string) (int, error)
	CollectUniqueApplications(ctx context.Context) ([]entity.Application, error)
	CollectUniqueVideos(ctx context.Context) ([]entity.Video, error)

	// Screen monitoring.
	RequestMonitor(ctx context.Context, uniqueID string) error
	StopMonitoring(ctx context.Context, t entity.FollowerType, uniqueID string) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     config.Provider
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Store      tree.Store
	Blobs      blob.Store
	Followers  followerclient.Gateway
	Roster     roster.Repository
	ActiveFile activeclass.File

	RosterSync rostersync.Controller
	Tabs       tabs.Controller
	Signaling  signaling.Factory
}

type sessionConfig struct {
	ProvisionTimeout time.Duration `yaml:"provisionTimeout"`
	RehydrateTabs    bool          `yaml:"rehydrateTabs"`
}

type leaderConfig struct {
	Name   string `yaml:"name"`
	UserID string `yaml:"userId"`
}

type controller struct {
	store      tree.Store
	blobs      blob.Store
	followers  followerclient.Gateway
	roster     roster.Repository
	activeFile activeclass.File
	rosterSync rostersync.Controller
	tabs       tabs.Controller
	signaling  signaling.Factory
	logger     *zap.SugaredLogger
	stats      tally.Scope

	session sessionConfig
	leader  leaderConfig
	newCode func() (string, error)

	// mu guards the fields below. It is held for the whole of a lifecycle operation.
	mu        sync.Mutex
	active    *entity.ClassSession
	conductor signaling.Conductor
	attached  bool
	icons     sync.WaitGroup
}

// New creates the classroom controller. A session recorded in the active class file is resumed
// when the application starts.
func New(p Params) (Controller, error) {
	c := &controller{
		store:      p.Store,
		blobs:      p.Blobs,
		followers:  p.Followers,
		roster:     p.Roster,
		activeFile: p.ActiveFile,
		rosterSync: p.RosterSync,
		tabs:       p.Tabs,
		signaling:  p.Signaling,
		logger:     p.Logger.With("controller", "classroom"),
		stats:      p.Stats.SubScope("classroom"),
		newCode:    func() (string, error) { return entity.GenerateClassCode(nil) },
	}
	if err := p.Config.Get(_configKeySession).Populate(&c.session); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeySession, err)
	}
	if c.session.ProvisionTimeout <= 0 {
		c.session.ProvisionTimeout = _defaultProvisionTimeout
	}
	if err := p.Config.Get(_configKeyLeader).Populate(&c.leader); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyLeader, err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := c.Restore(ctx); err != nil {
				c.logger.Warnw("could not resume the previous class session", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return c.release(ctx)
		},
	})
	return c, nil
}

// classCode returns the active class code and the session's conductor.
func (c *controller) classCode() (string, signaling.Conductor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", nil, &errors.NoActiveSessionError{}
	}
	return c.active.ClassCode, c.conductor, nil
}

// activeConductor returns the conductor of the active session. Once listeners are released on
// stop the session has no conductor and is treated as inactive.
func (c *controller) activeConductor() (signaling.Conductor, error) {
	_, conductor, err := c.classCode()
	if err != nil {
		return nil, err
	}
	if conductor == nil {
		return nil, &errors.NoActiveSessionError{}
	}
	return conductor, nil
}

// dispatched records the outcome of a request written for followers. Write failures are logged
// and counted but not returned.
func (c *controller) dispatched(action entity.ActionType, uniqueID string, err error) {
	if err == nil {
		return
	}
	c.stats.Counter("dispatch_failed").Inc(1)
	c.logger.Warnw("failed to send follower request", "action", action, "uniqueId", uniqueID, "error", err)
}

func validate(t entity.FollowerType, env entity.Envelope) error {
	if !t.Valid() {
		return errors.UnknownFollowerTypeError
	}
	if !env.Type.Known() {
		return fmt.Errorf("%w %q", errors.UnknownActionError, env.Type)
	}
	return nil
}
