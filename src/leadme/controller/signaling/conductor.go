package signaling

import (
	"context"
	stderr "errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	followerclient "github.com/LuminationDev/leadme-classroom/src/leadme/gateway/follower-client"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/peer"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/clock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _errConnection = "creating connection for %q: %w"

// ErrClosed is returned by operations on a closed conductor.
var ErrClosed = stderr.New("signaling conductor is closed")

type connection struct {
	uniqueID     string
	followerType entity.FollowerType
	pc           peer.PeerConnection
	state        entity.MonitorState
	tracks       []peer.Track
	remoteSet    bool
	answered     bool
	pendingICE   []entity.ICECandidate
	settle       clock.Timer
}

type conductor struct {
	classCode   string
	senderID    string
	settleDelay time.Duration
	peers       peer.Factory
	followers   followerclient.Gateway
	roster      roster.Repository
	loop        eventloop.Loop
	clock       clock.Clock
	logger      *zap.SugaredLogger
	stats       tally.Scope

	// mu guards conns and closed. Tasks are never posted to the loop while it is held.
	mu     sync.Mutex
	conns  map[string]*connection
	closed bool
}

func (c *conductor) ClassCode() string { return c.classCode }

func (c *conductor) SenderID() string { return c.senderID }

func (c *conductor) CreateNewConnection(ctx context.Context, t entity.FollowerType, uniqueID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if old, ok := c.conns[uniqueID]; ok {
		if err := c.teardown(old); err != nil {
			c.logger.Warnw("failed to release previous connection", "uniqueId", uniqueID, "error", err)
		}
		delete(c.conns, uniqueID)
	}

	conn, err := c.newConnection(uniqueID, t)
	if err != nil {
		c.updateGauge()
		return err
	}
	c.conns[uniqueID] = conn
	c.updateGauge()
	return nil
}

func (c *conductor) RequestMonitor(ctx context.Context, uniqueID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	conn, ok := c.conns[uniqueID]
	if !ok {
		c.mu.Unlock()
		return &errors.FollowerNotFoundError{ID: uniqueID}
	}
	if conn.state != entity.MonitorIdle {
		next, err := c.reset(conn)
		if next == nil {
			c.mu.Unlock()
			return err
		}
		if err != nil {
			c.logger.Warnw("failed to release previous connection", "uniqueId", uniqueID, "error", err)
		}
		conn = next
	}
	conn.state = entity.MonitorRequesting
	t := conn.followerType
	c.mu.Unlock()

	c.setPermission(ctx, t, uniqueID, entity.PermissionRequesting)
	return c.followers.Send(ctx, c.classCode, t, uniqueID, entity.Envelope{Type: entity.ActionMonitorPermission})
}

func (c *conductor) HandlePermissionResponse(ctx context.Context, uniqueID string, message string) {
	switch message {
	case entity.ResponseGranted:
		c.granted(ctx, uniqueID)
	case entity.ResponseDenied:
		c.finish(ctx, uniqueID, entity.MonitorDenied, entity.PermissionDenied)
	case entity.ResponseStopped:
		c.finish(ctx, uniqueID, entity.MonitorStopped, entity.PermissionStopped)
	default:
		c.logger.Warnw("ignoring unknown permission response", "uniqueId", uniqueID, "message", message)
	}
}

// granted moves a requesting connection to connecting and sends the offer. The permission flag
// only reads granted once the settle delay has passed.
func (c *conductor) granted(ctx context.Context, uniqueID string) {
	c.mu.Lock()
	conn, ok := c.conns[uniqueID]
	if c.closed || !ok || conn.state != entity.MonitorRequesting {
		c.mu.Unlock()
		c.logger.Infow("ignoring permission grant without a pending request", "uniqueId", uniqueID)
		return
	}
	conn.state = entity.MonitorConnecting
	t := conn.followerType

	offer, err := conn.pc.CreateOffer(ctx)
	if err == nil {
		err = conn.pc.SetLocalDescription(offer)
	}
	if err != nil {
		conn.state = entity.MonitorIdle
		c.mu.Unlock()
		c.stats.Counter("negotiation_failed").Inc(1)
		c.logger.Warnw("failed to create monitoring offer", "uniqueId", uniqueID, "error", err)
		c.setPermission(ctx, t, uniqueID, entity.PermissionNone)
		return
	}
	c.mu.Unlock()

	c.setPermission(ctx, t, uniqueID, entity.PermissionConnecting)
	c.sendSignal(ctx, uniqueID, entity.Signal{Sender: c.senderID, SDP: &offer})

	timer := c.clock.AfterFunc(c.settleDelay, func() {
		c.loop.Post(func() { c.settled(conn) })
	})
	c.mu.Lock()
	if c.isCurrent(conn) {
		conn.settle = timer
	} else {
		timer.Stop()
	}
	c.mu.Unlock()
}

func (c *conductor) settled(conn *connection) {
	c.mu.Lock()
	if !c.isCurrent(conn) || (conn.state != entity.MonitorConnecting && conn.state != entity.MonitorStreaming) {
		c.mu.Unlock()
		return
	}
	conn.settle = nil
	t := conn.followerType
	c.mu.Unlock()

	c.setPermission(context.Background(), t, conn.uniqueID, entity.PermissionGranted)
}

// finish records a terminal answer. Media already flowing is released.
func (c *conductor) finish(ctx context.Context, uniqueID string, state entity.MonitorState, p entity.Permission) {
	c.mu.Lock()
	conn, ok := c.conns[uniqueID]
	if c.closed || !ok || conn.state == entity.MonitorIdle {
		c.mu.Unlock()
		c.logger.Infow("ignoring permission response without a pending request", "uniqueId", uniqueID, "state", state)
		return
	}
	if conn.state == entity.MonitorConnecting || conn.state == entity.MonitorStreaming {
		next, err := c.reset(conn)
		if err != nil {
			c.logger.Warnw("failed to release monitoring connection", "uniqueId", uniqueID, "error", err)
		}
		if next == nil {
			c.mu.Unlock()
			return
		}
		conn = next
	}
	conn.state = state
	t := conn.followerType
	c.mu.Unlock()

	c.setPermission(ctx, t, uniqueID, p)
}

func (c *conductor) HandleSignal(ctx context.Context, uniqueID string, snap tree.Snapshot) {
	sig, err := mapper.SnapshotToSignal(snap)
	if stderr.Is(err, mapper.ErrPlaceholderSignal) {
		return
	}
	if err != nil {
		c.logger.Warnw("dropping malformed signal", "uniqueId", uniqueID, "error", err)
		return
	}
	if sig.Sender == c.senderID {
		c.stats.Counter("echoes_discarded").Inc(1)
		return
	}
	c.stats.Counter("signals_received").Inc(1)

	c.mu.Lock()
	conn, ok := c.conns[uniqueID]
	if c.closed || !ok {
		c.mu.Unlock()
		c.logger.Debugw("dropping signal for unknown connection", "uniqueId", uniqueID)
		return
	}

	var reply *entity.SessionDescription
	switch {
	case sig.ICE != nil:
		err = c.addCandidate(conn, *sig.ICE)
	case sig.SDP.Type == entity.SDPOffer:
		reply, err = c.answer(ctx, conn, *sig.SDP)
	case sig.SDP.Type == entity.SDPAnswer:
		err = c.acceptAnswer(conn, *sig.SDP)
	}
	c.mu.Unlock()

	if err != nil {
		c.stats.Counter("negotiation_failed").Inc(1)
		c.logger.Warnw("failed to apply signal", "uniqueId", uniqueID, "error", err)
		return
	}
	if reply != nil {
		c.sendSignal(ctx, uniqueID, entity.Signal{Sender: c.senderID, SDP: reply})
	}
}

// addCandidate applies a remote candidate, holding it back until a remote description is set.
func (c *conductor) addCandidate(conn *connection, cand entity.ICECandidate) error {
	if !conn.remoteSet {
		conn.pendingICE = append(conn.pendingICE, cand)
		return nil
	}
	return conn.pc.AddICECandidate(cand)
}

func (c *conductor) setRemote(conn *connection, desc entity.SessionDescription) error {
	if err := conn.pc.SetRemoteDescription(desc); err != nil {
		return fmt.Errorf("setting remote %s: %w", desc.Type, err)
	}
	conn.remoteSet = true

	var errs error
	for _, cand := range conn.pendingICE {
		errs = multierr.Append(errs, conn.pc.AddICECandidate(cand))
	}
	conn.pendingICE = nil
	return errs
}

func (c *conductor) answer(ctx context.Context, conn *connection, offer entity.SessionDescription) (*entity.SessionDescription, error) {
	if err := c.setRemote(conn, offer); err != nil {
		return nil, err
	}
	answer, err := conn.pc.CreateAnswer(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating answer: %w", err)
	}
	if err := conn.pc.SetLocalDescription(answer); err != nil {
		return nil, fmt.Errorf("setting local answer: %w", err)
	}
	return &answer, nil
}

func (c *conductor) acceptAnswer(conn *connection, answer entity.SessionDescription) error {
	if err := c.setRemote(conn, answer); err != nil {
		return err
	}
	conn.answered = true
	c.promote(conn)
	return nil
}

// promote marks a connecting connection as streaming once the answer is applied and media arrived.
func (c *conductor) promote(conn *connection) {
	if conn.state == entity.MonitorConnecting && conn.answered && len(conn.tracks) > 0 {
		conn.state = entity.MonitorStreaming
		c.logger.Infow("follower stream started", "uniqueId", conn.uniqueID)
	}
}

func (c *conductor) attachTrack(conn *connection, track peer.Track) {
	c.mu.Lock()
	if !c.isCurrent(conn) {
		c.mu.Unlock()
		if err := track.Stop(); err != nil {
			c.logger.Warnw("failed to stop stale track", "uniqueId", conn.uniqueID, "error", err)
		}
		return
	}
	conn.tracks = append(conn.tracks, track)
	c.promote(conn)
	c.mu.Unlock()
}

func (c *conductor) StopTracks(ctx context.Context, uniqueID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	conn, ok := c.conns[uniqueID]
	if !ok {
		c.mu.Unlock()
		return &errors.FollowerNotFoundError{ID: uniqueID}
	}
	t := conn.followerType
	_, err := c.reset(conn)
	c.mu.Unlock()

	c.setPermission(ctx, t, uniqueID, entity.PermissionNone)
	return err
}

func (c *conductor) Drop(uniqueID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.conns[uniqueID]
	if !ok {
		return
	}
	delete(c.conns, uniqueID)
	c.updateGauge()
	if err := c.teardown(conn); err != nil {
		c.logger.Warnw("failed to close connection", "uniqueId", uniqueID, "error", err)
	}
}

func (c *conductor) State(uniqueID string) (entity.MonitorState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.conns[uniqueID]
	if !ok {
		return entity.MonitorIdle, false
	}
	return conn.state, true
}

func (c *conductor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs error
	for _, uid := range sortedIDs(c.conns) {
		errs = multierr.Append(errs, c.teardown(c.conns[uid]))
	}
	c.conns = make(map[string]*connection)
	c.updateGauge()
	return errs
}

// newConnection creates an idle connection whose callbacks are routed through the event loop.
func (c *conductor) newConnection(uniqueID string, t entity.FollowerType) (*connection, error) {
	conn := &connection{uniqueID: uniqueID, followerType: t}
	pc, err := c.peers.New(uniqueID, func(cand entity.ICECandidate) {
		c.loop.Post(func() { c.sendCandidate(conn, cand) })
	})
	if err != nil {
		return nil, fmt.Errorf(_errConnection, uniqueID, err)
	}
	pc.OnTrack(func(track peer.Track) {
		c.loop.Post(func() { c.attachTrack(conn, track) })
	})
	conn.pc = pc
	return conn, nil
}

// reset replaces conn with a fresh idle connection for the same follower. It returns nil when
// no replacement could be created, in which case the follower no longer has a connection.
func (c *conductor) reset(conn *connection) (*connection, error) {
	err := c.teardown(conn)
	next, nerr := c.newConnection(conn.uniqueID, conn.followerType)
	if nerr != nil {
		delete(c.conns, conn.uniqueID)
		c.updateGauge()
		return nil, multierr.Append(err, nerr)
	}
	c.conns[conn.uniqueID] = next
	return next, err
}

func (c *conductor) teardown(conn *connection) error {
	if conn.settle != nil {
		conn.settle.Stop()
		conn.settle = nil
	}
	var errs error
	for _, track := range conn.tracks {
		errs = multierr.Append(errs, track.Stop())
	}
	conn.tracks = nil
	if conn.pc != nil {
		errs = multierr.Append(errs, conn.pc.Close())
	}
	return errs
}

// isCurrent reports whether conn is still the live connection of its follower. Callers hold c.mu.
func (c *conductor) isCurrent(conn *connection) bool {
	return !c.closed && c.conns[conn.uniqueID] == conn
}

func (c *conductor) sendCandidate(conn *connection, cand entity.ICECandidate) {
	c.mu.Lock()
	current := c.isCurrent(conn)
	c.mu.Unlock()
	if !current {
		return
	}
	c.sendSignal(context.Background(), conn.uniqueID, entity.Signal{Sender: c.senderID, ICE: &cand})
}

func (c *conductor) sendSignal(ctx context.Context, uniqueID string, sig entity.Signal) {
	rec, err := mapper.SignalToRecord(sig)
	if err != nil {
		c.logger.Warnw("failed to encode signal", "uniqueId", uniqueID, "error", err)
		return
	}
	if err := c.followers.SendSignal(ctx, c.classCode, uniqueID, rec); err != nil {
		c.logger.Warnw("failed to send signal", "uniqueId", uniqueID, "error", err)
		return
	}
	c.stats.Counter("signals_sent").Inc(1)
}

func (c *conductor) setPermission(ctx context.Context, t entity.FollowerType, uniqueID string, p entity.Permission) {
	monitoring := p == entity.PermissionRequesting || p == entity.PermissionConnecting || p == entity.PermissionGranted
	err := c.roster.Update(ctx, t, uniqueID, func(f *entity.Follower) {
		f.SetPermission(p)
		if f.Web != nil {
			f.Web.Monitoring = monitoring
		}
	})
	if err != nil {
		c.logger.Debugw("permission not recorded", "uniqueId", uniqueID, "permission", p, "error", err)
	}
}

func (c *conductor) updateGauge() {
	c.stats.Gauge("connections").Update(float64(len(c.conns)))
}

func sortedIDs(conns map[string]*connection) []string {
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
