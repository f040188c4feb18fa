package peer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media/ivfwriter"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config configures peer connections.
type Config struct {
	ICEServers []string `yaml:"iceServers"`
	// RecordDir, when set, receives an IVF recording of every VP8 track.
	RecordDir string `yaml:"recordDir"`
}

type pionFactory struct {
	api       *webrtc.API
	config    webrtc.Configuration
	recordDir string
	logger    *zap.SugaredLogger
}

// NewFactory builds a pion-backed Factory.
func NewFactory(cfg Config, logger *zap.SugaredLogger) (Factory, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("registering codecs: %w", err)
	}

	var servers []webrtc.ICEServer
	if len(cfg.ICEServers) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: cfg.ICEServers})
	}

	if cfg.RecordDir != "" {
		if err := os.MkdirAll(cfg.RecordDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("creating record directory: %w", err)
		}
	}

	return &pionFactory{
		api:       webrtc.NewAPI(webrtc.WithMediaEngine(m)),
		config:    webrtc.Configuration{ICEServers: servers},
		recordDir: cfg.RecordDir,
		logger:    logger,
	}, nil
}

func (f *pionFactory) New(label string, onICE func(entity.ICECandidate)) (PeerConnection, error) {
	pc, err := f.api.NewPeerConnection(f.config)
	if err != nil {
		return nil, fmt.Errorf("creating peer connection: %w", err)
	}

	c := &connection{
		pc:        pc,
		label:     label,
		recordDir: f.recordDir,
		logger:    f.logger.With("follower", label),
	}

	pc.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil || onICE == nil {
			return
		}
		onICE(candidateFromPion(candidate.ToJSON()))
	})
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		c.logger.Debugw("peer connection state changed", "state", state.String())
	})
	pc.OnTrack(c.handleTrack)

	return c, nil
}

type connection struct {
	pc        *webrtc.PeerConnection
	label     string
	recordDir string
	logger    *zap.SugaredLogger

	mu      sync.Mutex
	onTrack func(Track)
	tracks  []*remoteTrack
}

func (c *connection) CreateOffer(ctx context.Context) (entity.SessionDescription, error) {
	if len(c.pc.GetTransceivers()) == 0 {
		_, err := c.pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		})
		if err != nil {
			return entity.SessionDescription{}, fmt.Errorf("adding video transceiver: %w", err)
		}
	}
	offer, err := c.pc.CreateOffer(nil)
	if err != nil {
		return entity.SessionDescription{}, err
	}
	return descriptionFromPion(offer), nil
}

func (c *connection) CreateAnswer(ctx context.Context) (entity.SessionDescription, error) {
	answer, err := c.pc.CreateAnswer(nil)
	if err != nil {
		return entity.SessionDescription{}, err
	}
	return descriptionFromPion(answer), nil
}

func (c *connection) SetLocalDescription(desc entity.SessionDescription) error {
	return c.pc.SetLocalDescription(descriptionToPion(desc))
}

func (c *connection) SetRemoteDescription(desc entity.SessionDescription) error {
	return c.pc.SetRemoteDescription(descriptionToPion(desc))
}

func (c *connection) AddICECandidate(candidate entity.ICECandidate) error {
	return c.pc.AddICECandidate(webrtc.ICECandidateInit{
		Candidate:        candidate.Candidate,
		SDPMid:           candidate.SDPMid,
		SDPMLineIndex:    candidate.SDPMLineIndex,
		UsernameFragment: candidate.UsernameFragment,
	})
}

func (c *connection) OnTrack(fn func(Track)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTrack = fn
}

// Close closes the connection and waits for its track readers to exit.
func (c *connection) Close() error {
	err := c.pc.Close()

	c.mu.Lock()
	tracks := c.tracks
	c.tracks = nil
	c.mu.Unlock()

	for _, t := range tracks {
		err = multierr.Append(err, t.Stop())
	}
	return err
}

func (c *connection) handleTrack(remote *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
	t := &remoteTrack{
		remote:   remote,
		receiver: receiver,
		done:     make(chan struct{}),
		logger:   c.logger,
	}

	if c.recordDir != "" && strings.EqualFold(remote.Codec().MimeType, webrtc.MimeTypeVP8) {
		name := filepath.Join(c.recordDir, fmt.Sprintf("%s-%d.ivf", c.label, time.Now().UnixNano()))
		w, err := ivfwriter.New(name)
		if err != nil {
			c.logger.Warnw("recording disabled for track", "track", remote.ID(), "error", err)
		} else {
			t.writer = w
		}
	}

	c.mu.Lock()
	c.tracks = append(c.tracks, t)
	fn := c.onTrack
	c.mu.Unlock()

	go t.drain()
	c.logger.Infow("remote track attached", "track", remote.ID(), "codec", remote.Codec().MimeType)
	if fn != nil {
		fn(t)
	}
}

type remoteTrack struct {
	remote   *webrtc.TrackRemote
	receiver *webrtc.RTPReceiver
	writer   *ivfwriter.IVFWriter
	logger   *zap.SugaredLogger

	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
}

func (t *remoteTrack) ID() string { return t.remote.ID() }

func (t *remoteTrack) Kind() string { return t.remote.Kind().String() }

// Stop halts the receiver and waits for the reader goroutine to finish.
func (t *remoteTrack) Stop() error {
	t.stopOnce.Do(func() {
		t.stopErr = t.receiver.Stop()
		<-t.done
		if t.writer != nil {
			t.stopErr = multierr.Append(t.stopErr, t.writer.Close())
		}
	})
	return t.stopErr
}

// drain reads packets until the receiver stops so the media pipeline never backs up.
func (t *remoteTrack) drain() {
	defer close(t.done)
	for {
		pkt, _, err := t.remote.ReadRTP()
		if err != nil {
			return
		}
		if t.writer != nil {
			if err := t.writer.WriteRTP(pkt); err != nil {
				t.logger.Debugw("dropping packet from recording", "error", err)
			}
		}
	}
}

func candidateFromPion(c webrtc.ICECandidateInit) entity.ICECandidate {
	return entity.ICECandidate{
		Candidate:        c.Candidate,
		SDPMid:           c.SDPMid,
		SDPMLineIndex:    c.SDPMLineIndex,
		UsernameFragment: c.UsernameFragment,
	}
}

func descriptionFromPion(d webrtc.SessionDescription) entity.SessionDescription {
	return entity.SessionDescription{Type: d.Type.String(), SDP: d.SDP}
}

func descriptionToPion(d entity.SessionDescription) webrtc.SessionDescription {
	return webrtc.SessionDescription{Type: webrtc.NewSDPType(d.Type), SDP: d.SDP}
}
