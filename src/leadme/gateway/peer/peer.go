// Package peer wraps WebRTC peer connections used to receive follower screen streams.
package peer

import (
	"context"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
)

//go:generate mockgen -source=peer.go -destination=peermock/peer.go -package=peermock

// Factory creates peer connections.
type Factory interface {
	// New creates a connection for the follower identified by label. onICE receives each
	// locally gathered candidate and may be called from any goroutine.
	New(label string, onICE func(entity.ICECandidate)) (PeerConnection, error)
}

// PeerConnection is one leader-side WebRTC connection.
type PeerConnection interface {
	// CreateOffer returns an offer asking the remote side to send video.
	CreateOffer(ctx context.Context) (entity.SessionDescription, error)
	CreateAnswer(ctx context.Context) (entity.SessionDescription, error)
	SetLocalDescription(desc entity.SessionDescription) error
	SetRemoteDescription(desc entity.SessionDescription) error
	AddICECandidate(candidate entity.ICECandidate) error
	// OnTrack registers the callback for remote media tracks. It may be called from any goroutine.
	OnTrack(fn func(Track))
	Close() error
}

// Track is a remote media track attached to a connection.
type Track interface {
	ID() string
	Kind() string
	Stop() error
}
