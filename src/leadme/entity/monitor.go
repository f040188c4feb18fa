package entity

// Permission is the monitoring permission flag surfaced on a follower.
type Permission string

const (
	PermissionNone       Permission = ""
	PermissionRequesting Permission = "requesting"
	PermissionConnecting Permission = "connecting"
	PermissionGranted    Permission = "granted"
	PermissionDenied     Permission = "denied"
	PermissionStopped    Permission = "stopped"
)

// MonitorState is the per-follower screen monitoring state.
type MonitorState int

const (
	MonitorIdle MonitorState = iota
	MonitorRequesting
	MonitorConnecting
	MonitorStreaming
	MonitorDenied
	MonitorStopped
)

func (s MonitorState) String() string {
	switch s {
	case MonitorIdle:
		return "idle"
	case MonitorRequesting:
		return "requesting"
	case MonitorConnecting:
		return "connecting"
	case MonitorStreaming:
		return "streaming"
	case MonitorDenied:
		return "denied"
	case MonitorStopped:
		return "stopped"
	}
	return "unknown"
}

// ICECandidate is a trickled ICE candidate in its browser JSON form.
type ICECandidate struct {
	Candidate        string  `json:"candidate"`
	SDPMid           *string `json:"sdpMid,omitempty"`
	SDPMLineIndex    *uint16 `json:"sdpMLineIndex,omitempty"`
	UsernameFragment *string `json:"usernameFragment,omitempty"`
}

// SessionDescription is an SDP offer or answer.
type SessionDescription struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

// SDP types exchanged during negotiation.
const (
	SDPOffer  = "offer"
	SDPAnswer = "answer"
)

// Signal is one decoded message from a follower's signaling queue.
// Exactly one of ICE or SDP is set.
type Signal struct {
	Sender string
	ICE    *ICECandidate
	SDP    *SessionDescription
}
