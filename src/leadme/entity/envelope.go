package entity

import "encoding/json"

// ProtocolVersion identifies the envelope vocabulary below. New tags may be added;
// existing tags never change meaning.
const ProtocolVersion = 1

// ActionType is the discriminant of an Envelope.
type ActionType string

const (
	ActionEndSession        ActionType = "end_session"
	ActionRemoved           ActionType = "removedByLeader"
	ActionCaptureFailed     ActionType = "captureFailed"
	ActionMonitorPermission ActionType = "videoPermission"
	ActionMonitorData       ActionType = "iceCandidates"
	ActionMonitorEnded      ActionType = "disableMonitoring"
	ActionForceActiveTab    ActionType = "force_active_tab"
	ActionMuteTab           ActionType = "mute_tab"
	ActionUnmuteTab         ActionType = "unmute_tab"
	ActionDeleteTab         ActionType = "deleteTab"
	ActionScreenControl     ActionType = "screenControl"
	ActionWebsite           ActionType = "website"
	ActionForceActiveApp    ActionType = "force_active_app"
	ActionForceActiveVideo  ActionType = "force_active_video_link"
	ActionDeviceAudio       ActionType = "device_audio"
	ActionUploadIcons       ActionType = "upload_icons"
)

// Screen control actions.
const (
	ScreenBlock   = "block"
	ScreenUnblock = "unblock"
)

// MultiTab addresses every tab of a web follower in a mute request.
const MultiTab = "multiTab"

// Permission response messages sent by followers.
const (
	ResponseGranted = "granted"
	ResponseDenied  = "denied"
	ResponseStopped = "stopped"
)

var _knownActions = map[ActionType]struct{}{
	ActionEndSession:        {},
	ActionRemoved:           {},
	ActionCaptureFailed:     {},
	ActionMonitorPermission: {},
	ActionMonitorData:       {},
	ActionMonitorEnded:      {},
	ActionForceActiveTab:    {},
	ActionMuteTab:           {},
	ActionUnmuteTab:         {},
	ActionDeleteTab:         {},
	ActionScreenControl:     {},
	ActionWebsite:           {},
	ActionForceActiveApp:    {},
	ActionForceActiveVideo:  {},
	ActionDeviceAudio:       {},
	ActionUploadIcons:       {},
}

// Known reports whether the tag is part of the vocabulary.
func (a ActionType) Known() bool {
	_, ok := _knownActions[a]
	return ok
}

// Envelope is a request or response exchanged between leader and followers.
type Envelope struct {
	Type    ActionType      `json:"type"`
	Action  string          `json:"action,omitempty"`
	Value   string          `json:"value,omitempty"`
	TabID   string          `json:"tabId,omitempty"`
	Tab     json.RawMessage `json:"tab,omitempty"`
	Tabs    string          `json:"tabs,omitempty"`
	Message string          `json:"message,omitempty"`
}
