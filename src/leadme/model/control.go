package model

import "encoding/json"

// Control endpoint request parameters.

// FollowerParams addresses a single follower.
type FollowerParams struct {
	Type     string `json:"type"`
	UniqueID string `json:"uniqueId"`
}

// ActionParams carries a request for one follower, or for every follower of a type when
// UniqueID is empty.
type ActionParams struct {
	Type     string          `json:"type"`
	UniqueID string          `json:"uniqueId,omitempty"`
	Envelope json.RawMessage `json:"envelope"`
}

// RenameParams renames a follower.
type RenameParams struct {
	FollowerParams
	Name string `json:"name"`
}

// LockParams locks or unlocks a follower's screen.
type LockParams struct {
	FollowerParams
	Lock bool `json:"lock"`
}

// MuteParams mutes or unmutes a follower. A missing mute mutes.
type MuteParams struct {
	FollowerParams
	Mute *bool `json:"mute,omitempty"`
}

// TabParams addresses one tab of a web follower.
type TabParams struct {
	UniqueID string `json:"uniqueId"`
	TabID    string `json:"tabId"`
	Mute     bool   `json:"mute,omitempty"`
}

// WebsiteParams launches or shares a link. An empty UniqueIDs addresses every follower.
type WebsiteParams struct {
	Link      string   `json:"link"`
	UniqueIDs []string `json:"uniqueIds,omitempty"`
}

// ShareTasksParams shares tasks encoded as "name|reference|category" entries.
type ShareTasksParams struct {
	Tasks     []string `json:"tasks"`
	UniqueIDs []string `json:"uniqueIds,omitempty"`
}

// ListParams selects followers of one type.
type ListParams struct {
	Type string `json:"type"`
}

// Control endpoint results.

// SessionView describes the running class session.
type SessionView struct {
	Active     bool   `json:"active"`
	ClassCode  string `json:"classCode,omitempty"`
	LeaderName string `json:"leaderName,omitempty"`
	LeaderID   string `json:"leaderId,omitempty"`
}

// FollowerView is a follower as shown to the leader.
type FollowerView struct {
	UniqueID                   string              `json:"uniqueId"`
	Name                       string              `json:"name"`
	Type                       string              `json:"type"`
	Locked                     bool                `json:"locked"`
	Muted                      *bool               `json:"muted,omitempty"`
	Disconnected               bool                `json:"disconnected"`
	Permission                 string              `json:"permission,omitempty"`
	Tasks                      []string            `json:"tasks"`
	Tabs                       []TabView           `json:"tabs,omitempty"`
	ImageBase64                string              `json:"imageBase64,omitempty"`
	CollectingScreenshotFailed bool                `json:"collectingScreenshotFailed,omitempty"`
	Applications               []ApplicationRecord `json:"applications,omitempty"`
	CurrentApplication         string              `json:"currentApplication,omitempty"`
}

// TabView is a tab as shown to the leader.
type TabView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	URL     string `json:"url"`
	Favicon string `json:"favicon"`
	Audible bool   `json:"audible"`
	Muted   bool   `json:"muted"`
	Muting  bool   `json:"muting,omitempty"`
	Closing bool   `json:"closing,omitempty"`
}

// ShareResult reports how many followers received new tasks.
type ShareResult struct {
	Shared int `json:"shared"`
}

// ContentView lists the applications and videos available across mobile followers.
type ContentView struct {
	Applications []ApplicationRecord `json:"applications"`
	Videos       []VideoRecord       `json:"videos"`
}
