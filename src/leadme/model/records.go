// Package model holds the wire records stored in the remote tree.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ClassRecord is the session record stored at classCode/{C}.
type ClassRecord struct {
	Name      string `json:"name"`
	ClassCode string `json:"classCode"`
	UniqueID  string `json:"uniqueId"`
	Request   string `json:"request"`
}

// FollowerRecord is a follower entry under webFollowers/{C} or mobileFollowers/{C}.
// Applications and Videos are written either as arrays or as keyed objects.
type FollowerRecord struct {
	Name           string          `json:"name"`
	Screenshot     *FlexString     `json:"screenshot,omitempty"`
	Response       json.RawMessage `json:"response,omitempty"`
	Tabs           json.RawMessage `json:"tabs,omitempty"`
	Tasks          json.RawMessage `json:"tasks,omitempty"`
	Applications   json.RawMessage `json:"applications,omitempty"`
	Videos         json.RawMessage `json:"videos,omitempty"`
	CurrentPackage string          `json:"currentPackage,omitempty"`
	Action         string          `json:"action,omitempty"`
	Source         string          `json:"source,omitempty"`
}

// TabRecord is one tab below tabs/{C}/{uid}. Absent fields stay nil.
type TabRecord struct {
	ID            *FlexString `json:"id,omitempty"`
	Index         *int        `json:"index,omitempty"`
	WindowID      *int        `json:"windowId,omitempty"`
	Name          *string     `json:"name,omitempty"`
	Favicon       *string     `json:"favicon,omitempty"`
	URL           *string     `json:"url,omitempty"`
	LastActivated *int64      `json:"lastActivated,omitempty"`
	Audible       *bool       `json:"audible,omitempty"`
	Muted         *bool       `json:"muted,omitempty"`
}

// ApplicationRecord is an installed application reported by a mobile follower.
type ApplicationRecord struct {
	Name        string `json:"name"`
	PackageName string `json:"packageName"`
}

// VideoRecord is a local video reported by a mobile follower.
type VideoRecord struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name"`
	Duration FlexString `json:"duration"`
}

// SignalRecord is one message in the signaling queue at ice/{C}/{uid}. The placeholder written
// at session start uses senderId instead of sender.
type SignalRecord struct {
	Sender   string `json:"sender,omitempty"`
	SenderID string `json:"senderId,omitempty"`
	Message  string `json:"message"`
}

// SignalPayload is the JSON document carried in SignalRecord.Message.
type SignalPayload struct {
	ICE json.RawMessage `json:"ice,omitempty"`
	SDP json.RawMessage `json:"sdp,omitempty"`
}

// FlexString decodes a JSON string or number into its textual form. Follower builds disagree on
// whether ids and durations are numeric.
type FlexString string

// UnmarshalJSON accepts strings, numbers and booleans.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexString(strconv.FormatBool(v))
	return nil
}

// String returns the decoded text.
func (f FlexString) String() string {
	return string(f)
}

// Placeholder values written while a session waits for its first participants.
const (
	AwaitingFollower   = "awaiting follower"
	AwaitingConnection = "awaiting connection"
	// PlaceholderSenderID marks the signaling placeholder written by the leader.
	PlaceholderSenderID = "0"
)
