package entity

import (
	"net/url"
	"regexp"
	"strings"
)

var _tabCounter = regexp.MustCompile(`\s?\(\d+\)\s?`)

const _faviconFallback = "https://www.google.com/favicon.ico"

// Tab is a browser tab reported by a web follower.
type Tab struct {
	ID            string
	Index         int
	WindowID      int
	Name          string
	Favicon       string
	URL           string
	LastActivated int64
	Audible       bool
	Muted         bool

	// Muting and Closing are local-only flags set while a leader request is in flight.
	Muting  bool
	Closing bool
}

// TabPatch carries the fields present in a tab snapshot. Nil fields are left untouched on merge.
type TabPatch struct {
	ID            string
	Index         *int
	WindowID      *int
	Name          *string
	Favicon       *string
	URL           *string
	LastActivated *int64
	Audible       *bool
	Muted         *bool
}

// ApplyTo merges the present fields into t.
func (p TabPatch) ApplyTo(t *Tab) {
	if p.Index != nil {
		t.Index = *p.Index
	}
	if p.WindowID != nil {
		t.WindowID = *p.WindowID
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Favicon != nil {
		t.Favicon = *p.Favicon
	}
	if p.URL != nil {
		t.URL = *p.URL
	}
	if p.LastActivated != nil {
		t.LastActivated = *p.LastActivated
	}
	if p.Audible != nil {
		t.Audible = *p.Audible
	}
	if p.Muted != nil {
		// a confirmed state ends any pending mute request
		t.Muted = *p.Muted
		t.Muting = false
	}
}

// CleanName strips browser notification counters such as "(3)" from the tab title.
func (t Tab) CleanName() string {
	return _tabCounter.ReplaceAllString(t.Name, "")
}

// Domain returns the host of the tab URL without a leading "www.".
func (t Tab) Domain() string {
	u, err := url.Parse(t.URL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// URLWithoutScheme returns the tab URL without its http(s) prefix.
func (t Tab) URLWithoutScheme() string {
	return strings.NewReplacer("https://", "", "http://", "").Replace(t.URL)
}

// FaviconURL returns a displayable favicon. Browser-internal pages do not expose one.
func (t Tab) FaviconURL() string {
	if t.Favicon == "" && strings.HasPrefix(t.URL, "chrome://") {
		return _faviconFallback
	}
	return t.Favicon
}
