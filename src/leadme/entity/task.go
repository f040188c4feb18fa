package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// TaskCategory describes how a follower should open a task.
type TaskCategory string

const (
	TaskApplication TaskCategory = "Application"
	TaskWebsite     TaskCategory = "Website"
	TaskVideo       TaskCategory = "Video"

	// Categories written by older follower builds.
	taskLegacyLink    TaskCategory = "LINK"
	taskLegacyYouTube TaskCategory = "YOUTUBE"
)

const (
	_taskSeparator = "|"

	// VRVideoTaskName is the display name given to streaming video links shared with mobile followers.
	VRVideoTaskName = "VR Video"
	// WebsiteTaskName is the display name given to shared websites.
	WebsiteTaskName = "Website"
)

var (
	_youTubeLink = regexp.MustCompile(`^(http(s)?://)?((w){3}.)?youtu(be|.be)?(\.com)?/.+`)
	_vimeoLink   = regexp.MustCompile(`^(http(s)?://)?(www\.)?vimeo\.com/(\d+)($|/)`)
)

// Task is a piece of content assigned to a follower. Tasks are immutable once created
// and are de-duplicated by Reference.
type Task struct {
	Name      string
	Reference string
	Category  TaskCategory
}

// Entry encodes the task in the "name|reference|category" form stored on the follower record.
func (t Task) Entry() string {
	return strings.Join([]string{t.Name, t.Reference, string(t.Category)}, _taskSeparator)
}

// ParseTaskEntry decodes a "name|reference|category" entry.
func ParseTaskEntry(entry string) (Task, error) {
	parts := strings.Split(entry, _taskSeparator)
	if len(parts) != 3 || parts[1] == "" {
		return Task{}, fmt.Errorf("malformed task entry %q", entry)
	}
	return Task{Name: parts[0], Reference: parts[1], Category: TaskCategory(parts[2])}, nil
}

// Envelope returns the request that makes a follower open this task.
func (t Task) Envelope() (Envelope, bool) {
	switch t.Category {
	case TaskApplication:
		return Envelope{Type: ActionForceActiveApp, Action: t.Reference}, true
	case TaskWebsite, taskLegacyLink:
		return Envelope{Type: ActionWebsite, Action: t.Reference}, true
	case TaskVideo, taskLegacyYouTube:
		return Envelope{Type: ActionForceActiveVideo, Action: t.Reference}, true
	}
	return Envelope{}, false
}

// LocalOnly reports whether the task refers to content that only exists on a mobile device.
func (t Task) LocalOnly() bool {
	return t.Category == TaskApplication || (t.Category == TaskVideo && !IsStreamingVideoLink(t.Reference))
}

// MergeTasks appends incoming tasks to existing, skipping any whose reference is already present.
// Share order is preserved.
func MergeTasks(existing, incoming []Task) []Task {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]Task, 0, len(existing)+len(incoming))
	for _, t := range existing {
		if _, ok := seen[t.Reference]; ok {
			continue
		}
		seen[t.Reference] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range incoming {
		if _, ok := seen[t.Reference]; ok {
			continue
		}
		seen[t.Reference] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}

// TaskEntries encodes a task list for storage.
func TaskEntries(tasks []Task) []string {
	entries := make([]string, 0, len(tasks))
	for _, t := range tasks {
		entries = append(entries, t.Entry())
	}
	return entries
}

// WebsiteTask builds the task used when sharing a link with a follower of the given type.
// Streaming video links become video tasks on mobile devices.
func WebsiteTask(link string, followerType FollowerType) Task {
	if followerType == FollowerMobile && IsStreamingVideoLink(link) {
		return Task{Name: VRVideoTaskName, Reference: link, Category: TaskVideo}
	}
	return Task{Name: WebsiteTaskName, Reference: link, Category: TaskWebsite}
}

// IsStreamingVideoLink reports whether link points at YouTube or Vimeo.
func IsStreamingVideoLink(link string) bool {
	return _youTubeLink.MatchString(link) || _vimeoLink.MatchString(link)
}
