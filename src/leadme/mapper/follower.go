package mapper

import (
	"encoding/json"
	"strconv"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
)

// SnapshotToFollower maps a follower entry into a typed follower. Entries that are not objects,
// such as the session placeholder, are rejected.
func SnapshotToFollower(classCode string, t entity.FollowerType, snap tree.Snapshot) (*entity.Follower, error) {
	if snap.Key == "" {
		return nil, &errors.MalformedSnapshotError{Reason: "missing follower id"}
	}
	var rec model.FollowerRecord
	if err := snap.Decode(&rec); err != nil {
		return nil, &errors.MalformedSnapshotError{Key: snap.Key, Reason: err.Error()}
	}

	var f *entity.Follower
	switch t {
	case entity.FollowerWeb:
		f = entity.NewWebFollower(classCode, snap.Key, rec.Name)
		if len(rec.Tabs) > 0 {
			f.SetTabs(SnapshotToTabs(tree.Snapshot{Key: snap.Key, Value: rec.Tabs}))
		}
	case entity.FollowerMobile:
		f = entity.NewMobileFollower(classCode, snap.Key, rec.Name)
		f.Mobile.Applications = RawToApplications(rec.Applications)
		f.Mobile.Videos = RawToVideos(rec.Videos)
		f.Mobile.Action = rec.Action
		f.Mobile.Source = rec.Source
		if rec.CurrentPackage != "" {
			f.SetCurrentApplication(rec.CurrentPackage)
		}
	default:
		return nil, errors.UnknownFollowerTypeError
	}

	muted := false
	f.Muted = &muted
	f.Tasks = EntriesToTasks(RawToTaskEntries(rec.Tasks))
	return f, nil
}

// HasScreenshot reports whether a follower entry already carries a screenshot marker.
func HasScreenshot(snap tree.Snapshot) bool {
	var rec model.FollowerRecord
	return snap.Decode(&rec) == nil && rec.Screenshot != nil && *rec.Screenshot != ""
}

// RawToApplications decodes an application list written as an array or a keyed object.
// Entries carrying neither a name nor a package name are skipped.
func RawToApplications(raw json.RawMessage) []entity.Application {
	var out []entity.Application
	for _, child := range (tree.Snapshot{Value: raw}).Children() {
		var rec model.ApplicationRecord
		if child.Decode(&rec) != nil {
			continue
		}
		if rec.Name == "" && rec.PackageName == "" {
			continue
		}
		out = append(out, entity.Application{Name: rec.Name, PackageName: rec.PackageName})
	}
	return out
}

// RawToVideos decodes a video list written as an array or a keyed object.
func RawToVideos(raw json.RawMessage) []entity.Video {
	var out []entity.Video
	for _, child := range (tree.Snapshot{Value: raw}).Children() {
		var rec model.VideoRecord
		if child.Decode(&rec) != nil {
			continue
		}
		if rec.ID == "" && rec.Name == "" {
			continue
		}
		duration, _ := strconv.ParseFloat(rec.Duration.String(), 64)
		out = append(out, entity.Video{ID: rec.ID.String(), Name: rec.Name, Duration: duration})
	}
	return out
}

// RawToTaskEntries decodes the tasks field of a follower, which is a list of
// "name|reference|category" entries.
func RawToTaskEntries(raw json.RawMessage) []string {
	var out []string
	for _, child := range (tree.Snapshot{Value: raw}).Children() {
		var entry string
		if child.Decode(&entry) == nil {
			out = append(out, entry)
		}
	}
	return out
}

// EntriesToTasks parses task entries, dropping malformed ones and duplicate references.
func EntriesToTasks(entries []string) []entity.Task {
	tasks := make([]entity.Task, 0, len(entries))
	for _, e := range entries {
		task, err := entity.ParseTaskEntry(e)
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return entity.MergeTasks(nil, tasks)
}

// TaskFields returns the follower fields written when tasks are shared.
func TaskFields(tasks []entity.Task) map[string]any {
	return map[string]any{"tasks": entity.TaskEntries(tasks)}
}

// NameFields returns the follower fields written when a follower is renamed.
func NameFields(name string) map[string]any {
	return map[string]any{"name": name}
}
