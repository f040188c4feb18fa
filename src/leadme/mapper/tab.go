package mapper

import (
	"encoding/json"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
)

// SnapshotToTabs converts a follower's tab container into an ordered tab list. Entries lacking
// both a name and an id are skipped.
func SnapshotToTabs(container tree.Snapshot) []entity.Tab {
	children := container.Children()
	tabs := make([]entity.Tab, 0, len(children))
	for _, child := range children {
		var rec model.TabRecord
		if child.Decode(&rec) != nil {
			continue
		}
		if rec.Name == nil && rec.ID == nil {
			continue
		}
		patch := recordToPatch(child.Key, rec)
		tab := entity.Tab{ID: patch.ID}
		patch.ApplyTo(&tab)
		tabs = append(tabs, tab)
	}
	return tabs
}

// IsTabEntry reports whether snap holds a tab carrying a name or an id.
func IsTabEntry(snap tree.Snapshot) bool {
	var rec model.TabRecord
	return snap.Decode(&rec) == nil && (rec.Name != nil || rec.ID != nil)
}

// SnapshotToTabPatch converts a single tab entry into a patch holding only the fields present.
func SnapshotToTabPatch(snap tree.Snapshot) (entity.TabPatch, error) {
	var rec model.TabRecord
	if err := snap.Decode(&rec); err != nil {
		return entity.TabPatch{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: err.Error()}
	}
	patch := recordToPatch(snap.Key, rec)
	if patch.ID == "" {
		return entity.TabPatch{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: "missing tab id"}
	}
	return patch, nil
}

// SnapshotToTabID returns the id of the tab held by snap, falling back to its key.
func SnapshotToTabID(snap tree.Snapshot) string {
	var rec model.TabRecord
	if snap.Decode(&rec) == nil && rec.ID != nil && *rec.ID != "" {
		return rec.ID.String()
	}
	return snap.Key
}

func recordToPatch(key string, rec model.TabRecord) entity.TabPatch {
	id := key
	if rec.ID != nil && *rec.ID != "" {
		id = rec.ID.String()
	}
	return entity.TabPatch{
		ID:            id,
		Index:         rec.Index,
		WindowID:      rec.WindowID,
		Name:          rec.Name,
		Favicon:       rec.Favicon,
		URL:           rec.URL,
		LastActivated: rec.LastActivated,
		Audible:       rec.Audible,
		Muted:         rec.Muted,
	}
}

// TabToRaw encodes a tab the way followers report it, for requests that carry a whole tab.
func TabToRaw(t entity.Tab) (json.RawMessage, error) {
	id := model.FlexString(t.ID)
	rec := model.TabRecord{
		ID:            &id,
		Index:         &t.Index,
		WindowID:      &t.WindowID,
		Name:          &t.Name,
		Favicon:       &t.Favicon,
		URL:           &t.URL,
		LastActivated: &t.LastActivated,
		Audible:       &t.Audible,
		Muted:         &t.Muted,
	}
	return json.Marshal(rec)
}
