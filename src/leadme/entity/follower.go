package entity

import "slices"

// FollowerType discriminates the capability payload carried by a Follower.
type FollowerType string

const (
	// FollowerWeb is a browser-extension follower reporting tabs and screenshots.
	FollowerWeb FollowerType = "web"
	// FollowerMobile is a mobile-app follower reporting installed applications and videos.
	FollowerMobile FollowerType = "mobile"
)

// FollowerTypes lists every supported discriminant in roster order.
var FollowerTypes = []FollowerType{FollowerWeb, FollowerMobile}

// Collection returns the name of the remote collection holding followers of this type.
func (t FollowerType) Collection() string {
	switch t {
	case FollowerWeb:
		return "webFollowers"
	case FollowerMobile:
		return "mobileFollowers"
	}
	return ""
}

// BroadcastChannel returns the name of the session-wide request channel for this type.
func (t FollowerType) BroadcastChannel() string {
	switch t {
	case FollowerWeb:
		return "webMessages"
	case FollowerMobile:
		return "mobileMessages"
	}
	return ""
}

// Valid reports whether the type is one of the supported discriminants.
func (t FollowerType) Valid() bool {
	return t == FollowerWeb || t == FollowerMobile
}

// Follower is a participant device observed by the leader.
// Exactly one of Web or Mobile is set, matching Type.
type Follower struct {
	ClassCode    string
	Name         string
	UniqueID     string
	Type         FollowerType
	Locked       bool
	Muted        *bool
	Disconnected bool
	Tasks        []Task

	Web    *WebState
	Mobile *MobileState
}

// WebState is the capability payload of a web follower.
type WebState struct {
	Tabs                       []Tab
	ImageBase64                string
	CollectingScreenshotFailed bool
	Monitoring                 bool
	Permission                 Permission
	MuteAll                    bool
}

// MobileState is the capability payload of a mobile follower.
type MobileState struct {
	Applications       []Application
	Videos             []Video
	CurrentApplication string
	Action             string
	Source             string
	Permission         Permission
	Audible            bool
}

// NewWebFollower returns a web follower with its capability payload initialised.
func NewWebFollower(classCode, uniqueID, name string) *Follower {
	return &Follower{
		ClassCode: classCode,
		UniqueID:  uniqueID,
		Name:      name,
		Type:      FollowerWeb,
		Web:       &WebState{},
	}
}

// NewMobileFollower returns a mobile follower with its capability payload initialised.
func NewMobileFollower(classCode, uniqueID, name string) *Follower {
	return &Follower{
		ClassCode: classCode,
		UniqueID:  uniqueID,
		Name:      name,
		Type:      FollowerMobile,
		Mobile:    &MobileState{},
	}
}

// Permission returns the monitoring permission flag of either variant.
func (f *Follower) Permission() Permission {
	switch {
	case f.Web != nil:
		return f.Web.Permission
	case f.Mobile != nil:
		return f.Mobile.Permission
	}
	return PermissionNone
}

// SetPermission updates the monitoring permission flag of either variant.
func (f *Follower) SetPermission(p Permission) {
	switch {
	case f.Web != nil:
		f.Web.Permission = p
	case f.Mobile != nil:
		f.Mobile.Permission = p
	}
}

// FindTab returns the index of the tab with the given id, or -1.
func (f *Follower) FindTab(id string) int {
	if f.Web == nil {
		return -1
	}
	return slices.IndexFunc(f.Web.Tabs, func(t Tab) bool { return t.ID == id })
}

// SetTabs replaces the follower's tab list. It is a no-op for mobile followers.
func (f *Follower) SetTabs(tabs []Tab) {
	if f.Web == nil {
		return
	}
	f.Web.Tabs = slices.Clone(tabs)
}

// UpsertTab applies a partial tab update, inserting the tab when it is not present.
// Only the fields carried by patch are overwritten.
func (f *Follower) UpsertTab(patch TabPatch) {
	if f.Web == nil || patch.ID == "" {
		return
	}
	if i := f.FindTab(patch.ID); i >= 0 {
		patch.ApplyTo(&f.Web.Tabs[i])
		return
	}
	tab := Tab{ID: patch.ID}
	patch.ApplyTo(&tab)
	f.Web.Tabs = append(f.Web.Tabs, tab)
}

// RemoveTab drops the tab with the given id. Removing an absent tab is a no-op.
func (f *Follower) RemoveTab(id string) bool {
	i := f.FindTab(id)
	if i < 0 {
		return false
	}
	f.Web.Tabs = slices.Delete(f.Web.Tabs, i, i+1)
	return true
}

// SetCurrentApplication records the foreground application of a mobile follower
// and moves it to the front of the application list.
func (f *Follower) SetCurrentApplication(packageName string) {
	if f.Mobile == nil {
		return
	}
	f.Mobile.CurrentApplication = packageName
	i := slices.IndexFunc(f.Mobile.Applications, func(a Application) bool { return a.PackageName == packageName })
	if i <= 0 {
		return
	}
	app := f.Mobile.Applications[i]
	f.Mobile.Applications = slices.Delete(f.Mobile.Applications, i, i+1)
	f.Mobile.Applications = slices.Insert(f.Mobile.Applications, 0, app)
}

// AddTasks appends tasks whose reference is not already assigned and reports how many were added.
func (f *Follower) AddTasks(tasks ...Task) int {
	before := len(f.Tasks)
	f.Tasks = MergeTasks(f.Tasks, tasks)
	return len(f.Tasks) - before
}

// Clone returns a deep copy safe to hand out of a repository.
func (f *Follower) Clone() *Follower {
	if f == nil {
		return nil
	}
	c := *f
	c.Tasks = slices.Clone(f.Tasks)
	if f.Muted != nil {
		m := *f.Muted
		c.Muted = &m
	}
	if f.Web != nil {
		w := *f.Web
		w.Tabs = slices.Clone(f.Web.Tabs)
		c.Web = &w
	}
	if f.Mobile != nil {
		m := *f.Mobile
		m.Applications = slices.Clone(f.Mobile.Applications)
		m.Videos = slices.Clone(f.Mobile.Videos)
		c.Mobile = &m
	}
	return &c
}

// Application is an installed application reported by a mobile follower.
type Application struct {
	Name        string
	PackageName string
}

// Video is a locally available video reported by a mobile follower.
type Video struct {
	ID       string
	Name     string
	Duration float64
}
