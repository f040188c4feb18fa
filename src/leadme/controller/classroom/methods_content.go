package classroom

import (
	"context"
	"slices"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
)

// ShareTasks assigns tasks to the selected followers and returns how many followers received at
// least one new task. Web followers only receive tasks they can open in a browser.
func (c *controller) ShareTasks(ctx context.Context, tasks []entity.Task, uniqueIDs []string) (int, error) {
	code, _, err := c.classCode()
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}
	targets, err := c.shareTargets(ctx, uniqueIDs)
	if err != nil {
		return 0, err
	}

	webTasks := slices.DeleteFunc(slices.Clone(tasks), entity.Task.LocalOnly)
	shared := 0
	for _, f := range targets {
		incoming := tasks
		if f.Type == entity.FollowerWeb {
			incoming = webTasks
		}
		if c.assign(ctx, code, f, incoming) {
			shared++
		}
	}
	c.stats.Counter("tasks_shared").Inc(int64(shared))
	return shared, nil
}

// ShareWebsite shares a link as a task. Streaming video links become video tasks on mobile
// followers.
func (c *controller) ShareWebsite(ctx context.Context, link string, uniqueIDs []string) (int, error) {
	code, _, err := c.classCode()
	if err != nil {
		return 0, err
	}
	targets, err := c.shareTargets(ctx, uniqueIDs)
	if err != nil {
		return 0, err
	}

	shared := 0
	for _, f := range targets {
		if c.assign(ctx, code, f, []entity.Task{entity.WebsiteTask(link, f.Type)}) {
			shared++
		}
	}
	c.stats.Counter("tasks_shared").Inc(int64(shared))
	return shared, nil
}

// shareTargets returns the connected followers of both types, limited to uniqueIDs when given.
func (c *controller) shareTargets(ctx context.Context, uniqueIDs []string) ([]*entity.Follower, error) {
	var targets []*entity.Follower
	for _, t := range entity.FollowerTypes {
		list, err := c.roster.List(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, f := range list {
			if f.Disconnected {
				continue
			}
			if len(uniqueIDs) > 0 && !slices.Contains(uniqueIDs, f.UniqueID) {
				continue
			}
			targets = append(targets, f)
		}
	}
	return targets, nil
}

// assign merges tasks into a follower's list and writes the merged list back when it grew.
func (c *controller) assign(ctx context.Context, code string, f *entity.Follower, tasks []entity.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	var (
		added  int
		merged []entity.Task
	)
	err := c.roster.Update(ctx, f.Type, f.UniqueID, func(stored *entity.Follower) {
		added = stored.AddTasks(tasks...)
		merged = slices.Clone(stored.Tasks)
	})
	if err != nil {
		c.logger.Debugw("follower left before tasks were shared", "uniqueId", f.UniqueID, "error", err)
		return false
	}
	if added == 0 {
		return false
	}
	c.dispatched("tasks", f.UniqueID, c.followers.UpdateFollower(ctx, code, f.Type, f.UniqueID, mapper.TaskFields(merged)))
	return true
}

// CollectUniqueApplications returns every application installed on at least one mobile
// follower, once per package.
func (c *controller) CollectUniqueApplications(ctx context.Context) ([]entity.Application, error) {
	followers, err := c.roster.List(ctx, entity.FollowerMobile)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	apps := []entity.Application{}
	for _, f := range followers {
		if f.Mobile == nil {
			continue
		}
		for _, app := range f.Mobile.Applications {
			if _, ok := seen[app.PackageName]; ok {
				continue
			}
			seen[app.PackageName] = struct{}{}
			apps = append(apps, app)
		}
	}
	return apps, nil
}

// CollectUniqueVideos returns every video available on at least one mobile follower, once per id.
func (c *controller) CollectUniqueVideos(ctx context.Context) ([]entity.Video, error) {
	followers, err := c.roster.List(ctx, entity.FollowerMobile)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	videos := []entity.Video{}
	for _, f := range followers {
		if f.Mobile == nil {
			continue
		}
		for _, v := range f.Mobile.Videos {
			if _, ok := seen[v.ID]; ok {
				continue
			}
			seen[v.ID] = struct{}{}
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (c *controller) RequestMonitor(ctx context.Context, uniqueID string) error {
	conductor, err := c.activeConductor()
	if err != nil {
		return err
	}
	if uniqueID == "" {
		return errors.NoFollowerIDError
	}
	return conductor.RequestMonitor(ctx, uniqueID)
}

func (c *controller) StopMonitoring(ctx context.Context, t entity.FollowerType, uniqueID string) error {
	conductor, err := c.activeConductor()
	if err != nil {
		return err
	}
	if err := c.RequestIndividualAction(ctx, t, uniqueID, entity.Envelope{Type: entity.ActionMonitorEnded}); err != nil {
		return err
	}
	return conductor.StopTracks(ctx, uniqueID)
}
