package classroom

import (
	"context"
	"fmt"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
)

func (c *controller) RequestAction(ctx context.Context, t entity.FollowerType, env entity.Envelope) error {
	code, _, err := c.classCode()
	if err != nil {
		return err
	}
	if err := validate(t, env); err != nil {
		return err
	}
	c.dispatched(env.Type, "", c.followers.Broadcast(ctx, code, t, env))
	return nil
}

func (c *controller) RequestIndividualAction(ctx context.Context, t entity.FollowerType, uniqueID string, env entity.Envelope) error {
	code, _, err := c.classCode()
	if err != nil {
		return err
	}
	if err := validate(t, env); err != nil {
		return err
	}
	if uniqueID == "" {
		return errors.NoFollowerIDError
	}
	c.dispatched(env.Type, uniqueID, c.followers.Send(ctx, code, t, uniqueID, env))
	return nil
}

func (c *controller) EndIndividualSession(ctx context.Context, t entity.FollowerType, uniqueID string) error {
	return c.RequestIndividualAction(ctx, t, uniqueID, entity.Envelope{Type: entity.ActionRemoved})
}

func (c *controller) RenameFollower(ctx context.Context, t entity.FollowerType, uniqueID string, name string) error {
	code, _, err := c.classCode()
	if err != nil {
		return err
	}
	if _, err := c.roster.Get(ctx, t, uniqueID); err != nil {
		return err
	}
	// The roster picks the new name up from the follower's change event.
	c.dispatched("rename", uniqueID, c.followers.UpdateFollower(ctx, code, t, uniqueID, mapper.NameFields(name)))
	return nil
}

func (c *controller) RemoveFollower(ctx context.Context, t entity.FollowerType, uniqueID string) error {
	_, conductor, err := c.classCode()
	if err != nil {
		return err
	}
	if err := c.roster.Evict(ctx, t, uniqueID); err != nil {
		return err
	}
	if conductor != nil {
		conductor.Drop(uniqueID)
	}
	c.logger.Infow("follower removed", "type", t, "uniqueId", uniqueID)
	return nil
}

func (c *controller) LockScreens(ctx context.Context, t entity.FollowerType, uniqueID string, lock bool) error {
	action := entity.ScreenUnblock
	if lock {
		action = entity.ScreenBlock
	}
	return c.sendAndUpdate(ctx, t, uniqueID, entity.Envelope{Type: entity.ActionScreenControl, Action: action}, func(f *entity.Follower) {
		f.Locked = lock
	})
}

func (c *controller) MuteSound(ctx context.Context, t entity.FollowerType, uniqueID string, mute *bool) error {
	muted := mute == nil || *mute

	env := entity.Envelope{Type: entity.ActionDeviceAudio, Tabs: entity.MultiTab, Action: string(entity.ActionUnmuteTab)}
	if t == entity.FollowerWeb {
		env.Type = entity.ActionMuteTab
	}
	if muted {
		env.Action = string(entity.ActionMuteTab)
	}
	return c.sendAndUpdate(ctx, t, uniqueID, env, func(f *entity.Follower) {
		f.Muted = &muted
	})
}

func (c *controller) RequestDeleteFollowerTab(ctx context.Context, uniqueID string, tabID string) error {
	env := entity.Envelope{Type: entity.ActionDeleteTab, TabID: tabID}
	return c.sendAndUpdate(ctx, entity.FollowerWeb, uniqueID, env, func(f *entity.Follower) {
		if i := f.FindTab(tabID); i >= 0 {
			f.Web.Tabs[i].Closing = true
		}
	})
}

func (c *controller) RequestUpdateMutingTab(ctx context.Context, uniqueID string, tabID string, mute bool) error {
	action := entity.ActionUnmuteTab
	if mute {
		action = entity.ActionMuteTab
	}
	env := entity.Envelope{Type: entity.ActionMuteTab, Action: string(action), TabID: tabID}
	return c.sendAndUpdate(ctx, entity.FollowerWeb, uniqueID, env, func(f *entity.Follower) {
		if i := f.FindTab(tabID); i >= 0 {
			f.Web.Tabs[i].Muting = true
		}
	})
}

func (c *controller) RequestActiveTab(ctx context.Context, uniqueID string, tabID string) error {
	f, err := c.roster.Get(ctx, entity.FollowerWeb, uniqueID)
	if err != nil {
		return err
	}
	i := f.FindTab(tabID)
	if i < 0 {
		return fmt.Errorf("tab %q of follower %q not found", tabID, uniqueID)
	}
	raw, err := mapper.TabToRaw(f.Web.Tabs[i])
	if err != nil {
		return err
	}
	return c.RequestIndividualAction(ctx, entity.FollowerWeb, uniqueID, entity.Envelope{Type: entity.ActionForceActiveTab, Tab: raw})
}

func (c *controller) LaunchWebsite(ctx context.Context, link string) error {
	return c.RequestAction(ctx, entity.FollowerWeb, entity.Envelope{Type: entity.ActionWebsite, Value: link})
}

func (c *controller) LaunchWebsiteIndividual(ctx context.Context, uniqueID string, link string) error {
	return c.RequestIndividualAction(ctx, entity.FollowerWeb, uniqueID, entity.Envelope{Type: entity.ActionWebsite, Value: link})
}

// sendAndUpdate sends env to a follower present in the roster and records the request's local
// effect on it.
func (c *controller) sendAndUpdate(ctx context.Context, t entity.FollowerType, uniqueID string, env entity.Envelope, fn func(*entity.Follower)) error {
	code, _, err := c.classCode()
	if err != nil {
		return err
	}
	if err := validate(t, env); err != nil {
		return err
	}
	if err := c.roster.Update(ctx, t, uniqueID, fn); err != nil {
		return err
	}
	c.dispatched(env.Type, uniqueID, c.followers.Send(ctx, code, t, uniqueID, env))
	return nil
}
