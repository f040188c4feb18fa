package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
	"go.lsp.dev/jsonrpc2"
)

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}

// RequestToFollowerParams maps the parameters from a jsonrpc2.Request into model.FollowerParams.
func RequestToFollowerParams(req jsonrpc2.Request) (*model.FollowerParams, error) {
	params := model.FollowerParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToActionParams maps the parameters from a jsonrpc2.Request into model.ActionParams and
// decodes the carried envelope.
func RequestToActionParams(req jsonrpc2.Request) (*model.ActionParams, entity.Envelope, error) {
	params := model.ActionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, entity.Envelope{}, wrapErrParse(err)
	}
	env, err := RawToEnvelope(params.UniqueID, params.Envelope)
	if err != nil {
		return nil, entity.Envelope{}, wrapErrParse(err)
	}
	return &params, env, nil
}

// RequestToRenameParams maps the parameters from a jsonrpc2.Request into model.RenameParams.
func RequestToRenameParams(req jsonrpc2.Request) (*model.RenameParams, error) {
	params := model.RenameParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToLockParams maps the parameters from a jsonrpc2.Request into model.LockParams.
func RequestToLockParams(req jsonrpc2.Request) (*model.LockParams, error) {
	params := model.LockParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToMuteParams maps the parameters from a jsonrpc2.Request into model.MuteParams.
func RequestToMuteParams(req jsonrpc2.Request) (*model.MuteParams, error) {
	params := model.MuteParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToTabParams maps the parameters from a jsonrpc2.Request into model.TabParams.
func RequestToTabParams(req jsonrpc2.Request) (*model.TabParams, error) {
	params := model.TabParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToWebsiteParams maps the parameters from a jsonrpc2.Request into model.WebsiteParams.
func RequestToWebsiteParams(req jsonrpc2.Request) (*model.WebsiteParams, error) {
	params := model.WebsiteParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToShareTasksParams maps the parameters from a jsonrpc2.Request into model.ShareTasksParams
// and parses the task entries. Malformed entries are dropped.
func RequestToShareTasksParams(req jsonrpc2.Request) (*model.ShareTasksParams, []entity.Task, error) {
	params := model.ShareTasksParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, nil, wrapErrParse(err)
	}
	return &params, EntriesToTasks(params.Tasks), nil
}

// RequestToListParams maps the parameters from a jsonrpc2.Request into model.ListParams.
func RequestToListParams(req jsonrpc2.Request) (*model.ListParams, error) {
	params := model.ListParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// SessionToView maps the running session, if any, to its control view.
func SessionToView(s entity.ClassSession, active bool) model.SessionView {
	if !active {
		return model.SessionView{}
	}
	return model.SessionView{
		Active:     true,
		ClassCode:  s.ClassCode,
		LeaderName: s.Leader.Name,
		LeaderID:   s.Leader.UniqueID,
	}
}

// FollowerToView maps a follower entity to its control view.
func FollowerToView(f *entity.Follower) model.FollowerView {
	v := model.FollowerView{
		UniqueID:     f.UniqueID,
		Name:         f.Name,
		Type:         string(f.Type),
		Locked:       f.Locked,
		Muted:        f.Muted,
		Disconnected: f.Disconnected,
		Permission:   string(f.Permission()),
		Tasks:        entity.TaskEntries(f.Tasks),
	}
	if f.Web != nil {
		v.ImageBase64 = f.Web.ImageBase64
		v.CollectingScreenshotFailed = f.Web.CollectingScreenshotFailed
		for _, t := range f.Web.Tabs {
			v.Tabs = append(v.Tabs, TabToView(t))
		}
	}
	if f.Mobile != nil {
		v.CurrentApplication = f.Mobile.CurrentApplication
		v.Applications = ApplicationsToRecords(f.Mobile.Applications)
	}
	return v
}

// FollowersToViews maps a follower list to control views.
func FollowersToViews(followers []*entity.Follower) []model.FollowerView {
	out := make([]model.FollowerView, 0, len(followers))
	for _, f := range followers {
		out = append(out, FollowerToView(f))
	}
	return out
}

// TabToView maps a tab to its display form.
func TabToView(t entity.Tab) model.TabView {
	return model.TabView{
		ID:      t.ID,
		Name:    t.CleanName(),
		Domain:  t.Domain(),
		URL:     t.URLWithoutScheme(),
		Favicon: t.FaviconURL(),
		Audible: t.Audible,
		Muted:   t.Muted,
		Muting:  t.Muting,
		Closing: t.Closing,
	}
}

// ApplicationsToRecords maps applications to their wire form.
func ApplicationsToRecords(apps []entity.Application) []model.ApplicationRecord {
	out := make([]model.ApplicationRecord, 0, len(apps))
	for _, a := range apps {
		out = append(out, model.ApplicationRecord{Name: a.Name, PackageName: a.PackageName})
	}
	return out
}

// VideosToRecords maps videos to their wire form.
func VideosToRecords(videos []entity.Video) []model.VideoRecord {
	out := make([]model.VideoRecord, 0, len(videos))
	for _, v := range videos {
		out = append(out, model.VideoRecord{
			ID:       model.FlexString(v.ID),
			Name:     v.Name,
			Duration: model.FlexString(fmt.Sprintf("%g", v.Duration)),
		})
	}
	return out
}
