package classroom

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/classroom/classroommock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/factory"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type recordedReply struct {
	result interface{}
	err    error
	calls  int
}

func (r *recordedReply) replier() jsonrpc2.Replier {
	return func(ctx context.Context, result interface{}, err error) error {
		r.calls++
		r.result = result
		r.err = err
		return err
	}
}

func (r *recordedReply) code(t *testing.T) jsonrpc2.Code {
	t.Helper()
	var rpcErr *jsonrpc2.Error
	require.ErrorAs(t, r.err, &rpcErr)
	return rpcErr.Code
}

func newRouter(t *testing.T) (*jsonRPCRouter, *classroommock.MockController, tally.TestScope) {
	ctrl := gomock.NewController(t)
	c := classroommock.NewMockController(ctrl)
	scope := tally.NewTestScope("testing", make(map[string]string, 0))
	return &jsonRPCRouter{
		classroom: c,
		uuid:      factory.UUID(),
		logger:    zap.NewNop().Sugar(),
		stats:     scope,
	}, c, scope
}

func TestHandleReq(t *testing.T) {
	ctx := context.Background()
	muted := false
	session := entity.ClassSession{ClassCode: "ab12", Leader: entity.Leader{Name: "Ms P", UniqueID: "l1"}}

	tests := []struct {
		name       string
		method     string
		params     interface{}
		expect     func(c *classroommock.MockController)
		wantResult interface{}
	}{
		{
			name:   "generate session",
			method: MethodSessionGenerate,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().GenerateSession(gomock.Any()).Return(session, nil)
			},
			wantResult: model.SessionView{Active: true, ClassCode: "ab12", LeaderName: "Ms P", LeaderID: "l1"},
		},
		{
			name:   "end session",
			method: MethodSessionEnd,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().EndSession(gomock.Any()).Return(nil)
			},
		},
		{
			name:   "current session",
			method: MethodSessionCurrent,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().Current(gomock.Any()).Return(entity.ClassSession{}, false)
			},
			wantResult: model.SessionView{},
		},
		{
			name:   "list followers",
			method: MethodRosterList,
			params: model.ListParams{Type: "web"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().Followers(gomock.Any(), entity.FollowerWeb).Return([]*entity.Follower{factory.WebFollower(1)}, nil)
			},
			wantResult: []model.FollowerView{{UniqueID: "web-1", Name: "Web Follower 1", Type: "web", Tasks: []string{}}},
		},
		{
			name:   "individual action",
			method: MethodFollowerAction,
			params: map[string]interface{}{"type": "mobile", "uniqueId": "u2", "envelope": map[string]string{"type": "force_active_app", "value": "com.chess"}},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RequestIndividualAction(gomock.Any(), entity.FollowerMobile, "u2", entity.Envelope{Type: entity.ActionForceActiveApp, Value: "com.chess"})
			},
		},
		{
			name:   "broadcast",
			method: MethodFollowerBroadcast,
			params: map[string]interface{}{"type": "web", "envelope": map[string]string{"type": "website", "value": "https://a.io"}},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RequestAction(gomock.Any(), entity.FollowerWeb, entity.Envelope{Type: entity.ActionWebsite, Value: "https://a.io"})
			},
		},
		{
			name:   "remove follower",
			method: MethodFollowerRemove,
			params: model.FollowerParams{Type: "web", UniqueID: "u1"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RemoveFollower(gomock.Any(), entity.FollowerWeb, "u1")
			},
		},
		{
			name:   "end follower session",
			method: MethodFollowerEndSession,
			params: model.FollowerParams{Type: "mobile", UniqueID: "u2"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().EndIndividualSession(gomock.Any(), entity.FollowerMobile, "u2")
			},
		},
		{
			name:   "rename follower",
			method: MethodFollowerRename,
			params: model.RenameParams{FollowerParams: model.FollowerParams{Type: "web", UniqueID: "u1"}, Name: "Anna"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RenameFollower(gomock.Any(), entity.FollowerWeb, "u1", "Anna")
			},
		},
		{
			name:   "lock follower",
			method: MethodFollowerLock,
			params: model.LockParams{FollowerParams: model.FollowerParams{Type: "web", UniqueID: "u1"}, Lock: true},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().LockScreens(gomock.Any(), entity.FollowerWeb, "u1", true)
			},
		},
		{
			name:   "unmute follower",
			method: MethodFollowerMute,
			params: model.MuteParams{FollowerParams: model.FollowerParams{Type: "mobile", UniqueID: "u2"}, Mute: &muted},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().MuteSound(gomock.Any(), entity.FollowerMobile, "u2", &muted)
			},
		},
		{
			name:   "delete tab",
			method: MethodTabDelete,
			params: model.TabParams{UniqueID: "u1", TabID: "7"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RequestDeleteFollowerTab(gomock.Any(), "u1", "7")
			},
		},
		{
			name:   "mute tab",
			method: MethodTabMute,
			params: model.TabParams{UniqueID: "u1", TabID: "7", Mute: true},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RequestUpdateMutingTab(gomock.Any(), "u1", "7", true)
			},
		},
		{
			name:   "activate tab",
			method: MethodTabActivate,
			params: model.TabParams{UniqueID: "u1", TabID: "7"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RequestActiveTab(gomock.Any(), "u1", "7")
			},
		},
		{
			name:   "launch website for everyone",
			method: MethodWebsiteLaunch,
			params: model.WebsiteParams{Link: "https://a.io"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().LaunchWebsite(gomock.Any(), "https://a.io")
			},
		},
		{
			name:   "launch website for some",
			method: MethodWebsiteLaunch,
			params: model.WebsiteParams{Link: "https://a.io", UniqueIDs: []string{"u1", "u3"}},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().LaunchWebsiteIndividual(gomock.Any(), "u1", "https://a.io")
				c.EXPECT().LaunchWebsiteIndividual(gomock.Any(), "u3", "https://a.io")
			},
		},
		{
			name:   "share tasks",
			method: MethodTasksShare,
			params: model.ShareTasksParams{Tasks: []string{"Chess|com.chess|Application"}},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().ShareTasks(gomock.Any(), []entity.Task{{Name: "Chess", Reference: "com.chess", Category: entity.TaskApplication}}, nil).Return(3, nil)
			},
			wantResult: model.ShareResult{Shared: 3},
		},
		{
			name:   "share website",
			method: MethodTasksShareWebsite,
			params: model.WebsiteParams{Link: "https://a.io", UniqueIDs: []string{"u1"}},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().ShareWebsite(gomock.Any(), "https://a.io", []string{"u1"}).Return(1, nil)
			},
			wantResult: model.ShareResult{Shared: 1},
		},
		{
			name:   "collect content",
			method: MethodContentApplications,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().CollectUniqueApplications(gomock.Any()).Return([]entity.Application{{Name: "Chess", PackageName: "com.chess"}}, nil)
				c.EXPECT().CollectUniqueVideos(gomock.Any()).Return([]entity.Video{}, nil)
			},
			wantResult: model.ContentView{
				Applications: []model.ApplicationRecord{{Name: "Chess", PackageName: "com.chess"}},
				Videos:       []model.VideoRecord{},
			},
		},
		{
			name:   "request monitor",
			method: MethodMonitorRequest,
			params: model.FollowerParams{Type: "web", UniqueID: "u1"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RequestMonitor(gomock.Any(), "u1")
			},
		},
		{
			name:   "stop monitoring",
			method: MethodMonitorStop,
			params: model.FollowerParams{Type: "web", UniqueID: "u1"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().StopMonitoring(gomock.Any(), entity.FollowerWeb, "u1")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r, c, scope := newRouter(t)
			tt.expect(c)

			rec := &recordedReply{}
			err := r.HandleReq(ctx, rec.replier(), factory.JSONRPCRequest(tt.method, tt.params))
			require.NoError(t, err)
			assert.Equal(t, 1, rec.calls)
			assert.Equal(t, tt.wantResult, rec.result)

			counter, ok := scope.Snapshot().Counters()["testing.requests+"]
			require.True(t, ok)
			assert.Equal(t, int64(1), counter.Value())
		})
	}
}

func TestHandleReqErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		method   string
		params   interface{}
		expect   func(c *classroommock.MockController)
		wantCode jsonrpc2.Code
	}{
		{
			name:     "unknown method",
			method:   "follower/dance",
			expect:   func(c *classroommock.MockController) {},
			wantCode: jsonrpc2.MethodNotFound,
		},
		{
			name:     "malformed params",
			method:   MethodFollowerRename,
			params:   []string{"u1"},
			expect:   func(c *classroommock.MockController) {},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:     "action without envelope",
			method:   MethodFollowerBroadcast,
			params:   model.FollowerParams{Type: "web"},
			expect:   func(c *classroommock.MockController) {},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:     "individual action without follower",
			method:   MethodFollowerAction,
			params:   map[string]interface{}{"type": "web", "envelope": map[string]string{"type": "website"}},
			expect:   func(c *classroommock.MockController) {},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:   "no running session",
			method: MethodSessionEnd,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().EndSession(gomock.Any()).Return(&errors.NoActiveSessionError{})
			},
			wantCode: CodeNoSession,
		},
		{
			name:   "session already running",
			method: MethodSessionGenerate,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().GenerateSession(gomock.Any()).Return(entity.ClassSession{}, &errors.SessionActiveError{ClassCode: "ab12"})
			},
			wantCode: jsonrpc2.InvalidRequest,
		},
		{
			name:   "unknown follower type",
			method: MethodRosterList,
			params: model.ListParams{Type: "fridge"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().Followers(gomock.Any(), entity.FollowerType("fridge")).Return(nil, errors.UnknownFollowerTypeError)
			},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:   "follower not found",
			method: MethodFollowerRename,
			params: model.RenameParams{FollowerParams: model.FollowerParams{Type: "web", UniqueID: "u9"}, Name: "X"},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().RenameFollower(gomock.Any(), entity.FollowerWeb, "u9", "X").Return(&errors.FollowerNotFoundError{Type: "web", ID: "u9"})
			},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:   "one of several launches fails",
			method: MethodWebsiteLaunch,
			params: model.WebsiteParams{Link: "https://a.io", UniqueIDs: []string{"u1", "u9"}},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().LaunchWebsiteIndividual(gomock.Any(), "u1", "https://a.io")
				c.EXPECT().LaunchWebsiteIndividual(gomock.Any(), "u9", "https://a.io").Return(&errors.FollowerNotFoundError{Type: "web", ID: "u9"})
			},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:   "provisioning failure",
			method: MethodSessionGenerate,
			expect: func(c *classroommock.MockController) {
				c.EXPECT().GenerateSession(gomock.Any()).Return(entity.ClassSession{}, &errors.ProvisionError{ClassCode: "ab12", Err: fmt.Errorf("timeout")})
			},
			wantCode: jsonrpc2.InternalError,
		},
		{
			name:   "share failure",
			method: MethodTasksShare,
			params: model.ShareTasksParams{},
			expect: func(c *classroommock.MockController) {
				c.EXPECT().ShareTasks(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, &errors.NoActiveSessionError{})
			},
			wantCode: CodeNoSession,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r, c, _ := newRouter(t)
			tt.expect(c)

			rec := &recordedReply{}
			err := r.HandleReq(ctx, rec.replier(), factory.JSONRPCRequest(tt.method, tt.params))
			assert.Error(t, err)
			assert.Nil(t, rec.result)
			assert.Equal(t, tt.wantCode, rec.code(t))
		})
	}
}

func TestAuthFailureMessage(t *testing.T) {
	r, c, scope := newRouter(t)
	c.EXPECT().EndSession(gomock.Any()).Return(fmt.Errorf("removing: %w", &errors.AuthError{Code: "auth/id-token-expired", Detail: "expired"}))

	rec := &recordedReply{}
	_ = r.HandleReq(context.Background(), rec.replier(), factory.JSONRPCRequest(MethodSessionEnd, nil))

	var rpcErr *jsonrpc2.Error
	require.ErrorAs(t, rec.err, &rpcErr)
	assert.Equal(t, CodeAuthFailed, rpcErr.Code)
	assert.Equal(t, "Your login session has expired. Please logout and try again", rpcErr.Message)

	counter, ok := scope.Snapshot().Counters()["testing.errors+method="+MethodSessionEnd]
	require.True(t, ok)
	assert.Equal(t, int64(1), counter.Value())
}

func TestResultsEncode(t *testing.T) {
	r, c, _ := newRouter(t)
	c.EXPECT().Followers(gomock.Any(), entity.FollowerMobile).Return(nil, nil)

	rec := &recordedReply{}
	require.NoError(t, r.HandleReq(context.Background(), rec.replier(), factory.JSONRPCRequest(MethodRosterList, model.ListParams{Type: "mobile"})))

	raw, err := json.Marshal(rec.result)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestUUID(t *testing.T) {
	r, _, _ := newRouter(t)
	assert.Equal(t, r.uuid, r.UUID())
}
