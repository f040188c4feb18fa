package roster

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob/blobmock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/memtree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	rosterrepo "github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _classCode = "ab12"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu        sync.Mutex
	added     []string
	removed   []string
	responses []entity.Envelope
	signals   []string
}

func (r *recorder) FollowerAdded(_ context.Context, f *entity.Follower) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, string(f.Type)+"/"+f.UniqueID)
}

func (r *recorder) FollowerRemoved(_ context.Context, t entity.FollowerType, uniqueID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, string(t)+"/"+uniqueID)
}

func (r *recorder) FollowerResponse(_ context.Context, _ entity.FollowerType, _ string, env entity.Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, env)
}

func (r *recorder) Signal(_ context.Context, uniqueID string, snap tree.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, uniqueID+":"+string(snap.Value))
}

type fixture struct {
	store  *memtree.Store
	blobs  *blobmock.MockStore
	roster rosterrepo.Repository
	cb     *recorder
	ctrl   Controller
}

func newFixture(t *testing.T) *fixture {
	mc := gomock.NewController(t)
	f := &fixture{
		store:  memtree.New(),
		blobs:  blobmock.NewMockStore(mc),
		roster: rosterrepo.New(tally.NoopScope),
		cb:     &recorder{},
	}
	f.ctrl = New(Params{
		Store:  f.store,
		Blobs:  f.blobs,
		Roster: f.roster,
		Loop:   eventloop.Inline(zap.NewNop().Sugar()),
		Logger: zap.NewNop().Sugar(),
		Stats:  tally.NoopScope,
	})
	return f
}

func (f *fixture) get(t *testing.T, ft entity.FollowerType, uid string) *entity.Follower {
	fl, err := f.roster.Get(context.Background(), ft, uid)
	require.NoError(t, err)
	return fl
}

func TestConvergence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.store.Update(ctx, "", map[string]any{
		"webFollowers/" + _classCode:    "awaiting follower",
		"mobileFollowers/" + _classCode: "awaiting follower",
	}))
	require.NoError(t, f.ctrl.Attach(ctx, _classCode, f.cb))

	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana", "tasks": []string{"Chess|com.chess|Application"}}))
	require.NoError(t, f.store.Set(ctx, "mobileFollowers/ab12/m1", map[string]any{
		"name":           "Tablet",
		"applications":   []any{map[string]any{"name": "Maps", "packageName": "com.maps"}, map[string]any{"name": "Chess", "packageName": "com.chess"}},
		"currentPackage": "com.maps",
		"action":         "idle",
	}))
	assert.Equal(t, []string{"web/u1", "mobile/m1"}, f.cb.added)

	require.NoError(t, f.store.Update(ctx, "webFollowers/ab12/u1", map[string]any{
		"name":  "Ana P",
		"tasks": []string{"Chess|com.chess|Application", "Maps|com.maps|Application", "Maps|com.maps|Application"},
	}))
	require.NoError(t, f.store.Update(ctx, "mobileFollowers/ab12/m1", map[string]any{
		"currentPackage": "com.chess",
		"action":         "playing",
	}))

	web := f.get(t, entity.FollowerWeb, "u1")
	assert.Equal(t, "Ana P", web.Name)
	require.Len(t, web.Tasks, 2, "duplicate references collapse")
	assert.Equal(t, "com.chess", web.Tasks[0].Reference)
	assert.Equal(t, "com.maps", web.Tasks[1].Reference)

	mobile := f.get(t, entity.FollowerMobile, "m1")
	assert.Equal(t, "com.chess", mobile.Mobile.CurrentApplication)
	assert.Equal(t, "com.chess", mobile.Mobile.Applications[0].PackageName)
	assert.Equal(t, "playing", mobile.Mobile.Action)

	require.NoError(t, f.store.Remove(ctx, "webFollowers/ab12/u1"))
	assert.True(t, f.get(t, entity.FollowerWeb, "u1").Disconnected)
	assert.Equal(t, []string{"web/u1"}, f.cb.removed)
	assert.Equal(t, 0, f.store.ActiveListeners("webFollowers/ab12/u1"))
	assert.Equal(t, 0, f.store.ActiveListeners("ice/ab12/u1"))

	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana"}))
	back := f.get(t, entity.FollowerWeb, "u1")
	assert.False(t, back.Disconnected)
	assert.Equal(t, "Ana", back.Name)
	assert.Equal(t, []string{"web/u1", "mobile/m1", "web/u1"}, f.cb.added)

	f.ctrl.Detach(ctx, _classCode)
}

func TestDuplicateAddIsIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana"}))
	n, err := f.ctrl.Rehydrate(ctx, _classCode)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, f.ctrl.Attach(ctx, _classCode, f.cb))
	assert.Equal(t, []string{"web/u1"}, f.cb.added, "rehydrated followers are announced once on attach")

	list, err := f.roster.List(ctx, entity.FollowerWeb)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	f.ctrl.Detach(ctx, _classCode)
}

func TestDetachCancelsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.ctrl.Attach(ctx, _classCode, f.cb))
	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana"}))
	require.NoError(t, f.store.Set(ctx, "mobileFollowers/ab12/m1", map[string]any{"name": "Tablet"}))
	assert.Equal(t, 10, f.store.ActiveListeners(""))

	assert.ErrorAs(t, f.ctrl.Attach(ctx, _classCode, f.cb), new(*errors.SessionActiveError))

	f.ctrl.Detach(ctx, _classCode)
	f.ctrl.Detach(ctx, _classCode)
	assert.Equal(t, 0, f.store.ActiveListeners(""))
	subscribed, cancels := f.store.ListenerStats()
	assert.Equal(t, subscribed, cancels, "every subscription cancelled exactly once")

	require.NoError(t, f.store.Update(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Changed"}))
	assert.Equal(t, "Ana", f.get(t, entity.FollowerWeb, "u1").Name)

	assert.ErrorAs(t, f.ctrl.Attach(ctx, "", f.cb), new(*errors.NoActiveSessionError))
}

func TestResponsesAndSignals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana", "response": ""}))
	require.NoError(t, f.ctrl.Attach(ctx, _classCode, f.cb))

	require.NoError(t, f.store.Update(ctx, "webFollowers/ab12/u1", map[string]any{
		"response": map[string]any{"type": "videoPermission", "message": "granted"},
	}))
	require.Len(t, f.cb.responses, 1)
	assert.Equal(t, entity.Envelope{Type: entity.ActionMonitorPermission, Message: "granted"}, f.cb.responses[0])

	_, err := f.store.Push(ctx, "ice/ab12/u1", map[string]any{"sender": "f1", "message": "{}"})
	require.NoError(t, err)
	require.Len(t, f.cb.signals, 1)
	assert.JSONEq(t, `{"sender":"f1","message":"{}"}`, f.cb.signals[0][len("u1:"):])

	f.ctrl.Detach(ctx, _classCode)
}

func TestScreenshotFetch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.blobs.EXPECT().Fetch(gomock.Any(), "webFollowers/ab12/u1").Return("data:image/png;base64,AAAA", nil)

	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana", "screenshot": ""}))
	require.NoError(t, f.ctrl.Attach(ctx, _classCode, f.cb))
	require.NoError(t, f.roster.Update(ctx, entity.FollowerWeb, "u1", func(fl *entity.Follower) {
		fl.Web.CollectingScreenshotFailed = true
	}))

	require.NoError(t, f.store.Update(ctx, "webFollowers/ab12/u1", map[string]any{"screenshot": "1690000000"}))

	assert.Eventually(t, func() bool {
		return f.get(t, entity.FollowerWeb, "u1").Web.ImageBase64 == "data:image/png;base64,AAAA"
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, f.get(t, entity.FollowerWeb, "u1").Web.CollectingScreenshotFailed)

	snap, err := f.store.Get(ctx, "webFollowers/ab12/u1/screenshot")
	require.NoError(t, err)
	assert.JSONEq(t, `"1690000000"`, string(snap.Value), "the image stays local")

	f.ctrl.Detach(ctx, _classCode)
}

func TestMalformedEntriesAreSkipped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.ctrl.Attach(ctx, _classCode, f.cb))
	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/bad", "not a follower"))
	require.NoError(t, f.store.Set(ctx, "webFollowers/ab12/u1", map[string]any{"name": "Ana"}))

	assert.Equal(t, []string{"web/u1"}, f.cb.added)
	n, err := f.roster.Count(ctx, entity.FollowerWeb)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f.ctrl.Detach(ctx, _classCode)
}
