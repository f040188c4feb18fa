package classroom

import (
	"context"
	stderr "errors"
	"sync"
	"testing"
	"time"

	rostersync "github.com/LuminationDev/leadme-classroom/src/leadme/controller/roster"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/signaling/signalingmock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/tabs"
	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob/blobmock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/follower-client/followerclientmock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/memtree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/treemock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
	"github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _classCode = "ab12"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type activeFile struct {
	session *entity.ClassSession
}

func (a *activeFile) UpdateField(string, string) error { return nil }

func (a *activeFile) Save(s entity.ClassSession) error {
	a.session = &s
	return nil
}

func (a *activeFile) Load() (entity.ClassSession, bool, error) {
	if a.session == nil {
		return entity.ClassSession{}, false, nil
	}
	return *a.session, true, nil
}

func (a *activeFile) Clear() error {
	a.session = nil
	return nil
}

type fixture struct {
	lc        *fxtest.Lifecycle
	mem       *memtree.Store
	blobs     *blobmock.MockStore
	followers *followerclientmock.MockGateway
	factory   *signalingmock.MockFactory
	conductor *signalingmock.MockConductor
	roster    roster.Repository
	file      *activeFile
	stats     tally.TestScope
	ctrl      Controller
}

// newFixture builds a controller over store, or over an in-memory tree when store is nil.
func newFixture(t *testing.T, store tree.Store) *fixture {
	mc := gomock.NewController(t)
	f := &fixture{
		lc:        fxtest.NewLifecycle(t),
		blobs:     blobmock.NewMockStore(mc),
		followers: followerclientmock.NewMockGateway(mc),
		factory:   signalingmock.NewMockFactory(mc),
		conductor: signalingmock.NewMockConductor(mc),
		roster:    roster.New(tally.NoopScope),
		file:      &activeFile{},
		stats:     tally.NewTestScope("", nil),
	}
	if store == nil {
		f.mem = memtree.New()
		store = f.mem
	}

	logger := zap.NewNop().Sugar()
	loop := eventloop.Inline(logger)
	cfg, err := config.NewStaticProvider(map[string]any{
		"session": map[string]any{"provisionTimeout": "50ms"},
		"leader":  map[string]any{"name": "Ms P", "userId": "teacher-1"},
	})
	require.NoError(t, err)

	f.ctrl, err = New(Params{
		Lifecycle:  f.lc,
		Config:     cfg,
		Logger:     logger,
		Stats:      f.stats,
		Store:      store,
		Blobs:      f.blobs,
		Followers:  f.followers,
		Roster:     f.roster,
		ActiveFile: f.file,
		RosterSync: rostersync.New(rostersync.Params{
			Store:  store,
			Blobs:  f.blobs,
			Roster: f.roster,
			Loop:   loop,
			Logger: logger,
			Stats:  tally.NoopScope,
		}),
		Tabs: tabs.New(tabs.Params{
			Store:  store,
			Roster: f.roster,
			Loop:   loop,
			Logger: logger,
			Stats:  tally.NoopScope,
		}),
		Signaling: f.factory,
	})
	require.NoError(t, err)
	f.impl().newCode = codes(_classCode)
	return f
}

func (f *fixture) impl() *controller {
	return f.ctrl.(*controller)
}

// codes returns a generator yielding the given codes in order, then repeating the last one.
func codes(list ...string) func() (string, error) {
	return func() (string, error) {
		code := list[0]
		if len(list) > 1 {
			list = list[1:]
		}
		return code, nil
	}
}

// start generates a session with an in-memory tree and expects its conductor to be created.
func (f *fixture) start(t *testing.T) entity.ClassSession {
	f.factory.EXPECT().New(_classCode).Return(f.conductor)
	s, err := f.ctrl.GenerateSession(context.Background())
	require.NoError(t, err)
	return s
}

func (f *fixture) addWeb(t *testing.T, uid string, value map[string]any) {
	f.conductor.EXPECT().CreateNewConnection(gomock.Any(), entity.FollowerWeb, uid).Return(nil)
	require.NoError(t, f.mem.Set(context.Background(), tree.Join("webFollowers", _classCode, uid), value))
}

func (f *fixture) get(t *testing.T, ft entity.FollowerType, uid string) *entity.Follower {
	fl, err := f.roster.Get(context.Background(), ft, uid)
	require.NoError(t, err)
	return fl
}

func (f *fixture) counter(name string) int64 {
	c, ok := f.stats.Snapshot().Counters()["classroom."+name+"+"]
	if !ok {
		return 0
	}
	return c.Value()
}

func TestGenerateSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.mem.Set(ctx, "classCode/zz99", map[string]any{"name": "Someone else"}))
	f.impl().newCode = codes("zz99", _classCode)

	s := f.start(t)
	assert.Equal(t, _classCode, s.ClassCode)
	assert.Equal(t, "Ms P", s.Leader.Name)
	assert.Equal(t, "teacher-1", s.Leader.UserID)
	assert.NotEmpty(t, s.Leader.UniqueID)

	snap, err := f.mem.Get(ctx, "classCode/ab12")
	require.NoError(t, err)
	var rec model.ClassRecord
	require.NoError(t, snap.Decode(&rec))
	assert.Equal(t, model.ClassRecord{Name: "Ms P", ClassCode: _classCode, UniqueID: s.Leader.UniqueID}, rec)

	for _, path := range []string{"webFollowers/ab12", "mobileFollowers/ab12"} {
		snap, err := f.mem.Get(ctx, path)
		require.NoError(t, err)
		assert.JSONEq(t, `"awaiting follower"`, string(snap.Value), path)
	}
	snap, err = f.mem.Get(ctx, "ice/ab12/leader")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"awaiting connection","senderId":"0"}`, string(snap.Value))

	current, ok := f.ctrl.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, s, current)
	require.NotNil(t, f.file.session)
	assert.Equal(t, s, *f.file.session)
	assert.Equal(t, 6, f.mem.ActiveListeners(""), "follower and tab collections are watched")

	_, err = f.ctrl.GenerateSession(ctx)
	var active *errors.SessionActiveError
	require.ErrorAs(t, err, &active)
	assert.Equal(t, _classCode, active.ClassCode)

	require.NoError(t, f.ctrl.AttachClassListeners(ctx, false))
	assert.Equal(t, 6, f.mem.ActiveListeners(""), "attaching twice is a no-op")

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
	assert.Equal(t, 0, f.mem.ActiveListeners(""))
	assert.Equal(t, int64(1), f.counter("sessions_started"))
}

func TestProvisioningFailure(t *testing.T) {
	tests := []struct {
		name   string
		update func(ctx context.Context, path string, values map[string]any) error
		cause  error
	}{
		{
			name: "write fails",
			update: func(ctx context.Context, path string, values map[string]any) error {
				if path == "tabs" {
					return stderr.New("permission denied")
				}
				return nil
			},
		},
		{
			name: "timeout",
			update: func(ctx context.Context, path string, values map[string]any) error {
				<-ctx.Done()
				return ctx.Err()
			},
			cause: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := treemock.NewMockStore(gomock.NewController(t))
			store.EXPECT().Get(gomock.Any(), "classCode/ab12").Return(tree.Snapshot{Key: _classCode}, nil)
			store.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(tt.update).Times(5)
			f := newFixture(t, store)

			_, err := f.ctrl.GenerateSession(ctx)
			var perr *errors.ProvisionError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, _classCode, perr.ClassCode)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}

			_, ok := f.ctrl.Current(ctx)
			assert.False(t, ok)
			assert.Nil(t, f.file.session)
			assert.Equal(t, int64(1), f.counter("provision_failed"))
		})
	}
}

// gatedStore holds back updates of the gated paths until their gate is closed.
type gatedStore struct {
	tree.Store
	gates   map[string]chan struct{}
	arrived chan string
	acked   chan string
}

func (g *gatedStore) Update(ctx context.Context, path string, values map[string]any) error {
	gate, ok := g.gates[path]
	if !ok {
		return g.Store.Update(ctx, path, values)
	}
	g.arrived <- path
	select {
	case <-gate:
	case <-ctx.Done():
		return ctx.Err()
	}
	err := g.Store.Update(ctx, path, values)
	g.acked <- path
	return err
}

func TestProvisioningOutOfOrderAcks(t *testing.T) {
	ctx := context.Background()
	order := []string{"ice", "tabs", "mobileFollowers", "webFollowers", "classCode"}
	store := &gatedStore{
		Store:   memtree.New(),
		gates:   make(map[string]chan struct{}, len(order)),
		arrived: make(chan string, len(order)),
		acked:   make(chan string, len(order)),
	}
	for _, path := range order {
		store.gates[path] = make(chan struct{})
	}

	f := newFixture(t, store)
	f.impl().session.ProvisionTimeout = 5 * time.Second
	f.factory.EXPECT().New(_classCode).Return(f.conductor)

	type result struct {
		session entity.ClassSession
		err     error
	}
	done := make(chan result, 1)
	go func() {
		s, err := f.ctrl.GenerateSession(ctx)
		done <- result{s, err}
	}()

	for range order {
		select {
		case <-store.arrived:
		case <-time.After(5 * time.Second):
			t.Fatal("provisioning writes were not issued concurrently")
		}
	}

	for i, path := range order {
		close(store.gates[path])
		select {
		case acked := <-store.acked:
			assert.Equal(t, path, acked)
		case <-time.After(5 * time.Second):
			t.Fatalf("write of %s was not acknowledged", path)
		}
		if i < len(order)-1 {
			select {
			case <-done:
				t.Fatalf("session started with %d of %d writes acknowledged", i+1, len(order))
			default:
			}
		}
	}

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not start after every write was acknowledged")
	}
	require.NoError(t, res.err)
	assert.Equal(t, _classCode, res.session.ClassCode)

	snap, err := store.Get(ctx, "classCode/ab12")
	require.NoError(t, err)
	assert.True(t, snap.Exists())

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestNoFreeClassCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.mem.Set(ctx, "classCode/ab12", map[string]any{"name": "Someone else"}))

	_, err := f.ctrl.GenerateSession(ctx)
	require.Error(t, err)
	_, ok := f.ctrl.Current(ctx)
	assert.False(t, ok)
}

func TestFollowerEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)

	// tabs may arrive before their follower
	require.NoError(t, f.mem.Set(ctx, "tabs/ab12/u1", map[string]any{
		"7": map[string]any{"id": "7", "name": "Docs", "url": "https://docs.example.com"},
	}))
	f.addWeb(t, "u1", map[string]any{"name": "Ana", "response": ""})
	tabsOf := f.get(t, entity.FollowerWeb, "u1").Web.Tabs
	require.Len(t, tabsOf, 1)
	assert.Equal(t, "Docs", tabsOf[0].Name)

	f.conductor.EXPECT().CreateNewConnection(gomock.Any(), entity.FollowerMobile, "m1").Return(nil)
	f.blobs.EXPECT().Exists(gomock.Any(), blob.AppIconObject("com.maps")).Return(true, nil)
	f.blobs.EXPECT().Exists(gomock.Any(), blob.AppIconObject("com.chess")).Return(false, nil)
	f.blobs.EXPECT().Exists(gomock.Any(), blob.AppIconObject("com.paint")).Return(false, nil)
	f.followers.EXPECT().Send(gomock.Any(), _classCode, entity.FollowerMobile, "m1",
		entity.Envelope{Type: entity.ActionUploadIcons, Action: "com.chess:com.paint"}).Return(nil)
	require.NoError(t, f.mem.Set(ctx, "mobileFollowers/ab12/m1", map[string]any{
		"name": "Tablet",
		"applications": []any{
			map[string]any{"name": "Maps", "packageName": "com.maps"},
			map[string]any{"name": "Chess", "packageName": "com.chess"},
			map[string]any{"name": "Paint", "packageName": "com.paint"},
		},
	}))
	f.impl().icons.Wait()

	f.conductor.EXPECT().HandlePermissionResponse(gomock.Any(), "u1", entity.ResponseGranted)
	require.NoError(t, f.mem.Update(ctx, "webFollowers/ab12/u1", map[string]any{
		"response": map[string]any{"type": "videoPermission", "message": "granted"},
	}))

	require.NoError(t, f.mem.Update(ctx, "webFollowers/ab12/u1", map[string]any{
		"response": map[string]any{"type": "captureFailed"},
	}))
	assert.True(t, f.get(t, entity.FollowerWeb, "u1").Web.CollectingScreenshotFailed)

	f.conductor.EXPECT().HandleSignal(gomock.Any(), "u1", gomock.Any())
	_, err := f.mem.Push(ctx, "ice/ab12/u1", map[string]any{"sender": "f1", "message": "{}"})
	require.NoError(t, err)

	f.conductor.EXPECT().Drop("u1")
	require.NoError(t, f.mem.Remove(ctx, "webFollowers/ab12/u1"))
	assert.True(t, f.get(t, entity.FollowerWeb, "u1").Disconnected)

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)
	f.addWeb(t, "u1", map[string]any{"name": "Ana"})
	require.NoError(t, f.mem.Set(ctx, "tabs/ab12/u1", map[string]any{"7": map[string]any{"id": "7", "name": "Docs"}}))

	f.followers.EXPECT().Broadcast(gomock.Any(), _classCode, entity.FollowerWeb, entity.Envelope{Type: entity.ActionEndSession}).Return(nil)
	f.followers.EXPECT().Broadcast(gomock.Any(), _classCode, entity.FollowerMobile, entity.Envelope{Type: entity.ActionEndSession}).Return(nil)
	f.conductor.EXPECT().Close().Return(nil)
	f.blobs.EXPECT().DeletePrefix(gomock.Any(), "webFollowers/ab12/").Return(2, nil)
	f.blobs.EXPECT().DeletePrefix(gomock.Any(), "ab12/").Return(0, nil)

	require.NoError(t, f.ctrl.EndSession(ctx))

	for _, collection := range _sessionCollections {
		snap, err := f.mem.Get(ctx, tree.Join(collection, _classCode))
		require.NoError(t, err)
		assert.False(t, snap.Exists(), collection)
	}
	assert.Equal(t, 0, f.mem.ActiveListeners(""))
	subscribed, cancels := f.mem.ListenerStats()
	assert.Equal(t, subscribed, cancels)

	n, err := f.roster.Count(ctx, entity.FollowerWeb)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, f.file.session)
	_, ok := f.ctrl.Current(ctx)
	assert.False(t, ok)

	assert.ErrorAs(t, f.ctrl.EndSession(ctx), new(*errors.NoActiveSessionError))
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestEndSessionReportsTeardownErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)

	f.followers.EXPECT().Broadcast(gomock.Any(), _classCode, gomock.Any(), gomock.Any()).Return(stderr.New("offline")).Times(2)
	f.conductor.EXPECT().Close().Return(stderr.New("close failed"))
	f.blobs.EXPECT().DeletePrefix(gomock.Any(), gomock.Any()).Return(0, stderr.New("bucket gone")).Times(2)

	err := f.ctrl.EndSession(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.Contains(t, err.Error(), "bucket gone")
	assert.Equal(t, int64(2), f.counter("dispatch_failed"))

	_, ok := f.ctrl.Current(ctx)
	assert.False(t, ok, "the session is dropped even when teardown is incomplete")
}

func TestLeaderActions(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name   string
		act    func(ctx context.Context, c Controller) error
		t      entity.FollowerType
		uid    string
		env    entity.Envelope
		check  func(t *testing.T, fl *entity.Follower)
		global bool
	}{
		{
			name: "lock",
			act: func(ctx context.Context, c Controller) error {
				return c.LockScreens(ctx, entity.FollowerWeb, "u1", true)
			},
			t: entity.FollowerWeb, uid: "u1",
			env:   entity.Envelope{Type: entity.ActionScreenControl, Action: entity.ScreenBlock},
			check: func(t *testing.T, fl *entity.Follower) { assert.True(t, fl.Locked) },
		},
		{
			name: "unlock mobile",
			act: func(ctx context.Context, c Controller) error {
				return c.LockScreens(ctx, entity.FollowerMobile, "m1", false)
			},
			t: entity.FollowerMobile, uid: "m1",
			env:   entity.Envelope{Type: entity.ActionScreenControl, Action: entity.ScreenUnblock},
			check: func(t *testing.T, fl *entity.Follower) { assert.False(t, fl.Locked) },
		},
		{
			name: "mute web defaults to mute",
			act: func(ctx context.Context, c Controller) error {
				return c.MuteSound(ctx, entity.FollowerWeb, "u1", nil)
			},
			t: entity.FollowerWeb, uid: "u1",
			env:   entity.Envelope{Type: entity.ActionMuteTab, Tabs: entity.MultiTab, Action: string(entity.ActionMuteTab)},
			check: func(t *testing.T, fl *entity.Follower) { assert.Equal(t, &yes, fl.Muted) },
		},
		{
			name: "unmute mobile",
			act: func(ctx context.Context, c Controller) error {
				return c.MuteSound(ctx, entity.FollowerMobile, "m1", &no)
			},
			t: entity.FollowerMobile, uid: "m1",
			env:   entity.Envelope{Type: entity.ActionDeviceAudio, Tabs: entity.MultiTab, Action: string(entity.ActionUnmuteTab)},
			check: func(t *testing.T, fl *entity.Follower) { assert.Equal(t, &no, fl.Muted) },
		},
		{
			name: "delete tab",
			act: func(ctx context.Context, c Controller) error {
				return c.RequestDeleteFollowerTab(ctx, "u1", "7")
			},
			t: entity.FollowerWeb, uid: "u1",
			env:   entity.Envelope{Type: entity.ActionDeleteTab, TabID: "7"},
			check: func(t *testing.T, fl *entity.Follower) { assert.True(t, fl.Web.Tabs[0].Closing) },
		},
		{
			name: "mute tab",
			act: func(ctx context.Context, c Controller) error {
				return c.RequestUpdateMutingTab(ctx, "u1", "7", true)
			},
			t: entity.FollowerWeb, uid: "u1",
			env:   entity.Envelope{Type: entity.ActionMuteTab, Action: string(entity.ActionMuteTab), TabID: "7"},
			check: func(t *testing.T, fl *entity.Follower) { assert.True(t, fl.Web.Tabs[0].Muting) },
		},
		{
			name: "end individual session",
			act: func(ctx context.Context, c Controller) error {
				return c.EndIndividualSession(ctx, entity.FollowerMobile, "m1")
			},
			t: entity.FollowerMobile, uid: "m1",
			env: entity.Envelope{Type: entity.ActionRemoved},
		},
		{
			name: "launch website individually",
			act: func(ctx context.Context, c Controller) error {
				return c.LaunchWebsiteIndividual(ctx, "u1", "https://example.com")
			},
			t: entity.FollowerWeb, uid: "u1",
			env: entity.Envelope{Type: entity.ActionWebsite, Value: "https://example.com"},
		},
		{
			name: "launch website",
			act: func(ctx context.Context, c Controller) error {
				return c.LaunchWebsite(ctx, "https://example.com")
			},
			t:      entity.FollowerWeb,
			env:    entity.Envelope{Type: entity.ActionWebsite, Value: "https://example.com"},
			global: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, nil)
			f.start(t)
			f.addWeb(t, "u1", map[string]any{"name": "Ana"})
			require.NoError(t, f.mem.Set(ctx, "tabs/ab12/u1", map[string]any{"7": map[string]any{"id": "7", "name": "Docs"}}))
			f.conductor.EXPECT().CreateNewConnection(gomock.Any(), entity.FollowerMobile, "m1").Return(nil)
			require.NoError(t, f.mem.Set(ctx, "mobileFollowers/ab12/m1", map[string]any{"name": "Tablet"}))

			if tt.global {
				f.followers.EXPECT().Broadcast(gomock.Any(), _classCode, tt.t, tt.env).Return(nil)
			} else {
				f.followers.EXPECT().Send(gomock.Any(), _classCode, tt.t, tt.uid, tt.env).Return(nil)
			}
			require.NoError(t, tt.act(ctx, f.ctrl))
			if tt.check != nil {
				tt.check(t, f.get(t, tt.t, tt.uid))
			}

			f.conductor.EXPECT().Close().Return(nil)
			f.lc.RequireStart()
			f.lc.RequireStop()
		})
	}
}

func TestRequestActiveTab(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)
	f.addWeb(t, "u1", map[string]any{"name": "Ana"})
	require.NoError(t, f.mem.Set(ctx, "tabs/ab12/u1", map[string]any{"7": map[string]any{"id": "7", "name": "Docs", "index": 3}}))

	f.followers.EXPECT().Send(gomock.Any(), _classCode, entity.FollowerWeb, "u1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ entity.FollowerType, _ string, env entity.Envelope) error {
			assert.Equal(t, entity.ActionForceActiveTab, env.Type)
			assert.Contains(t, string(env.Tab), `"index":3`)
			return nil
		})
	require.NoError(t, f.ctrl.RequestActiveTab(ctx, "u1", "7"))
	assert.Error(t, f.ctrl.RequestActiveTab(ctx, "u1", "8"))

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestActionErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	assert.ErrorAs(t, f.ctrl.RequestAction(ctx, entity.FollowerWeb, entity.Envelope{Type: entity.ActionEndSession}), new(*errors.NoActiveSessionError))
	assert.ErrorAs(t, f.ctrl.RequestMonitor(ctx, "u1"), new(*errors.NoActiveSessionError))

	f.start(t)
	assert.Error(t, f.ctrl.RequestAction(ctx, entity.FollowerWeb, entity.Envelope{Type: "dance"}))
	assert.ErrorIs(t, f.ctrl.RequestAction(ctx, "desktop", entity.Envelope{Type: entity.ActionEndSession}), errors.UnknownFollowerTypeError)
	assert.ErrorIs(t, f.ctrl.RequestIndividualAction(ctx, entity.FollowerWeb, "", entity.Envelope{Type: entity.ActionWebsite}), errors.NoFollowerIDError)

	_, ok := errors.NotFoundFollower(f.ctrl.LockScreens(ctx, entity.FollowerWeb, "ghost", true))
	assert.True(t, ok)
	_, ok = errors.NotFoundFollower(f.ctrl.RemoveFollower(ctx, entity.FollowerWeb, "ghost"))
	assert.True(t, ok)

	// write failures are logged and counted, not returned
	f.followers.EXPECT().Broadcast(gomock.Any(), _classCode, entity.FollowerMobile, gomock.Any()).Return(stderr.New("offline"))
	require.NoError(t, f.ctrl.RequestAction(ctx, entity.FollowerMobile, entity.Envelope{Type: entity.ActionScreenControl, Action: entity.ScreenBlock}))
	assert.Equal(t, int64(1), f.counter("dispatch_failed"))

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestRenameAndRemoveFollower(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)
	f.addWeb(t, "u1", map[string]any{"name": "Ana"})

	f.followers.EXPECT().UpdateFollower(gomock.Any(), _classCode, entity.FollowerWeb, "u1", map[string]any{"name": "Ana P"}).Return(nil)
	require.NoError(t, f.ctrl.RenameFollower(ctx, entity.FollowerWeb, "u1", "Ana P"))

	f.conductor.EXPECT().Drop("u1")
	require.NoError(t, f.ctrl.RemoveFollower(ctx, entity.FollowerWeb, "u1"))
	list, err := f.ctrl.Followers(ctx, entity.FollowerWeb)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.ctrl.Followers(ctx, "desktop")
	assert.ErrorIs(t, err, errors.UnknownFollowerTypeError)

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestShareTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)
	f.addWeb(t, "u1", map[string]any{"name": "Ana"})
	f.addWeb(t, "u2", map[string]any{"name": "Ben"})
	f.conductor.EXPECT().CreateNewConnection(gomock.Any(), entity.FollowerMobile, "m1").Return(nil)
	require.NoError(t, f.mem.Set(ctx, "mobileFollowers/ab12/m1", map[string]any{"name": "Tablet"}))

	f.conductor.EXPECT().Drop("u2")
	require.NoError(t, f.mem.Remove(ctx, "webFollowers/ab12/u2"))

	chess := entity.Task{Name: "Chess", Reference: "com.chess", Category: entity.TaskApplication}
	site := entity.Task{Name: "Website", Reference: "https://example.com", Category: entity.TaskWebsite}

	f.followers.EXPECT().UpdateFollower(gomock.Any(), _classCode, entity.FollowerWeb, "u1",
		map[string]any{"tasks": []string{site.Entry()}}).Return(nil)
	f.followers.EXPECT().UpdateFollower(gomock.Any(), _classCode, entity.FollowerMobile, "m1",
		map[string]any{"tasks": []string{chess.Entry(), site.Entry()}}).Return(nil)

	n, err := f.ctrl.ShareTasks(ctx, []entity.Task{chess, site}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "disconnected followers are skipped")

	n, err = f.ctrl.ShareTasks(ctx, []entity.Task{chess, site}, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "tasks are not assigned twice")
	assert.Len(t, f.get(t, entity.FollowerMobile, "m1").Tasks, 2)

	video := "https://www.youtube.com/watch?v=abc"
	videoTask := entity.Task{Name: entity.VRVideoTaskName, Reference: video, Category: entity.TaskVideo}
	f.followers.EXPECT().UpdateFollower(gomock.Any(), _classCode, entity.FollowerMobile, "m1",
		map[string]any{"tasks": []string{chess.Entry(), site.Entry(), videoTask.Entry()}}).Return(nil)

	n, err = f.ctrl.ShareWebsite(ctx, video, []string{"m1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	tasks := f.get(t, entity.FollowerMobile, "m1").Tasks
	require.Len(t, tasks, 3)
	assert.Equal(t, videoTask, tasks[2])
	assert.Len(t, f.get(t, entity.FollowerWeb, "u1").Tasks, 1)

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestCollectUniqueContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	m1 := entity.NewMobileFollower(_classCode, "m1", "Tablet")
	m1.Mobile.Applications = []entity.Application{{Name: "Maps", PackageName: "com.maps"}, {Name: "Chess", PackageName: "com.chess"}}
	m1.Mobile.Videos = []entity.Video{{ID: "1", Name: "Reef"}}
	m2 := entity.NewMobileFollower(_classCode, "m2", "Phone")
	m2.Mobile.Applications = []entity.Application{{Name: "Chess", PackageName: "com.chess"}, {Name: "Paint", PackageName: "com.paint"}}
	m2.Mobile.Videos = []entity.Video{{ID: "1", Name: "Reef"}, {ID: "2", Name: "Desert"}}
	for _, m := range []*entity.Follower{m1, m2} {
		_, err := f.roster.Add(ctx, m)
		require.NoError(t, err)
	}

	apps, err := f.ctrl.CollectUniqueApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Application{
		{Name: "Maps", PackageName: "com.maps"},
		{Name: "Chess", PackageName: "com.chess"},
		{Name: "Paint", PackageName: "com.paint"},
	}, apps)

	videos, err := f.ctrl.CollectUniqueVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Video{{ID: "1", Name: "Reef"}, {ID: "2", Name: "Desert"}}, videos)
}

func TestMonitoring(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)

	f.conductor.EXPECT().RequestMonitor(gomock.Any(), "u1").Return(nil)
	require.NoError(t, f.ctrl.RequestMonitor(ctx, "u1"))
	assert.ErrorIs(t, f.ctrl.RequestMonitor(ctx, ""), errors.NoFollowerIDError)

	gomock.InOrder(
		f.followers.EXPECT().Send(gomock.Any(), _classCode, entity.FollowerWeb, "u1", entity.Envelope{Type: entity.ActionMonitorEnded}).Return(nil),
		f.conductor.EXPECT().StopTracks(gomock.Any(), "u1").Return(nil),
	)
	require.NoError(t, f.ctrl.StopMonitoring(ctx, entity.FollowerWeb, "u1"))

	f.conductor.EXPECT().Close().Return(nil)
	f.lc.RequireStart()
	f.lc.RequireStop()
}

func TestMonitoringAfterRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.start(t)

	f.conductor.EXPECT().Close().Return(nil)
	require.NoError(t, f.impl().release(ctx))

	var noSession *errors.NoActiveSessionError
	assert.ErrorAs(t, f.ctrl.RequestMonitor(ctx, "u1"), &noSession)
	assert.ErrorAs(t, f.ctrl.StopMonitoring(ctx, entity.FollowerWeb, "u1"), &noSession)
}

// readCounter counts one-shot reads per path.
type readCounter struct {
	tree.Store
	mu    sync.Mutex
	reads map[string]int
}

func (r *readCounter) Get(ctx context.Context, path string) (tree.Snapshot, error) {
	r.mu.Lock()
	r.reads[path]++
	r.mu.Unlock()
	return r.Store.Get(ctx, path)
}

func (r *readCounter) count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[path]
}

func TestRestoreRehydratesTabs(t *testing.T) {
	tests := []struct {
		name      string
		rehydrate bool
		wantReads int
	}{
		{name: "enabled", rehydrate: true, wantReads: 1},
		{name: "disabled", rehydrate: false, wantReads: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := memtree.New()
			require.NoError(t, mem.Update(ctx, "", map[string]any{
				"classCode/ab12":       map[string]any{"name": "Ms P", "classCode": _classCode},
				"webFollowers/ab12/u1": map[string]any{"name": "Ana"},
				"tabs/ab12/u1/1":       map[string]any{"id": 1, "name": "Docs", "url": "https://docs.example.com"},
			}))
			store := &readCounter{Store: mem, reads: make(map[string]int)}

			f := newFixture(t, store)
			f.impl().session.RehydrateTabs = tt.rehydrate
			f.file.session = &entity.ClassSession{ClassCode: _classCode, Leader: entity.Leader{Name: "Ms P", UniqueID: "leader-1"}}
			f.factory.EXPECT().New(_classCode).Return(f.conductor)
			f.conductor.EXPECT().CreateNewConnection(gomock.Any(), entity.FollowerWeb, "u1").Return(nil)

			resumed, err := f.ctrl.Restore(ctx)
			require.NoError(t, err)
			require.True(t, resumed)

			assert.Equal(t, tt.wantReads, store.count("tabs/ab12"))
			fl := f.get(t, entity.FollowerWeb, "u1")
			require.Len(t, fl.Web.Tabs, 1)
			assert.Equal(t, "Docs", fl.Web.Tabs[0].Name)

			f.conductor.EXPECT().Close().Return(nil)
			require.NoError(t, f.impl().release(ctx))
			assert.Equal(t, 0, mem.ActiveListeners(""))
		})
	}
}

func TestRestore(t *testing.T) {
	session := entity.ClassSession{ClassCode: _classCode, Leader: entity.Leader{Name: "Ms P", UniqueID: "leader-1"}}

	t.Run("resumes a provisioned session", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t, nil)
		f.file.session = &session
		require.NoError(t, f.mem.Update(ctx, "", map[string]any{
			"classCode/ab12":       map[string]any{"name": "Ms P", "classCode": _classCode},
			"webFollowers/ab12/u1": map[string]any{"name": "Ana"},
		}))

		f.factory.EXPECT().New(_classCode).Return(f.conductor)
		f.conductor.EXPECT().CreateNewConnection(gomock.Any(), entity.FollowerWeb, "u1").Return(nil)
		f.lc.RequireStart()

		current, ok := f.ctrl.Current(ctx)
		require.True(t, ok)
		assert.Equal(t, session, current)
		assert.Equal(t, "Ana", f.get(t, entity.FollowerWeb, "u1").Name)

		resumed, err := f.ctrl.Restore(ctx)
		require.NoError(t, err)
		assert.True(t, resumed)

		f.conductor.EXPECT().Close().Return(nil)
		f.lc.RequireStop()
		assert.Equal(t, 0, f.mem.ActiveListeners(""))
		snap, err := f.mem.Get(ctx, "webFollowers/ab12/u1")
		require.NoError(t, err)
		assert.True(t, snap.Exists(), "stopping keeps the remote session")
	})

	t.Run("forgets a session that is gone", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t, nil)
		f.file.session = &session

		resumed, err := f.ctrl.Restore(ctx)
		require.NoError(t, err)
		assert.False(t, resumed)
		assert.Nil(t, f.file.session)
		_, ok := f.ctrl.Current(ctx)
		assert.False(t, ok)
	})

	t.Run("nothing recorded", func(t *testing.T) {
		f := newFixture(t, nil)
		resumed, err := f.ctrl.Restore(context.Background())
		require.NoError(t, err)
		assert.False(t, resumed)
		require.NoError(t, f.ctrl.AttachClassListeners(context.Background(), true))
		assert.Equal(t, 0, f.mem.ActiveListeners(""))
	})
}
