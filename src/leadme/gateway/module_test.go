package gateway

import (
	"strings"
	"testing"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/memtree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/rtdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newParams(t *testing.T, yaml string) (Params, *fxtest.Lifecycle) {
	provider, err := config.NewYAML(config.Source(strings.NewReader(yaml)))
	require.NoError(t, err)
	lc := fxtest.NewLifecycle(t)
	return Params{
		Config:    provider,
		Lifecycle: lc,
		Logger:    zap.NewNop().Sugar(),
		Stats:     tally.NoopScope,
	}, lc
}

func TestNewTreeStore(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantType interface{}
		wantErr  string
	}{
		{
			name:     "defaults to memory",
			yaml:     "service:\n  name: leadme",
			wantType: &memtree.Store{},
		},
		{
			name:     "realtime database",
			yaml:     "tree:\n  backend: rtdb\n  rtdb:\n    url: https://leadme.example.com\n    requestTimeout: 3s",
			wantType: &rtdb.Client{},
		},
		{
			name:    "realtime database without url",
			yaml:    "tree:\n  backend: rtdb",
			wantErr: "missing database url",
		},
		{
			name:    "unknown backend",
			yaml:    "tree:\n  backend: etcd",
			wantErr: `unknown tree backend "etcd"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p, lc := newParams(t, tt.yaml)
			store, err := NewTreeStore(p)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, store)
			lc.RequireStart().RequireStop()
		})
	}
}

func TestNewBlobStore(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "memory",
			yaml: "blob:\n  backend: memory",
		},
		{
			name:    "gcs without bucket",
			yaml:    "blob:\n  backend: gcs",
			wantErr: "missing bucket name",
		},
		{
			name:    "unknown backend",
			yaml:    "blob:\n  backend: s3",
			wantErr: `unknown blob backend "s3"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newParams(t, tt.yaml)
			store, err := NewBlobStore(p)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &blob.Memory{}, store)
		})
	}
}

func TestNewPeerFactory(t *testing.T) {
	dir := t.TempDir()
	p, _ := newParams(t, "signaling:\n  settleDelay: 1s\n  iceServers: [\"stun:stun.l.google.com:19302\"]\n  recordDir: "+dir+"/tracks")
	f, err := NewPeerFactory(p)
	require.NoError(t, err)
	assert.NotNil(t, f)
	assert.DirExists(t, dir+"/tracks")
}
