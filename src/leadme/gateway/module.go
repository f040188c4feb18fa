// Package gateway provides the remote stores and peer transport used by the leader.
package gateway

import (
	"context"
	"fmt"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/blob"
	followerclient "github.com/LuminationDev/leadme-classroom/src/leadme/gateway/follower-client"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/peer"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/memtree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree/rtdb"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyTree      = "tree"
	_configKeyBlob      = "blob"
	_configKeySignaling = "signaling"

	_backendMemory = "memory"
	_backendRTDB   = "rtdb"
	_backendGCS    = "gcs"
)

// Module provides the tree store, blob store, peer factory and follower gateway.
var Module = fx.Options(
	fx.Provide(NewTreeStore),
	fx.Provide(NewBlobStore),
	fx.Provide(NewPeerFactory),
	followerclient.Module,
)

// Params define values to be used by the gateway constructors.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type treeConfig struct {
	Backend string      `yaml:"backend"`
	RTDB    rtdb.Config `yaml:"rtdb"`
}

// NewTreeStore returns the tree store selected by tree.backend.
func NewTreeStore(p Params) (tree.Store, error) {
	var cfg treeConfig
	if err := p.Config.Get(_configKeyTree).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyTree, err)
	}

	switch cfg.Backend {
	case "", _backendMemory:
		p.Logger.Infow("using in-process tree store")
		return memtree.New(), nil
	case _backendRTDB:
		c, err := rtdb.New(cfg.RTDB, nil, p.Logger.With("store", "tree"), p.Stats.SubScope("tree"))
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				c.Close()
				return nil
			},
		})
		return c, nil
	}
	return nil, fmt.Errorf("unknown tree backend %q", cfg.Backend)
}

// NewBlobStore returns the blob store selected by blob.backend.
func NewBlobStore(p Params) (blob.Store, error) {
	var cfg blob.Config
	if err := p.Config.Get(_configKeyBlob).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyBlob, err)
	}

	switch cfg.Backend {
	case "", _backendMemory:
		p.Logger.Infow("using in-process blob store")
		return blob.NewMemory(), nil
	case _backendGCS:
		g, err := blob.NewGCS(context.Background(), cfg, p.Logger.With("store", "blob"), p.Stats.SubScope("blob"))
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return g.Close()
			},
		})
		return g, nil
	}
	return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
}

// NewPeerFactory returns the WebRTC peer factory configured by the signaling block.
func NewPeerFactory(p Params) (peer.Factory, error) {
	var cfg peer.Config
	if err := p.Config.Get(_configKeySignaling).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeySignaling, err)
	}
	return peer.NewFactory(cfg, p.Logger.With("transport", "webrtc"))
}
