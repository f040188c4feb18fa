package app

import (
	"context"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway"
	"github.com/LuminationDev/leadme-classroom/src/leadme/handler"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/activeclass"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/clock"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/core"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/eventloop"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/fs"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/jsonrpcfx"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
)

// Module defines the leader application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	activeclass.Module,
	eventloop.Module,
	fs.Module,
	fx.Provide(clock.New),
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newRootScope),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

func newRootScope(lc fx.Lifecycle, cfg config.Provider) tally.Scope {
	var service string
	if err := cfg.Get("service.name").Populate(&service); err != nil || service == "" {
		service = "leadme"
	}

	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix: service,
		Tags: map[string]string{
			"service": service,
		},
	}, 1*time.Second)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return rs
}
