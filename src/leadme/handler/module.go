package handler

import (
	controller "github.com/LuminationDev/leadme-classroom/src/leadme/controller"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/classroom"
	handler "github.com/LuminationDev/leadme-classroom/src/leadme/handler/classroom"
	"github.com/LuminationDev/leadme-classroom/src/leadme/repository/roster"
	"go.uber.org/fx"
)

// Module provides the leader's control endpoint into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(roster.New),
	fx.Provide(handler.New),
	fx.Invoke(func(h handler.Handler) {}),
	fx.Invoke(func(c classroom.Controller) {}),
)
