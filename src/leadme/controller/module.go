package controller

import (
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/classroom"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/roster"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/signaling"
	"github.com/LuminationDev/leadme-classroom/src/leadme/controller/tabs"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(classroom.New),
	fx.Provide(roster.New),
	fx.Provide(tabs.New),
	fx.Provide(signaling.NewFactory),
)
