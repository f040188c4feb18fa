package main

import (
	"github.com/LuminationDev/leadme-classroom/src/leadme/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
