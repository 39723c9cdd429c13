package simulator

import (
	"context"

	"github.com/cashtrail/console/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("simulator",
	fx.Provide(New),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, sim *Simulator, cfg config.Config, log *zap.Logger) {
	if !cfg.SimulatorEnabled {
		log.Info("simulator disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sim.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
