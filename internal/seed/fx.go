package seed

import (
	"context"

	"github.com/cashtrail/console/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("seed",
	fx.Provide(New),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, seeder *Seeder, cfg config.Config, log *zap.Logger) {
	if !cfg.SeedData {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := seeder.Run(ctx); err != nil {
				log.Error("seed failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
