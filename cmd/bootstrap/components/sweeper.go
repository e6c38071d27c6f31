package components

import (
	"context"
	"log/slog"

	"glowbook/internal/pkg/config"
	"glowbook/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		sweeper.New,
	),
	fx.Invoke(startSweeper),
)

func startSweeper(lc fx.Lifecycle, s *sweeper.Sweeper, cfg config.Config) {
	if !cfg.Sweeper.Enabled {
		slog.Info("consistency sweeper disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			slog.Info("consistency sweeper started", "interval", cfg.Sweeper.Interval)
			go s.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
