package bootstrap

import (
	"log/slog"

	"glowbook/internal/infra/gateway"
	"glowbook/internal/pkg/config"
	"glowbook/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewGateway,
	),
)

// NewGateway picks the gateway transport. Stub mode keeps local runs and
// tests deterministic without a mobile-money account.
func NewGateway(cfg config.Config) commands.Gateway {
	if cfg.Gateway.UseStub {
		slog.Info("payment gateway running in stub mode")
		return gateway.NewStub()
	}
	return gateway.NewClient(cfg.Gateway)
}
