package components

import (
	repo_impl "glowbook/internal/infra/repository"
	"glowbook/internal/usecase/commands"
	"glowbook/internal/usecase/queries"
	"glowbook/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(queries.BookingReader)),
			fx.As(new(sweeper.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewNegotiationRepository,
			fx.As(new(commands.NegotiationRepository)),
			fx.As(new(queries.ConversationReader)),
			fx.As(new(sweeper.NegotiationRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(commands.PaymentRepository)),
			fx.As(new(queries.PaymentReader)),
			fx.As(new(sweeper.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
			fx.As(new(sweeper.NotificationRepository)),
		),
	),
)
