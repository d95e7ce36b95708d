package sweeper_fx

import (
	"context"

	"go.uber.org/fx"

	"plantcare/internal/repositories"
	"plantcare/internal/services"
	"plantcare/internal/workers"
)

var Module = fx.Options(
	fx.Provide(provideSweeper),
	fx.Invoke(startSweeper),
)

func provideSweeper(
	subs services.SubscriptionServiceInterface,
	subRepo repositories.ISubscriptionRepository,
	mailer services.IMailService,
) *workers.SubscriptionSweeper {
	return workers.NewSubscriptionSweeper(subs, subRepo, mailer)
}

func startSweeper(lc fx.Lifecycle, sweeper *workers.SubscriptionSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}
