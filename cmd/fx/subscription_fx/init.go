package subscription_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"plantcare/internal/api/controllers"
	"plantcare/internal/repositories"
	"plantcare/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo, provideUserRepo,
	provideSubscriptionService, provideSubscriptionController)

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideUserRepo(db *gorm.DB) repositories.IUserRepository {
	return repositories.NewUserRepository(db)
}

func provideSubscriptionService(
	subRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(subRepo, planRepo)
}

func provideSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService)
}
