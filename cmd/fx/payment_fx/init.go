package payment_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"plantcare/internal/api/controllers"
	"plantcare/internal/repositories"
	"plantcare/internal/services"
	"plantcare/pkg/memcache"
)

var Module = fx.Provide(
	providePaymentRepo, provideProcessedOrders,
	provideVNPayService, providePaymentService, providePaymentController)

func providePaymentRepo(db *gorm.DB) repositories.IPaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func provideProcessedOrders() memcache.ProcessedOrderStore {
	return memcache.NewProcessedOrders()
}

func provideVNPayService() services.IVNPayService {
	cfg := services.VNPayConfig{
		TmnCode:    os.Getenv("VNPAY_TMN_CODE"),
		HashSecret: os.Getenv("VNPAY_HASH_SECRET"),
		BaseURL:    os.Getenv("VNPAY_URL"),
		ReturnURL:  os.Getenv("VNPAY_RETURN_URL"),
		Locale:     os.Getenv("VNPAY_LOCALE"),
	}

	instance, err := services.NewVNPayService(cfg)
	if err != nil {
		log.Printf("Error initializing VNPayService: %v", err)
	}

	return instance
}

func providePaymentService(
	vnpay services.IVNPayService,
	paymentRepo repositories.IPaymentRepository,
	planRepo repositories.IPlanRepository,
	userRepo repositories.IUserRepository,
	subs services.SubscriptionServiceInterface,
	processed memcache.ProcessedOrderStore,
	mailer services.IMailService,
) services.PaymentServiceInterface {
	cfg := services.PaymentConfig{
		FrontendResultURL: os.Getenv("FRONTEND_PAYMENT_RESULT_URL"),
		AdminRole:         os.Getenv("ADMIN_ROLE"),
	}

	return services.NewPaymentService(vnpay, paymentRepo, planRepo, userRepo, subs, processed, mailer, cfg)
}

func providePaymentController(paymentService services.PaymentServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
