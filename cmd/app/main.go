package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"plantcare/cmd/fx/db_fx"
	"plantcare/cmd/fx/mail_fx"
	"plantcare/cmd/fx/payment_fx"
	"plantcare/cmd/fx/plan_fx"
	"plantcare/cmd/fx/subscription_fx"
	"plantcare/cmd/fx/sweeper_fx"
	"plantcare/internal/api/controllers"
	"plantcare/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		plan_fx.Module,
		subscription_fx.Module,
		payment_fx.Module,
		mail_fx.Module,
		sweeper_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	paymentController *controllers.PaymentController,
	subscriptionController *controllers.SubscriptionController,
	planController *controllers.PlanController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, paymentController, subscriptionController, planController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	paymentController *controllers.PaymentController,
	subscriptionController *controllers.SubscriptionController,
	planController *controllers.PlanController) {

	// Gateway callbacks and the plan catalog stay public.
	plansGroup := r.Group("/plans")
	plansGroup.GET("", planController.GetPublicPlans)
	plansGroup.GET("/:id", planController.GetPlanByID)

	paymentsGroup := r.Group("/payments")
	paymentsGroup.GET("/vnpay-return", paymentController.HandleReturn)
	paymentsGroup.GET("/vnpay-ipn", paymentController.HandleIPN)

	authPayments := paymentsGroup.Group("")
	authPayments.Use(middleware.JWTAuthMiddleware())
	authPayments.POST("", paymentController.CreatePayment)
	authPayments.GET("/history", paymentController.GetPaymentHistory)
	authPayments.GET("/status/:orderId", paymentController.GetPaymentStatus)

	subsGroup := r.Group("/subscriptions")
	subsGroup.Use(middleware.JWTAuthMiddleware())
	subsGroup.POST("", subscriptionController.CreateSubscription)
	subsGroup.GET("/active", subscriptionController.GetActiveSubscription)
	subsGroup.GET("/history", subscriptionController.GetSubscriptionHistory)
	subsGroup.GET("/check-upgrade", subscriptionController.CheckUpgrade)
	subsGroup.POST("/cancel", subscriptionController.CancelSubscription)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("Admin"))
	adminGroup.GET("/payments", paymentController.GetAllPayments)
	adminGroup.GET("/payments/stats", paymentController.GetPaymentStats)
	adminGroup.POST("/subscriptions/assign", subscriptionController.AssignSubscription)
	adminGroup.GET("/subscriptions/expiring", subscriptionController.GetExpiringSubscriptions)
	adminGroup.GET("/subscriptions/stats", subscriptionController.GetSubscriptionStats)
	adminGroup.GET("/plans", planController.GetAllPlans)
	adminGroup.POST("/plans", planController.CreatePlan)
	adminGroup.PUT("/plans/:id", planController.UpdatePlan)
	adminGroup.DELETE("/plans/:id", planController.DeactivatePlan)
}
