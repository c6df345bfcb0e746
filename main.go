package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"rotino/internal/config"
	"rotino/internal/database"
	"rotino/internal/handlers"
	"rotino/internal/middleware"
	"rotino/internal/orders"
	"rotino/internal/payments"
	"rotino/internal/repository"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureCatalogIndexes(db); err != nil {
		log.Printf("catalog index warning: %v", err)
	}

	// Payment stack selection happens exactly once, here. Mock is opt-in;
	// missing live credentials are a startup failure, never a silent fallback.
	var gateway payments.Gateway
	var verifier payments.Verifier
	if cfg.PaymentsMock() {
		log.Println("payments: MOCK mode enabled, no real provider orders will be created")
		gateway = payments.NewMockGateway()
		verifier = payments.MockVerifier{}
	} else {
		if cfg.RazorpayKeyID == "" || cfg.RazorpaySecret == "" {
			log.Fatal("payments: live mode requires RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET (set PAYMENTS_MODE=mock to run without them)")
		}
		gateway = payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpaySecret)
		verifier = payments.NewSigner(cfg.RazorpaySecret)
	}

	orderStore := repository.NewOrderRepository(db)
	catalog := repository.NewCatalogRepository(db)
	orderService := orders.NewService(orderStore, catalog, gateway, verifier, orders.Options{
		Currency:          cfg.Currency,
		ReceiptPrefix:     cfg.ReceiptPrefix,
		TaxRateBps:        cfg.TaxRateBps,
		EstimatedDelivery: cfg.EstimatedDelivery,
	})

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, cfg.JWTSecret, cfg.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(db, cfg.JWTSecret, cfg.AccessTokenTTL))
	r.GET("/auth/me", middleware.UserAuth(cfg.JWTSecret), handlers.GetMe(db))

	r.GET("/restaurants", handlers.ListRestaurants(catalog))
	r.GET("/restaurants/:id", handlers.GetRestaurant(catalog))
	r.GET("/menu/item/:itemId", handlers.GetMenuItem(catalog))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))
	}

	orderRoutes := r.Group("/orders")
	orderRoutes.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		orderRoutes.POST("", handlers.CreateOrder(orderService))
		orderRoutes.GET("/my-orders", handlers.MyOrders(orderService))
		orderRoutes.GET("/:orderId", handlers.GetOrder(orderService))
		orderRoutes.GET("/:orderId/tracking", handlers.GetTracking(orderService))
		orderRoutes.PATCH("/:orderId/cancel", handlers.CancelOrder(orderService))
		orderRoutes.POST("/:orderId/rate", handlers.RateOrder(orderService))
		orderRoutes.PATCH("/:orderId/status",
			middleware.RequireRole("restaurant", "delivery", "admin"),
			handlers.AdvanceOrderStatus(orderService))
	}

	paymentRoutes := r.Group("/payments")
	paymentRoutes.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		paymentRoutes.POST("/create-order", handlers.InitiatePayment(orderService))
		paymentRoutes.POST("/verify-payment", handlers.VerifyPayment(orderService))
		paymentRoutes.POST("/payment-failed", handlers.PaymentFailed(orderService))
		paymentRoutes.GET("/status/:orderId", handlers.PaymentStatus(orderService))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
