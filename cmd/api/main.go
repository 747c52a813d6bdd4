package main

import (
	"context"
	"log"
	"time"

	"revive-orders/internal/core/cache"
	"revive-orders/internal/core/config"
	"revive-orders/internal/core/logger"
	"revive-orders/internal/core/server"
	cartadapter "revive-orders/internal/features/cart/adapters"
	carthandler "revive-orders/internal/features/cart/handler"
	cartservice "revive-orders/internal/features/cart/service"
	catalogadapter "revive-orders/internal/features/catalog/adapters"
	cataloghandler "revive-orders/internal/features/catalog/handler"
	catalogports "revive-orders/internal/features/catalog/ports"
	catalogservice "revive-orders/internal/features/catalog/service"
	notifyadapter "revive-orders/internal/features/notifications/adapters"
	orderadapter "revive-orders/internal/features/orders/adapters"
	orderhandler "revive-orders/internal/features/orders/handler"
	orderports "revive-orders/internal/features/orders/ports"
	orderpoller "revive-orders/internal/features/orders/poller"
	orderservice "revive-orders/internal/features/orders/service"
	verifhandler "revive-orders/internal/features/verification/handler"
	verifservice "revive-orders/internal/features/verification/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// @title Revive Orders API
// @version 1.0
// @description Secondhand marketplace backend: catalog, cart, orders and their lifecycle.
// @contact.name API Support
// @contact.email support@reviveandrewear.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Persistence: MongoDB when configured, in-memory otherwise.
	var (
		orderStore   orderports.OrderStore
		productRepo  catalogports.ProductRepository
		categoryRepo catalogports.CategoryRepository
	)
	if cfg.Mongo.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			l.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			l.Fatal("MongoDB ping failed", zap.Error(err))
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.Mongo.Database)
		orderStore = orderadapter.NewMongoOrderStore(db)
		productRepo = catalogadapter.NewMongoProductRepository(db)
		categoryRepo = catalogadapter.NewMongoCategoryRepository(db)
		l.Info("MongoDB connection verified", zap.String("database", cfg.Mongo.Database))
	} else {
		orderStore = orderadapter.NewMemoryOrderStore()
		productRepo = catalogadapter.NewMemoryProductRepository()
		categoryRepo = catalogadapter.NewMemoryCategoryRepository()
		l.Warn("MONGO_URI not set, using in-memory stores")
	}

	// Redis backs carts and verification codes.
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Notifications: HTTP relay when configured, log sink otherwise.
	var mailer orderports.NotificationSink
	if cfg.Mailer.URL != "" {
		mailer = notifyadapter.NewHTTPMailer(cfg.Mailer.URL)
	} else {
		mailer = notifyadapter.NewLogMailer()
		l.Warn("MAILER_URL not set, emails go to the log")
	}

	// Services.
	catalogSvc := catalogservice.NewCatalogService(productRepo)
	categorySvc := catalogservice.NewCategoryService(categoryRepo)
	orderSvc := orderservice.NewOrderService(orderStore, catalogSvc, mailer, cfg.Orders.AdvanceInterval)
	cartSvc := cartservice.NewCartService(cartadapter.NewRedisCartRepository(redisCache), catalogSvc, orderSvc)
	verifSvc := verifservice.NewVerificationService(redisCache, mailer)

	// Handlers.
	productHdl := cataloghandler.NewProductHandler(catalogSvc)
	categoryHdl := cataloghandler.NewCategoryHandler(categorySvc)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)
	cartHdl := carthandler.NewCartHandler(cartSvc)
	verifHdl := verifhandler.NewVerificationHandler(verifSvc)

	srv := server.New(cfg)

	// Register Routes.
	srv.App.Post("/products/", productHdl.CreateProduct)
	srv.App.Get("/products/", productHdl.ListProducts)
	srv.App.Get("/products/seller", productHdl.GetSellerProducts)
	srv.App.Get("/products/:id", productHdl.GetProduct)
	srv.App.Put("/products/:id/approval", productHdl.SetApproval)
	srv.App.Delete("/products/:id", productHdl.DeleteProduct)

	srv.App.Post("/categories/", categoryHdl.CreateCategory)
	srv.App.Get("/categories/", categoryHdl.ListCategories)
	srv.App.Put("/categories/:id", categoryHdl.RenameCategory)
	srv.App.Delete("/categories/:id", categoryHdl.DeleteCategory)

	srv.App.Post("/cart/items", cartHdl.AddItem)
	srv.App.Get("/cart/", cartHdl.GetCart)
	srv.App.Put("/cart/items/:productId", cartHdl.UpdateQuantity)
	srv.App.Delete("/cart/items/:productId", cartHdl.RemoveItem)
	srv.App.Post("/cart/checkout", cartHdl.Checkout)

	srv.App.Post("/orders/", orderHdl.CreateOrder)
	srv.App.Get("/orders/user", orderHdl.GetUserOrders)
	srv.App.Get("/orders/:id", orderHdl.GetOrder)
	srv.App.Put("/orders/:id/status", orderHdl.UpdateOrderStatus)

	srv.App.Post("/verification/send", verifHdl.SendCode)
	srv.App.Post("/verification/verify", verifHdl.VerifyCode)

	// Background driver for time-based order progression.
	go orderpoller.New(orderSvc, cfg.Orders.PollInterval).Run(context.Background())

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
