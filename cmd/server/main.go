package main

import (
	"context"
	"log"

	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/logger"
	"storefront/repository"
	"storefront/routes"
	"storefront/services"
)

func main() {
	config.LoadEnv()

	zlog, err := logger.New(config.GetEnv("APP_ENV", "development"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	uri := config.GetEnv("MONGO_URI", "")
	dbName := config.GetEnv("DB_NAME", "storefront")
	_, db, err := database.Connect(ctx, uri, dbName)
	if err != nil {
		zlog.Fatal("failed to connect to mongo", "error", err)
	}
	zlog.Info("connected to mongo", "database", dbName)

	users := repository.NewMongoUserRepository(db)
	products := repository.NewMongoProductRepository(db)
	orders := repository.NewMongoOrderRepository(db)

	if err := users.EnsureIndexes(ctx); err != nil {
		zlog.Fatal("failed to ensure indexes", "error", err)
	}

	secret := []byte(config.GetEnv("JWT_SECRET", ""))
	if len(secret) == 0 {
		zlog.Fatal("JWT_SECRET must be set")
	}

	orderService := services.NewOrderService(products, orders, zlog)

	r := routes.NewRouter(routes.RouterConfig{
		AuthController:    controllers.NewAuthController(users, secret, zlog),
		ProductController: controllers.NewProductController(products, zlog),
		OrderController:   controllers.NewOrderController(orderService, products, users, zlog),
		JWTSecret:         secret,
		CORSOrigins:       config.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	})

	port := config.GetEnv("PORT", "8080")
	zlog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}
