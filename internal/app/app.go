package app

import (
	"context"
	"piata/internal/cache"
	"piata/internal/config"
	"piata/internal/db"
	"piata/internal/handlers"
	"piata/internal/logger"
	"piata/internal/repository"
	"piata/internal/routes"
	"piata/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if err := db.RunMigrations(cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Redis опционален: без него каталог просто ходит в БД
	var catalogCache services.CatalogCache
	if cfg.RedisAddr != "" {
		c, err := cache.InitServer(context.Background(), cfg)
		if err != nil {
			logger.Log.Warn("Redis недоступен, кэш каталога отключён", zap.Error(err))
		} else {
			catalogCache = c
		}
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	shopRepo := repository.NewShopRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	producerRepo := repository.NewProducerRepository(conn)
	subscriptionRepo := repository.NewSubscriptionRepository(conn)

	// Резолвер владения — один на все виды ресурсов
	resolver := services.NewOwnershipResolver(shopRepo, productRepo, producerRepo)

	// Сервисы
	authService := services.NewAuthService(userRepo, shopRepo)
	shopService := services.NewShopService(shopRepo, subscriptionRepo, resolver, catalogCache)
	productService := services.NewProductService(productRepo, resolver, catalogCache)
	producerService := services.NewProducerService(producerRepo, resolver)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, resolver)
	adminService := services.NewAdminService(userRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	shopHandler := handlers.NewShopHandler(shopService)
	productHandler := handlers.NewProductHandler(productService)
	producerHandler := handlers.NewProducerHandler(producerService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	adminHandler := handlers.NewAdminHandler(adminService, shopService, productService, producerService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret,
		authHandler, shopHandler, productHandler, producerHandler, subscriptionHandler, adminHandler)

	return router, nil
}
