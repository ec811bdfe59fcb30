package routes

import (
	"piata/internal/handlers"
	"piata/internal/middleware"
	"piata/internal/models"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	shopHandler *handlers.ShopHandler,
	productHandler *handlers.ProductHandler,
	producerHandler *handlers.ProducerHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	adminHandler *handlers.AdminHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	// --- Публичные маршруты ---
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/register/producer", authHandler.RegisterProducer).Methods("POST")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	router.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	router.HandleFunc("/shops", shopHandler.ListShops).Methods("GET")
	router.HandleFunc("/shops/user/{userId:[0-9]+}", shopHandler.ShopsByUser).Methods("GET")
	router.HandleFunc("/shops/{id:[0-9]+}", shopHandler.GetShop).Methods("GET")
	router.HandleFunc("/shops/{id:[0-9]+}/products", productHandler.ListShopProducts).Methods("GET")
	router.HandleFunc("/shops/{id:[0-9]+}/subscription", subscriptionHandler.GetShopConfig).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}", productHandler.GetProduct).Methods("GET")

	router.HandleFunc("/producers", producerHandler.ListProducers).Methods("GET")
	router.HandleFunc("/producers/{id:[0-9]+}", producerHandler.GetProducer).Methods("GET")

	// --- Защищённые JWT ---
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.Use(middleware.AdminFastLane)

	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	protected.HandleFunc("/users/change-password", authHandler.ChangePassword).Methods("POST")
	protected.HandleFunc("/users/{id:[0-9]+}", authHandler.UpdateProfile).Methods("PATCH")

	protected.HandleFunc("/shops/{id:[0-9]+}/subscribe", subscriptionHandler.Subscribe).Methods("POST")
	protected.HandleFunc("/subscriptions", subscriptionHandler.MySubscriptions).Methods("GET")
	protected.HandleFunc("/subscriptions/{id:[0-9]+}/status", subscriptionHandler.UpdateStatus).Methods("PATCH")
	protected.HandleFunc("/subscriptions/{id:[0-9]+}/cancel", subscriptionHandler.Cancel).Methods("POST")

	// --- Маршруты производителя (фастлейн пропускает админа) ---
	producer := protected.PathPrefix("").Subrouter()
	producer.Use(middleware.OnlyRole(models.RoleProducer))

	producer.HandleFunc("/my-shops", shopHandler.MyShops).Methods("GET")
	producer.HandleFunc("/shops", shopHandler.CreateShop).Methods("POST")
	producer.HandleFunc("/shops/{id:[0-9]+}", shopHandler.UpdateShop).Methods("PATCH")
	producer.HandleFunc("/shops/{id:[0-9]+}", shopHandler.DeleteShop).Methods("DELETE")

	producer.HandleFunc("/shops/{id:[0-9]+}/products", productHandler.CreateProduct).Methods("POST")
	producer.HandleFunc("/shops/{id:[0-9]+}/products/bulk", productHandler.CreateProducts).Methods("POST")
	producer.HandleFunc("/shops/{id:[0-9]+}/products/sync", productHandler.SyncProducts).Methods("PUT")
	producer.HandleFunc("/products/{id:[0-9]+}", productHandler.UpdateProduct).Methods("PATCH")
	producer.HandleFunc("/products/{id:[0-9]+}", productHandler.DeleteProduct).Methods("DELETE")

	// План и подписчики — строгое владение проверяется в сервисе,
	// поэтому фастлейн тут ничего не даёт админу кроме прохода роута.
	producer.HandleFunc("/shops/{id:[0-9]+}/subscription", subscriptionHandler.UpsertShopConfig).Methods("PUT")
	producer.HandleFunc("/shops/{id:[0-9]+}/subscription", subscriptionHandler.DeleteShopConfig).Methods("DELETE")
	producer.HandleFunc("/shops/{id:[0-9]+}/subscribers", subscriptionHandler.ShopSubscribers).Methods("GET")

	producer.HandleFunc("/producers", producerHandler.CreateProducer).Methods("POST")
	producer.HandleFunc("/producers/{id:[0-9]+}", producerHandler.UpdateProducer).Methods("PATCH")
	producer.HandleFunc("/producers/{id:[0-9]+}", producerHandler.DeleteProducer).Methods("DELETE")

	// --- Админка ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole(models.RoleAdmin))

	admin.HandleFunc("/users", adminHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.UpdateUser).Methods("PATCH")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/shops", adminHandler.GetShops).Methods("GET")
	admin.HandleFunc("/products", adminHandler.GetProducts).Methods("GET")
	admin.HandleFunc("/producers", adminHandler.GetProducers).Methods("GET")
	admin.HandleFunc("/stats", adminHandler.GetStats).Methods("GET")
}
