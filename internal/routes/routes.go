package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/auth"
	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/config"
	"github.com/example/almajid/internal/handlers"
	"github.com/example/almajid/internal/metrics"
	"github.com/example/almajid/internal/middleware"
	"github.com/example/almajid/internal/repository"
	"github.com/example/almajid/internal/services"
	"github.com/example/almajid/internal/storage"
)

// Dependencies are the long-lived components the routes are built from.
type Dependencies struct {
	Config  *config.Config
	Repos   *repository.Repositories
	Storage storage.Provider
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Dependencies) {
	cfg, repos, m, log := deps.Config, deps.Repos, deps.Metrics, deps.Log

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + auth.GuestHeader,
		ExposeHeaders: auth.GuestHeader,
	}))

	builder := catalog.NewQueryBuilder(repos.Category, repos.Product, log)
	builder.OnCategoryMiss(func(slug string) {
		m.CategoryMisses.Inc()
		log.Debug("unknown category slug", zap.String("slug", slug))
	})
	pipeline := catalog.NewPipeline(builder)
	pipeline.OnFetch(m.ObserveFetch)

	hub := auth.NewHub()
	hub.Subscribe(auth.ListenerFunc(func(e auth.Event) {
		m.AuthEvents.WithLabelValues(string(e.Kind)).Inc()
		log.Info("auth event", zap.String("kind", string(e.Kind)), zap.String("email", e.Email))
	}))
	authService := auth.NewService(repos.User, repos.Token, hub, auth.Options{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenExpires,
		AdminEmail: cfg.AdminEmail,
	}, log)

	productService := services.NewProductService(repos.Product, repos.Category, log)
	productService.OnSKURetry(m.SKUCollisionRetries.Inc)
	favoriteService := services.NewFavoriteService(repos.Favorite, repos.Product, log)
	favoriteService.OnToggle(func(favorited bool) {
		state := "removed"
		if favorited {
			state = "added"
		}
		m.FavoriteToggles.WithLabelValues(state).Inc()
	})
	reviewService := services.NewReviewService(repos.Review, repos.Product, log)

	uploader := storage.NewUploader(deps.Storage, cfg.StorageFolder, log)
	uploader.OnReject(func(reason string) {
		m.UploadRejections.WithLabelValues(reason).Inc()
	})

	authHandler := handlers.NewAuthHandler(authService)
	resetHandler := handlers.NewPasswordResetHandler(authService, log, !cfg.IsProduction())
	profileHandler := handlers.NewProfileHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(repos.Category, repos.Product, pipeline)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	adminHandler := handlers.NewAdminHandler(productService, repos.Category, uploader)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	if disk, ok := deps.Storage.(*storage.Disk); ok {
		app.Static("/uploads", disk.Root())
	}

	api := app.Group("/api", middleware.OptionalAuth(authService))

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authHandler.SignUp)
	authRoutes.Post("/signin", authHandler.SignIn)
	authRoutes.Post("/password-reset", resetHandler.RequestReset)
	authRoutes.Post("/password-reset/confirm", resetHandler.ConfirmReset)
	authRoutes.Post("/signout", middleware.RequireAuth(authService), authHandler.SignOut)
	authRoutes.Get("/session", middleware.RequireAuth(authService), authHandler.Session)
	authRoutes.Put("/profile", middleware.RequireAuth(authService), profileHandler.UpdateProfile)

	// Catalog routes
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/categories/:slug", catalogHandler.GetCategory)
	api.Get("/catalog/options", catalogHandler.Options)

	products := api.Group("/products")
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Get("/:id/reviews", reviewHandler.List)
	products.Get("/:id/rating", reviewHandler.Summary)
	products.Post("/:id/reviews", middleware.Identity(), reviewHandler.Create)

	reviews := api.Group("/reviews", middleware.Identity())
	reviews.Put("/:id", reviewHandler.Update)
	reviews.Delete("/:id", reviewHandler.Delete)

	favorites := api.Group("/favorites", middleware.Identity())
	favorites.Get("/", favoriteHandler.List)
	favorites.Get("/:productId", favoriteHandler.Check)
	favorites.Put("/:productId", favoriteHandler.Add)
	favorites.Delete("/:productId", favoriteHandler.Remove)
	favorites.Post("/:productId/toggle", favoriteHandler.Toggle)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireAuth(authService), middleware.RequireAdmin())
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/sku", adminHandler.PreviewSKU)
	admin.Get("/products", adminHandler.ListProducts)
	admin.Get("/products/:id", adminHandler.GetProduct)
	admin.Post("/products", adminHandler.CreateProduct)
	admin.Patch("/products/:id", adminHandler.UpdateProduct)
	admin.Delete("/products/:id", adminHandler.DeleteProduct)
	admin.Post("/uploads", adminHandler.UploadImage)
	admin.Delete("/uploads", adminHandler.RemoveImage)
}
