package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/config"
	"dungeondesk/internal/handlers"
	"dungeondesk/internal/identity"
	"dungeondesk/internal/middleware"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
	"dungeondesk/internal/services"
	"dungeondesk/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the services rely on.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Npc{}, &models.Character{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// The broker is optional; without AMQP_URL the services simply skip
	// event publishing.
	var events rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.AMQPURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	}

	userRepo := repositories.NewGORMUserRepository(db)
	npcRepo := repositories.NewGORMNpcRepository(db)
	characterRepo := repositories.NewGORMCharacterRepository(db)

	authService := services.NewAuthService(userRepo, events, cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost)
	npcService := services.NewNpcService(npcRepo)
	characterService := services.NewCharacterService(characterRepo)

	// Federated login only works when the provider is configured; the
	// credential path is unaffected either way.
	var verifier identity.TokenVerifier
	var identityService *services.IdentityService
	if cfg.Auth0Audience != "" && cfg.Auth0Issuer != "" {
		auth0, err := identity.NewAuth0Verifier(cfg.Auth0Audience, cfg.Auth0Issuer)
		if err != nil {
			log.Fatalf("Failed to initialize Auth0 verifier: %v", err)
		}
		verifier = auth0
		profile := identity.NewUserinfoFetcher(cfg.Auth0Issuer, cfg.UserinfoTimeout)
		identityService = services.NewIdentityService(userRepo, profile, events)
	} else {
		log.Println("AUTH0_AUDIENCE/AUTH0_ISSUER not set, federated login disabled")
	}

	authHandler := handlers.NewAuthHandler(authService)
	npcHandler := handlers.NewNpcHandler(npcService)
	characterHandler := handlers.NewCharacterHandler(characterService)
	healthHandler := handlers.NewHealthHandler(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperrors.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: true,
	}))

	app.Get("/health", healthHandler.HandleCheck)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService, userRepo, verifier, identityService))
	npcHandler.RegisterRoutes(protected)
	characterHandler.RegisterRoutes(protected)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.Port)
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
