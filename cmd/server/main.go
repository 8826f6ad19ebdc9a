// Package main is the entry point for the canteen ticket API.
// It loads the configuration, wires every repository and service,
// sets up the HTTP server and starts listening.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"mutralo/internal/config"
	"mutralo/internal/events"
	"mutralo/internal/handlers"
	"mutralo/internal/metrics"
	"mutralo/internal/middleware"
	"mutralo/internal/repositories"
	"mutralo/internal/repositories/cache"
	"mutralo/internal/routes"
	"mutralo/internal/services/audit"
	"mutralo/internal/services/auth"
	"mutralo/internal/services/menu"
	"mutralo/internal/services/planning"
	"mutralo/internal/services/purchase"
	"mutralo/internal/services/qrcode"
	"mutralo/internal/services/redemption"
	"mutralo/internal/services/reservation"
	"mutralo/internal/services/settings"
	"mutralo/internal/services/ticket"
	"mutralo/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := repositories.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repositories.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	go logPoolStats(ctx, sqlDB.Stats)

	// Redis is optional: without it every read goes to PostgreSQL.
	var (
		cacheService  *cache.CacheService
		settingsCache settings.Cache
		redisCheck    handlers.Pinger
	)
	if c := repositories.NewCache(cfg.Redis, cfg.SettingsCacheTTL); c.HealthCheck(ctx) != nil {
		log.Printf("⚠️ Redis unreachable at %s, running without cache", cfg.Redis.Addr())
		_ = c.Close()
	} else {
		cacheService = c
		settingsCache = c
		redisCheck = handlers.PingFunc(c.HealthCheck)
		defer func() {
			if err := c.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}()
		log.Println("✅ Redis connected")
	}

	var (
		publisher events.Publisher = events.NoopPublisher{}
		natsCheck handlers.Pinger
	)
	if cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect event publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
		natsCheck = handlers.PingFunc(pub.Ping)
	}

	// Repositories
	tx := repositories.NewTransactor(db)
	userRepo := repositories.NewUserRepository(db, cacheService)
	auditRepo := repositories.NewAuditRepository(db)
	consumptionRepo := repositories.NewConsumptionLogRepository(db)
	organizationRepo := repositories.NewOrganizationRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)

	// Services
	recorder := metrics.NewRecorder()
	tokens := utils.NewJWTManager(cfg.Auth)

	auditService := audit.NewService(auditRepo)
	authService := auth.NewService(userRepo, tokens, auditService)
	settingsService := settings.NewService(repositories.NewSettingsRepository(db), settingsCache, cfg.SettingsCacheTTL, auditService, publisher)
	ticketService := ticket.NewService(repositories.NewTicketRepository(db), purchaseRepo, userRepo, tx)
	qrService := qrcode.NewService(repositories.NewQRCodeRepository(db), ticketService, userRepo, tx)
	menuService := menu.NewService(repositories.NewMenuRepository(db), reservationRepo, tx)
	reservationService := reservation.NewService(reservationRepo, menuService, ticketService, tx)
	planningService := planning.NewService(repositories.NewPlanningRepository(db), tx)
	purchaseService := purchase.NewService(purchaseRepo, ticketService, userRepo, tx, publisher, recorder)
	redemptionService := redemption.NewService(redemption.Deps{
		Tickets:      ticketService,
		Tokens:       qrService,
		Menus:        menuService,
		Reservations: reservationService,
		Users:        userRepo,
		Consumption:  consumptionRepo,
		Tx:           tx,
		Publisher:    publisher,
		Metrics:      recorder,
	})

	// The audit trail also follows the event bus so that redemptions and
	// sales committed by other instances are journaled.
	if cfg.NATS.URL != "" {
		sub, err := events.NewNATSSubscriber(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect event subscriber: %v", err)
		}
		defer sub.Close()
		if err := auditService.Subscribe(ctx, sub); err != nil {
			log.Fatalf("Failed to subscribe audit trail: %v", err)
		}
	}

	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, cfg.IsProduction(), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		Client:  handlers.NewClientHandler(qrService, ticketService, reservationService, menuService, settingsService, userRepo),
		Manager: handlers.NewManagerHandler(redemptionService, menuService, reservationService, consumptionRepo, settingsService),
		Cashier: handlers.NewCashierHandler(purchaseService, planningService, settingsService),
		Admin: handlers.NewAdminHandler(
			settingsService,
			planningService,
			purchaseService,
			ticketService,
			auditService,
			organizationRepo,
			userRepo,
		),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": handlers.PingFunc(sqlDB.PingContext),
			"redis":    redisCheck,
			"nats":     natsCheck,
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, authService),
		Schedule:       planningService,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	routes.SetupRoutes(app, h, routes.Limits{
		Login: cfg.Server.LoginLimit,
		QR:    cfg.Server.QRLimit,
	})

	log.Printf("🚀 Server listening on :%s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

func logPoolStats(ctx context.Context, stats func() sql.DBStats) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				s.OpenConnections, s.Idle, s.InUse, s.WaitCount, s.WaitDuration)
		}
	}
}
