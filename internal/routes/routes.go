// Package routes defines the API routing configuration.
// It groups the endpoints by role and applies the authentication,
// permission and scheduling middleware to each group.
package routes

import (
	"time"

	"mutralo/internal/handlers"
	"mutralo/internal/middleware"
	"mutralo/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers bundles everything the route table mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Client  *handlers.ClientHandler
	Manager *handlers.ManagerHandler
	Cashier *handlers.CashierHandler
	Admin   *handlers.AdminHandler
	Health  *handlers.HealthHandler

	AuthMiddleware *middleware.AuthMiddleware
	Schedule       middleware.ScheduleChecker
}

// Limits caps requests per client IP on the sensitive endpoints.
type Limits struct {
	Login int
	QR    int
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers, limits Limits) {
	app.Get("/health", h.Health.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/login", perMinute(limits.Login), h.Auth.LoginUser)
	api.Post("/refresh", h.Auth.RefreshToken)

	protected := api.Group("", h.AuthMiddleware.Handler)
	protected.Get("/me", h.Auth.Me)
	protected.Post("/logout", h.Auth.LogoutUser)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), h.Auth.ChangePassword)

	setupClientRoutes(protected, h.Client, limits)
	setupManagerRoutes(protected, h.Manager, h.Schedule)
	setupCashierRoutes(protected, h.Cashier)
	setupAdminRoutes(protected, h.Admin)
}

func setupClientRoutes(router fiber.Router, h *handlers.ClientHandler, limits Limits) {
	client := router.Group("/client", middleware.RequireRole(models.RoleClient))

	client.Post("/qr", middleware.HasPermission(models.PermissionQRIssue), perMinute(limits.QR), h.IssueQR)
	client.Get("/qr", middleware.HasPermission(models.PermissionQRIssue), h.CurrentQR)
	client.Get("/tickets", middleware.HasPermission(models.PermissionTicketRead), h.ListTickets)

	client.Get("/reservations", middleware.HasPermission(models.PermissionReservationWrite), h.ListReservations)
	client.Post("/reservations", middleware.HasPermission(models.PermissionReservationWrite), h.CreateReservation)
	client.Post("/reservations/:id/cancel", middleware.HasPermission(models.PermissionReservationWrite), h.CancelReservation)

	client.Get("/menus", h.ListMenus)
}

func setupManagerRoutes(router fiber.Router, h *handlers.ManagerHandler, schedule middleware.ScheduleChecker) {
	manager := router.Group("/manager",
		middleware.RequireRole(models.RoleManager),
		middleware.RequireScheduledRestaurant(schedule),
	)

	manager.Get("/scan", middleware.HasPermission(models.PermissionScan), h.Scan)
	manager.Post("/scan", middleware.HasPermission(models.PermissionScan), h.Redeem)
	manager.Get("/consumptions", middleware.HasPermission(models.PermissionScan), h.Consumptions)

	menus := manager.Group("/menus", middleware.HasPermission(models.PermissionMenuWrite))
	menus.Get("/", h.ListMenus)
	menus.Post("/", h.CreateMenu)
	menus.Post("/duplicate", h.DuplicateMenus)
	menus.Put("/:id", h.UpdateMenu)
	menus.Delete("/:id", h.DeleteMenu)

	reservations := manager.Group("/reservations", middleware.HasPermission(models.PermissionReservationManage))
	reservations.Get("/", h.ListReservations)
	reservations.Post("/:id/confirm", h.ConfirmReservation)
	reservations.Post("/:id/complete", h.CompleteReservation)
	reservations.Post("/:id/cancel", h.CancelReservation)
}

func setupCashierRoutes(router fiber.Router, h *handlers.CashierHandler) {
	cashier := router.Group("/cashier", middleware.RequireRole(models.RoleCashier))

	cashier.Post("/sales", middleware.HasPermission(models.PermissionSaleWrite), h.Sell)
	cashier.Get("/sales", middleware.HasPermission(models.PermissionSaleRead), h.ListSales)
	cashier.Get("/clients/:id/quota", middleware.HasPermission(models.PermissionSaleRead), h.ClientQuota)

	cashier.Get("/plannings", middleware.HasPermission(models.PermissionPlanningWrite), h.ListPlannings)
	cashier.Post("/plannings", middleware.HasPermission(models.PermissionPlanningWrite), h.CreatePlanning)
}

func setupAdminRoutes(router fiber.Router, h *handlers.AdminHandler) {
	admin := router.Group("/admin", middleware.RequireRole(models.RoleAdmin))

	admin.Get("/settings", h.GetSettings)
	admin.Put("/settings", middleware.HasPermission(models.PermissionSettingsWrite), h.UpdateSettings)

	plannings := admin.Group("/plannings", middleware.HasPermission(models.PermissionPlanningWrite))
	plannings.Get("/", h.ListPlannings)
	plannings.Post("/", h.CreatePlanning)
	plannings.Get("/:id", h.GetPlanning)
	plannings.Put("/:id", h.UpdatePlanning)
	plannings.Post("/:id/deactivate", h.DeactivatePlanning)
	plannings.Delete("/:id", h.DeletePlanning)

	admin.Post("/purchases/:id/refund", middleware.HasPermission(models.PermissionRefund), h.RefundPurchase)
	admin.Post("/tickets/:id/cancel", middleware.HasPermission(models.PermissionTicketAdmin), h.CancelTicket)
	admin.Post("/tickets/expire", middleware.HasPermission(models.PermissionTicketAdmin), h.ExpireTickets)
	admin.Get("/audit", middleware.HasPermission(models.PermissionAuditRead), h.ListAudit)

	admin.Get("/users", h.ListUsers)
	admin.Post("/users", h.CreateUser)
	admin.Get("/agencies", h.ListAgencies)
	admin.Post("/agencies", h.CreateAgency)
	admin.Post("/directions", h.CreateDirection)
	admin.Get("/restaurants", h.ListRestaurants)
	admin.Post("/restaurants", h.CreateRestaurant)
}

// perMinute limits each client IP to max requests per minute. A
// non-positive max disables the limit.
func perMinute(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	})
}
