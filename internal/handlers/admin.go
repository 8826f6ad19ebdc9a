package handlers

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/services/audit"
	"mutralo/internal/services/planning"
	"mutralo/internal/services/purchase"
	"mutralo/internal/services/settings"
	"mutralo/internal/services/ticket"
	"mutralo/internal/utils/pagination"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Directory manages the organization tree and user accounts.
type Directory interface {
	CreateDirection(ctx context.Context, direction *models.Direction) error
	CreateAgency(ctx context.Context, agency *models.Agency) error
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error
	ListAgencies(ctx context.Context) ([]models.Agency, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

type UserAdmin interface {
	Create(ctx context.Context, user *models.User) error
	ListByRole(ctx context.Context, role string, offset, limit int) ([]models.User, int64, error)
}

type AdminHandler struct {
	settings  settings.Service
	plannings planning.Service
	purchases purchase.Service
	tickets   ticket.Service
	audit     audit.Service
	directory Directory
	users     UserAdmin
	now       func() time.Time
}

func NewAdminHandler(
	settingsService settings.Service,
	plannings planning.Service,
	purchases purchase.Service,
	tickets ticket.Service,
	auditService audit.Service,
	directory Directory,
	users UserAdmin,
) *AdminHandler {
	return &AdminHandler{
		settings:  settingsService,
		plannings: plannings,
		purchases: purchases,
		tickets:   tickets,
		audit:     auditService,
		directory: directory,
		users:     users,
		now:       time.Now,
	}
}

func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	s, err := h.settings.Current(c.UserContext())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Settings", s)
}

func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		MinTicketsPerPurchase int   `json:"min_tickets_per_purchase"`
		MaxTicketsPerPurchase int   `json:"max_tickets_per_purchase"`
		MaxPurchasesPerMonth  int   `json:"max_purchases_per_month"`
		TicketPrice           int64 `json:"ticket_price"`
		TicketFullPrice       int64 `json:"ticket_full_price"`
		TicketSubsidy         int64 `json:"ticket_subsidy"`
		QRCodeTTLMinutes      int   `json:"qr_code_ttl_minutes"`
		ReservationLeadDays   int   `json:"reservation_lead_days"`
		NotifyOnPurchase      bool  `json:"notify_on_purchase"`
		NotifyOnConsumption   bool  `json:"notify_on_consumption"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	s, err := h.settings.Update(c.UserContext(), models.Settings{
		MinTicketsPerPurchase: input.MinTicketsPerPurchase,
		MaxTicketsPerPurchase: input.MaxTicketsPerPurchase,
		MaxPurchasesPerMonth:  input.MaxPurchasesPerMonth,
		TicketPrice:           input.TicketPrice,
		TicketFullPrice:       input.TicketFullPrice,
		TicketSubsidy:         input.TicketSubsidy,
		QRCodeTTLMinutes:      input.QRCodeTTLMinutes,
		ReservationLeadDays:   input.ReservationLeadDays,
		NotifyOnPurchase:      input.NotifyOnPurchase,
		NotifyOnConsumption:   input.NotifyOnConsumption,
	}, claims.UserID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Settings updated", s)
}

func (h *AdminHandler) ListPlannings(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.PlanningFilter{
		ActiveOnly: c.QueryBool("active"),
		Offset:     p.Offset,
		Limit:      p.Limit,
	}
	if id, ok := queryID(c, "agency_id"); ok {
		filter.AgencyID = id
	}
	if id, ok := queryID(c, "restaurant_id"); ok {
		filter.RestaurantID = id
	}

	list, total, err := h.plannings.List(c.UserContext(), filter)
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

func (h *AdminHandler) GetPlanning(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid planning id")
	}
	pl, err := h.plannings.Get(c.UserContext(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Planning", pl)
}

func (h *AdminHandler) CreatePlanning(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input planningInput
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	if input.AgencyID == 0 {
		return response.BadRequest(c, "agency_id is required")
	}

	req, err := input.request(claims.UserID)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	pl, err := h.plannings.Assign(c.UserContext(), req)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Created(c, "Planning created", pl)
}

func (h *AdminHandler) UpdatePlanning(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid planning id")
	}
	var input struct {
		RestaurantID *uint  `json:"restaurant_id"`
		Type         string `json:"type" validate:"omitempty,oneof=WEEKLY MONTHLY"`
		StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
		EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
		Active       *bool  `json:"active"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	req := planning.UpdateRequest{RestaurantID: input.RestaurantID, Active: input.Active}
	if input.Type != "" {
		t := models.PlanningType(input.Type)
		req.Type = &t
	}
	if input.StartDate != "" {
		start, err := parseDay(input.StartDate, time.Time{})
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		req.StartDate = &start
	}
	if input.EndDate != "" {
		end, err := parseDay(input.EndDate, time.Time{})
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		req.EndDate = &end
	}

	pl, err := h.plannings.Update(c.UserContext(), id, req)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Planning updated", pl)
}

func (h *AdminHandler) DeactivatePlanning(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid planning id")
	}
	pl, err := h.plannings.Deactivate(c.UserContext(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Planning deactivated", pl)
}

func (h *AdminHandler) DeletePlanning(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid planning id")
	}
	if err := h.plannings.Delete(c.UserContext(), id); err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Planning deleted", nil)
}

func (h *AdminHandler) RefundPurchase(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid purchase id")
	}
	p, err := h.purchases.Refund(c.UserContext(), id, claims.UserID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Purchase refunded", p)
}

func (h *AdminHandler) CancelTicket(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid ticket id")
	}
	t, err := h.tickets.Cancel(c.UserContext(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Ticket cancelled", t)
}

// ExpireTickets expires every available ticket whose window has ended.
func (h *AdminHandler) ExpireTickets(c *fiber.Ctx) error {
	n, err := h.tickets.ExpireOverdue(c.UserContext(), h.now())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Tickets expired", fiber.Map{"expired": n})
}

func (h *AdminHandler) ListAudit(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.AuditFilter{
		Action: models.AuditAction(c.Query("action")),
		Entity: c.Query("entity"),
		Offset: p.Offset,
		Limit:  p.Limit,
	}
	if id, ok := queryID(c, "user_id"); ok {
		filter.UserID = &id
	}
	if from := c.Query("from"); from != "" {
		day, err := parseDay(from, h.now())
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		filter.From = day
	}
	if to := c.Query("to"); to != "" {
		day, err := parseDay(to, h.now())
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		filter.To = day.AddDate(0, 0, 1)
	}

	list, total, err := h.audit.List(c.UserContext(), filter)
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

func (h *AdminHandler) ListAgencies(c *fiber.Ctx) error {
	list, err := h.directory.ListAgencies(c.UserContext())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Agencies", list)
}

func (h *AdminHandler) CreateAgency(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name" validate:"required"`
		Code        string `json:"code" validate:"required,max=20"`
		DirectionID *uint  `json:"direction_id"`
		Address     string `json:"address"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	agency := &models.Agency{
		Name:        input.Name,
		Code:        input.Code,
		DirectionID: input.DirectionID,
		Address:     input.Address,
		Active:      true,
	}
	if err := h.directory.CreateAgency(c.UserContext(), agency); err != nil {
		return h.conflictOr(c, err, "Agency code already exists")
	}
	return response.Created(c, "Agency created", agency)
}

func (h *AdminHandler) CreateDirection(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"required,max=20"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	direction := &models.Direction{Name: input.Name, Code: input.Code, Active: true}
	if err := h.directory.CreateDirection(c.UserContext(), direction); err != nil {
		return h.conflictOr(c, err, "Direction code already exists")
	}
	return response.Created(c, "Direction created", direction)
}

func (h *AdminHandler) ListRestaurants(c *fiber.Ctx) error {
	list, err := h.directory.ListRestaurants(c.UserContext())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Restaurants", list)
}

func (h *AdminHandler) CreateRestaurant(c *fiber.Ctx) error {
	var input struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email" validate:"omitempty,email"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	restaurant := &models.Restaurant{
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
		Email:   input.Email,
		Status:  models.RestaurantActive,
	}
	if err := h.directory.CreateRestaurant(c.UserContext(), restaurant); err != nil {
		return response.Fail(c, err)
	}
	return response.Created(c, "Restaurant created", restaurant)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	role := c.Query("role", models.RoleClient)

	list, total, err := h.users.ListByRole(c.UserContext(), role, p.Offset, p.Limit)
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

// CreateUser opens an account of any role.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var input struct {
		Email               string `json:"email" validate:"required,email"`
		Password            string `json:"password" validate:"required,min=8"`
		FirstName           string `json:"first_name" validate:"required"`
		LastName            string `json:"last_name" validate:"required"`
		Phone               string `json:"phone"`
		Matricule           string `json:"matricule"`
		Role                string `json:"role" validate:"required,oneof=client cashier manager admin"`
		DirectionID         *uint  `json:"direction_id"`
		AgencyID            *uint  `json:"agency_id"`
		ManagedRestaurantID *uint  `json:"restaurant_id"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.ServerError(c, "Failed to hash password")
	}
	user := &models.User{
		Email:               input.Email,
		Password:            string(hash),
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		Phone:               input.Phone,
		Role:                input.Role,
		DirectionID:         input.DirectionID,
		AgencyID:            input.AgencyID,
		ManagedRestaurantID: input.ManagedRestaurantID,
		Active:              true,
		TokenVersion:        1,
	}
	if input.Matricule != "" {
		m := input.Matricule
		user.Matricule = &m
	}
	if err := h.users.Create(c.UserContext(), user); err != nil {
		return h.conflictOr(c, err, "Email or matricule already in use")
	}
	return response.Created(c, "User created", user)
}

func (h *AdminHandler) conflictOr(c *fiber.Ctx, err error, message string) error {
	if repositories.IsDuplicate(err) {
		return response.Error(c, fiber.StatusConflict, message)
	}
	return response.Fail(c, err)
}
