package handlers

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/services/menu"
	"mutralo/internal/services/qrcode"
	"mutralo/internal/services/reservation"
	"mutralo/internal/services/ticket"
	"mutralo/internal/utils/pagination"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsSource returns the settings in force.
type SettingsSource interface {
	Current(ctx context.Context) (models.Settings, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// ClientHandler serves the employee-facing endpoints.
type ClientHandler struct {
	qrcodes      qrcode.Service
	tickets      ticket.Service
	reservations reservation.Service
	menus        menu.Service
	settings     SettingsSource
	users        UserReader
	now          func() time.Time
}

func NewClientHandler(
	qrcodes qrcode.Service,
	tickets ticket.Service,
	reservations reservation.Service,
	menus menu.Service,
	settings SettingsSource,
	users UserReader,
) *ClientHandler {
	return &ClientHandler{
		qrcodes:      qrcodes,
		tickets:      tickets,
		reservations: reservations,
		menus:        menus,
		settings:     settings,
		users:        users,
		now:          time.Now,
	}
}

// IssueQR replaces the client's live QR code with a fresh one.
func (h *ClientHandler) IssueQR(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	ctx := c.UserContext()

	user, err := h.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return response.Fail(c, err)
	}
	settings, err := h.settings.Current(ctx)
	if err != nil {
		return response.Fail(c, err)
	}

	qr, err := h.qrcodes.Issue(ctx, user, settings)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Created(c, "QR code generated", qr)
}

func (h *ClientHandler) CurrentQR(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	qr, err := h.qrcodes.Current(c.UserContext(), claims.UserID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Current QR code", qr)
}

func (h *ClientHandler) ListTickets(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	ctx := c.UserContext()
	p := pagination.ParseFromRequest(c)
	status := models.TicketStatus(c.Query("status"))

	list, total, err := h.tickets.ListByOwner(ctx, claims.UserID, status, p.Offset, p.Limit)
	if err != nil {
		return response.Fail(c, err)
	}
	redeemable, err := h.tickets.CountRedeemable(ctx, claims.UserID, h.now())
	if err != nil {
		return response.Fail(c, err)
	}

	p.Total = total
	body := pagination.Response(p, list)
	body["redeemable"] = redeemable
	return c.JSON(body)
}

func (h *ClientHandler) ListReservations(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	p := pagination.ParseFromRequest(c)

	list, total, err := h.reservations.ListForClient(c.UserContext(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

func (h *ClientHandler) CreateReservation(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		MenuID   uint   `json:"menu_id" validate:"required"`
		Date     string `json:"date" validate:"required,datetime=2006-01-02"`
		Quantity int    `json:"quantity" validate:"omitempty,min=1"`
		Notes    string `json:"notes" validate:"max=500"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	day, err := parseDay(input.Date, h.now())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	ctx := c.UserContext()
	settings, err := h.settings.Current(ctx)
	if err != nil {
		return response.Fail(c, err)
	}

	r, err := h.reservations.Create(ctx, reservation.CreateRequest{
		ClientID: claims.UserID,
		MenuID:   input.MenuID,
		Date:     day,
		Quantity: input.Quantity,
		Notes:    input.Notes,
	}, settings)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Created(c, "Reservation created", r)
}

// CancelReservation cancels one of the caller's own reservations.
func (h *ClientHandler) CancelReservation(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid reservation id")
	}
	ctx := c.UserContext()

	r, err := h.reservations.Get(ctx, id)
	if err != nil {
		return response.Fail(c, err)
	}
	if r.ClientID != claims.UserID {
		return response.Forbidden(c, "Reservation belongs to another client")
	}

	r, err = h.reservations.Cancel(ctx, id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Reservation cancelled", r)
}

// ListMenus shows the dishes a restaurant serves on a day.
func (h *ClientHandler) ListMenus(c *fiber.Ctx) error {
	restaurantID, ok := queryID(c, "restaurant_id")
	if !ok {
		return response.BadRequest(c, "restaurant_id is required")
	}
	day, err := parseDay(c.Query("date"), h.now())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	list, err := h.menus.ListAvailable(c.UserContext(), restaurantID, day)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Menus", list)
}
