package handlers

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/services/menu"
	"mutralo/internal/services/redemption"
	"mutralo/internal/services/reservation"
	"mutralo/internal/utils/pagination"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ConsumptionJournal lists the meals served by a restaurant.
type ConsumptionJournal interface {
	ListForRestaurant(ctx context.Context, restaurantID uint, day time.Time) ([]models.ConsumptionLog, error)
	CountForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (int64, error)
}

// ManagerHandler serves the restaurant side: scanning, dishes and
// reservations. Every route runs behind the scheduling gate, which sets the
// restaurant id.
type ManagerHandler struct {
	redemption   redemption.Service
	menus        menu.Service
	reservations reservation.Service
	journal      ConsumptionJournal
	settings     SettingsSource
	now          func() time.Time
}

func NewManagerHandler(
	redemptionService redemption.Service,
	menus menu.Service,
	reservations reservation.Service,
	journal ConsumptionJournal,
	settings SettingsSource,
) *ManagerHandler {
	return &ManagerHandler{
		redemption:   redemptionService,
		menus:        menus,
		reservations: reservations,
		journal:      journal,
		settings:     settings,
		now:          time.Now,
	}
}

// Scan verifies a code without consuming anything.
func (h *ManagerHandler) Scan(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	code := c.Query("code")
	if code == "" {
		return response.BadRequest(c, "code is required")
	}

	v, err := h.redemption.Verify(c.UserContext(), code, restaurantID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "QR code valid", v)
}

// Redeem commits the meal for a scanned code.
func (h *ManagerHandler) Redeem(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	var input struct {
		Code   string `json:"code" validate:"required"`
		MenuID *uint  `json:"menu_id"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	ctx := c.UserContext()
	settings, err := h.settings.Current(ctx)
	if err != nil {
		return response.Fail(c, err)
	}

	receipt, err := h.redemption.Commit(ctx, redemption.CommitRequest{
		Code:         input.Code,
		RestaurantID: restaurantID,
		ValidatorID:  claims.UserID,
		MenuID:       input.MenuID,
	}, settings)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Meal validated", receipt)
}

// ListMenus lists the restaurant's dishes. With a date it returns that
// day's menu, otherwise every dish page by page.
func (h *ManagerHandler) ListMenus(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	ctx := c.UserContext()

	if date := c.Query("date"); date != "" {
		day, err := parseDay(date, h.now())
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		list, err := h.menus.ListForDay(ctx, restaurantID, day)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.Success(c, "Menus", list)
	}

	p := pagination.ParseFromRequest(c)
	list, total, err := h.menus.ListForRestaurant(ctx, restaurantID, p.Offset, p.Limit)
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

type menuInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description"`
	Courses     []string `json:"courses"`
	Date        string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Weekday     string   `json:"weekday" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	Price       int64    `json:"price" validate:"min=0"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
}

func (h *ManagerHandler) CreateMenu(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	var input menuInput
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	req := menu.CreateRequest{
		RestaurantID: restaurantID,
		Name:         input.Name,
		Description:  input.Description,
		Courses:      input.Courses,
		Weekday:      models.Weekday(input.Weekday),
		Price:        input.Price,
		Stock:        input.Stock,
	}
	if input.Date != "" {
		day, err := parseDay(input.Date, h.now())
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		req.Date = &day
	}

	m, err := h.menus.Create(c.UserContext(), req)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Created(c, "Dish created", m)
}

func (h *ManagerHandler) UpdateMenu(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dish id")
	}
	var input struct {
		Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
		Description *string  `json:"description"`
		Courses     []string `json:"courses"`
		Price       *int64   `json:"price" validate:"omitempty,min=0"`
		Stock       *int     `json:"stock" validate:"omitempty,min=0"`
		ClearStock  bool     `json:"clear_stock"`
		Available   *bool    `json:"available"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	m, err := h.menus.Update(c.UserContext(), restaurantID, id, menu.UpdateRequest{
		Name:        input.Name,
		Description: input.Description,
		Courses:     input.Courses,
		Price:       input.Price,
		Stock:       input.Stock,
		ClearStock:  input.ClearStock,
		Available:   input.Available,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Dish updated", m)
}

func (h *ManagerHandler) DeleteMenu(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dish id")
	}
	if err := h.menus.Delete(c.UserContext(), restaurantID, id); err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Dish deleted", nil)
}

// DuplicateMenus copies one day's dishes onto another day.
func (h *ManagerHandler) DuplicateMenus(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	var input struct {
		Source  string `json:"source_date" validate:"required,datetime=2006-01-02"`
		Target  string `json:"target_date" validate:"required,datetime=2006-01-02"`
		Replace bool   `json:"replace"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	source, err := parseDay(input.Source, h.now())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	target, err := parseDay(input.Target, h.now())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	n, err := h.menus.Duplicate(c.UserContext(), restaurantID, source, target, input.Replace)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Menus duplicated", fiber.Map{"created": n})
}

func (h *ManagerHandler) ListReservations(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	day, err := parseDay(c.Query("date"), h.now())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	status := models.ReservationStatus(c.Query("status"))

	list, err := h.reservations.ListForRestaurant(c.UserContext(), restaurantID, day, status)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Reservations", list)
}

func (h *ManagerHandler) ConfirmReservation(c *fiber.Ctx) error {
	return h.transition(c, "Reservation confirmed", h.reservations.Confirm)
}

func (h *ManagerHandler) CompleteReservation(c *fiber.Ctx) error {
	return h.transition(c, "Reservation completed", h.reservations.Complete)
}

func (h *ManagerHandler) CancelReservation(c *fiber.Ctx) error {
	return h.transition(c, "Reservation cancelled", h.reservations.Cancel)
}

// transition applies op to a reservation of the manager's restaurant.
func (h *ManagerHandler) transition(c *fiber.Ctx, message string, op func(context.Context, uint) (*models.Reservation, error)) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
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
	if r.RestaurantID != restaurantID {
		return response.Forbidden(c, "Reservation belongs to another restaurant")
	}

	r, err = op(ctx, id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, message, r)
}

// Consumptions lists the meals served on a day.
func (h *ManagerHandler) Consumptions(c *fiber.Ctx) error {
	restaurantID, ok := restaurantOf(c)
	if !ok {
		return response.Unauthorized(c)
	}
	day, err := parseDay(c.Query("date"), h.now())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	ctx := c.UserContext()

	list, err := h.journal.ListForRestaurant(ctx, restaurantID, day)
	if err != nil {
		return response.Fail(c, err)
	}
	count, err := h.journal.CountForRestaurant(ctx, restaurantID, day)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Consumptions", fiber.Map{
		"date":  day.Format(dateLayout),
		"count": count,
		"items": list,
	})
}
