package handlers

import (
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/services/planning"
	"mutralo/internal/services/purchase"
	"mutralo/internal/utils/pagination"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// CashierHandler serves ticket sales and the agency's own plannings.
type CashierHandler struct {
	purchases purchase.Service
	plannings planning.Service
	settings  SettingsSource
	now       func() time.Time
}

func NewCashierHandler(purchases purchase.Service, plannings planning.Service, settings SettingsSource) *CashierHandler {
	return &CashierHandler{
		purchases: purchases,
		plannings: plannings,
		settings:  settings,
		now:       time.Now,
	}
}

func (h *CashierHandler) Sell(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	var input struct {
		ClientID uint   `json:"client_id" validate:"required"`
		Count    int    `json:"count" validate:"required,min=1"`
		Notes    string `json:"notes" validate:"max=500"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	ctx := c.UserContext()
	settings, err := h.settings.Current(ctx)
	if err != nil {
		return response.Fail(c, err)
	}

	p, err := h.purchases.Sell(ctx, purchase.SaleRequest{
		ClientID:  input.ClientID,
		CashierID: claims.UserID,
		AgencyID:  claims.AgencyID,
		Count:     input.Count,
		Notes:     input.Notes,
	}, settings)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Created(c, "Tickets sold", p)
}

func (h *CashierHandler) ListSales(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	p := pagination.ParseFromRequest(c)

	list, total, err := h.purchases.ListForCashier(c.UserContext(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

// ClientQuota tells the cashier how many purchases the client has left this month.
func (h *CashierHandler) ClientQuota(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid client id")
	}
	ctx := c.UserContext()
	settings, err := h.settings.Current(ctx)
	if err != nil {
		return response.Fail(c, err)
	}

	q, err := h.purchases.QuotaStatus(ctx, clientID, settings)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, "Quota", q)
}

func (h *CashierHandler) ListPlannings(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.AgencyID == nil {
		return response.Forbidden(c, "No agency is assigned to this account")
	}
	p := pagination.ParseFromRequest(c)

	list, total, err := h.plannings.List(c.UserContext(), repositories.PlanningFilter{
		AgencyID:   *claims.AgencyID,
		ActiveOnly: c.QueryBool("active"),
		Offset:     p.Offset,
		Limit:      p.Limit,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

// CreatePlanning schedules a restaurant for the cashier's own agency.
func (h *CashierHandler) CreatePlanning(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.AgencyID == nil {
		return response.Forbidden(c, "No agency is assigned to this account")
	}
	var input planningInput
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.AgencyID = *claims.AgencyID

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

type planningInput struct {
	RestaurantID uint   `json:"restaurant_id" validate:"required"`
	AgencyID     uint   `json:"agency_id"`
	Type         string `json:"type" validate:"omitempty,oneof=WEEKLY MONTHLY"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (in planningInput) request(actorID uint) (planning.AssignRequest, error) {
	start, err := parseDay(in.StartDate, time.Time{})
	if err != nil {
		return planning.AssignRequest{}, err
	}
	end, err := parseDay(in.EndDate, time.Time{})
	if err != nil {
		return planning.AssignRequest{}, err
	}
	return planning.AssignRequest{
		RestaurantID: in.RestaurantID,
		AgencyID:     in.AgencyID,
		Type:         models.PlanningType(in.Type),
		StartDate:    start,
		EndDate:      end,
		CreatedBy:    actorID,
	}, nil
}
