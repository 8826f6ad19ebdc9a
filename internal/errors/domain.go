package errors

// Ticket ledger
var (
	ErrInvalidCount      = newError(KindValidation, "INVALID_COUNT", "ticket count is outside the allowed bounds")
	ErrInvalidWindow     = newError(KindValidation, "INVALID_WINDOW", "validity window starts after it ends")
	ErrQuotaExceeded     = newError(KindPolicy, "QUOTA_EXCEEDED", "monthly purchase limit reached")
	ErrNotRedeemable     = newError(KindConflict, "NOT_REDEEMABLE", "ticket is not redeemable")
	ErrAlreadyConsumed   = newError(KindConflict, "ALREADY_CONSUMED", "ticket has already been consumed")
	ErrTicketNotFound    = newError(KindNotFound, "TICKET_NOT_FOUND", "ticket not found")
	ErrNoTicketAvailable = newError(KindPolicy, "NO_TICKET_AVAILABLE", "no valid ticket available for this employee")
)

// QR codes
var (
	ErrTokenNotFound    = newError(KindNotFound, "QR_NOT_FOUND", "QR code not found")
	ErrTokenInvalidated = newError(KindPolicy, "QR_INVALIDATED", "QR code is no longer valid")
	ErrTokenAlreadyUsed = newError(KindConflict, "QR_ALREADY_USED", "QR code has already been used")
	ErrTokenExpired     = newError(KindPolicy, "QR_EXPIRED", "QR code has expired")
	ErrNoValidTickets   = newError(KindPolicy, "NO_VALID_TICKETS", "no valid ticket available")
)

// Menus and reservations
var (
	ErrMenuNotFound          = newError(KindNotFound, "MENU_NOT_FOUND", "dish not found")
	ErrInvalidMenu           = newError(KindValidation, "INVALID_MENU", "dish requires a name, a non-negative price and a date or weekday")
	ErrInvalidQuantity       = newError(KindValidation, "INVALID_QUANTITY", "quantity must be at least 1")
	ErrMenuUnavailable       = newError(KindValidation, "MENU_UNAVAILABLE", "dish is not available")
	ErrMenuSoldOut           = newError(KindValidation, "MENU_SOLD_OUT", "dish is sold out; raise its stock before making it available")
	ErrInvalidDate           = newError(KindValidation, "INVALID_DATE", "reservation date is in the past")
	ErrDuplicateReservation  = newError(KindValidation, "DUPLICATE_RESERVATION", "a reservation already exists for this dish and date")
	ErrReservationNotFound   = newError(KindNotFound, "RESERVATION_NOT_FOUND", "reservation not found")
	ErrInvalidTransition     = newError(KindConflict, "INVALID_TRANSITION", "reservation cannot move to the requested status")
	ErrDishSelectionRequired = newError(KindPolicy, "DISH_SELECTION_REQUIRED", "a dish must be chosen before validating")
)

// Planning
var (
	ErrOverlapConflict        = newError(KindPolicy, "OVERLAP_CONFLICT", "agency already has another restaurant scheduled for this period")
	ErrInvalidRange           = newError(KindValidation, "INVALID_RANGE", "planning start date is after its end date")
	ErrInvalidPlanningType    = newError(KindValidation, "INVALID_PLANNING_TYPE", "planning type must be WEEKLY or MONTHLY")
	ErrPlanningNotFound       = newError(KindNotFound, "PLANNING_NOT_FOUND", "planning not found")
	ErrRestaurantNotScheduled = newError(KindPolicy, "RESTAURANT_NOT_SCHEDULED", "restaurant is not scheduled today")
	ErrNoManagedRestaurant    = newError(KindPolicy, "NO_MANAGED_RESTAURANT", "no restaurant is assigned to this account")
)

// Purchases and settings
var (
	ErrPurchaseNotFound   = newError(KindNotFound, "PURCHASE_NOT_FOUND", "purchase not found")
	ErrRefundNotAllowed   = newError(KindPolicy, "REFUND_NOT_ALLOWED", "only completed purchases can be refunded")
	ErrTicketsAlreadyUsed = newError(KindPolicy, "TICKETS_ALREADY_USED", "cannot refund: some tickets have already been consumed")
	ErrClientNotFound     = newError(KindNotFound, "CLIENT_NOT_FOUND", "client not found")
	ErrInvalidSettings    = newError(KindValidation, "INVALID_SETTINGS", "settings are inconsistent")
)
