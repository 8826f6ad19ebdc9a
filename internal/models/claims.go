package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Client permissions
	PermissionQRIssue          = "qr:issue"
	PermissionTicketRead       = "ticket:read"
	PermissionReservationWrite = "reservation:write"
	PermissionChangePassword   = "user:change-password"

	// Cashier permissions
	PermissionSaleWrite     = "sale:write"
	PermissionSaleRead      = "sale:read"
	PermissionPlanningWrite = "planning:write"

	// Manager permissions
	PermissionScan              = "redemption:scan"
	PermissionMenuWrite         = "menu:write"
	PermissionReservationManage = "reservation:manage"

	// Admin permissions
	PermissionSettingsWrite = "settings:write"
	PermissionRefund        = "purchase:refund"
	PermissionTicketAdmin   = "ticket:admin"
	PermissionAuditRead     = "audit:read"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID              uint     `json:"user_id"`
	Email               string   `json:"email"`
	Role                string   `json:"role"`
	Permissions         []string `json:"permissions"`
	TokenVersion        int      `json:"token_version"`
	AgencyID            *uint    `json:"agency_id,omitempty"`
	ManagedRestaurantID *uint    `json:"restaurant_id,omitempty"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionTicketRead,
			PermissionChangePassword,
			PermissionSaleWrite,
			PermissionSaleRead,
			PermissionPlanningWrite,
			PermissionMenuWrite,
			PermissionReservationManage,
			PermissionSettingsWrite,
			PermissionRefund,
			PermissionTicketAdmin,
			PermissionAuditRead,
		}
	case RoleCashier:
		return []string{
			PermissionChangePassword,
			PermissionSaleWrite,
			PermissionSaleRead,
			PermissionPlanningWrite,
		}
	case RoleManager:
		return []string{
			PermissionChangePassword,
			PermissionScan,
			PermissionMenuWrite,
			PermissionReservationManage,
		}
	case RoleClient:
		return []string{
			PermissionQRIssue,
			PermissionTicketRead,
			PermissionReservationWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
