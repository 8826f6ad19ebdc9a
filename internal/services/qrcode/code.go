package qrcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"mutralo/internal/models"
)

// GenerateCode derives a code from the user identity and a nanosecond timestamp.
func GenerateCode(userID uint, email string, at time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d_%d_%s", userID, at.UnixNano(), email)))
	return hex.EncodeToString(sum[:])
}

// payload is the snapshot embedded in the QR image so the scanner app can
// show the holder before the server answers.
func payload(user *models.User, code string, tickets int64, expiresAt time.Time) models.JSON {
	return models.JSON{
		"code":       code,
		"user_id":    user.ID,
		"name":       user.FullName(),
		"email":      user.Email,
		"matricule":  user.MatriculeOrDash(),
		"agency":     user.AgencyName(),
		"tickets":    tickets,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}
