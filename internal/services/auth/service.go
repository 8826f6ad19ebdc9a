package auth

import (
	"context"
	"errors"
	"log"
	"strconv"

	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrTokenVersion       = errors.New("token version mismatch")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain special characters")
)

type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

// TokenManager signs and parses session tokens.
type TokenManager interface {
	GenerateTokens(claims *models.UserClaims) (string, string, error)
	ParseRefreshToken(token string) (*models.UserClaims, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}

var _ TokenManager = (*utils.JWTManager)(nil)

type service struct {
	userRepo repositories.UserRepository
	tokens   TokenManager
	audit    AuditRecorder
}

// NewService creates the auth service. audit may be nil.
func NewService(userRepo repositories.UserRepository, tokens TokenManager, audit AuditRecorder) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	if tokens == nil {
		panic("token manager is required")
	}
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		audit:    audit,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			log.Printf("Login failed: user not found for %s", email)
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if !user.Active {
		log.Printf("Login failed: user %d is deactivated", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for user ID: %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.GenerateTokens(claimsFor(user))
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("failed to record last login for user %d: %v", user.ID, err)
	}
	s.record(ctx, user.ID, models.AuditLogin)
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}
	if !user.Active {
		return "", "", ErrInvalidToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", "", ErrTokenVersion
	}

	return s.tokens.GenerateTokens(claimsFor(user))
}

// Logout invalidates every token issued to the user so far.
func (s *service) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return err
	}
	s.record(ctx, userID, models.AuditLogout)
	return nil
}

func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	cached, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	// Cached users carry no password hash.
	user, err := s.userRepo.GetByEmail(ctx, cached.Email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	if len(newPassword) < 8 || !utils.HasSpecialChar(newPassword) {
		return ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.TokenVersion++
	return s.userRepo.Update(ctx, user)
}

func (s *service) GetUserTokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !user.Active {
		return 0, ErrInvalidCredentials
	}
	return user.TokenVersion, nil
}

func (s *service) record(ctx context.Context, userID uint, action models.AuditAction) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		UserID:   &userID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatUint(uint64(userID), 10),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		log.Printf("failed to audit %s for user %d: %v", action, userID, err)
	}
}

func claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:              user.ID,
		Email:               user.Email,
		Role:                user.Role,
		TokenVersion:        user.TokenVersion,
		Permissions:         models.GetDefaultPermissions(user.Role),
		AgencyID:            user.AgencyID,
		ManagedRestaurantID: user.ManagedRestaurantID,
	}
}
