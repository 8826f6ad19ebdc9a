// Package settings serves the business parameters read by every sale,
// reservation and QR code issuance.
package settings

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/events"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/repositories/cache"
)

type Service interface {
	Current(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, settings models.Settings, actorID uint) (models.Settings, error)
}

// Cache is the part of the Redis cache the settings service uses.
type Cache interface {
	CacheSettings(ctx context.Context, settings models.Settings, ttl time.Duration) error
	GetSettings(ctx context.Context) (models.Settings, error)
	InvalidateSettings(ctx context.Context) error
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}

var _ Cache = (*cache.CacheService)(nil)

type service struct {
	repo      repositories.SettingsRepository
	cache     Cache
	ttl       time.Duration
	audit     AuditRecorder
	publisher events.Publisher
	now       func() time.Time
}

// NewService creates the settings service. cache, audit and publisher may be
// nil; without a cache every call reads the database.
func NewService(repo repositories.SettingsRepository, c Cache, ttl time.Duration, audit AuditRecorder, publisher events.Publisher) Service {
	if repo == nil {
		panic("settings repository is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		cache:     c,
		ttl:       ttl,
		audit:     audit,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) Current(ctx context.Context) (models.Settings, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSettings(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("⚠️ settings cache read failed: %v", err)
		}
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if s.cache != nil {
		if err := s.cache.CacheSettings(ctx, settings, s.ttl); err != nil {
			log.Printf("⚠️ settings cache write failed: %v", err)
		}
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, settings models.Settings, actorID uint) (models.Settings, error) {
	if err := Validate(settings); err != nil {
		return models.Settings{}, err
	}

	settings.ID = models.SettingsID
	settings.UpdatedBy = &actorID
	settings.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSettings(ctx); err != nil {
			log.Printf("⚠️ settings cache invalidation failed: %v", err)
		}
	}

	payload := details(settings)
	env, err := events.NewEnvelope(events.SubjectSettingsUpdated, actorID, payload)
	if err != nil {
		log.Printf("⚠️ event %s: %v", events.SubjectSettingsUpdated, err)
		return settings, nil
	}
	if s.audit != nil {
		entry := &models.AuditEntry{
			UserID:   &actorID,
			Action:   models.AuditUpdate,
			Entity:   "settings",
			EntityID: strconv.Itoa(models.SettingsID),
			Details:  payload,
			EventID:  env.ID,
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			log.Printf("⚠️ settings audit failed: %v", err)
		}
	}
	events.Send(ctx, s.publisher, env)

	log.Printf("Settings updated by user %d", actorID)
	return settings, nil
}

// Validate checks that settings are internally consistent.
func Validate(s models.Settings) error {
	switch {
	case s.MinTicketsPerPurchase < 1,
		s.MaxTicketsPerPurchase < s.MinTicketsPerPurchase,
		s.MaxPurchasesPerMonth < 1,
		s.QRCodeTTLMinutes < 1,
		s.ReservationLeadDays < 0,
		s.TicketPrice < 0,
		s.TicketSubsidy < 0,
		s.TicketPrice+s.TicketSubsidy != s.TicketFullPrice:
		return apperrors.ErrInvalidSettings
	}
	return nil
}

func details(s models.Settings) models.JSON {
	return models.JSON{
		"id":                       models.SettingsID,
		"min_tickets_per_purchase": s.MinTicketsPerPurchase,
		"max_tickets_per_purchase": s.MaxTicketsPerPurchase,
		"max_purchases_per_month":  s.MaxPurchasesPerMonth,
		"ticket_price":             s.TicketPrice,
		"ticket_subsidy":           s.TicketSubsidy,
		"qr_code_ttl_minutes":      s.QRCodeTTLMinutes,
		"reservation_lead_days":    s.ReservationLeadDays,
	}
}
