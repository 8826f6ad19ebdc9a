// Package audit keeps the journal of sensitive actions. Entries are written
// directly by the services that need one and from the domain event stream.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"mutralo/internal/events"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type Service interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
	Subscribe(ctx context.Context, sub events.Subscriber) error
	List(ctx context.Context, filter repositories.AuditFilter) ([]models.AuditEntry, int64, error)
}

// mapping says how an event on a subject is journaled. idKey names the
// payload field holding the entity identifier.
type mapping struct {
	action models.AuditAction
	entity string
	idKey  string
}

var subjectMappings = map[string]mapping{
	events.SubjectRedemptionCommitted: {models.AuditConsumption, "ticket", "ticket_id"},
	events.SubjectTicketSold:          {models.AuditPurchase, "purchase", "purchase_id"},
	events.SubjectTicketRefunded:      {models.AuditRefund, "purchase", "purchase_id"},
	events.SubjectSettingsUpdated:     {models.AuditUpdate, "settings", "id"},
}

type service struct {
	repo repositories.AuditRepository
}

func NewService(repo repositories.AuditRepository) Service {
	if repo == nil {
		panic("audit repository is required")
	}
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, entry *models.AuditEntry) error {
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// Subscribe attaches one handler per published subject.
func (s *service) Subscribe(ctx context.Context, sub events.Subscriber) error {
	for _, subject := range events.Subjects {
		if err := sub.Subscribe(ctx, subject, s.handle); err != nil {
			return err
		}
	}
	log.Printf("✅ Audit journal subscribed to %d subjects", len(events.Subjects))
	return nil
}

func (s *service) List(ctx context.Context, filter repositories.AuditFilter) ([]models.AuditEntry, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) handle(ctx context.Context, env *events.Envelope) error {
	entry, err := EntryFromEvent(env)
	if err != nil {
		return err
	}
	return s.Record(ctx, entry)
}

// EntryFromEvent converts an event into the entry it is journaled as.
func EntryFromEvent(env *events.Envelope) (*models.AuditEntry, error) {
	m, ok := subjectMappings[env.Type]
	if !ok {
		return nil, fmt.Errorf("no audit mapping for subject %q", env.Type)
	}

	details := models.JSON{}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &details); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}

	entry := &models.AuditEntry{
		Action:    m.action,
		Entity:    m.entity,
		Details:   details,
		EventID:   env.ID,
		CreatedAt: env.OccurredAt,
	}
	if v, ok := details[m.idKey]; ok && v != nil {
		entry.EntityID = fmt.Sprintf("%v", v)
	}
	if env.ActorID != 0 {
		actor := env.ActorID
		entry.UserID = &actor
	}
	return entry, nil
}
