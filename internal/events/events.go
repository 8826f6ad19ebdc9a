// Package events carries domain notifications over NATS. Publishing happens
// after the database work it describes has committed, and a failed publish
// is logged, never returned to the caller.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	SubjectRedemptionCommitted = "redemption.committed"
	SubjectTicketSold          = "ticket.sold"
	SubjectTicketRefunded      = "ticket.refunded"
	SubjectSettingsUpdated     = "settings.updated"
)

// Subjects lists every subject the service publishes on.
var Subjects = []string{
	SubjectRedemptionCommitted,
	SubjectTicketSold,
	SubjectTicketRefunded,
	SubjectSettingsUpdated,
}

// Envelope is the JSON document sent on every subject.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	ActorID    uint            `json:"actor_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload for subject.
func NewEnvelope(subject string, actorID uint, payload interface{}) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	return &Envelope{
		ID:         uuid.NewString(),
		Type:       subject,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
		Payload:    raw,
	}, nil
}

// Decode parses an envelope received from the bus.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

type HandlerFunc func(ctx context.Context, env *Envelope) error

type Subscriber interface {
	Subscribe(ctx context.Context, subject string, handler HandlerFunc) error
}

// Emit publishes payload on subject and logs any failure.
func Emit(ctx context.Context, p Publisher, subject string, actorID uint, payload interface{}) {
	if p == nil {
		return
	}
	env, err := NewEnvelope(subject, actorID, payload)
	if err != nil {
		log.Printf("⚠️ event %s: %v", subject, err)
		return
	}
	Send(ctx, p, env)
}

// Send publishes an envelope built by the caller and logs any failure.
func Send(ctx context.Context, p Publisher, env *Envelope) {
	if p == nil || env == nil {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("⚠️ event %s: %v", env.Type, err)
		return
	}
	if err := p.Publish(ctx, env.Type, data); err != nil {
		log.Printf("⚠️ failed to publish %s (%s): %v", env.Type, env.ID, err)
	}
}

// NoopPublisher drops every event. It is used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }
