package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mutralo/internal/events"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	handlers map[string]events.HandlerFunc
	err      error
}

func (f *fakeSubscriber) Subscribe(_ context.Context, subject string, handler events.HandlerFunc) error {
	if f.err != nil {
		return f.err
	}
	if f.handlers == nil {
		f.handlers = map[string]events.HandlerFunc{}
	}
	f.handlers[subject] = handler
	return nil
}

func TestEntryFromEvent(t *testing.T) {
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		subject    string
		payload    string
		actor      uint
		wantAction models.AuditAction
		wantEntity string
		wantID     string
	}{
		{"redemption", events.SubjectRedemptionCommitted, `{"ticket_id":42,"dish_name":"Riz gras"}`, 3, models.AuditConsumption, "ticket", "42"},
		{"sale", events.SubjectTicketSold, `{"purchase_id":11,"ticket_count":3}`, 2, models.AuditPurchase, "purchase", "11"},
		{"refund", events.SubjectTicketRefunded, `{"purchase_id":11}`, 1, models.AuditRefund, "purchase", "11"},
		{"settings without actor", events.SubjectSettingsUpdated, `{"id":1}`, 0, models.AuditUpdate, "settings", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &events.Envelope{
				ID:         "evt-1",
				Type:       tt.subject,
				OccurredAt: at,
				ActorID:    tt.actor,
				Payload:    json.RawMessage(tt.payload),
			}

			entry, err := EntryFromEvent(env)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAction, entry.Action)
			assert.Equal(t, tt.wantEntity, entry.Entity)
			assert.Equal(t, tt.wantID, entry.EntityID)
			assert.Equal(t, "evt-1", entry.EventID)
			assert.Equal(t, at, entry.CreatedAt)
			if tt.actor == 0 {
				assert.Nil(t, entry.UserID)
			} else {
				require.NotNil(t, entry.UserID)
				assert.Equal(t, tt.actor, *entry.UserID)
			}
		})
	}
}

func TestEntryFromEvent_Errors(t *testing.T) {
	_, err := EntryFromEvent(&events.Envelope{Type: "unknown.subject"})
	assert.Error(t, err)

	_, err = EntryFromEvent(&events.Envelope{Type: events.SubjectTicketSold, Payload: json.RawMessage(`[1,2]`)})
	assert.Error(t, err)
}

func TestService_Subscribe(t *testing.T) {
	repo := new(mocks.AuditRepository)
	s := NewService(repo)
	sub := &fakeSubscriber{}

	require.NoError(t, s.Subscribe(context.Background(), sub))
	assert.Len(t, sub.handlers, len(events.Subjects))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.AuditEntry) bool {
		return e.EventID == "evt-9" && e.Action == models.AuditPurchase
	})).Return(nil).Once()

	env, err := events.NewEnvelope(events.SubjectTicketSold, 2, map[string]uint{"purchase_id": 11})
	require.NoError(t, err)
	env.ID = "evt-9"

	require.NoError(t, sub.handlers[events.SubjectTicketSold](context.Background(), env))
	repo.AssertExpectations(t)
}

func TestService_SubscribeFailure(t *testing.T) {
	s := NewService(new(mocks.AuditRepository))
	err := s.Subscribe(context.Background(), &fakeSubscriber{err: errors.New("nats down")})
	assert.EqualError(t, err, "nats down")
}

func TestService_RecordWrapsError(t *testing.T) {
	repo := new(mocks.AuditRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDatabaseOperation)

	err := NewService(repo).Record(context.Background(), &models.AuditEntry{Action: models.AuditLogin})
	assert.ErrorIs(t, err, repositories.ErrDatabaseOperation)
}
