package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(SubjectTicketSold, 7, map[string]int{"count": 3})
	require.NoError(t, err)

	assert.Len(t, env.ID, 36)
	assert.Equal(t, SubjectTicketSold, env.Type)
	assert.Equal(t, uint(7), env.ActorID)
	assert.JSONEq(t, `{"count":3}`, string(env.Payload))

	data, err := json.Marshal(env)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, env.ID, decoded.ID)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes envelope", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("Publish", ctx, SubjectRedemptionCommitted, mock.MatchedBy(func(data []byte) bool {
			env, err := Decode(data)
			return err == nil && env.Type == SubjectRedemptionCommitted
		})).Return(nil)

		Emit(ctx, pub, SubjectRedemptionCommitted, 1, map[string]string{"ticket": "202403-00001"})
		pub.AssertExpectations(t)
	})

	t.Run("swallows publish error", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("Publish", ctx, SubjectTicketRefunded, mock.Anything).Return(errors.New("nats down"))

		assert.NotPanics(t, func() {
			Emit(ctx, pub, SubjectTicketRefunded, 1, nil)
		})
		pub.AssertExpectations(t)
	})

	t.Run("nil publisher", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Emit(ctx, nil, SubjectTicketSold, 1, nil)
		})
	})
}

func TestSend_KeepsEnvelopeID(t *testing.T) {
	ctx := context.Background()
	env, err := NewEnvelope(SubjectSettingsUpdated, 1, map[string]int{"quota": 2})
	require.NoError(t, err)

	pub := new(MockPublisher)
	pub.On("Publish", ctx, SubjectSettingsUpdated, mock.MatchedBy(func(data []byte) bool {
		got, err := Decode(data)
		return err == nil && got.ID == env.ID
	})).Return(nil)

	Send(ctx, pub, env)
	pub.AssertExpectations(t)

	assert.NotPanics(t, func() { Send(ctx, nil, env) })
}
