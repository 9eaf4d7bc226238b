package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelopeStampsTypeAndTime(t *testing.T) {
	env, err := NewEnvelope(TypeBookingCreated, BookingCreatedData{
		BookingID: "b-1",
		CarID:     "c-1",
		UserID:    "u-1",
	})
	require.NoError(t, err)

	assert.Equal(t, TypeBookingCreated, env.Type)
	assert.WithinDuration(t, time.Now(), env.Timestamp, time.Second)

	var decoded BookingCreatedData
	require.NoError(t, env.Decode(&decoded))
	assert.Equal(t, "b-1", decoded.BookingID)
	assert.Equal(t, "c-1", decoded.CarID)
}

func TestLogicalKeyDerivation(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		payload any
		want    string
	}{
		{
			name:    "booking id wins",
			typ:     TypeCarAvailabilityResult,
			payload: AvailabilityResultData{BookingID: "b-7", IsAvailable: true},
			want:    "car.availability_result-b-7",
		},
		{
			name:    "car id when no booking id",
			typ:     TypeCarUpdated,
			payload: CarUpdatedData{CarID: "c-3"},
			want:    "car.updated-c-3",
		},
		{
			name:    "user id when nothing else",
			typ:     TypeUserCreated,
			payload: UserCreatedData{UserID: "u-9", Email: "a@b.c"},
			want:    "user.created-u-9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := NewEnvelope(tt.typ, tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.LogicalKey())
		})
	}
}

func TestLogicalKeyIsStableAcrossRedelivery(t *testing.T) {
	// Redelivery produces a new broker delivery id but the same envelope;
	// the logical key must not change.
	env, err := NewEnvelope(TypeBookingConfirmed, BookingStatusData{BookingID: "b-1", Status: "confirmed"})
	require.NoError(t, err)

	redelivered := env
	assert.Equal(t, env.LogicalKey(), redelivered.LogicalKey())
}

func TestLogicalKeyFallsBackToTimestamp(t *testing.T) {
	env, err := NewEnvelope(TypeNotificationSend, map[string]string{"subject": "hi"})
	require.NoError(t, err)
	assert.Contains(t, env.LogicalKey(), TypeNotificationSend)
}
