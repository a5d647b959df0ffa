package usecase

import (
	"context"
	"testing"

	"marketplace-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBusinessHours(t *testing.T) {
	env := newTestEnv()
	providerID := uuid.New()

	resp, err := env.svc.Provider.UpdateBusinessHours(context.Background(), providerID, &request.UpdateBusinessHoursRequest{
		BusinessHours: map[string]request.DayHoursRequest{
			"monday":  {From: "09:00", To: "17:00"},
			"tuesday": {From: "00:00", To: "00:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.BusinessHours, 2)

	stored, err := env.svc.Provider.GetBusinessHours(context.Background(), providerID)
	require.NoError(t, err)

	hours, open := stored.BusinessHours.Open("monday")
	assert.True(t, open)
	assert.Equal(t, "09:00", hours.From)

	// The explicit zero window reads as closed.
	_, open = stored.BusinessHours.Open("tuesday")
	assert.False(t, open)
	_, open = stored.BusinessHours.Open("wednesday")
	assert.False(t, open)
}

func TestUpdateBusinessHoursValidation(t *testing.T) {
	env := newTestEnv()
	providerID := uuid.New()

	cases := []map[string]request.DayHoursRequest{
		{"funday": {From: "09:00", To: "17:00"}},
		{"monday": {From: "9am", To: "17:00"}},
		{"monday": {From: "17:00", To: "09:00"}},
		{"monday": {From: "10:00", To: "10:00"}},
	}

	for i, hours := range cases {
		_, err := env.svc.Provider.UpdateBusinessHours(context.Background(), providerID, &request.UpdateBusinessHoursRequest{
			BusinessHours: hours,
		})
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}

func TestGetBusinessHoursForUnknownProvider(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.Provider.GetBusinessHours(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, resp.BusinessHours)
}
