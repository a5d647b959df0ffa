package usecase

import (
	"context"
	"testing"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableSlotsGrid(t *testing.T) {
	env := newTestEnv()
	providerID := seedProvider(t, env, mondayMorningHours())
	serviceID := seedService(t, env, providerID, "30 min", 50, 10)

	slots, err := env.svc.Catalog.AvailableSlots(context.Background(), serviceID, mondayDate)
	require.NoError(t, err)

	// 09:00-12:00 at 30 minutes: six slots, all free.
	require.Len(t, slots, 6)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[0].EndTime)
	assert.Equal(t, "11:30", slots[5].StartTime)
	assert.Equal(t, "12:00", slots[5].EndTime)
	for _, slot := range slots {
		assert.Equal(t, response.SlotAvailable, slot.Status)
	}
}

func TestAvailableSlotsMarksBooked(t *testing.T) {
	env := newTestEnv()
	providerID := seedProvider(t, env, mondayMorningHours())
	serviceID := seedService(t, env, providerID, "30 min", 50, 10)

	_, err := env.svc.Booking.CreateBooking(context.Background(), uuid.New(), bookingReq(serviceID, mondayDate, "10:00", "10:30"))
	require.NoError(t, err)

	slots, err := env.svc.Catalog.AvailableSlots(context.Background(), serviceID, mondayDate)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	for _, slot := range slots {
		if slot.StartTime == "10:00" {
			assert.Equal(t, response.SlotBooked, slot.Status)
		} else {
			assert.Equal(t, response.SlotAvailable, slot.Status)
		}
	}
}

func TestAvailableSlotsCancelledBookingFreesSlot(t *testing.T) {
	env := newTestEnv()
	providerID := seedProvider(t, env, mondayMorningHours())
	serviceID := seedService(t, env, providerID, "30 min", 50, 10)
	clientID := uuid.New()

	created, err := env.svc.Booking.CreateBooking(context.Background(), clientID, bookingReq(serviceID, mondayDate, "10:00", "10:30"))
	require.NoError(t, err)

	_, err = env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, uuid.MustParse(created.ID), statusReq(entity.BookingStatusCancelled))
	require.NoError(t, err)

	slots, err := env.svc.Catalog.AvailableSlots(context.Background(), serviceID, mondayDate)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.Equal(t, response.SlotAvailable, slot.Status, "slot %s", slot.StartTime)
	}
}

func TestAvailableSlotsClosedDay(t *testing.T) {
	env := newTestEnv()
	providerID := seedProvider(t, env, mondayMorningHours())
	serviceID := seedService(t, env, providerID, "30 min", 50, 10)

	slots, err := env.svc.Catalog.AvailableSlots(context.Background(), serviceID, tuesdayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsBadDurationIsConfigError(t *testing.T) {
	env := newTestEnv()
	providerID := seedProvider(t, env, mondayMorningHours())
	serviceID := seedService(t, env, providerID, "whenever", 50, 10)

	_, err := env.svc.Catalog.AvailableSlots(context.Background(), serviceID, mondayDate)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAvailableSlotsPartialTrailingSlotDropped(t *testing.T) {
	env := newTestEnv()
	providerID := seedProvider(t, env, entity.BusinessHours{
		"monday": {From: "09:00", To: "10:45"},
	})
	serviceID := seedService(t, env, providerID, "30 min", 50, 10)

	slots, err := env.svc.Catalog.AvailableSlots(context.Background(), serviceID, mondayDate)
	require.NoError(t, err)

	// 09:00, 09:30, 10:00 fit; 10:30-11:00 spills past close.
	require.Len(t, slots, 3)
	assert.Equal(t, "10:00", slots[2].StartTime)
}

func TestServiceLifecycle(t *testing.T) {
	env := newTestEnv()
	providerID := uuid.New()

	created, err := env.svc.Catalog.CreateService(context.Background(), providerID, &request.CreateServiceRequest{
		Name:              "Massage",
		Price:             80,
		Duration:          "1 hour",
		MaxBookingsPerDay: 5,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	serviceID := uuid.MustParse(created.ID)

	newPrice := 90.0
	updated, err := env.svc.Catalog.UpdateService(context.Background(), providerID, serviceID, &request.UpdateServiceRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Price)

	// Another provider cannot touch it.
	_, err = env.svc.Catalog.UpdateService(context.Background(), uuid.New(), serviceID, &request.UpdateServiceRequest{Price: &newPrice})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, env.svc.Catalog.DeleteService(context.Background(), uuid.New(), serviceID), ErrForbidden)

	require.NoError(t, env.svc.Catalog.DeleteService(context.Background(), providerID, serviceID))
	_, err = env.svc.Catalog.GetServiceByID(context.Background(), serviceID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateServiceRejectsBadDuration(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Catalog.CreateService(context.Background(), uuid.New(), &request.CreateServiceRequest{
		Name:              "Massage",
		Price:             80,
		Duration:          "whenever",
		MaxBookingsPerDay: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
