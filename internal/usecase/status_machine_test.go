package usecase

import (
	"context"
	"sync"
	"testing"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusReq(status entity.BookingStatus) *request.UpdateBookingStatusRequest {
	return &request.UpdateBookingStatusRequest{Status: string(status)}
}

// seedBooking plants a booking directly in the fake store so transition
// tests can start from any state.
func seedBooking(t *testing.T, env *testEnv, mutate func(*entity.Booking)) (*entity.Booking, uuid.UUID, uuid.UUID) {
	t.Helper()
	providerID := seedProvider(t, env, mondayMorningHours())
	serviceID := seedService(t, env, providerID, "30 min", 50, 10)
	clientID := uuid.New()

	created, err := env.svc.Booking.CreateBooking(context.Background(), clientID, bookingReq(serviceID, mondayDate, "09:00", "09:30"))
	require.NoError(t, err)

	bookingID := uuid.MustParse(created.ID)
	booking := env.bookings.get(bookingID)
	if mutate != nil {
		mutate(&booking)
		env.bookings.bookings[bookingID] = booking
	}
	return &booking, clientID, providerID
}

func TestTransitionTableExhaustive(t *testing.T) {
	statuses := []entity.BookingStatus{
		entity.BookingStatusRegistered,
		entity.BookingStatusPending,
		entity.BookingStatusConfirmed,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	}
	targets := []entity.BookingStatus{
		entity.BookingStatusPending,
		entity.BookingStatusConfirmed,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	}
	roles := []string{entity.RoleClient, entity.RoleBusiness, entity.RoleAdmin}

	type edge struct {
		role    string
		current entity.BookingStatus
		target  entity.BookingStatus
	}
	legal := map[edge]bool{
		{entity.RoleClient, entity.BookingStatusRegistered, entity.BookingStatusCancelled}: true,
		{entity.RoleClient, entity.BookingStatusPending, entity.BookingStatusCancelled}:    true,
		{entity.RoleClient, entity.BookingStatusPending, entity.BookingStatusCompleted}:    true,
		{entity.RoleClient, entity.BookingStatusConfirmed, entity.BookingStatusCompleted}:  true,
		{entity.RoleBusiness, entity.BookingStatusPending, entity.BookingStatusConfirmed}:  true,
		{entity.RoleBusiness, entity.BookingStatusPending, entity.BookingStatusCancelled}:  true,
		{entity.RoleAdmin, entity.BookingStatusRegistered, entity.BookingStatusCancelled}:  true,
		{entity.RoleAdmin, entity.BookingStatusPending, entity.BookingStatusCancelled}:     true,
		{entity.RoleAdmin, entity.BookingStatusConfirmed, entity.BookingStatusCancelled}:   true,
		{entity.RoleAdmin, entity.BookingStatusCancelled, entity.BookingStatusCancelled}:   true,
	}

	for _, role := range roles {
		for _, current := range statuses {
			for _, target := range targets {
				got := transitionAllowed(role, current, target)
				want := legal[edge{role, current, target}]
				assert.Equal(t, want, got, "role=%s current=%s target=%s", role, current, target)
			}
		}
	}
}

func TestUpdateStatusForbiddenBeforeIllegal(t *testing.T) {
	env := newTestEnv()
	booking, _, _ := seedBooking(t, env, nil)

	// Wrong client, and the transition itself would also be illegal. The
	// ownership failure must win.
	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), uuid.New(), entity.RoleClient, booking.ID, statusReq(entity.BookingStatusConfirmed))
	assert.ErrorIs(t, err, ErrForbidden)

	// Wrong provider.
	_, err = env.svc.Booking.UpdateBookingStatus(context.Background(), uuid.New(), entity.RoleBusiness, booking.ID, statusReq(entity.BookingStatusConfirmed))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	env := newTestEnv()
	booking, clientID, _ := seedBooking(t, env, nil)

	// registered -> confirmed is not a client edge.
	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusConfirmed))
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestBusinessAcceptsPendingBooking(t *testing.T) {
	env := newTestEnv()
	booking, _, providerID := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusPending
	})

	resp, err := env.svc.Booking.UpdateBookingStatus(context.Background(), providerID, entity.RoleBusiness, booking.ID, statusReq(entity.BookingStatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Equal(t, entity.BookingStatusConfirmed, env.bookings.get(booking.ID).Status)
}

func TestAdminCannotCancelCompleted(t *testing.T) {
	env := newTestEnv()
	booking, _, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusCompleted
	})

	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), uuid.New(), entity.RoleAdmin, booking.ID, statusReq(entity.BookingStatusCancelled))
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCompletionPaysOutGrossMinusFee(t *testing.T) {
	env := newTestEnv()
	env.gateway.fee = 59

	txID := "cs_test_123"
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentStatus = entity.PaymentStatusPaid
		b.TransactionID = &txID
	})

	resp, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, resp.Status)

	// Fee was fetched lazily, cached, and the payout is gross minus fee:
	// 50.00 * 100 - 59 = 4941.
	require.Len(t, env.gateway.transferCalls, 1)
	assert.Equal(t, int64(4941), env.gateway.transferCalls[0])
	assert.Equal(t, 1, env.gateway.feeCalls)

	stored := env.bookings.get(booking.ID)
	assert.True(t, stored.IsTransferred)
	assert.Equal(t, int64(59), stored.StripeFeeAmount)
}

func TestCompletionUsesCachedFee(t *testing.T) {
	env := newTestEnv()

	txID := "cs_test_123"
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentStatus = entity.PaymentStatusPaid
		b.TransactionID = &txID
		b.StripeFeeAmount = 100
	})

	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
	require.NoError(t, err)

	assert.Equal(t, 0, env.gateway.feeCalls)
	require.Len(t, env.gateway.transferCalls, 1)
	assert.Equal(t, int64(4900), env.gateway.transferCalls[0])
}

func TestPayoutAtMostOnce(t *testing.T) {
	env := newTestEnv()

	txID := "cs_test_123"
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentStatus = entity.PaymentStatusPaid
		b.TransactionID = &txID
	})

	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, 1, env.gateway.transferCount())

	// Force the state back and replay the completion. The guard must hold.
	stored := env.bookings.get(booking.ID)
	stored.Status = entity.BookingStatusConfirmed
	env.bookings.bookings[booking.ID] = stored

	_, err = env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, 1, env.gateway.transferCount())
}

func TestPayoutAtMostOnceConcurrent(t *testing.T) {
	env := newTestEnv()

	txID := "cs_test_123"
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentStatus = entity.PaymentStatusPaid
		b.TransactionID = &txID
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, env.gateway.transferCount())
	assert.True(t, env.bookings.get(booking.ID).IsTransferred)
}

func TestPayoutSkippedForHandCash(t *testing.T) {
	env := newTestEnv()
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentMethod = entity.PaymentMethodHandCash
		b.PaymentStatus = entity.PaymentStatusAwaitingCash
	})

	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
	require.NoError(t, err)
	assert.Zero(t, env.gateway.transferCount())
}

func TestPayoutFailureKeepsStatus(t *testing.T) {
	env := newTestEnv()
	env.gateway.transferErr = assert.AnError

	txID := "cs_test_123"
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentStatus = entity.PaymentStatusPaid
		b.TransactionID = &txID
	})

	resp, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, resp.Status)
	assert.Equal(t, entity.BookingStatusCompleted, env.bookings.get(booking.ID).Status)
}

func TestCancellationRefundsPaidOnlineBooking(t *testing.T) {
	env := newTestEnv()

	txID := "cs_test_123"
	booking, clientID, _ := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusPending
		b.PaymentStatus = entity.PaymentStatusPaid
		b.TransactionID = &txID
	})

	reason := "changed plans"
	req := &request.UpdateBookingStatusRequest{Status: "cancelled", Reason: &reason}
	resp, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, req)
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusCancelled, resp.Status)
	require.Len(t, env.gateway.refundCalls, 1)
	assert.Equal(t, txID, env.gateway.refundCalls[0])

	stored := env.bookings.get(booking.ID)
	require.NotNil(t, stored.Reason)
	assert.Equal(t, reason, *stored.Reason)
}

func TestCancellationWithoutPaymentSkipsRefund(t *testing.T) {
	env := newTestEnv()
	booking, clientID, _ := seedBooking(t, env, nil)

	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), clientID, entity.RoleClient, booking.ID, statusReq(entity.BookingStatusCancelled))
	require.NoError(t, err)
	assert.Empty(t, env.gateway.refundCalls)
}

func TestTransitionNotifiesCounterparty(t *testing.T) {
	env := newTestEnv()
	booking, _, providerID := seedBooking(t, env, func(b *entity.Booking) {
		b.Status = entity.BookingStatusPending
	})

	before := env.notifs.countFor(booking.UserID)
	_, err := env.svc.Booking.UpdateBookingStatus(context.Background(), providerID, entity.RoleBusiness, booking.ID, statusReq(entity.BookingStatusConfirmed))
	require.NoError(t, err)

	assert.Equal(t, before+1, env.notifs.countFor(booking.UserID))
}
