package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	CountByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date string) (int64, error)
	FindActiveByProviderAndDate(ctx context.Context, providerID uuid.UUID, date string) ([]*entity.Booking, error)
	FindActiveByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date string) ([]*entity.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, reason *string) error
	SetPaymentDetails(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus, transactionID string, feeAmount int64) error
	SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, paymentStatus entity.PaymentStatus) error
	SetStripeFee(ctx context.Context, bookingID uuid.UUID, feeAmount int64) error
	MarkTransferred(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

const bookingColumns = `id, user_id, provider_id, service_id, date, start_time, end_time,
		       status, payment_status, payment_method, total_amount, stripe_fee_amount,
		       is_transferred, transaction_id, reason, notes, created_at, updated_at`

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, provider_id, service_id, date, start_time, end_time,
		                      status, payment_status, payment_method, total_amount, stripe_fee_amount,
		                      is_transferred, transaction_id, reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ProviderID,
		booking.ServiceID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.PaymentStatus,
		booking.PaymentMethod,
		booking.TotalAmount,
		booking.StripeFeeAmount,
		booking.IsTransferred,
		booking.TransactionID,
		booking.Reason,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBookingRow(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryBookings(ctx, query, userID, limit, offset)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID)
}

func (r *bookingRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE provider_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryBookings(ctx, query, providerID, limit, offset)
}

func (r *bookingRepository) CountByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings WHERE provider_id = $1`, providerID)
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryBookings(ctx, query, limit, offset)
}

func (r *bookingRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings`)
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) CountByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings WHERE service_id = $1 AND date = $2`, serviceID, date)
}

func (r *bookingRepository) FindActiveByProviderAndDate(ctx context.Context, providerID uuid.UUID, date string) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE provider_id = $1 AND date = $2 AND status <> 'cancelled'
		ORDER BY start_time
	`

	return r.queryBookings(ctx, query, providerID, date)
}

func (r *bookingRepository) FindActiveByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date string) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE service_id = $1 AND date = $2 AND status <> 'cancelled'
		ORDER BY start_time
	`

	return r.queryBookings(ctx, query, serviceID, date)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, reason *string) error {
	query := `
		UPDATE bookings
		SET status = $2, reason = COALESCE($3, reason), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, bookingID, status, reason)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) SetPaymentDetails(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus, transactionID string, feeAmount int64) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, transaction_id = $4, stripe_fee_amount = $5, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, bookingID, status, paymentStatus, transactionID, feeAmount)
	if err != nil {
		r.log.Error("Failed to set booking payment details",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("set payment details for booking %s: %w", bookingID.String(), err)
	}

	return nil
}

func (r *bookingRepository) SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, paymentStatus entity.PaymentStatus) error {
	query := `UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, bookingID, paymentStatus)
	if err != nil {
		r.log.Error("Failed to set booking payment status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_status", string(paymentStatus)),
		)
		return fmt.Errorf("set payment status for booking %s: %w", bookingID.String(), err)
	}

	return nil
}

func (r *bookingRepository) SetStripeFee(ctx context.Context, bookingID uuid.UUID, feeAmount int64) error {
	query := `UPDATE bookings SET stripe_fee_amount = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, bookingID, feeAmount)
	if err != nil {
		r.log.Error("Failed to cache stripe fee",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("set stripe fee for booking %s: %w", bookingID.String(), err)
	}

	return nil
}

// MarkTransferred is the conditional check-and-set for the payout guard. It
// returns true only for the caller that actually flipped the flag, so a
// payout is issued at most once even under concurrent transition calls.
func (r *bookingRepository) MarkTransferred(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET is_transferred = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_transferred = FALSE
	`

	result, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to mark booking transferred",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("mark booking %s transferred: %w", bookingID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

// ==================== HELPERS ====================

func (r *bookingRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings", zap.Error(err))
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func scanBookingRow(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ProviderID,
		&booking.ServiceID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PaymentMethod,
		&booking.TotalAmount,
		&booking.StripeFeeAmount,
		&booking.IsTransferred,
		&booking.TransactionID,
		&booking.Reason,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
