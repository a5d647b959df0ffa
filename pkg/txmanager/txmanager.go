package txmanager

import (
	"context"
	"errors"
	"fmt"

	"marketplace-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const maxAttempts = 3

// Manager runs functions inside serializable database transactions. The
// transaction rides the context (see pkg/database), so repositories called
// from fn transparently use it.
type Manager struct {
	db  database.PgxIface
	log *zap.Logger
}

func New(db database.PgxIface, log *zap.Logger) *Manager {
	return &Manager{
		db:  db,
		log: log.With(zap.String("component", "txmanager")),
	}
}

// DoSerializable executes fn inside a serializable transaction, retrying on
// serialization conflicts up to maxAttempts times. Any other error aborts
// immediately and rolls back.
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}

		lastErr = err
		m.log.Warn("Serialization conflict, retrying transaction",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return fmt.Errorf("serializable transaction exhausted %d attempts: %w", maxAttempts, lastErr)
}

func (m *Manager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin serializable transaction: %w", err)
	}

	if err := fn(database.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.log.Error("Rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// SQLSTATE 40001 (serialization_failure) and 40P01 (deadlock_detected) are
// safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
