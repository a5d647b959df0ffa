package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProviderRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error)
	UpsertBusinessHours(ctx context.Context, userID uuid.UUID, hours entity.BusinessHours) error
	SetStripeAccount(ctx context.Context, userID uuid.UUID, accountID string, onboardingCompleted bool) error
}

type providerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProviderRepository(db database.PgxIface, log *zap.Logger) ProviderRepository {
	return &providerRepository{
		db:  db,
		log: log.With(zap.String("repository", "provider")),
	}
}

func (r *providerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error) {
	query := `
		SELECT user_id, stripe_account_id, stripe_onboarding_completed, business_hours, updated_at
		FROM business_profiles
		WHERE user_id = $1
	`

	var profile entity.BusinessProfile
	var rawHours []byte

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.StripeAccountID,
		&profile.StripeOnboardingCompleted,
		&rawHours,
		&profile.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find business profile",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find business profile %s: %w", userID.String(), err)
	}

	if len(rawHours) > 0 {
		if err := json.Unmarshal(rawHours, &profile.BusinessHours); err != nil {
			r.log.Error("Failed to decode business hours",
				zap.Error(err),
				zap.String("user_id", userID.String()),
			)
			return nil, fmt.Errorf("decode business hours for %s: %w", userID.String(), err)
		}
	}

	return &profile, nil
}

func (r *providerRepository) UpsertBusinessHours(ctx context.Context, userID uuid.UUID, hours entity.BusinessHours) error {
	rawHours, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("encode business hours for %s: %w", userID.String(), err)
	}

	query := `
		INSERT INTO business_profiles (user_id, business_hours, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET business_hours = EXCLUDED.business_hours, updated_at = NOW()
	`

	_, err = r.db.Exec(ctx, query, userID, rawHours)
	if err != nil {
		r.log.Error("Failed to upsert business hours",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("upsert business hours for %s: %w", userID.String(), err)
	}

	return nil
}

func (r *providerRepository) SetStripeAccount(ctx context.Context, userID uuid.UUID, accountID string, onboardingCompleted bool) error {
	query := `
		INSERT INTO business_profiles (user_id, stripe_account_id, stripe_onboarding_completed, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET stripe_account_id = EXCLUDED.stripe_account_id,
		              stripe_onboarding_completed = EXCLUDED.stripe_onboarding_completed,
		              updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query, userID, accountID, onboardingCompleted)
	if err != nil {
		r.log.Error("Failed to set stripe account",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("set stripe account for %s: %w", userID.String(), err)
	}

	return nil
}
