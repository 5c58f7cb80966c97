package resolver

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adelie22/Artivora/internal/auth"
	"github.com/adelie22/Artivora/internal/db"

	"github.com/google/uuid"
)

// DBResolver resolves identities using the database.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil {
		return "", errors.New("identity is nil")
	}

	// 1. Try identity lookup (provider + provider_user_id). An
	// existing account keeps whatever credits it has: repeat sign-in
	// never resets them.
	var userID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM public.identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return userID.String(), nil
	}

	if err != sql.ErrNoRows {
		return "", err
	}

	// 2. Try email-based linking (existing user, new provider). Some
	// providers withhold the email, in which case linking is skipped.
	if identity.Email != "" {
		err = r.db.QueryRowContext(ctx, `
			SELECT id
			FROM public.users
			WHERE LOWER(email) = LOWER($1)
		`,
			identity.Email,
		).Scan(&userID)

		if err == nil {
			_, err = r.db.ExecContext(ctx, `
				INSERT INTO public.identities (user_id, provider, provider_user_id)
				VALUES ($1, $2, $3)
			`,
				userID,
				identity.Provider,
				identity.ProviderUserID,
			)
			if err != nil {
				return "", err
			}

			return userID.String(), nil
		}

		if err != sql.ErrNoRows {
			return "", err
		}
	}

	// 3. Create new user. First federated sign-in is the one moment
	// welcome credits are granted.
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO public.users (email, display_name, email_verified, credits)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		identity.Email,
		identity.DisplayName,
		identity.EmailVerified,
		SocialWelcomeCredits,
	).Scan(&userID)

	if err != nil {
		return "", err
	}

	// 4. Create identity mapping
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO public.identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)

	if err != nil {
		return "", err
	}

	return userID.String(), nil
}
