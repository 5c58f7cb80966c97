package resolver

import (
	"context"

	"github.com/adelie22/Artivora/internal/auth"
)

// SocialWelcomeCredits is granted once, when a federated identity
// first creates an account. Native signups start at zero.
const SocialWelcomeCredits = 5

// Resolver determines which internal user an external identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (userID string, err error)
}
