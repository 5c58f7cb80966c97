package bridge

import (
	"context"
	"errors"

	"github.com/adelie22/Artivora/internal/auth"
	"github.com/adelie22/Artivora/internal/auth/credential"
	"github.com/adelie22/Artivora/internal/auth/provider/naver"
	"github.com/adelie22/Artivora/internal/logger"
)

// Exchanger is the provider surface the bridge drives, split in two
// so failures can be classified per step.
type Exchanger interface {
	ExchangeToken(ctx context.Context, code, state string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*auth.Identity, error)
}

// Issuer mints federated credentials for a namespaced identity key.
type Issuer interface {
	Issue(ctx context.Context, identityKey string, claims credential.Claims) (string, error)
}

// Bridge turns a Naver authorization code into a federated
// credential: exchange the code, fetch the profile, mint. A linear
// pipeline with early exit on error and no retries; the only terminal
// states are a credential or a classified error.
type Bridge struct {
	exchanger Exchanger
	issuer    Issuer
}

// New builds a bridge. A nil exchanger means the provider client
// credentials were never configured; the bridge still constructs so
// the route can answer with a configuration error instead of the
// process refusing to start.
func New(exchanger Exchanger, issuer Issuer) *Bridge {
	return &Bridge{
		exchanger: exchanger,
		issuer:    issuer,
	}
}

// Exchange runs the pipeline for one {code, state} pair. The pair is
// consumed exactly once: authorization codes are single-use upstream,
// so re-invoking with a spent code fails at the exchange step.
func (b *Bridge) Exchange(
	ctx context.Context,
	code string,
	state string,
) (string, *Error) {

	if b.exchanger == nil || b.issuer == nil {
		return "", newError(
			KindConfiguration,
			"Naver login is not configured.",
			nil,
		)
	}

	accessToken, err := b.exchanger.ExchangeToken(ctx, code, state)
	if err != nil {
		if errors.Is(err, naver.ErrNoAccessToken) {
			return "", newError(
				KindMalformedResponse,
				"Naver token response was missing an access token.",
				err,
			)
		}
		return "", newError(
			KindUpstreamExchange,
			"Failed to get Naver token.",
			err,
		)
	}

	identity, err := b.exchanger.FetchProfile(ctx, accessToken)
	if err != nil {
		if errors.Is(err, naver.ErrMissingUserID) {
			return "", newError(
				KindInvalidProfile,
				"Naver profile did not include a user id.",
				err,
			)
		}
		return "", newError(
			KindUpstreamExchange,
			"Failed to get Naver profile.",
			err,
		)
	}

	token, err := b.issuer.Issue(ctx, identity.Key(), credential.Claims{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	})
	if err != nil {
		return "", newError(
			KindCredentialIssuance,
			"Failed to create custom token.",
			err,
		)
	}

	logger.Info("federated credential issued", map[string]any{
		"provider": identity.Provider,
		"key":      identity.Key(),
	})

	return token, nil
}
