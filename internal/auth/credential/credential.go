package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is how long a minted federated credential stays valid. The
// popup consumes it within seconds; anything longer is waste.
const TTL = 5 * time.Minute

var (
	ErrAlreadyUsed = errors.New("credential: token already used or expired")
	ErrInvalid     = errors.New("credential: token invalid")
)

// Claims are the attributes bound into a federated credential
// alongside the namespaced identity key.
type Claims struct {
	Email       string
	DisplayName string
}

// UseStore tracks which credential ids are still unconsumed.
// Register makes an id consumable for ttl; Consume atomically marks
// it used and reports whether it was still live.
type UseStore interface {
	Register(ctx context.Context, jti string, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (bool, error)
}

// Issuer mints and verifies federated credentials: short-lived,
// single-use signed tokens binding a namespaced identity key plus
// claim attributes. One credential buys exactly one session.
type Issuer struct {
	secret []byte
	uses   UseStore
	now    func() time.Time
}

func NewIssuer(secret string, uses UseStore) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("credential: signing secret not configured")
	}
	return &Issuer{
		secret: []byte(secret),
		uses:   uses,
		now:    time.Now,
	}, nil
}

type tokenClaims struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	jwt.RegisteredClaims
}

// Issue mints a credential for the given identity key.
func (i *Issuer) Issue(
	ctx context.Context,
	identityKey string,
	claims Claims,
) (string, error) {

	if identityKey == "" {
		return "", errors.New("credential: empty identity key")
	}

	now := i.now()
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityKey,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("credential: signing failed: %w", err)
	}

	if err := i.uses.Register(ctx, jti, TTL); err != nil {
		return "", fmt.Errorf("credential: registering use failed: %w", err)
	}

	return signed, nil
}

// Redeem verifies a credential and consumes its single use, returning
// the bound identity key and claims. A second Redeem of the same
// credential fails with ErrAlreadyUsed.
func (i *Issuer) Redeem(
	ctx context.Context,
	tokenString string,
) (string, Claims, error) {

	var parsed tokenClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&parsed,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return "", Claims{}, ErrInvalid
	}

	if parsed.Subject == "" || parsed.ID == "" {
		return "", Claims{}, ErrInvalid
	}

	live, err := i.uses.Consume(ctx, parsed.ID)
	if err != nil {
		return "", Claims{}, fmt.Errorf("credential: consuming use failed: %w", err)
	}
	if !live {
		return "", Claims{}, ErrAlreadyUsed
	}

	return parsed.Subject, Claims{
		Email:       parsed.Email,
		DisplayName: parsed.DisplayName,
	}, nil
}
