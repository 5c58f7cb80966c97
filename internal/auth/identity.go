package auth

import (
	"fmt"
	"strings"
)

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "naver", "google"
	ProviderUserID string // provider-scoped unique user identifier
	Email          string // email returned by provider, may be empty
	EmailVerified  bool   // whether provider asserts email ownership
	DisplayName    string // human-readable name, may be empty
}

// Key returns the namespaced identity key ("<provider>:<id>") used as
// the federated subject. Namespacing keeps provider ids from colliding
// with native email identities.
func (i Identity) Key() string {
	return i.Provider + ":" + i.ProviderUserID
}

// ParseKey splits a namespaced identity key back into provider and
// provider user id. Provider user ids may themselves contain colons,
// so only the first separator counts.
func ParseKey(key string) (Identity, error) {
	provider, id, ok := strings.Cut(key, ":")
	if !ok || provider == "" || id == "" {
		return Identity{}, fmt.Errorf("malformed identity key: %q", key)
	}
	return Identity{Provider: provider, ProviderUserID: id}, nil
}
