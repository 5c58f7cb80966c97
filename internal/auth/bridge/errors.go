package bridge

// Kind classifies bridge failures. Every kind is terminal for the
// current login attempt: nothing is retried, the user restarts login.
type Kind string

const (
	// KindConfiguration: provider client credentials are missing.
	// Operator-fixable only.
	KindConfiguration Kind = "configuration"

	// KindUpstreamExchange: the provider's token or profile endpoint
	// failed (transport error or provider-side rejection).
	KindUpstreamExchange Kind = "upstream_exchange"

	// KindMalformedResponse: a nominally successful upstream response
	// was missing an expected field.
	KindMalformedResponse Kind = "malformed_response"

	// KindInvalidProfile: the profile carried no provider user id.
	KindInvalidProfile Kind = "invalid_profile"

	// KindCredentialIssuance: minting the federated credential failed.
	KindCredentialIssuance Kind = "credential_issuance"
)

// Error is a classified bridge failure. Message is user-displayable;
// the wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
