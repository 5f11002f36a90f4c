package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token wraps a JWT session token with convenience accessors for
// authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be set as an HttpOnly cookie or sent
// in the Authorization header.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// AccountUUID is the owner identifier extracted from the "sub" claim.
	// Internal server-side cache, never serialized.
	AccountUUID uuid.UUID `json:"-"`
}

// GetAccountUUID extracts the account identifier from the token's "sub"
// (subject) claim and parses it as a UUID.
//
// Returns an error if the subject claim is missing, empty, or not a valid
// UUID.
func (t *Token) GetAccountUUID() (uuid.UUID, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("error extracting account UUID from token: %w", err)
	}

	accountUUID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error parsing account UUID from token subject: %w", err)
	}

	return accountUUID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
