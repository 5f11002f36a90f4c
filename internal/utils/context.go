// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, JWT token
// generation and validation, and other common operations.
package utils

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AccountUUIDCtxKey is the key used to store the authenticated account
// identifier in the context. Used together with GetAccountUUIDFromContext
// for type-safe retrieval of the account UUID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.AccountUUIDCtxKey, accountUUID)
var AccountUUIDCtxKey = contextKey("accountUUID")

// GetAccountUUIDFromContext retrieves the authenticated account identifier
// from the context.
//
// Returns the account UUID and an ok flag:
//   - ok == true  — value is found and has the correct uuid.UUID type
//   - ok == false — value is missing or has an unexpected type
//
// Example usage:
//
//	accountUUID, ok := utils.GetAccountUUIDFromContext(ctx)
//	if !ok {
//	    // handle missing account in context
//	}
func GetAccountUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountUUID, ok := ctx.Value(AccountUUIDCtxKey).(uuid.UUID)
	return accountUUID, ok
}
