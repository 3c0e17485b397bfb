// Package auth carries the signed-in user through a request and issues the
// bearer tokens the API accepts.
package auth

import (
	"context"
	"errors"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ErrNotAuthenticated is returned by every action that runs without a user
var ErrNotAuthenticated = errors.New("you must be signed in to do that")

type contextKey struct{}

// WithUser returns a context carrying owner as the signed-in user
func WithUser(ctx context.Context, owner types.OwnerID) context.Context {
	return context.WithValue(ctx, contextKey{}, owner)
}

// UserFromContext returns the signed-in user or ErrNotAuthenticated
func UserFromContext(ctx context.Context) (types.OwnerID, error) {
	owner, ok := ctx.Value(contextKey{}).(types.OwnerID)
	if !ok || owner == "" {
		return "", ErrNotAuthenticated
	}
	return owner, nil
}
