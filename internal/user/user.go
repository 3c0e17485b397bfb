// Package user resolves who is at the keyboard when workboard runs against
// the local database.
package user

import (
	"os"
	"os/user"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// GetCurrentUsername returns the current system username.
// It tries user.Current first, then $USER, then "unknown" so the result is
// never empty.
func GetCurrentUsername() string {
	currentUser, err := user.Current()
	if err != nil || currentUser.Username == "" {
		if username := os.Getenv("USER"); username != "" {
			return username
		}
		return "unknown"
	}
	return currentUser.Username
}

// LocalOwner is the owner id used for rows created by the local user.
// WORKBOARD_USER overrides the system username.
func LocalOwner() types.OwnerID {
	if v := os.Getenv("WORKBOARD_USER"); v != "" {
		return types.OwnerID(v)
	}
	return types.OwnerID(GetCurrentUsername())
}
