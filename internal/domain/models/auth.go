package models

import "github.com/google/uuid"

type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// Actor is the request principal used by access checks.
// The zero value is an anonymous caller.
type Actor struct {
	ID            uuid.UUID
	Authenticated bool
	IsStaff       bool
}

func (a Actor) IsAnonymous() bool {
	return !a.Authenticated
}
