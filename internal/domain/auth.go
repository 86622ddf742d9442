package domain

import "time"

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID    string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
