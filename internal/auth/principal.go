package auth

import "github.com/gobookshelf/gobookshelf/internal/db/models"

// Principal is the identity a request acts as.
// A nil Principal or one with UserID 0 is anonymous.
type Principal struct {
	UserID   uint64
	Username string
	Active   bool
	Staff    bool
}

// NewPrincipal builds the principal of u.
func NewPrincipal(u *models.User) *Principal {
	if u == nil {
		return nil
	}

	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		Active:   u.Active,
		Staff:    u.Staff,
	}
}

// IsAuthenticated reports whether p identifies a user.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != 0
}
