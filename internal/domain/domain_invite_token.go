package domain

import "time"

// InviteToken gates registration when the site runs invite-only.
type InviteToken struct {
	ID         int64
	Purpose    string
	Token      string
	Exhausted  bool
	Expiration time.Time
	CreatedAt  time.Time
}

// Usable reports whether the token can still redeem a registration.
func (t *InviteToken) Usable() bool {
	if t.Exhausted {
		return false
	}
	if t.Expiration.IsZero() {
		return true
	}
	return time.Now().Before(t.Expiration)
}
