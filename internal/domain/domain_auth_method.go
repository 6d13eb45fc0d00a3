package domain

import "time"

// AuthMethodKind is the kind of credential an AuthMethod row stores.
type AuthMethodKind string

const (
	AuthMethodPassword        AuthMethodKind = "password"
	AuthMethodValidationToken AuthMethodKind = "validation-token"
	AuthMethodRecoveryToken   AuthMethodKind = "recovery-token"
	AuthMethodTOTP            AuthMethodKind = "totp"
)

// Auth steps. Step 1 is the primary credential, step 2 a second factor,
// step 0 an out-of-band token.
const (
	AuthStepToken   = 0
	AuthStepPrimary = 1
	AuthStepSecond  = 2
)

// AuthMethodStatus marks a method usable or retired. Retired rows are kept
// for audit until the cleanup task removes them.
type AuthMethodStatus string

const (
	AuthMethodActive   AuthMethodStatus = "active"
	AuthMethodInactive AuthMethodStatus = "inactive"
	// AuthMethodPending is an enrollment awaiting confirmation, e.g. a TOTP
	// key the user has not verified yet. Pending methods never authenticate.
	AuthMethodPending AuthMethodStatus = "pending"
)

// AuthMethod is one credential of a user: a bcrypt password hash, a mailed
// token, or a TOTP key.
type AuthMethod struct {
	ID         int64
	UID        int64
	Method     AuthMethodKind
	Secret     string
	Step       int
	Status     AuthMethodStatus
	LastUsed   time.Time
	Expiration time.Time
	CreatedAt  time.Time
}

func (m *AuthMethod) IsActive() bool {
	return m.Status == AuthMethodActive
}

// Expired reports whether the method has an expiration in the past. Methods
// without an expiration never expire.
func (m *AuthMethod) Expired() bool {
	if m.Expiration.IsZero() {
		return false
	}
	return time.Now().After(m.Expiration)
}
