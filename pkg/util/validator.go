package util

import (
	"regexp"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	namePattern     = regexp.MustCompile(`^[\p{L} .'-]{1,30}$`)
	tokenPattern    = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// IsValidEmail verifies the email format.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidUsername verifies the username format: letters, digits and
// underscores, length 3-20.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidName verifies a display name part (first or last name).
func IsValidName(name string) bool {
	return name == "" || namePattern.MatchString(name)
}

// IsValidToken verifies mail and invite token format: letters or digits only.
func IsValidToken(token string) bool {
	return token != "" && tokenPattern.MatchString(token)
}

// IsValidSlug verifies a notebook slug: lowercase words joined by dashes.
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
