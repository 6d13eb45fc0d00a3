// Package service implements the application use cases on top of the
// domain repositories.
package service

import "time"

// UserServiceConfig tunes account behavior.
type UserServiceConfig struct {
	// TokenExpiry bounds mailed validation and recovery tokens.
	TokenExpiry time.Duration
	// DeactivatedRetentionTime is how long a deactivated account survives
	// before the purge task removes it.
	DeactivatedRetentionTime time.Duration
}

// AppServiceConfig tunes notebook and node behavior.
type AppServiceConfig struct {
	// SoftDeleteRetentionTime is how long recycled nodes survive before
	// the purge task removes them.
	SoftDeleteRetentionTime time.Duration
	// HistoryKeepVersions caps stored revisions per node.
	HistoryKeepVersions int
	// ShareTokenExpiry is the default lifetime of signed share links.
	// Zero means links never expire.
	ShareTokenExpiry time.Duration
	// ImportMaxFileSize caps a single file inside an imported archive.
	ImportMaxFileSize int64
}

// ServiceConfig aggregates all service tunables.
type ServiceConfig struct {
	User UserServiceConfig
	App  AppServiceConfig
}
