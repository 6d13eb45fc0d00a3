// Package model holds the database table mappings.
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates one table by key, or all tables when key
// is empty.
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "User":
		return db.AutoMigrate(User{})
	case "AuthMethod":
		return db.AutoMigrate(AuthMethod{})
	case "InviteToken":
		return db.AutoMigrate(InviteToken{})
	case "SiteSetting":
		return db.AutoMigrate(SiteSetting{})
	case "Notebook":
		return db.AutoMigrate(Notebook{})
	case "NotebookShare":
		return db.AutoMigrate(NotebookShare{})
	case "Node":
		return db.AutoMigrate(Node{})
	case "NodeRevision":
		return db.AutoMigrate(NodeRevision{})
	case "NodeLink":
		return db.AutoMigrate(NodeLink{})
	case "Module":
		return db.AutoMigrate(Module{})
	case "":
		return db.AutoMigrate(
			User{}, AuthMethod{}, InviteToken{}, SiteSetting{},
			Notebook{}, NotebookShare{},
			Node{}, NodeRevision{}, NodeLink{}, Module{},
		)
	}
	return nil
}
