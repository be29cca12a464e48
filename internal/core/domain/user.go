package domain

import "time"

// User represents a user of the application in the domain.
// Users own categories and transactions; the Access Guard scopes every
// ledger operation to the owning user.
type User struct {
	UserID string `json:"userID"` // Primary Key (UUID)
	Name   string `json:"name"`
	Email  string `json:"email"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete; historical transactions stay referable
}
