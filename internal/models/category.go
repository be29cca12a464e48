package models

import "database/sql"

// Category is the database representation of a category.
// A NULL user_id marks a shared default category.
type Category struct {
	CategoryID string         `db:"category_id"`
	UserID     sql.NullString `db:"user_id"`
	Name       string         `db:"name"`
	Kind       string         `db:"kind"`
	IsActive   bool           `db:"is_active"`
	AuditFields
}
