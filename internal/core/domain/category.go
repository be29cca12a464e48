package domain

// CategoryKind classifies a category as income or expense.
type CategoryKind string

const (
	Income  CategoryKind = "INCOME"
	Expense CategoryKind = "EXPENSE"
)

// Category labels transactions. A category either belongs to a single user or,
// when UserID is empty, is a shared default readable by everyone but mutable
// by no one through the API.
type Category struct {
	CategoryID string       `json:"categoryID"` // Primary Key (UUID)
	UserID     string       `json:"userID"`     // Owner; empty for shared defaults
	Name       string       `json:"name"`
	Kind       CategoryKind `json:"kind"`
	IsActive   bool         `json:"isActive"`
	AuditFields
}

// IsShared reports whether the category is a shared default usable by any user.
func (c Category) IsShared() bool {
	return c.UserID == ""
}
