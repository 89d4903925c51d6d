package domain

import "time"

// Category classifies tickets and supplies the SLA hour budget consumed at
// ticket-creation time. Deactivating a category hides it from ticket creation
// without deleting historical references.
type Category struct {
	ID          string
	Name        string
	Description string
	Color       string
	SLAHours    int
	IsActive    bool
	CreatedAt   time.Time
}
