package domain

import "time"

// TimelineEntryType captures what kind of event a timeline entry records.
type TimelineEntryType string

const (
	EntryTypeComment        TimelineEntryType = "comment"
	EntryTypeStatusChange   TimelineEntryType = "status_change"
	EntryTypeAssignment     TimelineEntryType = "assignment"
	EntryTypePriorityChange TimelineEntryType = "priority_change"
)

// TimelineEntry is an immutable audit record on a ticket. Entries are
// append-only and ordered by insertion; they are never edited or removed.
type TimelineEntry struct {
	ID        string
	TicketID  string
	UserID    string
	UserName  string
	Message   string
	Type      TimelineEntryType
	CreatedAt time.Time
}

// InternalComment is a technician-only note on a ticket. It is never exposed
// to the requesting end-user.
type InternalComment struct {
	ID             string
	TicketID       string
	TechnicianID   string
	TechnicianName string
	Message        string
	CreatedAt      time.Time
}
