package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	CategoryID  string                `json:"category_id"`
	Attachments []string              `json:"attachments"`
}

// UpdateTicketRequest carries a partial ticket update. Absent fields are left
// unchanged; clear_assignee removes the current assignee.
type UpdateTicketRequest struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Status        *domain.TicketStatus   `json:"status"`
	Priority      *domain.TicketPriority `json:"priority"`
	AssigneeID    *string                `json:"assignee_id"`
	ClearAssignee bool                   `json:"clear_assignee"`
}

// CommentRequest payload for timeline and internal comments.
type CommentRequest struct {
	Message string `json:"message"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CategoryID  string                `json:"category_id"`
	RequesterID string                `json:"requester_id"`
	AssigneeID  *string               `json:"assignee_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	ResolvedAt  *time.Time            `json:"resolved_at"`
	SLADeadline time.Time             `json:"sla_deadline"`
}

// TicketDetailResponse provides full ticket info including the timeline.
// InternalComments is only populated for technician and admin callers.
type TicketDetailResponse struct {
	TicketSummary
	Description      string                    `json:"description"`
	Attachments      []string                  `json:"attachments"`
	Timeline         []TimelineEntryResponse   `json:"timeline"`
	InternalComments []InternalCommentResponse `json:"internal_comments,omitempty"`
}

// TimelineEntryResponse represents one audit record.
type TimelineEntryResponse struct {
	ID        string                   `json:"id"`
	UserID    string                   `json:"user_id"`
	UserName  string                   `json:"user_name"`
	Message   string                   `json:"message"`
	Type      domain.TimelineEntryType `json:"type"`
	CreatedAt time.Time                `json:"created_at"`
}

// InternalCommentResponse represents a technician-only note.
type InternalCommentResponse struct {
	ID             string    `json:"id"`
	TechnicianID   string    `json:"technician_id"`
	TechnicianName string    `json:"technician_name"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
