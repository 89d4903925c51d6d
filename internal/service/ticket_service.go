package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation with SLA deadline
// stamping, guarded status/priority/assignment transitions, and the
// append-only timeline and internal comment logs.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
	Attachments []string
}

// TicketUpdateInput carries a partial update. Nil fields stay unchanged;
// ClearAssignee removes the current assignee.
type TicketUpdateInput struct {
	Title         *string
	Description   *string
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	AssigneeID    *string
	ClearAssignee bool
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	CategoryID *string
	AssigneeID *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// Create files a new ticket for the requester. The SLA deadline is computed
// from the category's hour budget at creation time and never changes.
func (s *TicketService) Create(ctx context.Context, requester *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || input.CategoryID == "" {
		return nil, apperrors.NewValidationError("title and category_id required", nil)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category is inactive", map[string]any{"category_id": category.ID})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	now := s.now()
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CategoryID:  category.ID,
		RequesterID: requester.ID,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
		SLADeadline: sla.Deadline(now, category.SLAHours),
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFor(requester),
		Payload: events.TicketCreatedPayload{
			CategoryID:  ticket.CategoryID,
			Priority:    ticket.Priority,
			Title:       ticket.Title,
			SLADeadline: ticket.SLADeadline,
		},
	})
	return ticket, nil
}

// Update applies a guarded partial update. Any status other than open
// requires an assignee, either already present or set in the same call;
// rejected updates leave the ticket untouched. Each accepted status,
// assignment, or priority change appends exactly one timeline entry, written
// in the same logical operation as the ticket fields.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	triaging := input.Status != nil || input.Priority != nil || input.AssigneeID != nil || input.ClearAssignee
	if triaging && !auth.Can(actor.Role, auth.ActionTriageTicket) {
		return nil, apperrors.NewForbidden("role cannot triage tickets")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !s.canView(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	nextStatus := ticket.Status
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		nextStatus = *input.Status
	}

	nextAssignee := ticket.AssigneeID
	if input.ClearAssignee {
		nextAssignee = nil
	} else if input.AssigneeID != nil {
		nextAssignee = input.AssigneeID
	}

	// Assignment guard: only open tickets may be unassigned.
	if nextStatus != domain.TicketStatusOpen && nextAssignee == nil {
		return nil, apperrors.NewValidationError(
			"ticket must be assigned to a technician before leaving open status", nil)
	}

	var assigneeName string
	if nextAssignee != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *nextAssignee) {
		assignee, err := s.users.GetByID(ctx, *nextAssignee)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": *nextAssignee})
			}
			return nil, apperrors.MapError(err)
		}
		if assignee.Role == domain.RoleUser {
			return nil, apperrors.NewValidationError("assignee must be a technician or admin", nil)
		}
		assigneeName = assignee.Name
	}

	nextPriority := ticket.Priority
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		nextPriority = *input.Priority
	}

	now := s.now()
	statusChanged := nextStatus != ticket.Status
	priorityChanged := nextPriority != ticket.Priority
	assignmentChanged := !sameAssignee(ticket.AssigneeID, nextAssignee)
	oldStatus, oldPriority := ticket.Status, ticket.Priority

	var entries []domain.TimelineEntry
	if statusChanged {
		entries = append(entries, domain.TimelineEntry{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			UserName: actor.Name,
			Message:  fmt.Sprintf("Status changed to %s", nextStatus),
			Type:     domain.EntryTypeStatusChange,
		})
	}
	if assignmentChanged {
		message := "Ticket unassigned"
		if nextAssignee != nil {
			message = fmt.Sprintf("Ticket assigned to %s", assigneeName)
		}
		entries = append(entries, domain.TimelineEntry{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			UserName: actor.Name,
			Message:  message,
			Type:     domain.EntryTypeAssignment,
		})
	}
	if priorityChanged {
		entries = append(entries, domain.TimelineEntry{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			UserName: actor.Name,
			Message:  fmt.Sprintf("Priority changed from %s to %s", oldPriority, nextPriority),
			Type:     domain.EntryTypePriorityChange,
		})
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	ticket.Status = nextStatus
	ticket.Priority = nextPriority
	ticket.AssigneeID = nextAssignee
	if statusChanged && nextStatus == domain.TicketStatusResolved {
		ticket.ResolvedAt = &now
	}
	// Reopening a resolved ticket keeps the old ResolvedAt; see Ticket docs.

	if err := s.tickets.Update(ctx, ticket, entries); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if statusChanged {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actorFor(actor),
			Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: nextStatus},
		})
	}
	if assignmentChanged {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actorFor(actor),
			Payload:  events.TicketAssignedPayload{AssigneeID: nextAssignee, AssigneeName: assigneeName},
		})
	}
	if priorityChanged {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketPriorityChanged,
			TicketID: ticket.ID,
			Actor:    actorFor(actor),
			Payload:  events.TicketPriorityChangedPayload{OldPriority: oldPriority, NewPriority: nextPriority},
		})
	}
	return ticket, nil
}

// Get returns a ticket with its timeline. Internal comments are attached
// only for technician/admin actors; end-users only see their own tickets.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !s.canView(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	timeline, err := s.tickets.ListTimeline(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Timeline = timeline

	if auth.Can(actor.Role, auth.ActionInternalComment) {
		comments, err := s.tickets.ListInternalComments(ctx, ticket.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.Internal = comments
	}
	return ticket, nil
}

// List returns tickets visible to the actor. End-users are always scoped to
// their own tickets.
func (s *TicketService) List(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		CategoryID: filter.CategoryID,
		AssigneeID: filter.AssigneeID,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !auth.Can(actor.Role, auth.ActionViewAllTickets) {
		requesterID := actor.ID
		repoFilter.RequesterID = &requesterID
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// AddComment appends a public timeline comment.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, message string) (*domain.TimelineEntry, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !s.canView(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	entry := &domain.TimelineEntry{
		TicketID: ticket.ID,
		UserID:   actor.ID,
		UserName: actor.Name,
		Message:  strings.TrimSpace(message),
		Type:     domain.EntryTypeComment,
	}
	if err := s.tickets.AppendTimelineEntry(ctx, entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Actor:    actorFor(actor),
		Payload: events.TicketCommentedPayload{
			EntryID: entry.ID,
			Preview: preview(entry.Message, 120),
		},
	})
	return entry, nil
}

// AddInternalComment appends a technician-only note. End-users can neither
// write nor read these.
func (s *TicketService) AddInternalComment(ctx context.Context, actor *domain.User, ticketID, message string) (*domain.InternalComment, error) {
	if !auth.Can(actor.Role, auth.ActionInternalComment) {
		return nil, apperrors.NewForbidden("internal comments are restricted to technicians")
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	comment := &domain.InternalComment{
		TicketID:       ticketID,
		TechnicianID:   actor.ID,
		TechnicianName: actor.Name,
		Message:        strings.TrimSpace(message),
	}
	if err := s.tickets.AppendInternalComment(ctx, comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticketID,
		Actor:    actorFor(actor),
		Payload: events.TicketCommentedPayload{
			EntryID:  comment.ID,
			Internal: true,
			Preview:  preview(comment.Message, 120),
		},
	})
	return comment, nil
}

// Delete removes a ticket permanently. Admin only.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, ticketID string) error {
	if !auth.Can(actor.Role, auth.ActionDeleteTicket) {
		return apperrors.NewForbidden("only administrators can delete tickets")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    actorFor(actor),
	})
	return nil
}

func (s *TicketService) canView(actor *domain.User, ticket *domain.Ticket) bool {
	if auth.Can(actor.Role, auth.ActionViewAllTickets) {
		return true
	}
	return ticket.RequesterID == actor.ID
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, UserName: user.Name, Role: user.Role}
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
