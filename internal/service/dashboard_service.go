package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const statsCacheKey = "dashboard:stats"

// Stats aggregates ticket counts for the dashboard.
type Stats struct {
	TotalTickets           int                           `json:"total_tickets"`
	TicketsByStatus        map[domain.TicketStatus]int   `json:"tickets_by_status"`
	TicketsByPriority      map[domain.TicketPriority]int `json:"tickets_by_priority"`
	TicketsByCategory      map[string]int                `json:"tickets_by_category"`
	TicketsByTechnician    map[string]int                `json:"tickets_by_technician"`
	AverageResolutionHours float64                       `json:"average_resolution_hours"`
	SLA                    SLASummary                    `json:"sla"`
}

// SLASummary classifies unresolved tickets against their deadlines.
type SLASummary struct {
	OnTime       int `json:"on_time"`
	NearDeadline int `json:"near_deadline"`
	Overdue      int `json:"overdue"`
}

// DashboardService derives dashboard aggregates from the full ticket, user,
// and category lists. Results are cached in Redis for a short TTL when a
// cache is available.
type DashboardService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	cache      *persistence.Redis
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewDashboardService constructs the service. cache may be nil.
func NewDashboardService(
	tickets repository.TicketRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	cache *persistence.Redis,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		tickets:    tickets,
		users:      users,
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

// Stats returns the current aggregates, serving from cache when fresh.
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	if s.cacheTTL > 0 {
		if raw, ok := s.cache.GetBytes(ctx, statsCacheKey); ok {
			var cached Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheTTL > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			s.cache.SetBytes(ctx, statsCacheKey, raw, s.cacheTTL)
		}
	}
	return stats, nil
}

// Invalidate drops the cached aggregates, called after ticket mutations.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, statsCacheKey)
}

// RegisterInvalidation drops the cached aggregates on every ticket event.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	handler := func(ctx context.Context, _ events.Event) error {
		s.Invalidate(ctx)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketPriorityChanged,
		events.EventTicketAssigned,
		events.EventTicketCommented,
		events.EventTicketDeleted,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}

func (s *DashboardService) compute(ctx context.Context) (*Stats, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{Limit: 10000})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	categories, err := s.categories.List(ctx, true)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &Stats{
		TotalTickets: len(tickets),
		TicketsByStatus: map[domain.TicketStatus]int{
			domain.TicketStatusOpen:        0,
			domain.TicketStatusInProgress:  0,
			domain.TicketStatusWaitingUser: 0,
			domain.TicketStatusResolved:    0,
			domain.TicketStatusClosed:      0,
		},
		TicketsByPriority:   make(map[domain.TicketPriority]int, len(domain.Priorities)),
		TicketsByCategory:   make(map[string]int, len(categories)),
		TicketsByTechnician: make(map[string]int),
	}
	for _, priority := range domain.Priorities {
		stats.TicketsByPriority[priority] = 0
	}

	categoryNames := make(map[string]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
		stats.TicketsByCategory[category.Name] = 0
	}

	// Admins may hold assignments too, so they get a bucket alongside
	// technicians.
	technicianNames := make(map[string]string)
	for _, user := range users {
		if user.Role == domain.RoleTechnician || user.Role == domain.RoleAdmin {
			technicianNames[user.ID] = user.Name
			stats.TicketsByTechnician[user.Name] = 0
		}
	}

	now := s.now()
	var resolvedCount int
	var resolutionTotal float64

	for _, ticket := range tickets {
		stats.TicketsByStatus[ticket.Status]++
		stats.TicketsByPriority[ticket.Priority]++

		if name, ok := categoryNames[ticket.CategoryID]; ok {
			stats.TicketsByCategory[name]++
		}
		if ticket.AssigneeID != nil {
			if name, ok := technicianNames[*ticket.AssigneeID]; ok {
				stats.TicketsByTechnician[name]++
			}
		}

		if ticket.ResolvedAt != nil {
			resolvedCount++
			resolutionTotal += sla.ResolutionHours(ticket.CreatedAt, ticket.ResolvedAt)
		}

		if !ticket.Terminal() {
			switch sla.Classify(ticket.SLADeadline, now) {
			case sla.StateOverdue:
				stats.SLA.Overdue++
			case sla.StateNearDeadline:
				stats.SLA.NearDeadline++
			default:
				stats.SLA.OnTime++
			}
		}
	}

	if resolvedCount > 0 {
		stats.AverageResolutionHours = resolutionTotal / float64(resolvedCount)
	}
	return stats, nil
}
