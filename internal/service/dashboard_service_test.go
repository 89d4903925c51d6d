package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func newDashboardFixture(t *testing.T) (*repository.MemoryStore, *DashboardService, time.Time) {
	t.Helper()
	store := repository.NewMemoryStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewDashboardService(store.Tickets(), store.Users(), store.Categories(), nil, 0)
	svc.now = func() time.Time { return now }
	return store, svc, now
}

func TestStatsEmptyStore(t *testing.T) {
	_, svc, _ := newDashboardFixture(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalTickets)
	assert.Zero(t, stats.AverageResolutionHours)
	assert.Zero(t, stats.SLA.OnTime)
	assert.Zero(t, stats.SLA.NearDeadline)
	assert.Zero(t, stats.SLA.Overdue)

	// Every status and priority bucket is present even with no tickets.
	assert.Len(t, stats.TicketsByStatus, 5)
	assert.Len(t, stats.TicketsByPriority, 4)
	for status, count := range stats.TicketsByStatus {
		assert.Zero(t, count, "status %s", status)
	}
	for priority, count := range stats.TicketsByPriority {
		assert.Zero(t, count, "priority %s", priority)
	}
}

func TestStatsAggregation(t *testing.T) {
	store, svc, now := newDashboardFixture(t)
	ctx := context.Background()

	tech := &domain.User{Name: "Tom Tech", Email: "tom@example.com", Role: domain.RoleTechnician}
	require.NoError(t, store.Users().Create(ctx, tech))
	admin := &domain.User{Name: "Ada Admin", Email: "ada@example.com", Role: domain.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, admin))
	requester := &domain.User{Name: "Rita Requester", Email: "rita@example.com", Role: domain.RoleUser}
	require.NoError(t, store.Users().Create(ctx, requester))

	hardware := &domain.Category{Name: "Hardware", SLAHours: 24, IsActive: true}
	require.NoError(t, store.Categories().Create(ctx, hardware))
	retired := &domain.Category{Name: "Retired", SLAHours: 8, IsActive: false}
	require.NoError(t, store.Categories().Create(ctx, retired))

	resolvedAt := now.Add(-5 * time.Hour)
	tickets := []*domain.Ticket{
		{
			Title: "on time", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium,
			CategoryID: hardware.ID, RequesterID: requester.ID,
			CreatedAt: now.Add(-time.Hour), SLADeadline: now.Add(5 * time.Hour),
		},
		{
			Title: "near deadline", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh,
			CategoryID: hardware.ID, RequesterID: requester.ID, AssigneeID: &tech.ID,
			CreatedAt: now.Add(-2 * time.Hour), SLADeadline: now.Add(time.Hour),
		},
		{
			Title: "overdue", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityLow,
			CategoryID: hardware.ID, RequesterID: requester.ID, AssigneeID: &admin.ID,
			CreatedAt: now.Add(-48 * time.Hour), SLADeadline: now.Add(-time.Hour),
		},
		{
			Title: "resolved", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityCritical,
			CategoryID: hardware.ID, RequesterID: requester.ID, AssigneeID: &tech.ID,
			CreatedAt: now.Add(-10 * time.Hour), SLADeadline: now.Add(-time.Hour), ResolvedAt: &resolvedAt,
		},
	}
	for _, ticket := range tickets {
		require.NoError(t, store.Tickets().Create(ctx, ticket))
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalTickets)
	assert.Equal(t, 1, stats.TicketsByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 2, stats.TicketsByStatus[domain.TicketStatusInProgress])
	assert.Equal(t, 1, stats.TicketsByStatus[domain.TicketStatusResolved])
	assert.Equal(t, 0, stats.TicketsByStatus[domain.TicketStatusClosed])
	assert.Equal(t, 1, stats.TicketsByPriority[domain.TicketPriorityLow])
	assert.Equal(t, 1, stats.TicketsByPriority[domain.TicketPriorityMedium])
	assert.Equal(t, 1, stats.TicketsByPriority[domain.TicketPriorityHigh])
	assert.Equal(t, 1, stats.TicketsByPriority[domain.TicketPriorityCritical])
	assert.Equal(t, 4, stats.TicketsByCategory["Hardware"])
	assert.Equal(t, 2, stats.TicketsByTechnician["Tom Tech"])
	// Admin-held assignments count too.
	assert.Equal(t, 1, stats.TicketsByTechnician["Ada Admin"])

	// Resolved in 5 hours, only resolved tickets count toward the average.
	assert.InDelta(t, 5.0, stats.AverageResolutionHours, 1e-9)

	// Terminal tickets are excluded from the deadline summary.
	assert.Equal(t, 1, stats.SLA.OnTime)
	assert.Equal(t, 1, stats.SLA.NearDeadline)
	assert.Equal(t, 1, stats.SLA.Overdue)
}
