package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func seedTicket(t *testing.T, store *MemoryStore) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:       "printer jam",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
		CategoryID:  "cat-1",
		RequesterID: "user-1",
	}
	require.NoError(t, store.Tickets().Create(context.Background(), ticket))
	return ticket
}

func TestTimelineAppendKeepsInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	ticket := seedTicket(t, store)
	tickets := store.Tickets()

	for i := 0; i < 5; i++ {
		entry := &domain.TimelineEntry{
			TicketID: ticket.ID,
			UserID:   "user-1",
			Message:  fmt.Sprintf("comment %d", i),
			Type:     domain.EntryTypeComment,
		}
		require.NoError(t, tickets.AppendTimelineEntry(ctx, entry))
	}

	entries, err := tickets.ListTimeline(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("comment %d", i), entry.Message)
		assert.NotEmpty(t, entry.ID)
	}
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	ticket := seedTicket(t, store)
	tickets := store.Tickets()

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			entry := &domain.TimelineEntry{
				TicketID: ticket.ID,
				UserID:   fmt.Sprintf("user-%d", i),
				Message:  "concurrent",
				Type:     domain.EntryTypeComment,
			}
			_ = tickets.AppendTimelineEntry(ctx, entry)
		}(i)
	}
	wg.Wait()

	entries, err := tickets.ListTimeline(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}

func TestAppendToMissingTicket(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Tickets().AppendTimelineEntry(ctx, &domain.TimelineEntry{TicketID: "missing"})
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	err = store.Tickets().AppendInternalComment(ctx, &domain.InternalComment{TicketID: "missing"})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUpdateWritesTicketAndEntriesTogether(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	ticket := seedTicket(t, store)
	tickets := store.Tickets()

	ticket.Status = domain.TicketStatusInProgress
	entries := []domain.TimelineEntry{
		{TicketID: ticket.ID, UserID: "tech-1", Message: "Status changed to in_progress", Type: domain.EntryTypeStatusChange},
	}
	require.NoError(t, tickets.Update(ctx, ticket, entries))

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)

	timeline, err := tickets.ListTimeline(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, domain.EntryTypeStatusChange, timeline[0].Type)
}

func TestDeleteRemovesTicketAndLogs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	ticket := seedTicket(t, store)
	tickets := store.Tickets()

	require.NoError(t, tickets.AppendTimelineEntry(ctx, &domain.TimelineEntry{
		TicketID: ticket.ID, UserID: "user-1", Message: "hello", Type: domain.EntryTypeComment,
	}))
	require.NoError(t, tickets.Delete(ctx, ticket.ID))

	_, err := tickets.GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	timeline, err := tickets.ListTimeline(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, timeline)

	assert.ErrorIs(t, tickets.Delete(ctx, ticket.ID), pgx.ErrNoRows)
}

func TestListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	tickets := store.Tickets()

	assignee := "tech-1"
	seed := []*domain.Ticket{
		{Title: "VPN broken", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, CategoryID: "net", RequesterID: "user-1"},
		{Title: "Laptop slow", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityLow, CategoryID: "hw", RequesterID: "user-2", AssigneeID: &assignee},
		{Title: "VPN flaky", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh, CategoryID: "net", RequesterID: "user-1"},
	}
	for _, ticket := range seed {
		require.NoError(t, tickets.Create(ctx, ticket))
	}

	requester := "user-1"
	byRequester, err := tickets.List(ctx, TicketFilter{RequesterID: &requester})
	require.NoError(t, err)
	assert.Len(t, byRequester, 2)

	byAssignee, err := tickets.List(ctx, TicketFilter{AssigneeID: &assignee})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, "Laptop slow", byAssignee[0].Title)

	byStatus, err := tickets.List(ctx, TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress}})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	search := "vpn"
	bySearch, err := tickets.List(ctx, TicketFilter{SearchTerm: &search})
	require.NoError(t, err)
	assert.Len(t, bySearch, 2)
}
