package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type ticketFixture struct {
	store     *repository.MemoryStore
	svc       *TicketService
	now       time.Time
	requester *domain.User
	tech      *domain.User
	admin     *domain.User
	category  *domain.Category
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	f := &ticketFixture{
		store:     store,
		now:       time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		requester: &domain.User{Name: "Rita Requester", Email: "rita@example.com", Role: domain.RoleUser},
		tech:      &domain.User{Name: "Tom Tech", Email: "tom@example.com", Role: domain.RoleTechnician},
		admin:     &domain.User{Name: "Ada Admin", Email: "ada@example.com", Role: domain.RoleAdmin},
		category:  &domain.Category{Name: "Hardware", SLAHours: 24, IsActive: true},
	}
	for _, user := range []*domain.User{f.requester, f.tech, f.admin} {
		require.NoError(t, store.Users().Create(ctx, user))
	}
	require.NoError(t, store.Categories().Create(ctx, f.category))

	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   store.Tickets(),
		UserRepo:     store.Users(),
		CategoryRepo: store.Categories(),
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *ticketFixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), f.requester, TicketCreateInput{
		Title:       "Laptop will not boot",
		Description: "Screen stays black",
		CategoryID:  f.category.ID,
	})
	require.NoError(t, err)
	return ticket
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestCreateStampsDeadlineFromCategory(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, f.now, ticket.CreatedAt)
	assert.Equal(t, f.now.Add(24*time.Hour), ticket.SLADeadline)
	assert.Nil(t, ticket.AssigneeID)
	assert.Nil(t, ticket.ResolvedAt)
}

func TestCreateRejectsInactiveCategory(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	inactive := &domain.Category{Name: "Retired", SLAHours: 8, IsActive: false}
	require.NoError(t, f.store.Categories().Create(ctx, inactive))

	_, err := f.svc.Create(ctx, f.requester, TicketCreateInput{
		Title:      "Old printer",
		CategoryID: inactive.ID,
	})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), f.requester, TicketCreateInput{
		Title:      "Mystery",
		CategoryID: "nope",
	})
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestUpdateRejectsUnassignedStatusChange(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	status := domain.TicketStatusInProgress
	_, err := f.svc.Update(ctx, f.tech, ticket.ID, TicketUpdateInput{Status: &status})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	// Rejected update leaves the ticket and its timeline untouched.
	reloaded, err := f.svc.Get(ctx, f.tech, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, reloaded.Status)
	assert.Empty(t, reloaded.Timeline)
}

func TestUpdateStatusWithAssignmentInOneCall(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	status := domain.TicketStatusInProgress
	updated, err := f.svc.Update(ctx, f.tech, ticket.ID, TicketUpdateInput{
		Status:     &status,
		AssigneeID: &f.tech.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, f.tech.ID, *updated.AssigneeID)
	assert.Nil(t, updated.ResolvedAt)

	reloaded, err := f.svc.Get(ctx, f.tech, ticket.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Timeline, 2)
	assert.Equal(t, domain.EntryTypeStatusChange, reloaded.Timeline[0].Type)
	assert.Equal(t, "Status changed to in_progress", reloaded.Timeline[0].Message)
	assert.Equal(t, domain.EntryTypeAssignment, reloaded.Timeline[1].Type)
	assert.Equal(t, "Ticket assigned to Tom Tech", reloaded.Timeline[1].Message)
}

func TestUpdateRejectsEndUserAssignee(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Update(context.Background(), f.tech, ticket.ID, TicketUpdateInput{
		AssigneeID: &f.requester.ID,
	})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestResolveStampsResolvedAtAndReopenKeepsIt(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	f.now = f.now.Add(5 * time.Hour)
	resolvedTime := f.now
	status := domain.TicketStatusResolved
	updated, err := f.svc.Update(ctx, f.tech, ticket.ID, TicketUpdateInput{
		Status:     &status,
		AssigneeID: &f.tech.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, resolvedTime, *updated.ResolvedAt)

	f.now = f.now.Add(2 * time.Hour)
	reopen := domain.TicketStatusOpen
	reopened, err := f.svc.Update(ctx, f.tech, ticket.ID, TicketUpdateInput{Status: &reopen})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, reopened.Status)
	require.NotNil(t, reopened.ResolvedAt)
	assert.Equal(t, resolvedTime, *reopened.ResolvedAt)
}

func TestPriorityChangeAppendsOneEntry(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	priority := domain.TicketPriorityCritical
	_, err := f.svc.Update(ctx, f.tech, ticket.ID, TicketUpdateInput{Priority: &priority})
	require.NoError(t, err)

	reloaded, err := f.svc.Get(ctx, f.tech, ticket.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Timeline, 1)
	assert.Equal(t, domain.EntryTypePriorityChange, reloaded.Timeline[0].Type)
	assert.Equal(t, "Priority changed from medium to critical", reloaded.Timeline[0].Message)
}

func TestEndUserCannotTriage(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	status := domain.TicketStatusInProgress
	_, err := f.svc.Update(context.Background(), f.requester, ticket.ID, TicketUpdateInput{Status: &status})
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestUpdateUnknownTicket(t *testing.T) {
	f := newTicketFixture(t)

	title := "renamed"
	_, err := f.svc.Update(context.Background(), f.tech, "missing", TicketUpdateInput{Title: &title})
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestInternalCommentsHiddenFromEndUsers(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	_, err := f.svc.AddInternalComment(ctx, f.requester, ticket.ID, "should not work")
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	_, err = f.svc.AddInternalComment(ctx, f.tech, ticket.ID, "swapped the drive")
	require.NoError(t, err)

	asTech, err := f.svc.Get(ctx, f.tech, ticket.ID)
	require.NoError(t, err)
	require.Len(t, asTech.Internal, 1)
	assert.Equal(t, "swapped the drive", asTech.Internal[0].Message)

	asRequester, err := f.svc.Get(ctx, f.requester, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, asRequester.Internal)
}

// constraintTicketRepo fails appends the way Postgres does when the ticket
// row is missing: with a constraint error rather than pgx.ErrNoRows.
type constraintTicketRepo struct {
	repository.TicketRepository
	appendCalls int
}

func (r *constraintTicketRepo) AppendInternalComment(context.Context, *domain.InternalComment) error {
	r.appendCalls++
	return errors.New(`insert or update on table "internal_comments" violates foreign key constraint`)
}

func TestInternalCommentOnUnknownTicketIsNotFound(t *testing.T) {
	f := newTicketFixture(t)
	repo := &constraintTicketRepo{TicketRepository: f.store.Tickets()}
	f.svc.tickets = repo

	_, err := f.svc.AddInternalComment(context.Background(), f.tech, "missing", "note")
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
	assert.Zero(t, repo.appendCalls)
}

func TestCommentAppendsToTimeline(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	entry, err := f.svc.AddComment(ctx, f.requester, ticket.ID, "any news?")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeComment, entry.Type)
	assert.Equal(t, f.requester.Name, entry.UserName)

	_, err = f.svc.AddComment(ctx, f.requester, ticket.ID, "   ")
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestListScopesEndUsersToOwnTickets(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	f.createTicket(t)

	other := &domain.User{Name: "Omar Other", Email: "omar@example.com", Role: domain.RoleUser}
	require.NoError(t, f.store.Users().Create(ctx, other))
	_, err := f.svc.Create(ctx, other, TicketCreateInput{Title: "VPN down", CategoryID: f.category.ID})
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.requester, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.requester.ID, mine[0].RequesterID)

	all, err := f.svc.List(ctx, f.tech, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEndUserCannotReadOthersTicket(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	other := &domain.User{Name: "Omar Other", Email: "omar@example.com", Role: domain.RoleUser}
	require.NoError(t, f.store.Users().Create(ctx, other))

	_, err := f.svc.Get(ctx, other, ticket.ID)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestDeleteRequiresAdmin(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	err := f.svc.Delete(ctx, f.tech, ticket.ID)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	require.NoError(t, f.svc.Delete(ctx, f.admin, ticket.ID))
	_, err = f.svc.Get(ctx, f.admin, ticket.ID)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}
