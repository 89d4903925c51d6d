package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// MemoryStore keeps all collections in process memory. It backs the service
// when no Postgres DSN is configured and is the fake the service tests run
// against. A single mutex serializes every write, so timeline and comment
// appends from concurrent actors cannot be lost.
//
// Missing records are reported as pgx.ErrNoRows so callers map errors the
// same way for both stores.
type MemoryStore struct {
	mu         sync.RWMutex
	tickets    map[string]*domain.Ticket
	timeline   map[string][]domain.TimelineEntry
	comments   map[string][]domain.InternalComment
	users      map[string]*domain.User
	categories map[string]*domain.Category
	slaConfigs map[string]*domain.SLAConfig
	documents  map[string][]byte
}

// NewMemoryStore initializes an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets:    make(map[string]*domain.Ticket),
		timeline:   make(map[string][]domain.TimelineEntry),
		comments:   make(map[string][]domain.InternalComment),
		users:      make(map[string]*domain.User),
		categories: make(map[string]*domain.Category),
		slaConfigs: make(map[string]*domain.SLAConfig),
		documents:  make(map[string][]byte),
	}
}

// Tickets returns the ticket collection view.
func (s *MemoryStore) Tickets() TicketRepository { return &memoryTicketRepository{store: s} }

// Users returns the user collection view.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{store: s} }

// Categories returns the category collection view.
func (s *MemoryStore) Categories() CategoryRepository { return &memoryCategoryRepository{store: s} }

// Settings returns the settings view.
func (s *MemoryStore) Settings() SettingsRepository { return &memorySettingsRepository{store: s} }

// SeedSLAConfig installs the default per-priority SLA targets when none exist.
func (s *MemoryStore) SeedSLAConfig() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slaConfigs) > 0 {
		return
	}
	defaults := []domain.SLAConfig{
		{ID: "sla-low", Priority: domain.TicketPriorityLow, ResponseHours: 24, ResolutionHours: 72},
		{ID: "sla-medium", Priority: domain.TicketPriorityMedium, ResponseHours: 8, ResolutionHours: 48},
		{ID: "sla-high", Priority: domain.TicketPriorityHigh, ResponseHours: 4, ResolutionHours: 24},
		{ID: "sla-critical", Priority: domain.TicketPriorityCritical, ResponseHours: 1, ResolutionHours: 8},
	}
	for i := range defaults {
		cfg := defaults[i]
		cfg.UpdatedAt = time.Now()
		s.slaConfigs[cfg.ID] = &cfg
	}
}

type memoryTicketRepository struct {
	store *MemoryStore
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	stored := cloneTicket(ticket)
	s.tickets[ticket.ID] = stored
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket, entries []domain.TimelineEntry) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	s.tickets[ticket.ID] = cloneTicket(ticket)

	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		s.timeline[ticket.ID] = append(s.timeline[ticket.ID], *entry)
	}
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTicket(ticket), nil
}

func (r *memoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Ticket
	for _, ticket := range s.tickets {
		if !matchesFilter(ticket, filter) {
			continue
		}
		result = append(result, *cloneTicket(ticket))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *memoryTicketRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.tickets, id)
	delete(s.timeline, id)
	delete(s.comments, id)
	return nil
}

func (r *memoryTicketRepository) AppendTimelineEntry(_ context.Context, entry *domain.TimelineEntry) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[entry.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.timeline[entry.TicketID] = append(s.timeline[entry.TicketID], *entry)
	return nil
}

func (r *memoryTicketRepository) ListTimeline(_ context.Context, ticketID string) ([]domain.TimelineEntry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.timeline[ticketID]
	result := make([]domain.TimelineEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (r *memoryTicketRepository) AppendInternalComment(_ context.Context, comment *domain.InternalComment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[comment.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	s.comments[comment.TicketID] = append(s.comments[comment.TicketID], *comment)
	return nil
}

func (r *memoryTicketRepository) ListInternalComments(_ context.Context, ticketID string) ([]domain.InternalComment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := s.comments[ticketID]
	result := make([]domain.InternalComment, len(comments))
	copy(result, comments)
	return result, nil
}

func matchesFilter(ticket *domain.Ticket, filter TicketFilter) bool {
	if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
		return false
	}
	if filter.AssigneeID != nil {
		if ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID {
			return false
		}
	}
	if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
		return false
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		if term != "" &&
			!strings.Contains(strings.ToLower(ticket.Title), term) &&
			!strings.Contains(strings.ToLower(ticket.Description), term) {
			return false
		}
	}
	return true
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		clone.AssigneeID = &id
	}
	if t.ResolvedAt != nil {
		ts := *t.ResolvedAt
		clone.ResolvedAt = &ts
	}
	clone.Attachments = append([]string(nil), t.Attachments...)
	clone.Timeline = nil
	clone.Internal = nil
	return &clone
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

type memoryCategoryRepository struct {
	store *MemoryStore
}

func (r *memoryCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepository) Update(_ context.Context, category *domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *memoryCategoryRepository) List(_ context.Context, activeOnly bool) ([]domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Category
	for _, category := range s.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

type memorySettingsRepository struct {
	store *MemoryStore
}

func (r *memorySettingsRepository) GetDocument(_ context.Context, key string) ([]byte, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.documents[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (r *memorySettingsRepository) MergeDocument(_ context.Context, key string, value []byte) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := mergeJSON(s.documents[key], value)
	if err != nil {
		return err
	}
	s.documents[key] = merged
	return nil
}

func (r *memorySettingsRepository) ListSLAConfig(_ context.Context) ([]domain.SLAConfig, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.SLAConfig, 0, len(s.slaConfigs))
	for _, cfg := range s.slaConfigs {
		result = append(result, *cfg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *memorySettingsRepository) GetSLAConfig(_ context.Context, id string) (*domain.SLAConfig, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.slaConfigs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *cfg
	return &clone, nil
}

func (r *memorySettingsRepository) UpdateSLAConfig(_ context.Context, cfg *domain.SLAConfig) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slaConfigs[cfg.ID]; !ok {
		return pgx.ErrNoRows
	}
	cfg.UpdatedAt = time.Now()
	clone := *cfg
	s.slaConfigs[cfg.ID] = &clone
	return nil
}
