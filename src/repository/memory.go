package repository

import (
	"context"
	"foodievent/src/models"
	"foodievent/src/types"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps everything in process. Values are copied in and out so
// callers never alias stored records.
type MemoryStore struct {
	mu       sync.Mutex
	seq      uint
	users    map[uint]models.User
	events   map[uint]models.Event
	orders   map[uint]models.Order
	comments map[uint]models.Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    map[uint]models.User{},
		events:   map[uint]models.Event{},
		orders:   map[uint]models.Order{},
		comments: map[uint]models.Comment{},
	}
}

func (m *MemoryStore) nextID() uint {
	m.seq++
	return m.seq
}

func (m *MemoryStore) CreateEvent(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID()
	e.Slug = models.EventSlug(e.Title)
	if e.Status == "" {
		e.Status = types.EVENT_OPEN
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	m.events[e.ID] = *e
	return nil
}

func (m *MemoryStore) UpdateEventDetails(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.events[e.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Title = e.Title
	cur.Slug = models.EventSlug(e.Title)
	cur.Image = e.Image
	cur.StartTime = e.StartTime
	cur.EndTime = e.EndTime
	cur.Venue = e.Venue
	cur.VendorNames = e.VendorNames
	cur.Description = e.Description
	cur.TicketPrice = e.TicketPrice
	cur.FreeSampling = e.FreeSampling
	cur.ProvideTakeaway = e.ProvideTakeaway
	cur.Category = e.Category
	cur.UpdatedAt = time.Now()
	m.events[e.ID] = cur
	e.Slug = cur.Slug
	return nil
}

func (m *MemoryStore) GetEvent(_ context.Context, id uint) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) ListEvents(_ context.Context, f EventFilter) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	events := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].ID < events[j].ID
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func (m *MemoryStore) UpdateEventStatus(_ context.Context, id uint, from, to types.EventStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	e.StatusDate = at
	m.events[id] = e
	return true, nil
}

func (m *MemoryStore) TitleTaken(_ context.Context, title string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := strings.ToLower(strings.TrimSpace(title))
	for id, e := range m.events {
		if id != excludeID && strings.ToLower(e.Title) == want {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) PlaceOrder(_ context.Context, o *models.Order, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[o.EventID]
	if !ok || e.IsCancelled() || e.TotalTickets < o.TicketsPurchased {
		return ErrInsufficientTickets
	}
	e.TotalTickets -= o.TicketsPurchased
	if e.TotalTickets <= 0 {
		e.Status = types.EVENT_SOLDOUT
		e.StatusDate = at
	}
	m.events[e.ID] = e
	o.ID = m.nextID()
	o.CreatedAt, o.UpdatedAt = at, at
	m.orders[o.ID] = *o
	return nil
}

func (m *MemoryStore) withEvent(o models.Order) models.Order {
	if e, ok := m.events[o.EventID]; ok {
		o.Event = &e
	}
	return o
}

func (m *MemoryStore) ListOrdersByUser(_ context.Context, userID uint) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, m.withEvent(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].BookingTime.After(orders[j].BookingTime)
	})
	return orders, nil
}

func (m *MemoryStore) GetOrder(_ context.Context, id, userID uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	o = m.withEvent(o)
	return &o, nil
}

// CountOrders returns how many orders exist for an event.
func (m *MemoryStore) CountOrders(eventID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if o.EventID == eventID {
			n++
		}
	}
	return n
}

func (m *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	u.ID = m.nextID()
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.TrimSpace(email)
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *MemoryStore) PhoneTaken(_ context.Context, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[c.EventID]; !ok {
		return ErrNotFound
	}
	c.ID = m.nextID()
	m.comments[c.ID] = *c
	return nil
}

func (m *MemoryStore) ListComments(_ context.Context, eventID uint) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comments := []models.Comment{}
	for _, c := range m.comments {
		if c.EventID != eventID {
			continue
		}
		if u, ok := m.users[c.UserID]; ok {
			c.User = &u
		}
		comments = append(comments, c)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CommentDate.After(comments[j].CommentDate)
	})
	return comments, nil
}
