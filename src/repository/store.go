// Package repository persists users, events, orders and comments.
//
// Two implementations share the Store interface: GormStore for postgres or
// sqlite, and MemoryStore for tests and local runs without a database.
package repository

import (
	"context"
	"errors"
	"foodievent/src/models"
	"foodievent/src/types"
	"time"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientTickets is returned by PlaceOrder when the event cannot
	// cover the requested quantity. Nothing is written in that case.
	ErrInsufficientTickets = errors.New("not enough tickets remaining")
	ErrDuplicate           = errors.New("record already exists")
)

type EventFilter struct {
	Category types.EventCategory
	Search   string
}

type EventRepository interface {
	CreateEvent(ctx context.Context, e *models.Event) error
	// UpdateEventDetails writes organizer-editable fields only. Status and
	// inventory are left to the lifecycle engine.
	UpdateEventDetails(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error)
	// UpdateEventStatus moves an event from one status to another. It reports
	// false when the stored status no longer equals from.
	UpdateEventStatus(ctx context.Context, id uint, from, to types.EventStatus, at time.Time) (bool, error)
	TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error)
}

type OrderRepository interface {
	// PlaceOrder decrements the event inventory by the order quantity and
	// inserts the order in one unit of work. When the inventory reaches zero
	// the event becomes Soldout with status_date = at.
	PlaceOrder(ctx context.Context, o *models.Order, at time.Time) error
	ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetOrder(ctx context.Context, id, userID uint) (*models.Order, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	PhoneTaken(ctx context.Context, phone string) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, eventID uint) ([]models.Comment, error)
}

type Store interface {
	EventRepository
	OrderRepository
	UserRepository
	CommentRepository
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
