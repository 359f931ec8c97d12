// Package lifecycle derives event status from time and inventory and applies
// the purchase and cancellation rules on top of a repository.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"foodievent/src/models"
	"foodievent/src/repository"
	"foodievent/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("ticket quantity must be at least 1")
	ErrEventCancelled  = errors.New("event has been cancelled")
	ErrEventClosed     = errors.New("event has already ended")
)

// Store is the subset of repository.Store the engine needs.
type Store interface {
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context, f repository.EventFilter) ([]models.Event, error)
	UpdateEventStatus(ctx context.Context, id uint, from, to types.EventStatus, at time.Time) (bool, error)
	PlaceOrder(ctx context.Context, o *models.Order, at time.Time) error
}

// Hooks receive committed changes. Implementations must not block.
type Hooks interface {
	StatusChanged(e models.Event, from types.EventStatus)
	OrderPlaced(o models.Order, e models.Event)
}

type noopHooks struct{}

func (noopHooks) StatusChanged(models.Event, types.EventStatus) {}
func (noopHooks) OrderPlaced(models.Order, models.Event)        {}

type Engine struct {
	store Store
	hooks Hooks
	// Now is the engine clock. Handlers read it to supply now.
	Now func() time.Time
}

func NewEngine(store Store, hooks Hooks) *Engine {
	if hooks == nil {
		hooks = noopHooks{}
	}
	return &Engine{store: store, hooks: hooks, Now: time.Now}
}

// Derive returns the status an event should have at now.
//
// Cancelled is sticky. Otherwise no inventory means Soldout, a set end time
// not yet passed means Open, and anything else is Inactive.
func Derive(e *models.Event, now time.Time) types.EventStatus {
	switch {
	case e.IsCancelled():
		return types.EVENT_CANCELLED
	case e.TotalTickets <= 0:
		return types.EVENT_SOLDOUT
	case !e.EndTime.IsZero() && !now.After(e.EndTime):
		return types.EVENT_OPEN
	default:
		return types.EVENT_INACTIVE
	}
}

// RecomputeStatus persists the derived status when it differs from the
// stored one. It writes nothing when they already agree.
func (en *Engine) RecomputeStatus(ctx context.Context, e *models.Event, now time.Time) (bool, error) {
	next := Derive(e, now)
	if next == e.Status {
		return false, nil
	}
	from := e.Status
	ok, err := en.store.UpdateEventStatus(ctx, e.ID, from, next, now)
	if err != nil {
		return false, fmt.Errorf("update status of event %d: %w", e.ID, err)
	}
	if !ok {
		// Someone else moved it first. Reload so the caller sees the stored value.
		fresh, err := en.store.GetEvent(ctx, e.ID)
		if err != nil {
			return false, err
		}
		*e = *fresh
		return false, nil
	}
	e.Status = next
	e.StatusDate = now
	en.hooks.StatusChanged(*e, from)
	return true, nil
}

// RecomputeAll runs RecomputeStatus over every event and returns how many
// changed. Errors on individual events are logged and do not stop the pass.
func (en *Engine) RecomputeAll(ctx context.Context, now time.Time) (int, error) {
	events, err := en.store.ListEvents(ctx, repository.EventFilter{})
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range events {
		ok, err := en.RecomputeStatus(ctx, &events[i], now)
		if err != nil {
			log.Printf("[Lifecycle] Error recomputing event %d: %s\n", events[i].ID, err.Error())
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

type PurchaseRequest struct {
	EventID    uint
	UserID     uint
	Quantity   int
	TicketType types.TicketType
}

// Purchase books tickets. Quantity must be positive and no greater than the
// remaining inventory. The decrement, the Soldout transition when inventory
// hits zero, and the order insert commit together or not at all.
func (en *Engine) Purchase(ctx context.Context, req PurchaseRequest, now time.Time) (*models.Order, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	event, err := en.store.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	switch Derive(event, now) {
	case types.EVENT_CANCELLED:
		return nil, ErrEventCancelled
	case types.EVENT_INACTIVE:
		return nil, ErrEventClosed
	}
	if req.Quantity > event.TotalTickets {
		return nil, repository.ErrInsufficientTickets
	}
	if req.TicketType == "" {
		req.TicketType = types.TICKET_ADULT
	}

	order := &models.Order{
		Reference:        uuid.New(),
		EventID:          event.ID,
		UserID:           req.UserID,
		TicketsPurchased: req.Quantity,
		TicketType:       req.TicketType,
		PurchasedAmount:  event.TicketPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		BookingTime:      now,
	}
	if err := en.store.PlaceOrder(ctx, order, now); err != nil {
		return nil, err
	}

	from := event.Status
	event.TotalTickets -= req.Quantity
	if event.TotalTickets <= 0 {
		event.Status = types.EVENT_SOLDOUT
		event.StatusDate = now
	}
	en.hooks.OrderPlaced(*order, *event)
	if event.Status != from {
		en.hooks.StatusChanged(*event, from)
	}
	return order, nil
}

type CancelResult int

const (
	CancelOK CancelResult = iota
	CancelForbidden
	CancelAlreadyCancelled
)

func (r CancelResult) Message() string {
	switch r {
	case CancelOK:
		return "Event has been cancelled."
	case CancelForbidden:
		return "Only the event creator can cancel this event."
	case CancelAlreadyCancelled:
		return "This event has already been cancelled."
	}
	return ""
}

// Cancel marks an event Cancelled. Only the creator may cancel; any other
// actor, or a repeat cancel, leaves the event untouched.
func (en *Engine) Cancel(ctx context.Context, eventID, actorID uint) (CancelResult, error) {
	event, err := en.store.GetEvent(ctx, eventID)
	if err != nil {
		return CancelForbidden, err
	}
	if event.CreatedBy != actorID {
		return CancelForbidden, nil
	}
	now := en.Now()
	for !event.IsCancelled() {
		from := event.Status
		ok, err := en.store.UpdateEventStatus(ctx, event.ID, from, types.EVENT_CANCELLED, now)
		if err != nil {
			return CancelForbidden, fmt.Errorf("cancel event %d: %w", event.ID, err)
		}
		if ok {
			event.Status = types.EVENT_CANCELLED
			event.StatusDate = now
			en.hooks.StatusChanged(*event, from)
			return CancelOK, nil
		}
		if event, err = en.store.GetEvent(ctx, eventID); err != nil {
			return CancelForbidden, err
		}
	}
	return CancelAlreadyCancelled, nil
}
