package lifecycle

import (
	"context"
	"foodievent/src/models"
	"foodievent/src/repository"
	"foodievent/src/types"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type countingStore struct {
	*repository.MemoryStore
	statusWrites int
}

func (c *countingStore) UpdateEventStatus(ctx context.Context, id uint, from, to types.EventStatus, at time.Time) (bool, error) {
	ok, err := c.MemoryStore.UpdateEventStatus(ctx, id, from, to, at)
	if ok {
		c.statusWrites++
	}
	return ok, err
}

type recordingHooks struct {
	mu       sync.Mutex
	statuses []types.EventStatus
	orders   []models.Order
}

func (r *recordingHooks) StatusChanged(e models.Event, _ types.EventStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, e.Status)
}

func (r *recordingHooks) OrderPlaced(o models.Order, _ models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
}

type EngineSuite struct {
	suite.Suite
	store  *countingStore
	hooks  *recordingHooks
	engine *Engine
	now    time.Time
}

func (s *EngineSuite) SetupTest() {
	s.store = &countingStore{MemoryStore: repository.NewMemoryStore()}
	s.hooks = &recordingHooks{}
	s.engine = NewEngine(s.store, s.hooks)
	s.now = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	s.engine.Now = func() time.Time { return s.now }
}

func (s *EngineSuite) newEvent(total int, end time.Time, status types.EventStatus) *models.Event {
	e := &models.Event{
		Title:        "Harvest Festival",
		StartTime:    end.Add(-4 * time.Hour),
		EndTime:      end,
		TotalTickets: total,
		TicketPrice:  decimal.RequireFromString("19.95"),
		Status:       status,
		CreatedBy:    1,
	}
	s.Require().NoError(s.store.CreateEvent(context.Background(), e))
	return e
}

func (s *EngineSuite) TestDerive() {
	future := s.now.Add(time.Hour)
	past := s.now.Add(-time.Hour)
	cases := []struct {
		name  string
		event models.Event
		want  types.EventStatus
	}{
		{"cancelled is sticky", models.Event{Status: types.EVENT_CANCELLED, TotalTickets: 0, EndTime: future}, types.EVENT_CANCELLED},
		{"no tickets", models.Event{Status: types.EVENT_OPEN, TotalTickets: 0, EndTime: future}, types.EVENT_SOLDOUT},
		{"not ended", models.Event{Status: types.EVENT_INACTIVE, TotalTickets: 5, EndTime: future}, types.EVENT_OPEN},
		{"ends exactly now", models.Event{Status: types.EVENT_OPEN, TotalTickets: 5, EndTime: s.now}, types.EVENT_OPEN},
		{"ended", models.Event{Status: types.EVENT_OPEN, TotalTickets: 5, EndTime: past}, types.EVENT_INACTIVE},
		{"no end time", models.Event{Status: types.EVENT_OPEN, TotalTickets: 5}, types.EVENT_INACTIVE},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, Derive(&tc.event, s.now))
		})
	}
}

func (s *EngineSuite) TestRecomputeIsIdempotent() {
	e := s.newEvent(10, s.now.Add(-time.Minute), types.EVENT_OPEN)

	changed, err := s.engine.RecomputeStatus(context.Background(), e, s.now)
	s.Require().NoError(err)
	s.True(changed)
	s.Equal(types.EVENT_INACTIVE, e.Status)
	s.True(e.StatusDate.Equal(s.now))

	changed, err = s.engine.RecomputeStatus(context.Background(), e, s.now)
	s.Require().NoError(err)
	s.False(changed)
	s.Equal(types.EVENT_INACTIVE, e.Status)
	s.Equal(1, s.store.statusWrites)
	s.Equal([]types.EventStatus{types.EVENT_INACTIVE}, s.hooks.statuses)
}

func (s *EngineSuite) TestCancelledNeverChanges() {
	e := s.newEvent(0, s.now.Add(-time.Hour), types.EVENT_CANCELLED)
	for _, at := range []time.Time{s.now, s.now.Add(24 * time.Hour), s.now.Add(-48 * time.Hour)} {
		changed, err := s.engine.RecomputeStatus(context.Background(), e, at)
		s.Require().NoError(err)
		s.False(changed)
	}
	stored, _ := s.store.GetEvent(context.Background(), e.ID)
	s.Equal(types.EVENT_CANCELLED, stored.Status)
	s.Zero(s.store.statusWrites)
}

func (s *EngineSuite) TestRecomputeAll() {
	s.newEvent(10, s.now.Add(time.Hour), types.EVENT_OPEN)
	s.newEvent(10, s.now.Add(-time.Hour), types.EVENT_OPEN)
	s.newEvent(0, s.now.Add(time.Hour), types.EVENT_OPEN)

	changed, err := s.engine.RecomputeAll(context.Background(), s.now)
	s.Require().NoError(err)
	s.Equal(2, changed)

	changed, err = s.engine.RecomputeAll(context.Background(), s.now)
	s.Require().NoError(err)
	s.Zero(changed)
}

func (s *EngineSuite) TestPurchaseMoreThanRemainingIsRejected() {
	e := s.newEvent(3, s.now.Add(time.Hour), types.EVENT_OPEN)

	order, err := s.engine.Purchase(context.Background(), PurchaseRequest{EventID: e.ID, UserID: 2, Quantity: 4}, s.now)
	s.ErrorIs(err, repository.ErrInsufficientTickets)
	s.Nil(order)

	stored, _ := s.store.GetEvent(context.Background(), e.ID)
	s.Equal(3, stored.TotalTickets)
	s.Equal(types.EVENT_OPEN, stored.Status)
	s.Zero(s.store.CountOrders(e.ID))
}

func (s *EngineSuite) TestPurchaseExactRemainingSellsOut() {
	e := s.newEvent(3, s.now.Add(time.Hour), types.EVENT_OPEN)

	order, err := s.engine.Purchase(context.Background(), PurchaseRequest{EventID: e.ID, UserID: 2, Quantity: 3, TicketType: types.TICKET_CHILD}, s.now)
	s.Require().NoError(err)
	s.True(order.PurchasedAmount.Equal(decimal.RequireFromString("59.85")))
	s.Equal(types.TICKET_CHILD, order.TicketType)
	s.NotEmpty(order.Reference.String())

	stored, _ := s.store.GetEvent(context.Background(), e.ID)
	s.Equal(0, stored.TotalTickets)
	s.Equal(types.EVENT_SOLDOUT, stored.Status)
	s.True(stored.StatusDate.Equal(s.now))
	s.Len(s.hooks.orders, 1)
	s.Equal([]types.EventStatus{types.EVENT_SOLDOUT}, s.hooks.statuses)
}

func (s *EngineSuite) TestPurchaseFreezesPrice() {
	e := s.newEvent(10, s.now.Add(time.Hour), types.EVENT_OPEN)
	order, err := s.engine.Purchase(context.Background(), PurchaseRequest{EventID: e.ID, UserID: 2, Quantity: 2}, s.now)
	s.Require().NoError(err)
	s.Equal(types.TICKET_ADULT, order.TicketType)

	e.TicketPrice = decimal.NewFromInt(100)
	s.Require().NoError(s.store.UpdateEventDetails(context.Background(), e))

	orders, _ := s.store.ListOrdersByUser(context.Background(), 2)
	s.Require().Len(orders, 1)
	s.True(orders[0].PurchasedAmount.Equal(decimal.RequireFromString("39.90")))
}

func (s *EngineSuite) TestPurchaseRejections() {
	ctx := context.Background()
	open := s.newEvent(5, s.now.Add(time.Hour), types.EVENT_OPEN)
	ended := s.newEvent(5, s.now.Add(-time.Hour), types.EVENT_OPEN)
	cancelled := s.newEvent(5, s.now.Add(time.Hour), types.EVENT_CANCELLED)

	_, err := s.engine.Purchase(ctx, PurchaseRequest{EventID: open.ID, UserID: 2, Quantity: 0}, s.now)
	s.ErrorIs(err, ErrInvalidQuantity)
	_, err = s.engine.Purchase(ctx, PurchaseRequest{EventID: ended.ID, UserID: 2, Quantity: 1}, s.now)
	s.ErrorIs(err, ErrEventClosed)
	_, err = s.engine.Purchase(ctx, PurchaseRequest{EventID: cancelled.ID, UserID: 2, Quantity: 1}, s.now)
	s.ErrorIs(err, ErrEventCancelled)
	_, err = s.engine.Purchase(ctx, PurchaseRequest{EventID: 999, UserID: 2, Quantity: 1}, s.now)
	s.ErrorIs(err, repository.ErrNotFound)
	s.Empty(s.hooks.orders)
}

func (s *EngineSuite) TestCancel() {
	ctx := context.Background()
	e := s.newEvent(5, s.now.Add(time.Hour), types.EVENT_OPEN)

	res, err := s.engine.Cancel(ctx, e.ID, 99)
	s.Require().NoError(err)
	s.Equal(CancelForbidden, res)
	stored, _ := s.store.GetEvent(ctx, e.ID)
	s.Equal(types.EVENT_OPEN, stored.Status)

	res, err = s.engine.Cancel(ctx, e.ID, 1)
	s.Require().NoError(err)
	s.Equal(CancelOK, res)
	s.Equal("Event has been cancelled.", res.Message())

	res, err = s.engine.Cancel(ctx, e.ID, 1)
	s.Require().NoError(err)
	s.Equal(CancelAlreadyCancelled, res)
	s.NotEqual(CancelOK.Message(), res.Message())
	s.Equal(1, s.store.statusWrites)

	_, err = s.engine.Cancel(ctx, 404, 1)
	s.ErrorIs(err, repository.ErrNotFound)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func TestNewEngineWithoutHooks(t *testing.T) {
	store := repository.NewMemoryStore()
	en := NewEngine(store, nil)
	e := &models.Event{Title: "Solo", EndTime: time.Now().Add(-time.Hour), TotalTickets: 1, Status: types.EVENT_OPEN}
	assert.NoError(t, store.CreateEvent(context.Background(), e))
	changed, err := en.RecomputeStatus(context.Background(), e, time.Now())
	assert.NoError(t, err)
	assert.True(t, changed)
}
