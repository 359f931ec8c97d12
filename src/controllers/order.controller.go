package controllers

import (
	"errors"
	"foodievent/src/lib"
	"foodievent/src/lifecycle"
	"foodievent/src/models"
	"foodievent/src/repository"
	"foodievent/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders repository.OrderRepository
	Engine *lifecycle.Engine
}

func (c *OrderController) Purchase(ctx *gin.Context, eventID uint) (*models.Order, int, error) {
	var body types.CreateOrderRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	order, err := c.Engine.Purchase(ctx.Request.Context(), lifecycle.PurchaseRequest{
		EventID:    eventID,
		UserID:     ctx.GetUint("id"),
		Quantity:   body.TicketsPurchased,
		TicketType: body.TicketType,
	}, c.Engine.Now())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusConflict || status == http.StatusBadRequest {
			lib.RecordPurchaseRejected(rejectionReason(err))
		}
		return nil, status, err
	}
	return order, http.StatusCreated, nil
}

func (c *OrderController) List(ctx *gin.Context) ([]models.Order, int, error) {
	orders, err := c.Orders.ListOrdersByUser(ctx.Request.Context(), ctx.GetUint("id"))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return orders, http.StatusOK, nil
}

func (c *OrderController) Get(ctx *gin.Context, id uint) (*models.Order, int, error) {
	order, err := c.Orders.GetOrder(ctx.Request.Context(), id, ctx.GetUint("id"))
	if err != nil {
		return nil, statusFor(err), err
	}
	return order, http.StatusOK, nil
}

// ETicket renders the QR code for an order the caller owns.
func (c *OrderController) ETicket(ctx *gin.Context, id uint) ([]byte, int, error) {
	order, status, err := c.Get(ctx, id)
	if err != nil {
		return nil, status, err
	}
	img, err := lib.RenderETicket(types.ETicketPayload{
		Reference:        order.Reference.String(),
		EventID:          order.EventID,
		TicketsPurchased: order.TicketsPurchased,
		TicketType:       order.TicketType,
	})
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return img, http.StatusOK, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrInsufficientTickets):
		return "insufficient_tickets"
	case errors.Is(err, lifecycle.ErrEventCancelled):
		return "cancelled"
	case errors.Is(err, lifecycle.ErrEventClosed):
		return "closed"
	case errors.Is(err, lifecycle.ErrInvalidQuantity):
		return "invalid_quantity"
	}
	return "other"
}
