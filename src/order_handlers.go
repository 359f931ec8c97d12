package main

import (
	"fmt"
	"foodievent/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func orderHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	g.
		POST("/events/:id/orders", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			order, status, err := app.Orders.Purchase(ctx, params.ID)
			if err != nil {
				respondError(ctx, "Purchase", status, err)
				return
			}
			ctx.JSON(status, gin.H{
				"data":    order,
				"message": fmt.Sprintf("Successfully booked %d ticket(s).", order.TicketsPurchased),
			})
		}).
		GET("/orders", func(ctx *gin.Context) {
			orders, status, err := app.Orders.List(ctx)
			if err != nil {
				respondError(ctx, "ListOrders", status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": orders, "count": len(orders)})
		}).
		GET("/orders/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			order, status, err := app.Orders.Get(ctx, params.ID)
			if err != nil {
				respondError(ctx, "GetOrder", status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		}).
		GET("/orders/:id/eticket", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			img, status, err := app.Orders.ETicket(ctx, params.ID)
			if err != nil {
				respondError(ctx, "ETicket", status, err)
				return
			}
			ctx.Header("Content-Disposition", `attachment; filename="eticket.jpeg"`)
			ctx.Data(http.StatusOK, http.DetectContentType(img), img)
		})
	return g
}
