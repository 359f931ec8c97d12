package main

import (
	"foodievent/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func publicEventRoutes(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			events, status, err := app.Events.List(ctx)
			if err != nil {
				respondError(ctx, "ListEvents", status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, status, err := app.Events.Get(ctx, params.ID)
			if err != nil {
				if status == http.StatusNotFound {
					ctx.JSON(status, gin.H{"error": "Event does not exist"})
					return
				}
				respondError(ctx, "GetEvent", status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			event, status, err := app.Events.Create(ctx)
			if err != nil {
				respondError(ctx, "CreateEvent", status, err)
				return
			}
			ctx.JSON(status, gin.H{
				"data":    event,
				"message": "Successfully created new Food and Drink Festival event",
			})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, status, err := app.Events.Update(ctx, params.ID)
			if err != nil {
				respondError(ctx, "UpdateEvent", status, err)
				return
			}
			ctx.JSON(status, gin.H{
				"data":    event,
				"message": "Successfully updated Food and Drink Festival event",
			})
		}).
		PATCH("/events/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, status, err := app.Events.Cancel(ctx, params.ID)
			if err != nil {
				respondError(ctx, "CancelEvent", status, err)
				return
			}
			ctx.JSON(status, gin.H{"message": res.Message()})
		}).
		POST("/events/:id/comments", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			comment, status, err := app.Events.AddComment(ctx, params.ID)
			if err != nil {
				respondError(ctx, "AddComment", status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": comment, "message": "Your comment has been added"})
		})
	return g
}
