package controllers

import (
	"errors"
	"fmt"
	"foodievent/src/lifecycle"
	"foodievent/src/models"
	"foodievent/src/repository"
	"foodievent/src/storage"
	"foodievent/src/types"
	"foodievent/src/utils"
	"foodievent/src/validation"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var ErrNotCreator = errors.New("only the event creator can update this event")

const msgInvalidDateTime = "Not a valid datetime value."

type EventController struct {
	Store     repository.Store
	Engine    *lifecycle.Engine
	Validator *validation.Validator
	Files     storage.FileStore
}

// List recomputes every status first so the listing reflects the clock.
func (c *EventController) List(ctx *gin.Context) ([]models.Event, int, error) {
	var filters types.EventQueryFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if _, err := c.Engine.RecomputeAll(ctx.Request.Context(), c.Engine.Now()); err != nil {
		log.Printf("[Events] recompute before list failed: %s\n", err.Error())
	}
	events, err := c.Store.ListEvents(ctx.Request.Context(), repository.EventFilter{
		Category: filters.Category,
		Search:   strings.TrimSpace(filters.Search),
	})
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return events, http.StatusOK, nil
}

func (c *EventController) Get(ctx *gin.Context, id uint) (*models.Event, int, error) {
	event, err := c.Store.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		return nil, statusFor(err), err
	}
	if _, err := c.Engine.RecomputeStatus(ctx.Request.Context(), event, c.Engine.Now()); err != nil {
		log.Printf("[Events] recompute of %d failed: %s\n", id, err.Error())
	}
	comments, err := c.Store.ListComments(ctx.Request.Context(), id)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	event.Comments = comments
	return event, http.StatusOK, nil
}

// submission binds the multipart form. Unparseable times and prices are
// reported as field errors alongside the rule failures.
func (c *EventController) submission(ctx *gin.Context) (validation.EventSubmission, *multipart.FileHeader, validation.FieldErrors, error) {
	var body types.EventFormRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		return validation.EventSubmission{}, nil, nil, err
	}
	parseErrs := validation.FieldErrors{}
	start, err := utils.ParseFormTime(body.StartTime)
	if err != nil {
		parseErrs["start_time"] = msgInvalidDateTime
	}
	end, err := utils.ParseFormTime(body.EndTime)
	if err != nil {
		parseErrs["end_time"] = msgInvalidDateTime
	}
	price, err := utils.ParseDecimal(body.TicketPrice)
	if err != nil {
		parseErrs["ticket_price"] = "Not a valid decimal value."
	}
	image, err := ctx.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return validation.EventSubmission{}, nil, nil, err
	}
	sub := validation.EventSubmission{
		Title:           body.Title,
		Description:     body.Description,
		StartTime:       start,
		EndTime:         end,
		Venue:           body.Venue,
		VendorNames:     body.VendorNames,
		TotalTickets:    body.TotalTickets,
		TicketPrice:     price,
		Category:        types.EventCategory(body.Category),
		FreeSampling:    body.FreeSampling,
		ProvideTakeaway: body.ProvideTakeaway,
	}
	if image != nil {
		sub.ImageName = image.Filename
	}
	return validation.NormalizeEventSubmission(sub), image, parseErrs, nil
}

func merge(dst, src validation.FieldErrors) validation.FieldErrors {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (c *EventController) saveImage(ctx *gin.Context, image *multipart.FileHeader) (string, error) {
	f, err := image.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return c.Files.Save(ctx.Request.Context(), utils.SecureFilename(image.Filename), f)
}

// discardImage removes an upload that no stored event points at.
func (c *EventController) discardImage(ctx *gin.Context, ref string) {
	if err := c.Files.Delete(ctx.Request.Context(), ref); err != nil {
		log.Printf("[Events] could not remove image %s: %s\n", ref, err.Error())
	}
}

func (c *EventController) Create(ctx *gin.Context) (*models.Event, int, error) {
	sub, image, parseErrs, err := c.submission(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	errs, err := c.Validator.ValidateEventSubmission(ctx.Request.Context(), sub, 0)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if errs = merge(errs, parseErrs); len(errs) > 0 {
		return nil, http.StatusBadRequest, errs
	}
	imagePath, err := c.saveImage(ctx, image)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("save image: %w", err)
	}

	now := c.Engine.Now()
	event := &models.Event{
		Title:           sub.Title,
		Image:           imagePath,
		StartTime:       sub.StartTime,
		EndTime:         sub.EndTime,
		Venue:           sub.Venue,
		VendorNames:     sub.VendorNames,
		Description:     sub.Description,
		TotalTickets:    sub.TotalTickets,
		TicketPrice:     sub.TicketPrice,
		FreeSampling:    sub.FreeSampling,
		ProvideTakeaway: sub.ProvideTakeaway,
		Category:        sub.Category,
		Status:          types.EVENT_OPEN,
		StatusDate:      now,
		CreatedBy:       ctx.GetUint("id"),
	}
	if err := c.Store.CreateEvent(ctx.Request.Context(), event); err != nil {
		c.discardImage(ctx, imagePath)
		return nil, statusFor(err), err
	}
	if _, err := c.Engine.RecomputeStatus(ctx.Request.Context(), event, now); err != nil {
		log.Printf("[Events] recompute of new event %d failed: %s\n", event.ID, err.Error())
	}
	return event, http.StatusCreated, nil
}

// Update edits the organizer fields. Inventory and status are not editable
// here, and a missing image keeps the stored one.
func (c *EventController) Update(ctx *gin.Context, id uint) (*models.Event, int, error) {
	event, err := c.Store.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		return nil, statusFor(err), err
	}
	if event.CreatedBy != ctx.GetUint("id") {
		return nil, http.StatusForbidden, ErrNotCreator
	}
	sub, image, parseErrs, err := c.submission(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	errs, err := c.Validator.ValidateEventSubmission(ctx.Request.Context(), sub, event.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	delete(errs, "total_tickets")
	if errs = merge(errs, parseErrs); len(errs) > 0 {
		return nil, http.StatusBadRequest, errs
	}
	previousImage := event.Image
	if image != nil {
		if event.Image, err = c.saveImage(ctx, image); err != nil {
			return nil, http.StatusInternalServerError, fmt.Errorf("save image: %w", err)
		}
	}

	event.Title = sub.Title
	event.Description = sub.Description
	event.StartTime = sub.StartTime
	event.EndTime = sub.EndTime
	event.Venue = sub.Venue
	event.VendorNames = sub.VendorNames
	event.TicketPrice = sub.TicketPrice
	event.Category = sub.Category
	event.FreeSampling = sub.FreeSampling
	event.ProvideTakeaway = sub.ProvideTakeaway
	if err := c.Store.UpdateEventDetails(ctx.Request.Context(), event); err != nil {
		if event.Image != previousImage {
			c.discardImage(ctx, event.Image)
		}
		return nil, statusFor(err), err
	}
	if event.Image != previousImage && previousImage != "" {
		c.discardImage(ctx, previousImage)
	}
	if _, err := c.Engine.RecomputeStatus(ctx.Request.Context(), event, c.Engine.Now()); err != nil {
		log.Printf("[Events] recompute of %d failed: %s\n", event.ID, err.Error())
	}
	return event, http.StatusOK, nil
}

func (c *EventController) Cancel(ctx *gin.Context, id uint) (lifecycle.CancelResult, int, error) {
	res, err := c.Engine.Cancel(ctx.Request.Context(), id, ctx.GetUint("id"))
	if err != nil {
		return res, statusFor(err), err
	}
	if res == lifecycle.CancelForbidden {
		return res, http.StatusForbidden, nil
	}
	return res, http.StatusOK, nil
}

func (c *EventController) AddComment(ctx *gin.Context, id uint) (*models.Comment, int, error) {
	var body types.CreateCommentRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	contents := strings.TrimSpace(body.Contents)
	if contents == "" {
		return nil, http.StatusBadRequest, validation.FieldErrors{"contents": validation.MsgRequired}
	}
	if _, err := c.Store.GetEvent(ctx.Request.Context(), id); err != nil {
		return nil, statusFor(err), err
	}
	comment := &models.Comment{
		Contents:    contents,
		CommentDate: time.Now(),
		UserID:      ctx.GetUint("id"),
		EventID:     id,
	}
	if err := c.Store.CreateComment(ctx.Request.Context(), comment); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return comment, http.StatusCreated, nil
}
