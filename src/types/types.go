package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type EventStatus string

const (
	EVENT_OPEN      EventStatus = "Open"
	EVENT_INACTIVE  EventStatus = "Inactive"
	EVENT_SOLDOUT   EventStatus = "Soldout"
	EVENT_CANCELLED EventStatus = "Cancelled"
)

type EventCategory string

const (
	CATEGORY_FOOD     EventCategory = "Food"
	CATEGORY_DRINK    EventCategory = "Drink"
	CATEGORY_CULTURAL EventCategory = "Cultural"
	CATEGORY_DIETARY  EventCategory = "Dietary"
)

func EventCategories() []EventCategory {
	return []EventCategory{CATEGORY_FOOD, CATEGORY_DRINK, CATEGORY_CULTURAL, CATEGORY_DIETARY}
}

type TicketType string

const (
	TICKET_ADULT TicketType = "Adult"
	TICKET_CHILD TicketType = "Child"
)

type AppEnv string

const (
	Local      AppEnv = "local"
	Test       AppEnv = "test"
	Production AppEnv = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type EventQueryFilters struct {
	Category EventCategory `form:"category" binding:"omitempty,eventcategory"`
	Search   string        `form:"search" binding:"omitempty,max=200"`
}

type RegisterUserRequestBody struct {
	FirstName       string `json:"first_name" form:"first_name"`
	Surname         string `json:"surname" form:"surname"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	Address         string `json:"address" form:"address"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm" form:"confirm"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EventFormRequestBody is bound from multipart/form-data. Times use FORM_TIME_FORMAT.
type EventFormRequestBody struct {
	Title           string `form:"title"`
	Description     string `form:"description"`
	StartTime       string `form:"start_time"`
	EndTime         string `form:"end_time"`
	Venue           string `form:"venue"`
	VendorNames     string `form:"vendor_names"`
	TotalTickets    int    `form:"total_tickets"`
	TicketPrice     string `form:"ticket_price"`
	FreeSampling    bool   `form:"free_sampling"`
	ProvideTakeaway bool   `form:"provide_takeaway"`
	Category        string `form:"category"`
}

type CreateOrderRequestBody struct {
	TicketsPurchased int        `json:"tickets_purchased" binding:"required,gt=0"`
	TicketType       TicketType `json:"ticket_type" binding:"required,oneof=Adult Child"`
}

type CreateCommentRequestBody struct {
	Contents string `json:"contents" binding:"required,max=2000"`
}

type OrderPlacedPayload struct {
	Reference        string `json:"reference"`
	EventID          uint   `json:"event_id"`
	UserID           uint   `json:"user_id"`
	TicketsPurchased int    `json:"tickets_purchased"`
	PurchasedAmount  string `json:"purchased_amount"`
	BookedAt         string `json:"booked_at"`
}

// ETicketPayload is encoded into the e-ticket QR code shown at the gate.
type ETicketPayload struct {
	Reference        string     `json:"reference"`
	EventID          uint       `json:"event_id"`
	TicketsPurchased int        `json:"tickets_purchased"`
	TicketType       TicketType `json:"ticket_type"`
}

type StatusChangedPayload struct {
	EventID uint        `json:"event_id"`
	From    EventStatus `json:"from"`
	To      EventStatus `json:"to"`
	At      string      `json:"at"`
}
