package models

import (
	"foodievent/src/types"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	Title           string              `gorm:"size:200;not null;index" json:"title"`
	Slug            string              `gorm:"size:220;index" json:"slug,omitempty"`
	Image           string              `json:"image,omitempty"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	Venue           string              `gorm:"size:200" json:"venue"`
	VendorNames     string              `gorm:"size:255" json:"vendor_names"`
	Description     string              `gorm:"type:text" json:"description"`
	TotalTickets    int                 `gorm:"not null;default:0;check:total_tickets >= 0" json:"total_tickets"`
	TicketPrice     decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"ticket_price"`
	FreeSampling    bool                `json:"free_sampling"`
	ProvideTakeaway bool                `json:"provide_takeaway"`
	Category        types.EventCategory `gorm:"size:20;index" json:"category"`
	Status          types.EventStatus   `gorm:"size:20;default:'Open';index" json:"status"`
	StatusDate      time.Time           `json:"status_date"`
	CreatedBy       uint                `gorm:"index" json:"created_by"`

	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"-"`
	Orders   []Order   `json:"-"`
	Comments []Comment `json:"comments,omitempty"`

	types.Timestamps
}

// EventSlug is the URL slug stored alongside the title.
func EventSlug(title string) string {
	return slug.Make(title)
}

func (e *Event) IsCancelled() bool {
	return e.Status == types.EVENT_CANCELLED
}
