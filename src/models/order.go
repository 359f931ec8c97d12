package models

import (
	"foodievent/src/types"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is immutable once created. PurchasedAmount is frozen at booking time.
type Order struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	Reference        uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"reference"`
	EventID          uint             `gorm:"index;not null" json:"event_id"`
	UserID           uint             `gorm:"index;not null" json:"user_id"`
	TicketsPurchased int              `gorm:"not null;check:tickets_purchased > 0" json:"tickets_purchased"`
	TicketType       types.TicketType `gorm:"size:10;default:'Adult'" json:"ticket_type"`
	PurchasedAmount  decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"purchased_amount"`
	BookingTime      time.Time        `json:"booking_time"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`

	types.Timestamps
}
