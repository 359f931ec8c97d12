package common

import (
	"context"
	"fmt"
	"foodievent/src/lib"
	"foodievent/src/models"
	"foodievent/src/repository"
	"foodievent/src/types"
	"log"
	"strings"
	"sync"
	"time"
)

const sendTimeout = 30 * time.Second

// Notifier fans committed lifecycle changes out to metrics, the message
// broker and order confirmation email. Delivery happens off the request path.
type Notifier struct {
	publisher lib.Publisher
	mailer    lib.Mailer
	users     repository.UserRepository
	mailFrom  string
	wg        sync.WaitGroup
}

func NewNotifier(publisher lib.Publisher, mailer lib.Mailer, users repository.UserRepository, mailFrom string) *Notifier {
	if publisher == nil {
		publisher = lib.NoopPublisher{}
	}
	return &Notifier{publisher: publisher, mailer: mailer, users: users, mailFrom: mailFrom}
}

func (n *Notifier) StatusChanged(e models.Event, from types.EventStatus) {
	lib.RecordStatusChange(string(from), string(e.Status))
	payload := types.StatusChangedPayload{
		EventID: e.ID,
		From:    from,
		To:      e.Status,
		At:      e.StatusDate.UTC().Format(time.RFC3339),
	}
	n.goPublish(lib.QueueStatusChanged, payload)
}

func (n *Notifier) OrderPlaced(o models.Order, e models.Event) {
	lib.RecordOrder(string(e.Category), string(o.TicketType), o.TicketsPurchased)
	payload := types.OrderPlacedPayload{
		Reference:        o.Reference.String(),
		EventID:          o.EventID,
		UserID:           o.UserID,
		TicketsPurchased: o.TicketsPurchased,
		PurchasedAmount:  o.PurchasedAmount.StringFixed(2),
		BookedAt:         o.BookingTime.UTC().Format(time.RFC3339),
	}
	n.goPublish(lib.QueueOrderPlaced, payload)

	if n.mailer == nil || n.users == nil {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		user, err := n.users.GetUser(ctx, o.UserID)
		if err != nil {
			log.Printf("[Notifier] could not load user %d: %s\n", o.UserID, err.Error())
			return
		}
		err = n.mailer.Send(ctx, &lib.SendMailInput{
			From:     n.mailFrom,
			FromName: "Foodie Events",
			To:       []string{user.Email},
			Subject:  fmt.Sprintf("Your tickets for %s", e.Title),
			Body:     OrderConfirmationBody(o, e, *user),
		})
		if err != nil {
			log.Printf("[Notifier] confirmation for order %s not sent: %s\n", o.Reference, err.Error())
		}
	}()
}

func (n *Notifier) goPublish(queue string, payload any) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := n.publisher.Publish(ctx, queue, payload); err != nil {
			log.Printf("[Notifier] publish to %s failed: %s\n", queue, err.Error())
		}
	}()
}

// Wait blocks until every pending delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func OrderConfirmationBody(o models.Order, e models.Event, u models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", u.FullName())
	fmt.Fprintf(&b, "Thanks for booking %s.\n\n", e.Title)
	fmt.Fprintf(&b, "Order reference: %s\n", o.Reference)
	fmt.Fprintf(&b, "Tickets: %d x %s\n", o.TicketsPurchased, o.TicketType)
	fmt.Fprintf(&b, "Total paid: $%s\n", o.PurchasedAmount.StringFixed(2))
	fmt.Fprintf(&b, "Venue: %s\n", e.Venue)
	fmt.Fprintf(&b, "Starts: %s\n", e.StartTime.Format("Mon 2 Jan 2006 3:04 PM"))
	return b.String()
}
