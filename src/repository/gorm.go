package repository

import (
	"context"
	"errors"
	"foodievent/src/models"
	"foodievent/src/models/scopes"
	"foodievent/src/types"
	"strings"
	"time"

	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) CreateEvent(ctx context.Context, e *models.Event) error {
	e.Slug = models.EventSlug(e.Title)
	return translate(s.db.WithContext(ctx).Create(e).Error)
}

func (s *GormStore) UpdateEventDetails(ctx context.Context, e *models.Event) error {
	e.Slug = models.EventSlug(e.Title)
	res := s.db.WithContext(ctx).
		Model(&models.Event{ID: e.ID}).
		Select(
			"title", "slug", "image", "start_time", "end_time", "venue",
			"vendor_names", "description", "ticket_price", "free_sampling",
			"provide_takeaway", "category",
		).
		Updates(e)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Scopes(scopes.WithID(id)).
		First(&event).
		Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (s *GormStore) ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Scopes(scopes.WithCategory(f.Category), scopes.WithDescriptionLike(f.Search)).
		Order("start_time asc").
		Find(&events).
		Error
	return events, translate(err)
}

func (s *GormStore) UpdateEventStatus(ctx context.Context, id uint, from, to types.EventStatus, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":      to,
			"status_date": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title)))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) PlaceOrder(ctx context.Context, o *models.Order, at time.Time) error {
	qty := o.TicketsPurchased
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Event{}).
			Scopes(scopes.WithID(o.EventID), scopes.WithoutStatus(types.EVENT_CANCELLED)).
			Where("total_tickets >= ?", qty).
			Updates(map[string]any{
				"total_tickets": gorm.Expr("total_tickets - ?", qty),
				"status":        gorm.Expr("CASE WHEN total_tickets - ? <= 0 THEN ? ELSE status END", qty, types.EVENT_SOLDOUT),
				"status_date":   gorm.Expr("CASE WHEN total_tickets - ? <= 0 THEN ? ELSE status_date END", qty, at),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientTickets
		}
		if err := tx.Create(o).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *GormStore) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Scopes(scopes.OwnedBy(userID)).
		Preload("Event").
		Order("booking_time desc").
		Find(&orders).
		Error
	return orders, translate(err)
}

func (s *GormStore) GetOrder(ctx context.Context, id, userID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Scopes(scopes.WithID(id), scopes.OwnedBy(userID)).
		Preload("Event").
		First(&order).
		Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).
		Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).
		Error
	return count > 0, err
}

func (s *GormStore) PhoneTaken(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("phone = ?", phone).
		Count(&count).
		Error
	return count > 0, err
}

func (s *GormStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *GormStore) ListComments(ctx context.Context, eventID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("event_id = ?", eventID).
		Preload("User").
		Order("comment_date desc").
		Find(&comments).
		Error
	return comments, translate(err)
}
