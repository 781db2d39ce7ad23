// Package services содержит бизнес-логику управления подписками пользователей на продукты.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// ErrInvalidDate — дата окончания не в формате YYYY-MM-DD.
var ErrInvalidDate = errors.New("expiration_date must be a date in format YYYY-MM-DD")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error)
	// UpdateSubscriptionExpiration меняет дату окончания подписки по ID.
	UpdateSubscriptionExpiration(ctx context.Context, id int64, expiration time.Time) (models.Subscription, error)
	// ListSubscriptionsByUser возвращает подписки пользователя.
	ListSubscriptionsByUser(ctx context.Context, userID int64) ([]models.Subscription, error)
	// DeleteSubscription удаляет подписку пользователя на продукт.
	DeleteSubscription(ctx context.Context, userID, productID int64) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo SubscriptionRepository
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// Create выдаёт пользователю подписку на продукт.
// Повторная подписка на тот же продукт даёт storage.ErrDuplicateSubscription.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (models.Subscription, error) {
	const op = "services.subscription.Create"

	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	sub := models.Subscription{
		UserID:         req.UserID,
		ProductID:      req.ProductID,
		ExpirationDate: expiration,
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id
	return sub, nil
}

// Update продлевает или сокращает подписку.
func (s *SubscriptionService) Update(ctx context.Context, id int64, req models.SubscriptionUpdate) (models.Subscription, error) {
	const op = "services.subscription.Update"

	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := s.repo.UpdateSubscriptionExpiration(ctx, id, expiration)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListForUser возвращает все подписки пользователя.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID int64) ([]models.Subscription, error) {
	const op = "services.subscription.ListForUser"

	subs, err := s.repo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// Delete отзывает подписку пользователя на продукт.
func (s *SubscriptionService) Delete(ctx context.Context, userID, productID int64) error {
	const op = "services.subscription.Delete"

	if err := s.repo.DeleteSubscription(ctx, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
