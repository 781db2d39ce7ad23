package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

const subscriptionColumns = `id, user_id, product_id, expiration_date`

func scanSubscription(row scanner) (models.Subscription, error) {
	var sub models.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.ProductID, &sub.ExpirationDate)
	return sub, err
}

// CreateSubscription сохраняет подписку. Повтор пары (пользователь, продукт)
// даёт ErrDuplicateSubscription. Ссылка на несуществующего пользователя
// или продукт даёт ErrInvalidReference.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, product_id, expiration_date)
			  VALUES ($1, $2, $3::date)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.ProductID, sub.ExpirationDate.Format(models.DateLayout)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return id, nil
}

// UpdateSubscriptionExpiration меняет дату окончания и возвращает обновлённую подписку.
func (s *Storage) UpdateSubscriptionExpiration(ctx context.Context, id int64, expiration time.Time) (models.Subscription, error) {
	const op = "storage.UpdateSubscriptionExpiration"

	query := `UPDATE subscriptions SET expiration_date = $1::date
			  WHERE id = $2
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, expiration.Format(models.DateLayout), id))
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return sub, nil
}

// ListSubscriptionsByUser возвращает все подписки пользователя, включая истёкшие.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID int64) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptionsByUser"

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	subs := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// DeleteSubscription удаляет подписку пользователя на продукт.
func (s *Storage) DeleteSubscription(ctx context.Context, userID, productID int64) error {
	const op = "storage.DeleteSubscription"

	query := `DELETE FROM subscriptions WHERE user_id = $1 AND product_id = $2`
	result, err := s.DB.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ActiveSubscriptionProductIDs возвращает продукты, подписка на которые
// действует в день asOf. День окончания подписки ещё считается действующим.
func (s *Storage) ActiveSubscriptionProductIDs(ctx context.Context, userID int64, asOf time.Time) ([]int64, error) {
	const op = "storage.ActiveSubscriptionProductIDs"

	query := `SELECT product_id FROM subscriptions
			  WHERE user_id = $1 AND expiration_date >= $2::date`
	rows, err := s.DB.QueryContext(ctx, query, userID, asOf.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ids, err := collectIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
