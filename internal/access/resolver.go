package access

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// EntitlementRepository описывает данные, необходимые для расчёта прав.
type EntitlementRepository interface {
	// ActiveSubscriptionProductIDs возвращает продукты, подписка на которые
	// у пользователя действует в день asOf (expiration_date >= asOf).
	ActiveSubscriptionProductIDs(ctx context.Context, userID int64, asOf time.Time) ([]int64, error)
	// SubscriptionRequiredProductIDs возвращает все платные продукты.
	SubscriptionRequiredProductIDs(ctx context.Context) ([]int64, error)
}

// Resolver вычисляет множество недоступных пользователю продуктов.
// Результат не кешируется: каждый вызов читает хранилище заново.
type Resolver struct {
	repo EntitlementRepository
	now  func() time.Time
}

// NewResolver создаёт Resolver поверх репозитория.
func NewResolver(repo EntitlementRepository) *Resolver {
	return &Resolver{
		repo: repo,
		now:  time.Now,
	}
}

// InaccessibleProducts возвращает платные продукты без действующей подписки пользователя.
func (r *Resolver) InaccessibleProducts(ctx context.Context, userID int64) (ProductSet, error) {
	const op = "access.InaccessibleProducts"

	today := models.DateOf(r.now().UTC())

	active, err := r.repo.ActiveSubscriptionProductIDs(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	required, err := r.repo.SubscriptionRequiredProductIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return without(required, NewProductSet(active...)), nil
}

// Identify строит Identity пользователя в соответствии с его ролью.
// Неизвестная роль даёт models.ErrUnknownRole.
func (r *Resolver) Identify(ctx context.Context, userID int64, role models.Role) (Identity, error) {
	const op = "access.Identify"

	p, err := policyFor(role)
	if err != nil {
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	set, err := p.inaccessible(ctx, r, userID)
	if err != nil {
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	return NewIdentity(userID, role, set), nil
}
