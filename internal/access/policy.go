package access

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// policy вычисляет недоступные продукты для одной роли.
type policy interface {
	inaccessible(ctx context.Context, r *Resolver, userID int64) (ProductSet, error)
}

// adminPolicy: администратору доступно всё, хранилище не опрашивается.
type adminPolicy struct{}

func (adminPolicy) inaccessible(context.Context, *Resolver, int64) (ProductSet, error) {
	return nil, nil
}

type userPolicy struct{}

func (userPolicy) inaccessible(ctx context.Context, r *Resolver, userID int64) (ProductSet, error) {
	return r.InaccessibleProducts(ctx, userID)
}

func policyFor(role models.Role) (policy, error) {
	switch role {
	case models.RoleAdmin:
		return adminPolicy{}, nil
	case models.RoleUser:
		return userPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownRole, string(role))
	}
}
