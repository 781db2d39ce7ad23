package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// IdentityKey — ключ для access.Identity текущего запроса.
	IdentityKey Key = "identity"
	// ProductKey — ключ для продукта, уже прошедшего проверку доступа.
	ProductKey Key = "product"
	// ModuleKey — ключ для модуля, уже прошедшего проверку доступа.
	ModuleKey Key = "module"
)

// WithIdentity кладёт личность запроса в контекст.
func WithIdentity(ctx context.Context, ident access.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, ident)
}

// IdentityFrom достаёт личность, положенную JWTMiddleware.
func IdentityFrom(ctx context.Context) (access.Identity, bool) {
	ident, ok := ctx.Value(IdentityKey).(access.Identity)
	return ident, ok
}

// ProductFrom достаёт продукт, положенный ProductAccess.
func ProductFrom(ctx context.Context) (models.Product, bool) {
	p, ok := ctx.Value(ProductKey).(models.Product)
	return p, ok
}

// ModuleFrom достаёт модуль, положенный ModuleAccess.
func ModuleFrom(ctx context.Context) (models.Module, bool) {
	m, ok := ctx.Value(ModuleKey).(models.Module)
	return m, ok
}
