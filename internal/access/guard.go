package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/dotpoint/internal/models"
	"github.com/magabrotheeeer/dotpoint/internal/storage"
)

// ErrForbidden — сущность существует, но пользователю недоступна.
var ErrForbidden = errors.New("access denied")

// CatalogReader описывает чтение каталога, нужное для проверок доступа.
// Отсутствующая сущность возвращается как storage.ErrNotFound,
// Guard пробрасывает её обёрнутой.
type CatalogReader interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	GetModule(ctx context.Context, id int64) (models.Module, error)
	ResourceProductIDsByPath(ctx context.Context, path string) ([]int64, error)
}

// Guard проверяет доступ к отдельным сущностям. Сначала проверяется
// существование, затем права: отсутствующий объект даёт «не найдено»
// даже пользователю, которому он был бы недоступен.
type Guard struct {
	repo    CatalogReader
	metrics *Metrics
}

// NewGuard создаёт Guard. metrics может быть nil.
func NewGuard(repo CatalogReader, metrics *Metrics) *Guard {
	return &Guard{
		repo:    repo,
		metrics: metrics,
	}
}

// Product загружает продукт и проверяет, что он доступен ident.
func (g *Guard) Product(ctx context.Context, ident Identity, productID int64) (models.Product, error) {
	const op = "access.Guard.Product"

	product, err := g.repo.GetProduct(ctx, productID)
	if err != nil {
		g.metrics.observe("product", outcome(err))
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ident.CanAccessProduct(product.ID) {
		g.metrics.observe("product", decisionDeny)
		return models.Product{}, fmt.Errorf("%s: product %d: %w", op, productID, ErrForbidden)
	}
	g.metrics.observe("product", decisionAllow)
	return product, nil
}

// Module загружает модуль и проверяет доступ к продукту-владельцу.
func (g *Guard) Module(ctx context.Context, ident Identity, moduleID int64) (models.Module, error) {
	const op = "access.Guard.Module"

	module, err := g.repo.GetModule(ctx, moduleID)
	if err != nil {
		g.metrics.observe("module", outcome(err))
		return models.Module{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ident.CanAccessProduct(module.ProductID) {
		g.metrics.observe("module", decisionDeny)
		return models.Module{}, fmt.Errorf("%s: module %d: %w", op, moduleID, ErrForbidden)
	}
	g.metrics.observe("module", decisionAllow)
	return module, nil
}

// Preview проверяет доступ к статическому файлу по его URL-пути.
// Пользователю файл доступен, только если он привязан хотя бы к одному
// продукту и все продукты-владельцы ему доступны. Непривязанный файл
// видит только администратор.
func (g *Guard) Preview(ctx context.Context, ident Identity, path string) error {
	const op = "access.Guard.Preview"

	if ident.IsAdmin() {
		g.metrics.observe("preview", decisionAllow)
		return nil
	}

	owners, err := g.repo.ResourceProductIDsByPath(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(owners) == 0 {
		g.metrics.observe("preview", decisionDeny)
		return fmt.Errorf("%s: %s has no owning product: %w", op, path, ErrForbidden)
	}
	for _, productID := range owners {
		if !ident.CanAccessProduct(productID) {
			g.metrics.observe("preview", decisionDeny)
			return fmt.Errorf("%s: %s: %w", op, path, ErrForbidden)
		}
	}
	g.metrics.observe("preview", decisionAllow)
	return nil
}

// FilterProducts оставляет доступные продукты, сохраняя порядок.
func FilterProducts(products []models.Product, ident Identity) []models.Product {
	return filter(products, func(p models.Product) bool {
		return ident.CanAccessProduct(p.ID)
	})
}

// FilterProductsWithModules делает то же для продуктов с модулями.
func FilterProductsWithModules(products []models.ProductWithModules, ident Identity) []models.ProductWithModules {
	return filter(products, func(p models.ProductWithModules) bool {
		return ident.CanAccessProduct(p.ID)
	})
}

// FilterModules оставляет модули доступных продуктов, сохраняя порядок.
func FilterModules(modules []models.Module, ident Identity) []models.Module {
	return filter(modules, func(m models.Module) bool {
		return ident.CanAccessProduct(m.ProductID)
	})
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func outcome(err error) string {
	if errors.Is(err, storage.ErrNotFound) {
		return decisionNotFound
	}
	return decisionError
}
