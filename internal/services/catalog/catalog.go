// Package services содержит логику каталога: списки продуктов и модулей
// с учётом прав пользователя, их детальные представления и управление ими.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/dotpoint/internal/access"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// enrichLimit ограничивает число одновременных запросов при обогащении списка.
const enrichLimit = 8

// Repository описывает операции хранилища над каталогом.
type Repository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	ListModules(ctx context.Context) ([]models.Module, error)
	ListModulesByProduct(ctx context.Context, productID int64) ([]models.Module, error)
	GetModule(ctx context.Context, id int64) (models.Module, error)
	CreateModule(ctx context.Context, m models.Module) (int64, error)
	UpdateModule(ctx context.Context, m models.Module) error
	DeleteModule(ctx context.Context, id int64) error

	ListResourcesByModule(ctx context.Context, moduleID int64) ([]models.Resource, error)
}

// CatalogService реализует чтение и изменение каталога.
type CatalogService struct {
	repo Repository
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Catalog возвращает доступные ident продукты с модулями,
// разложенные на бесплатные и платные.
func (s *CatalogService) Catalog(ctx context.Context, ident access.Identity) (models.Catalog, error) {
	const op = "services.catalog.Catalog"

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	withModules, err := s.attachModules(ctx, access.FilterProducts(products, ident))
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewCatalog(withModules), nil
}

// FullCatalog возвращает весь каталог без фильтрации.
func (s *CatalogService) FullCatalog(ctx context.Context) (models.Catalog, error) {
	const op = "services.catalog.FullCatalog"

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	withModules, err := s.attachModules(ctx, products)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewCatalog(withModules), nil
}

// attachModules параллельно подгружает модули каждого продукта, сохраняя порядок.
func (s *CatalogService) attachModules(ctx context.Context, products []models.Product) ([]models.ProductWithModules, error) {
	result := make([]models.ProductWithModules, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			modules, err := s.repo.ListModulesByProduct(gctx, p.ID)
			if err != nil {
				return err
			}
			result[i] = models.ProductWithModules{Product: p, Modules: nonNil(modules)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ProductDetails возвращает уже проверенный продукт вместе с модулями.
func (s *CatalogService) ProductDetails(ctx context.Context, product models.Product) (models.ProductWithModules, error) {
	const op = "services.catalog.ProductDetails"

	modules, err := s.repo.ListModulesByProduct(ctx, product.ID)
	if err != nil {
		return models.ProductWithModules{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.ProductWithModules{Product: product, Modules: nonNil(modules)}, nil
}

// CreateProduct создаёт продукт.
func (s *CatalogService) CreateProduct(ctx context.Context, req models.NewProduct) (models.Product, error) {
	const op = "services.catalog.CreateProduct"

	product := req.Product()
	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	product.ID = id
	return product, nil
}

// UpdateProduct применяет частичное обновление к продукту.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (models.Product, error) {
	const op = "services.catalog.UpdateProduct"

	current, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	updated := patch.Apply(current)
	if err := s.repo.UpdateProduct(ctx, updated); err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// DeleteProduct удаляет продукт.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "services.catalog.DeleteProduct"

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Modules возвращает доступные ident модули, каждый с продуктом и ресурсами.
func (s *CatalogService) Modules(ctx context.Context, ident access.Identity) ([]models.ModuleDetails, error) {
	const op = "services.catalog.Modules"

	modules, err := s.repo.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	visible := access.FilterModules(modules, ident)
	result := make([]models.ModuleDetails, len(visible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i, m := range visible {
		i, m := i, m
		g.Go(func() error {
			resources, err := s.repo.ListResourcesByModule(gctx, m.ID)
			if err != nil {
				return err
			}
			details := models.ModuleDetails{Module: m, Resources: nonNil(resources)}
			if p, ok := byID[m.ProductID]; ok {
				details.Product = &p
			}
			result[i] = details
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ModuleDetails возвращает уже проверенный модуль с продуктом и ресурсами.
// Модуль без ресурсов отдаётся с пустым списком.
func (s *CatalogService) ModuleDetails(ctx context.Context, module models.Module) (models.ModuleDetails, error) {
	const op = "services.catalog.ModuleDetails"

	product, err := s.repo.GetProduct(ctx, module.ProductID)
	if err != nil {
		return models.ModuleDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	resources, err := s.repo.ListResourcesByModule(ctx, module.ID)
	if err != nil {
		return models.ModuleDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.ModuleDetails{
		Module:    module,
		Product:   &product,
		Resources: nonNil(resources),
	}, nil
}

// CreateModule создаёт модуль. Неизвестный product_id даёт storage.ErrInvalidReference.
func (s *CatalogService) CreateModule(ctx context.Context, req models.NewModule) (models.Module, error) {
	const op = "services.catalog.CreateModule"

	module := req.Module()
	id, err := s.repo.CreateModule(ctx, module)
	if err != nil {
		return models.Module{}, fmt.Errorf("%s: %w", op, err)
	}
	module.ID = id
	return module, nil
}

// UpdateModule применяет частичное обновление к модулю.
func (s *CatalogService) UpdateModule(ctx context.Context, id int64, patch models.ModulePatch) (models.Module, error) {
	const op = "services.catalog.UpdateModule"

	current, err := s.repo.GetModule(ctx, id)
	if err != nil {
		return models.Module{}, fmt.Errorf("%s: %w", op, err)
	}
	updated := patch.Apply(current)
	if err := s.repo.UpdateModule(ctx, updated); err != nil {
		return models.Module{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// DeleteModule удаляет модуль.
func (s *CatalogService) DeleteModule(ctx context.Context, id int64) error {
	const op = "services.catalog.DeleteModule"

	if err := s.repo.DeleteModule(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
