package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

const productColumns = `id, title, unique_name, position, subscription_required, active`

func scanProduct(row scanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.UniqueName, &p.Position, &p.SubscriptionRequired, &p.Active)
	return p, err
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProducts возвращает все продукты в порядке отображения.
func (s *Storage) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "storage.ListProducts"

	query := `SELECT ` + productColumns + ` FROM products ORDER BY position, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// GetProduct возвращает продукт по ID или ErrNotFound.
func (s *Storage) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	const op = "storage.GetProduct"

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return p, nil
}

// CreateProduct сохраняет продукт и возвращает его ID.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (title, unique_name, position, subscription_required, active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		p.Title, p.UniqueName, p.Position, p.SubscriptionRequired, p.Active).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return id, nil
}

// UpdateProduct перезаписывает все поля продукта p.ID.
func (s *Storage) UpdateProduct(ctx context.Context, p models.Product) error {
	const op = "storage.UpdateProduct"

	query := `UPDATE products
			  SET title = $1, unique_name = $2, position = $3, subscription_required = $4, active = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		p.Title, p.UniqueName, p.Position, p.SubscriptionRequired, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteProduct удаляет продукт вместе с его модулями и подписками.
func (s *Storage) DeleteProduct(ctx context.Context, id int64) error {
	const op = "storage.DeleteProduct"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscriptionRequiredProductIDs возвращает ID всех платных продуктов.
func (s *Storage) SubscriptionRequiredProductIDs(ctx context.Context) ([]int64, error) {
	const op = "storage.SubscriptionRequiredProductIDs"

	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM products WHERE subscription_required = TRUE`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ids, err := collectIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
