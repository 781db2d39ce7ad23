package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

const moduleColumns = `id, title, description, unique_name, position, active, product_id`

func scanModule(row scanner) (models.Module, error) {
	var m models.Module
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.UniqueName, &m.Position, &m.Active, &m.ProductID)
	return m, err
}

func collectModules(rows *sql.Rows) ([]models.Module, error) {
	defer rows.Close()

	modules := make([]models.Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// ListModules возвращает все модули.
func (s *Storage) ListModules(ctx context.Context) ([]models.Module, error) {
	const op = "storage.ListModules"

	query := `SELECT ` + moduleColumns + ` FROM modules ORDER BY position, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	modules, err := collectModules(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return modules, nil
}

// ListModulesByProduct возвращает модули продукта.
func (s *Storage) ListModulesByProduct(ctx context.Context, productID int64) ([]models.Module, error) {
	const op = "storage.ListModulesByProduct"

	query := `SELECT ` + moduleColumns + ` FROM modules WHERE product_id = $1 ORDER BY position, id`
	rows, err := s.DB.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	modules, err := collectModules(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return modules, nil
}

// GetModule возвращает модуль по ID или ErrNotFound.
func (s *Storage) GetModule(ctx context.Context, id int64) (models.Module, error) {
	const op = "storage.GetModule"

	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1`
	m, err := scanModule(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Module{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return m, nil
}

// CreateModule сохраняет модуль. Несуществующий продукт даёт ErrInvalidReference.
func (s *Storage) CreateModule(ctx context.Context, m models.Module) (int64, error) {
	const op = "storage.CreateModule"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO modules (title, description, unique_name, position, active, product_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		m.Title, m.Description, m.UniqueName, m.Position, m.Active, m.ProductID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return id, nil
}

// UpdateModule перезаписывает все поля модуля m.ID.
func (s *Storage) UpdateModule(ctx context.Context, m models.Module) error {
	const op = "storage.UpdateModule"

	query := `UPDATE modules
			  SET title = $1, description = $2, unique_name = $3, position = $4, active = $5, product_id = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		m.Title, m.Description, m.UniqueName, m.Position, m.Active, m.ProductID, m.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteModule удаляет модуль и его связи с ресурсами.
func (s *Storage) DeleteModule(ctx context.Context, id int64) error {
	const op = "storage.DeleteModule"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
