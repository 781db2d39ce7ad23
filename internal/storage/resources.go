package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

const resourceColumns = `r.id, r.original_name, r.name, r.display_name, r.path, r.file_type`

func scanResource(row scanner) (models.Resource, error) {
	var r models.Resource
	var fileType string
	if err := row.Scan(&r.ID, &r.OriginalName, &r.Name, &r.DisplayName, &r.Path, &fileType); err != nil {
		return models.Resource{}, err
	}
	r.FileType = models.FileType(fileType)
	return r, nil
}

func collectResources(rows *sql.Rows) ([]models.Resource, error) {
	defer rows.Close()

	resources := make([]models.Resource, 0)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// ListResources возвращает все ресурсы.
func (s *Storage) ListResources(ctx context.Context) ([]models.Resource, error) {
	const op = "storage.ListResources"

	query := `SELECT ` + resourceColumns + ` FROM resources r ORDER BY r.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resources, err := collectResources(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resources, nil
}

// ListResourcesByModule возвращает ресурсы, привязанные к модулю.
func (s *Storage) ListResourcesByModule(ctx context.Context, moduleID int64) ([]models.Resource, error) {
	const op = "storage.ListResourcesByModule"

	query := `SELECT ` + resourceColumns + `
			  FROM resources r
			  JOIN module_resources mr ON mr.resource_id = r.id
			  WHERE mr.module_id = $1
			  ORDER BY r.id`
	rows, err := s.DB.QueryContext(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resources, err := collectResources(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resources, nil
}

// GetResource возвращает ресурс по ID или ErrNotFound.
func (s *Storage) GetResource(ctx context.Context, id int64) (models.Resource, error) {
	const op = "storage.GetResource"

	query := `SELECT ` + resourceColumns + ` FROM resources r WHERE r.id = $1`
	r, err := scanResource(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Resource{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return r, nil
}

// CreateResource сохраняет описание загруженного файла.
func (s *Storage) CreateResource(ctx context.Context, r models.Resource) (int64, error) {
	const op = "storage.CreateResource"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO resources (original_name, name, display_name, path, file_type)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		r.OriginalName, r.Name, r.DisplayName, r.Path, string(r.FileType)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return id, nil
}

// UpdateResourceDisplayName меняет отображаемое имя ресурса.
func (s *Storage) UpdateResourceDisplayName(ctx context.Context, id int64, displayName string) error {
	const op = "storage.UpdateResourceDisplayName"

	result, err := s.DB.ExecContext(ctx, `UPDATE resources SET display_name = $1 WHERE id = $2`, displayName, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteResource удаляет ресурс вместе со связями с модулями.
func (s *Storage) DeleteResource(ctx context.Context, id int64) error {
	const op = "storage.DeleteResource"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResourceProductIDsByPath возвращает продукты, которым принадлежит файл с путём path:
// путь → ресурс → связи с модулями → продукт модуля. Результат без повторов,
// пустой для файла, не привязанного ни к одному модулю.
func (s *Storage) ResourceProductIDsByPath(ctx context.Context, path string) ([]int64, error) {
	const op = "storage.ResourceProductIDsByPath"

	query := `SELECT DISTINCT m.product_id
			  FROM resources r
			  JOIN module_resources mr ON mr.resource_id = r.id
			  JOIN modules m ON m.id = mr.module_id
			  WHERE r.path = $1
			  ORDER BY m.product_id`
	rows, err := s.DB.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ids, err := collectIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// LinkModuleResource привязывает ресурс к модулю. Повторная привязка ничего не меняет.
func (s *Storage) LinkModuleResource(ctx context.Context, link models.ModuleResource) error {
	const op = "storage.LinkModuleResource"

	query := `INSERT INTO module_resources (module_id, resource_id)
			  VALUES ($1, $2)
			  ON CONFLICT (module_id, resource_id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, link.ModuleID, link.ResourceID); err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	return nil
}

// UnlinkModuleResource удаляет связь. Отсутствующая связь даёт ErrNotFound.
func (s *Storage) UnlinkModuleResource(ctx context.Context, link models.ModuleResource) error {
	const op = "storage.UnlinkModuleResource"

	query := `DELETE FROM module_resources WHERE module_id = $1 AND resource_id = $2`
	result, err := s.DB.ExecContext(ctx, query, link.ModuleID, link.ResourceID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
