package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// GetSiteConfig возвращает настройки клиента.
func (s *Storage) GetSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	const op = "storage.GetSiteConfig"

	query := `SELECT client_name, logo_path, logo_width, logo_height,
				primary_color, secondary_color, background_color, surface_color
			  FROM config WHERE id = 1`
	var c models.SiteConfig
	err := s.DB.QueryRowContext(ctx, query).Scan(&c.ClientName, &c.LogoPath, &c.LogoWidth, &c.LogoHeight,
		&c.PrimaryColor, &c.SecondaryColor, &c.BackgroundColor, &c.SurfaceColor)
	if err != nil {
		return models.SiteConfig{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return c, nil
}

// UpdateSiteConfig перезаписывает настройки клиента.
func (s *Storage) UpdateSiteConfig(ctx context.Context, c models.SiteConfig) error {
	const op = "storage.UpdateSiteConfig"

	query := `UPDATE config
			  SET client_name = $1, logo_path = $2, logo_width = $3, logo_height = $4,
			      primary_color = $5, secondary_color = $6, background_color = $7, surface_color = $8
			  WHERE id = 1`
	result, err := s.DB.ExecContext(ctx, query, c.ClientName, c.LogoPath, c.LogoWidth, c.LogoHeight,
		c.PrimaryColor, c.SecondaryColor, c.BackgroundColor, c.SurfaceColor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
