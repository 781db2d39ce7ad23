package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// Repository хранит единственную запись настроек оформления.
type Repository interface {
	GetSiteConfig(ctx context.Context) (models.SiteConfig, error)
	UpdateSiteConfig(ctx context.Context, cfg models.SiteConfig) error
}

// SiteConfigService читает и меняет настройки оформления клиента.
type SiteConfigService struct {
	repo Repository
}

// NewSiteConfigService создает новый экземпляр SiteConfigService.
func NewSiteConfigService(repo Repository) *SiteConfigService {
	return &SiteConfigService{repo: repo}
}

// Get возвращает текущие настройки.
func (s *SiteConfigService) Get(ctx context.Context) (models.SiteConfig, error) {
	const op = "services.siteconfig.Get"

	cfg, err := s.repo.GetSiteConfig(ctx)
	if err != nil {
		return models.SiteConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// Update полностью заменяет настройки и возвращает сохранённое значение.
func (s *SiteConfigService) Update(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	const op = "services.siteconfig.Update"

	cfg.ClientName = strings.TrimSpace(cfg.ClientName)
	if err := s.repo.UpdateSiteConfig(ctx, cfg); err != nil {
		return models.SiteConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}
