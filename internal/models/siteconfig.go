package models

// SiteConfig — настройки оформления клиента, единственная строка таблицы config.
type SiteConfig struct {
	ClientName      string `json:"client_name" validate:"required"`
	LogoPath        string `json:"logo_path"`
	LogoWidth       int    `json:"logo_width" validate:"gte=0"`
	LogoHeight      int    `json:"logo_height" validate:"gte=0"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	BackgroundColor string `json:"background_color"`
	SurfaceColor    string `json:"surface_color"`
}
