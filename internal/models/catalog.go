package models

// Product — элемент каталога. Если SubscriptionRequired == false,
// проверка подписки к продукту никогда не применяется.
type Product struct {
	ID                   int64  `json:"id"`
	Title                string `json:"title"`
	UniqueName           string `json:"unique_name"`
	Position             int    `json:"position"`
	SubscriptionRequired bool   `json:"subscription_required"`
	Active               bool   `json:"active"`
}

// Module принадлежит ровно одному продукту.
type Module struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UniqueName  string `json:"unique_name"`
	Position    int    `json:"position"`
	Active      bool   `json:"active"`
	ProductID   int64  `json:"product_id"`
}

// ProductWithModules представляет продукт с прикреплённым списком модулей.
type ProductWithModules struct {
	Product
	Modules []Module `json:"modules"`
}

// ModuleDetails представляет модуль, обогащённый продуктом-владельцем и ресурсами.
type ModuleDetails struct {
	Module
	Product   *Product   `json:"product"`
	Resources []Resource `json:"resources"`
}

// Catalog представляет ответ списка продуктов, разбитый на бесплатные и платные.
type Catalog struct {
	FreeProducts         []ProductWithModules `json:"free_products"`
	SubscriptionProducts []ProductWithModules `json:"subscription_products"`
}

// NewCatalog раскладывает продукты по группам, сохраняя порядок.
func NewCatalog(products []ProductWithModules) Catalog {
	c := Catalog{
		FreeProducts:         make([]ProductWithModules, 0),
		SubscriptionProducts: make([]ProductWithModules, 0),
	}
	for _, p := range products {
		if p.SubscriptionRequired {
			c.SubscriptionProducts = append(c.SubscriptionProducts, p)
		} else {
			c.FreeProducts = append(c.FreeProducts, p)
		}
	}
	return c
}

// NewProduct содержит данные для создания продукта. Active по умолчанию true.
type NewProduct struct {
	Title                string `json:"title" validate:"required"`
	UniqueName           string `json:"unique_name" validate:"required"`
	Position             int    `json:"position" validate:"gte=0"`
	SubscriptionRequired bool   `json:"subscription_required"`
	Active               *bool  `json:"active"`
}

// Product собирает продукт из запроса.
func (n NewProduct) Product() Product {
	return Product{
		Title:                n.Title,
		UniqueName:           n.UniqueName,
		Position:             n.Position,
		SubscriptionRequired: n.SubscriptionRequired,
		Active:               n.Active == nil || *n.Active,
	}
}

// NewModule содержит данные для создания модуля.
type NewModule struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	UniqueName  string `json:"unique_name" validate:"required"`
	Position    int    `json:"position" validate:"gte=0"`
	Active      *bool  `json:"active"`
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
}

// Module собирает модуль из запроса. Нулевая позиция заменяется на 1.
func (n NewModule) Module() Module {
	position := n.Position
	if position == 0 {
		position = 1
	}
	return Module{
		Title:       n.Title,
		Description: n.Description,
		UniqueName:  n.UniqueName,
		Position:    position,
		Active:      n.Active == nil || *n.Active,
		ProductID:   n.ProductID,
	}
}

// ProductPatch описывает частичное обновление продукта; nil-поля не меняются.
type ProductPatch struct {
	Title                *string `json:"title" validate:"omitempty,min=1"`
	UniqueName           *string `json:"unique_name" validate:"omitempty,min=1"`
	Position             *int    `json:"position" validate:"omitempty,gte=0"`
	SubscriptionRequired *bool   `json:"subscription_required"`
	Active               *bool   `json:"active"`
}

// Apply применяет изменения к копии продукта.
func (p ProductPatch) Apply(dst Product) Product {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.UniqueName != nil {
		dst.UniqueName = *p.UniqueName
	}
	if p.Position != nil {
		dst.Position = *p.Position
	}
	if p.SubscriptionRequired != nil {
		dst.SubscriptionRequired = *p.SubscriptionRequired
	}
	if p.Active != nil {
		dst.Active = *p.Active
	}
	return dst
}

// ModulePatch описывает частичное обновление модуля.
type ModulePatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	UniqueName  *string `json:"unique_name" validate:"omitempty,min=1"`
	Position    *int    `json:"position" validate:"omitempty,gte=0"`
	Active      *bool   `json:"active"`
	ProductID   *int64  `json:"product_id" validate:"omitempty,gt=0"`
}

// Apply применяет изменения к копии модуля.
func (p ModulePatch) Apply(dst Module) Module {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.UniqueName != nil {
		dst.UniqueName = *p.UniqueName
	}
	if p.Position != nil {
		dst.Position = *p.Position
	}
	if p.Active != nil {
		dst.Active = *p.Active
	}
	if p.ProductID != nil {
		dst.ProductID = *p.ProductID
	}
	return dst
}
