package models

import "time"

type Product struct {
	ID          int       `json:"id"`
	ShopID      int       `json:"shop_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	ImageURL    string    `json:"image_url"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput — кандидат на создание: цена в «сыром» виде
// (строка или число, запятая или точка), нормализуется при приёме.
type ProductInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       interface{} `json:"price"`
	ImageURL    string      `json:"image_url"`
	Image       string      `json:"image"`
}

type UpdateProductRequest struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Price       interface{} `json:"price,omitempty"`
	ImageURL    *string     `json:"image_url,omitempty"`
	IsAvailable *bool       `json:"is_available,omitempty"`
}

// ProductListItem — товар в админском списке: с магазином и владельцем.
type ProductListItem struct {
	Product
	ShopName  string `json:"shop_name,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
}
