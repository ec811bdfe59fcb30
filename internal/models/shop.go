package models

import "time"

type Shop struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Specialty   string    `json:"specialty"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShopListItem — магазин в списках: с данными владельца и количеством товаров.
type ShopListItem struct {
	Shop
	OwnerName       string `json:"owner_name,omitempty"`
	OwnerEmail      string `json:"owner_email,omitempty"`
	ProductCount    int    `json:"product_count"`
	SubscriberCount int    `json:"subscriber_count,omitempty"`
}

type CreateShopRequest struct {
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

// Частичное обновление: nil-поле оставляет сохранённое значение.
type UpdateShopRequest struct {
	Name        *string `json:"name,omitempty"`
	Specialty   *string `json:"specialty,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ShopDetails — публичная страница магазина с доступными товарами.
type ShopDetails struct {
	Shop
	OwnerName  string     `json:"owner_name"`
	OwnerEmail string     `json:"owner_email"`
	OwnerPhone string     `json:"owner_phone"`
	Products   []*Product `json:"products"`
}
