package models

import "time"

// Producer — старая, немигрированная семья ресурсов. Живёт параллельно
// с shops/products, никакой ссылочной связи между семьями нет.
type Producer struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	ImageURL    string    `json:"image_url"`
	Products    []string  `json:"products"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateProducerRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	ImageURL    string   `json:"image_url"`
	Products    []string `json:"products"`
}

type UpdateProducerRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Products    []string `json:"products,omitempty"`
}

// ProducerListItem — производитель в админском списке с данными пользователя.
type ProducerListItem struct {
	Producer
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}
