package models

import "time"

// Статусы пользовательской подписки. cancelled обратим: повторная подписка
// возвращает запись в pending.
const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionPaused    = "paused"
)

func IsValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionPending, SubscriptionActive, SubscriptionCancelled, SubscriptionPaused:
		return true
	}
	return false
}

// ShopSubscriptionConfig — план подписки, который публикует магазин.
// Не больше одной записи на магазин (UNIQUE(shop_id)).
type ShopSubscriptionConfig struct {
	ID               int       `json:"id"`
	ShopID           int       `json:"shop_id"`
	Description      string    `json:"description"`
	Price            string    `json:"price"`
	SelectedProducts []int     `json:"selected_products"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UpsertShopConfigRequest struct {
	Description      string `json:"description"`
	Price            string `json:"price"`
	SelectedProducts []int  `json:"selectedProducts"`
	IsActive         bool   `json:"isActive"`
}

// UserSubscription — подписка пользователя на магазин. Пара (user_id, shop_id)
// уникальна; cancelled_at заполнен тогда и только тогда, когда status = cancelled.
type UserSubscription struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	ShopID       int        `json:"shop_id"`
	Status       string     `json:"status"`
	SubscribedAt time.Time  `json:"subscribed_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
}

// SubscriptionParties — обе стороны подписки; статус менять вправе
// и подписчик, и владелец магазина, отменять — только подписчик.
type SubscriptionParties struct {
	ID          int
	UserID      int
	ShopID      int
	ShopOwnerID int
}

// UserSubscriptionView — подписка глазами подписчика: с текущим (не на момент
// подписки) планом магазина.
type UserSubscriptionView struct {
	UserSubscription
	ShopName         string  `json:"shop_name"`
	ShopImage        string  `json:"shop_image"`
	PlanDescription  *string `json:"description"`
	PlanPrice        *string `json:"price"`
	SelectedProducts []int   `json:"selected_products"`
}

// ShopSubscriberView — подписчик глазами владельца магазина.
type ShopSubscriberView struct {
	UserSubscription
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
