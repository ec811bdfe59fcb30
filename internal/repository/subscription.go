package repository

import (
	"context"
	"errors"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ============================================
// План подписки магазина (настройка производителя)
// ============================================

func (r *SubscriptionRepository) GetShopConfig(ctx context.Context, shopID int) (*models.ShopSubscriptionConfig, error) {
	logger.Log.Debug("План подписки магазина (repo)", zap.Int("shop_id", shopID))
	query := `
	SELECT id, shop_id, description, price, selected_products, is_active, created_at, updated_at
	FROM shop_subscriptions
	WHERE shop_id = $1`

	var cfg models.ShopSubscriptionConfig
	err := r.db.QueryRow(ctx, query, shopID).Scan(
		&cfg.ID, &cfg.ShopID, &cfg.Description, &cfg.Price,
		&cfg.SelectedProducts, &cfg.IsActive, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения плана подписки (repo)", zap.Error(err))
		return nil, err
	}
	return &cfg, nil
}

// UpsertShopConfig — create-or-replace по shop_id: UNIQUE(shop_id) гарантирует
// не больше одной записи, ON CONFLICT перезаписывает поля на месте.
func (r *SubscriptionRepository) UpsertShopConfig(ctx context.Context, cfg *models.ShopSubscriptionConfig) error {
	logger.Log.Info("Upsert плана подписки (repo)", zap.Int("shop_id", cfg.ShopID), zap.Bool("is_active", cfg.IsActive))
	query := `
	INSERT INTO shop_subscriptions (shop_id, description, price, selected_products, is_active, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (shop_id)
	DO UPDATE SET
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		selected_products = EXCLUDED.selected_products,
		is_active = EXCLUDED.is_active,
		updated_at = NOW()
	RETURNING id, created_at, updated_at`

	selected := cfg.SelectedProducts
	if selected == nil {
		selected = []int{}
	}
	err := r.db.QueryRow(ctx, query, cfg.ShopID, cfg.Description, cfg.Price, selected, cfg.IsActive).
		Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка сохранения плана подписки (repo)", zap.Error(err))
		return err
	}
	return nil
}

func (r *SubscriptionRepository) DeleteShopConfig(ctx context.Context, shopID int) error {
	logger.Log.Info("Удаление плана подписки (repo)", zap.Int("shop_id", shopID))
	_, err := r.db.Exec(ctx, `DELETE FROM shop_subscriptions WHERE shop_id = $1`, shopID)
	if err != nil {
		logger.Log.Error("Ошибка удаления плана подписки (repo)", zap.Error(err))
	}
	return err
}

// ============================================
// Подписки пользователей
// ============================================

// checkSubscribeGuard — решение о допуске подписки по снимку магазина.
// Порядок фиксирован: существование проверяется до всего остального.
func checkSubscribeGuard(shopOwnerID int, planActive bool, userID int) error {
	if !planActive {
		return fmt.Errorf("%w: магазин не принимает подписки", apperrors.ErrInvalidInput)
	}
	if shopOwnerID == userID {
		return fmt.Errorf("%w: нельзя подписаться на собственный магазин", apperrors.ErrSelfAction)
	}
	return nil
}

// Subscribe — идемпотентная подписка: проверка магазина и плана и
// upsert записи идут в одной транзакции. Повторная подписка (в том числе
// после отмены) сбрасывает ту же запись в pending, дубликат не создаётся.
func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID, shopID int) (*models.UserSubscription, error) {
	logger.Log.Info("Подписка на магазин (repo)", zap.Int("user_id", userID), zap.Int("shop_id", shopID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	guardQuery := `
	SELECT s.user_id, COALESCE(ss.is_active, false)
	FROM shops s
	LEFT JOIN shop_subscriptions ss ON s.id = ss.shop_id
	WHERE s.id = $1
	FOR UPDATE OF s`

	var shopOwnerID int
	var planActive bool
	err = tx.QueryRow(ctx, guardQuery, shopID).Scan(&shopOwnerID, &planActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка проверки магазина перед подпиской (repo)", zap.Error(err))
		return nil, err
	}

	if err := checkSubscribeGuard(shopOwnerID, planActive, userID); err != nil {
		return nil, err
	}

	upsert := `
	INSERT INTO user_subscriptions (user_id, shop_id, status, subscribed_at)
	VALUES ($1, $2, 'pending', NOW())
	ON CONFLICT (user_id, shop_id)
	DO UPDATE SET status = 'pending', subscribed_at = NOW(), cancelled_at = NULL
	RETURNING id, user_id, shop_id, status, subscribed_at, cancelled_at`

	var sub models.UserSubscription
	err = tx.QueryRow(ctx, upsert, userID, shopID).Scan(
		&sub.ID, &sub.UserID, &sub.ShopID, &sub.Status, &sub.SubscribedAt, &sub.CancelledAt,
	)
	if err != nil {
		logger.Log.Error("Ошибка создания подписки (repo)", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListUserSubscriptions — подписки пользователя с текущим планом магазина
// (снимок актуального предложения, не плана на момент подписки).
func (r *SubscriptionRepository) ListUserSubscriptions(ctx context.Context, userID int) ([]*models.UserSubscriptionView, error) {
	logger.Log.Debug("Подписки пользователя (repo)", zap.Int("user_id", userID))
	query := `
	SELECT us.id, us.user_id, us.shop_id, us.status, us.subscribed_at, us.cancelled_at,
	       s.name, COALESCE(s.image_url, ''),
	       ss.description, ss.price, ss.selected_products
	FROM user_subscriptions us
	JOIN shops s ON us.shop_id = s.id
	LEFT JOIN shop_subscriptions ss ON s.id = ss.shop_id
	WHERE us.user_id = $1
	ORDER BY us.subscribed_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Ошибка получения подписок (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var views []*models.UserSubscriptionView
	for rows.Next() {
		var v models.UserSubscriptionView
		err := rows.Scan(&v.ID, &v.UserID, &v.ShopID, &v.Status, &v.SubscribedAt, &v.CancelledAt,
			&v.ShopName, &v.ShopImage, &v.PlanDescription, &v.PlanPrice, &v.SelectedProducts)
		if err != nil {
			logger.Log.Error("Ошибка сканирования подписки (repo)", zap.Error(err))
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

// ListShopSubscribers — подписчики магазина (для владельца).
func (r *SubscriptionRepository) ListShopSubscribers(ctx context.Context, shopID int) ([]*models.ShopSubscriberView, error) {
	logger.Log.Debug("Подписчики магазина (repo)", zap.Int("shop_id", shopID))
	query := `
	SELECT us.id, us.user_id, us.shop_id, us.status, us.subscribed_at, us.cancelled_at,
	       COALESCE(u.full_name, ''), u.email
	FROM user_subscriptions us
	JOIN users u ON us.user_id = u.id
	WHERE us.shop_id = $1
	ORDER BY us.subscribed_at DESC`

	rows, err := r.db.Query(ctx, query, shopID)
	if err != nil {
		logger.Log.Error("Ошибка получения подписчиков (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var views []*models.ShopSubscriberView
	for rows.Next() {
		var v models.ShopSubscriberView
		err := rows.Scan(&v.ID, &v.UserID, &v.ShopID, &v.Status, &v.SubscribedAt, &v.CancelledAt,
			&v.UserName, &v.UserEmail)
		if err != nil {
			logger.Log.Error("Ошибка сканирования подписчика (repo)", zap.Error(err))
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

// GetSubscriptionParties — обе стороны подписки: подписчик и владелец магазина.
func (r *SubscriptionRepository) GetSubscriptionParties(ctx context.Context, id int) (*models.SubscriptionParties, error) {
	query := `
	SELECT us.id, us.user_id, us.shop_id, s.user_id
	FROM user_subscriptions us
	JOIN shops s ON us.shop_id = s.id
	WHERE us.id = $1`

	var p models.SubscriptionParties
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.UserID, &p.ShopID, &p.ShopOwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения подписки (repo)", zap.Int("subscription_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// UpdateSubscriptionStatus выставляет статус; cancelled_at — производное поле:
// заполняется ровно при переходе в cancelled, иначе сбрасывается в NULL.
func (r *SubscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, id int, status string) (*models.UserSubscription, error) {
	logger.Log.Info("Обновление статуса подписки (repo)", zap.Int("subscription_id", id), zap.String("status", status))
	query := `
	UPDATE user_subscriptions
	SET status = $1,
	    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE NULL END
	WHERE id = $2
	RETURNING id, user_id, shop_id, status, subscribed_at, cancelled_at`

	var sub models.UserSubscription
	err := r.db.QueryRow(ctx, query, status, id).Scan(
		&sub.ID, &sub.UserID, &sub.ShopID, &sub.Status, &sub.SubscribedAt, &sub.CancelledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка обновления подписки (repo)", zap.Error(err))
		return nil, err
	}
	return &sub, nil
}

// CountShopSubscribers — число подписчиков магазина (для владельческих списков).
func (r *SubscriptionRepository) CountShopSubscribers(ctx context.Context, shopID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_subscriptions WHERE shop_id = $1`, shopID).Scan(&count)
	if err != nil {
		logger.Log.Error("Ошибка подсчёта подписчиков (repo)", zap.Error(err))
		return 0, err
	}
	return count, nil
}
