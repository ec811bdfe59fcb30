package services

import (
	"context"
	"errors"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"

	"go.uber.org/zap"
)

// SubscriptionService — обе машины состояний: план магазина (upsert по
// shop_id) и подписки пользователей (pending/active/paused/cancelled).
type SubscriptionService struct {
	repo     SubscriptionRepo
	resolver *OwnershipResolver
}

type SubscriptionRepo interface {
	GetShopConfig(ctx context.Context, shopID int) (*models.ShopSubscriptionConfig, error)
	UpsertShopConfig(ctx context.Context, cfg *models.ShopSubscriptionConfig) error
	DeleteShopConfig(ctx context.Context, shopID int) error
	Subscribe(ctx context.Context, userID, shopID int) (*models.UserSubscription, error)
	ListUserSubscriptions(ctx context.Context, userID int) ([]*models.UserSubscriptionView, error)
	ListShopSubscribers(ctx context.Context, shopID int) ([]*models.ShopSubscriberView, error)
	GetSubscriptionParties(ctx context.Context, id int) (*models.SubscriptionParties, error)
	UpdateSubscriptionStatus(ctx context.Context, id int, status string) (*models.UserSubscription, error)
}

func NewSubscriptionService(repo SubscriptionRepo, resolver *OwnershipResolver) *SubscriptionService {
	return &SubscriptionService{repo: repo, resolver: resolver}
}

// ============================================
// План подписки магазина
// ============================================

// GetShopConfig — публичное чтение. Отсутствие плана — не ошибка,
// а «план не опубликован» (nil).
func (s *SubscriptionService) GetShopConfig(ctx context.Context, shopID int) (*models.ShopSubscriptionConfig, error) {
	cfg, err := s.repo.GetShopConfig(ctx, shopID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return cfg, err
}

// UpsertShopConfig доступен только владельцу магазина (строгое владение,
// без админского обхода — как и в остальных операциях плана).
func (s *SubscriptionService) UpsertShopConfig(ctx context.Context, principal models.Principal, shopID int, req *models.UpsertShopConfigRequest) (*models.ShopSubscriptionConfig, error) {
	if err := s.resolver.Authorize(ctx, principal, KindShop, shopID, RelationOwner); err != nil {
		return nil, err
	}

	cfg := &models.ShopSubscriptionConfig{
		ShopID:           shopID,
		Description:      req.Description,
		Price:            req.Price,
		SelectedProducts: req.SelectedProducts,
		IsActive:         req.IsActive,
	}
	if err := s.repo.UpsertShopConfig(ctx, cfg); err != nil {
		return nil, err
	}
	logger.Log.Info("План подписки сохранён (service)", zap.Int("shop_id", shopID), zap.Bool("is_active", cfg.IsActive))
	return cfg, nil
}

// DeleteShopConfig снимает план; последующие попытки подписки упираются
// в guard «план должен существовать и быть активен».
func (s *SubscriptionService) DeleteShopConfig(ctx context.Context, principal models.Principal, shopID int) error {
	if err := s.resolver.Authorize(ctx, principal, KindShop, shopID, RelationOwner); err != nil {
		return err
	}

	if err := s.repo.DeleteShopConfig(ctx, shopID); err != nil {
		return err
	}
	logger.Log.Info("План подписки удалён (service)", zap.Int("shop_id", shopID))
	return nil
}

// ============================================
// Подписки пользователей
// ============================================

// Subscribe — идемпотентная подписка на магазин; проверки существования,
// активного плана и «не свой магазин» выполняются атомарно в хранилище.
func (s *SubscriptionService) Subscribe(ctx context.Context, principal models.Principal, shopID int) (*models.UserSubscription, error) {
	if shopID <= 0 {
		return nil, fmt.Errorf("%w: не указан магазин", apperrors.ErrInvalidInput)
	}

	sub, err := s.repo.Subscribe(ctx, principal.ID, shopID)
	if err != nil {
		logger.Log.Warn("Подписка отклонена (service)",
			zap.Int("user_id", principal.ID), zap.Int("shop_id", shopID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("Подписка оформлена (service)",
		zap.Int("subscription_id", sub.ID), zap.Int("user_id", principal.ID), zap.Int("shop_id", shopID))
	return sub, nil
}

func (s *SubscriptionService) GetUserSubscriptions(ctx context.Context, principal models.Principal) ([]*models.UserSubscriptionView, error) {
	return s.repo.ListUserSubscriptions(ctx, principal.ID)
}

// GetShopSubscribers — список подписчиков, только для владельца магазина.
func (s *SubscriptionService) GetShopSubscribers(ctx context.Context, principal models.Principal, shopID int) ([]*models.ShopSubscriberView, error) {
	if err := s.resolver.Authorize(ctx, principal, KindShop, shopID, RelationOwner); err != nil {
		return nil, err
	}
	return s.repo.ListShopSubscribers(ctx, shopID)
}

// UpdateStatus: статус вправе менять и владелец магазина, и подписчик —
// в любое из четырёх состояний. Асимметрия с cancel (строго подписчик)
// намеренно сохранена как в исходном поведении; владелец магазина может
// перевести чужую подписку в active без согласия подписчика — вопрос
// к продуктовой политике. TODO: уточнить у продукта, должен ли владелец
// иметь право на переход в cancelled/active за подписчика.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, principal models.Principal, id int, status string) (*models.UserSubscription, error) {
	parties, err := s.repo.GetSubscriptionParties(ctx, id)
	if err != nil {
		return nil, err
	}

	if principal.ID != parties.UserID && principal.ID != parties.ShopOwnerID {
		return nil, apperrors.ErrForbidden
	}

	if !models.IsValidSubscriptionStatus(status) {
		return nil, fmt.Errorf("%w: недопустимый статус %q", apperrors.ErrInvalidInput, status)
	}

	sub, err := s.repo.UpdateSubscriptionStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Статус подписки обновлён (service)",
		zap.Int("subscription_id", id), zap.String("status", status), zap.Int("principal_id", principal.ID))
	return sub, nil
}

// Cancel — отмена строго подписчиком; владелец магазина этим путём
// отменить чужую подписку не может (только через общий UpdateStatus).
func (s *SubscriptionService) Cancel(ctx context.Context, principal models.Principal, id int) error {
	parties, err := s.repo.GetSubscriptionParties(ctx, id)
	if err != nil {
		return err
	}

	if principal.ID != parties.UserID {
		return apperrors.ErrForbidden
	}

	if _, err := s.repo.UpdateSubscriptionStatus(ctx, id, models.SubscriptionCancelled); err != nil {
		return err
	}
	logger.Log.Info("Подписка отменена (service)", zap.Int("subscription_id", id), zap.Int("user_id", principal.ID))
	return nil
}
