package services

import (
	"context"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"
	"time"

	"go.uber.org/zap"
)

const (
	cacheKeyPublicShops = "catalog:shops"
	cacheKeyShopPrefix  = "catalog:shop:"
	catalogCacheTTL     = 5 * time.Minute
)

type ShopService struct {
	repo     ShopRepo
	subs     SubscriberCounter
	resolver *OwnershipResolver
	cache    CatalogCache
}

type ShopRepo interface {
	CreateShop(ctx context.Context, shop *models.Shop) error
	GetPublicShops(ctx context.Context) ([]*models.ShopListItem, error)
	GetShopDetails(ctx context.Context, id int) (*models.ShopDetails, error)
	GetShopsByUser(ctx context.Context, userID int) ([]*models.ShopListItem, error)
	GetAllShopsAdmin(ctx context.Context) ([]*models.ShopListItem, error)
	UpdateShopFields(ctx context.Context, id int, input *models.UpdateShopRequest) error
	DeleteShop(ctx context.Context, id int) error
	GetShopOwner(ctx context.Context, id int) (int, error)
}

type SubscriberCounter interface {
	CountShopSubscribers(ctx context.Context, shopID int) (int, error)
}

// CatalogCache — кэш публичного каталога. nil-кэш допустим: без redis
// сервис просто ходит в БД.
type CatalogCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

func NewShopService(repo ShopRepo, subs SubscriberCounter, resolver *OwnershipResolver, cache CatalogCache) *ShopService {
	return &ShopService{repo: repo, subs: subs, resolver: resolver, cache: cache}
}

// GetPublicShops — публичный каталог, сквозь кэш.
func (s *ShopService) GetPublicShops(ctx context.Context) ([]*models.ShopListItem, error) {
	if s.cache != nil {
		var cached []*models.ShopListItem
		if ok, err := s.cache.Get(ctx, cacheKeyPublicShops, &cached); err == nil && ok {
			return cached, nil
		}
	}

	shops, err := s.repo.GetPublicShops(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyPublicShops, shops, catalogCacheTTL); err != nil {
			logger.Log.Warn("Не удалось закэшировать каталог (service)", zap.Error(err))
		}
	}
	return shops, nil
}

func (s *ShopService) GetShopDetails(ctx context.Context, id int) (*models.ShopDetails, error) {
	key := fmt.Sprintf("%s%d", cacheKeyShopPrefix, id)
	if s.cache != nil {
		var cached models.ShopDetails
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	details, err := s.repo.GetShopDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, details, catalogCacheTTL); err != nil {
			logger.Log.Warn("Не удалось закэшировать магазин (service)", zap.Error(err))
		}
	}
	return details, nil
}

func (s *ShopService) GetShopsByUser(ctx context.Context, userID int) ([]*models.ShopListItem, error) {
	return s.repo.GetShopsByUser(ctx, userID)
}

// GetMyShops — владельческий список: без фильтра активности,
// с числом товаров и подписчиков.
func (s *ShopService) GetMyShops(ctx context.Context, principal models.Principal) ([]*models.ShopListItem, error) {
	shops, err := s.repo.GetShopsByUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	for _, shop := range shops {
		count, err := s.subs.CountShopSubscribers(ctx, shop.ID)
		if err != nil {
			return nil, err
		}
		shop.SubscriberCount = count
	}
	return shops, nil
}

// CreateShop: владельцем становится текущий субъект, user_id из запроса
// не принимается никогда.
func (s *ShopService) CreateShop(ctx context.Context, principal models.Principal, req *models.CreateShopRequest) (*models.Shop, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: не указано название магазина", apperrors.ErrInvalidInput)
	}

	shop := &models.Shop{
		UserID:      principal.ID,
		Name:        req.Name,
		Specialty:   req.Specialty,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.CreateShop(ctx, shop); err != nil {
		logger.Log.Error("Ошибка создания магазина (service)", zap.Error(err))
		return nil, err
	}

	s.invalidateCatalog(ctx, shop.ID)
	logger.Log.Info("Магазин создан (service)", zap.Int("shop_id", shop.ID), zap.Int("user_id", principal.ID))
	return shop, nil
}

// UpdateShop — patch: nil-поля не трогают сохранённые значения.
// Проверка владения — до применения изменений.
func (s *ShopService) UpdateShop(ctx context.Context, principal models.Principal, id int, req *models.UpdateShopRequest) (*models.ShopDetails, error) {
	if err := s.resolver.Authorize(ctx, principal, KindShop, id, RelationOwnerOrAdmin); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateShopFields(ctx, id, req); err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx, id)
	return s.repo.GetShopDetails(ctx, id)
}

// DeleteShop удаляет магазин вместе с товарами и подписками (каскад на
// уровне хранилища — детей-сирот не остаётся).
func (s *ShopService) DeleteShop(ctx context.Context, principal models.Principal, id int) error {
	if err := s.resolver.Authorize(ctx, principal, KindShop, id, RelationOwnerOrAdmin); err != nil {
		return err
	}

	if err := s.repo.DeleteShop(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx, id)
	logger.Log.Info("Магазин удалён (service)", zap.Int("shop_id", id), zap.Int("principal_id", principal.ID))
	return nil
}

func (s *ShopService) GetAllShopsAdmin(ctx context.Context) ([]*models.ShopListItem, error) {
	return s.repo.GetAllShopsAdmin(ctx)
}

func (s *ShopService) invalidateCatalog(ctx context.Context, shopID int) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("%s%d", cacheKeyShopPrefix, shopID)
	if err := s.cache.Invalidate(ctx, cacheKeyPublicShops, key); err != nil {
		logger.Log.Warn("Не удалось сбросить кэш каталога (service)", zap.Error(err))
	}
}
