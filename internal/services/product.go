package services

import (
	"context"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"
	"piata/internal/utils"

	"go.uber.org/zap"
)

type ProductService struct {
	repo     ProductRepo
	resolver *OwnershipResolver
	cache    CatalogCache
}

type ProductRepo interface {
	GetProductsByShop(ctx context.Context, shopID int, onlyAvailable bool) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int) (*models.ProductListItem, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	CreateProducts(ctx context.Context, items []*models.Product) ([]*models.Product, error)
	UpdateProductFields(ctx context.Context, id int, input *models.UpdateProductRequest, price *float64) error
	DeleteProduct(ctx context.Context, id int) error
	SyncProducts(ctx context.Context, shopID int, items []*models.Product) ([]*models.Product, error)
	GetAllProductsAdmin(ctx context.Context) ([]*models.ProductListItem, error)
	GetProductOwner(ctx context.Context, id int) (int, error)
}

func NewProductService(repo ProductRepo, resolver *OwnershipResolver, cache CatalogCache) *ProductService {
	return &ProductService{repo: repo, resolver: resolver, cache: cache}
}

// GetProductsByShop — публичный список: только доступные товары.
func (s *ProductService) GetProductsByShop(ctx context.Context, shopID int) ([]*models.Product, error) {
	return s.repo.GetProductsByShop(ctx, shopID, true)
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.ProductListItem, error) {
	return s.repo.GetProductByID(ctx, id)
}

// CreateProduct: владение проверяется по магазину — товар наследует
// владельца магазина.
func (s *ProductService) CreateProduct(ctx context.Context, principal models.Principal, shopID int, input *models.ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: не указано название товара", apperrors.ErrInvalidInput)
	}
	if err := s.resolver.Authorize(ctx, principal, KindShop, shopID, RelationOwnerOrAdmin); err != nil {
		return nil, err
	}

	product := productFromInput(shopID, input)
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		logger.Log.Error("Ошибка создания товара (service)", zap.Error(err))
		return nil, err
	}

	s.invalidateShop(ctx, shopID)
	logger.Log.Info("Товар создан (service)", zap.Int("product_id", product.ID), zap.Int("shop_id", shopID))
	return product, nil
}

// CreateProducts — bulk: элементы без названия молча пропускаются, цена
// каждого принятого нормализуется независимо. Пачка не атомарна: пропуск
// одного элемента не затрагивает уже принятые.
func (s *ProductService) CreateProducts(ctx context.Context, principal models.Principal, shopID int, inputs []*models.ProductInput) ([]*models.Product, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: пустой список товаров", apperrors.ErrInvalidInput)
	}
	if err := s.resolver.Authorize(ctx, principal, KindShop, shopID, RelationOwnerOrAdmin); err != nil {
		return nil, err
	}

	items := make([]*models.Product, 0, len(inputs))
	for _, input := range inputs {
		if input.Name == "" {
			continue
		}
		items = append(items, productFromInput(shopID, input))
	}

	created, err := s.repo.CreateProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	s.invalidateShop(ctx, shopID)
	logger.Log.Info("Пачка товаров создана (service)", zap.Int("shop_id", shopID),
		zap.Int("accepted", len(created)), zap.Int("received", len(inputs)))
	return created, nil
}

// UpdateProduct — patch через транзитивное владение (товар → магазин →
// пользователь). Некорректная цена в запросе оставляет сохранённую.
func (s *ProductService) UpdateProduct(ctx context.Context, principal models.Principal, id int, input *models.UpdateProductRequest) (*models.ProductListItem, error) {
	if err := s.resolver.Authorize(ctx, principal, KindProduct, id, RelationOwnerOrAdmin); err != nil {
		return nil, err
	}

	var price *float64
	if input.Price != nil {
		price = utils.ParsePrice(input.Price)
	}
	if err := s.repo.UpdateProductFields(ctx, id, input, price); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateShop(ctx, updated.ShopID)
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, principal models.Principal, id int) error {
	if err := s.resolver.Authorize(ctx, principal, KindProduct, id, RelationOwnerOrAdmin); err != nil {
		return err
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidateShop(ctx, product.ShopID)
	logger.Log.Info("Товар удалён (service)", zap.Int("product_id", id))
	return nil
}

// SyncProducts — полная замена набора товаров магазина: удалить всё,
// вставить присланное. Элементы без названия пропускаются до записи.
func (s *ProductService) SyncProducts(ctx context.Context, principal models.Principal, shopID int, inputs []*models.ProductInput) ([]*models.Product, error) {
	if err := s.resolver.Authorize(ctx, principal, KindShop, shopID, RelationOwnerOrAdmin); err != nil {
		return nil, err
	}

	items := make([]*models.Product, 0, len(inputs))
	for _, input := range inputs {
		if input.Name == "" {
			continue
		}
		items = append(items, productFromInput(shopID, input))
	}

	created, err := s.repo.SyncProducts(ctx, shopID, items)
	if err != nil {
		return nil, err
	}

	s.invalidateShop(ctx, shopID)
	logger.Log.Info("Товары синхронизированы (service)", zap.Int("shop_id", shopID), zap.Int("saved", len(created)))
	return created, nil
}

func (s *ProductService) GetAllProductsAdmin(ctx context.Context) ([]*models.ProductListItem, error) {
	return s.repo.GetAllProductsAdmin(ctx)
}

func productFromInput(shopID int, input *models.ProductInput) *models.Product {
	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = input.Image
	}
	return &models.Product{
		ShopID:      shopID,
		Name:        input.Name,
		Description: input.Description,
		Price:       utils.ParsePrice(input.Price),
		ImageURL:    imageURL,
	}
}

func (s *ProductService) invalidateShop(ctx context.Context, shopID int) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("%s%d", cacheKeyShopPrefix, shopID)
	if err := s.cache.Invalidate(ctx, cacheKeyPublicShops, key); err != nil {
		logger.Log.Warn("Не удалось сбросить кэш каталога (service)", zap.Error(err))
	}
}
