package services

import (
	"context"
	"piata/internal/apperrors"
	"piata/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ShopRepoMock struct{ mock.Mock }

func (m *ShopRepoMock) CreateShop(ctx context.Context, shop *models.Shop) error {
	return m.Called(ctx, shop).Error(0)
}

func (m *ShopRepoMock) GetPublicShops(ctx context.Context) ([]*models.ShopListItem, error) {
	args := m.Called(ctx)
	shops, _ := args.Get(0).([]*models.ShopListItem)
	return shops, args.Error(1)
}

func (m *ShopRepoMock) GetShopDetails(ctx context.Context, id int) (*models.ShopDetails, error) {
	args := m.Called(ctx, id)
	details, _ := args.Get(0).(*models.ShopDetails)
	return details, args.Error(1)
}

func (m *ShopRepoMock) GetShopsByUser(ctx context.Context, userID int) ([]*models.ShopListItem, error) {
	args := m.Called(ctx, userID)
	shops, _ := args.Get(0).([]*models.ShopListItem)
	return shops, args.Error(1)
}

func (m *ShopRepoMock) GetAllShopsAdmin(ctx context.Context) ([]*models.ShopListItem, error) {
	args := m.Called(ctx)
	shops, _ := args.Get(0).([]*models.ShopListItem)
	return shops, args.Error(1)
}

func (m *ShopRepoMock) UpdateShopFields(ctx context.Context, id int, input *models.UpdateShopRequest) error {
	return m.Called(ctx, id, input).Error(0)
}

func (m *ShopRepoMock) DeleteShop(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ShopRepoMock) GetShopOwner(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type SubscriberCounterMock struct{ mock.Mock }

func (m *SubscriberCounterMock) CountShopSubscribers(ctx context.Context, shopID int) (int, error) {
	args := m.Called(ctx, shopID)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func newShopService(repo *ShopRepoMock, cache CatalogCache) (*ShopService, *ShopOwnerMock, *SubscriberCounterMock) {
	// Резолвер в этих тестах ходит в отдельный мок, не в repo,
	// чтобы ожидания не пересекались
	shops := new(ShopOwnerMock)
	products := new(ProductOwnerMock)
	producers := new(ProducerOwnerMock)
	subs := new(SubscriberCounterMock)
	resolver := NewOwnershipResolver(shops, products, producers)
	return NewShopService(repo, subs, resolver, cache), shops, subs
}

func TestShopService_GetPublicShops_Cache(t *testing.T) {
	t.Run("промах кэша идёт в БД и кэширует", func(t *testing.T) {
		repo := new(ShopRepoMock)
		cache := new(CacheMock)
		service, _, _ := newShopService(repo, cache)

		shops := []*models.ShopListItem{{Shop: models.Shop{ID: 1, Name: "Ферма"}}}
		cache.On("Get", mock.Anything, "catalog:shops", mock.Anything).Return(false, nil).Once()
		repo.On("GetPublicShops", mock.Anything).Return(shops, nil).Once()
		cache.On("Set", mock.Anything, "catalog:shops", shops, 5*time.Minute).Return(nil).Once()

		got, err := service.GetPublicShops(context.Background())
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("попадание в кэш не трогает БД", func(t *testing.T) {
		repo := new(ShopRepoMock)
		cache := new(CacheMock)
		service, _, _ := newShopService(repo, cache)

		cache.On("Get", mock.Anything, "catalog:shops", mock.Anything).Return(true, nil).Once()

		_, err := service.GetPublicShops(context.Background())
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetPublicShops", mock.Anything)
	})

	t.Run("без redis работает напрямую", func(t *testing.T) {
		repo := new(ShopRepoMock)
		service, _, _ := newShopService(repo, nil)

		repo.On("GetPublicShops", mock.Anything).Return([]*models.ShopListItem{}, nil).Once()

		_, err := service.GetPublicShops(context.Background())
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestShopService_CreateShop(t *testing.T) {
	producer := models.Principal{ID: 10, Role: models.RoleProducer}

	t.Run("владелец — всегда текущий субъект", func(t *testing.T) {
		repo := new(ShopRepoMock)
		service, _, _ := newShopService(repo, nil)

		repo.On("CreateShop", mock.Anything, mock.MatchedBy(func(s *models.Shop) bool {
			return s.UserID == 10 && s.Name == "Ферма"
		})).Return(nil).Once()

		shop, err := service.CreateShop(context.Background(), producer, &models.CreateShopRequest{Name: "Ферма"})
		assert.NoError(t, err)
		assert.Equal(t, 10, shop.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("без названия отклоняется", func(t *testing.T) {
		repo := new(ShopRepoMock)
		service, _, _ := newShopService(repo, nil)

		_, err := service.CreateShop(context.Background(), producer, &models.CreateShopRequest{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "CreateShop", mock.Anything, mock.Anything)
	})
}

func TestShopService_UpdateShop(t *testing.T) {
	producer := models.Principal{ID: 10, Role: models.RoleProducer}
	name := "Новая ферма"

	t.Run("patch с инвалидацией кэша", func(t *testing.T) {
		repo := new(ShopRepoMock)
		cache := new(CacheMock)
		service, shops, _ := newShopService(repo, cache)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
		repo.On("UpdateShopFields", mock.Anything, 5, mock.Anything).Return(nil).Once()
		cache.On("Invalidate", mock.Anything, []string{"catalog:shops", "catalog:shop:5"}).Return(nil).Once()
		repo.On("GetShopDetails", mock.Anything, 5).
			Return(&models.ShopDetails{Shop: models.Shop{ID: 5, Name: name}}, nil).Once()

		details, err := service.UpdateShop(context.Background(), producer, 5, &models.UpdateShopRequest{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, name, details.Name)
		cache.AssertExpectations(t)
	})

	t.Run("чужой магазин — forbidden", func(t *testing.T) {
		repo := new(ShopRepoMock)
		service, shops, _ := newShopService(repo, nil)

		shops.On("GetShopOwner", mock.Anything, 5).Return(1, nil).Once()

		_, err := service.UpdateShop(context.Background(), producer, 5, &models.UpdateShopRequest{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateShopFields", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestShopService_GetMyShops(t *testing.T) {
	producer := models.Principal{ID: 10, Role: models.RoleProducer}

	repo := new(ShopRepoMock)
	service, _, subs := newShopService(repo, nil)

	repo.On("GetShopsByUser", mock.Anything, 10).Return([]*models.ShopListItem{
		{Shop: models.Shop{ID: 5}},
	}, nil).Once()
	subs.On("CountShopSubscribers", mock.Anything, 5).Return(3, nil).Once()

	shops, err := service.GetMyShops(context.Background(), producer)
	assert.NoError(t, err)
	assert.Equal(t, 3, shops[0].SubscriberCount)
	subs.AssertExpectations(t)
}

func TestShopService_DeleteShop_Admin(t *testing.T) {
	admin := models.Principal{ID: 99, Role: models.RoleAdmin}

	repo := new(ShopRepoMock)
	service, shops, _ := newShopService(repo, nil)

	shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
	repo.On("DeleteShop", mock.Anything, 5).Return(nil).Once()

	err := service.DeleteShop(context.Background(), admin, 5)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
