package services

import (
	"context"
	"piata/internal/apperrors"
	"piata/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) GetProductsByShop(ctx context.Context, shopID int, onlyAvailable bool) ([]*models.Product, error) {
	args := m.Called(ctx, shopID, onlyAvailable)
	products, _ := args.Get(0).([]*models.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) GetProductByID(ctx context.Context, id int) (*models.ProductListItem, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.ProductListItem)
	return product, args.Error(1)
}

func (m *ProductRepoMock) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepoMock) CreateProducts(ctx context.Context, items []*models.Product) ([]*models.Product, error) {
	args := m.Called(ctx, items)
	created, _ := args.Get(0).([]*models.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) UpdateProductFields(ctx context.Context, id int, input *models.UpdateProductRequest, price *float64) error {
	return m.Called(ctx, id, input, price).Error(0)
}

func (m *ProductRepoMock) DeleteProduct(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepoMock) SyncProducts(ctx context.Context, shopID int, items []*models.Product) ([]*models.Product, error) {
	args := m.Called(ctx, shopID, items)
	created, _ := args.Get(0).([]*models.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) GetAllProductsAdmin(ctx context.Context) ([]*models.ProductListItem, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]*models.ProductListItem)
	return products, args.Error(1)
}

func (m *ProductRepoMock) GetProductOwner(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func TestProductService_CreateProduct(t *testing.T) {
	owner := models.Principal{ID: 10, Role: models.RoleProducer}

	t.Run("владелец создаёт товар с нормализованной ценой", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, shops, _, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
		repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.ShopID == 5 && p.Name == "Мёд" && p.Price != nil && *p.Price == 12.5
		})).Return(nil).Once()

		product, err := service.CreateProduct(context.Background(), owner, 5, &models.ProductInput{
			Name:  "Мёд",
			Price: "12,50",
		})
		assert.NoError(t, err)
		assert.Equal(t, "Мёд", product.Name)
		repo.AssertExpectations(t)
	})

	t.Run("без названия — invalid input до проверки владения", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		_, err := service.CreateProduct(context.Background(), owner, 5, &models.ProductInput{Price: "10"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("чужой магазин — forbidden", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, shops, _, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()

		_, err := service.CreateProduct(context.Background(), models.Principal{ID: 11, Role: models.RoleProducer}, 5,
			&models.ProductInput{Name: "Мёд"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("поле image принимается вместо image_url", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, shops, _, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
		repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.ImageURL == "honey.jpg"
		})).Return(nil).Once()

		_, err := service.CreateProduct(context.Background(), owner, 5, &models.ProductInput{
			Name:  "Мёд",
			Image: "honey.jpg",
		})
		assert.NoError(t, err)
	})
}

func TestProductService_CreateProducts(t *testing.T) {
	owner := models.Principal{ID: 10, Role: models.RoleProducer}

	t.Run("элементы без названия пропускаются", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, shops, _, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
		repo.On("CreateProducts", mock.Anything, mock.MatchedBy(func(items []*models.Product) bool {
			return len(items) == 2 && items[0].Name == "Мёд" && items[1].Name == "Сыр"
		})).Return([]*models.Product{{Name: "Мёд"}, {Name: "Сыр"}}, nil).Once()

		created, err := service.CreateProducts(context.Background(), owner, 5, []*models.ProductInput{
			{Name: "Мёд", Price: "10"},
			{Price: "5"},
			{Name: "Сыр", Price: "не цена"},
		})
		assert.NoError(t, err)
		assert.Len(t, created, 2)
		repo.AssertExpectations(t)
	})

	t.Run("пустая пачка отклоняется", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		_, err := service.CreateProducts(context.Background(), owner, 5, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	owner := models.Principal{ID: 10, Role: models.RoleProducer}
	name := "Мёд липовый"

	t.Run("некорректная цена не затирает сохранённую", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, _, products, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		products.On("GetProductOwner", mock.Anything, 3).Return(10, nil).Once()
		repo.On("UpdateProductFields", mock.Anything, 3, mock.Anything, (*float64)(nil)).Return(nil).Once()
		repo.On("GetProductByID", mock.Anything, 3).
			Return(&models.ProductListItem{Product: models.Product{ID: 3, ShopID: 5}}, nil).Once()

		_, err := service.UpdateProduct(context.Background(), owner, 3, &models.UpdateProductRequest{
			Name:  &name,
			Price: "не число",
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("валидная цена передаётся в хранилище", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, _, products, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		products.On("GetProductOwner", mock.Anything, 3).Return(10, nil).Once()
		repo.On("UpdateProductFields", mock.Anything, 3, mock.Anything, mock.MatchedBy(func(price *float64) bool {
			return price != nil && *price == 19.9
		})).Return(nil).Once()
		repo.On("GetProductByID", mock.Anything, 3).
			Return(&models.ProductListItem{Product: models.Product{ID: 3, ShopID: 5}}, nil).Once()

		_, err := service.UpdateProduct(context.Background(), owner, 3, &models.UpdateProductRequest{Price: "19,9"})
		assert.NoError(t, err)
	})

	t.Run("несуществующий товар — not found", func(t *testing.T) {
		repo := new(ProductRepoMock)
		resolver, _, products, _ := newTestResolver()
		service := NewProductService(repo, resolver, nil)

		products.On("GetProductOwner", mock.Anything, 3).Return(0, apperrors.ErrNotFound).Once()

		_, err := service.UpdateProduct(context.Background(), owner, 3, &models.UpdateProductRequest{})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProductService_SyncProducts(t *testing.T) {
	owner := models.Principal{ID: 10, Role: models.RoleProducer}

	repo := new(ProductRepoMock)
	resolver, shops, _, _ := newTestResolver()
	service := NewProductService(repo, resolver, nil)

	shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
	repo.On("SyncProducts", mock.Anything, 5, mock.MatchedBy(func(items []*models.Product) bool {
		return len(items) == 1 && items[0].Name == "Мёд"
	})).Return([]*models.Product{{ID: 1, Name: "Мёд"}}, nil).Once()

	saved, err := service.SyncProducts(context.Background(), owner, 5, []*models.ProductInput{
		{Name: "Мёд"},
		{Description: "без названия"},
	})
	assert.NoError(t, err)
	assert.Len(t, saved, 1)
	repo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	admin := models.Principal{ID: 99, Role: models.RoleAdmin}

	repo := new(ProductRepoMock)
	resolver, _, products, _ := newTestResolver()
	service := NewProductService(repo, resolver, nil)

	products.On("GetProductOwner", mock.Anything, 3).Return(10, nil).Once()
	repo.On("GetProductByID", mock.Anything, 3).
		Return(&models.ProductListItem{Product: models.Product{ID: 3, ShopID: 5}}, nil).Once()
	repo.On("DeleteProduct", mock.Anything, 3).Return(nil).Once()

	err := service.DeleteProduct(context.Background(), admin, 3)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
