package services

import (
	"context"
	"piata/internal/apperrors"
	"piata/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SubscriptionRepoMock struct{ mock.Mock }

func (m *SubscriptionRepoMock) GetShopConfig(ctx context.Context, shopID int) (*models.ShopSubscriptionConfig, error) {
	args := m.Called(ctx, shopID)
	cfg, _ := args.Get(0).(*models.ShopSubscriptionConfig)
	return cfg, args.Error(1)
}

func (m *SubscriptionRepoMock) UpsertShopConfig(ctx context.Context, cfg *models.ShopSubscriptionConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *SubscriptionRepoMock) DeleteShopConfig(ctx context.Context, shopID int) error {
	return m.Called(ctx, shopID).Error(0)
}

func (m *SubscriptionRepoMock) Subscribe(ctx context.Context, userID, shopID int) (*models.UserSubscription, error) {
	args := m.Called(ctx, userID, shopID)
	sub, _ := args.Get(0).(*models.UserSubscription)
	return sub, args.Error(1)
}

func (m *SubscriptionRepoMock) ListUserSubscriptions(ctx context.Context, userID int) ([]*models.UserSubscriptionView, error) {
	args := m.Called(ctx, userID)
	subs, _ := args.Get(0).([]*models.UserSubscriptionView)
	return subs, args.Error(1)
}

func (m *SubscriptionRepoMock) ListShopSubscribers(ctx context.Context, shopID int) ([]*models.ShopSubscriberView, error) {
	args := m.Called(ctx, shopID)
	subs, _ := args.Get(0).([]*models.ShopSubscriberView)
	return subs, args.Error(1)
}

func (m *SubscriptionRepoMock) GetSubscriptionParties(ctx context.Context, id int) (*models.SubscriptionParties, error) {
	args := m.Called(ctx, id)
	parties, _ := args.Get(0).(*models.SubscriptionParties)
	return parties, args.Error(1)
}

func (m *SubscriptionRepoMock) UpdateSubscriptionStatus(ctx context.Context, id int, status string) (*models.UserSubscription, error) {
	args := m.Called(ctx, id, status)
	sub, _ := args.Get(0).(*models.UserSubscription)
	return sub, args.Error(1)
}

func TestSubscriptionService_GetShopConfig_NotPublished(t *testing.T) {
	repo := new(SubscriptionRepoMock)
	resolver, _, _, _ := newTestResolver()
	service := NewSubscriptionService(repo, resolver)

	repo.On("GetShopConfig", mock.Anything, 5).Return(nil, apperrors.ErrNotFound).Once()

	cfg, err := service.GetShopConfig(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, cfg)
	repo.AssertExpectations(t)
}

func TestSubscriptionService_UpsertShopConfig(t *testing.T) {
	owner := models.Principal{ID: 10, Role: models.RoleProducer}
	admin := models.Principal{ID: 99, Role: models.RoleAdmin}

	t.Run("владелец сохраняет план", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, shops, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()
		repo.On("UpsertShopConfig", mock.Anything, mock.MatchedBy(func(cfg *models.ShopSubscriptionConfig) bool {
			return cfg.ShopID == 5 && cfg.IsActive
		})).Return(nil).Once()

		cfg, err := service.UpsertShopConfig(context.Background(), owner, 5, &models.UpsertShopConfigRequest{
			Description: "еженедельная корзина",
			Price:       "25,00",
			IsActive:    true,
		})
		assert.NoError(t, err)
		assert.Equal(t, 5, cfg.ShopID)
		repo.AssertExpectations(t)
	})

	t.Run("админу план чужого магазина недоступен", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, shops, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()

		_, err := service.UpsertShopConfig(context.Background(), admin, 5, &models.UpsertShopConfigRequest{})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		repo.AssertNotCalled(t, "UpsertShopConfig", mock.Anything, mock.Anything)
	})
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	user := models.Principal{ID: 2, Role: models.RoleUser}

	t.Run("успешная подписка", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		want := &models.UserSubscription{ID: 7, UserID: 2, ShopID: 5, Status: models.SubscriptionPending}
		repo.On("Subscribe", mock.Anything, 2, 5).Return(want, nil).Once()

		sub, err := service.Subscribe(context.Background(), user, 5)
		assert.NoError(t, err)
		assert.Equal(t, models.SubscriptionPending, sub.Status)
		repo.AssertExpectations(t)
	})

	t.Run("нулевой ID магазина отклоняется до хранилища", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		_, err := service.Subscribe(context.Background(), user, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("отказ хранилища пробрасывается", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("Subscribe", mock.Anything, 2, 5).Return(nil, apperrors.ErrSelfAction).Once()

		_, err := service.Subscribe(context.Background(), user, 5)
		assert.ErrorIs(t, err, apperrors.ErrSelfAction)
	})
}

func TestSubscriptionService_GetShopSubscribers_OnlyOwner(t *testing.T) {
	admin := models.Principal{ID: 99, Role: models.RoleAdmin}

	repo := new(SubscriptionRepoMock)
	resolver, shops, _, _ := newTestResolver()
	service := NewSubscriptionService(repo, resolver)

	shops.On("GetShopOwner", mock.Anything, 5).Return(10, nil).Once()

	_, err := service.GetShopSubscribers(context.Background(), admin, 5)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "ListShopSubscribers", mock.Anything, mock.Anything)
}

func TestSubscriptionService_UpdateStatus(t *testing.T) {
	parties := &models.SubscriptionParties{ID: 7, UserID: 2, ShopID: 5, ShopOwnerID: 10}
	subscriber := models.Principal{ID: 2, Role: models.RoleUser}
	shopOwner := models.Principal{ID: 10, Role: models.RoleProducer}
	stranger := models.Principal{ID: 3, Role: models.RoleUser}

	t.Run("подписчик меняет статус", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(parties, nil).Once()
		repo.On("UpdateSubscriptionStatus", mock.Anything, 7, models.SubscriptionPaused).
			Return(&models.UserSubscription{ID: 7, Status: models.SubscriptionPaused}, nil).Once()

		sub, err := service.UpdateStatus(context.Background(), subscriber, 7, models.SubscriptionPaused)
		assert.NoError(t, err)
		assert.Equal(t, models.SubscriptionPaused, sub.Status)
	})

	t.Run("владелец магазина меняет статус", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(parties, nil).Once()
		repo.On("UpdateSubscriptionStatus", mock.Anything, 7, models.SubscriptionActive).
			Return(&models.UserSubscription{ID: 7, Status: models.SubscriptionActive}, nil).Once()

		_, err := service.UpdateStatus(context.Background(), shopOwner, 7, models.SubscriptionActive)
		assert.NoError(t, err)
	})

	t.Run("посторонний получает forbidden", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(parties, nil).Once()

		_, err := service.UpdateStatus(context.Background(), stranger, 7, models.SubscriptionActive)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("недопустимый статус", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(parties, nil).Once()

		_, err := service.UpdateStatus(context.Background(), subscriber, 7, "expired")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("несуществующая подписка", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.UpdateStatus(context.Background(), subscriber, 7, models.SubscriptionActive)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	parties := &models.SubscriptionParties{ID: 7, UserID: 2, ShopID: 5, ShopOwnerID: 10}
	subscriber := models.Principal{ID: 2, Role: models.RoleUser}
	shopOwner := models.Principal{ID: 10, Role: models.RoleProducer}

	t.Run("подписчик отменяет", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(parties, nil).Once()
		repo.On("UpdateSubscriptionStatus", mock.Anything, 7, models.SubscriptionCancelled).
			Return(&models.UserSubscription{ID: 7, Status: models.SubscriptionCancelled}, nil).Once()

		err := service.Cancel(context.Background(), subscriber, 7)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("владелец магазина отменить не может", func(t *testing.T) {
		repo := new(SubscriptionRepoMock)
		resolver, _, _, _ := newTestResolver()
		service := NewSubscriptionService(repo, resolver)

		repo.On("GetSubscriptionParties", mock.Anything, 7).Return(parties, nil).Once()

		err := service.Cancel(context.Background(), shopOwner, 7)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
