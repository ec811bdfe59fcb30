package services

import (
	"context"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"

	"go.uber.org/zap"
)

// ProducerService — CRUD старой семьи производителей. Делит с остальными
// резолвер владения, но данными с семьёй shops/products не связан.
type ProducerService struct {
	repo     ProducerRepo
	resolver *OwnershipResolver
}

type ProducerRepo interface {
	GetAllProducers(ctx context.Context) ([]*models.Producer, error)
	GetProducerByID(ctx context.Context, id int) (*models.Producer, error)
	CreateProducer(ctx context.Context, producer *models.Producer) error
	UpdateProducerFields(ctx context.Context, id int, input *models.UpdateProducerRequest) error
	DeleteProducer(ctx context.Context, id int) error
	GetAllProducersAdmin(ctx context.Context) ([]*models.ProducerListItem, error)
	GetProducerOwner(ctx context.Context, id int) (int, error)
}

func NewProducerService(repo ProducerRepo, resolver *OwnershipResolver) *ProducerService {
	return &ProducerService{repo: repo, resolver: resolver}
}

func (s *ProducerService) GetAllProducers(ctx context.Context) ([]*models.Producer, error) {
	return s.repo.GetAllProducers(ctx)
}

func (s *ProducerService) GetProducer(ctx context.Context, id int) (*models.Producer, error) {
	return s.repo.GetProducerByID(ctx, id)
}

func (s *ProducerService) CreateProducer(ctx context.Context, principal models.Principal, req *models.CreateProducerRequest) (*models.Producer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: не указано название производителя", apperrors.ErrInvalidInput)
	}

	producer := &models.Producer{
		UserID:      principal.ID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Phone:       req.Phone,
		Email:       req.Email,
		ImageURL:    req.ImageURL,
		Products:    req.Products,
	}
	if err := s.repo.CreateProducer(ctx, producer); err != nil {
		logger.Log.Error("Ошибка создания производителя (service)", zap.Error(err))
		return nil, err
	}
	logger.Log.Info("Производитель создан (service)", zap.Int("producer_id", producer.ID), zap.Int("user_id", principal.ID))
	return producer, nil
}

func (s *ProducerService) UpdateProducer(ctx context.Context, principal models.Principal, id int, req *models.UpdateProducerRequest) (*models.Producer, error) {
	if err := s.resolver.Authorize(ctx, principal, KindProducer, id, RelationOwnerOrAdmin); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProducerFields(ctx, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetProducerByID(ctx, id)
}

func (s *ProducerService) DeleteProducer(ctx context.Context, principal models.Principal, id int) error {
	if err := s.resolver.Authorize(ctx, principal, KindProducer, id, RelationOwnerOrAdmin); err != nil {
		return err
	}

	if err := s.repo.DeleteProducer(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Производитель удалён (service)", zap.Int("producer_id", id), zap.Int("principal_id", principal.ID))
	return nil
}

func (s *ProducerService) GetAllProducersAdmin(ctx context.Context) ([]*models.ProducerListItem, error) {
	return s.repo.GetAllProducersAdmin(ctx)
}
