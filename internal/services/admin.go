package services

import (
	"context"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"

	"go.uber.org/zap"
)

// AdminService — административная панель: пользователи и сводная статистика.
type AdminService struct {
	repo AdminUserRepo
}

type AdminUserRepo interface {
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateUserFields(ctx context.Context, id int, input *models.UpdateUserRequest) error
	DeleteUserByID(ctx context.Context, id int) error
	GetSystemStats(ctx context.Context) (*models.SystemStats, error)
}

func NewAdminService(repo AdminUserRepo) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *AdminService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	if err := s.repo.UpdateUserFields(ctx, id, req); err != nil {
		return nil, err
	}
	logger.Log.Info("Пользователь обновлён администратором (service)", zap.Int("user_id", id))
	return s.repo.GetUserByID(ctx, id)
}

// DeleteUser: администратор не может удалить собственную учётку — иначе
// можно остаться без последнего админа.
func (s *AdminService) DeleteUser(ctx context.Context, principal models.Principal, id int) error {
	if principal.ID == id {
		return apperrors.ErrSelfAction
	}

	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteUserByID(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Пользователь удалён администратором (service)",
		zap.Int("user_id", id), zap.Int("admin_id", principal.ID))
	return nil
}

func (s *AdminService) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	return s.repo.GetSystemStats(ctx)
}
