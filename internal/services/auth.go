package services

import (
	"context"
	"errors"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"
	"piata/internal/utils"
	"time"

	"go.uber.org/zap"
)

type AuthService struct {
	repo  UserRepo
	shops ShopCreator
}

func NewAuthService(repo UserRepo, shops ShopCreator) *AuthService {
	return &AuthService{repo: repo, shops: shops}
}

type UserRepo interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateUserFields(ctx context.Context, id int, input *models.UpdateUserRequest) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
}

// ShopCreator — авторегистрация первого магазина при регистрации производителя.
type ShopCreator interface {
	CreateShop(ctx context.Context, shop *models.Shop) error
	GetShopsByUser(ctx context.Context, userID int) ([]*models.ShopListItem, error)
}

// RegisterUser создаёт покупателя или производителя. Роль admin через
// регистрацию не выдаётся.
func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	logger.Log.Info("Регистрация пользователя (service)", zap.String("email", input.Email))
	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return err
		}
		return fmt.Errorf("%w: адрес электронной почты уже зарегистрирован", apperrors.ErrConflict)
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	if input.Role != models.RoleProducer {
		input.Role = models.RoleUser
	}

	if err := s.repo.CreateUser(ctx, input); err != nil {
		logger.Log.Error("Ошибка создания пользователя", zap.Error(err))
		return err
	}
	logger.Log.Info("Пользователь зарегистрирован (service)", zap.Int("user_id", input.ID))
	return nil
}

// RegisterProducer регистрирует производителя и сразу создаёт его первый
// магазин (имя магазина — имя производителя).
func (s *AuthService) RegisterProducer(ctx context.Context, input *models.User, plainPassword, specialty, location, description string) (*models.Shop, error) {
	input.Role = models.RoleProducer
	if err := s.RegisterUser(ctx, input, plainPassword); err != nil {
		return nil, err
	}

	shop := &models.Shop{
		UserID:      input.ID,
		Name:        input.FullName,
		Specialty:   specialty,
		Location:    location,
		Description: description,
	}
	if err := s.shops.CreateShop(ctx, shop); err != nil {
		logger.Log.Error("Ошибка создания первого магазина производителя", zap.Int("user_id", input.ID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("Производитель зарегистрирован (service)", zap.Int("user_id", input.ID), zap.Int("shop_id", shop.ID))
	return shop, nil
}

func (s *AuthService) LoginUser(
	ctx context.Context,
	email, password, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, *models.User, error) {
	logger.Log.Info("Попытка входа (service)", zap.String("email", email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("email", email), zap.Error(err))
		return "", "", nil, errors.New("неверный логин или пароль")
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("email", email))
		return "", "", nil, errors.New("неверный логин или пароль")
	}

	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", nil, err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", nil, err
	}

	logger.Log.Info("Вход выполнен (service)", zap.Int("user_id", user.ID))
	return accessToken, refreshToken, user, nil
}

func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID int, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (service)", zap.Int("user_id", userID))
	return s.repo.IsRefreshTokenValid(ctx, userID, token)
}

func (s *AuthService) Logout(ctx context.Context, userID int, token string) error {
	logger.Log.Info("Выход пользователя (service)", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, token)
}

// GetProfile — профиль текущего пользователя; для производителя — с его магазинами.
func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.UserProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		Shops:     []*models.Shop{},
	}

	if user.Role == models.RoleProducer {
		shops, err := s.shops.GetShopsByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range shops {
			shop := item.Shop
			profile.Shops = append(profile.Shops, &shop)
		}
	}
	return profile, nil
}

// UpdateOwnProfile — самостоятельное редактирование: только своего профиля
// и только имени/телефона.
func (s *AuthService) UpdateOwnProfile(ctx context.Context, principal models.Principal, targetID int, fullName, phone *string) (*models.User, error) {
	if principal.ID != targetID {
		return nil, apperrors.ErrForbidden
	}

	input := &models.UpdateUserRequest{FullName: fullName, Phone: phone}
	if err := s.repo.UpdateUserFields(ctx, targetID, input); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, targetID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	logger.Log.Info("Смена пароля (service)", zap.Int("user_id", userID))
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: пароль должен быть не короче 8 символов", apperrors.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: текущий пароль неверен", apperrors.ErrInvalidInput)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hashed)
}
