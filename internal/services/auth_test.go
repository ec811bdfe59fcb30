package services

import (
	"context"
	"errors"
	"piata/internal/apperrors"
	"piata/internal/models"
	"piata/internal/utils"
	"testing"
	"time"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	users  map[int]*models.User
	nextID int
	tokens map[int]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*models.User), nextID: 1, tokens: make(map[int]string)}
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) UpdateUserFields(_ context.Context, id int, input *models.UpdateUserRequest) error {
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if input.FullName != nil {
		u.FullName = *input.FullName
	}
	if input.Phone != nil {
		u.Phone = *input.Phone
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	m.tokens[userID] = token
	return nil
}

func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int, token string) (bool, error) {
	return m.tokens[userID] == token, nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	delete(m.tokens, userID)
	return nil
}

type mockShopCreator struct {
	created []*models.Shop
}

func (m *mockShopCreator) CreateShop(_ context.Context, shop *models.Shop) error {
	shop.ID = len(m.created) + 1
	m.created = append(m.created, shop)
	return nil
}

func (m *mockShopCreator) GetShopsByUser(_ context.Context, userID int) ([]*models.ShopListItem, error) {
	var items []*models.ShopListItem
	for _, s := range m.created {
		if s.UserID == userID {
			items = append(items, &models.ShopListItem{Shop: *s})
		}
	}
	return items, nil
}

func TestRegisterUser(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, &mockShopCreator{})

	user := &models.User{Email: "ion@example.com", FullName: "Ion Popescu", Role: "admin"}
	if err := service.RegisterUser(context.Background(), user, "parola123"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if user.Role != models.RoleUser {
		t.Errorf("роль через регистрацию не принижена: %s", user.Role)
	}
	if !utils.CheckPasswordHash("parola123", user.PasswordHash) {
		t.Error("пароль не захеширован")
	}

	// Повторная регистрация того же email
	err := service.RegisterUser(context.Background(), &models.User{Email: "ion@example.com"}, "parola123")
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("ожидали ErrConflict, получили %v", err)
	}
}

func TestRegisterProducer(t *testing.T) {
	repo := newMockUserRepo()
	shops := &mockShopCreator{}
	service := NewAuthService(repo, shops)

	user := &models.User{Email: "maria@example.com", FullName: "Maria Ionescu"}
	shop, err := service.RegisterProducer(context.Background(), user, "parola123", "сыры", "Dumbrăvița", "")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if user.Role != models.RoleProducer {
		t.Errorf("роль производителя не выставлена: %s", user.Role)
	}
	if shop.Name != "Maria Ionescu" || shop.UserID != user.ID {
		t.Errorf("первый магазин создан неверно: %+v", shop)
	}
	if len(shops.created) != 1 {
		t.Errorf("ожидали один магазин, создано %d", len(shops.created))
	}
}

func TestLoginUser(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, &mockShopCreator{})

	user := &models.User{Email: "ion@example.com", FullName: "Ion"}
	if err := service.RegisterUser(context.Background(), user, "parola123"); err != nil {
		t.Fatal(err)
	}

	access, refresh, got, err := service.LoginUser(context.Background(),
		"ion@example.com", "parola123", "secret", 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if access == "" || refresh == "" || got.ID != user.ID {
		t.Error("токены или пользователь не вернулись")
	}

	valid, _ := service.ValidateRefreshToken(context.Background(), user.ID, refresh)
	if !valid {
		t.Error("refresh токен не сохранён")
	}

	if _, _, _, err := service.LoginUser(context.Background(),
		"ion@example.com", "не тот пароль", "secret", 15*time.Minute, 24*time.Hour); err == nil {
		t.Error("вход с неверным паролем прошёл")
	}
}

func TestUpdateOwnProfile(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, &mockShopCreator{})

	user := &models.User{Email: "ion@example.com"}
	_ = service.RegisterUser(context.Background(), user, "parola123")

	name := "Ion Popescu"
	// Чужой профиль
	_, err := service.UpdateOwnProfile(context.Background(),
		models.Principal{ID: user.ID + 1, Role: models.RoleUser}, user.ID, &name, nil)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("ожидали ErrForbidden, получили %v", err)
	}

	// Свой профиль
	updated, err := service.UpdateOwnProfile(context.Background(),
		models.Principal{ID: user.ID, Role: models.RoleUser}, user.ID, &name, nil)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if updated.FullName != name {
		t.Errorf("имя не обновилось: %s", updated.FullName)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, &mockShopCreator{})

	user := &models.User{Email: "ion@example.com"}
	_ = service.RegisterUser(context.Background(), user, "parola123")

	if err := service.ChangePassword(context.Background(), user.ID, "parola123", "scurt"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("короткий пароль принят: %v", err)
	}
	if err := service.ChangePassword(context.Background(), user.ID, "не тот", "новаяпарола1"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("смена с неверным текущим паролем прошла: %v", err)
	}
	if err := service.ChangePassword(context.Background(), user.ID, "parola123", "новаяпарола1"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !utils.CheckPasswordHash("новаяпарола1", repo.users[user.ID].PasswordHash) {
		t.Error("новый пароль не сохранён")
	}
}
