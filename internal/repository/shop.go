package repository

import (
	"context"
	"errors"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ShopRepository struct {
	db *pgxpool.Pool
}

func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

// GetShopOwner — прямой владелец магазина. Владелец неизменен после создания.
func (r *ShopRepository) GetShopOwner(ctx context.Context, shopID int) (int, error) {
	query := `SELECT user_id FROM shops WHERE id = $1`
	var ownerID int
	err := r.db.QueryRow(ctx, query, shopID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения владельца магазина (repo)", zap.Int("shop_id", shopID), zap.Error(err))
		return 0, err
	}
	return ownerID, nil
}

func (r *ShopRepository) CreateShop(ctx context.Context, shop *models.Shop) error {
	logger.Log.Info("Создание магазина (repo)", zap.Int("user_id", shop.UserID), zap.String("name", shop.Name))
	query := `
	INSERT INTO shops (user_id, name, specialty, description, location, image_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, is_active, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		shop.UserID,
		shop.Name,
		shop.Specialty,
		shop.Description,
		shop.Location,
		shop.ImageURL,
	).Scan(&shop.ID, &shop.IsActive, &shop.CreatedAt, &shop.UpdatedAt)
}

// GetPublicShops — публичный каталог: только активные магазины,
// с данными владельца и числом доступных товаров.
func (r *ShopRepository) GetPublicShops(ctx context.Context) ([]*models.ShopListItem, error) {
	logger.Log.Debug("Публичный список магазинов (repo)")
	query := `
	SELECT s.id, s.user_id, s.name, s.specialty, s.description, s.location, s.image_url,
	       s.is_active, s.created_at, s.updated_at,
	       u.full_name, u.email,
	       (SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id AND p.is_available = true)
	FROM shops s
	JOIN users u ON s.user_id = u.id
	WHERE s.is_active = true
	ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения магазинов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanShopListItems(rows)
}

// GetShopDetails — публичная страница магазина с доступными товарами.
func (r *ShopRepository) GetShopDetails(ctx context.Context, id int) (*models.ShopDetails, error) {
	logger.Log.Debug("Страница магазина (repo)", zap.Int("shop_id", id))
	query := `
	SELECT s.id, s.user_id, s.name, s.specialty, s.description, s.location, s.image_url,
	       s.is_active, s.created_at, s.updated_at,
	       u.full_name, u.email, u.phone
	FROM shops s
	JOIN users u ON s.user_id = u.id
	WHERE s.id = $1`

	var d models.ShopDetails
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.Name, &d.Specialty, &d.Description, &d.Location, &d.ImageURL,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.OwnerName, &d.OwnerEmail, &d.OwnerPhone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения магазина (repo)", zap.Int("shop_id", id), zap.Error(err))
		return nil, err
	}

	products, err := scanProducts(r.db, ctx, `
	SELECT id, shop_id, name, description, price, image_url, is_available, created_at, updated_at
	FROM products
	WHERE shop_id = $1 AND is_available = true
	ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	d.Products = products
	if d.Products == nil {
		d.Products = []*models.Product{}
	}
	return &d, nil
}

// GetShopsByUser — магазины пользователя без фильтра активности,
// с числом товаров и подписчиков.
func (r *ShopRepository) GetShopsByUser(ctx context.Context, userID int) ([]*models.ShopListItem, error) {
	logger.Log.Debug("Магазины пользователя (repo)", zap.Int("user_id", userID))
	query := `
	SELECT s.id, s.user_id, s.name, s.specialty, s.description, s.location, s.image_url,
	       s.is_active, s.created_at, s.updated_at,
	       '', '',
	       (SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id)
	FROM shops s
	WHERE s.user_id = $1
	ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Ошибка получения магазинов пользователя (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanShopListItems(rows)
}

// GetAllShopsAdmin — все магазины (включая неактивные), с владельцем и числом товаров.
func (r *ShopRepository) GetAllShopsAdmin(ctx context.Context) ([]*models.ShopListItem, error) {
	logger.Log.Info("Админский список магазинов (repo)")
	query := `
	SELECT s.id, s.user_id, s.name, s.specialty, s.description, s.location, s.image_url,
	       s.is_active, s.created_at, s.updated_at,
	       u.full_name, u.email,
	       (SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id)
	FROM shops s
	JOIN users u ON s.user_id = u.id
	ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения магазинов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanShopListItems(rows)
}

// UpdateShopFields обновляет только переданные поля. user_id не обновляется
// никогда: владелец магазина неизменен.
func (r *ShopRepository) UpdateShopFields(ctx context.Context, id int, input *models.UpdateShopRequest) error {
	logger.Log.Info("Обновление магазина (repo)", zap.Int("shop_id", id))
	query := `UPDATE shops SET`
	var args []interface{}
	argNum := 1

	if input.Name != nil {
		query += fmt.Sprintf(" name = $%d,", argNum)
		args = append(args, *input.Name)
		argNum++
	}
	if input.Specialty != nil {
		query += fmt.Sprintf(" specialty = $%d,", argNum)
		args = append(args, *input.Specialty)
		argNum++
	}
	if input.Description != nil {
		query += fmt.Sprintf(" description = $%d,", argNum)
		args = append(args, *input.Description)
		argNum++
	}
	if input.Location != nil {
		query += fmt.Sprintf(" location = $%d,", argNum)
		args = append(args, *input.Location)
		argNum++
	}
	if input.ImageURL != nil {
		query += fmt.Sprintf(" image_url = $%d,", argNum)
		args = append(args, *input.ImageURL)
		argNum++
	}
	if input.IsActive != nil {
		query += fmt.Sprintf(" is_active = $%d,", argNum)
		args = append(args, *input.IsActive)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления магазина (repo)", zap.Int("shop_id", id))
		return nil
	}

	query += " updated_at = NOW()"
	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления магазина (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteShop удаляет магазин; товары, план подписки и подписки пользователей
// уходят каскадом (FK ON DELETE CASCADE) — детей-сирот не остаётся.
func (r *ShopRepository) DeleteShop(ctx context.Context, id int) error {
	logger.Log.Info("Удаление магазина (repo)", zap.Int("shop_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления магазина (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanShopListItems(rows pgx.Rows) ([]*models.ShopListItem, error) {
	var items []*models.ShopListItem
	for rows.Next() {
		var s models.ShopListItem
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Specialty, &s.Description, &s.Location, &s.ImageURL,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
			&s.OwnerName, &s.OwnerEmail, &s.ProductCount,
		)
		if err != nil {
			logger.Log.Error("Ошибка сканирования магазина (repo)", zap.Error(err))
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}
