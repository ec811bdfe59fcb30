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

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

// querier покрывает pgxpool.Pool и pgx.Tx для общих сканирующих помощников.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// GetProductOwner — транзитивный владелец: товар → магазин → пользователь.
func (r *ProductRepository) GetProductOwner(ctx context.Context, productID int) (int, error) {
	query := `
	SELECT s.user_id
	FROM products p
	JOIN shops s ON p.shop_id = s.id
	WHERE p.id = $1`
	var ownerID int
	err := r.db.QueryRow(ctx, query, productID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения владельца товара (repo)", zap.Int("product_id", productID), zap.Error(err))
		return 0, err
	}
	return ownerID, nil
}

func (r *ProductRepository) GetProductsByShop(ctx context.Context, shopID int, onlyAvailable bool) ([]*models.Product, error) {
	logger.Log.Debug("Товары магазина (repo)", zap.Int("shop_id", shopID), zap.Bool("only_available", onlyAvailable))
	query := `
	SELECT id, shop_id, name, description, price, image_url, is_available, created_at, updated_at
	FROM products
	WHERE shop_id = $1`
	if onlyAvailable {
		query += ` AND is_available = true`
	}
	query += ` ORDER BY created_at DESC`

	return scanProducts(r.db, ctx, query, shopID)
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*models.ProductListItem, error) {
	logger.Log.Debug("Товар по ID (repo)", zap.Int("product_id", id))
	query := `
	SELECT p.id, p.shop_id, p.name, p.description, p.price, p.image_url, p.is_available,
	       p.created_at, p.updated_at, s.name, u.full_name
	FROM products p
	JOIN shops s ON p.shop_id = s.id
	JOIN users u ON s.user_id = u.id
	WHERE p.id = $1`

	var item models.ProductListItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.ShopID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
		&item.IsAvailable, &item.CreatedAt, &item.UpdatedAt, &item.ShopName, &item.OwnerName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения товара (repo)", zap.Int("product_id", id), zap.Error(err))
		return nil, err
	}
	return &item, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	logger.Log.Info("Создание товара (repo)", zap.Int("shop_id", product.ShopID), zap.String("name", product.Name))
	query := `
	INSERT INTO products (shop_id, name, description, price, image_url)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, is_available, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		product.ShopID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
	).Scan(&product.ID, &product.IsAvailable, &product.CreatedAt, &product.UpdatedAt)
}

// CreateProducts вставляет пачку поштучно: неудача одного элемента не
// откатывает уже принятые (best-effort, как и задумано для bulk-создания).
func (r *ProductRepository) CreateProducts(ctx context.Context, items []*models.Product) ([]*models.Product, error) {
	created := make([]*models.Product, 0, len(items))
	for _, item := range items {
		if err := r.CreateProduct(ctx, item); err != nil {
			logger.Log.Error("Ошибка вставки товара из пачки (repo)",
				zap.Int("shop_id", item.ShopID), zap.String("name", item.Name), zap.Error(err))
			continue
		}
		created = append(created, item)
	}
	return created, nil
}

// UpdateProductFields — patch-обновление. Цена обновляется только если
// распарсилась: некорректная цена оставляет сохранённое значение.
func (r *ProductRepository) UpdateProductFields(ctx context.Context, id int, input *models.UpdateProductRequest, price *float64) error {
	logger.Log.Info("Обновление товара (repo)", zap.Int("product_id", id))
	query := `UPDATE products SET`
	var args []interface{}
	argNum := 1

	if input.Name != nil {
		query += fmt.Sprintf(" name = $%d,", argNum)
		args = append(args, *input.Name)
		argNum++
	}
	if input.Description != nil {
		query += fmt.Sprintf(" description = $%d,", argNum)
		args = append(args, *input.Description)
		argNum++
	}
	if price != nil {
		query += fmt.Sprintf(" price = $%d,", argNum)
		args = append(args, *price)
		argNum++
	}
	if input.ImageURL != nil {
		query += fmt.Sprintf(" image_url = $%d,", argNum)
		args = append(args, *input.ImageURL)
		argNum++
	}
	if input.IsAvailable != nil {
		query += fmt.Sprintf(" is_available = $%d,", argNum)
		args = append(args, *input.IsAvailable)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления товара (repo)", zap.Int("product_id", id))
		return nil
	}

	query += " updated_at = NOW()"
	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления товара (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	logger.Log.Info("Удаление товара (repo)", zap.Int("product_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления товара (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SyncProducts заменяет весь набор товаров магазина: удаление старых и
// вставка новых идут в одной транзакции — магазин не может остаться
// ни со старым, ни с новым набором.
func (r *ProductRepository) SyncProducts(ctx context.Context, shopID int, items []*models.Product) ([]*models.Product, error) {
	logger.Log.Info("Синхронизация товаров (repo)", zap.Int("shop_id", shopID), zap.Int("items", len(items)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE shop_id = $1`, shopID); err != nil {
		logger.Log.Error("Ошибка удаления старых товаров (repo)", zap.Error(err))
		return nil, err
	}

	query := `
	INSERT INTO products (shop_id, name, description, price, image_url)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, is_available, created_at, updated_at`

	created := make([]*models.Product, 0, len(items))
	for _, item := range items {
		err := tx.QueryRow(ctx, query, shopID, item.Name, item.Description, item.Price, item.ImageURL).
			Scan(&item.ID, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			logger.Log.Error("Ошибка вставки товара при синхронизации (repo)", zap.Error(err))
			return nil, err
		}
		item.ShopID = shopID
		created = append(created, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ProductRepository) GetAllProductsAdmin(ctx context.Context) ([]*models.ProductListItem, error) {
	logger.Log.Info("Админский список товаров (repo)")
	query := `
	SELECT p.id, p.shop_id, p.name, p.description, p.price, p.image_url, p.is_available,
	       p.created_at, p.updated_at, s.name, u.full_name
	FROM products p
	JOIN shops s ON p.shop_id = s.id
	JOIN users u ON s.user_id = u.id
	ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения товаров (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*models.ProductListItem
	for rows.Next() {
		var item models.ProductListItem
		err := rows.Scan(
			&item.ID, &item.ShopID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
			&item.IsAvailable, &item.CreatedAt, &item.UpdatedAt, &item.ShopName, &item.OwnerName,
		)
		if err != nil {
			logger.Log.Error("Ошибка сканирования товара (repo)", zap.Error(err))
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func scanProducts(q querier, ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка выборки товаров (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.ShopID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
			&p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			logger.Log.Error("Ошибка сканирования товара (repo)", zap.Error(err))
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
