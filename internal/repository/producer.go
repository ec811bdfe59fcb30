package repository

import (
	"context"
	"errors"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ProducerRepository — старая семья ресурсов: производители с плоским
// списком продуктов, без связи с shops/products.
type ProducerRepository struct {
	db *pgxpool.Pool
}

func NewProducerRepository(db *pgxpool.Pool) *ProducerRepository {
	return &ProducerRepository{db: db}
}

func (r *ProducerRepository) GetProducerOwner(ctx context.Context, producerID int) (int, error) {
	query := `SELECT user_id FROM producers WHERE id = $1`
	var ownerID int
	err := r.db.QueryRow(ctx, query, producerID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения владельца производителя (repo)", zap.Int("producer_id", producerID), zap.Error(err))
		return 0, err
	}
	return ownerID, nil
}

func (r *ProducerRepository) GetAllProducers(ctx context.Context) ([]*models.Producer, error) {
	logger.Log.Debug("Список производителей (repo)")
	query := `
	SELECT id, user_id, name, description, location, phone, email, image_url, products, created_at
	FROM producers
	ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения производителей (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var producers []*models.Producer
	for rows.Next() {
		var p models.Producer
		err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Location,
			&p.Phone, &p.Email, &p.ImageURL, &p.Products, &p.CreatedAt)
		if err != nil {
			logger.Log.Error("Ошибка сканирования производителя (repo)", zap.Error(err))
			return nil, err
		}
		producers = append(producers, &p)
	}
	return producers, rows.Err()
}

func (r *ProducerRepository) GetProducerByID(ctx context.Context, id int) (*models.Producer, error) {
	logger.Log.Debug("Производитель по ID (repo)", zap.Int("producer_id", id))
	query := `
	SELECT id, user_id, name, description, location, phone, email, image_url, products, created_at
	FROM producers
	WHERE id = $1`

	var p models.Producer
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Name, &p.Description,
		&p.Location, &p.Phone, &p.Email, &p.ImageURL, &p.Products, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения производителя (repo)", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *ProducerRepository) CreateProducer(ctx context.Context, producer *models.Producer) error {
	logger.Log.Info("Создание производителя (repo)", zap.Int("user_id", producer.UserID), zap.String("name", producer.Name))
	query := `
	INSERT INTO producers (user_id, name, description, location, phone, email, image_url, products)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		producer.UserID,
		producer.Name,
		producer.Description,
		producer.Location,
		producer.Phone,
		producer.Email,
		producer.ImageURL,
		producer.Products,
	).Scan(&producer.ID, &producer.CreatedAt)
}

func (r *ProducerRepository) UpdateProducerFields(ctx context.Context, id int, input *models.UpdateProducerRequest) error {
	logger.Log.Info("Обновление производителя (repo)", zap.Int("producer_id", id))
	query := `UPDATE producers SET`
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
	if input.Location != nil {
		query += fmt.Sprintf(" location = $%d,", argNum)
		args = append(args, *input.Location)
		argNum++
	}
	if input.Phone != nil {
		query += fmt.Sprintf(" phone = $%d,", argNum)
		args = append(args, *input.Phone)
		argNum++
	}
	if input.Email != nil {
		query += fmt.Sprintf(" email = $%d,", argNum)
		args = append(args, *input.Email)
		argNum++
	}
	if input.ImageURL != nil {
		query += fmt.Sprintf(" image_url = $%d,", argNum)
		args = append(args, *input.ImageURL)
		argNum++
	}
	if input.Products != nil {
		query += fmt.Sprintf(" products = $%d,", argNum)
		args = append(args, input.Products)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления производителя (repo)", zap.Int("producer_id", id))
		return nil
	}

	query = strings.TrimSuffix(query, ",") + fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления производителя (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProducerRepository) DeleteProducer(ctx context.Context, id int) error {
	logger.Log.Info("Удаление производителя (repo)", zap.Int("producer_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM producers WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления производителя (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProducerRepository) GetAllProducersAdmin(ctx context.Context) ([]*models.ProducerListItem, error) {
	logger.Log.Info("Админский список производителей (repo)")
	query := `
	SELECT p.id, p.user_id, p.name, p.description, p.location, p.phone, p.email,
	       p.image_url, p.products, p.created_at,
	       COALESCE(u.full_name, ''), COALESCE(u.email, '')
	FROM producers p
	LEFT JOIN users u ON p.user_id = u.id
	ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения производителей (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*models.ProducerListItem
	for rows.Next() {
		var item models.ProducerListItem
		err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Description, &item.Location,
			&item.Phone, &item.Email, &item.ImageURL, &item.Products, &item.CreatedAt,
			&item.UserName, &item.UserEmail)
		if err != nil {
			logger.Log.Error("Ошибка сканирования производителя (repo)", zap.Error(err))
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
