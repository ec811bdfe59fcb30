package services

import (
	"context"
	"fmt"
	"piata/internal/apperrors"
	"piata/internal/logger"
	"piata/internal/models"

	"go.uber.org/zap"
)

// Relation — требуемое отношение субъекта к ресурсу.
type Relation int

const (
	RelationOwner Relation = iota
	RelationOwnerOrAdmin
)

// ResourceKind — вид ресурса с цепочкой владения.
type ResourceKind string

const (
	KindShop     ResourceKind = "shop"
	KindProduct  ResourceKind = "product"
	KindProducer ResourceKind = "producer"
)

type ShopOwnerRepo interface {
	GetShopOwner(ctx context.Context, id int) (int, error)
}

type ProductOwnerRepo interface {
	GetProductOwner(ctx context.Context, id int) (int, error)
}

type ProducerOwnerRepo interface {
	GetProducerOwner(ctx context.Context, id int) (int, error)
}

type ownerLookup func(ctx context.Context, id int) (int, error)

// OwnershipResolver сводит два представления владения (прямое user_id и
// транзитивное через магазин) к одному полиморфному разрешению: для каждого
// вида ресурса сконфигурирован свой lookup, сам резолвер написан один раз.
type OwnershipResolver struct {
	lookups map[ResourceKind]ownerLookup
}

func NewOwnershipResolver(shops ShopOwnerRepo, products ProductOwnerRepo, producers ProducerOwnerRepo) *OwnershipResolver {
	return &OwnershipResolver{
		lookups: map[ResourceKind]ownerLookup{
			KindShop:     shops.GetShopOwner,
			KindProduct:  products.GetProductOwner,
			KindProducer: producers.GetProducerOwner,
		},
	}
}

// Authorize: сначала существование (отсутствующий ресурс — всегда not found,
// даже для админа), потом отношение. Админ закрывает RelationOwnerOrAdmin
// без обхода цепочки; RelationOwner он не закрывает.
func (r *OwnershipResolver) Authorize(ctx context.Context, principal models.Principal, kind ResourceKind, id int, relation Relation) error {
	lookup, ok := r.lookups[kind]
	if !ok {
		return fmt.Errorf("неизвестный вид ресурса: %s", kind)
	}

	ownerID, err := lookup(ctx, id)
	if err != nil {
		return err
	}

	if relation == RelationOwnerOrAdmin && principal.IsAdmin() {
		return nil
	}
	if ownerID == principal.ID {
		return nil
	}

	logger.Log.Warn("Отказ в доступе (ownership)",
		zap.String("kind", string(kind)), zap.Int("resource_id", id),
		zap.Int("principal_id", principal.ID), zap.Int("owner_id", ownerID))
	return apperrors.ErrForbidden
}
