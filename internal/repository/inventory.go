package repository

import (
	"context"
	"fmt"

	"github.com/loc/inventory-service/internal/domain"
	"github.com/loc/inventory-service/internal/repository/dao"
)

var (
	ErrInventoryNotFound = dao.ErrInventoryNotFound
	ErrSkuCodeExists     = dao.ErrSkuCodeExists
)

type InventoryDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Inventory, error)
	FindBySkuCode(ctx context.Context, skuCode string) (dao.Inventory, error)
	ExistsWithQuantityAtLeast(ctx context.Context, skuCode string, minQuantity int) (bool, error)
	FindAll(ctx context.Context) ([]dao.Inventory, error)
	AddQuantity(ctx context.Context, skuCode string, quantity int) (dao.Inventory, error)
	Save(ctx context.Context, inv dao.Inventory) (dao.Inventory, error)
	DeleteByID(ctx context.Context, id uint) error
}

type InventoryRepository struct {
	dao InventoryDAO
}

func NewInventoryRepository(dao InventoryDAO) *InventoryRepository {
	return &InventoryRepository{
		dao: dao,
	}
}

func (r *InventoryRepository) FindByID(ctx context.Context, id uint) (domain.Inventory, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *InventoryRepository) FindBySkuCode(ctx context.Context, skuCode string) (domain.Inventory, error) {
	found, err := r.dao.FindBySkuCode(ctx, skuCode)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("r.dao.FindBySkuCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *InventoryRepository) ExistsWithQuantityAtLeast(ctx context.Context, skuCode string, minQuantity int) (bool, error) {
	exists, err := r.dao.ExistsWithQuantityAtLeast(ctx, skuCode, minQuantity)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsWithQuantityAtLeast -> %w", err)
	}

	return exists, nil
}

func (r *InventoryRepository) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *InventoryRepository) AddQuantity(ctx context.Context, skuCode string, quantity int) (domain.Inventory, error) {
	saved, err := r.dao.AddQuantity(ctx, skuCode, quantity)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("r.dao.AddQuantity -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *InventoryRepository) Save(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	saved, err := r.dao.Save(ctx, r.domainToDao(inv))
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("r.dao.Save -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *InventoryRepository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.dao.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteByID -> %w", err)
	}

	return nil
}

func (r *InventoryRepository) domainToDao(inv domain.Inventory) dao.Inventory {
	return dao.Inventory{
		ID:        inv.ID,
		SkuCode:   inv.SkuCode,
		Quantity:  inv.Quantity,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func (r *InventoryRepository) daoToDomain(inv dao.Inventory) domain.Inventory {
	return domain.Inventory{
		ID:        inv.ID,
		SkuCode:   inv.SkuCode,
		Quantity:  inv.Quantity,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func (r *InventoryRepository) daosToDomain(inventories []dao.Inventory) []domain.Inventory {
	domainInventories := make([]domain.Inventory, len(inventories))
	for i, inv := range inventories {
		domainInventories[i] = r.daoToDomain(inv)
	}
	return domainInventories
}
