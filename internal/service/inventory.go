package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/loc/inventory-service/internal/domain"
	"github.com/loc/inventory-service/internal/repository"
)

const tracerName = "github.com/loc/inventory-service/internal/service"

var (
	ErrInventoryNotFound = repository.ErrInventoryNotFound
	ErrSkuCodeExists     = repository.ErrSkuCodeExists
)

type InventoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Inventory, error)
	FindBySkuCode(ctx context.Context, skuCode string) (domain.Inventory, error)
	ExistsWithQuantityAtLeast(ctx context.Context, skuCode string, minQuantity int) (bool, error)
	FindAll(ctx context.Context) ([]domain.Inventory, error)
	AddQuantity(ctx context.Context, skuCode string, quantity int) (domain.Inventory, error)
	Save(ctx context.Context, inv domain.Inventory) (domain.Inventory, error)
	DeleteByID(ctx context.Context, id uint) error
}

// InventoryService is the only entry point to inventory data for both the
// REST and the GraphQL front-ends.
type InventoryService struct {
	repo   InventoryRepository
	tracer trace.Tracer
}

func NewInventoryService(repo InventoryRepository) *InventoryService {
	return &InventoryService{
		repo:   repo,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *InventoryService) IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.IsInStock", trace.WithAttributes(
		attribute.String("inventory.sku_code", skuCode),
		attribute.Int("inventory.quantity", quantity),
	))
	defer span.End()

	inStock, err := s.repo.ExistsWithQuantityAtLeast(ctx, skuCode, quantity)
	if err != nil {
		return false, recordErr(span, fmt.Errorf("s.repo.ExistsWithQuantityAtLeast -> %w", err))
	}

	span.SetAttributes(attribute.Bool("inventory.in_stock", inStock))

	return inStock, nil
}

// CreateOrMerge adds inv.Quantity to the record for inv.SkuCode, creating the
// record when there is none. The merge is one atomic store write.
func (s *InventoryService) CreateOrMerge(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.CreateOrMerge", trace.WithAttributes(
		attribute.String("inventory.sku_code", inv.SkuCode),
		attribute.Int("inventory.quantity", inv.Quantity),
	))
	defer span.End()

	saved, err := s.repo.AddQuantity(ctx, inv.SkuCode, inv.Quantity)
	if err != nil {
		return domain.Inventory{}, recordErr(span, fmt.Errorf("s.repo.AddQuantity -> %w", err))
	}

	span.SetAttributes(attribute.Int64("inventory.id", int64(saved.ID)))

	return saved, nil
}

// CreateMany merges each entry in order. It stops at the first failure and
// entries merged before it stay committed.
func (s *InventoryService) CreateMany(ctx context.Context, inventories []domain.Inventory) ([]domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.CreateMany", trace.WithAttributes(
		attribute.Int("inventory.batch_size", len(inventories)),
	))
	defer span.End()

	saved := make([]domain.Inventory, 0, len(inventories))
	for i, inv := range inventories {
		created, err := s.CreateOrMerge(ctx, inv)
		if err != nil {
			return nil, recordErr(span, fmt.Errorf("s.CreateOrMerge[%d] -> %w", i, err))
		}

		saved = append(saved, created)
	}

	return saved, nil
}

func (s *InventoryService) GetAll(ctx context.Context) ([]domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.GetAll")
	defer span.End()

	inventories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("s.repo.FindAll -> %w", err))
	}

	return inventories, nil
}

func (s *InventoryService) GetByID(ctx context.Context, id uint) (domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.GetByID", trace.WithAttributes(
		attribute.Int64("inventory.id", int64(id)),
	))
	defer span.End()

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inventory{}, recordErr(span, fmt.Errorf("s.repo.FindByID -> %w", err))
	}

	return inv, nil
}

func (s *InventoryService) GetBySkuCode(ctx context.Context, skuCode string) (domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.GetBySkuCode", trace.WithAttributes(
		attribute.String("inventory.sku_code", skuCode),
	))
	defer span.End()

	inv, err := s.repo.FindBySkuCode(ctx, skuCode)
	if err != nil {
		return domain.Inventory{}, recordErr(span, fmt.Errorf("s.repo.FindBySkuCode -> %w", err))
	}

	return inv, nil
}

// Update replaces both SkuCode and Quantity of the record with the given id.
func (s *InventoryService) Update(ctx context.Context, id uint, inv domain.Inventory) (domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Update", trace.WithAttributes(
		attribute.Int64("inventory.id", int64(id)),
		attribute.String("inventory.sku_code", inv.SkuCode),
		attribute.Int("inventory.quantity", inv.Quantity),
	))
	defer span.End()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inventory{}, recordErr(span, fmt.Errorf("s.repo.FindByID -> %w", err))
	}

	existing.SkuCode = inv.SkuCode
	existing.Quantity = inv.Quantity

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return domain.Inventory{}, recordErr(span, fmt.Errorf("s.repo.Save -> %w", err))
	}

	return saved, nil
}

func (s *InventoryService) DeleteByID(ctx context.Context, id uint) error {
	ctx, span := s.tracer.Start(ctx, "InventoryService.DeleteByID", trace.WithAttributes(
		attribute.Int64("inventory.id", int64(id)),
	))
	defer span.End()

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return recordErr(span, fmt.Errorf("s.repo.DeleteByID -> %w", err))
	}

	return nil
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
