package gql

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/loc/inventory-service/internal/domain"
	"github.com/loc/inventory-service/internal/service"
)

var (
	errMissingStockArgs = errors.New("isInStock requires skuCode and quantity")
	errInvalidID        = errors.New("id must be a positive integer")
)

type Resolver struct {
	svc InventoryService
}

type isInStockArgs struct {
	SkuCode  *string
	Quantity *int32
}

func (r *Resolver) IsInStock(ctx context.Context, args isInStockArgs) (*bool, error) {
	if args.SkuCode == nil || args.Quantity == nil {
		return nil, errMissingStockArgs
	}

	inStock, err := r.svc.IsInStock(ctx, *args.SkuCode, int(*args.Quantity))
	if err != nil {
		return nil, fmt.Errorf("r.svc.IsInStock -> %w", err)
	}

	return &inStock, nil
}

// Inventory resolves to null when id is absent or matches no record.
func (r *Resolver) Inventory(ctx context.Context, args struct{ ID *graphql.ID }) (*inventoryResolver, error) {
	if args.ID == nil {
		return nil, nil
	}

	id, err := parseID(*args.ID)
	if err != nil {
		return nil, err
	}

	inv, err := r.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("r.svc.GetByID -> %w", err)
	}

	return &inventoryResolver{inv: inv}, nil
}

func (r *Resolver) Inventories(ctx context.Context) (*[]*inventoryResolver, error) {
	inventories, err := r.svc.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.svc.GetAll -> %w", err)
	}

	resolvers := make([]*inventoryResolver, 0, len(inventories))
	for _, inv := range inventories {
		resolvers = append(resolvers, &inventoryResolver{inv: inv})
	}

	return &resolvers, nil
}

func (r *Resolver) InventoryBySkuCode(ctx context.Context, args struct{ SkuCode *string }) (*inventoryResolver, error) {
	if args.SkuCode == nil {
		return nil, nil
	}

	inv, err := r.svc.GetBySkuCode(ctx, *args.SkuCode)
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("r.svc.GetBySkuCode -> %w", err)
	}

	return &inventoryResolver{inv: inv}, nil
}

type inventoryResolver struct {
	inv domain.Inventory
}

func (r *inventoryResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(r.inv.ID), 10))
}

func (r *inventoryResolver) SkuCode() string {
	return r.inv.SkuCode
}

// Quantity is a GraphQL Int, so values beyond 32 bits are clamped.
func (r *inventoryResolver) Quantity() int32 {
	switch {
	case r.inv.Quantity > math.MaxInt32:
		return math.MaxInt32
	case r.inv.Quantity < math.MinInt32:
		return math.MinInt32
	}

	return int32(r.inv.Quantity)
}

func parseID(id graphql.ID) (uint, error) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || n == 0 {
		return 0, errInvalidID
	}

	return uint(n), nil
}
