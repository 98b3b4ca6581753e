package gql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/loc/inventory-service/internal/domain"
)

const schemaSDL = `
schema {
	query: Query
}

type Query {
	isInStock(skuCode: String, quantity: Int): Boolean
	inventory(id: ID): Inventory
	inventories: [Inventory]
	inventoryBySkuCode(skuCode: String): Inventory
}

type Inventory {
	id: ID!
	skuCode: String!
	quantity: Int!
}
`

type InventoryService interface {
	IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error)
	GetAll(ctx context.Context) ([]domain.Inventory, error)
	GetByID(ctx context.Context, id uint) (domain.Inventory, error)
	GetBySkuCode(ctx context.Context, skuCode string) (domain.Inventory, error)
}

// NewSchema parses the inventory schema and binds it to svc. It panics on an
// invalid schema, which can only happen if schemaSDL and the resolvers disagree.
func NewSchema(svc InventoryService) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, &Resolver{svc: svc})
}
