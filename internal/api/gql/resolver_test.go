package gql

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loc/inventory-service/internal/domain"
	"github.com/loc/inventory-service/internal/service"
)

type fakeService struct {
	inventories []domain.Inventory
	err         error
}

func (f *fakeService) IsInStock(_ context.Context, skuCode string, quantity int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, inv := range f.inventories {
		if inv.SkuCode == skuCode {
			return inv.Quantity >= quantity, nil
		}
	}
	return false, nil
}

func (f *fakeService) GetAll(_ context.Context) ([]domain.Inventory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.inventories, nil
}

func (f *fakeService) GetByID(_ context.Context, id uint) (domain.Inventory, error) {
	if f.err != nil {
		return domain.Inventory{}, f.err
	}
	for _, inv := range f.inventories {
		if inv.ID == id {
			return inv, nil
		}
	}
	return domain.Inventory{}, service.ErrInventoryNotFound
}

func (f *fakeService) GetBySkuCode(_ context.Context, skuCode string) (domain.Inventory, error) {
	if f.err != nil {
		return domain.Inventory{}, f.err
	}
	for _, inv := range f.inventories {
		if inv.SkuCode == skuCode {
			return inv, nil
		}
	}
	return domain.Inventory{}, service.ErrInventoryNotFound
}

func newFakeService() *fakeService {
	return &fakeService{inventories: []domain.Inventory{
		{ID: 1, SkuCode: "ABC-1", Quantity: 8},
		{ID: 2, SkuCode: "XYZ-9", Quantity: 0},
	}}
}

func TestSchema_Queries(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		variables map[string]interface{}
		wantData  string
	}{
		{
			name:     "in stock at threshold",
			query:    `{ isInStock(skuCode: "ABC-1", quantity: 8) }`,
			wantData: `{"isInStock":true}`,
		},
		{
			name:     "not in stock above threshold",
			query:    `{ isInStock(skuCode: "ABC-1", quantity: 9) }`,
			wantData: `{"isInStock":false}`,
		},
		{
			name:     "unknown sku",
			query:    `{ isInStock(skuCode: "NOPE", quantity: 0) }`,
			wantData: `{"isInStock":false}`,
		},
		{
			name:      "variables",
			query:     `query Check($sku: String, $qty: Int) { isInStock(skuCode: $sku, quantity: $qty) }`,
			variables: map[string]interface{}{"sku": "ABC-1", "qty": float64(3)},
			wantData:  `{"isInStock":true}`,
		},
		{
			name:     "inventory by id",
			query:    `{ inventory(id: "1") { id skuCode quantity } }`,
			wantData: `{"inventory":{"id":"1","skuCode":"ABC-1","quantity":8}}`,
		},
		{
			name:     "missing id resolves to null",
			query:    `{ inventory(id: "404") { id } }`,
			wantData: `{"inventory":null}`,
		},
		{
			name:     "absent id argument resolves to null",
			query:    `{ inventory { id } }`,
			wantData: `{"inventory":null}`,
		},
		{
			name:     "inventories",
			query:    `{ inventories { id skuCode quantity } }`,
			wantData: `{"inventories":[{"id":"1","skuCode":"ABC-1","quantity":8},{"id":"2","skuCode":"XYZ-9","quantity":0}]}`,
		},
		{
			name:     "by sku code",
			query:    `{ inventoryBySkuCode(skuCode: "XYZ-9") { id quantity } }`,
			wantData: `{"inventoryBySkuCode":{"id":"2","quantity":0}}`,
		},
		{
			name:     "unknown sku code resolves to null",
			query:    `{ inventoryBySkuCode(skuCode: "NOPE") { id } }`,
			wantData: `{"inventoryBySkuCode":null}`,
		},
	}

	schema := NewSchema(newFakeService())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := schema.Exec(context.Background(), tt.query, "", tt.variables)

			require.Empty(t, resp.Errors)
			assert.JSONEq(t, tt.wantData, string(resp.Data))
		})
	}
}

func TestSchema_Errors(t *testing.T) {
	tests := []struct {
		name    string
		svc     *fakeService
		query   string
		wantErr string
	}{
		{
			name:    "isInStock without quantity",
			svc:     newFakeService(),
			query:   `{ isInStock(skuCode: "ABC-1") }`,
			wantErr: errMissingStockArgs.Error(),
		},
		{
			name:    "isInStock without sku",
			svc:     newFakeService(),
			query:   `{ isInStock(quantity: 1) }`,
			wantErr: errMissingStockArgs.Error(),
		},
		{
			name:    "malformed id",
			svc:     newFakeService(),
			query:   `{ inventory(id: "abc") { id } }`,
			wantErr: errInvalidID.Error(),
		},
		{
			name:    "storage unavailable",
			svc:     &fakeService{err: errors.New("connection refused")},
			query:   `{ inventories { id } }`,
			wantErr: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSchema(tt.svc).Exec(context.Background(), tt.query, "", nil)

			require.NotEmpty(t, resp.Errors)
			assert.Contains(t, resp.Errors[0].Message, tt.wantErr)
		})
	}
}

func TestInventoryResolver_QuantityClamped(t *testing.T) {
	r := &inventoryResolver{inv: domain.Inventory{Quantity: 1 << 40}}
	assert.Equal(t, int32(2147483647), r.Quantity())
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/graphql", Handler(NewSchema(newFakeService())))

	body := `{"query":"query Check($sku: String) { isInStock(skuCode: $sku, quantity: 1) }","variables":{"sku":"ABC-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"isInStock":true}}`, rec.Body.String())
}
