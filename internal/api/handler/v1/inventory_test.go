package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loc/inventory-service/internal/domain"
	"github.com/loc/inventory-service/internal/service"
)

type mockInventoryService struct {
	mock.Mock
}

func (m *mockInventoryService) IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error) {
	args := m.Called(ctx, skuCode, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *mockInventoryService) CreateOrMerge(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *mockInventoryService) CreateMany(ctx context.Context, inventories []domain.Inventory) ([]domain.Inventory, error) {
	args := m.Called(ctx, inventories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *mockInventoryService) GetAll(ctx context.Context) ([]domain.Inventory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *mockInventoryService) GetByID(ctx context.Context, id uint) (domain.Inventory, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *mockInventoryService) Update(ctx context.Context, id uint, inv domain.Inventory) (domain.Inventory, error) {
	args := m.Called(ctx, id, inv)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *mockInventoryService) DeleteByID(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestRouter(svc InventoryService) *gin.Engine {
	h := NewInventoryHandler(svc)

	r := gin.New()
	r.GET("/", HandleHealthcheck)
	g := r.Group("/api/inventory")
	g.GET("/simple", h.HandleIsInStock)
	g.GET("/check-stock", h.HandleIsInStock)
	g.GET("", h.HandleGetAll)
	g.POST("", h.HandleCreate)
	g.POST("/add", h.HandleCreate)
	g.POST("/bulk", h.HandleCreateMany)
	g.GET("/:id", h.HandleGetByID)
	g.PUT("/:id", h.HandleUpdate)
	g.DELETE("/:id", h.HandleDelete)

	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandleHealthcheck(t *testing.T) {
	rec := do(newTestRouter(new(mockInventoryService)), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestInventoryHandler_HandleIsInStock(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setup      func(svc *mockInventoryService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "in stock",
			target: "/api/inventory/simple?skuCode=ABC-1&quantity=8",
			setup: func(svc *mockInventoryService) {
				svc.On("IsInStock", mock.Anything, "ABC-1", 8).Return(true, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "true",
		},
		{
			name:   "alias path",
			target: "/api/inventory/check-stock?skuCode=ABC-1&quantity=9",
			setup: func(svc *mockInventoryService) {
				svc.On("IsInStock", mock.Anything, "ABC-1", 9).Return(false, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "false",
		},
		{
			name:       "missing quantity",
			target:     "/api/inventory/simple?skuCode=ABC-1",
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty quantity",
			target:     "/api/inventory/simple?skuCode=ABC-1&quantity=",
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty quantity on alias path",
			target:     "/api/inventory/check-stock?skuCode=ABC-1&quantity=",
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "quantity out of range",
			target:     "/api/inventory/check-stock?skuCode=ABC-1&quantity=99999999999999999999",
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "negative threshold passes through",
			target: "/api/inventory/simple?skuCode=ABC-1&quantity=-1",
			setup: func(svc *mockInventoryService) {
				svc.On("IsInStock", mock.Anything, "ABC-1", -1).Return(true, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "true",
		},
		{
			name:       "quantity not an integer",
			target:     "/api/inventory/simple?skuCode=ABC-1&quantity=lots",
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing sku",
			target:     "/api/inventory/simple?quantity=1",
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "storage unavailable",
			target: "/api/inventory/simple?skuCode=ABC-1&quantity=1",
			setup: func(svc *mockInventoryService) {
				svc.On("IsInStock", mock.Anything, "ABC-1", 1).Return(false, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInventoryService)
			tt.setup(svc)

			rec := do(newTestRouter(svc), http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestInventoryHandler_HandleCreate(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		setup      func(svc *mockInventoryService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "created",
			target: "/api/inventory",
			body:   `{"skuCode":"ABC-1","quantity":5}`,
			setup: func(svc *mockInventoryService) {
				svc.On("CreateOrMerge", mock.Anything, domain.Inventory{SkuCode: "ABC-1", Quantity: 5}).
					Return(domain.Inventory{ID: 1, SkuCode: "ABC-1", Quantity: 5}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":1,"skuCode":"ABC-1","quantity":5}`,
		},
		{
			name:   "add alias",
			target: "/api/inventory/add",
			body:   `{"skuCode":"ABC-1","quantity":3}`,
			setup: func(svc *mockInventoryService) {
				svc.On("CreateOrMerge", mock.Anything, domain.Inventory{SkuCode: "ABC-1", Quantity: 3}).
					Return(domain.Inventory{ID: 1, SkuCode: "ABC-1", Quantity: 8}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":1,"skuCode":"ABC-1","quantity":8}`,
		},
		{
			name:       "malformed json",
			target:     "/api/inventory",
			body:       `{"skuCode":`,
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative quantity",
			target:     "/api/inventory",
			body:       `{"skuCode":"ABC-1","quantity":-1}`,
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank sku",
			target:     "/api/inventory",
			body:       `{"skuCode":"  ","quantity":1}`,
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "storage unavailable",
			target: "/api/inventory",
			body:   `{"skuCode":"ABC-1","quantity":1}`,
			setup: func(svc *mockInventoryService) {
				svc.On("CreateOrMerge", mock.Anything, mock.Anything).
					Return(domain.Inventory{}, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInventoryService)
			tt.setup(svc)

			rec := do(newTestRouter(svc), http.MethodPost, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assertInventoryJSON(t, tt.wantBody, rec.Body.Bytes())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestInventoryHandler_HandleCreateMany(t *testing.T) {
	t.Run("created in order", func(t *testing.T) {
		svc := new(mockInventoryService)
		svc.On("CreateMany", mock.Anything, []domain.Inventory{
			{SkuCode: "A", Quantity: 1},
			{SkuCode: "B", Quantity: 2},
		}).Return([]domain.Inventory{
			{ID: 1, SkuCode: "A", Quantity: 1},
			{ID: 2, SkuCode: "B", Quantity: 2},
		}, nil)

		rec := do(newTestRouter(svc), http.MethodPost, "/api/inventory/bulk",
			`[{"skuCode":"A","quantity":1},{"skuCode":"B","quantity":2}]`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got []domain.Inventory
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].SkuCode)
		assert.Equal(t, "B", got[1].SkuCode)
		svc.AssertExpectations(t)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := new(mockInventoryService)
		svc.On("CreateMany", mock.Anything, []domain.Inventory{}).Return([]domain.Inventory{}, nil)

		rec := do(newTestRouter(svc), http.MethodPost, "/api/inventory/bulk", `[]`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("one invalid entry rejects the batch", func(t *testing.T) {
		svc := new(mockInventoryService)

		rec := do(newTestRouter(svc), http.MethodPost, "/api/inventory/bulk",
			`[{"skuCode":"A","quantity":1},{"skuCode":"","quantity":2}]`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
	})

	t.Run("not an array", func(t *testing.T) {
		rec := do(newTestRouter(new(mockInventoryService)), http.MethodPost, "/api/inventory/bulk",
			`{"skuCode":"A","quantity":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		svc := new(mockInventoryService)
		svc.On("CreateMany", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		rec := do(newTestRouter(svc), http.MethodPost, "/api/inventory/bulk", `[{"skuCode":"A","quantity":1}]`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestInventoryHandler_HandleGetAll(t *testing.T) {
	svc := new(mockInventoryService)
	svc.On("GetAll", mock.Anything).Return([]domain.Inventory{}, nil)

	rec := do(newTestRouter(svc), http.MethodGet, "/api/inventory", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestInventoryHandler_HandleGetByID(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setup      func(svc *mockInventoryService)
		wantStatus int
	}{
		{
			name:   "found",
			target: "/api/inventory/1",
			setup: func(svc *mockInventoryService) {
				svc.On("GetByID", mock.Anything, uint(1)).Return(domain.Inventory{ID: 1, SkuCode: "A", Quantity: 4}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/api/inventory/42",
			setup: func(svc *mockInventoryService) {
				svc.On("GetByID", mock.Anything, uint(42)).Return(domain.Inventory{}, service.ErrInventoryNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{name: "not a number", target: "/api/inventory/abc", setup: func(svc *mockInventoryService) {}, wantStatus: http.StatusBadRequest},
		{name: "zero", target: "/api/inventory/0", setup: func(svc *mockInventoryService) {}, wantStatus: http.StatusNotFound},
		{name: "negative", target: "/api/inventory/-3", setup: func(svc *mockInventoryService) {}, wantStatus: http.StatusNotFound},
		{name: "beyond int64", target: "/api/inventory/99999999999999999999", setup: func(svc *mockInventoryService) {}, wantStatus: http.StatusBadRequest},
		{
			name:   "storage unavailable",
			target: "/api/inventory/1",
			setup: func(svc *mockInventoryService) {
				svc.On("GetByID", mock.Anything, uint(1)).Return(domain.Inventory{}, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInventoryService)
			tt.setup(svc)

			rec := do(newTestRouter(svc), http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestInventoryHandler_HandleGetByID_NotFoundBody(t *testing.T) {
	svc := new(mockInventoryService)
	svc.On("GetByID", mock.Anything, uint(42)).Return(domain.Inventory{}, service.ErrInventoryNotFound)

	rec := do(newTestRouter(svc), http.MethodGet, "/api/inventory/42", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "inventory with id 42 not found", body["message"])
	assert.Equal(t, "/api/inventory/42", body["path"])
}

func TestInventoryHandler_HandleUpdate(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		setup      func(svc *mockInventoryService)
		wantStatus int
	}{
		{
			name:   "updated",
			target: "/api/inventory/1",
			body:   `{"skuCode":"NEW","quantity":2}`,
			setup: func(svc *mockInventoryService) {
				svc.On("Update", mock.Anything, uint(1), domain.Inventory{SkuCode: "NEW", Quantity: 2}).
					Return(domain.Inventory{ID: 1, SkuCode: "NEW", Quantity: 2}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "missing id",
			target: "/api/inventory/99",
			body:   `{"skuCode":"NEW","quantity":2}`,
			setup: func(svc *mockInventoryService) {
				svc.On("Update", mock.Anything, uint(99), mock.Anything).Return(domain.Inventory{}, service.ErrInventoryNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "sku taken",
			target: "/api/inventory/1",
			body:   `{"skuCode":"B","quantity":2}`,
			setup: func(svc *mockInventoryService) {
				svc.On("Update", mock.Anything, uint(1), mock.Anything).Return(domain.Inventory{}, service.ErrSkuCodeExists)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "bad id",
			target:     "/api/inventory/x",
			body:       `{"skuCode":"NEW","quantity":2}`,
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-positive id",
			target:     "/api/inventory/0",
			body:       `{"skuCode":"NEW","quantity":2}`,
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid body",
			target:     "/api/inventory/1",
			body:       `{"skuCode":"NEW","quantity":-2}`,
			setup:      func(svc *mockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInventoryService)
			tt.setup(svc)

			rec := do(newTestRouter(svc), http.MethodPut, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestInventoryHandler_HandleDelete(t *testing.T) {
	svc := new(mockInventoryService)
	svc.On("DeleteByID", mock.Anything, uint(7)).Return(nil)
	svc.On("DeleteByID", mock.Anything, uint(8)).Return(errors.New("connection refused"))
	r := newTestRouter(svc)

	rec := do(r, http.MethodDelete, "/api/inventory/7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(r, http.MethodDelete, "/api/inventory/8", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(r, http.MethodDelete, "/api/inventory/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-positive ids never exist, so deleting them is a no-op.
	rec = do(r, http.MethodDelete, "/api/inventory/-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	svc.AssertExpectations(t)
}

// assertInventoryJSON compares the identifying fields and ignores timestamps.
func assertInventoryJSON(t *testing.T, want string, got []byte) {
	t.Helper()

	var w, g domain.Inventory
	require.NoError(t, json.Unmarshal([]byte(want), &w))
	require.NoError(t, json.Unmarshal(got, &g))
	assert.Equal(t, w.ID, g.ID)
	assert.Equal(t, w.SkuCode, g.SkuCode)
	assert.Equal(t, w.Quantity, g.Quantity)
}
