package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/loc/inventory-service/internal/api/handler/v1/request"
	"github.com/loc/inventory-service/internal/api/handler/v1/response"
	"github.com/loc/inventory-service/internal/domain"
	"github.com/loc/inventory-service/internal/service"
)

var (
	errInvalidID = errors.New("id must be an integer")
	// errNoSuchID marks a well-formed id that no record can have.
	errNoSuchID = errors.New("id is not positive")
)

type InventoryService interface {
	IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error)
	CreateOrMerge(ctx context.Context, inv domain.Inventory) (domain.Inventory, error)
	CreateMany(ctx context.Context, inventories []domain.Inventory) ([]domain.Inventory, error)
	GetAll(ctx context.Context) ([]domain.Inventory, error)
	GetByID(ctx context.Context, id uint) (domain.Inventory, error)
	Update(ctx context.Context, id uint, inv domain.Inventory) (domain.Inventory, error)
	DeleteByID(ctx context.Context, id uint) error
}

type InventoryHandler struct {
	svc InventoryService
}

func NewInventoryHandler(svc InventoryService) *InventoryHandler {
	return &InventoryHandler{
		svc: svc,
	}
}

// HandleIsInStock godoc
// @Summary      Check stock for a SKU
// @Description  Returns true when a record for skuCode holds at least quantity units.
// @Tags         inventory
// @Produce      json
// @Param        skuCode   query     string  true  "SKU code"
// @Param        quantity  query     int     true  "Required quantity"
// @Success      200       {boolean} bool
// @Failure      400       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /simple [get]
// @Router       /check-stock [get]
func (h *InventoryHandler) HandleIsInStock(ctx *gin.Context) {
	var req request.StockCheckRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	quantity, err := req.QuantityValue()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	inStock, err := h.svc.IsInStock(ctx.Request.Context(), req.SkuCode, quantity)
	if err != nil {
		err = fmt.Errorf("HandleIsInStock -> h.svc.IsInStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inStock)
}

// HandleCreate godoc
// @Summary      Create or merge an inventory record
// @Description  Adds quantity to the record for skuCode, creating it when absent.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                    false  "UUID, honoured when Redis is enabled"
// @Param        request          body      request.InventoryRequest  true   "request body"
// @Success      201              {object}  domain.Inventory
// @Failure      400              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      500              {object}  response.Err
// @Router       / [post]
// @Router       /add [post]
func (h *InventoryHandler) HandleCreate(ctx *gin.Context) {
	var req request.InventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	saved, err := h.svc.CreateOrMerge(ctx.Request.Context(), domain.Inventory{
		SkuCode:  req.SkuCode,
		Quantity: req.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("HandleCreate -> h.svc.CreateOrMerge -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, saved)
}

// HandleCreateMany godoc
// @Summary      Create or merge inventory records in bulk
// @Description  Merges each entry in order. Every entry is validated before the first write.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                        false  "UUID, honoured when Redis is enabled"
// @Param        request          body      request.BulkInventoryRequest  true   "request body"
// @Success      201              {array}   domain.Inventory
// @Failure      400              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      500              {object}  response.Err
// @Router       /bulk [post]
func (h *InventoryHandler) HandleCreateMany(ctx *gin.Context) {
	var req request.BulkInventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	inventories := make([]domain.Inventory, 0, len(req))
	for _, r := range req {
		inventories = append(inventories, domain.Inventory{
			SkuCode:  r.SkuCode,
			Quantity: r.Quantity,
		})
	}

	saved, err := h.svc.CreateMany(ctx.Request.Context(), inventories)
	if err != nil {
		err = fmt.Errorf("HandleCreateMany -> h.svc.CreateMany -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, saved)
}

// HandleGetAll godoc
// @Summary      List inventory records
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   domain.Inventory
// @Failure      500  {object}  response.Err
// @Router       / [get]
func (h *InventoryHandler) HandleGetAll(ctx *gin.Context) {
	inventories, err := h.svc.GetAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetAll -> h.svc.GetAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inventories)
}

// HandleGetByID godoc
// @Summary      Get an inventory record
// @Tags         inventory
// @Produce      json
// @Param        id   path      int  true  "Inventory ID"
// @Success      200  {object}  domain.Inventory
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /{id} [get]
func (h *InventoryHandler) HandleGetByID(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		renderIDErr(ctx, err)
		return
	}

	inv, err := h.svc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inventory", "id", id))
			return
		}

		err = fmt.Errorf("HandleGetByID -> h.svc.GetByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inv)
}

// HandleUpdate godoc
// @Summary      Replace an inventory record
// @Description  Overwrites skuCode and quantity of an existing record. Never creates one.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Inventory ID"
// @Param        request  body      request.InventoryRequest  true  "request body"
// @Success      200      {object}  domain.Inventory
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /{id} [put]
func (h *InventoryHandler) HandleUpdate(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		renderIDErr(ctx, err)
		return
	}

	var req request.InventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), id, domain.Inventory{
		SkuCode:  req.SkuCode,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInventoryNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inventory", "id", id))
		case errors.Is(err, service.ErrSkuCodeExists):
			response.RenderErr(ctx, response.ErrConflict(fmt.Errorf("sku code %q is used by another record", req.SkuCode)))
		default:
			err = fmt.Errorf("HandleUpdate -> h.svc.Update -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDelete godoc
// @Summary      Delete an inventory record
// @Description  Succeeds whether or not the record exists.
// @Tags         inventory
// @Param        id   path  int  true  "Inventory ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /{id} [delete]
func (h *InventoryHandler) HandleDelete(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		if errors.Is(err, errNoSuchID) {
			ctx.Status(http.StatusNoContent)
			return
		}

		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteByID(ctx.Request.Context(), id); err != nil {
		err = fmt.Errorf("HandleDelete -> h.svc.DeleteByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// parseID accepts any 64-bit integer. Zero and negative ids are well formed
// but never assigned, so they yield errNoSuchID.
func parseID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	if id <= 0 {
		return 0, errNoSuchID
	}

	return uint(id), nil
}

func renderIDErr(ctx *gin.Context, err error) {
	if errors.Is(err, errNoSuchID) {
		response.RenderErr(ctx, response.ErrNotFound("inventory", "id", ctx.Param("id")))
		return
	}

	response.RenderErr(ctx, response.ErrBadRequest(err))
}
