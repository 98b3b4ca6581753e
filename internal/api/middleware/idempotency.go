package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loc/inventory-service/internal/api/handler/v1/response"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a request whose Idempotency-Key was already used within
// the store's TTL. Requests without the header pass through. A key is given
// back when the request ends with a server error or a panic so that the
// client can retry.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader(IdempotencyKeyHeader)
		if header == "" {
			ctx.Next()
			return
		}

		parsed, err := uuid.Parse(header)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("%s must be a UUID", IdempotencyKeyHeader)))
			return
		}
		key := parsed.String()

		ok, err := store.Reserve(ctx.Request.Context(), key)
		if err != nil {
			err = fmt.Errorf("Idempotency -> store.Reserve -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		if !ok {
			response.RenderErr(ctx, response.ErrConflict(fmt.Errorf("request with %s %s was already processed", IdempotencyKeyHeader, key)))
			return
		}

		defer func() {
			// The panic continues to the recovery middleware, which answers 500.
			if r := recover(); r != nil {
				release(ctx, store, key)
				panic(r)
			}
		}()

		ctx.Next()

		if ctx.Writer.Status() >= http.StatusInternalServerError {
			release(ctx, store, key)
		}
	}
}

func release(ctx *gin.Context, store IdempotencyStore, key string) {
	if err := store.Release(context.WithoutCancel(ctx.Request.Context()), key); err != nil {
		zap.L().Warn("failed to release idempotency key",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
