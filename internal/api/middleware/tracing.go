package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName     = "github.com/loc/inventory-service/internal/api"
	unmatchedRoute = "unmatched"
)

// Tracing starts a server span per request, continuing any trace context the
// caller sent in the W3C headers.
func Tracing() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)

	return func(ctx *gin.Context) {
		reqCtx := otel.GetTextMapPropagator().Extract(ctx.Request.Context(), propagation.HeaderCarrier(ctx.Request.Header))

		// Unmatched requests share one span name.
		route := ctx.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		reqCtx, span := tracer.Start(reqCtx, fmt.Sprintf("%s %s", ctx.Request.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", ctx.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()

		status := ctx.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
