package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`            // mirrors HTTPStatusCode
	ErrorText string    `json:"error"`             // http status text
	Message   string    `json:"message,omitempty"` // application-level error message
	Path      string    `json:"path"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.ErrorText
	}

	return fmt.Sprintf("%s: %v", e.ErrorText, e.Err)
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr writes e as the response body and aborts the remaining handlers.
// Server side failures are logged with the request id, client errors are not.
func RenderErr(ctx *gin.Context, e *Err) {
	e.Path = ctx.Request.URL.Path
	e.Timestamp = time.Now().UTC()
	e.Status = e.HTTPStatusCode

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", e.Path),
			zap.Int("status", e.HTTPStatusCode),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      http.StatusText(http.StatusBadRequest),
		Message:        err.Error(),
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	err := fmt.Errorf("%s with %s %v not found", resource, field, value)

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		ErrorText:      http.StatusText(http.StatusNotFound),
		Message:        err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		ErrorText:      http.StatusText(http.StatusConflict),
		Message:        err.Error(),
	}
}

// ErrInternalServerError keeps err for the log but never shows it to the client.
func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      http.StatusText(http.StatusInternalServerError),
		Message:        "something went wrong, please try again later",
	}
}
