package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealthcheck is mounted at the root, outside the documented API base path.
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
