package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Preflight returns a handler for OPTIONS /api/likes. It always answers 204
// with no body; the CORS middleware supplies the headers.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	}
}
