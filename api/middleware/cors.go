package middleware

import "github.com/gin-gonic/gin"

// CORSHeaders is attached to every /api response, including errors and
// preflight answers.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// CORS returns middleware that sets CORSHeaders before the handler runs, so
// they are present whatever status the handler writes.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range CORSHeaders {
			h.Set(k, v)
		}
		c.Next()
	}
}
