// Package size caps request body sizes before multipart parsing reads
// them into memory.
package size

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Limit rejects request bodies larger than maxBytes. Handlers see the
// overflow as *http.MaxBytesError while reading.
func Limit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
