package middleware

import (
	"strconv"
	"strings"
	"time"

	"anoa.com/complainthub/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency labelled by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.InFlightInc()
		defer metrics.InFlightDec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(strings.ToUpper(c.Request.Method), path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
