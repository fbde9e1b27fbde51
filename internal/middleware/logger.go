package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger middleware logs one line per request: method, path, client,
// status, response size and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}

		line := c.Request.Method + " " + path
		if errs := c.Errors.String(); errs != "" {
			line += " | " + errs
		}

		log.Printf("[%s] %d %dB %v %s",
			c.ClientIP(),
			c.Writer.Status(),
			size,
			time.Since(start),
			line,
		)
	}
}
