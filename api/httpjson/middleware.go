package httpjson

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nknorg/powledger/api/ratelimiter"
	"github.com/nknorg/powledger/util/log"
)

func accessLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.WebLog.Infof("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
		return ""
	})
}

// rateLimiter rejects requests beyond limit per second and client ip.
func rateLimiter(prefix string, limit float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ratelimiter.Allow(prefix+":"+c.ClientIP(), limit, burst) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
