package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/gin-gonic/gin"
)

// authExempt 是无需凭证即可访问的路径：存活检查与 Prometheus 拉取
var authExempt = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BasicAuth 要求除 authExempt 以外的所有请求携带匹配的用户名和密码，否则返回 401
func BasicAuth(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if _, ok := authExempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// RequestLogger 用结构化日志记录每个请求
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}
