package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS 公开接口跨域中间件
// 店面挂件从任意店铺域名发起请求，公开路由组必须全开 CORS
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
