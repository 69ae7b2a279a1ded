package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== ImpressionLimiter 曝光限流器 ====================

// ImpressionLimiter 曝光上报限流器
// 防止单个访客对同一计时器刷曝光计数；计数本身仍是原子 +1，限流只挡重复请求
type ImpressionLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalImpressionLimiter = &ImpressionLimiter{}

// GetImpressionLimiter 获取全局限流器
func GetImpressionLimiter() *ImpressionLimiter {
	return globalImpressionLimiter
}

// ==================== 限流检查 ====================

// Allow 检查是否允许执行，允许时顺带刷新最近执行时间
// key: 限流键，如 "1.2.3.4:timer-id"
// interval: 冷却间隔
func (l *ImpressionLimiter) Allow(key string, interval time.Duration) bool {
	actual, _ := l.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.Sub(entry.lastTime) < interval {
		return false
	}

	entry.lastTime = now
	return true
}

// ==================== Gin 中间件 ====================

// ImpressionCooldown 曝光上报冷却中间件
// interval <= 0 时关闭限流 (测试与低流量部署)
func ImpressionCooldown(interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if interval <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.Query("timerId")
		if !globalImpressionLimiter.Allow(key, interval) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many impression requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
