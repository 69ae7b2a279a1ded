package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== 会话配置 ====================

// SessionConfig 店铺会话配置
// 后台接口的店铺身份只能来自已验证的会话令牌；
// 公开接口的 shop 查询参数是另一套声明式身份，两者绝不互通
type SessionConfig struct {
	SecretKey  string        // 签名密钥
	SessionTTL time.Duration // 会话有效期
	Issuer     string        // 签发者
}

// DefaultSessionConfig 默认配置
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		SecretKey:  "countdown-session-secret-change-in-production",
		SessionTTL: 24 * time.Hour,
		Issuer:     "countdown-timer",
	}
}

// 全局配置
var sessionConfig = DefaultSessionConfig()

// SetSessionConfig 设置会话配置
func SetSessionConfig(cfg *SessionConfig) {
	sessionConfig = cfg
}

// ==================== Claims 定义 ====================

// ShopClaims 店铺会话声明
type ShopClaims struct {
	Shop string `json:"shop"`
	jwt.RegisteredClaims
}

// ==================== Token 生成与解析 ====================

// GenerateSessionToken 为店铺签发会话令牌
func GenerateSessionToken(shop string) (string, error) {
	now := time.Now()
	claims := &ShopClaims{
		Shop: shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionConfig.Issuer,
			Subject:   "session",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionConfig.SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(sessionConfig.SecretKey))
}

// ParseSessionToken 解析会话令牌
func ParseSessionToken(tokenString string) (*ShopClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ShopClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(sessionConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ShopClaims); ok && token.Valid {
		if claims.Shop == "" {
			return nil, errors.New("token missing shop")
		}
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyShop   = "shop"
	ContextKeyClaims = "session_claims"
)

// SessionAuth 店铺会话认证中间件
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未提供认证信息",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "认证格式错误，应为 Bearer {token}",
			})
			c.Abort()
			return
		}

		claims, err := ParseSessionToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Token 无效或已过期",
			})
			c.Abort()
			return
		}

		// 注入店铺身份到 Context
		c.Set(ContextKeyShop, claims.Shop)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetShop 从 Context 获取已验证的店铺身份
func GetShop(c *gin.Context) string {
	if shop, exists := c.Get(ContextKeyShop); exists {
		return shop.(string)
	}
	return ""
}

// GetShopClaims 从 Context 获取完整 Claims
func GetShopClaims(c *gin.Context) *ShopClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*ShopClaims)
	}
	return nil
}
