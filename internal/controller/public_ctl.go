package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"countdown_dev_v1_202601/internal/api/dto"
	"countdown_dev_v1_202601/internal/service"
)

// ==================== PublicTimerController 公开接口 ====================

// PublicTimerController 店面挂件的公开接口 (无认证，CORS 全开)
// 店铺身份取自声明式的 shop 查询参数，与后台会话身份完全隔离
type PublicTimerController struct {
	publicSvc *service.PublicTimerService
}

// NewPublicTimerController 创建公开接口控制器
func NewPublicTimerController(publicSvc *service.PublicTimerService) *PublicTimerController {
	return &PublicTimerController{publicSvc: publicSvc}
}

// GetPublicTimer 获取商品页可展示的计时器
// @Summary 获取指定商品当前生效的计时器
// @Description 无匹配时返回 {"timer": null}，挂件应隐藏自身；响应可被缓存 60 秒
// @Tags Public (公开接口)
// @Produce json
// @Param productId path string true "商品ID"
// @Param shop query string true "店铺标识"
// @Success 200 {object} dto.PublicTimerResp "最小公开视图或 null"
// @Failure 400 {object} map[string]string "缺少 shop 或 productId"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers/public/{productId} [get]
func (h *PublicTimerController) GetPublicTimer(c *gin.Context) {
	productID := c.Param("productId")
	shop := c.Query("shop")

	if shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shop parameter is required"})
		return
	}
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	view, err := h.publicSvc.GetPublicTimer(c.Request.Context(), shop, productID)
	if err != nil {
		log.Printf("查询公开计时器失败 shop=%s product=%s: %v", shop, productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timer"})
		return
	}

	// 正确性容忍轻微过期，用短缓存压住店面流量
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, dto.PublicTimerResp{Timer: view})
}

// TrackImpression 曝光上报
// @Summary 计时器曝光计数 +1
// @Tags Public (公开接口)
// @Produce json
// @Param timerId query string true "计时器ID"
// @Success 200 {object} dto.ImpressionResp "新的曝光计数"
// @Failure 400 {object} map[string]string "ID 缺失或格式非法"
// @Failure 404 {object} map[string]string "ID 不存在"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers/public/impression [get]
func (h *PublicTimerController) TrackImpression(c *gin.Context) {
	timerID := c.Query("timerId")
	if timerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Timer ID is required"})
		return
	}

	count, err := h.publicSvc.TrackImpression(c.Request.Context(), timerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimerID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timer ID"})
		case errors.Is(err, service.ErrTimerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Timer not found"})
		default:
			log.Printf("曝光上报失败 timer=%s: %v", timerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track impression"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ImpressionResp{Success: true, Impressions: count})
}
