package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"countdown_dev_v1_202601/internal/api/dto"
	"countdown_dev_v1_202601/internal/middleware"
	"countdown_dev_v1_202601/internal/service"
)

// ==================== TimerController 计时器管理接口 ====================

type TimerController struct {
	timerSvc *service.TimerService
}

// NewTimerController 创建计时器控制器
func NewTimerController(timerSvc *service.TimerService) *TimerController {
	return &TimerController{timerSvc: timerSvc}
}

// ListTimers 获取计时器列表
// @Summary 获取当前店铺的计时器列表
// @Description fixed 类型的状态读取时重算，按创建时间倒序
// @Tags Timer (计时器管理)
// @Produce json
// @Success 200 {object} dto.TimerListResp "计时器列表"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers [get]
func (h *TimerController) ListTimers(c *gin.Context) {
	shop := middleware.GetShop(c)

	timers, err := h.timerSvc.ListTimers(c.Request.Context(), shop)
	if err != nil {
		log.Printf("查询计时器列表失败 shop=%s: %v", shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timers"})
		return
	}

	c.JSON(http.StatusOK, dto.TimerListResp{Timers: timers})
}

// CreateTimer 创建计时器
// @Summary 创建计时器
// @Description 名称、类型必填；fixed 需要起止时间，evergreen 需要正的时长
// @Tags Timer (计时器管理)
// @Accept json
// @Produce json
// @Param request body dto.CreateTimerReq true "创建参数"
// @Success 201 {object} dto.TimerResp "创建成功，带计算后状态"
// @Failure 400 {object} map[string]string "校验失败"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers [post]
func (h *TimerController) CreateTimer(c *gin.Context) {
	var req dto.CreateTimerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data: " + err.Error()})
		return
	}

	shop := middleware.GetShop(c)

	timer, err := h.timerSvc.CreateTimer(c.Request.Context(), shop, req)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("创建计时器失败 shop=%s: %v", shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timer"})
		return
	}

	c.JSON(http.StatusCreated, dto.TimerResp{Timer: timer})
}

// GetTimer 获取单条计时器
// @Summary 获取计时器详情
// @Tags Timer (计时器管理)
// @Produce json
// @Param id path string true "计时器ID"
// @Success 200 {object} dto.TimerResp "计时器详情"
// @Failure 404 {object} map[string]string "不存在或不属于当前店铺"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers/{id} [get]
func (h *TimerController) GetTimer(c *gin.Context) {
	shop := middleware.GetShop(c)
	id := c.Param("id")

	timer, err := h.timerSvc.GetTimer(c.Request.Context(), shop, id)
	if err != nil {
		if errors.Is(err, service.ErrTimerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timer not found"})
			return
		}
		log.Printf("查询计时器失败 shop=%s id=%s: %v", shop, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timer"})
		return
	}

	c.JSON(http.StatusOK, dto.TimerResp{Timer: timer})
}

// UpdateTimer 更新计时器
// @Summary 部分更新计时器
// @Description 请求字段合并到现有记录后整体重新校验；fixed 类型更新后重算状态
// @Tags Timer (计时器管理)
// @Accept json
// @Produce json
// @Param id path string true "计时器ID"
// @Param request body dto.UpdateTimerReq true "更新参数"
// @Success 200 {object} dto.TimerResp "更新后的计时器"
// @Failure 400 {object} map[string]string "校验失败"
// @Failure 404 {object} map[string]string "不存在或不属于当前店铺"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers/{id} [put]
func (h *TimerController) UpdateTimer(c *gin.Context) {
	var req dto.UpdateTimerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data: " + err.Error()})
		return
	}

	shop := middleware.GetShop(c)
	id := c.Param("id")

	timer, err := h.timerSvc.UpdateTimer(c.Request.Context(), shop, id, req)
	if err != nil {
		switch {
		case service.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrTimerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Timer not found"})
		default:
			log.Printf("更新计时器失败 shop=%s id=%s: %v", shop, id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update timer"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.TimerResp{Timer: timer})
}

// DeleteTimer 删除计时器
// @Summary 删除计时器
// @Tags Timer (计时器管理)
// @Produce json
// @Param id path string true "计时器ID"
// @Success 200 {object} map[string]string "删除成功"
// @Failure 404 {object} map[string]string "不存在或不属于当前店铺"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/timers/{id} [delete]
func (h *TimerController) DeleteTimer(c *gin.Context) {
	shop := middleware.GetShop(c)
	id := c.Param("id")

	if err := h.timerSvc.DeleteTimer(c.Request.Context(), shop, id); err != nil {
		if errors.Is(err, service.ErrTimerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timer not found"})
			return
		}
		log.Printf("删除计时器失败 shop=%s id=%s: %v", shop, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete timer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Timer deleted successfully"})
}
