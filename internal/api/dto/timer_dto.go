package dto

import (
	"time"

	"countdown_dev_v1_202601/internal/model"
)

// ================== Timer DTO ==================

// CreateTimerReq 创建计时器请求
type CreateTimerReq struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	StartDate  *time.Time        `json:"startDate"`
	EndDate    *time.Time        `json:"endDate"`
	Duration   int               `json:"duration"`
	TargetType string            `json:"targetType"`
	TargetIds  []string          `json:"targetIds"`
	Appearance *model.Appearance `json:"appearance"`
}

// UpdateTimerReq 更新计时器请求 (部分更新，nil 字段表示不修改)
type UpdateTimerReq struct {
	Name       *string           `json:"name"`
	Type       *string           `json:"type"`
	StartDate  *time.Time        `json:"startDate"`
	EndDate    *time.Time        `json:"endDate"`
	Duration   *int              `json:"duration"`
	TargetType *string           `json:"targetType"`
	TargetIds  []string          `json:"targetIds"`
	Appearance *model.Appearance `json:"appearance"`
}

// TimerResp 单条计时器响应
type TimerResp struct {
	Timer *model.Timer `json:"timer"`
}

// TimerListResp 计时器列表响应
type TimerListResp struct {
	Timers []model.Timer `json:"timers"`
}

// PublicTimerView 公开接口的最小视图
// 只暴露挂件渲染需要的字段；startDate、shop、impressions、内部状态一律不出现
type PublicTimerView struct {
	ID         string           `json:"id"`
	Type       model.TimerType  `json:"type"`
	EndDate    *time.Time       `json:"endDate,omitempty"`
	Duration   int              `json:"duration,omitempty"`
	Appearance model.Appearance `json:"appearance"`
}

// PublicTimerResp 公开读接口响应 (timer 为 null 表示无可展示计时器)
type PublicTimerResp struct {
	Timer *PublicTimerView `json:"timer"`
}

// ImpressionResp 曝光上报响应
type ImpressionResp struct {
	Success     bool  `json:"success"`
	Impressions int64 `json:"impressions"`
}
