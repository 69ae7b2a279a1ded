package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 枚举定义 ====================

// TimerType 计时器类型
type TimerType string

const (
	// TimerTypeFixed 固定档期：所有访客共享同一个绝对起止时间
	TimerTypeFixed TimerType = "fixed"
	// TimerTypeEvergreen 常青档期：只配置时长，起点由访客端首次看到时各自确定
	TimerTypeEvergreen TimerType = "evergreen"
)

// TimerStatus 计时器状态
type TimerStatus string

const (
	StatusActive    TimerStatus = "active"
	StatusScheduled TimerStatus = "scheduled"
	StatusExpired   TimerStatus = "expired"
)

// TargetType 投放目标类型
type TargetType string

const (
	TargetAll         TargetType = "all"
	TargetProducts    TargetType = "products"
	TargetCollections TargetType = "collections"
)

// ==================== Timer 模型 ====================

// Timer 促销倒计时配置
// 数据按 shop 完全隔离：任何读写都必须带上 shop 条件
type Timer struct {
	BaseModel

	Shop string    `gorm:"size:255;not null;index:idx_shop_status" json:"shop"`
	Name string    `gorm:"size:200;not null" json:"name"`
	Type TimerType `gorm:"size:20;not null" json:"type"`

	// --- fixed 类型专用 ---
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// --- evergreen 类型专用 (秒) ---
	Duration int `gorm:"default:0" json:"duration"`

	// --- 投放目标 ---
	TargetType TargetType                  `gorm:"size:20;not null;default:all" json:"targetType"`
	TargetIds  datatypes.JSONSlice[string] `json:"targetIds"`

	// --- 外观 (JSON 子文档，入库前必须经过 NormalizeAppearance) ---
	Appearance datatypes.JSONType[Appearance] `json:"appearance"`

	// --- 状态与统计 ---
	// Status 对 evergreen 是权威字段；对 fixed 仅是落库的参考值，读取时必须重算
	Status TimerStatus `gorm:"size:20;not null;default:scheduled;index:idx_shop_status" json:"status"`
	// Impressions 曝光计数，只增不减，只由公开曝光接口原子 +1
	Impressions int64 `gorm:"default:0" json:"impressions"`
}

func (Timer) TableName() string {
	return "timers"
}

// ==================== 状态判定 ====================

// ResolveStatus 依据落库字段和给定时刻计算状态
// now 由调用方注入，保证可测试；本函数无任何副作用
func (t *Timer) ResolveStatus(now time.Time) TimerStatus {
	if t.Type != TimerTypeFixed {
		// 非 fixed 类型以落库状态为准，缺失时放行为 active
		if t.Status != "" {
			return t.Status
		}
		return StatusActive
	}

	// 配置不完整的 fixed 计时器永远是 scheduled，绝不当作 active 展示
	if t.StartDate == nil || t.EndDate == nil {
		return StatusScheduled
	}

	if now.Before(*t.StartDate) {
		return StatusScheduled
	}
	// 边界时刻 (等于 startDate 或 endDate) 均算 active
	if !now.After(*t.EndDate) {
		return StatusActive
	}
	return StatusExpired
}

// IsActiveAt 公开读路径的可见性判定
// 与 ResolveStatus 有意分开：对外只暴露"展示/不展示"的布尔值，
// 不泄露 scheduled / expired 的区别
func (t *Timer) IsActiveAt(now time.Time) bool {
	if t.Type == TimerTypeEvergreen {
		// 信任落库状态，不重算剩余时间
		return t.Status == StatusActive
	}

	if t.StartDate == nil || t.EndDate == nil {
		return false
	}
	return !now.Before(*t.StartDate) && !now.After(*t.EndDate)
}

// ==================== 目标匹配 ====================

// MatchesProduct 判断计时器是否投放到指定商品
// collections 目标：成员关系需要外部集合数据才能判定，当前版本一律不匹配。
// 这是已知的功能边界，不是待修的 bug
func (t *Timer) MatchesProduct(productID string) bool {
	switch t.TargetType {
	case TargetAll:
		return true
	case TargetProducts:
		for _, id := range t.TargetIds {
			if id == productID {
				return true
			}
		}
		return false
	default:
		return false
	}
}
