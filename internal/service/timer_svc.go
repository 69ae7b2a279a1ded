package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"countdown_dev_v1_202601/internal/api/dto"
	"countdown_dev_v1_202601/internal/model"
	"countdown_dev_v1_202601/internal/repository"
)

// ==================== TimerService 计时器管理服务 ====================

// TimerService 后台 CRUD 服务，所有操作以认证店铺为边界
type TimerService struct {
	timerRepo repository.TimerRepository

	// now 可注入，测试时固定时钟
	now func() time.Time
}

// NewTimerService 创建计时器服务
func NewTimerService(timerRepo repository.TimerRepository) *TimerService {
	return &TimerService{
		timerRepo: timerRepo,
		now:       time.Now,
	}
}

// SetClock 注入时钟 (测试用)
func (s *TimerService) SetClock(now func() time.Time) {
	s.now = now
}

// ==================== 查询 ====================

// ListTimers 店铺下全部计时器，fixed 类型的状态读取时重算
func (s *TimerService) ListTimers(ctx context.Context, shop string) ([]model.Timer, error) {
	timers, err := s.timerRepo.List(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("查询计时器列表失败: %w", err)
	}

	now := s.now()
	for i := range timers {
		timers[i].Status = timers[i].ResolveStatus(now)
	}
	return timers, nil
}

// GetTimer 查单条，状态同样重算
func (s *TimerService) GetTimer(ctx context.Context, shop, id string) (*model.Timer, error) {
	timer, err := s.timerRepo.GetByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimerNotFound
		}
		return nil, fmt.Errorf("查询计时器失败: %w", err)
	}

	timer.Status = timer.ResolveStatus(s.now())
	return timer, nil
}

// ==================== 创建 ====================

// CreateTimer 创建计时器
// 校验全部在写库前完成；fixed 类型创建时即计算状态，evergreen 默认 active
func (s *TimerService) CreateTimer(ctx context.Context, shop string, req dto.CreateTimerReq) (*model.Timer, error) {
	name := model.ValidateTimerName(req.Name)
	if name == "" {
		return nil, validationErr("Timer name is required and cannot be empty")
	}

	timerType := model.TimerType(req.Type)
	if timerType != model.TimerTypeFixed && timerType != model.TimerTypeEvergreen {
		return nil, validationErr("Invalid timer type. Must be one of: fixed, evergreen")
	}

	targetType := model.TargetType(req.TargetType)
	if targetType == "" {
		targetType = model.TargetAll
	}

	timer := &model.Timer{
		Shop:       shop,
		Name:       name,
		Type:       timerType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Duration:   req.Duration,
		TargetType: targetType,
		TargetIds:  sanitizeTargetIds(req.TargetIds),
		Appearance: datatypes.NewJSONType(model.NormalizeAppearance(req.Appearance)),
	}

	if err := validateTimer(timer); err != nil {
		return nil, err
	}

	// 创建时确定初始状态
	if timer.Type == model.TimerTypeFixed {
		timer.Status = timer.ResolveStatus(s.now())
	} else {
		timer.Status = model.StatusActive
	}

	if err := s.timerRepo.Create(ctx, timer); err != nil {
		return nil, fmt.Errorf("创建计时器失败: %w", err)
	}
	return timer, nil
}

// ==================== 更新 ====================

// UpdateTimer 部分更新：请求字段合并到现有记录后整体重新校验
// fixed 类型更新后重算状态。无乐观锁，后写覆盖先写 (已知限制)
func (s *TimerService) UpdateTimer(ctx context.Context, shop, id string, req dto.UpdateTimerReq) (*model.Timer, error) {
	timer, err := s.timerRepo.GetByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimerNotFound
		}
		return nil, fmt.Errorf("查询计时器失败: %w", err)
	}

	if req.Name != nil {
		name := model.ValidateTimerName(*req.Name)
		if name == "" {
			return nil, validationErr("Timer name is required and cannot be empty")
		}
		timer.Name = name
	}
	if req.Type != nil {
		timerType := model.TimerType(*req.Type)
		if timerType != model.TimerTypeFixed && timerType != model.TimerTypeEvergreen {
			return nil, validationErr("Invalid timer type. Must be one of: fixed, evergreen")
		}
		timer.Type = timerType
	}
	if req.StartDate != nil {
		timer.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		timer.EndDate = req.EndDate
	}
	if req.Duration != nil {
		timer.Duration = *req.Duration
	}
	if req.TargetType != nil {
		timer.TargetType = model.TargetType(*req.TargetType)
	}
	if req.TargetIds != nil {
		timer.TargetIds = sanitizeTargetIds(req.TargetIds)
	}
	if req.Appearance != nil {
		timer.Appearance = datatypes.NewJSONType(model.NormalizeAppearance(req.Appearance))
	}

	if err := validateTimer(timer); err != nil {
		return nil, err
	}

	if timer.Type == model.TimerTypeFixed {
		timer.Status = timer.ResolveStatus(s.now())
	}

	if err := s.timerRepo.Update(ctx, timer); err != nil {
		return nil, fmt.Errorf("更新计时器失败: %w", err)
	}
	return timer, nil
}

// ==================== 删除 ====================

// DeleteTimer 删除计时器
func (s *TimerService) DeleteTimer(ctx context.Context, shop, id string) error {
	err := s.timerRepo.Delete(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimerNotFound
		}
		return fmt.Errorf("删除计时器失败: %w", err)
	}
	return nil
}

// ==================== 校验辅助 ====================

// validateTimer 类型相关的完整性校验 (创建与合并更新共用)
func validateTimer(t *model.Timer) error {
	switch t.TargetType {
	case model.TargetAll:
	case model.TargetProducts, model.TargetCollections:
		if len(t.TargetIds) == 0 {
			return validationErr("targetIds is required when targetType is not 'all'")
		}
	default:
		return validationErr("Invalid target type. Must be one of: all, products, collections")
	}

	switch t.Type {
	case model.TimerTypeFixed:
		if t.StartDate == nil || t.EndDate == nil {
			return validationErr("startDate and endDate are required for fixed timers")
		}
		if !t.StartDate.Before(*t.EndDate) {
			return validationErr("endDate must be after startDate")
		}
	case model.TimerTypeEvergreen:
		if t.Duration <= 0 {
			return validationErr("Duration must be a positive number (in seconds)")
		}
	}
	return nil
}

// sanitizeTargetIds 过滤空白目标 ID
func sanitizeTargetIds(ids []string) datatypes.JSONSlice[string] {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return datatypes.NewJSONSlice(cleaned)
}
