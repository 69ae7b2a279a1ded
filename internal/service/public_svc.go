package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"countdown_dev_v1_202601/internal/api/dto"
	"countdown_dev_v1_202601/internal/repository"
	"countdown_dev_v1_202601/pkg/utils"
)

// ==================== PublicTimerService 公开读服务 ====================

// PublicTimerService 面向店面挂件的公开读路径
// 店铺身份来自未认证的声明参数，与后台的会话身份是两套独立策略，绝不混用
type PublicTimerService struct {
	timerRepo repository.TimerRepository

	// cacheTTL 选择结果的内存缓存时长，0 表示不缓存
	// 正确性允许轻微过期，用缓存压住店面流量
	cacheTTL time.Duration

	now func() time.Time
}

// NewPublicTimerService 创建公开读服务
func NewPublicTimerService(timerRepo repository.TimerRepository, cacheTTL time.Duration) *PublicTimerService {
	return &PublicTimerService{
		timerRepo: timerRepo,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// SetClock 注入时钟 (测试用)
func (s *PublicTimerService) SetClock(now func() time.Time) {
	s.now = now
}

// GetPublicTimer 为指定 (shop, productId) 选出至多一个可展示的计时器
// 返回 nil 表示"隐藏挂件"，不是错误。
// 多个候选同时生效时取存储顺序的第一个：重叠计时器之间不定义优先级
func (s *PublicTimerService) GetPublicTimer(ctx context.Context, shop, productID string) (*dto.PublicTimerView, error) {
	cacheKey := "public_timer:" + shop + ":" + productID

	if s.cacheTTL > 0 {
		if raw, ok := utils.GetCache(cacheKey); ok {
			return decodeCachedView(raw), nil
		}
	}

	candidates, err := s.timerRepo.FindCandidates(ctx, shop, productID)
	if err != nil {
		return nil, fmt.Errorf("查询候选计时器失败: %w", err)
	}

	now := s.now()
	var view *dto.PublicTimerView
	for i := range candidates {
		if candidates[i].IsActiveAt(now) {
			t := &candidates[i]
			view = &dto.PublicTimerView{
				ID:         t.ID,
				Type:       t.Type,
				EndDate:    t.EndDate,
				Duration:   t.Duration,
				Appearance: t.Appearance.Data(),
			}
			break
		}
	}

	if s.cacheTTL > 0 {
		if raw, err := json.Marshal(view); err == nil {
			utils.SetCache(cacheKey, string(raw), s.cacheTTL)
		}
	}
	return view, nil
}

// TrackImpression 曝光计数 +1，返回新值
func (s *PublicTimerService) TrackImpression(ctx context.Context, timerID string) (int64, error) {
	if timerID == "" || uuid.Validate(timerID) != nil {
		return 0, ErrInvalidTimerID
	}

	count, err := s.timerRepo.IncrementImpressions(ctx, timerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTimerNotFound
		}
		return 0, fmt.Errorf("曝光计数失败: %w", err)
	}
	return count, nil
}

// decodeCachedView 反序列化缓存的选择结果 ("null" 表示缓存了"无计时器")
func decodeCachedView(raw string) *dto.PublicTimerView {
	if raw == "null" {
		return nil
	}
	var view dto.PublicTimerView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		log.Printf("公开计时器缓存解码失败: %v", err)
		return nil
	}
	return &view
}
