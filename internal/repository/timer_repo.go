package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"countdown_dev_v1_202601/internal/model"
)

// ==================== TimerRepository 计时器仓库 ====================

// TimerRepository 计时器仓库接口
// 除曝光计数外，全部操作按 (shop, id) 定位单条记录，租户隔离在仓库层兜底
type TimerRepository interface {
	Create(ctx context.Context, timer *model.Timer) error
	GetByID(ctx context.Context, shop, id string) (*model.Timer, error)
	List(ctx context.Context, shop string) ([]model.Timer, error)
	Update(ctx context.Context, timer *model.Timer) error
	Delete(ctx context.Context, shop, id string) error

	// FindCandidates 公开读路径：取出 shop 下可能投放到指定商品的候选计时器
	FindCandidates(ctx context.Context, shop, productID string) ([]model.Timer, error)

	// IncrementImpressions 原子曝光 +1，返回新值
	IncrementImpressions(ctx context.Context, id string) (int64, error)

	// 状态刷新任务专用
	ListByType(ctx context.Context, timerType model.TimerType) ([]model.Timer, error)
	UpdateStatus(ctx context.Context, id string, status model.TimerStatus) error
}

// ==================== 实现 ====================

type timerRepository struct {
	db *gorm.DB
}

// NewTimerRepository 创建计时器仓库
func NewTimerRepository(db *gorm.DB) TimerRepository {
	return &timerRepository{db: db}
}

// Create 创建计时器
func (r *timerRepository) Create(ctx context.Context, timer *model.Timer) error {
	return r.db.WithContext(ctx).Create(timer).Error
}

// GetByID 按 (shop, id) 查单条
// 找不到或 shop 不匹配统一返回 gorm.ErrRecordNotFound，不泄露他店数据的存在性
func (r *timerRepository) GetByID(ctx context.Context, shop, id string) (*model.Timer, error) {
	var timer model.Timer
	err := r.db.WithContext(ctx).
		Where("id = ? AND shop = ?", id, shop).
		First(&timer).Error
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

// List 店铺下全部计时器，按创建时间倒序
func (r *timerRepository) List(ctx context.Context, shop string) ([]model.Timer, error) {
	var timers []model.Timer
	err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("created_at DESC").
		Find(&timers).Error
	return timers, err
}

// Update 保存计时器 (整条覆盖，后写覆盖先写)
func (r *timerRepository) Update(ctx context.Context, timer *model.Timer) error {
	return r.db.WithContext(ctx).Save(timer).Error
}

// Delete 按 (shop, id) 删除
func (r *timerRepository) Delete(ctx context.Context, shop, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND shop = ?", id, shop).
		Delete(&model.Timer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindCandidates 选出候选计时器
// SQL 只负责 shop 隔离和目标类型收敛；
// products 的成员判断与 collections 的永不匹配语义由 model.MatchesProduct 承担，
// 这样同一套查询在 Postgres 和 SQLite 上行为一致
func (r *timerRepository) FindCandidates(ctx context.Context, shop, productID string) ([]model.Timer, error) {
	var timers []model.Timer
	err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Where("target_type IN ?", []model.TargetType{
			model.TargetAll, model.TargetProducts, model.TargetCollections,
		}).
		Order("created_at ASC").
		Find(&timers).Error
	if err != nil {
		return nil, err
	}

	matched := make([]model.Timer, 0, len(timers))
	for _, t := range timers {
		if t.MatchesProduct(productID) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// IncrementImpressions 曝光计数原子 +1
// 单条 UPDATE ... SET impressions = impressions + 1，依赖数据库行级原子性，
// 并发调用不会丢更新；RETURNING 带回新值
func (r *timerRepository) IncrementImpressions(ctx context.Context, id string) (int64, error) {
	var timer model.Timer
	res := r.db.WithContext(ctx).
		Model(&timer).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "impressions"}}}).
		Where("id = ?", id).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return timer.Impressions, nil
}

// ListByType 按类型取全部计时器 (跨店铺，仅供后台状态刷新任务使用)
func (r *timerRepository) ListByType(ctx context.Context, timerType model.TimerType) ([]model.Timer, error) {
	var timers []model.Timer
	err := r.db.WithContext(ctx).
		Where("type = ?", timerType).
		Find(&timers).Error
	return timers, err
}

// UpdateStatus 只更新状态列
func (r *timerRepository) UpdateStatus(ctx context.Context, id string, status model.TimerStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Timer{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
