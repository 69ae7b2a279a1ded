package widget

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ==================== 访客本地起点存储 ====================

// StartStore 常青计时器的访客本地起点存储
// 按计时器 ID 记录该访客首次看到计时器的时刻；落在本地磁盘，
// 重启/刷新后仍在，但不跨设备同步——这正是"常青"的含义
type StartStore interface {
	Get(timerID string) (time.Time, bool, error)
	Put(timerID string, start time.Time) error
	Clear(timerID string) error
}

// startRecord 起点记录 (SQLite 单表)
type startRecord struct {
	TimerID   string `gorm:"primaryKey;size:36"`
	StartAtMs int64  `gorm:"not null"` // 毫秒时间戳
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (startRecord) TableName() string {
	return "countdown_starts"
}

// LocalStore 基于 SQLite 文件的本地存储
type LocalStore struct {
	db *gorm.DB
}

// DefaultStorePath 默认存储路径 (用户配置目录下)
func DefaultStorePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "countdown-widget")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// NewLocalStore 打开本地存储，必要时自动建表
func NewLocalStore(path string) (*LocalStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&startRecord{}); err != nil {
		return nil, err
	}
	return &LocalStore{db: db}, nil
}

// Get 读取起点，不存在时第二个返回值为 false
func (s *LocalStore) Get(timerID string) (time.Time, bool, error) {
	var rec startRecord
	err := s.db.Where("timer_id = ?", timerID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(rec.StartAtMs), true, nil
}

// Put 写入起点
// 已存在时不覆盖：起点以首次观察为准，后写入的是同一周期的重复观察
func (s *LocalStore) Put(timerID string, start time.Time) error {
	rec := startRecord{
		TimerID:   timerID,
		StartAtMs: start.UnixMilli(),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

// Clear 清除起点 (常青计时器到期后调用，下次访问重新开始一个周期)
func (s *LocalStore) Clear(timerID string) error {
	return s.db.Where("timer_id = ?", timerID).Delete(&startRecord{}).Error
}
