package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"countdown_dev_v1_202601/internal/model"
	"countdown_dev_v1_202601/internal/repository"
)

// ==================== StatusTask 状态刷新任务 ====================

// StatusTask 定时把 fixed 计时器落库的参考状态刷成解析结果
// 读路径始终重算状态，这里只是让 (shop, status) 索引和后台列表保持新鲜；
// 刷新后的落库值仍然只是参考值
type StatusTask struct {
	TimerRepo repository.TimerRepository
	Cron      *cron.Cron

	// now 可注入，测试时固定时钟
	now func() time.Time
}

// NewStatusTask 创建状态刷新任务
func NewStatusTask(timerRepo repository.TimerRepository) *StatusTask {
	return &StatusTask{
		TimerRepo: timerRepo,
		Cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
		now:       time.Now,
	}
}

// Start 启动定时任务
func (t *StatusTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次状态刷新...")
		t.RefreshJob(ctx)
	}()

	// 每 5 分钟刷新一次
	_, err := t.Cron.AddFunc("0 */5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		t.RefreshJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动状态刷新定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("状态刷新任务已启动 (每5分钟一次)")
}

// Stop 停止定时任务
func (t *StatusTask) Stop() {
	t.Cron.Stop()
}

// RefreshJob 刷新一轮：只修正落库值与解析结果不一致的 fixed 计时器
func (t *StatusTask) RefreshJob(ctx context.Context) {
	timers, err := t.TimerRepo.ListByType(ctx, model.TimerTypeFixed)
	if err != nil {
		log.Printf("[Cron] 查询 fixed 计时器失败: %v", err)
		return
	}

	now := t.now()
	refreshed := 0
	for i := range timers {
		resolved := timers[i].ResolveStatus(now)
		if resolved == timers[i].Status {
			continue
		}
		if err := t.TimerRepo.UpdateStatus(ctx, timers[i].ID, resolved); err != nil {
			log.Printf("[Cron] 刷新计时器状态失败 id=%s: %v", timers[i].ID, err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		log.Printf("[Cron] 状态刷新完成，共修正 %d 条", refreshed)
	}
}
