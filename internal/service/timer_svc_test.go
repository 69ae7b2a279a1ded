package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"countdown_dev_v1_202601/internal/api/dto"
	"countdown_dev_v1_202601/internal/model"
	"countdown_dev_v1_202601/internal/repository"
)

// ==================== 测试辅助 ====================

const testShop = "s1.myshopify.com"

func setupTimerSvcTest(t *testing.T) *TimerService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Timer{}); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}

	return NewTimerService(repository.NewTimerRepository(db))
}

func fixedClock(t *testing.T, value string) func() time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("解析时间失败: %v", err)
	}
	return func() time.Time { return parsed }
}

func strPtr(s string) *string { return &s }

// ==================== 创建 ====================

func TestCreateEvergreenTimer(t *testing.T) {
	svc := setupTimerSvcTest(t)
	ctx := context.Background()

	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name:       "Sale",
		Type:       "evergreen",
		Duration:   3600,
		TargetType: "all",
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// evergreen 创建即 active
	if timer.Status != model.StatusActive {
		t.Fatalf("evergreen 创建后应为 active，实际 %s", timer.Status)
	}
	if timer.Shop != testShop {
		t.Fatalf("shop 归属错误: %s", timer.Shop)
	}
	// 外观未提供时也要归一化出默认值
	if timer.Appearance.Data().Text != model.DefaultText {
		t.Fatalf("外观应归一化为默认值: %+v", timer.Appearance.Data())
	}
}

func TestCreateFixedTimerStatus(t *testing.T) {
	svc := setupTimerSvcTest(t)
	svc.SetClock(fixedClock(t, "2025-06-15T00:00:00Z"))
	ctx := context.Background()

	start, _ := time.Parse(time.RFC3339, "2025-06-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2025-06-30T00:00:00Z")

	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name:      "June Sale",
		Type:      "fixed",
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	// 创建时计算状态
	if timer.Status != model.StatusActive {
		t.Fatalf("窗口内创建应为 active，实际 %s", timer.Status)
	}

	// 未来档期 -> scheduled
	futureStart, _ := time.Parse(time.RFC3339, "2025-07-01T00:00:00Z")
	futureEnd, _ := time.Parse(time.RFC3339, "2025-07-31T00:00:00Z")
	future, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name:      "July Sale",
		Type:      "fixed",
		StartDate: &futureStart,
		EndDate:   &futureEnd,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if future.Status != model.StatusScheduled {
		t.Fatalf("未来档期应为 scheduled，实际 %s", future.Status)
	}
}

func TestCreateTimerValidation(t *testing.T) {
	svc := setupTimerSvcTest(t)
	ctx := context.Background()
	now := time.Now()
	later := now.Add(time.Hour)

	cases := []struct {
		name string
		req  dto.CreateTimerReq
	}{
		{"空名称", dto.CreateTimerReq{Name: "   ", Type: "evergreen", Duration: 60}},
		{"非法类型", dto.CreateTimerReq{Name: "x", Type: "forever"}},
		{"fixed 缺日期", dto.CreateTimerReq{Name: "x", Type: "fixed"}},
		{"fixed 起止倒置", dto.CreateTimerReq{Name: "x", Type: "fixed", StartDate: &later, EndDate: &now}},
		{"evergreen 零时长", dto.CreateTimerReq{Name: "x", Type: "evergreen", Duration: 0}},
		{"evergreen 负时长", dto.CreateTimerReq{Name: "x", Type: "evergreen", Duration: -5}},
		{"products 缺 targetIds", dto.CreateTimerReq{Name: "x", Type: "evergreen", Duration: 60, TargetType: "products"}},
		{"非法 targetType", dto.CreateTimerReq{Name: "x", Type: "evergreen", Duration: 60, TargetType: "tags"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.CreateTimer(ctx, testShop, c.req)
			if !IsValidationError(err) {
				t.Fatalf("期望校验错误，实际 %v", err)
			}
		})
	}
}

func TestCreateTimerNameTruncation(t *testing.T) {
	svc := setupTimerSvcTest(t)

	timer, err := svc.CreateTimer(context.Background(), testShop, dto.CreateTimerReq{
		Name:     strings.Repeat("n", 250),
		Type:     "evergreen",
		Duration: 60,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if len(timer.Name) != model.MaxTimerNameLen {
		t.Fatalf("名称应截断到 %d，实际 %d", model.MaxTimerNameLen, len(timer.Name))
	}
}

// ==================== 查询 ====================

func TestListTimersRecomputesFixedStatus(t *testing.T) {
	svc := setupTimerSvcTest(t)
	svc.SetClock(fixedClock(t, "2025-06-15T00:00:00Z"))
	ctx := context.Background()

	start, _ := time.Parse(time.RFC3339, "2025-06-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2025-06-30T00:00:00Z")
	if _, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name: "June Sale", Type: "fixed", StartDate: &start, EndDate: &end,
	}); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 时间推到档期之后，列表读取必须重算出 expired
	svc.SetClock(fixedClock(t, "2025-07-15T00:00:00Z"))
	timers, err := svc.ListTimers(ctx, testShop)
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if len(timers) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(timers))
	}
	if timers[0].Status != model.StatusExpired {
		t.Fatalf("fixed 状态应重算为 expired，实际 %s", timers[0].Status)
	}
}

func TestGetTimerNotFound(t *testing.T) {
	svc := setupTimerSvcTest(t)

	_, err := svc.GetTimer(context.Background(), testShop, "missing-id")
	if !errors.Is(err, ErrTimerNotFound) {
		t.Fatalf("期望 ErrTimerNotFound，实际 %v", err)
	}
}

// ==================== 更新 ====================

func TestUpdateTimerPartialMerge(t *testing.T) {
	svc := setupTimerSvcTest(t)
	ctx := context.Background()

	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name: "Sale", Type: "evergreen", Duration: 3600,
		Appearance: &model.Appearance{Text: "Ends soon"},
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	newDuration := 7200
	updated, err := svc.UpdateTimer(ctx, testShop, timer.ID, dto.UpdateTimerReq{
		Duration: &newDuration,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	// 只动了 duration，其余字段保持
	if updated.Duration != 7200 {
		t.Fatalf("duration 未更新: %d", updated.Duration)
	}
	if updated.Name != "Sale" {
		t.Fatalf("未提供的字段不应被改动: %s", updated.Name)
	}
	if updated.Appearance.Data().Text != "Ends soon" {
		t.Fatalf("外观不应被改动: %+v", updated.Appearance.Data())
	}
}

func TestUpdateTimerRecomputesStatus(t *testing.T) {
	svc := setupTimerSvcTest(t)
	svc.SetClock(fixedClock(t, "2025-06-15T00:00:00Z"))
	ctx := context.Background()

	start, _ := time.Parse(time.RFC3339, "2025-06-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2025-06-30T00:00:00Z")
	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name: "June Sale", Type: "fixed", StartDate: &start, EndDate: &end,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 档期整体挪到未来，更新后状态应重算为 scheduled
	newStart, _ := time.Parse(time.RFC3339, "2025-08-01T00:00:00Z")
	newEnd, _ := time.Parse(time.RFC3339, "2025-08-31T00:00:00Z")
	updated, err := svc.UpdateTimer(ctx, testShop, timer.ID, dto.UpdateTimerReq{
		StartDate: &newStart,
		EndDate:   &newEnd,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Status != model.StatusScheduled {
		t.Fatalf("更新后状态应为 scheduled，实际 %s", updated.Status)
	}
}

func TestUpdateTimerValidatesMergedResult(t *testing.T) {
	svc := setupTimerSvcTest(t)
	ctx := context.Background()

	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name: "Sale", Type: "evergreen", Duration: 3600,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 改成 fixed 却不给日期：合并后的整体校验要拦下来
	_, err = svc.UpdateTimer(ctx, testShop, timer.ID, dto.UpdateTimerReq{
		Type: strPtr("fixed"),
	})
	if !IsValidationError(err) {
		t.Fatalf("期望校验错误，实际 %v", err)
	}

	// 空名称同样拒绝
	_, err = svc.UpdateTimer(ctx, testShop, timer.ID, dto.UpdateTimerReq{
		Name: strPtr("   "),
	})
	if !IsValidationError(err) {
		t.Fatalf("期望校验错误，实际 %v", err)
	}
}

func TestUpdateTimerWrongShop(t *testing.T) {
	svc := setupTimerSvcTest(t)
	ctx := context.Background()

	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name: "Sale", Type: "evergreen", Duration: 3600,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	_, err = svc.UpdateTimer(ctx, "other.myshopify.com", timer.ID, dto.UpdateTimerReq{})
	if !errors.Is(err, ErrTimerNotFound) {
		t.Fatalf("跨店更新应返回 not found，实际 %v", err)
	}
}

// ==================== 删除 ====================

func TestDeleteTimer(t *testing.T) {
	svc := setupTimerSvcTest(t)
	ctx := context.Background()

	timer, err := svc.CreateTimer(ctx, testShop, dto.CreateTimerReq{
		Name: "Sale", Type: "evergreen", Duration: 3600,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := svc.DeleteTimer(ctx, testShop, timer.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	// 二次删除 404
	if err := svc.DeleteTimer(ctx, testShop, timer.ID); !errors.Is(err, ErrTimerNotFound) {
		t.Fatalf("重复删除应返回 not found，实际 %v", err)
	}
}
