package model

import (
	"testing"
	"time"
)

// ==================== 测试辅助 ====================

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("解析时间失败: %v", err)
	}
	return parsed
}

func timePtr(v time.Time) *time.Time {
	return &v
}

// ==================== ResolveStatus ====================

func TestResolveStatusFixed(t *testing.T) {
	start := mustTime(t, "2025-06-01T00:00:00Z")
	end := mustTime(t, "2025-06-30T00:00:00Z")

	timer := &Timer{
		Type:      TimerTypeFixed,
		StartDate: timePtr(start),
		EndDate:   timePtr(end),
	}

	cases := []struct {
		name string
		now  time.Time
		want TimerStatus
	}{
		{"开始之前", start.Add(-time.Hour), StatusScheduled},
		{"等于开始时刻 (边界算 active)", start, StatusActive},
		{"窗口中间", mustTime(t, "2025-06-15T00:00:00Z"), StatusActive},
		{"等于结束时刻 (边界算 active)", end, StatusActive},
		{"结束之后", end.Add(time.Second), StatusExpired},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := timer.ResolveStatus(c.now); got != c.want {
				t.Fatalf("状态解析错误: now=%v 期望 %s 实际 %s", c.now, c.want, got)
			}
		})
	}
}

func TestResolveStatusFixedMissingDates(t *testing.T) {
	now := mustTime(t, "2025-06-15T00:00:00Z")

	cases := []struct {
		name  string
		timer Timer
	}{
		{"缺开始时间", Timer{Type: TimerTypeFixed, EndDate: timePtr(now.Add(time.Hour))}},
		{"缺结束时间", Timer{Type: TimerTypeFixed, StartDate: timePtr(now.Add(-time.Hour))}},
		{"两个都缺", Timer{Type: TimerTypeFixed}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// 配置不完整的 fixed 计时器永远是 scheduled
			if got := c.timer.ResolveStatus(now); got != StatusScheduled {
				t.Fatalf("期望 scheduled，实际 %s", got)
			}
		})
	}
}

func TestResolveStatusEvergreen(t *testing.T) {
	now := time.Now()

	for _, status := range []TimerStatus{StatusActive, StatusScheduled, StatusExpired} {
		timer := &Timer{Type: TimerTypeEvergreen, Status: status}
		// evergreen 原样返回落库状态
		if got := timer.ResolveStatus(now); got != status {
			t.Fatalf("期望 %s，实际 %s", status, got)
		}
	}

	// 状态缺失时放行为 active
	timer := &Timer{Type: TimerTypeEvergreen}
	if got := timer.ResolveStatus(now); got != StatusActive {
		t.Fatalf("缺失状态期望 active，实际 %s", got)
	}
}

// ==================== IsActiveAt ====================

func TestIsActiveAtFixed(t *testing.T) {
	timer := &Timer{
		Type:      TimerTypeFixed,
		StartDate: timePtr(mustTime(t, "2025-06-01T00:00:00Z")),
		EndDate:   timePtr(mustTime(t, "2025-06-30T00:00:00Z")),
	}

	if !timer.IsActiveAt(mustTime(t, "2025-06-15T00:00:00Z")) {
		t.Fatal("窗口内应可见")
	}
	if timer.IsActiveAt(mustTime(t, "2025-07-01T00:00:00Z")) {
		t.Fatal("窗口外不应可见")
	}

	// 缺日期的 fixed 计时器对外永不可见
	incomplete := &Timer{Type: TimerTypeFixed}
	if incomplete.IsActiveAt(time.Now()) {
		t.Fatal("缺日期的 fixed 计时器不应可见")
	}
}

func TestIsActiveAtEvergreen(t *testing.T) {
	now := time.Now()

	// 只信任落库状态，不做时间计算
	active := &Timer{Type: TimerTypeEvergreen, Status: StatusActive}
	if !active.IsActiveAt(now) {
		t.Fatal("active 状态的 evergreen 应可见")
	}

	expired := &Timer{Type: TimerTypeEvergreen, Status: StatusExpired}
	if expired.IsActiveAt(now) {
		t.Fatal("expired 状态的 evergreen 不应可见")
	}
}

// ==================== MatchesProduct ====================

func TestMatchesProduct(t *testing.T) {
	cases := []struct {
		name      string
		timer     Timer
		productID string
		want      bool
	}{
		{"all 匹配任意商品", Timer{TargetType: TargetAll}, "p1", true},
		{"products 命中", Timer{TargetType: TargetProducts, TargetIds: []string{"p1", "p2"}}, "p1", true},
		{"products 未命中", Timer{TargetType: TargetProducts, TargetIds: []string{"p2"}}, "p1", false},
		{"products 空列表", Timer{TargetType: TargetProducts}, "p1", false},
		// collections 的成员判断需要外部集合数据，当前一律不匹配
		{"collections 永不匹配", Timer{TargetType: TargetCollections, TargetIds: []string{"c1"}}, "c1", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.timer.MatchesProduct(c.productID); got != c.want {
				t.Fatalf("期望 %v，实际 %v", c.want, got)
			}
		})
	}
}
