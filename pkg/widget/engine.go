package widget

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ==================== 状态机 ====================

// State 挂件状态
// Uninitialized -> Loading -> {Hidden, Displaying} -> Ticking -> Expired
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateHidden
	StateDisplaying
	StateTicking
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateHidden:
		return "hidden"
	case StateDisplaying:
		return "displaying"
	case StateTicking:
		return "ticking"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// 剩余不足一小时进入醒目子状态
const urgentThreshold = time.Hour

// ==================== Widget 挂件实例 ====================

// Widget 单个挂件实例：一次拉取 + 一条每秒滴答的协程
// 同页多个实例各自独立，互不协调；失败语义统一是"隐藏自己"
type Widget struct {
	containerID string
	shop        string
	productID   string

	client   *Client
	store    StartStore
	renderer Renderer

	tick time.Duration
	now  func() time.Time

	mu    sync.Mutex
	state State
	timer *TimerData

	// 每个实例生命周期内曝光只上报一次，重复 Mount 不会重复计数
	impressionOnce sync.Once
	stopOnce       sync.Once
	stopCh         chan struct{}
}

// Option 挂件选项
type Option func(*Widget)

// WithTick 修改滴答间隔 (测试用，默认 1 秒)
func WithTick(d time.Duration) Option {
	return func(w *Widget) { w.tick = d }
}

// WithClock 注入时钟 (测试用)
func WithClock(now func() time.Time) Option {
	return func(w *Widget) { w.now = now }
}

// New 创建挂件实例
// containerID: 页面容器的稳定标识，注册表用它防止重复挂载
func New(containerID, shop, productID string, client *Client, store StartStore, renderer Renderer, opts ...Option) *Widget {
	w := &Widget{
		containerID: containerID,
		shop:        shop,
		productID:   productID,
		client:      client,
		store:       store,
		renderer:    renderer,
		tick:        time.Second,
		now:         time.Now,
		state:       StateUninitialized,
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State 当前状态
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// ==================== 挂载 ====================

// Mount 挂载挂件：单次拉取配置，成功则首帧渲染并启动滴答循环
// 任何失败 (网络、非 2xx、无计时器) 都静默隐藏，不重试、不报错
func (w *Widget) Mount(ctx context.Context) {
	// 容器必须声明商品和店铺，否则直接隐藏
	if w.shop == "" || w.productID == "" {
		w.hide()
		return
	}

	w.setState(StateLoading)

	timer, err := w.client.FetchTimer(ctx, w.shop, normalizeProductID(w.productID))
	if err != nil || timer == nil {
		w.hide()
		return
	}

	w.mu.Lock()
	w.timer = timer
	w.mu.Unlock()

	remaining, ok := w.remaining()
	if !ok {
		w.hide()
		return
	}
	if remaining <= 0 {
		w.expire()
		return
	}

	w.renderFrame(remaining)
	w.setState(StateDisplaying)

	// 曝光副作用：每个实例生命周期内恰好一次，失败忽略
	w.impressionOnce.Do(func() {
		impCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = w.client.TrackImpression(impCtx, timer.ID)
	})

	go w.loop()
}

// Stop 停止滴答循环，挂件销毁时必须调用，避免协程泄漏
func (w *Widget) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// ==================== 滴答循环 ====================

func (w *Widget) loop() {
	w.setState(StateTicking)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if !w.step() {
				return
			}
		}
	}
}

// step 执行一次滴答：重算剩余时间并渲染
// 返回 false 表示已到期或出错，循环应退出
func (w *Widget) step() bool {
	remaining, ok := w.remaining()
	if !ok {
		w.hide()
		return false
	}
	if remaining <= 0 {
		w.expire()
		return false
	}
	w.renderFrame(remaining)
	return true
}

// ==================== 剩余时间 ====================

// remaining 计算剩余时间，0 为下限
// evergreen: 首次观察时把当前时刻持久化为本访客的起点，之后都从该起点推算
// fixed: 直接用服务端下发的结束时刻
func (w *Widget) remaining() (time.Duration, bool) {
	w.mu.Lock()
	timer := w.timer
	w.mu.Unlock()
	if timer == nil {
		return 0, false
	}

	var end time.Time
	switch timer.Type {
	case "evergreen":
		start, found, err := w.store.Get(timer.ID)
		if err != nil {
			return 0, false
		}
		if !found {
			start = w.now()
			if err := w.store.Put(timer.ID, start); err != nil {
				return 0, false
			}
		}
		end = start.Add(time.Duration(timer.Duration) * time.Second)
	default:
		if timer.EndDate == nil {
			return 0, false
		}
		end = *timer.EndDate
	}

	remaining := end.Sub(w.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// ==================== 渲染与终态 ====================

func (w *Widget) renderFrame(remaining time.Duration) {
	w.mu.Lock()
	timer := w.timer
	w.mu.Unlock()

	appearance := timer.Appearance
	if appearance.Text == "" {
		appearance.Text = "Hurry! Sale ends in"
	}
	if appearance.BackgroundColor == "" {
		appearance.BackgroundColor = "#000000"
	}
	if appearance.TextColor == "" {
		appearance.TextColor = "#FFFFFF"
	}
	if appearance.Position == "" {
		appearance.Position = "top"
	}

	w.renderer.Render(Frame{
		Text:            appearance.Text,
		BackgroundColor: appearance.BackgroundColor,
		TextColor:       appearance.TextColor,
		Position:        appearance.Position,
		Parts:           SplitRemaining(remaining.Milliseconds()),
		Urgent:          remaining < urgentThreshold,
	})
}

// hide 隐藏挂件 (拉取失败、无计时器、本地存储异常)
func (w *Widget) hide() {
	w.renderer.Hide()
	w.setState(StateHidden)
}

// expire 到期终态
// evergreen 到期时清掉本地起点，下次访问重新开始一个周期；
// fixed 到期是终态，除非服务端配置变化
func (w *Widget) expire() {
	w.mu.Lock()
	timer := w.timer
	w.mu.Unlock()

	if timer != nil && timer.Type == "evergreen" {
		_ = w.store.Clear(timer.ID)
	}
	w.renderer.Hide()
	w.setState(StateExpired)
}

// normalizeProductID 兼容 GID 形式的商品标识 (如 gid://shopify/Product/123)
func normalizeProductID(productID string) string {
	if idx := strings.LastIndex(productID, "/"); idx >= 0 {
		return productID[idx+1:]
	}
	return productID
}
