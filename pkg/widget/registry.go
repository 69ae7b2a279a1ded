package widget

import (
	"context"
	"errors"
	"sync"
)

// ==================== Registry 页面级注册表 ====================

// ErrAlreadyMounted 容器已挂载过挂件
var ErrAlreadyMounted = errors.New("widget already mounted for container")

// Registry 页面级挂件注册表
// 以容器 ID 为键显式持有实例：同一容器只允许挂载一次，
// 页面退出时统一停掉所有滴答循环。不依赖任何全局"已初始化"标记
type Registry struct {
	mu      sync.Mutex
	widgets map[string]*Widget
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		widgets: make(map[string]*Widget),
	}
}

// Mount 注册并挂载挂件；容器已占用时返回 ErrAlreadyMounted，不会二次挂载
func (r *Registry) Mount(ctx context.Context, w *Widget) error {
	r.mu.Lock()
	if _, exists := r.widgets[w.containerID]; exists {
		r.mu.Unlock()
		return ErrAlreadyMounted
	}
	r.widgets[w.containerID] = w
	r.mu.Unlock()

	w.Mount(ctx)
	return nil
}

// Get 按容器 ID 取挂件
func (r *Registry) Get(containerID string) (*Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.widgets[containerID]
	return w, ok
}

// Remove 停止并移除指定容器的挂件
func (r *Registry) Remove(containerID string) {
	r.mu.Lock()
	w, ok := r.widgets[containerID]
	delete(r.widgets, containerID)
	r.mu.Unlock()

	if ok {
		w.Stop()
	}
}

// StopAll 停止全部挂件 (页面卸载)
func (r *Registry) StopAll() {
	r.mu.Lock()
	widgets := make([]*Widget, 0, len(r.widgets))
	for _, w := range r.widgets {
		widgets = append(widgets, w)
	}
	r.widgets = make(map[string]*Widget)
	r.mu.Unlock()

	for _, w := range widgets {
		w.Stop()
	}
}
