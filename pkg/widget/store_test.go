package widget

import (
	"testing"
	"time"
)

func setupStore(t *testing.T) *LocalStore {
	store, err := NewLocalStore(":memory:")
	if err != nil {
		t.Fatalf("打开本地存储失败: %v", err)
	}
	return store
}

func TestStoreGetMissing(t *testing.T) {
	store := setupStore(t)

	_, found, err := store.Get("t1")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if found {
		t.Fatal("空库不应命中")
	}
}

func TestStoreFirstObservationWins(t *testing.T) {
	store := setupStore(t)

	first := time.UnixMilli(1_750_000_000_000)
	if err := store.Put("t1", first); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	// 同一周期的重复观察不覆盖起点
	if err := store.Put("t1", first.Add(10*time.Minute)); err != nil {
		t.Fatalf("重复写入失败: %v", err)
	}

	got, found, err := store.Get("t1")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if !found {
		t.Fatal("应命中已写入的起点")
	}
	if !got.Equal(first) {
		t.Fatalf("起点被覆盖: 期望 %v，实际 %v", first, got)
	}
}

func TestStoreClear(t *testing.T) {
	store := setupStore(t)

	if err := store.Put("t1", time.Now()); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if err := store.Clear("t1"); err != nil {
		t.Fatalf("清除失败: %v", err)
	}

	_, found, err := store.Get("t1")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if found {
		t.Fatal("清除后不应命中")
	}
	// 清除不存在的键不报错
	if err := store.Clear("t2"); err != nil {
		t.Fatalf("清除不存在的键不应报错: %v", err)
	}
}

func TestStoreIsolatedPerTimer(t *testing.T) {
	store := setupStore(t)

	a := time.UnixMilli(1_750_000_000_000)
	b := a.Add(time.Hour)
	if err := store.Put("ta", a); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if err := store.Put("tb", b); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	got, found, _ := store.Get("tb")
	if !found || !got.Equal(b) {
		t.Fatalf("各计时器的起点应互不干扰: %v", got)
	}
}
