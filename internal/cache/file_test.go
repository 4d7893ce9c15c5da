package cache

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("创建缓存失败: %v", err)
	}
	return c
}

func TestKeyStable(t *testing.T) {
	k1 := Key("get_kline", map[string]interface{}{"code": "600519", "count": 120})
	k2 := Key("get_kline", map[string]interface{}{"count": 120, "code": "600519"})
	if k1 != k2 {
		t.Errorf("参数顺序不应影响缓存键: %s != %s", k1, k2)
	}
	k3 := Key("get_kline", map[string]interface{}{"code": "000001", "count": 120})
	if k1 == k3 {
		t.Error("不同参数应产生不同缓存键")
	}
	if len(k1) != 32 {
		t.Errorf("缓存键应为32位md5十六进制串: %s", k1)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)

	type quote struct {
		Code  string  `json:"code"`
		Price float64 `json:"price"`
	}
	in := quote{Code: "600519", Price: 1688.0}
	if err := c.Set("k1", in); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}

	var out quote
	if err := c.Get("k1", 5*time.Minute, &out); err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if out != in {
		t.Errorf("读出 %+v, 期望 %+v", out, in)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c := newTestCache(t)

	base := time.Date(2025, 6, 2, 9, 30, 0, 0, time.Local)
	c.now = func() time.Time { return base }
	if err := c.Set("k1", "value"); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}

	var got string
	c.now = func() time.Time { return base.Add(4 * time.Minute) }
	if err := c.Get("k1", 5*time.Minute, &got); err != nil {
		t.Fatalf("未过期条目应命中: %v", err)
	}

	c.now = func() time.Time { return base.Add(6 * time.Minute) }
	if err := c.Get("k1", 5*time.Minute, &got); err != ErrMiss {
		t.Errorf("过期条目应返回 ErrMiss, 实际 %v", err)
	}

	// 过期后同一条目可按更长 TTL 再次命中，说明文件未被删除
	if err := c.Get("k1", time.Hour, &got); err != nil {
		t.Errorf("过期条目不应被删除: %v", err)
	}
}

func TestFileCacheMissOnAbsent(t *testing.T) {
	c := newTestCache(t)
	var got string
	if err := c.Get("nope", time.Minute, &got); err != ErrMiss {
		t.Errorf("不存在的键应返回 ErrMiss, 实际 %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	c := newTestCache(t)
	if err := c.Set("k1", 1); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear 失败: %v", err)
	}
	var got int
	if err := c.Get("k1", time.Hour, &got); err != ErrMiss {
		t.Errorf("清空后应返回 ErrMiss, 实际 %v", err)
	}
}
