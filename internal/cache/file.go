package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// FileCache 文件缓存：每个键一个 JSON 文件，格式 {"timestamp": 秒级时间戳, "data": ...}
// 过期条目保留在磁盘上，读取时判断是否超时；写入为整文件覆盖，不加锁
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache 创建文件缓存，目录不存在时自动创建
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get 读取缓存，未命中（不存在/损坏/过期）返回 ErrMiss
func (c *FileCache) Get(key string, ttl time.Duration, dest interface{}) error {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return ErrMiss
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logrus.Debugf("缓存文件损坏 %s: %v", key, err)
		return ErrMiss
	}

	age := c.now().Unix() - env.Timestamp
	if age > int64(ttl.Seconds()) {
		return ErrMiss
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		return ErrMiss
	}
	return nil
}

// Set 写入缓存
func (c *FileCache) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	env := envelope{Timestamp: c.now().Unix(), Data: data}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0o644)
}

// Clear 删除目录下所有缓存文件
func (c *FileCache) Clear() error {
	entries, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, p := range entries {
		if err := os.Remove(p); err != nil {
			logrus.Warnf("删除缓存文件失败 %s: %v", p, err)
		}
	}
	return nil
}
