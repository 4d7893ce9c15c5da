package cache

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMiss 缓存未命中（不存在、损坏或已过期统一按未命中处理）
var ErrMiss = errors.New("缓存未命中")

// Provider 缓存后端接口，过期时间由读取方按调用场景指定
type Provider interface {
	Get(key string, ttl time.Duration, dest interface{}) error
	Set(key string, value interface{}) error
	Clear() error
}

// Key 根据调用名和参数生成缓存键：md5("name:{参数JSON，键排序}")
func Key(name string, kwargs map[string]interface{}) string {
	data, err := json.Marshal(kwargs)
	if err != nil {
		data = []byte("{}")
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s", name, data)))
	return hex.EncodeToString(sum[:])
}

// envelope 缓存条目的磁盘/Redis存储格式
type envelope struct {
	Timestamp int64               `json:"timestamp"`
	Data      jsoniter.RawMessage `json:"data"`
}
