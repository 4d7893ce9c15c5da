package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config 全局运行配置，全部来自环境变量（支持 .env 文件）
type Config struct {
	DataDir      string        // 持仓、缓存等数据文件目录
	CacheBackend string        // file 或 redis
	CacheDir     string        // 文件缓存目录
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	HTTPTimeout  time.Duration
	InsecureTLS  bool // 仅对行情 HTTP 客户端生效，不修改全局状态
	ServerPort   string
}

// Load 读取配置，.env 不存在时直接使用进程环境变量
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("加载 .env 失败: %v", err)
	}

	dataDir := getEnv("ASTOCK_DATA_DIR", defaultDataDir())
	cfg := &Config{
		DataDir:      dataDir,
		CacheBackend: getEnv("ASTOCK_CACHE_BACKEND", "file"),
		CacheDir:     getEnv("ASTOCK_CACHE_DIR", filepath.Join(dataDir, "cache")),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		HTTPTimeout:  time.Duration(getEnvInt("ASTOCK_HTTP_TIMEOUT", 15)) * time.Second,
		InsecureTLS:  getEnvBool("ASTOCK_INSECURE_TLS", false),
		ServerPort:   getEnv("ASTOCK_SERVER_PORT", "8080"),
	}
	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".astock"
	}
	return filepath.Join(home, ".astock")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logrus.Warnf("环境变量 %s=%s 不是整数，使用默认值 %d", key, v, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
