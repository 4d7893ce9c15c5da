package stockdata

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"astock-assistant/internal/cache"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// HTTPClient HTTP客户端
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}

// Configure 重建HTTP客户端。insecureTLS 只作用于这个客户端，不改动任何全局状态
func Configure(timeout time.Duration, insecureTLS bool) {
	client := &http.Client{Timeout: timeout}
	if insecureTLS {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		logrus.Warn("已关闭行情请求的TLS证书校验")
	}
	HTTPClient = client
}

var (
	cacheProvider cache.Provider
	cacheMu       sync.RWMutex
)

// SetCacheProvider 注入缓存后端，nil 表示不缓存
func SetCacheProvider(p cache.Provider) {
	cacheMu.Lock()
	cacheProvider = p
	cacheMu.Unlock()
}

func getCacheProvider() cache.Provider {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cacheProvider
}

// cacheGet 读缓存，命中返回 true；未注入缓存或未命中返回 false
func cacheGet(key string, ttl time.Duration, dest interface{}) bool {
	p := getCacheProvider()
	if p == nil {
		return false
	}
	if err := p.Get(key, ttl, dest); err != nil {
		return false
	}
	logrus.Debugf("缓存命中: %s", key)
	return true
}

// cacheSet 写缓存，失败只记日志
func cacheSet(key string, value interface{}) {
	p := getCacheProvider()
	if p == nil {
		return
	}
	if err := p.Set(key, value); err != nil {
		logrus.Warnf("写入缓存失败 %s: %v", key, err)
	}
}

// Fetch 带标准请求头的GET，供其他数据采集模块复用
func Fetch(url, referer string) ([]byte, error) {
	return fetch(url, referer)
}

// fetch 带标准请求头的GET
func fetch(url, referer string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP状态码 %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// fetchGBK GET 并把 GBK 响应解码为 UTF-8（新浪行情接口返回 GBK）
func fetchGBK(url, referer string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP状态码 %d", resp.StatusCode)
	}

	reader := transform.NewReader(resp.Body, simplifiedchinese.GBK.NewDecoder())
	return io.ReadAll(reader)
}
