package holiday

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	cacheMu   sync.RWMutex
	cache     = make(map[string]bool)
	cacheTime = make(map[string]time.Time)
	cacheTTL  = 24 * time.Hour

	apiTimeout = 3 * time.Second

	// 自定义节假日，接口不可用时的兜底配置
	customHolidays = make(map[string]bool)
)

// LoadCustomHolidays 从JSON文件加载自定义节假日。
// 文件格式：{"holidays": ["2025-01-01", "2025-01-28", ...]}
func LoadCustomHolidays(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取节假日配置失败: %w", err)
	}

	var cfg struct {
		Holidays []string `json:"holidays"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("解析节假日配置失败: %w", err)
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	for _, d := range cfg.Holidays {
		customHolidays[d] = true
	}
	logrus.Infof("已加载自定义节假日 %d 个", len(cfg.Holidays))
	return nil
}

// IsTradingDay 判断是否为A股交易日。
// 周末恒为非交易日（调休补班日也不开市），法定节假日不交易；
// 接口不可用时按周一到周五处理
func IsTradingDay(date time.Time) bool {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	dateStr := date.Format("2006-01-02")

	cacheMu.RLock()
	if result, ok := cache[dateStr]; ok {
		if t, ok := cacheTime[dateStr]; ok && time.Since(t) < cacheTTL {
			cacheMu.RUnlock()
			return result
		}
	}
	isCustom := customHolidays[dateStr]
	cacheMu.RUnlock()

	if isCustom {
		updateCache(dateStr, false)
		return false
	}

	if result, ok := checkFromAPI(dateStr); ok {
		updateCache(dateStr, result)
		return result
	}

	updateCache(dateStr, true)
	return true
}

// IsTradingDayNow 当前是否为交易日
func IsTradingDayNow() bool {
	return IsTradingDay(time.Now())
}

// IsTradingTimeNow 当前是否为交易时段（09:30-11:30, 13:00-15:00）
func IsTradingTimeNow() bool {
	now := time.Now()
	if !IsTradingDay(now) {
		return false
	}
	hhmm := now.Hour()*100 + now.Minute()
	return (hhmm >= 930 && hhmm < 1130) || (hhmm >= 1300 && hhmm < 1500)
}

func updateCache(dateStr string, result bool) {
	cacheMu.Lock()
	cache[dateStr] = result
	cacheTime[dateStr] = time.Now()
	cacheMu.Unlock()
}

// checkFromAPI 查询免费节假日接口，失败时第二个返回值为 false
func checkFromAPI(dateStr string) (bool, bool) {
	url := fmt.Sprintf("http://timor.tech/api/holiday/info/%s", dateStr)

	client := &http.Client{Timeout: apiTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, false
	}

	var result struct {
		Code int `json:"code"`
		Type struct {
			Type int `json:"type"` // 0工作日 1周末 2节假日 3调休
		} `json:"type"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Code != 0 {
		return false, false
	}

	return result.Type.Type == 0 || result.Type.Type == 3, true
}
