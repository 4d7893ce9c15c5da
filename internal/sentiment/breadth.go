package sentiment

import (
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
)

const (
	breadthCacheTTL = 3 * time.Minute
	heightCacheTTL  = 10 * time.Minute
	streakLookback  = 10
)

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

func cached(key string, ttl time.Duration, dest interface{}) bool {
	cacheMu.RLock()
	p := cacheProvider
	cacheMu.RUnlock()
	if p == nil {
		return false
	}
	return p.Get(key, ttl, dest) == nil
}

func store(key string, value interface{}) {
	cacheMu.RLock()
	p := cacheProvider
	cacheMu.RUnlock()
	if p == nil {
		return
	}
	if err := p.Set(key, value); err != nil {
		logrus.Warnf("写入缓存失败 %s: %v", key, err)
	}
}

// Breadth 市场宽度
type Breadth struct {
	Total        int     `json:"total"`
	Up           int     `json:"up"`
	Down         int     `json:"down"`
	Flat         int     `json:"flat"`
	LimitUp      int     `json:"limit_up"`
	LimitDown    int     `json:"limit_down"`
	StreakHeight int     `json:"streak_height"` // 连板高度
	UpDownRatio  float64 `json:"up_down_ratio"`
	MoneyEffect  float64 `json:"money_effect"` // 上涨家数占比
}

// GetBreadth 统计全市场涨跌家数和涨跌停数量，结果缓存3分钟
func GetBreadth() (*Breadth, error) {
	key := cache.Key("market_breadth", nil)
	var b Breadth
	if cached(key, breadthCacheTTL, &b) {
		return &b, nil
	}

	spot, err := stockdata.AllSpot()
	if err != nil {
		return nil, err
	}

	b = Breadth{Total: len(spot)}
	for _, q := range spot {
		switch {
		case q.ChangePct > 0:
			b.Up++
		case q.ChangePct < 0:
			b.Down++
		default:
			b.Flat++
		}
		if IsLimitUp(q.ChangePct, q.Code, q.Name) {
			b.LimitUp++
		}
		if IsLimitDown(q.ChangePct, q.Code, q.Name) {
			b.LimitDown++
		}
	}

	if b.Total > 0 {
		b.MoneyEffect = math.Round(float64(b.Up)/float64(b.Total)*1000) / 10
	} else {
		b.MoneyEffect = 50
	}
	down := b.Down
	if down < 1 {
		down = 1
	}
	b.UpDownRatio = math.Round(float64(b.Up)/float64(down)*100) / 100

	b.StreakHeight = limitUpHeight(spot)

	store(key, &b)
	return &b, nil
}

// limitUpHeight 全市场连板高度（降级近似）：
// 只看今日涨停股，用日线连续涨停天数取最大值，结果缓存10分钟
func limitUpHeight(spot []model.Quote) int {
	key := cache.Key("limit_up_height", map[string]interface{}{"lookback_days": streakLookback})
	var height int
	if cached(key, heightCacheTTL, &height) {
		return height
	}

	maxHeight := 0
	for _, q := range spot {
		if !IsLimitUp(q.ChangePct, q.Code, q.Name) {
			continue
		}
		if h := limitUpStreak(q.Code, q.Name); h > maxHeight {
			maxHeight = h
		}
	}

	store(key, maxHeight)
	return maxHeight
}

// limitUpStreak 单只股票从最新交易日向前的连续涨停天数
func limitUpStreak(code, name string) int {
	bars, err := stockdata.GetDailyBars(code, streakLookback+1)
	if err != nil || len(bars) < 2 {
		return 0
	}

	threshold := LimitThreshold(code, name)
	count := 0
	for i := len(bars) - 1; i > 0; i-- {
		if bars[i].ChangePct >= threshold {
			count++
		} else {
			break
		}
	}
	return count
}
