package stockdata

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/model"
)

var (
	stockListCache []model.Stock
	stockListMutex sync.RWMutex
	lastFetchTime  time.Time
	listCacheTTL   = time.Hour
)

// GetStockList 获取A股股票列表，内存+磁盘双层缓存
func GetStockList() ([]model.Stock, error) {
	stockListMutex.RLock()
	if len(stockListCache) > 0 && time.Since(lastFetchTime) < listCacheTTL {
		defer stockListMutex.RUnlock()
		return stockListCache, nil
	}
	stockListMutex.RUnlock()

	key := cache.Key("stock_list", nil)
	var stocks []model.Stock
	if !cacheGet(key, listCacheTTL, &stocks) {
		// 同时从东方财富和新浪获取，合并去重
		stocks = fetchAndMergeStocks()
		if len(stocks) == 0 {
			return nil, fmt.Errorf("获取股票列表失败")
		}
		cacheSet(key, stocks)
	}

	stockListMutex.Lock()
	stockListCache = stocks
	lastFetchTime = time.Now()
	stockListMutex.Unlock()

	return stocks, nil
}

// fetchAndMergeStocks 从多个数据源获取股票并合并去重
func fetchAndMergeStocks() []model.Stock {
	stockMap := make(map[string]model.Stock)

	emStocks, err := fetchStockListFromEM()
	if err == nil {
		for _, s := range emStocks {
			stockMap[s.Code] = s
		}
		logrus.Infof("东方财富贡献 %d 只股票", len(emStocks))
	} else {
		logrus.Warnf("东方财富获取失败: %v", err)
	}

	sinaStocks, err := fetchStockListFromSina()
	if err == nil {
		added := 0
		for _, s := range sinaStocks {
			if _, exists := stockMap[s.Code]; !exists {
				stockMap[s.Code] = s
				added++
			}
		}
		logrus.Infof("新浪贡献 %d 只新股票（总获取 %d 只）", added, len(sinaStocks))
	} else {
		logrus.Warnf("新浪获取失败: %v", err)
	}

	var result []model.Stock
	for _, s := range stockMap {
		result = append(result, s)
	}

	logrus.Infof("合并去重后总计: %d 只股票", len(result))
	return result
}

// fetchStockListFromEM 从东方财富获取股票列表
func fetchStockListFromEM() ([]model.Stock, error) {
	var allStocks []model.Stock

	// 沪市主板+科创板
	shStocks, err := fetchEMStocks("m:1+t:2,m:1+t:23")
	if err == nil {
		for _, s := range shStocks {
			if strings.HasPrefix(s.Code, "6") {
				s.Market = "SH"
				allStocks = append(allStocks, s)
			}
		}
	} else {
		logrus.Warnf("获取沪市股票失败: %v", err)
	}

	// 深市主板+创业板
	szStocks, err := fetchEMStocks("m:0+t:6,m:0+t:80")
	if err == nil {
		for _, s := range szStocks {
			if strings.HasPrefix(s.Code, "0") || strings.HasPrefix(s.Code, "3") {
				s.Market = "SZ"
				allStocks = append(allStocks, s)
			}
		}
	} else {
		logrus.Warnf("获取深市股票失败: %v", err)
	}

	return allStocks, nil
}

// fetchEMStocks 从东方财富API获取股票
func fetchEMStocks(fs string) ([]model.Stock, error) {
	url := fmt.Sprintf("https://push2.eastmoney.com/api/qt/clist/get?pn=1&pz=5000&fs=%s&fields=f12,f14", fs)

	body, err := fetch(url, "https://quote.eastmoney.com")
	if err != nil {
		return nil, err
	}

	diff := gjson.GetBytes(body, "data.diff")
	if !diff.Exists() || diff.Type == gjson.Null {
		return nil, fmt.Errorf("东方财富返回空数据")
	}

	var stocks []model.Stock
	// diff 可能是数组，也可能是 {"0": {...}} 形式的对象
	diff.ForEach(func(_, item gjson.Result) bool {
		code := item.Get("f12").String()
		if code != "" {
			stocks = append(stocks, model.Stock{
				Code: code,
				Name: item.Get("f14").String(),
			})
		}
		return true
	})
	return stocks, nil
}

// fetchStockListFromSina 从新浪获取股票列表（备用）
func fetchStockListFromSina() ([]model.Stock, error) {
	var allStocks []model.Stock

	for _, market := range []string{"sh", "sz"} {
		for page := 1; page <= 50; page++ {
			stocks, err := fetchSinaStocks(market, page)
			if err != nil {
				logrus.Warnf("新浪%s市第%d页获取失败: %v", market, page, err)
				break
			}
			if len(stocks) == 0 {
				break
			}
			allStocks = append(allStocks, stocks...)
		}
	}

	if len(allStocks) == 0 {
		return nil, fmt.Errorf("获取股票列表失败")
	}
	return allStocks, nil
}

// fetchSinaStocks 从新浪获取单页股票
func fetchSinaStocks(market string, page int) ([]model.Stock, error) {
	url := fmt.Sprintf("https://vip.stock.finance.sina.com.cn/quotes_service/api/json_v2.php/Market_Center.getHQNodeData?page=%d&num=80&sort=symbol&asc=1&node=%s_a&symbol=&_s_r_a=auto", page, market)

	body, err := fetch(url, "https://finance.sina.com.cn")
	if err != nil {
		return nil, err
	}

	var items []struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	var stocks []model.Stock
	for _, item := range items {
		code := strings.TrimPrefix(item.Symbol, "sh")
		code = strings.TrimPrefix(code, "sz")

		if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "0") || strings.HasPrefix(code, "3") {
			mkt := "SZ"
			if strings.HasPrefix(code, "6") {
				mkt = "SH"
			}
			stocks = append(stocks, model.Stock{
				Code:   code,
				Name:   item.Name,
				Market: mkt,
			})
		}
	}
	return stocks, nil
}

// SearchStocks 按代码或名称搜索股票
func SearchStocks(keyword string) ([]model.Stock, error) {
	allStocks, err := GetStockList()
	if err != nil {
		return nil, err
	}

	if keyword == "" {
		return allStocks, nil
	}

	keyword = strings.ToUpper(keyword)
	var result []model.Stock
	for _, s := range allStocks {
		if strings.Contains(s.Code, keyword) || strings.Contains(strings.ToUpper(s.Name), keyword) {
			result = append(result, s)
			if len(result) >= 100 {
				break
			}
		}
	}
	return result, nil
}

// GetStockInfo 获取股票信息
func GetStockInfo(code string) (*model.Stock, error) {
	allStocks, err := GetStockList()
	if err != nil {
		return nil, err
	}

	for _, s := range allStocks {
		if s.Code == code {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("股票不存在: %s", code)
}

// GetStockName 获取股票名称
func GetStockName(code string) (string, error) {
	info, err := GetStockInfo(code)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}
