package stockdata

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/model"
)

const spotCacheTTL = 3 * time.Minute

// spotProvider 快照数据源，返回空切片视为失败
type spotProvider struct {
	name string
	fn   func() ([]model.Quote, error)
}

// 按优先级排列，依次尝试，每个只试一次
var spotProviders = []spotProvider{
	{"东方财富", fetchSpotFromEM},
	{"新浪分页", fetchSpotFromSinaPages},
	{"新浪批量", fetchSpotFromStockList},
}

// AllSpot 全市场实时快照。多数据源顺序回退，首个成功的结果缓存3分钟
func AllSpot() ([]model.Quote, error) {
	key := cache.Key("all_spot", nil)
	var quotes []model.Quote
	if cacheGet(key, spotCacheTTL, &quotes) {
		return quotes, nil
	}

	for _, p := range spotProviders {
		qs, err := p.fn()
		if err != nil || len(qs) == 0 {
			logrus.Warnf("数据源 %s 获取快照失败: %v", p.name, err)
			continue
		}
		logrus.Infof("数据源 %s 返回 %d 只股票", p.name, len(qs))
		cacheSet(key, qs)
		return qs, nil
	}
	return nil, fmt.Errorf("所有快照数据源均失败")
}

// TopGainers 涨幅榜前 count 名
func TopGainers(count int) ([]model.Quote, error) {
	return topMovers(count, true)
}

// TopLosers 跌幅榜前 count 名
func TopLosers(count int) ([]model.Quote, error) {
	return topMovers(count, false)
}

func topMovers(count int, gainers bool) ([]model.Quote, error) {
	quotes, err := AllSpot()
	if err != nil {
		return nil, err
	}
	sorted := make([]model.Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		if gainers {
			return sorted[i].ChangePct > sorted[j].ChangePct
		}
		return sorted[i].ChangePct < sorted[j].ChangePct
	})
	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count], nil
}

// 主要指数：上证指数、深证成指、创业板指、科创50
var indexSymbols = []string{"sh000001", "sz399001", "sz399006", "sh000688"}

// IndexQuotes 获取主要指数行情
func IndexQuotes() []model.Quote {
	url := "https://hq.sinajs.cn/list=" + joinSymbols(indexSymbols)
	body, err := fetchGBK(url, "https://finance.sina.com.cn")
	if err != nil {
		logrus.Warnf("获取指数行情失败: %v", err)
		return nil
	}
	return parseSinaQuotes(string(body))
}

func joinSymbols(symbols []string) string {
	out := ""
	for i, s := range symbols {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

// fetchSpotFromEM 东方财富全市场列表接口
func fetchSpotFromEM() ([]model.Quote, error) {
	// 沪深主板+创业板+科创板
	fs := "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"
	url := fmt.Sprintf("https://push2.eastmoney.com/api/qt/clist/get?pn=1&pz=6000&po=1&np=1&fltt=2&invt=2&fid=f3&fs=%s&fields=f2,f3,f4,f5,f6,f8,f9,f12,f14,f15,f16,f17,f18", fs)

	body, err := fetch(url, "https://quote.eastmoney.com")
	if err != nil {
		return nil, err
	}

	diff := gjson.GetBytes(body, "data.diff")
	if !diff.Exists() {
		return nil, fmt.Errorf("东方财富返回空数据")
	}

	var quotes []model.Quote
	diff.ForEach(func(_, item gjson.Result) bool {
		q := model.Quote{
			Code:      item.Get("f12").String(),
			Name:      item.Get("f14").String(),
			Price:     item.Get("f2").Float(),
			ChangePct: item.Get("f3").Float(),
			ChangeAmt: item.Get("f4").Float(),
			Volume:    item.Get("f5").Float() * 100, // 手 -> 股
			Amount:    item.Get("f6").Float(),
			Turnover:  item.Get("f8").Float(),
			PE:        item.Get("f9").Float(),
			High:      item.Get("f15").Float(),
			Low:       item.Get("f16").Float(),
			Open:      item.Get("f17").Float(),
			PrevClose: item.Get("f18").Float(),
		}
		if q.Code != "" && q.Price > 0 {
			quotes = append(quotes, q)
		}
		return true
	})
	return quotes, nil
}

// fetchSpotFromSinaPages 新浪行情中心分页接口
func fetchSpotFromSinaPages() ([]model.Quote, error) {
	var quotes []model.Quote
	for _, market := range []string{"sh", "sz"} {
		for page := 1; page <= 80; page++ {
			batch, err := fetchSinaNodePage(market, page)
			if err != nil {
				logrus.Warnf("新浪%s市第%d页获取失败: %v", market, page, err)
				break
			}
			if len(batch) == 0 {
				break
			}
			quotes = append(quotes, batch...)
		}
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("新浪分页接口无数据")
	}
	return quotes, nil
}

func fetchSinaNodePage(market string, page int) ([]model.Quote, error) {
	url := fmt.Sprintf("https://vip.stock.finance.sina.com.cn/quotes_service/api/json_v2.php/Market_Center.getHQNodeData?page=%d&num=80&sort=symbol&asc=1&node=%s_a&symbol=&_s_r_a=auto", page, market)

	body, err := fetch(url, "https://finance.sina.com.cn")
	if err != nil {
		return nil, err
	}

	var items []struct {
		Symbol        string  `json:"symbol"`
		Name          string  `json:"name"`
		Trade         string  `json:"trade"`
		PriceChange   float64 `json:"pricechange"`
		ChangePercent float64 `json:"changepercent"`
		Open          string  `json:"open"`
		High          string  `json:"high"`
		Low           string  `json:"low"`
		Settlement    string  `json:"settlement"`
		Volume        float64 `json:"volume"`
		Amount        float64 `json:"amount"`
		TurnoverRatio float64 `json:"turnoverratio"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	var quotes []model.Quote
	for _, item := range items {
		if len(item.Symbol) < 6 {
			continue
		}
		quotes = append(quotes, model.Quote{
			Code:      item.Symbol[len(item.Symbol)-6:],
			Name:      item.Name,
			Price:     parseFloat(item.Trade),
			ChangeAmt: item.PriceChange,
			ChangePct: item.ChangePercent,
			Open:      parseFloat(item.Open),
			High:      parseFloat(item.High),
			Low:       parseFloat(item.Low),
			PrevClose: parseFloat(item.Settlement),
			Volume:    item.Volume,
			Amount:    item.Amount,
			Turnover:  item.TurnoverRatio,
		})
	}
	return quotes, nil
}

// fetchSpotFromStockList 兜底：股票列表 + 批量实时行情
func fetchSpotFromStockList() ([]model.Quote, error) {
	stocks, err := GetStockList()
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(stocks))
	for _, s := range stocks {
		codes = append(codes, s.Code)
	}
	quotes := RealtimeQuotes(codes)
	if len(quotes) == 0 {
		return nil, fmt.Errorf("批量行情无数据")
	}
	return quotes, nil
}
