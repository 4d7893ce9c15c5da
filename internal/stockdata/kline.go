package stockdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/model"
	"astock-assistant/internal/symbol"
)

const klineCacheTTL = 30 * time.Minute

// GetKline 获取K线数据，新浪优先，失败后回退东方财富
// period 支持 daily/weekly/monthly，数据按日期升序
func GetKline(code, period string, count int) (*model.KlineResponse, error) {
	code = symbol.Normalize(code)
	if count <= 0 {
		count = 250
	}

	key := cache.Key("kline", map[string]interface{}{
		"code": code, "period": period, "count": count,
	})
	var cached model.KlineResponse
	if cacheGet(key, klineCacheTTL, &cached) {
		return &cached, nil
	}

	bars, err := getKlineFromSina(code, period, count)
	if err != nil || len(bars) == 0 {
		logrus.Warnf("新浪K线获取失败 %s: %v，尝试东方财富", code, err)
		bars, err = getKlineFromEM(code, period, count)
	}
	if err != nil || len(bars) == 0 {
		return nil, fmt.Errorf("获取K线数据失败: %s", code)
	}

	fillChangePct(bars)

	name, _ := GetStockName(code)
	resp := &model.KlineResponse{
		Code:   code,
		Name:   name,
		Period: period,
		Data:   bars,
	}
	cacheSet(key, resp)
	return resp, nil
}

// GetDailyBars 获取日线收盘序列，指标计算的标准入口
func GetDailyBars(code string, count int) ([]model.Bar, error) {
	resp, err := GetKline(code, "daily", count)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// fillChangePct 根据前收计算每根K线的涨跌幅
func fillChangePct(bars []model.Bar) {
	for i := range bars {
		if i == 0 {
			continue
		}
		prev := bars[i-1].Close
		if prev > 0 {
			bars[i].ChangePct = (bars[i].Close - prev) / prev * 100
		}
	}
}

// getKlineFromSina 从新浪获取K线
func getKlineFromSina(code, period string, count int) ([]model.Bar, error) {
	sym := symbol.SinaSymbol(code)

	scaleMap := map[string]string{
		"daily":   "240",
		"weekly":  "1680",
		"monthly": "7200",
	}
	scale := scaleMap[period]
	if scale == "" {
		scale = "240"
	}

	url := fmt.Sprintf("https://quotes.sina.cn/cn/api/jsonp_v2.php/var__%s_%s/CN_MarketDataService.getKLineData?symbol=%s&scale=%s&ma=no&datalen=%d",
		sym, scale, sym, scale, count)

	body, err := fetch(url, "https://finance.sina.com.cn")
	if err != nil {
		return nil, err
	}

	// 解析JSONP响应
	text := string(body)
	start := strings.Index(text, "(")
	end := strings.LastIndex(text, ")")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("响应格式错误")
	}

	var rawData []struct {
		Day    string `json:"day"`
		Open   string `json:"open"`
		Close  string `json:"close"`
		High   string `json:"high"`
		Low    string `json:"low"`
		Volume string `json:"volume"`
	}
	if err := json.Unmarshal([]byte(text[start+1:end]), &rawData); err != nil {
		return nil, err
	}

	var result []model.Bar
	for _, item := range rawData {
		open, _ := strconv.ParseFloat(item.Open, 64)
		closePrice, _ := strconv.ParseFloat(item.Close, 64)
		high, _ := strconv.ParseFloat(item.High, 64)
		low, _ := strconv.ParseFloat(item.Low, 64)
		volume, _ := strconv.ParseFloat(item.Volume, 64)

		result = append(result, model.Bar{
			Date:   item.Day,
			Open:   open,
			Close:  closePrice,
			High:   high,
			Low:    low,
			Volume: volume,
		})
	}
	return result, nil
}

// getKlineFromEM 从东方财富获取K线（备用数据源）
func getKlineFromEM(code, period string, count int) ([]model.Bar, error) {
	secid := fmt.Sprintf("%d.%s", symbol.TdxMarket(code), code)

	kltMap := map[string]string{
		"daily":   "101",
		"weekly":  "102",
		"monthly": "103",
	}
	klt := kltMap[period]
	if klt == "" {
		klt = "101"
	}

	url := fmt.Sprintf("https://push2his.eastmoney.com/api/qt/stock/kline/get?secid=%s&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56,f57&klt=%s&fqt=1&end=20500101&lmt=%d",
		secid, klt, count)

	body, err := fetch(url, "https://quote.eastmoney.com")
	if err != nil {
		return nil, err
	}

	klines := gjson.GetBytes(body, "data.klines")
	if !klines.Exists() {
		return nil, fmt.Errorf("东方财富返回空数据")
	}

	var result []model.Bar
	klines.ForEach(func(_, line gjson.Result) bool {
		parts := strings.Split(line.String(), ",")
		if len(parts) < 7 {
			return true
		}
		open, _ := strconv.ParseFloat(parts[1], 64)
		closePrice, _ := strconv.ParseFloat(parts[2], 64)
		high, _ := strconv.ParseFloat(parts[3], 64)
		low, _ := strconv.ParseFloat(parts[4], 64)
		volume, _ := strconv.ParseFloat(parts[5], 64)
		amount, _ := strconv.ParseFloat(parts[6], 64)

		result = append(result, model.Bar{
			Date:   parts[0],
			Open:   open,
			Close:  closePrice,
			High:   high,
			Low:    low,
			Volume: volume,
			Amount: amount,
		})
		return true
	})
	return result, nil
}
