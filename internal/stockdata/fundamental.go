package stockdata

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/symbol"
)

const financeCacheTTL = 60 * time.Minute

// FinanceIndicator 单个报告期的主要财务指标
type FinanceIndicator struct {
	ReportDate   string  `json:"report_date"` // 如 "2024年报"
	EPS          float64 `json:"eps"`         // 基本每股收益
	BPS          float64 `json:"bps"`         // 每股净资产
	ROE          float64 `json:"roe"`         // 加权净资产收益率 %
	Revenue      float64 `json:"revenue"`     // 营业总收入 元
	RevenueYoY   float64 `json:"revenue_yoy"` // 同比 %
	NetProfit    float64 `json:"net_profit"`  // 归母净利润 元
	NetProfitYoY float64 `json:"net_profit_yoy"`
	GrossMargin  float64 `json:"gross_margin"` // 销售毛利率 %
	DebtRatio    float64 `json:"debt_ratio"`   // 资产负债率 %
}

// secuCode 东方财富数据中心的证券代码格式 600519.SH / 000001.SZ
func secuCode(code string) string {
	code = symbol.Normalize(code)
	if symbol.TdxMarket(code) == 1 {
		return code + ".SH"
	}
	return code + ".SZ"
}

// FinanceIndicators 最近 limit 期主要财务指标，按报告期从新到旧
func FinanceIndicators(code string, limit int) ([]FinanceIndicator, error) {
	code = symbol.Normalize(code)
	if limit <= 0 {
		limit = 4
	}

	key := cache.Key("finance_indicators", map[string]any{"code": code, "limit": limit})
	var indicators []FinanceIndicator
	if cacheGet(key, financeCacheTTL, &indicators) {
		return indicators, nil
	}

	u := fmt.Sprintf("https://datacenter-web.eastmoney.com/api/data/v1/get?reportName=RPT_F10_FINANCE_MAINFINADATA&columns=ALL&quoteColumns=&filter=(SECUCODE%%3D%%22%s%%22)&pageNumber=1&pageSize=%d&sortTypes=-1&sortColumns=REPORT_DATE&source=HSF10&client=PC",
		secuCode(code), limit)
	body, err := fetch(u, "https://emweb.securities.eastmoney.com")
	if err != nil {
		return nil, err
	}

	indicators = parseFinanceIndicators(body)
	if len(indicators) == 0 {
		return nil, fmt.Errorf("未获取到 %s 的财务指标", code)
	}
	cacheSet(key, indicators)
	return indicators, nil
}

func parseFinanceIndicators(body []byte) []FinanceIndicator {
	var out []FinanceIndicator
	gjson.GetBytes(body, "result.data").ForEach(func(_, item gjson.Result) bool {
		name := item.Get("REPORT_DATE_NAME").String()
		if name == "" {
			name = item.Get("REPORT_DATE").String()
			if len(name) > 10 {
				name = name[:10]
			}
		}
		out = append(out, FinanceIndicator{
			ReportDate:   name,
			EPS:          item.Get("EPSJB").Float(),
			BPS:          item.Get("BPS").Float(),
			ROE:          item.Get("ROEJQ").Float(),
			Revenue:      item.Get("TOTALOPERATEREVE").Float(),
			RevenueYoY:   item.Get("TOTALOPERATEREVETZ").Float(),
			NetProfit:    item.Get("PARENTNETPROFIT").Float(),
			NetProfitYoY: item.Get("PARENTNETPROFITTZ").Float(),
			GrossMargin:  item.Get("XSMLL").Float(),
			DebtRatio:    item.Get("ZCFZL").Float(),
		})
		return true
	})
	return out
}
