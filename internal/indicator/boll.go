package indicator

import "astock-assistant/internal/model"

const (
	bollPeriod = 20
	bollWidth  = 2.0
)

// BOLLResult 布林带分析结果
type BOLLResult struct {
	Valid       bool    `json:"valid"`
	Upper       float64 `json:"upper"`
	Mid         float64 `json:"mid"`
	Lower       float64 `json:"lower"`
	PositionPct float64 `json:"position_pct"` // 现价在带内位置 0-100
	Position    string  `json:"position"`
}

// BOLL 计算布林带，20日均值 ± 2倍标准差
func BOLL(bars []model.Bar) BOLLResult {
	if len(bars) < bollPeriod {
		return BOLLResult{}
	}

	cs := closes(bars)
	window := cs[len(cs)-bollPeriod:]
	mid := mean(window)
	sd := stddev(window)
	price := cs[len(cs)-1]

	result := BOLLResult{
		Valid: true,
		Upper: round2(mid + bollWidth*sd),
		Mid:   round2(mid),
		Lower: round2(mid - bollWidth*sd),
	}

	width := result.Upper - result.Lower
	if width > 0 {
		result.PositionPct = round1((price - result.Lower) / width * 100)
	} else {
		result.PositionPct = 50
	}

	switch {
	case price > result.Upper:
		result.Position = "突破上轨"
	case price < result.Lower:
		result.Position = "跌破下轨"
	case result.PositionPct >= 50:
		result.Position = "上半区"
	default:
		result.Position = "下半区"
	}
	return result
}
