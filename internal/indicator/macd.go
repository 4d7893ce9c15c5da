package indicator

import "astock-assistant/internal/model"

// macdMinBars MACD 结果稳定所需的最少K线数
const macdMinBars = 34

// MACDResult MACD 分析结果
type MACDResult struct {
	Valid       bool    `json:"valid"`
	DIF         float64 `json:"dif"`
	DEA         float64 `json:"dea"`
	Hist        float64 `json:"hist"` // 2*(DIF-DEA)
	GoldenCross bool    `json:"golden_cross"`
	DeathCross  bool    `json:"death_cross"`
	Trend       string  `json:"trend"` // 多头/空头
}

// MACD 计算指数平滑异同平均线，快慢线 12/26，信号线 9
func MACD(bars []model.Bar) MACDResult {
	return MACDWith(bars, 12, 26, 9)
}

// MACDWith 指定参数计算 MACD
func MACDWith(bars []model.Bar, fast, slow, signal int) MACDResult {
	if len(bars) < macdMinBars {
		return MACDResult{}
	}

	dif, dea := macdSeries(closes(bars), fast, slow, signal)
	n := len(dif)
	cur, prev := n-1, n-2

	result := MACDResult{
		Valid: true,
		DIF:   dif[cur],
		DEA:   dea[cur],
		Hist:  2 * (dif[cur] - dea[cur]),
	}
	result.GoldenCross = dif[prev] <= dea[prev] && dif[cur] > dea[cur]
	result.DeathCross = dif[prev] >= dea[prev] && dif[cur] < dea[cur]
	if result.DIF > result.DEA {
		result.Trend = "多头"
	} else {
		result.Trend = "空头"
	}
	return result
}

// MACDSeries 返回完整的逐日 DIF/DEA 序列
func MACDSeries(bars []model.Bar, fast, slow, signal int) (dif, dea []float64) {
	return macdSeries(closes(bars), fast, slow, signal)
}

func macdSeries(cs []float64, fast, slow, signal int) (dif, dea []float64) {
	emaFast := ema(cs, fast)
	emaSlow := ema(cs, slow)
	dif = make([]float64, len(cs))
	for i := range cs {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea = ema(dif, signal)
	return dif, dea
}
