package indicator

import "astock-assistant/internal/model"

// VolumeResult 量能分析结果
type VolumeResult struct {
	Valid   bool    `json:"valid"`
	Current float64 `json:"current"`
	MA5     float64 `json:"ma5"`
	MA20    float64 `json:"ma20"`
	Ratio   float64 `json:"ratio"` // 当日量 / 5日均量
	Status  string  `json:"status"`
	Combo   string  `json:"combo"` // 量价配合
}

// Volume 量能分析：当日成交量相对5日均量的放大倍数，配合价格方向给出量价标签
func Volume(bars []model.Bar) VolumeResult {
	if len(bars) < 5 {
		return VolumeResult{}
	}

	vs := volumes(bars)
	cur := vs[len(vs)-1]
	// 5日均量含当日
	ma5 := mean(vs[len(vs)-5:])

	result := VolumeResult{
		Valid:   true,
		Current: cur,
		MA5:     ma5,
	}
	if len(vs) >= 20 {
		result.MA20 = mean(vs[len(vs)-20:])
	}
	if ma5 > 0 {
		result.Ratio = round2(cur / ma5)
	}

	switch {
	case result.Ratio > 2:
		result.Status = "显著放量"
	case result.Ratio > 1.3:
		result.Status = "温和放量"
	case result.Ratio < 0.7:
		result.Status = "明显缩量"
	default:
		result.Status = "正常"
	}

	priceUp := bars[len(bars)-1].Close > bars[len(bars)-2].Close
	switch {
	case result.Ratio > 1.3 && priceUp:
		result.Combo = "放量上涨"
	case result.Ratio > 1.3 && !priceUp:
		result.Combo = "放量下跌"
	case result.Ratio < 0.7 && priceUp:
		result.Combo = "缩量上涨"
	case result.Ratio < 0.7 && !priceUp:
		result.Combo = "缩量回调"
	default:
		result.Combo = "正常波动"
	}
	return result
}
