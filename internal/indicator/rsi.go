package indicator

import "astock-assistant/internal/model"

// DefaultRSIPeriods 常用 RSI 窗口
var DefaultRSIPeriods = []int{6, 12, 24}

// RSILine 单周期 RSI
type RSILine struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
	Zone   string  `json:"zone"`
}

// RSIResult 相对强弱指标结果，数据不足的窗口不出现在 Lines 中
type RSIResult struct {
	Lines []RSILine `json:"lines"`
}

// RSI 按简单滚动均值计算各周期相对强弱指标
func RSI(bars []model.Bar, periods ...int) RSIResult {
	if len(periods) == 0 {
		periods = DefaultRSIPeriods
	}
	cs := closes(bars)

	var result RSIResult
	for _, p := range periods {
		if len(cs) < p+1 {
			continue
		}
		v := rsiValue(cs, p)
		result.Lines = append(result.Lines, RSILine{
			Period: p,
			Value:  v,
			Zone:   rsiZone(v),
		})
	}
	return result
}

func rsiValue(cs []float64, period int) float64 {
	gains, losses := 0.0, 0.0
	for i := len(cs) - period; i < len(cs); i++ {
		diff := cs[i] - cs[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs))
}

func rsiZone(v float64) string {
	switch {
	case v > 80:
		return "超买"
	case v > 50:
		return "偏强"
	case v > 20:
		return "偏弱"
	default:
		return "超卖"
	}
}

// Value 取指定周期的 RSI 值
func (r RSIResult) Value(period int) (float64, bool) {
	for _, l := range r.Lines {
		if l.Period == period {
			return l.Value, true
		}
	}
	return 0, false
}
