package indicator

import "astock-assistant/internal/model"

// DefaultMAPeriods 常用均线窗口
var DefaultMAPeriods = []int{5, 10, 20, 60}

// MALine 单条均线
type MALine struct {
	Period  int     `json:"period"`
	Value   float64 `json:"value"`
	Bullish bool    `json:"bullish"` // 现价在均线上方
}

// MAResult 均线分析结果，数据不足的窗口不出现在 Lines 中
type MAResult struct {
	Price         float64  `json:"price"`
	Lines         []MALine `json:"lines"`
	BullAlignment bool     `json:"bull_alignment"` // 多头排列
}

// MA 计算均线组。bars 按日期升序，全部窗口都不足时返回空结果
func MA(bars []model.Bar, periods ...int) MAResult {
	if len(bars) == 0 {
		return MAResult{}
	}
	if len(periods) == 0 {
		periods = DefaultMAPeriods
	}

	cs := closes(bars)
	price := cs[len(cs)-1]
	result := MAResult{Price: price}

	for _, p := range periods {
		if len(cs) < p {
			continue
		}
		v := round2(mean(cs[len(cs)-p:]))
		result.Lines = append(result.Lines, MALine{
			Period:  p,
			Value:   v,
			Bullish: price > v,
		})
	}

	// 多头排列：至少3条均线且短期均线依次不低于长期均线
	if len(result.Lines) >= 3 {
		aligned := true
		for i := 0; i+1 < len(result.Lines); i++ {
			if result.Lines[i].Value < result.Lines[i+1].Value {
				aligned = false
				break
			}
		}
		result.BullAlignment = aligned
	}
	return result
}

// Value 取指定窗口的均线值
func (r MAResult) Value(period int) (float64, bool) {
	for _, l := range r.Lines {
		if l.Period == period {
			return l.Value, true
		}
	}
	return 0, false
}

// BullishCount 现价上方均线条数
func (r MAResult) BullishCount() int {
	n := 0
	for _, l := range r.Lines {
		if l.Bullish {
			n++
		}
	}
	return n
}
