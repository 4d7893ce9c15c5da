package indicator

import "astock-assistant/internal/model"

const kdjPeriod = 9

// KDJResult 随机指标分析结果
type KDJResult struct {
	Valid       bool    `json:"valid"`
	K           float64 `json:"k"`
	D           float64 `json:"d"`
	J           float64 `json:"j"`
	GoldenCross bool    `json:"golden_cross"`
	DeathCross  bool    `json:"death_cross"`
	Zone        string  `json:"zone"`   // 超买区/超卖区/中性区
	Signal      string  `json:"signal"` // 低位金叉/高位死叉
}

// KDJ 计算随机指标。RSV 按9日滚动高低点，K/D 以首个RSV起值、按 1/3 权重平滑，J=3K-2D
func KDJ(bars []model.Bar) KDJResult {
	if len(bars) < kdjPeriod+1 {
		return KDJResult{}
	}

	hs, ls, cs := highs(bars), lows(bars), closes(bars)

	var k, d, prevK, prevD float64
	for i := kdjPeriod - 1; i < len(bars); i++ {
		hh := maxOf(hs[i-kdjPeriod+1 : i+1])
		ll := minOf(ls[i-kdjPeriod+1 : i+1])
		rsv := 50.0
		if hh > ll {
			rsv = (cs[i] - ll) / (hh - ll) * 100
		}
		if i == kdjPeriod-1 {
			k, d = rsv, rsv
			prevK, prevD = k, d
			continue
		}
		prevK, prevD = k, d
		k = k*2/3 + rsv/3
		d = d*2/3 + k/3
	}

	result := KDJResult{
		Valid: true,
		K:     round2(k),
		D:     round2(d),
	}
	result.J = round2(3*result.K - 2*result.D)
	result.GoldenCross = prevK <= prevD && k > d
	result.DeathCross = prevK >= prevD && k < d

	switch {
	case k > 80 && d > 80:
		result.Zone = "超买区"
	case k < 20 && d < 20:
		result.Zone = "超卖区"
	default:
		result.Zone = "中性区"
	}

	if result.GoldenCross && k < 30 {
		result.Signal = "低位金叉"
	} else if result.DeathCross && k > 70 {
		result.Signal = "高位死叉"
	}
	return result
}

func maxOf(data []float64) float64 {
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(data []float64) float64 {
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
