package indicator

import (
	"math"

	"astock-assistant/internal/model"
)

// Analysis 单只股票的完整技术面分析
type Analysis struct {
	MA     MAResult     `json:"ma"`
	MACD   MACDResult   `json:"macd"`
	KDJ    KDJResult    `json:"kdj"`
	BOLL   BOLLResult   `json:"boll"`
	RSI    RSIResult    `json:"rsi"`
	Volume VolumeResult `json:"volume"`
	Score  ScoreResult  `json:"score"`
}

// Analyze 计算全部指标并打综合分。数据不足的指标保持零值，不报错
func Analyze(bars []model.Bar) *Analysis {
	a := &Analysis{
		MA:     MA(bars, DefaultMAPeriods...),
		MACD:   MACD(bars),
		KDJ:    KDJ(bars),
		BOLL:   BOLL(bars),
		RSI:    RSI(bars, DefaultRSIPeriods...),
		Volume: Volume(bars),
	}
	a.Score = Score(a.MA, a.MACD, a.KDJ, a.BOLL, a.RSI, a.Volume)
	return a
}

func closes(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func highs(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func lows(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

func volumes(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func stddev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	m := mean(data)
	sum := 0.0
	for _, v := range data {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(data)))
}

// ema 指数移动平均，alpha=2/(n+1)，首值作为种子
func ema(data []float64, period int) []float64 {
	if len(data) == 0 {
		return nil
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(data))
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = alpha*data[i] + (1-alpha)*out[i-1]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
