package strategy

import (
	"fmt"
	"math"

	"astock-assistant/internal/indicator"
	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/symbol"
)

// 仓位管理参数
const (
	MaxSinglePositionPct = 0.50 // 单只最大仓位
	MaxTotalPositionPct  = 0.80 // 最大总仓位
	MaxHoldings          = 3    // 最多同时持有只数
	MinLot               = 100  // 最小交易单位
)

// adviceHistBars 生成建议所需的历史K线长度
const adviceHistBars = 120

// Advice 单只股票的结构化交易建议
type Advice struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Direction     string   `json:"direction"` // 买入/观望/回避
	AdvicePrice   float64  `json:"advice_price"`
	StopLoss      float64  `json:"stop_loss"`
	StopLossPct   float64  `json:"stop_loss_pct"`
	TakeProfit    float64  `json:"take_profit"`
	TakeProfitPct float64  `json:"take_profit_pct"`
	PositionPct   float64  `json:"position_pct"` // 建议仓位，百分比
	Shares        int      `json:"shares"`
	Amount        float64  `json:"amount"`
	RiskLevel     string   `json:"risk_level"` // 高/中等/较低
	RiskFactors   []string `json:"risk_factors"`
	Score         float64  `json:"score"`
	Rating        string   `json:"rating"`
	BuyReasons    []string `json:"buy_reasons"`
}

// Advise 为指定股票生成交易建议。
// capital 为可用资金，existingPositions 为当前已持有只数
func Advise(code string, capital float64, existingPositions int) (*Advice, error) {
	code = symbol.Normalize(code)

	quote, err := stockdata.GetQuote(code)
	if err != nil {
		return nil, fmt.Errorf("未找到股票 %s: %w", code, err)
	}
	if quote.Price <= 0 {
		return nil, fmt.Errorf("无法获取有效价格: %s", code)
	}

	bars, err := stockdata.GetDailyBars(code, adviceHistBars)
	if err != nil {
		return nil, err
	}
	if len(bars) < 30 {
		return nil, fmt.Errorf("历史数据不足: %s", code)
	}

	return buildAdvice(quote, bars, capital, existingPositions), nil
}

// buildAdvice 在已有行情与历史数据上生成建议
func buildAdvice(quote *model.Quote, bars []model.Bar, capital float64, existingPositions int) *Advice {
	a := indicator.Analyze(bars)
	price := quote.Price

	advice := &Advice{
		Code:        quote.Code,
		Name:        quote.Name,
		Price:       price,
		AdvicePrice: round2(price * 0.998),
		Score:       a.Score.Score,
		Rating:      a.Score.Rating,
	}

	switch {
	case a.Score.Score >= 60:
		advice.Direction = "买入"
	case a.Score.Score >= 40:
		advice.Direction = "观望"
	default:
		advice.Direction = "回避"
	}

	stopLoss, takeProfit := exitPrices(bars, a.BOLL, price)
	advice.StopLoss = round2(stopLoss)
	advice.StopLossPct = round1((stopLoss - price) / price * 100)
	advice.TakeProfit = round2(takeProfit)
	advice.TakeProfitPct = round1((takeProfit - price) / price * 100)

	pct, shares, amount := positionSize(a.Score.Score, advice.Direction, capital, price, existingPositions)
	advice.PositionPct = round1(pct * 100)
	advice.Shares = shares
	advice.Amount = round2(amount)

	advice.RiskLevel, advice.RiskFactors = assessRisk(bars, quote.ChangePct, a.RSI)
	advice.BuyReasons = buyReasons(a)
	return advice
}

// exitPrices 止损取布林下轨与近10日低点的较高者，并不低于现价95%；
// 止盈取布林上轨与近10日高点*1.02的较低者，并不低于现价103%
func exitPrices(bars []model.Bar, boll indicator.BOLLResult, price float64) (stopLoss, takeProfit float64) {
	recentLow, recentHigh := recentExtremes(bars, 10)

	stopLoss = math.Max(boll.Lower, recentLow)
	stopLoss = math.Max(stopLoss, price*0.95)

	takeProfit = math.Min(boll.Upper, recentHigh*1.02)
	takeProfit = math.Max(takeProfit, price*1.03)
	return stopLoss, takeProfit
}

func recentExtremes(bars []model.Bar, lookback int) (low, high float64) {
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	low, high = bars[start].Low, bars[start].High
	for _, b := range bars[start:] {
		if b.Low < low {
			low = b.Low
		}
		if b.High > high {
			high = b.High
		}
	}
	return low, high
}

// positionSize 按评分档位计算建议仓位。
// 资金不够一档仓位但够一手时，按一手买入并回算实际仓位
func positionSize(score float64, direction string, capital, price float64, existingPositions int) (pct float64, shares int, amount float64) {
	if MaxHoldings-existingPositions <= 0 || direction != "买入" {
		return 0, 0, 0
	}

	switch {
	case score >= 80:
		pct = MaxSinglePositionPct
	case score >= 70:
		pct = 0.35
	case score >= 60:
		pct = 0.25
	default:
		return 0, 0, 0
	}

	shares = roundLot(int(capital * pct / price))
	amount = float64(shares) * price

	if shares < MinLot {
		if capital >= price*MinLot {
			shares = MinLot
			amount = float64(shares) * price
			pct = amount / capital
		} else {
			return 0, 0, 0
		}
	}
	return pct, shares, amount
}

// assessRisk 按波动率、当日涨幅、RSI超买累计风险分
func assessRisk(bars []model.Bar, dayChangePct float64, rsi indicator.RSIResult) (level string, factors []string) {
	riskScore := 0

	vol := volatility(bars)
	if vol > 4 {
		factors = append(factors, "高波动性")
		riskScore += 2
	} else if vol > 2.5 {
		factors = append(factors, "中等波动性")
		riskScore++
	}

	if dayChangePct > 5 {
		factors = append(factors, "当日涨幅已大，追高风险")
		riskScore += 2
	}

	if rsi6, ok := rsi.Value(6); ok && rsi6 > 70 {
		factors = append(factors, "RSI 指标超买")
		riskScore++
	}

	switch {
	case riskScore >= 4:
		level = "高"
	case riskScore >= 2:
		level = "中等"
	default:
		level = "较低"
	}
	if len(factors) == 0 {
		factors = []string{"暂无明显风险"}
	}
	return level, factors
}

// volatility 日收益率标准差（样本），单位百分比
func volatility(bars []model.Bar) float64 {
	var returns []float64
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close > 0 {
			returns = append(returns, bars[i].Close/bars[i-1].Close-1)
		}
	}
	n := len(returns)
	if n < 2 {
		return 0
	}
	m := 0.0
	for _, r := range returns {
		m += r
	}
	m /= float64(n)
	sum := 0.0
	for _, r := range returns {
		sum += (r - m) * (r - m)
	}
	return math.Sqrt(sum/float64(n-1)) * 100
}

// buyReasons 汇总各指标的买入依据
func buyReasons(a *indicator.Analysis) []string {
	var reasons []string
	if a.MACD.GoldenCross {
		reasons = append(reasons, "MACD 日线金叉，短线动能转强")
	} else if a.MACD.Trend == "多头" {
		reasons = append(reasons, "MACD 多头趋势")
	}
	if a.KDJ.GoldenCross {
		reasons = append(reasons, "KDJ 金叉信号")
	}
	if a.MA.BullAlignment {
		reasons = append(reasons, "均线多头排列，趋势向好")
	}
	switch a.Volume.Combo {
	case "放量上涨":
		reasons = append(reasons, "放量上涨，资金积极介入")
	case "缩量回调":
		reasons = append(reasons, "缩量回调，抛压减轻")
	}
	if a.BOLL.Valid && a.BOLL.PositionPct < 30 {
		reasons = append(reasons, "股价接近布林带下轨，有支撑")
	}
	if rsi6, ok := a.RSI.Value(6); ok && rsi6 < 30 {
		reasons = append(reasons, "RSI 超卖，有反弹动能")
	}

	if len(reasons) == 0 {
		if a.Score.Score >= 50 {
			reasons = append(reasons, "综合技术指标偏多")
		} else {
			reasons = append(reasons, "当前无明显买入信号")
		}
	}
	return reasons
}

func roundLot(shares int) int {
	return shares / MinLot * MinLot
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
