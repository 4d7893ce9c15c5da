package strategy

import (
	"fmt"
	"math"

	"astock-assistant/internal/indicator"
	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/symbol"
)

// BacktestTrade 一笔完整的买卖配对
type BacktestTrade struct {
	Code      string  `json:"code"`
	BuyDate   string  `json:"buy_date"`
	SellDate  string  `json:"sell_date"`
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	Shares    int     `json:"shares"`
	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`
}

// BacktestResult 回测绩效汇总
type BacktestResult struct {
	Strategy       string          `json:"strategy"`
	Code           string          `json:"code"`
	InitialCapital float64         `json:"initial_capital"`
	FinalCapital   float64         `json:"final_capital"`
	MaxDrawdownPct float64         `json:"max_drawdown_pct"`
	Trades         []BacktestTrade `json:"trades"`
}

// TotalReturnPct 总收益率
func (r *BacktestResult) TotalReturnPct() float64 {
	if r.InitialCapital <= 0 {
		return 0
	}
	return (r.FinalCapital - r.InitialCapital) / r.InitialCapital * 100
}

// WinTrades 盈利的交易
func (r *BacktestResult) WinTrades() []BacktestTrade {
	var out []BacktestTrade
	for _, t := range r.Trades {
		if t.Profit > 0 {
			out = append(out, t)
		}
	}
	return out
}

// LoseTrades 亏损或持平的交易
func (r *BacktestResult) LoseTrades() []BacktestTrade {
	var out []BacktestTrade
	for _, t := range r.Trades {
		if t.Profit <= 0 {
			out = append(out, t)
		}
	}
	return out
}

// WinRate 胜率，百分比
func (r *BacktestResult) WinRate() float64 {
	if len(r.Trades) == 0 {
		return 0
	}
	return float64(len(r.WinTrades())) / float64(len(r.Trades)) * 100
}

// ProfitLossRatio 平均盈利与平均亏损之比
func (r *BacktestResult) ProfitLossRatio() float64 {
	wins, losses := r.WinTrades(), r.LoseTrades()
	avgWin := 0.0
	for _, t := range wins {
		avgWin += t.Profit
	}
	if len(wins) > 0 {
		avgWin /= float64(len(wins))
	}
	avgLoss := 1.0
	if len(losses) > 0 {
		sum := 0.0
		for _, t := range losses {
			sum += t.Profit
		}
		avgLoss = math.Abs(sum / float64(len(losses)))
	}
	if avgLoss <= 0 {
		return math.Inf(1)
	}
	return avgWin / avgLoss
}

// signal 策略产出的买卖配对，价格取信号当日收盘
type signal struct {
	buyDate   string
	sellDate  string
	buyPrice  float64
	sellPrice float64
}

type strategyFunc func(bars []model.Bar) []signal

// Strategies 可用回测策略
var Strategies = map[string]string{
	"ma_cross":   "均线金叉死叉",
	"macd_cross": "MACD金叉死叉",
}

var strategyFuncs = map[string]strategyFunc{
	"ma_cross":   maCrossSignals,
	"macd_cross": macdCrossSignals,
}

// Backtest 在单只股票的历史K线上回测指定策略。
// 每笔交易投入当前资金的80%，不足一手的信号跳过
func Backtest(code, strategyName string, days int, capital float64) (*BacktestResult, error) {
	if _, ok := strategyFuncs[strategyName]; !ok {
		return nil, fmt.Errorf("不支持的策略: %s", strategyName)
	}
	code = symbol.Normalize(code)

	if days <= 0 {
		days = 250
	}
	bars, err := stockdata.GetDailyBars(code, days)
	if err != nil {
		return nil, err
	}
	return BacktestOn(code, bars, strategyName, capital)
}

// BacktestOn 在已有的K线序列上回测，数据来源由调用方决定
func BacktestOn(code string, bars []model.Bar, strategyName string, capital float64) (*BacktestResult, error) {
	fn, ok := strategyFuncs[strategyName]
	if !ok {
		return nil, fmt.Errorf("不支持的策略: %s", strategyName)
	}
	if len(bars) < 30 {
		return nil, fmt.Errorf("历史数据不足: %s", code)
	}

	result := runBacktest(bars, fn, capital)
	result.Strategy = strategyName
	result.Code = symbol.Normalize(code)
	return result, nil
}

func runBacktest(bars []model.Bar, fn strategyFunc, capital float64) *BacktestResult {
	result := &BacktestResult{InitialCapital: capital}
	running := capital
	peak := capital

	for _, s := range fn(bars) {
		shares := roundLot(int(running * 0.8 / s.buyPrice))
		if shares < MinLot {
			continue
		}

		profit := float64(shares) * (s.sellPrice - s.buyPrice)
		running += profit
		if running > peak {
			peak = running
		}
		drawdown := (peak - running) / peak * 100
		if drawdown > result.MaxDrawdownPct {
			result.MaxDrawdownPct = drawdown
		}

		result.Trades = append(result.Trades, BacktestTrade{
			BuyDate:   s.buyDate,
			SellDate:  s.sellDate,
			BuyPrice:  round2(s.buyPrice),
			SellPrice: round2(s.sellPrice),
			Shares:    shares,
			Profit:    round2(profit),
			ProfitPct: round2((s.sellPrice - s.buyPrice) / s.buyPrice * 100),
		})
	}

	result.FinalCapital = round2(running)
	return result
}

// maCrossSignals 5日均线上穿20日均线买入，下穿卖出
func maCrossSignals(bars []model.Bar) []signal {
	const short, long = 5, 20
	if len(bars) < long+5 {
		return nil
	}

	cs := closes(bars)
	maShort := rollingMean(cs, short)
	maLong := rollingMean(cs, long)

	var signals []signal
	holding := false
	var buyDate string
	var buyPrice float64

	// 从第一个长均线就绪的位置之后开始比较
	for i := long; i < len(bars); i++ {
		prevShort, prevLong := maShort[i-1], maLong[i-1]
		curShort, curLong := maShort[i], maLong[i]

		if prevShort <= prevLong && curShort > curLong && !holding {
			buyPrice = bars[i].Close
			buyDate = bars[i].Date
			holding = true
		} else if prevShort >= prevLong && curShort < curLong && holding {
			signals = append(signals, signal{
				buyDate:   buyDate,
				sellDate:  bars[i].Date,
				buyPrice:  buyPrice,
				sellPrice: bars[i].Close,
			})
			holding = false
		}
	}
	return signals
}

// macdCrossSignals DIF上穿DEA买入，下穿卖出，跳过前33根不稳定数据
func macdCrossSignals(bars []model.Bar) []signal {
	const warmup = 33
	if len(bars) < warmup+2 {
		return nil
	}

	dif, dea := indicator.MACDSeries(bars, 12, 26, 9)

	var signals []signal
	holding := false
	var buyDate string
	var buyPrice float64

	for i := warmup + 1; i < len(bars); i++ {
		if dif[i-1] <= dea[i-1] && dif[i] > dea[i] && !holding {
			buyPrice = bars[i].Close
			buyDate = bars[i].Date
			holding = true
		} else if dif[i-1] >= dea[i-1] && dif[i] < dea[i] && holding {
			signals = append(signals, signal{
				buyDate:   buyDate,
				sellDate:  bars[i].Date,
				buyPrice:  buyPrice,
				sellPrice: bars[i].Close,
			})
			holding = false
		}
	}
	return signals
}

func closes(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// rollingMean 滚动均值，窗口不足的位置为 NaN
func rollingMean(data []float64, window int) []float64 {
	out := make([]float64, len(data))
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
