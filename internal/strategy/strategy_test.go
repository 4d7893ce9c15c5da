package strategy

import (
	"fmt"
	"math"
	"testing"

	"astock-assistant/internal/indicator"
	"astock-assistant/internal/model"
)

// waveBars 先跌后涨再跌的K线序列，能触发均线与MACD的金叉死叉
func waveBars() []model.Bar {
	var bars []model.Bar
	price := 30.0
	for i := 0; i < 80; i++ {
		switch {
		case i < 30:
			price -= 0.5
		case i < 55:
			price += 0.8
		default:
			price -= 0.8
		}
		bars = append(bars, model.Bar{
			Date:   fmt.Sprintf("2025-01-%03d", i),
			Open:   price - 0.1,
			Close:  price,
			High:   price + 0.3,
			Low:    price - 0.3,
			Volume: 1e6,
		})
	}
	return bars
}

func TestPositionSizeByScore(t *testing.T) {
	cases := []struct {
		score     float64
		wantPct   float64
		wantShare int
	}{
		{85, 0.50, 1500},
		{75, 0.35, 1000},
		{65, 0.25, 700},
		{55, 0, 0},
	}
	for _, c := range cases {
		pct, shares, _ := positionSize(c.score, "买入", 30000, 10, 0)
		if pct != c.wantPct || shares != c.wantShare {
			t.Errorf("评分%.0f: 仓位 %.2f/%d股, 期望 %.2f/%d股",
				c.score, pct, shares, c.wantPct, c.wantShare)
		}
	}
}

func TestPositionSizeBlocked(t *testing.T) {
	if pct, shares, _ := positionSize(85, "观望", 30000, 10, 0); pct != 0 || shares != 0 {
		t.Error("非买入方向不应给仓位")
	}
	if pct, shares, _ := positionSize(85, "买入", 30000, 10, MaxHoldings); pct != 0 || shares != 0 {
		t.Error("持仓已满不应给仓位")
	}
}

func TestPositionSizeMinLotFallback(t *testing.T) {
	// 按档位算不足一手，但资金够买一手
	pct, shares, amount := positionSize(85, "买入", 3000, 25, 0)
	if shares != MinLot {
		t.Fatalf("应回退到一手, 实际 %d股", shares)
	}
	if amount != 2500 {
		t.Errorf("买入金额 = %.2f, 期望 2500", amount)
	}
	if math.Abs(pct-2500.0/3000.0) > 1e-9 {
		t.Errorf("回退后仓位应回算, 实际 %.4f", pct)
	}

	// 连一手都买不起
	if _, shares, _ := positionSize(85, "买入", 2000, 25, 0); shares != 0 {
		t.Errorf("资金不足一手应为0股, 实际 %d", shares)
	}
}

func TestExitPricesFloors(t *testing.T) {
	// 走平的序列布林带收窄，验证止损止盈的下限约束
	var bars []model.Bar
	for i := 0; i < 30; i++ {
		bars = append(bars, model.Bar{Open: 10, Close: 10, High: 10.05, Low: 9.95, Volume: 1e6})
	}
	boll := indicator.BOLL(bars)
	price := 10.0
	stop, take := exitPrices(bars, boll, price)
	if stop < price*0.95-1e-9 {
		t.Errorf("止损 %.2f 不应低于现价95%%", stop)
	}
	if take < price*1.03-1e-9 {
		t.Errorf("止盈 %.2f 不应低于现价103%%", take)
	}
	if stop >= take {
		t.Errorf("止损 %.2f 应低于止盈 %.2f", stop, take)
	}
}

func TestVolatilityFlatSeries(t *testing.T) {
	var bars []model.Bar
	for i := 0; i < 20; i++ {
		bars = append(bars, model.Bar{Close: 10})
	}
	if v := volatility(bars); v != 0 {
		t.Errorf("无波动序列的波动率 = %.4f, 期望 0", v)
	}
}

func TestBuildAdviceShape(t *testing.T) {
	bars := waveBars()
	quote := &model.Quote{Code: "600519", Name: "测试股", Price: bars[len(bars)-1].Close, ChangePct: 1.0}
	advice := buildAdvice(quote, bars, 30000, 0)

	if advice.Direction != "买入" && advice.Direction != "观望" && advice.Direction != "回避" {
		t.Errorf("非法方向: %s", advice.Direction)
	}
	if advice.AdvicePrice != round2(quote.Price*0.998) {
		t.Errorf("建议价格 = %.2f", advice.AdvicePrice)
	}
	if advice.StopLoss >= advice.TakeProfit {
		t.Errorf("止损 %.2f 应低于止盈 %.2f", advice.StopLoss, advice.TakeProfit)
	}
	if advice.Shares%MinLot != 0 {
		t.Errorf("股数 %d 应为100的整数倍", advice.Shares)
	}
	if len(advice.BuyReasons) == 0 {
		t.Error("买入理由不应为空")
	}
	if advice.RiskLevel == "" || len(advice.RiskFactors) == 0 {
		t.Error("风险评级与提示不应为空")
	}
}

func TestBuyReasonsFallback(t *testing.T) {
	a := &indicator.Analysis{}
	a.Score.Score = 55
	if got := buyReasons(a); len(got) != 1 || got[0] != "综合技术指标偏多" {
		t.Errorf("偏多兜底理由错误: %v", got)
	}
	a.Score.Score = 30
	if got := buyReasons(a); len(got) != 1 || got[0] != "当前无明显买入信号" {
		t.Errorf("偏空兜底理由错误: %v", got)
	}
}

func TestMACrossSignals(t *testing.T) {
	signals := maCrossSignals(waveBars())
	if len(signals) == 0 {
		t.Fatal("波段序列应产生均线交叉信号")
	}
	for _, s := range signals {
		if s.buyDate >= s.sellDate {
			t.Errorf("买入日 %s 应早于卖出日 %s", s.buyDate, s.sellDate)
		}
		if s.buyPrice <= 0 || s.sellPrice <= 0 {
			t.Error("信号价格应为正")
		}
	}
	// 上涨段买入、下跌段卖出，首笔应盈利
	if signals[0].sellPrice <= signals[0].buyPrice {
		t.Errorf("首笔应盈利: 买 %.2f 卖 %.2f", signals[0].buyPrice, signals[0].sellPrice)
	}
}

func TestMACDCrossSignals(t *testing.T) {
	signals := macdCrossSignals(waveBars())
	if len(signals) == 0 {
		t.Fatal("波段序列应产生MACD交叉信号")
	}
	for _, s := range signals {
		if s.buyDate >= s.sellDate {
			t.Errorf("买入日 %s 应早于卖出日 %s", s.buyDate, s.sellDate)
		}
	}
}

func TestSignalsInsufficientHistory(t *testing.T) {
	short := waveBars()[:20]
	if got := maCrossSignals(short); got != nil {
		t.Error("数据不足不应产生均线信号")
	}
	if got := macdCrossSignals(short); got != nil {
		t.Error("数据不足不应产生MACD信号")
	}
}

func TestRunBacktestAccounting(t *testing.T) {
	bars := waveBars()
	result := runBacktest(bars, maCrossSignals, 30000)
	if len(result.Trades) == 0 {
		t.Fatal("回测应有成交")
	}

	sum := 0.0
	for _, tr := range result.Trades {
		if tr.Shares%MinLot != 0 {
			t.Errorf("股数 %d 应为整手", tr.Shares)
		}
		sum += tr.Profit
	}
	if math.Abs(result.FinalCapital-(result.InitialCapital+sum)) > 0.05 {
		t.Errorf("最终资金 %.2f 与逐笔盈亏之和 %.2f 不符", result.FinalCapital, result.InitialCapital+sum)
	}
	if result.MaxDrawdownPct < 0 {
		t.Errorf("最大回撤不应为负: %.2f", result.MaxDrawdownPct)
	}
}

func TestRunBacktestSkipsTinyCapital(t *testing.T) {
	result := runBacktest(waveBars(), maCrossSignals, 500)
	if len(result.Trades) != 0 {
		t.Error("资金不足一手时不应有成交")
	}
	if result.FinalCapital != 500 {
		t.Errorf("资金应原封不动: %.2f", result.FinalCapital)
	}
}

func TestBacktestStats(t *testing.T) {
	r := &BacktestResult{
		InitialCapital: 10000,
		FinalCapital:   10400,
		Trades: []BacktestTrade{
			{Profit: 200, ProfitPct: 2.0},
			{Profit: -100, ProfitPct: -1.0},
			{Profit: 300, ProfitPct: 3.0},
		},
	}
	if got := r.WinRate(); math.Abs(got-200.0/3) > 0.01 {
		t.Errorf("胜率 = %.2f", got)
	}
	// 平均盈利250 / 平均亏损100
	if got := r.ProfitLossRatio(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("盈亏比 = %.2f, 期望 2.5", got)
	}
	if got := r.TotalReturnPct(); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("总收益率 = %.2f, 期望 4.0", got)
	}
}

func TestBacktestUnknownStrategy(t *testing.T) {
	if _, err := Backtest("600519", "nope", 100, 30000); err == nil {
		t.Error("未知策略应报错")
	}
}
