package indicator

import (
	"fmt"
	"testing"

	"astock-assistant/internal/model"
)

// makeBars 按收盘价序列构造K线，高低点各留1元波动
func makeBars(closes []float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = model.Bar{
			Date:   fmt.Sprintf("2025-01-%02d", i%28+1),
			Open:   open,
			Close:  c,
			High:   c + 1,
			Low:    c - 1,
			Volume: 10000,
		}
	}
	return bars
}

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 10 + float64(i)*0.1
	}
	return out
}

func TestMAAlignment(t *testing.T) {
	bars := makeBars(risingCloses(70))
	r := MA(bars)
	if len(r.Lines) != 4 {
		t.Fatalf("期望4条均线, 实际 %d", len(r.Lines))
	}
	if !r.BullAlignment {
		t.Error("持续上涨序列应为多头排列")
	}
	if r.BullishCount() != 4 {
		t.Errorf("现价应在全部均线上方, 实际 %d 条", r.BullishCount())
	}
	// 短均线应不低于长均线
	for i := 0; i+1 < len(r.Lines); i++ {
		if r.Lines[i].Value < r.Lines[i+1].Value {
			t.Errorf("MA%d=%.2f 低于 MA%d=%.2f", r.Lines[i].Period, r.Lines[i].Value,
				r.Lines[i+1].Period, r.Lines[i+1].Value)
		}
	}
}

func TestMAInsufficientHistory(t *testing.T) {
	r := MA(makeBars(risingCloses(3)))
	if len(r.Lines) != 0 {
		t.Errorf("3根K线不应产生任何均线, 实际 %d 条", len(r.Lines))
	}
}

func TestMACDGoldenCross(t *testing.T) {
	// 长期下跌后快速拉升，DIF 必然在某一天上穿 DEA
	var closes []float64
	for i := 0; i < 50; i++ {
		closes = append(closes, 100-float64(i)*0.5)
	}
	for i := 0; i < 20; i++ {
		closes = append(closes, 75+float64(i)*1.5)
	}
	bars := makeBars(closes)

	crossAt := -1
	for n := macdMinBars; n <= len(bars); n++ {
		r := MACD(bars[:n])
		if r.GoldenCross {
			crossAt = n
			break
		}
	}
	if crossAt < 0 {
		t.Fatal("拉升序列中未检测到金叉")
	}

	r := MACD(bars[:crossAt])
	if !r.GoldenCross || r.DeathCross {
		t.Errorf("金叉日应 golden=true death=false, 实际 %+v", r)
	}
	if r.DIF <= r.DEA {
		t.Errorf("金叉日 DIF=%.4f 应大于 DEA=%.4f", r.DIF, r.DEA)
	}
	if got, want := r.Hist, 2*(r.DIF-r.DEA); got != want {
		t.Errorf("Hist=%.4f, 期望 2*(DIF-DEA)=%.4f", got, want)
	}
}

func TestMACDInsufficientHistory(t *testing.T) {
	if r := MACD(makeBars(risingCloses(20))); r.Valid {
		t.Error("20根K线不应产生有效MACD")
	}
}

func TestKDJRange(t *testing.T) {
	r := KDJ(makeBars(risingCloses(30)))
	if !r.Valid {
		t.Fatal("30根K线应产生有效KDJ")
	}
	if r.K < 0 || r.K > 100 || r.D < 0 || r.D > 100 {
		t.Errorf("K=%.2f D=%.2f 应在 [0,100]", r.K, r.D)
	}
	if r.K < 50 {
		t.Errorf("持续上涨序列 K=%.2f 应偏高", r.K)
	}
	if r.J != round2(3*r.K-2*r.D) {
		t.Errorf("J=%.2f 不等于 3K-2D", r.J)
	}
}

func TestKDJSeedFromFirstRSV(t *testing.T) {
	// 10根匀速上涨K线：每个9日窗口的RSV恒为 1.8/2.8*100≈64.29，
	// K/D 以首个RSV起值后应始终停留在该值
	r := KDJ(makeBars(risingCloses(10)))
	if !r.Valid {
		t.Fatal("10根K线应产生有效KDJ")
	}
	if r.K != 64.29 || r.D != 64.29 {
		t.Errorf("K=%.2f D=%.2f, 期望均为 64.29", r.K, r.D)
	}
}

func TestKDJInsufficientHistory(t *testing.T) {
	if r := KDJ(makeBars(risingCloses(5))); r.Valid {
		t.Error("5根K线不应产生有效KDJ")
	}
}

func TestBOLLFlatSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 10
	}
	bars := makeBars(closes)
	r := BOLL(bars)
	if !r.Valid {
		t.Fatal("25根K线应产生有效BOLL")
	}
	if r.PositionPct != 50 {
		t.Errorf("零宽度通道位置应为50, 实际 %.1f", r.PositionPct)
	}
	if r.Upper != r.Lower || r.Mid != 10 {
		t.Errorf("无波动序列三轨应重合于10: %+v", r)
	}
}

func TestBOLLInsufficientHistory(t *testing.T) {
	if r := BOLL(makeBars(risingCloses(5))); r.Valid {
		t.Error("5根K线不应产生有效BOLL")
	}
}

func TestRSIExtremes(t *testing.T) {
	up := RSI(makeBars(risingCloses(30)))
	if v, ok := up.Value(6); !ok || v != 100 {
		t.Errorf("单边上涨 RSI6 应为100, 实际 %.2f", v)
	}

	var falling []float64
	for i := 0; i < 30; i++ {
		falling = append(falling, 100-float64(i))
	}
	down := RSI(makeBars(falling))
	if v, ok := down.Value(6); !ok || v != 0 {
		t.Errorf("单边下跌 RSI6 应为0, 实际 %.2f", v)
	}
	if down.Lines[0].Zone != "超卖" {
		t.Errorf("RSI=0 区间应为超卖, 实际 %s", down.Lines[0].Zone)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	r := RSI(makeBars(risingCloses(4)))
	if len(r.Lines) != 0 {
		t.Errorf("4根K线不应产生RSI, 实际 %d 条", len(r.Lines))
	}
}

func TestVolumeCombo(t *testing.T) {
	bars := makeBars(risingCloses(10))
	for i := range bars {
		bars[i].Volume = 10000
	}
	bars[len(bars)-1].Volume = 30000
	r := Volume(bars)
	if r.Status != "显著放量" {
		t.Errorf("3倍量应为显著放量, 实际 %s", r.Status)
	}
	if r.Combo != "放量上涨" {
		t.Errorf("放量+上涨应为放量上涨, 实际 %s", r.Combo)
	}

	// 缩量回调
	bars2 := makeBars([]float64{10, 10.1, 10.2, 10.3, 10.4, 10.5, 10.2})
	for i := range bars2 {
		bars2[i].Volume = 10000
	}
	bars2[len(bars2)-1].Volume = 4000
	r2 := Volume(bars2)
	if r2.Combo != "缩量回调" {
		t.Errorf("缩量+下跌应为缩量回调, 实际 %s", r2.Combo)
	}
}

func TestVolumeMA5IncludesCurrentBar(t *testing.T) {
	// 5日均量滚动窗口含当日: [100,100,100,100,100,200] -> MA5=120
	bars := makeBars(risingCloses(6))
	for i := range bars {
		bars[i].Volume = 100
	}
	bars[len(bars)-1].Volume = 200

	r := Volume(bars)
	if r.MA5 != 120 {
		t.Errorf("MA5 = %.2f, 期望 120", r.MA5)
	}
	if r.Ratio != 1.67 {
		t.Errorf("量比 = %.2f, 期望 1.67", r.Ratio)
	}
	if r.Status != "温和放量" {
		t.Errorf("量比1.67应为温和放量, 实际 %s", r.Status)
	}
}

func TestVolumeInsufficientHistory(t *testing.T) {
	if r := Volume(makeBars(risingCloses(3))); r.Valid {
		t.Error("3根K线不应产生量能分析")
	}
}

func TestScoreClamped(t *testing.T) {
	// 极端看多
	allBull := Score(
		MAResult{Price: 100, Lines: []MALine{
			{5, 90, true}, {10, 80, true}, {20, 70, true}, {60, 60, true},
		}, BullAlignment: true},
		MACDResult{Valid: true, GoldenCross: true, Trend: "多头"},
		KDJResult{Valid: true, GoldenCross: true, K: 10},
		BOLLResult{Valid: true, PositionPct: 5},
		RSIResult{Lines: []RSILine{{Period: 6, Value: 20, Zone: "偏弱"}}},
		VolumeResult{Valid: true, Combo: "放量上涨"},
	)
	if allBull.Score < 0 || allBull.Score > 100 {
		t.Errorf("评分越界: %.1f", allBull.Score)
	}
	if allBull.Rating != "强烈买入" {
		t.Errorf("极端看多应为强烈买入, 实际 %s (%.1f)", allBull.Rating, allBull.Score)
	}

	// 极端看空
	allBear := Score(
		MAResult{Price: 50, Lines: []MALine{
			{5, 60, false}, {10, 70, false}, {20, 80, false}, {60, 90, false},
		}},
		MACDResult{Valid: true, DeathCross: true, Trend: "空头"},
		KDJResult{Valid: true, K: 90},
		BOLLResult{Valid: true, PositionPct: 95},
		RSIResult{Lines: []RSILine{{Period: 6, Value: 85, Zone: "超买"}}},
		VolumeResult{Valid: true, Combo: "放量下跌"},
	)
	if allBear.Score < 0 || allBear.Score > 100 {
		t.Errorf("评分越界: %.1f", allBear.Score)
	}
	if allBear.Rating == "买入" || allBear.Rating == "强烈买入" {
		t.Errorf("极端看空不应给出买入评级: %s", allBear.Rating)
	}
}

func TestScoreNeutralOnEmptyInput(t *testing.T) {
	r := Score(MAResult{}, MACDResult{}, KDJResult{}, BOLLResult{}, RSIResult{}, VolumeResult{})
	if r.Score != 50 {
		t.Errorf("无指标输入应保持基准50, 实际 %.1f", r.Score)
	}
	if r.Rating != "中性" {
		t.Errorf("基准分应为中性评级, 实际 %s", r.Rating)
	}
}

func TestAnalyzeShortHistoryNoPanic(t *testing.T) {
	a := Analyze(makeBars(risingCloses(2)))
	if a.MACD.Valid || a.KDJ.Valid || a.BOLL.Valid || a.Volume.Valid {
		t.Error("2根K线不应产生任何有效指标")
	}
	if a.Score.Score != 50 {
		t.Errorf("数据不足时评分应为基准50, 实际 %.1f", a.Score.Score)
	}
}

func TestCandlestickHammer(t *testing.T) {
	closes := []float64{20, 19, 18, 17, 16, 15}
	bars := makeBars(closes)
	// 末根改造成锤子线：小实体长下影
	last := &bars[len(bars)-1]
	last.Open = 15.0
	last.Close = 15.2
	last.High = 15.25
	last.Low = 14.0

	patterns := Candlesticks(bars)
	foundHammer := false
	for _, p := range patterns {
		if p.Name == "锤子线" {
			foundHammer = true
			if p.Direction != "看涨" || p.Score != 10 {
				t.Errorf("锤子线应为看涨+10: %+v", p)
			}
		}
	}
	if !foundHammer {
		t.Error("下跌趋势中的长下影小实体应识别为锤子线")
	}
}

func TestCandlestickEngulfing(t *testing.T) {
	closes := []float64{10, 10.2, 10.1, 10.0, 9.9, 9.8}
	bars := makeBars(closes)
	n := len(bars)
	bars[n-2] = model.Bar{Open: 10.0, Close: 9.8, High: 10.1, Low: 9.7}
	bars[n-1] = model.Bar{Open: 9.7, Close: 10.2, High: 10.3, Low: 9.6}

	patterns := Candlesticks(bars)
	for _, p := range patterns {
		if p.Name == "吞没" {
			if p.Direction != "看涨" {
				t.Errorf("阳包阴应为看涨吞没: %+v", p)
			}
			return
		}
	}
	t.Error("未识别到吞没形态")
}

func TestCandlestickInsufficientHistory(t *testing.T) {
	if got := Candlesticks(makeBars(risingCloses(3))); got != nil {
		t.Errorf("3根K线不应识别形态, 实际 %d 个", len(got))
	}
}
