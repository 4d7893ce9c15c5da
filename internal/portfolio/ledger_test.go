package portfolio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(filepath.Join(t.TempDir(), "portfolio.json"))
	l.now = func() time.Time {
		return time.Date(2025, 6, 2, 10, 30, 0, 0, time.Local)
	}
	return l
}

func TestBuyAveraging(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.Buy("600519", 10.0, 100, ""); err != nil {
		t.Fatalf("首次买入失败: %v", err)
	}
	pos, err := l.Buy("600519", 20.0, 100, "")
	if err != nil {
		t.Fatalf("二次买入失败: %v", err)
	}

	if pos.Quantity != 200 {
		t.Errorf("数量 = %d, 期望 200", pos.Quantity)
	}
	if pos.AvgCost != 15.0 {
		t.Errorf("成本 = %.4f, 期望 15.0", pos.AvgCost)
	}

	history, _ := l.History()
	if len(history) != 2 {
		t.Errorf("应有2条流水, 实际 %d", len(history))
	}
	if history[0].Action != "买入" || history[0].Amount != 1000.0 {
		t.Errorf("首条流水异常: %+v", history[0])
	}
}

func TestOversellRejected(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Buy("600519", 10.0, 100, ""); err != nil {
		t.Fatalf("买入失败: %v", err)
	}

	_, err := l.Sell("600519", 12.0, 200, "")
	if !errors.Is(err, ErrOversell) {
		t.Fatalf("超卖应返回 ErrOversell, 实际 %v", err)
	}

	// 账本不应有任何变化
	positions, _ := l.Positions()
	if positions["600519"].Quantity != 100 {
		t.Errorf("超卖后持仓被改动: %+v", positions["600519"])
	}
	history, _ := l.History()
	if len(history) != 1 {
		t.Errorf("超卖不应追加流水, 实际 %d 条", len(history))
	}
}

func TestSellWithoutPosition(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Sell("000001", 10.0, 100, "")
	if !errors.Is(err, ErrNoPosition) {
		t.Errorf("无持仓卖出应返回 ErrNoPosition, 实际 %v", err)
	}
}

func TestFullExitDeletesPosition(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Buy("600519", 10.0, 100, ""); err != nil {
		t.Fatalf("买入失败: %v", err)
	}

	result, err := l.Sell("600519", 12.0, 100, "")
	if err != nil {
		t.Fatalf("清仓失败: %v", err)
	}
	if result.Profit != 200.0 {
		t.Errorf("盈利 = %.2f, 期望 200.0", result.Profit)
	}
	if result.ProfitPct != 20.0 {
		t.Errorf("盈利比例 = %.2f, 期望 20.0", result.ProfitPct)
	}
	if !result.Closed {
		t.Error("清仓后 Closed 应为 true")
	}

	positions, _ := l.Positions()
	if _, exists := positions["600519"]; exists {
		t.Error("清仓后持仓记录应被删除")
	}

	history, _ := l.History()
	last := history[len(history)-1]
	if last.Action != "卖出" || last.Profit == nil || *last.Profit != 200.0 {
		t.Errorf("卖出流水异常: %+v", last)
	}
}

func TestPartialSell(t *testing.T) {
	l := newTestLedger(t)
	l.Buy("600519", 10.0, 300, "")

	result, err := l.Sell("600519", 11.0, 100, "")
	if err != nil {
		t.Fatalf("部分卖出失败: %v", err)
	}
	if result.Closed || result.Remaining != 200 {
		t.Errorf("部分卖出后应剩余200股: %+v", result)
	}

	positions, _ := l.Positions()
	pos := positions["600519"]
	if pos.Quantity != 200 || pos.AvgCost != 10.0 {
		t.Errorf("部分卖出不应改变成本: %+v", pos)
	}
}

func TestSymbolNormalizedOnTrade(t *testing.T) {
	l := newTestLedger(t)
	l.Buy("sh600519", 10.0, 100, "")
	if _, err := l.Sell("600519.SH", 11.0, 100, ""); err != nil {
		t.Errorf("不同写法应命中同一持仓: %v", err)
	}
}

func TestSummaryWithQuoteFallback(t *testing.T) {
	l := newTestLedger(t)
	l.Buy("600519", 10.0, 100, "")
	l.Buy("000001", 20.0, 200, "")

	quote := func(code string) (float64, string, error) {
		if code == "600519" {
			return 12.0, "贵州茅台", nil
		}
		return 0, "", fmt.Errorf("无行情")
	}

	s, err := l.Summary(quote)
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	if len(s.Holdings) != 2 {
		t.Fatalf("应有2只持仓, 实际 %d", len(s.Holdings))
	}

	var live, fallback Holding
	for _, h := range s.Holdings {
		if h.Code == "600519" {
			live = h
		} else {
			fallback = h
		}
	}
	if !live.PriceLive || live.Profit != 200.0 {
		t.Errorf("有行情的持仓盈亏异常: %+v", live)
	}
	if fallback.PriceLive || fallback.Profit != 0 {
		t.Errorf("无行情的持仓应按成本估值: %+v", fallback)
	}
	if s.TotalValue != 12.0*100+20.0*200 {
		t.Errorf("总市值 = %.2f", s.TotalValue)
	}
}

func TestPnLStats(t *testing.T) {
	l := newTestLedger(t)
	l.Buy("600519", 10.0, 300, "")
	l.Sell("600519", 12.0, 100, "") // +200
	l.Sell("600519", 9.0, 100, "")  // -100
	l.Sell("600519", 13.0, 100, "") // +300

	stats, err := l.PnLStats()
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if stats.Trades != 3 || stats.Wins != 2 || stats.Losses != 1 {
		t.Errorf("次数统计异常: %+v", stats)
	}
	if stats.TotalProfit != 400.0 {
		t.Errorf("总盈亏 = %.2f, 期望 400", stats.TotalProfit)
	}
	if stats.WinRate != 66.67 {
		t.Errorf("胜率 = %.2f, 期望 66.67", stats.WinRate)
	}
	if stats.AvgWin != 250.0 || stats.AvgLoss != 100.0 || stats.PLRatio != 2.5 {
		t.Errorf("盈亏比统计异常: %+v", stats)
	}
	if stats.MaxWin != 300.0 || stats.MaxLoss != 100.0 {
		t.Errorf("极值统计异常: %+v", stats)
	}
}

func TestReviewFiltersTradesByDate(t *testing.T) {
	l := newTestLedger(t)
	l.Buy("600519", 10.0, 100, "")

	r, err := l.Review("2025-06-02", nil)
	if err != nil {
		t.Fatalf("复盘失败: %v", err)
	}
	if len(r.TodayTrades) != 1 || r.BuyCount != 1 {
		t.Errorf("当日交易应被统计: %+v", r)
	}

	other, _ := l.Review("2025-06-03", nil)
	if len(other.TodayTrades) != 0 {
		t.Errorf("非当日交易不应出现: %+v", other.TodayTrades)
	}
}

func TestImportStatement(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "statement.csv")
	content := "成交日期,证券代码,证券名称,买卖标志,成交价格,成交数量,成交金额\n" +
		"2025-06-02,600519,贵州茅台,证券买入,10.00,100,1000.00\n" +
		"2025-06-02,600519,贵州茅台,证券卖出,12.00,100,1200.00\n" +
		"2025-06-02,000001,平安银行,买入,0,100,0\n" // 无效价格，应被丢弃
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	l := newTestLedger(t)
	result, err := l.ImportStatement(csvPath, "eastmoney")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("应导入2条, 实际 %d", result.Imported)
	}

	// 重复导入应全部跳过
	again, err := l.ImportStatement(csvPath, "eastmoney")
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if again.Imported != 0 || again.Skipped != 2 {
		t.Errorf("重复导入应全部跳过: %+v", again)
	}
}

func TestImportStatementDedupByTradeDate(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "statement.csv")
	content := "成交日期,证券代码,证券名称,买卖标志,成交价格,成交数量,成交金额\n" +
		"2025-05-30,600519,贵州茅台,证券买入,10.00,100,1000.00\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// 落账时间晚于交割单上的成交日期
	l := newTestLedger(t)
	if _, err := l.ImportStatement(csvPath, "eastmoney"); err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	// 几天后再次导入同一份交割单，去重须按成交日期而非落账日期
	l.now = func() time.Time {
		return time.Date(2025, 6, 5, 10, 30, 0, 0, time.Local)
	}
	again, err := l.ImportStatement(csvPath, "eastmoney")
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if again.Imported != 0 || again.Skipped != 1 {
		t.Errorf("同一成交记录不应重复入账: %+v", again)
	}
}
