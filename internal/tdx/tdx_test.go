package tdx

import (
	"math"
	"testing"

	"astock-assistant/internal/model"
)

func TestNewTickDirectionAndAmount(t *testing.T) {
	tick := newTick("14:30", 10.0, 600, 0)
	if tick.Direction != "买入" {
		t.Errorf("方向 = %s, 期望 买入", tick.Direction)
	}
	// 600手 × 100股 × 10元 = 60万
	if tick.Amount != 600000 {
		t.Errorf("金额 = %.0f, 期望 600000", tick.Amount)
	}
	if !tick.Big {
		t.Error("60万成交应标记为大单")
	}

	small := newTick("14:31", 10.0, 400, 1)
	if small.Direction != "卖出" {
		t.Errorf("方向 = %s, 期望 卖出", small.Direction)
	}
	if small.Big {
		t.Error("40万成交不应标记为大单")
	}

	neutral := newTick("14:32", 10.0, 1, 2)
	if neutral.Direction != "中性" {
		t.Errorf("方向 = %s, 期望 中性", neutral.Direction)
	}
	if unknown := newTick("14:33", 10.0, 1, 9); unknown.Direction != "未知" {
		t.Errorf("非法方向码应为未知, 实际 %s", unknown.Direction)
	}
}

func TestBigOrders(t *testing.T) {
	ticks := []Tick{
		newTick("09:31", 10, 600, 0), // 大单买入 60万
		newTick("09:32", 10, 800, 1), // 大单卖出 80万
		newTick("09:33", 10, 100, 0), // 小单忽略
		newTick("09:34", 10, 500, 2), // 中性大单不计入买卖
	}
	flow := BigOrders(ticks)
	if flow.Buy != 600000 {
		t.Errorf("大单买入 = %.0f, 期望 600000", flow.Buy)
	}
	if flow.Sell != 800000 {
		t.Errorf("大单卖出 = %.0f, 期望 800000", flow.Sell)
	}
	if flow.Net != -200000 {
		t.Errorf("净流入 = %.0f, 期望 -200000", flow.Net)
	}
}

func TestChangePct(t *testing.T) {
	if got := changePct(11, 10); got != 10 {
		t.Errorf("涨幅 = %.2f, 期望 10", got)
	}
	if got := changePct(9.5, 10); got != -5 {
		t.Errorf("跌幅 = %.2f, 期望 -5", got)
	}
	if got := changePct(10, 0); got != 0 {
		t.Errorf("昨收为0时应返回0, 实际 %.2f", got)
	}
}

func TestFillChangePct(t *testing.T) {
	bars := []model.Bar{
		{Close: 10},
		{Close: 10.5},
		{Close: 10.29},
	}
	fillChangePct(bars)
	if bars[0].ChangePct != 0 {
		t.Errorf("首根涨跌幅应为0, 实际 %.2f", bars[0].ChangePct)
	}
	if math.Abs(bars[1].ChangePct-5.0) > 1e-9 {
		t.Errorf("第二根涨跌幅 = %.2f, 期望 5.0", bars[1].ChangePct)
	}
	if math.Abs(bars[2].ChangePct-(-2.0)) > 1e-9 {
		t.Errorf("第三根涨跌幅 = %.2f, 期望 -2.0", bars[2].ChangePct)
	}
}
