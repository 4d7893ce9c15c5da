package portfolio

import (
	"testing"
)

func TestBuyFeesMinCommission(t *testing.T) {
	// 1000元的买入，按费率佣金不足5元，应取最低佣金
	fees := BuyFees(10, 100, false)
	if fees.Commission != 5 {
		t.Errorf("佣金 = %.2f, 期望最低佣金 5", fees.Commission)
	}
	if fees.StampTax != 0 {
		t.Error("买入不应收印花税")
	}
	if fees.TransferFee != 0 {
		t.Error("深市不应收过户费")
	}
}

func TestSellFees(t *testing.T) {
	// 100万的沪市卖出
	fees := SellFees(100, 10000, true)
	if fees.Commission != 250 {
		t.Errorf("佣金 = %.2f, 期望 250", fees.Commission)
	}
	if fees.StampTax != 500 {
		t.Errorf("印花税 = %.2f, 期望 500", fees.StampTax)
	}
	if fees.TransferFee != 10 {
		t.Errorf("过户费 = %.2f, 期望 10", fees.TransferFee)
	}
	if fees.Total != 760 {
		t.Errorf("费用合计 = %.2f, 期望 760", fees.Total)
	}
}

func TestSimulateCost(t *testing.T) {
	// 沪市: 买10元1000股，卖11元
	r := SimulateCost("600519", 10, 11, 1000)

	// 买入: 10000 + 佣金5(最低) + 过户费0.1 = 10005.10
	if r.BuyCost != 10005.10 {
		t.Errorf("买入成本 = %.2f, 期望 10005.10", r.BuyCost)
	}
	// 卖出: 11000 - 佣金5 - 印花税5.5 - 过户费0.11 = 10989.39
	if r.SellIncome != 10989.39 {
		t.Errorf("卖出净收入 = %.2f, 期望 10989.39", r.SellIncome)
	}
	if r.Profit != 984.29 {
		t.Errorf("盈亏 = %.2f, 期望 984.29", r.Profit)
	}
	if r.Breakeven <= r.BuyPrice {
		t.Errorf("保本价 %.2f 应高于买入价 %.2f", r.Breakeven, r.BuyPrice)
	}
}

func TestBreakevenCoversCost(t *testing.T) {
	r := SimulateCost("000001", 10, 10, 1000)
	// 以保本价卖出应不亏损
	check := SimulateCost("000001", 10, r.Breakeven, 1000)
	if check.Profit < 0 {
		t.Errorf("以保本价 %.2f 卖出仍亏损 %.2f", r.Breakeven, check.Profit)
	}
}
