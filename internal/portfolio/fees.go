package portfolio

import (
	"math"

	"astock-assistant/internal/symbol"
)

// A股交易费用费率
const (
	CommissionRate  = 0.00025 // 佣金 0.025%
	MinCommission   = 5.0     // 佣金最低5元
	StampTaxRate    = 0.0005  // 印花税 0.05%，仅卖出
	TransferFeeRate = 0.00001 // 过户费 0.001%，仅沪市
)

// Fees 单边交易费用明细
type Fees struct {
	Commission  float64 `json:"commission"`
	StampTax    float64 `json:"stamp_tax"`
	TransferFee float64 `json:"transfer_fee"`
	Total       float64 `json:"total"`
}

// CostResult 一笔买入加目标卖出的完整成本核算
type CostResult struct {
	Code       string  `json:"code"`
	BuyPrice   float64 `json:"buy_price"`
	SellPrice  float64 `json:"sell_price"`
	Quantity   int     `json:"quantity"`
	BuyCost    float64 `json:"buy_cost"` // 含费用的买入总成本
	BuyFees    Fees    `json:"buy_fees"`
	SellIncome float64 `json:"sell_income"` // 扣除费用的卖出净收入
	SellFees   Fees    `json:"sell_fees"`
	Profit     float64 `json:"profit"`
	ProfitPct  float64 `json:"profit_pct"`
	Breakeven  float64 `json:"breakeven"` // 保本卖出价
}

// BuyFees 买入费用：佣金 + 沪市过户费
func BuyFees(price float64, quantity int, isSH bool) Fees {
	amount := price * float64(quantity)
	commission := math.Max(amount*CommissionRate, MinCommission)
	transfer := 0.0
	if isSH {
		transfer = amount * TransferFeeRate
	}
	return Fees{
		Commission:  round2(commission),
		TransferFee: round2(transfer),
		Total:       round2(commission + transfer),
	}
}

// SellFees 卖出费用：佣金 + 印花税 + 沪市过户费
func SellFees(price float64, quantity int, isSH bool) Fees {
	amount := price * float64(quantity)
	commission := math.Max(amount*CommissionRate, MinCommission)
	stamp := amount * StampTaxRate
	transfer := 0.0
	if isSH {
		transfer = amount * TransferFeeRate
	}
	return Fees{
		Commission:  round2(commission),
		StampTax:    round2(stamp),
		TransferFee: round2(transfer),
		Total:       round2(commission + stamp + transfer),
	}
}

// SimulateCost 按买入价、目标卖出价和数量核算含费盈亏与保本价
func SimulateCost(code string, buyPrice, sellPrice float64, quantity int) *CostResult {
	code = symbol.Normalize(code)
	isSH := symbol.TdxMarket(code) == 1

	buyAmount := buyPrice * float64(quantity)
	buyFees := BuyFees(buyPrice, quantity, isSH)
	buyCost := buyAmount + buyFees.Total

	sellAmount := sellPrice * float64(quantity)
	sellFees := SellFees(sellPrice, quantity, isSH)
	sellIncome := sellAmount - sellFees.Total

	profit := sellIncome - buyCost
	profitPct := 0.0
	if buyCost > 0 {
		profitPct = profit / buyCost * 100
	}

	return &CostResult{
		Code:       code,
		BuyPrice:   buyPrice,
		SellPrice:  sellPrice,
		Quantity:   quantity,
		BuyCost:    round2(buyCost),
		BuyFees:    buyFees,
		SellIncome: round2(sellIncome),
		SellFees:   sellFees,
		Profit:     round2(profit),
		ProfitPct:  round2(profitPct),
		Breakeven:  breakevenPrice(buyCost, quantity, isSH),
	}
}

// breakevenPrice 卖出净收入恰好覆盖买入成本的价格，按分向上取整
func breakevenPrice(buyCost float64, quantity int, isSH bool) float64 {
	if quantity <= 0 {
		return 0
	}
	rate := CommissionRate + StampTaxRate
	if isSH {
		rate += TransferFeeRate
	}

	// 先按比例费用解出，再校验最低佣金的情况
	price := buyCost / (float64(quantity) * (1 - rate))
	if price*float64(quantity)*CommissionRate < MinCommission {
		extra := rate - CommissionRate
		price = (buyCost + MinCommission) / (float64(quantity) * (1 - extra))
	}
	return math.Ceil(price*100) / 100
}
