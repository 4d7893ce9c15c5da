package portfolio

import "sort"

// QuoteFunc 行情查询回调，失败时返回 err，持仓估值回退到成本价
type QuoteFunc func(code string) (price float64, name string, err error)

// Holding 单只持仓的浮动盈亏视图
type Holding struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	AvgCost   float64 `json:"avg_cost"`
	Price     float64 `json:"price"`
	Value     float64 `json:"value"`
	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`
	PriceLive bool    `json:"price_live"` // false 表示行情缺失，按成本估值
}

// Summary 组合总览
type Summary struct {
	TotalCost   float64   `json:"total_cost"`
	TotalValue  float64   `json:"total_value"`
	TotalProfit float64   `json:"total_profit"`
	ProfitPct   float64   `json:"profit_pct"`
	Holdings    []Holding `json:"holdings"`
}

// Summary 汇总持仓市值和浮动盈亏
func (l *Ledger) Summary(quote QuoteFunc) (*Summary, error) {
	positions, err := l.Positions()
	if err != nil {
		return nil, err
	}

	s := &Summary{}
	for code, pos := range positions {
		h := Holding{
			Code:     code,
			Quantity: pos.Quantity,
			AvgCost:  pos.AvgCost,
			Price:    pos.AvgCost,
		}
		if quote != nil {
			if price, name, err := quote(code); err == nil && price > 0 {
				h.Price = price
				h.Name = name
				h.PriceLive = true
			}
		}

		cost := pos.AvgCost * float64(pos.Quantity)
		h.Value = round2(h.Price * float64(pos.Quantity))
		h.Profit = round2(h.Value - cost)
		if cost > 0 {
			h.ProfitPct = round2(h.Profit / cost * 100)
		}

		s.TotalCost += cost
		s.TotalValue += h.Value
		s.Holdings = append(s.Holdings, h)
	}

	s.TotalCost = round2(s.TotalCost)
	s.TotalValue = round2(s.TotalValue)
	s.TotalProfit = round2(s.TotalValue - s.TotalCost)
	if s.TotalCost > 0 {
		s.ProfitPct = round2(s.TotalProfit / s.TotalCost * 100)
	}

	sort.Slice(s.Holdings, func(i, j int) bool {
		return s.Holdings[i].Code < s.Holdings[j].Code
	})
	return s, nil
}

// PnLStats 已实现盈亏统计（只统计卖出流水）
type PnLStats struct {
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	TotalProfit float64 `json:"total_profit"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
	MaxWin      float64 `json:"max_win"`
	MaxLoss     float64 `json:"max_loss"`
	PLRatio     float64 `json:"pl_ratio"` // 平均盈利/平均亏损
}

// PnLStats 汇总全部卖出记录的已实现盈亏
func (l *Ledger) PnLStats() (*PnLStats, error) {
	history, err := l.History()
	if err != nil {
		return nil, err
	}

	stats := &PnLStats{}
	var winSum, lossSum float64
	for _, rec := range history {
		if rec.Action != "卖出" || rec.Profit == nil {
			continue
		}
		p := *rec.Profit
		stats.Trades++
		stats.TotalProfit += p
		if p > 0 {
			stats.Wins++
			winSum += p
			if p > stats.MaxWin {
				stats.MaxWin = p
			}
		} else if p < 0 {
			stats.Losses++
			lossSum += -p
			if -p > stats.MaxLoss {
				stats.MaxLoss = -p
			}
		}
	}

	if stats.Trades > 0 {
		stats.WinRate = round2(float64(stats.Wins) / float64(stats.Trades) * 100)
	}
	if stats.Wins > 0 {
		stats.AvgWin = round2(winSum / float64(stats.Wins))
	}
	if stats.Losses > 0 {
		stats.AvgLoss = round2(lossSum / float64(stats.Losses))
	}
	if stats.AvgLoss > 0 {
		stats.PLRatio = round2(stats.AvgWin / stats.AvgLoss)
	}
	stats.TotalProfit = round2(stats.TotalProfit)
	return stats, nil
}
