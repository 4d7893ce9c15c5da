package portfolio

import "strings"

// Review 每日复盘报告的数据部分，指数行情由展示层自行补充
type Review struct {
	Date        string        `json:"date"`
	Summary     *Summary      `json:"summary"`
	TodayTrades []TradeRecord `json:"today_trades"`
	WinCount    int           `json:"win_count"`
	LossCount   int           `json:"loss_count"`
	BuyCount    int           `json:"buy_count"`
	SellCount   int           `json:"sell_count"`
}

// Review 生成指定日期的复盘数据，date 为空时取当天
func (l *Ledger) Review(date string, quote QuoteFunc) (*Review, error) {
	if date == "" {
		date = l.now().Format("2006-01-02")
	}

	summary, err := l.Summary(quote)
	if err != nil {
		return nil, err
	}

	history, err := l.History()
	if err != nil {
		return nil, err
	}

	r := &Review{Date: date, Summary: summary}
	for _, rec := range history {
		if !strings.HasPrefix(rec.Time, date) {
			continue
		}
		r.TodayTrades = append(r.TodayTrades, rec)
		if rec.Action == "买入" {
			r.BuyCount++
		} else if rec.Action == "卖出" {
			r.SellCount++
		}
	}

	for _, h := range summary.Holdings {
		if h.Profit > 0 {
			r.WinCount++
		} else if h.Profit < 0 {
			r.LossCount++
		}
	}
	return r, nil
}
