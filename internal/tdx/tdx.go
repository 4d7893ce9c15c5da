package tdx

import (
	"fmt"
	"math"

	"github.com/injoyai/tdx"
	"github.com/injoyai/tdx/protocol"
	"github.com/sirupsen/logrus"

	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/symbol"
)

// bigOrderAmount 大单金额阈值，元
const bigOrderAmount = 500000

// Manager 通达信行情连接池
type Manager struct {
	m *tdx.Manage
}

// Connect 建立通达信连接池，服务器由底层协议库自动选择
func Connect(clients int) (*Manager, error) {
	if clients <= 0 {
		clients = 1
	}
	m, err := tdx.NewManage(&tdx.ManageConfig{Number: clients})
	if err != nil {
		return nil, fmt.Errorf("连接通达信行情服务器失败: %w", err)
	}
	return &Manager{m: m}, nil
}

// tdxSymbol 通达信代码格式 sz000001/sh600519
func tdxSymbol(code string) string {
	return symbol.SinaSymbol(symbol.Normalize(code))
}

// MinuteKline 分钟级K线。period: 1min/5min/15min/30min/60min/daily/weekly/monthly
func (g *Manager) MinuteKline(code, period string, count int) ([]model.Bar, error) {
	sym := tdxSymbol(code)
	if count <= 0 {
		count = 48
	}

	var resp *protocol.KlineResp
	err := g.m.Do(func(c *tdx.Client) error {
		var err error
		switch period {
		case "1min":
			resp, err = c.GetKlineMinute(sym, 0, uint16(count))
		case "5min":
			resp, err = c.GetKline5Minute(sym, 0, uint16(count))
		case "15min":
			resp, err = c.GetKline15Minute(sym, 0, uint16(count))
		case "30min":
			resp, err = c.GetKline30Minute(sym, 0, uint16(count))
		case "60min":
			resp, err = c.GetKlineHour(sym, 0, uint16(count))
		case "daily":
			resp, err = c.GetKlineDay(sym, 0, uint16(count))
		case "weekly":
			resp, err = c.GetKlineWeek(sym, 0, uint16(count))
		case "monthly":
			resp, err = c.GetKlineMonth(sym, 0, uint16(count))
		default:
			err = fmt.Errorf("不支持的周期: %s", period)
		}
		return err
	})
	if err != nil {
		logrus.Warnf("获取 %s %s K线失败: %v", code, period, err)
		return nil, err
	}
	if resp == nil || len(resp.List) == 0 {
		return nil, nil
	}

	bars := make([]model.Bar, 0, len(resp.List))
	for _, k := range resp.List {
		bars = append(bars, model.Bar{
			Date:   k.Time.Format("2006-01-02 15:04"),
			Open:   k.Open.Float64(),
			Close:  k.Close.Float64(),
			High:   k.High.Float64(),
			Low:    k.Low.Float64(),
			Volume: float64(k.Volume),
			Amount: k.Amount.Float64(),
		})
	}
	fillChangePct(bars)
	return bars, nil
}

// Level 盘口单档
type Level struct {
	Price float64 `json:"price"`
	Lots  int64   `json:"lots"`
}

// OrderBook 五档盘口
type OrderBook struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"`
	Amount    float64 `json:"amount"`
	ChangePct float64 `json:"change_pct"`
	Bids      []Level `json:"bids"`
	Asks      []Level `json:"asks"`
}

// GetOrderBook 五档盘口快照
func (g *Manager) GetOrderBook(code string) (*OrderBook, error) {
	code = symbol.Normalize(code)

	var quotes protocol.QuotesResp
	err := g.m.Do(func(c *tdx.Client) error {
		var err error
		quotes, err = c.GetQuote(tdxSymbol(code))
		return err
	})
	if err != nil {
		logrus.Warnf("获取 %s 盘口失败: %v", code, err)
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("未获取到盘口: %s", code)
	}

	q := quotes[0]
	name, _ := stockdata.GetStockName(code)
	book := &OrderBook{
		Code:      code,
		Name:      name,
		Price:     q.K.Close.Float64(),
		PrevClose: q.K.Last.Float64(),
		Open:      q.K.Open.Float64(),
		High:      q.K.High.Float64(),
		Low:       q.K.Low.Float64(),
		Volume:    float64(q.TotalHand),
		Amount:    q.Amount,
	}
	book.ChangePct = changePct(book.Price, book.PrevClose)
	for _, lv := range q.BuyLevel {
		book.Bids = append(book.Bids, Level{Price: lv.Price.Float64(), Lots: int64(lv.Number)})
	}
	for _, lv := range q.SellLevel {
		book.Asks = append(book.Asks, Level{Price: lv.Price.Float64(), Lots: int64(lv.Number)})
	}
	return book, nil
}

// Tick 一笔分时成交
type Tick struct {
	Time      string  `json:"time"`
	Price     float64 `json:"price"`
	Lots      int     `json:"lots"`
	Direction string  `json:"direction"` // 买入/卖出/中性
	Amount    float64 `json:"amount"`
	Big       bool    `json:"big"` // 金额超过大单阈值
}

// TickData 最近 count 笔分时成交明细
func (g *Manager) TickData(code string, count int) ([]Tick, error) {
	if count <= 0 {
		count = 60
	}

	var resp *protocol.MinuteTradeResp
	err := g.m.Do(func(c *tdx.Client) error {
		var err error
		resp, err = c.GetMinuteTrade(tdxSymbol(code), 0, uint16(count))
		return err
	})
	if err != nil {
		logrus.Warnf("获取 %s 成交明细失败: %v", code, err)
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	ticks := make([]Tick, 0, len(resp.List))
	for _, t := range resp.List {
		ticks = append(ticks, newTick(t.Time, t.Price.Float64(), t.Volume, int(t.Status)))
	}
	return ticks, nil
}

// newTick 按手数与价格推算成交金额并标记大单
func newTick(tm string, price float64, lots, status int) Tick {
	direction := "未知"
	switch status {
	case 0:
		direction = "买入"
	case 1:
		direction = "卖出"
	case 2:
		direction = "中性"
	}
	amount := float64(lots) * 100 * price
	return Tick{
		Time:      tm,
		Price:     price,
		Lots:      lots,
		Direction: direction,
		Amount:    amount,
		Big:       amount >= bigOrderAmount,
	}
}

// BigOrderFlow 大单买卖金额与净流入统计
type BigOrderFlow struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
	Net  float64 `json:"net"`
}

// BigOrders 汇总大单资金流向
func BigOrders(ticks []Tick) BigOrderFlow {
	var flow BigOrderFlow
	for _, t := range ticks {
		if !t.Big {
			continue
		}
		switch t.Direction {
		case "买入":
			flow.Buy += t.Amount
		case "卖出":
			flow.Sell += t.Amount
		}
	}
	flow.Net = flow.Buy - flow.Sell
	return flow
}

// BatchQuotes 批量实时行情，含买一卖一
func (g *Manager) BatchQuotes(codes []string) ([]model.Quote, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	symbols := make([]string, 0, len(codes))
	for _, c := range codes {
		symbols = append(symbols, tdxSymbol(c))
	}

	var quotes protocol.QuotesResp
	err := g.m.Do(func(c *tdx.Client) error {
		var err error
		quotes, err = c.GetQuote(symbols...)
		return err
	})
	if err != nil {
		logrus.Warnf("批量行情获取失败: %v", err)
		return nil, err
	}

	var out []model.Quote
	for _, q := range quotes {
		price := q.K.Close.Float64()
		prev := q.K.Last.Float64()
		name, _ := stockdata.GetStockName(q.Code)
		out = append(out, model.Quote{
			Code:      q.Code,
			Name:      name,
			Price:     price,
			PrevClose: prev,
			Open:      q.K.Open.Float64(),
			High:      q.K.High.Float64(),
			Low:       q.K.Low.Float64(),
			Volume:    float64(q.TotalHand) * 100,
			Amount:    q.Amount,
			ChangePct: changePct(price, prev),
		})
	}
	return out, nil
}

// Close 断开全部连接
func (g *Manager) Close() error {
	return g.m.Close()
}

func changePct(price, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return math.Round((price-prev)/prev*100*100) / 100
}

func fillChangePct(bars []model.Bar) {
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close > 0 {
			pct := (bars[i].Close/bars[i-1].Close - 1) * 100
			bars[i].ChangePct = math.Round(pct*100) / 100
		}
	}
}
