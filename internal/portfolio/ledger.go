package portfolio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"astock-assistant/internal/symbol"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const timeLayout = "2006-01-02 15:04:05"

// 业务规则错误：调用方打印提示后直接返回，账本不发生任何变化
var (
	ErrNoPosition = errors.New("没有该股票的持仓")
	ErrOversell   = errors.New("卖出数量超过持仓数量")
)

// Position 持仓记录
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     int     `json:"quantity"`
	AvgCost      float64 `json:"avg_cost"`
	FirstBuyDate string  `json:"first_buy_date"`
}

// TradeRecord 交易流水，追加后不再修改
type TradeRecord struct {
	Time      string   `json:"time"`
	Symbol    string   `json:"symbol"`
	Action    string   `json:"action"` // 买入/卖出
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Amount    float64  `json:"amount"`
	Profit    *float64 `json:"profit,omitempty"`
	ProfitPct *float64 `json:"profit_pct,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// document 账本文件结构，整体读入、改完整体重写
type document struct {
	Positions  map[string]Position `json:"positions"`
	History    []TradeRecord       `json:"history"`
	CashRecord []interface{}       `json:"cash_record"`
}

// Ledger JSON文件持仓账本
type Ledger struct {
	path string
	now  func() time.Time
}

// NewLedger 创建账本，文件不存在时首次写入自动创建
func NewLedger(path string) *Ledger {
	return &Ledger{path: path, now: time.Now}
}

func (l *Ledger) load() (*document, error) {
	doc := &document{
		Positions:  map[string]Position{},
		History:    []TradeRecord{},
		CashRecord: []interface{}{},
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("读取账本失败: %w", err)
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("解析账本失败: %w", err)
	}
	if doc.Positions == nil {
		doc.Positions = map[string]Position{}
	}
	return doc, nil
}

func (l *Ledger) save(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.path, raw, 0o644)
}

// Buy 买入。已有持仓时按数量加权摊薄成本，成本保留4位小数
func (l *Ledger) Buy(code string, price float64, qty int, note string) (*Position, error) {
	if qty <= 0 || price <= 0 {
		return nil, fmt.Errorf("价格和数量必须大于0")
	}
	code = symbol.Normalize(code)

	doc, err := l.load()
	if err != nil {
		return nil, err
	}

	now := l.now()
	pos, exists := doc.Positions[code]
	if exists {
		newQty := pos.Quantity + qty
		pos.AvgCost = round4((pos.AvgCost*float64(pos.Quantity) + price*float64(qty)) / float64(newQty))
		pos.Quantity = newQty
	} else {
		pos = Position{
			Symbol:       code,
			Quantity:     qty,
			AvgCost:      round4(price),
			FirstBuyDate: now.Format("2006-01-02"),
		}
	}
	doc.Positions[code] = pos

	doc.History = append(doc.History, TradeRecord{
		Time:     now.Format(timeLayout),
		Symbol:   code,
		Action:   "买入",
		Price:    price,
		Quantity: qty,
		Amount:   round2(price * float64(qty)),
		Note:     note,
	})

	if err := l.save(doc); err != nil {
		return nil, err
	}
	return &pos, nil
}

// SellResult 卖出结果
type SellResult struct {
	Profit    float64
	ProfitPct float64
	Remaining int
	Closed    bool // 清仓
}

// Sell 卖出。无持仓或超卖返回业务错误且不写任何记录；
// 数量减到0时删除持仓
func (l *Ledger) Sell(code string, price float64, qty int, note string) (*SellResult, error) {
	if qty <= 0 || price <= 0 {
		return nil, fmt.Errorf("价格和数量必须大于0")
	}
	code = symbol.Normalize(code)

	doc, err := l.load()
	if err != nil {
		return nil, err
	}

	pos, exists := doc.Positions[code]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoPosition, code)
	}
	if qty > pos.Quantity {
		return nil, fmt.Errorf("%w: 持有 %d 股, 试图卖出 %d 股", ErrOversell, pos.Quantity, qty)
	}

	profit := round2((price - pos.AvgCost) * float64(qty))
	profitPct := 0.0
	if pos.AvgCost > 0 {
		profitPct = round2((price - pos.AvgCost) / pos.AvgCost * 100)
	}

	result := &SellResult{Profit: profit, ProfitPct: profitPct}
	pos.Quantity -= qty
	if pos.Quantity == 0 {
		delete(doc.Positions, code)
		result.Closed = true
	} else {
		doc.Positions[code] = pos
		result.Remaining = pos.Quantity
	}

	doc.History = append(doc.History, TradeRecord{
		Time:      l.now().Format(timeLayout),
		Symbol:    code,
		Action:    "卖出",
		Price:     price,
		Quantity:  qty,
		Amount:    round2(price * float64(qty)),
		Profit:    &profit,
		ProfitPct: &profitPct,
		Note:      note,
	})

	if err := l.save(doc); err != nil {
		return nil, err
	}
	return result, nil
}

// Positions 当前全部持仓
func (l *Ledger) Positions() (map[string]Position, error) {
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	return doc.Positions, nil
}

// History 全部交易流水
func (l *Ledger) History() ([]TradeRecord, error) {
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	return doc.History, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
