package portfolio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"astock-assistant/internal/symbol"
)

// 东方财富交割单列名映射
var eastmoneyCols = map[string]string{
	"成交日期": "date",
	"证券代码": "code",
	"证券名称": "name",
	"买卖标志": "action",
	"成交价格": "price",
	"成交数量": "quantity",
	"成交金额": "amount",
}

// 通达信交割单列名映射
var tdxCols = map[string]string{
	"成交日期": "date",
	"成交时间": "time",
	"证券代码": "code",
	"证券名称": "name",
	"买卖标志": "action",
	"成交价格": "price",
	"成交数量": "quantity",
	"成交金额": "amount",
}

var (
	buyKeywords  = []string{"买入", "证券买入", "买", "融资买入", "担保品买入"}
	sellKeywords = []string{"卖出", "证券卖出", "卖", "融资卖出", "担保品卖出"}
)

// ImportRow 交割单中的一条标准化记录
type ImportRow struct {
	Date     string  `json:"date"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Action   string  `json:"action"` // 买入/卖出
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// ParseStatement 解析交割单 CSV，format 为 eastmoney 或 tdx。
// 自动识别 UTF-8/GBK 编码，无效行直接丢弃
func ParseStatement(path, format string) ([]ImportRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取交割单失败: %w", err)
	}
	raw = decodeToUTF8(raw)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV失败: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("交割单为空")
	}

	colMap := eastmoneyCols
	if format == "tdx" {
		colMap = tdxCols
	}

	// 表头列名映射，失败后按关键字模糊匹配
	fields := map[string]int{}
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if en, ok := colMap[h]; ok {
			fields[en] = i
			continue
		}
		switch {
		case strings.Contains(h, "代码"):
			fields["code"] = i
		case strings.Contains(h, "买卖") || strings.Contains(h, "操作"):
			fields["action"] = i
		case strings.Contains(h, "价格"):
			fields["price"] = i
		case strings.Contains(h, "数量"):
			fields["quantity"] = i
		}
	}

	for _, required := range []string{"code", "action", "price", "quantity"} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("交割单缺少必需列: %s", required)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := fields[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportRow
	for _, rec := range records[1:] {
		action := normalizeAction(cell(rec, "action"))
		if action != "买入" && action != "卖出" {
			continue
		}
		price, _ := strconv.ParseFloat(cell(rec, "price"), 64)
		qty, _ := strconv.Atoi(cell(rec, "quantity"))
		if price <= 0 || qty <= 0 {
			continue
		}
		amount, _ := strconv.ParseFloat(cell(rec, "amount"), 64)

		rows = append(rows, ImportRow{
			Date:     cell(rec, "date"),
			Code:     symbol.Normalize(cell(rec, "code")),
			Name:     cell(rec, "name"),
			Action:   action,
			Price:    price,
			Quantity: qty,
			Amount:   amount,
		})
	}
	return rows, nil
}

// ImportResult 导入结果
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportStatement 把交割单回放到账本。
// 按 日期-代码-价格-数量 去重，已存在的记录跳过；
// 卖出失败（无持仓/超卖）的行计入跳过并告警
func (l *Ledger) ImportStatement(path, format string) (*ImportResult, error) {
	rows, err := ParseStatement(path, format)
	if err != nil {
		return nil, err
	}

	history, err := l.History()
	if err != nil {
		return nil, err
	}
	existing := map[string]bool{}
	for _, rec := range history {
		existing[dedupKey(tradeDate(rec), rec.Symbol, rec.Price, rec.Quantity)] = true
	}

	result := &ImportResult{}
	for _, row := range rows {
		key := dedupKey(row.Date, row.Code, row.Price, row.Quantity)
		if existing[key] {
			result.Skipped++
			continue
		}

		note := importNotePrefix + row.Date
		if row.Action == "买入" {
			_, err = l.Buy(row.Code, row.Price, row.Quantity, note)
		} else {
			_, err = l.Sell(row.Code, row.Price, row.Quantity, note)
		}
		if err != nil {
			logrus.Warnf("导入 %s %s 失败: %v", row.Code, row.Action, err)
			result.Skipped++
			continue
		}
		existing[key] = true
		result.Imported++
	}
	return result, nil
}

const importNotePrefix = "交割单导入 "

func dedupKey(date, code string, price float64, qty int) string {
	return fmt.Sprintf("%s-%s-%g-%d", date, code, price, qty)
}

// tradeDate 取记录的成交日期。导入记录从备注还原交割单上的成交日期，
// 手工记录取落账时间的日期部分
func tradeDate(rec TradeRecord) string {
	if d, ok := strings.CutPrefix(rec.Note, importNotePrefix); ok && d != "" {
		return d
	}
	if len(rec.Time) >= 10 {
		return rec.Time[:10]
	}
	return rec.Time
}

func normalizeAction(s string) string {
	for _, kw := range buyKeywords {
		if strings.Contains(s, kw) {
			return "买入"
		}
	}
	for _, kw := range sellKeywords {
		if strings.Contains(s, kw) {
			return "卖出"
		}
	}
	return s
}

// decodeToUTF8 非合法 UTF-8 时按 GB18030 解码
func decodeToUTF8(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return raw
	}
	decoded, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return decoded
}
