package stockdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"astock-assistant/internal/model"
	"astock-assistant/internal/symbol"
)

// 新浪批量接口单次最多查询的代码数
const quoteBatchSize = 80

// 批次之间限速，避免被上游限流
var quoteLimiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 1)

// RealtimeQuotes 批量获取实时行情。按80只一批顺序请求，
// 失败的批次跳过，未取到的代码直接缺席，调用方需处理部分结果
func RealtimeQuotes(codes []string) []model.Quote {
	var quotes []model.Quote
	for i := 0; i < len(codes); i += quoteBatchSize {
		end := min(i+quoteBatchSize, len(codes))
		_ = quoteLimiter.Wait(context.Background())

		batch, err := fetchSinaQuotes(codes[i:end])
		if err != nil {
			logrus.Warnf("获取行情批次失败 [%d:%d]: %v", i, end, err)
			continue
		}
		quotes = append(quotes, batch...)
	}
	return quotes
}

// GetQuote 获取单只股票实时行情
func GetQuote(code string) (*model.Quote, error) {
	quotes := RealtimeQuotes([]string{code})
	if len(quotes) == 0 {
		return nil, fmt.Errorf("获取行情失败: %s", code)
	}
	return &quotes[0], nil
}

func fetchSinaQuotes(codes []string) ([]model.Quote, error) {
	symbols := make([]string, 0, len(codes))
	for _, c := range codes {
		symbols = append(symbols, symbol.SinaSymbol(c))
	}
	url := "https://hq.sinajs.cn/list=" + strings.Join(symbols, ",")

	body, err := fetchGBK(url, "https://finance.sina.com.cn")
	if err != nil {
		return nil, err
	}
	return parseSinaQuotes(string(body)), nil
}

// parseSinaQuotes 解析新浪行情响应
// 每行形如 var hq_str_sh600519="贵州茅台,1688.00,...";
func parseSinaQuotes(text string) []model.Quote {
	var quotes []model.Quote
	for _, line := range strings.Split(text, "\n") {
		q, ok := parseSinaQuoteLine(line)
		if ok {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

func parseSinaQuoteLine(line string) (*model.Quote, bool) {
	line = strings.TrimSpace(line)
	// 停牌或无效代码返回空串
	if line == "" || strings.Contains(line, `""`) || !strings.Contains(line, "=") {
		return nil, false
	}

	eq := strings.Index(line, "=")
	head := line[:eq]
	sym := head[strings.LastIndex(head, "_")+1:]
	if len(sym) < 6 {
		return nil, false
	}
	code := sym[len(sym)-6:]

	start := strings.Index(line, `"`)
	end := strings.LastIndex(line, `"`)
	if start < 0 || end <= start {
		return nil, false
	}

	fields := strings.Split(line[start+1:end], ",")
	if len(fields) < 32 {
		return nil, false
	}

	q := &model.Quote{
		Code:      code,
		Name:      fields[0],
		Open:      parseFloat(fields[1]),
		PrevClose: parseFloat(fields[2]),
		Price:     parseFloat(fields[3]),
		High:      parseFloat(fields[4]),
		Low:       parseFloat(fields[5]),
		Volume:    parseFloat(fields[8]),
		Amount:    parseFloat(fields[9]),
		Date:      fields[30],
		Time:      fields[31],
	}
	if q.PrevClose > 0 {
		q.ChangeAmt = q.Price - q.PrevClose
		q.ChangePct = (q.Price - q.PrevClose) / q.PrevClose * 100
	}
	return q, true
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
