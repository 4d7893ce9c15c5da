package screener

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"astock-assistant/internal/indicator"
	"astock-assistant/internal/model"
	"astock-assistant/internal/sentiment"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/symbol"
)

// 逐票计算指标较慢，基础筛选后按成交额截取候选集
const maxCandidates = 80

// Filters 基础行情筛选条件，nil 表示不限制
type Filters struct {
	ChangeMin   *float64
	ChangeMax   *float64
	TurnoverMin *float64
	TurnoverMax *float64
	PriceMin    *float64
	PriceMax    *float64
	PEMax       *float64
}

// Preset 预设选股策略
type Preset struct {
	Key         string
	Name        string
	Description string
	Advanced    bool
	Filters     Filters
}

func f(v float64) *float64 { return &v }

// Presets 全部预设策略，按推荐顺序排列
var Presets = []Preset{
	{
		Key: "short_term", Name: "短线强势股",
		Description: "涨幅 1-7%，活跃的短线标的",
		Filters:     Filters{ChangeMin: f(1.0), ChangeMax: f(7.0)},
	},
	{
		Key: "oversold_bounce", Name: "超跌反弹",
		Description: "跌幅较大后出现企稳信号，适合短线抢反弹",
		Filters:     Filters{ChangeMin: f(-5.0), ChangeMax: f(-1.0)},
	},
	{
		Key: "volume_breakout", Name: "放量突破",
		Description: "涨幅较大 + 成交量活跃",
		Filters:     Filters{ChangeMin: f(3.0), ChangeMax: f(9.0)},
	},
	{
		Key: "leader_first_board", Name: "龙头首板",
		Description: "接近涨停 + 合理换手 + 价格区间过滤（降级版）",
		Advanced:    true,
		Filters: Filters{
			ChangeMin: f(9.5), TurnoverMin: f(5.0), TurnoverMax: f(25.0),
			PriceMin: f(3.0), PriceMax: f(100.0),
		},
	},
	{
		Key: "trend_pullback", Name: "趋势强股低吸",
		Description: "趋势向上 + 回踩 MA10 附近 + RSI 适中",
		Advanced:    true,
		Filters: Filters{
			ChangeMin: f(-3.0), ChangeMax: f(5.0),
			PriceMin: f(3.0), PriceMax: f(100.0),
		},
	},
	{
		Key: "ice_reversal", Name: "冰点反转",
		Description: "仅在情绪冰点时启用：超跌 + 放量 + 接近下轨",
		Advanced:    true,
		Filters:     Filters{ChangeMax: f(-2.0), PriceMin: f(2.0)},
	},
}

// FindPreset 按键名查找预设
func FindPreset(key string) (*Preset, bool) {
	for i := range Presets {
		if Presets[i].Key == key {
			return &Presets[i], true
		}
	}
	return nil, false
}

// loadSpot 取全市场快照并执行统一预筛
func loadSpot() ([]model.Quote, error) {
	spot, err := stockdata.AllSpot()
	if err != nil {
		return nil, err
	}
	return excludeSpecial(spot), nil
}

// excludeSpecial 剔除ST股和非主板股票
func excludeSpecial(quotes []model.Quote) []model.Quote {
	var out []model.Quote
	for _, q := range quotes {
		if symbol.IsST(q.Name) || !symbol.IsMainBoard(q.Code) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Apply 对快照执行基础筛选
func (flt Filters) Apply(quotes []model.Quote) []model.Quote {
	var out []model.Quote
	for _, q := range quotes {
		if flt.ChangeMin != nil && q.ChangePct < *flt.ChangeMin {
			continue
		}
		if flt.ChangeMax != nil && q.ChangePct > *flt.ChangeMax {
			continue
		}
		if flt.TurnoverMin != nil && q.Turnover < *flt.TurnoverMin {
			continue
		}
		if flt.TurnoverMax != nil && q.Turnover > *flt.TurnoverMax {
			continue
		}
		if flt.PriceMin != nil && q.Price < *flt.PriceMin {
			continue
		}
		if flt.PriceMax != nil && q.Price > *flt.PriceMax {
			continue
		}
		if flt.PEMax != nil && (q.PE <= 0 || q.PE > *flt.PEMax) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// RunPreset 执行预设策略，返回至多 count 只股票
func RunPreset(key string, count int) ([]model.Quote, error) {
	preset, ok := FindPreset(key)
	if !ok {
		return nil, fmt.Errorf("不存在的预设: %s", key)
	}

	if preset.Advanced {
		switch preset.Key {
		case "leader_first_board":
			return runLeaderFirstBoard(preset, count)
		case "trend_pullback":
			return runTrendPullback(preset, count)
		case "ice_reversal":
			return runIceReversal(preset, count)
		}
	}

	spot, err := loadSpot()
	if err != nil {
		return nil, err
	}
	result := preset.Filters.Apply(spot)
	sortByChangeDesc(result)
	return head(result, count), nil
}

// CustomOptions 自定义选股条件
type CustomOptions struct {
	Filters         Filters
	MACDGoldenCross bool
	AboveMA         int // 0 表示不要求
}

// RunCustom 自定义条件选股
func RunCustom(opts CustomOptions, count int) ([]model.Quote, error) {
	spot, err := loadSpot()
	if err != nil {
		return nil, err
	}
	result := opts.Filters.Apply(spot)

	if opts.MACDGoldenCross || opts.AboveMA > 0 {
		sortByChangeDesc(result)
		result = head(result, 50)
		result = screenWithTechnical(result, opts.MACDGoldenCross, opts.AboveMA)
	}

	sortByChangeDesc(result)
	return head(result, count), nil
}

// screenWithTechnical 附加技术面筛选，逐票取K线计算
func screenWithTechnical(quotes []model.Quote, requireGolden bool, aboveMA int) []model.Quote {
	var qualified []model.Quote
	for _, q := range quotes {
		bars, err := stockdata.GetDailyBars(q.Code, 60)
		if err != nil || len(bars) < 30 {
			continue
		}

		if requireGolden {
			macd := indicator.MACD(bars)
			if !macd.GoldenCross && macd.Trend != "多头" {
				continue
			}
		}

		if aboveMA > 0 {
			ma := indicator.MA(bars, aboveMA)
			if v, ok := ma.Value(aboveMA); !ok || ma.Price <= v {
				continue
			}
		}

		qualified = append(qualified, q)
	}
	return qualified
}

// runLeaderFirstBoard 龙头首板：纯基础筛选，按涨幅降序
func runLeaderFirstBoard(preset *Preset, count int) ([]model.Quote, error) {
	spot, err := loadSpot()
	if err != nil {
		return nil, err
	}
	result := preset.Filters.Apply(spot)
	sortByChangeDesc(result)
	return head(result, count), nil
}

// runTrendPullback 趋势强股低吸：上升趋势 + 回踩MA10 + RSI适中 + 近期有涨停基因 + 阳线
func runTrendPullback(preset *Preset, count int) ([]model.Quote, error) {
	spot, err := loadSpot()
	if err != nil {
		return nil, err
	}
	candidates := selectCandidates(preset.Filters.Apply(spot))

	var qualified []model.Quote
	for _, q := range candidates {
		bars, err := stockdata.GetDailyBars(q.Code, 120)
		if err != nil || len(bars) < 60 {
			continue
		}

		ma := indicator.MA(bars, 10, 20, 60)
		cur := ma.Price
		ma10, ok10 := ma.Value(10)
		ma20, ok20 := ma.Value(20)
		ma60, ok60 := ma.Value(60)
		if !ok10 || !ok20 || !ok60 {
			continue
		}
		if !(cur > ma20 && cur > ma60 && ma20 > ma60) {
			continue
		}
		if ma10 <= 0 || math.Abs(cur-ma10)/ma10 > 0.02 {
			continue
		}

		rsi := indicator.RSI(bars, 6)
		rsi6, ok := rsi.Value(6)
		if !ok || rsi6 < 30 || rsi6 > 60 {
			continue
		}

		// 近20日出现过接近涨停的大阳线
		if maxChangePct(bars, 20) < 9.5 {
			continue
		}

		if !hasBullishPattern(bars) {
			continue
		}

		qualified = append(qualified, q)
		if len(qualified) >= count {
			break
		}
	}
	return qualified, nil
}

// runIceReversal 冰点反转：仅在情绪分低于25时启用
func runIceReversal(preset *Preset, count int) ([]model.Quote, error) {
	score, err := sentiment.CurrentScore()
	if err != nil {
		return nil, err
	}
	if score.Value >= 25 {
		logrus.Infof("当前情绪分 %d，非冰点，冰点反转策略暂不启用", score.Value)
		return nil, nil
	}

	spot, err := loadSpot()
	if err != nil {
		return nil, err
	}
	result := preset.Filters.Apply(spot)
	sort.Slice(result, func(i, j int) bool {
		return result[i].ChangePct < result[j].ChangePct
	})
	candidates := selectCandidates(result)

	var qualified []model.Quote
	for _, q := range candidates {
		bars, err := stockdata.GetDailyBars(q.Code, 60)
		if err != nil || len(bars) < 20 {
			continue
		}

		// 5日累计跌幅超过10%
		n := len(bars)
		if bars[n-6].Close <= 0 {
			continue
		}
		pct5 := (bars[n-1].Close/bars[n-6].Close - 1) * 100
		if pct5 > -10 {
			continue
		}

		// 今日放量
		if bars[n-2].Volume > 0 && bars[n-1].Volume <= bars[n-2].Volume*1.3 {
			continue
		}

		boll := indicator.BOLL(bars)
		if !boll.Valid || boll.PositionPct > 30 {
			continue
		}

		if !hasBullishPattern(bars) {
			continue
		}

		qualified = append(qualified, q)
		if len(qualified) >= count {
			break
		}
	}
	return qualified, nil
}

// selectCandidates 按成交额降序截取候选集
func selectCandidates(quotes []model.Quote) []model.Quote {
	sorted := make([]model.Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	return head(sorted, maxCandidates)
}

func hasBullishPattern(bars []model.Bar) bool {
	for _, p := range indicator.Candlesticks(bars) {
		if p.Direction == "看涨" {
			return true
		}
	}
	return false
}

func maxChangePct(bars []model.Bar, lookback int) float64 {
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	maxPct := math.Inf(-1)
	for _, b := range bars[start:] {
		if b.ChangePct > maxPct {
			maxPct = b.ChangePct
		}
	}
	return maxPct
}

func sortByChangeDesc(quotes []model.Quote) {
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].ChangePct > quotes[j].ChangePct
	})
}

func head(quotes []model.Quote, n int) []model.Quote {
	if n > 0 && len(quotes) > n {
		return quotes[:n]
	}
	return quotes
}
