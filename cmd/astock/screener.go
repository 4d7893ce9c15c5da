package main

import (
	"flag"
	"fmt"
	"os"

	"astock-assistant/internal/format"
	"astock-assistant/internal/model"
	"astock-assistant/internal/screener"
	"astock-assistant/internal/sentiment"
)

// runScreener 条件选股
func runScreener(args []string) error {
	fs := flag.NewFlagSet("screener", flag.ExitOnError)
	count := fs.Int("count", 20, "结果数量")
	changeMin := fs.Float64("change-min", 0, "最小涨幅(%)")
	changeMax := fs.Float64("change-max", 0, "最大涨幅(%)")
	turnoverMin := fs.Float64("turnover-min", 0, "最小换手率(%)")
	turnoverMax := fs.Float64("turnover-max", 0, "最大换手率(%)")
	priceMin := fs.Float64("price-min", 0, "最低价格")
	priceMax := fs.Float64("price-max", 0, "最高价格")
	peMax := fs.Float64("pe-max", 0, "最大市盈率")
	golden := fs.Bool("macd-golden", false, "要求MACD金叉")
	aboveMA := fs.Int("above-ma", 0, "要求站上N日均线")
	fs.Parse(args)

	if fs.NArg() == 0 {
		p := format.NewPrinter(os.Stdout)
		p.Header("预设选股策略")
		for _, preset := range screener.Presets {
			tag := ""
			if preset.Advanced {
				tag = " [深度]"
			}
			p.Line("%-14s %s%s", preset.Key, preset.Name, tag)
			p.Line("               %s", preset.Description)
		}
		p.Line("")
		p.Line("用法: astock screener <预设key> 或 astock screener custom [条件参数]")
		return nil
	}

	key := fs.Arg(0)
	var (
		quotes []model.Quote
		title  string
		err    error
	)
	if key == "custom" {
		opts := screener.CustomOptions{
			MACDGoldenCross: *golden,
			AboveMA:         *aboveMA,
		}
		opts.Filters = customFilters(*changeMin, *changeMax, *turnoverMin, *turnoverMax, *priceMin, *priceMax, *peMax)
		quotes, err = screener.RunCustom(opts, *count)
		title = "自定义选股"
	} else {
		preset, ok := screener.FindPreset(key)
		if !ok {
			return fmt.Errorf("未知的预设策略: %s", key)
		}
		quotes, err = screener.RunPreset(key, *count)
		title = preset.Name
	}
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("选股结果: %s", title))
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, []string{
			fmt.Sprintf("%s %s", q.Code, q.Name),
			fmt.Sprintf("%.2f", q.Price),
			format.Percent(q.ChangePct),
			fmt.Sprintf("%.2f%%", q.Turnover),
			format.Number(q.Amount, 2),
		})
	}
	p.Table([]string{"名称", "现价", "涨跌幅", "换手率", "成交额"}, rows, *count)
	return nil
}

func customFilters(changeMin, changeMax, turnoverMin, turnoverMax, priceMin, priceMax, peMax float64) screener.Filters {
	var flt screener.Filters
	if changeMin != 0 {
		flt.ChangeMin = &changeMin
	}
	if changeMax != 0 {
		flt.ChangeMax = &changeMax
	}
	if turnoverMin != 0 {
		flt.TurnoverMin = &turnoverMin
	}
	if turnoverMax != 0 {
		flt.TurnoverMax = &turnoverMax
	}
	if priceMin != 0 {
		flt.PriceMin = &priceMin
	}
	if priceMax != 0 {
		flt.PriceMax = &priceMax
	}
	if peMax != 0 {
		flt.PEMax = &peMax
	}
	return flt
}

// runSentiment 市场情绪仪表盘
func runSentiment(args []string) error {
	fs := flag.NewFlagSet("sentiment", flag.ExitOnError)
	fs.Parse(args)

	dash, err := sentiment.GetDashboard()
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("市场情绪仪表盘")

	p.Section("主要指数")
	p.Table([]string{"名称", "点位", "涨跌幅"}, quoteRows(dash.Indices, false), 0)

	b := dash.Breadth
	p.Section("市场宽度")
	p.KV("涨/跌/平", fmt.Sprintf("%d / %d / %d", b.Up, b.Down, b.Flat))
	p.KV("涨停/跌停", fmt.Sprintf("%d / %d", b.LimitUp, b.LimitDown))
	if b.StreakHeight > 0 {
		p.KV("连板高度", fmt.Sprintf("%d板", b.StreakHeight))
	}
	p.KV("赚钱效应", fmt.Sprintf("%.1f%%", b.MoneyEffect))

	s := dash.Score
	p.Section("情绪评分")
	p.KV("评分", fmt.Sprintf("%d / 100（%s）", s.Value, s.Level))
	p.KV("操作建议", s.Advice)
	p.KV("建议仓位", fmt.Sprintf("%d%%", s.PositionPct))

	if len(dash.HotSectors) > 0 {
		p.Section("热点板块")
		rows := make([][]string, 0, len(dash.HotSectors))
		for _, sec := range dash.HotSectors {
			rows = append(rows, []string{sec.Name, format.Percent(sec.ChangePct), sec.LeadStock})
		}
		p.Table([]string{"板块", "涨跌幅", "领涨股"}, rows, 10)
	}
	return nil
}
