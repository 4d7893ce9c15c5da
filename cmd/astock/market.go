package main

import (
	"flag"
	"fmt"
	"os"

	"astock-assistant/internal/format"
	"astock-assistant/internal/indicator"
	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
)

// runMarket 市场概览：指数 + 涨跌幅榜
func runMarket(args []string) error {
	fs := flag.NewFlagSet("market", flag.ExitOnError)
	count := fs.Int("count", 10, "榜单数量")
	fs.Parse(args)

	p := format.NewPrinter(os.Stdout)
	p.Header("市场概览")

	p.Section("主要指数")
	indexRows := quoteRows(stockdata.IndexQuotes(), false)
	p.Table([]string{"名称", "点位", "涨跌幅"}, indexRows, 0)

	gainers, err := stockdata.TopGainers(*count)
	if err != nil {
		return err
	}
	p.Section("涨幅榜")
	p.Table([]string{"名称", "现价", "涨跌幅", "成交额"}, quoteRows(gainers, true), *count)

	losers, err := stockdata.TopLosers(*count)
	if err != nil {
		return err
	}
	p.Section("跌幅榜")
	p.Table([]string{"名称", "现价", "涨跌幅", "成交额"}, quoteRows(losers, true), *count)
	return nil
}

func quoteRows(quotes []model.Quote, withAmount bool) [][]string {
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		row := []string{
			fmt.Sprintf("%s %s", q.Code, q.Name),
			fmt.Sprintf("%.2f", q.Price),
			format.Percent(q.ChangePct),
		}
		if withAmount {
			row = append(row, format.Number(q.Amount, 2))
		}
		rows = append(rows, row)
	}
	return rows
}

// runQuote 个股实时行情
func runQuote(args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock quote <代码>...")
	}

	p := format.NewPrinter(os.Stdout)
	for _, code := range fs.Args() {
		q, err := stockdata.GetQuote(code)
		if err != nil {
			return err
		}
		p.Header(fmt.Sprintf("%s %s", q.Code, q.Name))
		p.KV("现价", fmt.Sprintf("%s (%s)", format.Price(q.Price), format.Percent(q.ChangePct)))
		p.KV("今开/昨收", fmt.Sprintf("%.2f / %.2f", q.Open, q.PrevClose))
		p.KV("最高/最低", fmt.Sprintf("%.2f / %.2f", q.High, q.Low))
		p.KV("成交量", format.Number(q.Volume/100, 2)+"手")
		p.KV("成交额", format.Number(q.Amount, 2))
		if q.Turnover > 0 {
			p.KV("换手率", fmt.Sprintf("%.2f%%", q.Turnover))
		}
		if q.PE > 0 {
			p.KV("市盈率", fmt.Sprintf("%.2f", q.PE))
		}
	}
	return nil
}

// runKline 历史K线
func runKline(args []string) error {
	fs := flag.NewFlagSet("kline", flag.ExitOnError)
	period := fs.String("period", "daily", "周期: daily/weekly/monthly")
	count := fs.Int("count", 20, "显示条数")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock kline [-period daily] [-count 20] <代码>")
	}

	resp, err := stockdata.GetKline(fs.Arg(0), *period, *count)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s K线（%s）", resp.Code, resp.Name, resp.Period))
	rows := make([][]string, 0, len(resp.Data))
	for _, b := range resp.Data {
		rows = append(rows, []string{
			b.Date,
			fmt.Sprintf("%.2f", b.Open),
			fmt.Sprintf("%.2f", b.Close),
			fmt.Sprintf("%.2f", b.High),
			fmt.Sprintf("%.2f", b.Low),
			format.Percent(b.ChangePct),
			format.Number(b.Volume/100, 1) + "手",
		})
	}
	p.Table([]string{"日期", "开盘", "收盘", "最高", "最低", "涨跌幅", "成交量"}, rows, *count)
	return nil
}

// runTechnical 技术指标分析报告
func runTechnical(args []string) error {
	fs := flag.NewFlagSet("technical", flag.ExitOnError)
	count := fs.Int("count", 120, "分析用的K线数量")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock technical <代码>")
	}
	code := fs.Arg(0)

	q, err := stockdata.GetQuote(code)
	if err != nil {
		return err
	}
	bars, err := stockdata.GetDailyBars(code, *count)
	if err != nil {
		return err
	}
	a := indicator.Analyze(bars)

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s 技术分析", q.Code, q.Name))
	p.KV("现价", fmt.Sprintf("%s (%s)", format.Price(q.Price), format.Percent(q.ChangePct)))

	p.Section("均线系统")
	for _, line := range a.MA.Lines {
		mark := "↓"
		if line.Bullish {
			mark = "↑"
		}
		p.Line("MA%-3d %8.2f  %s", line.Period, line.Value, mark)
	}
	if a.MA.BullAlignment {
		p.Line("均线多头排列")
	}

	if a.MACD.Valid {
		p.Section("MACD")
		p.KV("DIF/DEA", fmt.Sprintf("%.4f / %.4f", a.MACD.DIF, a.MACD.DEA))
		p.KV("柱状图", fmt.Sprintf("%.4f（%s）", a.MACD.Hist, a.MACD.Trend))
		if a.MACD.GoldenCross {
			p.Line("※ 金叉")
		} else if a.MACD.DeathCross {
			p.Line("※ 死叉")
		}
	}

	if a.KDJ.Valid {
		p.Section("KDJ")
		p.KV("K/D/J", fmt.Sprintf("%.2f / %.2f / %.2f", a.KDJ.K, a.KDJ.D, a.KDJ.J))
		p.KV("区间", a.KDJ.Zone)
		if a.KDJ.Signal != "" {
			p.Line("※ %s", a.KDJ.Signal)
		}
	}

	if a.BOLL.Valid {
		p.Section("布林带")
		p.KV("上/中/下轨", fmt.Sprintf("%.2f / %.2f / %.2f", a.BOLL.Upper, a.BOLL.Mid, a.BOLL.Lower))
		p.KV("带内位置", fmt.Sprintf("%.1f%%（%s）", a.BOLL.PositionPct, a.BOLL.Position))
	}

	if len(a.RSI.Lines) > 0 {
		p.Section("RSI")
		for _, line := range a.RSI.Lines {
			p.Line("RSI%-3d %7.2f  %s", line.Period, line.Value, line.Zone)
		}
	}

	if a.Volume.Valid {
		p.Section("量能")
		p.KV("量比", fmt.Sprintf("%.2f（%s）", a.Volume.Ratio, a.Volume.Status))
		if a.Volume.Combo != "" {
			p.KV("量价配合", a.Volume.Combo)
		}
	}

	p.Section("综合评分")
	p.KV("评分", fmt.Sprintf("%.0f / 100（%s）", a.Score.Score, a.Score.Rating))
	for _, r := range a.Score.Reasons {
		p.Line("• %s", r)
	}
	return nil
}

// runFundamental 基本面分析：行情指标 + 主要财务指标
func runFundamental(args []string) error {
	fs := flag.NewFlagSet("fundamental", flag.ExitOnError)
	periods := fs.Int("periods", 4, "财务指标期数")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock fundamental [-periods 4] <代码>")
	}
	code := fs.Arg(0)

	q, err := stockdata.GetQuote(code)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s 基本面分析", q.Code, q.Name))

	p.Section("行情指标")
	p.KV("最新价", fmt.Sprintf("%s (%s)", format.Price(q.Price), format.Percent(q.ChangePct)))
	p.KV("成交量", format.Number(q.Volume, 2)+"股")
	p.KV("成交额", format.Number(q.Amount, 2))
	if q.PE > 0 {
		p.KV("市盈率", fmt.Sprintf("%.2f", q.PE))
	}

	indicators, err := stockdata.FinanceIndicators(code, *periods)
	if err != nil {
		p.Line("财务指标获取失败: %v", err)
		return nil
	}

	p.Section("主要财务指标")
	rows := make([][]string, 0, len(indicators))
	for _, fi := range indicators {
		rows = append(rows, []string{
			fi.ReportDate,
			fmt.Sprintf("%.2f", fi.EPS),
			fmt.Sprintf("%.2f", fi.BPS),
			fmt.Sprintf("%.2f%%", fi.ROE),
			format.Number(fi.Revenue, 2),
			format.Percent(fi.RevenueYoY),
			format.Number(fi.NetProfit, 2),
			format.Percent(fi.NetProfitYoY),
			fmt.Sprintf("%.2f%%", fi.GrossMargin),
		})
	}
	p.Table([]string{"报告期", "每股收益", "每股净资产", "净资产收益率", "营业收入", "营收同比", "净利润", "净利同比", "毛利率"}, rows, *periods)
	return nil
}

// runNews 个股资讯
func runNews(args []string) error {
	fs := flag.NewFlagSet("news", flag.ExitOnError)
	kind := fs.String("kind", "news", "类型: announcement/news/research")
	limit := fs.Int("limit", 10, "条数")
	fs.Parse(args)

	// 不带代码时显示财经要闻
	if fs.NArg() == 0 {
		items, err := stockdata.MarketNews(*limit)
		if err != nil {
			return err
		}
		p := format.NewPrinter(os.Stdout)
		p.Header("财经要闻")
		for i, n := range items {
			p.Line("%2d. [%s] %s", i+1, n.Time, n.Title)
		}
		if len(items) == 0 {
			p.Line("(无数据)")
		}
		return nil
	}
	code := fs.Arg(0)

	var (
		items []stockdata.NewsItem
		title string
		err   error
	)
	switch *kind {
	case "announcement":
		title = "公告"
		items, err = stockdata.Announcements(code, *limit)
	case "research":
		title = "研报"
		items, err = stockdata.ResearchReports(code, *limit)
	default:
		title = "新闻"
		items, err = stockdata.StockNews(code, *limit)
	}
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s", code, title))
	for i, n := range items {
		p.Line("%2d. [%s] %s", i+1, n.Time, n.Title)
		if n.Source != "" {
			p.Line("    来源: %s", n.Source)
		}
	}
	if len(items) == 0 {
		p.Line("(无数据)")
	}
	return nil
}
