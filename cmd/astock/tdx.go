package main

import (
	"flag"
	"fmt"
	"os"

	"astock-assistant/internal/format"
	"astock-assistant/internal/tdx"
)

// runTdx 通达信行情
func runTdx(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("用法: astock tdx <minute|orderbook|ticks|quotes> [参数]")
	}

	m, err := tdx.Connect(1)
	if err != nil {
		return fmt.Errorf("连接通达信服务器失败: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "minute":
		return tdxMinute(m, args[1:])
	case "orderbook":
		return tdxOrderBook(m, args[1:])
	case "ticks":
		return tdxTicks(m, args[1:])
	case "quotes":
		return tdxQuotes(m, args[1:])
	default:
		return fmt.Errorf("未知子命令: %s", args[0])
	}
}

func tdxMinute(m *tdx.Manager, args []string) error {
	fs := flag.NewFlagSet("tdx minute", flag.ExitOnError)
	period := fs.String("period", "5min", "周期: 1min/5min/15min/30min/60min/daily/weekly/monthly")
	count := fs.Int("count", 48, "K线数量")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock tdx minute [-period 5min] [-count 48] <代码>")
	}
	code := fs.Arg(0)

	bars, err := m.MinuteKline(code, *period, *count)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s K线", code, *period))
	rows := make([][]string, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, []string{
			b.Date,
			fmt.Sprintf("%.2f", b.Open),
			fmt.Sprintf("%.2f", b.Close),
			fmt.Sprintf("%.2f", b.High),
			fmt.Sprintf("%.2f", b.Low),
			format.Number(b.Volume, 1),
		})
	}
	p.Table([]string{"时间", "开盘", "收盘", "最高", "最低", "成交量"}, rows, *count)
	return nil
}

func tdxOrderBook(m *tdx.Manager, args []string) error {
	fs := flag.NewFlagSet("tdx orderbook", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock tdx orderbook <代码>")
	}

	ob, err := m.GetOrderBook(fs.Arg(0))
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s 五档盘口", ob.Code, ob.Name))
	p.KV("现价", fmt.Sprintf("%s (%s)", format.Price(ob.Price), format.Percent(ob.ChangePct)))
	p.KV("今开/昨收", fmt.Sprintf("%.2f / %.2f", ob.Open, ob.PrevClose))
	p.KV("最高/最低", fmt.Sprintf("%.2f / %.2f", ob.High, ob.Low))
	p.KV("成交量", format.Number(ob.Volume, 1)+"手")
	p.KV("成交额", format.Number(ob.Amount, 2))

	p.Section("卖盘")
	for i := len(ob.Asks) - 1; i >= 0; i-- {
		p.Line("卖%d  %8.2f  %8d手", i+1, ob.Asks[i].Price, ob.Asks[i].Lots)
	}
	p.Section("买盘")
	for i, lv := range ob.Bids {
		p.Line("买%d  %8.2f  %8d手", i+1, lv.Price, lv.Lots)
	}
	return nil
}

func tdxTicks(m *tdx.Manager, args []string) error {
	fs := flag.NewFlagSet("tdx ticks", flag.ExitOnError)
	count := fs.Int("count", 30, "明细条数")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock tdx ticks [-count 30] <代码>")
	}
	code := fs.Arg(0)

	ticks, err := m.TickData(code, *count)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s 逐笔成交", code))
	rows := make([][]string, 0, len(ticks))
	for _, t := range ticks {
		mark := ""
		if t.Big {
			mark = "大单"
		}
		rows = append(rows, []string{
			t.Time,
			fmt.Sprintf("%.2f", t.Price),
			fmt.Sprintf("%d手", t.Lots),
			t.Direction,
			format.Number(t.Amount, 1),
			mark,
		})
	}
	p.Table([]string{"时间", "价格", "数量", "方向", "金额", ""}, rows, *count)

	flow := tdx.BigOrders(ticks)
	p.Section("大单资金流向")
	p.KV("大单买入", format.Number(flow.Buy, 2))
	p.KV("大单卖出", format.Number(flow.Sell, 2))
	p.KV("净流入", format.Number(flow.Net, 2))
	return nil
}

func tdxQuotes(m *tdx.Manager, args []string) error {
	fs := flag.NewFlagSet("tdx quotes", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock tdx quotes <代码>...")
	}

	quotes, err := m.BatchQuotes(fs.Args())
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("批量行情")
	p.Table([]string{"名称", "现价", "涨跌幅", "成交额"}, quoteRows(quotes, true), 0)
	return nil
}
