package main

import (
	"flag"
	"fmt"
	"os"

	"astock-assistant/internal/format"
	"astock-assistant/internal/langchain"
	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/sentiment"
	"astock-assistant/internal/stockdata"
)

// ledgerQuote 持仓估值的行情回调
func ledgerQuote(code string) (float64, string, error) {
	q, err := stockdata.GetQuote(code)
	if err != nil {
		return 0, "", err
	}
	return q.Price, q.Name, nil
}

// runPortfolio 持仓账本
func runPortfolio(args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	ledger := openLedger()

	switch args[0] {
	case "buy", "sell":
		return runTrade(ledger, args[0], args[1:])
	case "list":
		return printSummary(ledger)
	case "history":
		return printHistory(ledger)
	case "stats":
		return printStats(ledger)
	default:
		return fmt.Errorf("用法: astock portfolio <buy|sell|list|history|stats>")
	}
}

func runTrade(ledger *portfolio.Ledger, action string, args []string) error {
	fs := flag.NewFlagSet("portfolio "+action, flag.ExitOnError)
	price := fs.Float64("price", 0, "成交价格")
	qty := fs.Int("qty", 0, "数量(股)")
	note := fs.String("note", "", "备注")
	fs.Parse(args)
	if fs.NArg() == 0 || *price <= 0 || *qty <= 0 {
		return fmt.Errorf("用法: astock portfolio %s -price <价格> -qty <数量> <代码>", action)
	}
	code := fs.Arg(0)

	p := format.NewPrinter(os.Stdout)
	if action == "buy" {
		pos, err := ledger.Buy(code, *price, *qty, *note)
		if err != nil {
			return err
		}
		p.Header("买入成功")
		p.KV("代码", pos.Symbol)
		p.KV("持仓", fmt.Sprintf("%d股", pos.Quantity))
		p.KV("成本价", fmt.Sprintf("%.2f", pos.AvgCost))
		return nil
	}

	result, err := ledger.Sell(code, *price, *qty, *note)
	if err != nil {
		return err
	}
	p.Header("卖出成功")
	p.KV("本次盈亏", fmt.Sprintf("%s (%s)", format.Number(result.Profit, 2), format.Percent(result.ProfitPct)))
	if result.Closed {
		p.KV("状态", "已清仓")
	} else {
		p.KV("剩余持仓", fmt.Sprintf("%d股", result.Remaining))
	}
	return nil
}

func printSummary(ledger *portfolio.Ledger) error {
	summary, err := ledger.Summary(ledgerQuote)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("持仓总览")
	if len(summary.Holdings) == 0 {
		p.Line("当前空仓")
		return nil
	}

	rows := make([][]string, 0, len(summary.Holdings))
	for _, h := range summary.Holdings {
		name := h.Name
		if !h.PriceLive {
			name += "(估)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%s %s", h.Code, name),
			fmt.Sprintf("%d", h.Quantity),
			fmt.Sprintf("%.2f", h.AvgCost),
			fmt.Sprintf("%.2f", h.Price),
			format.Number(h.Value, 2),
			fmt.Sprintf("%s (%s)", format.Number(h.Profit, 2), format.Percent(h.ProfitPct)),
		})
	}
	p.Table([]string{"名称", "数量", "成本", "现价", "市值", "盈亏"}, rows, 0)

	p.Section("合计")
	p.KV("总成本", format.Number(summary.TotalCost, 2))
	p.KV("总市值", format.Number(summary.TotalValue, 2))
	p.KV("浮动盈亏", fmt.Sprintf("%s (%s)", format.Number(summary.TotalProfit, 2), format.Percent(summary.ProfitPct)))
	return nil
}

func printHistory(ledger *portfolio.Ledger) error {
	history, err := ledger.History()
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("交易流水")
	rows := make([][]string, 0, len(history))
	for _, rec := range history {
		profit := "-"
		if rec.Profit != nil {
			profit = format.Number(*rec.Profit, 2)
		}
		rows = append(rows, []string{
			rec.Time, rec.Action, rec.Symbol,
			fmt.Sprintf("%.2f", rec.Price),
			fmt.Sprintf("%d", rec.Quantity),
			format.Number(rec.Amount, 2),
			profit,
		})
	}
	p.Table([]string{"时间", "操作", "代码", "价格", "数量", "金额", "盈亏"}, rows, 50)
	return nil
}

func printStats(ledger *portfolio.Ledger) error {
	stats, err := ledger.PnLStats()
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("已实现盈亏统计")
	if stats.Trades == 0 {
		p.Line("暂无卖出记录")
		return nil
	}
	p.KV("卖出笔数", fmt.Sprintf("%d（盈 %d / 亏 %d）", stats.Trades, stats.Wins, stats.Losses))
	p.KV("胜率", fmt.Sprintf("%.2f%%", stats.WinRate))
	p.KV("累计盈亏", format.Number(stats.TotalProfit, 2))
	p.KV("平均盈利", format.Number(stats.AvgWin, 2))
	p.KV("平均亏损", format.Number(stats.AvgLoss, 2))
	p.KV("盈亏比", fmt.Sprintf("%.2f", stats.PLRatio))
	p.KV("最大单笔盈利", format.Number(stats.MaxWin, 2))
	p.KV("最大单笔亏损", format.Number(stats.MaxLoss, 2))
	return nil
}

// runSimulate 含费用的买卖模拟核算
func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	buy := fs.Float64("buy", 0, "买入价格")
	sell := fs.Float64("sell", 0, "卖出价格")
	qty := fs.Int("qty", 100, "数量(股)")
	fs.Parse(args)
	if fs.NArg() == 0 || *buy <= 0 || *sell <= 0 {
		return fmt.Errorf("用法: astock simulate -buy <买价> -sell <卖价> [-qty 100] <代码>")
	}

	r := portfolio.SimulateCost(fs.Arg(0), *buy, *sell, *qty)

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s 交易模拟", r.Code))
	p.Section("买入")
	p.KV("成交金额", format.Number(r.BuyPrice*float64(r.Quantity), 2))
	p.KV("佣金", fmt.Sprintf("%.2f", r.BuyFees.Commission))
	if r.BuyFees.TransferFee > 0 {
		p.KV("过户费", fmt.Sprintf("%.2f", r.BuyFees.TransferFee))
	}
	p.KV("总成本", format.Number(r.BuyCost, 2))

	p.Section("卖出")
	p.KV("成交金额", format.Number(r.SellPrice*float64(r.Quantity), 2))
	p.KV("佣金", fmt.Sprintf("%.2f", r.SellFees.Commission))
	p.KV("印花税", fmt.Sprintf("%.2f", r.SellFees.StampTax))
	if r.SellFees.TransferFee > 0 {
		p.KV("过户费", fmt.Sprintf("%.2f", r.SellFees.TransferFee))
	}
	p.KV("净收入", format.Number(r.SellIncome, 2))

	p.Section("结果")
	p.KV("盈亏", fmt.Sprintf("%s (%s)", format.Number(r.Profit, 2), format.Percent(r.ProfitPct)))
	p.KV("保本价", fmt.Sprintf("%.2f", r.Breakeven))
	return nil
}

// runImport 导入券商交割单
func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fileFormat := fs.String("format", "eastmoney", "交割单格式: eastmoney/tdx")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock import [-format eastmoney] <文件路径>")
	}

	ledger := openLedger()
	result, err := ledger.ImportStatement(fs.Arg(0), *fileFormat)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("交割单导入完成")
	p.KV("导入", fmt.Sprintf("%d条", result.Imported))
	p.KV("跳过", fmt.Sprintf("%d条", result.Skipped))
	return nil
}

// runReview 每日复盘
func runReview(args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	date := fs.String("date", "", "复盘日期，默认当天")
	ai := fs.Bool("ai", false, "附加AI点评")
	fs.Parse(args)

	ledger := openLedger()
	review, err := ledger.Review(*date, ledgerQuote)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s 每日复盘", review.Date))

	p.Section("当日交易")
	if len(review.TodayTrades) == 0 {
		p.Line("当日无交易")
	} else {
		p.KV("买入/卖出", fmt.Sprintf("%d笔 / %d笔", review.BuyCount, review.SellCount))
		for _, t := range review.TodayTrades {
			p.Line("%s %s %s %d股 @ %.2f", t.Time, t.Action, t.Symbol, t.Quantity, t.Price)
		}
	}

	p.Section("持仓状况")
	s := review.Summary
	p.KV("持仓", fmt.Sprintf("%d只（盈 %d / 亏 %d）", len(s.Holdings), review.WinCount, review.LossCount))
	p.KV("总市值", format.Number(s.TotalValue, 2))
	p.KV("浮动盈亏", fmt.Sprintf("%s (%s)", format.Number(s.TotalProfit, 2), format.Percent(s.ProfitPct)))

	if *ai {
		dash, err := sentiment.GetDashboard()
		if err != nil {
			dash = nil
		}
		p.Section("AI点评")
		p.Line("%s", langchain.ReviewCommentary(review, dash))
	}
	return nil
}
