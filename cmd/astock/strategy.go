package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"astock-assistant/internal/format"
	"astock-assistant/internal/store"
	"astock-assistant/internal/strategy"
)

// runAdvise 个股操作建议
func runAdvise(args []string) error {
	fs := flag.NewFlagSet("advise", flag.ExitOnError)
	capital := fs.Float64("capital", 100000, "可用资金")
	positions := fs.Int("positions", 0, "当前已持有只数")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock advise [-capital 100000] [-positions 0] <代码>")
	}

	a, err := strategy.Advise(fs.Arg(0), *capital, *positions)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header(fmt.Sprintf("%s %s 操作建议", a.Code, a.Name))
	p.KV("现价", format.Price(a.Price))
	p.KV("技术评分", fmt.Sprintf("%.0f / 100（%s）", a.Score, a.Rating))
	p.KV("操作方向", a.Direction)

	if a.Direction == "买入" {
		p.Section("买入计划")
		p.KV("建议买入价", fmt.Sprintf("%.2f", a.AdvicePrice))
		p.KV("建议仓位", fmt.Sprintf("%.0f%%", a.PositionPct*100))
		if a.Shares > 0 {
			p.KV("建议股数", fmt.Sprintf("%d股（约 %s）", a.Shares, format.Number(a.Amount, 2)))
		}
		for _, r := range a.BuyReasons {
			p.Line("• %s", r)
		}
	}

	p.Section("风控")
	p.KV("止损位", fmt.Sprintf("%.2f（%s）", a.StopLoss, format.Percent(a.StopLossPct)))
	p.KV("止盈位", fmt.Sprintf("%.2f（%s）", a.TakeProfit, format.Percent(a.TakeProfitPct)))
	p.KV("风险等级", a.RiskLevel)
	for _, f := range a.RiskFactors {
		p.Line("• %s", f)
	}
	return nil
}

// runBacktest 历史回测
func runBacktest(args []string) error {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	name := fs.String("strategy", "ma_cross", "策略名")
	days := fs.Int("days", 250, "回测天数")
	capital := fs.Float64("capital", 100000, "初始资金")
	local := fs.Bool("local", false, "使用本地归档数据")
	listOnly := fs.Bool("list", false, "列出可用策略")
	fs.Parse(args)

	p := format.NewPrinter(os.Stdout)
	if *listOnly {
		p.Header("可用回测策略")
		for key, desc := range strategy.Strategies {
			p.Line("%-12s %s", key, desc)
		}
		return nil
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("用法: astock backtest [-strategy ma_cross] [-days 250] <代码>")
	}
	code := fs.Arg(0)

	var (
		result *strategy.BacktestResult
		err    error
	)
	if *local {
		st, err2 := store.Open(filepath.Join(cfg.DataDir, "bars.db"))
		if err2 != nil {
			return err2
		}
		defer st.Close()
		bars, err2 := st.LoadBars(code, "", "")
		if err2 != nil {
			return err2
		}
		if *days > 0 && len(bars) > *days {
			bars = bars[len(bars)-*days:]
		}
		result, err = strategy.BacktestOn(code, bars, *name, *capital)
	} else {
		result, err = strategy.Backtest(code, *name, *days, *capital)
	}
	if err != nil {
		return err
	}

	p.Header(fmt.Sprintf("%s 回测报告（%s）", result.Code, strategy.Strategies[result.Strategy]))
	p.KV("初始资金", format.Number(result.InitialCapital, 2))
	p.KV("期末资金", format.Number(result.FinalCapital, 2))
	p.KV("总收益率", format.Percent(result.TotalReturnPct()))
	p.KV("最大回撤", fmt.Sprintf("%.2f%%", result.MaxDrawdownPct))
	p.KV("交易次数", fmt.Sprintf("%d（盈 %d / 亏 %d）", len(result.Trades), len(result.WinTrades()), len(result.LoseTrades())))
	p.KV("胜率", fmt.Sprintf("%.2f%%", result.WinRate()))
	p.KV("盈亏比", fmt.Sprintf("%.2f", result.ProfitLossRatio()))

	if len(result.Trades) > 0 {
		p.Section("交易明细")
		rows := make([][]string, 0, len(result.Trades))
		for _, t := range result.Trades {
			rows = append(rows, []string{
				t.BuyDate, fmt.Sprintf("%.2f", t.BuyPrice),
				t.SellDate, fmt.Sprintf("%.2f", t.SellPrice),
				fmt.Sprintf("%d", t.Shares),
				fmt.Sprintf("%s (%s)", format.Number(t.Profit, 2), format.Percent(t.ProfitPct)),
			})
		}
		p.Table([]string{"买入日", "买价", "卖出日", "卖价", "股数", "盈亏"}, rows, 20)
	}
	return nil
}
