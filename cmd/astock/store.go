package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"astock-assistant/internal/format"
	"astock-assistant/internal/store"
)

func openStore() (*store.Store, error) {
	return store.Open(filepath.Join(cfg.DataDir, "bars.db"))
}

// runStore 本地日线归档
func runStore(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("用法: astock store <sync|info> [参数]")
	}

	switch args[0] {
	case "sync":
		return storeSync(args[1:])
	case "info":
		return storeInfo()
	default:
		return fmt.Errorf("未知子命令: %s", args[0])
	}
}

func storeSync(args []string) error {
	fs := flag.NewFlagSet("store sync", flag.ExitOnError)
	days := fs.Int("days", 250, "同步天数")
	fs.Parse(args)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	codes := fs.Args()
	if len(codes) == 0 {
		// 未指定代码时同步库内已有的全部代码
		codes, err = st.Codes()
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			return fmt.Errorf("归档库为空，请先指定要同步的代码: astock store sync <代码>...")
		}
	}

	result, err := st.Sync(codes, *days)
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("日线归档完成")
	p.KV("同步股票", fmt.Sprintf("%d只", result.Stocks))
	p.KV("写入K线", fmt.Sprintf("%d根", result.Rows))
	if result.Skipped > 0 {
		p.KV("失败跳过", fmt.Sprintf("%d只", result.Skipped))
	}
	return nil
}

func storeInfo() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	codes, err := st.Codes()
	if err != nil {
		return err
	}
	count, err := st.Count()
	if err != nil {
		return err
	}

	p := format.NewPrinter(os.Stdout)
	p.Header("归档库概况")
	p.KV("位置", filepath.Join(cfg.DataDir, "bars.db"))
	p.KV("股票数", fmt.Sprintf("%d", len(codes)))
	p.KV("K线总数", fmt.Sprintf("%d", count))

	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		last, err := st.LastDate(code)
		if err != nil {
			continue
		}
		rows = append(rows, []string{code, last})
	}
	if len(rows) > 0 {
		p.Section("覆盖明细")
		p.Table([]string{"代码", "最新日期"}, rows, 30)
	}
	return nil
}

// runCache 缓存管理
func runCache(args []string) error {
	if len(args) == 0 || args[0] != "clear" {
		return fmt.Errorf("用法: astock cache clear")
	}

	if err := provider.Clear(); err != nil {
		return err
	}
	fmt.Println("缓存已清空")
	return nil
}
