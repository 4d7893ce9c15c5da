package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/config"
	"astock-assistant/internal/holiday"
	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/sentiment"
	"astock-assistant/internal/stockdata"
)

var (
	cfg      *config.Config
	provider cache.Provider
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	setup()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "market":
		err = runMarket(args)
	case "quote":
		err = runQuote(args)
	case "kline":
		err = runKline(args)
	case "technical":
		err = runTechnical(args)
	case "fundamental":
		err = runFundamental(args)
	case "news":
		err = runNews(args)
	case "screener":
		err = runScreener(args)
	case "sentiment":
		err = runSentiment(args)
	case "portfolio":
		err = runPortfolio(args)
	case "simulate":
		err = runSimulate(args)
	case "import":
		err = runImport(args)
	case "review":
		err = runReview(args)
	case "advise":
		err = runAdvise(args)
	case "backtest":
		err = runBacktest(args)
	case "tdx":
		err = runTdx(args)
	case "store":
		err = runStore(args)
	case "cache":
		err = runCache(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// setup 初始化配置、行情客户端和缓存
func setup() {
	cfg = config.Load()
	stockdata.Configure(cfg.HTTPTimeout, cfg.InsecureTLS)

	provider = newCacheProvider(cfg)
	stockdata.SetCacheProvider(provider)
	sentiment.SetCacheProvider(provider)

	if err := holiday.LoadCustomHolidays(filepath.Join(cfg.DataDir, "holidays.json")); err != nil {
		logrus.Warnf("加载自定义节假日失败: %v", err)
	}
}

func newCacheProvider(cfg *config.Config) cache.Provider {
	if cfg.CacheBackend == "redis" {
		if rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB); err == nil {
			return rc
		} else {
			logrus.Warnf("Redis 连接失败，回退文件缓存: %v", err)
		}
	}
	fc, err := cache.NewFileCache(cfg.CacheDir)
	if err != nil {
		logrus.Fatalf("初始化文件缓存失败: %v", err)
	}
	return fc
}

func openLedger() *portfolio.Ledger {
	return portfolio.NewLedger(filepath.Join(cfg.DataDir, "portfolio.json"))
}

func usage() {
	fmt.Println(`A股交易助手

用法: astock <命令> [参数]

行情:
  market      市场概览（指数、涨跌幅榜）
  quote       个股实时行情
  kline       历史K线
  technical   技术指标分析报告
  fundamental 基本面分析（行情指标、财务指标）
  news        财经要闻与个股公告、新闻、研报

选股与情绪:
  screener    条件选股（预设或自定义）
  sentiment   市场情绪仪表盘

持仓:
  portfolio   持仓账本（buy/sell/list/history/stats）
  simulate    含费用的买卖模拟核算
  import      导入券商交割单
  review      每日复盘

策略:
  advise      个股操作建议
  backtest    历史回测

数据:
  tdx         通达信行情（分钟线、盘口、逐笔）
  store       本地日线归档（sync/info）
  cache       缓存管理（clear）

配置通过环境变量或 .env 文件提供（ASTOCK_DATA_DIR、ASTOCK_CACHE_BACKEND 等）`)
}
