package main

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/config"
	"astock-assistant/internal/handler"
	"astock-assistant/internal/holiday"
	"astock-assistant/internal/mail"
	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/scheduler"
	"astock-assistant/internal/sentiment"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/store"
)

func main() {
	cfg := config.Load()

	stockdata.Configure(cfg.HTTPTimeout, cfg.InsecureTLS)
	provider := newCacheProvider(cfg)
	stockdata.SetCacheProvider(provider)
	sentiment.SetCacheProvider(provider)

	if err := holiday.LoadCustomHolidays(filepath.Join(cfg.DataDir, "holidays.json")); err != nil {
		logrus.Warnf("加载自定义节假日失败: %v", err)
	}

	ledger := portfolio.NewLedger(filepath.Join(cfg.DataDir, "portfolio.json"))
	handler.SetLedger(ledger)

	st, err := store.Open(filepath.Join(cfg.DataDir, "bars.db"))
	if err != nil {
		logrus.Fatalf("打开日线归档库失败: %v", err)
	}
	defer st.Close()

	scheduler.StartArchiveScheduler(st, ledger)
	scheduler.StartReviewScheduler(ledger, mail.SendDailyReport)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		// 行情与资讯
		api.GET("/stocks", handler.GetStocks)
		api.GET("/stocks/:code/quote", handler.GetQuote)
		api.GET("/stocks/:code/kline", handler.GetKline)
		api.GET("/stocks/:code/indicators", handler.GetIndicators)
		api.GET("/stocks/:code/news", handler.GetNews)
		api.GET("/stocks/:code/fundamental", handler.GetFundamental)
		api.GET("/market/movers", handler.GetMovers)
		api.GET("/market/indices", handler.GetIndices)
		api.GET("/market/sentiment", handler.GetSentiment)

		// 选股与策略
		api.GET("/screener/presets", handler.GetScreenerPresets)
		api.GET("/screener/:preset", handler.RunScreener)
		api.GET("/stocks/:code/advice", handler.GetAdvice)
		api.GET("/stocks/:code/backtest", handler.RunBacktest)

		// 持仓账本
		api.GET("/portfolio", handler.GetPortfolio)
		api.POST("/portfolio/buy", handler.BuyStock)
		api.POST("/portfolio/sell", handler.SellStock)
		api.GET("/portfolio/history", handler.GetTradeHistory)
		api.GET("/portfolio/stats", handler.GetPnLStats)
		api.GET("/portfolio/review", handler.GetReview)

		// 委托模拟
		api.POST("/trade/simulate", handler.SimulateTrade)
	}

	logrus.Infof("服务启动在端口 %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("启动服务失败: %v", err)
	}
}

// newCacheProvider 按配置选择缓存后端，redis 不可用时回退文件缓存
func newCacheProvider(cfg *config.Config) cache.Provider {
	if cfg.CacheBackend == "redis" {
		if rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB); err == nil {
			logrus.Infof("使用 Redis 缓存: %s", cfg.RedisAddr)
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
