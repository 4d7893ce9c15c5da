package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"astock-assistant/internal/indicator"
	"astock-assistant/internal/stockdata"
)

// GetStocks 股票列表，支持关键字搜索
func GetStocks(c *gin.Context) {
	keyword := c.Query("keyword")

	stocks, err := stockdata.SearchStocks(keyword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "获取股票列表失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stocks})
}

// GetQuote 单只股票实时行情
func GetQuote(c *gin.Context) {
	code := c.Param("code")

	quote, err := stockdata.GetQuote(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GetKline K线数据
func GetKline(c *gin.Context) {
	code := c.Param("code")
	period := c.DefaultQuery("period", "daily")
	count := queryInt(c, "count", 250)

	kline, err := stockdata.GetKline(code, period, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, kline)
}

// GetIndicators 技术指标与综合评分
func GetIndicators(c *gin.Context) {
	code := c.Param("code")
	count := queryInt(c, "count", 120)

	bars, err := stockdata.GetDailyBars(code, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     code,
		"analysis": indicator.Analyze(bars),
	})
}

// GetMovers 涨跌幅排行，direction 为 up 或 down
func GetMovers(c *gin.Context) {
	direction := c.DefaultQuery("direction", "up")
	count := queryInt(c, "count", 10)

	var (
		quotes interface{}
		err    error
	)
	if direction == "down" {
		quotes, err = stockdata.TopLosers(count)
	} else {
		quotes, err = stockdata.TopGainers(count)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

// GetIndices 主要指数行情
func GetIndices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": stockdata.IndexQuotes()})
}

// GetNews 个股资讯，kind 为 announcement / news / research
func GetNews(c *gin.Context) {
	code := c.Param("code")
	kind := c.DefaultQuery("kind", "news")
	limit := queryInt(c, "limit", 10)

	var (
		items []stockdata.NewsItem
		err   error
	)
	switch kind {
	case "announcement":
		items, err = stockdata.Announcements(code, limit)
	case "research":
		items, err = stockdata.ResearchReports(code, limit)
	default:
		items, err = stockdata.StockNews(code, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GetFundamental 主要财务指标
func GetFundamental(c *gin.Context) {
	code := c.Param("code")
	periods := queryInt(c, "periods", 4)

	indicators, err := stockdata.FinanceIndicators(code, periods)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code, "data": indicators})
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
