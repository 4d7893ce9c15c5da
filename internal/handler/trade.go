package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/stockdata"
)

var ledger *portfolio.Ledger

// SetLedger 注入持仓账本，须在注册路由前调用
func SetLedger(l *portfolio.Ledger) {
	ledger = l
}

// quoteFunc 持仓估值用的行情回调
func quoteFunc(code string) (float64, string, error) {
	q, err := stockdata.GetQuote(code)
	if err != nil {
		return 0, "", err
	}
	return q.Price, q.Name, nil
}

type tradeRequest struct {
	Code     string  `json:"code" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Note     string  `json:"note"`
}

// BuyStock 记录一笔买入
func BuyStock(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	pos, err := ledger.Buy(req.Code, req.Price, req.Quantity, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pos)
}

// SellStock 记录一笔卖出
func SellStock(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	result, err := ledger.Sell(req.Code, req.Price, req.Quantity, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPortfolio 持仓总览（实时估值）
func GetPortfolio(c *gin.Context) {
	summary, err := ledger.Summary(quoteFunc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTradeHistory 交易流水
func GetTradeHistory(c *gin.Context) {
	history, err := ledger.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

// GetPnLStats 已实现盈亏统计
func GetPnLStats(c *gin.Context) {
	stats, err := ledger.PnLStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetReview 每日复盘数据
func GetReview(c *gin.Context) {
	date := c.Query("date")

	review, err := ledger.Review(date, quoteFunc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, review)
}

type simulateRequest struct {
	Code      string  `json:"code" binding:"required"`
	BuyPrice  float64 `json:"buy_price" binding:"required,gt=0"`
	SellPrice float64 `json:"sell_price" binding:"required,gt=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

// SimulateTrade 含费用的买卖模拟核算
func SimulateTrade(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, portfolio.SimulateCost(req.Code, req.BuyPrice, req.SellPrice, req.Quantity))
}
