package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"astock-assistant/internal/screener"
	"astock-assistant/internal/sentiment"
	"astock-assistant/internal/strategy"
)

// GetSentiment 市场情绪仪表盘
func GetSentiment(c *gin.Context) {
	dash, err := sentiment.GetDashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dash)
}

// GetScreenerPresets 预设选股策略列表
func GetScreenerPresets(c *gin.Context) {
	type presetView struct {
		Key         string `json:"key"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Advanced    bool   `json:"advanced"`
	}
	views := make([]presetView, 0, len(screener.Presets))
	for _, p := range screener.Presets {
		views = append(views, presetView{p.Key, p.Name, p.Description, p.Advanced})
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// RunScreener 执行预设选股
func RunScreener(c *gin.Context) {
	key := c.Param("preset")
	count := queryInt(c, "count", 20)

	quotes, err := screener.RunPreset(key, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

// GetAdvice 个股操作建议
func GetAdvice(c *gin.Context) {
	code := c.Param("code")
	capital := queryFloat(c, "capital", 100000)
	positions := queryInt(c, "positions", 0)

	advice, err := strategy.Advise(code, capital, positions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, advice)
}

// RunBacktest 历史回测
func RunBacktest(c *gin.Context) {
	code := c.Param("code")
	name := c.DefaultQuery("strategy", "ma_cross")
	days := queryInt(c, "days", 250)
	capital := queryFloat(c, "capital", 100000)

	result, err := strategy.Backtest(code, name, days, capital)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
