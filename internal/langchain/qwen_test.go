package langchain

import (
	"strings"
	"testing"

	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/sentiment"
)

func sampleReview() *portfolio.Review {
	return &portfolio.Review{
		Date: "2025-06-02",
		Summary: &portfolio.Summary{
			TotalCost:   10000,
			TotalValue:  10500,
			TotalProfit: 500,
			ProfitPct:   5,
			Holdings: []portfolio.Holding{
				{Code: "600519", Name: "贵州茅台", Quantity: 100, AvgCost: 100, Price: 105, ProfitPct: 5},
			},
		},
		BuyCount: 1,
		TodayTrades: []portfolio.TradeRecord{
			{Time: "2025-06-02 10:00:00", Symbol: "600519", Action: "买入", Price: 100, Quantity: 100},
		},
		WinCount: 1,
	}
}

func sampleDashboard(score int) *sentiment.Dashboard {
	return &sentiment.Dashboard{
		Breadth: &sentiment.Breadth{Up: 3000, Down: 1500, LimitUp: 50, LimitDown: 5, MoneyEffect: 62.5},
		Score:   &sentiment.Score{Value: score, Level: "中性", PositionPct: 50},
	}
}

func TestBuildReviewPrompt(t *testing.T) {
	prompt := buildReviewPrompt(sampleReview(), sampleDashboard(55))

	for _, want := range []string{"2025-06-02", "600519", "贵州茅台", "买入 1 笔", "情绪评分 55"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("提示词缺少 %q:\n%s", want, prompt)
		}
	}
}

func TestFallbackCommentaryProfitable(t *testing.T) {
	text := fallbackCommentary(sampleReview(), sampleDashboard(75))
	if !strings.Contains(text, "移动止盈") {
		t.Errorf("浮盈5%%应提示止盈, got %q", text)
	}
	if !strings.Contains(text, "情绪偏热") {
		t.Errorf("情绪75应提示偏热, got %q", text)
	}
}

func TestFallbackCommentaryEmptyPortfolio(t *testing.T) {
	review := &portfolio.Review{Date: "2025-06-02", Summary: &portfolio.Summary{}}
	text := fallbackCommentary(review, nil)
	if !strings.Contains(text, "空仓") {
		t.Errorf("空仓应提示等待机会, got %q", text)
	}
}
