package langchain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/sentiment"
)

const qwenAPIURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

var (
	dashscopeAPIKey string
	llmModel        string
)

func init() {
	dashscopeAPIKey = os.Getenv("DASHSCOPE_API_KEY")
	llmModel = os.Getenv("LLM_MODEL")
	if llmModel == "" {
		llmModel = "qwen-plus"
	}
}

// Enabled 是否配置了通义千问密钥
func Enabled() bool {
	return dashscopeAPIKey != ""
}

// QwenRequest 通义千问请求
type QwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []Message `json:"messages"`
	} `json:"input"`
}

// Message 消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QwenResponse 通义千问响应
type QwenResponse struct {
	Output struct {
		Text    string `json:"text"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat 发送单轮对话并返回模型回复
func Chat(system, user string) (string, error) {
	if dashscopeAPIKey == "" {
		return "", fmt.Errorf("DASHSCOPE_API_KEY 未配置")
	}

	req := QwenRequest{Model: llmModel}
	req.Input.Messages = []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	httpReq, err := http.NewRequest("POST", qwenAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+dashscopeAPIKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	logrus.Debugf("通义千问响应状态 %d, 长度 %d", resp.StatusCode, len(body))

	var qwenResp QwenResponse
	if err := json.Unmarshal(body, &qwenResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	// qwen3 走 choices，旧格式走 text
	result := qwenResp.Output.Text
	if result == "" && len(qwenResp.Output.Choices) > 0 {
		result = qwenResp.Output.Choices[0].Message.Content
	}
	if result == "" {
		return "", fmt.Errorf("模型返回空结果")
	}
	return result, nil
}

// ReviewCommentary 根据当日复盘数据与市场情绪生成点评。
// 未配置密钥或请求失败时返回基于规则的兜底点评
func ReviewCommentary(review *portfolio.Review, dash *sentiment.Dashboard) string {
	prompt := buildReviewPrompt(review, dash)
	if Enabled() {
		if text, err := Chat(reviewSystemPrompt, prompt); err == nil {
			return text
		} else {
			logrus.Warnf("AI复盘点评失败，使用兜底点评: %v", err)
		}
	}
	return fallbackCommentary(review, dash)
}

const reviewSystemPrompt = "你是一位资深的A股交易复盘助手。请基于用户提供的当日持仓、交易流水和市场情绪数据，" +
	"从仓位结构、当日操作得失、市场环境三个方面给出简短点评，并提示次日需要关注的风险。" +
	"使用markdown格式，控制在250字以内。"

// buildReviewPrompt 把复盘数据整理为提示词
func buildReviewPrompt(review *portfolio.Review, dash *sentiment.Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "复盘日期：%s\n\n", review.Date)
	if s := review.Summary; s != nil {
		fmt.Fprintf(&b, "【持仓概况】\n总市值 %.2f 元，总成本 %.2f 元，浮动盈亏 %.2f 元（%.2f%%）\n",
			s.TotalValue, s.TotalCost, s.TotalProfit, s.ProfitPct)
		for _, h := range s.Holdings {
			fmt.Fprintf(&b, "• %s %s：%d股，成本 %.2f，现价 %.2f，盈亏 %.2f%%\n",
				h.Code, h.Name, h.Quantity, h.AvgCost, h.Price, h.ProfitPct)
		}
	}

	fmt.Fprintf(&b, "\n【当日交易】买入 %d 笔，卖出 %d 笔\n", review.BuyCount, review.SellCount)
	for _, t := range review.TodayTrades {
		fmt.Fprintf(&b, "• %s %s %s %d股 @ %.2f\n", t.Time, t.Action, t.Symbol, t.Quantity, t.Price)
	}

	if dash != nil && dash.Score != nil && dash.Breadth != nil {
		fmt.Fprintf(&b, "\n【市场情绪】情绪评分 %d（%s），建议仓位 %d%%\n",
			dash.Score.Value, dash.Score.Level, dash.Score.PositionPct)
		fmt.Fprintf(&b, "上涨 %d 家，下跌 %d 家，涨停 %d 家，跌停 %d 家，赚钱效应 %.1f%%\n",
			dash.Breadth.Up, dash.Breadth.Down, dash.Breadth.LimitUp,
			dash.Breadth.LimitDown, dash.Breadth.MoneyEffect)
	}
	return b.String()
}

// fallbackCommentary 规则生成的兜底点评
func fallbackCommentary(review *portfolio.Review, dash *sentiment.Dashboard) string {
	var parts []string

	if s := review.Summary; s != nil && len(s.Holdings) > 0 {
		if s.ProfitPct >= 3 {
			parts = append(parts, fmt.Sprintf("组合浮盈 %.2f%%，注意移动止盈保护利润", s.ProfitPct))
		} else if s.ProfitPct <= -3 {
			parts = append(parts, fmt.Sprintf("组合浮亏 %.2f%%，检查持仓是否触及止损位", s.ProfitPct))
		} else {
			parts = append(parts, "组合盈亏基本持平，保持既定计划")
		}
	} else {
		parts = append(parts, "当前空仓，可耐心等待机会")
	}

	if review.BuyCount+review.SellCount > 3 {
		parts = append(parts, "当日交易偏频繁，注意控制交易成本")
	}

	if dash != nil && dash.Score != nil {
		switch {
		case dash.Score.Value >= 70:
			parts = append(parts, "市场情绪偏热，警惕追高风险")
		case dash.Score.Value < 40:
			parts = append(parts, "市场情绪低迷，控制仓位为先")
		default:
			parts = append(parts, "市场情绪中性，个股分化为主")
		}
	}
	return strings.Join(parts, "；") + "。"
}
