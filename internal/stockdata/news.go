package stockdata

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"astock-assistant/internal/cache"
	"astock-assistant/internal/symbol"
)

const newsCacheTTL = 10 * time.Minute

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// NewsItem 新闻/公告/研报条目
type NewsItem struct {
	Title  string `json:"title"`
	Time   string `json:"time"`
	Source string `json:"source"`
}

// Announcements 个股最新公告
func Announcements(code string, limit int) ([]NewsItem, error) {
	code = symbol.Normalize(code)
	if limit <= 0 {
		limit = 10
	}

	key := cache.Key("announcements", map[string]any{"code": code, "limit": limit})
	var news []NewsItem
	if cacheGet(key, newsCacheTTL, &news) {
		return news, nil
	}

	u := fmt.Sprintf("https://np-anotice-stock.eastmoney.com/api/security/ann?sr=-1&page_size=%d&page_index=1&ann_type=A&stock_list=%s&f_node=0&s_node=0",
		limit, code)
	body, err := fetch(u, "https://quote.eastmoney.com")
	if err != nil {
		return nil, err
	}

	gjson.GetBytes(body, "data.list").ForEach(func(_, item gjson.Result) bool {
		date := item.Get("notice_date").String()
		if len(date) > 10 {
			date = date[:10]
		}
		news = append(news, NewsItem{
			Title:  item.Get("title").String(),
			Time:   date,
			Source: "东方财富",
		})
		return true
	})
	cacheSet(key, news)
	return news, nil
}

// StockNews 个股媒体新闻，标题为主
func StockNews(code string, limit int) ([]NewsItem, error) {
	code = symbol.Normalize(code)
	if limit <= 0 {
		limit = 10
	}

	key := cache.Key("stock_news", map[string]any{"code": code, "limit": limit})
	var news []NewsItem
	if cacheGet(key, newsCacheTTL, &news) {
		return news, nil
	}

	cb := fmt.Sprintf("jQuery%d_%d", time.Now().UnixNano(), time.Now().UnixMilli())
	paramBody := map[string]any{
		"uid":           "",
		"keyword":       code,
		"type":          []string{"cmsArticleWebOld"},
		"client":        "web",
		"clientType":    "web",
		"clientVersion": "curr",
		"params": map[string]any{
			"cmsArticleWebOld": map[string]any{
				"searchScope": "default",
				"sort":        "default",
				"pageIndex":   1,
				"pageSize":    limit,
				"preTag":      "<em>",
				"postTag":     "</em>",
			},
		},
	}
	paramJSON, _ := json.Marshal(paramBody)

	u, _ := url.Parse("https://search-api-web.eastmoney.com/search/jsonp")
	q := u.Query()
	q.Set("cb", cb)
	q.Set("param", string(paramJSON))
	u.RawQuery = q.Encode()

	body, err := fetch(u.String(), "https://so.eastmoney.com")
	if err != nil {
		return nil, err
	}

	gjson.GetBytes(extractJSONPBody(body), "result.cmsArticleWebOld").ForEach(func(_, item gjson.Result) bool {
		title := strings.TrimSpace(stripHTMLTags(item.Get("title").String()))
		if title == "" {
			return true
		}
		date := strings.TrimSpace(item.Get("date").String())
		if len(date) >= 10 {
			date = date[:10]
		}
		source := strings.TrimSpace(item.Get("mediaName").String())
		if source == "" {
			source = "东方财富"
		}
		news = append(news, NewsItem{Title: title, Time: date, Source: source})
		return true
	})
	cacheSet(key, news)
	return news, nil
}

// MarketNews 财经要闻（不限个股）
func MarketNews(limit int) ([]NewsItem, error) {
	if limit <= 0 {
		limit = 20
	}

	key := cache.Key("market_news", map[string]any{"limit": limit})
	var news []NewsItem
	if cacheGet(key, newsCacheTTL, &news) {
		return news, nil
	}

	u := fmt.Sprintf("https://np-listapi.eastmoney.com/comm/web/getNewsByColumns?client=web&biz=web_news_col&column=102&order=1&needInteractData=0&page_index=1&page_size=%d",
		limit)
	body, err := fetch(u, "https://finance.eastmoney.com")
	if err != nil {
		return nil, err
	}

	news = parseMarketNews(body)
	cacheSet(key, news)
	return news, nil
}

func parseMarketNews(body []byte) []NewsItem {
	var news []NewsItem
	gjson.GetBytes(body, "data.list").ForEach(func(_, item gjson.Result) bool {
		title := strings.TrimSpace(item.Get("title").String())
		if title == "" {
			return true
		}
		t := item.Get("showTime").String()
		if len(t) > 16 {
			t = t[:16]
		}
		source := item.Get("mediaName").String()
		if source == "" {
			source = "东方财富"
		}
		news = append(news, NewsItem{Title: title, Time: t, Source: source})
		return true
	})
	return news
}

// ResearchReports 个股研报列表
func ResearchReports(code string, limit int) ([]NewsItem, error) {
	code = symbol.Normalize(code)
	if limit <= 0 {
		limit = 10
	}

	key := cache.Key("research_reports", map[string]any{"code": code, "limit": limit})
	var reports []NewsItem
	if cacheGet(key, newsCacheTTL, &reports) {
		return reports, nil
	}

	u := fmt.Sprintf("https://reportapi.eastmoney.com/report/list?industryCode=*&pageSize=%d&industry=*&rating=*&ratingChange=*&beginTime=&endTime=&pageNo=1&qType=0&code=%s",
		limit, code)
	body, err := fetch(u, "https://data.eastmoney.com")
	if err != nil {
		return nil, err
	}

	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		date := item.Get("publishDate").String()
		if len(date) > 10 {
			date = date[:10]
		}
		reports = append(reports, NewsItem{
			Title:  item.Get("title").String(),
			Time:   date,
			Source: item.Get("orgSName").String(),
		})
		return true
	})
	cacheSet(key, reports)
	return reports, nil
}

func extractJSONPBody(b []byte) []byte {
	s := string(b)
	start := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if start < 0 || end < 0 || end <= start {
		return b
	}
	return []byte(s[start+1 : end])
}

func stripHTMLTags(s string) string {
	if strings.IndexByte(s, '<') < 0 {
		return s
	}
	return htmlTagRe.ReplaceAllString(s, "")
}
