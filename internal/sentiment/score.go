package sentiment

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
)

// Score 市场情绪评分
type Score struct {
	Value       int    `json:"value"` // 0-100
	Level       string `json:"level"`
	Advice      string `json:"advice"`
	PositionPct int    `json:"position_pct"` // 建议仓位
}

// CalcScore 按固定加减分规则合成情绪分。
// 0-20 冰点, 20-40 退潮, 40-60 中性, 60-80 修复, 80-100 亢奋
func CalcScore(b *Breadth, indices []model.Quote) *Score {
	score := 50

	// 赚钱效应
	switch {
	case b.MoneyEffect > 70:
		score += 20
	case b.MoneyEffect > 55:
		score += 10
	case b.MoneyEffect < 30:
		score -= 20
	case b.MoneyEffect < 45:
		score -= 10
	}

	// 涨跌比
	switch {
	case b.UpDownRatio > 3:
		score += 15
	case b.UpDownRatio > 1.5:
		score += 8
	case b.UpDownRatio < 0.3:
		score -= 15
	case b.UpDownRatio < 0.7:
		score -= 8
	}

	// 涨停数
	switch {
	case b.LimitUp > 80:
		score += 10
	case b.LimitUp > 30:
		score += 5
	case b.LimitUp < 5:
		score -= 10
	}

	// 跌停数
	switch {
	case b.LimitDown > 30:
		score -= 10
	case b.LimitDown > 10:
		score -= 5
	}

	// 连板高度（短线活跃度）
	switch {
	case b.StreakHeight >= 6:
		score += 10
	case b.StreakHeight >= 4:
		score += 5
	case b.StreakHeight <= 2:
		score -= 5
	}

	// 指数涨跌
	if len(indices) > 0 {
		sum := 0.0
		for _, idx := range indices {
			sum += idx.ChangePct
		}
		avg := sum / float64(len(indices))
		switch {
		case avg > 1:
			score += 10
		case avg > 0:
			score += 5
		case avg < -1:
			score -= 10
		case avg < 0:
			score -= 5
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	s := &Score{Value: score}
	switch {
	case score >= 80:
		s.Level = "亢奋"
		s.Advice = "注意追高风险，适当减仓"
		s.PositionPct = 50
	case score >= 60:
		s.Level = "修复"
		s.Advice = "适当参与，控制仓位"
		s.PositionPct = 60
	case score >= 40:
		s.Level = "中性"
		s.Advice = "精选个股，半仓操作"
		s.PositionPct = 50
	case score >= 20:
		s.Level = "退潮"
		s.Advice = "谨慎操作，轻仓观望"
		s.PositionPct = 30
	default:
		s.Level = "冰点"
		s.Advice = "耐心等待，可少量试探"
		s.PositionPct = 20
	}
	return s
}

// Dashboard 情绪面板聚合数据
type Dashboard struct {
	Indices    []model.Quote `json:"indices"`
	Breadth    *Breadth      `json:"breadth"`
	Score      *Score        `json:"score"`
	HotSectors []Sector      `json:"hot_sectors"`
}

// GetDashboard 采集指数、宽度、板块并打分
func GetDashboard() (*Dashboard, error) {
	breadth, err := GetBreadth()
	if err != nil {
		return nil, err
	}

	indices := stockdata.IndexQuotes()
	d := &Dashboard{
		Indices: indices,
		Breadth: breadth,
		Score:   CalcScore(breadth, indices),
	}

	sectors, err := HotSectors(10)
	if err != nil {
		logrus.Warnf("获取板块排行失败: %v", err)
	} else {
		d.HotSectors = sectors
	}
	return d, nil
}

// CurrentScore 当前情绪分，筛选器的冰点策略用它做闸门
func CurrentScore() (*Score, error) {
	breadth, err := GetBreadth()
	if err != nil {
		return nil, err
	}
	return CalcScore(breadth, stockdata.IndexQuotes()), nil
}

// Sector 板块行情
type Sector struct {
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct"`
	LeadStock string  `json:"lead_stock"`
}

// HotSectors 行业板块涨幅排行
func HotSectors(count int) ([]Sector, error) {
	url := fmt.Sprintf("https://push2.eastmoney.com/api/qt/clist/get?pn=1&pz=%d&po=1&np=1&fltt=2&fid=f3&fs=m:90+t:2&fields=f3,f14,f128", count)
	body, err := stockdata.Fetch(url, "https://quote.eastmoney.com")
	if err != nil {
		return nil, err
	}

	diff := gjson.GetBytes(body, "data.diff")
	if !diff.Exists() {
		return nil, fmt.Errorf("板块接口返回空数据")
	}

	var sectors []Sector
	diff.ForEach(func(_, item gjson.Result) bool {
		sectors = append(sectors, Sector{
			Name:      item.Get("f14").String(),
			ChangePct: item.Get("f3").Float(),
			LeadStock: item.Get("f128").String(),
		})
		return true
	})
	return sectors, nil
}
