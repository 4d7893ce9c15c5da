package screener

import (
	"testing"

	"astock-assistant/internal/model"
)

func sampleSpot() []model.Quote {
	return []model.Quote{
		{Code: "600001", Name: "甲", Price: 10, ChangePct: 2.0, Turnover: 8, Amount: 5e8},
		{Code: "600002", Name: "乙", Price: 50, ChangePct: 6.5, Turnover: 15, Amount: 9e8},
		{Code: "600003", Name: "丙", Price: 5, ChangePct: -3.0, Turnover: 2, Amount: 1e8},
		{Code: "600004", Name: "丁", Price: 200, ChangePct: 9.9, Turnover: 12, Amount: 7e8},
		{Code: "600005", Name: "戊", Price: 8, ChangePct: 0.5, Turnover: 30, Amount: 2e8, PE: 12},
	}
}

func TestFiltersApply(t *testing.T) {
	flt := Filters{ChangeMin: f(1.0), ChangeMax: f(7.0)}
	got := flt.Apply(sampleSpot())
	if len(got) != 2 {
		t.Fatalf("涨幅1-7应命中2只, 实际 %d", len(got))
	}
	for _, q := range got {
		if q.ChangePct < 1 || q.ChangePct > 7 {
			t.Errorf("%s 涨幅 %.1f 越界", q.Code, q.ChangePct)
		}
	}
}

func TestFiltersPriceAndTurnover(t *testing.T) {
	flt := Filters{
		ChangeMin: f(9.5), TurnoverMin: f(5.0), TurnoverMax: f(25.0),
		PriceMin: f(3.0), PriceMax: f(100.0),
	}
	got := flt.Apply(sampleSpot())
	// 600004 涨幅够但价格200超上限
	if len(got) != 0 {
		t.Errorf("价格越界不应命中: %+v", got)
	}
}

func TestFiltersPE(t *testing.T) {
	flt := Filters{PEMax: f(20.0)}
	got := flt.Apply(sampleSpot())
	// 只有600005有有效市盈率
	if len(got) != 1 || got[0].Code != "600005" {
		t.Errorf("PE筛选应只留600005: %+v", got)
	}
}

func TestExcludeSpecial(t *testing.T) {
	spot := []model.Quote{
		{Code: "600001", Name: "甲", ChangePct: 3},
		{Code: "600002", Name: "ST乙", ChangePct: 3},
		{Code: "000001", Name: "*ST丙", ChangePct: 3},
		{Code: "300001", Name: "丁", ChangePct: 3},
		{Code: "688001", Name: "戊", ChangePct: 3},
		{Code: "832000", Name: "己", ChangePct: 3},
		{Code: "000002", Name: "庚", ChangePct: 3},
	}
	got := excludeSpecial(spot)
	if len(got) != 2 {
		t.Fatalf("预筛后应剩2只, 实际 %d: %+v", len(got), got)
	}
	if got[0].Code != "600001" || got[1].Code != "000002" {
		t.Errorf("ST股和非主板应被剔除: %+v", got)
	}
}

func TestFindPreset(t *testing.T) {
	for _, key := range []string{"short_term", "oversold_bounce", "volume_breakout",
		"leader_first_board", "trend_pullback", "ice_reversal"} {
		if _, ok := FindPreset(key); !ok {
			t.Errorf("缺少预设 %s", key)
		}
	}
	if _, ok := FindPreset("nope"); ok {
		t.Error("不存在的预设不应命中")
	}
}

func TestSelectCandidatesByAmount(t *testing.T) {
	got := selectCandidates(sampleSpot())
	if got[0].Code != "600002" {
		t.Errorf("候选集应按成交额降序, 首位 %s", got[0].Code)
	}
}

func TestHead(t *testing.T) {
	spot := sampleSpot()
	if got := head(spot, 2); len(got) != 2 {
		t.Errorf("head(2) 返回 %d 条", len(got))
	}
	if got := head(spot, 100); len(got) != len(spot) {
		t.Errorf("head 超过长度应原样返回")
	}
}
