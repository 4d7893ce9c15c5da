package stockdata

import "testing"

func TestSecuCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"600519", "600519.SH"},
		{"sh600519", "600519.SH"},
		{"688981", "688981.SH"},
		{"000001", "000001.SZ"},
		{"300750", "300750.SZ"},
	}
	for _, c := range cases {
		if got := secuCode(c.in); got != c.want {
			t.Errorf("secuCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFinanceIndicators(t *testing.T) {
	body := []byte(`{"result":{"data":[
		{"REPORT_DATE_NAME":"2024年报","EPSJB":68.64,"BPS":293.1,"ROEJQ":36.2,
		 "TOTALOPERATEREVE":174144000000,"TOTALOPERATEREVETZ":15.66,
		 "PARENTNETPROFIT":86228000000,"PARENTNETPROFITTZ":15.38,
		 "XSMLL":91.93,"ZCFZL":15.1},
		{"REPORT_DATE":"2024-09-30 00:00:00","EPSJB":48.0,"BPS":270.0}
	]}}`)

	got := parseFinanceIndicators(body)
	if len(got) != 2 {
		t.Fatalf("应解析出2期指标, 实际 %d", len(got))
	}
	first := got[0]
	if first.ReportDate != "2024年报" {
		t.Errorf("报告期 = %q", first.ReportDate)
	}
	if first.EPS != 68.64 || first.ROE != 36.2 {
		t.Errorf("EPS/ROE = %.2f/%.2f", first.EPS, first.ROE)
	}
	if first.Revenue != 174144000000 || first.NetProfitYoY != 15.38 {
		t.Errorf("营收/净利同比解析错误: %+v", first)
	}
	// 缺少 REPORT_DATE_NAME 时回退到报告日期
	if got[1].ReportDate != "2024-09-30" {
		t.Errorf("第二期报告期 = %q, 期望截断日期", got[1].ReportDate)
	}
}

func TestParseFinanceIndicatorsEmpty(t *testing.T) {
	if got := parseFinanceIndicators([]byte(`{"result":null}`)); len(got) != 0 {
		t.Errorf("空结果应返回空切片, 实际 %d 条", len(got))
	}
}

func TestParseMarketNews(t *testing.T) {
	body := []byte(`{"data":{"list":[
		{"title":"两市成交额再破两万亿","showTime":"2025-06-02 15:30:00","mediaName":"证券时报"},
		{"title":"","showTime":"2025-06-02 15:00:00"},
		{"title":"央行开展逆回购操作","showTime":"2025-06-02 09:00:00"}
	]}}`)

	got := parseMarketNews(body)
	if len(got) != 2 {
		t.Fatalf("空标题应被跳过, 实际 %d 条", len(got))
	}
	if got[0].Time != "2025-06-02 15:30" {
		t.Errorf("时间应截断到分钟: %q", got[0].Time)
	}
	if got[1].Source != "东方财富" {
		t.Errorf("缺少来源应回退默认值: %q", got[1].Source)
	}
}
