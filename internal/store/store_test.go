package store

import (
	"path/filepath"
	"testing"

	"astock-assistant/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bars.db"))
	if err != nil {
		t.Fatalf("打开归档库失败: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBars() []model.Bar {
	return []model.Bar{
		{Date: "2025-06-02", Open: 10, Close: 10.5, High: 10.6, Low: 9.9, Volume: 1e6, Amount: 1e7, ChangePct: 5.0},
		{Date: "2025-06-03", Open: 10.5, Close: 10.2, High: 10.7, Low: 10.1, Volume: 8e5, Amount: 8e6, ChangePct: -2.86},
		{Date: "2025-06-04", Open: 10.2, Close: 10.8, High: 10.9, Low: 10.2, Volume: 1.2e6, Amount: 1.3e7, ChangePct: 5.88},
	}
}

func TestSaveAndLoadBars(t *testing.T) {
	s := newTestStore(t)

	n, err := s.SaveBars("600519", sampleBars())
	if err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if n != 3 {
		t.Fatalf("写入行数 = %d, 期望 3", n)
	}

	bars, err := s.LoadBars("600519", "", "")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("读取行数 = %d, 期望 3", len(bars))
	}
	if bars[0].Date != "2025-06-02" || bars[2].Date != "2025-06-04" {
		t.Errorf("应按日期升序: %s .. %s", bars[0].Date, bars[2].Date)
	}
	if bars[1].Close != 10.2 {
		t.Errorf("收盘价 = %.2f, 期望 10.2", bars[1].Close)
	}
}

func TestSaveBarsUpsert(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveBars("600519", sampleBars()); err != nil {
		t.Fatal(err)
	}
	// 同日期重写应覆盖而非累加
	revised := []model.Bar{{Date: "2025-06-03", Open: 10.5, Close: 99, High: 99, Low: 10, Volume: 1, Amount: 1}}
	if _, err := s.SaveBars("600519", revised); err != nil {
		t.Fatal(err)
	}

	bars, err := s.LoadBars("600519", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 3 {
		t.Fatalf("覆盖后行数 = %d, 期望 3", len(bars))
	}
	if bars[1].Close != 99 {
		t.Errorf("覆盖后收盘价 = %.2f, 期望 99", bars[1].Close)
	}
}

func TestLoadBarsDateRange(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveBars("600519", sampleBars()); err != nil {
		t.Fatal(err)
	}

	bars, err := s.LoadBars("600519", "2025-06-03", "2025-06-03")
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 || bars[0].Date != "2025-06-03" {
		t.Errorf("区间查询结果错误: %+v", bars)
	}
}

func TestLastDateAndCodes(t *testing.T) {
	s := newTestStore(t)

	last, err := s.LastDate("600519")
	if err != nil {
		t.Fatal(err)
	}
	if last != "" {
		t.Errorf("无记录时最新日期应为空, 实际 %q", last)
	}

	if _, err := s.SaveBars("600519", sampleBars()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveBars("sz000001", sampleBars()[:1]); err != nil {
		t.Fatal(err)
	}

	last, err = s.LastDate("600519")
	if err != nil {
		t.Fatal(err)
	}
	if last != "2025-06-04" {
		t.Errorf("最新日期 = %s, 期望 2025-06-04", last)
	}

	codes, err := s.Codes()
	if err != nil {
		t.Fatal(err)
	}
	// 代码入库前会归一化
	if len(codes) != 2 || codes[0] != "000001" || codes[1] != "600519" {
		t.Errorf("代码列表错误: %v", codes)
	}
}

func TestBarsAfter(t *testing.T) {
	bars := sampleBars()
	got := barsAfter(bars, "2025-06-02")
	if len(got) != 2 || got[0].Date != "2025-06-03" {
		t.Errorf("增量切片错误: %+v", got)
	}
	if got := barsAfter(bars, "2025-06-04"); got != nil {
		t.Errorf("无新数据应返回nil: %+v", got)
	}
}
