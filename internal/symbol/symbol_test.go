package symbol

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"600519", "600519"},
		{"sh600519", "600519"},
		{"SH600519", "600519"},
		{"600519.SH", "600519"},
		{"sz000001", "000001"},
		{"000001.sz", "000001"},
		{"bj832000", "832000"},
		{"1", "000001"},
		{" 600519 ", "600519"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"600519", "sh600519", "600519.SH", "1", "300750", "832000"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize 不幂等: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestBoardOf(t *testing.T) {
	cases := []struct {
		code string
		want Board
	}{
		{"600519", BoardSHMain},
		{"601318", BoardSHMain},
		{"603288", BoardSHMain},
		{"605001", BoardSHMain},
		{"000001", BoardSZMain},
		{"001979", BoardSZMain},
		{"300750", BoardChiNext},
		{"688981", BoardSTAR},
		{"832000", BoardBSE},
		{"200001", BoardUnknown},
	}
	for _, c := range cases {
		if got := BoardOf(c.code); got != c.want {
			t.Errorf("BoardOf(%s) = %s, want %s", c.code, got, c.want)
		}
	}
}

func TestIsMainBoard(t *testing.T) {
	for _, code := range []string{"600519", "601318", "000001", "001979"} {
		if !IsMainBoard(code) {
			t.Errorf("IsMainBoard(%s) = false, 主板代码应为 true", code)
		}
	}
	for _, code := range []string{"300001", "688001", "832000", "200001"} {
		if IsMainBoard(code) {
			t.Errorf("IsMainBoard(%s) = true, 非主板代码应为 false", code)
		}
	}
}

func TestIsST(t *testing.T) {
	if !IsST("ST康美") || !IsST("*ST海润") || !IsST("st中安") {
		t.Error("ST 名称应被识别")
	}
	if IsST("贵州茅台") {
		t.Error("普通名称不应被识别为 ST")
	}
}

func TestSinaSymbol(t *testing.T) {
	if got := SinaSymbol("600519"); got != "sh600519" {
		t.Errorf("SinaSymbol(600519) = %s", got)
	}
	if got := SinaSymbol("000001"); got != "sz000001" {
		t.Errorf("SinaSymbol(000001) = %s", got)
	}
	if got := SinaSymbol("sh600519"); got != "sh600519" {
		t.Errorf("SinaSymbol(sh600519) = %s", got)
	}
}

func TestTdxMarket(t *testing.T) {
	if TdxMarket("600519") != 1 || TdxMarket("688981") != 1 {
		t.Error("沪市代码市场编号应为 1")
	}
	if TdxMarket("000001") != 0 || TdxMarket("300750") != 0 {
		t.Error("深市代码市场编号应为 0")
	}
}
