package symbol

import "strings"

// Board 股票所属板块
type Board string

const (
	BoardSHMain  Board = "上海主板"
	BoardSZMain  Board = "深圳主板"
	BoardChiNext Board = "创业板"
	BoardSTAR    Board = "科创板"
	BoardBSE     Board = "北交所"
	BoardUnknown Board = "未知"
)

// Normalize 规范化股票代码：去掉市场前缀/后缀，补足6位
// 输入 "sh600519"、"600519.SH"、"600519" 均返回 "600519"
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, prefix := range []string{"SH", "SZ", "BJ"} {
		code = strings.TrimPrefix(code, prefix)
	}
	for _, suffix := range []string{".SH", ".SZ", ".BJ"} {
		code = strings.TrimSuffix(code, suffix)
	}
	for len(code) < 6 {
		code = "0" + code
	}
	return code
}

// BoardOf 判断代码所属板块
func BoardOf(code string) Board {
	code = Normalize(code)
	switch {
	case hasAnyPrefix(code, "600", "601", "603", "605"):
		return BoardSHMain
	case hasAnyPrefix(code, "000", "001"):
		return BoardSZMain
	case strings.HasPrefix(code, "300"):
		return BoardChiNext
	case strings.HasPrefix(code, "688"):
		return BoardSTAR
	case strings.HasPrefix(code, "8"):
		return BoardBSE
	default:
		return BoardUnknown
	}
}

// IsMainBoard 是否为主板股票（沪市主板 + 深市主板）
func IsMainBoard(code string) bool {
	switch BoardOf(code) {
	case BoardSHMain, BoardSZMain:
		return true
	}
	return false
}

// IsST 名称中是否含 ST 标记
func IsST(name string) bool {
	return strings.Contains(strings.ToUpper(name), "ST")
}

// SinaSymbol 转为新浪行情接口使用的带前缀代码，如 sh600519 / sz000001
func SinaSymbol(code string) string {
	code = Normalize(code)
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return "sh" + code
	}
	return "sz" + code
}

// TdxMarket 通达信市场编号：1=上海 0=深圳
func TdxMarket(code string) int {
	code = Normalize(code)
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return 1
	}
	return 0
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
