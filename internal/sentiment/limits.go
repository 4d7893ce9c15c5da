package sentiment

import (
	"strings"

	"astock-assistant/internal/symbol"
)

// 涨跌停阈值的容错空间（百分点）
const limitTolerance = 0.2

// LimitUpPct 按板块估算涨跌停幅度（近似口径，非交易所精确数据）
func LimitUpPct(code, name string) float64 {
	code = symbol.Normalize(code)
	if symbol.IsST(name) {
		return 5.0
	}
	if hasAnyPrefix(code, "300", "301", "688", "689") {
		return 20.0
	}
	if strings.HasPrefix(code, "8") || strings.HasPrefix(code, "4") {
		return 30.0
	}
	return 10.0
}

// LimitThreshold 判定涨跌停用的阈值，扣掉容错空间
func LimitThreshold(code, name string) float64 {
	return LimitUpPct(code, name) - limitTolerance
}

// IsLimitUp 当日涨幅是否达到涨停
func IsLimitUp(pct float64, code, name string) bool {
	return pct >= LimitThreshold(code, name)
}

// IsLimitDown 当日跌幅是否达到跌停
func IsLimitDown(pct float64, code, name string) bool {
	return pct <= -LimitThreshold(code, name)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
