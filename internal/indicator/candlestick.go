package indicator

import (
	"math"
	"sort"

	"astock-assistant/internal/model"
)

// Pattern 识别到的K线形态
type Pattern struct {
	Name      string `json:"name"`
	Direction string `json:"direction"` // 看涨/看跌
	Score     int    `json:"score"`     // 正看涨负看跌，绝对值为强度
	Desc      string `json:"desc"`
}

// Candlesticks 识别最后一根K线上的蜡烛图形态，按强度降序返回
func Candlesticks(bars []model.Bar) []Pattern {
	if len(bars) < 6 {
		return nil
	}

	var found []Pattern
	add := func(name string, score int, desc string) {
		dir := "看涨"
		if score < 0 {
			dir = "看跌"
		}
		found = append(found, Pattern{Name: name, Direction: dir, Score: score, Desc: desc})
	}

	n := len(bars)
	cur := bars[n-1]
	prev := bars[n-2]

	trendUp := bars[n-2].Close > bars[n-6].Close
	trendDown := bars[n-2].Close < bars[n-6].Close

	if isHammerShape(cur) {
		if trendDown {
			add("锤子线", 10, "看涨反转")
		} else if trendUp {
			add("上吊线", -8, "看跌警告")
		}
	}

	if engulfs(cur, prev) {
		if bullBar(cur) && !bullBar(prev) {
			add("吞没", 8, "趋势反转")
		} else if !bullBar(cur) && bullBar(prev) {
			add("吞没", -8, "趋势反转")
		}
	}

	if isDoji(cur) {
		add("十字星", 3, "犹豫/转折")
	}

	if n >= 3 {
		a, b, c := bars[n-3], bars[n-2], bars[n-1]
		if isMorningStar(a, b, c) {
			if isDoji(b) {
				add("启明星", 10, "强底部信号")
			} else {
				add("早晨之星", 10, "强看涨")
			}
		}
		if isEveningStar(a, b, c) {
			add("黄昏之星", -10, "强看跌")
		}
		if isThreeSoldiers(a, b, c) {
			add("三白兵", 10, "强势上攻")
		}
		if isThreeCrows(a, b, c) {
			add("三黑鸦", -10, "连续下跌")
		}
	}

	if isPiercing(prev, cur) {
		add("穿刺线", 8, "看涨反转")
	}
	if isDarkCloud(prev, cur) {
		add("乌云盖顶", -8, "看跌反转")
	}

	if isHarami(prev, cur) {
		if bullBar(cur) {
			add("孕线", 4, "趋势暂停")
		} else {
			add("孕线", -4, "趋势暂停")
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return abs(found[i].Score) > abs(found[j].Score)
	})
	return found
}

// BullishBar 阳线判断，筛选器用
func BullishBar(b model.Bar) bool {
	return bullBar(b)
}

func bullBar(b model.Bar) bool { return b.Close > b.Open }

func body(b model.Bar) float64 { return math.Abs(b.Close - b.Open) }

func barRange(b model.Bar) float64 { return b.High - b.Low }

func upperShadow(b model.Bar) float64 { return b.High - math.Max(b.Open, b.Close) }

func lowerShadow(b model.Bar) float64 { return math.Min(b.Open, b.Close) - b.Low }

// isHammerShape 小实体、长下影、极短上影
func isHammerShape(b model.Bar) bool {
	bd := body(b)
	if bd <= 0 || barRange(b) <= 0 {
		return false
	}
	return lowerShadow(b) >= 2*bd && upperShadow(b) <= 0.3*bd
}

func isDoji(b model.Bar) bool {
	r := barRange(b)
	return r > 0 && body(b) <= 0.1*r
}

// engulfs 当前实体完全包住前一根实体
func engulfs(cur, prev model.Bar) bool {
	curHi := math.Max(cur.Open, cur.Close)
	curLo := math.Min(cur.Open, cur.Close)
	prevHi := math.Max(prev.Open, prev.Close)
	prevLo := math.Min(prev.Open, prev.Close)
	return body(prev) > 0 && curHi > prevHi && curLo < prevLo
}

func isHarami(prev, cur model.Bar) bool {
	return engulfs(prev, cur)
}

func isMorningStar(a, b, c model.Bar) bool {
	return !bullBar(a) && body(a) > barRange(a)*0.5 &&
		body(b) < body(a)*0.5 &&
		bullBar(c) && c.Close > (a.Open+a.Close)/2
}

func isEveningStar(a, b, c model.Bar) bool {
	return bullBar(a) && body(a) > barRange(a)*0.5 &&
		body(b) < body(a)*0.5 &&
		!bullBar(c) && c.Close < (a.Open+a.Close)/2
}

func isThreeSoldiers(a, b, c model.Bar) bool {
	return bullBar(a) && bullBar(b) && bullBar(c) &&
		b.Close > a.Close && c.Close > b.Close &&
		b.Open > a.Open && c.Open > b.Open
}

func isThreeCrows(a, b, c model.Bar) bool {
	return !bullBar(a) && !bullBar(b) && !bullBar(c) &&
		b.Close < a.Close && c.Close < b.Close &&
		b.Open < a.Open && c.Open < b.Open
}

// isPiercing 前阴后阳，低开收复前一根实体中点以上
func isPiercing(prev, cur model.Bar) bool {
	if bullBar(prev) || !bullBar(cur) {
		return false
	}
	mid := (prev.Open + prev.Close) / 2
	return cur.Open < prev.Close && cur.Close > mid && cur.Close < prev.Open
}

func isDarkCloud(prev, cur model.Bar) bool {
	if !bullBar(prev) || bullBar(cur) {
		return false
	}
	mid := (prev.Open + prev.Close) / 2
	return cur.Open > prev.Close && cur.Close < mid && cur.Close > prev.Open
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
