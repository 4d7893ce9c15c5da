package indicator

// ScoreResult 综合技术评分
type ScoreResult struct {
	Score   float64  `json:"score"` // 0-100
	Rating  string   `json:"rating"`
	Reasons []string `json:"reasons"`
}

// Score 按固定加减分规则把各指标信号合成 0-100 综合分。
// 规则是手工调的启发式，阈值和分值保持原样
func Score(ma MAResult, macd MACDResult, kdj KDJResult, boll BOLLResult, rsi RSIResult, vol VolumeResult) ScoreResult {
	score := 50.0
	var reasons []string

	if len(ma.Lines) > 0 {
		frac := float64(ma.BullishCount()) / float64(len(ma.Lines))
		score += (frac - 0.5) * 30
		if ma.BullAlignment {
			score += 5
			reasons = append(reasons, "均线多头排列")
		}
	}

	if macd.Valid {
		switch {
		case macd.GoldenCross:
			score += 15
			reasons = append(reasons, "MACD金叉")
		case macd.DeathCross:
			score -= 15
			reasons = append(reasons, "MACD死叉")
		case macd.Trend == "多头":
			score += 5
		default:
			score -= 5
		}
	}

	if kdj.Valid {
		if kdj.GoldenCross {
			score += 10
			reasons = append(reasons, "KDJ金叉")
		}
		if kdj.K < 20 {
			score += 5
		} else if kdj.K > 80 {
			score -= 5
		}
	}

	if boll.Valid {
		if boll.PositionPct < 20 {
			score += 8
			reasons = append(reasons, "接近布林下轨")
		} else if boll.PositionPct > 80 {
			score -= 5
		}
	}

	if rsi6, ok := rsi.Value(6); ok {
		if rsi6 < 30 {
			score += 8
			reasons = append(reasons, "RSI超卖")
		} else if rsi6 > 70 {
			score -= 8
		}
	}

	switch vol.Combo {
	case "放量上涨":
		score += 5
		reasons = append(reasons, "放量上涨")
	case "放量下跌":
		score -= 5
	case "缩量回调":
		score += 3
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return ScoreResult{
		Score:   round1(score),
		Rating:  rating(score),
		Reasons: reasons,
	}
}

func rating(score float64) string {
	switch {
	case score >= 80:
		return "强烈买入"
	case score >= 60:
		return "买入"
	case score >= 40:
		return "中性"
	case score >= 20:
		return "卖出"
	default:
		return "强烈卖出"
	}
}
