package model

// Stock 股票基本信息
type Stock struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"` // SH: 上海, SZ: 深圳
}

// Bar 单根K线，按日期升序组织
type Bar struct {
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"`
	Amount    float64 `json:"amount"`
	ChangePct float64 `json:"change_pct"`
}

// Quote 实时行情快照
type Quote struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	PrevClose float64 `json:"prev_close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"` // 股
	Amount    float64 `json:"amount"` // 元
	Turnover  float64 `json:"turnover"`
	PE        float64 `json:"pe"`
	ChangeAmt float64 `json:"change_amt"`
	ChangePct float64 `json:"change_pct"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
}

// KlineResponse K线响应
type KlineResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Period string `json:"period"`
	Data   []Bar  `json:"data"`
}
