package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"astock-assistant/internal/format"
	"astock-assistant/internal/holiday"
	"astock-assistant/internal/portfolio"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/store"
)

// StartArchiveScheduler 启动收盘后日线归档任务。
// 每个交易日 ARCHIVE_SYNC_TIME（默认16:30）同步持仓与已归档代码的日线
func StartArchiveScheduler(st *store.Store, ledger *portfolio.Ledger) {
	if os.Getenv("ARCHIVE_SYNC_ENABLED") == "false" {
		logrus.Info("日线归档任务已禁用")
		return
	}

	hour, minute := parseClock(os.Getenv("ARCHIVE_SYNC_TIME"), 16, 30)
	retryCount := envInt("ARCHIVE_RETRY_COUNT", 3)
	retryInterval := envInt("ARCHIVE_RETRY_INTERVAL", 10)

	logrus.Infof("日线归档任务已启动，执行时间 %02d:%02d，重试 %d 次，间隔 %d 分钟",
		hour, minute, retryCount, retryInterval)

	go func() {
		for {
			next := nextRunAt(time.Now(), hour, minute)
			logrus.Infof("下次归档时间: %s（%v后）",
				next.Format("2006-01-02 15:04:05"), time.Until(next).Round(time.Minute))
			time.Sleep(time.Until(next))

			if !holiday.IsTradingDayNow() {
				logrus.Info("今日休市，跳过归档")
				continue
			}
			runWithRetry("日线归档", retryCount, retryInterval, func() error {
				return syncArchive(st, ledger)
			})
		}
	}()
}

// syncArchive 同步持仓代码与已归档代码的日线数据
func syncArchive(st *store.Store, ledger *portfolio.Ledger) error {
	codes, err := st.Codes()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		seen[c] = true
	}
	positions, err := ledger.Positions()
	if err != nil {
		return err
	}
	for code := range positions {
		if !seen[code] {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		logrus.Info("暂无需要归档的代码")
		return nil
	}

	result, err := st.Sync(codes, 250)
	if err != nil {
		return err
	}
	if result.Skipped > len(codes)/2 {
		return fmt.Errorf("归档失败过多: %d/%d", result.Skipped, len(codes))
	}
	return nil
}

// StartReviewScheduler 启动每日复盘邮件任务，
// 交易日 REVIEW_MAIL_TIME（默认17:00）发送当日复盘
func StartReviewScheduler(ledger *portfolio.Ledger, sendReport func(date, htmlBody string) error) {
	if os.Getenv("REVIEW_MAIL_ENABLED") != "true" {
		logrus.Info("复盘邮件任务未启用")
		return
	}

	hour, minute := parseClock(os.Getenv("REVIEW_MAIL_TIME"), 17, 0)
	logrus.Infof("复盘邮件任务已启动，执行时间 %02d:%02d", hour, minute)

	go func() {
		for {
			next := nextRunAt(time.Now(), hour, minute)
			time.Sleep(time.Until(next))

			if !holiday.IsTradingDayNow() {
				continue
			}
			date := time.Now().Format("2006-01-02")
			body, err := buildReviewMail(ledger, date)
			if err != nil {
				logrus.Warnf("生成复盘邮件失败: %v", err)
				continue
			}
			if err := sendReport(date, body); err != nil {
				logrus.Warnf("发送复盘邮件失败: %v", err)
			}
		}
	}()
}

// buildReviewMail 汇总当日交易与持仓为HTML片段
func buildReviewMail(ledger *portfolio.Ledger, date string) (string, error) {
	review, err := ledger.Review(date, func(code string) (float64, string, error) {
		q, err := stockdata.GetQuote(code)
		if err != nil {
			return 0, "", err
		}
		return q.Price, q.Name, nil
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>今日交易 %d 笔：买入 %d 笔，卖出 %d 笔</p>",
		len(review.TodayTrades), review.BuyCount, review.SellCount)
	fmt.Fprintf(&b, "<p>持仓盈 %d 只 / 亏 %d 只</p>", review.WinCount, review.LossCount)
	fmt.Fprintf(&b, "<p>持仓市值 %s，浮动盈亏 %s（%s）</p>",
		format.Number(review.Summary.TotalValue, 2),
		format.Number(review.Summary.TotalProfit, 2),
		format.Percent(review.Summary.ProfitPct))
	return b.String(), nil
}

func runWithRetry(name string, maxRetry, intervalMinutes int, fn func() error) {
	for i := 0; i <= maxRetry; i++ {
		if i > 0 {
			logrus.Infof("%s 第 %d 次重试", name, i)
		}
		if err := fn(); err != nil {
			logrus.Warnf("%s 失败: %v", name, err)
			if i < maxRetry {
				time.Sleep(time.Duration(intervalMinutes) * time.Minute)
			}
			continue
		}
		logrus.Infof("%s 完成", name)
		return
	}
	logrus.Errorf("%s 已重试 %d 次仍失败", name, maxRetry)
}

// nextRunAt 当天或次日的指定时刻
func nextRunAt(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseClock(s string, defHour, defMinute int) (int, int) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return defHour, defMinute
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return defHour, defMinute
	}
	return h, m
}
