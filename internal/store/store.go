package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"astock-assistant/internal/model"
	"astock-assistant/internal/stockdata"
	"astock-assistant/internal/symbol"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_bars (
  code       TEXT NOT NULL,
  date       TEXT NOT NULL,
  open       REAL NOT NULL,
  close      REAL NOT NULL,
  high       REAL NOT NULL,
  low        REAL NOT NULL,
  volume     REAL NOT NULL,
  amount     REAL NOT NULL,
  change_pct REAL NOT NULL,
  PRIMARY KEY (code, date)
);
CREATE INDEX IF NOT EXISTS idx_daily_bars_date ON daily_bars(date);
`

// Store 日线归档库，按 (代码, 日期) 去重存储
type Store struct {
	db *sql.DB
}

// Open 打开或创建归档库
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}
	return &Store{db: db}, nil
}

// Close 关闭归档库
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBars 批量写入K线，同代码同日期覆盖
func (s *Store) SaveBars(code string, bars []model.Bar) (int, error) {
	code = symbol.Normalize(code)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`
INSERT OR REPLACE INTO daily_bars(
  code, date, open, close, high, low, volume, amount, change_pct
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	written := 0
	for _, b := range bars {
		if b.Date == "" {
			continue
		}
		if _, err := stmt.Exec(code, b.Date, b.Open, b.Close, b.High, b.Low, b.Volume, b.Amount, b.ChangePct); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

// LoadBars 按日期区间读取K线，升序返回。start/end 为空表示不限
func (s *Store) LoadBars(code, start, end string) ([]model.Bar, error) {
	code = symbol.Normalize(code)

	query := "SELECT date, open, close, high, low, volume, amount, change_pct FROM daily_bars WHERE code = ?"
	args := []any{code}
	if start != "" {
		query += " AND date >= ?"
		args = append(args, start)
	}
	if end != "" {
		query += " AND date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY date ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.Close, &b.High, &b.Low, &b.Volume, &b.Amount, &b.ChangePct); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// LastDate 指定代码已归档的最新交易日，无记录返回空串
func (s *Store) LastDate(code string) (string, error) {
	code = symbol.Normalize(code)

	var last sql.NullString
	err := s.db.QueryRow("SELECT MAX(date) FROM daily_bars WHERE code = ?", code).Scan(&last)
	if err != nil {
		return "", err
	}
	if !last.Valid {
		return "", nil
	}
	return last.String, nil
}

// Codes 已归档的全部代码
func (s *Store) Codes() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT code FROM daily_bars ORDER BY code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// Count 归档总行数
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM daily_bars").Scan(&n)
	return n, err
}

// SyncResult 一次归档同步的统计
type SyncResult struct {
	Stocks  int
	Rows    int
	Skipped int
}

// Sync 抓取指定代码的日线并归档。
// 已有记录的代码只补最新日期之后的数据
func (s *Store) Sync(codes []string, days int) (*SyncResult, error) {
	if days <= 0 {
		days = 250
	}

	result := &SyncResult{}
	startAt := time.Now()
	for i, code := range codes {
		bars, err := stockdata.GetDailyBars(code, days)
		if err != nil || len(bars) == 0 {
			result.Skipped++
			logrus.Debugf("跳过 %s: %v", code, err)
			continue
		}

		last, err := s.LastDate(code)
		if err != nil {
			return result, err
		}
		if last != "" {
			bars = barsAfter(bars, last)
		}
		if len(bars) == 0 {
			result.Skipped++
			continue
		}

		written, err := s.SaveBars(code, bars)
		if err != nil {
			return result, err
		}
		result.Stocks++
		result.Rows += written

		if (i+1)%50 == 0 {
			logrus.Infof("归档进度 %d/%d, 已写入 %d 行, 耗时 %s",
				i+1, len(codes), result.Rows, time.Since(startAt).Truncate(time.Second))
		}
	}
	logrus.Infof("归档完成: %d 只股票, %d 行, 跳过 %d, 耗时 %s",
		result.Stocks, result.Rows, result.Skipped, time.Since(startAt).Truncate(time.Second))
	return result, nil
}

func barsAfter(bars []model.Bar, date string) []model.Bar {
	for i, b := range bars {
		if b.Date > date {
			return bars[i:]
		}
	}
	return nil
}
