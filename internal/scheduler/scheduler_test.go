package scheduler

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in           string
		hour, minute int
	}{
		{"16:30", 16, 30},
		{"7:05", 7, 5},
		{"", 9, 0},
		{"abc", 9, 0},
		{"25:00", 9, 0},
		{"12:61", 9, 0},
	}
	for _, c := range cases {
		h, m := parseClock(c.in, 9, 0)
		if h != c.hour || m != c.minute {
			t.Errorf("parseClock(%q) = %d:%d, 期望 %d:%d", c.in, h, m, c.hour, c.minute)
		}
	}
}

func TestNextRunAt(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	// 当天尚未到执行时间
	next := nextRunAt(now, 16, 30)
	if next.Day() != 2 || next.Hour() != 16 || next.Minute() != 30 {
		t.Errorf("next = %v, 期望当天16:30", next)
	}

	// 已过执行时间则顺延到次日
	next = nextRunAt(now, 9, 0)
	if next.Day() != 3 || next.Hour() != 9 {
		t.Errorf("next = %v, 期望次日09:00", next)
	}
}

func TestRunWithRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	runWithRetry("测试任务", 3, 0, func() error {
		calls++
		if calls < 2 {
			return errTest
		}
		return nil
	})
	if calls != 2 {
		t.Errorf("calls = %d, 期望失败一次后第二次成功", calls)
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "测试错误" }
