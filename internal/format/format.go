package format

import (
	"fmt"
	"io"
	"strings"
)

// Number 按数值大小折算为 万/亿 单位
func Number(value float64, decimals int) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e8:
		return fmt.Sprintf("%.*f亿", decimals, value/1e8)
	case abs >= 1e4:
		return fmt.Sprintf("%.*f万", decimals, value/1e4)
	default:
		return fmt.Sprintf("%.*f", decimals, value)
	}
}

// Percent 带正负号的百分比
func Percent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

// Price 人民币价格
func Price(value float64) string {
	return fmt.Sprintf("¥%.2f", value)
}

// Printer 统一的报告输出器
type Printer struct {
	w io.Writer
}

// NewPrinter 输出到指定 writer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Header 报告大标题
func (p *Printer) Header(title string) {
	line := strings.Repeat("━", 50)
	fmt.Fprintf(p.w, "\n%s\n  %s\n%s\n", line, title, line)
}

// Section 小节标题
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.w, "\n  ▸ %s\n  %s\n", title, strings.Repeat("─", 40))
}

// KV 缩进的键值对
func (p *Printer) KV(key, value string) {
	fmt.Fprintf(p.w, "    %s: %s\n", key, value)
}

// Line 一行普通内容
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, "    "+format+"\n", args...)
}

// Table 简易对齐表格，最多输出 maxRows 行
func (p *Printer) Table(headers []string, rows [][]string, maxRows int) {
	if len(rows) == 0 {
		fmt.Fprintln(p.w, "    (无数据)")
		return
	}

	shown := rows
	if maxRows > 0 && len(rows) > maxRows {
		shown = rows[:maxRows]
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range shown {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	fmt.Fprintf(p.w, "    %s\n", formatRow(headers, widths))
	for _, row := range shown {
		fmt.Fprintf(p.w, "    %s\n", formatRow(row, widths))
	}
	if len(rows) > len(shown) {
		fmt.Fprintf(p.w, "    ... 共 %d 条，仅显示前 %d 条\n", len(rows), len(shown))
	}
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := 0
		if i < len(widths) {
			pad = widths[i] - displayWidth(cell)
		}
		if pad < 0 {
			pad = 0
		}
		parts[i] = cell + strings.Repeat(" ", pad)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// displayWidth 终端显示宽度，中日韩全角字符按2列计
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r >= 0x1100 && (r <= 0x115F || (r >= 0x2E80 && r <= 0xA4CF) ||
			(r >= 0xAC00 && r <= 0xD7A3) || (r >= 0xF900 && r <= 0xFAFF) ||
			(r >= 0xFE30 && r <= 0xFE4F) || (r >= 0xFF00 && r <= 0xFF60) ||
			(r >= 0xFFE0 && r <= 0xFFE6)) {
			w += 2
		} else {
			w++
		}
	}
	return w
}
