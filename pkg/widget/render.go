package widget

import (
	"fmt"
	"io"
)

// ==================== 剩余时间格式化 ====================

// TimeParts 拆分后的剩余时间显示单元
// 时/分/秒固定两位补零；天数为 0 时整个天数单元不展示
type TimeParts struct {
	Days     string
	Hours    string
	Minutes  string
	Seconds  string
	ShowDays bool
}

// SplitRemaining 把剩余毫秒数拆成天/时/分/秒
func SplitRemaining(remainingMs int64) TimeParts {
	if remainingMs < 0 {
		remainingMs = 0
	}
	totalSeconds := remainingMs / 1000

	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return TimeParts{
		Days:     fmt.Sprintf("%02d", days),
		Hours:    fmt.Sprintf("%02d", hours),
		Minutes:  fmt.Sprintf("%02d", minutes),
		Seconds:  fmt.Sprintf("%02d", seconds),
		ShowDays: days > 0,
	}
}

// String 文本形式，如 "01:02:03" 或 "02d 01:02:03"
func (p TimeParts) String() string {
	if p.ShowDays {
		return fmt.Sprintf("%sd %s:%s:%s", p.Days, p.Hours, p.Minutes, p.Seconds)
	}
	return fmt.Sprintf("%s:%s:%s", p.Hours, p.Minutes, p.Seconds)
}

// ==================== 渲染接口 ====================

// Frame 单帧渲染内容
type Frame struct {
	Text            string
	BackgroundColor string
	TextColor       string
	Position        string
	Parts           TimeParts
	// Urgent 剩余不足一小时的醒目子状态，每次滴答重算，不持久化
	Urgent bool
}

// Renderer 挂件渲染器
// 引擎只负责算出每帧内容；落到哪里 (终端、页面、日志) 由渲染器决定
type Renderer interface {
	Render(frame Frame)
	Hide()
}

// TextRenderer 终端文本渲染器
type TextRenderer struct {
	Out io.Writer
}

// Render 输出一行倒计时
func (r *TextRenderer) Render(frame Frame) {
	marker := ""
	if frame.Urgent {
		marker = " [!]"
	}
	fmt.Fprintf(r.Out, "%s %s%s\n", frame.Text, frame.Parts, marker)
}

// Hide 隐藏挂件
func (r *TextRenderer) Hide() {
	fmt.Fprintln(r.Out, "(hidden)")
}
