package model

import (
	"regexp"
	"strings"
)

// ==================== 外观配置 ====================

// Position 挂件展示位置
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// 外观默认值
// 外观字段属于展示层配置，非法输入一律静默回退默认值，不报错
const (
	DefaultBackgroundColor = "#000000"
	DefaultTextColor       = "#FFFFFF"
	DefaultText            = "Hurry! Sale ends in"

	MaxAppearanceTextLen = 100
	MaxTimerNameLen      = 200
)

// DefaultPosition 默认展示位置
const DefaultPosition = PositionTop

// Appearance 挂件外观配置 (JSON 子文档)
type Appearance struct {
	BackgroundColor string   `json:"backgroundColor"`
	TextColor       string   `json:"textColor"`
	Position        Position `json:"position"`
	Text            string   `json:"text"`
}

// 仅接受 # 前缀的 3 位或 6 位十六进制颜色
var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ValidateColor 校验颜色值
// 非法颜色 (如 "red"、"#12") 返回指定默认值
func ValidateColor(color, defaultValue string) string {
	trimmed := strings.TrimSpace(color)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return defaultValue
}

// SanitizeText 清洗文本：去首尾空白并静默截断到 maxLen 个字符
func SanitizeText(text string, maxLen int) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}

// NormalizeAppearance 归一化外观配置
// 全函数：任何输入 (包括 nil) 都返回填满默认值的合法结构，且幂等
func NormalizeAppearance(in *Appearance) Appearance {
	if in == nil {
		return Appearance{
			BackgroundColor: DefaultBackgroundColor,
			TextColor:       DefaultTextColor,
			Position:        DefaultPosition,
			Text:            DefaultText,
		}
	}

	position := in.Position
	switch position {
	case PositionTop, PositionMiddle, PositionBottom:
	default:
		position = DefaultPosition
	}

	text := SanitizeText(in.Text, MaxAppearanceTextLen)
	if text == "" {
		text = DefaultText
	}

	return Appearance{
		BackgroundColor: ValidateColor(in.BackgroundColor, DefaultBackgroundColor),
		TextColor:       ValidateColor(in.TextColor, DefaultTextColor),
		Position:        position,
		Text:            text,
	}
}

// ValidateTimerName 清洗计时器名称 (去空白、截断到 200 字符)
// 名称是身份字段：清洗后为空视为校验失败，由上层拒绝，不做静默兜底
func ValidateTimerName(name string) string {
	return SanitizeText(name, MaxTimerNameLen)
}
