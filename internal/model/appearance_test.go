package model

import (
	"strings"
	"testing"
)

// ==================== 颜色校验 ====================

func TestValidateColor(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"#fff", "#fff"},
		{"#FFFFFF", "#FFFFFF"},
		{"#A1b2C3", "#A1b2C3"},
		{"  #fff  ", "#fff"}, // 允许首尾空白
		{"red", "#000000"},
		{"#12", "#000000"},
		{"#12345", "#000000"},
		{"fff", "#000000"},
		{"", "#000000"},
	}

	for _, c := range cases {
		if got := ValidateColor(c.input, "#000000"); got != c.want {
			t.Fatalf("颜色校验错误: 输入 %q 期望 %q 实际 %q", c.input, c.want, got)
		}
	}
}

// ==================== 外观归一化 ====================

func TestNormalizeAppearanceDefaults(t *testing.T) {
	// nil 输入返回全默认值
	got := NormalizeAppearance(nil)

	if got.BackgroundColor != DefaultBackgroundColor {
		t.Fatalf("背景色默认值错误: %q", got.BackgroundColor)
	}
	if got.TextColor != DefaultTextColor {
		t.Fatalf("文字色默认值错误: %q", got.TextColor)
	}
	if got.Position != DefaultPosition {
		t.Fatalf("位置默认值错误: %q", got.Position)
	}
	if got.Text != DefaultText {
		t.Fatalf("文案默认值错误: %q", got.Text)
	}
}

func TestNormalizeAppearanceMalformed(t *testing.T) {
	in := &Appearance{
		BackgroundColor: "red",
		TextColor:       "#12",
		Position:        "sideways",
		Text:            "   ",
	}
	got := NormalizeAppearance(in)

	want := NormalizeAppearance(nil)
	if got != want {
		t.Fatalf("非法输入应全部回退默认值: %+v", got)
	}
}

func TestNormalizeAppearanceIdempotent(t *testing.T) {
	inputs := []*Appearance{
		nil,
		{},
		{BackgroundColor: "#abc", TextColor: "#FFFFFF", Position: PositionBottom, Text: "Sale!"},
		{BackgroundColor: "nope", Position: "nope", Text: strings.Repeat("x", 500)},
	}

	// 全函数且幂等: normalize(normalize(x)) == normalize(x)
	for _, in := range inputs {
		once := NormalizeAppearance(in)
		twice := NormalizeAppearance(&once)
		if once != twice {
			t.Fatalf("归一化不幂等: %+v != %+v", once, twice)
		}
	}
}

func TestNormalizeAppearanceTextTruncation(t *testing.T) {
	in := &Appearance{Text: strings.Repeat("a", 150)}
	got := NormalizeAppearance(in)

	if len(got.Text) != MaxAppearanceTextLen {
		t.Fatalf("文案应截断到 %d 字符，实际 %d", MaxAppearanceTextLen, len(got.Text))
	}
}

// ==================== 名称校验 ====================

func TestValidateTimerName(t *testing.T) {
	// 截断到恰好 200 字符
	long := strings.Repeat("n", 250)
	if got := ValidateTimerName(long); len(got) != MaxTimerNameLen {
		t.Fatalf("名称应截断到 %d 字符，实际 %d", MaxTimerNameLen, len(got))
	}

	// 去空白后为空 -> 返回空串，由上层拒绝
	if got := ValidateTimerName("   "); got != "" {
		t.Fatalf("纯空白名称应返回空串，实际 %q", got)
	}

	if got := ValidateTimerName("  Summer Sale  "); got != "Summer Sale" {
		t.Fatalf("名称清洗错误: %q", got)
	}
}
