package config

// ==================== 颜色主题 ====================

// ColorName 颜色名称
type ColorName string

const (
	ColorRed    ColorName = "red"
	ColorGreen  ColorName = "green"
	ColorYellow ColorName = "yellow"
	ColorBlue   ColorName = "blue"
	ColorCyan   ColorName = "cyan"
	ColorWhite  ColorName = "white"
	ColorGray   ColorName = "gray"
)

// ThemeColors 主题颜色配置
var ThemeColors = map[string]ColorName{
	// 语义颜色
	"title":     ColorCyan,
	"label":     ColorWhite,
	"highlight": ColorCyan,
	"muted":     ColorGray,

	// 状态颜色
	"success": ColorGreen,
	"warning": ColorYellow,
	"error":   ColorRed,

	// 分类颜色
	"category_rce":  ColorRed,
	"category_risk": ColorYellow,
	"category_info": ColorBlue,
}

// CategoryThemeKeys 发现分类 → 主题颜色键
var CategoryThemeKeys = map[Category]string{
	CategoryRemoteCodeExec:        "category_rce",
	CategoryAccessRisk:            "category_risk",
	CategoryInformationDisclosure: "category_info",
}

// ==================== 符号配置 ====================

// Symbols 输出符号配置
var Symbols = map[string]string{
	"success": "✓",
	"error":   "✗",
	"warning": "⚠",
	"info":    "ℹ",
	"bullet":  "●",
	"arrow":   "→",
}

// ==================== 布局配置 ====================

// LayoutConfig 输出布局
type LayoutConfig struct {
	DefaultWidth int
	LabelWidth   int
}

// Layout 默认布局
var Layout = LayoutConfig{
	DefaultWidth: 60,
	LabelWidth:   14,
}
