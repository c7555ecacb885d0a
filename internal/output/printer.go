package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"khunt/config"
)

// Printer 打印器接口
type Printer interface {
	// 基础输出
	Print(a ...interface{})
	Println(a ...interface{})
	Printf(format string, a ...interface{})

	// 带颜色输出
	Colored(colorName config.ColorName, text string) string

	// 语义输出
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Info(msg string)

	// 结构化输出
	Title(title string)
	Separator()

	// 键值对
	KeyValue(key, value string)
}

// printer 打印器实现
type printer struct {
	out    io.Writer
	errOut io.Writer
	colors map[config.ColorName]*color.Color
	width  int
}

// NewPrinter 创建打印器，输出不是终端时自动关闭颜色
func NewPrinter() Printer {
	p := NewPrinterWithWriter(os.Stdout, os.Stderr)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, c := range p.(*printer).colors {
			c.DisableColor()
		}
	}
	return p
}

// NewPrinterWithWriter 创建带自定义输出的打印器
func NewPrinterWithWriter(out, errOut io.Writer) Printer {
	return &printer{
		out:    out,
		errOut: errOut,
		colors: initColors(),
		width:  config.Layout.DefaultWidth,
	}
}

// initColors 初始化颜色映射
func initColors() map[config.ColorName]*color.Color {
	return map[config.ColorName]*color.Color{
		config.ColorRed:    color.New(color.FgRed),
		config.ColorGreen:  color.New(color.FgGreen),
		config.ColorYellow: color.New(color.FgYellow),
		config.ColorBlue:   color.New(color.FgBlue),
		config.ColorCyan:   color.New(color.FgCyan),
		config.ColorWhite:  color.New(color.FgWhite),
		config.ColorGray:   color.New(color.FgHiBlack),
	}
}

// getColor 获取颜色
func (p *printer) getColor(name config.ColorName) *color.Color {
	if c, ok := p.colors[name]; ok {
		return c
	}
	return p.colors[config.ColorWhite]
}

// getThemeColor 获取主题颜色
func (p *printer) getThemeColor(key string) *color.Color {
	if colorName, ok := config.ThemeColors[key]; ok {
		return p.getColor(colorName)
	}
	return p.colors[config.ColorWhite]
}

// Print 基础打印
func (p *printer) Print(a ...interface{}) {
	fmt.Fprint(p.out, a...)
}

func (p *printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// Colored 返回带颜色的字符串
func (p *printer) Colored(colorName config.ColorName, text string) string {
	return p.getColor(colorName).Sprint(text)
}

// Success 成功消息
func (p *printer) Success(msg string) {
	p.getThemeColor("success").Fprintf(p.out, "%s %s\n", config.Symbols["success"], msg)
}

// Warning 警告消息
func (p *printer) Warning(msg string) {
	p.getThemeColor("warning").Fprintf(p.out, "%s %s\n", config.Symbols["warning"], msg)
}

// Error 错误消息
func (p *printer) Error(msg string) {
	p.getThemeColor("error").Fprintf(p.errOut, "%s %s\n", config.Symbols["error"], msg)
}

// Info 信息消息
func (p *printer) Info(msg string) {
	p.getThemeColor("highlight").Fprintf(p.out, "%s %s\n", config.Symbols["info"], msg)
}

// Title 打印标题
func (p *printer) Title(title string) {
	line := strings.Repeat("=", p.width)
	titleColor := p.getThemeColor("title")

	p.Println()
	titleColor.Fprintln(p.out, line)

	// 居中标题
	padding := (p.width - len(title)) / 2
	if padding > 0 {
		p.Printf("%s", strings.Repeat(" ", padding))
	}
	titleColor.Fprintln(p.out, title)
	titleColor.Fprintln(p.out, line)
}

// Separator 打印分隔线
func (p *printer) Separator() {
	p.Println(strings.Repeat("-", p.width))
}

// KeyValue 打印键值对
func (p *printer) KeyValue(key, value string) {
	p.getThemeColor("label").Fprintf(p.out, "  %-*s: ", config.Layout.LabelWidth, key)
	p.Println(value)
}
