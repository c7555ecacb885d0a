package output

import (
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"khunt/config"
)

// evidenceDisplayLen 表格中证据列的截断长度
const evidenceDisplayLen = 48

// FindingRow 发现表格的一行
type FindingRow struct {
	Category  string
	Name      string
	Target    string
	Evidence  string
	Collected string // 为空时不展示采集时间列
}

// TablePrinter 表格打印器
type TablePrinter struct {
	writer  io.Writer
	printer Printer
}

// NewTablePrinter 创建表格打印器
func NewTablePrinter(p Printer) *TablePrinter {
	return &TablePrinter{
		writer:  os.Stdout,
		printer: p,
	}
}

// WithWriter 设置输出
func (t *TablePrinter) WithWriter(w io.Writer) *TablePrinter {
	t.writer = w
	return t
}

// createTable 创建基础表格
func (t *TablePrinter) createTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	table.SetRowLine(true)

	headerColors := make([]tablewriter.Colors, len(header))
	for i := range headerColors {
		headerColors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}
	}
	table.SetHeaderColor(headerColors...)

	return table
}

// PrintFindings 打印发现列表
// 只做原样罗列：不排序打分、不去重，那些属于外部上报方
func (t *TablePrinter) PrintFindings(rows []FindingRow) {
	if len(rows) == 0 {
		return
	}

	header := []string{"Category", "Finding", "Target", "Evidence"}
	withTime := rows[0].Collected != ""
	if withTime {
		header = append(header, "Collected")
	}

	table := t.createTable(header)

	for _, row := range rows {
		cells := []string{
			t.coloredCategory(row.Category),
			row.Name,
			row.Target,
			truncateEvidence(row.Evidence),
		}
		if withTime {
			cells = append(cells, row.Collected)
		}
		table.Append(cells)
	}

	table.Render()
}

// coloredCategory 按分类着色
func (t *TablePrinter) coloredCategory(category string) string {
	if t.printer == nil {
		return category
	}

	key, ok := config.CategoryThemeKeys[config.Category(category)]
	if !ok {
		return category
	}
	return t.printer.Colored(config.ThemeColors[key], category)
}

// truncateEvidence 截断证据用于展示，原始证据完整保留在库里
func truncateEvidence(evidence string) string {
	evidence = strings.ReplaceAll(evidence, "\n", " ")
	if len(evidence) <= evidenceDisplayLen {
		return evidence
	}
	return evidence[:evidenceDisplayLen] + "..."
}
