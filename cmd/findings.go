package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"khunt/config"
	"khunt/internal/db"
	"khunt/internal/output"
	"khunt/pkg/types"
)

var (
	findingsDBPath   string
	findingsCategory string
	findingsTarget   string
	findingsStats    bool
	findingsClear    bool
)

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "查看历史探测发现",
	Long:  `从本地数据库读取历次 hunt 落库的发现，按采集时间倒序罗列。`,
	RunE:  runFindings,
}

func init() {
	rootCmd.AddCommand(findingsCmd)

	findingsCmd.Flags().StringVar(&findingsDBPath, "db", config.DefaultDBPath, "发现结果数据库路径")
	findingsCmd.Flags().StringVar(&findingsCategory, "category", "", "按风险分类过滤")
	findingsCmd.Flags().StringVar(&findingsTarget, "target", "", "按目标 host:port 过滤")
	findingsCmd.Flags().BoolVar(&findingsStats, "stats", false, "只输出按分类的统计")
	findingsCmd.Flags().BoolVar(&findingsClear, "clear", false, "清空所有历史记录")
}

func runFindings(cmd *cobra.Command, args []string) error {
	p := output.NewPrinter()

	database, err := db.Open(findingsDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	repo := db.NewFindingRepository(database)

	if findingsClear {
		if err := repo.Clear(); err != nil {
			return fmt.Errorf("清空记录失败: %w", err)
		}
		p.Success("历史记录已清空")
		return nil
	}

	if findingsStats {
		return printStats(p, repo)
	}

	records, err := queryRecords(repo)
	if err != nil {
		return fmt.Errorf("读取发现失败: %w", err)
	}

	if len(records) == 0 {
		p.Info("数据库中没有匹配的发现")
		return nil
	}

	rows := make([]output.FindingRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, output.FindingRow{
			Category:  r.Category,
			Name:      r.Name,
			Target:    r.Target,
			Evidence:  r.Evidence,
			Collected: r.CollectedAt.Format("2006-01-02 15:04:05"),
		})
	}

	p.Println()
	output.NewTablePrinter(p).PrintFindings(rows)
	p.Println()
	p.Info(fmt.Sprintf("共 %d 条记录（%s）", len(records), findingsDBPath))

	return nil
}

// queryRecords 按过滤条件查询
func queryRecords(repo *db.FindingRepository) ([]*types.FindingRecord, error) {
	switch {
	case findingsCategory != "":
		return repo.GetByCategory(findingsCategory)
	case findingsTarget != "":
		return repo.GetByTarget(findingsTarget)
	default:
		return repo.GetAll()
	}
}

// printStats 按分类统计
func printStats(p output.Printer, repo *db.FindingRepository) error {
	stats, err := repo.GetStats()
	if err != nil {
		return fmt.Errorf("统计失败: %w", err)
	}

	total, err := repo.Count()
	if err != nil {
		return fmt.Errorf("统计失败: %w", err)
	}

	p.Title("发现统计")
	p.Println()
	for _, category := range []config.Category{
		config.CategoryRemoteCodeExec,
		config.CategoryAccessRisk,
		config.CategoryInformationDisclosure,
	} {
		p.KeyValue(string(category), fmt.Sprintf("%d", stats[string(category)]))
	}
	p.Separator()
	p.KeyValue("Total", fmt.Sprintf("%d", total))

	return nil
}
