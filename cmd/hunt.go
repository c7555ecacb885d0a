package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"khunt/config"
	"khunt/internal/client"
	"khunt/internal/db"
	"khunt/internal/hunter"
	"khunt/internal/output"
	"khunt/internal/runtime"
	"khunt/pkg/events"
	"khunt/pkg/types"
)

var (
	huntHost      string
	huntPort      int
	huntActive    bool
	huntYes       bool
	huntTokenPath string
	huntProxy     string
	huntTimeout   time.Duration
	huntDBPath    string
	huntNoSave    bool
	huntJSON      bool
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "对目标 API Server 执行凭证探测链",
	Long: `对 host:port 发布一个 PortOpen 事件并派发 Hunter。

默认只运行被动（只读）探测链；--active 额外运行主动探测链，
主动链的变更探测严格限定在本次运行自建的对象上。
目标缺省时从集群内环境变量推导。`,
	RunE: runHunt,
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntCmd.Flags().StringVar(&huntHost, "host", "", "目标主机（缺省时从集群内环境推导）")
	huntCmd.Flags().IntVar(&huntPort, "port", 0, "目标端口（缺省时从集群内环境推导）")
	huntCmd.Flags().BoolVar(&huntActive, "active", false, "启用主动探测链（含范围受限的变更探测）")
	huntCmd.Flags().BoolVarP(&huntYes, "yes", "y", false, "跳过主动模式的确认提示")
	huntCmd.Flags().StringVar(&huntTokenPath, "token-path", "", "ServiceAccount Token 文件路径")
	huntCmd.Flags().StringVar(&huntProxy, "proxy", "", "SOCKS5 代理地址（socks5://host:port）")
	huntCmd.Flags().DurationVar(&huntTimeout, "timeout", config.DefaultProbeTimeout, "单次探测请求超时")
	huntCmd.Flags().StringVar(&huntDBPath, "db", config.DefaultDBPath, "发现结果数据库路径")
	huntCmd.Flags().BoolVar(&huntNoSave, "no-save", false, "不落库，只输出")
	huntCmd.Flags().BoolVar(&huntJSON, "json", false, "按 JSON Lines 输出原始发现")
}

func runHunt(cmd *cobra.Command, args []string) error {
	p := output.NewPrinter()

	target, err := resolveTarget()
	if err != nil {
		return err
	}

	if !config.IsHuntedPort(target.Port) {
		p.Warning(fmt.Sprintf("端口 %d 不在探测范围内（仅 443/6443），不会派发任何 Hunter", target.Port))
	}

	if huntActive && !confirmActive(target) {
		p.Warning("已取消主动探测，仅运行被动链")
		huntActive = false
	}

	cfg := client.DefaultConfig().WithTimeout(huntTimeout)
	if huntProxy != "" {
		cfg.WithProxy(huntProxy)
	}
	opts := hunter.Options{
		TokenPath:    huntTokenPath,
		ClientConfig: cfg,
	}

	bus := events.NewBus()
	registerHunters(bus, opts)

	// 收集发现（处理器会被并发调用）
	var mu sync.Mutex
	var findings []types.Finding
	bus.OnFinding(func(f types.Finding) {
		mu.Lock()
		defer mu.Unlock()
		findings = append(findings, f)
	})

	if !huntJSON {
		p.Info(fmt.Sprintf("Hunting %s ...", target))
	}

	bus.Publish(context.Background(), events.PortOpen{Host: target.Host, Port: target.Port})
	bus.Wait()

	if err := printFindings(p, findings); err != nil {
		return err
	}

	if !huntNoSave && len(findings) > 0 {
		if err := saveFindings(findings); err != nil {
			return err
		}
		if !huntJSON {
			p.Success(fmt.Sprintf("%d 条发现已写入 %s", len(findings), huntDBPath))
		}
	}

	return nil
}

// resolveTarget 确定探测目标：命令行优先，集群内环境兜底
func resolveTarget() (types.Target, error) {
	if huntHost != "" {
		port := huntPort
		if port == 0 {
			port = 443
		}
		return types.Target{Host: huntHost, Port: port}, nil
	}

	target, ok := runtime.DefaultTarget()
	if !ok {
		return types.Target{}, fmt.Errorf("不在集群内运行，必须通过 --host 指定目标")
	}
	if huntPort != 0 {
		target.Port = huntPort
	}
	return target, nil
}

// confirmActive 主动模式确认，--yes 跳过
func confirmActive(target types.Target) bool {
	if huntYes {
		return true
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("主动模式会对 %s 尝试变更探测（仅限自建对象），确认执行？", target),
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false
	}
	return confirmed
}

// registerHunters 显式注册表：PortOpen → Hunter 工厂
func registerHunters(bus *events.Bus, opts hunter.Options) {
	apiServerPort := func(e events.Event) bool {
		po, ok := e.(events.PortOpen)
		return ok && config.IsHuntedPort(po.Port)
	}

	bus.Subscribe(events.KindPortOpen, apiServerPort,
		func(e events.Event, emitter events.Emitter) events.Hunter {
			return hunter.NewPassiveHunter(e.(events.PortOpen), emitter, opts)
		})

	if huntActive {
		bus.Subscribe(events.KindPortOpen, apiServerPort,
			func(e events.Event, emitter events.Emitter) events.Hunter {
				return hunter.NewActiveHunter(e.(events.PortOpen), emitter, opts)
			})
	}
}

// printFindings 输出发现：表格或 JSON Lines，都只是原样罗列
func printFindings(p output.Printer, findings []types.Finding) error {
	if huntJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, f := range findings {
			if err := enc.Encode(f); err != nil {
				return fmt.Errorf("编码发现失败: %w", err)
			}
		}
		return nil
	}

	if len(findings) == 0 {
		// 没有发现和目标不可达在输出上同样安静，细节看调试日志
		p.Info("未产出任何发现")
		return nil
	}

	rows := make([]output.FindingRow, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, output.FindingRow{
			Category: string(f.Category),
			Name:     f.Name,
			Target:   f.Target.String(),
			Evidence: f.Evidence,
		})
	}

	p.Println()
	output.NewTablePrinter(p).PrintFindings(rows)
	p.Println()
	p.Success(fmt.Sprintf("共 %d 条发现", len(findings)))

	return nil
}

// saveFindings 把发现写入数据库
func saveFindings(findings []types.Finding) error {
	database, err := db.Open(huntDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	records := make([]*types.FindingRecord, 0, len(findings))
	for _, f := range findings {
		records = append(records, f.ToRecord())
	}

	repo := db.NewFindingRepository(database)
	if _, err := repo.SaveBatch(records); err != nil {
		return fmt.Errorf("保存发现失败: %w", err)
	}

	return nil
}
