package cmd

import (
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "khunt",
	Short: "Kubernetes API Server 凭证探测工具",
	Long: `khunt 模拟被攻陷 Pod 内的攻击者视角：
用挂载的 ServiceAccount Token 对 API Server 执行一条按依赖排序的探测链，
每个成功的探测产出一条带原始证据的发现。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute 运行根命令
func Execute() {
	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold,
		Commands: cc.HiYellow + cc.Bold,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "输出调试日志（包含每个探测步骤的判定）")
}

// setupLogging 配置日志
func setupLogging() {
	logrus.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp: true,
	})

	if flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
