package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"khunt/internal/output"
)

// 构建时通过 -ldflags 注入
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		p := output.NewPrinter()
		p.KeyValue("Version", version)
		p.KeyValue("Commit", gitCommit)
		p.KeyValue("Built", buildDate)
		p.KeyValue("Go", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
