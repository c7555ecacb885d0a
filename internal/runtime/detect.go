package runtime

import (
	"os"
	"strconv"
	"strings"

	"khunt/config"
	"khunt/pkg/types"
)

// IsInPod 检测是否在 Kubernetes Pod 内运行
func IsInPod() bool {
	// 检查 SA Token 文件
	if _, err := os.Stat(config.DefaultTokenPath); err == nil {
		return true
	}
	// 检查 KUBERNETES_SERVICE_HOST 环境变量
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}
	return false
}

// DefaultTarget 从环境变量推导默认探测目标
// 不在集群内运行时返回 ok=false，调用方必须显式指定目标
func DefaultTarget() (types.Target, bool) {
	host := os.Getenv("KUBERNETES_SERVICE_HOST")
	if host == "" {
		return types.Target{}, false
	}

	port := 443
	if p := os.Getenv("KUBERNETES_SERVICE_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}

	return types.Target{Host: host, Port: port}, true
}

// GetPodNamespace 获取当前 Pod 所在的命名空间
func GetPodNamespace() string {
	data, err := os.ReadFile(config.DefaultNamespacePath)
	if err == nil {
		if ns := strings.TrimSpace(string(data)); ns != "" {
			return ns
		}
	}
	return config.DefaultNamespace
}
