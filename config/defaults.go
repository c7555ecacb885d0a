package config

import "time"

// ==================== 凭证配置 ====================

const (
	// DefaultTokenPath ServiceAccount Token 默认挂载路径
	DefaultTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

	// DefaultNamespacePath Pod 所在命名空间文件路径
	DefaultNamespacePath = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"
)

// ==================== 目标配置 ====================

const (
	// DefaultNamespace 默认命名空间
	DefaultNamespace = "default"
)

// HuntedPorts API Server 探测端口，只有这些端口的 PortOpen 事件会触发 Hunter
var HuntedPorts = []int{443, 6443}

// IsHuntedPort 判断端口是否在探测范围内
func IsHuntedPort(port int) bool {
	for _, p := range HuntedPorts {
		if p == port {
			return true
		}
	}
	return false
}

// ==================== 超时配置 ====================

const (
	// DefaultProbeTimeout 单次探测请求默认超时
	// 不可达目标的失败等价于传输失败，不重试
	DefaultProbeTimeout = 5 * time.Second

	// DefaultConnectTimeout 连接默认超时
	DefaultConnectTimeout = 10 * time.Second
)

// ==================== 数据库配置 ====================

const (
	// DefaultDBPath 默认发现结果数据库路径
	DefaultDBPath = "khunt_findings.db"
)
