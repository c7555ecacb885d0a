package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"khunt/config"
	"khunt/pkg/types"
)

// Reader 凭证读取器，只读取一个固定路径的挂载 Token
type Reader struct {
	path string
}

// NewReader 创建凭证读取器，path 为空时使用默认挂载路径
func NewReader(path string) *Reader {
	if path == "" {
		path = config.DefaultTokenPath
	}
	return &Reader{path: path}
}

// Path 返回凭证文件路径
func (r *Reader) Path() string {
	return r.path
}

// Read 读取凭证
// 凭证不存在是正常控制流而不是异常：任何 I/O 失败（文件缺失、权限不足）
// 或空文件都返回 ok=false，错误不会越过本边界向外传播
func (r *Reader) Read() (string, bool) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return "", false
	}

	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", false
	}

	return tok, true
}

// Parse 解析 JWT Token 获取 ServiceAccount 基本信息
func Parse(tok string) (*types.TokenInfo, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("无效的 JWT Token 格式")
	}

	// 解码 payload（第二部分）
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// 尝试标准 base64 解码
		payload, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("解码 Token payload 失败: %w", err)
		}
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("解析 Token claims 失败: %w", err)
	}

	info := &types.TokenInfo{}

	if iss, ok := claims["iss"].(string); ok {
		info.Issuer = iss
	}

	if exp, ok := claims["exp"].(float64); ok {
		info.Expiration = time.Unix(int64(exp), 0)
		info.IsExpired = time.Now().After(info.Expiration)
	}

	// kubernetes.io 标准 claim
	if k8s, ok := claims["kubernetes.io"].(map[string]interface{}); ok {
		if ns, ok := k8s["namespace"].(string); ok {
			info.Namespace = ns
		}
		if sa, ok := k8s["serviceaccount"].(map[string]interface{}); ok {
			if name, ok := sa["name"].(string); ok {
				info.ServiceAccount = name
			}
		}
	}

	// 备用：sub 格式为 system:serviceaccount:namespace:name
	if info.ServiceAccount == "" {
		if sub, ok := claims["sub"].(string); ok {
			subParts := strings.Split(sub, ":")
			if len(subParts) >= 4 && subParts[0] == "system" && subParts[1] == "serviceaccount" {
				info.Namespace = subParts[2]
				info.ServiceAccount = subParts[3]
			}
		}
	}

	return info, nil
}

// Truncate 截断 Token 用于显示
func Truncate(tok string, maxLen int) string {
	if len(tok) <= maxLen {
		return tok
	}
	return tok[:maxLen] + "..."
}
