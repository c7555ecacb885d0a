package types

import "time"

// TokenInfo ServiceAccount Token 的基本信息（从 JWT claims 解析）
type TokenInfo struct {
	Issuer         string
	Namespace      string
	ServiceAccount string
	Expiration     time.Time
	IsExpired      bool
}
