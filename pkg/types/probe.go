package types

import (
	"net"
	"strconv"
)

// Target 探测目标，Hunter 启动后不再变化
type Target struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// String 返回 host:port 形式
func (t Target) String() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ProbeResponse 单次探测请求的归一化结果
type ProbeResponse struct {
	StatusCode      int    // HTTP 状态码，传输失败时为 0
	Body            []byte // 原始响应体
	TransportFailed bool   // DNS 失败、连接拒绝、超时等传输层失败
}

// OK 成功判定：状态码 200 且响应体非空
func (r *ProbeResponse) OK() bool {
	return !r.TransportFailed && r.StatusCode == 200 && len(r.Body) > 0
}

// Failure 归类失败原因，成功时返回 FailNone
func (r *ProbeResponse) Failure() ProbeFailure {
	switch {
	case r.TransportFailed:
		return FailTransport
	case r.StatusCode != 200:
		return FailUnexpectedStatus
	case len(r.Body) == 0:
		return FailEmptyBody
	default:
		return FailNone
	}
}

// ProbeFailure 探测失败原因
// 比源头的布尔结果更细，但成功/失败语义不变，所有失败都不致命
type ProbeFailure int

const (
	FailNone ProbeFailure = iota
	FailCredentialUnavailable
	FailTransport
	FailUnexpectedStatus
	FailEmptyBody
)

// String 返回失败原因名称（用于诊断日志）
func (f ProbeFailure) String() string {
	switch f {
	case FailNone:
		return "none"
	case FailCredentialUnavailable:
		return "credential_unavailable"
	case FailTransport:
		return "transport_failure"
	case FailUnexpectedStatus:
		return "unexpected_status"
	case FailEmptyBody:
		return "empty_body"
	default:
		return "unknown"
	}
}
