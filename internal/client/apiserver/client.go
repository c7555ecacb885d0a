package apiserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"khunt/internal/client"
	"khunt/pkg/types"
)

// Client API Server 探测客户端
// 一次调用只发一个请求：不重试，不跟随底层客户端默认行为之外的重定向，
// 传输层失败折叠成 TransportFailed 标记而不是错误
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient 创建探测客户端
func NewClient(target types.Target, token string, cfg *client.Config) (*Client, error) {
	if cfg == nil {
		cfg = client.DefaultConfig()
	}

	httpClient, err := client.NewHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 客户端失败: %w", err)
	}

	return &Client{
		baseURL:    fmt.Sprintf("https://%s", target.String()),
		token:      token,
		httpClient: httpClient,
	}, nil
}

// BaseURL 返回目标基础地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do 发起单次探测请求并返回归一化结果
// DNS 失败、连接拒绝、超时等都折叠为传输失败，不区分细节
func (c *Client) Do(ctx context.Context, method, path string, body []byte) *types.ProbeResponse {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &types.ProbeResponse{TransportFailed: true}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/strategic-merge-patch+json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &types.ProbeResponse{TransportFailed: true}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &types.ProbeResponse{TransportFailed: true}
	}

	return &types.ProbeResponse{
		StatusCode: resp.StatusCode,
		Body:       payload,
	}
}

// Get 发起 GET 探测
func (c *Client) Get(ctx context.Context, path string) *types.ProbeResponse {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Patch 发起 PATCH 探测
func (c *Client) Patch(ctx context.Context, path string, body []byte) *types.ProbeResponse {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Delete 发起 DELETE 探测
func (c *Client) Delete(ctx context.Context, path string) *types.ProbeResponse {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
