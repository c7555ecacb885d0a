package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.SkipTLSVerify)
	assert.Empty(t, cfg.ProxyURL)
}

func TestConfigChaining(t *testing.T) {
	cfg := DefaultConfig().
		WithTimeout(2 * time.Second).
		WithProxy("socks5://127.0.0.1:1080")

	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "socks5://127.0.0.1:1080", cfg.ProxyURL)
}

func TestNewHTTPClient(t *testing.T) {
	cli, err := NewHTTPClient(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cli.Timeout)
}

func TestNewHTTPClientNilConfig(t *testing.T) {
	cli, err := NewHTTPClient(nil)
	require.NoError(t, err)
	assert.NotNil(t, cli.Transport)
}

func TestNewHTTPClientWithSOCKS5Proxy(t *testing.T) {
	cli, err := NewHTTPClient(DefaultConfig().WithProxy("socks5://127.0.0.1:1080"))
	require.NoError(t, err)
	assert.NotNil(t, cli)
}

func TestNewHTTPClientRejectsNonSOCKS5Proxy(t *testing.T) {
	_, err := NewHTTPClient(DefaultConfig().WithProxy("http://127.0.0.1:8080"))
	assert.Error(t, err)
}
