package apiserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khunt/internal/client"
	"khunt/pkg/types"
)

// serverTarget 从测试服务器地址解析探测目标
func serverTarget(t *testing.T, srv *httptest.Server) types.Target {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return types.Target{Host: u.Hostname(), Port: port}
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	cli, err := NewClient(serverTarget(t, srv), token, client.DefaultConfig())
	require.NoError(t, err)
	return cli
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"versions":["v1"]}`))
	}))
	defer srv.Close()

	resp := newTestClient(t, srv, "my-token").Get(context.Background(), "/api")

	assert.Equal(t, "Bearer my-token", gotAuth)
	assert.True(t, resp.OK())
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"versions":["v1"]}`, string(resp.Body))
}

func TestClientGetNonOKStatus(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"reason":"Forbidden"}`))
	}))
	defer srv.Close()

	resp := newTestClient(t, srv, "t").Get(context.Background(), "/api/v1/pods")

	assert.False(t, resp.OK())
	assert.Equal(t, types.FailUnexpectedStatus, resp.Failure())
	assert.Equal(t, 403, resp.StatusCode)
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := serverTarget(t, srv)
	srv.Close() // 端口不再监听，连接拒绝

	cli, err := NewClient(target, "t", client.DefaultConfig())
	require.NoError(t, err)

	resp := cli.Get(context.Background(), "/api")
	assert.True(t, resp.TransportFailed)
	assert.Equal(t, types.FailTransport, resp.Failure())
	assert.Zero(t, resp.StatusCode)
}

func TestClientPatchContentType(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp := newTestClient(t, srv, "t").
		Patch(context.Background(), "/api/v1/namespaces/default/pods/p", []byte(`{"spec":{}}`))

	assert.True(t, resp.OK())
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "application/strategic-merge-patch+json", gotContentType)
	assert.Equal(t, `{"spec":{}}`, string(gotBody))
}

func TestClientDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"Success"}`))
	}))
	defer srv.Close()

	resp := newTestClient(t, srv, "t").
		Delete(context.Background(), "/api/v1/namespaces/default/pods/p")

	assert.True(t, resp.OK())
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/namespaces/default/pods/p", gotPath)
}

func TestClientBaseURL(t *testing.T) {
	cli, err := NewClient(types.Target{Host: "10.0.0.1", Port: 6443}, "t", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://10.0.0.1:6443", cli.BaseURL())
}
