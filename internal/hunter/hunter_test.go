package hunter

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"khunt/config"
	"khunt/pkg/events"
	"khunt/pkg/types"
)

// captureEmitter 收集 Hunter 上报的发现
type captureEmitter struct {
	mu       sync.Mutex
	findings []types.Finding
}

func (c *captureEmitter) Emit(f types.Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings = append(c.findings, f)
}

func (c *captureEmitter) kinds() []config.FindingKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]config.FindingKind, 0, len(c.findings))
	for _, f := range c.findings {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

func (c *captureEmitter) byKind(kind config.FindingKind) (types.Finding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.findings {
		if f.Kind == kind {
			return f, true
		}
	}
	return types.Finding{}, false
}

// routeResponse 一条探测路径的固定响应
type routeResponse struct {
	status int
	body   string
}

// apiServerStub 模拟 API Server：按路径返回固定响应并记录命中
type apiServerStub struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]routeResponse
	hits   map[string]int
	auths  map[string]string
}

func newAPIServerStub(t *testing.T, routes map[string]routeResponse) *apiServerStub {
	t.Helper()
	stub := &apiServerStub{
		t:      t,
		routes: routes,
		hits:   make(map[string]int),
		auths:  make(map[string]string),
	}
	stub.srv = httptest.NewTLSServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.srv.Close)
	return stub
}

func (s *apiServerStub) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.auths[r.URL.Path] = r.Header.Get("Authorization")
	route, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"reason":"NotFound"}`))
		return
	}
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

func (s *apiServerStub) target() types.Target {
	u, err := url.Parse(s.srv.URL)
	require.NoError(s.t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(s.t, err)
	return types.Target{Host: u.Hostname(), Port: port}
}

func (s *apiServerStub) event() events.PortOpen {
	target := s.target()
	return events.PortOpen{Host: target.Host, Port: target.Port}
}

func (s *apiServerStub) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *apiServerStub) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *apiServerStub) authFor(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auths[path]
}

// writeTokenFile 写一个测试凭证文件
func writeTokenFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
