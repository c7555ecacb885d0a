package hunter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khunt/config"
)

// saJWT 构造一个带命名空间 claim 的测试 JWT
func saJWT(t *testing.T, namespace string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"kubernetes.io": map[string]interface{}{
			"namespace":      namespace,
			"serviceaccount": map[string]interface{}{"name": "default"},
		},
	})
	require.NoError(t, err)
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc(payload) + ".sig"
}

const multiNSPodsBody = `{"items":[
	{"metadata":{"name":"web-1","namespace":"default"}},
	{"metadata":{"name":"web-2","namespace":"default"}},
	{"metadata":{"name":"coredns","namespace":"kube-system"}}
]}`

const namespacesBody = `{"kind":"NamespaceList","items":[{"metadata":{"name":"default"}}]}`

func activeRoutes() map[string]routeResponse {
	return map[string]routeResponse{
		"/api/v1/pods":                    {status: 200, body: multiNSPodsBody},
		"/api/v1/namespaces/default/pods": {status: 200, body: podsDefaultBody},
		"/api/v1/namespaces":              {status: 200, body: namespacesBody},
		"/apis/rbac.authorization.k8s.io/v1/namespaces/team-a/roles": {status: 200, body: `{"items":[]}`},
		"/apis/rbac.authorization.k8s.io/v1/clusterroles":            {status: 200, body: `{"items":[]}`},
		"/apis/rbac.authorization.k8s.io/v1/roles":                   {status: 200, body: `{"items":[]}`},
	}
}

// 主动链只为命名空间列表产出发现，其余枚举只留证据，
// 凭证和 Pod 列表的发现归被动链，避免同一事件重复上报
func TestActiveHunterEmitsOnlyNamespaceListFinding(t *testing.T) {
	stub := newAPIServerStub(t, activeRoutes())
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, saJWT(t, "team-a"))

	h := NewActiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	assert.Equal(t, []config.FindingKind{config.FindingListAllNamespaces}, emitter.kinds())

	f, _ := emitter.byKind(config.FindingListAllNamespaces)
	// 命名空间列表证据原样保留，不解析
	assert.Equal(t, namespacesBody, f.Evidence)
}

func TestActiveHunterRecordsPodNamesPerNamespace(t *testing.T) {
	stub := newAPIServerStub(t, activeRoutes())
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, saJWT(t, "team-a"))

	h := NewActiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	names := h.Evidence().PodNames()
	assert.Equal(t, []string{"web-1", "web-2"}, names["default"])
	assert.Equal(t, []string{"coredns"}, names["kube-system"])
}

func TestActiveHunterUsesTokenNamespaceForRoles(t *testing.T) {
	stub := newAPIServerStub(t, activeRoutes())
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, saJWT(t, "team-a"))

	h := NewActiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	assert.Equal(t, 1, stub.hitCount("/apis/rbac.authorization.k8s.io/v1/namespaces/team-a/roles"))
	assert.True(t, h.Evidence().Has(EvidenceNamespaceRoles))
	assert.True(t, h.Evidence().Has(EvidenceClusterRoles))
	assert.True(t, h.Evidence().Has(EvidenceAllRoles))
}

// 凭证不是 JWT 时命名空间回退默认值
func TestActiveHunterNamespaceFallback(t *testing.T) {
	routes := activeRoutes()
	routes["/apis/rbac.authorization.k8s.io/v1/namespaces/default/roles"] = routeResponse{status: 200, body: `{"items":[]}`}
	stub := newAPIServerStub(t, routes)
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, "opaque-token")

	h := NewActiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	assert.Equal(t, 1, stub.hitCount("/apis/rbac.authorization.k8s.io/v1/namespaces/default/roles"))
}

// Pod 列表解析失败只影响命名空间 → Pod 名映射，证据照常保留
func TestActiveHunterMalformedPodList(t *testing.T) {
	routes := activeRoutes()
	routes["/api/v1/pods"] = routeResponse{status: 200, body: "not-json"}
	stub := newAPIServerStub(t, routes)
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, saJWT(t, "team-a"))

	h := NewActiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	assert.True(t, h.Evidence().Has(EvidencePodsAllNS))
	names := h.Evidence().PodNames()
	assert.NotContains(t, names, "kube-system")
}
