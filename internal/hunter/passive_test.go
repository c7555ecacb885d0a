package hunter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khunt/config"
	"khunt/pkg/events"
)

const (
	apiBody         = `{"versions":["v1"]}`
	podsAllBody     = `{"items":[{"metadata":{"name":"web-1","namespace":"default"}}]}`
	podsDefaultBody = `{"items":[{"metadata":{"name":"web-1","namespace":"default"}}]}`
)

func allReadRoutes() map[string]routeResponse {
	return map[string]routeResponse{
		"/api":                            {status: 200, body: apiBody},
		"/api/v1/pods":                    {status: 200, body: podsAllBody},
		"/api/v1/namespaces/default/pods": {status: 200, body: podsDefaultBody},
	}
}

// 全部放行：四个步骤各产出一条发现
func TestPassiveHunterAllProbesSucceed(t *testing.T) {
	stub := newAPIServerStub(t, allReadRoutes())
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, "sa-token")

	h := NewPassiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	require.Equal(t, []config.FindingKind{
		config.FindingServiceAccountTokenAccess,
		config.FindingServerApiAccess,
		config.FindingPodListUnderAllNamespaces,
		config.FindingPodListUnderDefaultNS,
	}, emitter.kinds())

	// 发现携带原始证据
	tokenFinding, _ := emitter.byKind(config.FindingServiceAccountTokenAccess)
	assert.Equal(t, "sa-token", tokenFinding.Evidence)
	apiFinding, _ := emitter.byKind(config.FindingServerApiAccess)
	assert.Equal(t, apiBody, apiFinding.Evidence)

	// 凭证作为 Bearer Token 送出
	assert.Equal(t, "Bearer sa-token", stub.authFor("/api"))
}

// 凭证缺失饿死所有后续步骤：零发现、零请求
func TestPassiveHunterNoToken(t *testing.T) {
	stub := newAPIServerStub(t, allReadRoutes())
	emitter := &captureEmitter{}
	missing := filepath.Join(t.TempDir(), "no-token")

	h := NewPassiveHunter(stub.event(), emitter, Options{TokenPath: missing})
	h.Hunt(context.Background())

	assert.Empty(t, emitter.kinds())
	assert.Zero(t, stub.totalHits())
}

// 目标不可达：只有凭证发现，网络步骤全部静默失败
func TestPassiveHunterTransportFailure(t *testing.T) {
	stub := newAPIServerStub(t, allReadRoutes())
	event := stub.event()
	stub.srv.Close()

	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, "sa-token")

	h := NewPassiveHunter(event, emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	assert.Equal(t, []config.FindingKind{config.FindingServiceAccountTokenAccess}, emitter.kinds())
}

// 部分拒绝：403 和空响应体都不产出发现，其余步骤不受影响
func TestPassiveHunterPartialDenial(t *testing.T) {
	stub := newAPIServerStub(t, map[string]routeResponse{
		"/api":                            {status: 403, body: `{"reason":"Forbidden"}`},
		"/api/v1/pods":                    {status: 200, body: ""}, // 200 但空响应体
		"/api/v1/namespaces/default/pods": {status: 200, body: podsDefaultBody},
	})
	emitter := &captureEmitter{}
	tokenPath := writeTokenFile(t, "sa-token")

	h := NewPassiveHunter(stub.event(), emitter, Options{TokenPath: tokenPath})
	h.Hunt(context.Background())

	assert.Equal(t, []config.FindingKind{
		config.FindingServiceAccountTokenAccess,
		config.FindingPodListUnderDefaultNS,
	}, emitter.kinds())

	// 失败的步骤不留证据
	assert.False(t, h.Evidence().Has(EvidenceAPIServer))
	assert.False(t, h.Evidence().Has(EvidencePodsAllNS))
	assert.True(t, h.Evidence().Has(EvidencePodsDefaultNS))
}

// 每个 Hunter 实例持有独立证据，经由总线并发运行互不影响
func TestPassiveHuntersRunIsolated(t *testing.T) {
	stub := newAPIServerStub(t, allReadRoutes())
	tokenPath := writeTokenFile(t, "sa-token")
	opts := Options{TokenPath: tokenPath}

	bus := events.NewBus()
	var hunters []*PassiveHunter
	factory := func(e events.Event, emitter events.Emitter) events.Hunter {
		h := NewPassiveHunter(e.(events.PortOpen), emitter, opts)
		hunters = append(hunters, h)
		return h
	}
	bus.Subscribe(events.KindPortOpen, nil, factory)
	bus.Subscribe(events.KindPortOpen, nil, factory)

	emitter := &captureEmitter{}
	bus.OnFinding(emitter.Emit)

	bus.Publish(context.Background(), stub.event())
	bus.Wait()

	assert.Len(t, emitter.kinds(), 8)
	require.Len(t, hunters, 2)
	assert.NotSame(t, hunters[0].Evidence(), hunters[1].Evidence())
	for _, h := range hunters {
		assert.True(t, h.Evidence().Has(EvidenceToken, EvidenceAPIServer))
	}
}
