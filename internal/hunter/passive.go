package hunter

import (
	"context"
	"fmt"

	"khunt/config"
	"khunt/pkg/events"
	"khunt/pkg/types"
)

// PassiveHunter 被动 Hunter：只做只读侦察
// 用被攻陷 Pod 的 ServiceAccount Token 访问 API Server，
// 每个探测成功都说明攻击者具备对应能力
type PassiveHunter struct {
	core
}

// NewPassiveHunter 从 PortOpen 事件构造被动 Hunter
func NewPassiveHunter(e events.PortOpen, emitter events.Emitter, opts Options) *PassiveHunter {
	h := &PassiveHunter{}
	h.core = newCore("hunter.passive", hunterTarget(e), emitter, opts)
	return h
}

// Name 实现 events.Hunter
func (h *PassiveHunter) Name() string {
	return "被动 API Server Hunter"
}

// Hunt 执行被动探测链
// 步骤顺序：读凭证 → /api → 全命名空间 Pod 列表 → default 命名空间 Pod 列表；
// 凭证读取之后的三步互相独立，单步失败不影响其余步骤
func (h *PassiveHunter) Hunt(ctx context.Context) {
	chain := NewChain(h.target, h.evidence, h.emitter, h.log)
	chain.Run(ctx, h.probes())
}

// probes 构造被动探测步骤
func (h *PassiveHunter) probes() []Probe {
	return []Probe{
		h.tokenProbe(config.FindingServiceAccountTokenAccess),
		h.getProbe(EvidenceAPIServer, pathAPI, config.FindingServerApiAccess),
		h.getProbe(EvidencePodsAllNS, pathAllPods, config.FindingPodListUnderAllNamespaces),
		h.getProbe(EvidencePodsDefaultNS,
			fmt.Sprintf(pathNamespacedPods, config.DefaultNamespace),
			config.FindingPodListUnderDefaultNS),
	}
}

// hunterTarget 从事件中提取探测目标
func hunterTarget(e events.PortOpen) types.Target {
	return types.Target{Host: e.Host, Port: e.Port}
}
