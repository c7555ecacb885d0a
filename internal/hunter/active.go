package hunter

import (
	"context"
	"encoding/json"
	"fmt"

	"khunt/config"
	"khunt/pkg/events"
	"khunt/pkg/types"
)

// ActiveHunter 主动 Hunter：在只读枚举之外允许范围受限的变更探测
// 变更只允许作用于本次运行自己创建的对象，侦察不能造成附带损害
type ActiveHunter struct {
	core
	scope *ScopeLedger
}

// NewActiveHunter 从 PortOpen 事件构造主动 Hunter
func NewActiveHunter(e events.PortOpen, emitter events.Emitter, opts Options) *ActiveHunter {
	h := &ActiveHunter{scope: NewScopeLedger()}
	h.core = newCore("hunter.active", hunterTarget(e), emitter, opts)
	return h
}

// Name 实现 events.Hunter
func (h *ActiveHunter) Name() string {
	return "主动 API Server Hunter"
}

// Scope 返回本次运行的自建对象台账
func (h *ActiveHunter) Scope() *ScopeLedger {
	return h.scope
}

// Hunt 执行主动探测链
func (h *ActiveHunter) Hunt(ctx context.Context) {
	chain := NewChain(h.target, h.evidence, h.emitter, h.log)
	chain.Run(ctx, h.probes())
}

// probes 构造主动探测步骤
// 凭证、/api 访问和 Pod 列表的发现由被动 Hunter 产出，
// 主动链对这些步骤只收集证据，避免同一事件重复上报
func (h *ActiveHunter) probes() []Probe {
	podsAllNS := h.getProbe(EvidencePodsAllNS, pathAllPods, "")
	podsAllNS.OnSuccess = h.recordPodNames

	podsDefaultNS := h.getProbe(EvidencePodsDefaultNS,
		fmt.Sprintf(pathNamespacedPods, config.DefaultNamespace), "")
	podsDefaultNS.OnSuccess = h.recordPodNames

	return []Probe{
		h.tokenProbe(""),
		podsAllNS,
		podsDefaultNS,

		// 命名空间列表只留原始证据：
		// TODO: 拿到 RBAC 放行后的 200 响应样本再决定怎么解析
		h.getProbe(EvidenceAllNamespaces, pathAllNamespaces, config.FindingListAllNamespaces),

		h.namespaceRolesProbe(),
		h.getProbe(EvidenceClusterRoles, pathClusterRoles, ""),
		h.getProbe(EvidenceAllRoles, pathAllRoles, ""),
	}
}

// namespaceRolesProbe 枚举凭证所属命名空间下的 Role
func (h *ActiveHunter) namespaceRolesProbe() Probe {
	return Probe{
		Name:     EvidenceNamespaceRoles,
		Requires: []string{EvidenceToken},
		Action: func(ctx context.Context) ([]byte, types.ProbeFailure) {
			path := fmt.Sprintf(pathNamespacedRoles, h.tokenNamespace())
			h.log.Debugf("尝试访问 %s", path)
			return h.get(ctx, path)
		},
	}
}

// podList Pod 列表响应
// 只假设 items[].metadata 下有 name 和 namespace 两个字段，其余不解析
type podList struct {
	Items []struct {
		Metadata struct {
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
		} `json:"metadata"`
	} `json:"items"`
}

// recordPodNames 从 Pod 列表证据登记命名空间 → Pod 名映射
func (h *ActiveHunter) recordPodNames(payload []byte) {
	var list podList
	if err := json.Unmarshal(payload, &list); err != nil {
		h.log.Debugf("解析 Pod 列表失败: %v", err)
		return
	}

	for _, item := range list.Items {
		if item.Metadata.Namespace == "" || item.Metadata.Name == "" {
			continue
		}
		h.evidence.AddPodName(item.Metadata.Namespace, item.Metadata.Name)
	}
}
