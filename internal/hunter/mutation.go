package hunter

import (
	"context"
	"fmt"
	"sync"

	"khunt/config"
	"khunt/pkg/types"
)

// 变更对象类型
const (
	ScopePod         = "pod"
	ScopeRole        = "role"
	ScopeClusterRole = "clusterrole"
	ScopeNamespace   = "namespace"
)

// ScopeLedger 本次运行的自建对象台账
// 删除/修补探测只允许作用于台账里登记过的对象
type ScopeLedger struct {
	mu      sync.Mutex
	created map[string]struct{}
}

// NewScopeLedger 创建台账
func NewScopeLedger() *ScopeLedger {
	return &ScopeLedger{created: make(map[string]struct{})}
}

// Record 登记一个自建对象
func (l *ScopeLedger) Record(kind, namespace, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.created[scopeKey(kind, namespace, name)] = struct{}{}
}

// Allows 判断对象是否在台账内
func (l *ScopeLedger) Allows(kind, namespace, name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.created[scopeKey(kind, namespace, name)]
	return ok
}

func scopeKey(kind, namespace, name string) string {
	return kind + "/" + namespace + "/" + name
}

// MutationProbe 变更类探测的统一形状
// 新增变更探测时实现一个构造函数并复用 runMutation，不改动探测链的控制流
type MutationProbe struct {
	Kind      string // 对象类型
	Namespace string
	Name      string

	// Creates 为 true 表示创建类探测：成功后把对象登记进台账；
	// 为 false 表示作用于已有对象，执行前必须通过台账校验
	Creates bool

	// Emit 成功时产出的发现种类，为空则不产出
	Emit config.FindingKind

	// Action 执行实际请求
	Action func(ctx context.Context) *types.ProbeResponse
}

// runMutation 执行一次变更探测
// 非创建类探测的目标必须是本次运行自建的对象，否则直接拒绝
func (h *ActiveHunter) runMutation(ctx context.Context, m MutationProbe) bool {
	if h.client == nil {
		return false
	}

	if !m.Creates && !h.scope.Allows(m.Kind, m.Namespace, m.Name) {
		h.log.Warnf("拒绝对非自建对象 %s %s/%s 执行变更", m.Kind, m.Namespace, m.Name)
		return false
	}

	resp := m.Action(ctx)
	if !resp.OK() {
		h.log.Debugf("变更探测 %s %s/%s 失败: %s", m.Kind, m.Namespace, m.Name, resp.Failure())
		return false
	}

	if m.Creates {
		h.scope.Record(m.Kind, m.Namespace, m.Name)
	}

	if m.Emit != "" {
		h.emitter.Emit(types.NewFinding(m.Emit, h.target, resp.Body))
	}

	return true
}

// DeletePod 删除 Pod，仅限本次运行自建的 Pod
func (h *ActiveHunter) DeletePod(ctx context.Context, namespace, name string) bool {
	return h.runMutation(ctx, MutationProbe{
		Kind:      ScopePod,
		Namespace: namespace,
		Name:      name,
		Action: func(ctx context.Context) *types.ProbeResponse {
			return h.client.Delete(ctx, fmt.Sprintf(pathNamespacedPod, namespace, name))
		},
	})
}

// PatchPod 修补 Pod，仅限本次运行自建的 Pod
func (h *ActiveHunter) PatchPod(ctx context.Context, namespace, name string, patch []byte) bool {
	if patch == nil {
		patch = []byte("{}")
	}
	return h.runMutation(ctx, MutationProbe{
		Kind:      ScopePod,
		Namespace: namespace,
		Name:      name,
		Action: func(ctx context.Context) *types.ProbeResponse {
			return h.client.Patch(ctx, fmt.Sprintf(pathNamespacedPod, namespace, name), patch)
		},
	})
}

// DeleteRole 删除 Role，仅限本次运行自建的 Role
func (h *ActiveHunter) DeleteRole(ctx context.Context, namespace, name string) bool {
	return h.runMutation(ctx, MutationProbe{
		Kind:      ScopeRole,
		Namespace: namespace,
		Name:      name,
		Emit:      config.FindingDeleteARole,
		Action: func(ctx context.Context) *types.ProbeResponse {
			return h.client.Delete(ctx, fmt.Sprintf(pathNamespacedRole, namespace, name))
		},
	})
}

// PatchRole 修补 Role，仅限本次运行自建的 Role
func (h *ActiveHunter) PatchRole(ctx context.Context, namespace, name string, patch []byte) bool {
	if patch == nil {
		patch = []byte("{}")
	}
	return h.runMutation(ctx, MutationProbe{
		Kind:      ScopeRole,
		Namespace: namespace,
		Name:      name,
		Emit:      config.FindingPatchARole,
		Action: func(ctx context.Context) *types.ProbeResponse {
			return h.client.Patch(ctx, fmt.Sprintf(pathNamespacedRole, namespace, name), patch)
		},
	})
}

// DeleteClusterRole 删除 ClusterRole，仅限本次运行自建的 ClusterRole
func (h *ActiveHunter) DeleteClusterRole(ctx context.Context, name string) bool {
	return h.runMutation(ctx, MutationProbe{
		Kind: ScopeClusterRole,
		Name: name,
		Emit: config.FindingDeleteAClusterRole,
		Action: func(ctx context.Context) *types.ProbeResponse {
			return h.client.Delete(ctx, fmt.Sprintf(pathClusterRole, name))
		},
	})
}

// PatchClusterRole 修补 ClusterRole，仅限本次运行自建的 ClusterRole
func (h *ActiveHunter) PatchClusterRole(ctx context.Context, name string, patch []byte) bool {
	if patch == nil {
		patch = []byte("{}")
	}
	return h.runMutation(ctx, MutationProbe{
		Kind: ScopeClusterRole,
		Name: name,
		Emit: config.FindingPatchAClusterRole,
		Action: func(ctx context.Context) *types.ProbeResponse {
			return h.client.Patch(ctx, fmt.Sprintf(pathClusterRole, name), patch)
		},
	})
}

// CreatePod 创建 Pod 探测，尚未实现
// 实现时走 runMutation 并置 Creates，让后续的修补/删除探测有合法目标
func (h *ActiveHunter) CreatePod(ctx context.Context, namespace string) bool {
	return false
}

// CreateNamespace 创建命名空间探测，尚未实现
func (h *ActiveHunter) CreateNamespace(ctx context.Context) bool {
	return false
}

// CreateRole 创建 Role 探测，尚未实现
func (h *ActiveHunter) CreateRole(ctx context.Context, namespace string) bool {
	return false
}

// CreateClusterRole 创建 ClusterRole 探测，尚未实现
func (h *ActiveHunter) CreateClusterRole(ctx context.Context) bool {
	return false
}
