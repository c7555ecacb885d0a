package hunter

import "sync"

// Evidence 单次 Hunter 运行的证据存储
// 键为探测步骤名，值为该步骤抓到的原始载荷；只增不改，
// 生命周期与一次 Hunter 运行相同，实例之间互不共享
type Evidence struct {
	mu       sync.RWMutex
	payloads map[string][]byte
	podNames map[string][]string // 命名空间 → Pod 名列表
}

// NewEvidence 创建证据存储
func NewEvidence() *Evidence {
	return &Evidence{
		payloads: make(map[string][]byte),
		podNames: make(map[string][]string),
	}
}

// Set 记录一条证据，同一个键只在步骤首次成功时写入
func (e *Evidence) Set(name string, payload []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.payloads[name]; ok {
		return
	}
	e.payloads[name] = payload
}

// Get 读取一条证据
func (e *Evidence) Get(name string) ([]byte, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	payload, ok := e.payloads[name]
	return payload, ok
}

// Has 判断所有给定的证据键是否都已存在
func (e *Evidence) Has(names ...string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, name := range names {
		if _, ok := e.payloads[name]; !ok {
			return false
		}
	}
	return true
}

// AddPodName 登记命名空间下的一个 Pod 名
// 同一命名空间下保留全部 Pod 名，不做末值覆盖
func (e *Evidence) AddPodName(namespace, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.podNames[namespace] {
		if existing == name {
			return
		}
	}
	e.podNames[namespace] = append(e.podNames[namespace], name)
}

// PodNames 返回命名空间 → Pod 名列表的副本
func (e *Evidence) PodNames() map[string][]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string][]string, len(e.podNames))
	for ns, names := range e.podNames {
		out[ns] = append([]string(nil), names...)
	}
	return out
}
