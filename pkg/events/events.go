package events

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"khunt/pkg/types"
)

// ==================== 事件定义 ====================

// Event 事件接口
type Event interface {
	// EventKind 返回事件种类名
	EventKind() string
}

// KindPortOpen 网络可达事件种类
const KindPortOpen = "PortOpen"

// PortOpen 网络可达信号，由外部的可达性扫描方发布
// 核心只读取 Host 和 Port 两个字段
type PortOpen struct {
	Host string
	Port int
}

// EventKind 实现 Event
func (PortOpen) EventKind() string { return KindPortOpen }

// ==================== Hunter 派发 ====================

// Hunter 由事件触发的一段侦察逻辑
type Hunter interface {
	// Name 返回 Hunter 名称（用于日志）
	Name() string

	// Hunt 执行探测链直到结束，不返回错误：
	// 全部探测失败的 Hunter 只是产出零个发现
	Hunt(ctx context.Context)
}

// Emitter 发现上报接口
// Hunter 每次探测成功都通过它交出一个 Finding，核心不保留也不去重
type Emitter interface {
	Emit(f types.Finding)
}

// Predicate 事件匹配谓词
type Predicate func(Event) bool

// Factory 从匹配的事件构造 Hunter
type Factory func(e Event, emitter Emitter) Hunter

// subscription 一条订阅记录
type subscription struct {
	predicate Predicate
	factory   Factory
}

// ==================== 事件总线 ====================

// Bus 显式注册表：事件种类 → (谓词, 工厂) 列表
// 事件发布时，每个谓词命中的订阅各自启动一个 Hunter goroutine，
// Hunter 之间不共享任何可变状态
type Bus struct {
	mu       sync.RWMutex
	subs     map[string][]subscription
	handlers []func(types.Finding)
	wg       sync.WaitGroup
	log      *logrus.Entry
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]subscription),
		log:  logrus.WithField("prefix", "events"),
	}
}

// Subscribe 注册订阅，predicate 为 nil 时匹配该种类的所有事件
func (b *Bus) Subscribe(kind string, predicate Predicate, factory Factory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], subscription{predicate: predicate, factory: factory})
}

// OnFinding 注册发现处理器（外部上报方）
// 处理器可能被多个 Hunter goroutine 并发调用，须自行保证并发安全
func (b *Bus) OnFinding(handler func(types.Finding)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish 发布事件，为每个命中的订阅启动一个 Hunter
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := b.subs[e.EventKind()]
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.predicate != nil && !sub.predicate(e) {
			continue
		}

		hunter := sub.factory(e, b)
		if hunter == nil {
			continue
		}

		b.log.Debugf("派发 %s → %s", e.EventKind(), hunter.Name())

		b.wg.Add(1)
		go func(h Hunter) {
			defer b.wg.Done()
			h.Hunt(ctx)
		}(hunter)
	}
}

// Emit 实现 Emitter，把发现按注册顺序交给所有处理器
func (b *Bus) Emit(f types.Finding) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	b.log.Debugf("发现 %s (%s)", f.Name, f.Category)

	for _, handler := range handlers {
		handler(f)
	}
}

// Wait 等待所有已派发的 Hunter 结束
func (b *Bus) Wait() {
	b.wg.Wait()
}
