package hunter

import (
	"context"

	"github.com/sirupsen/logrus"

	"khunt/config"
	"khunt/pkg/events"
	"khunt/pkg/types"
)

// Probe 一个探测步骤：前置条件、动作、成功判定、成功副作用
// 步骤依赖用证据键表达：某个键还不存在，依赖它的步骤就不会执行
type Probe struct {
	// Name 步骤名，同时是成功后写入证据的键
	Name string

	// Requires 执行前必须已存在的证据键
	Requires []string

	// Action 执行动作，返回载荷和失败原因
	// 成功判定在 Action 内完成（HTTP 探测为 200 且响应体非空）
	Action func(ctx context.Context) ([]byte, types.ProbeFailure)

	// Emit 成功时产出的发现种类，为空则只留证据不产出发现
	Emit config.FindingKind

	// OnSuccess 可选的解析副作用（如登记 Pod 名）
	OnSuccess func(payload []byte)
}

// Chain 按序执行一组探测步骤
// 任何失败只是跳过该步骤的发现和证据，从不中断链、从不重试；
// 前置证据缺失的步骤被静默跳过，所以凭证缺失会饿死所有后续步骤
type Chain struct {
	target   types.Target
	evidence *Evidence
	emitter  events.Emitter
	log      *logrus.Entry
}

// NewChain 创建探测链
func NewChain(target types.Target, evidence *Evidence, emitter events.Emitter, log *logrus.Entry) *Chain {
	return &Chain{
		target:   target,
		evidence: evidence,
		emitter:  emitter,
		log:      log,
	}
}

// Run 依次执行探测步骤
func (c *Chain) Run(ctx context.Context, probes []Probe) {
	for _, p := range probes {
		if !c.evidence.Has(p.Requires...) {
			c.log.Debugf("跳过 %s: 前置证据缺失", p.Name)
			continue
		}

		payload, fail := p.Action(ctx)
		if fail != types.FailNone {
			c.log.Debugf("探测 %s 失败: %s", p.Name, fail)
			continue
		}

		c.evidence.Set(p.Name, payload)

		if p.OnSuccess != nil {
			p.OnSuccess(payload)
		}

		if p.Emit != "" {
			c.emitter.Emit(types.NewFinding(p.Emit, c.target, payload))
		}
	}
}
