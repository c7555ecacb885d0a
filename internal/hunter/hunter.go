package hunter

import (
	"context"

	"github.com/sirupsen/logrus"

	"khunt/config"
	"khunt/internal/client"
	"khunt/internal/client/apiserver"
	"khunt/pkg/events"
	"khunt/pkg/token"
	"khunt/pkg/types"
)

// Options Hunter 可选配置
type Options struct {
	// TokenPath 凭证文件路径，为空时使用默认挂载路径
	TokenPath string

	// ClientConfig 探测客户端配置，为 nil 时使用默认配置
	ClientConfig *client.Config
}

// core 两种 Hunter 共享的状态和探测实现
// 每个 Hunter 实例持有自己的证据存储，多个实例并发运行互不影响
type core struct {
	target   types.Target
	creds    *token.Reader
	cfg      *client.Config
	evidence *Evidence
	emitter  events.Emitter
	log      *logrus.Entry

	client *apiserver.Client // 读到凭证后创建
}

// newCore 初始化共享状态
func newCore(name string, target types.Target, emitter events.Emitter, opts Options) core {
	cfg := opts.ClientConfig
	if cfg == nil {
		cfg = client.DefaultConfig()
	}

	return core{
		target:   target,
		creds:    token.NewReader(opts.TokenPath),
		cfg:      cfg,
		evidence: NewEvidence(),
		emitter:  emitter,
		log: logrus.WithFields(logrus.Fields{
			"prefix": name,
			"target": target.String(),
		}),
	}
}

// Target 返回探测目标
func (h *core) Target() types.Target {
	return h.target
}

// Evidence 返回本次运行的证据存储
func (h *core) Evidence() *Evidence {
	return h.evidence
}

// tokenProbe 凭证读取步骤，是其余所有步骤的硬依赖
// emit 为空时只留证据不产出发现
func (h *core) tokenProbe(emit config.FindingKind) Probe {
	return Probe{
		Name: EvidenceToken,
		Emit: emit,
		Action: func(ctx context.Context) ([]byte, types.ProbeFailure) {
			h.log.Debug("尝试读取 Pod 的 ServiceAccount Token")

			tok, ok := h.creds.Read()
			if !ok {
				return nil, types.FailCredentialUnavailable
			}

			if info, err := token.Parse(tok); err == nil {
				h.log.Debugf("凭证属于 %s/%s（过期: %v）",
					info.Namespace, info.ServiceAccount, info.IsExpired)
			}

			cli, err := apiserver.NewClient(h.target, tok, h.cfg)
			if err != nil {
				// 凭证已读到，客户端配置有问题只影响后续网络步骤
				h.log.Warnf("创建探测客户端失败: %v", err)
			} else {
				h.client = cli
			}

			return []byte(tok), types.FailNone
		},
	}
}

// get 发起一次 GET 探测并归类失败原因
func (h *core) get(ctx context.Context, path string) ([]byte, types.ProbeFailure) {
	if h.client == nil {
		return nil, types.FailTransport
	}

	resp := h.client.Get(ctx, path)
	if !resp.OK() {
		return nil, resp.Failure()
	}
	return resp.Body, types.FailNone
}

// getProbe 构造一个依赖凭证的 GET 探测步骤
func (h *core) getProbe(name, path string, emit config.FindingKind) Probe {
	return Probe{
		Name:     name,
		Requires: []string{EvidenceToken},
		Emit:     emit,
		Action: func(ctx context.Context) ([]byte, types.ProbeFailure) {
			h.log.Debugf("尝试访问 %s", path)
			return h.get(ctx, path)
		},
	}
}

// tokenNamespace 从已抓到的凭证解析所属命名空间，解析不出时回退默认值
func (h *core) tokenNamespace() string {
	payload, ok := h.evidence.Get(EvidenceToken)
	if !ok {
		return config.DefaultNamespace
	}

	info, err := token.Parse(string(payload))
	if err != nil || info.Namespace == "" {
		return config.DefaultNamespace
	}
	return info.Namespace
}
