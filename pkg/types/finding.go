package types

import (
	"time"

	"khunt/config"
)

// Finding 一次成功探测产出的发现，创建后不可变
// 只在探测成功时构造一次，交给外部的上报方，核心不保留
type Finding struct {
	Kind        config.FindingKind `json:"kind"`        // 发现种类
	SubjectKind string             `json:"subjectKind"` // 发现主体，固定为集群
	Category    config.Category    `json:"category"`    // 风险分类
	Name        string             `json:"name"`        // 能力描述
	Evidence    string             `json:"evidence"`    // 原始证据载荷
	Target      Target             `json:"target"`      // 探测目标
}

// NewFinding 按种类从元数据表构造发现
// 未登记的种类返回零值发现（Name 为空），调用方应当先保证种类有效
func NewFinding(kind config.FindingKind, target Target, evidence []byte) Finding {
	def := config.FindingDefinitions[kind]
	return Finding{
		Kind:        kind,
		SubjectKind: config.SubjectKindCluster,
		Category:    def.Category,
		Name:        def.Name,
		Evidence:    string(evidence),
		Target:      target,
	}
}

// FindingRecord 发现的落库记录
type FindingRecord struct {
	ID          int64
	Kind        string
	SubjectKind string
	Category    string
	Name        string
	Evidence    string
	Target      string
	CollectedAt time.Time
}

// ToRecord 转换为落库记录
func (f Finding) ToRecord() *FindingRecord {
	return &FindingRecord{
		Kind:        string(f.Kind),
		SubjectKind: f.SubjectKind,
		Category:    string(f.Category),
		Name:        f.Name,
		Evidence:    f.Evidence,
		Target:      f.Target.String(),
		CollectedAt: time.Now(),
	}
}
