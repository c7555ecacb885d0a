package config

// ==================== 发现分类 ====================

// Category 发现所属的风险分类
type Category string

const (
	CategoryRemoteCodeExec        Category = "Remote Code Execution"
	CategoryAccessRisk            Category = "Access Risk"
	CategoryInformationDisclosure Category = "Information Disclosure"
)

// SubjectKindCluster 所有发现的主体都是集群本身
const SubjectKindCluster = "KubernetesCluster"

// ==================== 发现种类 ====================

// FindingKind 发现种类，与探测步骤一一绑定
type FindingKind string

const (
	FindingServerApiAccess           FindingKind = "ServerApiAccess"
	FindingServiceAccountTokenAccess FindingKind = "ServiceAccountTokenAccess"
	FindingPodListUnderDefaultNS     FindingKind = "PodListUnderDefaultNamespace"
	FindingPodListUnderAllNamespaces FindingKind = "PodListUnderAllNamespaces"
	FindingListAllNamespaces         FindingKind = "ListAllNamespaces"
	FindingCreateARole               FindingKind = "CreateARole"
	FindingCreateAClusterRole        FindingKind = "CreateAClusterRole"
	FindingPatchARole                FindingKind = "PatchARole"
	FindingPatchAClusterRole         FindingKind = "PatchAClusterRole"
	FindingDeleteARole               FindingKind = "DeleteARole"
	FindingDeleteAClusterRole        FindingKind = "DeleteAClusterRole"
)

// FindingDefinition 发现的固定元数据
type FindingDefinition struct {
	Category    Category // 风险分类
	Name        string   // 能力描述（与下游报告约定保持一致，不可改动）
	Description string   // 攻击者视角的说明
}

// FindingDefinitions 发现种类 → 元数据映射表
// (探测步骤, 发现种类) 的绑定是对外契约，新增探测时只增不改
var FindingDefinitions = map[FindingKind]FindingDefinition{
	FindingServerApiAccess: {
		Category:    CategoryRemoteCodeExec,
		Name:        "Accessed to server API",
		Description: "在被攻陷的 Pod 内访问 API Server 可能让攻击者完全控制集群",
	},
	FindingServiceAccountTokenAccess: {
		Category:    CategoryAccessRisk,
		Name:        "Read access to pod's service account token",
		Description: "读取 Pod 的 ServiceAccount Token 使攻击者获得调用 API Server 的凭证",
	},
	FindingPodListUnderDefaultNS: {
		Category:    CategoryInformationDisclosure,
		Name:        "Access to the pods list under default namespace",
		Description: "枚举 default 命名空间下的 Pod 列表泄露集群内部信息",
	},
	FindingPodListUnderAllNamespaces: {
		Category:    CategoryInformationDisclosure,
		Name:        "Access to the pods list under ALL namespaces",
		Description: "枚举全部命名空间下的 Pod 列表泄露集群内部信息",
	},
	FindingListAllNamespaces: {
		Category:    CategoryInformationDisclosure,
		Name:        "Access to the all namespaces list",
		Description: "枚举全部命名空间泄露集群内部信息",
	},
	FindingCreateARole: {
		Category:    CategoryInformationDisclosure,
		Name:        "Created a role",
		Description: "能创建 Role 意味着可以影响指定命名空间内新建 Pod 的权限",
	},
	FindingCreateAClusterRole: {
		Category:    CategoryInformationDisclosure,
		Name:        "Created a cluster role",
		Description: "能创建 ClusterRole 意味着可以影响集群范围内新建 Pod 的权限",
	},
	FindingPatchARole: {
		Category:    CategoryInformationDisclosure,
		Name:        "Patched a role",
		Description: "能修补 Role 意味着可以在该命名空间内创建带自定义权限的 Pod",
	},
	FindingPatchAClusterRole: {
		Category:    CategoryInformationDisclosure,
		Name:        "Patched a cluster role",
		Description: "能修补 ClusterRole 意味着可以在集群范围内创建带自定义权限的 Pod",
	},
	FindingDeleteARole: {
		Category:    CategoryInformationDisclosure,
		Name:        "Deleted a role",
		Description: "能删除 Role 意味着可以破坏该命名空间的权限体系",
	},
	FindingDeleteAClusterRole: {
		Category:    CategoryInformationDisclosure,
		Name:        "Deleted a cluster role",
		Description: "能删除 ClusterRole 意味着可以破坏集群范围的权限体系",
	},
}

// AllFindingKinds 返回所有发现种类（固定顺序，便于展示和测试）
func AllFindingKinds() []FindingKind {
	return []FindingKind{
		FindingServerApiAccess,
		FindingServiceAccountTokenAccess,
		FindingPodListUnderDefaultNS,
		FindingPodListUnderAllNamespaces,
		FindingListAllNamespaces,
		FindingCreateARole,
		FindingCreateAClusterRole,
		FindingPatchARole,
		FindingPatchAClusterRole,
		FindingDeleteARole,
		FindingDeleteAClusterRole,
	}
}
