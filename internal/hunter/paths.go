package hunter

// API Server 探测路径模板
const (
	pathAPI             = "/api"
	pathAllPods         = "/api/v1/pods"
	pathNamespacedPods  = "/api/v1/namespaces/%s/pods"
	pathNamespacedPod   = "/api/v1/namespaces/%s/pods/%s"
	pathAllNamespaces   = "/api/v1/namespaces"
	pathNamespacedRoles = "/apis/rbac.authorization.k8s.io/v1/namespaces/%s/roles"
	pathNamespacedRole  = "/apis/rbac.authorization.k8s.io/v1/namespaces/%s/roles/%s"
	pathClusterRoles    = "/apis/rbac.authorization.k8s.io/v1/clusterroles"
	pathClusterRole     = "/apis/rbac.authorization.k8s.io/v1/clusterroles/%s"
	pathAllRoles        = "/apis/rbac.authorization.k8s.io/v1/roles"
)

// 证据键名，同时作为探测步骤名
const (
	EvidenceToken          = "service_account_token"
	EvidenceAPIServer      = "api_server"
	EvidencePodsAllNS      = "pods_all_namespaces"
	EvidencePodsDefaultNS  = "pods_default_namespace"
	EvidenceAllNamespaces  = "all_namespaces"
	EvidenceNamespaceRoles = "namespace_roles"
	EvidenceClusterRoles   = "cluster_roles"
	EvidenceAllRoles       = "all_roles"
)
