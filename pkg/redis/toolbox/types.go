package toolbox

import "encoding/json"

// 实例角色，取值与后端 InstanceRole 保持一致
const (
	RoleRedisMaster = "redis_master"
	RoleRedisSlave  = "redis_slave"
)

// ClusterRef 集群基础信息
type ClusterRef struct {
	ID           int    `json:"id"`
	BkCloudID    int    `json:"bk_cloud_id"`
	ClusterType  string `json:"cluster_type"`
	DeployPlanID int    `json:"deploy_plan_id"`
	ImmuteDomain string `json:"immute_domain"`
	MajorVersion string `json:"major_version"`
	Name         string `json:"name"`
	Region       string `json:"region"`
}

// InstanceRef 集群内的单个实例
type InstanceRef struct {
	BkBizID      int    `json:"bk_biz_id"`
	BkCloudID    int    `json:"bk_cloud_id"`
	BkHostID     int    `json:"bk_host_id"`
	BkInstanceID int    `json:"bk_instance_id"`
	Instance     string `json:"instance"`
	IP           string `json:"ip"`
	Name         string `json:"name"`
	Phase        string `json:"phase"`
	Port         int    `json:"port"`
	Status       string `json:"status"`
}

// MasterSlavePair 一组主从关系及其所属集群、实例列表。
// IP 无法匹配时 Cluster 与 Instances 可能为空。
type MasterSlavePair struct {
	Cluster   *ClusterRef   `json:"cluster"`
	Instances []InstanceRef `json:"instances"`
	MasterIP  string        `json:"master_ip"`
	SlaveIP   string        `json:"slave_ip"`
}

type MasterSlaveIPPair struct {
	MasterIP string `json:"master_ip"`
	SlaveIP  string `json:"slave_ip"`
}

type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type StorageSpec struct {
	MountPoint string `json:"mount_point"`
	Size       int    `json:"size"`
	Type       string `json:"type"`
}

// SpecConfig 主机规格
type SpecConfig struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	CPU         Range         `json:"cpu"`
	Mem         Range         `json:"mem"`
	QPS         Range         `json:"qps"`
	StorageSpec []StorageSpec `json:"storage_spec"`
}

// NodeByIP 根据 IP 查询到的集群、角色和规格
type NodeByIP struct {
	IP         string     `json:"ip"`
	Role       string     `json:"role"`
	BkHostID   int        `json:"bk_host_id"`
	BkCloudID  int        `json:"bk_cloud_id"`
	Cluster    ClusterRef `json:"cluster"`
	SpecConfig SpecConfig `json:"spec_config"`
}

func (n NodeByIP) IsMaster() bool {
	return n.Role == RoleRedisMaster
}

// HostRecord 集群下的主机，IsMaster 在解码时由 role 计算得出
type HostRecord struct {
	BkHostID      int        `json:"bk_host_id"`
	BkCloudID     int        `json:"bk_cloud_id"`
	IP            string     `json:"ip"`
	Role          string     `json:"role"`
	ClusterDomain string     `json:"cluster_domain"`
	ClusterType   string     `json:"cluster_type"`
	InstanceCount int        `json:"instance_count"`
	MasterDomain  string     `json:"master_domain"`
	Status        string     `json:"status"`
	SpecConfig    SpecConfig `json:"spec_config"`
	IsMaster      bool       `json:"isMaster"`
}

// UnmarshalJSON 忽略报文中的 isMaster，始终以 role 为准
func (h *HostRecord) UnmarshalJSON(data []byte) error {
	type raw HostRecord
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*h = HostRecord(r)
	h.IsMaster = h.Role == RoleRedisMaster
	return nil
}

// HostList 过滤后的主机列表
type HostList struct {
	Count   int          `json:"count"`
	Results []HostRecord `json:"results"`
}

// ClusterHostParams 查询集群主机的条件，零值字段不参与查询
type ClusterHostParams struct {
	ClusterID *int
	IP        string
}

type RedisHostListParams struct {
	BizID           int
	Role            string
	ClusterID       *int
	InstanceAddress string
}
