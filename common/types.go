package common

// ClusterStatus mirrors the status reported by the control plane. The manager
// never owns these transitions, it only observes them.
type ClusterStatus string

const (
	StatusUnknown      ClusterStatus = "UNKNOWN"
	StatusProvisioning ClusterStatus = "PROVISIONING"
	StatusRunning      ClusterStatus = "RUNNING"
	StatusReconciling  ClusterStatus = "RECONCILING"
	StatusStopping     ClusterStatus = "STOPPING"
	StatusError        ClusterStatus = "ERROR"
)

// ClusterSpec is the desired state submitted at create time. It is built from
// CLI flags and never persisted locally; the control plane is the source of
// truth once the request is accepted.
type ClusterSpec struct {
	Name           string
	Zone           string
	Spot           bool
	Private        bool
	ReleaseChannel string
	NodePools      []NodePoolSpec
}

// NodePoolSpec describes one independently scalable pool of a ClusterSpec.
type NodePoolSpec struct {
	Name             string
	MachineType      string
	DiskSizeGB       int64
	DiskType         string
	InitialNodeCount int32
	Autoscaling      bool
	MinNodeCount     int32
	MaxNodeCount     int32
	Labels           map[string]string
	Taints           []NodeTaint
}

// NodeTaint is applied to every node of a pool at creation.
type NodeTaint struct {
	Key    string
	Value  string
	Effect string
}

// NetworkingSpec names the router and NAT gateway that give private nodes
// outbound connectivity. Both are derived from the cluster name so teardown
// can find them without local state.
type NetworkingSpec struct {
	Region     string
	RouterName string
	NATName    string
	Network    string
}

// NetworkingForCluster returns the networking resources associated with a
// cluster in the given zone. The region is the zone with the suffix dropped.
func NetworkingForCluster(name, zone string) NetworkingSpec {
	return NetworkingSpec{
		Region:     RegionFromZone(zone),
		RouterName: name + "-router",
		NATName:    name + "-nat",
		Network:    "default",
	}
}

// RegionFromZone drops the zone suffix, e.g. us-central1-b -> us-central1.
func RegionFromZone(zone string) string {
	for i := len(zone) - 1; i >= 0; i-- {
		if zone[i] == '-' {
			return zone[:i]
		}
	}
	return zone
}

// PoolSummary is the per-pool slice of a ClusterSummary.
type PoolSummary struct {
	Name      string
	NodeCount int32
	Version   string
}

// ClusterSummary is a read-only view of one cluster as reported by the
// control plane. It is derived on every call and never cached.
type ClusterSummary struct {
	Name          string
	Zone          string
	Status        ClusterStatus
	MasterVersion string
	Pools         []PoolSummary
}

// Pool returns the named pool summary, or nil if the cluster has no pool with
// that name.
func (s *ClusterSummary) Pool(name string) *PoolSummary {
	for i := range s.Pools {
		if s.Pools[i].Name == name {
			return &s.Pools[i]
		}
	}
	return nil
}

// NodeCount sums the node counts of all pools.
func (s *ClusterSummary) NodeCount() int32 {
	var total int32
	for _, p := range s.Pools {
		total += p.NodeCount
	}
	return total
}
