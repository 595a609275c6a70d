/*
Copyright 2024 The gkectl authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gke

import (
	"context"
	"strings"

	"cloud.google.com/go/container/apiv1/containerpb"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/cluster"
)

func (c *Client) CreateCluster(ctx context.Context, spec *common.ClusterSpec) (cluster.OperationHandle, error) {
	req := &containerpb.CreateClusterRequest{
		Parent:  c.parent(),
		Cluster: c.clusterFromSpec(spec),
	}
	op, err := c.clusters.CreateCluster(ctx, req)
	if err != nil {
		return "", err
	}
	return handleFromOperation(op), nil
}

func (c *Client) DeleteCluster(ctx context.Context, name string) (cluster.OperationHandle, error) {
	req := &containerpb.DeleteClusterRequest{
		Name: c.clusterName(name),
	}
	op, err := c.clusters.DeleteCluster(ctx, req)
	if err != nil {
		if isNotFound(err) {
			return "", &cluster.NotFoundError{Resource: "cluster", Name: name}
		}
		return "", err
	}
	return handleFromOperation(op), nil
}

func (c *Client) GetCluster(ctx context.Context, name string) (*common.ClusterSummary, error) {
	req := &containerpb.GetClusterRequest{
		Name: c.clusterName(name),
	}
	resp, err := c.clusters.GetCluster(ctx, req)
	if err != nil {
		if isNotFound(err) {
			return nil, &cluster.NotFoundError{Resource: "cluster", Name: name}
		}
		return nil, err
	}
	return c.summaryFromCluster(resp), nil
}

func (c *Client) ListClusters(ctx context.Context) ([]common.ClusterSummary, error) {
	req := &containerpb.ListClustersRequest{
		Parent: c.parent(),
	}
	resp, err := c.clusters.ListClusters(ctx, req)
	if err != nil {
		return nil, err
	}
	summaries := make([]common.ClusterSummary, 0, len(resp.Clusters))
	for _, cl := range resp.Clusters {
		summaries = append(summaries, *c.summaryFromCluster(cl))
	}
	return summaries, nil
}

func (c *Client) ResizeNodePool(ctx context.Context, clusterName, poolName string, nodeCount int32) (cluster.OperationHandle, error) {
	req := &containerpb.SetNodePoolSizeRequest{
		Name:      c.nodePoolName(clusterName, poolName),
		NodeCount: nodeCount,
	}
	op, err := c.clusters.SetNodePoolSize(ctx, req)
	if err != nil {
		if isNotFound(err) {
			return "", &cluster.NotFoundError{Resource: "node pool", Name: poolName}
		}
		return "", err
	}
	return handleFromOperation(op), nil
}

func (c *Client) GetOperation(ctx context.Context, handle cluster.OperationHandle) (*cluster.OperationStatus, error) {
	req := &containerpb.GetOperationRequest{
		Name: c.operationName(handle),
	}
	op, err := c.clusters.GetOperation(ctx, req)
	if err != nil {
		return nil, err
	}
	status := &cluster.OperationStatus{
		StatusMessage: op.GetStatusMessage(),
	}
	if msg := op.GetError().GetMessage(); msg != "" {
		status.StatusMessage = msg
	}
	switch op.GetStatus() {
	case containerpb.Operation_PENDING:
		status.State = cluster.OperationPending
	case containerpb.Operation_RUNNING:
		status.State = cluster.OperationRunning
	case containerpb.Operation_DONE:
		status.State = cluster.OperationDone
	case containerpb.Operation_ABORTING:
		status.State = cluster.OperationAborting
	default:
		status.State = cluster.OperationPending
	}
	// A DONE operation that carries an error failed; surface it the same
	// way as an abort.
	if status.State == cluster.OperationDone && status.StatusMessage != "" {
		status.State = cluster.OperationAborting
	}
	return status, nil
}

// clusterFromSpec builds the create request body with the cost-optimization
// settings: spot nodes, minimal disks, managed Prometheus off and cost
// allocation tracking on.
func (c *Client) clusterFromSpec(spec *common.ClusterSpec) *containerpb.Cluster {
	pools := make([]*containerpb.NodePool, 0, len(spec.NodePools))
	for _, pool := range spec.NodePools {
		pools = append(pools, nodePoolFromSpec(pool, spec.Spot))
	}

	cl := &containerpb.Cluster{
		Name:      spec.Name,
		Locations: []string{spec.Zone},
		NodePools: pools,
		MonitoringConfig: &containerpb.MonitoringConfig{
			ManagedPrometheusConfig: &containerpb.ManagedPrometheusConfig{
				Enabled: false,
			},
		},
		CostManagementConfig: &containerpb.CostManagementConfig{
			Enabled: true,
		},
		WorkloadIdentityConfig: &containerpb.WorkloadIdentityConfig{
			WorkloadPool: c.project + ".svc.id.goog",
		},
	}

	if spec.ReleaseChannel != "" {
		if channel, ok := containerpb.ReleaseChannel_Channel_value[strings.ToUpper(spec.ReleaseChannel)]; ok {
			cl.ReleaseChannel = &containerpb.ReleaseChannel{
				Channel: containerpb.ReleaseChannel_Channel(channel),
			}
		}
	}
	if spec.Private {
		cl.PrivateClusterConfig = &containerpb.PrivateClusterConfig{
			EnablePrivateNodes: true,
		}
	}
	return cl
}

func nodePoolFromSpec(pool common.NodePoolSpec, spot bool) *containerpb.NodePool {
	taints := make([]*containerpb.NodeTaint, 0, len(pool.Taints))
	for _, taint := range pool.Taints {
		effect := containerpb.NodeTaint_Effect(containerpb.NodeTaint_Effect_value[taint.Effect])
		taints = append(taints, &containerpb.NodeTaint{
			Key:    taint.Key,
			Value:  taint.Value,
			Effect: effect,
		})
	}

	pb := &containerpb.NodePool{
		Name:             pool.Name,
		InitialNodeCount: pool.InitialNodeCount,
		Config: &containerpb.NodeConfig{
			MachineType: pool.MachineType,
			DiskSizeGb:  int32(pool.DiskSizeGB),
			DiskType:    pool.DiskType,
			ImageType:   common.DEFAULT_IMAGE_TYPE,
			Spot:        spot,
			Labels:      pool.Labels,
			Taints:      taints,
		},
	}
	if pool.Autoscaling {
		pb.Autoscaling = &containerpb.NodePoolAutoscaling{
			Enabled:      true,
			MinNodeCount: pool.MinNodeCount,
			MaxNodeCount: pool.MaxNodeCount,
		}
	}
	return pb
}

func (c *Client) summaryFromCluster(cl *containerpb.Cluster) *common.ClusterSummary {
	summary := &common.ClusterSummary{
		Name:          cl.GetName(),
		Zone:          cl.GetLocation(),
		Status:        statusFromCluster(cl.GetStatus()),
		MasterVersion: cl.GetCurrentMasterVersion(),
	}
	if summary.Zone == "" {
		summary.Zone = c.zone
	}
	for _, pool := range cl.GetNodePools() {
		summary.Pools = append(summary.Pools, common.PoolSummary{
			Name:      pool.GetName(),
			NodeCount: pool.GetInitialNodeCount(),
			Version:   pool.GetVersion(),
		})
	}
	return summary
}

func statusFromCluster(status containerpb.Cluster_Status) common.ClusterStatus {
	switch status {
	case containerpb.Cluster_PROVISIONING:
		return common.StatusProvisioning
	case containerpb.Cluster_RUNNING:
		return common.StatusRunning
	case containerpb.Cluster_RECONCILING:
		return common.StatusReconciling
	case containerpb.Cluster_STOPPING:
		return common.StatusStopping
	case containerpb.Cluster_ERROR, containerpb.Cluster_DEGRADED:
		return common.StatusError
	default:
		return common.StatusUnknown
	}
}

// handleFromOperation keeps only the operation ID; the full resource name is
// rebuilt from project and zone when polling.
func handleFromOperation(op *containerpb.Operation) cluster.OperationHandle {
	name := op.GetName()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return cluster.OperationHandle(name)
}
