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

package cluster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/richardr1126/gkectl/common"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

const (
	listRetryInterval = 2 * time.Second
	listRetryTimeout  = 10 * time.Second
)

// PollConfig bounds one polling loop. It is supplied at the call site so the
// timeout contract stays testable without a real control plane.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Manager drives cluster lifecycle operations against a remote control
// plane. It issues one request at a time and blocks until the resulting
// operation reaches a terminal state or the poll bound elapses. Killing the
// process stops local polling but does not cancel the remote mutation.
type Manager struct {
	clusters ClusterService
	network  NetworkService
	disks    DiskService
	zone     string
}

// New creates a Manager over the given control plane services.
func New(clusters ClusterService, network NetworkService, disks DiskService, zone string) *Manager {
	return &Manager{
		clusters: clusters,
		network:  network,
		disks:    disks,
		zone:     zone,
	}
}

// Create submits the cluster and blocks until the control plane reports it
// RUNNING. For private clusters the router and NAT gateway are provisioned
// first; pods have no outbound connectivity without them. Create never
// retries: a failed create may have partially applied resources, and the
// returned ProvisioningError names them.
func (m *Manager) Create(ctx context.Context, spec *common.ClusterSpec, poll PollConfig) (*common.ClusterSummary, error) {
	networking := common.NetworkingForCluster(spec.Name, spec.Zone)
	var partial []string

	if spec.Private {
		log.Infof("Provisioning router %q and NAT gateway %q in region %s", networking.RouterName, networking.NATName, networking.Region)
		if err := m.network.EnsureNetworking(ctx, networking); err != nil {
			return nil, &ProvisioningError{
				Cluster: spec.Name,
				Message: fmt.Sprintf("provisioning NAT gateway: %v", err),
			}
		}
		partial = append(partial, fmt.Sprintf("router %s", networking.RouterName), fmt.Sprintf("NAT gateway %s", networking.NATName))
	}

	log.Infof("Creating cluster %q in zone %s", spec.Name, spec.Zone)
	handle, err := m.clusters.CreateCluster(ctx, spec)
	if err != nil {
		return nil, &ProvisioningError{
			Cluster:          spec.Name,
			Message:          err.Error(),
			PartialResources: partial,
		}
	}

	partial = append(partial, fmt.Sprintf("cluster %s", spec.Name))
	if err := m.waitForOperation(ctx, handle, fmt.Sprintf("creation of cluster %q", spec.Name), poll); err != nil {
		if IsTimeout(err) {
			return nil, err
		}
		return nil, &ProvisioningError{
			Cluster:          spec.Name,
			Message:          err.Error(),
			PartialResources: partial,
		}
	}

	if spec.Private {
		// A private cluster without a NAT gateway has nodes with no
		// outbound connectivity; refuse to report it ready.
		hasNAT, err := m.network.HasNAT(ctx, networking)
		if err != nil {
			return nil, &ProvisioningError{
				Cluster:          spec.Name,
				Message:          fmt.Sprintf("verifying NAT gateway: %v", err),
				PartialResources: partial,
			}
		}
		if !hasNAT {
			return nil, &ProvisioningError{
				Cluster:          spec.Name,
				Message:          fmt.Sprintf("NAT gateway %q missing on router %q", networking.NATName, networking.RouterName),
				PartialResources: partial,
			}
		}
	}

	summary, err := m.clusters.GetCluster(ctx, spec.Name)
	if err != nil {
		return nil, err
	}
	log.Infof("Cluster %q is %s", summary.Name, summary.Status)
	return summary, nil
}

// Scale resizes the named pool, or every pool when poolName is empty, to
// nodeCount and blocks until the control plane confirms each resize. Scaling
// a pool to its current size is a no-op that still succeeds.
func (m *Manager) Scale(ctx context.Context, name, poolName string, nodeCount int32, poll PollConfig) error {
	summary, err := m.clusters.GetCluster(ctx, name)
	if err != nil {
		return err
	}
	if summary.Status != common.StatusRunning {
		return &ScalingError{
			Cluster: name,
			Message: fmt.Sprintf("cluster is not RUNNING (current: %s)", summary.Status),
		}
	}

	pools := summary.Pools
	if poolName != "" {
		pool := summary.Pool(poolName)
		if pool == nil {
			return &NotFoundError{Resource: "node pool", Name: poolName}
		}
		pools = []common.PoolSummary{*pool}
	}

	for _, pool := range pools {
		if pool.NodeCount == nodeCount {
			log.Infof("Node pool %q already has %d nodes, nothing to do", pool.Name, nodeCount)
			continue
		}
		log.Infof("Scaling node pool %q: %d -> %d nodes", pool.Name, pool.NodeCount, nodeCount)
		handle, err := m.clusters.ResizeNodePool(ctx, name, pool.Name, nodeCount)
		if err != nil {
			if IsNotFound(err) {
				return err
			}
			return &ScalingError{Cluster: name, Pool: pool.Name, Message: err.Error()}
		}
		if err := m.waitForOperation(ctx, handle, fmt.Sprintf("resize of node pool %q", pool.Name), poll); err != nil {
			if IsTimeout(err) {
				return err
			}
			return &ScalingError{Cluster: name, Pool: pool.Name, Message: err.Error()}
		}
	}
	return nil
}

// List returns a summary for every cluster visible in the project. It is a
// pure read, so transient failures are retried before giving up; an empty
// project yields an empty slice, not an error.
func (m *Manager) List(ctx context.Context) ([]common.ClusterSummary, error) {
	var summaries []common.ClusterSummary
	var lastErr error
	err := wait.PollUntilContextTimeout(ctx, listRetryInterval, listRetryTimeout, true, func(ctx context.Context) (bool, error) {
		summaries, lastErr = m.clusters.ListClusters(ctx)
		if lastErr != nil {
			log.Debugf("Transient failure listing clusters, retrying: %v", lastErr)
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return summaries, nil
}

// Delete tears the cluster down: persistent volume disks first so no
// billable storage is orphaned, then the cluster itself, then the router and
// NAT gateway, which cannot be removed while still referenced. The returned
// TeardownError names the step that failed so the caller can finish the
// cleanup manually.
func (m *Manager) Delete(ctx context.Context, name string, poll PollConfig) error {
	if _, err := m.clusters.GetCluster(ctx, name); err != nil {
		return err
	}

	diskNames, err := m.disks.ListClusterDisks(ctx, name)
	if err != nil {
		return &TeardownError{Cluster: name, Step: TeardownStepDisk, Message: err.Error()}
	}
	for _, disk := range diskNames {
		log.Infof("Deleting persistent disk %q", disk)
		if err := m.disks.DeleteDisk(ctx, disk); err != nil {
			return &TeardownError{Cluster: name, Step: TeardownStepDisk, Message: fmt.Sprintf("deleting disk %q: %v", disk, err)}
		}
	}

	log.Infof("Deleting cluster %q", name)
	handle, err := m.clusters.DeleteCluster(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return &TeardownError{Cluster: name, Step: TeardownStepCluster, Message: err.Error()}
	}
	if err := m.waitForOperation(ctx, handle, fmt.Sprintf("deletion of cluster %q", name), poll); err != nil {
		if IsTimeout(err) {
			return err
		}
		return &TeardownError{Cluster: name, Step: TeardownStepCluster, Message: err.Error()}
	}

	networking := common.NetworkingForCluster(name, m.zone)
	log.Infof("Deleting router %q and NAT gateway %q", networking.RouterName, networking.NATName)
	if err := m.network.DeleteNetworking(ctx, networking); err != nil {
		return &TeardownError{Cluster: name, Step: TeardownStepNetwork, Message: err.Error()}
	}
	return nil
}

// waitForOperation polls the handle until it reports DONE, fails, or the
// bound elapses. A timeout is distinct from a reported failure: the former
// may be waited out again, the latter requires remediation.
func (m *Manager) waitForOperation(ctx context.Context, handle OperationHandle, action string, poll PollConfig) error {
	err := wait.PollUntilContextTimeout(ctx, poll.Interval, poll.Timeout, true, func(ctx context.Context) (bool, error) {
		status, err := m.clusters.GetOperation(ctx, handle)
		if err != nil {
			return false, err
		}
		switch status.State {
		case OperationDone:
			return true, nil
		case OperationAborting:
			return false, &operationFailedError{Handle: handle, Message: status.StatusMessage}
		default:
			log.Debugf("Operation %s status: %s", handle, status.State)
			return false, nil
		}
	})
	if err != nil && (wait.Interrupted(err) || errors.Is(err, context.DeadlineExceeded)) {
		return &TimeoutError{Action: action, Wait: poll.Timeout}
	}
	return err
}
