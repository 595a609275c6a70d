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

// Package fake provides a scripted in-memory control plane for exercising
// the lifecycle manager without GCP. Operations transition after a
// configurable number of polls so the polling contract itself is testable.
package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/cluster"
)

var (
	_ cluster.ClusterService = &ControlPlane{}
	_ cluster.NetworkService = &ControlPlane{}
	_ cluster.DiskService    = &ControlPlane{}
)

type operation struct {
	remaining int
	failMsg   string
	applied   bool
	apply     func()
}

// ControlPlane implements cluster.ClusterService, cluster.NetworkService and
// cluster.DiskService over in-memory state.
type ControlPlane struct {
	mu sync.Mutex

	// PollsUntilDone is how many GetOperation calls an operation takes to
	// reach a terminal state.
	PollsUntilDone int
	// FailNextOperation makes the next submitted operation abort with this
	// diagnostic instead of completing.
	FailNextOperation string
	// ListFailures is consumed one error per ListClusters call; once
	// drained, calls succeed.
	ListFailures []error
	// WithoutNAT provisions routers without their NAT gateway.
	WithoutNAT bool
	// FailDiskDelete makes every DeleteDisk call fail.
	FailDiskDelete bool

	// Events records mutating calls in order.
	Events []string
	// ResizeCalls counts ResizeNodePool submissions.
	ResizeCalls int

	clusters map[string]*common.ClusterSummary
	ops      map[cluster.OperationHandle]*operation
	routers  map[string]bool
	nats     map[string]bool
	disks    map[string][]string

	nextOp int
}

func NewControlPlane() *ControlPlane {
	return &ControlPlane{
		PollsUntilDone: 1,
		clusters:       map[string]*common.ClusterSummary{},
		ops:            map[cluster.OperationHandle]*operation{},
		routers:        map[string]bool{},
		nats:           map[string]bool{},
		disks:          map[string][]string{},
	}
}

// AddCluster seeds a cluster as if it had been created earlier.
func (f *ControlPlane) AddCluster(summary common.ClusterSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := summary
	copied.Pools = append([]common.PoolSummary(nil), summary.Pools...)
	f.clusters[summary.Name] = &copied
}

// AddDisk seeds a persistent disk attached to the named cluster.
func (f *ControlPlane) AddDisk(clusterName, diskName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disks[clusterName] = append(f.disks[clusterName], diskName)
}

// HasCluster reports whether the named cluster currently exists.
func (f *ControlPlane) HasCluster(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.clusters[name]
	return ok
}

// HasRouter reports whether the named router currently exists.
func (f *ControlPlane) HasRouter(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.routers[name]
}

// DiskCount returns how many disks remain for the named cluster.
func (f *ControlPlane) DiskCount(clusterName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.disks[clusterName])
}

func (f *ControlPlane) submit(apply func()) cluster.OperationHandle {
	f.nextOp++
	handle := cluster.OperationHandle(fmt.Sprintf("operation-%d", f.nextOp))
	f.ops[handle] = &operation{
		remaining: f.PollsUntilDone,
		failMsg:   f.FailNextOperation,
		apply:     apply,
	}
	f.FailNextOperation = ""
	return handle
}

func (f *ControlPlane) CreateCluster(ctx context.Context, spec *common.ClusterSpec) (cluster.OperationHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.clusters[spec.Name]; ok {
		return "", fmt.Errorf("cluster %q already exists", spec.Name)
	}
	summary := &common.ClusterSummary{
		Name:   spec.Name,
		Zone:   spec.Zone,
		Status: common.StatusProvisioning,
	}
	for _, pool := range spec.NodePools {
		summary.Pools = append(summary.Pools, common.PoolSummary{
			Name:      pool.Name,
			NodeCount: pool.InitialNodeCount,
		})
	}
	f.clusters[spec.Name] = summary
	f.Events = append(f.Events, "create-cluster "+spec.Name)

	name := spec.Name
	return f.submit(func() {
		if c, ok := f.clusters[name]; ok {
			c.Status = common.StatusRunning
		}
	}), nil
}

func (f *ControlPlane) DeleteCluster(ctx context.Context, name string) (cluster.OperationHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.clusters[name]; !ok {
		return "", &cluster.NotFoundError{Resource: "cluster", Name: name}
	}
	c := f.clusters[name]
	c.Status = common.StatusStopping
	f.Events = append(f.Events, "delete-cluster "+name)
	return f.submit(func() {
		delete(f.clusters, name)
	}), nil
}

func (f *ControlPlane) GetCluster(ctx context.Context, name string) (*common.ClusterSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.clusters[name]
	if !ok {
		return nil, &cluster.NotFoundError{Resource: "cluster", Name: name}
	}
	copied := *c
	copied.Pools = append([]common.PoolSummary(nil), c.Pools...)
	return &copied, nil
}

func (f *ControlPlane) ListClusters(ctx context.Context) ([]common.ClusterSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.ListFailures) > 0 {
		err := f.ListFailures[0]
		f.ListFailures = f.ListFailures[1:]
		return nil, err
	}

	names := make([]string, 0, len(f.clusters))
	for name := range f.clusters {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]common.ClusterSummary, 0, len(names))
	for _, name := range names {
		c := f.clusters[name]
		copied := *c
		copied.Pools = append([]common.PoolSummary(nil), c.Pools...)
		summaries = append(summaries, copied)
	}
	return summaries, nil
}

func (f *ControlPlane) ResizeNodePool(ctx context.Context, clusterName, poolName string, nodeCount int32) (cluster.OperationHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.clusters[clusterName]
	if !ok {
		return "", &cluster.NotFoundError{Resource: "cluster", Name: clusterName}
	}
	pool := c.Pool(poolName)
	if pool == nil {
		return "", &cluster.NotFoundError{Resource: "node pool", Name: poolName}
	}

	f.ResizeCalls++
	f.Events = append(f.Events, fmt.Sprintf("resize %s/%s to %d", clusterName, poolName, nodeCount))
	return f.submit(func() {
		if c, ok := f.clusters[clusterName]; ok {
			if pool := c.Pool(poolName); pool != nil {
				pool.NodeCount = nodeCount
			}
		}
	}), nil
}

func (f *ControlPlane) GetOperation(ctx context.Context, handle cluster.OperationHandle) (*cluster.OperationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	op, ok := f.ops[handle]
	if !ok {
		return nil, &cluster.NotFoundError{Resource: "operation", Name: string(handle)}
	}
	if op.remaining > 0 {
		op.remaining--
	}
	if op.remaining > 0 {
		return &cluster.OperationStatus{State: cluster.OperationRunning}, nil
	}
	if op.failMsg != "" {
		return &cluster.OperationStatus{State: cluster.OperationAborting, StatusMessage: op.failMsg}, nil
	}
	if !op.applied {
		op.applied = true
		op.apply()
	}
	return &cluster.OperationStatus{State: cluster.OperationDone}, nil
}

func (f *ControlPlane) EnsureNetworking(ctx context.Context, spec common.NetworkingSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Events = append(f.Events, "ensure-networking "+spec.RouterName)
	f.routers[spec.RouterName] = true
	if !f.WithoutNAT {
		f.nats[spec.NATName] = true
	}
	return nil
}

func (f *ControlPlane) HasNAT(ctx context.Context, spec common.NetworkingSpec) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.routers[spec.RouterName] && f.nats[spec.NATName], nil
}

func (f *ControlPlane) DeleteNetworking(ctx context.Context, spec common.NetworkingSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Events = append(f.Events, "delete-networking "+spec.RouterName)
	delete(f.routers, spec.RouterName)
	delete(f.nats, spec.NATName)
	return nil
}

func (f *ControlPlane) ListClusterDisks(ctx context.Context, clusterName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.disks[clusterName]...), nil
}

func (f *ControlPlane) DeleteDisk(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailDiskDelete {
		return fmt.Errorf("disk %q is in use", name)
	}
	f.Events = append(f.Events, "delete-disk "+name)
	for clusterName, names := range f.disks {
		for i, n := range names {
			if n == name {
				f.disks[clusterName] = append(names[:i], names[i+1:]...)
				return nil
			}
		}
	}
	return nil
}
