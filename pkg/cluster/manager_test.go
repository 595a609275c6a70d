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

package cluster_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/cluster"
	"github.com/richardr1126/gkectl/pkg/cluster/fake"
)

var testPoll = cluster.PollConfig{
	Interval: time.Millisecond,
	Timeout:  time.Second,
}

func testSpec(name string) *common.ClusterSpec {
	return &common.ClusterSpec{
		Name: name,
		Zone: common.DEFAULT_ZONE,
		Spot: true,
		NodePools: []common.NodePoolSpec{
			{
				Name:             common.DEFAULT_NODE_POOL_NAME,
				MachineType:      common.DEFAULT_MACHINE_TYPE,
				DiskSizeGB:       common.DEFAULT_DISK_SIZE_GB,
				DiskType:         common.DEFAULT_DISK_TYPE,
				InitialNodeCount: 0,
			},
		},
	}
}

func runningCluster(name string, nodes int32) common.ClusterSummary {
	return common.ClusterSummary{
		Name:   name,
		Zone:   common.DEFAULT_ZONE,
		Status: common.StatusRunning,
		Pools: []common.PoolSummary{
			{Name: common.DEFAULT_NODE_POOL_NAME, NodeCount: nodes},
		},
	}
}

func TestCreateZeroNodeClusterReachesRunning(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.PollsUntilDone = 3
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	summary, err := m.Create(context.Background(), testSpec("t1"), testPoll)
	if err != nil {
		t.Fatalf("unexpected error creating cluster: %v", err)
	}
	if summary.Status != common.StatusRunning {
		t.Errorf("expected status %s, found %s", common.StatusRunning, summary.Status)
	}
	if summary.NodeCount() != 0 {
		t.Errorf("expected 0 nodes, found %d", summary.NodeCount())
	}

	summaries, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing clusters: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "t1" {
		t.Errorf("expected list to contain t1, found %v", summaries)
	}
}

func TestCreatePrivateProvisionsNetworkingFirst(t *testing.T) {
	cp := fake.NewControlPlane()
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	spec := testSpec("t1")
	spec.Private = true
	if _, err := m.Create(context.Background(), spec, testPoll); err != nil {
		t.Fatalf("unexpected error creating private cluster: %v", err)
	}

	if len(cp.Events) < 2 {
		t.Fatalf("expected networking and cluster events, found %v", cp.Events)
	}
	if cp.Events[0] != "ensure-networking t1-router" {
		t.Errorf("expected networking to be provisioned before the cluster, found events %v", cp.Events)
	}
	if cp.Events[1] != "create-cluster t1" {
		t.Errorf("expected cluster creation after networking, found events %v", cp.Events)
	}
}

func TestCreatePrivateWithoutNATFails(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.WithoutNAT = true
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	spec := testSpec("t1")
	spec.Private = true
	_, err := m.Create(context.Background(), spec, testPoll)
	var provErr *cluster.ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProvisioningError, found %v", err)
	}
	if !strings.Contains(provErr.Message, "NAT gateway") {
		t.Errorf("expected error to name the NAT gateway, found %q", provErr.Message)
	}
}

func TestCreateFailureSurfacesDiagnosticAndPartialResources(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.FailNextOperation = "Insufficient regional quota to satisfy request: resource \"CPUS\""
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	spec := testSpec("t1")
	spec.Private = true
	_, err := m.Create(context.Background(), spec, testPoll)
	var provErr *cluster.ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProvisioningError, found %v", err)
	}
	if !strings.Contains(provErr.Message, "Insufficient regional quota") {
		t.Errorf("expected the control plane diagnostic to be preserved, found %q", provErr.Message)
	}
	if len(provErr.PartialResources) == 0 {
		t.Error("expected partially applied resources to be named")
	}
	found := false
	for _, resource := range provErr.PartialResources {
		if strings.Contains(resource, "t1-router") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the router to be named as a partial resource, found %v", provErr.PartialResources)
	}
}

func TestScaleAllPoolsAndBack(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	if err := m.Scale(context.Background(), "t1", "default-pool", 3, testPoll); err != nil {
		t.Fatalf("unexpected error scaling up: %v", err)
	}
	summaries, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing clusters: %v", err)
	}
	if summaries[0].Pool("default-pool").NodeCount != 3 {
		t.Errorf("expected 3 nodes after scale up, found %d", summaries[0].Pool("default-pool").NodeCount)
	}

	// Empty pool name applies to every pool.
	if err := m.Scale(context.Background(), "t1", "", 0, testPoll); err != nil {
		t.Fatalf("unexpected error scaling down: %v", err)
	}
	summaries, err = m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing clusters: %v", err)
	}
	if summaries[0].NodeCount() != 0 {
		t.Errorf("expected 0 nodes after scale down, found %d", summaries[0].NodeCount())
	}
}

func TestScaleToCurrentSizeIsIdempotent(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	if err := m.Scale(context.Background(), "t1", "", 3, testPoll); err != nil {
		t.Fatalf("unexpected error scaling: %v", err)
	}
	if cp.ResizeCalls != 1 {
		t.Fatalf("expected one resize call, found %d", cp.ResizeCalls)
	}

	if err := m.Scale(context.Background(), "t1", "", 3, testPoll); err != nil {
		t.Fatalf("unexpected error on idempotent scale: %v", err)
	}
	if cp.ResizeCalls != 1 {
		t.Errorf("expected no additional resize call, found %d", cp.ResizeCalls)
	}
}

func TestScaleMissingClusterOrPool(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	tcs := []struct {
		name        string
		clusterName string
		poolName    string
	}{
		{"missing cluster", "absent", ""},
		{"missing pool", "t1", "absent-pool"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := m.Scale(context.Background(), tc.clusterName, tc.poolName, 1, testPoll)
			if !cluster.IsNotFound(err) {
				t.Errorf("expected NotFoundError, found %v", err)
			}
		})
	}
}

func TestScaleRequiresRunningCluster(t *testing.T) {
	cp := fake.NewControlPlane()
	provisioning := runningCluster("t1", 0)
	provisioning.Status = common.StatusProvisioning
	cp.AddCluster(provisioning)
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	err := m.Scale(context.Background(), "t1", "", 3, testPoll)
	var scaleErr *cluster.ScalingError
	if !errors.As(err, &scaleErr) {
		t.Fatalf("expected ScalingError, found %v", err)
	}
	if !strings.Contains(scaleErr.Message, string(common.StatusProvisioning)) {
		t.Errorf("expected error to report the current status, found %q", scaleErr.Message)
	}
}

func TestListEmptyProject(t *testing.T) {
	cp := fake.NewControlPlane()
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	summaries, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing clusters: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected empty list, found %v", summaries)
	}
}

func TestListRetriesTransientFailures(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	cp.ListFailures = []error{errors.New("connection reset by peer")}
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	summaries, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("expected the transient failure to be retried, found %v", err)
	}
	if len(summaries) != 1 {
		t.Errorf("expected one cluster, found %v", summaries)
	}
}

func TestDeleteMissingClusterHasNoSideEffects(t *testing.T) {
	cp := fake.NewControlPlane()
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	err := m.Delete(context.Background(), "absent", testPoll)
	if !cluster.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, found %v", err)
	}
	if len(cp.Events) != 0 {
		t.Errorf("expected no side effects, found events %v", cp.Events)
	}
}

func TestDeleteRemovesDisksClusterAndNetworkingInOrder(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	cp.AddDisk("t1", "pvc-disk-1")
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)
	// Seed networking as a private create would have.
	networking := common.NetworkingForCluster("t1", common.DEFAULT_ZONE)
	if err := cp.EnsureNetworking(context.Background(), networking); err != nil {
		t.Fatalf("unexpected error seeding networking: %v", err)
	}

	if err := m.Delete(context.Background(), "t1", testPoll); err != nil {
		t.Fatalf("unexpected error deleting cluster: %v", err)
	}

	if cp.HasCluster("t1") {
		t.Error("expected cluster to be deleted")
	}
	if cp.DiskCount("t1") != 0 {
		t.Error("expected persistent disks to be deleted")
	}
	if cp.HasRouter("t1-router") {
		t.Error("expected router to be deleted")
	}

	expected := []string{
		"ensure-networking t1-router",
		"delete-disk pvc-disk-1",
		"delete-cluster t1",
		"delete-networking t1-router",
	}
	if len(cp.Events) != len(expected) {
		t.Fatalf("expected events %v, found %v", expected, cp.Events)
	}
	for i := range expected {
		if cp.Events[i] != expected[i] {
			t.Errorf("expected event %d to be %q, found %q", i, expected[i], cp.Events[i])
		}
	}
}

func TestDeleteDiskFailureNamesTheStep(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	cp.AddDisk("t1", "pvc-disk-1")
	cp.FailDiskDelete = true
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	err := m.Delete(context.Background(), "t1", testPoll)
	var teardownErr *cluster.TeardownError
	if !errors.As(err, &teardownErr) {
		t.Fatalf("expected TeardownError, found %v", err)
	}
	if teardownErr.Step != cluster.TeardownStepDisk {
		t.Errorf("expected failed step %q, found %q", cluster.TeardownStepDisk, teardownErr.Step)
	}
	if !cp.HasCluster("t1") {
		t.Error("cluster deletion must not proceed after a disk failure")
	}
}

func TestWaitTimeoutIsDistinctFromFailure(t *testing.T) {
	cp := fake.NewControlPlane()
	// Never enough polls to finish within the bound below.
	cp.PollsUntilDone = 1 << 30
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	poll := cluster.PollConfig{Interval: time.Millisecond, Timeout: 20 * time.Millisecond}
	_, err := m.Create(context.Background(), testSpec("t1"), poll)
	if !cluster.IsTimeout(err) {
		t.Fatalf("expected TimeoutError, found %v", err)
	}
	var provErr *cluster.ProvisioningError
	if errors.As(err, &provErr) {
		t.Error("a timeout must not be reported as an operation failure")
	}
}

func TestScaleFailureSurfacesDiagnostic(t *testing.T) {
	cp := fake.NewControlPlane()
	cp.AddCluster(runningCluster("t1", 0))
	cp.FailNextOperation = "zone does not have enough resources"
	m := cluster.New(cp, cp, cp, common.DEFAULT_ZONE)

	err := m.Scale(context.Background(), "t1", "default-pool", 3, testPoll)
	var scaleErr *cluster.ScalingError
	if !errors.As(err, &scaleErr) {
		t.Fatalf("expected ScalingError, found %v", err)
	}
	if !strings.Contains(scaleErr.Message, "enough resources") {
		t.Errorf("expected the control plane diagnostic to be preserved, found %q", scaleErr.Message)
	}
	if scaleErr.Pool != "default-pool" {
		t.Errorf("expected the failed pool to be named, found %q", scaleErr.Pool)
	}
}
