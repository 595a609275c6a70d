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

// Package cluster implements the lifecycle manager: create, scale, list and
// delete a zonal cluster and its associated networking against a remote
// control plane. The manager holds no local state; every answer is read
// through from the control plane.
package cluster

import (
	"context"

	"github.com/richardr1126/gkectl/common"
)

// OperationHandle is an opaque reference to an in-flight control plane
// mutation. A handle must always be polled to a terminal state, never treated
// as fire-and-forget.
type OperationHandle string

// OperationState is the coarse state of an in-flight operation.
type OperationState string

const (
	OperationPending  OperationState = "PENDING"
	OperationRunning  OperationState = "RUNNING"
	OperationDone     OperationState = "DONE"
	OperationAborting OperationState = "ABORTING"
)

// OperationStatus is one observation of an operation. StatusMessage carries
// the control plane's diagnostic when the operation failed.
type OperationStatus struct {
	State         OperationState
	StatusMessage string
}

// ClusterService is the cluster and node pool surface of the control plane.
type ClusterService interface {
	CreateCluster(ctx context.Context, spec *common.ClusterSpec) (OperationHandle, error)
	DeleteCluster(ctx context.Context, name string) (OperationHandle, error)
	GetCluster(ctx context.Context, name string) (*common.ClusterSummary, error)
	ListClusters(ctx context.Context) ([]common.ClusterSummary, error)
	ResizeNodePool(ctx context.Context, clusterName, poolName string, nodeCount int32) (OperationHandle, error)
	GetOperation(ctx context.Context, handle OperationHandle) (*OperationStatus, error)
}

// NetworkService manages the router and NAT gateway that give private nodes
// outbound connectivity.
type NetworkService interface {
	// EnsureNetworking creates the router and NAT gateway if they do not
	// exist. It is safe to call when they already do.
	EnsureNetworking(ctx context.Context, spec common.NetworkingSpec) error
	// HasNAT reports whether the router exists and carries a NAT gateway.
	HasNAT(ctx context.Context, spec common.NetworkingSpec) (bool, error)
	// DeleteNetworking removes the router and its NAT gateway. Missing
	// resources are not an error.
	DeleteNetworking(ctx context.Context, spec common.NetworkingSpec) error
}

// DiskService manages the persistent disks that back the cluster's volumes.
type DiskService interface {
	// ListClusterDisks returns the names of disks provisioned for the
	// cluster's persistent volumes.
	ListClusterDisks(ctx context.Context, clusterName string) ([]string, error)
	DeleteDisk(ctx context.Context, name string) error
}
