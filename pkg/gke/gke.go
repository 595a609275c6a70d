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

// Package gke implements the lifecycle manager's service interfaces against
// the GKE container API and the GCE compute API.
package gke

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	compute "cloud.google.com/go/compute/apiv1"
	container "cloud.google.com/go/container/apiv1"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/richardr1126/gkectl/pkg/cluster"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Client talks to the container and compute control planes for one project
// and zone. It implements cluster.ClusterService, cluster.NetworkService and
// cluster.DiskService.
type Client struct {
	project string
	zone    string

	clusters *container.ClusterManagerClient
	routers  *compute.RoutersClient
	disks    *compute.DisksClient
}

var (
	_ cluster.ClusterService = &Client{}
	_ cluster.NetworkService = &Client{}
	_ cluster.DiskService    = &Client{}
)

// NewClient creates a Client using application-default credentials.
func NewClient(ctx context.Context, project, zone string, opts ...option.ClientOption) (*Client, error) {
	clusters, err := container.NewClusterManagerClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating cluster manager client: %v", err)
	}
	routers, err := compute.NewRoutersRESTClient(ctx, opts...)
	if err != nil {
		clusters.Close()
		return nil, fmt.Errorf("creating routers client: %v", err)
	}
	disks, err := compute.NewDisksRESTClient(ctx, opts...)
	if err != nil {
		clusters.Close()
		routers.Close()
		return nil, fmt.Errorf("creating disks client: %v", err)
	}
	return &Client{
		project:  project,
		zone:     zone,
		clusters: clusters,
		routers:  routers,
		disks:    disks,
	}, nil
}

func (c *Client) Close() error {
	err := c.clusters.Close()
	if cerr := c.routers.Close(); err == nil {
		err = cerr
	}
	if cerr := c.disks.Close(); err == nil {
		err = cerr
	}
	return err
}

// DefaultProject resolves the project from application-default credentials,
// the same source `gcloud auth application-default login` populates.
func DefaultProject(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return "", fmt.Errorf("could not get default credentials, make sure you have run 'gcloud auth application-default login': %v", err)
	}
	if creds.ProjectID == "" {
		return "", errors.New("default credentials carry no project, set one with --project")
	}
	return creds.ProjectID, nil
}

func (c *Client) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.project, c.zone)
}

func (c *Client) clusterName(name string) string {
	return fmt.Sprintf("%s/clusters/%s", c.parent(), name)
}

func (c *Client) nodePoolName(clusterName, poolName string) string {
	return fmt.Sprintf("%s/nodePools/%s", c.clusterName(clusterName), poolName)
}

func (c *Client) operationName(handle cluster.OperationHandle) string {
	return fmt.Sprintf("%s/operations/%s", c.parent(), handle)
}

// isNotFound detects not-found responses from both the gRPC container API
// and the REST compute API.
func isNotFound(err error) bool {
	if status.Code(err) == codes.NotFound {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
