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
	"fmt"

	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/proto"

	log "github.com/richardr1126/gkectl/pkg/logrus"
)

// ListClusterDisks finds the persistent disks GKE provisioned for the
// cluster's persistent volumes, identified by the label the CSI driver
// stamps on them.
func (c *Client) ListClusterDisks(ctx context.Context, clusterName string) ([]string, error) {
	req := &computepb.ListDisksRequest{
		Project: c.project,
		Zone:    c.zone,
		Filter:  proto.String(fmt.Sprintf("labels.goog-k8s-cluster-name = %q", clusterName)),
	}
	var names []string
	it := c.disks.List(ctx, req)
	for {
		disk, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing disks for cluster %q: %v", clusterName, err)
		}
		names = append(names, disk.GetName())
	}
	return names, nil
}

func (c *Client) DeleteDisk(ctx context.Context, name string) error {
	op, err := c.disks.Delete(ctx, &computepb.DeleteDiskRequest{
		Project: c.project,
		Zone:    c.zone,
		Disk:    name,
	})
	if err != nil {
		if isNotFound(err) {
			log.Debugf("Disk %q already gone", name)
			return nil
		}
		return err
	}
	return op.Wait(ctx)
}
