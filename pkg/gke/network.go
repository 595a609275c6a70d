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
	"google.golang.org/protobuf/proto"

	"github.com/richardr1126/gkectl/common"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

func (c *Client) EnsureNetworking(ctx context.Context, spec common.NetworkingSpec) error {
	_, err := c.routers.Get(ctx, &computepb.GetRouterRequest{
		Project: c.project,
		Region:  spec.Region,
		Router:  spec.RouterName,
	})
	if err == nil {
		log.Debugf("Router %q already exists", spec.RouterName)
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("getting router %q: %v", spec.RouterName, err)
	}

	router := &computepb.Router{
		Name:    proto.String(spec.RouterName),
		Network: proto.String(fmt.Sprintf("projects/%s/global/networks/%s", c.project, spec.Network)),
		Nats: []*computepb.RouterNat{
			{
				Name:                          proto.String(spec.NATName),
				NatIpAllocateOption:           proto.String("AUTO_ONLY"),
				SourceSubnetworkIpRangesToNat: proto.String("ALL_SUBNETWORKS_ALL_IP_RANGES"),
			},
		},
	}
	op, err := c.routers.Insert(ctx, &computepb.InsertRouterRequest{
		Project:        c.project,
		Region:         spec.Region,
		RouterResource: router,
	})
	if err != nil {
		return fmt.Errorf("creating router %q: %v", spec.RouterName, err)
	}
	if err := op.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for router %q: %v", spec.RouterName, err)
	}
	return nil
}

func (c *Client) HasNAT(ctx context.Context, spec common.NetworkingSpec) (bool, error) {
	router, err := c.routers.Get(ctx, &computepb.GetRouterRequest{
		Project: c.project,
		Region:  spec.Region,
		Router:  spec.RouterName,
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("getting router %q: %v", spec.RouterName, err)
	}
	for _, nat := range router.GetNats() {
		if nat.GetName() == spec.NATName {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) DeleteNetworking(ctx context.Context, spec common.NetworkingSpec) error {
	// The NAT gateway is part of the router resource and goes with it.
	op, err := c.routers.Delete(ctx, &computepb.DeleteRouterRequest{
		Project: c.project,
		Region:  spec.Region,
		Router:  spec.RouterName,
	})
	if err != nil {
		if isNotFound(err) {
			log.Debugf("Router %q already gone", spec.RouterName)
			return nil
		}
		return fmt.Errorf("deleting router %q: %v", spec.RouterName, err)
	}
	if err := op.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for router %q deletion: %v", spec.RouterName, err)
	}
	return nil
}
