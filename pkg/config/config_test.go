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

package config_test

import (
	"fmt"
	"testing"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/config"
)

func TestFromFile(t *testing.T) {
	tcs := []struct {
		name     string
		expected config.Config
	}{
		{
			name: "full",
			expected: config.Config{
				Project:     "acme-staging",
				Zone:        "europe-west1-b",
				ClusterName: "staging-cluster",
				MachineType: "e2-standard-4",
				DiskSizeGB:  50,
				DiskType:    "pd-balanced",
			},
		},
		{
			// Unset fields keep their defaults
			name: "partial",
			expected: config.Config{
				Project:     "acme-staging",
				Zone:        common.DEFAULT_ZONE,
				ClusterName: common.DEFAULT_CLUSTER_NAME,
				MachineType: common.DEFAULT_MACHINE_TYPE,
				DiskSizeGB:  common.DEFAULT_DISK_SIZE_GB,
				DiskType:    common.DEFAULT_DISK_TYPE,
			},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			testFile := fmt.Sprintf("testdata/%s.yaml", tc.name)
			cfg, err := config.FromFile(testFile)
			if err != nil {
				t.Fatalf("unable to read config file %s: %v", testFile, err)
			}
			if *cfg != tc.expected {
				t.Errorf("expected config %+v, found %+v", tc.expected, *cfg)
			}
		})
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := config.FromFile("testdata/does-not-exist.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestFromFileUnknownField(t *testing.T) {
	if _, err := config.FromFile("testdata/unknown.yaml"); err == nil {
		t.Error("expected an error for an unknown config field")
	}
}
