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

// Package config loads tool defaults from an optional YAML file. Nothing
// about cluster state is persisted here; the control plane remains the
// source of truth.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/richardr1126/gkectl/common"
)

type Config struct {
	Project     string `yaml:"project"`
	Zone        string `yaml:"zone"`
	ClusterName string `yaml:"clusterName"`
	MachineType string `yaml:"machineType"`
	DiskSizeGB  int64  `yaml:"diskSizeGB"`
	DiskType    string `yaml:"diskType"`
}

// Default returns the cost-optimized defaults used when no file is given.
func Default() *Config {
	return &Config{
		Zone:        common.DEFAULT_ZONE,
		ClusterName: common.DEFAULT_CLUSTER_NAME,
		MachineType: common.DEFAULT_MACHINE_TYPE,
		DiskSizeGB:  common.DEFAULT_DISK_SIZE_GB,
		DiskType:    common.DEFAULT_DISK_TYPE,
	}
}

// FromFile reads a config file on top of the defaults, so a file only needs
// to set the fields it wants to change.
func FromFile(path string) (*Config, error) {
	cfg := Default()
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %v", path, err)
	}
	if err := yaml.UnmarshalStrict(d, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %v", path, err)
	}
	return cfg, nil
}
