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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/richardr1126/gkectl/pkg/cluster"
	"github.com/richardr1126/gkectl/pkg/config"
	"github.com/richardr1126/gkectl/pkg/gke"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

var configFilename string
var cfg *config.Config
var LogLevel string
var projectOverride string
var zoneOverride string

var rootCmd = &cobra.Command{
	Use: "gkectl",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		InitConfig()
	},
	Long: `CLI tool for cost-optimized GKE cluster management.
This tool lets you create, scale, list and delete a zonal
GKE cluster running on spot instances.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "config file with project, zone and machine defaults")
	rootCmd.PersistentFlags().StringVarP(&LogLevel, "log-level", "l", "info", "set log level for output, permitted values debug, info, warn, error, fatal and panic")
	rootCmd.PersistentFlags().StringVar(&projectOverride, "project", "", "GCP project (default: from application-default credentials)")
	rootCmd.PersistentFlags().StringVar(&zoneOverride, "zone", "", "zone for the cluster and its disks")
}

func InitConfig() {
	if err := log.SetLogLevel(LogLevel); err != nil {
		log.Fatalf("Invalid log level %q: %v", LogLevel, err)
	}
	cfg = config.Default()
	if configFilename != "" {
		var err error
		cfg, err = config.FromFile(configFilename)
		if err != nil {
			log.Fatalf("Unable to load config: %v", err)
		}
	}
	if projectOverride != "" {
		cfg.Project = projectOverride
	}
	if zoneOverride != "" {
		cfg.Zone = zoneOverride
	}
}

// newManager resolves the project, connects the GCP clients and wires up the
// lifecycle manager. The returned client must be closed by the caller.
func newManager(ctx context.Context) (*cluster.Manager, *gke.Client) {
	if cfg.Project == "" {
		project, err := gke.DefaultProject(ctx)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Project = project
	}
	client, err := gke.NewClient(ctx, cfg.Project, cfg.Zone)
	if err != nil {
		log.Fatalf("Unable to connect to the control plane: %v", err)
	}
	return cluster.New(client, client, client, cfg.Zone), client
}
