package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/cluster"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a cost-optimized GKE cluster",
	Run: func(cmd *cobra.Command, args []string) {
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			log.Fatalf("Unable to parse `name`: %v", err)
		}
		noSpot, err := cmd.Flags().GetBool("no-spot")
		if err != nil {
			log.Fatalf("Unable to parse `no-spot`: %v", err)
		}
		private, err := cmd.Flags().GetBool("private")
		if err != nil {
			log.Fatalf("Unable to parse `private`: %v", err)
		}
		nodes, err := cmd.Flags().GetInt32("nodes")
		if err != nil {
			log.Fatalf("Unable to parse `nodes`: %v", err)
		}
		if nodes < 0 {
			log.Fatalf("Invalid node count %d, must be >= 0", nodes)
		}
		machineType, err := cmd.Flags().GetString("machine-type")
		if err != nil {
			log.Fatalf("Unable to parse `machine-type`: %v", err)
		}
		diskSize, err := cmd.Flags().GetInt64("disk-size")
		if err != nil {
			log.Fatalf("Unable to parse `disk-size`: %v", err)
		}
		releaseChannel, err := cmd.Flags().GetString("release-channel")
		if err != nil {
			log.Fatalf("Unable to parse `release-channel`: %v", err)
		}
		if machineType == "" {
			machineType = cfg.MachineType
		}
		if diskSize == 0 {
			diskSize = cfg.DiskSizeGB
		}
		if name == "" {
			name = cfg.ClusterName
		}

		spec := &common.ClusterSpec{
			Name:           name,
			Zone:           cfg.Zone,
			Spot:           !noSpot,
			Private:        private,
			ReleaseChannel: releaseChannel,
			NodePools: []common.NodePoolSpec{
				{
					Name:             common.DEFAULT_NODE_POOL_NAME,
					MachineType:      machineType,
					DiskSizeGB:       diskSize,
					DiskType:         cfg.DiskType,
					InitialNodeCount: nodes,
				},
			},
		}

		ctx := context.Background()
		manager, client := newManager(ctx)
		defer client.Close()

		log.Infof("Creating GKE cluster %q in project %q", name, cfg.Project)
		log.Infof("Zone: %s, machine type: %s, disk: %dGB %s, spot: %t", cfg.Zone, machineType, diskSize, cfg.DiskType, !noSpot)
		log.Infof("This typically takes 3-5 minutes for a small cluster")

		poll := cluster.PollConfig{Interval: common.CREATE_POLL_INTERVAL, Timeout: common.CREATE_POLL_TIMEOUT}
		summary, err := manager.Create(ctx, spec, poll)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Cluster %q created, status %s, %d nodes\n", summary.Name, summary.Status, summary.NodeCount())
		fmt.Println("\nTo add this cluster to your kubeconfig and connect, run:")
		fmt.Printf("  gcloud container clusters get-credentials %s --zone %s --project %s\n", name, cfg.Zone, cfg.Project)
		fmt.Println("\nNode scaling:")
		fmt.Printf("  gkectl scale --name %s --nodes 3   scale up to 3 nodes\n", name)
		fmt.Printf("  gkectl scale --name %s --nodes 0   scale to 0 to stop compute costs\n", name)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("name", "", "Name of the cluster (default from config)")
	createCmd.Flags().Bool("no-spot", false, "Disable spot instances (use regular instances instead)")
	createCmd.Flags().Bool("private", false, "Create private nodes behind a router and NAT gateway")
	createCmd.Flags().Int32("nodes", common.DEFAULT_NODE_COUNT, "Initial number of nodes")
	createCmd.Flags().String("machine-type", "", "Machine type for the default pool (default from config)")
	createCmd.Flags().Int64("disk-size", 0, "Boot disk size in GB (default from config)")
	createCmd.Flags().String("release-channel", "", "Release channel, one of rapid, regular, stable")
}
