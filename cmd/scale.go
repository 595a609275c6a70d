package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/cluster"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

// scaleCmd represents the scale command
var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Scales the cluster's node pools to a target size",
	Run: func(cmd *cobra.Command, args []string) {
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			log.Fatalf("Unable to parse `name`: %v", err)
		}
		if name == "" {
			name = cfg.ClusterName
		}
		nodes, err := cmd.Flags().GetInt32("nodes")
		if err != nil {
			log.Fatalf("Unable to parse `nodes`: %v", err)
		}
		if nodes < 0 {
			log.Fatalf("Invalid node count %d, must be >= 0", nodes)
		}
		pool, err := cmd.Flags().GetString("pool")
		if err != nil {
			log.Fatalf("Unable to parse `pool`: %v", err)
		}

		ctx := context.Background()
		manager, client := newManager(ctx)
		defer client.Close()

		if nodes == 0 {
			log.Infof("Scaling to 0 stops all compute costs but keeps the cluster configuration")
		}
		poll := cluster.PollConfig{Interval: common.SCALE_POLL_INTERVAL, Timeout: common.SCALE_POLL_TIMEOUT}
		if err := manager.Scale(ctx, name, pool, nodes, poll); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Cluster %q scaled to %d nodes\n", name, nodes)
	},
}

func init() {
	rootCmd.AddCommand(scaleCmd)
	scaleCmd.Flags().String("name", "", "Name of the cluster (default from config)")
	scaleCmd.Flags().Int32("nodes", 0, "Target number of nodes per pool")
	scaleCmd.Flags().String("pool", "", "Node pool to scale (default: all pools)")
	scaleCmd.MarkFlagRequired("nodes")
}
