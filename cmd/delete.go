package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richardr1126/gkectl/common"
	"github.com/richardr1126/gkectl/pkg/cluster"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deletes the cluster, its persistent disks and its networking",
	Run: func(cmd *cobra.Command, args []string) {
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			log.Fatalf("Unable to parse `name`: %v", err)
		}
		if name == "" {
			name = cfg.ClusterName
		}

		ctx := context.Background()
		manager, client := newManager(ctx)
		defer client.Close()

		poll := cluster.PollConfig{Interval: common.DELETE_POLL_INTERVAL, Timeout: common.DELETE_POLL_TIMEOUT}
		if err := manager.Delete(ctx, name, poll); err != nil {
			var teardownErr *cluster.TeardownError
			if errors.As(err, &teardownErr) {
				log.Errorf("Teardown stopped at step %q, clean up the remaining resources manually", teardownErr.Step)
			}
			log.Fatal(err)
		}
		fmt.Printf("Cluster %q, its disks and its networking deleted\n", name)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().String("name", "", "Name of the cluster (default from config)")
}
