package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richardr1126/gkectl/common"
	log "github.com/richardr1126/gkectl/pkg/logrus"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the clusters in the project",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		manager, client := newManager(ctx)
		defer client.Close()

		summaries, err := manager.List(ctx)
		if err != nil {
			log.Fatalf("Unable to list clusters: %v", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No clusters found.")
			return
		}

		fmt.Printf("Clusters in project %q, zone %q:\n", cfg.Project, cfg.Zone)
		for _, summary := range summaries {
			fmt.Printf("  - %s (%s) - %d nodes\n", summary.Name, summary.Status, summary.NodeCount())
			for _, pool := range summary.Pools {
				line := fmt.Sprintf("      %s: %d nodes", pool.Name, pool.NodeCount)
				if common.NodeUpgradeAvailable(summary.MasterVersion, pool.Version) {
					line += " (node upgrade available)"
				}
				fmt.Println(line)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
