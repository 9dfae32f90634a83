package cmd

import (
	"context"
	"fmt"
	"net/http"

	"aghi-dashboard/internal/cache"
	"aghi-dashboard/internal/gateway"
	"aghi-dashboard/internal/logger"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analytics API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		gw := gateway.NewClient(cfg.APIBase, &http.Client{}, cache.New(), cfg.RequestTimeout, logger.L())
		h, err := gw.Health(ctx)
		if err != nil {
			return fmt.Errorf("API %s unreachable: %w", cfg.APIBase, err)
		}
		fmt.Printf("%s: %s, %d records loaded (%s)\n", cfg.APIBase, h.Status, h.DataRecords, h.Timestamp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
