package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/config"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/logger"
	"aghi-dashboard/internal/types"

	"github.com/spf13/cobra"
)

var skipGeometry bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the config directory",
	Long:  "Write a default config file, create the briefing archive and download region boundaries for offline use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initWorkspace(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.AppName, Version)
	},
}

func init() {
	initCmd.Flags().BoolVar(&skipGeometry, "skip-geometry", false, "do not download boundary files")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func initWorkspace(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	path := flags.configPath
	if path == "" {
		path = config.Path()
	}
	if path == "" {
		return fmt.Errorf("failed to get config directory")
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config %s already exists. Do you want to overwrite it? (y/N): ", path)
		var response string
		fmt.Scanln(&response)
		if response == "y" || response == "Y" {
			if err := config.SaveTo(config.Default(), path); err != nil {
				return err
			}
			fmt.Printf("Config %s rewritten with defaults\n", path)
			cfg = config.Default()
		}
	} else {
		if err := config.SaveTo(cfg, path); err != nil {
			return err
		}
		fmt.Printf("Config %s created\n", path)
	}

	if cfg.ArchivePath != "" {
		store, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("failed to create archive: %w", err)
		}
		store.Close()
		fmt.Printf("Briefing archive %s ready\n", cfg.ArchivePath)
	}

	if skipGeometry {
		return nil
	}
	if cfg.GeometryDir == "" {
		cfg.GeometryDir = filepath.Join(filepath.Dir(path), "geo")
	}
	geo := geometry.NewStore(geometry.Config{
		Dir:         cfg.GeometryDir,
		StateURL:    cfg.StateGeoJSONURL,
		DistrictURL: cfg.DistrictGeoJSONURL,
	}, nil, logger.L())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	for _, level := range []types.MapLevel{types.LevelState, types.LevelDistrict} {
		written, err := geo.Seed(ctx, level)
		if err != nil {
			// The dashboard falls back to fetching on demand.
			fmt.Printf("Could not download %s boundaries: %v\n", level, err)
			continue
		}
		fmt.Printf("Saved %s boundaries to %s\n", level, written)
	}
	return nil
}
