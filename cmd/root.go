package cmd

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"aghi-dashboard/internal/app"
	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/cache"
	"aghi-dashboard/internal/config"
	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/gateway"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/logger"
	"aghi-dashboard/internal/metrics"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

var flags struct {
	configPath   string
	apiBase      string
	logFile      string
	metricsAddr  string
	defaultState string
	timeout      time.Duration
	noArchive    bool
}

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Aadhaar Governance Health Index dashboard",
	Long:  "A terminal dashboard for exploring AGHI scores by state and district, with rankings, trends, anomalies and executive briefings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return startTUI(cfg)
	},
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/aghi-dashboard/config.yaml)")
	f.StringVar(&flags.apiBase, "api-base", "", "base URL of the AGHI API")
	f.StringVar(&flags.logFile, "log-file", "", "log file path")
	rootCmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.Flags().StringVar(&flags.defaultState, "default-state", "", "state opened by the state persona from the national view")
	rootCmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-request timeout")
	rootCmd.Flags().BoolVar(&flags.noArchive, "no-archive", false, "do not store generated briefings")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadConfig resolves the config file and environment, then applies the
// flags the user actually set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("api-base") {
		cfg.APIBase = flags.apiBase
	}
	if set("log-file") {
		cfg.LogFile = flags.logFile
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if set("default-state") {
		cfg.DefaultState = flags.defaultState
	}
	if set("timeout") {
		cfg.RequestTimeout = flags.timeout
	}
	if set("no-archive") && flags.noArchive {
		cfg.ArchivePath = ""
	}
	return cfg, cfg.Validate()
}

func startTUI(cfg config.Config) error {
	// Setup logging to file to avoid interfering with TUI
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	lg := logger.Setup(logFile)
	lg.Info("starting", "version", Version, "api_base", cfg.APIBase)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, lg)
	}

	httpClient := &http.Client{}
	gw := gateway.NewClient(cfg.APIBase, httpClient, cache.New(), cfg.RequestTimeout, lg)
	geo := geometry.NewStore(geometry.Config{
		Dir:         cfg.GeometryDir,
		StateURL:    cfg.StateGeoJSONURL,
		DistrictURL: cfg.DistrictGeoJSONURL,
	}, httpClient, lg)

	opts := coordinator.Options{
		DefaultStateRegion: cfg.DefaultState,
		RankingLimit:       cfg.RankingLimit,
		SettleDelay:        cfg.SettleDelay,
	}
	if cfg.ArchivePath != "" {
		store, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			// Briefings still display without the archive.
			lg.Warn("archive_unavailable", "path", cfg.ArchivePath, "err", err)
		} else {
			defer store.Close()
			opts.Archive = store
		}
	}

	a := app.CreateApp(app.Deps{
		Gateway:  gw,
		Geometry: geo,
		Options:  opts,
		Logger:   lg,
	})
	if err := a.Run(); err != nil {
		lg.Error("tui_exited", "err", err)
		return err
	}
	lg.Info("stopped")
	return nil
}

func serveMetrics(addr string, lg *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	lg.Info("metrics_listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error("metrics_server_failed", "addr", addr, "err", err)
	}
}
