package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/cli"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/server"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the gateway with the specified configuration.

The gateway listens on the configured address until it receives SIGINT or
SIGTERM, then drains in-flight requests within the shutdown timeout. A second
signal exits immediately.

Examples:
  # Start with default config
  service-manager run

  # Start with custom config
  service-manager run --config /etc/service-manager/config.yaml

  # Override listen address
  service-manager run --listen 0.0.0.0:8080

  # Validate config without starting the gateway
  service-manager run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the gateway")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	if _, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging)); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	slog.Info("configuration loaded",
		"config_file", cfgFile,
		"inventory_url", cfg.Backends.InventoryURL,
		"llm_url", cfg.Backends.LLMURL,
		"user_url", cfg.Backends.UserURL,
		"image_url", cfg.Backends.ImageURL,
		"geolocation_url", cfg.Backends.Geolocation.URL,
	)

	srv, err := server.New(cfg, server.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, cancel := cli.SetupSignalHandler(cmd.Context())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// loadRunConfig loads the config file, applies flag overrides and validates
// the result again so an override cannot produce an invalid config.
func loadRunConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
