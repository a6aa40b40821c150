package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "service-manager",
	Short: "Service Manager - API gateway for the real-estate platform",
	Long: `Service Manager is the API gateway in front of the inventory, user,
image and LLM services.

It forwards client calls to the owning service, authenticates the routes that
need a user, turns natural-language searches into inventory queries and
orchestrates listing creation.

Configuration is read from a YAML file and SERVICE_MANAGER_* environment
variables; a .env file next to the config file is loaded first.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
