package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/cli"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the gateway configuration",
	Long: `Load the configuration the same way "run" does (defaults, YAML file,
.env file and SERVICE_MANAGER_* environment variables) and report every
invalid field. The exit code is 2 when the configuration is invalid.

Examples:
  # Validate config.yaml in the working directory
  service-manager validate

  # Machine-readable report
  service-manager validate --config deploy/config.yaml --output json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json")
}

type fieldProblem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validationReport struct {
	ConfigFile string            `json:"config_file"`
	Valid      bool              `json:"valid"`
	Backends   map[string]string `json:"backends,omitempty"`
	Errors     []fieldProblem    `json:"errors,omitempty"`
}

func (r validationReport) String() string {
	var sb strings.Builder
	if r.Valid {
		fmt.Fprintf(&sb, "✓ Configuration %s is valid\n", r.ConfigFile)
		for _, name := range []string{"inventory", "llm", "user", "image", "geolocation"} {
			fmt.Fprintf(&sb, "  %-12s %s\n", name, r.Backends[name])
		}
		return strings.TrimRight(sb.String(), "\n")
	}

	fmt.Fprintf(&sb, "✗ Configuration %s is invalid\n", r.ConfigFile)
	for _, p := range r.Errors {
		if p.Field == "" {
			fmt.Fprintf(&sb, "  - %s\n", p.Message)
			continue
		}
		fmt.Fprintf(&sb, "  - %s: %s\n", p.Field, p.Message)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func buildReport(path string, cfg *config.Config, err error) validationReport {
	report := validationReport{ConfigFile: path, Valid: err == nil}
	if err != nil {
		for _, ce := range cli.ConfigErrors(err) {
			report.Errors = append(report.Errors, fieldProblem{Field: ce.Field, Message: ce.Message})
		}
		return report
	}

	report.Backends = map[string]string{
		"inventory":   cfg.Backends.InventoryURL,
		"llm":         cfg.Backends.LLMURL,
		"user":        cfg.Backends.UserURL,
		"image":       cfg.Backends.ImageURL,
		"geolocation": cfg.Backends.Geolocation.URL,
	}
	return report
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return err
	}

	cfg, loadErr := config.LoadConfigWithEnvOverrides(cfgFile)
	report := buildReport(cfgFile, cfg, loadErr)

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return cli.NewCommandError("validate", err)
	}
	if loadErr != nil {
		// Already reported; keep the exit code without printing it twice
		return &reportedError{err: loadErr}
	}
	return nil
}

// reportedError carries a failure that has already been written to stdout.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
