package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the binary version and the active config fingerprint",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionReport is the version command's output shape.
type versionReport struct {
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	report := versionReport{Version: Version}
	// The fingerprint identifies the loaded configuration; a broken config
	// must not keep the version from printing.
	if cfg, err := loadConfig(); err == nil {
		report.Fingerprint = cfg.Fingerprint
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), report)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "agentkit %s\n", report.Version)
	if report.Fingerprint != "" {
		fmt.Fprintf(out, "config fingerprint: %s\n", report.Fingerprint)
	}
	return nil
}
