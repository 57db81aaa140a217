package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the layered routing configuration",
	Long: `Load the embedded defaults, the project routing.yaml, and any persona files,
then run the full validation pass: schema version, identifier rules, pattern
compilation, cross references, and the dependency cycle check. A failure
names the offending entry.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateReport is the validate command's output shape.
type validateReport struct {
	Fingerprint string   `json:"fingerprint"`
	Sources     []string `json:"sources"`
	Agents      int      `json:"agents"`
	Rules       int      `json:"rules"`
	Chains      int      `json:"chains"`
	Personas    int      `json:"personas"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := validateReport{
		Fingerprint: cfg.Fingerprint,
		Sources:     cfg.Sources,
		Agents:      len(cfg.Doc.Agents),
		Rules:       len(cfg.Doc.Rules),
		Chains:      len(cfg.Doc.Chains),
		Personas:    len(cfg.Personas),
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), report)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration OK")
	fmt.Fprintf(out, "  fingerprint: %s\n", report.Fingerprint)
	fmt.Fprintf(out, "  sources:     %s\n", strings.Join(report.Sources, ", "))
	fmt.Fprintf(out, "  agents: %d  rules: %d  chains: %d  personas: %d\n",
		report.Agents, report.Rules, report.Chains, report.Personas)
	return nil
}
