package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentkit/internal/detect"
	"agentkit/internal/logging"
)

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Detect a project's stack",
	Long: `Probe a project directory read-only for frameworks, databases, deployment
targets, test runners, and feature markers. Probes never fail the command;
an unreadable signal just goes undetected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	log, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	dir := flagProjectDir
	if len(args) == 1 {
		dir = args[0]
	}
	info := detect.New(logging.WithComponent(log, "detect")).Detect(dir)

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), info)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", dir)
	fmt.Fprint(out, info.Summary())
	return nil
}
