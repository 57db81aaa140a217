// internal/cli/root.go
//
// Command tree for the agentkit binary. Every command loads the layered
// configuration fresh, acts, prints, and exits. The one long-lived surface
// is the console, which hands control to the TUI.
package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"agentkit/internal/config"
	"agentkit/internal/logging"
	"agentkit/internal/registry"
	"agentkit/internal/router"
)

var (
	flagConfigFile string
	flagProjectDir string
	flagLogLevel   string
	flagLogFormat  string
	flagFormat     string
)

var rootCmd = &cobra.Command{
	Use:   "agentkit",
	Short: "Route engineering tasks to specialized agents",
	Long: `agentkit decides which specialized agents should handle a task and in what
order. It matches the task text and the files it touches against a routing
table, respects declared dependencies between agents, and emits a phased
execution plan for an external task executor. It never runs anything itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigFile, "config", "", "routing config file (default: .agentkit/routing.yaml under the project dir)")
	pf.StringVar(&flagProjectDir, "project-dir", ".", "project directory holding the .agentkit overrides")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, or error")
	pf.StringVar(&flagLogFormat, "log-format", logging.FormatText, "log format: text or json")
	pf.StringVarP(&flagFormat, "format", "f", "text", "output format: text or json")
}

// newLogger builds the diagnostic logger from the global flags.
func newLogger(out io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  flagLogLevel,
		Format: flagLogFormat,
		Output: out,
	})
}

// loadConfig runs the layered load for the flag-selected project.
func loadConfig() (*config.Config, error) {
	return config.Load(config.Options{
		ProjectDir: flagProjectDir,
		ConfigFile: flagConfigFile,
	})
}

// newRouter loads configuration and compiles the router against it.
func newRouter(log *slog.Logger) (*config.Config, *router.Router, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log.Debug("configuration loaded",
		"fingerprint", cfg.Fingerprint,
		"sources", strings.Join(cfg.Sources, ", "))
	r, err := router.New(cfg, logging.WithComponent(log, "router"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, r, nil
}

func jsonOutput() bool {
	return strings.EqualFold(flagFormat, "json")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinAgents(ids []registry.AgentID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func groupMode(parallel bool) string {
	if parallel {
		return "parallel"
	}
	return "sequential"
}
