package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"agentkit/internal/logbook"
	"agentkit/internal/logging"
	"agentkit/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Launch the interactive routing console",
	Long: `Open a full-screen console: type a task and the files it touches, watch the
plan update live, browse and apply chains, and see the task calls that would
be handed to the executor. Diagnostics go to .agentkit/logs/agentkit.log
while the terminal is occupied by the console.`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	logFile, err := logging.OpenProjectFile(flagProjectDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log, err := newLogger(logFile)
	if err != nil {
		return err
	}
	log = log.With("session_id", uuid.NewString())

	cfg, r, err := newRouter(log)
	if err != nil {
		return err
	}
	log.Info("console session opened", "fingerprint", cfg.Fingerprint)

	app := tui.New(cfg, r, log, tui.WithLogbook(logbook.Open(logFile.Name())))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	log.Info("console session closed")
	return nil
}
