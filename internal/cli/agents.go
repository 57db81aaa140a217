package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agentkit/internal/detect"
	"agentkit/internal/logging"
	"agentkit/internal/registry"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered agents",
	Long: `List every agent in the merged routing table with its priority and declared
dependencies. Lower priority values sort first when matched agents are
ordered.`,
	RunE: runAgents,
}

var agentsRecommendCmd = &cobra.Command{
	Use:   "recommend [dir]",
	Short: "Recommend agents for a detected project stack",
	Long: `Probe a project directory for its stack (frameworks, database, deployment,
testing, feature markers) and print the agents worth enabling for it. With
no argument the project directory from --project-dir is probed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAgentsRecommend,
}

func init() {
	agentsCmd.AddCommand(agentsRecommendCmd)
	rootCmd.AddCommand(agentsCmd)
}

// agentRow is one line of the agents listing.
type agentRow struct {
	ID          registry.AgentID   `json:"id"`
	Priority    int                `json:"priority"`
	DependsOn   []registry.AgentID `json:"depends_on,omitempty"`
	Description string             `json:"description,omitempty"`
}

func runAgents(cmd *cobra.Command, args []string) error {
	log, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	_, r, err := newRouter(log)
	if err != nil {
		return err
	}

	caps := r.Registry().Capabilities()
	rows := make([]agentRow, len(caps))
	for i, c := range caps {
		rows[i] = agentRow{
			ID:          c.ID,
			Priority:    c.Priority,
			DependsOn:   c.DependsOn,
			Description: c.Description,
		}
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), rows)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tPRIORITY\tDEPENDS ON\tDESCRIPTION")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			row.ID, row.Priority, joinAgents(row.DependsOn), row.Description)
	}
	return tw.Flush()
}

// recommendReport is the agents recommend output shape.
type recommendReport struct {
	Directory string             `json:"directory"`
	Project   detect.ProjectInfo `json:"project"`
	Agents    []registry.AgentID `json:"agents"`
}

func runAgentsRecommend(cmd *cobra.Command, args []string) error {
	log, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	_, r, err := newRouter(log)
	if err != nil {
		return err
	}

	dir := flagProjectDir
	if len(args) == 1 {
		dir = args[0]
	}
	info := detect.New(logging.WithComponent(log, "detect")).Detect(dir)
	report := recommendReport{
		Directory: dir,
		Project:   info,
		Agents:    r.RecommendedAgents(info),
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), report)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", dir)
	fmt.Fprint(out, info.Summary())
	fmt.Fprintf(out, "Recommended agents: %s\n", joinAgents(report.Agents))
	return nil
}
