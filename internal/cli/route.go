package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"agentkit/internal/plan"
	"agentkit/internal/registry"
	"agentkit/internal/router"
	"agentkit/internal/taskcall"
)

var (
	flagRouteFiles      []string
	flagRouteChain      string
	flagRouteSequential bool
	flagRouteCalls      bool
)

var routeCmd = &cobra.Command{
	Use:   "route <task>",
	Short: "Route a task and print the execution plan",
	Long: `Match a task description (and optionally the files it touches) against the
routing table and print the resulting agent selection and phased plan.

Examples:
  agentkit route "Fix a bug in login form validation" --files src/components/LoginForm.tsx
  agentkit route "Ship the payments feature" --chain feature-development
  agentkit route "Add rate limiting" --calls --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringSliceVar(&flagRouteFiles, "files", nil, "repository-relative paths the task touches")
	routeCmd.Flags().StringVar(&flagRouteChain, "chain", "", "use a predefined chain instead of dynamic analysis")
	routeCmd.Flags().BoolVar(&flagRouteSequential, "sequential", false, "prefer sequential execution for dynamically built groups")
	routeCmd.Flags().BoolVar(&flagRouteCalls, "calls", false, "also print the generated task calls")
	rootCmd.AddCommand(routeCmd)
}

// routeReport is the route command's output shape.
type routeReport struct {
	Task   string             `json:"task"`
	Files  []string           `json:"files,omitempty"`
	Chain  string             `json:"chain,omitempty"`
	Agents []registry.AgentID `json:"agents"`
	Phases []plan.Group       `json:"phases"`
	Calls  []taskcall.Call    `json:"calls,omitempty"`
}

func runRoute(cmd *cobra.Command, args []string) error {
	log, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	log = log.With("request_id", uuid.NewString())

	_, r, err := newRouter(log)
	if err != nil {
		return err
	}

	task := strings.Join(args, " ")
	res := r.Route(router.Request{
		Task:           task,
		Files:          flagRouteFiles,
		Chain:          flagRouteChain,
		PreferParallel: !flagRouteSequential,
	})
	log.Info("task routed",
		"agents", len(res.Agents),
		"phases", len(res.Phases),
		"chain", res.Chain)

	report := routeReport{
		Task:   task,
		Files:  flagRouteFiles,
		Chain:  res.Chain,
		Agents: res.Agents,
		Phases: res.Phases,
	}
	if flagRouteCalls {
		report.Calls = taskcall.Generate(res, task)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), report)
	}
	printRouteText(cmd.OutOrStdout(), report)
	return nil
}

func printRouteText(w io.Writer, rep routeReport) {
	if rep.Chain != "" {
		fmt.Fprintf(w, "Chain: %s\n", rep.Chain)
	}
	fmt.Fprintf(w, "Agents: %s\n", joinAgents(rep.Agents))
	fmt.Fprintf(w, "Plan (%d phases):\n", len(rep.Phases))
	for i, g := range rep.Phases {
		fmt.Fprintf(w, "  %d. %s  [%s]\n", i+1, joinAgents(g.Agents), groupMode(g.Parallel))
	}
	if len(rep.Calls) > 0 {
		fmt.Fprintln(w, "Calls:")
		for _, c := range rep.Calls {
			fmt.Fprintf(w, "  - %s  [%s]\n", c.Description, groupMode(c.Parallel))
		}
	}
}
