package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var chainsCmd = &cobra.Command{
	Use:   "chains [name]",
	Short: "List predefined chains or show one chain's phases",
	Long: `Chains are hand-authored multi-phase plans for recurring task archetypes.
Routing with --chain <name> uses the named chain's phases verbatim instead
of dynamic analysis. Without an argument this lists every chain; with a
name it shows that chain's phases.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}

func runChains(cmd *cobra.Command, args []string) error {
	log, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	_, r, err := newRouter(log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		c, ok := r.Chain(args[0])
		if !ok {
			return fmt.Errorf("unknown chain %q (run \"agentkit chains\" to list them)", args[0])
		}
		if jsonOutput() {
			return printJSON(out, c)
		}
		fmt.Fprintf(out, "%s: %s\n", c.Name, c.Description)
		for i, g := range c.Phases {
			fmt.Fprintf(out, "  %d. %s  [%s]\n", i+1, joinAgents(g.Agents), groupMode(g.Parallel))
		}
		return nil
	}

	chains := r.Chains()
	if jsonOutput() {
		return printJSON(out, chains)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN\tPHASES\tDESCRIPTION")
	for _, c := range chains {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, len(c.Phases), c.Description)
	}
	return tw.Flush()
}
