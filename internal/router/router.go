// internal/router/router.go
//
// The router is the decision core: it turns a task description and the file
// paths it touches into an ordered agent selection, then into a phased
// execution plan. Every decision is table driven. The rules, the capability
// table, and the chain definitions all come from configuration, so the
// router itself carries no hardcoded project knowledge.
package router

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"agentkit/internal/config"
	"agentkit/internal/match"
	"agentkit/internal/plan"
	"agentkit/internal/registry"
)

// rule is one compiled routing-table entry.
type rule struct {
	pattern match.Pattern
	agents  []registry.AgentID
}

// Chain is a named, hand-authored sequence of execution phases for a
// recurring task archetype. Routing through a chain bypasses rule matching
// entirely; its phases are returned exactly as configured.
type Chain struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Phases      []plan.Group `json:"phases" yaml:"phases"`
}

// Request describes one routing call.
type Request struct {
	// Task is the natural-language description of the work.
	Task string
	// Files lists paths the task is expected to touch. May be empty.
	Files []string
	// Chain, when non-empty, names a predefined chain to run instead of
	// dynamic analysis. An unknown name falls through to analysis.
	Chain string
	// PreferParallel marks dynamically built plan groups as parallel.
	PreferParallel bool
}

// Result is a finished routing decision.
type Result struct {
	// Agents is the ordered selection the plan was built from. For chain
	// results it is the flattened, deduplicated phase membership.
	Agents []registry.AgentID `json:"agents" yaml:"agents"`
	// Phases is the execution plan, one group per sequential step.
	Phases []plan.Group `json:"phases" yaml:"phases"`
	// Chain names the predefined chain that produced the result, if any.
	Chain string `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// Router matches tasks against a compiled routing table. It is immutable
// after New and safe for concurrent use.
type Router struct {
	reg    *registry.Registry
	rules  []rule
	chains []Chain
	index  map[string]int
	log    *slog.Logger
}

// New compiles the routing table in cfg. The configuration is expected to
// have passed config validation already; compile errors here mean it did
// not, so they name the offending rule.
func New(cfg *config.Config, log *slog.Logger) (*Router, error) {
	if cfg == nil {
		return nil, fmt.Errorf("router: configuration is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg, err := registry.New(cfg.Doc.Capabilities())
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	r := &Router{
		reg:    reg,
		rules:  make([]rule, 0, len(cfg.Doc.Rules)),
		chains: make([]Chain, 0, len(cfg.Doc.Chains)),
		index:  make(map[string]int, len(cfg.Doc.Chains)),
		log:    log,
	}
	for _, spec := range cfg.Doc.Rules {
		kind, err := match.ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("router: rule %q: %w", spec.Pattern, err)
		}
		pat, err := match.Compile(kind, spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("router: rule %q: %w", spec.Pattern, err)
		}
		r.rules = append(r.rules, rule{pattern: pat, agents: toAgentIDs(spec.Agents)})
	}
	for _, spec := range cfg.Doc.Chains {
		c := Chain{Name: spec.Name, Description: spec.Description}
		for _, ph := range spec.Phases {
			c.Phases = append(c.Phases, plan.Group{
				Agents:   toAgentIDs(ph.Agents),
				Parallel: ph.Parallel,
			})
		}
		r.index[c.Name] = len(r.chains)
		r.chains = append(r.chains, c)
	}
	return r, nil
}

// Registry exposes the capability table the router routes against.
func (r *Router) Registry() *registry.Registry { return r.reg }

// Chains returns the configured chains in declaration order. The slice is a
// copy; phases inside it are shared and must not be mutated.
func (r *Router) Chains() []Chain {
	out := make([]Chain, len(r.chains))
	copy(out, r.chains)
	return out
}

// Chain looks up one chain by name.
func (r *Router) Chain(name string) (Chain, bool) {
	idx, ok := r.index[name]
	if !ok {
		return Chain{}, false
	}
	return r.chains[idx], true
}

// Route resolves one request. A known chain name short-circuits analysis and
// returns that chain's phases verbatim; anything else goes through
// AnalyzeTask and the plan builder. Route never fails: an empty selection
// falls back to the general-purpose agent.
func (r *Router) Route(req Request) Result {
	if req.Chain != "" {
		if c, ok := r.Chain(req.Chain); ok {
			phases := plan.Clone(c.Phases)
			return Result{
				Agents: plan.Agents(phases),
				Phases: phases,
				Chain:  c.Name,
			}
		}
		r.log.Debug("unknown chain, using dynamic analysis", "chain", req.Chain)
	}
	agents := r.AnalyzeTask(req.Task, req.Files)
	return Result{
		Agents: agents,
		Phases: plan.Build(r.reg, agents, req.PreferParallel),
	}
}

// AnalyzeTask classifies a task into an ordered agent selection. Keyword
// rules are scanned against the task text first, then glob rules against
// each file path, both in table order. If nothing matches, the selection is
// the general-purpose agent alone. The combined matches are deduplicated and
// ordered dependencies-first, then by registry priority; remaining ties keep
// first-match order.
func (r *Router) AnalyzeTask(task string, files []string) []registry.AgentID {
	var working []registry.AgentID
	seen := make(map[registry.AgentID]bool)
	add := func(ids []registry.AgentID) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				working = append(working, id)
			}
		}
	}

	for _, ru := range r.rules {
		if ru.pattern.Kind() != match.KindKeyword {
			continue
		}
		if ru.pattern.Matches(task) {
			add(ru.agents)
		}
	}
	for _, ru := range r.rules {
		if ru.pattern.Kind() != match.KindGlob {
			continue
		}
		for _, f := range files {
			if ru.pattern.Matches(f) {
				add(ru.agents)
				break
			}
		}
	}

	if len(working) == 0 {
		r.log.Debug("no routing rule matched", "task", task, "files", len(files))
		return []registry.AgentID{registry.GeneralPurpose}
	}
	return r.orderAgents(working)
}

// orderAgents returns the selection ordered so that every dependency comes
// before its dependents, across whole chains, even when priorities point the
// other way. Unrelated agents rank by priority ascending, unregistered ones
// sink to the end, and remaining ties keep first-match order. The dependency
// relation is a partial order; a pairwise comparator cannot sort it.
func (r *Router) orderAgents(working []registry.AgentID) []registry.AgentID {
	sort.SliceStable(working, func(i, j int) bool {
		return r.reg.Priority(working[i]) < r.reg.Priority(working[j])
	})

	selected := make(map[registry.AgentID]bool, len(working))
	for _, id := range working {
		selected[id] = true
	}
	visited := make(map[registry.AgentID]bool, len(working))
	ordered := make([]registry.AgentID, 0, len(working))
	var visit func(registry.AgentID)
	visit = func(id registry.AgentID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range r.reg.DependsOn(id) {
			visit(dep)
		}
		if selected[id] {
			ordered = append(ordered, id)
		}
	}
	for _, id := range working {
		visit(id)
	}
	return ordered
}

func toAgentIDs(ids []string) []registry.AgentID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]registry.AgentID, len(ids))
	for i, id := range ids {
		out[i] = registry.AgentID(id)
	}
	return out
}
