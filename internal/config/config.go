// internal/config/config.go
//
// This package owns the routing configuration and the .agentkit directory
// layout. Configuration is assembled once at startup from the embedded
// defaults, an optional project routing.yaml, and persona files; after Load
// returns the document never changes.

package config

import (
	"fmt"
	"strings"

	"agentkit/internal/match"
	"agentkit/internal/registry"
)

const (
	// AgentKitDir is the per-project directory holding routing overrides.
	AgentKitDir = ".agentkit"

	// RoutingFile is the project routing override inside AgentKitDir.
	RoutingFile = "routing.yaml"

	// AgentsSubdir holds persona files inside AgentKitDir.
	AgentsSubdir = "agents"
)

// CurrentVersion is the configuration schema version this build reads.
const CurrentVersion = 1

// Document is a complete routing configuration: the agent capability table,
// the routing rules, and the named chains.
type Document struct {
	Version int         `yaml:"version" json:"version"`
	Agents  []AgentSpec `yaml:"agents" json:"agents"`
	Rules   []RuleSpec  `yaml:"rules" json:"rules"`
	Chains  []ChainSpec `yaml:"chains" json:"chains"`
}

// AgentSpec declares one routable agent. Lower priority values mean higher
// precedence when matched agents are ordered.
type AgentSpec struct {
	ID          string   `yaml:"id" json:"id"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Priority    int      `yaml:"priority" json:"priority"`
	DependsOn   []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// RuleSpec maps a pattern onto the agents it selects. Kind is either "glob",
// matched against file paths, or "keyword", matched case-insensitively
// against task text.
type RuleSpec struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Pattern string   `yaml:"pattern" json:"pattern"`
	Agents  []string `yaml:"agents" json:"agents"`
}

// ChainSpec is a pre-built multi-phase workflow selected by name. A chain
// bypasses dynamic classification entirely.
type ChainSpec struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Phases      []PhaseSpec `yaml:"phases" json:"phases"`
}

// PhaseSpec is one step of a chain.
type PhaseSpec struct {
	Agents   []string `yaml:"agents" json:"agents"`
	Parallel bool     `yaml:"parallel,omitempty" json:"parallel,omitempty"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Version: d.Version}
	if d.Agents != nil {
		out.Agents = make([]AgentSpec, len(d.Agents))
		for i, a := range d.Agents {
			a.DependsOn = append([]string(nil), a.DependsOn...)
			out.Agents[i] = a
		}
	}
	if d.Rules != nil {
		out.Rules = make([]RuleSpec, len(d.Rules))
		for i, r := range d.Rules {
			r.Agents = append([]string(nil), r.Agents...)
			out.Rules[i] = r
		}
	}
	if d.Chains != nil {
		out.Chains = make([]ChainSpec, len(d.Chains))
		for i, c := range d.Chains {
			out.Chains[i] = c.clone()
		}
	}
	return out
}

func (c ChainSpec) clone() ChainSpec {
	phases := make([]PhaseSpec, len(c.Phases))
	for i, p := range c.Phases {
		p.Agents = append([]string(nil), p.Agents...)
		phases[i] = p
	}
	c.Phases = phases
	return c
}

// Merge layers overlay on top of the document. Agents replace by id, chains
// replace by name, and anything new is appended. Rules always append: a
// project extends the built-in rule table rather than editing it.
func (d Document) Merge(overlay Document) Document {
	out := d.Clone()
	for _, oa := range overlay.Agents {
		oa.DependsOn = append([]string(nil), oa.DependsOn...)
		replaced := false
		for i, a := range out.Agents {
			if a.ID == oa.ID {
				out.Agents[i] = oa
				replaced = true
				break
			}
		}
		if !replaced {
			out.Agents = append(out.Agents, oa)
		}
	}
	for _, or := range overlay.Rules {
		or.Agents = append([]string(nil), or.Agents...)
		out.Rules = append(out.Rules, or)
	}
	for _, oc := range overlay.Chains {
		oc = oc.clone()
		replaced := false
		for i, c := range out.Chains {
			if c.Name == oc.Name {
				out.Chains[i] = oc
				replaced = true
				break
			}
		}
		if !replaced {
			out.Chains = append(out.Chains, oc)
		}
	}
	return out
}

// Normalized trims and lowercases identifiers so later lookups compare
// exactly. Pattern text is left untouched.
func (d Document) Normalized() Document {
	out := d.Clone()
	if out.Version == 0 {
		out.Version = CurrentVersion
	}
	for i := range out.Agents {
		out.Agents[i].ID = normalizeID(out.Agents[i].ID)
		out.Agents[i].Description = strings.TrimSpace(out.Agents[i].Description)
		out.Agents[i].DependsOn = normalizeIDs(out.Agents[i].DependsOn)
	}
	for i := range out.Rules {
		out.Rules[i].Kind = strings.ToLower(strings.TrimSpace(out.Rules[i].Kind))
		out.Rules[i].Agents = normalizeIDs(out.Rules[i].Agents)
	}
	for i := range out.Chains {
		out.Chains[i].Name = normalizeID(out.Chains[i].Name)
		for j := range out.Chains[i].Phases {
			out.Chains[i].Phases[j].Agents = normalizeIDs(out.Chains[i].Phases[j].Agents)
		}
	}
	return out
}

// Validate checks the merged document top to bottom: schema version, the
// agent table, every rule pattern, every chain, and all cross references. A
// document that fails here never reaches the router.
func (d Document) Validate() error {
	if d.Version != CurrentVersion {
		return fmt.Errorf("unsupported version %d (want %d)", d.Version, CurrentVersion)
	}
	known := make(map[string]bool, len(d.Agents))
	for i, a := range d.Agents {
		if a.ID == "" {
			return fmt.Errorf("agents[%d]: id is required", i)
		}
		if known[a.ID] {
			return fmt.Errorf("agent %s declared twice", a.ID)
		}
		known[a.ID] = true
	}
	for _, a := range d.Agents {
		for _, dep := range a.DependsOn {
			if dep == a.ID {
				return fmt.Errorf("agent %s depends on itself", a.ID)
			}
			if !known[dep] {
				return fmt.Errorf("agent %s depends on undeclared agent %s", a.ID, dep)
			}
		}
	}
	for i, r := range d.Rules {
		kind, err := match.ParseKind(r.Kind)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		if _, err := match.Compile(kind, r.Pattern); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		if len(r.Agents) == 0 {
			return fmt.Errorf("rules[%d] (%s %q) selects no agents", i, r.Kind, r.Pattern)
		}
		for _, id := range r.Agents {
			if !known[id] {
				return fmt.Errorf("rules[%d] (%s %q) references undeclared agent %s", i, r.Kind, r.Pattern, id)
			}
		}
	}
	chainNames := make(map[string]bool, len(d.Chains))
	for _, c := range d.Chains {
		if c.Name == "" {
			return fmt.Errorf("chain with empty name")
		}
		if chainNames[c.Name] {
			return fmt.Errorf("chain %s declared twice", c.Name)
		}
		chainNames[c.Name] = true
		if len(c.Phases) == 0 {
			return fmt.Errorf("chain %s has no phases", c.Name)
		}
		for j, p := range c.Phases {
			if len(p.Agents) == 0 {
				return fmt.Errorf("chain %s phases[%d] has no agents", c.Name, j)
			}
			for _, id := range p.Agents {
				if !known[id] {
					return fmt.Errorf("chain %s phases[%d] references undeclared agent %s", c.Name, j, id)
				}
			}
		}
	}
	// A cyclic capability table makes every routed plan unsatisfiable, so it
	// is rejected here rather than at first use.
	if _, err := registry.New(d.Capabilities()); err != nil {
		return err
	}
	return nil
}

// Capabilities converts the agent table into registry capabilities.
func (d Document) Capabilities() []registry.Capability {
	caps := make([]registry.Capability, 0, len(d.Agents))
	for _, a := range d.Agents {
		var deps []registry.AgentID
		for _, dep := range a.DependsOn {
			deps = append(deps, registry.AgentID(dep))
		}
		caps = append(caps, registry.Capability{
			ID:          registry.AgentID(a.ID),
			Description: a.Description,
			Priority:    a.Priority,
			DependsOn:   deps,
		})
	}
	return caps
}

// Chain returns the named chain spec when it exists.
func (d Document) Chain(name string) (ChainSpec, bool) {
	for _, c := range d.Chains {
		if c.Name == name {
			return c.clone(), true
		}
	}
	return ChainSpec{}, false
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func normalizeIDs(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		id = normalizeID(id)
		if id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
