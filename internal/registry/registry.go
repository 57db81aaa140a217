package registry

import (
	"fmt"
	"math"
	"sort"
)

// AgentID names a routable agent. Identifiers are lowercase, hyphen
// separated, and usually carry an "-agent" suffix ("frontend-agent").
// The fallback identifier is the one exception.
type AgentID string

// Identifiers of the agents shipped in the built-in routing table. Projects
// may register more through configuration; these are the ones other packages
// refer to by name. GeneralPurpose is the fallback used when no routing rule
// matches a task and is registered like any other agent, at the lowest
// precedence.
const (
	GeneralPurpose AgentID = "general-purpose"

	Security    AgentID = "security-agent"
	Architect   AgentID = "architect-agent"
	Database    AgentID = "database-agent"
	Backend     AgentID = "backend-agent"
	API         AgentID = "api-agent"
	Frontend    AgentID = "frontend-agent"
	Mobile      AgentID = "mobile-agent"
	DevOps      AgentID = "devops-agent"
	Performance AgentID = "performance-agent"
	Testing     AgentID = "testing-agent"
	CodeReview  AgentID = "code-review-agent"
	Docs        AgentID = "docs-agent"
)

// Capability describes one agent the router may select: its precedence and
// the agents whose output it depends on. Lower Priority means higher
// precedence.
type Capability struct {
	ID          AgentID
	Description string
	Priority    int
	DependsOn   []AgentID
}

// Registry is an immutable capability table built once from configuration.
// Lookups never fail: asking about an unregistered agent yields a usable
// placeholder instead of an error.
type Registry struct {
	caps map[AgentID]Capability
	ids  []AgentID
}

// New builds a registry from the supplied capabilities. It rejects duplicate
// identifiers and any dependency cycle between registered agents; a rejected
// table is unusable, so both are construction errors rather than lookup
// errors.
func New(caps []Capability) (*Registry, error) {
	table := make(map[AgentID]Capability, len(caps))
	ids := make([]AgentID, 0, len(caps))
	for _, c := range caps {
		if c.ID == "" {
			return nil, fmt.Errorf("registry: capability with empty id")
		}
		if _, exists := table[c.ID]; exists {
			return nil, fmt.Errorf("registry: %s declared twice", c.ID)
		}
		c.DependsOn = append([]AgentID(nil), c.DependsOn...)
		table[c.ID] = c
		ids = append(ids, c.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if err := findCycle(table, ids); err != nil {
		return nil, err
	}
	return &Registry{caps: table, ids: ids}, nil
}

// Lookup returns the capability registered for id. Unknown agents resolve to
// a placeholder with the lowest possible precedence and no dependencies, so
// callers never need an error path.
func (r *Registry) Lookup(id AgentID) Capability {
	if c, ok := r.caps[id]; ok {
		c.DependsOn = append([]AgentID(nil), c.DependsOn...)
		return c
	}
	return Capability{ID: id, Priority: math.MaxInt}
}

// Registered reports whether id was declared in configuration.
func (r *Registry) Registered(id AgentID) bool {
	_, ok := r.caps[id]
	return ok
}

// Priority returns the precedence for id, math.MaxInt when unregistered.
func (r *Registry) Priority(id AgentID) int {
	if c, ok := r.caps[id]; ok {
		return c.Priority
	}
	return math.MaxInt
}

// DependsOn returns a copy of the declared dependencies for id. Unregistered
// agents have none.
func (r *Registry) DependsOn(id AgentID) []AgentID {
	deps := r.caps[id].DependsOn
	if len(deps) == 0 {
		return nil
	}
	return append([]AgentID(nil), deps...)
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []AgentID {
	return append([]AgentID(nil), r.ids...)
}

// Capabilities returns every registered capability, ordered by ascending
// priority and then by identifier.
func (r *Registry) Capabilities() []Capability {
	out := make([]Capability, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.Lookup(id))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int { return len(r.ids) }
