// Package plan turns an ordered agent selection into execution groups that
// respect the dependencies declared in the capability registry. Groups are
// packed as early as dependency safety allows; the builder never looks at
// task semantics.
package plan

import (
	"agentkit/internal/registry"
)

// Group is one phase of an execution plan. Agents within a group share no
// dependency edge and may run together when Parallel is set.
type Group struct {
	Agents   []registry.AgentID `yaml:"agents" json:"agents"`
	Parallel bool               `yaml:"parallel" json:"parallel"`
}

// Build walks orderedAgents once and assigns every agent to a group. When an
// agent declares dependencies that are part of the selection but not yet
// placed, those dependencies are emitted as their own group first. Dynamic
// groups carry the preferParallel flag.
//
// The result covers the input exactly, without loss or duplication, for any
// input order. When orderedAgents lists selected dependencies before their
// dependents, the order the router produces, every selected pair where A
// declares B as a dependency lands with B's group strictly before A's. Build
// does not re-sort input that breaks that ordering.
func Build(reg *registry.Registry, orderedAgents []registry.AgentID, preferParallel bool) []Group {
	if len(orderedAgents) == 0 {
		return nil
	}
	b := &builder{
		reg:      reg,
		parallel: preferParallel,
		selected: make(map[registry.AgentID]bool, len(orderedAgents)),
		placed:   make(map[registry.AgentID]int, len(orderedAgents)),
	}
	for _, agent := range orderedAgents {
		b.selected[agent] = true
	}
	for _, agent := range orderedAgents {
		if _, done := b.placed[agent]; done {
			continue
		}
		b.emitPendingDeps(agent)
		b.place(agent)
	}
	return b.groups
}

type builder struct {
	reg      *registry.Registry
	parallel bool
	selected map[registry.AgentID]bool
	placed   map[registry.AgentID]int
	groups   []Group
}

// emitPendingDeps opens a group holding the selected-but-unplaced
// dependencies of agent, in declaration order.
func (b *builder) emitPendingDeps(agent registry.AgentID) {
	var pending []registry.AgentID
	for _, dep := range b.reg.DependsOn(agent) {
		if _, done := b.placed[dep]; done {
			continue
		}
		if b.selected[dep] {
			pending = append(pending, dep)
		}
	}
	if len(pending) == 0 {
		return
	}
	b.groups = append(b.groups, Group{Agents: pending, Parallel: b.parallel})
	for _, dep := range pending {
		b.placed[dep] = len(b.groups) - 1
	}
}

// place assigns agent to the earliest dependency-safe group, the one right
// after the agent's latest placed dependency. With dependencies-first input
// no dependent of agent is placed yet, so that group never holds a
// conflicting member.
func (b *builder) place(agent registry.AgentID) {
	start := 0
	for _, dep := range b.reg.DependsOn(agent) {
		if gi, ok := b.placed[dep]; ok && gi+1 > start {
			start = gi + 1
		}
	}
	if start < len(b.groups) {
		b.groups[start].Agents = append(b.groups[start].Agents, agent)
		b.placed[agent] = start
		return
	}
	b.groups = append(b.groups, Group{Agents: []registry.AgentID{agent}, Parallel: b.parallel})
	b.placed[agent] = len(b.groups) - 1
}

// Agents flattens groups back into a single agent list, first appearance
// wins.
func Agents(groups []Group) []registry.AgentID {
	var out []registry.AgentID
	seen := make(map[registry.AgentID]bool)
	for _, g := range groups {
		for _, agent := range g.Agents {
			if seen[agent] {
				continue
			}
			seen[agent] = true
			out = append(out, agent)
		}
	}
	return out
}

// Clone returns a deep copy of groups.
func Clone(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{
			Agents:   append([]registry.AgentID(nil), g.Agents...),
			Parallel: g.Parallel,
		}
	}
	return out
}
