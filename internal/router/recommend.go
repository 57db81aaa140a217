package router

import (
	"agentkit/internal/detect"
	"agentkit/internal/registry"
)

// featureAgents maps detected project features onto the specialists worth
// adding for them.
var featureAgents = map[string][]registry.AgentID{
	"authentication": {registry.Security},
	"payments":       {registry.Security, registry.Backend},
	"realtime":       {registry.Backend, registry.Performance},
	"graphql":        {registry.API},
	"i18n":           {registry.Frontend},
	"ci":             {registry.DevOps},
	"monorepo":       {registry.Architect},
}

// RecommendedAgents suggests a starting agent set for a detected project.
// The generic quality agents are always included; each detected stack field
// and feature contributes its specialists. Agents missing from the
// capability table are skipped. The result is a deduplicated set whose
// ordering is deterministic for a given input but not part of the contract.
func (r *Router) RecommendedAgents(info detect.ProjectInfo) []registry.AgentID {
	var out []registry.AgentID
	seen := make(map[registry.AgentID]bool)
	add := func(ids ...registry.AgentID) {
		for _, id := range ids {
			if seen[id] || !r.reg.Registered(id) {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}

	add(registry.CodeReview, registry.Testing)
	if info.Type != "" {
		add(registry.Architect)
	}
	if info.Frontend != "" {
		add(registry.Frontend)
	}
	if info.Backend != "" {
		add(registry.Backend)
	}
	if info.Mobile != "" {
		add(registry.Mobile)
	}
	if info.Database != "" {
		add(registry.Database)
	}
	if info.Deployment != "" {
		add(registry.DevOps)
	}
	if info.Testing != "" {
		add(registry.Testing)
	}
	for _, feature := range info.Features {
		add(featureAgents[feature]...)
	}
	return out
}
