// internal/taskcall/taskcall.go
//
// Task calls are the only thing this system hands across its boundary. The
// router decides which agents run and in what grouping; the executor on the
// other side decides how. Generation is a flattening step, nothing more.
package taskcall

import (
	"strings"

	"agentkit/internal/registry"
	"agentkit/internal/router"
)

// agentSuffix namespaces agent identifiers in the routing tables. Executors
// address agents without it.
const agentSuffix = "-agent"

// descriptionTaskLimit caps how much task text a call description carries.
const descriptionTaskLimit = 80

// Call is one agent invocation request. Parallel echoes the phase flag and
// describes the caller's intended concurrency; nothing here executes.
type Call struct {
	Agent       string `json:"agent" yaml:"agent"`
	Description string `json:"description" yaml:"description"`
	Prompt      string `json:"prompt" yaml:"prompt"`
	Parallel    bool   `json:"parallel" yaml:"parallel"`
}

// Generate flattens a routing result into executor calls: one per agent per
// phase, in plan order, each carrying its phase's parallel flag and the
// original task text as the prompt.
func Generate(res router.Result, task string) []Call {
	var calls []Call
	for _, phase := range res.Phases {
		for _, id := range phase.Agents {
			agent := Normalize(id)
			calls = append(calls, Call{
				Agent:       agent,
				Description: describe(agent, task),
				Prompt:      task,
				Parallel:    phase.Parallel,
			})
		}
	}
	return calls
}

// Normalize converts a routing-table identifier into the executor-facing
// agent name by stripping the namespace suffix. The fallback identifier is
// exempt and passes through unchanged.
func Normalize(id registry.AgentID) string {
	if id == registry.GeneralPurpose {
		return string(id)
	}
	return strings.TrimSuffix(string(id), agentSuffix)
}

// describe builds the human-readable one-liner shown next to a call. Long
// task text is cut at a rune boundary so multi-byte input stays intact.
func describe(agent, task string) string {
	task = strings.TrimSpace(task)
	if task == "" {
		return agent + " task"
	}
	if runes := []rune(task); len(runes) > descriptionTaskLimit {
		task = strings.TrimRight(string(runes[:descriptionTaskLimit]), " ") + "..."
	}
	return agent + ": " + task
}
