package registry

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle between registered agents. Path
// holds the witness walk with the first agent repeated at the end, e.g.
// a -> b -> c -> a.
type CycleError struct {
	Path []AgentID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("registry: dependency cycle: %s", strings.Join(parts, " -> "))
}

const (
	cycleUnvisited = iota
	cycleInProgress
	cycleDone
)

// findCycle walks the dependency edges depth-first and returns a CycleError
// describing the first cycle encountered. Roots are visited in sorted order
// so the reported witness is stable for a given table. Dependencies on
// unregistered agents carry no edges and cannot participate in a cycle.
func findCycle(caps map[AgentID]Capability, ids []AgentID) error {
	state := make(map[AgentID]int, len(ids))
	stack := make([]AgentID, 0, len(ids))

	var visit func(AgentID) *CycleError
	visit = func(id AgentID) *CycleError {
		state[id] = cycleInProgress
		stack = append(stack, id)
		for _, dep := range caps[id].DependsOn {
			if _, known := caps[dep]; !known {
				continue
			}
			switch state[dep] {
			case cycleInProgress:
				start := 0
				for i, onStack := range stack {
					if onStack == dep {
						start = i
						break
					}
				}
				path := append([]AgentID(nil), stack[start:]...)
				return &CycleError{Path: append(path, dep)}
			case cycleUnvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = cycleDone
		return nil
	}

	for _, id := range ids {
		if state[id] == cycleUnvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
