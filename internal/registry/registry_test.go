package registry

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func testCapabilities() []Capability {
	return []Capability{
		{ID: "security-agent", Priority: 1},
		{ID: "backend-agent", Priority: 3},
		{ID: "frontend-agent", Priority: 4},
		{ID: "testing-agent", Priority: 7, DependsOn: []AgentID{"backend-agent", "frontend-agent"}},
		{ID: GeneralPurpose, Priority: 100},
	}
}

func TestNewRejectsDuplicateID(t *testing.T) {
	caps := append(testCapabilities(), Capability{ID: "backend-agent", Priority: 9})
	_, err := New(caps)
	if err == nil {
		t.Fatal("expected error for duplicate capability id")
	}
	if !strings.Contains(err.Error(), "backend-agent") {
		t.Fatalf("error %q does not name the duplicate id", err)
	}
}

func TestNewRejectsEmptyID(t *testing.T) {
	if _, err := New([]Capability{{ID: ""}}); err == nil {
		t.Fatal("expected error for empty capability id")
	}
}

func TestLookupUnknownAgentNeverFails(t *testing.T) {
	reg, err := New(testCapabilities())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	cap := reg.Lookup("mystery-agent")
	if cap.ID != "mystery-agent" {
		t.Fatalf("Lookup preserved id %q, want mystery-agent", cap.ID)
	}
	if cap.Priority != math.MaxInt {
		t.Fatalf("unknown agent priority = %d, want math.MaxInt", cap.Priority)
	}
	if len(cap.DependsOn) != 0 {
		t.Fatalf("unknown agent has dependencies: %v", cap.DependsOn)
	}
	if reg.Registered("mystery-agent") {
		t.Fatal("mystery-agent reported as registered")
	}
}

func TestLookupReturnsDetachedDependencySlice(t *testing.T) {
	reg, err := New(testCapabilities())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	cap := reg.Lookup("testing-agent")
	cap.DependsOn[0] = "tampered"
	again := reg.Lookup("testing-agent")
	if again.DependsOn[0] != "backend-agent" {
		t.Fatal("mutating a Lookup result leaked into the registry")
	}
}

func TestDependsOnKeepsDeclarationOrder(t *testing.T) {
	reg, err := New(testCapabilities())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	deps := reg.DependsOn("testing-agent")
	if len(deps) != 2 || deps[0] != "backend-agent" || deps[1] != "frontend-agent" {
		t.Fatalf("DependsOn(testing-agent) = %v, want declaration order", deps)
	}
	if got := reg.DependsOn("backend-agent"); len(got) != 0 {
		t.Fatalf("backend-agent declares no dependencies, got %v", got)
	}
}

func TestIDsAreSorted(t *testing.T) {
	reg, err := New(testCapabilities())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ids := reg.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("IDs not sorted: %v", ids)
		}
	}
	if reg.Len() != len(testCapabilities()) {
		t.Fatalf("Len = %d, want %d", reg.Len(), len(testCapabilities()))
	}
}

func TestCapabilitiesOrderedByPriorityThenID(t *testing.T) {
	reg, err := New([]Capability{
		{ID: "b-agent", Priority: 2},
		{ID: "a-agent", Priority: 2},
		{ID: "c-agent", Priority: 1},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	caps := reg.Capabilities()
	got := []AgentID{caps[0].ID, caps[1].ID, caps[2].ID}
	want := []AgentID{"c-agent", "a-agent", "b-agent"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Capabilities order = %v, want %v", got, want)
		}
	}
}

func TestNewRejectsDependencyCycle(t *testing.T) {
	_, err := New([]Capability{
		{ID: "a-agent", Priority: 1, DependsOn: []AgentID{"b-agent"}},
		{ID: "b-agent", Priority: 2, DependsOn: []AgentID{"c-agent"}},
		{ID: "c-agent", Priority: 3, DependsOn: []AgentID{"a-agent"}},
	})
	if err == nil {
		t.Fatal("expected error for dependency cycle")
	}
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("error %T is not a CycleError", err)
	}
	if len(cerr.Path) != 4 || cerr.Path[0] != cerr.Path[len(cerr.Path)-1] {
		t.Fatalf("witness path %v does not loop back to its start", cerr.Path)
	}
	if !strings.Contains(err.Error(), " -> ") {
		t.Fatalf("error %q does not render the witness walk", err)
	}
}

func TestNewRejectsSelfDependency(t *testing.T) {
	_, err := New([]Capability{{ID: "a-agent", DependsOn: []AgentID{"a-agent"}}})
	if err == nil {
		t.Fatal("expected error for self dependency")
	}
	if !strings.Contains(err.Error(), "a-agent -> a-agent") {
		t.Fatalf("error %q does not show the self loop", err)
	}
}

func TestDanglingDependencyDoesNotFormCycle(t *testing.T) {
	reg, err := New([]Capability{
		{ID: "a-agent", DependsOn: []AgentID{"ghost-agent"}},
	})
	if err != nil {
		t.Fatalf("dangling dependency rejected at registry level: %v", err)
	}
	if got := reg.DependsOn("a-agent"); len(got) != 1 || got[0] != "ghost-agent" {
		t.Fatalf("DependsOn = %v, want [ghost-agent]", got)
	}
}

func TestAcyclicDiamondIsAccepted(t *testing.T) {
	_, err := New([]Capability{
		{ID: "a-agent", DependsOn: []AgentID{"b-agent", "c-agent"}},
		{ID: "b-agent", DependsOn: []AgentID{"d-agent"}},
		{ID: "c-agent", DependsOn: []AgentID{"d-agent"}},
		{ID: "d-agent"},
	})
	if err != nil {
		t.Fatalf("diamond dependency graph rejected: %v", err)
	}
}
