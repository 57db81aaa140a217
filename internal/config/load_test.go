package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProjectFile(t *testing.T, projectDir, name, content string) {
	t.Helper()
	path := filepath.Join(projectDir, AgentKitDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenProjectHasNoOverrides(t *testing.T) {
	cfg, err := Load(Options{ProjectDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "builtin" {
		t.Fatalf("sources = %v, want [builtin]", cfg.Sources)
	}
	if cfg.Fingerprint == "" {
		t.Fatal("fingerprint is empty")
	}
	if len(cfg.Doc.Agents) == 0 {
		t.Fatal("no agents loaded from defaults")
	}
}

func TestLoadMergesProjectRoutingFile(t *testing.T) {
	projectDir := t.TempDir()
	writeProjectFile(t, projectDir, RoutingFile, strings.TrimSpace(`
version: 1
agents:
  - id: backend-agent
    priority: 1
  - id: payments-agent
    description: Owns the billing integration.
    priority: 2
rules:
  - kind: keyword
    pattern: billing|invoice
    agents: [payments-agent]
`))
	cfg, err := Load(Options{ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("sources = %v, want builtin plus project file", cfg.Sources)
	}
	var backendPriority int
	paymentsFound := false
	for _, a := range cfg.Doc.Agents {
		switch a.ID {
		case "backend-agent":
			backendPriority = a.Priority
		case "payments-agent":
			paymentsFound = true
		}
	}
	if backendPriority != 1 {
		t.Fatalf("backend-agent priority = %d, want project override 1", backendPriority)
	}
	if !paymentsFound {
		t.Fatal("payments-agent missing after merge")
	}
	last := cfg.Doc.Rules[len(cfg.Doc.Rules)-1]
	if last.Pattern != "billing|invoice" {
		t.Fatalf("project rule not appended last: %+v", last)
	}
}

func TestLoadAppliesPersonas(t *testing.T) {
	projectDir := t.TempDir()
	agentsDir := filepath.Join(projectDir, AgentKitDir, AgentsSubdir)
	if err := os.MkdirAll(agentsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	newAgent := "---\nid: payments-agent\ndescription: Billing specialist.\npriority: 2\ndepends_on: [backend-agent]\n---\nYou own billing.\n"
	if err := os.WriteFile(filepath.Join(agentsDir, "payments.md"), []byte(newAgent), 0o644); err != nil {
		t.Fatal(err)
	}
	override := "---\nid: security-agent\npriority: 42\n---\nProject-specific security notes.\n"
	if err := os.WriteFile(filepath.Join(agentsDir, "security.md"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(Options{ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	var payments, security *AgentSpec
	for i := range cfg.Doc.Agents {
		switch cfg.Doc.Agents[i].ID {
		case "payments-agent":
			payments = &cfg.Doc.Agents[i]
		case "security-agent":
			security = &cfg.Doc.Agents[i]
		}
	}
	if payments == nil || payments.Priority != 2 || len(payments.DependsOn) != 1 {
		t.Fatalf("persona agent not merged: %+v", payments)
	}
	if security == nil || security.Priority != 42 {
		t.Fatalf("persona override not applied: %+v", security)
	}
	if security.Description == "" {
		t.Fatal("persona override erased the built-in description")
	}
	if len(cfg.Personas) != 2 {
		t.Fatalf("personas = %d, want 2", len(cfg.Personas))
	}
}

func TestLoadFingerprintIsStableAcrossReloads(t *testing.T) {
	projectDir := t.TempDir()
	first, err := Load(Options{ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := Load(Options{ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first.Fingerprint != second.Fingerprint {
		t.Fatal("identical configuration produced different fingerprints")
	}
	writeProjectFile(t, projectDir, RoutingFile, "version: 1\nrules:\n  - kind: keyword\n    pattern: billing\n    agents: [backend-agent]\n")
	third, err := Load(Options{ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("third Load: %v", err)
	}
	if third.Fingerprint == first.Fingerprint {
		t.Fatal("changed configuration kept the same fingerprint")
	}
}

func TestLoadRejectsExplicitMissingConfigFile(t *testing.T) {
	_, err := Load(Options{
		ProjectDir: t.TempDir(),
		ConfigFile: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	if err == nil {
		t.Fatal("expected error for explicitly named missing config file")
	}
}

func TestLoadRejectsOverlayWithUndeclaredAgent(t *testing.T) {
	projectDir := t.TempDir()
	writeProjectFile(t, projectDir, RoutingFile, "version: 1\nrules:\n  - kind: keyword\n    pattern: billing\n    agents: [ghost-agent]\n")
	_, err := Load(Options{ProjectDir: projectDir})
	if err == nil || !strings.Contains(err.Error(), "ghost-agent") {
		t.Fatalf("err = %v, want undeclared agent error", err)
	}
}

func TestLoadRejectsUnsupportedOverlayVersion(t *testing.T) {
	projectDir := t.TempDir()
	writeProjectFile(t, projectDir, RoutingFile, "version: 9\n")
	_, err := Load(Options{ProjectDir: projectDir})
	if err == nil || !strings.Contains(err.Error(), "unsupported version") {
		t.Fatalf("err = %v, want unsupported version error", err)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	projectDir := t.TempDir()
	writeProjectFile(t, projectDir, RoutingFile, "version: [broken\n")
	_, err := Load(Options{ProjectDir: projectDir})
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("err = %v, want parse error", err)
	}
}
