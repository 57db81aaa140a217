package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentkit/internal/logging"
	"agentkit/internal/registry"
)

// runCLI executes the command tree with fresh flag state and captures stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfigFile = ""
	flagProjectDir = "."
	flagLogLevel = "error"
	flagLogFormat = logging.FormatText
	flagFormat = "text"
	flagRouteFiles = nil
	flagRouteChain = ""
	flagRouteSequential = false
	flagRouteCalls = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRouteCommandJSON(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "route", "Fix a bug in login form validation",
		"--files", "src/components/LoginForm.tsx",
		"--calls", "--format", "json", "--project-dir", dir)
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	var report routeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("route output is not JSON: %v\n%s", err, out)
	}
	set := make(map[registry.AgentID]bool)
	for _, id := range report.Agents {
		set[id] = true
	}
	for _, want := range []registry.AgentID{registry.Security, registry.Backend, registry.Frontend, registry.Testing} {
		if !set[want] {
			t.Fatalf("agents = %v, missing %s", report.Agents, want)
		}
	}
	if len(report.Phases) < 2 {
		t.Fatalf("phases = %v, want testing split into a later group", report.Phases)
	}
	if len(report.Calls) != len(report.Agents) {
		t.Fatalf("got %d calls for %d agents", len(report.Calls), len(report.Agents))
	}
}

func TestRouteCommandChainOverride(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "route", "anything at all",
		"--chain", "feature-development", "--format", "json", "--project-dir", dir)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	var report routeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Chain != "feature-development" || len(report.Phases) != 4 {
		t.Fatalf("chain = %q with %d phases, want feature-development with 4",
			report.Chain, len(report.Phases))
	}
}

func TestRouteCommandFallsBackInText(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "route", "zzz qqq", "--project-dir", dir)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if !strings.Contains(out, string(registry.GeneralPurpose)) {
		t.Fatalf("output missing the fallback agent:\n%s", out)
	}
}

func TestAgentsCommandListsRegistry(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "agents", "--format", "json", "--project-dir", dir)
	if err != nil {
		t.Fatalf("agents: %v", err)
	}
	var rows []agentRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("no agents listed")
	}
	if rows[0].Priority > rows[len(rows)-1].Priority {
		t.Fatalf("agents not sorted by priority: %v", rows)
	}
	found := false
	for _, row := range rows {
		if row.ID == registry.GeneralPurpose && row.Priority == 100 {
			found = true
		}
	}
	if !found {
		t.Fatalf("general-purpose missing from listing: %v", rows)
	}
}

func TestAgentsRecommendCommand(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, "pubspec.yaml", "name: app\ndependencies:\n  flutter:\n    sdk: flutter\n")

	out, err := runCLI(t, "agents", "recommend", project, "--format", "json", "--project-dir", t.TempDir())
	if err != nil {
		t.Fatalf("agents recommend: %v", err)
	}
	var report recommendReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Project.Mobile != "flutter" {
		t.Fatalf("mobile = %q, want flutter", report.Project.Mobile)
	}
	set := make(map[registry.AgentID]bool)
	for _, id := range report.Agents {
		set[id] = true
	}
	if !set[registry.Mobile] || !set[registry.CodeReview] || !set[registry.Testing] {
		t.Fatalf("recommended = %v, want mobile plus the quality agents", report.Agents)
	}
}

func TestChainsCommandListsAndShows(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "chains", "--project-dir", dir)
	if err != nil {
		t.Fatalf("chains: %v", err)
	}
	if !strings.Contains(out, "feature-development") {
		t.Fatalf("listing missing feature-development:\n%s", out)
	}

	out, err = runCLI(t, "chains", "bug-fix", "--project-dir", dir)
	if err != nil {
		t.Fatalf("chains bug-fix: %v", err)
	}
	if !strings.Contains(out, "testing-agent") {
		t.Fatalf("chain detail missing phases:\n%s", out)
	}

	if _, err := runCLI(t, "chains", "no-such-chain", "--project-dir", dir); err == nil {
		t.Fatal("expected an error for an unknown chain")
	}
}

func TestDetectCommandJSON(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, "go.mod", "module example.com/svc\n")
	writeFile(t, project, "Dockerfile", "FROM golang:1.21\n")

	out, err := runCLI(t, "detect", project, "--format", "json", "--project-dir", t.TempDir())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	var info struct {
		Backend    string `json:"backend"`
		Deployment string `json:"deployment"`
	}
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Backend != "go" || info.Deployment != "docker" {
		t.Fatalf("detect = %+v, want go backend with docker deployment", info)
	}
}

func TestValidateCommandReportsLayers(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, filepath.Join(".agentkit", "routing.yaml"), `
version: 1
agents:
  - id: payments-agent
    priority: 4
rules:
  - kind: keyword
    pattern: billing|invoice
    agents: [payments-agent]
`)

	out, err := runCLI(t, "validate", "--format", "json", "--project-dir", project)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var report validateReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Fingerprint == "" {
		t.Fatal("validate must print the config fingerprint")
	}
	joined := strings.Join(report.Sources, " ")
	if !strings.Contains(joined, "routing.yaml") {
		t.Fatalf("sources = %v, want the project overlay listed", report.Sources)
	}
}

func TestValidateCommandRejectsBrokenConfig(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, filepath.Join(".agentkit", "routing.yaml"), `
version: 1
rules:
  - kind: keyword
    pattern: orphan
    agents: [ghost-agent]
`)

	_, err := runCLI(t, "validate", "--project-dir", project)
	if err == nil {
		t.Fatal("expected validation to fail for an undeclared agent")
	}
	if !strings.Contains(err.Error(), "ghost-agent") {
		t.Fatalf("error %q does not name the offender", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version", "--project-dir", t.TempDir())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "agentkit dev") {
		t.Fatalf("version output = %q", out)
	}
	if !strings.Contains(out, "fingerprint") {
		t.Fatalf("version output missing the config fingerprint:\n%s", out)
	}
}
