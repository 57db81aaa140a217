package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"agentkit/internal/persona"
)

//go:embed defaults/routing.yaml
var defaultRoutingYAML []byte

// defaultPersonaPriority is assigned to persona-declared agents that set no
// priority of their own. It slots below the built-in specialists and above
// the fallback agent.
const defaultPersonaPriority = 50

// Config is the immutable routing configuration handed to the router.
type Config struct {
	Doc         Document
	Fingerprint string

	// Sources lists the layers that contributed to Doc, in merge order.
	Sources []string

	// Personas keeps the parsed persona files so surfaces can show their
	// prompt bodies. Their routing fields are already merged into Doc.
	Personas []persona.Persona
}

// Options steers Load. The zero value reads the embedded defaults plus any
// .agentkit overrides found under the current directory.
type Options struct {
	// ProjectDir is the directory whose .agentkit folder is consulted.
	// Empty means the current directory.
	ProjectDir string

	// ConfigFile replaces the default <ProjectDir>/.agentkit/routing.yaml
	// location. Unlike the default location, an explicit file must exist.
	ConfigFile string

	// AgentsDir replaces the default <ProjectDir>/.agentkit/agents persona
	// directory.
	AgentsDir string
}

// Load assembles the routing configuration once: embedded defaults first,
// then the project routing file, then personas. The merged document is
// normalized, validated, and fingerprinted before anything runs against it.
func Load(opts Options) (*Config, error) {
	doc, err := Builtin()
	if err != nil {
		return nil, err
	}
	sources := []string{"builtin"}

	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	path := opts.ConfigFile
	if path == "" {
		path = filepath.Join(projectDir, AgentKitDir, RoutingFile)
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	overlay, found, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if found {
		doc = doc.Merge(overlay)
		sources = append(sources, path)
	}

	agentsDir := opts.AgentsDir
	if agentsDir == "" {
		agentsDir = filepath.Join(projectDir, AgentKitDir, AgentsSubdir)
	}
	personas, err := persona.LoadDir(agentsDir)
	if err != nil {
		return nil, err
	}
	if len(personas) > 0 {
		doc = applyPersonas(doc, personas)
		sources = append(sources, agentsDir)
	}

	doc = doc.Normalized()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fingerprint, err := doc.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &Config{
		Doc:         doc,
		Fingerprint: fingerprint,
		Sources:     sources,
		Personas:    personas,
	}, nil
}

// Builtin parses the embedded default routing table.
func Builtin() (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(defaultRoutingYAML, &doc); err != nil {
		return Document{}, fmt.Errorf("config: parse embedded defaults: %w", err)
	}
	return doc, nil
}

func readDocument(path string) (Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("config: read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, false, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if doc.Version != 0 && doc.Version != CurrentVersion {
		return Document{}, false, fmt.Errorf("config: %s: unsupported version %d (want %d)", path, doc.Version, CurrentVersion)
	}
	return doc, true, nil
}

// applyPersonas folds persona routing fields into the agent table. A persona
// that names an existing agent overrides just the fields it sets; anything
// else declares a new agent.
func applyPersonas(doc Document, personas []persona.Persona) Document {
	out := doc.Clone()
	for _, p := range personas {
		idx := -1
		for i, a := range out.Agents {
			if a.ID == p.ID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			if p.Description != "" {
				out.Agents[idx].Description = p.Description
			}
			if p.Priority != nil {
				out.Agents[idx].Priority = *p.Priority
			}
			if p.DependsOn != nil {
				out.Agents[idx].DependsOn = append([]string(nil), p.DependsOn...)
			}
			continue
		}
		spec := AgentSpec{
			ID:          p.ID,
			Description: p.Description,
			Priority:    defaultPersonaPriority,
			DependsOn:   append([]string(nil), p.DependsOn...),
		}
		if p.Priority != nil {
			spec.Priority = *p.Priority
		}
		out.Agents = append(out.Agents, spec)
	}
	return out
}
