// Package persona loads agent persona files. A persona file lives in
// .agentkit/agents/<name>.md and pairs YAML front matter (the routing
// fields) with a Markdown prompt body.
package persona

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingFrontMatter   = errors.New("persona: missing front matter")
	ErrMalformedFrontMatter = errors.New("persona: malformed front matter")
)

// Spec holds the routing fields a persona file may set. Priority is a
// pointer so an absent value can defer to the built-in table when the
// persona overrides an existing agent.
type Spec struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description,omitempty"`
	Priority    *int     `yaml:"priority,omitempty"`
	DependsOn   []string `yaml:"depends_on,omitempty"`
}

// Persona is one parsed persona file.
type Persona struct {
	Spec
	Path string
	Body string
}

// Parse splits content into front matter and body. The file must open with
// a "---" fence on its first line and close the front matter with another.
func Parse(content []byte) (Spec, string, error) {
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Spec{}, "", ErrMissingFrontMatter
	}
	rest := bytes.TrimPrefix(normalized, []byte("---\n"))
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) != 2 {
		return Spec{}, "", ErrMalformedFrontMatter
	}
	var spec Spec
	if err := yaml.Unmarshal(parts[0], &spec); err != nil {
		return Spec{}, "", fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	spec.normalize()
	if spec.ID == "" {
		return Spec{}, "", fmt.Errorf("%w: id is required", ErrMalformedFrontMatter)
	}
	body := strings.TrimLeft(string(parts[1]), "\n")
	return spec, body, nil
}

func (s *Spec) normalize() {
	s.ID = strings.ToLower(strings.TrimSpace(s.ID))
	s.Description = strings.TrimSpace(s.Description)
	deps := s.DependsOn[:0]
	for _, dep := range s.DependsOn {
		dep = strings.ToLower(strings.TrimSpace(dep))
		if dep != "" {
			deps = append(deps, dep)
		}
	}
	if len(deps) == 0 {
		s.DependsOn = nil
	} else {
		s.DependsOn = deps
	}
}

// LoadFile parses a single persona file.
func LoadFile(path string) (Persona, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("persona: read %s: %w", path, err)
	}
	spec, body, err := Parse(content)
	if err != nil {
		return Persona{}, fmt.Errorf("persona: %s: %w", path, err)
	}
	return Persona{Spec: spec, Path: path, Body: body}, nil
}

// LoadDir parses every .md file in dir, in filename order. A missing
// directory is not an error; projects without personas simply have none.
func LoadDir(dir string) ([]Persona, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("persona: read dir %s: %w", dir, err)
	}
	var personas []Persona
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		p, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, nil
}

func normalizeNewlines(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}
