// Package detect probes a project directory for stack markers: manifest
// files, dependency entries, and well-known directories. Every probe is
// read-only and independent; a file that is missing or unreadable simply
// counts as "not detected", so Detect never fails.
package detect

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectInfo is the flat record a detection run produces. Empty strings
// mean the corresponding layer was not detected. Features is a sorted set
// of cross-cutting capability tags such as "authentication" or "ci".
type ProjectInfo struct {
	Type       string   `json:"type,omitempty" yaml:"type,omitempty"`
	Frontend   string   `json:"frontend,omitempty" yaml:"frontend,omitempty"`
	Backend    string   `json:"backend,omitempty" yaml:"backend,omitempty"`
	Mobile     string   `json:"mobile,omitempty" yaml:"mobile,omitempty"`
	Database   string   `json:"database,omitempty" yaml:"database,omitempty"`
	Deployment string   `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	Testing    string   `json:"testing,omitempty" yaml:"testing,omitempty"`
	Features   []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// Empty reports whether nothing at all was detected.
func (info ProjectInfo) Empty() bool {
	return info.Type == "" && info.Frontend == "" && info.Backend == "" &&
		info.Mobile == "" && info.Database == "" && info.Deployment == "" &&
		info.Testing == "" && len(info.Features) == 0
}

// HasFeature reports whether the feature tag was detected.
func (info ProjectInfo) HasFeature(name string) bool {
	for _, f := range info.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Summary renders the record for human eyes, one detected layer per line.
func (info ProjectInfo) Summary() string {
	var sb strings.Builder
	line := func(label, value string) {
		if value != "" {
			sb.WriteString("  ")
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("\n")
		}
	}
	line("Type", info.Type)
	line("Frontend", info.Frontend)
	line("Backend", info.Backend)
	line("Mobile", info.Mobile)
	line("Database", info.Database)
	line("Deployment", info.Deployment)
	line("Testing", info.Testing)
	if len(info.Features) > 0 {
		line("Features", strings.Join(info.Features, ", "))
	}
	if sb.Len() == 0 {
		return "  nothing detected\n"
	}
	return sb.String()
}

// Detector runs stack probes against project directories.
type Detector struct {
	log *slog.Logger
}

// New returns a detector. A nil logger silences probe diagnostics.
func New(log *slog.Logger) *Detector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{log: log}
}

// Detect probes dir and assembles a ProjectInfo. Probes run in a fixed
// order and never abort the run: a broken manifest is logged and skipped.
func (d *Detector) Detect(dir string) ProjectInfo {
	var info ProjectInfo
	pkg := d.readPackageJSON(dir)

	d.detectFrontend(&info, pkg)
	d.detectMobile(&info, dir, pkg)
	d.detectBackend(&info, dir, pkg)
	d.detectDatabase(&info, dir, pkg)
	d.detectDeployment(&info, dir)
	d.detectTesting(&info, dir, pkg)
	d.detectFeatures(&info, dir, pkg)

	info.Type = classify(info)
	sort.Strings(info.Features)
	return info
}

// packageJSON is the subset of package.json the probes care about.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (p *packageJSON) has(names ...string) bool {
	if p == nil {
		return false
	}
	for _, name := range names {
		if _, ok := p.Dependencies[name]; ok {
			return true
		}
		if _, ok := p.DevDependencies[name]; ok {
			return true
		}
	}
	return false
}

func (d *Detector) readPackageJSON(dir string) *packageJSON {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		d.log.Debug("skipping unreadable manifest", "path", path, "err", err)
		return nil
	}
	return &pkg
}

func (d *Detector) detectFrontend(info *ProjectInfo, pkg *packageJSON) {
	switch {
	case pkg.has("next"):
		info.Frontend = "nextjs"
	case pkg.has("@angular/core"):
		info.Frontend = "angular"
	case pkg.has("vue", "nuxt"):
		info.Frontend = "vue"
	case pkg.has("svelte", "@sveltejs/kit"):
		info.Frontend = "svelte"
	case pkg.has("react") && !pkg.has("react-native"):
		info.Frontend = "react"
	}
}

func (d *Detector) detectMobile(info *ProjectInfo, dir string, pkg *packageJSON) {
	if d.pubspecDependsOnFlutter(dir) {
		info.Mobile = "flutter"
		return
	}
	if pkg.has("react-native", "expo") {
		info.Mobile = "react-native"
	}
}

func (d *Detector) pubspecDependsOnFlutter(dir string) bool {
	path := filepath.Join(dir, "pubspec.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var manifest struct {
		Dependencies map[string]any `yaml:"dependencies"`
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		d.log.Debug("skipping unreadable manifest", "path", path, "err", err)
		return false
	}
	_, ok := manifest.Dependencies["flutter"]
	return ok
}

func (d *Detector) detectBackend(info *ProjectInfo, dir string, pkg *packageJSON) {
	if pkg.has("express", "fastify", "koa", "@nestjs/core", "hono") {
		info.Backend = "node"
		return
	}
	markers := []struct {
		file string
		tag  string
	}{
		{"go.mod", "go"},
		{"requirements.txt", "python"},
		{"pyproject.toml", "python"},
		{"Pipfile", "python"},
		{"Cargo.toml", "rust"},
		{"pom.xml", "java"},
		{"build.gradle", "java"},
		{"Gemfile", "ruby"},
		{"composer.json", "php"},
	}
	for _, m := range markers {
		if fileExists(filepath.Join(dir, m.file)) {
			info.Backend = m.tag
			return
		}
	}
}

func (d *Detector) detectDatabase(info *ProjectInfo, dir string, pkg *packageJSON) {
	prismaSchema := filepath.Join(dir, "prisma", "schema.prisma")
	compose := filepath.Join(dir, "docker-compose.yml")
	switch {
	case pkg.has("pg", "postgres"):
		info.Database = "postgresql"
	case pkg.has("mysql", "mysql2"):
		info.Database = "mysql"
	case pkg.has("mongodb", "mongoose"):
		info.Database = "mongodb"
	case pkg.has("sqlite3", "better-sqlite3"):
		info.Database = "sqlite"
	case pkg.has("redis", "ioredis"):
		info.Database = "redis"
	case fileContains(prismaSchema, "postgresql"):
		info.Database = "postgresql"
	case fileContains(prismaSchema, "mysql"):
		info.Database = "mysql"
	case fileContains(compose, "postgres"):
		info.Database = "postgresql"
	case fileContains(compose, "mysql"):
		info.Database = "mysql"
	case fileContains(compose, "mongo"):
		info.Database = "mongodb"
	}
}

func (d *Detector) detectDeployment(info *ProjectInfo, dir string) {
	switch {
	case dirExists(filepath.Join(dir, "k8s")),
		dirExists(filepath.Join(dir, "kubernetes")),
		dirExists(filepath.Join(dir, "helm")):
		info.Deployment = "kubernetes"
	case fileExists(filepath.Join(dir, "Dockerfile")),
		fileExists(filepath.Join(dir, "docker-compose.yml")),
		fileExists(filepath.Join(dir, "docker-compose.yaml")):
		info.Deployment = "docker"
	case fileExists(filepath.Join(dir, "vercel.json")):
		info.Deployment = "vercel"
	case fileExists(filepath.Join(dir, "netlify.toml")):
		info.Deployment = "netlify"
	}
}

func (d *Detector) detectTesting(info *ProjectInfo, dir string, pkg *packageJSON) {
	switch {
	case pkg.has("vitest"):
		info.Testing = "vitest"
	case pkg.has("jest"):
		info.Testing = "jest"
	case pkg.has("mocha"):
		info.Testing = "mocha"
	case pkg.has("cypress"):
		info.Testing = "cypress"
	case pkg.has("playwright", "@playwright/test"):
		info.Testing = "playwright"
	case fileContains(filepath.Join(dir, "requirements.txt"), "pytest"),
		fileContains(filepath.Join(dir, "pyproject.toml"), "pytest"):
		info.Testing = "pytest"
	}
}

func (d *Detector) detectFeatures(info *ProjectInfo, dir string, pkg *packageJSON) {
	add := func(tag string) {
		if !info.HasFeature(tag) {
			info.Features = append(info.Features, tag)
		}
	}
	if pkg.has("next-auth", "@auth/core", "passport", "jsonwebtoken", "bcrypt", "bcryptjs") {
		add("authentication")
	}
	if pkg.has("stripe", "@stripe/stripe-js", "paypal-rest-sdk", "braintree") {
		add("payments")
	}
	if pkg.has("socket.io", "ws", "pusher", "ably") {
		add("realtime")
	}
	if pkg.has("graphql", "@apollo/server", "apollo-server", "@apollo/client") {
		add("graphql")
	}
	if pkg.has("i18next", "react-intl", "next-intl") {
		add("i18n")
	}
	if dirExists(filepath.Join(dir, ".github", "workflows")) || fileExists(filepath.Join(dir, ".gitlab-ci.yml")) {
		add("ci")
	}
	if fileExists(filepath.Join(dir, "pnpm-workspace.yaml")) ||
		fileExists(filepath.Join(dir, "lerna.json")) ||
		fileExists(filepath.Join(dir, "turbo.json")) {
		add("monorepo")
	}
}

// classify folds the detected layers into a single project type tag.
func classify(info ProjectInfo) string {
	switch {
	case info.Frontend != "" && info.Backend != "":
		return "fullstack"
	case info.Mobile != "" && info.Backend != "":
		return "fullstack"
	case info.Mobile != "":
		return "mobile"
	case info.Frontend != "":
		return "web"
	case info.Backend != "":
		return "api"
	default:
		return ""
	}
}

func fileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}

func dirExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

func fileContains(path, substr string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(content), substr)
}
