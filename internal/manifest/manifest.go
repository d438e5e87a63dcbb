// Package manifest reads and writes minisharp.yml project files.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file looked up by the CLI.
const FileName = "minisharp.yml"

// ErrNotFound is returned by Find when no manifest exists up to the root.
var ErrNotFound = errors.New("manifest not found")

// Manifest describes a project: its name and where its program lives,
// either a local file or a file in a git repository.
type Manifest struct {
	Name    string  `yaml:"name"`
	Version string  `yaml:"version,omitempty"`
	Main    string  `yaml:"main,omitempty"`
	Remote  *Remote `yaml:"remote,omitempty"`

	// Path is the absolute location the manifest was loaded from.
	Path string `yaml:"-"`
}

// Remote points at a program file inside a git repository. At most one of
// Branch, Tag and Rev may be set; none means the remote HEAD.
type Remote struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Rev    string `yaml:"rev,omitempty"`
	Path   string `yaml:"path"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	m, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", absPath, err)
	}
	m.Path = absPath
	return m, nil
}

// Decode reads one manifest document. Unknown keys are rejected.
func Decode(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var m Manifest
	if err := decoder.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty manifest")
		}
		return nil, err
	}
	m.normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Main = strings.TrimSpace(m.Main)
	if r := m.Remote; r != nil {
		r.URL = strings.TrimSpace(r.URL)
		r.Branch = strings.TrimSpace(r.Branch)
		r.Tag = strings.TrimSpace(r.Tag)
		r.Rev = strings.TrimSpace(r.Rev)
		r.Path = strings.TrimSpace(r.Path)
	}
}

// Validate collects every problem instead of stopping at the first.
func (m *Manifest) Validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}

	switch {
	case m.Main == "" && m.Remote == nil:
		errs.Issues = append(errs.Issues, "one of main or remote must be provided")
	case m.Main != "" && m.Remote != nil:
		errs.Issues = append(errs.Issues, "main and remote are mutually exclusive")
	}

	if r := m.Remote; r != nil {
		if r.URL == "" {
			errs.Issues = append(errs.Issues, "remote.url must be provided")
		}
		if r.Path == "" {
			errs.Issues = append(errs.Issues, "remote.path must be provided")
		}
		refs := 0
		for _, ref := range []string{r.Branch, r.Tag, r.Rev} {
			if ref != "" {
				refs++
			}
		}
		if refs > 1 {
			errs.Issues = append(errs.Issues, "remote accepts only one of branch, tag or rev")
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// MainPath resolves Main against the manifest's directory.
func (m *Manifest) MainPath() string {
	if m.Main == "" {
		return ""
	}
	if filepath.IsAbs(m.Main) {
		return filepath.Clean(m.Main)
	}
	if m.Path == "" {
		return filepath.Clean(filepath.FromSlash(m.Main))
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(m.Main))
}

// Find walks from start up to the filesystem root looking for FileName.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", FileName, origin, ErrNotFound)
		}
		dir = parent
	}
}

// Write validates m and stores it at path.
func Write(path string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}
