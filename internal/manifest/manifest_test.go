package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadLocal(t *testing.T) {
	path := writeManifest(t, `
name: hello
version: "0.1.0"
main: src/Main.msh
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Name != "hello" || m.Version != "0.1.0" {
		t.Fatalf("Name/Version = %q/%q, want hello/0.1.0", m.Name, m.Version)
	}
	if m.Remote != nil {
		t.Fatalf("Remote = %#v, want nil", m.Remote)
	}
	want := filepath.Join(filepath.Dir(path), "src", "Main.msh")
	if got := m.MainPath(); got != want {
		t.Fatalf("MainPath() = %q, want %q", got, want)
	}
}

func TestLoadRemote(t *testing.T) {
	path := writeManifest(t, `
name: shapes
remote:
  url: https://example.com/shapes.git
  tag: v1.2.0
  path: programs/Shapes.msh
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	r := m.Remote
	if r == nil {
		t.Fatal("Remote missing")
	}
	if r.URL != "https://example.com/shapes.git" || r.Tag != "v1.2.0" || r.Path != "programs/Shapes.msh" {
		t.Fatalf("Remote not parsed: %#v", r)
	}
	if m.MainPath() != "" {
		t.Fatalf("MainPath() = %q, want empty for a remote program", m.MainPath())
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: hello
main: Main.msh
entry: Main
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "field entry not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	path := writeManifest(t, "")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "empty manifest") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestValidationCollectsIssues(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		issues []string
	}{
		{"nothing to run", `version: "1"`, []string{
			"name must be provided",
			"one of main or remote must be provided",
		}},
		{"both sources", `
name: x
main: Main.msh
remote:
  url: https://example.com/x.git
  path: Main.msh
`, []string{"main and remote are mutually exclusive"}},
		{"incomplete remote", `
name: x
remote:
  branch: main
  rev: abc123
`, []string{
			"remote.url must be provided",
			"remote.path must be provided",
			"remote accepts only one of branch, tag or rev",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.src))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if got, want := strings.Join(verr.Issues, "; "), strings.Join(tt.issues, "; "); got != want {
				t.Fatalf("Issues = %q, want %q", got, want)
			}
		})
	}
}

func TestFindWalksUpwards(t *testing.T) {
	path := writeManifest(t, "name: hello\nmain: Main.msh")
	nested := filepath.Join(filepath.Dir(path), "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if found != path {
		t.Fatalf("Find() = %q, want %q", found, path)
	}
}

func TestFindMissing(t *testing.T) {
	_, err := Find(t.TempDir())
	if err == nil {
		// a minisharp.yml above the temp dir would satisfy the search
		t.Skip("a manifest exists above the temporary directory")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, &Manifest{Name: "hello", Version: "0.1.0", Main: "Main.msh"}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Name != "hello" || m.Main != "Main.msh" || m.Remote != nil {
		t.Fatalf("loaded manifest differs: %#v", m)
	}

	if err := Write(path, &Manifest{Main: "Main.msh"}); err == nil {
		t.Fatal("expected Write to reject an invalid manifest")
	}
}
