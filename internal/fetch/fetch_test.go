package fetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// history is a local repository with two commits of Main.msh; the first is
// tagged v1.
type history struct {
	dir    string
	first  plumbing.Hash
	second plumbing.Hash
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, contents string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", name, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "MiniSharp Tests",
			Email: "tests@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}

func initHistory(t *testing.T) history {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	h := history{dir: dir}
	h.first = commitFile(t, repo, dir, "Main.msh", "first")
	if _, err := repo.CreateTag("v1", h.first, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	h.second = commitFile(t, repo, dir, "Main.msh", "second")
	return h
}

func TestSourceRevisions(t *testing.T) {
	h := initHistory(t)

	tests := []struct {
		name   string
		remote Remote
		want   string
	}{
		{"head", Remote{URL: h.dir, Path: "Main.msh"}, "second"},
		{"tag", Remote{URL: h.dir, Tag: "v1", Path: "Main.msh"}, "first"},
		{"rev", Remote{URL: h.dir, Rev: h.first.String(), Path: "Main.msh"}, "first"},
		{"branch", Remote{URL: h.dir, Branch: "master", Path: "./Main.msh"}, "second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Source(context.Background(), tt.remote)
			if err != nil {
				t.Fatalf("Source returned error: %v", err)
			}
			if got := string(data); got != tt.want {
				t.Fatalf("contents = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceErrors(t *testing.T) {
	h := initHistory(t)

	tests := []struct {
		name   string
		remote Remote
		msg    string
	}{
		{"missing file", Remote{URL: h.dir, Path: "Other.msh"}, "read Other.msh at HEAD"},
		{"unknown tag", Remote{URL: h.dir, Tag: "v9", Path: "Main.msh"}, "resolve revision v9"},
		{"escaping path", Remote{URL: h.dir, Path: "../secret.msh"}, "leaves the repository"},
		{"empty path", Remote{URL: h.dir}, "empty path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Source(context.Background(), tt.remote)
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("expected error containing %q, got %v", tt.msg, err)
			}
		})
	}
}
