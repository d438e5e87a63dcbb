// Package fetch reads program sources out of git repositories without
// touching the local disk.
package fetch

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Remote names one file at one revision of a repository. At most one of
// Branch, Tag and Rev is set; none means the remote HEAD.
type Remote struct {
	URL    string
	Branch string
	Tag    string
	Rev    string
	Path   string
}

// Source clones the repository into memory, checks out the requested
// revision and returns the contents of Path.
func Source(ctx context.Context, r Remote) ([]byte, error) {
	file, err := cleanPath(r.Path)
	if err != nil {
		return nil, err
	}

	fs := memfs.New()
	repo, err := git.CloneContext(ctx, memory.NewStorage(), fs, &git.CloneOptions{
		URL:  r.URL,
		Tags: git.AllTags,
	})
	if err != nil {
		return nil, fmt.Errorf("git clone %s: %w", r.URL, err)
	}

	revision, label := revisionOf(r)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s: %w", label, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		return nil, fmt.Errorf("git checkout %s: %w", label, err)
	}

	data, err := util.ReadFile(fs, file)
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", file, label, err)
	}
	return data, nil
}

// revisionOf maps the remote's selector to a revision go-git can resolve.
// Cloned branches live under the origin remote.
func revisionOf(r Remote) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(r.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(r.Tag); tag != "" {
		return plumbing.Revision(plumbing.NewTagReferenceName(tag)), tag
	}
	if branch := strings.TrimSpace(r.Branch); branch != "" {
		return plumbing.Revision(plumbing.NewRemoteReferenceName(git.DefaultRemoteName, branch)), branch
	}
	return plumbing.Revision(plumbing.HEAD), "HEAD"
}

// cleanPath keeps the path inside the repository.
func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("fetch: empty path")
	}
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("fetch: path %q leaves the repository", p)
	}
	return clean, nil
}
