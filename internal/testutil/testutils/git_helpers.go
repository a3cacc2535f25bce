// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo initializes a git repository in dir. When origin is non-empty
// it is added as the origin remote.
func InitRepo(t *testing.T, dir, origin string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	if origin != "" {
		if _, err := repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{origin}}); err != nil {
			t.Fatalf("failed to add origin: %v", err)
		}
	}
	return repo
}

// CommitAll stages every file in the worktree and commits it.
func CommitAll(t *testing.T, repo *git.Repository, message string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage files: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

// WriteFile writes body to p, creating parent directories.
func WriteFile(t *testing.T, p, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
}
