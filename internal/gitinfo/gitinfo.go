// Package gitinfo reads the enclosing git repository of a project: its
// origin remote as a browsable URL and the current commit.
package gitinfo

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
)

// DefaultRemote is the remote consulted for the repository URL.
const DefaultRemote = "origin"

// ErrNotRepository is returned when dir is not inside a git work tree.
var ErrNotRepository = stderrors.New("not a git repository")

// Repository describes a project's git checkout.
type Repository struct {
	// Root is the work tree root.
	Root string
	// RemoteURL is the raw origin URL, empty without an origin remote.
	RemoteURL string
	// WebURL is RemoteURL normalized to https://host/owner/name.
	WebURL string
	Host   string
	Owner  string
	Name   string
	// Commit is the HEAD commit hash, empty on an unborn branch.
	Commit string
	Branch string
}

// ShortCommit abbreviates a commit hash to eight characters.
func ShortCommit(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

// Detect opens the repository containing dir, walking up to find .git.
func Detect(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to open git repository").
			WithContext("path", dir).
			Build()
	}

	info := &Repository{Root: dir}
	if wt, wtErr := repo.Worktree(); wtErr == nil {
		info.Root = wt.Filesystem.Root()
	}

	if remote, remErr := repo.Remote(DefaultRemote); remErr == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RemoteURL = urls[0]
			if web, parseErr := ParseRemote(info.RemoteURL); parseErr == nil {
				info.WebURL = web.URL()
				info.Host, info.Owner, info.Name = web.Host, web.Owner, web.Name
			} else {
				slog.Debug("Remote URL is not a hosted repository", slog.String("url", info.RemoteURL), logfields.Error(parseErr))
			}
		}
	} else if !stderrors.Is(remErr, git.ErrRemoteNotFound) {
		return nil, errors.WrapError(remErr, errors.CategoryGit, "failed to read remote").
			WithContext("remote", DefaultRemote).
			Build()
	}

	head, err := repo.Head()
	switch {
	case err == nil:
		info.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: no commits yet.
	default:
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to resolve HEAD").
			WithContext("path", info.Root).
			Build()
	}

	return info, nil
}

// Remote is a hosted repository location.
type Remote struct {
	Host  string
	Owner string
	Name  string
}

// URL returns the https browse URL.
func (r Remote) URL() string {
	return "https://" + r.Host + "/" + r.Owner + "/" + r.Name
}

// ParseRemote normalizes an scp-like ("git@host:owner/name.git"), ssh://,
// git:// or http(s):// remote URL. Local paths and file:// URLs are
// rejected.
func ParseRemote(raw string) (Remote, error) {
	raw = strings.TrimSpace(raw)
	var host, p string

	if !strings.Contains(raw, "://") {
		// scp-like syntax
		at := strings.LastIndex(raw, "@")
		colon := strings.Index(raw, ":")
		if colon <= at+1 || strings.HasPrefix(raw, "/") {
			return Remote{}, fmt.Errorf("unsupported remote %q", raw)
		}
		host, p = raw[at+1:colon], raw[colon+1:]
	} else {
		u, err := url.Parse(raw)
		if err != nil {
			return Remote{}, fmt.Errorf("invalid remote %q: %w", raw, err)
		}
		switch u.Scheme {
		case "ssh", "git", "http", "https", "git+ssh":
		default:
			return Remote{}, fmt.Errorf("unsupported remote scheme %q", u.Scheme)
		}
		host, p = u.Hostname(), u.Path
	}

	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	segs := strings.Split(p, "/")
	if host == "" || len(segs) < 2 {
		return Remote{}, fmt.Errorf("remote %q has no owner/name path", raw)
	}
	name := segs[len(segs)-1]
	owner := strings.Join(segs[:len(segs)-1], "/")
	if owner == "" || name == "" {
		return Remote{}, fmt.Errorf("remote %q has no owner/name path", raw)
	}
	return Remote{Host: strings.ToLower(host), Owner: owner, Name: name}, nil
}
