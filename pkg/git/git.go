package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	giturl "github.com/kubescape/go-git-url"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
)

// OpenRepo opens the repository containing path, walking up to find `.git`.
func OpenRepo(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNoGitRepository, path)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// CurrentBranch returns the short name of the branch HEAD points at.
// HEAD is read unresolved so a branch without commits still has a name.
func CurrentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", err
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", errUtils.ErrDetachedHead
	}
	return head.Target().Short(), nil
}

// CurrentBranchAt opens the repository containing path and returns its current branch.
func CurrentBranchAt(path string) (string, error) {
	repo, err := OpenRepo(path)
	if err != nil {
		return "", err
	}
	return CurrentBranch(repo)
}

// RepoInfo describes a remote repository URL.
type RepoInfo struct {
	URL       string
	Protocol  string
	RepoHost  string
	RepoOwner string
	RepoName  string
}

// ParseRepoURL validates a repository URL. Hosting providers known to go-git-url
// yield owner and name; any other URL go-git can clone from is accepted with host only.
func ParseRepoURL(url string) (RepoInfo, error) {
	if strings.TrimSpace(url) == "" || strings.ContainsAny(url, " \t\n") {
		return RepoInfo{}, fmt.Errorf("%w: %q", errUtils.ErrInvalidRepoURL, url)
	}

	endpoint, err := transport.NewEndpoint(url)
	if err != nil {
		return RepoInfo{}, fmt.Errorf("%w: %q: %w", errUtils.ErrInvalidRepoURL, url, err)
	}

	info := RepoInfo{
		URL:      url,
		Protocol: endpoint.Protocol,
		RepoHost: endpoint.Host,
	}

	if gitURL, err := giturl.NewGitURL(url); err == nil {
		info.RepoHost = gitURL.GetHostName()
		info.RepoOwner = gitURL.GetOwnerName()
		info.RepoName = gitURL.GetRepoName()
	}

	return info, nil
}
