package config

import (
	"github.com/sul-dlss/ld4p-deploy/pkg/git"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
)

// resolveBranch returns the branch checked out in the repository containing dir,
// or "" when there is none.
func resolveBranch(dir string) string {
	branch, err := git.CurrentBranchAt(dir)
	if err != nil {
		log.Debug("Could not determine the current branch", "dir", dir, "err", err)
		return ""
	}
	log.Debug("Using the current branch", "branch", branch)
	return branch
}
