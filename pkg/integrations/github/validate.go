package github

import (
	"regexp"
	"strings"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
)

var (
	// 1-39 alphanumerics or hyphens, not starting with a hyphen.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// 1-100 alphanumerics, hyphens, underscores or dots.
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateRepoRef returns an INVALID_INPUT error unless owner and repo
// are well-formed GitHub names.
func ValidateRepoRef(owner, repo string) error {
	switch {
	case owner == "":
		return errors.New(errors.ErrCodeInvalidInput, "GitHub owner is required")
	case !validOwner.MatchString(owner):
		return errors.New(errors.ErrCodeInvalidInput, "invalid GitHub owner %q", owner)
	case repo == "":
		return errors.New(errors.ErrCodeInvalidInput, "GitHub repository is required")
	case !validRepo.MatchString(repo):
		return errors.New(errors.ErrCodeInvalidInput, "invalid GitHub repository %q", repo)
	}
	return nil
}

// ParseRepoRef splits "owner/repo[/path]" into its parts. The path is
// returned without a leading slash and may be empty.
func ParseRepoRef(ref string) (owner, repo, path string, err error) {
	parts := strings.SplitN(ref, "/", 3)
	if len(parts) < 2 {
		return "", "", "", errors.New(errors.ErrCodeInvalidInput, "%q is not owner/repo", ref)
	}
	owner, repo = parts[0], parts[1]
	if len(parts) == 3 {
		path = parts[2]
	}
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", "", err
	}
	return owner, repo, path, nil
}
