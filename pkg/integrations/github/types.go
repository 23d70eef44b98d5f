package github

// repoResponse is the subset of GET /repos/{owner}/{repo} we read.
type repoResponse struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Archived      bool   `json:"archived"`
}

// tagResponse is one entry of GET /repos/{owner}/{repo}/tags.
type tagResponse struct {
	Name string `json:"name"`
}
