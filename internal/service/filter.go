package service

import "github.com/flowglad/pr-relay/internal/domain"

// ShouldNotify reports whether both the repository and the base branch of the
// event are allow-listed. Matching is exact and case-sensitive.
func ShouldNotify(event *domain.PullRequestEvent, policy *domain.AllowList) bool {
	if event == nil || policy == nil {
		return false
	}
	return policy.HasRepository(event.RepositoryFullName) && policy.HasBranch(event.BaseBranch)
}
