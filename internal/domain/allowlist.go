package domain

var (
	DefaultAllowedRepositories = []string{"flowglad/flowglad", "ir3stless/flowglad"}
	DefaultAllowedBranches     = []string{"main"}
)

// AllowList gates which (repository, base branch) pairs get announced.
// It is built once at startup and never mutated afterwards.
type AllowList struct {
	repositories map[string]struct{}
	branches     map[string]struct{}
}

func NewAllowList(repositories, branches []string) *AllowList {
	return &AllowList{
		repositories: toSet(repositories),
		branches:     toSet(branches),
	}
}

func DefaultAllowList() *AllowList {
	return NewAllowList(DefaultAllowedRepositories, DefaultAllowedBranches)
}

func (a *AllowList) HasRepository(fullName string) bool {
	_, ok := a.repositories[fullName]
	return ok
}

func (a *AllowList) HasBranch(branch string) bool {
	_, ok := a.branches[branch]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
