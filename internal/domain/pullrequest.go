package domain

import (
	"errors"
	"regexp"

	. "github.com/go-ozzo/ozzo-validation"
)

const (
	EventPullRequest = "pull_request"
	ActionClosed     = "closed"
)

var repoFullNameRe = regexp.MustCompile(`^[^/\s]+/[^/\s]+$`)

// PullRequestEvent is the part of a GitHub pull_request delivery the relay
// works with. Only the event validator constructs it.
type PullRequestEvent struct {
	Action             string
	Merged             bool
	HTMLURL            string
	Title              string
	Number             int
	OpenedBy           string // pull_request.user.login
	MergedBy           string // sender.login
	BaseBranch         string
	RepositoryFullName string
}

func (e *PullRequestEvent) Validate() error {
	return ValidateStruct(e,
		Field(&e.Action, Required, In(ActionClosed)),
		Field(&e.Merged, By(mustBeTrue)),
		Field(&e.HTMLURL, Required),
		Field(&e.Number, Min(0)),
		Field(&e.BaseBranch, Required),
		Field(&e.RepositoryFullName, Required, Match(repoFullNameRe)),
	)
}

func mustBeTrue(value interface{}) error {
	if b, ok := value.(bool); !ok || !b {
		return errors.New("must be true")
	}
	return nil
}
