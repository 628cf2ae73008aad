package service

import (
	"fmt"
	"github.com/flowglad/pr-relay/internal/domain"
	"strings"
	"time"
)

const (
	githubBaseURL = "https://github.com"

	notificationColor  = 0x00ff99
	notificationFooter = "Flowglad PR updates • Built by ir3stless"

	// discord renders an empty-looking field for a zero width space
	zeroWidthSpace = "\u200b"
	linkSeparator  = " · "
)

// PullRequestLinks are the GitHub pages a merged PR notification points at.
type PullRequestLinks struct {
	PullRequest   string
	FilesChanged  string
	Commits       string
	BranchCommits string
}

func BuildLinks(event *domain.PullRequestEvent) PullRequestLinks {
	return PullRequestLinks{
		PullRequest:   event.HTMLURL,
		FilesChanged:  event.HTMLURL + "/files",
		Commits:       event.HTMLURL + "/commits",
		BranchCommits: fmt.Sprintf("%s/%s/commits/%s", githubBaseURL, event.RepositoryFullName, event.BaseBranch),
	}
}

type Formatter struct {
	now func() time.Time
}

// NewFormatter returns a formatter stamping messages with now(). A nil clock
// means time.Now.
func NewFormatter(now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}
	return &Formatter{now: now}
}

// Format renders a merged pull request. The timestamp is the formatting
// instant because the webhook does not carry the merge time.
func (f *Formatter) Format(event *domain.PullRequestEvent) *domain.Notification {
	links := BuildLinks(event)

	github := strings.Join([]string{
		fmt.Sprintf("[View PR](%s)", links.PullRequest),
		fmt.Sprintf("[Files changed](%s)", links.FilesChanged),
		fmt.Sprintf("[Commits in PR](%s)", links.Commits),
		fmt.Sprintf("[Recent commits on %s](%s)", event.BaseBranch, links.BranchCommits),
	}, linkSeparator)

	return &domain.Notification{
		Title: fmt.Sprintf("✅ PR merged: %s", event.Title),
		URL:   links.PullRequest,
		Color: notificationColor,
		Fields: []domain.NotificationField{
			{Name: "Repo", Value: code(event.RepositoryFullName), Inline: true},
			{Name: "PR #", Value: fmt.Sprintf("#%d", event.Number), Inline: true},
			{Name: "Branch", Value: code(event.BaseBranch), Inline: true},
			{Name: zeroWidthSpace, Value: zeroWidthSpace, Inline: false},
			{Name: "Opened by", Value: code(event.OpenedBy), Inline: true},
			{Name: "Merged by", Value: code(event.MergedBy), Inline: true},
			{Name: "GitHub", Value: github, Inline: false},
		},
		Footer:    notificationFooter,
		Timestamp: f.now(),
	}
}

func code(s string) string {
	return "`" + s + "`"
}
