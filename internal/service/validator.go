package service

import (
	"encoding/json"
	"fmt"
	"github.com/flowglad/pr-relay/internal/domain"
	"math"
)

// ValidateEvent turns an untrusted decoded webhook body into a
// PullRequestEvent. It returns domain.ErrNotMergedPR when the body is not a
// closed and merged pull request and domain.ErrMalformedEvent when it is, but
// one of the fields the relay needs is missing or has the wrong type.
func ValidateEvent(raw any) (*domain.PullRequestEvent, error) {
	body, ok := raw.(map[string]any)
	if !ok || body == nil {
		return nil, domain.ErrNotMergedPR
	}

	if action, ok := body["action"].(string); !ok || action != domain.ActionClosed {
		return nil, domain.ErrNotMergedPR
	}

	pr, ok := body["pull_request"].(map[string]any)
	if !ok {
		return nil, domain.ErrNotMergedPR
	}

	if merged, ok := pr["merged"].(bool); !ok || !merged {
		return nil, domain.ErrNotMergedPR
	}

	htmlURL, ok := pr["html_url"].(string)
	if !ok {
		return nil, domain.ErrNotMergedPR
	}

	// past this point the delivery is a merged PR, so anything missing is a
	// malformed payload rather than an uninteresting one
	title, err := stringAt(pr, "pull_request.title", "title")
	if err != nil {
		return nil, err
	}
	number, err := intAt(pr, "pull_request.number", "number")
	if err != nil {
		return nil, err
	}
	openedBy, err := stringAt(pr, "pull_request.user.login", "user", "login")
	if err != nil {
		return nil, err
	}
	baseBranch, err := stringAt(pr, "pull_request.base.ref", "base", "ref")
	if err != nil {
		return nil, err
	}
	repoFullName, err := stringAt(body, "repository.full_name", "repository", "full_name")
	if err != nil {
		return nil, err
	}
	mergedBy, err := stringAt(body, "sender.login", "sender", "login")
	if err != nil {
		return nil, err
	}

	event := &domain.PullRequestEvent{
		Action:             domain.ActionClosed,
		Merged:             true,
		HTMLURL:            htmlURL,
		Title:              title,
		Number:             number,
		OpenedBy:           openedBy,
		MergedBy:           mergedBy,
		BaseBranch:         baseBranch,
		RepositoryFullName: repoFullName,
	}

	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}

	return event, nil
}

func lookup(obj map[string]any, path string, keys ...string) (any, error) {
	var cur any = obj
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing", domain.ErrMalformedEvent, path)
		}
		cur, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing", domain.ErrMalformedEvent, path)
		}
	}
	return cur, nil
}

func stringAt(obj map[string]any, path string, keys ...string) (string, error) {
	v, err := lookup(obj, path, keys...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", domain.ErrMalformedEvent, path)
	}
	return s, nil
}

// intAt accepts both json.Number (decoder with UseNumber) and float64
// (plain json.Unmarshal) as long as the value is integral.
func intAt(obj map[string]any, path string, keys ...string) (int, error) {
	v, err := lookup(obj, path, keys...)
	if err != nil {
		return 0, err
	}

	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrMalformedEvent, path)
		}
		return int(i), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrMalformedEvent, path)
		}
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrMalformedEvent, path)
	}
}
