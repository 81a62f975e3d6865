package menu

import (
	"slices"

	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// matcher is one Include/Exclude condition
type matcher interface {
	match(e *types.LaunchEntry) bool
}

type categoryMatcher string

func (m categoryMatcher) match(e *types.LaunchEntry) bool {
	return slices.Contains(e.Categories, string(m))
}

type filenameMatcher string

func (m filenameMatcher) match(e *types.LaunchEntry) bool {
	return e.ID == string(m)
}

type allMatcher struct{}

func (allMatcher) match(*types.LaunchEntry) bool { return true }

type andMatcher []matcher

func (m andMatcher) match(e *types.LaunchEntry) bool {
	for _, sub := range m {
		if !sub.match(e) {
			return false
		}
	}
	return true
}

type orMatcher []matcher

func (m orMatcher) match(e *types.LaunchEntry) bool {
	for _, sub := range m {
		if sub.match(e) {
			return true
		}
	}
	return false
}

// notMatcher negates the union of its children
type notMatcher []matcher

func (m notMatcher) match(e *types.LaunchEntry) bool {
	return !orMatcher(m).match(e)
}

// rule is an <Include> or <Exclude> element; its children are OR'ed
type rule struct {
	include bool
	match   matcher
}
