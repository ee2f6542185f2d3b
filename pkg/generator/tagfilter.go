package generator

import (
	"fmt"
	"regexp"

	"github.com/oaspipe/sdkgen/pkg/errs"
)

// compileTagFilters compiles the include/exclude regex pattern lists from a client
// configuration, failing as a ConfigError on the first invalid pattern.
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, nil, &errs.ConfigError{Phase: "includeTags", Cause: err}
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, nil, &errs.ConfigError{Phase: "excludeTags", Cause: err}
	}
	return inc, exc, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// shouldIncludeOperation decides tag-filter retention: an operation is retained iff
// at least one of its originalTags matches some include pattern (or no include patterns
// were given at all) AND none of its originalTags matches any exclude pattern.
func shouldIncludeOperation(originalTags []string, include, exclude []*regexp.Regexp) bool {
	if len(include) > 0 {
		matched := false
		for _, tag := range originalTags {
			if tagMatchesAny(tag, include) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, tag := range originalTags {
		if tagMatchesAny(tag, exclude) {
			return false
		}
	}
	return true
}

func tagMatchesAny(tag string, patterns []*regexp.Regexp) bool {
	for _, r := range patterns {
		if r.MatchString(tag) {
			return true
		}
	}
	return false
}
