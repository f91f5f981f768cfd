// Package ignore compiles ignore-pattern files into rule sets consulted during traversal.
package ignore

import (
	"path/filepath"
	"strings"
)

const (
	commentPrefix        = "#"
	negationPrefix       = "!"
	pathSegmentSeparator = "/"
	doubleStarSegment    = "**"
)

// structuralExclusions lists version-control metadata directories that are
// ignored unconditionally regardless of pattern file contents.
var structuralExclusions = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
}

// Rule is one compiled ignore pattern. Base holds the forward-slash relative
// path of the directory whose ignore file supplied the pattern; rules only
// apply to paths under their base.
type Rule struct {
	Pattern  string
	Base     string
	Negated  bool
	DirOnly  bool
	Rooted   bool
	segments []string
}

// RuleSet is an ordered, immutable sequence of compiled rules. The last
// matching rule decides whether a path is ignored.
type RuleSet struct {
	rules []Rule
}

// CompileRules parses pattern lines into rules applied relative to basePrefix.
// Blank lines and comment lines are skipped. Lines whose glob syntax is
// malformed are dropped and returned so the caller can report them.
func CompileRules(basePrefix string, patternLines []string) ([]Rule, []string) {
	var compiledRules []Rule
	var malformedLines []string

	normalizedBase := strings.Trim(filepath.ToSlash(basePrefix), pathSegmentSeparator)
	if normalizedBase == "." {
		normalizedBase = ""
	}

	for _, patternLine := range patternLines {
		trimmedLine := strings.TrimSpace(patternLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}

		rule := Rule{Base: normalizedBase}
		if strings.HasPrefix(trimmedLine, negationPrefix) {
			rule.Negated = true
			trimmedLine = strings.TrimPrefix(trimmedLine, negationPrefix)
		}
		if strings.HasSuffix(trimmedLine, pathSegmentSeparator) {
			rule.DirOnly = true
			trimmedLine = strings.TrimSuffix(trimmedLine, pathSegmentSeparator)
		}
		if strings.HasPrefix(trimmedLine, pathSegmentSeparator) {
			rule.Rooted = true
			trimmedLine = strings.TrimPrefix(trimmedLine, pathSegmentSeparator)
		}
		if trimmedLine == "" {
			continue
		}

		rule.Pattern = trimmedLine
		rule.segments = strings.Split(trimmedLine, pathSegmentSeparator)
		if !segmentsWellFormed(rule.segments) {
			malformedLines = append(malformedLines, patternLine)
			continue
		}
		compiledRules = append(compiledRules, rule)
	}

	return compiledRules, malformedLines
}

// NewRuleSet wraps compiled rules into an immutable rule set.
func NewRuleSet(rules []Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Ignored reports whether the forward-slash relative path is excluded from the
// scan. Later rules override earlier ones; a negated last match keeps the path.
func (ruleSet *RuleSet) Ignored(relativePath string, isDirectory bool) bool {
	normalizedPath := strings.Trim(filepath.ToSlash(relativePath), pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, pathSegment := range pathSegments {
		if _, isStructural := structuralExclusions[pathSegment]; isStructural {
			return true
		}
	}

	ignored := false
	for _, rule := range ruleSet.rules {
		if rule.matches(pathSegments, isDirectory) {
			ignored = !rule.Negated
		}
	}
	return ignored
}

// matches reports whether the rule applies to the path represented by its segments.
func (rule Rule) matches(pathSegments []string, isDirectory bool) bool {
	if rule.DirOnly && !isDirectory {
		return false
	}

	remainingSegments := pathSegments
	if rule.Base != "" {
		baseSegments := strings.Split(rule.Base, pathSegmentSeparator)
		if len(pathSegments) <= len(baseSegments) {
			return false
		}
		for segmentIndex, baseSegment := range baseSegments {
			if pathSegments[segmentIndex] != baseSegment {
				return false
			}
		}
		remainingSegments = pathSegments[len(baseSegments):]
	}

	if rule.Rooted {
		return matchSegments(rule.segments, remainingSegments)
	}
	for startIndex := range remainingSegments {
		if matchSegments(rule.segments, remainingSegments[startIndex:]) {
			return true
		}
	}
	return false
}

// matchSegments matches pattern segments against path segments. A "**"
// segment consumes zero or more path segments; every other segment is
// evaluated with filepath.Match semantics. Both sides must be fully consumed.
func matchSegments(patternSegments []string, pathSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}
	if patternSegments[0] == doubleStarSegment {
		for skipCount := 0; skipCount <= len(pathSegments); skipCount++ {
			if matchSegments(patternSegments[1:], pathSegments[skipCount:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 {
		return false
	}
	isMatched, matchError := filepath.Match(patternSegments[0], pathSegments[0])
	if matchError != nil || !isMatched {
		return false
	}
	return matchSegments(patternSegments[1:], pathSegments[1:])
}

// segmentsWellFormed validates every non-"**" segment against filepath.Match.
func segmentsWellFormed(patternSegments []string) bool {
	for _, patternSegment := range patternSegments {
		if patternSegment == doubleStarSegment {
			continue
		}
		if _, matchError := filepath.Match(patternSegment, ""); matchError != nil {
			return false
		}
	}
	return true
}
