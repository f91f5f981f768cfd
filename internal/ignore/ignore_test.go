package ignore_test

import (
	"testing"

	"github.com/temirov/sumtree/internal/ignore"
)

// compileOrFail compiles pattern lines and fails the test on malformed input.
func compileOrFail(testingHandle *testing.T, basePrefix string, patternLines []string) *ignore.RuleSet {
	testingHandle.Helper()
	compiledRules, malformedLines := ignore.CompileRules(basePrefix, patternLines)
	if len(malformedLines) > 0 {
		testingHandle.Fatalf("unexpected malformed lines: %v", malformedLines)
	}
	return ignore.NewRuleSet(compiledRules)
}

// TestRuleSetIgnored verifies matching semantics across pattern shapes.
func TestRuleSetIgnored(testingHandle *testing.T) {
	testCases := []struct {
		name            string
		patternLines    []string
		candidatePath   string
		isDirectory     bool
		expectedIgnored bool
	}{
		{
			name:            "NoRulesKeepsPath",
			patternLines:    nil,
			candidatePath:   "main.go",
			expectedIgnored: false,
		},
		{
			name:            "GlobMatchesBasename",
			patternLines:    []string{"*.log"},
			candidatePath:   "logs/output.log",
			expectedIgnored: true,
		},
		{
			name:            "LastNegationWins",
			patternLines:    []string{"*.log", "!keep.log"},
			candidatePath:   "keep.log",
			expectedIgnored: false,
		},
		{
			name:            "NegationDoesNotAffectOthers",
			patternLines:    []string{"*.log", "!keep.log"},
			candidatePath:   "other.log",
			expectedIgnored: true,
		},
		{
			name:            "LaterRuleOverridesNegation",
			patternLines:    []string{"*.log", "!keep.log", "keep.*"},
			candidatePath:   "keep.log",
			expectedIgnored: true,
		},
		{
			name:            "DirectoryOnlyMatchesDirectory",
			patternLines:    []string{"build/"},
			candidatePath:   "build",
			isDirectory:     true,
			expectedIgnored: true,
		},
		{
			name:            "DirectoryOnlySkipsFile",
			patternLines:    []string{"build/"},
			candidatePath:   "build",
			isDirectory:     false,
			expectedIgnored: false,
		},
		{
			name:            "DirectoryOnlyMatchesNestedDirectory",
			patternLines:    []string{"build/"},
			candidatePath:   "src/build",
			isDirectory:     true,
			expectedIgnored: true,
		},
		{
			name:            "RootedMatchesOnlyAtRoot",
			patternLines:    []string{"/secret.txt"},
			candidatePath:   "secret.txt",
			expectedIgnored: true,
		},
		{
			name:            "RootedSkipsNestedPath",
			patternLines:    []string{"/secret.txt"},
			candidatePath:   "nested/secret.txt",
			expectedIgnored: false,
		},
		{
			name:            "DoubleStarSpansDirectories",
			patternLines:    []string{"docs/**/draft.md"},
			candidatePath:   "docs/a/b/draft.md",
			expectedIgnored: true,
		},
		{
			name:            "DoubleStarMatchesZeroSegments",
			patternLines:    []string{"docs/**/draft.md"},
			candidatePath:   "docs/draft.md",
			expectedIgnored: true,
		},
		{
			name:            "QuestionMarkMatchesSingleCharacter",
			patternLines:    []string{"file?.txt"},
			candidatePath:   "file1.txt",
			expectedIgnored: true,
		},
		{
			name:            "QuestionMarkSkipsLongerName",
			patternLines:    []string{"file?.txt"},
			candidatePath:   "file12.txt",
			expectedIgnored: false,
		},
		{
			name:            "MultiSegmentSuffixMatch",
			patternLines:    []string{"vendor/cache"},
			candidatePath:   "tools/vendor/cache",
			expectedIgnored: true,
		},
		{
			name:            "GitDirectoryAlwaysIgnored",
			patternLines:    nil,
			candidatePath:   ".git/config",
			expectedIgnored: true,
		},
		{
			name:            "GitDirectoryIgnoredDespiteNegation",
			patternLines:    []string{"!.git"},
			candidatePath:   ".git",
			isDirectory:     true,
			expectedIgnored: true,
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			ruleSet := compileOrFail(testingHandle, "", testCase.patternLines)
			actualIgnored := ruleSet.Ignored(testCase.candidatePath, testCase.isDirectory)
			if actualIgnored != testCase.expectedIgnored {
				testingHandle.Fatalf("Ignored(%q, %v) = %v, expected %v",
					testCase.candidatePath, testCase.isDirectory, actualIgnored, testCase.expectedIgnored)
			}
		})
	}
}

// TestRuleSetIgnoredIsIdempotent verifies matching is a pure function of the
// rule source and the candidate path.
func TestRuleSetIgnoredIsIdempotent(testingHandle *testing.T) {
	patternLines := []string{"*.log", "!keep.log", "build/", "docs/**"}
	candidatePaths := []string{"keep.log", "other.log", "build", "docs/a/b.md", "src/main.go"}

	firstRuleSet := compileOrFail(testingHandle, "", patternLines)
	secondRuleSet := compileOrFail(testingHandle, "", patternLines)
	for _, candidatePath := range candidatePaths {
		firstDecision := firstRuleSet.Ignored(candidatePath, false)
		secondDecision := secondRuleSet.Ignored(candidatePath, false)
		repeatedDecision := firstRuleSet.Ignored(candidatePath, false)
		if firstDecision != secondDecision || firstDecision != repeatedDecision {
			testingHandle.Fatalf("decisions for %q diverged across compilations", candidatePath)
		}
	}
}

// TestCompileRules verifies comment handling, base prefixes, and malformed lines.
func TestCompileRules(testingHandle *testing.T) {
	testingHandle.Run("SkipsCommentsAndBlanks", func(testingHandle *testing.T) {
		compiledRules, malformedLines := ignore.CompileRules("", []string{"", "# comment", "*.tmp"})
		if len(malformedLines) > 0 {
			testingHandle.Fatalf("unexpected malformed lines: %v", malformedLines)
		}
		if len(compiledRules) != 1 || compiledRules[0].Pattern != "*.tmp" {
			testingHandle.Fatalf("expected single *.tmp rule, got %+v", compiledRules)
		}
	})

	testingHandle.Run("ReportsMalformedGlob", func(testingHandle *testing.T) {
		compiledRules, malformedLines := ignore.CompileRules("", []string{"[unclosed", "*.tmp"})
		if len(malformedLines) != 1 || malformedLines[0] != "[unclosed" {
			testingHandle.Fatalf("expected one malformed line, got %v", malformedLines)
		}
		if len(compiledRules) != 1 {
			testingHandle.Fatalf("expected the well-formed rule to survive, got %+v", compiledRules)
		}
	})

	testingHandle.Run("BaseScopesRule", func(testingHandle *testing.T) {
		compiledRules, _ := ignore.CompileRules("sub", []string{"*.log"})
		ruleSet := ignore.NewRuleSet(compiledRules)
		if !ruleSet.Ignored("sub/trace.log", false) {
			testingHandle.Fatal("expected rule to apply under its base")
		}
		if ruleSet.Ignored("trace.log", false) {
			testingHandle.Fatal("expected rule not to apply outside its base")
		}
	})
}
