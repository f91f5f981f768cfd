package ignore

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/sumtree/internal/utils"
)

const (
	errorLoadIgnoreFileFormat      = "loading %s from %s: %w"
	errorWalkIgnoreFilesFormat     = "discovering ignore files under %s: %w"
	warningMalformedPatternMessage = "skipping malformed ignore pattern"
)

// LoadFilePatterns reads a single ignore file and returns its raw lines.
// A missing file yields no patterns and no error.
//
// #nosec G304
func LoadFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var patternLines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		patternLines = append(patternLines, scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patternLines, nil
}

// LoadRuleSet aggregates ignore rules for a scan rooted at rootDirectoryPath.
// The root ignore file and every nested ignore file are compiled against the
// directory that contains them, so nested rules only affect their own subtree.
// The provided extraPatterns are compiled last against the scan root and
// therefore take precedence over file rules. Malformed pattern lines are
// logged and dropped.
func LoadRuleSet(rootDirectoryPath string, extraPatterns []string, useGitignore bool, logger *zap.Logger) (*RuleSet, error) {
	var aggregatedRules []Rule

	if useGitignore {
		walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return walkError
			}
			if !directoryEntry.IsDir() {
				return nil
			}
			if _, isStructural := structuralExclusions[directoryEntry.Name()]; isStructural {
				return filepath.SkipDir
			}

			relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
			basePrefix := ""
			if relativeDirectory != "." {
				basePrefix = relativeDirectory
			}

			ignoreFilePath := filepath.Join(currentDirectoryPath, utils.GitIgnoreFileName)
			patternLines, loadError := LoadFilePatterns(ignoreFilePath)
			if loadError != nil {
				return fmt.Errorf(errorLoadIgnoreFileFormat, utils.GitIgnoreFileName, currentDirectoryPath, loadError)
			}
			compiledRules, malformedLines := CompileRules(basePrefix, patternLines)
			for _, malformedLine := range malformedLines {
				logger.Warn(warningMalformedPatternMessage + ": " + malformedLine + " (" + ignoreFilePath + ")")
			}
			aggregatedRules = append(aggregatedRules, compiledRules...)
			return nil
		}

		if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
			return nil, fmt.Errorf(errorWalkIgnoreFilesFormat, rootDirectoryPath, walkError)
		}
	}

	extraRules, malformedExtras := CompileRules("", extraPatterns)
	for _, malformedLine := range malformedExtras {
		logger.Warn(warningMalformedPatternMessage + ": " + malformedLine)
	}
	aggregatedRules = append(aggregatedRules, extraRules...)

	return NewRuleSet(aggregatedRules), nil
}
