// Package builder walks a directory tree, applies ignore rules, and produces
// the summarized node structure.
package builder

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/sumtree/internal/ignore"
	"github.com/temirov/sumtree/internal/summarize"
	"github.com/temirov/sumtree/internal/tokenizer"
	"github.com/temirov/sumtree/internal/types"
	"github.com/temirov/sumtree/internal/utils"
)

const (
	errorAbsolutePathFormat   = "getting absolute path for %s: %w"
	errorReadRootFormat       = "reading scan root %s: %w"
	errorSummarizeFileFormat  = "summarizing %s: %w"
	warningSkipSubdirFormat   = "skipping subdirectory %s: %v"
	warningSkipUnreadableFmt  = "skipping unreadable file %s: %v"
	warningSkipEmptyFormat    = "skipping empty file %s"
	warningSkipBinaryFormat   = "skipping binary file %s"
	warningSkipOversizedFmt   = "skipping %s: %d tokens exceeds the %d token limit"
	warningTokenCountFormat   = "failed to count tokens for %s: %v"
	progressSummarizingFormat = "summarizing %s (%d tokens)"
	reportSummarizedFormat    = "summarized %d files (%d tokens)"
)

// TreeBuilder builds summarized directory trees using configured collaborators.
type TreeBuilder struct {
	RuleSet       *ignore.RuleSet
	Summarizer    summarize.Summarizer
	TokenCounter  tokenizer.Counter
	MaxFileTokens int
	Workers       int
	Logger        *zap.Logger
}

// pendingFile tracks a file node awaiting its summary. Nodes are inserted
// into the tree during the walk, so sibling order is fixed before any
// summarization happens regardless of worker count.
type pendingFile struct {
	node         *types.Node
	relativePath string
	content      string
	tokens       int
}

// Build walks rootDirectoryPath and returns the summarized tree. Unreadable,
// empty, binary, and over-limit files are excluded and logged; directories
// with no surviving descendants are pruned. Any summarization failure aborts
// the build.
func (treeBuilder *TreeBuilder) Build(ctx context.Context, rootDirectoryPath string) (*types.Node, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootNode := types.NewDirectoryNode(filepath.Base(absoluteRootPath))
	var pendingFiles []*pendingFile
	if walkError := treeBuilder.walkDirectory(absoluteRootPath, "", rootNode, &pendingFiles); walkError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, absoluteRootPath, walkError)
	}

	if summarizeError := treeBuilder.summarizePending(ctx, pendingFiles); summarizeError != nil {
		return nil, summarizeError
	}

	totalTokens := 0
	for _, pending := range pendingFiles {
		totalTokens += pending.tokens
	}
	treeBuilder.Logger.Info(fmt.Sprintf(reportSummarizedFormat, len(pendingFiles), totalTokens))
	return rootNode, nil
}

// walkDirectory lists one directory, filters entries through the rule set,
// and recurses depth-first. Children keep the directory-listing order.
func (treeBuilder *TreeBuilder) walkDirectory(directoryPath string, relativePrefix string, parentNode *types.Node, pendingFiles *[]*pendingFile) error {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return readDirectoryError
	}

	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		relativePath := path.Join(relativePrefix, directoryEntry.Name())
		if treeBuilder.RuleSet.Ignored(relativePath, directoryEntry.IsDir()) {
			continue
		}

		if directoryEntry.IsDir() {
			directoryNode := types.NewDirectoryNode(directoryEntry.Name())
			if walkError := treeBuilder.walkDirectory(entryPath, relativePath, directoryNode, pendingFiles); walkError != nil {
				treeBuilder.Logger.Warn(fmt.Sprintf(warningSkipSubdirFormat, entryPath, walkError))
				continue
			}
			if len(directoryNode.Children) > 0 {
				parentNode.AppendChild(directoryNode)
			}
			continue
		}

		pending, eligible := treeBuilder.inspectFile(entryPath, relativePath)
		if !eligible {
			continue
		}
		parentNode.AppendChild(pending.node)
		*pendingFiles = append(*pendingFiles, pending)
	}

	return nil
}

// inspectFile reads a candidate file and decides whether it enters the tree.
func (treeBuilder *TreeBuilder) inspectFile(filePath string, relativePath string) (*pendingFile, bool) {
	fileData, readError := os.ReadFile(filePath)
	if readError != nil {
		treeBuilder.Logger.Warn(fmt.Sprintf(warningSkipUnreadableFmt, relativePath, readError))
		return nil, false
	}
	if len(fileData) == 0 {
		treeBuilder.Logger.Warn(fmt.Sprintf(warningSkipEmptyFormat, relativePath))
		return nil, false
	}
	if utils.IsBinary(fileData) {
		treeBuilder.Logger.Warn(fmt.Sprintf(warningSkipBinaryFormat, relativePath))
		return nil, false
	}

	fileContent := string(fileData)
	tokenCount := 0
	if treeBuilder.TokenCounter != nil {
		countedTokens, countError := treeBuilder.TokenCounter.CountString(fileContent)
		if countError != nil {
			treeBuilder.Logger.Warn(fmt.Sprintf(warningTokenCountFormat, relativePath, countError))
		} else {
			tokenCount = countedTokens
			if treeBuilder.MaxFileTokens > 0 && tokenCount > treeBuilder.MaxFileTokens {
				treeBuilder.Logger.Warn(fmt.Sprintf(warningSkipOversizedFmt, relativePath, tokenCount, treeBuilder.MaxFileTokens))
				return nil, false
			}
		}
	}

	return &pendingFile{
		node:         types.NewFileNode(filepath.Base(filePath), ""),
		relativePath: relativePath,
		content:      fileContent,
		tokens:       tokenCount,
	}, true
}

// summarizePending fills in summaries for every surviving file. With one
// worker the calls run sequentially in listing order; with more workers the
// calls fan out, and results land in the nodes inserted during the walk.
func (treeBuilder *TreeBuilder) summarizePending(ctx context.Context, pendingFiles []*pendingFile) error {
	workerCount := treeBuilder.Workers
	if workerCount < 1 {
		workerCount = 1
	}

	if workerCount == 1 {
		for _, pending := range pendingFiles {
			treeBuilder.Logger.Info(fmt.Sprintf(progressSummarizingFormat, pending.relativePath, pending.tokens))
			summary, summarizeError := treeBuilder.Summarizer.Summarize(ctx, pending.relativePath, pending.content)
			if summarizeError != nil {
				return fmt.Errorf(errorSummarizeFileFormat, pending.relativePath, summarizeError)
			}
			pending.node.Summary = summary
		}
		return nil
	}

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(workerCount)
	for _, pending := range pendingFiles {
		group.Go(func() error {
			treeBuilder.Logger.Info(fmt.Sprintf(progressSummarizingFormat, pending.relativePath, pending.tokens))
			summary, summarizeError := treeBuilder.Summarizer.Summarize(groupContext, pending.relativePath, pending.content)
			if summarizeError != nil {
				return fmt.Errorf(errorSummarizeFileFormat, pending.relativePath, summarizeError)
			}
			pending.node.Summary = summary
			return nil
		})
	}
	return group.Wait()
}
