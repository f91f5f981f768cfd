// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sumtree/internal/builder"
	"github.com/temirov/sumtree/internal/config"
	"github.com/temirov/sumtree/internal/ignore"
	"github.com/temirov/sumtree/internal/output"
	"github.com/temirov/sumtree/internal/services/clipboard"
	"github.com/temirov/sumtree/internal/summarize"
	"github.com/temirov/sumtree/internal/tokenizer"
	"github.com/temirov/sumtree/internal/utils"
)

const (
	rootUse              = "sumtree"
	rootShortDescription = "sumtree command line interface"
	rootLongDescription  = `sumtree summarizes a project's files into a persisted tree.
The scan command walks the directory tree, asks the configured backend for a
short summary of every eligible file, and stores the result as nested JSON.
The render command turns the stored tree into an indented text outline.`

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "sumtree version: %s\n"

	scanUse              = "scan [path]"
	scanAlias            = "s"
	scanShortDescription = "summarize a directory tree (" + scanAlias + ")"
	scanLongDescription  = `Walk a directory, summarize every eligible file, and persist the tree.
Files excluded by ignore rules, binary files, empty files, and unreadable
files are skipped. Any summarization failure aborts the run without writing.`
	scanUsageExample = `  # Summarize the current directory
  sumtree scan

  # Summarize a project, excluding the vendor directory
  sumtree scan -e vendor/ ~/src/project`

	renderUse              = "render"
	renderAlias            = "r"
	renderShortDescription = "render the persisted summary tree (" + renderAlias + ")"
	renderLongDescription  = `Load the persisted summary tree and render it as an indented text outline.`
	renderUsageExample     = `  # Render into code_summary_tree.txt
  sumtree render

  # Print to stdout and copy to the clipboard
  sumtree render --stdout --copy`

	configFlagName           = "config"
	configFlagDescription    = "summarizer configuration file"
	outputFlagName           = "output"
	scanOutputDescription    = "persisted tree file to write"
	renderOutputDescription  = "rendered text file to write"
	inputFlagName            = "input"
	inputFlagDescription     = "persisted tree file to read"
	exclusionFlagName        = "e"
	exclusionFlagDescription = "exclude path pattern"
	noGitignoreFlagName      = "no-gitignore"
	noGitignoreDescription   = "do not use .gitignore files"
	tokensFlagName           = "tokens"
	tokensFlagDescription    = "count tokens per file for progress reporting"
	workersFlagName          = "workers"
	workersFlagDescription   = "concurrent summarization calls"
	stdoutFlagName           = "stdout"
	stdoutFlagDescription    = "print the rendered tree to stdout instead of a file"
	copyFlagName             = "copy"
	copyFlagDescription      = "copy the rendered tree to the clipboard"

	defaultScanPath = "."
	defaultWorkers  = 1

	infoExampleConfigFormat  = "no %s found; wrote %s"
	infoTreeWrittenFormat    = "summary tree written to %s"
	infoRenderWrittenFormat  = "rendered tree written to %s"
	infoCopiedMessage        = "rendered tree copied to clipboard"
	errorScanRootFormat      = "scan root %s: %w"
	errorScanRootNotDirFmt   = "scan root %s is not a directory"
	errorConfigurationFormat = "configuration: %w"
	errorTokenizerFormat     = "initialize tokenizer: %w"
	errorCopyFormat          = "copying rendered tree: %w"
)

// Execute runs the sumtree application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createScanCommand(logger),
		createRenderCommand(logger),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// scanOptions stores flag values for the scan command.
type scanOptions struct {
	configFilePath    string
	treeFilePath      string
	exclusionPatterns []string
	disableGitignore  bool
	countTokens       bool
	workerCount       int
}

// createScanCommand returns the scan subcommand.
func createScanCommand(logger *zap.Logger) *cobra.Command {
	var options scanOptions

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			scanPath := defaultScanPath
			if len(arguments) == 1 {
				scanPath = arguments[0]
			}
			return runScan(logger, scanPath, options)
		},
	}

	scanCommand.Flags().StringVar(&options.configFilePath, configFlagName, utils.ConfigFileName, configFlagDescription)
	scanCommand.Flags().StringVar(&options.treeFilePath, outputFlagName, utils.TreeFileName, scanOutputDescription)
	scanCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	scanCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreDescription)
	scanCommand.Flags().BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	scanCommand.Flags().IntVar(&options.workerCount, workersFlagName, defaultWorkers, workersFlagDescription)
	return scanCommand
}

// renderOptions stores flag values for the render command.
type renderOptions struct {
	treeFilePath     string
	renderedFilePath string
	printToStdout    bool
	copyToClipboard  bool
}

// createRenderCommand returns the render subcommand.
func createRenderCommand(logger *zap.Logger) *cobra.Command {
	var options renderOptions

	renderCommand := &cobra.Command{
		Use:     renderUse,
		Aliases: []string{renderAlias},
		Short:   renderShortDescription,
		Long:    renderLongDescription,
		Example: renderUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runRender(logger, options)
		},
	}

	renderCommand.Flags().StringVar(&options.treeFilePath, inputFlagName, utils.TreeFileName, inputFlagDescription)
	renderCommand.Flags().StringVar(&options.renderedFilePath, outputFlagName, utils.RenderedFileName, renderOutputDescription)
	renderCommand.Flags().BoolVar(&options.printToStdout, stdoutFlagName, false, stdoutFlagDescription)
	renderCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	return renderCommand
}

// runScan builds the summary tree and persists it.
func runScan(logger *zap.Logger, scanPath string, options scanOptions) error {
	settings, configFileFound, settingsError := config.LoadSettings(options.configFilePath)
	if settingsError != nil {
		return fmt.Errorf(errorConfigurationFormat, settingsError)
	}
	if !configFileFound && options.configFilePath == utils.ConfigFileName {
		if _, statError := os.Stat(utils.ExampleConfigFileName); os.IsNotExist(statError) {
			if exampleError := config.WriteExampleSettings(utils.ExampleConfigFileName); exampleError == nil {
				logger.Info(fmt.Sprintf(infoExampleConfigFormat, utils.ConfigFileName, utils.ExampleConfigFileName))
			}
		}
	}
	if validationError := settings.Validate(); validationError != nil {
		return fmt.Errorf(errorConfigurationFormat, validationError)
	}

	absoluteScanPath, absoluteError := filepath.Abs(scanPath)
	if absoluteError != nil {
		return fmt.Errorf(errorScanRootFormat, scanPath, absoluteError)
	}
	scanInfo, statError := os.Stat(absoluteScanPath)
	if statError != nil {
		return fmt.Errorf(errorScanRootFormat, scanPath, statError)
	}
	if !scanInfo.IsDir() {
		return fmt.Errorf(errorScanRootNotDirFmt, absoluteScanPath)
	}

	ruleSet, ruleSetError := ignore.LoadRuleSet(absoluteScanPath, options.exclusionPatterns, !options.disableGitignore, logger)
	if ruleSetError != nil {
		return ruleSetError
	}

	var tokenCounter tokenizer.Counter
	if options.countTokens || settings.MaxFileTokens > 0 {
		counter, counterError := tokenizer.NewCounter(settings.Model)
		if counterError != nil {
			return fmt.Errorf(errorTokenizerFormat, counterError)
		}
		tokenCounter = counter
	}

	treeBuilder := &builder.TreeBuilder{
		RuleSet:       ruleSet,
		Summarizer:    summarize.NewClient(settings),
		TokenCounter:  tokenCounter,
		MaxFileTokens: settings.MaxFileTokens,
		Workers:       options.workerCount,
		Logger:        logger,
	}
	rootNode, buildError := treeBuilder.Build(context.Background(), absoluteScanPath)
	if buildError != nil {
		return buildError
	}

	if writeError := output.WriteTreeFile(options.treeFilePath, rootNode); writeError != nil {
		return writeError
	}
	logger.Info(fmt.Sprintf(infoTreeWrittenFormat, options.treeFilePath))
	return nil
}

// runRender loads the persisted tree and renders it.
func runRender(logger *zap.Logger, options renderOptions) error {
	rootNode, loadError := output.LoadTreeFile(options.treeFilePath)
	if loadError != nil {
		return loadError
	}

	renderedText := output.RenderText(rootNode)
	if options.printToStdout {
		fmt.Print(renderedText)
	} else {
		if writeError := os.WriteFile(options.renderedFilePath, []byte(renderedText), 0o644); writeError != nil {
			return writeError
		}
		logger.Info(fmt.Sprintf(infoRenderWrittenFormat, options.renderedFilePath))
	}

	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(renderedText); copyError != nil {
			return fmt.Errorf(errorCopyFormat, copyError)
		}
		logger.Info(infoCopiedMessage)
	}
	return nil
}
