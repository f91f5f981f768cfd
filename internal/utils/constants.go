package utils

// Well-known file names shared across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// ConfigFileName is the default summarizer configuration file.
	ConfigFileName = "config.yaml"
	// ExampleConfigFileName is written when no configuration file exists.
	ExampleConfigFileName = "config.yaml.example"
	// TreeFileName is the default persisted summary tree document.
	TreeFileName = "code_summary_tree.json"
	// RenderedFileName is the default rendered text tree.
	RenderedFileName = "code_summary_tree.txt"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
