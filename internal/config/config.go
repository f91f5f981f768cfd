// Package config resolves summarizer settings from the environment and an
// optional YAML configuration file. Resolution happens once per run and
// produces an immutable Settings value passed explicitly to collaborators.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

const (
	defaultModel         = "gpt-3.5-turbo"
	defaultAPIBase       = "https://api.openai.com/v1"
	defaultMaxRetries    = 3
	defaultRetryDelay    = 5
	defaultMaxTokens     = 500
	defaultTemperature   = 0.3
	defaultMaxFileTokens = 0

	apiKeyEnvironmentVariable        = "OPENAI_API_KEY"
	modelEnvironmentVariable         = "MODEL_NAME"
	apiBaseEnvironmentVariable       = "API_BASE"
	maxRetriesEnvironmentVariable    = "MAX_RETRIES"
	retryDelayEnvironmentVariable    = "RETRY_DELAY"
	maxTokensEnvironmentVariable     = "MAX_TOKENS"
	temperatureEnvironmentVariable   = "TEMPERATURE"
	maxFileTokensEnvironmentVariable = "MAX_FILE_TOKENS"

	errorStatConfigurationFormat   = "stat configuration %s: %w"
	errorReadConfigurationFormat   = "read configuration from %s: %w"
	errorDecodeConfigurationFormat = "decode configuration from %s: %w"
	errorDirectoryConfigurationFmt = "configuration path %s is a directory"
)

// ErrMissingAPIKey signals that no API key was supplied through the
// configuration file or the environment.
var ErrMissingAPIKey = errors.New("api_key is not set; provide it in " +
	"config.yaml or via the " + apiKeyEnvironmentVariable + " environment variable")

// Settings holds the resolved summarizer configuration.
type Settings struct {
	APIKey        string  `mapstructure:"api_key"`
	Model         string  `mapstructure:"model"`
	APIBase       string  `mapstructure:"api_base"`
	MaxRetries    int     `mapstructure:"max_retries"`
	RetryDelay    int     `mapstructure:"retry_delay"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxFileTokens int     `mapstructure:"max_file_tokens"`
}

// LoadSettings resolves settings by overlaying the configuration file at
// configFilePath onto environment-derived defaults. fileFound reports whether
// a configuration file was read.
func LoadSettings(configFilePath string) (settings Settings, fileFound bool, loadError error) {
	settings = settingsFromEnvironment()

	fileSettings, fileFound, loadError := loadSettingsFromPath(configFilePath)
	if loadError != nil {
		return Settings{}, false, loadError
	}
	if fileFound {
		settings = settings.Merge(fileSettings)
	}
	return settings, fileFound, nil
}

// Validate reports whether the settings are complete enough to start a run.
func (settings Settings) Validate() error {
	if settings.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Merge overlays every non-zero field of override onto the receiver.
func (settings Settings) Merge(override Settings) Settings {
	result := settings
	if override.APIKey != "" {
		result.APIKey = override.APIKey
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.APIBase != "" {
		result.APIBase = override.APIBase
	}
	if override.MaxRetries != 0 {
		result.MaxRetries = override.MaxRetries
	}
	if override.RetryDelay != 0 {
		result.RetryDelay = override.RetryDelay
	}
	if override.MaxTokens != 0 {
		result.MaxTokens = override.MaxTokens
	}
	if override.Temperature != 0 {
		result.Temperature = override.Temperature
	}
	if override.MaxFileTokens != 0 {
		result.MaxFileTokens = override.MaxFileTokens
	}
	return result
}

// settingsFromEnvironment builds settings from environment variables with
// built-in defaults for everything except the API key.
func settingsFromEnvironment() Settings {
	return Settings{
		APIKey:        os.Getenv(apiKeyEnvironmentVariable),
		Model:         environmentOrDefault(modelEnvironmentVariable, defaultModel),
		APIBase:       environmentOrDefault(apiBaseEnvironmentVariable, defaultAPIBase),
		MaxRetries:    environmentIntOrDefault(maxRetriesEnvironmentVariable, defaultMaxRetries),
		RetryDelay:    environmentIntOrDefault(retryDelayEnvironmentVariable, defaultRetryDelay),
		MaxTokens:     environmentIntOrDefault(maxTokensEnvironmentVariable, defaultMaxTokens),
		Temperature:   environmentFloatOrDefault(temperatureEnvironmentVariable, defaultTemperature),
		MaxFileTokens: environmentIntOrDefault(maxFileTokensEnvironmentVariable, defaultMaxFileTokens),
	}
}

// loadSettingsFromPath reads a YAML configuration file through viper.
// A missing file is not an error.
func loadSettingsFromPath(configFilePath string) (Settings, bool, error) {
	if configFilePath == "" {
		return Settings{}, false, nil
	}
	fileInformation, statError := os.Stat(configFilePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return Settings{}, false, nil
		}
		return Settings{}, false, fmt.Errorf(errorStatConfigurationFormat, configFilePath, statError)
	}
	if fileInformation.IsDir() {
		return Settings{}, false, fmt.Errorf(errorDirectoryConfigurationFmt, configFilePath)
	}

	reader := viper.New()
	reader.SetConfigFile(configFilePath)
	reader.SetConfigType("yaml")
	if readError := reader.ReadInConfig(); readError != nil {
		return Settings{}, false, fmt.Errorf(errorReadConfigurationFormat, configFilePath, readError)
	}
	var fileSettings Settings
	if decodeError := reader.Unmarshal(&fileSettings); decodeError != nil {
		return Settings{}, false, fmt.Errorf(errorDecodeConfigurationFormat, configFilePath, decodeError)
	}
	return fileSettings, true, nil
}

func environmentOrDefault(variableName string, defaultValue string) string {
	if value := os.Getenv(variableName); value != "" {
		return value
	}
	return defaultValue
}

func environmentIntOrDefault(variableName string, defaultValue int) int {
	if value := os.Getenv(variableName); value != "" {
		if parsed, parseError := strconv.Atoi(value); parseError == nil {
			return parsed
		}
	}
	return defaultValue
}

func environmentFloatOrDefault(variableName string, defaultValue float64) float64 {
	if value := os.Getenv(variableName); value != "" {
		if parsed, parseError := strconv.ParseFloat(value, 64); parseError == nil {
			return parsed
		}
	}
	return defaultValue
}
