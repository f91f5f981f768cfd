package config

import "os"

// exampleConfigurationContent mirrors the supported configuration keys with
// their defaults filled in.
const exampleConfigurationContent = `# OpenAI API configuration
api_key: "your-api-key-here"
model: "gpt-3.5-turbo"
api_base: "https://api.openai.com/v1"

# Request configuration
max_retries: 3
retry_delay: 5
max_tokens: 500
temperature: 0.3

# Skip files whose content exceeds this token count (0 disables the guard)
max_file_tokens: 0

# Copy this file to config.yaml and fill in your API key.
`

// WriteExampleSettings writes an annotated example configuration file.
func WriteExampleSettings(exampleFilePath string) error {
	return os.WriteFile(exampleFilePath, []byte(exampleConfigurationContent), 0o644)
}
