package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names read by every entry point.
const (
	EnvAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAzureDeployment = "AZURE_OPENAI_DEPLOYMENT_NAME"
	EnvAzureAPIVersion = "AZURE_OPENAI_API_VERSION"
	EnvAzureAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvMongoURI        = "MONGODB_ATLAS_CLUSTER_URI"
)

// defaultHTTPPort is the chat UI listen port when CHATBOT_PORT is unset.
const defaultHTTPPort = 7860

// Config holds the process configuration, read once at startup and never mutated.
type Config struct {
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIVersion string
	AzureAPIKey     string
	MongoURI        string

	HTTPPort int
	LogLevel string
}

// SecretPrompter obtains a secret interactively. Passing nil to Load makes the
// API key a hard requirement; long-running processes have no terminal to
// prompt on and must fail fast instead.
type SecretPrompter func(prompt string) (string, error)

// MissingKeysError reports every absent required environment variable at once.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

// Load reads configuration from the environment. All required keys are
// validated up front and reported together; nothing touches the network here.
// When the API key is absent and a prompter is supplied, it is asked exactly
// once after the rest of the configuration validates.
func Load(prompt SecretPrompter) (Config, error) {
	cfg := Config{
		AzureEndpoint:   os.Getenv(EnvAzureEndpoint),
		AzureDeployment: os.Getenv(EnvAzureDeployment),
		AzureAPIVersion: os.Getenv(EnvAzureAPIVersion),
		AzureAPIKey:     os.Getenv(EnvAzureAPIKey),
		MongoURI:        os.Getenv(EnvMongoURI),
		HTTPPort:        defaultHTTPPort,
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}

	var missing []string
	for _, req := range []struct {
		key, val string
	}{
		{EnvAzureEndpoint, cfg.AzureEndpoint},
		{EnvAzureDeployment, cfg.AzureDeployment},
		{EnvAzureAPIVersion, cfg.AzureAPIVersion},
		{EnvMongoURI, cfg.MongoURI},
	} {
		if req.val == "" {
			missing = append(missing, req.key)
		}
	}
	if cfg.AzureAPIKey == "" && prompt == nil {
		missing = append(missing, EnvAzureAPIKey)
	}
	if len(missing) > 0 {
		return Config{}, &MissingKeysError{Keys: missing}
	}

	if cfg.AzureAPIKey == "" {
		key, err := prompt("Enter API key for Azure: ")
		if err != nil {
			return Config{}, fmt.Errorf("read API key: %w", err)
		}
		if key == "" {
			return Config{}, &MissingKeysError{Keys: []string{EnvAzureAPIKey}}
		}
		cfg.AzureAPIKey = key
	}

	if port := os.Getenv("CHATBOT_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return Config{}, fmt.Errorf("CHATBOT_PORT must be a port number, got %q", port)
		}
		cfg.HTTPPort = p
	}

	return cfg, nil
}

// Env returns the current environment from the ENV variable, defaulting to "local".
func Env() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// StdinPrompter reads a secret from standard input, echoing the prompt to stderr.
func StdinPrompter(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
