package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "tarjama"

type account struct {
	name   string
	envVar string
}

// Providers that authenticate with an API key.
var accounts = map[string]account{
	"gemini": {name: "gemini-api-key", envVar: "GEMINI_API_KEY"},
	"openai": {name: "openai-api-key", envVar: "OPENAI_API_KEY"},
}

// Services returns the provider names that take an API key, sorted.
func Services() []string {
	return []string{"gemini", "openai"}
}

func lookup(service string) (account, error) {
	a, ok := accounts[service]
	if !ok {
		return account{}, fmt.Errorf("unknown service %q", service)
	}
	return a, nil
}

// EnvVar returns the environment variable consulted for service.
func EnvVar(service string) string {
	a, err := lookup(service)
	if err != nil {
		return ""
	}
	return a.envVar
}

// GetKey retrieves the API key for a service (gemini or openai).
// If allowEnv is false, environment variables are ignored.
func GetKey(service string, allowEnv bool) (string, string) {
	a, err := lookup(service)
	if err != nil {
		return "", ""
	}

	if key, err := keyring.Get(serviceName, a.name); err == nil && key != "" {
		return strings.TrimSpace(key), "Keychain"
	}

	if allowEnv {
		if key := strings.TrimSpace(os.Getenv(a.envVar)); key != "" {
			return key, "Environment Variable"
		}
	}
	return "", ""
}

// SaveKey saves the key for a service to the OS Keychain.
func SaveKey(service, key string) error {
	a, err := lookup(service)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, a.name, strings.TrimSpace(key))
}

// DeleteKey removes the key for a service from the OS Keychain.
func DeleteKey(service string) error {
	a, err := lookup(service)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, a.name)
}

// GetStatus returns whether a key exists for a service in the keychain.
func GetStatus(service string) bool {
	a, err := lookup(service)
	if err != nil {
		return false
	}
	key, err := keyring.Get(serviceName, a.name)
	return err == nil && key != ""
}

// PromptForAPIKey securely prompts the user for their API key.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey(service string) (string, bool) {
	key := strings.TrimSpace(os.Getenv(EnvVar(service)))
	if key == "" {
		return "", false
	}
	return key, true
}
