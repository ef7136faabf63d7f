package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config carries environment-driven defaults for the CLI. Flags override
// every setting; values stay strings and are converted where used.
type Config struct {
	LogLevel   string
	Output     string
	SnippetLen string
	OrgDomain  string
}

func getEnv(key, defaultValue string, printEnv bool) string {
	logger := log.Default()
	value := os.Getenv(key)
	if printEnv {
		logger.Info("Env", "key", key, "value", value)
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func LoadConfig(printEnv bool) (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{
		LogLevel:   getEnv("THREADLOOM_LOG_LEVEL", "info", printEnv),
		Output:     getEnv("THREADLOOM_OUTPUT", "", printEnv),
		SnippetLen: getEnv("THREADLOOM_SNIPPET_LEN", "", printEnv),
		OrgDomain:  getEnv("THREADLOOM_ORG_DOMAIN", "", printEnv),
	}

	return conf, nil
}
